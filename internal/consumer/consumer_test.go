package consumer

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Benny93/owlrdf-go/internal/metrics"
	"github.com/Benny93/owlrdf-go/internal/owl"
	"github.com/Benny93/owlrdf-go/internal/rdf"
	"github.com/Benny93/owlrdf-go/internal/vocab"
)

const document = `# people
<http://ex.org/onto> <http://www.w3.org/1999/02/22-rdf-syntax-ns#type> <http://www.w3.org/2002/07/owl#Ontology> .
<http://ex.org/Person> <http://www.w3.org/1999/02/22-rdf-syntax-ns#type> <http://www.w3.org/2002/07/owl#Class> .
<http://ex.org/Person> <http://www.w3.org/2000/01/rdf-schema#label> "Person"@en .
<http://ex.org/hasChild> <http://www.w3.org/1999/02/22-rdf-syntax-ns#type> <http://www.w3.org/2002/07/owl#ObjectProperty> .
<http://ex.org/age> <http://www.w3.org/1999/02/22-rdf-syntax-ns#type> <http://www.w3.org/2002/07/owl#DatatypeProperty> .
<http://ex.org/age> <http://www.w3.org/2000/01/rdf-schema#range> <http://www.w3.org/2001/XMLSchema#integer> .
<http://ex.org/hasChild> <http://www.w3.org/2000/01/rdf-schema#domain> <http://ex.org/Person> .
<http://ex.org/Parent> <http://www.w3.org/2000/01/rdf-schema#subClassOf> _:r .
_:r <http://www.w3.org/2002/07/owl#minCardinality> "1"^^<http://www.w3.org/2001/XMLSchema#nonNegativeInteger> .
_:r <http://www.w3.org/2002/07/owl#onProperty> <http://ex.org/hasChild> .
_:r <http://www.w3.org/1999/02/22-rdf-syntax-ns#type> <http://www.w3.org/2002/07/owl#Restriction> .
<http://ex.org/alice> <http://www.w3.org/1999/02/22-rdf-syntax-ns#type> <http://ex.org/Parent> .
<http://ex.org/alice> <http://ex.org/customProp> "x" .
`

func TestParse_Document(t *testing.T) {
	t.Parallel()

	res, err := Parse(context.Background(), DefaultRegistry(v2), rdf.NewReader(strings.NewReader(document)))
	require.NoError(t, err)

	assert.Empty(t, res.Warnings)
	assert.Equal(t, ex+"onto", res.Ontology.IRI())
	require.Len(t, res.Unparsed, 1)
	assert.Equal(t, ex+"customProp", res.Unparsed[0].Predicate)

	var got []string
	for _, ax := range res.Ontology.Axioms() {
		got = append(got, ax.String())
	}
	assert.ElementsMatch(t, []string{
		"Declaration(Class(<http://ex.org/Person>))",
		`AnnotationAssertion(<http://www.w3.org/2000/01/rdf-schema#label> <http://ex.org/Person> "Person"@en)`,
		"Declaration(ObjectProperty(<http://ex.org/hasChild>))",
		"Declaration(DataProperty(<http://ex.org/age>))",
		"ClassAssertion(<http://ex.org/Parent> <http://ex.org/alice>)",
		"DataPropertyRange(<http://ex.org/age> <http://www.w3.org/2001/XMLSchema#integer>)",
		"ObjectPropertyDomain(<http://ex.org/hasChild> <http://ex.org/Person>)",
		"SubClassOf(<http://ex.org/Parent> ObjectMinCardinality(1 <http://ex.org/hasChild>))",
	}, got)
}

func TestParse_Cancelled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res, err := Parse(ctx, DefaultRegistry(v2), rdf.NewReader(strings.NewReader(document)))

	assert.ErrorIs(t, err, context.Canceled)
	assert.Nil(t, res)
}

type failingSource struct{ err error }

func (s failingSource) Read() (rdf.Triple, error) { return rdf.Triple{}, s.err }

func TestParse_SourceError(t *testing.T) {
	t.Parallel()

	boom := errors.New("boom")
	_, err := Parse(context.Background(), DefaultRegistry(v2), failingSource{err: boom})

	assert.ErrorIs(t, err, boom)
}

func TestConsumer_UnknownPredicateIsUnparsed(t *testing.T) {
	t.Parallel()

	custom := rdf.NewTriple(iri("x"), ex+"customProp", iri("y"))
	c := newTestConsumer(t, custom)

	assert.Empty(t, c.Resolve())
	assert.True(t, c.Store().Contains(custom))

	res := c.Finish()
	assert.Equal(t, []rdf.Triple{custom}, res.Unparsed)
	assert.Empty(t, res.Warnings)
}

func TestConsumer_UnmatchedPredicateWarns(t *testing.T) {
	t.Parallel()

	// rdfs:domain on a property with no declared kind: the predicate has
	// handlers, none of which applies.
	dangling := rdf.NewTriple(iri("p"), v2.Domain, iri("A"))
	c := newTestConsumer(t, dangling)

	res := c.Finish()

	assert.Empty(t, res.Unparsed)
	require.Len(t, res.Warnings, 1)
	w := res.Warnings[0]
	assert.Equal(t, WarningUnmatchedPredicate, w.Kind)
	assert.Equal(t, dangling, w.Triple)
	assert.Equal(t, iri("p"), w.Node)
	assert.ErrorIs(t, w.Err, ErrUnmatchedPredicate)
}

func TestConsumer_ResolveIsIdempotent(t *testing.T) {
	t.Parallel()

	b := rdf.Blank("b")
	c := newTestConsumer(t, restrictionTriples(b,
		rdf.NewTriple(b, v2.OnProperty, iri("P")),
		rdf.NewTriple(b, v2.Cardinality, rdf.Literal("x")),
		rdf.NewTriple(iri("A"), v2.SubClassOf, b),
	)...)

	first := c.Resolve()
	require.Len(t, first, 1)
	axioms := c.ontology.Len()
	remaining := c.Store().Remaining()

	assert.Empty(t, c.Resolve())
	assert.Equal(t, axioms, c.ontology.Len())
	assert.Equal(t, remaining, c.Store().Remaining())
}

func TestConsumer_FinishIsIdempotent(t *testing.T) {
	t.Parallel()

	c := newTestConsumer(t, rdf.NewTriple(iri("p"), v2.Range, iri("A")))

	first := c.Finish()
	second := c.Finish()

	assert.Same(t, first, second)
	assert.Len(t, second.Warnings, 1)
	assert.ErrorIs(t, c.AddTriple(rdf.NewTriple(iri("a"), v2.SubClassOf, iri("b"))), ErrFinished)
}

func TestConsumer_StreamingConsumesEagerly(t *testing.T) {
	t.Parallel()

	c := newTestConsumer(t,
		rdf.NewTriple(iri("A"), v2.SubClassOf, iri("B")),
		rdf.NewTriple(iri("A"), v2.RDFType, rdf.IRI(v2.Class)),
		rdf.NewTriple(iri("a"), v2.RDFType, iri("A")),
		rdf.NewTriple(iri("A"), v2.Comment, rdf.Literal("a class")),
		rdf.NewTriple(iri("p"), v2.InverseOf, iri("q")),
	)

	assert.Equal(t, 0, c.Store().Len())
	assert.Equal(t, 5, c.ontology.Len())
	assert.True(t, c.ontology.Contains(&owl.InverseObjectProperties{
		First:  &owl.ObjectProperty{IRI: ex + "p"},
		Second: &owl.ObjectProperty{IRI: ex + "q"},
	}))
}

func TestConsumer_PropertyAxioms(t *testing.T) {
	t.Parallel()

	c := newTestConsumer(t,
		rdf.NewTriple(iri("p"), v2.SubPropertyOf, iri("q")),
		rdf.NewTriple(iri("p"), v2.Range, rdf.Blank("u")),
		rdf.NewTriple(rdf.Blank("u"), v2.UnionOf, rdf.Blank("l")),
		rdf.NewTriple(rdf.Blank("l"), v2.RDFFirst, iri("A")),
		rdf.NewTriple(rdf.Blank("l"), v2.RDFRest, rdf.IRI(v2.RDFNil)),
		rdf.NewTriple(iri("d"), v2.Domain, iri("A")),
		// Declarations arrive last; resolution still sees them.
		rdf.NewTriple(iri("p"), v2.RDFType, rdf.IRI(v2.ObjectProperty)),
		rdf.NewTriple(iri("d"), v2.RDFType, rdf.IRI(v2.DatatypeProperty)),
	)

	res := c.Finish()

	require.Empty(t, res.Warnings)
	assert.Empty(t, res.Unparsed)
	assert.True(t, res.Ontology.Contains(&owl.SubObjectPropertyOf{
		Sub:   &owl.ObjectProperty{IRI: ex + "p"},
		Super: &owl.ObjectProperty{IRI: ex + "q"},
	}))
	assert.True(t, res.Ontology.Contains(&owl.ObjectPropertyRange{
		Property: &owl.ObjectProperty{IRI: ex + "p"},
		Range:    &owl.ObjectUnionOf{Operands: []owl.ClassExpression{&owl.Class{IRI: ex + "A"}}},
	}))
	assert.True(t, res.Ontology.Contains(&owl.DataPropertyDomain{
		Property: &owl.DataProperty{IRI: ex + "d"},
		Domain:   &owl.Class{IRI: ex + "A"},
	}))
}

func TestConsumer_PropertyCharacteristicsAndDeclarations(t *testing.T) {
	t.Parallel()

	c := newTestConsumer(t,
		rdf.NewTriple(iri("p"), v2.RDFType, rdf.IRI(v2.TransitiveProperty)),
		rdf.NewTriple(iri("p"), v2.RDFType, rdf.IRI(v2.FunctionalProperty)),
		rdf.NewTriple(iri("d"), v2.RDFType, rdf.IRI(v2.FunctionalProperty)),
		// The kind of d is only known after its functional typing.
		rdf.NewTriple(iri("d"), v2.RDFType, rdf.IRI(v2.DatatypeProperty)),
		rdf.NewTriple(iri("note"), v2.RDFType, rdf.IRI(v2.AnnotationProperty)),
		rdf.NewTriple(iri("X"), v2.RDFType, rdf.IRI(v2.RDFSClass)),
		rdf.NewTriple(iri("dt"), v2.RDFType, rdf.IRI(v2.RDFSDatatype)),
		rdf.NewTriple(iri("s"), v2.RDFType, rdf.IRI(v2.SymmetricProperty)),
		rdf.NewTriple(iri("s"), v2.SubPropertyOf, iri("p")),
	)

	res := c.Finish()

	require.Empty(t, res.Warnings)
	assert.Empty(t, res.Unparsed)

	var got []string
	for _, ax := range res.Ontology.Axioms() {
		got = append(got, ax.String())
	}
	assert.ElementsMatch(t, []string{
		"TransitiveObjectProperty(<http://ex.org/p>)",
		"FunctionalObjectProperty(<http://ex.org/p>)",
		"FunctionalDataProperty(<http://ex.org/d>)",
		"Declaration(DataProperty(<http://ex.org/d>))",
		"Declaration(AnnotationProperty(<http://ex.org/note>))",
		"Declaration(Class(<http://ex.org/X>))",
		"Declaration(Datatype(<http://ex.org/dt>))",
		"SymmetricObjectProperty(<http://ex.org/s>)",
		"SubObjectPropertyOf(<http://ex.org/s> <http://ex.org/p>)",
	}, got)
}

func TestConsumer_BlankNodesArePrivateToOneParse(t *testing.T) {
	t.Parallel()

	factory := owl.NewFactory()
	assertion := rdf.NewTriple(rdf.Blank("x"), v2.RDFType, iri("A"))
	first := New(DefaultRegistry(v2), WithFactory(factory))
	second := New(DefaultRegistry(v2), WithFactory(factory))
	require.NoError(t, first.AddTriple(assertion))
	require.NoError(t, second.AddTriple(assertion))

	individual := func(res *Result) owl.Individual {
		axioms := res.Ontology.AxiomsOfType(owl.AxiomClassAssertion)
		require.Len(t, axioms, 1)
		return axioms[0].(*owl.ClassAssertion).Individual
	}
	a, b := individual(first.Finish()), individual(second.Finish())

	assert.Equal(t, a.String(), b.String())
	assert.NotSame(t, a, b)

	blank := rdf.Blank("b")
	assert.Same(t, first.ClassFor(blank), first.ClassFor(blank))
	assert.NotSame(t, first.ClassFor(blank), second.ClassFor(blank))
	assert.Same(t, first.ClassFor(iri("A")), second.ClassFor(iri("A")))
}

func TestConsumer_ClassAssertionOfAnonymousClass(t *testing.T) {
	t.Parallel()

	b := rdf.Blank("b")
	c := newTestConsumer(t,
		rdf.NewTriple(rdf.Blank("x"), v2.RDFType, b),
		rdf.NewTriple(b, v2.OnProperty, iri("P")),
		rdf.NewTriple(b, v2.HasValue, iri("i")),
	)

	res := c.Finish()

	require.Empty(t, res.Warnings)
	require.Len(t, res.Ontology.AxiomsOfType(owl.AxiomClassAssertion), 1)
	assert.Equal(t,
		"ClassAssertion(ObjectHasValue(<http://ex.org/P> <http://ex.org/i>) _:x)",
		res.Ontology.AxiomsOfType(owl.AxiomClassAssertion)[0].String())
}

func TestConsumer_OWL11Vocabulary(t *testing.T) {
	t.Parallel()

	v := vocab.OWL11()
	b := rdf.Blank("b")
	triples := []rdf.Triple{
		rdf.NewTriple(b, v.RDFType, rdf.IRI(v.Restriction)),
		rdf.NewTriple(b, v.OnProperty, iri("P")),
		rdf.NewTriple(b, v.MaxQualifiedCardinality, nonNeg("2")),
		rdf.NewTriple(b, v.OnClass, iri("C")),
	}

	res, err := Parse(context.Background(), DefaultRegistry(v), FromTriples(triples))

	require.NoError(t, err)
	require.Empty(t, res.Warnings)
	assert.Equal(t, "ObjectMaxCardinality(2 <http://ex.org/P> <http://ex.org/C>)", res.Expressions[b].String())

	// The OWL 2 predicates mean nothing to an OWL 1.1 registry.
	assert.False(t, DefaultRegistry(v).HasHandlers(v2.QualifiedCardinality))
}

func TestConsumer_Metrics(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	m, err := metrics.New(reg)
	require.NoError(t, err)

	_, err = Parse(context.Background(), DefaultRegistry(v2),
		rdf.NewReader(strings.NewReader(document)), WithMetrics(m))
	require.NoError(t, err)

	phases, err := testutil.GatherAndCount(reg, "owlrdf_triples_total")
	require.NoError(t, err)
	assert.Equal(t, 2, phases)

	parses, err := testutil.GatherAndCount(reg, "owlrdf_parses_total")
	require.NoError(t, err)
	assert.Equal(t, 1, parses)
}

func TestParse_SharedRegistry(t *testing.T) {
	t.Parallel()

	reg := DefaultRegistry(v2)
	factory := owl.NewFactory()
	results := make([]*Result, 8)

	var wg sync.WaitGroup
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			res, err := Parse(context.Background(), reg,
				rdf.NewReader(strings.NewReader(document)), WithFactory(factory))
			assert.NoError(t, err)
			results[i] = res
		}(i)
	}
	wg.Wait()

	for _, res := range results {
		require.NotNil(t, res)
		assert.Equal(t, results[0].Ontology.Len(), res.Ontology.Len())
		assert.Len(t, res.Unparsed, 1)
	}
}
