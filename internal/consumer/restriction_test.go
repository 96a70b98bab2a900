package consumer

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Benny93/owlrdf-go/internal/owl"
	"github.com/Benny93/owlrdf-go/internal/rdf"
	"github.com/Benny93/owlrdf-go/internal/vocab"
)

func shapeNamed(t *testing.T, c *Consumer, name string) *RestrictionShape {
	t.Helper()
	for _, s := range c.reg.Shapes() {
		if s.Name == name {
			return s
		}
	}
	t.Fatalf("no shape %q", name)
	return nil
}

func TestTranslateRestriction_QualifiedExactCardinality(t *testing.T) {
	t.Parallel()

	b := rdf.Blank("b")
	c := newTestConsumer(t, restrictionTriples(b,
		rdf.NewTriple(b, v2.OnProperty, iri("P")),
		rdf.NewTriple(b, v2.QualifiedCardinality, nonNeg("3")),
		rdf.NewTriple(b, v2.OnClass, iri("C")),
	)...)

	res := c.Finish()

	require.Empty(t, res.Warnings)
	assert.Empty(t, res.Unparsed)
	assert.Equal(t, 0, c.Store().Len())

	ce, ok := res.Expressions[b].(*owl.ObjectCardinality)
	require.True(t, ok)
	assert.Equal(t, owl.ExactCardinality, ce.Kind)
	assert.Equal(t, 3, ce.Cardinality)
	assert.True(t, ce.IsQualified())
	assert.Same(t, c.Factory().ObjectProperty(ex+"P"), ce.Property)
	assert.Same(t, c.Factory().Class(ex+"C"), ce.Filler)
	assert.Equal(t, "ObjectExactCardinality(3 <http://ex.org/P> <http://ex.org/C>)", ce.String())
}

func TestTranslateRestriction_DefaultsWhenOnlyOnProperty(t *testing.T) {
	t.Parallel()

	b := rdf.Blank("b")
	c := newTestConsumer(t, restrictionTriples(b, rdf.NewTriple(b, v2.OnProperty, iri("P")))...)

	for _, name := range []string{"min", "max", "exact"} {
		got, err := c.TranslateRestriction(b, shapeNamed(t, c, name))
		require.NoError(t, err)

		ce, ok := got.(*owl.ObjectCardinality)
		require.True(t, ok)
		assert.Equal(t, owl.CardinalityUnset, ce.Cardinality)
		assert.False(t, ce.HasCardinality())
		assert.True(t, owl.IsThing(ce.Filler))
		assert.False(t, ce.IsQualified())

		// Put onProperty back for the next shape.
		c.store.Add(rdf.NewTriple(b, v2.OnProperty, iri("P")))
	}
}

func TestTranslateRestriction_NoOnPropertyDegradesToClass(t *testing.T) {
	t.Parallel()

	b := rdf.Blank("b")
	c := newTestConsumer(t, restrictionTriples(b, rdf.NewTriple(b, v2.MinCardinality, nonNeg("1")))...)

	got, err := c.TranslateRestriction(b, shapeNamed(t, c, "min"))

	require.NoError(t, err)
	assert.Same(t, c.ClassFor(b), got)
	assert.Equal(t, "<_:b>", got.String())
	// Nothing was consumed.
	assert.True(t, c.Store().Has(b, v2.MinCardinality))
}

func TestTranslateRestriction_MalformedLiteral(t *testing.T) {
	t.Parallel()

	b := rdf.Blank("b")
	other := rdf.Blank("other")
	triples := restrictionTriples(b,
		rdf.NewTriple(b, v2.OnProperty, iri("P")),
		rdf.NewTriple(b, v2.QualifiedCardinality, nonNeg("abc")),
		rdf.NewTriple(b, v2.OnClass, iri("C")),
	)
	triples = append(triples, restrictionTriples(other,
		rdf.NewTriple(other, v2.OnProperty, iri("Q")),
		rdf.NewTriple(other, v2.SomeValuesFrom, iri("D")),
	)...)
	triples = append(triples, rdf.NewTriple(iri("A"), v2.SubClassOf, other))
	c := newTestConsumer(t, triples...)

	res := c.Finish()

	require.Len(t, res.Warnings, 1)
	w := res.Warnings[0]
	assert.Equal(t, WarningMalformedLiteral, w.Kind)
	assert.Equal(t, b, w.Node)
	assert.ErrorIs(t, w.Err, ErrMalformedLiteral)

	var mle *MalformedLiteralError
	require.True(t, errors.As(w.Err, &mle))
	assert.Equal(t, "abc", mle.Lexical)
	assert.Equal(t, v2.QualifiedCardinality, mle.Predicate)

	assert.NotContains(t, res.Expressions, b)
	assert.Equal(t, 0, c.Store().Len())
	assert.True(t, res.Ontology.Contains(&owl.SubClassOf{
		Sub:   &owl.Class{IRI: ex + "A"},
		Super: &owl.ObjectSomeValuesFrom{Property: &owl.ObjectProperty{IRI: ex + "Q"}, Filler: &owl.Class{IRI: ex + "D"}},
	}))
}

func TestTranslateRestriction_CardinalityLiterals(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		object  rdf.Term
		want    int
		wantErr bool
	}{
		{"Zero", nonNeg("0"), 0, false},
		{"PlainLiteral", rdf.Literal("7"), 7, false},
		{"Whitespace", rdf.Literal(" 2 "), 2, false},
		{"Negative", rdf.Literal("-1"), 0, true},
		{"NotANumber", rdf.Literal("three"), 0, true},
		{"IRIObject", iri("three"), 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			b := rdf.Blank("b")
			c := newTestConsumer(t, restrictionTriples(b,
				rdf.NewTriple(b, v2.OnProperty, iri("P")),
				rdf.NewTriple(b, v2.MaxCardinality, tt.object),
			)...)

			got, err := c.TranslateClassExpression(b)

			if tt.wantErr {
				assert.ErrorIs(t, err, ErrMalformedLiteral)
				return
			}
			require.NoError(t, err)
			ce := got.(*owl.ObjectCardinality)
			assert.Equal(t, owl.MaxCardinality, ce.Kind)
			assert.Equal(t, tt.want, ce.Cardinality)
		})
	}
}

func TestTranslateRestriction_UnqualifiedWinsOverQualified(t *testing.T) {
	t.Parallel()

	b := rdf.Blank("b")
	c := newTestConsumer(t, restrictionTriples(b,
		rdf.NewTriple(b, v2.OnProperty, iri("P")),
		rdf.NewTriple(b, v2.QualifiedCardinality, nonNeg("5")),
		rdf.NewTriple(b, v2.Cardinality, nonNeg("2")),
	)...)

	res := c.Finish()

	assert.Empty(t, res.Warnings)
	ce := res.Expressions[b].(*owl.ObjectCardinality)
	assert.Equal(t, 2, ce.Cardinality)
	assert.Equal(t, 0, c.Store().Len())
}

func TestTranslateClassExpression_Shapes(t *testing.T) {
	t.Parallel()

	b := rdf.Blank("b")
	tests := []struct {
		name   string
		triple rdf.Triple
		want   string
	}{
		{"Some", rdf.NewTriple(b, v2.SomeValuesFrom, iri("C")), "ObjectSomeValuesFrom(<http://ex.org/P> <http://ex.org/C>)"},
		{"All", rdf.NewTriple(b, v2.AllValuesFrom, iri("C")), "ObjectAllValuesFrom(<http://ex.org/P> <http://ex.org/C>)"},
		{"HasValue", rdf.NewTriple(b, v2.HasValue, iri("i")), "ObjectHasValue(<http://ex.org/P> <http://ex.org/i>)"},
		{"HasAnonymousValue", rdf.NewTriple(b, v2.HasValue, rdf.Blank("x")), "ObjectHasValue(<http://ex.org/P> _:x)"},
		{"Min", rdf.NewTriple(b, v2.MinCardinality, nonNeg("1")), "ObjectMinCardinality(1 <http://ex.org/P>)"},
		{"MaxQualified", rdf.NewTriple(b, v2.MaxQualifiedCardinality, nonNeg("4")), "ObjectMaxCardinality(4 <http://ex.org/P>)"},
		{"SomeOfThing", rdf.NewTriple(b, v2.SomeValuesFrom, rdf.IRI(v2.Thing)), "ObjectSomeValuesFrom(<http://ex.org/P> <http://www.w3.org/2002/07/owl#Thing>)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			// No rdf:type triple: onProperty alone marks the head.
			c := newTestConsumer(t, rdf.NewTriple(b, v2.OnProperty, iri("P")), tt.triple)

			res := c.Finish()

			require.Empty(t, res.Warnings)
			require.Contains(t, res.Expressions, b)
			assert.Equal(t, tt.want, res.Expressions[b].String())
			assert.Equal(t, 0, c.Store().Len())
		})
	}
}

func TestTranslateClassExpression_Nested(t *testing.T) {
	t.Parallel()

	outer, inner := rdf.Blank("outer"), rdf.Blank("inner")
	inv := rdf.Blank("inv")
	c := newTestConsumer(t,
		rdf.NewTriple(iri("A"), v2.SubClassOf, outer),
		rdf.NewTriple(outer, v2.RDFType, rdf.IRI(v2.Restriction)),
		rdf.NewTriple(outer, v2.OnProperty, iri("P")),
		rdf.NewTriple(outer, v2.MinQualifiedCardinality, nonNeg("2")),
		rdf.NewTriple(outer, v2.OnClass, inner),
		rdf.NewTriple(inner, v2.RDFType, rdf.IRI(v2.Restriction)),
		rdf.NewTriple(inner, v2.OnProperty, inv),
		rdf.NewTriple(inv, v2.InverseOf, iri("Q")),
		rdf.NewTriple(inner, v2.AllValuesFrom, iri("C")),
	)

	res := c.Finish()

	require.Empty(t, res.Warnings)
	assert.Empty(t, res.Unparsed)
	axioms := res.Ontology.AxiomsOfType(owl.AxiomSubClassOf)
	require.Len(t, axioms, 1)
	assert.Equal(t,
		"SubClassOf(<http://ex.org/A> ObjectMinCardinality(2 <http://ex.org/P> ObjectAllValuesFrom(ObjectInverseOf(<http://ex.org/Q>) <http://ex.org/C>)))",
		axioms[0].String())
	assert.Contains(t, res.Expressions, inner)
}

func TestTranslateClassExpression_CycleIsReportedOnce(t *testing.T) {
	t.Parallel()

	a, b := rdf.Blank("a"), rdf.Blank("b")
	c := newTestConsumer(t,
		rdf.NewTriple(a, v2.OnProperty, iri("P")),
		rdf.NewTriple(a, v2.SomeValuesFrom, b),
		rdf.NewTriple(b, v2.OnProperty, iri("P")),
		rdf.NewTriple(b, v2.SomeValuesFrom, a),
		rdf.NewTriple(iri("X"), v2.SubClassOf, iri("Y")),
	)

	res := c.Finish()

	require.Len(t, res.Warnings, 1)
	assert.Equal(t, WarningUnresolvableConstruct, res.Warnings[0].Kind)
	assert.ErrorIs(t, res.Warnings[0].Err, ErrCyclicReference)
	assert.Equal(t, 0, c.Store().Len())
	assert.Equal(t, 1, res.Ontology.Len())
}

func TestTranslateClassExpression_DepthGuard(t *testing.T) {
	t.Parallel()

	var triples []rdf.Triple
	nodes := []rdf.Term{rdf.Blank("n0"), rdf.Blank("n1"), rdf.Blank("n2"), rdf.Blank("n3")}
	for i, n := range nodes {
		filler := iri("Leaf")
		if i+1 < len(nodes) {
			filler = nodes[i+1]
		}
		triples = append(triples,
			rdf.NewTriple(n, v2.OnProperty, iri("P")),
			rdf.NewTriple(n, v2.SomeValuesFrom, filler))
	}

	t.Run("WithinBound", func(t *testing.T) {
		t.Parallel()
		c := New(DefaultRegistry(v2), WithMaxDepth(4))
		for _, tr := range triples {
			require.NoError(t, c.AddTriple(tr))
		}
		_, err := c.TranslateClassExpression(nodes[0])
		assert.NoError(t, err)
	})

	t.Run("Exceeded", func(t *testing.T) {
		t.Parallel()
		c := New(DefaultRegistry(v2), WithMaxDepth(3))
		for _, tr := range triples {
			require.NoError(t, c.AddTriple(tr))
		}
		_, err := c.TranslateClassExpression(nodes[0])
		assert.ErrorIs(t, err, ErrDepthExceeded)
	})
}

func TestTranslateClassExpression_RestrictionWithoutKind(t *testing.T) {
	t.Parallel()

	t.Run("OnPropertyOnlyIsDropped", func(t *testing.T) {
		t.Parallel()
		b := rdf.Blank("b")
		c := newTestConsumer(t, restrictionTriples(b, rdf.NewTriple(b, v2.OnProperty, iri("P")))...)

		res := c.Finish()

		require.Len(t, res.Warnings, 1)
		assert.Equal(t, WarningUnresolvableConstruct, res.Warnings[0].Kind)
		assert.ErrorIs(t, res.Warnings[0].Err, ErrUnresolvableConstruct)
		assert.Equal(t, b, res.Warnings[0].Node)
		assert.Equal(t, 0, c.Store().Len())
	})

	t.Run("TypedOnlyIsAClassReference", func(t *testing.T) {
		t.Parallel()
		b := rdf.Blank("b")
		c := newTestConsumer(t, restrictionTriples(b)...)

		got, err := c.TranslateClassExpression(b)

		require.NoError(t, err)
		assert.Same(t, c.ClassFor(b), got)
	})
}

func TestTranslateClassExpression_Booleans(t *testing.T) {
	t.Parallel()

	l1, l2 := rdf.Blank("l1"), rdf.Blank("l2")
	list := func(head rdf.Term, a, b rdf.Term) []rdf.Triple {
		return []rdf.Triple{
			rdf.NewTriple(head, v2.RDFFirst, a),
			rdf.NewTriple(head, v2.RDFRest, l2),
			rdf.NewTriple(l2, v2.RDFFirst, b),
			rdf.NewTriple(l2, v2.RDFRest, rdf.IRI(v2.RDFNil)),
		}
	}

	tests := []struct {
		name      string
		predicate string
		want      string
	}{
		{"Intersection", v2.IntersectionOf, "EquivalentClasses(<http://ex.org/A> ObjectIntersectionOf(<http://ex.org/B> <http://ex.org/C>))"},
		{"Union", v2.UnionOf, "EquivalentClasses(<http://ex.org/A> ObjectUnionOf(<http://ex.org/B> <http://ex.org/C>))"},
		{"OneOf", v2.OneOf, "EquivalentClasses(<http://ex.org/A> ObjectOneOf(<http://ex.org/B> <http://ex.org/C>))"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			triples := list(l1, iri("B"), iri("C"))
			triples = append(triples, rdf.NewTriple(iri("A"), tt.predicate, l1))
			c := newTestConsumer(t, triples...)

			res := c.Finish()

			require.Empty(t, res.Warnings)
			assert.Empty(t, res.Unparsed)
			require.Equal(t, 1, res.Ontology.Len())
			assert.Equal(t, tt.want, res.Ontology.Axioms()[0].String())
		})
	}

	t.Run("AnonymousComplementAsFiller", func(t *testing.T) {
		t.Parallel()
		r, n := rdf.Blank("r"), rdf.Blank("n")
		c := newTestConsumer(t,
			rdf.NewTriple(r, v2.OnProperty, iri("P")),
			rdf.NewTriple(r, v2.AllValuesFrom, n),
			rdf.NewTriple(n, v2.ComplementOf, iri("B")),
			rdf.NewTriple(iri("A"), v2.EquivalentClass, r),
		)

		res := c.Finish()

		require.Empty(t, res.Warnings)
		assert.Equal(t,
			"EquivalentClasses(<http://ex.org/A> ObjectAllValuesFrom(<http://ex.org/P> ObjectComplementOf(<http://ex.org/B>)))",
			res.Ontology.Axioms()[0].String())
	})

	t.Run("CyclicList", func(t *testing.T) {
		t.Parallel()
		c := newTestConsumer(t,
			rdf.NewTriple(l1, v2.RDFFirst, iri("B")),
			rdf.NewTriple(l1, v2.RDFRest, l1),
			rdf.NewTriple(iri("A"), v2.UnionOf, l1),
		)

		res := c.Finish()

		require.Len(t, res.Warnings, 1)
		assert.ErrorIs(t, res.Warnings[0].Err, ErrCyclicReference)
		assert.Equal(t, 0, res.Ontology.Len())
	})

	t.Run("BrokenList", func(t *testing.T) {
		t.Parallel()
		c := newTestConsumer(t,
			rdf.NewTriple(l1, v2.RDFFirst, iri("B")),
			rdf.NewTriple(iri("A"), v2.UnionOf, l1),
		)

		res := c.Finish()

		require.Len(t, res.Warnings, 1)
		assert.ErrorIs(t, res.Warnings[0].Err, ErrUnresolvableConstruct)
		assert.Equal(t, l1, res.Warnings[0].Node)
	})
}

func TestTranslateRestriction_DataProperty(t *testing.T) {
	t.Parallel()

	b := rdf.Blank("b")
	age := iri("age")
	declared := rdf.NewTriple(age, v2.RDFType, rdf.IRI(v2.DatatypeProperty))
	xsdInteger := vocab.XSD + "integer"

	tests := []struct {
		name    string
		triples []rdf.Triple
		want    string
	}{
		{
			"DeclaredSomeValuesFrom",
			[]rdf.Triple{declared, rdf.NewTriple(b, v2.SomeValuesFrom, rdf.IRI(xsdInteger))},
			"DataSomeValuesFrom(<http://ex.org/age> <http://www.w3.org/2001/XMLSchema#integer>)",
		},
		{
			"DeclaredHasValue",
			[]rdf.Triple{declared, rdf.NewTriple(b, v2.HasValue, rdf.Literal("5"))},
			`DataHasValue(<http://ex.org/age> "5")`,
		},
		{
			"UndeclaredLiteralValue",
			[]rdf.Triple{rdf.NewTriple(b, v2.HasValue, rdf.TypedLiteral("5", xsdInteger))},
			`DataHasValue(<http://ex.org/age> "5"^^<http://www.w3.org/2001/XMLSchema#integer>)`,
		},
		{
			"UndeclaredCustomDatatype",
			[]rdf.Triple{
				rdf.NewTriple(iri("Celsius"), v2.RDFType, rdf.IRI(v2.RDFSDatatype)),
				rdf.NewTriple(b, v2.AllValuesFrom, iri("Celsius")),
			},
			"DataAllValuesFrom(<http://ex.org/age> <http://ex.org/Celsius>)",
		},
		{
			"QualifiedExactCardinality",
			[]rdf.Triple{declared,
				rdf.NewTriple(b, v2.QualifiedCardinality, nonNeg("2")),
				rdf.NewTriple(b, v2.OnDataRange, rdf.IRI(xsdInteger)),
			},
			"DataExactCardinality(2 <http://ex.org/age> <http://www.w3.org/2001/XMLSchema#integer>)",
		},
		{
			"UnqualifiedMaxCardinality",
			[]rdf.Triple{declared, rdf.NewTriple(b, v2.MaxCardinality, nonNeg("1"))},
			"DataMaxCardinality(1 <http://ex.org/age>)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			triples := restrictionTriples(b, rdf.NewTriple(b, v2.OnProperty, age))
			triples = append(triples, tt.triples...)
			triples = append(triples, rdf.NewTriple(iri("A"), v2.SubClassOf, b))
			c := newTestConsumer(t, triples...)

			res := c.Finish()

			require.Empty(t, res.Warnings)
			require.Contains(t, res.Expressions, b)
			assert.Equal(t, tt.want, res.Expressions[b].String())
			subs := res.Ontology.AxiomsOfType(owl.AxiomSubClassOf)
			require.Len(t, subs, 1)
			assert.Equal(t, "SubClassOf(<http://ex.org/A> "+tt.want+")", subs[0].String())
			assert.Equal(t, 0, c.Store().Len())
		})
	}
}

func TestTranslateRestriction_WarningsNameTheRestriction(t *testing.T) {
	t.Parallel()

	b := rdf.Blank("b")

	t.Run("LiteralValueOnObjectProperty", func(t *testing.T) {
		t.Parallel()
		c := newTestConsumer(t, append(restrictionTriples(b,
			rdf.NewTriple(iri("P"), v2.RDFType, rdf.IRI(v2.ObjectProperty)),
			rdf.NewTriple(b, v2.OnProperty, iri("P")),
			rdf.NewTriple(b, v2.HasValue, rdf.Literal("5")),
		), rdf.NewTriple(iri("A"), v2.SubClassOf, b))...)

		res := c.Finish()

		require.Len(t, res.Warnings, 1)
		assert.Equal(t, WarningUnresolvableConstruct, res.Warnings[0].Kind)
		assert.Equal(t, b, res.Warnings[0].Node)
		assert.ErrorIs(t, res.Warnings[0].Err, ErrUnresolvableConstruct)
		assert.NotContains(t, res.Expressions, b)
	})

	t.Run("InverseWithoutNamedProperty", func(t *testing.T) {
		t.Parallel()
		c := newTestConsumer(t, append(restrictionTriples(b,
			rdf.NewTriple(b, v2.OnProperty, rdf.Blank("inv")),
			rdf.NewTriple(b, v2.SomeValuesFrom, iri("C")),
		), rdf.NewTriple(iri("A"), v2.SubClassOf, b))...)

		res := c.Finish()

		require.Len(t, res.Warnings, 1)
		assert.Equal(t, b, res.Warnings[0].Node)
	})

	t.Run("DataValueNotLiteral", func(t *testing.T) {
		t.Parallel()
		c := newTestConsumer(t, append(restrictionTriples(b,
			rdf.NewTriple(iri("age"), v2.RDFType, rdf.IRI(v2.DatatypeProperty)),
			rdf.NewTriple(b, v2.OnProperty, iri("age")),
			rdf.NewTriple(b, v2.HasValue, iri("i")),
		), rdf.NewTriple(iri("A"), v2.SubClassOf, b))...)

		res := c.Finish()

		require.Len(t, res.Warnings, 1)
		assert.Equal(t, b, res.Warnings[0].Node)
	})
}
