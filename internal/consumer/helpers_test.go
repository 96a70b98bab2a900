package consumer

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Benny93/owlrdf-go/internal/rdf"
	"github.com/Benny93/owlrdf-go/internal/vocab"
)

const ex = "http://ex.org/"

var v2 = vocab.OWL2()

func iri(local string) rdf.Term { return rdf.IRI(ex + local) }

func nonNeg(n string) rdf.Term { return rdf.TypedLiteral(n, vocab.XSD+"nonNegativeInteger") }

// newTestConsumer returns a consumer over the default OWL 2 registry with the
// given triples already streamed in.
func newTestConsumer(t *testing.T, triples ...rdf.Triple) *Consumer {
	t.Helper()
	c := New(DefaultRegistry(v2))
	for _, tr := range triples {
		require.NoError(t, c.AddTriple(tr))
	}
	return c
}

func restrictionTriples(b rdf.Term, extra ...rdf.Triple) []rdf.Triple {
	return append([]rdf.Triple{rdf.NewTriple(b, v2.RDFType, rdf.IRI(v2.Restriction))}, extra...)
}
