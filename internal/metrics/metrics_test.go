package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Benny93/owlrdf-go/internal/owl"
)

func TestNew(t *testing.T) {
	t.Parallel()

	t.Run("NilRegistryDisables", func(t *testing.T) {
		t.Parallel()
		m, err := New(nil)

		require.NoError(t, err)
		assert.Nil(t, m)

		// Recording on a nil *Metrics is a no-op.
		m.TripleConsumed(PhaseStreaming)
		m.Warning("malformed-literal")
		m.Unparsed(3)
		m.ParseCompleted(time.Second)
	})

	t.Run("DoubleRegistrationFails", func(t *testing.T) {
		t.Parallel()
		reg := prometheus.NewRegistry()

		_, err := New(reg)
		require.NoError(t, err)
		_, err = New(reg)
		assert.Error(t, err)
	})
}

func TestMetrics_Record(t *testing.T) {
	t.Parallel()

	m, err := New(prometheus.NewRegistry())
	require.NoError(t, err)

	m.TripleConsumed(PhaseStreaming)
	m.TripleConsumed(PhaseStreaming)
	m.TripleConsumed(PhaseResolution)
	m.Warning("unmatched-predicate")
	m.Unparsed(2)
	m.Unparsed(0)
	m.ParseCompleted(10 * time.Millisecond)

	assert.InDelta(t, 2, testutil.ToFloat64(m.triples.WithLabelValues(PhaseStreaming)), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.triples.WithLabelValues(PhaseResolution)), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.warnings.WithLabelValues("unmatched-predicate")), 0)
	assert.InDelta(t, 2, testutil.ToFloat64(m.unparsed), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.parses), 0)
}

func TestObjectCounts(t *testing.T) {
	t.Parallel()

	const ex = "http://ex.org/"
	f := owl.NewFactory()
	o := owl.NewOntology()
	p := f.ObjectProperty(ex + "p")
	a := f.Class(ex + "A")
	some := &owl.ObjectSomeValuesFrom{Property: p, Filler: f.Class(ex + "B")}

	o.Add(&owl.Declaration{Entity: a})
	o.Add(&owl.SubClassOf{Sub: a, Super: some})
	o.Add(&owl.EquivalentClasses{Classes: []owl.ClassExpression{f.Class(ex + "C"), &owl.ObjectComplementOf{Operand: some}}})
	o.Add(&owl.DataPropertyRange{Property: f.DataProperty(ex + "d"), Range: f.Datatype(ex + "int")})
	o.Add(&owl.ClassAssertion{Class: a, Individual: f.NamedIndividual(ex + "i")})
	o.Add(&owl.ClassAssertion{Class: a, Individual: &owl.AnonymousIndividual{NodeID: "x"}})
	o.Add(&owl.SubClassOf{Sub: a, Super: &owl.DataHasValue{Property: f.DataProperty(ex + "age"), Value: `"5"`}})

	got := CountMap(ObjectCounts(o))

	assert.Equal(t, 7, got["Axiom count"])
	assert.Equal(t, 3, got["Class count"])
	assert.Equal(t, 1, got["Object property count"])
	assert.Equal(t, 2, got["Data property count"])
	assert.Equal(t, 1, got["Individual count"])
	assert.Equal(t, 3, got["Anonymous class expression count"])
}
