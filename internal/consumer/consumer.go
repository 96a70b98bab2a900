package consumer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"time"

	"github.com/Benny93/owlrdf-go/internal/metrics"
	"github.com/Benny93/owlrdf-go/internal/owl"
	"github.com/Benny93/owlrdf-go/internal/rdf"
	"github.com/Benny93/owlrdf-go/internal/triplestore"
	"github.com/Benny93/owlrdf-go/internal/vocab"
)

// DefaultMaxDepth bounds nested class-expression translation.
const DefaultMaxDepth = 128

// Result is the outcome of a finished parse.
type Result struct {
	Ontology *owl.Ontology
	// Unparsed holds triples whose predicate has no handler, in input order.
	Unparsed []rdf.Triple
	Warnings []Warning
	// Expressions maps every translated blank node to its class expression.
	Expressions map[rdf.Term]owl.ClassExpression
}

// Option configures a Consumer.
type Option func(*Consumer)

// WithLogger sets the logger. A nil logger means slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(c *Consumer) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithMetrics records dispatch counters on m.
func WithMetrics(m *metrics.Metrics) Option {
	return func(c *Consumer) {
		c.metrics = m
	}
}

// WithMaxDepth bounds nested translation. Values below 1 keep the default.
func WithMaxDepth(n int) Option {
	return func(c *Consumer) {
		if n > 0 {
			c.maxDepth = n
		}
	}
}

// WithFactory makes the consumer intern entities through f, so several
// parses can share one set of entity objects.
func WithFactory(f *owl.Factory) Option {
	return func(c *Consumer) {
		if f != nil {
			c.factory = f
		}
	}
}

// Consumer owns the triple store and the ontology under construction for a
// single parse. It is not safe for concurrent use.
type Consumer struct {
	reg      *Registry
	vocab    *vocab.Vocabulary
	store    *triplestore.Store
	factory  *owl.Factory
	ontology *owl.Ontology
	logger   *slog.Logger
	metrics  *metrics.Metrics
	maxDepth int

	restrictionHeads map[rdf.Term]struct{}
	propertyKinds    map[string]owl.EntityType
	datatypes        map[string]struct{}
	functional       []string
	blankClasses     map[rdf.Term]*owl.Class
	blankIndividuals map[rdf.Term]*owl.AnonymousIndividual
	expressions      map[rdf.Term]owl.ClassExpression
	failed           map[rdf.Term]error
	visiting         map[rdf.Term]struct{}
	depth            int

	warnings []Warning
	result   *Result
}

// New creates a consumer dispatching through reg.
func New(reg *Registry, opts ...Option) *Consumer {
	c := &Consumer{
		reg:              reg,
		vocab:            reg.vocab,
		store:            triplestore.New(),
		factory:          owl.NewFactory(),
		ontology:         owl.NewOntology(),
		logger:           slog.Default(),
		maxDepth:         DefaultMaxDepth,
		restrictionHeads: make(map[rdf.Term]struct{}),
		propertyKinds:    make(map[string]owl.EntityType),
		datatypes:        make(map[string]struct{}),
		blankClasses:     make(map[rdf.Term]*owl.Class),
		blankIndividuals: make(map[rdf.Term]*owl.AnonymousIndividual),
		expressions:      make(map[rdf.Term]owl.ClassExpression),
		failed:           make(map[rdf.Term]error),
		visiting:         make(map[rdf.Term]struct{}),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Factory returns the factory the consumer interns entities with.
func (c *Consumer) Factory() *owl.Factory {
	return c.factory
}

// Store returns the triple store. Callers must treat it as read-only.
func (c *Consumer) Store() *triplestore.Store {
	return c.store
}

// AddTriple runs the streaming phase for t: the first handler that can
// decide from t alone interprets it, otherwise t is kept for resolution.
func (c *Consumer) AddTriple(t rdf.Triple) error {
	if c.result != nil {
		return ErrFinished
	}
	for _, h := range c.reg.HandlersFor(t) {
		if h.CanHandleStreaming(t.Subject, t.Predicate, t.Object) {
			c.interpret(h, t, metrics.PhaseStreaming)
			return nil
		}
	}
	c.store.Add(t)
	return nil
}

// Resolve runs the resolution phase over the remaining triples until no
// handler accepts any of them. It returns the warnings produced by this call
// only; calling it again on a drained store changes nothing.
func (c *Consumer) Resolve() []Warning {
	before := len(c.warnings)
	for c.resolvePass() {
	}
	return slices.Clone(c.warnings[before:])
}

// resolvePass offers each remaining triple, in insertion order, to its
// handlers once. It reports whether any triple was consumed.
func (c *Consumer) resolvePass() bool {
	progressed := false
	for _, t := range c.store.Remaining() {
		// An earlier handler in this pass may have consumed t already.
		if !c.store.Contains(t) {
			continue
		}
		for _, h := range c.reg.HandlersFor(t) {
			if h.CanHandle(c, t.Subject, t.Predicate, t.Object) {
				c.interpret(h, t, metrics.PhaseResolution)
				c.store.ConsumeTriple(t)
				progressed = true
				break
			}
		}
	}
	return progressed
}

// interpret runs h on t and turns a failure into a warning. The triple
// counts as consumed either way.
func (c *Consumer) interpret(h Handler, t rdf.Triple, phase string) {
	c.metrics.TripleConsumed(phase)
	err := h.Handle(c, t.Subject, t.Predicate, t.Object)
	if err == nil || errors.Is(err, errReported) {
		return
	}
	w := newWarning(t, err)
	c.logger.Debug("construct dropped",
		slog.String("kind", string(w.Kind)),
		slog.String("node", w.Node.String()),
		slog.String("predicate", t.Predicate),
		slog.Any("error", err))
	c.addWarning(w)
}

func (c *Consumer) addWarning(w Warning) {
	c.warnings = append(c.warnings, w)
	c.metrics.Warning(string(w.Kind))
}

// Finish resolves whatever is left and classifies the remaining triples:
// those whose predicate has no handler are passed through as unparsed, the
// rest become unmatched-predicate warnings. Later calls return the same
// result.
func (c *Consumer) Finish() *Result {
	if c.result != nil {
		return c.result
	}
	c.Resolve()
	c.addFunctionalAxioms()

	var unparsed []rdf.Triple
	for _, t := range c.store.Remaining() {
		if !c.reg.HasHandlers(t.Predicate) {
			unparsed = append(unparsed, t)
			continue
		}
		c.addWarning(Warning{
			Kind:   WarningUnmatchedPredicate,
			Node:   t.Subject,
			Triple: t,
			Err:    fmt.Errorf("%w for %s", ErrUnmatchedPredicate, t),
		})
	}
	c.metrics.Unparsed(len(unparsed))

	c.result = &Result{
		Ontology:    c.ontology,
		Unparsed:    unparsed,
		Warnings:    c.warnings,
		Expressions: c.expressions,
	}
	c.logger.Debug("parse finished",
		slog.Int("axioms", c.ontology.Len()),
		slog.Int("unparsed", len(unparsed)),
		slog.Int("warnings", len(c.warnings)))
	return c.result
}

// addFunctionalAxioms turns owl:FunctionalProperty typings into axioms once
// every declaration has been seen. Undeclared properties are taken as object
// properties.
func (c *Consumer) addFunctionalAxioms() {
	for _, iri := range c.functional {
		if c.propertyKinds[iri] == owl.EntityDataProperty {
			c.ontology.Add(&owl.FunctionalDataProperty{Property: c.factory.DataProperty(iri)})
			continue
		}
		c.ontology.Add(&owl.ObjectPropertyCharacteristic{
			Type:     owl.AxiomFunctionalObjectProperty,
			Property: c.factory.ObjectProperty(iri),
		})
	}
	c.functional = nil
}

// TripleSource yields triples until it returns io.EOF.
type TripleSource interface {
	Read() (rdf.Triple, error)
}

type sliceSource struct {
	triples []rdf.Triple
	next    int
}

// FromTriples adapts a slice to a TripleSource.
func FromTriples(triples []rdf.Triple) TripleSource {
	return &sliceSource{triples: triples}
}

func (s *sliceSource) Read() (rdf.Triple, error) {
	if s.next >= len(s.triples) {
		return rdf.Triple{}, io.EOF
	}
	t := s.triples[s.next]
	s.next++
	return t, nil
}

// Parse streams every triple of src through a new Consumer and finishes it.
// Cancelling ctx abandons the parse between triples; nothing is returned but
// the context error.
func Parse(ctx context.Context, reg *Registry, src TripleSource, opts ...Option) (*Result, error) {
	start := time.Now()
	c := New(reg, opts...)

	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		t, err := src.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading triples: %w", err)
		}
		if err := c.AddTriple(t); err != nil {
			return nil, err
		}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	res := c.Finish()
	c.metrics.ParseCompleted(time.Since(start))
	return res, nil
}
