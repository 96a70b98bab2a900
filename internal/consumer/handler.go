// Package consumer turns a stream of RDF triples into an OWL ontology.
//
// Triples are offered to handlers bound to their predicate in two phases.
// In the streaming phase a handler may claim a triple from its three fields
// alone; everything else is parked in a triple store. Once the whole graph
// is loaded the resolution phase offers each remaining triple again, now
// with the full graph visible, so constructs spread over several triples
// (restrictions, boolean class expressions, lists) can be resolved. Handlers
// consume the triples they interpret; what is left afterwards is reported as
// unparsed or as a warning.
//
// A Registry is immutable once built and may be shared by concurrent parses.
// A Consumer belongs to a single parse.
package consumer

import (
	"github.com/Benny93/owlrdf-go/internal/rdf"
	"github.com/Benny93/owlrdf-go/internal/vocab"
)

// Handler interprets triples with one fixed predicate.
type Handler interface {
	// Predicate returns the predicate URI the handler is bound to.
	Predicate() string

	// CanHandleStreaming reports whether the triple alone determines that
	// this handler applies. It has no access to the graph.
	CanHandleStreaming(s rdf.Term, p string, o rdf.Term) bool

	// CanHandle reports whether the handler applies once the whole graph is
	// loaded. It may inspect c but must not modify it.
	CanHandle(c *Consumer, s rdf.Term, p string, o rdf.Term) bool

	// Handle interprets the triple, adding to the ontology under
	// construction. The triple itself is consumed by the dispatcher.
	Handle(c *Consumer, s rdf.Term, p string, o rdf.Term) error
}

// TypeHandler is a Handler for rdf:type triples with one fixed object.
type TypeHandler interface {
	Handler
	TypeIRI() string
}

// Registry maps predicate URIs to their handlers in registration order. It
// also carries the vocabulary and restriction shapes shared by every parse.
type Registry struct {
	vocab  *vocab.Vocabulary
	shapes []*RestrictionShape

	// all holds every handler per predicate, type handlers included.
	all map[string][]Handler
	// generic holds the handlers that are not keyed by an rdf:type object.
	generic map[string][]Handler
	// typed holds rdf:type handlers keyed by their object IRI.
	typed map[string][]Handler
}

// NewRegistry creates an empty registry over v.
func NewRegistry(v *vocab.Vocabulary) *Registry {
	return &Registry{
		vocab:   v,
		all:     make(map[string][]Handler),
		generic: make(map[string][]Handler),
		typed:   make(map[string][]Handler),
	}
}

// Vocabulary returns the vocabulary the registry was built over.
func (r *Registry) Vocabulary() *vocab.Vocabulary {
	return r.vocab
}

// Register adds h. Registration order breaks ties between handlers that
// accept the same triple. Register must not run concurrently with a parse.
func (r *Registry) Register(h Handler) {
	p := h.Predicate()
	r.all[p] = append(r.all[p], h)

	if th, ok := h.(TypeHandler); ok && p == r.vocab.RDFType {
		r.typed[th.TypeIRI()] = append(r.typed[th.TypeIRI()], h)
		return
	}
	r.generic[p] = append(r.generic[p], h)
}

// AddShape appends a restriction shape. Shapes are tried in the order added.
func (r *Registry) AddShape(s *RestrictionShape) {
	r.shapes = append(r.shapes, s)
}

// Shapes returns the registered restriction shapes.
func (r *Registry) Shapes() []*RestrictionShape {
	return r.shapes
}

// ForPredicate returns every handler registered for uri.
func (r *Registry) ForPredicate(uri string) []Handler {
	return r.all[uri]
}

// HasHandlers reports whether any handler is registered for uri.
func (r *Registry) HasHandlers(uri string) bool {
	return len(r.all[uri]) > 0
}

// Predicates returns the number of predicates with at least one handler.
func (r *Registry) Predicates() int {
	return len(r.all)
}

// HandlersFor returns the candidate handlers for t in dispatch order. For
// rdf:type triples the handlers keyed by the object IRI come first, followed
// by the generic rdf:type handlers.
func (r *Registry) HandlersFor(t rdf.Triple) []Handler {
	if t.Predicate != r.vocab.RDFType {
		return r.generic[t.Predicate]
	}
	var typed []Handler
	if t.Object.IsIRI() {
		typed = r.typed[t.Object.Value]
	}
	generic := r.generic[t.Predicate]
	if len(typed) == 0 {
		return generic
	}
	if len(generic) == 0 {
		return typed
	}
	out := make([]Handler, 0, len(typed)+len(generic))
	out = append(out, typed...)
	return append(out, generic...)
}

// DefaultRegistry builds the standard handler set and restriction shapes
// over v.
func DefaultRegistry(v *vocab.Vocabulary) *Registry {
	r := NewRegistry(v)

	for _, s := range DefaultShapes(v) {
		r.AddShape(s)
	}
	for _, h := range builtInTypeHandlers(v) {
		r.Register(h)
	}
	r.Register(&classAssertionHandler{vocab: v})

	r.Register(&classAxiomHandler{predicate: v.SubClassOf, build: subClassOf})
	r.Register(&classAxiomHandler{predicate: v.EquivalentClass, build: equivalentClasses})
	r.Register(&classAxiomHandler{predicate: v.DisjointWith, build: disjointClasses})

	r.Register(&subPropertyHandler{predicate: v.SubPropertyOf})
	r.Register(&inverseOfHandler{predicate: v.InverseOf})
	r.Register(&domainRangeHandler{predicate: v.Domain, isRange: false})
	r.Register(&domainRangeHandler{predicate: v.Range, isRange: true})

	r.Register(&annotationHandler{predicate: v.Label})
	r.Register(&annotationHandler{predicate: v.Comment})

	for _, p := range []string{v.IntersectionOf, v.UnionOf, v.ComplementOf, v.OneOf} {
		r.Register(&booleanHandler{predicate: p})
	}

	components := append([]string{v.OnProperty, v.OnClass, v.OnDataRange, v.SomeValuesFrom, v.AllValuesFrom, v.HasValue},
		v.CardinalityPredicates()...)
	for _, p := range components {
		r.Register(&restrictionComponentHandler{predicate: p})
	}
	return r
}
