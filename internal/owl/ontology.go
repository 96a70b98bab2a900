package owl

import (
	"sync"
)

// Ontology is an ordered, de-duplicated set of axioms. Axioms are compared by
// their functional-syntax rendering.
type Ontology struct {
	mu     sync.RWMutex
	iri    string
	axioms []Axiom
	seen   map[string]struct{}
}

// NewOntology creates an empty ontology.
func NewOntology() *Ontology {
	return &Ontology{seen: make(map[string]struct{})}
}

// IRI returns the ontology IRI, or "" when none was declared.
func (o *Ontology) IRI() string {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.iri
}

// SetIRI sets the ontology IRI.
func (o *Ontology) SetIRI(iri string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.iri = iri
}

// Add inserts an axiom. It reports false when a structurally equal axiom is
// already present.
func (o *Ontology) Add(ax Axiom) bool {
	key := ax.String()
	o.mu.Lock()
	defer o.mu.Unlock()
	if _, ok := o.seen[key]; ok {
		return false
	}
	o.seen[key] = struct{}{}
	o.axioms = append(o.axioms, ax)
	return true
}

// Contains reports whether a structurally equal axiom is present.
func (o *Ontology) Contains(ax Axiom) bool {
	o.mu.RLock()
	defer o.mu.RUnlock()
	_, ok := o.seen[ax.String()]
	return ok
}

// Len returns the number of axioms.
func (o *Ontology) Len() int {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return len(o.axioms)
}

// Axioms returns a copy of all axioms in insertion order.
func (o *Ontology) Axioms() []Axiom {
	o.mu.RLock()
	defer o.mu.RUnlock()
	out := make([]Axiom, len(o.axioms))
	copy(out, o.axioms)
	return out
}

// AxiomsOfType returns the axioms of one type in insertion order.
func (o *Ontology) AxiomsOfType(t AxiomType) []Axiom {
	o.mu.RLock()
	defer o.mu.RUnlock()
	var out []Axiom
	for _, ax := range o.axioms {
		if ax.AxiomType() == t {
			out = append(out, ax)
		}
	}
	return out
}

// CountByType tallies axioms per type.
func (o *Ontology) CountByType() map[AxiomType]int {
	o.mu.RLock()
	defer o.mu.RUnlock()
	counts := make(map[AxiomType]int)
	for _, ax := range o.axioms {
		counts[ax.AxiomType()]++
	}
	return counts
}

// DeclaredEntities returns the entities of one type that have a Declaration
// axiom, in declaration order.
func (o *Ontology) DeclaredEntities(t EntityType) []Entity {
	var out []Entity
	for _, ax := range o.AxiomsOfType(AxiomDeclaration) {
		d := ax.(*Declaration)
		if d.Entity.EntityType() == t {
			out = append(out, d.Entity)
		}
	}
	return out
}

// IsDeclared reports whether iri is declared as an entity of type t.
func (o *Ontology) IsDeclared(t EntityType, iri string) bool {
	for _, e := range o.DeclaredEntities(t) {
		if e.EntityIRI() == iri {
			return true
		}
	}
	return false
}
