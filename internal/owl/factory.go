package owl

import (
	"sync"
)

// Well-known IRIs of the universal and empty classes.
const (
	ThingIRI   = "http://www.w3.org/2002/07/owl#Thing"
	NothingIRI = "http://www.w3.org/2002/07/owl#Nothing"
)

// Factory creates and interns named entities so that two lookups of the same
// IRI yield the same pointer. A Factory may be shared between goroutines.
// Blank nodes are never interned here since their identity is local to one
// parse.
type Factory struct {
	mu          sync.Mutex
	classes     map[string]*Class
	objectProps map[string]*ObjectProperty
	dataProps   map[string]*DataProperty
	datatypes   map[string]*Datatype
	individuals map[string]*NamedIndividual
	annotations map[string]*AnnotationProperty
}

// NewFactory creates an empty factory.
func NewFactory() *Factory {
	return &Factory{
		classes:     make(map[string]*Class),
		objectProps: make(map[string]*ObjectProperty),
		dataProps:   make(map[string]*DataProperty),
		datatypes:   make(map[string]*Datatype),
		individuals: make(map[string]*NamedIndividual),
		annotations: make(map[string]*AnnotationProperty),
	}
}

// Thing returns owl:Thing.
func (f *Factory) Thing() *Class {
	return f.Class(ThingIRI)
}

// Nothing returns owl:Nothing.
func (f *Factory) Nothing() *Class {
	return f.Class(NothingIRI)
}

// Class returns the interned class for iri.
func (f *Factory) Class(iri string) *Class {
	f.mu.Lock()
	defer f.mu.Unlock()
	if c, ok := f.classes[iri]; ok {
		return c
	}
	c := &Class{IRI: iri}
	f.classes[iri] = c
	return c
}

// ObjectProperty returns the interned object property for iri.
func (f *Factory) ObjectProperty(iri string) *ObjectProperty {
	f.mu.Lock()
	defer f.mu.Unlock()
	if p, ok := f.objectProps[iri]; ok {
		return p
	}
	p := &ObjectProperty{IRI: iri}
	f.objectProps[iri] = p
	return p
}

// DataProperty returns the interned data property for iri.
func (f *Factory) DataProperty(iri string) *DataProperty {
	f.mu.Lock()
	defer f.mu.Unlock()
	if p, ok := f.dataProps[iri]; ok {
		return p
	}
	p := &DataProperty{IRI: iri}
	f.dataProps[iri] = p
	return p
}

// Datatype returns the interned datatype for iri.
func (f *Factory) Datatype(iri string) *Datatype {
	f.mu.Lock()
	defer f.mu.Unlock()
	if d, ok := f.datatypes[iri]; ok {
		return d
	}
	d := &Datatype{IRI: iri}
	f.datatypes[iri] = d
	return d
}

// NamedIndividual returns the interned individual for iri.
func (f *Factory) NamedIndividual(iri string) *NamedIndividual {
	f.mu.Lock()
	defer f.mu.Unlock()
	if i, ok := f.individuals[iri]; ok {
		return i
	}
	i := &NamedIndividual{IRI: iri}
	f.individuals[iri] = i
	return i
}

// AnnotationProperty returns the interned annotation property for iri.
func (f *Factory) AnnotationProperty(iri string) *AnnotationProperty {
	f.mu.Lock()
	defer f.mu.Unlock()
	if p, ok := f.annotations[iri]; ok {
		return p
	}
	p := &AnnotationProperty{IRI: iri}
	f.annotations[iri] = p
	return p
}
