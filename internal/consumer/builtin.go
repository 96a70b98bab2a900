package consumer

import (
	"github.com/Benny93/owlrdf-go/internal/owl"
	"github.com/Benny93/owlrdf-go/internal/rdf"
	"github.com/Benny93/owlrdf-go/internal/vocab"
)

// BuiltInTypeHandler recognises rdf:type triples whose object is one fixed
// vocabulary URI, such as owl:Restriction. Such a triple is always decidable
// on its own, so the handler always claims it in the streaming phase.
type BuiltInTypeHandler struct {
	rdfType string
	typeIRI string
	onType  func(c *Consumer, subject rdf.Term) error
}

// NewBuiltInTypeHandler creates a handler for (s, rdfType, typeIRI) triples.
// onType runs for every matched subject and may be nil.
func NewBuiltInTypeHandler(rdfType, typeIRI string, onType func(c *Consumer, subject rdf.Term) error) *BuiltInTypeHandler {
	return &BuiltInTypeHandler{rdfType: rdfType, typeIRI: typeIRI, onType: onType}
}

func (h *BuiltInTypeHandler) Predicate() string { return h.rdfType }

// TypeIRI returns the object URI this handler matches.
func (h *BuiltInTypeHandler) TypeIRI() string { return h.typeIRI }

func (h *BuiltInTypeHandler) CanHandleStreaming(rdf.Term, string, rdf.Term) bool {
	return true
}

func (h *BuiltInTypeHandler) CanHandle(_ *Consumer, _ rdf.Term, p string, o rdf.Term) bool {
	return p == h.rdfType && o.IsIRI() && o.Value == h.typeIRI
}

func (h *BuiltInTypeHandler) Handle(c *Consumer, s rdf.Term, _ string, _ rdf.Term) error {
	if h.onType == nil {
		return nil
	}
	return h.onType(c, s)
}

func builtInTypeHandlers(v *vocab.Vocabulary) []*BuiltInTypeHandler {
	return []*BuiltInTypeHandler{
		NewBuiltInTypeHandler(v.RDFType, v.Restriction, func(c *Consumer, s rdf.Term) error {
			if s.IsBlank() {
				c.restrictionHeads[s] = struct{}{}
			}
			return nil
		}),
		NewBuiltInTypeHandler(v.RDFType, v.Class, func(c *Consumer, s rdf.Term) error {
			if s.IsIRI() {
				c.ontology.Add(&owl.Declaration{Entity: c.factory.Class(s.Value)})
			}
			return nil
		}),
		NewBuiltInTypeHandler(v.RDFType, v.ObjectProperty, func(c *Consumer, s rdf.Term) error {
			if s.IsIRI() {
				c.propertyKinds[s.Value] = owl.EntityObjectProperty
				c.ontology.Add(&owl.Declaration{Entity: c.factory.ObjectProperty(s.Value)})
			}
			return nil
		}),
		NewBuiltInTypeHandler(v.RDFType, v.DatatypeProperty, func(c *Consumer, s rdf.Term) error {
			if s.IsIRI() {
				c.propertyKinds[s.Value] = owl.EntityDataProperty
				c.ontology.Add(&owl.Declaration{Entity: c.factory.DataProperty(s.Value)})
			}
			return nil
		}),
		NewBuiltInTypeHandler(v.RDFType, v.NamedIndividual, func(c *Consumer, s rdf.Term) error {
			if s.IsIRI() {
				c.ontology.Add(&owl.Declaration{Entity: c.factory.NamedIndividual(s.Value)})
			}
			return nil
		}),
		NewBuiltInTypeHandler(v.RDFType, v.Ontology, func(c *Consumer, s rdf.Term) error {
			if s.IsIRI() {
				c.ontology.SetIRI(s.Value)
			}
			return nil
		}),
		NewBuiltInTypeHandler(v.RDFType, v.RDFSClass, func(c *Consumer, s rdf.Term) error {
			if s.IsIRI() {
				c.ontology.Add(&owl.Declaration{Entity: c.factory.Class(s.Value)})
			}
			return nil
		}),
		NewBuiltInTypeHandler(v.RDFType, v.RDFSDatatype, func(c *Consumer, s rdf.Term) error {
			if s.IsIRI() {
				c.datatypes[s.Value] = struct{}{}
				c.ontology.Add(&owl.Declaration{Entity: c.factory.Datatype(s.Value)})
			}
			return nil
		}),
		NewBuiltInTypeHandler(v.RDFType, v.AnnotationProperty, func(c *Consumer, s rdf.Term) error {
			if s.IsIRI() {
				c.propertyKinds[s.Value] = owl.EntityAnnotationProperty
				c.ontology.Add(&owl.Declaration{Entity: c.factory.AnnotationProperty(s.Value)})
			}
			return nil
		}),
		// Functional applies to both property kinds, so the axiom waits for
		// Finish when every declaration is known.
		NewBuiltInTypeHandler(v.RDFType, v.FunctionalProperty, func(c *Consumer, s rdf.Term) error {
			if s.IsIRI() {
				c.functional = append(c.functional, s.Value)
			}
			return nil
		}),
		characteristicHandler(v, v.InverseFunctionalProperty, owl.AxiomInverseFunctionalObjectProperty),
		characteristicHandler(v, v.TransitiveProperty, owl.AxiomTransitiveObjectProperty),
		characteristicHandler(v, v.SymmetricProperty, owl.AxiomSymmetricObjectProperty),
		characteristicHandler(v, v.AsymmetricProperty, owl.AxiomAsymmetricObjectProperty),
		characteristicHandler(v, v.ReflexiveProperty, owl.AxiomReflexiveObjectProperty),
		characteristicHandler(v, v.IrreflexiveProperty, owl.AxiomIrreflexiveObjectProperty),
	}
}

// characteristicHandler handles a characteristic that only object
// properties carry. An undeclared subject is recorded as an object property.
func characteristicHandler(v *vocab.Vocabulary, typeIRI string, axiom owl.AxiomType) *BuiltInTypeHandler {
	return NewBuiltInTypeHandler(v.RDFType, typeIRI, func(c *Consumer, s rdf.Term) error {
		if !s.IsIRI() {
			return nil
		}
		if _, known := c.propertyKinds[s.Value]; !known {
			c.propertyKinds[s.Value] = owl.EntityObjectProperty
		}
		c.ontology.Add(&owl.ObjectPropertyCharacteristic{
			Type:     axiom,
			Property: c.factory.ObjectProperty(s.Value),
		})
		return nil
	})
}
