package consumer

import (
	"github.com/Benny93/owlrdf-go/internal/owl"
	"github.com/Benny93/owlrdf-go/internal/rdf"
	"github.com/Benny93/owlrdf-go/internal/vocab"
)

// classAssertionHandler turns (s rdf:type C) into ClassAssertion(C s) for any
// C outside the reserved vocabularies, plus owl:Thing.
type classAssertionHandler struct {
	vocab *vocab.Vocabulary
}

func (h *classAssertionHandler) Predicate() string { return h.vocab.RDFType }

func (h *classAssertionHandler) CanHandleStreaming(s rdf.Term, _ string, o rdf.Term) bool {
	return s.IsNode() && o.IsIRI() && h.assertable(o.Value)
}

func (h *classAssertionHandler) CanHandle(_ *Consumer, s rdf.Term, _ string, o rdf.Term) bool {
	if !s.IsNode() {
		return false
	}
	return o.IsBlank() || (o.IsIRI() && h.assertable(o.Value))
}

func (h *classAssertionHandler) Handle(c *Consumer, s rdf.Term, _ string, o rdf.Term) error {
	ce, err := c.TranslateClassExpression(o)
	if err != nil {
		return err
	}
	ind, err := c.translateIndividual(s, s)
	if err != nil {
		return err
	}
	c.ontology.Add(&owl.ClassAssertion{Class: ce, Individual: ind})
	return nil
}

func (h *classAssertionHandler) assertable(iri string) bool {
	return iri == h.vocab.Thing || !h.vocab.IsBuiltIn(iri)
}

// classAxiomHandler covers the binary class axioms. Two named ends are
// decidable on their own; anything involving a blank node waits for the
// resolution phase.
type classAxiomHandler struct {
	predicate string
	build     func(a, b owl.ClassExpression) owl.Axiom
}

func subClassOf(a, b owl.ClassExpression) owl.Axiom {
	return &owl.SubClassOf{Sub: a, Super: b}
}

func equivalentClasses(a, b owl.ClassExpression) owl.Axiom {
	return &owl.EquivalentClasses{Classes: []owl.ClassExpression{a, b}}
}

func disjointClasses(a, b owl.ClassExpression) owl.Axiom {
	return &owl.DisjointClasses{Classes: []owl.ClassExpression{a, b}}
}

func (h *classAxiomHandler) Predicate() string { return h.predicate }

func (h *classAxiomHandler) CanHandleStreaming(s rdf.Term, _ string, o rdf.Term) bool {
	return s.IsIRI() && o.IsIRI()
}

func (h *classAxiomHandler) CanHandle(_ *Consumer, s rdf.Term, _ string, o rdf.Term) bool {
	return s.IsNode() && o.IsNode()
}

func (h *classAxiomHandler) Handle(c *Consumer, s rdf.Term, _ string, o rdf.Term) error {
	sub, err := c.TranslateClassExpression(s)
	if err != nil {
		return err
	}
	sup, err := c.TranslateClassExpression(o)
	if err != nil {
		return err
	}
	c.ontology.Add(h.build(sub, sup))
	return nil
}

// subPropertyHandler needs the declared kind of the subject, so it only runs
// in the resolution phase.
type subPropertyHandler struct {
	predicate string
}

func (h *subPropertyHandler) Predicate() string { return h.predicate }

func (h *subPropertyHandler) CanHandleStreaming(rdf.Term, string, rdf.Term) bool { return false }

func (h *subPropertyHandler) CanHandle(c *Consumer, s rdf.Term, _ string, o rdf.Term) bool {
	return s.IsIRI() && o.IsIRI() && c.propertyKinds[s.Value] == owl.EntityObjectProperty
}

func (h *subPropertyHandler) Handle(c *Consumer, s rdf.Term, _ string, o rdf.Term) error {
	c.ontology.Add(&owl.SubObjectPropertyOf{
		Sub:   c.factory.ObjectProperty(s.Value),
		Super: c.factory.ObjectProperty(o.Value),
	})
	return nil
}

// inverseOfHandler handles owl:inverseOf between two named properties. Blank
// subjects are inverse property expressions, consumed by the restriction
// that uses them.
type inverseOfHandler struct {
	predicate string
}

func (h *inverseOfHandler) Predicate() string { return h.predicate }

func (h *inverseOfHandler) CanHandleStreaming(s rdf.Term, _ string, o rdf.Term) bool {
	return s.IsIRI() && o.IsIRI()
}

func (h *inverseOfHandler) CanHandle(_ *Consumer, s rdf.Term, _ string, o rdf.Term) bool {
	return s.IsIRI() && o.IsIRI()
}

func (h *inverseOfHandler) Handle(c *Consumer, s rdf.Term, _ string, o rdf.Term) error {
	c.propertyKinds[s.Value] = owl.EntityObjectProperty
	c.propertyKinds[o.Value] = owl.EntityObjectProperty
	c.ontology.Add(&owl.InverseObjectProperties{
		First:  c.factory.ObjectProperty(s.Value),
		Second: c.factory.ObjectProperty(o.Value),
	})
	return nil
}

// domainRangeHandler maps rdfs:domain and rdfs:range onto object or data
// property axioms depending on the declared kind of the subject.
type domainRangeHandler struct {
	predicate string
	isRange   bool
}

func (h *domainRangeHandler) Predicate() string { return h.predicate }

func (h *domainRangeHandler) CanHandleStreaming(rdf.Term, string, rdf.Term) bool { return false }

func (h *domainRangeHandler) CanHandle(c *Consumer, s rdf.Term, _ string, o rdf.Term) bool {
	if !s.IsIRI() || !o.IsNode() {
		return false
	}
	switch c.propertyKinds[s.Value] {
	case owl.EntityObjectProperty:
		return true
	case owl.EntityDataProperty:
		return !h.isRange || o.IsIRI()
	default:
		return false
	}
}

func (h *domainRangeHandler) Handle(c *Consumer, s rdf.Term, _ string, o rdf.Term) error {
	if c.propertyKinds[s.Value] == owl.EntityDataProperty {
		prop := c.factory.DataProperty(s.Value)
		if h.isRange {
			c.ontology.Add(&owl.DataPropertyRange{Property: prop, Range: c.factory.Datatype(o.Value)})
			return nil
		}
		domain, err := c.TranslateClassExpression(o)
		if err != nil {
			return err
		}
		c.ontology.Add(&owl.DataPropertyDomain{Property: prop, Domain: domain})
		return nil
	}

	prop := c.factory.ObjectProperty(s.Value)
	ce, err := c.TranslateClassExpression(o)
	if err != nil {
		return err
	}
	if h.isRange {
		c.ontology.Add(&owl.ObjectPropertyRange{Property: prop, Range: ce})
	} else {
		c.ontology.Add(&owl.ObjectPropertyDomain{Property: prop, Domain: ce})
	}
	return nil
}

// annotationHandler turns rdfs:label and rdfs:comment literals into
// annotation assertions.
type annotationHandler struct {
	predicate string
}

func (h *annotationHandler) Predicate() string { return h.predicate }

func (h *annotationHandler) CanHandleStreaming(s rdf.Term, _ string, o rdf.Term) bool {
	return s.IsNode() && o.IsLiteral()
}

func (h *annotationHandler) CanHandle(_ *Consumer, s rdf.Term, _ string, o rdf.Term) bool {
	return s.IsNode() && o.IsLiteral()
}

func (h *annotationHandler) Handle(c *Consumer, s rdf.Term, p string, o rdf.Term) error {
	c.ontology.Add(&owl.AnnotationAssertion{Property: p, Subject: s.String(), Value: o.String()})
	return nil
}

// booleanHandler handles owl:intersectionOf, owl:unionOf, owl:complementOf
// and owl:oneOf. On a named subject the expression becomes an equivalence
// with that class; a blank subject is translated and cached.
type booleanHandler struct {
	predicate string
}

func (h *booleanHandler) Predicate() string { return h.predicate }

func (h *booleanHandler) CanHandleStreaming(rdf.Term, string, rdf.Term) bool { return false }

func (h *booleanHandler) CanHandle(c *Consumer, s rdf.Term, _ string, _ rdf.Term) bool {
	if s.IsIRI() {
		return true
	}
	if !s.IsBlank() {
		return false
	}
	if _, ok := c.failed[s]; ok {
		return true
	}
	_, done := c.expressions[s]
	return !done
}

func (h *booleanHandler) Handle(c *Consumer, s rdf.Term, p string, o rdf.Term) error {
	if s.IsBlank() {
		_, err := c.TranslateClassExpression(s)
		return err
	}
	ce, err := c.booleanExpression(s, p, o)
	if err != nil {
		return err
	}
	c.ontology.Add(&owl.EquivalentClasses{Classes: []owl.ClassExpression{c.ClassFor(s), ce}})
	return nil
}

// restrictionComponentHandler claims the onProperty, filler and cardinality
// triples of a restriction head during resolution by translating the head.
type restrictionComponentHandler struct {
	predicate string
}

func (h *restrictionComponentHandler) Predicate() string { return h.predicate }

func (h *restrictionComponentHandler) CanHandleStreaming(rdf.Term, string, rdf.Term) bool {
	return false
}

func (h *restrictionComponentHandler) CanHandle(c *Consumer, s rdf.Term, _ string, _ rdf.Term) bool {
	if _, ok := c.failed[s]; ok {
		return true
	}
	if _, done := c.expressions[s]; done {
		return false
	}
	return c.isRestrictionHead(s)
}

func (h *restrictionComponentHandler) Handle(c *Consumer, s rdf.Term, _ string, _ rdf.Term) error {
	_, err := c.TranslateClassExpression(s)
	return err
}
