// Package owl provides the ontology object model produced by the triple
// consumer: class expressions, property expressions, individuals and axioms,
// plus an interning factory and the ontology container.
//
// Every object renders itself in OWL 2 functional syntax; the rendering is
// also the structural identity used to de-duplicate axioms.
package owl

import (
	"strconv"
	"strings"
)

// ClassExpressionType names a class expression variant.
type ClassExpressionType string

const (
	TypeClass                  ClassExpressionType = "Class"
	TypeObjectIntersectionOf   ClassExpressionType = "ObjectIntersectionOf"
	TypeObjectUnionOf          ClassExpressionType = "ObjectUnionOf"
	TypeObjectComplementOf     ClassExpressionType = "ObjectComplementOf"
	TypeObjectOneOf            ClassExpressionType = "ObjectOneOf"
	TypeObjectSomeValuesFrom   ClassExpressionType = "ObjectSomeValuesFrom"
	TypeObjectAllValuesFrom    ClassExpressionType = "ObjectAllValuesFrom"
	TypeObjectHasValue         ClassExpressionType = "ObjectHasValue"
	TypeObjectMinCardinality   ClassExpressionType = "ObjectMinCardinality"
	TypeObjectMaxCardinality   ClassExpressionType = "ObjectMaxCardinality"
	TypeObjectExactCardinality ClassExpressionType = "ObjectExactCardinality"
)

// ClassExpression is any OWL class expression.
type ClassExpression interface {
	ClassExpressionType() ClassExpressionType
	// IsAnonymous is false only for named classes.
	IsAnonymous() bool
	String() string
}

// ObjectPropertyExpression is a named object property or its inverse.
type ObjectPropertyExpression interface {
	String() string
	// Named returns the underlying named property.
	Named() *ObjectProperty
}

// Individual is a named or anonymous individual.
type Individual interface {
	String() string
}

// Class is a named class.
type Class struct {
	IRI string
}

func (c *Class) ClassExpressionType() ClassExpressionType { return TypeClass }
func (c *Class) IsAnonymous() bool                        { return false }
func (c *Class) String() string                           { return "<" + c.IRI + ">" }
func (c *Class) EntityType() EntityType                   { return EntityClass }
func (c *Class) EntityIRI() string                        { return c.IRI }

// ObjectProperty is a named object property.
type ObjectProperty struct {
	IRI string
}

func (p *ObjectProperty) String() string         { return "<" + p.IRI + ">" }
func (p *ObjectProperty) Named() *ObjectProperty { return p }
func (p *ObjectProperty) EntityType() EntityType { return EntityObjectProperty }
func (p *ObjectProperty) EntityIRI() string      { return p.IRI }

// ObjectInverseOf is the inverse of a named object property.
type ObjectInverseOf struct {
	Property *ObjectProperty
}

func (p *ObjectInverseOf) String() string         { return "ObjectInverseOf(" + p.Property.String() + ")" }
func (p *ObjectInverseOf) Named() *ObjectProperty { return p.Property }

// DataProperty is a named data property.
type DataProperty struct {
	IRI string
}

func (p *DataProperty) String() string         { return "<" + p.IRI + ">" }
func (p *DataProperty) EntityType() EntityType { return EntityDataProperty }
func (p *DataProperty) EntityIRI() string      { return p.IRI }

// AnnotationProperty is a named annotation property.
type AnnotationProperty struct {
	IRI string
}

func (p *AnnotationProperty) String() string         { return "<" + p.IRI + ">" }
func (p *AnnotationProperty) EntityType() EntityType { return EntityAnnotationProperty }
func (p *AnnotationProperty) EntityIRI() string      { return p.IRI }

// Datatype is a named datatype.
type Datatype struct {
	IRI string
}

func (d *Datatype) String() string         { return "<" + d.IRI + ">" }
func (d *Datatype) EntityType() EntityType { return EntityDatatype }
func (d *Datatype) EntityIRI() string      { return d.IRI }

// NamedIndividual is an individual with a global IRI.
type NamedIndividual struct {
	IRI string
}

func (i *NamedIndividual) String() string         { return "<" + i.IRI + ">" }
func (i *NamedIndividual) EntityType() EntityType { return EntityNamedIndividual }
func (i *NamedIndividual) EntityIRI() string      { return i.IRI }

// AnonymousIndividual is an individual identified by a blank node.
type AnonymousIndividual struct {
	NodeID string
}

func (i *AnonymousIndividual) String() string { return "_:" + i.NodeID }

// ObjectIntersectionOf is the conjunction of its operands.
type ObjectIntersectionOf struct {
	Operands []ClassExpression
}

func (e *ObjectIntersectionOf) ClassExpressionType() ClassExpressionType {
	return TypeObjectIntersectionOf
}
func (e *ObjectIntersectionOf) IsAnonymous() bool { return true }
func (e *ObjectIntersectionOf) String() string {
	return "ObjectIntersectionOf(" + joinExpressions(e.Operands) + ")"
}

// ObjectUnionOf is the disjunction of its operands.
type ObjectUnionOf struct {
	Operands []ClassExpression
}

func (e *ObjectUnionOf) ClassExpressionType() ClassExpressionType { return TypeObjectUnionOf }
func (e *ObjectUnionOf) IsAnonymous() bool                        { return true }
func (e *ObjectUnionOf) String() string {
	return "ObjectUnionOf(" + joinExpressions(e.Operands) + ")"
}

// ObjectComplementOf is the negation of its operand.
type ObjectComplementOf struct {
	Operand ClassExpression
}

func (e *ObjectComplementOf) ClassExpressionType() ClassExpressionType {
	return TypeObjectComplementOf
}
func (e *ObjectComplementOf) IsAnonymous() bool { return true }
func (e *ObjectComplementOf) String() string {
	return "ObjectComplementOf(" + e.Operand.String() + ")"
}

// ObjectOneOf is an enumeration of individuals.
type ObjectOneOf struct {
	Individuals []Individual
}

func (e *ObjectOneOf) ClassExpressionType() ClassExpressionType { return TypeObjectOneOf }
func (e *ObjectOneOf) IsAnonymous() bool                        { return true }
func (e *ObjectOneOf) String() string {
	parts := make([]string, len(e.Individuals))
	for i, ind := range e.Individuals {
		parts[i] = ind.String()
	}
	return "ObjectOneOf(" + strings.Join(parts, " ") + ")"
}

// ObjectSomeValuesFrom is an existential restriction.
type ObjectSomeValuesFrom struct {
	Property ObjectPropertyExpression
	Filler   ClassExpression
}

func (e *ObjectSomeValuesFrom) ClassExpressionType() ClassExpressionType {
	return TypeObjectSomeValuesFrom
}
func (e *ObjectSomeValuesFrom) IsAnonymous() bool { return true }
func (e *ObjectSomeValuesFrom) String() string {
	return "ObjectSomeValuesFrom(" + e.Property.String() + " " + e.Filler.String() + ")"
}

// ObjectAllValuesFrom is a universal restriction.
type ObjectAllValuesFrom struct {
	Property ObjectPropertyExpression
	Filler   ClassExpression
}

func (e *ObjectAllValuesFrom) ClassExpressionType() ClassExpressionType {
	return TypeObjectAllValuesFrom
}
func (e *ObjectAllValuesFrom) IsAnonymous() bool { return true }
func (e *ObjectAllValuesFrom) String() string {
	return "ObjectAllValuesFrom(" + e.Property.String() + " " + e.Filler.String() + ")"
}

// ObjectHasValue restricts a property to a specific individual.
type ObjectHasValue struct {
	Property ObjectPropertyExpression
	Value    Individual
}

func (e *ObjectHasValue) ClassExpressionType() ClassExpressionType { return TypeObjectHasValue }
func (e *ObjectHasValue) IsAnonymous() bool                        { return true }
func (e *ObjectHasValue) String() string {
	return "ObjectHasValue(" + e.Property.String() + " " + e.Value.String() + ")"
}

// CardinalityKind selects min, max or exact cardinality.
type CardinalityKind int

const (
	MinCardinality CardinalityKind = iota
	MaxCardinality
	ExactCardinality
)

// CardinalityUnset marks a cardinality restriction whose number triple was
// absent. It is distinct from an explicit zero.
const CardinalityUnset = -1

// ObjectCardinality is a min, max or exact cardinality restriction. It is
// qualified when its filler is anything other than owl:Thing.
type ObjectCardinality struct {
	Kind        CardinalityKind
	Property    ObjectPropertyExpression
	Cardinality int
	Filler      ClassExpression
}

func (e *ObjectCardinality) ClassExpressionType() ClassExpressionType {
	switch e.Kind {
	case MinCardinality:
		return TypeObjectMinCardinality
	case MaxCardinality:
		return TypeObjectMaxCardinality
	default:
		return TypeObjectExactCardinality
	}
}
func (e *ObjectCardinality) IsAnonymous() bool { return true }

// IsQualified reports whether the restriction constrains its fillers to a
// class other than owl:Thing.
func (e *ObjectCardinality) IsQualified() bool {
	return !IsThing(e.Filler)
}

// HasCardinality reports whether a number was supplied.
func (e *ObjectCardinality) HasCardinality() bool {
	return e.Cardinality != CardinalityUnset
}

func (e *ObjectCardinality) String() string {
	s := string(e.ClassExpressionType()) + "(" + strconv.Itoa(e.Cardinality) + " " + e.Property.String()
	if e.IsQualified() {
		s += " " + e.Filler.String()
	}
	return s + ")"
}

// IsThing reports whether ce is the universal class.
func IsThing(ce ClassExpression) bool {
	c, ok := ce.(*Class)
	return ok && c.IRI == ThingIRI
}

func joinExpressions(exprs []ClassExpression) string {
	parts := make([]string, len(exprs))
	for i, e := range exprs {
		parts[i] = e.String()
	}
	return strings.Join(parts, " ")
}
