package owl

import (
	"strings"
)

// EntityType names the kind of a named entity.
type EntityType string

const (
	EntityClass           EntityType = "Class"
	EntityObjectProperty  EntityType = "ObjectProperty"
	EntityDataProperty    EntityType = "DataProperty"
	EntityNamedIndividual EntityType = "NamedIndividual"
	EntityDatatype        EntityType = "Datatype"

	EntityAnnotationProperty EntityType = "AnnotationProperty"
)

// Entity is a named ontology entity.
type Entity interface {
	EntityType() EntityType
	EntityIRI() string
	String() string
}

// AxiomType names an axiom variant.
type AxiomType string

const (
	AxiomDeclaration             AxiomType = "Declaration"
	AxiomSubClassOf              AxiomType = "SubClassOf"
	AxiomEquivalentClasses       AxiomType = "EquivalentClasses"
	AxiomDisjointClasses         AxiomType = "DisjointClasses"
	AxiomSubObjectPropertyOf     AxiomType = "SubObjectPropertyOf"
	AxiomInverseObjectProperties AxiomType = "InverseObjectProperties"
	AxiomObjectPropertyDomain    AxiomType = "ObjectPropertyDomain"
	AxiomObjectPropertyRange     AxiomType = "ObjectPropertyRange"
	AxiomDataPropertyDomain      AxiomType = "DataPropertyDomain"
	AxiomDataPropertyRange       AxiomType = "DataPropertyRange"
	AxiomClassAssertion          AxiomType = "ClassAssertion"
	AxiomAnnotationAssertion     AxiomType = "AnnotationAssertion"

	AxiomFunctionalObjectProperty        AxiomType = "FunctionalObjectProperty"
	AxiomInverseFunctionalObjectProperty AxiomType = "InverseFunctionalObjectProperty"
	AxiomTransitiveObjectProperty        AxiomType = "TransitiveObjectProperty"
	AxiomSymmetricObjectProperty         AxiomType = "SymmetricObjectProperty"
	AxiomAsymmetricObjectProperty        AxiomType = "AsymmetricObjectProperty"
	AxiomReflexiveObjectProperty         AxiomType = "ReflexiveObjectProperty"
	AxiomIrreflexiveObjectProperty       AxiomType = "IrreflexiveObjectProperty"
	AxiomFunctionalDataProperty          AxiomType = "FunctionalDataProperty"
)

// Axiom is a single ontology statement.
type Axiom interface {
	AxiomType() AxiomType
	String() string
}

// Declaration declares a named entity.
type Declaration struct {
	Entity Entity
}

func (a *Declaration) AxiomType() AxiomType { return AxiomDeclaration }
func (a *Declaration) String() string {
	return "Declaration(" + string(a.Entity.EntityType()) + "(" + a.Entity.String() + "))"
}

// SubClassOf states that Sub is subsumed by Super.
type SubClassOf struct {
	Sub   ClassExpression
	Super ClassExpression
}

func (a *SubClassOf) AxiomType() AxiomType { return AxiomSubClassOf }
func (a *SubClassOf) String() string {
	return "SubClassOf(" + a.Sub.String() + " " + a.Super.String() + ")"
}

// EquivalentClasses states that all operands denote the same class.
type EquivalentClasses struct {
	Classes []ClassExpression
}

func (a *EquivalentClasses) AxiomType() AxiomType { return AxiomEquivalentClasses }
func (a *EquivalentClasses) String() string {
	return "EquivalentClasses(" + joinExpressions(a.Classes) + ")"
}

// DisjointClasses states that the operands are pairwise disjoint.
type DisjointClasses struct {
	Classes []ClassExpression
}

func (a *DisjointClasses) AxiomType() AxiomType { return AxiomDisjointClasses }
func (a *DisjointClasses) String() string {
	return "DisjointClasses(" + joinExpressions(a.Classes) + ")"
}

// SubObjectPropertyOf states a property hierarchy edge.
type SubObjectPropertyOf struct {
	Sub   ObjectPropertyExpression
	Super ObjectPropertyExpression
}

func (a *SubObjectPropertyOf) AxiomType() AxiomType { return AxiomSubObjectPropertyOf }
func (a *SubObjectPropertyOf) String() string {
	return "SubObjectPropertyOf(" + a.Sub.String() + " " + a.Super.String() + ")"
}

// InverseObjectProperties states that two properties are inverses.
type InverseObjectProperties struct {
	First  ObjectPropertyExpression
	Second ObjectPropertyExpression
}

func (a *InverseObjectProperties) AxiomType() AxiomType { return AxiomInverseObjectProperties }
func (a *InverseObjectProperties) String() string {
	return "InverseObjectProperties(" + a.First.String() + " " + a.Second.String() + ")"
}

// ObjectPropertyDomain states the domain of an object property.
type ObjectPropertyDomain struct {
	Property ObjectPropertyExpression
	Domain   ClassExpression
}

func (a *ObjectPropertyDomain) AxiomType() AxiomType { return AxiomObjectPropertyDomain }
func (a *ObjectPropertyDomain) String() string {
	return "ObjectPropertyDomain(" + a.Property.String() + " " + a.Domain.String() + ")"
}

// ObjectPropertyRange states the range of an object property.
type ObjectPropertyRange struct {
	Property ObjectPropertyExpression
	Range    ClassExpression
}

func (a *ObjectPropertyRange) AxiomType() AxiomType { return AxiomObjectPropertyRange }
func (a *ObjectPropertyRange) String() string {
	return "ObjectPropertyRange(" + a.Property.String() + " " + a.Range.String() + ")"
}

// DataPropertyDomain states the domain of a data property.
type DataPropertyDomain struct {
	Property *DataProperty
	Domain   ClassExpression
}

func (a *DataPropertyDomain) AxiomType() AxiomType { return AxiomDataPropertyDomain }
func (a *DataPropertyDomain) String() string {
	return "DataPropertyDomain(" + a.Property.String() + " " + a.Domain.String() + ")"
}

// DataPropertyRange states the datatype range of a data property.
type DataPropertyRange struct {
	Property *DataProperty
	Range    *Datatype
}

func (a *DataPropertyRange) AxiomType() AxiomType { return AxiomDataPropertyRange }
func (a *DataPropertyRange) String() string {
	return "DataPropertyRange(" + a.Property.String() + " " + a.Range.String() + ")"
}

// ClassAssertion states that an individual is an instance of a class.
type ClassAssertion struct {
	Class      ClassExpression
	Individual Individual
}

func (a *ClassAssertion) AxiomType() AxiomType { return AxiomClassAssertion }
func (a *ClassAssertion) String() string {
	return "ClassAssertion(" + a.Class.String() + " " + a.Individual.String() + ")"
}

// AnnotationAssertion attaches a literal annotation to a subject. Value keeps
// the literal in N-Triples form so datatype and language survive.
type AnnotationAssertion struct {
	Property string
	Subject  string
	Value    string
}

func (a *AnnotationAssertion) AxiomType() AxiomType { return AxiomAnnotationAssertion }
func (a *AnnotationAssertion) String() string {
	return "AnnotationAssertion(<" + a.Property + "> " + a.Subject + " " + a.Value + ")"
}

// ObjectPropertyCharacteristic states one characteristic of an object
// property, such as transitivity. Type is one of the *ObjectProperty axiom
// types.
type ObjectPropertyCharacteristic struct {
	Type     AxiomType
	Property ObjectPropertyExpression
}

func (a *ObjectPropertyCharacteristic) AxiomType() AxiomType { return a.Type }
func (a *ObjectPropertyCharacteristic) String() string {
	return string(a.Type) + "(" + a.Property.String() + ")"
}

// FunctionalDataProperty states that a data property has at most one value
// per individual.
type FunctionalDataProperty struct {
	Property *DataProperty
}

func (a *FunctionalDataProperty) AxiomType() AxiomType { return AxiomFunctionalDataProperty }
func (a *FunctionalDataProperty) String() string {
	return "FunctionalDataProperty(" + a.Property.String() + ")"
}

// AxiomTypes lists every axiom type in a stable order.
func AxiomTypes() []AxiomType {
	return []AxiomType{
		AxiomDeclaration, AxiomSubClassOf, AxiomEquivalentClasses, AxiomDisjointClasses,
		AxiomSubObjectPropertyOf, AxiomInverseObjectProperties,
		AxiomObjectPropertyDomain, AxiomObjectPropertyRange,
		AxiomDataPropertyDomain, AxiomDataPropertyRange,
		AxiomClassAssertion, AxiomAnnotationAssertion,
		AxiomFunctionalObjectProperty, AxiomInverseFunctionalObjectProperty,
		AxiomTransitiveObjectProperty, AxiomSymmetricObjectProperty,
		AxiomAsymmetricObjectProperty, AxiomReflexiveObjectProperty,
		AxiomIrreflexiveObjectProperty, AxiomFunctionalDataProperty,
	}
}

// ParseAxiomType maps a case-insensitive name back to an AxiomType.
func ParseAxiomType(name string) (AxiomType, bool) {
	for _, t := range AxiomTypes() {
		if strings.EqualFold(string(t), name) {
			return t, true
		}
	}
	return "", false
}
