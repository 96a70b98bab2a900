package metrics

import (
	"github.com/Benny93/owlrdf-go/internal/owl"
)

// Count is one named integer statistic, e.g. "Class count".
type Count struct {
	Name  string `json:"name"`
	Value int    `json:"value"`
}

// ObjectCounts computes the object-count statistics of a finished ontology.
// Each distinct object is counted once, however many axioms mention it.
func ObjectCounts(ont *owl.Ontology) []Count {
	classes := make(map[string]struct{})
	objectProps := make(map[string]struct{})
	dataProps := make(map[string]struct{})
	individuals := make(map[string]struct{})
	anonymous := make(map[string]struct{})

	s := &signature{
		classes:     classes,
		objectProps: objectProps,
		dataProps:   dataProps,
		individuals: individuals,
		anonymous:   anonymous,
	}
	for _, ax := range ont.Axioms() {
		s.axiom(ax)
	}

	return []Count{
		{Name: "Axiom count", Value: ont.Len()},
		{Name: "Class count", Value: len(classes)},
		{Name: "Object property count", Value: len(objectProps)},
		{Name: "Data property count", Value: len(dataProps)},
		{Name: "Individual count", Value: len(individuals)},
		{Name: "Anonymous class expression count", Value: len(anonymous)},
	}
}

// CountMap flattens counts into a name-keyed map.
func CountMap(counts []Count) map[string]int {
	out := make(map[string]int, len(counts))
	for _, c := range counts {
		out[c.Name] = c.Value
	}
	return out
}

type signature struct {
	classes     map[string]struct{}
	objectProps map[string]struct{}
	dataProps   map[string]struct{}
	individuals map[string]struct{}
	anonymous   map[string]struct{}
}

func (s *signature) axiom(ax owl.Axiom) {
	switch a := ax.(type) {
	case *owl.Declaration:
		s.entity(a.Entity)
	case *owl.SubClassOf:
		s.class(a.Sub)
		s.class(a.Super)
	case *owl.EquivalentClasses:
		for _, c := range a.Classes {
			s.class(c)
		}
	case *owl.DisjointClasses:
		for _, c := range a.Classes {
			s.class(c)
		}
	case *owl.SubObjectPropertyOf:
		s.property(a.Sub)
		s.property(a.Super)
	case *owl.InverseObjectProperties:
		s.property(a.First)
		s.property(a.Second)
	case *owl.ObjectPropertyDomain:
		s.property(a.Property)
		s.class(a.Domain)
	case *owl.ObjectPropertyRange:
		s.property(a.Property)
		s.class(a.Range)
	case *owl.DataPropertyDomain:
		s.dataProps[a.Property.IRI] = struct{}{}
		s.class(a.Domain)
	case *owl.DataPropertyRange:
		s.dataProps[a.Property.IRI] = struct{}{}
	case *owl.ClassAssertion:
		s.class(a.Class)
		s.individual(a.Individual)
	case *owl.ObjectPropertyCharacteristic:
		s.property(a.Property)
	case *owl.FunctionalDataProperty:
		s.dataProps[a.Property.IRI] = struct{}{}
	}
}

func (s *signature) entity(e owl.Entity) {
	switch e.EntityType() {
	case owl.EntityClass:
		s.classes[e.EntityIRI()] = struct{}{}
	case owl.EntityObjectProperty:
		s.objectProps[e.EntityIRI()] = struct{}{}
	case owl.EntityDataProperty:
		s.dataProps[e.EntityIRI()] = struct{}{}
	case owl.EntityNamedIndividual:
		s.individuals[e.EntityIRI()] = struct{}{}
	}
}

func (s *signature) property(p owl.ObjectPropertyExpression) {
	s.objectProps[p.Named().IRI] = struct{}{}
}

func (s *signature) individual(i owl.Individual) {
	if n, ok := i.(*owl.NamedIndividual); ok {
		s.individuals[n.IRI] = struct{}{}
	}
}

func (s *signature) class(ce owl.ClassExpression) {
	if !ce.IsAnonymous() {
		s.classes[ce.(*owl.Class).IRI] = struct{}{}
		return
	}
	s.anonymous[ce.String()] = struct{}{}

	switch e := ce.(type) {
	case *owl.ObjectIntersectionOf:
		for _, op := range e.Operands {
			s.class(op)
		}
	case *owl.ObjectUnionOf:
		for _, op := range e.Operands {
			s.class(op)
		}
	case *owl.ObjectComplementOf:
		s.class(e.Operand)
	case *owl.ObjectOneOf:
		for _, i := range e.Individuals {
			s.individual(i)
		}
	case *owl.ObjectSomeValuesFrom:
		s.property(e.Property)
		s.class(e.Filler)
	case *owl.ObjectAllValuesFrom:
		s.property(e.Property)
		s.class(e.Filler)
	case *owl.ObjectHasValue:
		s.property(e.Property)
		s.individual(e.Value)
	case *owl.ObjectCardinality:
		s.property(e.Property)
		s.class(e.Filler)
	case *owl.DataSomeValuesFrom:
		s.dataProps[e.Property.IRI] = struct{}{}
	case *owl.DataAllValuesFrom:
		s.dataProps[e.Property.IRI] = struct{}{}
	case *owl.DataHasValue:
		s.dataProps[e.Property.IRI] = struct{}{}
	case *owl.DataCardinality:
		s.dataProps[e.Property.IRI] = struct{}{}
	}
}
