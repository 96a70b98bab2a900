// Package vocab provides the table of well-known URIs that the triple
// handlers and restriction translators are parameterized over.
//
// Swapping the table is how the same consumer targets a different OWL
// version: OWL2 is the default, OWL11 keeps the 2006 draft namespace for the
// qualified cardinality vocabulary.
package vocab

import (
	"fmt"
	"os"
	"reflect"
	"strings"

	"gopkg.in/yaml.v3"
)

// Namespaces.
const (
	RDF     = "http://www.w3.org/1999/02/22-rdf-syntax-ns#"
	RDFS    = "http://www.w3.org/2000/01/rdf-schema#"
	OWL     = "http://www.w3.org/2002/07/owl#"
	XSD     = "http://www.w3.org/2001/XMLSchema#"
	OWL11NS = "http://www.w3.org/2006/12/owl11#"
)

// Vocabulary is the set of URIs the consumer recognises.
type Vocabulary struct {
	Name string `yaml:"name"`

	RDFType  string `yaml:"rdf_type"`
	RDFFirst string `yaml:"rdf_first"`
	RDFRest  string `yaml:"rdf_rest"`
	RDFNil   string `yaml:"rdf_nil"`

	SubClassOf    string `yaml:"subclass_of"`
	SubPropertyOf string `yaml:"subproperty_of"`
	Domain        string `yaml:"domain"`
	Range         string `yaml:"range"`
	Label         string `yaml:"label"`
	Comment       string `yaml:"comment"`
	RDFSClass     string `yaml:"rdfs_class"`
	RDFSDatatype  string `yaml:"rdfs_datatype"`

	Class            string `yaml:"class"`
	Restriction      string `yaml:"restriction"`
	ObjectProperty   string `yaml:"object_property"`
	DatatypeProperty string `yaml:"datatype_property"`
	NamedIndividual  string `yaml:"named_individual"`
	Ontology         string `yaml:"ontology"`
	Thing            string `yaml:"thing"`
	Nothing          string `yaml:"nothing"`

	AnnotationProperty        string `yaml:"annotation_property"`
	FunctionalProperty        string `yaml:"functional_property"`
	InverseFunctionalProperty string `yaml:"inverse_functional_property"`
	TransitiveProperty        string `yaml:"transitive_property"`
	SymmetricProperty         string `yaml:"symmetric_property"`
	AsymmetricProperty        string `yaml:"asymmetric_property"`
	ReflexiveProperty         string `yaml:"reflexive_property"`
	IrreflexiveProperty       string `yaml:"irreflexive_property"`

	OnProperty     string `yaml:"on_property"`
	OnClass        string `yaml:"on_class"`
	OnDataRange    string `yaml:"on_data_range"`
	SomeValuesFrom string `yaml:"some_values_from"`
	AllValuesFrom  string `yaml:"all_values_from"`
	HasValue       string `yaml:"has_value"`

	MinCardinality          string `yaml:"min_cardinality"`
	MaxCardinality          string `yaml:"max_cardinality"`
	Cardinality             string `yaml:"cardinality"`
	MinQualifiedCardinality string `yaml:"min_qualified_cardinality"`
	MaxQualifiedCardinality string `yaml:"max_qualified_cardinality"`
	QualifiedCardinality    string `yaml:"qualified_cardinality"`

	EquivalentClass string `yaml:"equivalent_class"`
	DisjointWith    string `yaml:"disjoint_with"`
	IntersectionOf  string `yaml:"intersection_of"`
	UnionOf         string `yaml:"union_of"`
	ComplementOf    string `yaml:"complement_of"`
	OneOf           string `yaml:"one_of"`
	InverseOf       string `yaml:"inverse_of"`
}

// OWL2 returns the OWL 2 RDF mapping vocabulary.
func OWL2() *Vocabulary {
	return &Vocabulary{
		Name: "owl2",

		RDFType:  RDF + "type",
		RDFFirst: RDF + "first",
		RDFRest:  RDF + "rest",
		RDFNil:   RDF + "nil",

		SubClassOf:    RDFS + "subClassOf",
		SubPropertyOf: RDFS + "subPropertyOf",
		Domain:        RDFS + "domain",
		Range:         RDFS + "range",
		Label:         RDFS + "label",
		Comment:       RDFS + "comment",
		RDFSClass:     RDFS + "Class",
		RDFSDatatype:  RDFS + "Datatype",

		Class:            OWL + "Class",
		Restriction:      OWL + "Restriction",
		ObjectProperty:   OWL + "ObjectProperty",
		DatatypeProperty: OWL + "DatatypeProperty",
		NamedIndividual:  OWL + "NamedIndividual",
		Ontology:         OWL + "Ontology",
		Thing:            OWL + "Thing",
		Nothing:          OWL + "Nothing",

		AnnotationProperty:        OWL + "AnnotationProperty",
		FunctionalProperty:        OWL + "FunctionalProperty",
		InverseFunctionalProperty: OWL + "InverseFunctionalProperty",
		TransitiveProperty:        OWL + "TransitiveProperty",
		SymmetricProperty:         OWL + "SymmetricProperty",
		AsymmetricProperty:        OWL + "AsymmetricProperty",
		ReflexiveProperty:         OWL + "ReflexiveProperty",
		IrreflexiveProperty:       OWL + "IrreflexiveProperty",

		OnProperty:     OWL + "onProperty",
		OnClass:        OWL + "onClass",
		OnDataRange:    OWL + "onDataRange",
		SomeValuesFrom: OWL + "someValuesFrom",
		AllValuesFrom:  OWL + "allValuesFrom",
		HasValue:       OWL + "hasValue",

		MinCardinality:          OWL + "minCardinality",
		MaxCardinality:          OWL + "maxCardinality",
		Cardinality:             OWL + "cardinality",
		MinQualifiedCardinality: OWL + "minQualifiedCardinality",
		MaxQualifiedCardinality: OWL + "maxQualifiedCardinality",
		QualifiedCardinality:    OWL + "qualifiedCardinality",

		EquivalentClass: OWL + "equivalentClass",
		DisjointWith:    OWL + "disjointWith",
		IntersectionOf:  OWL + "intersectionOf",
		UnionOf:         OWL + "unionOf",
		ComplementOf:    OWL + "complementOf",
		OneOf:           OWL + "oneOf",
		InverseOf:       OWL + "inverseOf",
	}
}

// OWL11 returns the OWL 1.1 draft vocabulary, which placed onClass,
// onDataRange and the qualified cardinality predicates in their own namespace.
func OWL11() *Vocabulary {
	v := OWL2()
	v.Name = "owl11"
	v.OnClass = OWL11NS + "onClass"
	v.OnDataRange = OWL11NS + "onDataRange"
	v.MinQualifiedCardinality = OWL11NS + "minQualifiedCardinality"
	v.MaxQualifiedCardinality = OWL11NS + "maxQualifiedCardinality"
	v.QualifiedCardinality = OWL11NS + "qualifiedCardinality"
	return v
}

// ByName returns a preset vocabulary.
func ByName(name string) (*Vocabulary, error) {
	switch strings.ToLower(name) {
	case "", "owl2":
		return OWL2(), nil
	case "owl11":
		return OWL11(), nil
	default:
		return nil, fmt.Errorf("unknown vocabulary %q", name)
	}
}

// Load reads a vocabulary table from a YAML file. Entries missing from the
// file keep their OWL 2 values.
func Load(path string) (*Vocabulary, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading vocabulary: %w", err)
	}

	v := OWL2()
	v.Name = ""
	if err := yaml.Unmarshal(data, v); err != nil {
		return nil, fmt.Errorf("parsing vocabulary: %w", err)
	}
	if v.Name == "" {
		v.Name = path
	}
	if err := v.Validate(); err != nil {
		return nil, err
	}
	return v, nil
}

// Resolve interprets ref as a preset name, falling back to a file path.
func Resolve(ref string) (*Vocabulary, error) {
	if v, err := ByName(ref); err == nil {
		return v, nil
	}
	return Load(ref)
}

// Validate checks that every entry is set.
func (v *Vocabulary) Validate() error {
	rv := reflect.ValueOf(v).Elem()
	rt := rv.Type()
	for i := 0; i < rt.NumField(); i++ {
		if rv.Field(i).String() == "" {
			return fmt.Errorf("vocabulary entry %s is empty", rt.Field(i).Tag.Get("yaml"))
		}
	}
	return nil
}

// IsBuiltIn reports whether iri lies in one of the reserved RDF, RDFS, OWL or
// XSD namespaces.
func (v *Vocabulary) IsBuiltIn(iri string) bool {
	for _, ns := range []string{RDF, RDFS, OWL, XSD, OWL11NS} {
		if strings.HasPrefix(iri, ns) {
			return true
		}
	}
	return false
}

// CardinalityPredicates returns the six cardinality predicates.
func (v *Vocabulary) CardinalityPredicates() []string {
	return []string{
		v.MinCardinality, v.MaxCardinality, v.Cardinality,
		v.MinQualifiedCardinality, v.MaxQualifiedCardinality, v.QualifiedCardinality,
	}
}
