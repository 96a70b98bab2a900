package owl

import (
	"strconv"
	"strings"
)

// LiteralIRI is rdfs:Literal, the universal data range.
const LiteralIRI = "http://www.w3.org/2000/01/rdf-schema#Literal"

const (
	TypeDataSomeValuesFrom   ClassExpressionType = "DataSomeValuesFrom"
	TypeDataAllValuesFrom    ClassExpressionType = "DataAllValuesFrom"
	TypeDataHasValue         ClassExpressionType = "DataHasValue"
	TypeDataMinCardinality   ClassExpressionType = "DataMinCardinality"
	TypeDataMaxCardinality   ClassExpressionType = "DataMaxCardinality"
	TypeDataExactCardinality ClassExpressionType = "DataExactCardinality"
)

// DataRange is a datatype or an enumeration of literals.
type DataRange interface {
	String() string
}

// DataOneOf enumerates literal values. Values keep the N-Triples form.
type DataOneOf struct {
	Values []string
}

func (r *DataOneOf) String() string {
	return "DataOneOf(" + strings.Join(r.Values, " ") + ")"
}

// IsTopDatatype reports whether r is rdfs:Literal.
func IsTopDatatype(r DataRange) bool {
	d, ok := r.(*Datatype)
	return ok && d.IRI == LiteralIRI
}

// DataSomeValuesFrom is an existential restriction on a data property.
type DataSomeValuesFrom struct {
	Property *DataProperty
	Range    DataRange
}

func (e *DataSomeValuesFrom) ClassExpressionType() ClassExpressionType {
	return TypeDataSomeValuesFrom
}
func (e *DataSomeValuesFrom) IsAnonymous() bool { return true }
func (e *DataSomeValuesFrom) String() string {
	return "DataSomeValuesFrom(" + e.Property.String() + " " + e.Range.String() + ")"
}

// DataAllValuesFrom is a universal restriction on a data property.
type DataAllValuesFrom struct {
	Property *DataProperty
	Range    DataRange
}

func (e *DataAllValuesFrom) ClassExpressionType() ClassExpressionType {
	return TypeDataAllValuesFrom
}
func (e *DataAllValuesFrom) IsAnonymous() bool { return true }
func (e *DataAllValuesFrom) String() string {
	return "DataAllValuesFrom(" + e.Property.String() + " " + e.Range.String() + ")"
}

// DataHasValue restricts a data property to one literal, kept in N-Triples
// form.
type DataHasValue struct {
	Property *DataProperty
	Value    string
}

func (e *DataHasValue) ClassExpressionType() ClassExpressionType { return TypeDataHasValue }
func (e *DataHasValue) IsAnonymous() bool                        { return true }
func (e *DataHasValue) String() string {
	return "DataHasValue(" + e.Property.String() + " " + e.Value + ")"
}

// DataCardinality is a min, max or exact cardinality restriction on a data
// property. It is qualified when its range is anything but rdfs:Literal.
type DataCardinality struct {
	Kind        CardinalityKind
	Property    *DataProperty
	Cardinality int
	Range       DataRange
}

func (e *DataCardinality) ClassExpressionType() ClassExpressionType {
	switch e.Kind {
	case MinCardinality:
		return TypeDataMinCardinality
	case MaxCardinality:
		return TypeDataMaxCardinality
	default:
		return TypeDataExactCardinality
	}
}
func (e *DataCardinality) IsAnonymous() bool { return true }

// IsQualified reports whether the range is narrower than rdfs:Literal.
func (e *DataCardinality) IsQualified() bool {
	return !IsTopDatatype(e.Range)
}

// HasCardinality reports whether a number was supplied.
func (e *DataCardinality) HasCardinality() bool {
	return e.Cardinality != CardinalityUnset
}

func (e *DataCardinality) String() string {
	s := string(e.ClassExpressionType()) + "(" + strconv.Itoa(e.Cardinality) + " " + e.Property.String()
	if e.IsQualified() {
		s += " " + e.Range.String()
	}
	return s + ")"
}
