// Package rdf provides the RDF term and triple model consumed by the OWL
// triple consumer, together with an N-Triples reader and writer.
//
// Terms are small comparable values so they can be used directly as map keys
// by the triple store and the translation caches.
package rdf

import (
	"strings"
)

// Kind distinguishes the three kinds of RDF term.
type Kind uint8

const (
	// KindIRI is a named resource.
	KindIRI Kind = iota + 1
	// KindBlank is an anonymous node with parse-local identity.
	KindBlank
	// KindLiteral is a lexical value with an optional datatype or language tag.
	KindLiteral
)

// String returns a short name for the kind.
func (k Kind) String() string {
	switch k {
	case KindIRI:
		return "iri"
	case KindBlank:
		return "blank"
	case KindLiteral:
		return "literal"
	default:
		return "unknown"
	}
}

// Term is an RDF term.
//
// For IRIs Value holds the absolute IRI, for blank nodes the label without the
// "_:" prefix, and for literals the lexical form.
type Term struct {
	Kind     Kind
	Value    string
	Datatype string
	Language string
}

// IRI returns a named resource term.
func IRI(iri string) Term {
	return Term{Kind: KindIRI, Value: iri}
}

// Blank returns a blank node term with the given label.
func Blank(label string) Term {
	return Term{Kind: KindBlank, Value: label}
}

// Literal returns a plain literal.
func Literal(lexical string) Term {
	return Term{Kind: KindLiteral, Value: lexical}
}

// TypedLiteral returns a literal with a datatype IRI.
func TypedLiteral(lexical, datatype string) Term {
	return Term{Kind: KindLiteral, Value: lexical, Datatype: datatype}
}

// LangLiteral returns a language-tagged literal.
func LangLiteral(lexical, language string) Term {
	return Term{Kind: KindLiteral, Value: lexical, Language: language}
}

// IsZero reports whether the term is unset.
func (t Term) IsZero() bool {
	return t.Kind == 0
}

// IsIRI reports whether the term is a named resource.
func (t Term) IsIRI() bool {
	return t.Kind == KindIRI
}

// IsBlank reports whether the term is a blank node.
func (t Term) IsBlank() bool {
	return t.Kind == KindBlank
}

// IsLiteral reports whether the term is a literal.
func (t Term) IsLiteral() bool {
	return t.Kind == KindLiteral
}

// IsNode reports whether the term can appear in subject position.
func (t Term) IsNode() bool {
	return t.Kind == KindIRI || t.Kind == KindBlank
}

// String returns the N-Triples rendering of the term.
func (t Term) String() string {
	switch t.Kind {
	case KindIRI:
		return "<" + t.Value + ">"
	case KindBlank:
		return "_:" + t.Value
	case KindLiteral:
		s := `"` + escapeLiteral(t.Value) + `"`
		if t.Language != "" {
			return s + "@" + t.Language
		}
		if t.Datatype != "" {
			return s + "^^<" + t.Datatype + ">"
		}
		return s
	default:
		return "nil"
	}
}

var literalEscaper = strings.NewReplacer(
	`\`, `\\`,
	`"`, `\"`,
	"\n", `\n`,
	"\r", `\r`,
	"\t", `\t`,
)

func escapeLiteral(s string) string {
	return literalEscaper.Replace(s)
}
