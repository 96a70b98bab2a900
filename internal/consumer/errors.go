package consumer

import (
	"errors"
	"fmt"

	"github.com/Benny93/owlrdf-go/internal/rdf"
)

// Sentinel errors for construct-level failures. None of them abort a parse.
var (
	// ErrMalformedLiteral is returned when a literal expected to be a
	// non-negative integer is not.
	ErrMalformedLiteral = errors.New("malformed literal")

	// ErrUnresolvableConstruct is returned when a construct lacks a triple it
	// cannot do without and no simpler interpretation exists.
	ErrUnresolvableConstruct = errors.New("unresolvable construct")

	// ErrCyclicReference is returned when a class expression refers back to
	// itself through its fillers or list members.
	ErrCyclicReference = errors.New("cyclic reference")

	// ErrDepthExceeded is returned when nested translation goes deeper than
	// the configured maximum.
	ErrDepthExceeded = errors.New("maximum nesting depth exceeded")

	// ErrUnmatchedPredicate marks a leftover triple whose predicate has
	// handlers, none of which accepted it.
	ErrUnmatchedPredicate = errors.New("no handler matched")

	// ErrFinished is returned when triples are added after Finish.
	ErrFinished = errors.New("consumer already finished")

	errNotLiteral = errors.New("not a literal")

	// errReported marks a failure that was already turned into a warning.
	errReported = errors.New("construct already reported")
)

// MalformedLiteralError describes a cardinality literal that could not be
// parsed.
type MalformedLiteralError struct {
	Node      rdf.Term
	Predicate string
	Lexical   string
	Err       error
}

func (e *MalformedLiteralError) Error() string {
	return fmt.Sprintf("malformed literal %q for <%s> on %s: %v", e.Lexical, e.Predicate, e.Node, e.Err)
}

func (e *MalformedLiteralError) Unwrap() error { return e.Err }

// Is makes errors.Is(err, ErrMalformedLiteral) hold.
func (e *MalformedLiteralError) Is(target error) bool {
	return target == ErrMalformedLiteral
}

// ConstructError ties a construct-level failure to the node it occurred on.
type ConstructError struct {
	Node rdf.Term
	Err  error
}

func (e *ConstructError) Error() string {
	return fmt.Sprintf("%s: %v", e.Node, e.Err)
}

func (e *ConstructError) Unwrap() error { return e.Err }

func unresolvable(node rdf.Term, format string, args ...any) error {
	return &ConstructError{Node: node, Err: fmt.Errorf("%w: "+format, append([]any{ErrUnresolvableConstruct}, args...)...)}
}

// WarningKind classifies a warning.
type WarningKind string

const (
	WarningMalformedLiteral      WarningKind = "malformed-literal"
	WarningUnresolvableConstruct WarningKind = "unresolvable-construct"
	WarningUnmatchedPredicate    WarningKind = "unmatched-predicate"
)

// Warning is a construct-level problem. The parse continues past every
// warning.
type Warning struct {
	Kind WarningKind
	// Node is the construct the warning is about.
	Node rdf.Term
	// Triple is the triple being interpreted when the problem surfaced.
	Triple rdf.Triple
	Err    error
}

func (w Warning) String() string {
	return fmt.Sprintf("%s: %s: %v", w.Kind, w.Node, w.Err)
}

// newWarning classifies err and extracts the failing node, falling back to
// the subject of t.
func newWarning(t rdf.Triple, err error) Warning {
	w := Warning{
		Kind:   WarningUnresolvableConstruct,
		Node:   t.Subject,
		Triple: t,
		Err:    err,
	}

	var mle *MalformedLiteralError
	var ce *ConstructError
	switch {
	case errors.As(err, &mle):
		w.Kind = WarningMalformedLiteral
		w.Node = mle.Node
	case errors.As(err, &ce):
		w.Node = ce.Node
	}
	return w
}
