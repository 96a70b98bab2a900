package rdf

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	krdf "github.com/knakk/rdf"
)

const xsdString = "http://www.w3.org/2001/XMLSchema#string"

// ErrUnsupportedTerm is returned when a term cannot be mapped between the
// decoder's model and Term.
var ErrUnsupportedTerm = errors.New("unsupported term")

// ParseError is returned for malformed N-Triples input.
// Line and Column are taken from the decoder and are zero when it did not
// report a position.
type ParseError struct {
	Line   int
	Column int
	Err    error
}

func (e *ParseError) Error() string {
	if e.Line == 0 {
		return e.Err.Error()
	}
	return fmt.Sprintf("line %d, column %d: %s", e.Line, e.Column, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

func newParseError(err error) *ParseError {
	pe := &ParseError{Err: err}
	// The decoder prefixes its messages with "line:col: ".
	if _, scanErr := fmt.Sscanf(err.Error(), "%d:%d:", &pe.Line, &pe.Column); scanErr != nil {
		pe.Line, pe.Column = 0, 0
	}
	return pe
}

type tripleDecoder interface {
	Decode() (krdf.Triple, error)
}

// Reader reads triples from an N-Triples stream.
type Reader struct {
	dec tripleDecoder
	err error
}

// NewReader returns a new Reader that reads from r.
func NewReader(r io.Reader) *Reader {
	return &Reader{dec: krdf.NewTripleDecoder(r, krdf.NTriples)}
}

// Read returns the next triple. It returns io.EOF once the input is exhausted.
// After the first error every later call returns the same error.
func (r *Reader) Read() (Triple, error) {
	if r.err != nil {
		return Triple{}, r.err
	}
	tr, err := r.dec.Decode()
	if err == io.EOF {
		r.err = io.EOF
		return Triple{}, io.EOF
	}
	if err != nil {
		r.err = newParseError(err)
		return Triple{}, r.err
	}

	t, err := fromDecoded(tr)
	if err != nil {
		r.err = &ParseError{Err: err}
		return Triple{}, r.err
	}
	return t, nil
}

// ReadAll reads every remaining triple.
func (r *Reader) ReadAll() ([]Triple, error) {
	var triples []Triple
	for {
		t, err := r.Read()
		if err == io.EOF {
			return triples, nil
		}
		if err != nil {
			return triples, err
		}
		triples = append(triples, t)
	}
}

// ParseString parses a complete N-Triples document held in memory.
func ParseString(doc string) ([]Triple, error) {
	return NewReader(strings.NewReader(doc)).ReadAll()
}

func fromDecoded(tr krdf.Triple) (Triple, error) {
	s, err := fromTerm(tr.Subj)
	if err != nil {
		return Triple{}, err
	}
	o, err := fromTerm(tr.Obj)
	if err != nil {
		return Triple{}, err
	}
	return NewTriple(s, tr.Pred.String(), o), nil
}

func fromTerm(t krdf.Term) (Term, error) {
	switch v := t.(type) {
	case krdf.IRI:
		return IRI(v.String()), nil
	case krdf.Blank:
		return Blank(strings.TrimPrefix(v.String(), "_:")), nil
	case krdf.Literal:
		if lang := v.Lang(); lang != "" {
			return LangLiteral(v.String(), lang), nil
		}
		if dt := v.DataType.String(); dt != "" && dt != xsdString {
			return TypedLiteral(v.String(), dt), nil
		}
		return Literal(v.String()), nil
	default:
		return Term{}, fmt.Errorf("%w: %T", ErrUnsupportedTerm, t)
	}
}

func toSubject(t Term) (krdf.Subject, error) {
	switch t.Kind {
	case KindIRI:
		return krdf.NewIRI(t.Value)
	case KindBlank:
		return krdf.NewBlank(t.Value)
	default:
		return nil, fmt.Errorf("%w in subject position: %s", ErrUnsupportedTerm, t)
	}
}

func toObject(t Term) (krdf.Object, error) {
	switch t.Kind {
	case KindIRI:
		return krdf.NewIRI(t.Value)
	case KindBlank:
		return krdf.NewBlank(t.Value)
	case KindLiteral:
		switch {
		case t.Language != "":
			return krdf.NewLangLiteral(t.Value, t.Language)
		case t.Datatype != "":
			dt, err := krdf.NewIRI(t.Datatype)
			if err != nil {
				return nil, err
			}
			return krdf.NewTypedLiteral(t.Value, dt), nil
		default:
			return krdf.NewLiteral(t.Value)
		}
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedTerm, t)
	}
}

// Writer writes triples in N-Triples syntax.
type Writer struct {
	w *bufio.Writer
}

// NewWriter returns a Writer that writes to w. Call Flush when done.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: bufio.NewWriter(w)}
}

// Write writes one triple followed by a newline.
func (w *Writer) Write(t Triple) error {
	subj, err := toSubject(t.Subject)
	if err != nil {
		return err
	}
	pred, err := krdf.NewIRI(t.Predicate)
	if err != nil {
		return err
	}
	obj, err := toObject(t.Object)
	if err != nil {
		return err
	}

	line := krdf.Triple{Subj: subj, Pred: pred, Obj: obj}.Serialize(krdf.NTriples)
	if _, err := w.w.WriteString(strings.TrimRight(line, "\n")); err != nil {
		return err
	}
	return w.w.WriteByte('\n')
}

// Flush writes any buffered data to the underlying writer.
func (w *Writer) Flush() error {
	return w.w.Flush()
}
