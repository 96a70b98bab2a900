package rdf

// Triple is a single RDF statement. The predicate is always an IRI and is
// stored as a bare string since it is the dispatch key for handlers.
type Triple struct {
	Subject   Term
	Predicate string
	Object    Term
}

// NewTriple returns a triple with the given subject, predicate and object.
func NewTriple(subject Term, predicate string, object Term) Triple {
	return Triple{Subject: subject, Predicate: predicate, Object: object}
}

// String returns the N-Triples line for the triple, without a trailing newline.
func (t Triple) String() string {
	return t.Subject.String() + " <" + t.Predicate + "> " + t.Object.String() + " ."
}
