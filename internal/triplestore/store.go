// Package triplestore provides the mutable, destructively consumed triple
// index that backs a single parse.
//
// Triples are indexed by subject and predicate for exact lookups and by
// predicate for full scans. Consuming a triple removes it from every index,
// so a consumed triple can never be revisited. A Store belongs to exactly one
// parse and is not safe for concurrent use.
package triplestore

import (
	"cmp"
	"slices"

	"github.com/Benny93/owlrdf-go/internal/rdf"
)

// entry is one stored triple. seq records insertion order.
type entry struct {
	seq    uint64
	triple rdf.Triple
}

// Store is a multiset of triples.
type Store struct {
	next uint64

	// bySubject keeps, per subject and predicate, the entries in insertion order.
	bySubject   map[rdf.Term]map[string][]*entry
	byPredicate map[string]map[uint64]*entry
	size        int
}

// New creates an empty store.
func New() *Store {
	return &Store{
		bySubject:   make(map[rdf.Term]map[string][]*entry),
		byPredicate: make(map[string]map[uint64]*entry),
	}
}

// Len returns the number of unconsumed triples.
func (s *Store) Len() int {
	return s.size
}

// Add inserts a triple. Duplicates are kept: the store is a multiset.
func (s *Store) Add(t rdf.Triple) {
	e := &entry{seq: s.next, triple: t}
	s.next++

	preds, ok := s.bySubject[t.Subject]
	if !ok {
		preds = make(map[string][]*entry)
		s.bySubject[t.Subject] = preds
	}
	preds[t.Predicate] = append(preds[t.Predicate], e)

	if s.byPredicate[t.Predicate] == nil {
		s.byPredicate[t.Predicate] = make(map[uint64]*entry)
	}
	s.byPredicate[t.Predicate][e.seq] = e
	s.size++
}

// Get returns the object of the most recently added triple with the given
// subject and predicate. Nothing is consumed.
func (s *Store) Get(subject rdf.Term, predicate string) (rdf.Term, bool) {
	entries := s.bySubject[subject][predicate]
	if len(entries) == 0 {
		return rdf.Term{}, false
	}
	return entries[len(entries)-1].triple.Object, true
}

// Has reports whether any triple with the given subject and predicate remains.
func (s *Store) Has(subject rdf.Term, predicate string) bool {
	return len(s.bySubject[subject][predicate]) > 0
}

// Objects returns the objects of every remaining triple with the given
// subject and predicate, in insertion order.
func (s *Store) Objects(subject rdf.Term, predicate string) []rdf.Term {
	entries := s.bySubject[subject][predicate]
	if len(entries) == 0 {
		return nil
	}
	out := make([]rdf.Term, len(entries))
	for i, e := range entries {
		out[i] = e.triple.Object
	}
	return out
}

// Predicates returns the predicates that still have triples for subject.
func (s *Store) Predicates(subject rdf.Term) []string {
	preds := s.bySubject[subject]
	out := make([]string, 0, len(preds))
	for p, entries := range preds {
		if len(entries) > 0 {
			out = append(out, p)
		}
	}
	slices.Sort(out)
	return out
}

// Consume behaves like Get but also removes the triple it returns.
func (s *Store) Consume(subject rdf.Term, predicate string) (rdf.Term, bool) {
	entries := s.bySubject[subject][predicate]
	if len(entries) == 0 {
		return rdf.Term{}, false
	}
	e := entries[len(entries)-1]
	s.remove(e, len(entries)-1)
	return e.triple.Object, true
}

// ConsumeTriple removes one occurrence of the exact triple. It reports
// whether a triple was removed.
func (s *Store) ConsumeTriple(t rdf.Triple) bool {
	entries := s.bySubject[t.Subject][t.Predicate]
	for i := len(entries) - 1; i >= 0; i-- {
		if entries[i].triple.Object == t.Object {
			s.remove(entries[i], i)
			return true
		}
	}
	return false
}

// Contains reports whether at least one occurrence of the triple remains.
func (s *Store) Contains(t rdf.Triple) bool {
	for _, e := range s.bySubject[t.Subject][t.Predicate] {
		if e.triple.Object == t.Object {
			return true
		}
	}
	return false
}

// AllWithPredicate returns the remaining triples with the given predicate in
// insertion order.
func (s *Store) AllWithPredicate(predicate string) []rdf.Triple {
	return sortedTriples(s.byPredicate[predicate])
}

// Remaining returns every unconsumed triple in insertion order.
func (s *Store) Remaining() []rdf.Triple {
	all := make([]*entry, 0, s.size)
	for _, entries := range s.byPredicate {
		for _, e := range entries {
			all = append(all, e)
		}
	}
	slices.SortFunc(all, func(a, b *entry) int {
		return cmp.Compare(a.seq, b.seq)
	})
	out := make([]rdf.Triple, len(all))
	for i, e := range all {
		out[i] = e.triple
	}
	return out
}

// remove deletes e, which sits at index i of its subject/predicate slice.
func (s *Store) remove(e *entry, i int) {
	t := e.triple
	preds := s.bySubject[t.Subject]
	entries := preds[t.Predicate]
	entries = append(entries[:i], entries[i+1:]...)
	if len(entries) == 0 {
		delete(preds, t.Predicate)
		if len(preds) == 0 {
			delete(s.bySubject, t.Subject)
		}
	} else {
		preds[t.Predicate] = entries
	}

	delete(s.byPredicate[t.Predicate], e.seq)
	if len(s.byPredicate[t.Predicate]) == 0 {
		delete(s.byPredicate, t.Predicate)
	}
	s.size--
}

func sortedTriples(entries map[uint64]*entry) []rdf.Triple {
	if len(entries) == 0 {
		return nil
	}
	seqs := make([]uint64, 0, len(entries))
	for seq := range entries {
		seqs = append(seqs, seq)
	}
	slices.Sort(seqs)
	out := make([]rdf.Triple, len(seqs))
	for i, seq := range seqs {
		out[i] = entries[seq].triple
	}
	return out
}
