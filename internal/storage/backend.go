// Package storage persists parse results so that later commands can query them
// without re-reading the source triples.
//
// It defines the StorageBackend protocol that all storage implementations
// must satisfy, along with the document types shared across backends.
package storage

import (
	"context"
	"sort"
	"time"
)

// AxiomRecord is one axiom of a stored document.
type AxiomRecord struct {
	// Type is the axiom type name, e.g. "SubClassOf".
	Type string `json:"type"`

	// Text is the functional-syntax rendering.
	Text string `json:"text"`
}

// WarningRecord is one warning raised while consuming a document.
type WarningRecord struct {
	Kind    string `json:"kind"`
	Node    string `json:"node,omitempty"`
	Triple  string `json:"triple,omitempty"`
	Message string `json:"message"`
}

// Document is the stored outcome of parsing one triple file.
type Document struct {
	// ID identifies the document; ingestion uses the slash-separated path
	// relative to the project root.
	ID string `json:"id"`

	// Path is the file path the triples were read from.
	Path string `json:"path"`

	// RunID groups documents written by the same pipeline run.
	RunID string `json:"run_id"`

	ParsedAt    time.Time `json:"parsed_at"`
	OntologyIRI string    `json:"ontology_iri,omitempty"`

	// TripleCount is the number of triples read from the file.
	TripleCount int `json:"triple_count"`

	Axioms   []AxiomRecord   `json:"axioms"`
	Warnings []WarningRecord `json:"warnings,omitempty"`

	// Unparsed holds the leftover triples in N-Triples syntax.
	Unparsed []string `json:"unparsed,omitempty"`

	// Counts holds the object-count metrics of the ontology.
	Counts map[string]int `json:"counts,omitempty"`
}

// SearchResult is an axiom matched by SearchAxioms.
type SearchResult struct {
	// DocumentID is the ID of the document holding the axiom.
	DocumentID string

	// Path is the source file of the document.
	Path string

	// Index is the position of the axiom within the document.
	Index int

	// AxiomType is the axiom type name.
	AxiomType string

	// Axiom is the functional-syntax rendering.
	Axiom string

	// Score is the relevance score (higher is better).
	Score float64
}

// StorageBackend defines the interface for storage implementations.
//
// Implementations must be thread-safe and support concurrent access.
type StorageBackend interface {
	// Lifecycle methods

	// Initialize opens or creates the storage backend at the given path.
	// If readOnly is true, the backend is opened in read-only mode.
	Initialize(path string, readOnly bool) error

	// Close releases all resources held by the backend.
	Close() error

	// Document operations

	// PutDocument inserts or replaces a document and its search index entries.
	PutDocument(ctx context.Context, doc *Document) error

	// GetDocument returns a single document by ID, or nil if not found.
	GetDocument(ctx context.Context, id string) (*Document, error)

	// ListDocuments returns all documents ordered by path.
	ListDocuments(ctx context.Context) ([]*Document, error)

	// DeleteDocument removes a document. It reports whether the document
	// existed.
	DeleteDocument(ctx context.Context, id string) (bool, error)

	// Search

	// SearchAxioms performs full-text search over axiom renderings.
	SearchAxioms(ctx context.Context, query string, limit int) ([]SearchResult, error)
}

// sortResults orders results by score, then by document and position so that
// equal scores come back in a stable order.
func sortResults(results []SearchResult) {
	sort.Slice(results, func(i, j int) bool {
		a, b := results[i], results[j]
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		if a.Path != b.Path {
			return a.Path < b.Path
		}
		return a.Index < b.Index
	})
}
