package storage

import (
	"context"
	"errors"
	"sort"
	"sync"
)

// MemoryBackend is an in-memory implementation of StorageBackend for testing.
type MemoryBackend struct {
	mu        sync.RWMutex
	documents map[string]*Document
	indexed   bool
}

// NewMemoryBackend creates a new in-memory storage backend.
func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{
		documents: make(map[string]*Document),
	}
}

// Initialize implements StorageBackend.
func (m *MemoryBackend) Initialize(path string, readOnly bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.documents == nil {
		m.documents = make(map[string]*Document)
	}
	m.indexed = true
	return nil
}

// Close implements StorageBackend.
func (m *MemoryBackend) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.documents = nil
	m.indexed = false
	return nil
}

// PutDocument implements StorageBackend.
func (m *MemoryBackend) PutDocument(ctx context.Context, doc *Document) error {
	if doc == nil || doc.ID == "" {
		return errors.New("document must have an ID")
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.documents == nil {
		return ErrNotInitialized
	}
	cp := *doc
	m.documents[doc.ID] = &cp
	return nil
}

// GetDocument implements StorageBackend.
func (m *MemoryBackend) GetDocument(ctx context.Context, id string) (*Document, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	doc, ok := m.documents[id]
	if !ok {
		return nil, nil
	}
	cp := *doc
	return &cp, nil
}

// ListDocuments implements StorageBackend.
func (m *MemoryBackend) ListDocuments(ctx context.Context) ([]*Document, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	docs := make([]*Document, 0, len(m.documents))
	for _, doc := range m.documents {
		cp := *doc
		docs = append(docs, &cp)
	}
	sort.Slice(docs, func(i, j int) bool {
		return docs[i].Path < docs[j].Path
	})
	return docs, nil
}

// DeleteDocument implements StorageBackend.
func (m *MemoryBackend) DeleteDocument(ctx context.Context, id string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.documents[id]; !ok {
		return false, nil
	}
	delete(m.documents, id)
	return true, nil
}

// SearchAxioms implements StorageBackend. It scores axioms with the same
// tokenizer as the badger index.
func (m *MemoryBackend) SearchAxioms(ctx context.Context, query string, limit int) ([]SearchResult, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	queryTokens := tokenize(query)
	if len(queryTokens) == 0 {
		return []SearchResult{}, nil
	}

	results := []SearchResult{}
	for _, doc := range m.documents {
		for i, ax := range doc.Axioms {
			score := scoreText(queryTokens, ax.Text)
			if score <= 0 {
				continue
			}
			results = append(results, SearchResult{
				DocumentID: doc.ID,
				Path:       doc.Path,
				Index:      i,
				AxiomType:  ax.Type,
				Axiom:      ax.Text,
				Score:      score,
			})
		}
	}

	sortResults(results)
	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}
	return results, nil
}

// IsIndexed returns whether the backend has been initialized.
func (m *MemoryBackend) IsIndexed() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.indexed
}

// DocumentCount returns the number of stored documents.
func (m *MemoryBackend) DocumentCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.documents)
}
