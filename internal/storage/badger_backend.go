package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/dgraph-io/badger/v4"
)

// Key prefixes for different data types
const (
	prefixDocument = "d:" // document data
)

// ErrNotInitialized is returned by operations on a backend that is not open.
var ErrNotInitialized = errors.New("storage backend not initialized")

// BadgerBackend is a BadgerDB-backed storage implementation.
type BadgerBackend struct {
	db            *badger.DB
	fts           *FTSIndex
	initialized   bool
	mu            sync.RWMutex
	documentCount int
}

// NewBadgerBackend creates a new BadgerDB backend.
func NewBadgerBackend() *BadgerBackend {
	return &BadgerBackend{}
}

// Initialize opens or creates the BadgerDB database at the given path.
func (b *BadgerBackend) Initialize(path string, readOnly bool) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	opts := badger.DefaultOptions(path).
		WithNumCompactors(2).
		WithNumMemtables(5).
		WithLoggingLevel(badger.ERROR) // Suppress INFO/WARNING logs

	if readOnly {
		opts = opts.WithReadOnly(true)
	}

	var err error
	b.db, err = badger.Open(opts)
	if err != nil {
		return fmt.Errorf("opening badger DB: %w", err)
	}

	b.fts = NewFTSIndex(b.db)
	b.initialized = true
	b.documentCount = b.countDocuments()

	return nil
}

// countDocuments counts the stored documents.
func (b *BadgerBackend) countDocuments() int {
	txn := b.db.NewTransaction(false)
	defer txn.Discard()

	opts := badger.DefaultIteratorOptions
	opts.Prefix = []byte(prefixDocument)
	opts.PrefetchValues = false
	it := txn.NewIterator(opts)
	defer it.Close()

	count := 0
	for it.Rewind(); it.Valid(); it.Next() {
		count++
	}
	return count
}

// Close releases all resources held by the backend.
func (b *BadgerBackend) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.db == nil {
		return nil
	}

	err := b.db.Close()
	b.db = nil
	b.fts = nil
	b.initialized = false
	return err
}

// PutDocument inserts or replaces a document. Index entries of a replaced
// document are dropped in the same transaction.
func (b *BadgerBackend) PutDocument(ctx context.Context, doc *Document) error {
	if doc == nil || doc.ID == "" {
		return errors.New("document must have an ID")
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.initialized {
		return ErrNotInitialized
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	txn := b.db.NewTransaction(true)
	defer txn.Discard()

	old, err := b.getDocument(txn, doc.ID)
	if err != nil {
		return err
	}
	if old != nil {
		if err := b.fts.removeDocument(txn, old); err != nil {
			return err
		}
	}

	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("marshaling document: %w", err)
	}
	if err := txn.Set(b.documentKey(doc.ID), data); err != nil {
		return fmt.Errorf("setting document: %w", err)
	}
	if err := b.fts.indexDocument(txn, doc); err != nil {
		return err
	}

	if err := txn.Commit(); err != nil {
		return fmt.Errorf("committing document %s: %w", doc.ID, err)
	}
	if old == nil {
		b.documentCount++
	}
	return nil
}

// GetDocument returns a single document by ID, or nil if not found.
func (b *BadgerBackend) GetDocument(ctx context.Context, id string) (*Document, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if !b.initialized {
		return nil, ErrNotInitialized
	}

	txn := b.db.NewTransaction(false)
	defer txn.Discard()

	return b.getDocument(txn, id)
}

func (b *BadgerBackend) getDocument(txn *badger.Txn, id string) (*Document, error) {
	item, err := txn.Get(b.documentKey(id))
	if err == badger.ErrKeyNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting document: %w", err)
	}

	var doc Document
	if err := item.Value(func(val []byte) error {
		return json.Unmarshal(val, &doc)
	}); err != nil {
		return nil, fmt.Errorf("unmarshaling document: %w", err)
	}

	return &doc, nil
}

// ListDocuments returns all documents ordered by path.
func (b *BadgerBackend) ListDocuments(ctx context.Context) ([]*Document, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if !b.initialized {
		return nil, ErrNotInitialized
	}

	txn := b.db.NewTransaction(false)
	defer txn.Discard()

	opts := badger.DefaultIteratorOptions
	opts.Prefix = []byte(prefixDocument)
	it := txn.NewIterator(opts)
	defer it.Close()

	var docs []*Document
	for it.Rewind(); it.Valid(); it.Next() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		var doc Document
		if err := it.Item().Value(func(val []byte) error {
			return json.Unmarshal(val, &doc)
		}); err != nil {
			return nil, fmt.Errorf("unmarshaling document: %w", err)
		}
		docs = append(docs, &doc)
	}

	sort.Slice(docs, func(i, j int) bool {
		return docs[i].Path < docs[j].Path
	})

	return docs, nil
}

// DeleteDocument removes a document and its index entries.
func (b *BadgerBackend) DeleteDocument(ctx context.Context, id string) (bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.initialized {
		return false, ErrNotInitialized
	}

	txn := b.db.NewTransaction(true)
	defer txn.Discard()

	doc, err := b.getDocument(txn, id)
	if err != nil || doc == nil {
		return false, err
	}

	if err := b.fts.removeDocument(txn, doc); err != nil {
		return false, err
	}
	if err := txn.Delete(b.documentKey(id)); err != nil {
		return false, fmt.Errorf("deleting document: %w", err)
	}
	if err := txn.Commit(); err != nil {
		return false, fmt.Errorf("committing delete of %s: %w", id, err)
	}

	b.documentCount--
	return true, nil
}

// SearchAxioms performs full-text search using the persisted token index.
func (b *BadgerBackend) SearchAxioms(ctx context.Context, query string, limit int) ([]SearchResult, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if !b.initialized {
		return nil, ErrNotInitialized
	}

	return b.fts.Search(query, limit)
}

func (b *BadgerBackend) documentKey(id string) []byte {
	return []byte(prefixDocument + id)
}

// DocumentCount returns the number of stored documents.
func (b *BadgerBackend) DocumentCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.documentCount
}

// IndexSize returns the number of token entries in the search index.
func (b *BadgerBackend) IndexSize() (int, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if !b.initialized {
		return 0, ErrNotInitialized
	}
	return b.fts.IndexSize()
}
