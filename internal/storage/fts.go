package storage

import (
	"encoding/json"
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/dgraph-io/badger/v4"
)

// Key prefixes for FTS
const (
	prefixFTSToken = "fts:t:" // fts:t:token:docID:n -> frequency
	prefixFTSMeta  = "fts:m:" // fts:m:docID:n -> serialized axiom metadata
)

var (
	// IRI punctuation, functional-syntax brackets and literal quoting.
	wordSeparators = regexp.MustCompile(`[\s<>()/#:"^@,=?&]+`)
	partSeparators = regexp.MustCompile(`[_\.\-]+`)
	camelBoundary  = regexp.MustCompile(`([a-z])([A-Z])`)
	letterDigit    = regexp.MustCompile(`([a-zA-Z])(\d)`)
	digitLetter    = regexp.MustCompile(`(\d)([a-zA-Z])`)
)

// stopTokens occur in nearly every IRI and carry no signal.
var stopTokens = map[string]bool{
	"http": true, "https": true, "www": true, "w3": true, "org": true, "com": true,
}

// tokenFrequencies splits text into searchable tokens and counts them.
// Handles IRIs, camelCase, snake_case, dot notation and number boundaries.
func tokenFrequencies(text string) map[string]int {
	freq := make(map[string]int)
	for _, word := range wordSeparators.Split(text, -1) {
		if word == "" {
			continue
		}

		tokens := make(map[string]bool)
		tokens[strings.ToLower(word)] = true

		for _, part := range partSeparators.Split(word, -1) {
			tokens[strings.ToLower(part)] = true
		}

		// "SubClassOf" -> "Sub", "Class", "Of"
		for _, part := range strings.Fields(camelBoundary.ReplaceAllString(word, "$1 $2")) {
			tokens[strings.ToLower(part)] = true
		}

		// "HTTP2" -> "HTTP", "2"
		numSplit := letterDigit.ReplaceAllString(word, "$1 $2")
		numSplit = digitLetter.ReplaceAllString(numSplit, "$1 $2")
		for _, part := range strings.Fields(numSplit) {
			tokens[strings.ToLower(part)] = true
		}

		for token := range tokens {
			if len(token) < 2 || stopTokens[token] {
				continue
			}
			freq[token]++
		}
	}
	return freq
}

// tokenize returns the distinct tokens of text in sorted order.
func tokenize(text string) []string {
	freq := tokenFrequencies(text)
	result := make([]string, 0, len(freq))
	for token := range freq {
		result = append(result, token)
	}
	sort.Strings(result)
	return result
}

// scoreText sums the frequencies of the query tokens in text.
func scoreText(queryTokens []string, text string) float64 {
	freq := tokenFrequencies(text)
	score := 0.0
	for _, token := range queryTokens {
		score += float64(freq[token])
	}
	return score
}

// axiomMeta is the value stored under a prefixFTSMeta key.
type axiomMeta struct {
	DocumentID string `json:"doc"`
	Path       string `json:"path"`
	Index      int    `json:"index"`
	Type       string `json:"type"`
	Text       string `json:"text"`
}

// FTSIndex is a simple inverted index over axiom renderings.
type FTSIndex struct {
	db *badger.DB
}

// NewFTSIndex creates a new FTS index using the given BadgerDB instance.
func NewFTSIndex(db *badger.DB) *FTSIndex {
	return &FTSIndex{db: db}
}

func axiomKey(docID string, index int) string {
	return docID + ":" + strconv.Itoa(index)
}

// indexDocument adds token and metadata entries for every axiom of doc.
func (f *FTSIndex) indexDocument(txn *badger.Txn, doc *Document) error {
	for i, ax := range doc.Axioms {
		id := axiomKey(doc.ID, i)
		for token, freq := range tokenFrequencies(ax.Text) {
			key := prefixFTSToken + token + ":" + id
			if err := txn.Set([]byte(key), []byte(strconv.Itoa(freq))); err != nil {
				return fmt.Errorf("setting token index: %w", err)
			}
		}

		metaJSON, err := json.Marshal(axiomMeta{
			DocumentID: doc.ID,
			Path:       doc.Path,
			Index:      i,
			Type:       ax.Type,
			Text:       ax.Text,
		})
		if err != nil {
			return fmt.Errorf("marshaling metadata: %w", err)
		}
		if err := txn.Set([]byte(prefixFTSMeta+id), metaJSON); err != nil {
			return fmt.Errorf("setting metadata: %w", err)
		}
	}
	return nil
}

// removeDocument deletes the entries indexDocument wrote for doc. The keys
// are recomputed from the stored axioms, so no scan is needed.
func (f *FTSIndex) removeDocument(txn *badger.Txn, doc *Document) error {
	for i, ax := range doc.Axioms {
		id := axiomKey(doc.ID, i)
		for token := range tokenFrequencies(ax.Text) {
			if err := txn.Delete([]byte(prefixFTSToken + token + ":" + id)); err != nil {
				return fmt.Errorf("deleting token index: %w", err)
			}
		}
		if err := txn.Delete([]byte(prefixFTSMeta + id)); err != nil {
			return fmt.Errorf("deleting metadata: %w", err)
		}
	}
	return nil
}

// Search performs full-text search with simple TF scoring.
func (f *FTSIndex) Search(query string, limit int) ([]SearchResult, error) {
	if f.db == nil {
		return []SearchResult{}, nil
	}

	queryTokens := tokenize(query)
	if len(queryTokens) == 0 {
		return []SearchResult{}, nil
	}

	scores := make(map[string]float64)

	txn := f.db.NewTransaction(false)
	defer txn.Discard()

	for _, token := range queryTokens {
		prefix := prefixFTSToken + token + ":"
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(prefix)
		it := txn.NewIterator(opts)

		for it.Rewind(); it.Valid(); it.Next() {
			item := it.Item()
			id := strings.TrimPrefix(string(item.Key()), prefix)

			var freq int
			if err := item.Value(func(val []byte) error {
				var err error
				freq, err = strconv.Atoi(string(val))
				return err
			}); err != nil {
				it.Close()
				return nil, fmt.Errorf("reading token frequency: %w", err)
			}
			scores[id] += float64(freq)
		}
		it.Close()
	}

	results := make([]SearchResult, 0, len(scores))
	for id, score := range scores {
		if score <= 0 {
			continue
		}

		item, err := txn.Get([]byte(prefixFTSMeta + id))
		if err == badger.ErrKeyNotFound {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("getting metadata: %w", err)
		}

		var meta axiomMeta
		if err := item.Value(func(val []byte) error {
			return json.Unmarshal(val, &meta)
		}); err != nil {
			return nil, fmt.Errorf("unmarshaling metadata: %w", err)
		}

		results = append(results, SearchResult{
			DocumentID: meta.DocumentID,
			Path:       meta.Path,
			Index:      meta.Index,
			AxiomType:  meta.Type,
			Axiom:      meta.Text,
			Score:      score,
		})
	}

	sortResults(results)

	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}

	return results, nil
}

// IndexSize returns the number of indexed token entries.
func (f *FTSIndex) IndexSize() (int, error) {
	if f.db == nil {
		return 0, nil
	}

	count := 0
	txn := f.db.NewTransaction(false)
	defer txn.Discard()

	opts := badger.DefaultIteratorOptions
	opts.Prefix = []byte(prefixFTSToken)
	opts.PrefetchValues = false
	it := txn.NewIterator(opts)
	defer it.Close()

	for it.Rewind(); it.Valid(); it.Next() {
		count++
	}

	return count, nil
}
