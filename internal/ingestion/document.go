package ingestion

import (
	"time"

	"github.com/Benny93/owlrdf-go/internal/consumer"
	"github.com/Benny93/owlrdf-go/internal/metrics"
	"github.com/Benny93/owlrdf-go/internal/storage"
)

// NewDocument converts a finished parse into its stored form.
func NewDocument(entry FileEntry, runID string, tripleCount int, res *consumer.Result) *storage.Document {
	doc := &storage.Document{
		ID:          entry.RelPath,
		Path:        entry.RelPath,
		RunID:       runID,
		ParsedAt:    time.Now().UTC(),
		OntologyIRI: res.Ontology.IRI(),
		TripleCount: tripleCount,
		Counts:      metrics.CountMap(metrics.ObjectCounts(res.Ontology)),
	}

	axioms := res.Ontology.Axioms()
	doc.Axioms = make([]storage.AxiomRecord, len(axioms))
	for i, ax := range axioms {
		doc.Axioms[i] = storage.AxiomRecord{Type: string(ax.AxiomType()), Text: ax.String()}
	}

	for _, w := range res.Warnings {
		rec := storage.WarningRecord{Kind: string(w.Kind)}
		if !w.Node.IsZero() {
			rec.Node = w.Node.String()
		}
		if !w.Triple.Subject.IsZero() {
			rec.Triple = w.Triple.String()
		}
		if w.Err != nil {
			rec.Message = w.Err.Error()
		}
		doc.Warnings = append(doc.Warnings, rec)
	}

	for _, t := range res.Unparsed {
		doc.Unparsed = append(doc.Unparsed, t.String())
	}

	return doc
}
