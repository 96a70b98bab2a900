package ingestion

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/Benny93/owlrdf-go/internal/consumer"
	"github.com/Benny93/owlrdf-go/internal/metrics"
	"github.com/Benny93/owlrdf-go/internal/owl"
	"github.com/Benny93/owlrdf-go/internal/rdf"
	"github.com/Benny93/owlrdf-go/internal/storage"
	"github.com/Benny93/owlrdf-go/internal/vocab"
)

// ProgressCallback is called with phase name and progress (0.0-1.0).
type ProgressCallback func(phase string, progress float64)

// Options configures a pipeline run.
type Options struct {
	// Vocabulary selects the URIs handlers match on. Nil means OWL 2.
	Vocabulary *vocab.Vocabulary

	// Include lists doublestar globs of files to parse. Nil means **/*.nt.
	Include []string

	// Workers bounds the number of files parsed at once. Zero means 1.
	Workers int

	// MaxDepth bounds nested class-expression translation. Zero keeps the
	// consumer default.
	MaxDepth int

	// Prune deletes stored documents whose files no longer exist.
	Prune bool

	Logger   *slog.Logger
	Metrics  *metrics.Metrics
	Progress ProgressCallback
}

func (o Options) withDefaults() Options {
	if o.Vocabulary == nil {
		o.Vocabulary = vocab.OWL2()
	}
	if len(o.Include) == 0 {
		o.Include = []string{"**/*.nt"}
	}
	if o.Workers < 1 {
		o.Workers = 1
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
	return o
}

func (o Options) progress(phase string, p float64) {
	if o.Progress != nil {
		o.Progress(phase, p)
	}
}

// FileError records a file whose triples could not be read.
type FileError struct {
	Path string
	Err  error
}

func (e FileError) Error() string {
	return e.Path + ": " + e.Err.Error()
}

// PipelineResult summarizes a pipeline run.
type PipelineResult struct {
	RunID        string
	Files        int
	Triples      int
	Axioms       int
	Warnings     int
	Unparsed     int
	Removed      int
	Failed       []FileError
	DurationSecs float64
}

// RunPipeline parses every included file below root in parallel and stores
// one document per file. All files share one handler registry and one
// entity factory; each gets its own consumer.
//
// A file with malformed N-Triples is reported in Failed and does not stop
// the run. Storage errors and cancellation do.
func RunPipeline(ctx context.Context, root string, store storage.StorageBackend, opts Options) (*PipelineResult, error) {
	start := time.Now()
	opts = opts.withDefaults()
	result := &PipelineResult{RunID: uuid.NewString()}

	opts.progress("Walking files", 0.0)
	entries, err := WalkDir(root, opts.Include)
	if err != nil {
		return nil, fmt.Errorf("walking %s: %w", root, err)
	}
	result.Files = len(entries)
	opts.progress("Walking files", 1.0)

	reg := consumer.DefaultRegistry(opts.Vocabulary)
	factory := owl.NewFactory()

	var (
		mu   sync.Mutex
		done int
	)

	opts.progress("Parsing triples", 0.0)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.Workers)

	for _, entry := range entries {
		g.Go(func() error {
			doc, err := parseEntry(gctx, reg, factory, entry, result.RunID, opts)

			var fe FileError
			switch {
			case errors.As(err, &fe):
				opts.Logger.Warn("skipping file", slog.String("path", entry.RelPath), slog.Any("error", fe.Err))
			case err != nil:
				return err
			default:
				if err := store.PutDocument(gctx, doc); err != nil {
					return fmt.Errorf("storing %s: %w", entry.RelPath, err)
				}
			}

			mu.Lock()
			defer mu.Unlock()
			if doc != nil {
				result.Triples += doc.TripleCount
				result.Axioms += len(doc.Axioms)
				result.Warnings += len(doc.Warnings)
				result.Unparsed += len(doc.Unparsed)
			} else {
				result.Failed = append(result.Failed, fe)
			}
			done++
			opts.progress("Parsing triples", float64(done)/float64(len(entries)))
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	opts.progress("Parsing triples", 1.0)

	sort.Slice(result.Failed, func(i, j int) bool {
		return result.Failed[i].Path < result.Failed[j].Path
	})

	if opts.Prune {
		removed, err := pruneDocuments(ctx, store, entries)
		if err != nil {
			return nil, err
		}
		result.Removed = removed
	}

	result.DurationSecs = time.Since(start).Seconds()
	opts.Logger.Info("pipeline finished",
		slog.String("run_id", result.RunID),
		slog.Int("files", result.Files),
		slog.Int("axioms", result.Axioms),
		slog.Int("warnings", result.Warnings),
		slog.Int("failed", len(result.Failed)))

	return result, nil
}

// countingSource counts the triples read through it.
type countingSource struct {
	r *rdf.Reader
	n int
}

func (s *countingSource) Read() (rdf.Triple, error) {
	t, err := s.r.Read()
	if err == nil {
		s.n++
	}
	return t, err
}

// parseEntry consumes one file. A malformed document yields a FileError.
func parseEntry(ctx context.Context, reg *consumer.Registry, factory *owl.Factory, entry FileEntry, runID string, opts Options) (*storage.Document, error) {
	src := &countingSource{r: rdf.NewReader(bytes.NewReader(entry.Content))}

	copts := []consumer.Option{
		consumer.WithLogger(opts.Logger.With(slog.String("path", entry.RelPath))),
		consumer.WithMetrics(opts.Metrics),
		consumer.WithFactory(factory),
	}
	if opts.MaxDepth > 0 {
		copts = append(copts, consumer.WithMaxDepth(opts.MaxDepth))
	}

	res, err := consumer.Parse(ctx, reg, src, copts...)
	if err != nil {
		var pe *rdf.ParseError
		if errors.As(err, &pe) {
			return nil, FileError{Path: entry.RelPath, Err: err}
		}
		return nil, err
	}

	return NewDocument(entry, runID, src.n, res), nil
}

// pruneDocuments deletes stored documents that were not part of entries.
func pruneDocuments(ctx context.Context, store storage.StorageBackend, entries []FileEntry) (int, error) {
	seen := make(map[string]bool, len(entries))
	for _, e := range entries {
		seen[e.RelPath] = true
	}

	docs, err := store.ListDocuments(ctx)
	if err != nil {
		return 0, fmt.Errorf("listing documents: %w", err)
	}

	removed := 0
	for _, doc := range docs {
		if seen[doc.ID] {
			continue
		}
		ok, err := store.DeleteDocument(ctx, doc.ID)
		if err != nil {
			return removed, fmt.Errorf("deleting %s: %w", doc.ID, err)
		}
		if ok {
			removed++
		}
	}
	return removed, nil
}

// ReindexFiles re-parses the given files, relative to root. Files that no
// longer exist are removed from the store. It returns the number of files
// stored or removed.
func ReindexFiles(ctx context.Context, root string, store storage.StorageBackend, relPaths []string, opts Options) (int, error) {
	opts = opts.withDefaults()
	reg := consumer.DefaultRegistry(opts.Vocabulary)
	factory := owl.NewFactory()
	runID := uuid.NewString()

	count := 0
	for _, relPath := range relPaths {
		if err := ctx.Err(); err != nil {
			return count, err
		}

		id := filepath.ToSlash(relPath)
		entry, err := readEntry(root, filepath.FromSlash(relPath))
		if errors.Is(err, os.ErrNotExist) {
			removed, err := store.DeleteDocument(ctx, id)
			if err != nil {
				return count, fmt.Errorf("deleting %s: %w", id, err)
			}
			if removed {
				opts.Logger.Info("removed document", slog.String("path", id))
				count++
			}
			continue
		}
		if err != nil {
			return count, fmt.Errorf("reading %s: %w", id, err)
		}

		doc, err := parseEntry(ctx, reg, factory, entry, runID, opts)
		var fe FileError
		if errors.As(err, &fe) {
			opts.Logger.Warn("skipping file", slog.String("path", id), slog.Any("error", fe.Err))
			continue
		}
		if err != nil {
			return count, err
		}
		if err := store.PutDocument(ctx, doc); err != nil {
			return count, fmt.Errorf("storing %s: %w", id, err)
		}
		opts.Logger.Info("re-indexed document", slog.String("path", id), slog.Int("axioms", len(doc.Axioms)))
		count++
	}
	return count, nil
}
