package ingestion

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/go-git/go-git/v5/plumbing/format/gitignore"

	"github.com/Benny93/owlrdf-go/internal/storage"
)

// DefaultDebounce is the quiet period after the last change before a batch
// of files is re-indexed.
const DefaultDebounce = 500 * time.Millisecond

// WatchDir monitors root for changes to included files and re-indexes them.
// Blocks until the context is cancelled. A debounce of zero uses
// DefaultDebounce.
func WatchDir(ctx context.Context, root string, store storage.StorageBackend, opts Options, debounce time.Duration) error {
	opts = opts.withDefaults()
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	matcher, err := loadMatcher(root)
	if err != nil {
		return fmt.Errorf("loading ignore rules: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer watcher.Close()

	if err := addWatchDirs(watcher, root, root, matcher); err != nil {
		return fmt.Errorf("setting up watcher: %w", err)
	}

	changed := make(map[string]bool)
	batchTimer := time.NewTimer(debounce)
	batchTimer.Stop() // Don't start yet

	opts.Logger.Info("watching for changes", slog.String("root", root))

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}

			if event.Has(fsnotify.Create) {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					if err := addWatchDirs(watcher, event.Name, root, matcher); err != nil {
						opts.Logger.Warn("watching new directory", slog.String("dir", event.Name), slog.Any("error", err))
					}
					continue
				}
			}

			if !shouldWatchFile(event.Name, root, matcher, opts.Include) {
				continue
			}

			relPath, err := filepath.Rel(root, event.Name)
			if err != nil {
				continue
			}
			changed[filepath.ToSlash(relPath)] = true
			batchTimer.Reset(debounce)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			opts.Logger.Warn("watch error", slog.Any("error", err))

		case <-batchTimer.C:
			if len(changed) == 0 {
				continue
			}
			paths := make([]string, 0, len(changed))
			for p := range changed {
				paths = append(paths, p)
			}
			sort.Strings(paths)
			changed = make(map[string]bool)

			n, err := ReindexFiles(ctx, root, store, paths, opts)
			if err != nil {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				opts.Logger.Error("re-indexing changed files", slog.Any("error", err))
				continue
			}
			opts.Logger.Info("re-indexed changed files", slog.Int("files", n))
		}
	}
}

// addWatchDirs adds dir and every non-ignored directory below it.
func addWatchDirs(watcher *fsnotify.Watcher, dir, root string, matcher gitignore.Matcher) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && shouldSkipDir(d.Name(), path, root, matcher) {
			return filepath.SkipDir
		}
		return watcher.Add(path)
	})
}

// shouldWatchFile checks if a changed path belongs to the document set.
func shouldWatchFile(path, root string, matcher gitignore.Matcher, include []string) bool {
	relPath, err := filepath.Rel(root, path)
	if err != nil {
		return false
	}

	if matcher != nil && matcher.Match(splitPath(relPath), false) {
		return false
	}

	return isIncluded(relPath, include)
}
