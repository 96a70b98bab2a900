package ingestion

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Benny93/owlrdf-go/internal/storage"
)

func TestWatchDir(t *testing.T) {
	t.Parallel()

	t.Run("ReindexesChangedFiles", func(t *testing.T) {
		t.Parallel()
		root := t.TempDir()
		writeFiles(t, root, map[string]string{"onto/existing.nt": ""})
		store := storage.NewMemoryBackend()

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		errCh := make(chan error, 1)
		go func() {
			errCh <- WatchDir(ctx, root, store, Options{}, 20*time.Millisecond)
		}()

		// Keep rewriting until the watcher has registered the directory.
		require.Eventually(t, func() bool {
			_ = os.WriteFile(filepath.Join(root, "onto", "people.nt"), []byte(peopleDoc), 0o644)
			doc, err := store.GetDocument(ctx, "onto/people.nt")
			return err == nil && doc != nil && len(doc.Axioms) == 3
		}, 5*time.Second, 50*time.Millisecond)

		require.NoError(t, os.Remove(filepath.Join(root, "onto", "people.nt")))
		require.Eventually(t, func() bool {
			doc, err := store.GetDocument(ctx, "onto/people.nt")
			return err == nil && doc == nil
		}, 5*time.Second, 20*time.Millisecond)

		cancel()
		select {
		case err := <-errCh:
			assert.ErrorIs(t, err, context.Canceled)
		case <-time.After(5 * time.Second):
			t.Fatal("watcher did not stop")
		}
	})

	t.Run("MissingRoot", func(t *testing.T) {
		t.Parallel()
		root := filepath.Join(t.TempDir(), "missing")

		err := WatchDir(context.Background(), root, storage.NewMemoryBackend(), Options{}, 0)

		assert.Error(t, err)
	})
}

func TestAddWatchDirs(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeFiles(t, root, map[string]string{
		"a/b/c.nt":          "",
		".git/HEAD":         "",
		"build/out.nt":      "",
		".gitignore":        "build/\n",
		"node_modules/x.nt": "",
	})

	matcher, err := loadMatcher(root)
	require.NoError(t, err)

	watcher, err := fsnotify.NewWatcher()
	require.NoError(t, err)
	defer watcher.Close()

	require.NoError(t, addWatchDirs(watcher, root, root, matcher))

	assert.ElementsMatch(t, []string{
		root,
		filepath.Join(root, "a"),
		filepath.Join(root, "a", "b"),
	}, watcher.WatchList())
}

func TestShouldWatchFile(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeFiles(t, root, map[string]string{".gitignore": "*.draft.nt\n"})
	matcher, err := loadMatcher(root)
	require.NoError(t, err)

	include := []string{"**/*.nt"}

	tests := []struct {
		name     string
		path     string
		expected bool
	}{
		{"Included", filepath.Join(root, "a.nt"), true},
		{"Nested", filepath.Join(root, "x", "y.nt"), true},
		{"WrongExtension", filepath.Join(root, "a.ttl"), false},
		{"Gitignored", filepath.Join(root, "a.draft.nt"), false},
		{"StateDir", filepath.Join(root, ".owlrdf", "a.nt"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, shouldWatchFile(tt.path, root, matcher, include))
		})
	}

	t.Run("NilMatcher", func(t *testing.T) {
		t.Parallel()
		assert.True(t, shouldWatchFile(filepath.Join(root, "a.draft.nt"), root, nil, include))
	})
}
