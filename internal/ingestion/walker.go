// Package ingestion finds triple files in a project, parses them into
// ontologies and keeps the stored results current.
package ingestion

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/go-git/go-git/v5/plumbing/format/gitignore"
)

// FileEntry represents a file to be processed.
type FileEntry struct {
	// Path is the absolute file path.
	Path string

	// RelPath is the slash-separated path relative to the project root.
	RelPath string

	// Content is the file content.
	Content []byte

	// SHA256 is the hash of the file content.
	SHA256 string
}

// Default patterns to ignore (in addition to .gitignore).
var defaultIgnorePatterns = []string{
	".git/",
	".owlrdf/",
	"node_modules/",
	".venv/",
	"venv/",
	".DS_Store",
	"Thumbs.db",
	"*~",
	"*.swp",
}

// WalkDir walks root and returns every file matching one of the include
// globs, skipping default ignores and .gitignore patterns.
func WalkDir(root string, include []string) ([]FileEntry, error) {
	matcher, err := loadMatcher(root)
	if err != nil {
		return nil, fmt.Errorf("loading ignore rules: %w", err)
	}

	var entries []FileEntry
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if d.IsDir() {
			if path != root && shouldSkipDir(d.Name(), path, root, matcher) {
				return filepath.SkipDir
			}
			return nil
		}

		relPath, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		if !isIncluded(relPath, include) || matcher.Match(splitPath(relPath), false) {
			return nil
		}

		entry, err := readEntry(root, relPath)
		if err != nil {
			return err
		}
		entries = append(entries, entry)
		return nil
	})

	return entries, err
}

// readEntry loads one file below root.
func readEntry(root, relPath string) (FileEntry, error) {
	path := filepath.Join(root, relPath)
	content, err := os.ReadFile(path)
	if err != nil {
		return FileEntry{}, err
	}

	hash := sha256.Sum256(content)
	return FileEntry{
		Path:    path,
		RelPath: filepath.ToSlash(relPath),
		Content: content,
		SHA256:  hex.EncodeToString(hash[:]),
	}, nil
}

// isIncluded reports whether relPath matches any include glob.
func isIncluded(relPath string, include []string) bool {
	slashed := filepath.ToSlash(relPath)
	for _, pattern := range include {
		if ok, _ := doublestar.Match(pattern, slashed); ok {
			return true
		}
	}
	return false
}

// loadGitignore loads .gitignore patterns from the project root.
func loadGitignore(root string) ([]gitignore.Pattern, error) {
	gitignorePath := filepath.Join(root, ".gitignore")

	content, err := os.ReadFile(gitignorePath)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var patterns []gitignore.Pattern
	for _, line := range strings.Split(string(content), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		patterns = append(patterns, gitignore.ParsePattern(line, nil))
	}

	return patterns, nil
}

// loadMatcher combines the default ignore patterns with the project's
// .gitignore.
func loadMatcher(root string) (gitignore.Matcher, error) {
	patterns, err := loadGitignore(root)
	if err != nil {
		return nil, err
	}

	all := make([]gitignore.Pattern, 0, len(defaultIgnorePatterns)+len(patterns))
	for _, p := range defaultIgnorePatterns {
		all = append(all, gitignore.ParsePattern(p, nil))
	}
	all = append(all, patterns...)

	return gitignore.NewMatcher(all), nil
}

// shouldSkipDir checks if a directory should be skipped.
func shouldSkipDir(name, path, root string, matcher gitignore.Matcher) bool {
	if name == ".git" {
		return true
	}

	relPath, err := filepath.Rel(root, path)
	if err != nil {
		return false
	}

	return matcher.Match(splitPath(relPath), true)
}

// splitPath splits a path into its components.
func splitPath(path string) []string {
	return strings.Split(path, string(filepath.Separator))
}
