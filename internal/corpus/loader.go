// Package corpus reads the local knowledge-base directory and watches it
// for changes.
package corpus

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/askdocs-ai/askdocs-cli/internal/core/domain"
	"github.com/askdocs-ai/askdocs-cli/internal/core/ports/driven"
	"github.com/askdocs-ai/askdocs-cli/internal/logger"
)

// Ensure Loader implements the interface.
var _ driven.CorpusLoader = (*Loader)(nil)

// defaultExtensions are the file types loaded from the corpus directory.
var defaultExtensions = []string{".md", ".txt"}

// Loader reads every matching file under a corpus directory.
type Loader struct {
	dir        string
	extensions map[string]bool
}

// NewLoader creates a loader for the given directory. Extensions default
// to .md and .txt when none are given; matching is case-insensitive.
func NewLoader(dir string, extensions ...string) *Loader {
	if len(extensions) == 0 {
		extensions = defaultExtensions
	}
	exts := make(map[string]bool, len(extensions))
	for _, e := range extensions {
		exts[strings.ToLower(e)] = true
	}
	return &Loader{dir: dir, extensions: exts}
}

// Dir returns the corpus directory.
func (l *Loader) Dir() string { return l.dir }

// Load reads the full corpus. Document IDs are slash-separated paths
// relative to the corpus directory, which keeps them stable across
// machines. An unreadable directory, an unreadable file, or a corpus with
// no matching files all fail with domain.ErrCorpus.
func (l *Loader) Load(ctx context.Context) ([]domain.Document, error) {
	info, err := os.Stat(l.dir)
	if err != nil {
		return nil, fmt.Errorf("%w: corpus directory %s: %v", domain.ErrCorpus, l.dir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s is not a directory", domain.ErrCorpus, l.dir)
	}

	var docs []domain.Document
	err = filepath.WalkDir(l.dir, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return fmt.Errorf("%w: walking %s: %v", domain.ErrCorpus, path, err)
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		name := entry.Name()
		if entry.IsDir() {
			// Skip hidden directories such as .git.
			if path != l.dir && strings.HasPrefix(name, ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.HasPrefix(name, ".") || !l.extensions[strings.ToLower(filepath.Ext(name))] {
			return nil
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("%w: reading %s: %v", domain.ErrCorpus, path, err)
		}
		rel, err := filepath.Rel(l.dir, path)
		if err != nil {
			rel = name
		}
		fi, err := entry.Info()
		if err != nil {
			return fmt.Errorf("%w: stat %s: %v", domain.ErrCorpus, path, err)
		}

		docs = append(docs, domain.Document{
			ID:      filepath.ToSlash(rel),
			Path:    path,
			Content: string(data),
			ModTime: fi.ModTime(),
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	if len(docs) == 0 {
		return nil, fmt.Errorf("%w: no documents found in %s", domain.ErrCorpus, l.dir)
	}

	// WalkDir is already lexical, but be explicit: build order determines
	// chunk insertion order and therefore tie-breaking in search.
	sort.Slice(docs, func(i, j int) bool { return docs[i].ID < docs[j].ID })

	logger.Debug("Loaded %d documents from %s", len(docs), l.dir)
	return docs, nil
}
