package seed

import (
	"context"
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
)

const defaultPattern = "*.md"

// LoaderConfig configures how seed files are discovered.
type LoaderConfig struct {
	// Pattern limits discovered files to those matching the glob (defaults to "*.md").
	Pattern string
	// Recursive controls whether sub-directories are traversed.
	Recursive bool
}

// Loader turns a filesystem tree into seed documents.
type Loader struct {
	fs        fs.FS
	pattern   string
	recursive bool
}

// NewLoader constructs a Loader over the provided filesystem.
func NewLoader(filesystem fs.FS, cfg LoaderConfig) *Loader {
	pattern := strings.TrimSpace(cfg.Pattern)
	if pattern == "" {
		pattern = defaultPattern
	}
	return &Loader{fs: filesystem, pattern: pattern, recursive: cfg.Recursive}
}

// LoadDirectory parses every matching file under root, ordered by path.
func (l *Loader) LoadDirectory(ctx context.Context, root string) ([]Document, error) {
	root = filepath.ToSlash(filepath.Clean(strings.TrimSpace(root)))
	if root == "" {
		root = "."
	}

	var docs []Document
	walkErr := fs.WalkDir(l.fs, root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if d.IsDir() {
			if path != root && !l.recursive {
				return fs.SkipDir
			}
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if !l.matches(path) {
			return nil
		}
		data, err := fs.ReadFile(l.fs, path)
		if err != nil {
			return fmt.Errorf("seed: read %s: %w", path, err)
		}
		doc, err := ParseDocument(path, data)
		if err != nil {
			return err
		}
		docs = append(docs, doc)
		return nil
	})
	if walkErr != nil {
		return nil, walkErr
	}

	sort.Slice(docs, func(i, j int) bool { return docs[i].Path < docs[j].Path })
	return docs, nil
}

func (l *Loader) matches(path string) bool {
	target := filepath.Base(path)
	if strings.Contains(l.pattern, "/") {
		target = path
	}
	match, err := filepath.Match(l.pattern, target)
	return err == nil && match
}
