// Package exclude loads per-directory exclusion manifests. A manifest is a
// plain-text sidecar file inside a directory; each non-empty line is a path
// or glob naming entries that must never be removed, resolved relative to
// the manifest's own directory unless absolute.
package exclude

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// DefaultManifestName is the conventional sidecar filename.
const DefaultManifestName = ".housekeeper"

// List is the expanded contents of one manifest: a set of absolute
// normalized paths. A nil *List means the directory carries no manifest;
// all methods are nil-safe so callers never need to distinguish.
type List struct {
	Manifest string // absolute path of the manifest file
	paths    map[string]struct{}
}

// Contains reports whether path (absolute, normalized) is excluded.
func (l *List) Contains(path string) bool {
	if l == nil {
		return false
	}
	_, ok := l.paths[path]
	return ok
}

// Len returns the number of excluded paths.
func (l *List) Len() int {
	if l == nil {
		return 0
	}
	return len(l.paths)
}

// Cache lazily loads and memoizes one List per directory for the lifetime
// of a run. The zero value is not usable; construct with NewCache.
type Cache struct {
	ManifestName string
	lists        map[string]*List
}

// NewCache returns a Cache using the given manifest filename, or
// DefaultManifestName when empty.
func NewCache(manifestName string) *Cache {
	if manifestName == "" {
		manifestName = DefaultManifestName
	}
	return &Cache{
		ManifestName: manifestName,
		lists:        make(map[string]*List),
	}
}

// Lookup returns the exclusion list for dir, loading and caching it on
// first use. Directories without a manifest cache a nil sentinel so repeat
// lookups skip the filesystem check.
func (c *Cache) Lookup(dir string) (*List, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("exclude: resolving %s: %w", dir, err)
	}
	if l, ok := c.lists[abs]; ok {
		return l, nil
	}
	l, err := load(filepath.Join(abs, c.ManifestName), abs)
	if err != nil {
		return nil, err
	}
	c.lists[abs] = l
	return l, nil
}

// load reads a manifest and expands each line via filesystem globbing.
// A missing manifest yields (nil, nil).
func load(manifest, dir string) (*List, error) {
	f, err := os.Open(manifest)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("exclude: opening %s: %w", manifest, err)
	}
	defer f.Close()

	l := &List{Manifest: manifest, paths: make(map[string]struct{})}
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		pattern := line
		if !filepath.IsAbs(pattern) {
			pattern = filepath.Join(dir, pattern)
		}
		matches, err := filepath.Glob(pattern)
		if err != nil {
			return nil, fmt.Errorf("exclude: bad pattern %q in %s: %w", line, manifest, err)
		}
		for _, m := range matches {
			abs, err := filepath.Abs(m)
			if err != nil {
				return nil, fmt.Errorf("exclude: resolving %s: %w", m, err)
			}
			l.paths[filepath.Clean(abs)] = struct{}{}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("exclude: reading %s: %w", manifest, err)
	}
	return l, nil
}
