package source

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/c360studio/semshape/shape"
)

// DefaultPatterns match every shape document under a directory.
var DefaultPatterns = []string{"**/*.yaml", "**/*.yml", "**/*.json"}

// Dir returns one source per file under root matching any of patterns, in
// sorted path order. Patterns are doublestar globs relative to root; with no
// patterns DefaultPatterns apply. Sources are named by their slash-separated
// path relative to root.
func Dir(root string, patterns ...string) ([]shape.Source, error) {
	if len(patterns) == 0 {
		patterns = DefaultPatterns
	}

	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("stat shape directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("shape directory %s is not a directory", root)
	}

	fsys := os.DirFS(root)
	seen := make(map[string]bool)
	var rels []string
	for _, pattern := range patterns {
		if !doublestar.ValidatePattern(pattern) {
			return nil, fmt.Errorf("invalid pattern %q", pattern)
		}
		matches, err := doublestar.Glob(fsys, pattern, doublestar.WithFilesOnly())
		if err != nil {
			return nil, fmt.Errorf("glob %q: %w", pattern, err)
		}
		for _, m := range matches {
			if hidden(m) || seen[m] {
				continue
			}
			seen[m] = true
			rels = append(rels, m)
		}
	}
	slices.Sort(rels)

	sources := make([]shape.Source, 0, len(rels))
	for _, rel := range rels {
		sources = append(sources, &FileSource{
			path: filepath.Join(root, filepath.FromSlash(rel)),
			name: rel,
		})
	}
	return sources, nil
}

// Glob returns one source per file matching any of patterns. Relative
// patterns resolve against the working directory; a pattern without glob
// metacharacters must name an existing file or a directory, which expands
// with DefaultPatterns.
func Glob(patterns []string) ([]shape.Source, error) {
	seen := make(map[string]bool)
	var paths []string
	add := func(p string) {
		if !seen[p] {
			seen[p] = true
			paths = append(paths, p)
		}
	}

	for _, pattern := range patterns {
		abs, err := filepath.Abs(pattern)
		if err != nil {
			return nil, fmt.Errorf("resolve pattern %q: %w", pattern, err)
		}

		if !containsGlob(pattern) {
			info, err := os.Stat(abs)
			if err != nil {
				return nil, fmt.Errorf("resolve pattern %q: %w", pattern, err)
			}
			if !info.IsDir() {
				add(abs)
				continue
			}
			dirSources, err := Dir(abs)
			if err != nil {
				return nil, err
			}
			for _, s := range dirSources {
				add(s.(*FileSource).path)
			}
			continue
		}

		matches, err := doublestar.FilepathGlob(abs, doublestar.WithFilesOnly())
		if err != nil {
			return nil, fmt.Errorf("glob %q: %w", pattern, err)
		}
		for _, m := range matches {
			add(m)
		}
	}
	slices.Sort(paths)

	sources := make([]shape.Source, 0, len(paths))
	for _, p := range paths {
		sources = append(sources, File(p))
	}
	return sources, nil
}

// Provider returns a shape.SourceProvider that re-evaluates patterns on each
// call, so documents added after startup are picked up on reload.
func Provider(patterns []string) shape.SourceProvider {
	return func() ([]shape.Source, error) {
		return Glob(patterns)
	}
}

func containsGlob(pattern string) bool {
	for _, c := range pattern {
		switch c {
		case '*', '?', '[', '{':
			return true
		}
	}
	return false
}

// hidden reports whether any element of a slash-separated path starts with a dot.
func hidden(rel string) bool {
	for elem := range strings.SplitSeq(rel, "/") {
		if len(elem) > 1 && elem[0] == '.' {
			return true
		}
	}
	return false
}
