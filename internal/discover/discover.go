// Package discover enumerates candidate source files under a project root.
//
// A Predicate built from the project config decides which relative paths are
// indexable: the file must carry a registered extension for a configured
// language, match an include glob, and match no exclude glob. Walk applies
// the predicate over the tree and prunes excluded directories early.
package discover

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/dshills/codemap/internal/config"
	"github.com/dshills/codemap/internal/lang"
)

// Predicate decides whether a root-relative path is indexable
type Predicate struct {
	include    []string
	exclude    []string
	extensions map[string]bool
}

// NewPredicate builds the file filter for a config and parser registry
func NewPredicate(cfg config.Config, reg *lang.Registry) *Predicate {
	exts := make(map[string]bool)
	for _, ext := range reg.ExtensionsFor(cfg.Languages) {
		exts[ext] = true
	}
	return &Predicate{
		include:    cfg.Include,
		exclude:    cfg.Exclude,
		extensions: exts,
	}
}

// Match reports whether rel (slash-separated, root-relative) is indexable
func (p *Predicate) Match(rel string) bool {
	rel = filepath.ToSlash(rel)
	if !p.extensions[strings.ToLower(filepath.Ext(rel))] {
		return false
	}
	if !matchAny(p.include, rel) {
		return false
	}
	return !matchAny(p.exclude, rel)
}

// SkipDir reports whether a directory subtree can be pruned outright
func (p *Predicate) SkipDir(rel string) bool {
	rel = filepath.ToSlash(rel)
	base := filepath.Base(rel)
	if strings.HasPrefix(base, ".") {
		return true
	}
	// A dir is prunable when an exclude of the "**/name/**" form covers it.
	for _, pat := range p.exclude {
		if ok, err := doublestar.Match(pat, rel+"/x"); err == nil && ok {
			if ok2, err2 := doublestar.Match(pat, rel+"/x/y"); err2 == nil && ok2 {
				return true
			}
		}
	}
	return false
}

func matchAny(patterns []string, rel string) bool {
	for _, pat := range patterns {
		if ok, err := doublestar.Match(pat, rel); err == nil && ok {
			return true
		}
	}
	return false
}

// Walk returns the sorted root-relative paths of all indexable files.
// The root itself must exist; unreadable subtrees are skipped.
func Walk(root string, pred *Predicate) ([]string, error) {
	var paths []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == root {
				return err
			}
			return nil
		}
		rel, rerr := filepath.Rel(root, path)
		if rerr != nil || rel == "." {
			return nil
		}
		rel = filepath.ToSlash(rel)

		if d.IsDir() {
			if pred.SkipDir(rel) {
				return filepath.SkipDir
			}
			return nil
		}
		if d.Type()&os.ModeSymlink != 0 {
			return nil
		}
		if pred.Match(rel) {
			paths = append(paths, rel)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(paths)
	return paths, nil
}
