// Package query serves read-only find and show operations against a loaded
// store, with an LRU cache over formatted results.
package query

import (
	"fmt"
	"strings"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/zeebo/xxh3"

	"github.com/dshills/codemap/internal/store"
	"github.com/dshills/codemap/pkg/types"
)

// cacheSize bounds the number of cached find responses
const cacheSize = 256

// FindResult is one formatted find match
type FindResult struct {
	Path      string           `json:"path"`
	Name      string           `json:"name"`
	Kind      types.SymbolKind `json:"kind"`
	Lines     [2]int           `json:"lines"`
	Signature string           `json:"signature,omitempty"`
	Qualified string           `json:"qualified"` // ancestor chain, dot-joined
}

// FileView is the full symbol tree of one indexed file
type FileView struct {
	Path      string         `json:"path"`
	Language  string         `json:"language"`
	Lines     int            `json:"lines"`
	IndexedAt string         `json:"indexed_at"`
	Symbols   []types.Symbol `json:"symbols"`
}

// Engine answers queries against one store. Results are cached keyed by
// request and store generation, so any store mutation invalidates naturally.
type Engine struct {
	st    *store.Store
	cache *lru.Cache[uint64, []FindResult]
}

// NewEngine creates a query engine over a loaded store
func NewEngine(st *store.Store) *Engine {
	cache, err := lru.New[uint64, []FindResult](cacheSize)
	if err != nil {
		panic(fmt.Sprintf("lru cache: %v", err))
	}
	return &Engine{st: st, cache: cache}
}

// Find returns symbols matching name, exact matches first, formatted with
// path, line range, and qualified name. Empty result is not an error.
func (e *Engine) Find(name string, kinds []types.SymbolKind) []FindResult {
	key := e.cacheKey(name, kinds)
	if cached, ok := e.cache.Get(key); ok {
		return cached
	}

	matches := e.st.FindSymbol(name, kinds)
	results := make([]FindResult, 0, len(matches))
	for _, m := range matches {
		results = append(results, FindResult{
			Path:      m.Path,
			Name:      m.Symbol.Name,
			Kind:      m.Symbol.Kind,
			Lines:     m.Symbol.Lines,
			Signature: m.Symbol.Signature,
			Qualified: qualifiedName(m.Ancestors, m.Symbol.Name),
		})
	}

	e.cache.Add(key, results)
	return results
}

// Show returns the stored symbol tree for one root-relative path. An entry
// with zero symbols is a valid result; an untracked path is ErrNotFound.
func (e *Engine) Show(rel string) (*FileView, error) {
	entry, err := e.st.GetFileEntry(rel)
	if err != nil {
		return nil, err
	}
	return &FileView{
		Path:      rel,
		Language:  entry.Language,
		Lines:     entry.Lines,
		IndexedAt: entry.IndexedAt.Format(time.RFC3339),
		Symbols:   entry.Symbols,
	}, nil
}

// cacheKey folds the request and the store generation into one hash
func (e *Engine) cacheKey(name string, kinds []types.SymbolKind) uint64 {
	var b strings.Builder
	fmt.Fprintf(&b, "%d|%s", e.st.Generation(), name)
	for _, k := range kinds {
		b.WriteByte('|')
		b.WriteString(string(k))
	}
	return xxh3.HashString(b.String())
}

func qualifiedName(ancestors []string, name string) string {
	if len(ancestors) == 0 {
		return name
	}
	return strings.Join(ancestors, ".") + "." + name
}
