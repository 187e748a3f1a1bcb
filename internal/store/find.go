package store

import (
	"sort"
	"strings"

	"github.com/dshills/codemap/pkg/types"
)

// Match is one find result: a symbol, the file holding it, and the names of
// its enclosing symbols from outermost to innermost.
type Match struct {
	Path      string
	Symbol    types.Symbol
	Ancestors []string
}

// FindSymbol scans every loaded shard for symbols matching the query.
// Exact name matches (case-sensitive) rank before substring matches
// (case-insensitive); within each tier results order by path, then start
// line. An empty result is not an error.
func (s *Store) FindSymbol(query string, kinds []types.SymbolKind) []Match {
	s.mu.RLock()
	defer s.mu.RUnlock()

	kindSet := make(map[types.SymbolKind]bool, len(kinds))
	for _, k := range kinds {
		kindSet[k] = true
	}
	lower := strings.ToLower(query)

	var exact, partial []Match
	for _, sh := range s.shards {
		for rel, entry := range sh.files {
			collectMatches(rel, entry.Symbols, nil, query, lower, kindSet, &exact, &partial)
		}
	}

	orderMatches(exact)
	orderMatches(partial)
	return append(exact, partial...)
}

func collectMatches(rel string, syms []types.Symbol, ancestors []string, query, lower string, kinds map[types.SymbolKind]bool, exact, partial *[]Match) {
	for _, sym := range syms {
		if len(kinds) == 0 || kinds[sym.Kind] {
			if sym.Name == query {
				*exact = append(*exact, Match{Path: rel, Symbol: sym, Ancestors: append([]string(nil), ancestors...)})
			} else if strings.Contains(strings.ToLower(sym.Name), lower) {
				*partial = append(*partial, Match{Path: rel, Symbol: sym, Ancestors: append([]string(nil), ancestors...)})
			}
		}
		collectMatches(rel, sym.Children, append(ancestors, sym.Name), query, lower, kinds, exact, partial)
	}
}

func orderMatches(matches []Match) {
	sort.SliceStable(matches, func(a, b int) bool {
		if matches[a].Path != matches[b].Path {
			return matches[a].Path < matches[b].Path
		}
		return matches[a].Symbol.Start() < matches[b].Symbol.Start()
	})
}
