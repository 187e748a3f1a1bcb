package types

import (
	"errors"
	"regexp"
	"time"
)

var fingerprintRe = regexp.MustCompile(`^[0-9a-f]{12}$`)

// FileEntry represents one indexed file. The file's relative path is the
// key under which the entry is stored; it is not repeated inside the entry.
type FileEntry struct {
	Hash      string    `json:"hash"`       // 12 hex chars over raw byte content
	IndexedAt time.Time `json:"indexed_at"` // UTC, second precision
	Language  string    `json:"language"`
	Lines     int       `json:"lines"`   // total line count
	Symbols   []Symbol  `json:"symbols"` // ordered top-level symbols
}

// Validate checks entry-level invariants and every symbol subtree
func (e *FileEntry) Validate() error {
	if !fingerprintRe.MatchString(e.Hash) {
		return errors.New("fingerprint must be 12 lowercase hex characters")
	}
	if e.Lines < 0 {
		return errors.New("line count cannot be negative")
	}
	if e.Language == "" {
		return errors.New("language tag is required")
	}
	prevStart := 0
	for i := range e.Symbols {
		sym := &e.Symbols[i]
		if sym.Lines[0] < prevStart {
			return errors.New("top-level symbols must be ordered by ascending start line")
		}
		prevStart = sym.Lines[0]
		if err := sym.Validate(e.Lines); err != nil {
			return err
		}
	}
	return nil
}

// SymbolCount returns the total number of symbols in the entry's trees
func (e *FileEntry) SymbolCount() int {
	return CountSymbols(e.Symbols)
}
