package types

import "errors"

// SymbolKind represents the kind of code construct a symbol describes
type SymbolKind string

const (
	KindClass         SymbolKind = "class"
	KindFunction      SymbolKind = "function"
	KindMethod        SymbolKind = "method"
	KindAsyncFunction SymbolKind = "async_function"
	KindAsyncMethod   SymbolKind = "async_method"
	KindArrowFunction SymbolKind = "arrow_function"
	KindInterface     SymbolKind = "interface"
	KindType          SymbolKind = "type"
)

// Truncation limits applied when symbols are built
const (
	MaxSignatureLen = 100
	MaxDocstringLen = 150
)

// Symbol represents a named code construct with an inclusive 1-indexed line
// range. Children are exclusively owned: a class owns its methods, a function
// owns its nested functions. There are no cross-references between symbols.
type Symbol struct {
	Name      string     `json:"name"`
	Kind      SymbolKind `json:"type"`
	Lines     [2]int     `json:"lines"` // [start, end], 1-indexed, inclusive
	Signature string     `json:"signature,omitempty"`
	Docstring string     `json:"docstring,omitempty"`
	Children  []Symbol   `json:"children,omitempty"`
}

// Start returns the symbol's first line (1-indexed)
func (s *Symbol) Start() int { return s.Lines[0] }

// End returns the symbol's last line (1-indexed, inclusive)
func (s *Symbol) End() int { return s.Lines[1] }

// Valid reports whether k is one of the defined symbol kinds
func (k SymbolKind) Valid() bool {
	switch k {
	case KindClass, KindFunction, KindMethod, KindAsyncFunction,
		KindAsyncMethod, KindArrowFunction, KindInterface, KindType:
		return true
	default:
		return false
	}
}

// ValidateKind checks if the symbol kind is valid
func (s *Symbol) ValidateKind() error {
	if !s.Kind.Valid() {
		return errors.New("invalid symbol kind")
	}
	return nil
}

// Validate performs comprehensive validation of the symbol and its subtree.
// totalLines bounds the line range; pass 0 to skip the upper-bound check.
func (s *Symbol) Validate(totalLines int) error {
	if s.Name == "" {
		return errors.New("symbol name is required")
	}

	if err := s.ValidateKind(); err != nil {
		return err
	}

	if s.Lines[0] <= 0 || s.Lines[1] <= 0 {
		return errors.New("invalid range: line numbers must be positive")
	}
	if s.Lines[0] > s.Lines[1] {
		return errors.New("invalid range: start line must be before or equal to end line")
	}
	if totalLines > 0 && s.Lines[1] > totalLines {
		return errors.New("invalid range: end line exceeds file line count")
	}

	prevStart := 0
	for i := range s.Children {
		child := &s.Children[i]
		if child.Lines[0] < s.Lines[0] || child.Lines[1] > s.Lines[1] {
			return errors.New("child range must be contained in parent range")
		}
		if child.Lines[0] < prevStart {
			return errors.New("children must be ordered by ascending start line")
		}
		prevStart = child.Lines[0]
		if err := child.Validate(totalLines); err != nil {
			return err
		}
	}

	return nil
}

// Count returns the number of symbols in the subtree rooted at s, inclusive
func (s *Symbol) Count() int {
	n := 1
	for i := range s.Children {
		n += s.Children[i].Count()
	}
	return n
}

// CountSymbols returns the total number of symbols across the given trees
func CountSymbols(symbols []Symbol) int {
	n := 0
	for i := range symbols {
		n += symbols[i].Count()
	}
	return n
}
