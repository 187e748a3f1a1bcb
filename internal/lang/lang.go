package lang

import (
	"path/filepath"
	"sort"
	"strings"

	"github.com/dshills/codemap/pkg/types"
)

// Parser converts decoded source text of one language into an ordered
// top-level symbol sequence. Implementations must tolerate malformed input:
// they return best-effort symbols plus diagnostics, never abort the caller.
// Input is UTF-8 text; undecodable files are classified upstream and never
// reach Parse.
type Parser interface {
	Language() string
	Extensions() []string
	Parse(src string) types.ParseResult
}

// Registry maps file extensions and language tags to parser variants
type Registry struct {
	byExt  map[string]Parser
	byLang map[string]Parser
}

// NewRegistry creates a registry over the given parser variants
func NewRegistry(parsers ...Parser) *Registry {
	r := &Registry{
		byExt:  make(map[string]Parser),
		byLang: make(map[string]Parser),
	}
	for _, p := range parsers {
		r.byLang[p.Language()] = p
		for _, ext := range p.Extensions() {
			r.byExt[ext] = p
		}
	}
	return r
}

// Default returns a registry with every supported language variant
func Default() *Registry {
	return NewRegistry(
		NewPython(),
		NewJavaScript(),
		NewTypeScript(),
		NewGo(),
		NewPHP(),
	)
}

// SetDocstringLimit caps stored docstrings at n bytes on every variant that
// extracts them. Zero or less restores the default cap.
func (r *Registry) SetDocstringLimit(n int) {
	for _, p := range r.byLang {
		if v, ok := p.(interface{ setDocstringLimit(int) }); ok {
			v.setDocstringLimit(n)
		}
	}
}

// ForPath returns the parser responsible for the file's extension
func (r *Registry) ForPath(path string) (Parser, bool) {
	p, ok := r.byExt[strings.ToLower(filepath.Ext(path))]
	return p, ok
}

// ForLanguage returns the parser for a language tag
func (r *Registry) ForLanguage(name string) (Parser, bool) {
	p, ok := r.byLang[strings.ToLower(name)]
	return p, ok
}

// LanguageForPath returns the language tag for the file's extension
func (r *Registry) LanguageForPath(path string) (string, bool) {
	p, ok := r.ForPath(path)
	if !ok {
		return "", false
	}
	return p.Language(), true
}

// Languages returns the sorted set of registered language tags
func (r *Registry) Languages() []string {
	langs := make([]string, 0, len(r.byLang))
	for name := range r.byLang {
		langs = append(langs, name)
	}
	sort.Strings(langs)
	return langs
}

// ExtensionsFor returns the extensions covered by the given language tags.
// Unknown tags are ignored.
func (r *Registry) ExtensionsFor(languages []string) []string {
	var exts []string
	for _, name := range languages {
		if p, ok := r.ForLanguage(name); ok {
			exts = append(exts, p.Extensions()...)
		}
	}
	sort.Strings(exts)
	return exts
}

// LineCount returns the number of lines in src. A trailing newline does not
// start a new line; an empty file has zero lines.
func LineCount(src string) int {
	if src == "" {
		return 0
	}
	n := strings.Count(src, "\n")
	if !strings.HasSuffix(src, "\n") {
		n++
	}
	return n
}
