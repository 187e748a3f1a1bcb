// Package lang extracts symbols from source files across supported languages.
//
// Each language has a parser variant behind the Parser interface; the
// Registry routes files to variants by extension. Go parsing uses the
// standard library AST (go/parser, go/ast); Python, JavaScript, TypeScript,
// and PHP use tolerant line scanners that understand declaration grammar,
// block structure, strings, and comments without full language parsing.
//
// # Basic Usage
//
//	reg := lang.Default()
//	p, ok := reg.ForPath("app/models.py")
//	if ok {
//	    result := p.Parse(source)
//	    for _, sym := range result.Symbols {
//	        fmt.Printf("%s %s [%d,%d]\n", sym.Kind, sym.Name, sym.Start(), sym.End())
//	    }
//	}
//
// # Error Handling
//
// Parse never returns an error. Malformed input produces diagnostics in the
// result alongside whatever symbols could still be extracted:
//
//	result := p.Parse(source)
//	if result.HasDiagnostics() {
//	    // caller decides whether partial symbols are usable
//	}
//
// This lets indexing continue across a codebase with broken files.
//
// # Symbol Kinds
//
// Variants map language constructs onto a shared kind vocabulary:
//
//   - Python: class, function, method, async variants
//   - JavaScript: class, function, arrow_function, method, async variants
//   - TypeScript: JavaScript kinds plus interface and type
//   - Go: struct as class, interface, named types, functions, methods
//   - PHP: class (traits included), interface, type for enums, functions,
//     methods
//
// Methods nest under their owning class symbol; line ranges of parents
// always contain their children.
package lang
