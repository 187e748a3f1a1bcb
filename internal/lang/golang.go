package lang

import (
	"fmt"
	"go/ast"
	"go/parser"
	"go/scanner"
	"go/token"
	"sort"
	"strings"

	"github.com/dshills/codemap/pkg/types"
)

// goParser extracts symbols from Go source via go/ast. Structs map to class
// symbols (they own their methods), interfaces to interface symbols, and
// other type declarations to type symbols.
type goParser struct {
	docLimit int
}

// NewGo creates the Go parser variant
func NewGo() Parser { return &goParser{} }

func (g *goParser) Language() string { return "go" }

func (g *goParser) Extensions() []string { return []string{".go"} }

func (g *goParser) setDocstringLimit(n int) { g.docLimit = n }

func (g *goParser) Parse(src string) types.ParseResult {
	var res types.ParseResult

	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, "src.go", src, parser.ParseComments)
	if err != nil {
		// Syntax errors still yield a partial AST; record and keep going.
		line := 0
		if list, ok := err.(scanner.ErrorList); ok && len(list) > 0 {
			line = list[0].Pos.Line
		}
		res.AddDiagnostic("", line, types.DiagParseError, fmt.Sprintf("syntax error: %v", err))
	}
	if file == nil {
		return res
	}

	ext := &goExtractor{fset: fset, types: make(map[string]int), docLimit: g.docLimit}
	for _, decl := range file.Decls {
		switch d := decl.(type) {
		case *ast.GenDecl:
			ext.extractGenDecl(d)
		case *ast.FuncDecl:
			ext.extractFunc(d)
		}
	}

	res.Symbols = ext.finish()
	return res
}

// goExtractor accumulates declarations, then nests methods under their
// receiver's type symbol
type goExtractor struct {
	fset     *token.FileSet
	symbols  []types.Symbol
	types    map[string]int // index into symbols
	methods  []goMethod
	docLimit int
}

type goMethod struct {
	receiver string
	sym      types.Symbol
}

func (e *goExtractor) extractGenDecl(decl *ast.GenDecl) {
	if decl.Tok != token.TYPE {
		return
	}
	for _, spec := range decl.Specs {
		ts, ok := spec.(*ast.TypeSpec)
		if !ok {
			continue
		}
		sym := types.Symbol{
			Name:      ts.Name.Name,
			Lines:     e.lineRange(decl.Pos(), decl.End()),
			Docstring: e.docText(decl.Doc, ts.Doc),
		}
		switch ts.Type.(type) {
		case *ast.StructType:
			sym.Kind = types.KindClass
			sym.Signature = types.TruncateSignature(fmt.Sprintf("type %s struct", ts.Name.Name))
		case *ast.InterfaceType:
			sym.Kind = types.KindInterface
			sym.Signature = types.TruncateSignature(fmt.Sprintf("type %s interface", ts.Name.Name))
		default:
			sym.Kind = types.KindType
			sym.Signature = types.TruncateSignature(fmt.Sprintf("type %s", ts.Name.Name))
		}
		e.symbols = append(e.symbols, sym)
		e.types[sym.Name] = len(e.symbols) - 1
	}
}

func (e *goExtractor) extractFunc(decl *ast.FuncDecl) {
	sym := types.Symbol{
		Name:      decl.Name.Name,
		Kind:      types.KindFunction,
		Lines:     e.lineRange(decl.Pos(), decl.End()),
		Signature: types.TruncateSignature(funcSignature(decl)),
		Docstring: e.docText(decl.Doc, nil),
	}

	if decl.Recv != nil && len(decl.Recv.List) > 0 {
		sym.Kind = types.KindMethod
		e.methods = append(e.methods, goMethod{
			receiver: receiverName(decl.Recv.List[0].Type),
			sym:      sym,
		})
		return
	}
	e.symbols = append(e.symbols, sym)
}

// finish attaches methods to their receiver types and orders the tree.
// Methods on types not declared in this file stay at the top level.
func (e *goExtractor) finish() []types.Symbol {
	var orphans []types.Symbol
	for _, m := range e.methods {
		idx, ok := e.types[m.receiver]
		if !ok {
			orphans = append(orphans, m.sym)
			continue
		}
		parent := &e.symbols[idx]
		parent.Children = append(parent.Children, m.sym)
		if m.sym.Lines[0] < parent.Lines[0] {
			parent.Lines[0] = m.sym.Lines[0]
		}
		if m.sym.Lines[1] > parent.Lines[1] {
			parent.Lines[1] = m.sym.Lines[1]
		}
	}
	e.symbols = append(e.symbols, orphans...)

	for i := range e.symbols {
		children := e.symbols[i].Children
		sort.SliceStable(children, func(a, b int) bool {
			return children[a].Lines[0] < children[b].Lines[0]
		})
	}
	sort.SliceStable(e.symbols, func(a, b int) bool {
		return e.symbols[a].Lines[0] < e.symbols[b].Lines[0]
	})
	return e.symbols
}

func (e *goExtractor) lineRange(start, end token.Pos) [2]int {
	return [2]int{e.fset.Position(start).Line, e.fset.Position(end).Line}
}

func receiverName(expr ast.Expr) string {
	switch t := expr.(type) {
	case *ast.StarExpr:
		return receiverName(t.X)
	case *ast.IndexExpr: // generic receiver
		return receiverName(t.X)
	case *ast.IndexListExpr:
		return receiverName(t.X)
	case *ast.Ident:
		return t.Name
	}
	return ""
}

func (e *goExtractor) docText(groups ...*ast.CommentGroup) string {
	for _, g := range groups {
		if g != nil {
			return types.TruncateDocstring(strings.TrimSpace(g.Text()), e.docLimit)
		}
	}
	return ""
}

// funcSignature builds a compact signature string for a declaration
func funcSignature(decl *ast.FuncDecl) string {
	var sig strings.Builder
	sig.WriteString("func ")

	if decl.Recv != nil && len(decl.Recv.List) > 0 {
		sig.WriteString("(")
		sig.WriteString(exprString(decl.Recv.List[0].Type))
		sig.WriteString(") ")
	}

	sig.WriteString(decl.Name.Name)
	sig.WriteString("(")
	if decl.Type.Params != nil {
		sig.WriteString(fieldListString(decl.Type.Params))
	}
	sig.WriteString(")")

	if decl.Type.Results != nil {
		results := fieldListString(decl.Type.Results)
		if results != "" {
			if decl.Type.Results.NumFields() > 1 {
				sig.WriteString(" (" + results + ")")
			} else {
				sig.WriteString(" " + results)
			}
		}
	}
	return sig.String()
}

func fieldListString(fields *ast.FieldList) string {
	if fields == nil || len(fields.List) == 0 {
		return ""
	}
	var parts []string
	for _, field := range fields.List {
		typeStr := exprString(field.Type)
		if len(field.Names) > 0 {
			for _, name := range field.Names {
				parts = append(parts, name.Name+" "+typeStr)
			}
		} else {
			parts = append(parts, typeStr)
		}
	}
	return strings.Join(parts, ", ")
}

func exprString(expr ast.Expr) string {
	switch t := expr.(type) {
	case *ast.Ident:
		return t.Name
	case *ast.StarExpr:
		return "*" + exprString(t.X)
	case *ast.ArrayType:
		return "[]" + exprString(t.Elt)
	case *ast.MapType:
		return "map[" + exprString(t.Key) + "]" + exprString(t.Value)
	case *ast.ChanType:
		return "chan " + exprString(t.Value)
	case *ast.FuncType:
		return "func(...)"
	case *ast.InterfaceType:
		return "interface{}"
	case *ast.SelectorExpr:
		return exprString(t.X) + "." + t.Sel.Name
	case *ast.Ellipsis:
		return "..." + exprString(t.Elt)
	case *ast.IndexExpr:
		return exprString(t.X) + "[" + exprString(t.Index) + "]"
	default:
		return "..."
	}
}
