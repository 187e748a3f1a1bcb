package lang

import (
	"regexp"
	"strings"

	"github.com/dshills/codemap/pkg/types"
)

var (
	reJsClass     = regexp.MustCompile(`^(?:export\s+)?(?:default\s+)?(?:abstract\s+)?class\s+([A-Za-z_$][\w$]*)`)
	reJsFunc      = regexp.MustCompile(`^(?:export\s+)?(?:default\s+)?(async\s+)?function\s*\*?\s*([A-Za-z_$][\w$]*)\s*\(`)
	reJsBindArrow = regexp.MustCompile(`^(?:export\s+)?(?:const|let|var)\s+([A-Za-z_$][\w$]*)[^=]*=\s*(async\s*)?(?:\([^)]*\)|[A-Za-z_$][\w$]*)\s*(?::[^=]+)?=>`)
	reJsBindFunc  = regexp.MustCompile(`^(?:export\s+)?(?:const|let|var)\s+([A-Za-z_$][\w$]*)\s*=\s*(async\s+)?function\b`)
	reJsMethod    = regexp.MustCompile(`^(?:(?:public|private|protected|readonly|static|override|abstract)\s+)*(async\s+)?(?:get\s+|set\s+)?\*?\s*#?([A-Za-z_$][\w$]*)\s*(?:<[^>]*>)?\s*\(`)
	reJsFieldFn   = regexp.MustCompile(`^(?:(?:public|private|protected|readonly|static)\s+)*#?([A-Za-z_$][\w$]*)\s*=\s*(async\s*)?\([^)]*\)\s*(?::[^=]+)?=>`)
	reTsInterface = regexp.MustCompile(`^(?:export\s+)?(?:declare\s+)?interface\s+([A-Za-z_$][\w$]*)`)
	reTsTypeAlias = regexp.MustCompile(`^(?:export\s+)?(?:declare\s+)?type\s+([A-Za-z_$][\w$]*)\s*(?:<[^>]*>)?\s*=`)
)

// jsMethodKeywords are control keywords that can open a paren at member
// position and must never be read as method names
var jsMethodKeywords = map[string]bool{
	"if": true, "for": true, "while": true, "switch": true, "catch": true,
	"return": true, "new": true, "typeof": true, "await": true, "do": true,
}

// jsParser extracts symbols from JavaScript and TypeScript source with a
// brace-tracking line scanner. Strings and comments are scrubbed before any
// structural matching so literal text never opens or closes a block.
type jsParser struct {
	language string
	exts     []string
	ts       bool
	docLimit int
}

// NewJavaScript creates the JavaScript parser variant
func NewJavaScript() Parser {
	return &jsParser{language: "javascript", exts: []string{".js", ".jsx", ".mjs"}}
}

// NewTypeScript creates the TypeScript parser variant: JavaScript rules plus
// interfaces, type aliases, and decorator folding
func NewTypeScript() Parser {
	return &jsParser{language: "typescript", exts: []string{".ts", ".tsx"}, ts: true}
}

func (p *jsParser) Language() string { return p.language }

func (p *jsParser) Extensions() []string { return p.exts }

func (p *jsParser) setDocstringLimit(n int) { p.docLimit = n }

type jsCtxKind int

const (
	ctxOther jsCtxKind = iota
	ctxClass
	ctxBody
)

// jsCtx is one open brace on the scanner's context stack
type jsCtx struct {
	kind jsCtxKind
	node *jsNode // construct this brace closes, if any
	line int
}

type jsNode struct {
	sym      types.Symbol
	children []*jsNode
	arrow    bool // arrow-valued binding: its body may end without a brace or semicolon
}

func (p *jsParser) Parse(src string) types.ParseResult {
	var res types.ParseResult
	total := LineCount(src)
	lines := splitLines(src)

	var roots []*jsNode
	var ctx []*jsCtx
	var pending *jsNode // declared construct waiting for its body brace
	pendingLine := 0

	sc := &jsScrubber{docLimit: p.docLimit}
	decStart := 0

	closePending := func(end int) {
		pending.sym.Lines[1] = end
		pending = nil
	}

	attach := func(n *jsNode) {
		for i := len(ctx) - 1; i >= 0; i-- {
			if ctx[i].node != nil && ctx[i].kind != ctxOther {
				ctx[i].node.children = append(ctx[i].node.children, n)
				return
			}
		}
		roots = append(roots, n)
	}

	inClassBody := func() bool {
		return len(ctx) > 0 && ctx[len(ctx)-1].kind == ctxClass
	}

	for i := 0; i < len(lines); i++ {
		lineNo := i + 1
		code := sc.scrub(lines[i], lineNo)
		trimmed := strings.TrimSpace(code)

		// A pending arrow binding or type alias may have ended on an earlier
		// line without a semicolon; the next declaration starting is what
		// closes it.
		bodiless := pending != nil && (pending.arrow || pending.sym.Kind == types.KindType)

		if trimmed != "" && (pending == nil || bodiless) {
			if p.ts && strings.HasPrefix(trimmed, "@") {
				if pending != nil {
					closePending(lineNo - 1)
				}
				if decStart == 0 {
					decStart = lineNo
				}
			} else if node := p.matchDecl(trimmed, inClassBody()); node != nil {
				if pending != nil {
					closePending(lineNo - 1)
				}
				node.sym.Lines = [2]int{declStart(decStart, lineNo), lineNo}
				node.sym.Signature = types.TruncateSignature(strings.TrimSuffix(strings.TrimSpace(scrubTrailingBrace(lines[i])), "{"))
				if d := sc.takeDoc(declStart(decStart, lineNo)); d != "" {
					node.sym.Docstring = d
				}
				attach(node)
				pending = node
				pendingLine = lineNo
				decStart = 0
			} else if pending == nil {
				decStart = 0
			}
		}

		// Structural scan of the scrubbed text
		for _, r := range code {
			switch r {
			case '{':
				c := &jsCtx{kind: ctxOther, line: lineNo}
				if pending != nil {
					c.node = pending
					c.kind = ctxBody
					if pending.sym.Kind == types.KindClass {
						c.kind = ctxClass
					}
					pending = nil
				}
				ctx = append(ctx, c)
			case '}':
				if len(ctx) == 0 {
					res.AddDiagnostic("", lineNo, types.DiagParseError, "unbalanced closing brace")
					continue
				}
				c := ctx[len(ctx)-1]
				ctx = ctx[:len(ctx)-1]
				if c.node != nil {
					c.node.sym.Lines[1] = lineNo
				}
			case ';':
				if pending != nil {
					// Bodyless declaration: one-line arrow, type alias, or
					// an overload-style signature.
					closePending(lineNo)
				}
			}
		}

		// One-line arrow with an expression body is complete at end of line
		// even without a semicolon.
		if pending != nil && pending.arrow && pendingLine == lineNo {
			if idx := strings.LastIndex(code, "=>"); idx >= 0 && strings.TrimSpace(code[idx+2:]) != "" {
				closePending(lineNo)
			}
		}
	}

	if pending != nil {
		pending.sym.Lines[1] = total
	}
	for len(ctx) > 0 {
		c := ctx[len(ctx)-1]
		ctx = ctx[:len(ctx)-1]
		if c.node != nil {
			c.node.sym.Lines[1] = total
		}
		res.AddDiagnostic("", c.line, types.DiagParseError, "unclosed block at end of file")
	}
	if sc.inBlock {
		res.AddDiagnostic("", sc.blockLine, types.DiagParseError, "unterminated block comment")
	}

	res.Symbols = materializeJs(roots)
	return res
}

// matchDecl recognizes a declaration on a scrubbed, trimmed line
func (p *jsParser) matchDecl(trimmed string, classBody bool) *jsNode {
	if p.ts {
		if m := reTsInterface.FindStringSubmatch(trimmed); m != nil {
			return &jsNode{sym: types.Symbol{Name: m[1], Kind: types.KindInterface}}
		}
		if m := reTsTypeAlias.FindStringSubmatch(trimmed); m != nil {
			return &jsNode{sym: types.Symbol{Name: m[1], Kind: types.KindType}}
		}
	}
	if m := reJsClass.FindStringSubmatch(trimmed); m != nil {
		return &jsNode{sym: types.Symbol{Name: m[1], Kind: types.KindClass}}
	}
	if m := reJsFunc.FindStringSubmatch(trimmed); m != nil {
		kind := types.KindFunction
		if m[1] != "" {
			kind = types.KindAsyncFunction
		}
		return &jsNode{sym: types.Symbol{Name: m[2], Kind: kind}}
	}
	if m := reJsBindFunc.FindStringSubmatch(trimmed); m != nil {
		kind := types.KindFunction
		if m[2] != "" {
			kind = types.KindAsyncFunction
		}
		return &jsNode{sym: types.Symbol{Name: m[1], Kind: kind}}
	}
	if m := reJsBindArrow.FindStringSubmatch(trimmed); m != nil {
		return &jsNode{sym: types.Symbol{Name: m[1], Kind: types.KindArrowFunction}, arrow: true}
	}
	if classBody {
		if m := reJsFieldFn.FindStringSubmatch(trimmed); m != nil {
			kind := types.KindMethod
			if m[2] != "" {
				kind = types.KindAsyncMethod
			}
			return &jsNode{sym: types.Symbol{Name: m[1], Kind: kind}, arrow: true}
		}
		if m := reJsMethod.FindStringSubmatch(trimmed); m != nil && !jsMethodKeywords[m[2]] {
			kind := types.KindMethod
			if m[1] != "" {
				kind = types.KindAsyncMethod
			}
			return &jsNode{sym: types.Symbol{Name: m[2], Kind: kind}}
		}
	}
	return nil
}

// scrubTrailingBrace drops an inline comment so the signature line can be
// trimmed of its opening brace
func scrubTrailingBrace(line string) string {
	if idx := strings.Index(line, "//"); idx >= 0 {
		line = line[:idx]
	}
	return line
}

func materializeJs(nodes []*jsNode) []types.Symbol {
	if len(nodes) == 0 {
		return nil
	}
	out := make([]types.Symbol, 0, len(nodes))
	for _, n := range nodes {
		sym := n.sym
		sym.Children = materializeJs(n.children)
		out = append(out, sym)
	}
	return out
}
