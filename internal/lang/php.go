package lang

import (
	"regexp"
	"strings"

	"github.com/dshills/codemap/pkg/types"
)

var (
	rePhpClass     = regexp.MustCompile(`^(?:(?:final|abstract|readonly)\s+)*class\s+([A-Za-z_]\w*)`)
	rePhpInterface = regexp.MustCompile(`^interface\s+([A-Za-z_]\w*)`)
	rePhpTrait     = regexp.MustCompile(`^trait\s+([A-Za-z_]\w*)`)
	rePhpEnum      = regexp.MustCompile(`^enum\s+([A-Za-z_]\w*)`)
	rePhpFunc      = regexp.MustCompile(`^(?:(?:public|private|protected|static|final|abstract)\s+)*function\s+&?([A-Za-z_]\w*)\s*\(`)
)

// phpParser extracts symbols from PHP source with the same brace-tracking
// line scanner the JavaScript variant uses. Traits surface as class symbols
// and enums as type symbols; PHPDoc blocks become docstrings and #[...]
// attributes fold into the declaration's start line like decorators.
type phpParser struct {
	docLimit int
}

// NewPHP creates the PHP parser variant
func NewPHP() Parser { return &phpParser{} }

func (p *phpParser) Language() string { return "php" }

func (p *phpParser) Extensions() []string { return []string{".php"} }

func (p *phpParser) setDocstringLimit(n int) { p.docLimit = n }

func (p *phpParser) Parse(src string) types.ParseResult {
	var res types.ParseResult
	total := LineCount(src)
	lines := splitLines(src)

	var roots []*jsNode
	var ctx []*jsCtx
	var pending *jsNode

	sc := &jsScrubber{hashComment: true, docLimit: p.docLimit}
	decStart := 0

	attach := func(n *jsNode) {
		for i := len(ctx) - 1; i >= 0; i-- {
			if ctx[i].node != nil && ctx[i].kind != ctxOther {
				ctx[i].node.children = append(ctx[i].node.children, n)
				return
			}
		}
		roots = append(roots, n)
	}

	inContainer := func() bool {
		return len(ctx) > 0 && ctx[len(ctx)-1].kind == ctxClass
	}

	for i := 0; i < len(lines); i++ {
		lineNo := i + 1
		code := sc.scrub(lines[i], lineNo)
		trimmed := strings.TrimSpace(code)
		trimmed = strings.TrimSpace(strings.TrimPrefix(trimmed, "<?php"))

		if pending == nil && trimmed != "" {
			if strings.HasPrefix(trimmed, "#[") {
				if decStart == 0 {
					decStart = lineNo
				}
			} else if node := p.matchDecl(trimmed, inContainer()); node != nil {
				node.sym.Lines = [2]int{declStart(decStart, lineNo), lineNo}
				node.sym.Signature = types.TruncateSignature(strings.TrimSuffix(strings.TrimSpace(scrubTrailingBrace(lines[i])), "{"))
				if d := sc.takeDoc(declStart(decStart, lineNo)); d != "" {
					node.sym.Docstring = d
				}
				attach(node)
				pending = node
				decStart = 0
			} else {
				decStart = 0
			}
		}

		for _, r := range code {
			switch r {
			case '{':
				c := &jsCtx{kind: ctxOther, line: lineNo}
				if pending != nil {
					c.node = pending
					c.kind = ctxBody
					switch pending.sym.Kind {
					case types.KindClass, types.KindInterface, types.KindType:
						// Class, interface, trait, and enum bodies all hold
						// methods.
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
					// Abstract or interface method signature without a body.
					pending.sym.Lines[1] = lineNo
					pending = nil
				}
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

func (p *phpParser) matchDecl(trimmed string, inContainer bool) *jsNode {
	if m := rePhpClass.FindStringSubmatch(trimmed); m != nil {
		return &jsNode{sym: types.Symbol{Name: m[1], Kind: types.KindClass}}
	}
	if m := rePhpInterface.FindStringSubmatch(trimmed); m != nil {
		return &jsNode{sym: types.Symbol{Name: m[1], Kind: types.KindInterface}}
	}
	if m := rePhpTrait.FindStringSubmatch(trimmed); m != nil {
		return &jsNode{sym: types.Symbol{Name: m[1], Kind: types.KindClass}}
	}
	if m := rePhpEnum.FindStringSubmatch(trimmed); m != nil {
		return &jsNode{sym: types.Symbol{Name: m[1], Kind: types.KindType}}
	}
	if m := rePhpFunc.FindStringSubmatch(trimmed); m != nil {
		kind := types.KindFunction
		if inContainer {
			kind = types.KindMethod
		}
		return &jsNode{sym: types.Symbol{Name: m[1], Kind: kind}}
	}
	return nil
}
