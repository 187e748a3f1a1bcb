package lang

import (
	"regexp"
	"strings"

	"github.com/dshills/codemap/pkg/types"
)

var (
	rePyClass = regexp.MustCompile(`^class\s+([A-Za-z_]\w*)\s*[(:]`)
	rePyDef   = regexp.MustCompile(`^(async\s+)?def\s+([A-Za-z_]\w*)\s*\(`)
)

// pythonParser extracts symbols from Python source by scanning indentation
// blocks. Heuristic by design: it handles the declaration grammar, decorator
// folding, and triple-quoted strings, not the full language.
type pythonParser struct {
	docLimit int
}

// NewPython creates the Python parser variant
func NewPython() Parser { return &pythonParser{} }

func (p *pythonParser) Language() string { return "python" }

func (p *pythonParser) Extensions() []string { return []string{".py", ".pyi"} }

func (p *pythonParser) setDocstringLimit(n int) { p.docLimit = n }

// pyNode is an open construct on the scanner's block stack
type pyNode struct {
	sym      types.Symbol
	indent   int
	isClass  bool
	children []*pyNode
}

func (p *pythonParser) Parse(src string) types.ParseResult {
	var res types.ParseResult
	total := LineCount(src)
	lines := splitLines(src)

	var roots []*pyNode
	var stack []*pyNode

	decStart := 0     // first decorator line of a pending decorator run
	decDepth := 0     // open parens inside a multi-line decorator
	lastContent := 0  // last non-blank code line seen
	stringDelim := "" // open triple-quote delimiter, if any

	closeTo := func(indent, endLine int) {
		for len(stack) > 0 && stack[len(stack)-1].indent >= indent {
			node := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			if endLine < node.sym.Lines[0] {
				endLine = node.sym.Lines[0]
			}
			node.sym.Lines[1] = endLine
		}
	}

	for i := 0; i < len(lines); i++ {
		lineNo := i + 1
		trimmed := strings.TrimSpace(lines[i])

		// Triple-quoted string bodies are opaque: nothing inside one is a
		// declaration, however much it looks like code.
		if stringDelim != "" {
			stringDelim = scanTriple(trimmed, stringDelim)
			lastContent = lineNo
			continue
		}

		if trimmed == "" {
			continue
		}
		if strings.HasPrefix(trimmed, "#") {
			continue
		}

		indent := indentWidth(lines[i])

		if decDepth > 0 {
			decDepth += strings.Count(trimmed, "(") - strings.Count(trimmed, ")")
			lastContent = lineNo
			continue
		}

		if strings.HasPrefix(trimmed, "@") {
			closeTo(indent, lastContent)
			if decStart == 0 {
				decStart = lineNo
			}
			decDepth = strings.Count(trimmed, "(") - strings.Count(trimmed, ")")
			if decDepth < 0 {
				decDepth = 0
			}
			lastContent = lineNo
			continue
		}

		if cm := rePyClass.FindStringSubmatch(trimmed); cm != nil {
			closeTo(indent, lastContent)
			i = p.openNode(&stack, &roots, lines, i, indent, pyNode{
				sym: types.Symbol{
					Name:  cm[1],
					Kind:  types.KindClass,
					Lines: [2]int{declStart(decStart, lineNo), lineNo},
				},
				indent:  indent,
				isClass: true,
			})
			decStart = 0
			lastContent = i + 1
			continue
		}

		if dm := rePyDef.FindStringSubmatch(trimmed); dm != nil {
			closeTo(indent, lastContent)
			async := dm[1] != ""
			kind := types.KindFunction
			if len(stack) > 0 && stack[len(stack)-1].isClass {
				kind = types.KindMethod
				if async {
					kind = types.KindAsyncMethod
				}
			} else if async {
				kind = types.KindAsyncFunction
			}
			i = p.openNode(&stack, &roots, lines, i, indent, pyNode{
				sym: types.Symbol{
					Name:  dm[2],
					Kind:  kind,
					Lines: [2]int{declStart(decStart, lineNo), lineNo},
				},
				indent: indent,
			})
			decStart = 0
			lastContent = i + 1
			continue
		}

		// A def/class keyword that does not form a declaration is a construct
		// the parser cannot handle.
		if isBrokenPyDecl(trimmed) {
			res.AddDiagnostic("", lineNo, types.DiagParseError, "malformed definition: "+trimmed)
			decStart = 0
			lastContent = lineNo
			continue
		}

		closeTo(indent, lastContent)
		decStart = 0
		stringDelim = scanTriple(trimmed, "")
		lastContent = lineNo
	}

	closeTo(0, total)
	res.Symbols = materializePy(roots)
	return res
}

// openNode pushes a construct, consuming its multi-line signature and
// capturing the docstring. Returns the index of the last consumed line.
func (p *pythonParser) openNode(stack *[]*pyNode, roots *[]*pyNode, lines []string, i, indent int, node pyNode) int {
	sigEnd, sig := collectPySignature(lines, i)
	node.sym.Signature = types.TruncateSignature(sig)
	node.sym.Docstring = extractPyDocstring(lines, sigEnd+1, p.docLimit)

	n := &node
	if len(*stack) > 0 {
		top := (*stack)[len(*stack)-1]
		top.children = append(top.children, n)
	} else {
		*roots = append(*roots, n)
	}
	*stack = append(*stack, n)
	return sigEnd
}

func declStart(decStart, lineNo int) int {
	if decStart > 0 {
		return decStart
	}
	return lineNo
}

// collectPySignature joins the declaration line with any continuation lines
// until the parameter list closes. Returns the last signature line index.
func collectPySignature(lines []string, i int) (int, string) {
	depth := 0
	var parts []string
	for j := i; j < len(lines) && j < i+12; j++ {
		trimmed := strings.TrimSpace(lines[j])
		parts = append(parts, trimmed)
		depth += strings.Count(trimmed, "(") - strings.Count(trimmed, ")")
		if depth <= 0 {
			return j, strings.Join(parts, " ")
		}
	}
	return i, strings.TrimSpace(lines[i])
}

// extractPyDocstring reads the body's leading string literal, if present
func extractPyDocstring(lines []string, from, limit int) string {
	for j := from; j < len(lines); j++ {
		trimmed := strings.TrimSpace(lines[j])
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}
		delim := docstringDelim(trimmed)
		if delim == "" {
			return ""
		}
		body := trimmed[strings.Index(trimmed, delim)+3:]
		if idx := strings.Index(body, delim); idx >= 0 {
			return types.TruncateDocstring(body[:idx], limit)
		}
		parts := []string{body}
		for k := j + 1; k < len(lines); k++ {
			t := strings.TrimSpace(lines[k])
			if idx := strings.Index(t, delim); idx >= 0 {
				parts = append(parts, t[:idx])
				return types.TruncateDocstring(strings.Join(parts, " "), limit)
			}
			parts = append(parts, t)
		}
		return types.TruncateDocstring(strings.Join(parts, " "), limit)
	}
	return ""
}

// docstringDelim returns the triple-quote delimiter opening trimmed, or ""
func docstringDelim(trimmed string) string {
	lead := strings.TrimLeft(trimmed, "rRbBuUfF")
	if strings.HasPrefix(lead, `"""`) {
		return `"""`
	}
	if strings.HasPrefix(lead, "'''") {
		return "'''"
	}
	return ""
}

// scanTriple advances the triple-quote state machine across one line.
// delim is the currently open delimiter ("" when outside a string); the
// return value is the state after the line.
func scanTriple(trimmed, delim string) string {
	rest := trimmed
	for {
		if delim == "" {
			dq := strings.Index(rest, `"""`)
			sq := strings.Index(rest, "'''")
			switch {
			case dq < 0 && sq < 0:
				return ""
			case sq < 0 || (dq >= 0 && dq < sq):
				delim = `"""`
				rest = rest[dq+3:]
			default:
				delim = "'''"
				rest = rest[sq+3:]
			}
		} else {
			idx := strings.Index(rest, delim)
			if idx < 0 {
				return delim
			}
			rest = rest[idx+3:]
			delim = ""
		}
	}
}

func isBrokenPyDecl(trimmed string) bool {
	for _, kw := range []string{"def ", "def(", "async def ", "class ", "class("} {
		if strings.HasPrefix(trimmed, kw) {
			return true
		}
	}
	return trimmed == "def" || trimmed == "class" || trimmed == "async def"
}

// indentWidth measures leading whitespace; tabs count as eight columns to
// mirror the tokenizer's default
func indentWidth(line string) int {
	w := 0
	for _, r := range line {
		switch r {
		case ' ':
			w++
		case '\t':
			w += 8 - w%8
		default:
			return w
		}
	}
	return w
}

// splitLines splits src into exactly LineCount(src) lines
func splitLines(src string) []string {
	if src == "" {
		return nil
	}
	lines := strings.Split(src, "\n")
	if len(lines) > 0 && lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

func materializePy(nodes []*pyNode) []types.Symbol {
	if len(nodes) == 0 {
		return nil
	}
	out := make([]types.Symbol, 0, len(nodes))
	for _, n := range nodes {
		sym := n.sym
		sym.Children = materializePy(n.children)
		out = append(out, sym)
	}
	return out
}
