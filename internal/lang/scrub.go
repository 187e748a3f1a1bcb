package lang

import (
	"strings"

	"github.com/dshills/codemap/pkg/types"
)

// jsScrubber removes comments and string literals from JavaScript/TypeScript
// lines so structural scanning only ever sees code. Block comment and
// template literal state carries across lines. JSDoc blocks are captured so
// a following declaration can adopt them as its docstring. The PHP variant
// reuses it with hashComment set, which treats # as a line comment unless it
// opens a #[...] attribute.
type jsScrubber struct {
	inBlock     bool
	blockLine   int
	isDoc       bool
	docParts    []string
	docText     string
	docEnd      int // line on which the last doc block closed
	inTemplate  bool
	hashComment bool
	docLimit    int
}

// scrub returns the code-only view of one line
func (s *jsScrubber) scrub(line string, lineNo int) string {
	var out strings.Builder
	i, n := 0, len(line)

	for i < n {
		if s.inBlock {
			idx := strings.Index(line[i:], "*/")
			if idx < 0 {
				if s.isDoc {
					s.docParts = append(s.docParts, line[i:])
				}
				return out.String()
			}
			if s.isDoc {
				s.docParts = append(s.docParts, line[i:i+idx])
				s.docText = cleanJsDoc(s.docParts)
				s.docEnd = lineNo
				s.docParts = nil
			}
			s.inBlock = false
			i += idx + 2
			continue
		}

		if s.inTemplate {
			end := -1
			for j := i; j < n; j++ {
				if line[j] == '\\' {
					j++
					continue
				}
				if line[j] == '`' {
					end = j
					break
				}
			}
			if end < 0 {
				return out.String()
			}
			s.inTemplate = false
			out.WriteByte(' ')
			i = end + 1
			continue
		}

		c := line[i]
		switch c {
		case '/':
			if i+1 < n && line[i+1] == '/' {
				return out.String()
			}
			if i+1 < n && line[i+1] == '*' {
				s.inBlock = true
				s.blockLine = lineNo
				s.isDoc = i+2 < n && line[i+2] == '*'
				s.docParts = nil
				i += 2
				continue
			}
			out.WriteByte(c)
			i++
		case '\'', '"':
			quote := c
			i++
			for i < n {
				if line[i] == '\\' {
					i += 2
					continue
				}
				if line[i] == quote {
					i++
					break
				}
				i++
			}
			out.WriteByte(' ')
		case '`':
			s.inTemplate = true
			i++
		case '#':
			if s.hashComment && !(i+1 < n && line[i+1] == '[') {
				return out.String()
			}
			out.WriteByte(c)
			i++
		default:
			out.WriteByte(c)
			i++
		}
	}
	return out.String()
}

// takeDoc hands the captured doc block to a declaration starting at
// startLine; only a block ending on the immediately preceding line counts
func (s *jsScrubber) takeDoc(startLine int) string {
	if s.docText != "" && s.docEnd == startLine-1 {
		d := s.docText
		s.docText = ""
		return types.TruncateDocstring(d, s.docLimit)
	}
	return ""
}

// cleanJsDoc strips comment decoration and JSDoc tags from a doc block
func cleanJsDoc(parts []string) string {
	var words []string
	for _, part := range parts {
		t := strings.TrimSpace(part)
		t = strings.TrimLeft(t, "*")
		t = strings.TrimSpace(t)
		if t == "" || strings.HasPrefix(t, "@") {
			continue
		}
		words = append(words, t)
	}
	return strings.Join(words, " ")
}
