package types

import (
	"strings"
	"unicode/utf8"
)

// TruncateSignature normalizes whitespace and caps the signature length
func TruncateSignature(sig string) string {
	sig = strings.Join(strings.Fields(sig), " ")
	if len(sig) <= MaxSignatureLen {
		return sig
	}
	return cutRuneSafe(sig, MaxSignatureLen-3) + "..."
}

// TruncateDocstring collapses a docstring to a single line and caps it at max
// bytes. A max of zero or less falls back to MaxDocstringLen.
func TruncateDocstring(doc string, max int) string {
	if max <= 0 {
		max = MaxDocstringLen
	}
	doc = strings.Join(strings.Fields(doc), " ")
	if len(doc) <= max {
		return doc
	}
	return cutRuneSafe(doc, max)
}

// cutRuneSafe cuts s to at most n bytes, backing up so the cut never lands
// inside a multi-byte rune.
func cutRuneSafe(s string, n int) string {
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}
