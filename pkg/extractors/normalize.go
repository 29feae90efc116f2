package extractors

import (
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// glyphReplacer folds ligatures and typographic punctuation to plain ASCII
var glyphReplacer = strings.NewReplacer(
	"ﬀ", "ff",
	"ﬁ", "fi",
	"ﬂ", "fl",
	"ﬃ", "ffi",
	"ﬄ", "ffl",
	"ﬆ", "st",
	"\u0084", "",
	"é", "e",
	"’", "'",
	"‐", "-",
	"‑", "-",
	"‒", "-",
	"–", "-",
	"—", "-",
	"‘", "'",
	"‛", "'",
	"“", `"`,
	"”", `"`,
	"„", `"`,
	"‟", `"`,
	"…", "...",
	"′", "'",
	"″", "'",
	"‴", "'",
	"‵", "'",
	"‶", "'",
	"‷", "'",
	"⁺", "+",
	"⁻", "-",
	"⁼", "=",
	"⁽", "(",
	"⁾", ")",
)

// NormalizeGlyphs composes s (NFC) and folds ligatures and typographic punctuation
func NormalizeGlyphs(s string) string {
	if s == "" {
		return s
	}
	return glyphReplacer.Replace(norm.NFC.String(s))
}

var (
	multiSpace    = regexp.MustCompile(`\s{2,}`)
	spacedNewline = regexp.MustCompile(`\s*\n`)
)

// normalizeColumnText flattens a text block onto one line
func normalizeColumnText(s string) string {
	s = multiSpace.ReplaceAllString(s, " ")
	return spacedNewline.ReplaceAllString(s, " ")
}
