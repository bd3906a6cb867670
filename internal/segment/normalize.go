// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package segment

import (
	"regexp"
	"strings"
	"unicode"
)

// ligatures maps typographic ligature glyphs left behind by extraction to
// their plain-letter expansions.
var ligatures = strings.NewReplacer(
	"ﬀ", "ff",
	"ﬁ", "fi",
	"ﬂ", "fl",
	"ﬃ", "ffi",
	"ﬄ", "ffl",
	"ﬅ", "st",
	"ﬆ", "st",
)

// hyphenBreak matches a word split across a line break with a trailing
// hyphen ("require-\nment").
var hyphenBreak = regexp.MustCompile(`(\pL)-\n(\pL)`)

// multiSpace collapses runs of whitespace.
var multiSpace = regexp.MustCompile(`\s+`)

// Normalize joins a page's reconstructed lines into one cleaned text block:
// hyphenated line-break splits are collapsed, ligature glyphs expanded,
// stray control characters removed, and whitespace runs reduced to single
// spaces.
func Normalize(lines []string) string {
	text := strings.Join(lines, "\n")
	text = ligatures.Replace(text)
	text = hyphenBreak.ReplaceAllString(text, "$1$2")

	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		if unicode.IsControl(r) && r != '\n' && r != '\t' {
			continue
		}
		b.WriteRune(r)
	}

	return strings.TrimSpace(multiSpace.ReplaceAllString(b.String(), " "))
}
