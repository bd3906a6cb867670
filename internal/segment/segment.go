// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package segment cleans extraction artifacts from reconstructed page text
// and splits it into ordered sentence units with character spans.
package segment

import (
	"strings"
	"sync"
	"unicode"

	"github.com/pdiddy/reqtrace/pkg/types"
)

// Span is one sentence-like region of a normalized text block, delimited by
// byte offsets.
type Span struct {
	Start int
	End   int
}

// Boundary splits normalized text into ordered, non-overlapping spans
// covering the input. Implementations must be safe for concurrent use; the
// engine treats the handle as read-only once constructed.
type Boundary interface {
	Split(text string) []Span
}

// abbreviations are lowercase tokens whose trailing period does not end a
// sentence.
var abbreviations = map[string]bool{
	"e.g": true, "i.e": true, "etc": true, "vs": true, "cf": true,
	"fig": true, "figs": true, "no": true, "nos": true, "ref": true,
	"sec": true, "para": true, "approx": true, "rev": true, "ver": true,
	"dr": true, "mr": true, "mrs": true, "ms": true, "st": true,
	"inc": true, "ltd": true, "co": true, "dept": true,
	"max": true, "min": true,
}

// ruleBoundary is the default sentence-boundary model: a rule set over
// terminal punctuation with abbreviation and initial guards. It holds only
// immutable tables and is safe for unlimited concurrent use.
type ruleBoundary struct{}

var (
	defaultOnce     sync.Once
	defaultBoundary Boundary
)

// Default returns the process-wide default Boundary. The model is built at
// most once, guarded against concurrent first-time callers, and read-only
// afterward.
func Default() Boundary {
	defaultOnce.Do(func() {
		defaultBoundary = &ruleBoundary{}
	})
	return defaultBoundary
}

// Split implements Boundary. Spans are contiguous: each starts where the
// previous ended, so together they cover the whole input.
func (rb *ruleBoundary) Split(text string) []Span {
	if text == "" {
		return nil
	}

	var spans []Span
	runes := []rune(text)
	// Byte offset of each rune, plus the terminating length.
	offsets := make([]int, len(runes)+1)
	pos := 0
	for i, r := range runes {
		offsets[i] = pos
		pos += len(string(r))
	}
	offsets[len(runes)] = pos

	start := 0
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		if r != '.' && r != '!' && r != '?' {
			continue
		}
		if r == '.' && !rb.periodEndsSentence(runes, i) {
			continue
		}

		// Include trailing closers (quotes, parens) in the span.
		end := i + 1
		for end < len(runes) && (runes[end] == ')' || runes[end] == '"' || runes[end] == '\'' || runes[end] == ']') {
			end++
		}
		if end < len(runes) && !unicode.IsSpace(runes[end]) {
			continue
		}

		spans = append(spans, Span{Start: offsets[start], End: offsets[end]})
		start = end
	}

	if offsets[start] < len(text) {
		spans = append(spans, Span{Start: offsets[start], End: len(text)})
	}

	return spans
}

// periodEndsSentence applies the abbreviation, initial, and decimal guards
// to a period at index i.
func (rb *ruleBoundary) periodEndsSentence(runes []rune, i int) bool {
	// Decimal point: digit on both sides.
	if i > 0 && i+1 < len(runes) && unicode.IsDigit(runes[i-1]) && unicode.IsDigit(runes[i+1]) {
		return false
	}

	// Word immediately before the period.
	j := i
	for j > 0 && !unicode.IsSpace(runes[j-1]) {
		j--
	}
	word := strings.ToLower(string(runes[j:i]))
	word = strings.TrimLeft(word, "(\"'[")

	if abbreviations[word] {
		return false
	}
	// Single-letter initial ("A. Smith").
	if len(word) == 1 && unicode.IsLetter(rune(word[0])) {
		return false
	}
	// Section numbering ("3.1.2" mid-sentence): bare digits before the dot
	// followed directly by a digit were caught above; digits followed by
	// space are genuine sentence ends.
	return true
}

// Sentences normalizes a page's reconstructed lines and splits them into
// Sentence records tagged with the page index and character span. Empty
// units are dropped.
func Sentences(lines []string, page int, b Boundary) []types.Sentence {
	if b == nil {
		b = Default()
	}

	text := Normalize(lines)
	if text == "" {
		return nil
	}

	var out []types.Sentence
	for _, span := range b.Split(text) {
		raw := text[span.Start:span.End]
		trimmed := strings.TrimSpace(raw)
		if trimmed == "" {
			continue
		}
		out = append(out, types.Sentence{
			Text:      trimmed,
			Page:      page,
			Start:     span.Start,
			End:       span.End,
			WordCount: len(strings.Fields(trimmed)),
		})
	}

	return out
}
