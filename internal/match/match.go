// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package match flags sentences containing configured trigger terms.
// Matching is case-insensitive and whole-token: "shall" never matches
// inside "shallow" or "marshall". Multi-word terms match as whole-token
// phrases.
package match

import (
	"sort"
	"strings"
	"unicode"

	"github.com/pdiddy/reqtrace/pkg/types"
)

// Matcher holds the unioned, tokenized trigger terms of one or more
// keyword profiles. Immutable after construction.
type Matcher struct {
	// terms maps the canonical term string to its token sequence.
	terms map[string][]string
}

// NewMatcher unions the profiles' terms into one matcher. Terms are
// lowercased and deduplicated; empty terms are ignored. Individual terms
// stay distinguishable in match results regardless of profile origin.
func NewMatcher(profiles []types.KeywordProfile) *Matcher {
	terms := make(map[string][]string)
	for _, p := range profiles {
		for _, raw := range p.Terms {
			term := strings.ToLower(strings.TrimSpace(raw))
			if term == "" {
				continue
			}
			if _, ok := terms[term]; ok {
				continue
			}
			terms[term] = tokenize(term)
		}
	}
	return &Matcher{terms: terms}
}

// TermCount returns the number of distinct trigger terms.
func (m *Matcher) TermCount() int {
	return len(m.terms)
}

// Match returns the sorted subset of trigger terms present in the sentence
// as whole tokens, or nil when nothing matches.
func (m *Matcher) Match(sentence string) []string {
	tokens := tokenize(strings.ToLower(sentence))
	if len(tokens) == 0 {
		return nil
	}

	var matched []string
	for term, termTokens := range m.terms {
		if containsSequence(tokens, termTokens) {
			matched = append(matched, term)
		}
	}
	sort.Strings(matched)
	return matched
}

// Candidate wraps a sentence into a Candidate when at least one term
// matches. Sentences with zero matches return false and are never scored.
func (m *Matcher) Candidate(s types.Sentence) (types.Candidate, bool) {
	keywords := m.Match(s.Text)
	if len(keywords) == 0 {
		return types.Candidate{}, false
	}
	return types.Candidate{Sentence: s, Keywords: keywords}, true
}

// tokenize splits text on any rune that is not a letter, digit, or hyphen.
// Hyphens stay inside tokens so "fail-safe" remains one token.
func tokenize(text string) []string {
	return strings.FieldsFunc(text, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '-'
	})
}

// containsSequence reports whether needle occurs as a contiguous token
// subsequence of haystack.
func containsSequence(haystack, needle []string) bool {
	if len(needle) == 0 || len(needle) > len(haystack) {
		return false
	}
	for i := 0; i+len(needle) <= len(haystack); i++ {
		found := true
		for j, tok := range needle {
			if haystack[i+j] != tok {
				found = false
				break
			}
		}
		if found {
			return true
		}
	}
	return false
}
