// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package score computes a bounded, deterministic confidence for each
// keyword-matched candidate sentence. Scoring starts from a fixed base and
// applies an ordered sequence of named rules over an accumulator; later
// rules act on the already-adjusted value, so the rule order is part of the
// output contract and must not be reordered without versioning.
package score

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/pdiddy/reqtrace/pkg/types"
)

// Scoring constants. These are a compatibility contract: changing any of
// them changes every emitted confidence, so tuning requires a new version.
const (
	baseConfidence = 0.5

	veryShortFactor = 0.3
	shortFactor     = 0.7
	tooLongFactor   = 0.5

	twoKeywordFactor   = 1.2
	multiKeywordFactor = 1.3

	imperativeFactor = 1.2
	complianceFactor = 1.1
	capabilityFactor = 1.1
	secondaryFactor  = 1.15

	headerCapsFactor      = 0.4
	headerNumberingFactor = 0.5
	numberHeavyFactor     = 0.6

	// Word-count band edges. The very-short cutoff below is configurable;
	// these three are fixed.
	shortBandMax   = 8
	optimalMax     = 50
	longMax        = 80
	headerMaxWords = 6

	// numericRatioMax is the highest tolerated share of numeric tokens.
	numericRatioMax = 0.5
)

// Scorer evaluates the rule sequence. All pattern matchers are compiled
// once at construction and reused across every sentence, so one Scorer
// serves thousands of candidates without recompilation. A Scorer is
// immutable after construction and safe for concurrent use.
type Scorer struct {
	minWords int
	rules    []rule

	imperative *regexp.Regexp
	secondary  *regexp.Regexp
	compliance *regexp.Regexp
	capability *regexp.Regexp
	numbering  *regexp.Regexp
}

// rule is one named adjustment in the ordered sequence.
type rule struct {
	name  string
	apply func(s *Scorer, c types.Candidate, acc float64) float64
}

// NewScorer returns a Scorer using minWords as the very-short cutoff.
// Non-positive values fall back to the default minimum.
func NewScorer(minWords int) *Scorer {
	if minWords <= 0 {
		minWords = types.DefaultMinWords
	}
	s := &Scorer{
		minWords: minWords,

		imperative: regexp.MustCompile(`(?i)^(the|this|that|a|an|each|every|all|any)\s+.{0,80}?\b(shall|must|should|will)\b`),
		secondary: regexp.MustCompile(`(?i)\b((is|are)\s+(required|expected)\s+to|it\s+is\s+(required|necessary|essential)\s+that|(is|are)\s+responsible\s+for|at\s+a\s+minimum)\b`),
		compliance: regexp.MustCompile(`(?i)\b(comply|complies|complied|compliance|compliant|conform|conforms|conformance|in\s+accordance\s+with|adhere|adheres|adherence)\b`),
		capability: regexp.MustCompile(`(?i)\b(capable\s+of|able\s+to|capability\s+to|ability\s+to)\b`),
		numbering:  regexp.MustCompile(`^\d+(\.\d+)*\.?$`),
	}
	s.rules = []rule{
		{"length-band", (*Scorer).lengthBand},
		{"keyword-count", (*Scorer).keywordCount},
		{"imperative-pattern", (*Scorer).imperativePattern},
		{"compliance-term", (*Scorer).complianceTerm},
		{"capability-term", (*Scorer).capabilityTerm},
		{"secondary-pattern", (*Scorer).secondaryPattern},
		{"header-heuristic", (*Scorer).headerHeuristic},
		{"number-heavy", (*Scorer).numberHeavy},
		{"clamp", (*Scorer).clamp},
	}
	return s
}

// RuleNames returns the rule sequence in application order.
func (s *Scorer) RuleNames() []string {
	names := make([]string, len(s.rules))
	for i, r := range s.rules {
		names[i] = r.name
	}
	return names
}

// Score computes the candidate's confidence in [0,1]. It is deterministic:
// the same sentence, word count, and matched terms always produce the same
// value.
func (s *Scorer) Score(c types.Candidate) float64 {
	acc := baseConfidence
	for _, r := range s.rules {
		acc = r.apply(s, c, acc)
	}
	return acc
}

// lengthBand applies exactly one word-count band adjustment: very short
// sentences are heavily penalized, short ones mildly, the optimal and
// long-but-acceptable bands pass through, and over-long ones are halved.
func (s *Scorer) lengthBand(c types.Candidate, acc float64) float64 {
	switch {
	case c.WordCount < s.minWords:
		return acc * veryShortFactor
	case c.WordCount < shortBandMax:
		return acc * shortFactor
	case c.WordCount <= longMax:
		return acc
	default:
		return acc * tooLongFactor
	}
}

// keywordCount boosts sentences matching several trigger terms. Three or
// more terms supersede the two-term boost.
func (s *Scorer) keywordCount(c types.Candidate, acc float64) float64 {
	switch {
	case len(c.Keywords) >= 3:
		return acc * multiKeywordFactor
	case len(c.Keywords) == 2:
		return acc * twoKeywordFactor
	default:
		return acc
	}
}

// imperativePattern boosts the canonical requirement shape: a leading
// determiner, a noun phrase, then a modal verb.
func (s *Scorer) imperativePattern(c types.Candidate, acc float64) float64 {
	if s.imperative.MatchString(c.Text) {
		return acc * imperativeFactor
	}
	return acc
}

func (s *Scorer) complianceTerm(c types.Candidate, acc float64) float64 {
	if s.compliance.MatchString(c.Text) {
		return acc * complianceFactor
	}
	return acc
}

func (s *Scorer) capabilityTerm(c types.Candidate, acc float64) float64 {
	if s.capability.MatchString(c.Text) {
		return acc * capabilityFactor
	}
	return acc
}

// secondaryPattern boosts non-modal requirement phrasings such as
// "is required to" or "it is essential that".
func (s *Scorer) secondaryPattern(c types.Candidate, acc float64) float64 {
	if s.secondary.MatchString(c.Text) {
		return acc * secondaryFactor
	}
	return acc
}

// headerHeuristic penalizes text that looks like a document header rather
// than a requirement sentence: short all-caps runs, or bare section
// numbering.
func (s *Scorer) headerHeuristic(c types.Candidate, acc float64) float64 {
	switch s.headerKind(c) {
	case headerCaps:
		return acc * headerCapsFactor
	case headerNumbering:
		return acc * headerNumberingFactor
	default:
		return acc
	}
}

// numberHeavy penalizes sentences dominated by numeric tokens (tables,
// figure data). Mutually exclusive with the header heuristic: whichever
// header sub-case matched already accounts for the penalty.
func (s *Scorer) numberHeavy(c types.Candidate, acc float64) float64 {
	if s.headerKind(c) != headerNone {
		return acc
	}
	tokens := strings.Fields(c.Text)
	if len(tokens) == 0 {
		return acc
	}
	numeric := 0
	for _, tok := range tokens {
		r := rune(tok[0])
		if r >= '0' && r <= '9' {
			numeric++
		}
	}
	if float64(numeric)/float64(len(tokens)) > numericRatioMax {
		return acc * numberHeavyFactor
	}
	return acc
}

// clamp bounds the final confidence to [0,1].
func (s *Scorer) clamp(_ types.Candidate, acc float64) float64 {
	if acc < 0 {
		return 0
	}
	if acc > 1 {
		return 1
	}
	return acc
}

type headerClass int

const (
	headerNone headerClass = iota
	headerCaps
	headerNumbering
)

// headerKind classifies the header sub-case, if any.
func (s *Scorer) headerKind(c types.Candidate) headerClass {
	trimmed := strings.TrimSpace(c.Text)
	if trimmed == "" {
		return headerNone
	}
	if s.numbering.MatchString(trimmed) {
		return headerNumbering
	}
	// Leading section number on a short heading ("3.1.2 SCOPE").
	if c.WordCount <= headerMaxWords {
		fields := strings.Fields(trimmed)
		if len(fields) > 1 && s.numbering.MatchString(fields[0]) {
			return headerNumbering
		}
		if isAllCaps(trimmed) {
			return headerCaps
		}
	}
	return headerNone
}

// isAllCaps reports whether the text contains letters and none of them are
// lowercase.
func isAllCaps(text string) bool {
	hasLetter := false
	for _, r := range text {
		if unicode.IsLower(r) {
			return false
		}
		if unicode.IsLetter(r) {
			hasLetter = true
		}
	}
	return hasLetter
}
