// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package assemble turns scored candidates into the final ordered
// requirement list: per-page deduplication, admission filtering, and label
// assignment. It is a pure transform with no I/O; it retains nothing after
// returning.
package assemble

import (
	"strings"

	"github.com/pdiddy/reqtrace/pkg/types"
)

// Assemble processes scored candidates in document order. Duplicate
// normalized text on the same page collapses to the first occurrence.
// Candidates at or above the threshold become Requirements with sequential
// labels starting at 1 (strictly increasing, no gaps). When diagnostics is
// set, below-threshold candidates are returned as rejected records with
// label 0.
func Assemble(candidates []types.Candidate, threshold float64, diagnostics bool) (requirements, rejected []types.Requirement) {
	type pageKey struct {
		page int
		text string
	}
	seen := make(map[pageKey]bool, len(candidates))

	label := 0
	for _, c := range candidates {
		key := pageKey{page: c.Page, text: normalize(c.Text)}
		if seen[key] {
			continue
		}
		seen[key] = true

		r := types.Requirement{
			Page:       c.Page,
			Text:       c.Text,
			Confidence: c.Confidence,
			Keywords:   c.Keywords,
			WordCount:  c.WordCount,
		}

		if c.Confidence >= threshold {
			label++
			r.Label = label
			requirements = append(requirements, r)
		} else if diagnostics {
			rejected = append(rejected, r)
		}
	}

	return requirements, rejected
}

// normalize produces the dedup key: lowercased text with whitespace runs
// collapsed and outer punctuation noise trimmed.
func normalize(text string) string {
	lower := strings.ToLower(strings.TrimSpace(text))
	return strings.Join(strings.Fields(lower), " ")
}
