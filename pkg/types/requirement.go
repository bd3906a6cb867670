// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// Sentence is one sentence-like unit produced by segmenting a page's
// reconstructed text. Sentences are transient: they exist only within one
// extraction run.
type Sentence struct {
	// Text is the normalized sentence text.
	Text string `json:"text" yaml:"text"`

	// Page is the zero-based index of the originating page.
	Page int `json:"page" yaml:"page"`

	// Start and End delimit the sentence's character span within the
	// page's normalized text.
	Start int `json:"start" yaml:"start"`
	End   int `json:"end" yaml:"end"`

	// WordCount is the number of whitespace-separated tokens in Text.
	WordCount int `json:"word_count" yaml:"word_count"`
}

// Candidate is a sentence that matched at least one keyword term, pending
// scoring. Intermediate between matching and assembly; never part of the
// engine's output.
type Candidate struct {
	Sentence

	// Keywords lists the individual matched terms, sorted.
	Keywords []string `json:"keywords" yaml:"keywords"`

	// Confidence is filled by the scorer, in [0,1].
	Confidence float64 `json:"confidence" yaml:"confidence"`
}

// Requirement is the engine's output unit: a labeled, scored candidate.
type Requirement struct {
	// Label is the sequential label number, unique and strictly increasing
	// across the document, assigned once at assembly time. Rejected
	// candidates surfaced in diagnostics carry label 0.
	Label int `json:"label" yaml:"label"`

	// Page is the zero-based index of the originating page.
	Page int `json:"page" yaml:"page"`

	// Text is the requirement sentence text.
	Text string `json:"text" yaml:"text"`

	// Confidence is the final clamped confidence in [0.0, 1.0].
	Confidence float64 `json:"confidence" yaml:"confidence"`

	// Keywords lists the matched trigger terms, sorted.
	Keywords []string `json:"keywords" yaml:"keywords"`

	// WordCount is the sentence's token count.
	WordCount int `json:"word_count" yaml:"word_count"`
}

// PageNote records a page that was skipped during extraction, with the
// reason. The document-level call still succeeds (partial-result semantics).
type PageNote struct {
	// Page is the zero-based index of the skipped page.
	Page int `json:"page" yaml:"page"`

	// Reason describes why the page was skipped.
	Reason string `json:"reason" yaml:"reason"`
}

// ExtractionResult is the output of one engine run over one document.
type ExtractionResult struct {
	// DocumentID matches the input Document.ID.
	DocumentID string `json:"document_id" yaml:"document_id"`

	// Requirements is the admitted, labeled output list in document order.
	Requirements []Requirement `json:"requirements" yaml:"requirements"`

	// Rejected holds scored candidates that fell below the admission
	// threshold. Populated only when diagnostics are requested.
	Rejected []Requirement `json:"rejected,omitempty" yaml:"rejected,omitempty"`

	// SkippedPages lists pages dropped due to malformed fragments.
	SkippedPages []PageNote `json:"skipped_pages,omitempty" yaml:"skipped_pages,omitempty"`
}
