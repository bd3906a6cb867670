// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package engine runs the requirement extraction pipeline over one
// document: layout reconstruction, sentence segmentation, keyword
// matching, confidence scoring, and assembly. One call processes one
// document and carries no state between calls; independent documents may
// be extracted concurrently with independent Engine values or by sharing
// one, since an Engine is read-only after construction.
package engine

import (
	"errors"
	"fmt"
	"math"
	"sync"

	"github.com/pdiddy/reqtrace/internal/assemble"
	"github.com/pdiddy/reqtrace/internal/layout"
	"github.com/pdiddy/reqtrace/internal/match"
	"github.com/pdiddy/reqtrace/internal/score"
	"github.com/pdiddy/reqtrace/internal/segment"
	"github.com/pdiddy/reqtrace/pkg/types"
)

// Configuration contract violations. These fail fast, before any page is
// touched.
var (
	// ErrNoKeywords indicates the profile union contains no trigger terms.
	ErrNoKeywords = errors.New("keyword profile union is empty")

	// ErrThreshold indicates an admission threshold outside [0,1].
	ErrThreshold = errors.New("admission threshold outside [0,1]")
)

// ErrNoReadablePages indicates every page of a non-empty document was
// malformed. Partial failures are not errors; this fires only when nothing
// at all could be read.
var ErrNoReadablePages = errors.New("no readable pages in document")

// Engine is an immutable, reusable extraction pipeline. All pattern
// matchers and the sentence-boundary handle are constructed once and
// shared read-only across calls.
type Engine struct {
	cfg      types.EngineConfig
	boundary segment.Boundary
	recon    *layout.Reconstructor
	matcher  *match.Matcher
	scorer   *score.Scorer
}

// New validates the configuration and builds an Engine. A nil boundary
// selects the process-wide default sentence-boundary model (initialized at
// most once).
func New(cfg types.EngineConfig, boundary segment.Boundary) (*Engine, error) {
	m := match.NewMatcher(cfg.Profiles)
	if m.TermCount() == 0 {
		return nil, fmt.Errorf("validating config: %w", ErrNoKeywords)
	}
	if math.IsNaN(cfg.Threshold) || cfg.Threshold < 0 || cfg.Threshold > 1 {
		return nil, fmt.Errorf("validating config: threshold %v: %w", cfg.Threshold, ErrThreshold)
	}
	if cfg.MinWords <= 0 {
		cfg.MinWords = types.DefaultMinWords
	}
	if cfg.MaxWords <= 0 {
		cfg.MaxWords = types.DefaultMaxWords
	}
	if boundary == nil {
		boundary = segment.Default()
	}

	return &Engine{
		cfg:      cfg,
		boundary: boundary,
		recon:    layout.NewReconstructor(cfg.BucketSize),
		matcher:  m,
		scorer:   score.NewScorer(cfg.MinWords),
	}, nil
}

// Extract runs the pipeline over the document and returns the assembled
// result. Malformed pages are skipped with a note (partial-result
// semantics); an empty requirement list is a successful outcome, not an
// error. Output is deterministic for identical input regardless of the
// configured worker count.
func (e *Engine) Extract(doc types.Document) (*types.ExtractionResult, error) {
	result := &types.ExtractionResult{DocumentID: doc.ID}
	if len(doc.Pages) == 0 {
		return result, nil
	}

	perPage := make([][]types.Candidate, len(doc.Pages))
	pageErrs := make([]error, len(doc.Pages))

	if e.cfg.Workers > 1 {
		sem := make(chan struct{}, e.cfg.Workers)
		var wg sync.WaitGroup
		for i := range doc.Pages {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				sem <- struct{}{}
				defer func() { <-sem }()
				perPage[i], pageErrs[i] = e.processPage(doc.Pages[i])
			}(i)
		}
		wg.Wait()
	} else {
		for i := range doc.Pages {
			perPage[i], pageErrs[i] = e.processPage(doc.Pages[i])
		}
	}

	// Merge in document order; label assignment needs all pages.
	readable := 0
	var candidates []types.Candidate
	for i, page := range doc.Pages {
		if pageErrs[i] != nil {
			result.SkippedPages = append(result.SkippedPages, types.PageNote{
				Page:   page.Index,
				Reason: pageErrs[i].Error(),
			})
			continue
		}
		readable++
		candidates = append(candidates, perPage[i]...)
	}

	if readable == 0 {
		return nil, fmt.Errorf("document %s: %w", doc.ID, ErrNoReadablePages)
	}

	result.Requirements, result.Rejected = assemble.Assemble(candidates, e.cfg.Threshold, e.cfg.Diagnostics)
	return result, nil
}

// processPage runs the per-page stages: fragment validation, layout
// reconstruction, segmentation, matching, scoring. Errors here classify as
// page-level and never abort the document.
func (e *Engine) processPage(page types.Page) ([]types.Candidate, error) {
	for i, f := range page.Fragments {
		if !f.Valid() {
			return nil, fmt.Errorf("fragment %d: degenerate or non-finite bounding rectangle", i)
		}
	}

	lines := e.recon.Lines(page.Fragments)
	sentences := segment.Sentences(lines, page.Index, e.boundary)

	var candidates []types.Candidate
	for _, s := range sentences {
		c, ok := e.matcher.Candidate(s)
		if !ok {
			continue
		}
		c.Confidence = e.scorer.Score(c)
		candidates = append(candidates, c)
	}
	return candidates, nil
}
