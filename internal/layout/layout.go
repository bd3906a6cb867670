// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package layout orders a page's unordered positioned text fragments into
// natural left-to-right, top-to-bottom reading order, including across
// multi-column layouts returned interleaved by the decoder.
package layout

import (
	"math"
	"sort"
	"strings"

	"github.com/pdiddy/reqtrace/pkg/types"
)

// Reconstructor groups fragments onto visual lines by quantizing their top
// edges into coarse vertical buckets, tolerating small rendering jitter.
type Reconstructor struct {
	bucketSize float64
}

// NewReconstructor returns a Reconstructor with the given vertical bucket
// width. Non-positive values fall back to the default.
func NewReconstructor(bucketSize float64) *Reconstructor {
	if bucketSize <= 0 {
		bucketSize = types.DefaultBucketSize
	}
	return &Reconstructor{bucketSize: bucketSize}
}

// Lines returns the page's fragments joined into ordered line strings.
// Fragments with empty or whitespace-only text are dropped. The sort is
// stable, so exact position ties keep the decoder's emission order and the
// result is deterministic.
func (r *Reconstructor) Lines(fragments []types.TextFragment) []string {
	kept := make([]types.TextFragment, 0, len(fragments))
	for _, f := range fragments {
		if strings.TrimSpace(f.Text) == "" {
			continue
		}
		kept = append(kept, f)
	}
	if len(kept) == 0 {
		return nil
	}

	buckets := make([]int, len(kept))
	for i, f := range kept {
		buckets[i] = r.bucket(f.Y0)
	}

	order := make([]int, len(kept))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		i, j := order[a], order[b]
		if buckets[i] != buckets[j] {
			return buckets[i] < buckets[j]
		}
		return kept[i].X0 < kept[j].X0
	})

	var (
		lines      []string
		current    strings.Builder
		currentRow = buckets[order[0]]
	)
	for _, i := range order {
		if buckets[i] != currentRow {
			lines = append(lines, current.String())
			current.Reset()
			currentRow = buckets[i]
		}
		if current.Len() > 0 {
			current.WriteByte(' ')
		}
		current.WriteString(strings.TrimSpace(kept[i].Text))
	}
	lines = append(lines, current.String())

	return lines
}

// bucket quantizes a top-edge coordinate to its vertical bucket index.
func (r *Reconstructor) bucket(y float64) int {
	return int(math.Floor(y / r.bucketSize))
}
