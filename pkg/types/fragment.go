// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "math"

// TextFragment is one positioned unit of text as extracted from a page by
// the document decoder. Coordinates follow the decoder's convention of Y
// increasing downward, so Y0 is the fragment's top edge. Fragments are
// immutable once decoded.
type TextFragment struct {
	// X0, Y0 are the left and top edges of the bounding rectangle.
	X0 float64 `json:"x0" yaml:"x0"`
	Y0 float64 `json:"y0" yaml:"y0"`

	// X1, Y1 are the right and bottom edges of the bounding rectangle.
	X1 float64 `json:"x1" yaml:"x1"`
	Y1 float64 `json:"y1" yaml:"y1"`

	// Text is the raw extracted text for this fragment.
	Text string `json:"text" yaml:"text"`
}

// Valid reports whether the fragment's bounding rectangle is well formed:
// finite coordinates with non-negative width and height.
func (f TextFragment) Valid() bool {
	for _, v := range []float64{f.X0, f.Y0, f.X1, f.Y1} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return f.X1 >= f.X0 && f.Y1 >= f.Y0
}

// Page holds one page's unordered fragment collection. Pages are ordered by
// Index within a Document; the fragment order carries no meaning beyond
// breaking exact position ties during reconstruction.
type Page struct {
	// Index is the zero-based page position within the document.
	Index int `json:"index" yaml:"index"`

	// Fragments is the unordered set of positioned text fragments.
	Fragments []TextFragment `json:"fragments" yaml:"fragments"`
}

// Document is the input contract from the document-decoding collaborator:
// an identifier plus an ordered sequence of pages.
type Document struct {
	// ID identifies the document (typically the source file stem).
	ID string `json:"id" yaml:"id"`

	// Pages is the ordered page sequence.
	Pages []Page `json:"pages" yaml:"pages"`
}
