// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package docio reads decoded document files: YAML or JSON dumps of
// per-page positioned text fragments, produced by the document-decoding
// collaborator. The engine never touches the filesystem itself; this
// package is the CLI-side boundary.
package docio

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/reqtrace/pkg/types"
)

// Load reads a document file. The format follows the extension: .json is
// parsed as JSON, anything else as YAML. A missing document ID defaults to
// the file stem; pages missing explicit indices are numbered by position.
func Load(path string) (types.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return types.Document{}, fmt.Errorf("reading document %s: %w", path, err)
	}

	var doc types.Document
	if strings.EqualFold(filepath.Ext(path), ".json") {
		err = json.Unmarshal(data, &doc)
	} else {
		err = yaml.Unmarshal(data, &doc)
	}
	if err != nil {
		return types.Document{}, fmt.Errorf("parsing document %s: %w", path, err)
	}

	if doc.ID == "" {
		doc.ID = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	if !hasExplicitIndices(doc.Pages) {
		for i := range doc.Pages {
			doc.Pages[i].Index = i
		}
	}

	return doc, nil
}

// hasExplicitIndices reports whether any page carries a nonzero index,
// meaning the decoder assigned them.
func hasExplicitIndices(pages []types.Page) bool {
	for _, p := range pages {
		if p.Index != 0 {
			return true
		}
	}
	return false
}

// WriteResult marshals an extraction result to a YAML file.
func WriteResult(path string, result *types.ExtractionResult) error {
	data, err := yaml.Marshal(result)
	if err != nil {
		return fmt.Errorf("marshaling result: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// ReadResult loads an extraction result from a YAML file.
func ReadResult(path string) (*types.ExtractionResult, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading result %s: %w", path, err)
	}
	var result types.ExtractionResult
	if err := yaml.Unmarshal(data, &result); err != nil {
		return nil, fmt.Errorf("parsing result %s: %w", path, err)
	}
	return &result, nil
}
