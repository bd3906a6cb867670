// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"go.yaml.in/yaml/v3"
)

// ExportYAML writes all matching requirements to storeDir/index/<name>.yaml
// and returns the file path and entry count.
func (s *Store) ExportYAML(ctx context.Context, opts QueryOptions, name string) (string, int, error) {
	entries, err := s.exportEntries(ctx, opts)
	if err != nil {
		return "", 0, err
	}

	data, err := yaml.Marshal(entries)
	if err != nil {
		return "", 0, fmt.Errorf("marshaling export: %w", err)
	}

	path, err := s.writeExport(name+".yaml", data)
	return path, len(entries), err
}

// ExportJSON writes all matching requirements to storeDir/index/<name>.json
// and returns the file path and entry count.
func (s *Store) ExportJSON(ctx context.Context, opts QueryOptions, name string) (string, int, error) {
	entries, err := s.exportEntries(ctx, opts)
	if err != nil {
		return "", 0, err
	}

	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return "", 0, fmt.Errorf("marshaling export: %w", err)
	}

	path, err := s.writeExport(name+".json", data)
	return path, len(entries), err
}

func (s *Store) exportEntries(ctx context.Context, opts QueryOptions) ([]Entry, error) {
	opts.MaxResults = exportLimit
	return s.Query(ctx, opts)
}

func (s *Store) writeExport(filename string, data []byte) (string, error) {
	indexDir := filepath.Join(s.storeDir, "index")
	if err := os.MkdirAll(indexDir, 0o755); err != nil {
		return "", fmt.Errorf("creating index directory: %w", err)
	}
	path := filepath.Join(indexDir, filename)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("writing export: %w", err)
	}
	return path, nil
}
