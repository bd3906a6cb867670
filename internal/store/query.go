// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
)

// QueryOptions narrows a store query. A zero value matches everything up
// to the result limit.
type QueryOptions struct {
	// Query is a full-text search expression over requirement text.
	Query string

	// DocumentID restricts results to one ingested document.
	DocumentID string

	// Keyword restricts results to requirements matched by the given
	// trigger term.
	Keyword string

	// MinConfidence drops requirements scored below the given value.
	MinConfidence float64

	// MaxResults caps the number of rows returned. Zero means the store
	// default.
	MaxResults int
}

// IsEmpty reports whether the options carry no filters at all.
func (o QueryOptions) IsEmpty() bool {
	return o.Query == "" && o.DocumentID == "" && o.Keyword == "" && o.MinConfidence == 0
}

// Entry is one requirement row returned from a query.
type Entry struct {
	DocumentID string   `yaml:"document_id" json:"document_id"`
	Label      int      `yaml:"label" json:"label"`
	Page       int      `yaml:"page" json:"page"`
	Text       string   `yaml:"text" json:"text"`
	Confidence float64  `yaml:"confidence" json:"confidence"`
	Keywords   []string `yaml:"keywords,omitempty" json:"keywords,omitempty"`
	WordCount  int      `yaml:"word_count" json:"word_count"`
}

// Query returns requirements matching the options. With a full-text query
// results come back in relevance order; otherwise in (document, label)
// order.
func (s *Store) Query(ctx context.Context, opts QueryOptions) ([]Entry, error) {
	limit := opts.MaxResults
	if limit <= 0 {
		limit = s.maxResults
	}

	var (
		where []string
		args  []any
	)

	base := `SELECT r.doc_id, r.label, r.page, r.text, r.confidence, r.keywords, r.word_count
		FROM requirements r`

	if opts.Query != "" {
		base += ` JOIN requirements_fts ON requirements_fts.rowid = r.rowid`
		where = append(where, `requirements_fts MATCH ?`)
		args = append(args, opts.Query)
	}
	if opts.DocumentID != "" {
		where = append(where, `r.doc_id = ?`)
		args = append(args, opts.DocumentID)
	}
	if opts.Keyword != "" {
		where = append(where, `EXISTS (SELECT 1 FROM json_each(r.keywords) WHERE json_each.value = ?)`)
		args = append(args, strings.ToLower(opts.Keyword))
	}
	if opts.MinConfidence > 0 {
		where = append(where, `r.confidence >= ?`)
		args = append(args, opts.MinConfidence)
	}

	query := base
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, ` AND `)
	}
	if opts.Query != "" {
		query += ` ORDER BY requirements_fts.rank`
	} else {
		query += ` ORDER BY r.doc_id, r.label`
	}
	query += ` LIMIT ?`
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying requirements: %w", err)
	}
	defer rows.Close()

	return scanEntries(rows)
}

func scanEntries(rows *sql.Rows) ([]Entry, error) {
	var entries []Entry
	for rows.Next() {
		var (
			e            Entry
			keywordsJSON string
		)
		if err := rows.Scan(&e.DocumentID, &e.Label, &e.Page, &e.Text, &e.Confidence, &keywordsJSON, &e.WordCount); err != nil {
			return nil, fmt.Errorf("scanning requirement row: %w", err)
		}
		if keywordsJSON != "" {
			if err := json.Unmarshal([]byte(keywordsJSON), &e.Keywords); err != nil {
				return nil, fmt.Errorf("decoding keywords for %s #%d: %w", e.DocumentID, e.Label, err)
			}
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Documents lists ingested document IDs with their requirement counts,
// ordered by ID.
func (s *Store) Documents(ctx context.Context) (map[string]int, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT d.id, count(r.rowid) FROM documents d
		 LEFT JOIN requirements r ON r.doc_id = d.id
		 GROUP BY d.id ORDER BY d.id`)
	if err != nil {
		return nil, fmt.Errorf("listing documents: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var (
			id string
			n  int
		)
		if err := rows.Scan(&id, &n); err != nil {
			return nil, fmt.Errorf("scanning document row: %w", err)
		}
		counts[id] = n
	}
	return counts, rows.Err()
}
