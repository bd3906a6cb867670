// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package store persists extracted requirements in a local SQLite database
// with an FTS5 full-text index, for traceability queries and export. The
// extraction engine itself performs no persistence; this store is a
// downstream collaborator fed from result files.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/reqtrace/pkg/types"
)

const (
	dbFile       = "reqtrace.db"
	resultSuffix = "-requirements.yaml"
	defaultLimit = 20
	exportLimit  = 100000
)

// Store manages the requirement SQLite database.
type Store struct {
	db         *sql.DB
	storeDir   string
	maxResults int
}

// NewStore opens or creates the database at storeDir/reqtrace.db, creating
// the schema if needed.
func NewStore(cfg types.StoreConfig) (*Store, error) {
	if err := os.MkdirAll(cfg.StoreDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating store directory: %w", err)
	}

	dbPath := filepath.Join(cfg.StoreDir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	maxResults := cfg.MaxResults
	if maxResults <= 0 {
		maxResults = defaultLimit
	}

	s := &Store{db: db, storeDir: cfg.StoreDir, maxResults: maxResults}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS documents (
			id TEXT PRIMARY KEY,
			source_path TEXT,
			ingested_at TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS requirements (
			rowid INTEGER PRIMARY KEY AUTOINCREMENT,
			doc_id TEXT NOT NULL REFERENCES documents(id),
			label INTEGER NOT NULL,
			page INTEGER,
			text TEXT NOT NULL,
			confidence REAL,
			keywords TEXT,
			word_count INTEGER,
			UNIQUE(doc_id, label)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_requirements_doc_id ON requirements(doc_id)`,
		`CREATE TABLE IF NOT EXISTS ingest_status (
			doc_id TEXT PRIMARY KEY,
			file_mod_time TEXT
		)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}

	// FTS5 virtual table with triggers for sync.
	var ftsExists int
	if err := s.db.QueryRow(
		`SELECT count(*) FROM sqlite_master WHERE type='table' AND name='requirements_fts'`,
	).Scan(&ftsExists); err != nil {
		return fmt.Errorf("checking FTS table: %w", err)
	}

	if ftsExists == 0 {
		ftsStatements := []string{
			`CREATE VIRTUAL TABLE requirements_fts USING fts5(text, content=requirements, content_rowid=rowid)`,
			`CREATE TRIGGER requirements_ai AFTER INSERT ON requirements BEGIN
				INSERT INTO requirements_fts(rowid, text) VALUES (new.rowid, new.text);
			END`,
			`CREATE TRIGGER requirements_ad AFTER DELETE ON requirements BEGIN
				INSERT INTO requirements_fts(requirements_fts, rowid, text) VALUES('delete', old.rowid, old.text);
			END`,
			`CREATE TRIGGER requirements_au AFTER UPDATE ON requirements BEGIN
				INSERT INTO requirements_fts(requirements_fts, rowid, text) VALUES('delete', old.rowid, old.text);
				INSERT INTO requirements_fts(rowid, text) VALUES (new.rowid, new.text);
			END`,
		}
		for _, stmt := range ftsStatements {
			if _, err := s.db.Exec(stmt); err != nil {
				return fmt.Errorf("creating FTS infrastructure: %w", err)
			}
		}
	}

	return nil
}

// IngestSummary holds counts from one ingestion run.
type IngestSummary struct {
	Indexed int
	Updated int
	Skipped int
	Failed  int
}

// Total returns the number of result files processed.
func (s IngestSummary) Total() int {
	return s.Indexed + s.Updated + s.Skipped + s.Failed
}

// HasFailures reports whether any file failed.
func (s IngestSummary) HasFailures() bool {
	return s.Failed > 0
}

// Ingest reads extraction result YAML files ("<doc>-requirements.yaml")
// from resultsDir into the database. Unchanged files are skipped by file
// modification time; changed documents are replaced transactionally.
func (s *Store) Ingest(ctx context.Context, resultsDir string, w io.Writer) (IngestSummary, error) {
	entries, err := os.ReadDir(resultsDir)
	if err != nil {
		return IngestSummary{}, fmt.Errorf("reading results directory %s: %w", resultsDir, err)
	}

	var summary IngestSummary

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), resultSuffix) {
			continue
		}

		select {
		case <-ctx.Done():
			return summary, ctx.Err()
		default:
		}

		docID := strings.TrimSuffix(entry.Name(), resultSuffix)
		filePath := filepath.Join(resultsDir, entry.Name())

		info, err := entry.Info()
		if err != nil {
			fmt.Fprintf(w, "failed  %s: %v\n", docID, err)
			summary.Failed++
			continue
		}
		modTime := info.ModTime().UTC().Format(time.RFC3339Nano)

		var storedModTime string
		err = s.db.QueryRowContext(ctx,
			`SELECT file_mod_time FROM ingest_status WHERE doc_id = ?`, docID,
		).Scan(&storedModTime)

		if err == nil && storedModTime == modTime {
			fmt.Fprintf(w, "skipped %s\n", docID)
			summary.Skipped++
			continue
		}

		isUpdate := err == nil

		data, err := os.ReadFile(filePath)
		if err != nil {
			fmt.Fprintf(w, "failed  %s: %v\n", docID, err)
			summary.Failed++
			continue
		}

		var result types.ExtractionResult
		if err := yaml.Unmarshal(data, &result); err != nil {
			fmt.Fprintf(w, "failed  %s: parse error: %v\n", docID, err)
			summary.Failed++
			continue
		}

		if err := s.ingestDocument(ctx, docID, filePath, &result, modTime, isUpdate); err != nil {
			fmt.Fprintf(w, "failed  %s: %v\n", docID, err)
			summary.Failed++
			continue
		}

		if isUpdate {
			fmt.Fprintf(w, "updated %s (%d requirements)\n", docID, len(result.Requirements))
			summary.Updated++
		} else {
			fmt.Fprintf(w, "indexed %s (%d requirements)\n", docID, len(result.Requirements))
			summary.Indexed++
		}
	}

	fmt.Fprintf(w, "\nindexed: %d, updated: %d, skipped: %d, failed: %d\n",
		summary.Indexed, summary.Updated, summary.Skipped, summary.Failed)

	return summary, nil
}

func (s *Store) ingestDocument(ctx context.Context, docID, sourcePath string, result *types.ExtractionResult, modTime string, isUpdate bool) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if isUpdate {
		if _, err := tx.ExecContext(ctx, `DELETE FROM requirements WHERE doc_id = ?`, docID); err != nil {
			return fmt.Errorf("deleting old requirements: %w", err)
		}
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO documents (id, source_path, ingested_at) VALUES (?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
			source_path=excluded.source_path, ingested_at=excluded.ingested_at`,
		docID, sourcePath, time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("upserting document: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO requirements (doc_id, label, page, text, confidence, keywords, word_count)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for _, r := range result.Requirements {
		keywordsJSON, _ := json.Marshal(r.Keywords)
		_, err := stmt.ExecContext(ctx,
			docID, r.Label, r.Page, r.Text, r.Confidence, string(keywordsJSON), r.WordCount,
		)
		if err != nil {
			return fmt.Errorf("inserting requirement %d: %w", r.Label, err)
		}
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO ingest_status (doc_id, file_mod_time) VALUES (?, ?)
		 ON CONFLICT(doc_id) DO UPDATE SET file_mod_time=excluded.file_mod_time`,
		docID, modTime,
	)
	if err != nil {
		return fmt.Errorf("updating ingest status: %w", err)
	}

	return tx.Commit()
}
