// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/reqtrace/internal/store"
	"github.com/pdiddy/reqtrace/pkg/types"
)

var storeCmd = &cobra.Command{
	Use:   "store",
	Short: "Manage the requirement database (ingest, query, export)",
	Long: `Store manages a local SQLite requirement database built from extraction
result files. Use subcommands to ingest results, query them, or export.`,
}

// --- ingest subcommand ---

var storeIngestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Ingest extraction result files into the requirement database",
	Long: `Ingest reads result YAML files from the results directory into a SQLite
database with FTS5 indexing. Unchanged files are skipped on subsequent
runs; changed documents are replaced.`,
	RunE: runStoreIngest,
}

func runStoreIngest(cmd *cobra.Command, args []string) error {
	s, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	resultsDir, _ := cmd.Flags().GetString("results-dir")

	summary, err := s.Ingest(context.Background(), resultsDir, os.Stdout)
	if err != nil {
		return err
	}
	if summary.HasFailures() {
		return fmt.Errorf("%d result file(s) failed ingestion", summary.Failed)
	}
	return nil
}

// --- query subcommand ---

var storeQueryCmd = &cobra.Command{
	Use:   "query [text]",
	Short: "Query the requirement database with full-text search and filters",
	Long: `Query searches stored requirements using FTS5 full-text search,
structured filters (document, keyword, minimum confidence), or a
combination of both. Results carry the document ID and label so each
requirement traces back to its source.`,
	RunE: runStoreQuery,
}

func runStoreQuery(cmd *cobra.Command, args []string) error {
	s, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	opts := queryOptsFromFlags(cmd, args)
	if opts.IsEmpty() {
		return fmt.Errorf("query or filter required: provide search text, --doc, --keyword, or --min-confidence")
	}

	entries, err := s.Query(context.Background(), opts)
	if err != nil {
		return err
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")
	return formatQueryOutput(entries, jsonOutput)
}

func formatQueryOutput(entries []store.Entry, jsonOutput bool) error {
	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(entries)
	}

	if len(entries) == 0 {
		fmt.Println("No results found.")
		return nil
	}

	fmt.Fprintf(os.Stdout, "%-20s  %-6s  %-5s  %-10s  %s\n",
		"Document", "Label", "Page", "Confidence", "Text")
	fmt.Fprintln(os.Stdout, strings.Repeat("-", 100))

	for _, e := range entries {
		doc := e.DocumentID
		if len(doc) > 20 {
			doc = doc[:17] + "..."
		}
		text := e.Text
		if len(text) > 55 {
			text = text[:52] + "..."
		}
		fmt.Fprintf(os.Stdout, "%-20s  %-6d  %-5d  %-10.2f  %s\n",
			doc, e.Label, e.Page, e.Confidence, text)
	}

	fmt.Fprintf(os.Stdout, "\n%d results\n", len(entries))
	return nil
}

// --- export subcommand ---

var storeExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the requirement database to YAML or JSON",
	Long: `Export writes the full requirement database (or a filtered subset) to
<store-dir>/index/export.yaml or export.json. Supports the same filter
flags as query for partial exports.`,
	RunE: runStoreExport,
}

func runStoreExport(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("format")

	s, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer s.Close()

	opts := queryOptsFromFlags(cmd, args)

	var (
		path string
		n    int
	)
	switch format {
	case "yaml", "":
		path, n, err = s.ExportYAML(context.Background(), opts, "export")
	case "json":
		path, n, err = s.ExportJSON(context.Background(), opts, "export")
	default:
		return fmt.Errorf("unsupported format %q: use yaml or json", format)
	}
	if err != nil {
		return err
	}

	fmt.Printf("Exported %d requirements to %s\n", n, path)
	return nil
}

// --- shared helpers ---

func openStore(cmd *cobra.Command) (*store.Store, error) {
	storeDir, _ := cmd.Flags().GetString("store-dir")
	maxResults, _ := cmd.Flags().GetInt("max-results")

	return store.NewStore(types.StoreConfig{
		StoreDir:   storeDir,
		MaxResults: maxResults,
	})
}

func queryOptsFromFlags(cmd *cobra.Command, args []string) store.QueryOptions {
	queryText, _ := cmd.Flags().GetString("query")
	if queryText == "" && len(args) > 0 {
		queryText = strings.Join(args, " ")
	}

	docID, _ := cmd.Flags().GetString("doc")
	keyword, _ := cmd.Flags().GetString("keyword")
	minConfidence, _ := cmd.Flags().GetFloat64("min-confidence")
	limit, _ := cmd.Flags().GetInt("limit")

	return store.QueryOptions{
		Query:         queryText,
		DocumentID:    docID,
		Keyword:       keyword,
		MinConfidence: minConfidence,
		MaxResults:    limit,
	}
}

func init() {
	// Shared flags on the parent command, inherited by subcommands.
	storeCmd.PersistentFlags().String("store-dir", "store", "base directory for the requirement database (contains reqtrace.db, index/)")
	storeCmd.PersistentFlags().Int("max-results", 20, "maximum number of query results")

	// Ingest flags.
	storeIngestCmd.Flags().String("results-dir", "results", "directory of extraction result files")

	// Query flags.
	storeQueryCmd.Flags().String("query", "", "full-text search query")
	storeQueryCmd.Flags().String("doc", "", "filter by document ID")
	storeQueryCmd.Flags().String("keyword", "", "filter by matched trigger term")
	storeQueryCmd.Flags().Float64("min-confidence", 0, "minimum confidence score")
	storeQueryCmd.Flags().Int("limit", 0, "maximum results (0 = use default)")
	storeQueryCmd.Flags().Bool("json", false, "output results as JSON")

	// Export flags.
	storeExportCmd.Flags().String("format", "yaml", "export format: yaml or json")
	storeExportCmd.Flags().String("query", "", "full-text search filter for partial export")
	storeExportCmd.Flags().String("doc", "", "filter by document ID for partial export")
	storeExportCmd.Flags().String("keyword", "", "filter by matched trigger term for partial export")
	storeExportCmd.Flags().Float64("min-confidence", 0, "minimum confidence for partial export")
	storeExportCmd.Flags().Int("limit", 0, "maximum requirements to export (0 = all)")

	// Wire subcommands.
	storeCmd.AddCommand(storeIngestCmd)
	storeCmd.AddCommand(storeQueryCmd)
	storeCmd.AddCommand(storeExportCmd)

	rootCmd.AddCommand(storeCmd)
}
