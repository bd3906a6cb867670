package main

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/reqtrace/internal/docio"
)

var exportCmd = &cobra.Command{
	Use:   "export [result-file]",
	Short: "Convert an extraction result file to CSV",
	Long: `Export converts a result YAML file into CSV for spreadsheet review,
one row per requirement with label, page, confidence, matched keywords,
and text.`,
	Args: cobra.ExactArgs(1),
	RunE: runExport,
}

func runExport(cmd *cobra.Command, args []string) error {
	result, err := docio.ReadResult(args[0])
	if err != nil {
		return err
	}

	outPath, _ := cmd.Flags().GetString("out")
	out := os.Stdout
	if outPath != "" {
		f, err := os.Create(outPath)
		if err != nil {
			return fmt.Errorf("creating output file: %w", err)
		}
		defer f.Close()
		out = f
	}

	w := csv.NewWriter(out)
	if err := w.Write([]string{"document", "label", "page", "confidence", "keywords", "text"}); err != nil {
		return fmt.Errorf("writing CSV header: %w", err)
	}
	for _, r := range result.Requirements {
		record := []string{
			result.DocumentID,
			strconv.Itoa(r.Label),
			strconv.Itoa(r.Page),
			strconv.FormatFloat(r.Confidence, 'f', 4, 64),
			strings.Join(r.Keywords, ";"),
			r.Text,
		}
		if err := w.Write(record); err != nil {
			return fmt.Errorf("writing CSV row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flushing CSV: %w", err)
	}

	if outPath != "" {
		fmt.Printf("Exported %d requirements to %s\n", len(result.Requirements), outPath)
	}
	return nil
}

func init() {
	exportCmd.Flags().String("out", "", "output file (default: stdout)")

	rootCmd.AddCommand(exportCmd)
}
