package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/pdiddy/reqtrace/internal/docio"
	"github.com/pdiddy/reqtrace/internal/engine"
	"github.com/pdiddy/reqtrace/internal/profile"
	"github.com/pdiddy/reqtrace/pkg/types"
)

var extractCmd = &cobra.Command{
	Use:   "extract [documents...]",
	Short: "Extract requirements from decoded document files",
	Long: `Extract runs the requirement engine over decoded document files (YAML
or JSON dumps of positioned page fragments). Each document produces a
result file "<id>-requirements.yaml" in the results directory, holding
labeled requirements with confidence scores and matched keywords.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runExtract,
}

func runExtract(cmd *cobra.Command, args []string) error {
	cfg, err := engineConfigFromFlags(cmd)
	if err != nil {
		return err
	}

	eng, err := engine.New(cfg, nil)
	if err != nil {
		return err
	}

	resultsDir, _ := cmd.Flags().GetString("results-dir")
	if err := os.MkdirAll(resultsDir, 0o755); err != nil {
		return fmt.Errorf("creating results directory: %w", err)
	}

	var failed int
	for _, path := range args {
		doc, err := docio.Load(path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed %s: %v\n", path, err)
			failed++
			continue
		}

		result, err := eng.Extract(doc)
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed %s: %v\n", doc.ID, err)
			failed++
			continue
		}

		outPath := filepath.Join(resultsDir, doc.ID+"-requirements.yaml")
		if err := docio.WriteResult(outPath, result); err != nil {
			fmt.Fprintf(os.Stderr, "failed %s: %v\n", doc.ID, err)
			failed++
			continue
		}

		fmt.Printf("extracted %s (%d requirements, %d pages skipped)\n",
			doc.ID, len(result.Requirements), len(result.SkippedPages))
	}

	if failed > 0 {
		return fmt.Errorf("%d document(s) failed extraction", failed)
	}
	return nil
}

func engineConfigFromFlags(cmd *cobra.Command) (types.EngineConfig, error) {
	refs, _ := cmd.Flags().GetStringSlice("profile")
	profiles, err := profile.Resolve(refs)
	if err != nil {
		return types.EngineConfig{}, err
	}

	threshold, _ := cmd.Flags().GetFloat64("threshold")
	minWords, _ := cmd.Flags().GetInt("min-words")
	maxWords, _ := cmd.Flags().GetInt("max-words")
	bucketSize, _ := cmd.Flags().GetFloat64("bucket-size")
	workers, _ := cmd.Flags().GetInt("workers")
	diagnostics, _ := cmd.Flags().GetBool("diagnostics")

	return types.EngineConfig{
		Profiles:    profiles,
		Threshold:   threshold,
		MinWords:    minWords,
		MaxWords:    maxWords,
		BucketSize:  bucketSize,
		Workers:     workers,
		Diagnostics: diagnostics,
	}, nil
}

func init() {
	extractCmd.Flags().StringSlice("profile", []string{"general"}, "keyword profile: built-in name or YAML file path (repeatable)")
	extractCmd.Flags().Float64("threshold", types.DefaultThreshold, "minimum confidence for a candidate to become a requirement")
	extractCmd.Flags().Int("min-words", types.DefaultMinWords, "sentences below this word count are heavily penalized")
	extractCmd.Flags().Int("max-words", types.DefaultMaxWords, "upper word-count bound reported for oversized sentences")
	extractCmd.Flags().Float64("bucket-size", types.DefaultBucketSize, "vertical bucket size for line reconstruction, in page units")
	extractCmd.Flags().Int("workers", 1, "pages processed in parallel (1 = sequential)")
	extractCmd.Flags().Bool("diagnostics", false, "include rejected candidates in the result file")
	extractCmd.Flags().String("results-dir", "results", "directory for result files")

	rootCmd.AddCommand(extractCmd)
}
