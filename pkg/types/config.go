// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// KeywordProfile is a named, caller-supplied set of lowercase trigger terms.
// Immutable for the duration of a run; matching is case-insensitive with
// whole-token semantics.
type KeywordProfile struct {
	// Name identifies the profile (e.g. "general", "aerospace").
	Name string `json:"name" yaml:"name"`

	// Terms are the lowercase trigger strings. A term containing spaces
	// matches as a whole-token phrase.
	Terms []string `json:"terms" yaml:"terms"`
}

// Default engine parameters.
const (
	// DefaultThreshold is the public default admission confidence. Callers
	// supply the threshold explicitly; there is no internal override.
	DefaultThreshold = 0.5

	// DefaultMinWords and DefaultMaxWords bound the optimal word-count band.
	DefaultMinWords = 5
	DefaultMaxWords = 100

	// DefaultBucketSize is the vertical quantization bucket width, in the
	// decoder's position units, used to group fragments onto one line.
	DefaultBucketSize = 10.0
)

// EngineConfig holds the parameters for one extraction run.
type EngineConfig struct {
	// Profiles are the keyword profiles to match against. Their terms are
	// unioned before matching; individual matched terms are still recorded.
	Profiles []KeywordProfile `json:"profiles" yaml:"profiles"`

	// Threshold is the admission confidence in [0,1]. Candidates scoring
	// below it are excluded from Requirements (but kept in diagnostics).
	Threshold float64 `json:"threshold" yaml:"threshold"`

	// MinWords is the lower word-count bound (default 5). Sentences below
	// it are penalized by the scorer, never silently dropped.
	MinWords int `json:"min_words" yaml:"min_words"`

	// MaxWords is the upper word-count bound (default 100). Informational;
	// over-long sentences are penalized by the scorer's length rules.
	MaxWords int `json:"max_words" yaml:"max_words"`

	// BucketSize is the layout reconstruction bucket width (default 10).
	BucketSize float64 `json:"bucket_size" yaml:"bucket_size"`

	// Workers bounds concurrent page processing. Values below 2 select the
	// sequential path. Output is identical either way.
	Workers int `json:"workers" yaml:"workers"`

	// Diagnostics requests the unfiltered rejected-candidate list.
	Diagnostics bool `json:"diagnostics" yaml:"diagnostics"`
}

// DefaultEngineConfig returns an EngineConfig with the documented defaults
// and no profiles. Callers must add at least one profile with terms.
func DefaultEngineConfig() EngineConfig {
	return EngineConfig{
		Threshold:  DefaultThreshold,
		MinWords:   DefaultMinWords,
		MaxWords:   DefaultMaxWords,
		BucketSize: DefaultBucketSize,
		Workers:    1,
	}
}

// StoreConfig holds settings for the requirement store.
type StoreConfig struct {
	// StoreDir is the directory holding the SQLite database (reqtrace.db).
	StoreDir string `json:"store_dir" yaml:"store_dir"`

	// MaxResults is the default maximum number of query results (default 20).
	MaxResults int `json:"max_results" yaml:"max_results"`
}
