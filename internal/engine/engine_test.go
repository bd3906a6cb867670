package engine

import (
	"errors"
	"math"
	"reflect"
	"testing"

	"github.com/pdiddy/reqtrace/pkg/types"
)

func testConfig(terms ...string) types.EngineConfig {
	cfg := types.DefaultEngineConfig()
	cfg.Profiles = []types.KeywordProfile{{Name: "test", Terms: terms}}
	return cfg
}

func textPage(index int, sentences ...string) types.Page {
	p := types.Page{Index: index}
	y := 20.0
	for _, s := range sentences {
		p.Fragments = append(p.Fragments, types.TextFragment{
			X0: 10, Y0: y, X1: 400, Y1: y + 12, Text: s,
		})
		y += 20
	}
	return p
}

func TestNewConfigValidation(t *testing.T) {
	if _, err := New(testConfig(), nil); !errors.Is(err, ErrNoKeywords) {
		t.Errorf("empty keywords: err = %v, want ErrNoKeywords", err)
	}

	cfg := testConfig("shall")
	cfg.Threshold = 1.5
	if _, err := New(cfg, nil); !errors.Is(err, ErrThreshold) {
		t.Errorf("threshold 1.5: err = %v, want ErrThreshold", err)
	}

	cfg.Threshold = -0.1
	if _, err := New(cfg, nil); !errors.Is(err, ErrThreshold) {
		t.Errorf("threshold -0.1: err = %v, want ErrThreshold", err)
	}

	cfg.Threshold = math.NaN()
	if _, err := New(cfg, nil); !errors.Is(err, ErrThreshold) {
		t.Errorf("threshold NaN: err = %v, want ErrThreshold", err)
	}
}

// Single page, one imperative requirement sentence: exactly one
// requirement, boosted above the unboosted base.
func TestExtractImperativeSentence(t *testing.T) {
	e, err := New(testConfig("shall"), nil)
	if err != nil {
		t.Fatal(err)
	}

	doc := types.Document{
		ID:    "sample",
		Pages: []types.Page{textPage(0, "The system shall provide a backup mechanism within twenty four hours.")},
	}

	result, err := e.Extract(doc)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if len(result.Requirements) != 1 {
		t.Fatalf("got %d requirements, want 1", len(result.Requirements))
	}

	r := result.Requirements[0]
	if r.Label != 1 {
		t.Errorf("Label = %d, want 1", r.Label)
	}
	if r.WordCount < 8 || r.WordCount > 50 {
		t.Errorf("WordCount = %d, want optimal band [8,50]", r.WordCount)
	}
	if r.Confidence <= 0.5 {
		t.Errorf("Confidence = %v, want above the unboosted base 0.5", r.Confidence)
	}
	if !reflect.DeepEqual(r.Keywords, []string{"shall"}) {
		t.Errorf("Keywords = %v, want [shall]", r.Keywords)
	}
}

// A three-word keyword sentence scores below 0.4: present in diagnostics,
// absent from the filtered output.
func TestExtractVeryShortRejected(t *testing.T) {
	cfg := testConfig("must")
	cfg.Threshold = 0.4
	cfg.Diagnostics = true

	e, err := New(cfg, nil)
	if err != nil {
		t.Fatal(err)
	}

	result, err := e.Extract(types.Document{
		ID:    "short",
		Pages: []types.Page{textPage(0, "It must work.")},
	})
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}

	if len(result.Requirements) != 0 {
		t.Errorf("got %d requirements, want 0", len(result.Requirements))
	}
	if len(result.Rejected) != 1 {
		t.Fatalf("got %d rejected, want 1", len(result.Rejected))
	}
	if got := result.Rejected[0].Confidence; got >= 0.4 {
		t.Errorf("rejected confidence = %v, want below 0.4", got)
	}
}

// Matching two terms scores strictly higher than an otherwise-identical
// single-term sentence.
func TestExtractMultiKeywordBoost(t *testing.T) {
	e, err := New(testConfig("shall", "must"), nil)
	if err != nil {
		t.Fatal(err)
	}

	single, err := e.Extract(types.Document{ID: "a", Pages: []types.Page{
		textPage(0, "Operators shall archive the daily telemetry records before midnight always."),
	}})
	if err != nil {
		t.Fatal(err)
	}
	double, err := e.Extract(types.Document{ID: "b", Pages: []types.Page{
		textPage(0, "Operators shall archive the daily telemetry records before midnight must."),
	}})
	if err != nil {
		t.Fatal(err)
	}

	if len(single.Requirements) != 1 || len(double.Requirements) != 1 {
		t.Fatalf("got %d and %d requirements, want 1 and 1",
			len(single.Requirements), len(double.Requirements))
	}
	s, d := single.Requirements[0], double.Requirements[0]
	if s.WordCount != d.WordCount {
		t.Fatalf("word counts differ: %d vs %d", s.WordCount, d.WordCount)
	}
	if d.Confidence <= s.Confidence {
		t.Errorf("two-term confidence %v not greater than one-term %v", d.Confidence, s.Confidence)
	}
	if len(d.Keywords) != 2 {
		t.Errorf("Keywords = %v, want both terms", d.Keywords)
	}
}

// Two-column page emitted right column first: reading order places column
// one's sentence before column two's, which shows up in label order.
func TestExtractTwoColumnReadingOrder(t *testing.T) {
	page := types.Page{
		Index: 0,
		Fragments: []types.TextFragment{
			{X0: 300, Y0: 20, X1: 560, Y1: 32, Text: "The display shall dim at night."},
			{X0: 10, Y0: 20, X1: 260, Y1: 32, Text: "The pump shall stop on overflow."},
		},
	}

	cfg := testConfig("shall")
	cfg.Threshold = 0 // admit everything; order is what matters here
	e, err := New(cfg, nil)
	if err != nil {
		t.Fatal(err)
	}

	result, err := e.Extract(types.Document{ID: "columns", Pages: []types.Page{page}})
	if err != nil {
		t.Fatal(err)
	}
	if len(result.Requirements) != 2 {
		t.Fatalf("got %d requirements, want 2", len(result.Requirements))
	}
	if result.Requirements[0].Text != "The pump shall stop on overflow." {
		t.Errorf("requirement 1 = %q, want the left column's sentence first", result.Requirements[0].Text)
	}
	if result.Requirements[1].Text != "The display shall dim at night." {
		t.Errorf("requirement 2 = %q", result.Requirements[1].Text)
	}
}

func TestExtractDeterministic(t *testing.T) {
	doc := types.Document{ID: "det", Pages: []types.Page{
		textPage(0,
			"The system shall provide a backup mechanism within twenty four hours.",
			"Operators must confirm every restore before the shift ends today.",
		),
		textPage(1, "The recorder shall retain data for ninety days at minimum."),
	}}

	cfg := testConfig("shall", "must")
	cfg.Diagnostics = true
	e, err := New(cfg, nil)
	if err != nil {
		t.Fatal(err)
	}

	first, err := e.Extract(doc)
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 5; i++ {
		again, err := e.Extract(doc)
		if err != nil {
			t.Fatal(err)
		}
		if !reflect.DeepEqual(first, again) {
			t.Fatalf("run %d differs from first run", i)
		}
	}
}

func TestExtractParallelMatchesSequential(t *testing.T) {
	var pages []types.Page
	for i := 0; i < 8; i++ {
		pages = append(pages,
			textPage(i,
				"The system shall provide a backup mechanism within twenty four hours.",
				"The recorder shall retain data for ninety days at minimum.",
			))
	}
	doc := types.Document{ID: "par", Pages: pages}

	seqCfg := testConfig("shall")
	seqCfg.Diagnostics = true
	seq, err := New(seqCfg, nil)
	if err != nil {
		t.Fatal(err)
	}

	parCfg := seqCfg
	parCfg.Workers = 4
	par, err := New(parCfg, nil)
	if err != nil {
		t.Fatal(err)
	}

	want, err := seq.Extract(doc)
	if err != nil {
		t.Fatal(err)
	}
	got, err := par.Extract(doc)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(want, got) {
		t.Error("parallel extraction output differs from sequential")
	}
}

func TestExtractLabelMonotonicity(t *testing.T) {
	doc := types.Document{ID: "labels", Pages: []types.Page{
		textPage(0,
			"The system shall provide a backup mechanism within twenty four hours.",
			"The recorder shall retain data for ninety days at minimum.",
		),
		textPage(1, "The console shall show an alarm banner on any fault."),
	}}

	e, err := New(testConfig("shall"), nil)
	if err != nil {
		t.Fatal(err)
	}
	result, err := e.Extract(doc)
	if err != nil {
		t.Fatal(err)
	}
	if len(result.Requirements) < 3 {
		t.Fatalf("got %d requirements, want at least 3", len(result.Requirements))
	}
	for i, r := range result.Requirements {
		if r.Label != i+1 {
			t.Errorf("requirement[%d].Label = %d, want %d", i, r.Label, i+1)
		}
	}
}

func TestExtractSkipsMalformedPage(t *testing.T) {
	bad := types.Page{Index: 0, Fragments: []types.TextFragment{
		{X0: math.NaN(), Y0: 20, X1: 100, Y1: 32, Text: "The system shall fail here."},
	}}
	good := textPage(1, "The system shall continue on the next page without issue.")

	e, err := New(testConfig("shall"), nil)
	if err != nil {
		t.Fatal(err)
	}
	result, err := e.Extract(types.Document{ID: "partial", Pages: []types.Page{bad, good}})
	if err != nil {
		t.Fatalf("Extract: %v (page failures must not abort the document)", err)
	}

	if len(result.SkippedPages) != 1 || result.SkippedPages[0].Page != 0 {
		t.Fatalf("SkippedPages = %+v, want page 0 noted", result.SkippedPages)
	}
	if len(result.Requirements) != 1 || result.Requirements[0].Page != 1 {
		t.Errorf("Requirements = %+v, want the good page's requirement", result.Requirements)
	}
}

func TestExtractAllPagesUnreadable(t *testing.T) {
	bad := types.Page{Index: 0, Fragments: []types.TextFragment{
		{X0: 50, Y0: 20, X1: 10, Y1: 32, Text: "inverted rectangle"},
	}}

	e, err := New(testConfig("shall"), nil)
	if err != nil {
		t.Fatal(err)
	}
	_, err = e.Extract(types.Document{ID: "broken", Pages: []types.Page{bad}})
	if !errors.Is(err, ErrNoReadablePages) {
		t.Errorf("err = %v, want ErrNoReadablePages", err)
	}
}

func TestExtractEmptyResultIsSuccess(t *testing.T) {
	e, err := New(testConfig("shall"), nil)
	if err != nil {
		t.Fatal(err)
	}

	result, err := e.Extract(types.Document{
		ID:    "quiet",
		Pages: []types.Page{textPage(0, "Nothing here triggers a keyword at all.")},
	})
	if err != nil {
		t.Fatalf("Extract: %v, want success with empty result", err)
	}
	if len(result.Requirements) != 0 {
		t.Errorf("got %d requirements, want 0", len(result.Requirements))
	}

	// A document with no pages at all is also a successful empty result.
	result, err = e.Extract(types.Document{ID: "empty"})
	if err != nil || len(result.Requirements) != 0 {
		t.Errorf("empty document: (%v, %v)", result, err)
	}
}

func TestExtractDedupWithinPage(t *testing.T) {
	page := types.Page{
		Index: 0,
		Fragments: []types.TextFragment{
			{X0: 10, Y0: 20, X1: 400, Y1: 32, Text: "The valve shall close within two seconds of loss of signal."},
			{X0: 10, Y0: 200, X1: 400, Y1: 212, Text: "The valve shall close within two seconds of loss of signal."},
		},
	}

	e, err := New(testConfig("shall"), nil)
	if err != nil {
		t.Fatal(err)
	}
	result, err := e.Extract(types.Document{ID: "dup", Pages: []types.Page{page}})
	if err != nil {
		t.Fatal(err)
	}
	if len(result.Requirements) != 1 {
		t.Errorf("got %d requirements, want 1 (same-page duplicate collapsed)", len(result.Requirements))
	}
}
