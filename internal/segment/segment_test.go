package segment

import (
	"reflect"
	"strings"
	"sync"
	"testing"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name  string
		lines []string
		want  string
	}{
		{
			name:  "hyphenated line break collapsed",
			lines: []string{"The require-", "ment applies."},
			want:  "The requirement applies.",
		},
		{
			name:  "whitespace collapsed",
			lines: []string{"The  system \t shall", "respond."},
			want:  "The system shall respond.",
		},
		{
			name:  "ligatures expanded",
			lines: []string{"veriﬁcation of ﬂow"},
			want:  "verification of flow",
		},
		{
			name:  "control glyphs stripped",
			lines: []string{"clean\u0000 text\u0007 here"},
			want:  "clean text here",
		},
		{
			name:  "empty input",
			lines: nil,
			want:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Normalize(tt.lines); got != tt.want {
				t.Errorf("Normalize() = %q, want %q", got, tt.want)
			}
		})
	}
}

func splitTexts(t *testing.T, text string) []string {
	t.Helper()
	var out []string
	for _, s := range Default().Split(text) {
		out = append(out, strings.TrimSpace(text[s.Start:s.End]))
	}
	return out
}

func TestSplit(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{
			name: "two sentences",
			text: "The system shall respond. The operator must confirm.",
			want: []string{"The system shall respond.", "The operator must confirm."},
		},
		{
			name: "abbreviation not a boundary",
			text: "Limits apply, e.g. during startup. The system shall log.",
			want: []string{"Limits apply, e.g. during startup.", "The system shall log."},
		},
		{
			name: "decimal not a boundary",
			text: "Latency shall stay below 2.5 seconds. Throughput is separate.",
			want: []string{"Latency shall stay below 2.5 seconds.", "Throughput is separate."},
		},
		{
			name: "initial not a boundary",
			text: "Reviewed by J. Smith before release. Approved later.",
			want: []string{"Reviewed by J. Smith before release.", "Approved later."},
		},
		{
			name: "question and exclamation",
			text: "Is this required? It must be! Verify it.",
			want: []string{"Is this required?", "It must be!", "Verify it."},
		},
		{
			name: "trailing text without terminator",
			text: "First sentence. trailing fragment",
			want: []string{"First sentence.", "trailing fragment"},
		},
		{
			name: "empty",
			text: "",
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := splitTexts(t, tt.text); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Split() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSplitSpansCoverInput(t *testing.T) {
	text := "One sentence here. Another one follows! And a third?"
	spans := Default().Split(text)
	if len(spans) == 0 {
		t.Fatal("no spans returned")
	}
	if spans[0].Start != 0 {
		t.Errorf("first span starts at %d, want 0", spans[0].Start)
	}
	for i := 1; i < len(spans); i++ {
		if spans[i].Start != spans[i-1].End {
			t.Errorf("span %d starts at %d, previous ends at %d", i, spans[i].Start, spans[i-1].End)
		}
	}
	if spans[len(spans)-1].End != len(text) {
		t.Errorf("last span ends at %d, want %d", spans[len(spans)-1].End, len(text))
	}
}

func TestSentences(t *testing.T) {
	lines := []string{
		"The system shall provide a backup mech-",
		"anism. Operators must confirm restores.",
	}
	got := Sentences(lines, 3, nil)
	if len(got) != 2 {
		t.Fatalf("got %d sentences, want 2", len(got))
	}
	if got[0].Text != "The system shall provide a backup mechanism." {
		t.Errorf("sentence[0].Text = %q", got[0].Text)
	}
	if got[0].Page != 3 || got[1].Page != 3 {
		t.Errorf("page tags = %d, %d, want 3, 3", got[0].Page, got[1].Page)
	}
	if got[0].WordCount != 7 {
		t.Errorf("sentence[0].WordCount = %d, want 7", got[0].WordCount)
	}
	if got[1].Start < got[0].End {
		t.Errorf("spans overlap: [%d,%d) then [%d,%d)", got[0].Start, got[0].End, got[1].Start, got[1].End)
	}
}

func TestSentencesEmptyPage(t *testing.T) {
	if got := Sentences(nil, 0, nil); got != nil {
		t.Errorf("Sentences(nil) = %v, want nil", got)
	}
}

func TestDefaultBoundaryInitOnce(t *testing.T) {
	var wg sync.WaitGroup
	results := make([]Boundary, 16)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = Default()
		}(i)
	}
	wg.Wait()
	for i := 1; i < len(results); i++ {
		if results[i] != results[0] {
			t.Fatal("Default() returned distinct handles under concurrency")
		}
	}
}
