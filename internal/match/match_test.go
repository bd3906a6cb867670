package match

import (
	"reflect"
	"testing"

	"github.com/pdiddy/reqtrace/pkg/types"
)

func profiles(terms ...string) []types.KeywordProfile {
	return []types.KeywordProfile{{Name: "test", Terms: terms}}
}

func TestMatchWholeToken(t *testing.T) {
	tests := []struct {
		name     string
		terms    []string
		sentence string
		want     []string
	}{
		{
			name:     "plain match",
			terms:    []string{"shall"},
			sentence: "The system shall respond.",
			want:     []string{"shall"},
		},
		{
			name:     "case insensitive",
			terms:    []string{"shall"},
			sentence: "THE SYSTEM SHALL RESPOND.",
			want:     []string{"shall"},
		},
		{
			name:     "no substring match in shallow",
			terms:    []string{"shall"},
			sentence: "The shallow end of the pool.",
			want:     nil,
		},
		{
			name:     "no substring match in marshall",
			terms:    []string{"shall"},
			sentence: "Deputy Marshall approved the plan.",
			want:     nil,
		},
		{
			name:     "multiple terms sorted",
			terms:    []string{"shall", "must"},
			sentence: "It must do what it shall do.",
			want:     []string{"must", "shall"},
		},
		{
			name:     "phrase term",
			terms:    []string{"capable of"},
			sentence: "The unit is capable of autonomous restart.",
			want:     []string{"capable of"},
		},
		{
			name:     "phrase tokens out of order",
			terms:    []string{"capable of"},
			sentence: "Of what is it capable?",
			want:     nil,
		},
		{
			name:     "hyphenated token stays whole",
			terms:    []string{"safe"},
			sentence: "A fail-safe mode is provided.",
			want:     nil,
		},
		{
			name:     "empty sentence",
			terms:    []string{"shall"},
			sentence: "",
			want:     nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewMatcher(profiles(tt.terms...))
			if got := m.Match(tt.sentence); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Match(%q) = %v, want %v", tt.sentence, got, tt.want)
			}
		})
	}
}

func TestMatcherUnionsProfiles(t *testing.T) {
	m := NewMatcher([]types.KeywordProfile{
		{Name: "general", Terms: []string{"shall", "must"}},
		{Name: "aerospace", Terms: []string{"must", "margin"}},
	})

	if m.TermCount() != 3 {
		t.Errorf("TermCount() = %d, want 3 (union deduplicates)", m.TermCount())
	}

	got := m.Match("The margin must be positive.")
	want := []string{"margin", "must"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Match() = %v, want %v (individual terms recorded)", got, want)
	}
}

func TestMatcherNormalizesTerms(t *testing.T) {
	m := NewMatcher(profiles("  Shall ", "", "shall"))
	if m.TermCount() != 1 {
		t.Errorf("TermCount() = %d, want 1", m.TermCount())
	}
}

func TestCandidate(t *testing.T) {
	m := NewMatcher(profiles("shall"))

	s := types.Sentence{Text: "The system shall respond.", Page: 2, WordCount: 4}
	c, ok := m.Candidate(s)
	if !ok {
		t.Fatal("Candidate() = false, want match")
	}
	if c.Page != 2 || !reflect.DeepEqual(c.Keywords, []string{"shall"}) {
		t.Errorf("Candidate() = %+v", c)
	}

	if _, ok := m.Candidate(types.Sentence{Text: "Nothing to see here."}); ok {
		t.Error("Candidate() matched a sentence with no trigger terms")
	}
}
