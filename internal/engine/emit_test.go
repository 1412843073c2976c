package engine

import (
	"strings"
	"testing"

	"github.com/skillgate/skillgate/internal/skills"
)

func TestFormatSuggestions_EmptyListIsNormal(t *testing.T) {
	if got := FormatSuggestions(Decision{Proceed: true}, nil); got != "" {
		t.Errorf("got %q, want empty string", got)
	}
}

func TestFormatSuggestions(t *testing.T) {
	r := &skills.Rule{
		Name:        "rails-dev-guidelines",
		Description: "Guidelines for models and controllers",
		Mode:        skills.ModeSuggest,
		Priority:    skills.PriorityHigh,
	}
	ranked := []Match{{Rule: r, Reason: ReasonKeyword, Token: "model"}}

	got := FormatSuggestions(Decision{Proceed: true}, ranked)
	for _, want := range []string{"rails-dev-guidelines", "high", `keyword: "model"`, "Guidelines for models"} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q:\n%s", want, got)
		}
	}
	if strings.Contains(got, "Acknowledge") {
		t.Errorf("suggest-only output must not demand acknowledgment:\n%s", got)
	}
}

func TestFormatSuggestions_Blocking(t *testing.T) {
	r := &skills.Rule{Name: "migration-safety", Mode: skills.ModeBlock, Priority: skills.PriorityHigh}
	ranked := []Match{{Rule: r, Reason: ReasonKeyword, Token: "migration"}}
	decision := Decision{Proceed: false, MustAcknowledge: []*skills.Rule{r}}

	got := FormatSuggestions(decision, ranked)
	if !strings.Contains(got, "Acknowledge before proceeding: migration-safety") {
		t.Errorf("output missing acknowledgment line:\n%s", got)
	}
}
