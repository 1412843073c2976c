package engine

import (
	"testing"

	"github.com/skillgate/skillgate/internal/skills"
)

func rule(name string, priority skills.Priority) *skills.Rule {
	return &skills.Rule{Name: name, Mode: skills.ModeSuggest, Priority: priority}
}

func TestRank_PriorityOrder(t *testing.T) {
	matches := []Match{
		{Rule: rule("low-rule", skills.PriorityLow), Reason: ReasonKeyword},
		{Rule: rule("high-rule", skills.PriorityHigh), Reason: ReasonKeyword},
		{Rule: rule("medium-rule", skills.PriorityMedium), Reason: ReasonKeyword},
	}

	ranked := Rank(matches)
	want := []string{"high-rule", "medium-rule", "low-rule"}
	if len(ranked) != len(want) {
		t.Fatalf("got %d matches, want %d", len(ranked), len(want))
	}
	for i, name := range want {
		if ranked[i].Rule.Name != name {
			t.Errorf("ranked[%d] = %q, want %q", i, ranked[i].Rule.Name, name)
		}
	}
}

func TestRank_StableForEqualPriority(t *testing.T) {
	// Declaration order must survive the sort for equal priorities
	matches := []Match{
		{Rule: rule("first", skills.PriorityMedium)},
		{Rule: rule("second", skills.PriorityMedium)},
		{Rule: rule("third", skills.PriorityMedium)},
	}

	ranked := Rank(matches)
	for i, name := range []string{"first", "second", "third"} {
		if ranked[i].Rule.Name != name {
			t.Errorf("ranked[%d] = %q, want %q", i, ranked[i].Rule.Name, name)
		}
	}
}

func TestRank_DropsExcluded(t *testing.T) {
	matches := []Match{
		{Rule: rule("visible", skills.PriorityLow)},
		{Rule: rule("hidden", skills.PriorityHigh), Excluded: true},
	}

	ranked := Rank(matches)
	if len(ranked) != 1 {
		t.Fatalf("got %d matches, want 1", len(ranked))
	}
	if ranked[0].Rule.Name != "visible" {
		t.Errorf("got %q, want visible", ranked[0].Rule.Name)
	}
}

func TestRank_DeduplicatesByName(t *testing.T) {
	shared := rule("dup", skills.PriorityMedium)
	matches := []Match{
		{Rule: shared, Reason: ReasonKeyword, Token: "first"},
		{Rule: shared, Reason: ReasonIntent, Token: "second"},
		{Rule: rule("other", skills.PriorityLow)},
	}

	ranked := Rank(matches)
	if len(ranked) != 2 {
		t.Fatalf("got %d matches, want 2", len(ranked))
	}
	if ranked[0].Rule.Name != "dup" || ranked[0].Token != "first" {
		t.Errorf("got %q/%q, want first occurrence kept", ranked[0].Rule.Name, ranked[0].Token)
	}
}

func TestRank_DedupKeepsHighestPriority(t *testing.T) {
	// Two evaluation passes batched together may carry the same rule name
	// at different priorities; the higher one wins.
	matches := []Match{
		{Rule: rule("dup", skills.PriorityLow), Token: "low-pass"},
		{Rule: rule("dup", skills.PriorityHigh), Token: "high-pass"},
	}

	ranked := Rank(matches)
	if len(ranked) != 1 {
		t.Fatalf("got %d matches, want 1", len(ranked))
	}
	if ranked[0].Token != "high-pass" {
		t.Errorf("got token %q, want high-pass", ranked[0].Token)
	}
}

func TestRank_Empty(t *testing.T) {
	if ranked := Rank(nil); len(ranked) != 0 {
		t.Errorf("got %v, want empty", ranked)
	}
}
