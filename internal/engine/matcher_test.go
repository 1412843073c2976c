package engine

import (
	"reflect"
	"testing"

	"github.com/skillgate/skillgate/internal/skills"
)

func mustStore(t *testing.T, doc string) *skills.Store {
	t.Helper()
	store, err := skills.Parse([]byte(doc), "test")
	if err != nil {
		t.Fatalf("failed to parse store: %v", err)
	}
	if len(store.Warnings()) > 0 {
		t.Fatalf("unexpected warnings: %v", store.Warnings())
	}
	return store
}

const matcherDoc = `
skills:
  - name: rails-dev-guidelines
    mode: suggest
    priority: high
    keywords: [model, controller]
    intent_patterns: ["(create|add)\\s+an?\\s+endpoint"]
    file_patterns: ["app/models/**/*"]
    exclude_patterns: ["spec/**/*"]
  - name: style-guide
    priority: low
    file_patterns: ["app/views/**/*"]
  - name: migration-safety
    mode: block
    priority: high
    keywords: [migration]
`

func TestEvaluate_PromptKeyword(t *testing.T) {
	m := NewMatcher()
	store := mustStore(t, matcherDoc)

	matches := m.Evaluate(PromptSnapshot("create a model for orders"), store)
	if len(matches) != 1 {
		t.Fatalf("got %d matches, want 1", len(matches))
	}

	got := matches[0]
	if got.Rule.Name != "rails-dev-guidelines" {
		t.Errorf("got rule %q", got.Rule.Name)
	}
	if got.Reason != ReasonKeyword {
		t.Errorf("got reason %q, want keyword", got.Reason)
	}
	if got.Token != "model" {
		t.Errorf("got token %q, want model", got.Token)
	}
	if got.Excluded {
		t.Error("prompt match must not be excluded")
	}
}

func TestEvaluate_PromptKeywordCaseInsensitive(t *testing.T) {
	m := NewMatcher()
	store := mustStore(t, matcherDoc)

	matches := m.Evaluate(PromptSnapshot("refactor the ORDERS CONTROLLER"), store)
	if len(matches) != 1 {
		t.Fatalf("got %d matches, want 1", len(matches))
	}
	if matches[0].Token != "controller" {
		t.Errorf("got token %q, want controller", matches[0].Token)
	}
}

func TestEvaluate_PromptKeywordWholeWord(t *testing.T) {
	m := NewMatcher()
	store := mustStore(t, matcherDoc)

	// "remodeling" contains "model" but not as a word
	matches := m.Evaluate(PromptSnapshot("remodeling the kitchen"), store)
	if len(matches) != 0 {
		t.Fatalf("got %d matches, want 0", len(matches))
	}
}

func TestEvaluate_PromptIntent(t *testing.T) {
	m := NewMatcher()
	store := mustStore(t, matcherDoc)

	matches := m.Evaluate(PromptSnapshot("please add an endpoint for billing"), store)
	if len(matches) != 1 {
		t.Fatalf("got %d matches, want 1", len(matches))
	}
	if matches[0].Reason != ReasonIntent {
		t.Errorf("got reason %q, want intent", matches[0].Reason)
	}
}

func TestEvaluate_KeywordPrecedesIntent(t *testing.T) {
	m := NewMatcher()
	store := mustStore(t, matcherDoc)

	// Both the keyword "model" and the intent pattern match this prompt;
	// keyword must win as the reported reason, and the rule appears once.
	matches := m.Evaluate(PromptSnapshot("add an endpoint to the model"), store)
	if len(matches) != 1 {
		t.Fatalf("got %d matches, want 1", len(matches))
	}
	if matches[0].Reason != ReasonKeyword {
		t.Errorf("got reason %q, want keyword", matches[0].Reason)
	}
	if matches[0].Token != "model" {
		t.Errorf("got token %q, want model", matches[0].Token)
	}
}

func TestEvaluate_FileOp(t *testing.T) {
	m := NewMatcher()
	store := mustStore(t, matcherDoc)

	snap, err := FileOpSnapshot("app/models/billing/order.rb", OpEdit)
	if err != nil {
		t.Fatal(err)
	}

	matches := m.Evaluate(snap, store)
	if len(matches) != 1 {
		t.Fatalf("got %d matches, want 1", len(matches))
	}
	if matches[0].Reason != ReasonFilePattern {
		t.Errorf("got reason %q, want file-pattern", matches[0].Reason)
	}
	if matches[0].Token != "app/models/**/*" {
		t.Errorf("got token %q", matches[0].Token)
	}
}

func TestEvaluate_FileOpIgnoresPromptTriggers(t *testing.T) {
	m := NewMatcher()
	store := mustStore(t, `
skills:
  - name: keyword-only
    keywords: [model]
`)

	snap, err := FileOpSnapshot("app/models/user.rb", OpEdit)
	if err != nil {
		t.Fatal(err)
	}

	if matches := m.Evaluate(snap, store); len(matches) != 0 {
		t.Errorf("keyword-only rule fired on a file op: %v", matches)
	}
}

func TestEvaluate_ExcludeAlwaysWins(t *testing.T) {
	m := NewMatcher()
	store := mustStore(t, `
skills:
  - name: models
    priority: high
    file_patterns: ["**/models/**/*"]
    exclude_patterns: ["spec/**/*"]
`)

	snap, err := FileOpSnapshot("spec/models/user_spec.rb", OpEdit)
	if err != nil {
		t.Fatal(err)
	}

	matches := m.Evaluate(snap, store)
	if len(matches) != 1 {
		t.Fatalf("got %d matches, want 1 excluded record", len(matches))
	}
	if !matches[0].Excluded {
		t.Error("match must be marked excluded")
	}

	// Excluded records never surface in ranked output
	if ranked := Rank(matches); len(ranked) != 0 {
		t.Errorf("excluded rule surfaced in ranked output: %v", ranked)
	}
}

func TestEvaluate_Deterministic(t *testing.T) {
	m := NewMatcher()
	store := mustStore(t, matcherDoc)
	snap := PromptSnapshot("the migration touches the orders model and its controller")

	first := m.Evaluate(snap, store)
	for i := 0; i < 10; i++ {
		again := m.Evaluate(snap, store)
		if !reflect.DeepEqual(first, again) {
			t.Fatalf("evaluation not deterministic: %v vs %v", first, again)
		}
	}

	// Output follows declaration order
	if len(first) != 2 {
		t.Fatalf("got %d matches, want 2", len(first))
	}
	if first[0].Rule.Name != "rails-dev-guidelines" || first[1].Rule.Name != "migration-safety" {
		t.Errorf("unexpected order: %s, %s", first[0].Rule.Name, first[1].Rule.Name)
	}
}

func TestEvaluate_NilStore(t *testing.T) {
	m := NewMatcher()
	if matches := m.Evaluate(PromptSnapshot("anything"), nil); matches != nil {
		t.Errorf("got %v, want nil", matches)
	}
}

func TestEvaluate_GlobSemantics(t *testing.T) {
	m := NewMatcher()

	tests := []struct {
		name    string
		pattern string
		path    string
		want    bool
	}{
		{name: "doublestar crosses directories", pattern: "app/models/**/*", path: "app/models/deep/nested/user.rb", want: true},
		{name: "doublestar matches direct child", pattern: "app/models/**/*", path: "app/models/user.rb", want: true},
		{name: "single star stays in segment", pattern: "app/*.rb", path: "app/models/user.rb", want: false},
		{name: "single star matches within segment", pattern: "app/models/*.rb", path: "app/models/user.rb", want: true},
		{name: "extension filter", pattern: "**/*_spec.rb", path: "spec/models/user_spec.rb", want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := mustStore(t, `
skills:
  - name: probe
    file_patterns: ["`+tt.pattern+`"]
`)
			snap, err := FileOpSnapshot(tt.path, OpEdit)
			if err != nil {
				t.Fatal(err)
			}
			got := len(m.Evaluate(snap, store)) == 1
			if got != tt.want {
				t.Errorf("pattern %q vs %q: got match=%v, want %v", tt.pattern, tt.path, got, tt.want)
			}
		})
	}
}
