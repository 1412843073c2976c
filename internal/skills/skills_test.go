package skills

import "testing"

func TestParseMode(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Mode
		wantErr bool
	}{
		{name: "suggest", input: "suggest", want: ModeSuggest},
		{name: "block", input: "block", want: ModeBlock},
		{name: "empty defaults to suggest", input: "", want: ModeSuggest},
		{name: "unknown mode", input: "enforce", wantErr: true},
		{name: "wrong case", input: "Block", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseMode(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Errorf("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Errorf("unexpected error: %v", err)
				return
			}
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestParsePriority(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Priority
		wantErr bool
	}{
		{name: "high", input: "high", want: PriorityHigh},
		{name: "medium", input: "medium", want: PriorityMedium},
		{name: "low", input: "low", want: PriorityLow},
		{name: "empty defaults to medium", input: "", want: PriorityMedium},
		{name: "unknown priority", input: "urgent", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParsePriority(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Errorf("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Errorf("unexpected error: %v", err)
				return
			}
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestPriorityRank(t *testing.T) {
	if PriorityHigh.Rank() >= PriorityMedium.Rank() {
		t.Error("high must rank before medium")
	}
	if PriorityMedium.Rank() >= PriorityLow.Rank() {
		t.Error("medium must rank before low")
	}
}

func TestRule_HasTriggers(t *testing.T) {
	tests := []struct {
		name string
		rule Rule
		want bool
	}{
		{name: "no triggers", rule: Rule{Name: "empty"}, want: false},
		{name: "keywords only", rule: Rule{Keywords: []string{"model"}}, want: true},
		{name: "intent patterns only", rule: Rule{IntentPatterns: []string{"create.*model"}}, want: true},
		{name: "file patterns only", rule: Rule{FilePatterns: []string{"app/**/*"}}, want: true},
		{name: "exclude patterns alone do not count", rule: Rule{ExcludePatterns: []string{"spec/**/*"}}, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.rule.HasTriggers(); got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}
