// Package skills holds the activation rules that decide when a piece of
// domain guidance is relevant. Rules are declared in YAML, one record per
// skill, validated once at load time and read-only afterwards.
package skills

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// Mode controls how an activated skill is presented to the host
type Mode string

// Activation modes
const (
	ModeSuggest Mode = "suggest" // advisory, host may proceed
	ModeBlock   Mode = "block"   // host must acknowledge before proceeding
)

// ParseMode validates a mode string. Empty defaults to suggest.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case "":
		return ModeSuggest, nil
	case ModeSuggest, ModeBlock:
		return Mode(s), nil
	default:
		return "", fmt.Errorf("invalid mode %q (must be suggest or block)", s)
	}
}

// Priority orders activated skills in the suggestion list
type Priority string

// Priority levels, high surfaces first
const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// ParsePriority validates a priority string. Empty defaults to medium.
func ParsePriority(s string) (Priority, error) {
	switch Priority(s) {
	case "":
		return PriorityMedium, nil
	case PriorityHigh, PriorityMedium, PriorityLow:
		return Priority(s), nil
	default:
		return "", fmt.Errorf("invalid priority %q (must be high, medium, or low)", s)
	}
}

// Rank returns the sort ordinal for a priority, lower ranks surface first.
func (p Priority) Rank() int {
	switch p {
	case PriorityHigh:
		return 0
	case PriorityMedium:
		return 1
	default:
		return 2
	}
}

// Rule is the activation rule for a single skill
type Rule struct {
	Name            string   `yaml:"name"`
	Description     string   `yaml:"description,omitempty"`
	Mode            Mode     `yaml:"mode,omitempty"`
	Priority        Priority `yaml:"priority,omitempty"`
	Keywords        []string `yaml:"keywords,omitempty"`
	IntentPatterns  []string `yaml:"intent_patterns,omitempty"`
	FilePatterns    []string `yaml:"file_patterns,omitempty"`
	ExcludePatterns []string `yaml:"exclude_patterns,omitempty"`
	Checks          []string `yaml:"checks,omitempty"`
}

// HasTriggers reports whether the rule can ever fire
func (r *Rule) HasTriggers() bool {
	return len(r.Keywords) > 0 || len(r.IntentPatterns) > 0 || len(r.FilePatterns) > 0
}

// File is the on-disk shape of a skills document
type File struct {
	Version string      `yaml:"version,omitempty"`
	Skills  []yaml.Node `yaml:"skills"`
}
