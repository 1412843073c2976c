package skills

import (
	"fmt"
	"os"
	"regexp"

	"github.com/bmatcuk/doublestar/v4"
	"gopkg.in/yaml.v3"

	"github.com/skillgate/skillgate/internal/logger"
)

// ConfigError indicates the skills document itself could not be parsed.
// The engine must run in a degraded no-rules mode for the session when
// this is returned.
type ConfigError struct {
	Source string
	Err    error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("unparsable skills source %s: %v", e.Source, e.Err)
}

func (e *ConfigError) Unwrap() error { return e.Err }

// PatternError indicates a single rule's glob or regex failed to compile.
// The offending rule is skipped; the rest of the store loads normally.
type PatternError struct {
	Rule    string
	Pattern string
	Err     error
}

func (e *PatternError) Error() string {
	return fmt.Sprintf("rule %q: invalid pattern %q: %v", e.Rule, e.Pattern, e.Err)
}

func (e *PatternError) Unwrap() error { return e.Err }

// Store holds the validated rule set for a session. Read-only after load,
// safe for concurrent readers.
type Store struct {
	rules    []Rule
	warnings []string
}

// Rules returns the rules in declaration order
func (s *Store) Rules() []Rule {
	return s.rules
}

// Len returns the number of loaded rules
func (s *Store) Len() int {
	return len(s.rules)
}

// Warnings returns the per-rule problems recorded during load
func (s *Store) Warnings() []string {
	return s.warnings
}

// Empty returns a store with no rules, used for degraded operation when
// the skills source is unusable.
func Empty() *Store {
	return &Store{}
}

// Load reads and validates a skills document from disk
func Load(path string) (*Store, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &ConfigError{Source: path, Err: err}
	}
	return Parse(data, path)
}

// Parse validates a skills document. An unparsable document fails with
// ConfigError; malformed individual rules are skipped with a warning.
func Parse(data []byte, source string) (*Store, error) {
	var doc File
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, &ConfigError{Source: source, Err: err}
	}

	store := &Store{}
	seen := make(map[string]bool)

	for i := range doc.Skills {
		var rule Rule
		if err := doc.Skills[i].Decode(&rule); err != nil {
			store.skip(fmt.Sprintf("skills[%d]", i), err)
			continue
		}

		if err := validateRule(&rule, seen); err != nil {
			store.skip(rule.Name, err)
			continue
		}

		seen[rule.Name] = true
		store.rules = append(store.rules, rule)
	}

	logger.Debug().
		Int("rules", len(store.rules)).
		Int("skipped", len(store.warnings)).
		Msg("Loaded skills store")

	return store, nil
}

// Merge layers override rules on top of base. An override rule with the
// same name replaces the base rule in place; new rules append after the
// base set, preserving declaration order within each source.
func Merge(base, override *Store) *Store {
	if base == nil || base.Len() == 0 {
		return override
	}
	if override == nil || override.Len() == 0 {
		return base
	}

	merged := &Store{
		rules:    make([]Rule, len(base.rules)),
		warnings: append(append([]string{}, base.warnings...), override.warnings...),
	}
	copy(merged.rules, base.rules)

	index := make(map[string]int, len(merged.rules))
	for i, r := range merged.rules {
		index[r.Name] = i
	}

	for _, r := range override.rules {
		if i, ok := index[r.Name]; ok {
			merged.rules[i] = r
			continue
		}
		index[r.Name] = len(merged.rules)
		merged.rules = append(merged.rules, r)
	}

	return merged
}

func (s *Store) skip(name string, err error) {
	warning := fmt.Sprintf("skipped rule %s: %v", name, err)
	s.warnings = append(s.warnings, warning)
	logger.Warn().Str("rule", name).Err(err).Msg("Skipping malformed rule")
}

func validateRule(rule *Rule, seen map[string]bool) error {
	if rule.Name == "" {
		return fmt.Errorf("missing name")
	}
	if seen[rule.Name] {
		return fmt.Errorf("duplicate name")
	}

	mode, err := ParseMode(string(rule.Mode))
	if err != nil {
		return err
	}
	rule.Mode = mode

	priority, err := ParsePriority(string(rule.Priority))
	if err != nil {
		return err
	}
	rule.Priority = priority

	if !rule.HasTriggers() {
		return fmt.Errorf("no triggers: at least one of keywords, intent_patterns, or file_patterns is required")
	}

	for _, p := range rule.IntentPatterns {
		if _, err := regexp.Compile("(?i)" + p); err != nil {
			return &PatternError{Rule: rule.Name, Pattern: p, Err: err}
		}
	}
	for _, p := range rule.FilePatterns {
		if !doublestar.ValidatePattern(p) {
			return &PatternError{Rule: rule.Name, Pattern: p, Err: doublestar.ErrBadPattern}
		}
	}
	for _, p := range rule.ExcludePatterns {
		if !doublestar.ValidatePattern(p) {
			return &PatternError{Rule: rule.Name, Pattern: p, Err: doublestar.ErrBadPattern}
		}
	}

	return nil
}
