package engine

import (
	"regexp"
	"sync"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/skillgate/skillgate/internal/skills"
)

// Reason records which trigger kind fired for a match
type Reason string

// Match reasons in precedence order
const (
	ReasonKeyword     Reason = "keyword"
	ReasonIntent      Reason = "intent"
	ReasonFilePattern Reason = "file-pattern"
)

// Match records one rule firing against one snapshot. Excluded matches
// hit an exclude pattern and never surface in ranked output.
type Match struct {
	Rule     *skills.Rule
	Reason   Reason
	Token    string
	Excluded bool
}

// Matcher evaluates rules against context snapshots. Evaluation never
// mutates the store; a Matcher is safe for concurrent use across
// independent snapshots.
type Matcher struct {
	cache sync.Map // caches compiled regex patterns
}

// NewMatcher creates a new matcher
func NewMatcher() *Matcher {
	return &Matcher{}
}

// Evaluate runs every rule in the store against the snapshot. A rule
// appears at most once in the output; when several triggers fire, the
// first satisfied reason in precedence order (keyword > intent >
// file-pattern) is recorded. Output order follows rule declaration order,
// so identical inputs always yield identical output.
func (m *Matcher) Evaluate(snap Snapshot, store *skills.Store) []Match {
	if store == nil {
		return nil
	}

	var matches []Match
	rules := store.Rules()
	for i := range rules {
		rule := &rules[i]

		var match *Match
		switch snap.Kind {
		case KindPrompt:
			match = m.matchPrompt(rule, snap.Prompt)
		case KindFileOp:
			match = m.matchFileOp(rule, snap.Path)
		}

		if match != nil {
			matches = append(matches, *match)
		}
	}

	return matches
}

func (m *Matcher) matchPrompt(rule *skills.Rule, prompt string) *Match {
	// Keyword takes precedence over intent as the reported reason
	for _, kw := range rule.Keywords {
		if m.keywordMatches(kw, prompt) {
			return &Match{Rule: rule, Reason: ReasonKeyword, Token: kw}
		}
	}

	for _, p := range rule.IntentPatterns {
		re, err := m.getOrCompile("(?i)" + p)
		if err != nil {
			// Validated at load time; an uncompilable pattern here means
			// the rule bypassed the store, so treat it as a non-match.
			continue
		}
		if re.MatchString(prompt) {
			return &Match{Rule: rule, Reason: ReasonIntent, Token: p}
		}
	}

	return nil
}

func (m *Matcher) matchFileOp(rule *skills.Rule, path string) *Match {
	var token string
	for _, p := range rule.FilePatterns {
		if ok, err := doublestar.Match(p, path); err == nil && ok {
			token = p
			break
		}
	}
	if token == "" {
		return nil
	}

	// Exclude always wins, regardless of how many includes matched
	for _, p := range rule.ExcludePatterns {
		if ok, err := doublestar.Match(p, path); err == nil && ok {
			return &Match{Rule: rule, Reason: ReasonFilePattern, Token: token, Excluded: true}
		}
	}

	return &Match{Rule: rule, Reason: ReasonFilePattern, Token: token}
}

// keywordMatches reports whether the keyword appears in the text as a
// case-insensitive whole word.
func (m *Matcher) keywordMatches(keyword, text string) bool {
	if keyword == "" {
		return false
	}
	re, err := m.getOrCompile(`(?i)\b` + regexp.QuoteMeta(keyword) + `\b`)
	if err != nil {
		return false
	}
	return re.MatchString(text)
}

// getOrCompile retrieves a compiled regex from cache or compiles it
func (m *Matcher) getOrCompile(pattern string) (*regexp.Regexp, error) {
	if cached, ok := m.cache.Load(pattern); ok {
		return cached.(*regexp.Regexp), nil
	}

	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, err
	}

	m.cache.Store(pattern, re)
	return re, nil
}
