// Package engine implements the per-event activation pipeline: context
// snapshot, rule matching, ranking, and the authorization decision.
package engine

import (
	"github.com/skillgate/skillgate/internal/logger"
	"github.com/skillgate/skillgate/internal/skills"
)

// Engine runs the activation pipeline against a loaded skills store.
// The store is read-only; one engine may serve concurrent independent
// sessions.
type Engine struct {
	store   *skills.Store
	matcher *Matcher
}

// New creates an engine over a loaded store. A nil store behaves as an
// empty one (degraded no-rules mode).
func New(store *skills.Store) *Engine {
	if store == nil {
		store = skills.Empty()
	}
	return &Engine{
		store:   store,
		matcher: NewMatcher(),
	}
}

// Store returns the engine's rule store
func (e *Engine) Store() *skills.Store {
	return e.store
}

// HandlePrompt runs the full prompt pipeline: snapshot, evaluate, rank,
// authorize. The returned matches are the ranked suggestion list.
func (e *Engine) HandlePrompt(text string) (Decision, []Match) {
	snap := PromptSnapshot(text)
	ranked := Rank(e.matcher.Evaluate(snap, e.store))
	decision := Authorize(ranked)

	logger.Debug().
		Int("matches", len(ranked)).
		Bool("proceed", decision.Proceed).
		Msg("Evaluated prompt")

	return decision, ranked
}

// EvaluateFileOp matches a file operation against the store's file
// patterns. Used directly and by the session tracker to derive pending
// checks from edits.
func (e *Engine) EvaluateFileOp(path string, op Operation) ([]Match, error) {
	snap, err := FileOpSnapshot(path, op)
	if err != nil {
		return nil, err
	}
	return Rank(e.matcher.Evaluate(snap, e.store)), nil
}
