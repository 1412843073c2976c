package engine

import "github.com/skillgate/skillgate/internal/skills"

// Decision is the authorization result for one prompt context. The engine
// holds no memory of prior acknowledgments; tracking them across turns is
// the caller's responsibility.
type Decision struct {
	Proceed         bool
	MustAcknowledge []*skills.Rule
}

// Authorize applies each matched rule's mode. Any block-mode rule in the
// list clears Proceed and is added to MustAcknowledge; suggest-mode rules
// never affect Proceed.
func Authorize(ranked []Match) Decision {
	decision := Decision{Proceed: true}

	for _, m := range ranked {
		if m.Rule.Mode == skills.ModeBlock {
			decision.Proceed = false
			decision.MustAcknowledge = append(decision.MustAcknowledge, m.Rule)
		}
	}

	return decision
}
