package engine

import (
	"fmt"
	"strings"
)

// FormatSuggestions renders the decision for a human. An empty suggestion
// list is a normal outcome and yields an empty string, never an error.
func FormatSuggestions(decision Decision, ranked []Match) string {
	if len(ranked) == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString("Relevant skills:\n")
	for _, m := range ranked {
		fmt.Fprintf(&b, "  - %s [%s] (%s: %q)\n", m.Rule.Name, m.Rule.Priority, m.Reason, m.Token)
		if m.Rule.Description != "" {
			fmt.Fprintf(&b, "    %s\n", m.Rule.Description)
		}
	}

	if !decision.Proceed {
		names := make([]string, len(decision.MustAcknowledge))
		for i, r := range decision.MustAcknowledge {
			names[i] = r.Name
		}
		fmt.Fprintf(&b, "Acknowledge before proceeding: %s\n", strings.Join(names, ", "))
	}

	return b.String()
}
