package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/skillgate/skillgate/internal/config"
	"github.com/skillgate/skillgate/internal/engine"
	"github.com/skillgate/skillgate/internal/logger"
	"github.com/skillgate/skillgate/internal/session"
)

var checkEvent string

// checkInput is the JSON envelope the host writes to stdin
type checkInput struct {
	SessionID string `json:"session_id,omitempty"`
	Prompt    string `json:"prompt,omitempty"`
	FilePath  string `json:"file_path,omitempty"`
	Operation string `json:"operation,omitempty"`
}

// checkOutput is the decision envelope written to stdout
type checkOutput struct {
	Proceed         bool         `json:"proceed"`
	MustAcknowledge []string     `json:"mustAcknowledge,omitempty"`
	Suggestions     []suggestion `json:"suggestions,omitempty"`
	ChecksDue       []string     `json:"checksDue,omitempty"`
	Message         string       `json:"message,omitempty"`
}

type suggestion struct {
	Skill       string `json:"skill"`
	Priority    string `json:"priority"`
	Mode        string `json:"mode"`
	Reason      string `json:"reason"`
	Token       string `json:"token"`
	Description string `json:"description,omitempty"`
}

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Evaluate a session event against the skill rules",
	Long: `Evaluate a session event against the configured skill rules.

This command reads a JSON event from stdin, runs the activation pipeline,
and writes a decision envelope as JSON to stdout. Failures degrade to an
empty proceed decision so the host is never blocked.

Examples:
  echo '{"prompt": "create a model for orders"}' | skillgate check --event prompt
  echo '{"file_path": "app/models/user.rb", "operation": "edit"}' | skillgate check --event file-edit
  echo '{"session_id": "abc"}' | skillgate check --event session-end`,
	RunE: runCheck,
}

func init() {
	checkCmd.Flags().StringVarP(&checkEvent, "event", "e", "", "Event type: prompt, file-edit, or session-end (required)")
	_ = checkCmd.MarkFlagRequired("event")
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	if checkEvent != "prompt" && checkEvent != "file-edit" && checkEvent != "session-end" {
		return fmt.Errorf("invalid event type: %s (must be prompt, file-edit, or session-end)", checkEvent)
	}

	cfg, loader, err := loadSettings()
	if err != nil {
		return err
	}
	initLogging(cfg)

	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return fmt.Errorf("failed to read input: %w", err)
	}

	var input checkInput
	if err := json.Unmarshal(data, &input); err != nil {
		// Malformed input must not block the host
		logger.Warn().Err(err).Msg("Malformed event input, emitting empty decision")
		return emit(checkOutput{Proceed: true})
	}

	eng := engine.New(loadStore(loader))

	switch checkEvent {
	case "prompt":
		decision, ranked := eng.HandlePrompt(input.Prompt)
		return emit(promptOutput(decision, ranked))
	case "session-end":
		return runSessionEnd(cfg, eng, input)
	default:
		return runFileEdit(cfg, eng, input)
	}
}

// newSessionTracker builds a tracker for one CLI invocation, restoring
// journaled state (edits, pending checks, throttle progress) when a
// journal is configured and a session id is given.
func newSessionTracker(cfg *config.Config, eng *engine.Engine, sessionID string) (*session.Tracker, func()) {
	closeJournal := func() {}
	var journal session.Journal
	var sqlj *session.SQLiteJournal
	if cfg.Settings.Journal.Enabled {
		j, err := session.OpenJournal(cfg.Settings.Journal.Path)
		if err != nil {
			logger.Warn().Err(err).Msg("Failed to open session journal, continuing without it")
		} else {
			journal = j
			sqlj = j
			closeJournal = func() { _ = j.Close() }
		}
	}

	tracker := session.NewTracker(sessionID, eng, cfg.Settings.RemindEvery, journal)
	if sqlj != nil && sessionID != "" {
		if log, err := sqlj.LoadLog(sessionID); err == nil {
			tracker.Restore(log)
		}
	}
	return tracker, closeJournal
}

func runFileEdit(cfg *config.Config, eng *engine.Engine, input checkInput) error {
	tracker, closeJournal := newSessionTracker(cfg, eng, input.SessionID)
	defer closeJournal()

	op := engine.Operation(input.Operation)
	if input.Operation == "" {
		op = engine.OpEdit
	}

	if err := tracker.RecordEdit(input.FilePath, op); err != nil {
		var ctxErr *engine.InvalidContextError
		if errors.As(err, &ctxErr) {
			logger.Warn().Err(err).Msg("Rejected malformed file-op context")
			return emit(checkOutput{Proceed: true})
		}
		return err
	}

	due := tracker.ChecksDue()
	out := checkOutput{Proceed: true, ChecksDue: due}
	if len(due) > 0 {
		out.Message = fmt.Sprintf("Checks due: %s", strings.Join(due, ", "))
	}
	return emit(out)
}

// runSessionEnd flushes every pending check for the session regardless
// of the reminder cadence, so throttled checks are never lost.
func runSessionEnd(cfg *config.Config, eng *engine.Engine, input checkInput) error {
	tracker, closeJournal := newSessionTracker(cfg, eng, input.SessionID)
	defer closeJournal()

	due := tracker.Flush()
	out := checkOutput{Proceed: true, ChecksDue: due}
	if len(due) > 0 {
		out.Message = fmt.Sprintf("Checks due before session end: %s", strings.Join(due, ", "))
	}
	return emit(out)
}

func promptOutput(decision engine.Decision, ranked []engine.Match) checkOutput {
	out := checkOutput{
		Proceed: decision.Proceed,
		Message: engine.FormatSuggestions(decision, ranked),
	}
	for _, r := range decision.MustAcknowledge {
		out.MustAcknowledge = append(out.MustAcknowledge, r.Name)
	}
	for _, m := range ranked {
		out.Suggestions = append(out.Suggestions, suggestion{
			Skill:       m.Rule.Name,
			Priority:    string(m.Rule.Priority),
			Mode:        string(m.Rule.Mode),
			Reason:      string(m.Reason),
			Token:       m.Token,
			Description: m.Rule.Description,
		})
	}
	return out
}

func emit(out checkOutput) error {
	data, err := json.Marshal(out)
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	fmt.Println(string(data))
	return nil
}
