package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/skillgate/skillgate/internal/session"
)

var sessionCmd = &cobra.Command{
	Use:   "session",
	Short: "Inspect journaled sessions",
	Long:  "Commands for auditing the optional session journal.",
}

var sessionListCmd = &cobra.Command{
	Use:   "list",
	Short: "List journaled sessions",
	RunE:  runSessionList,
}

var sessionShowCmd = &cobra.Command{
	Use:   "show <session-id>",
	Short: "Show the edits and pending checks of a session",
	Args:  cobra.ExactArgs(1),
	RunE:  runSessionShow,
}

var sessionClearCmd = &cobra.Command{
	Use:   "clear <session-id>",
	Short: "Remove a session from the journal",
	Args:  cobra.ExactArgs(1),
	RunE:  runSessionClear,
}

func init() {
	sessionCmd.AddCommand(sessionListCmd)
	sessionCmd.AddCommand(sessionShowCmd)
	sessionCmd.AddCommand(sessionClearCmd)
	rootCmd.AddCommand(sessionCmd)
}

func openJournal() (*session.SQLiteJournal, error) {
	cfg, _, err := loadSettings()
	if err != nil {
		return nil, err
	}
	initLogging(cfg)
	return session.OpenJournal(cfg.Settings.Journal.Path)
}

func runSessionList(cmd *cobra.Command, args []string) error {
	journal, err := openJournal()
	if err != nil {
		return err
	}
	defer func() { _ = journal.Close() }()

	sessions, err := journal.ListSessions()
	if err != nil {
		return err
	}

	if len(sessions) == 0 {
		fmt.Println("No journaled sessions.")
		return nil
	}

	for _, s := range sessions {
		fmt.Printf("%s  edits: %-4d last: %s\n",
			s.SessionID, s.Edits, s.LastEditAt.Format(time.RFC3339))
	}

	return nil
}

func runSessionShow(cmd *cobra.Command, args []string) error {
	journal, err := openJournal()
	if err != nil {
		return err
	}
	defer func() { _ = journal.Close() }()

	log, err := journal.LoadLog(args[0])
	if err != nil {
		return err
	}

	if len(log.Edits) == 0 && len(log.PendingChecks) == 0 {
		fmt.Printf("No journaled activity for session %s.\n", args[0])
		return nil
	}

	fmt.Printf("Session %s\n", log.SessionID)
	fmt.Println("Modified files:")
	for _, e := range log.Edits {
		fmt.Printf("  %s  %-5s %s\n", e.At.Format(time.RFC3339), e.Op, e.Path)
	}

	if len(log.PendingChecks) > 0 {
		fmt.Println("Pending checks:")
		for _, c := range log.PendingChecks {
			fmt.Printf("  - %s\n", c)
		}
	}

	return nil
}

func runSessionClear(cmd *cobra.Command, args []string) error {
	journal, err := openJournal()
	if err != nil {
		return err
	}
	defer func() { _ = journal.Close() }()

	if err := journal.DeleteSession(args[0]); err != nil {
		return err
	}

	fmt.Printf("Cleared session %s\n", args[0])
	return nil
}
