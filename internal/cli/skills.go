package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/skillgate/skillgate/internal/engine"
	"github.com/skillgate/skillgate/internal/logger"
)

var skillsCmd = &cobra.Command{
	Use:   "skills",
	Short: "Manage skill activation rules",
	Long:  "Commands for listing and testing skill activation rules.",
}

var skillsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all loaded skill rules",
	RunE:  runSkillsList,
}

var (
	testPrompt string
	testPath   string
	testOp     string
)

var skillsTestCmd = &cobra.Command{
	Use:   "test",
	Short: "Test the rules against a sample prompt or file path",
	Long: `Test the loaded skill rules against a sample event.

Examples:
  skillgate skills test --prompt "create a model for orders"
  skillgate skills test --path app/models/user.rb --op edit`,
	RunE: runSkillsTest,
}

func init() {
	skillsTestCmd.Flags().StringVar(&testPrompt, "prompt", "", "Prompt text to evaluate")
	skillsTestCmd.Flags().StringVar(&testPath, "path", "", "File path to evaluate")
	skillsTestCmd.Flags().StringVar(&testOp, "op", "edit", "File operation (edit, write, read)")

	skillsCmd.AddCommand(skillsListCmd)
	skillsCmd.AddCommand(skillsTestCmd)
	rootCmd.AddCommand(skillsCmd)
}

func runSkillsList(cmd *cobra.Command, args []string) error {
	cfg, loader, err := loadSettings()
	if err != nil {
		return err
	}
	initLogging(cfg)

	store := loadStore(loader)

	if store.Len() == 0 {
		fmt.Println("No skill rules loaded.")
		fmt.Println("Run 'skillgate init' to create a starter configuration.")
		return nil
	}

	fmt.Println("Loaded Skill Rules")
	fmt.Println("==================")
	for _, r := range store.Rules() {
		fmt.Printf("  - %s [%s] (priority: %s)\n", r.Name, r.Mode, r.Priority)
		if r.Description != "" {
			fmt.Printf("    %s\n", r.Description)
		}
		if len(r.Keywords) > 0 {
			fmt.Printf("    keywords: %v\n", r.Keywords)
		}
		if len(r.IntentPatterns) > 0 {
			fmt.Printf("    intent patterns: %v\n", r.IntentPatterns)
		}
		if len(r.FilePatterns) > 0 {
			fmt.Printf("    file patterns: %v (exclude: %v)\n", r.FilePatterns, r.ExcludePatterns)
		}
		if len(r.Checks) > 0 {
			fmt.Printf("    checks: %v\n", r.Checks)
		}
	}

	if warnings := store.Warnings(); len(warnings) > 0 {
		fmt.Println("\nWarnings:")
		for _, w := range warnings {
			fmt.Printf("  ! %s\n", w)
		}
	}

	return nil
}

func runSkillsTest(cmd *cobra.Command, args []string) error {
	if (testPrompt == "") == (testPath == "") {
		return fmt.Errorf("exactly one of --prompt or --path is required")
	}

	cfg, loader, err := loadSettings()
	if err != nil {
		return err
	}
	// Always debug for rule testing
	_ = logger.Init("debug", cfg.Settings.LogFile)

	eng := engine.New(loadStore(loader))

	var decision engine.Decision
	var ranked []engine.Match

	if testPrompt != "" {
		decision, ranked = eng.HandlePrompt(testPrompt)
	} else {
		op, err := engine.ParseOperation(testOp)
		if err != nil {
			return err
		}
		ranked, err = eng.EvaluateFileOp(testPath, op)
		if err != nil {
			return err
		}
		decision = engine.Authorize(ranked)
	}

	fmt.Println("\nTest Result:")
	fmt.Println("============")

	if len(ranked) == 0 {
		fmt.Println("No rules matched.")
		return nil
	}

	fmt.Print(engine.FormatSuggestions(decision, ranked))
	return nil
}
