package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/skillgate/skillgate/internal/config"
	"github.com/skillgate/skillgate/internal/logger"
	"github.com/skillgate/skillgate/internal/skills"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate configuration and skills files",
	Long: `Validate skillgate configuration and skills files.

Checks that the files are valid YAML, that rule names are unique, that
every rule has at least one trigger, and that all glob and regex patterns
compile correctly.`,
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	logger.InitQuiet()

	loader, err := config.NewLoader(projectDir)
	if err != nil {
		return fmt.Errorf("failed to create config loader: %w", err)
	}

	found := false

	for _, path := range []string{loader.GlobalConfigPath(), loader.ProjectConfigPath()} {
		if !config.Exists(path) {
			continue
		}
		found = true
		fmt.Printf("Validating config: %s\n", path)
		if _, err := loader.LoadFromFile(path); err != nil {
			return fmt.Errorf("  invalid: %w", err)
		}
		fmt.Println("  Valid!")
	}

	for _, path := range []string{loader.GlobalSkillsPath(), loader.ProjectSkillsPath()} {
		if !config.Exists(path) {
			continue
		}
		found = true
		fmt.Printf("Validating skills: %s\n", path)
		store, err := skills.Load(path)
		if err != nil {
			return fmt.Errorf("  invalid: %w", err)
		}
		if warnings := store.Warnings(); len(warnings) > 0 {
			for _, w := range warnings {
				fmt.Printf("  ! %s\n", w)
			}
			fmt.Printf("  Loaded %d rules with %d skipped.\n", store.Len(), len(warnings))
			continue
		}
		fmt.Printf("  Valid! (%d rules)\n", store.Len())
	}

	if !found {
		fmt.Println("No configuration files found.")
		fmt.Println("Run 'skillgate init' to create one.")
	}

	return nil
}
