package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/skillgate/skillgate/internal/config"
	"github.com/skillgate/skillgate/internal/skills"
)

var initGlobal bool

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize skillgate configuration",
	Long: `Initialize skillgate configuration files.

By default, creates .skillgate/config.yaml and .skillgate/skills.yaml in
the current directory. Use --global to create them under ~/.skillgate/
instead.`,
	RunE: runInit,
}

func init() {
	initCmd.Flags().BoolVarP(&initGlobal, "global", "g", false, "Create global config in ~/.skillgate/")
	rootCmd.AddCommand(initCmd)
}

func runInit(cmd *cobra.Command, args []string) error {
	var baseDir string

	if initGlobal {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("failed to get home directory: %w", err)
		}
		baseDir = filepath.Join(homeDir, ".skillgate")
	} else {
		cwd, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("failed to get current directory: %w", err)
		}
		baseDir = filepath.Join(cwd, ".skillgate")
	}

	configPath := filepath.Join(baseDir, "config.yaml")
	skillsPath := filepath.Join(baseDir, "skills.yaml")

	for _, path := range []string{configPath, skillsPath} {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("file already exists: %s", path)
		}
	}

	if err := os.MkdirAll(baseDir, 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	cfgData, err := yaml.Marshal(config.DefaultConfig())
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(configPath, cfgData, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	skillsData, err := yaml.Marshal(starterSkills())
	if err != nil {
		return fmt.Errorf("failed to marshal skills: %w", err)
	}
	if err := os.WriteFile(skillsPath, skillsData, 0644); err != nil {
		return fmt.Errorf("failed to write skills: %w", err)
	}

	fmt.Printf("Created config file: %s\n", configPath)
	fmt.Printf("Created skills file: %s\n", skillsPath)
	fmt.Println("\nNext steps:")
	fmt.Println("1. Edit skills.yaml to describe when each skill should activate")
	fmt.Println("2. Wire your host tool to pipe events into 'skillgate check'")
	fmt.Println("3. Run 'skillgate skills test' to try rules against sample events")

	return nil
}

// starterSkillsDoc mirrors skills.File but with concrete rule entries so
// the generated YAML is directly editable.
type starterSkillsDoc struct {
	Version string        `yaml:"version"`
	Skills  []skills.Rule `yaml:"skills"`
}

func starterSkills() *starterSkillsDoc {
	return &starterSkillsDoc{
		Version: "1",
		Skills: []skills.Rule{
			{
				Name:        "dev-guidelines",
				Description: "Project development guidelines for models and controllers",
				Mode:        skills.ModeSuggest,
				Priority:    skills.PriorityHigh,
				Keywords:    []string{"model", "controller", "migration"},
				IntentPatterns: []string{
					`(create|add|generate)\s+an?\s+(endpoint|route)`,
				},
				FilePatterns:    []string{"app/models/**/*", "app/controllers/**/*"},
				ExcludePatterns: []string{"spec/**/*"},
				Checks:          []string{"run-model-specs"},
			},
			{
				Name:        "migration-safety",
				Description: "Database migrations require a reviewed rollback plan",
				Mode:        skills.ModeBlock,
				Priority:    skills.PriorityHigh,
				Keywords:    []string{"migration", "schema"},
				FilePatterns: []string{
					"db/migrate/**/*",
				},
				Checks: []string{"review-migration"},
			},
			{
				Name:         "style-guide",
				Description:  "House style for view templates",
				Mode:         skills.ModeSuggest,
				Priority:     skills.PriorityLow,
				FilePatterns: []string{"app/views/**/*"},
				Checks:       []string{"style-check"},
			},
		},
	}
}
