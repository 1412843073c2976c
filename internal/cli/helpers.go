package cli

import (
	"errors"
	"fmt"

	"github.com/skillgate/skillgate/internal/config"
	"github.com/skillgate/skillgate/internal/logger"
	"github.com/skillgate/skillgate/internal/skills"
)

// loadSettings loads the merged settings config, falling back to defaults
// when nothing is configured.
func loadSettings() (*config.Config, *config.Loader, error) {
	loader, err := config.NewLoader(projectDir)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create config loader: %w", err)
	}

	var cfg *config.Config
	if configFile != "" {
		cfg, err = loader.LoadFromFile(configFile)
	} else {
		cfg, err = loader.Load()
	}
	if err != nil {
		cfg = config.DefaultConfig()
	}

	return cfg, loader, nil
}

// initLogging wires the logger from settings and the --verbose flag
func initLogging(cfg *config.Config) {
	if verbose {
		_ = logger.Init("debug", cfg.Settings.LogFile)
	} else if cfg.Settings.LogLevel != "" {
		_ = logger.Init(cfg.Settings.LogLevel, cfg.Settings.LogFile)
	} else {
		logger.InitQuiet()
	}
}

// loadStore loads and merges the global and project skills documents.
// An unparsable document disables activation for the session: the engine
// runs with an empty store rather than failing the host.
func loadStore(loader *config.Loader) *skills.Store {
	store := skills.Empty()

	for _, path := range []string{loader.GlobalSkillsPath(), loader.ProjectSkillsPath()} {
		if !config.Exists(path) {
			continue
		}
		loaded, err := skills.Load(path)
		if err != nil {
			var cfgErr *skills.ConfigError
			if errors.As(err, &cfgErr) {
				logger.Error().Err(err).Str("path", path).Msg("Skills source unusable, activation disabled for this source")
				continue
			}
			logger.Error().Err(err).Str("path", path).Msg("Failed to load skills")
			continue
		}
		store = skills.Merge(store, loaded)
	}

	logger.Info().
		Int("rules", store.Len()).
		Int("warnings", len(store.Warnings())).
		Msg("Skills loaded")

	return store
}
