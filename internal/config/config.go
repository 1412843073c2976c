package config

// Config represents the complete skillgate configuration
type Config struct {
	Version  string   `yaml:"version"`
	Settings Settings `yaml:"settings"`
}

// Settings contains global configuration settings
type Settings struct {
	LogLevel string `yaml:"log_level"`
	LogFile  string `yaml:"log_file,omitempty"`

	// RemindEvery is the reminder cadence: pending checks surface after
	// every Nth recorded edit. 1 surfaces on every edit.
	RemindEvery int `yaml:"remind_every"`

	Journal JournalSettings `yaml:"journal"`
}

// JournalSettings controls the optional session journal
type JournalSettings struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path,omitempty"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Version: "1",
		Settings: Settings{
			LogLevel:    "info",
			RemindEvery: 1,
		},
	}
}
