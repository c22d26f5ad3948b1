package app

import (
	"github.com/vk/lbuild/internal/config"
)

// Config holds the command-line settings for an App instance. Empty fields
// fall back to the project file, then to defaults.
type Config struct {
	Dir        string // project directory
	ScriptPath string // build script, relative to Dir
	ConfigPath string // project file, relative to Dir
	Target     string
	List       bool

	LogFormat  string
	LogLevel   string
	LogFile    string
	LogJournal bool
}

// NewConfig validates cfg and fills in defaults.
func NewConfig(cfg Config) (*Config, error) {
	if cfg.Dir == "" {
		cfg.Dir = "."
	}
	if cfg.LogLevel != "" {
		if err := config.ValidateLogLevel(cfg.LogLevel); err != nil {
			return nil, err
		}
	}
	if cfg.LogFormat != "" {
		if err := config.ValidateLogFormat(cfg.LogFormat); err != nil {
			return nil, err
		}
	}
	return &cfg, nil
}

// settings overlays the command-line flags onto the project file.
func (c *Config) settings(project *config.Project) *config.Project {
	s := config.Default()
	s.Merge(project)
	s.Merge(&config.Project{
		Script:     c.ScriptPath,
		LogLevel:   c.LogLevel,
		LogFormat:  c.LogFormat,
		LogFile:    c.LogFile,
		LogJournal: c.LogJournal,
	})
	return s
}
