package config

import (
	"fmt"
	"strings"
)

// Project is the unified representation of a project file.
type Project struct {
	// Script is the build script path, relative to the project directory.
	Script string
	// DefaultTarget is run when no target is given on the command line.
	DefaultTarget string

	LogLevel   string
	LogFormat  string
	LogFile    string
	LogJournal bool

	// Vars is exposed to build scripts as lbuild.vars.
	Vars map[string]string
}

// Default returns an empty project with the default logging settings.
func Default() *Project {
	return &Project{
		LogLevel:  "info",
		LogFormat: "text",
		Vars:      map[string]string{},
	}
}

// Validate checks the enumerated fields. Empty values are allowed and mean
// "not set".
func (p *Project) Validate() error {
	if p.LogLevel != "" {
		if err := ValidateLogLevel(p.LogLevel); err != nil {
			return err
		}
	}
	if p.LogFormat != "" {
		return ValidateLogFormat(p.LogFormat)
	}
	return nil
}

// Merge overlays the non-empty fields of other onto p. Vars are merged key by
// key.
func (p *Project) Merge(other *Project) {
	if other == nil {
		return
	}
	if other.Script != "" {
		p.Script = other.Script
	}
	if other.DefaultTarget != "" {
		p.DefaultTarget = other.DefaultTarget
	}
	if other.LogLevel != "" {
		p.LogLevel = other.LogLevel
	}
	if other.LogFormat != "" {
		p.LogFormat = other.LogFormat
	}
	if other.LogFile != "" {
		p.LogFile = other.LogFile
	}
	if other.LogJournal {
		p.LogJournal = true
	}
	if len(other.Vars) > 0 && p.Vars == nil {
		p.Vars = make(map[string]string, len(other.Vars))
	}
	for k, v := range other.Vars {
		p.Vars[k] = v
	}
}

// ValidateLogLevel reports whether level is one of debug, info, warn, error.
func ValidateLogLevel(level string) error {
	switch strings.ToLower(level) {
	case "debug", "info", "warn", "error":
		return nil
	}
	return fmt.Errorf("invalid log-level %q: must be 'debug', 'info', 'warn', or 'error'", level)
}

// ValidateLogFormat reports whether format is text or json.
func ValidateLogFormat(format string) error {
	switch strings.ToLower(format) {
	case "text", "json":
		return nil
	}
	return fmt.Errorf("invalid log-format %q: must be 'text' or 'json'", format)
}
