// Package tomlconfig loads lbuild.toml project files.
package tomlconfig

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/vk/lbuild/internal/config"
	"github.com/vk/lbuild/internal/ctxlog"
)

// Loader is the TOML implementation of config.Loader.
type Loader struct{}

var _ config.Loader = (*Loader)(nil)

// NewLoader creates a new TOML project file loader.
func NewLoader() *Loader {
	return &Loader{}
}

// fileRoot is the schema of an lbuild.toml file.
type fileRoot struct {
	Script        string            `toml:"script"`
	DefaultTarget string            `toml:"default_target"`
	LogLevel      string            `toml:"log_level"`
	LogFormat     string            `toml:"log_format"`
	LogFile       string            `toml:"log_file"`
	LogJournal    bool              `toml:"log_journal"`
	Vars          map[string]string `toml:"vars"`
}

// Load reads and decodes the file at path. Unknown keys are rejected.
func (l *Loader) Load(ctx context.Context, path string) (*config.Project, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Decoding TOML project file.", "path", path)

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading project file: %w", err)
	}
	return parse(ctx, path, data)
}

func parse(ctx context.Context, path string, data []byte) (*config.Project, error) {
	var root fileRoot
	md, err := toml.Decode(string(data), &root)
	if err != nil {
		return nil, fmt.Errorf("failed to parse TOML file %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, k := range undecoded {
			keys = append(keys, k.String())
		}
		return nil, fmt.Errorf("failed to decode TOML file %s: unknown keys %s", path, strings.Join(keys, ", "))
	}

	ctxlog.FromContext(ctx).Debug("Successfully decoded TOML project file.", "path", path, "vars", len(root.Vars))
	return &config.Project{
		Script:        root.Script,
		DefaultTarget: root.DefaultTarget,
		LogLevel:      root.LogLevel,
		LogFormat:     root.LogFormat,
		LogFile:       root.LogFile,
		LogJournal:    root.LogJournal,
		Vars:          root.Vars,
	}, nil
}
