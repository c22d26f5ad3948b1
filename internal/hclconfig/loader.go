// Package hclconfig loads lbuild.hcl project files.
//
// Expressions may reference environment variables through the env object:
//
//	default_target = "all"
//	vars = {
//	  mode = env.BUILD_MODE
//	}
package hclconfig

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/vk/lbuild/internal/config"
	"github.com/vk/lbuild/internal/ctxlog"
	"github.com/zclconf/go-cty/cty"
)

// Loader is the HCL implementation of config.Loader.
type Loader struct {
	// Environ supplies the env object; nil means os.Environ.
	Environ func() []string
}

var _ config.Loader = (*Loader)(nil)

// NewLoader creates a new HCL project file loader.
func NewLoader() *Loader {
	return &Loader{}
}

// fileRoot is the schema of an lbuild.hcl file.
type fileRoot struct {
	Script        string            `hcl:"script,optional"`
	DefaultTarget string            `hcl:"default_target,optional"`
	LogLevel      string            `hcl:"log_level,optional"`
	LogFormat     string            `hcl:"log_format,optional"`
	LogFile       string            `hcl:"log_file,optional"`
	LogJournal    bool              `hcl:"log_journal,optional"`
	Vars          map[string]string `hcl:"vars,optional"`
}

// Load parses and decodes the file at path.
func (l *Loader) Load(ctx context.Context, path string) (*config.Project, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Decoding HCL project file.", "path", path)

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(path)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file %s: %w", path, diags)
	}

	var root fileRoot
	diags = gohcl.DecodeBody(file.Body, l.evalContext(), &root)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL file %s: %w", path, diags)
	}

	logger.Debug("Successfully decoded HCL project file.", "path", path, "vars", len(root.Vars))
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

// evalContext exposes the process environment as the env object.
func (l *Loader) evalContext() *hcl.EvalContext {
	environ := l.Environ
	if environ == nil {
		environ = os.Environ
	}

	env := make(map[string]cty.Value)
	for _, kv := range environ() {
		k, v, ok := strings.Cut(kv, "=")
		if !ok || k == "" {
			continue
		}
		env[k] = cty.StringVal(v)
	}

	return &hcl.EvalContext{
		Variables: map[string]cty.Value{
			"env": cty.ObjectVal(env),
		},
	}
}
