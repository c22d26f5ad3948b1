package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/vk/lbuild/internal/ctxlog"
	"github.com/vk/lbuild/internal/fsutil"
)

// FileNames lists the project files looked up by Discover, in order.
var FileNames = []string{"lbuild.hcl", "lbuild.toml"}

// DefaultScript is the build script used when the project file names none.
const DefaultScript = "build.star"

// ErrUnsupportedFormat is returned when no loader handles a file extension.
var ErrUnsupportedFormat = errors.New("unsupported project file format")

// ErrNoScript is returned when no build script can be found.
var ErrNoScript = errors.New("no build script found")

// Loader is the interface for a format-specific project file loader.
type Loader interface {
	// Load reads the file at path and translates it into a Project.
	Load(ctx context.Context, path string) (*Project, error)
}

// Loaders maps a file extension, including the dot, to its Loader.
type Loaders map[string]Loader

// Load decodes path with the loader registered for its extension and
// validates the result.
func (l Loaders) Load(ctx context.Context, path string) (*Project, error) {
	ext := strings.ToLower(filepath.Ext(path))
	loader, ok := l[ext]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}

	ctxlog.FromContext(ctx).Debug("Loading project file.", "path", path, "format", strings.TrimPrefix(ext, "."))
	p, err := loader.Load(ctx, path)
	if err != nil {
		return nil, err
	}
	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("invalid project file %s: %w", path, err)
	}
	return p, nil
}

// Discover returns the first of FileNames present in dir, or "" if there is
// none.
func Discover(dir string) (string, error) {
	for _, name := range FileNames {
		path := filepath.Join(dir, name)
		_, err := os.Stat(path)
		if err == nil {
			return path, nil
		}
		if !errors.Is(err, os.ErrNotExist) {
			return "", fmt.Errorf("error accessing %s: %w", path, err)
		}
	}
	return "", nil
}

// FindScript resolves the build script of the project in dir. An explicit
// script is used as is (relative to dir). Otherwise build.star is used if it
// exists, or the only .star file under dir.
func FindScript(dir, script string) (string, error) {
	if script != "" {
		if filepath.IsAbs(script) {
			return script, nil
		}
		return filepath.Join(dir, script), nil
	}

	path := filepath.Join(dir, DefaultScript)
	if _, err := os.Stat(path); err == nil {
		return path, nil
	}

	found, err := fsutil.FindFilesByExtension(dir, ".star")
	if err != nil {
		return "", fmt.Errorf("failed to search for build scripts: %w", err)
	}
	switch len(found) {
	case 0:
		return "", fmt.Errorf("%w in %s", ErrNoScript, dir)
	case 1:
		return found[0], nil
	}
	return "", fmt.Errorf("%w: %d .star files in %s, use --file to pick one", ErrNoScript, len(found), dir)
}
