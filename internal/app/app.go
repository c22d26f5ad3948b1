package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/vk/lbuild/internal/config"
	"github.com/vk/lbuild/internal/ctxlog"
	"github.com/vk/lbuild/internal/hclconfig"
	"github.com/vk/lbuild/internal/style"
	"github.com/vk/lbuild/internal/tomlconfig"
)

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW     io.Writer
	errW     io.Writer
	config   *Config
	settings *config.Project
	dir      string
	logger   *slog.Logger
	closeLog func() error
	printer  *style.Printer
	runID    string
}

// DefaultLoaders returns the project file loaders for every supported format.
func DefaultLoaders() config.Loaders {
	return config.Loaders{
		".hcl":  hclconfig.NewLoader(),
		".toml": tomlconfig.NewLoader(),
	}
}

// NewApp is the constructor for the main application. Script output and the
// run summary go to outW; logs go to errW. It loads the project file, if any,
// and configures an isolated logger.
func NewApp(outW, errW io.Writer, appConfig *Config, loaders config.Loaders) (*App, error) {
	dir, err := filepath.Abs(appConfig.Dir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve project directory: %w", err)
	}

	project, err := loadProject(dir, appConfig.ConfigPath, loaders)
	if err != nil {
		return nil, err
	}
	settings := appConfig.settings(project)

	logger, closeLog, err := newLogger(settings.LogLevel, settings.LogFormat, errW, resolve(dir, settings.LogFile), settings.LogJournal)
	if err != nil {
		return nil, err
	}
	runID := uuid.NewString()
	logger = logger.With("run_id", runID)
	logger.Debug("Logger configured successfully.", "level", settings.LogLevel, "format", settings.LogFormat)

	return &App{
		outW:     outW,
		errW:     errW,
		config:   appConfig,
		settings: settings,
		dir:      dir,
		logger:   logger,
		closeLog: closeLog,
		printer:  style.NewPrinter(outW),
		runID:    runID,
	}, nil
}

// loadProject loads the explicit project file, or the one discovered in dir.
// A project without a file gets an empty configuration.
func loadProject(dir, path string, loaders config.Loaders) (*config.Project, error) {
	if path == "" {
		found, err := config.Discover(dir)
		if err != nil {
			return nil, err
		}
		if found == "" {
			return &config.Project{}, nil
		}
		path = found
	}

	// The real logger depends on the project file, so loading logs through
	// the default one.
	project, err := loaders.Load(ctxlog.WithLogger(context.Background(), slog.Default()), resolve(dir, path))
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	return project, nil
}

func resolve(dir, path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(dir, path)
}

// RunID returns the identifier attached to every log record of this run.
func (a *App) RunID() string {
	return a.runID
}

// Close releases the resources held by the logger.
func (a *App) Close() error {
	return a.closeLog()
}
