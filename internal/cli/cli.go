package cli

import (
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"
	"github.com/vk/lbuild/internal/app"
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

// Parse processes command-line arguments. It returns a populated app.Config,
// a boolean indicating if the program should exit cleanly, or an ExitError.
func Parse(args []string, output io.Writer) (*app.Config, bool, error) {
	slog.Debug("CLI parser started.")

	var (
		flags  app.Config
		config *app.Config
	)

	cmd := &cobra.Command{
		Use:   "lbuild [flags] [TARGET]",
		Short: "lbuild - a script-driven build orchestrator",
		Long: `lbuild runs build targets declared in a Starlark build script.

The script (build.star by default) registers targets with lbuild.task(),
declares their dependencies with dependsOn() and attaches actions with run().
Running a target runs its dependencies first, depth first, in declaration
order.

An optional lbuild.hcl or lbuild.toml in the project directory can name the
script, the default target, logging settings and variables for lbuild.vars.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				flags.Target = args[0]
			}
			flags.LogFormat = strings.ToLower(flags.LogFormat)
			flags.LogLevel = strings.ToLower(flags.LogLevel)

			cfg, err := app.NewConfig(flags)
			if err != nil {
				return err
			}
			config = cfg
			return nil
		},
	}
	if args == nil {
		// cobra reads os.Args when given nil.
		args = []string{}
	}
	cmd.SetArgs(args)
	cmd.SetOut(output)
	cmd.SetErr(output)

	f := cmd.Flags()
	f.StringVarP(&flags.ScriptPath, "file", "f", "", "Build script, relative to the project directory.")
	f.StringVarP(&flags.Dir, "dir", "C", ".", "Project directory.")
	f.StringVarP(&flags.ConfigPath, "config", "c", "", "Project file (default: lbuild.hcl or lbuild.toml in the project directory).")
	f.BoolVarP(&flags.List, "list", "l", false, "List targets and their dependencies, then exit.")
	f.StringVar(&flags.LogLevel, "log-level", "", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'. (default info)")
	f.StringVar(&flags.LogFormat, "log-format", "", "Log output format. Options: 'text' or 'json'. (default text)")
	f.StringVar(&flags.LogFile, "log-file", "", "Also write JSON logs at debug level to this file.")
	f.BoolVar(&flags.LogJournal, "log-journal", false, "Also send logs to the systemd journal.")

	if err := cmd.Execute(); err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}
	if config == nil {
		slog.Debug("Help requested, exiting.")
		return nil, true, nil
	}

	slog.Debug("CLI parser finished successfully.", "config", config)
	return config, false, nil
}
