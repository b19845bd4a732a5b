package app

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/agentstation/collegemap/cmd/collegemap/cmd/clean"
	"github.com/agentstation/collegemap/cmd/collegemap/cmd/match"
	"github.com/agentstation/collegemap/cmd/collegemap/cmd/run"
	verifycmd "github.com/agentstation/collegemap/cmd/collegemap/cmd/verify"
	"github.com/agentstation/collegemap/cmd/collegemap/cmd/version"
	"github.com/agentstation/collegemap/internal/cmd/output"
	"github.com/agentstation/collegemap/pkg/errors"
	"github.com/agentstation/collegemap/pkg/logging"
)

// Execute runs the collegemap CLI application with the given arguments.
// This is the main entry point called from main.go.
func (a *App) Execute(ctx context.Context, args []string) error {
	rootCmd := a.createRootCommand()
	rootCmd.SetArgs(args)
	return rootCmd.ExecuteContext(ctx)
}

// createRootCommand creates the root cobra command with all subcommands.
func (a *App) createRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     "collegemap",
		Short:   "Engineering college data merge CLI",
		Version: a.version,
		Long: `Collegemap merges a general directory of engineering colleges, a
course-level listing and the national ranking list into one master table
of colleges and a derived table of courses.

Names are linked with token-sorted fuzzy matching. Ranking entries that
match no existing college become new records, and course rows that match
no college are dropped and reported.`,
		PersistentPreRunE: a.setupCommand,
		SilenceUsage:      true,
		SilenceErrors:     true,
	}

	rootCmd.AddGroup(&cobra.Group{
		ID:    "core",
		Title: "Core Commands:",
	})

	// Global flags are read in setupCommand rather than bound to the
	// config, so values from the config file survive unset flags.
	rootCmd.PersistentFlags().String("config", "", "config file (default is $HOME/.collegemap.yaml)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "verbose output (shortcut for --log-level=debug)")
	rootCmd.PersistentFlags().BoolP("quiet", "q", false, "minimal output (shortcut for --log-level=warn)")
	rootCmd.PersistentFlags().Bool("no-color", false, "disable colored output")
	rootCmd.PersistentFlags().StringP("format", "o", "", "output format: table, json, yaml")
	rootCmd.PersistentFlags().String("log-level", "", "log level: trace, debug, info, warn, error (overrides -v/-q)")

	rootCmd.SetVersionTemplate("collegemap {{.Version}}\n")
	if a.out != nil {
		rootCmd.SetOut(a.out)
	}

	rootCmd.AddCommand(run.NewCommand(a))
	rootCmd.AddCommand(clean.NewCommand(a))
	rootCmd.AddCommand(match.NewCommand(a))
	rootCmd.AddCommand(verifycmd.NewCommand(a))
	rootCmd.AddCommand(version.NewCommand(a))

	return rootCmd
}

// setupCommand is called before any command runs. It re-reads an explicit
// --config file, applies the global flags on top and rebuilds the logger.
func (a *App) setupCommand(cmd *cobra.Command, _ []string) error {
	verbose := mustGetBool(cmd, "verbose")
	quiet := mustGetBool(cmd, "quiet")
	noColor := mustGetBool(cmd, "no-color")
	format := mustGetString(cmd, "format")
	logLevel := mustGetString(cmd, "log-level")
	configFile := mustGetString(cmd, "config")

	if configFile != "" {
		config, err := LoadConfigFile(configFile)
		if err != nil {
			return errors.NewConfigError("app", "cannot read "+configFile, err)
		}
		a.config = config
	}
	if _, err := output.ParseFormat(format); err != nil {
		return err
	}
	a.config.UpdateFromFlags(verbose, quiet, noColor, format, logLevel)

	logger := NewLogger(a.config)
	a.logger = &logger
	logging.SetDefault(logger)
	cmd.SetContext(logging.WithLogger(cmd.Context(), a.logger))

	return nil
}

// ExitOnError is a helper that prints an error and exits with status 1.
// This is meant to be used in main.go for top-level error handling.
func ExitOnError(err error) {
	if err != nil {
		_, _ = os.Stderr.WriteString(err.Error() + "\n")
		os.Exit(1)
	}
}

// mustGetBool retrieves a boolean flag value or panics if the flag doesn't exist.
// This should only be used for flags defined in this package.
func mustGetBool(cmd *cobra.Command, name string) bool {
	val, err := cmd.Flags().GetBool(name)
	if err != nil {
		panic("programming error: failed to get flag " + name + ": " + err.Error())
	}
	return val
}

// mustGetString retrieves a string flag value or panics if the flag doesn't exist.
// This should only be used for flags defined in this package.
func mustGetString(cmd *cobra.Command, name string) string {
	val, err := cmd.Flags().GetString(name)
	if err != nil {
		panic("programming error: failed to get flag " + name + ": " + err.Error())
	}
	return val
}
