package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"whodunit/internal/config"
	"whodunit/internal/logging"
	"whodunit/internal/store"
)

// version is set at build time via -ldflags.
var version = "dev"

var globalFlags struct {
	configPath string
	logLevel   string
	logFormat  string
	dbPath     string
}

// resolved holds the layered configuration for the running command.
var resolved config.ResolvedConfig

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "whodunit",
		Short: "Prove who lied about where they were",
		Long: `whodunit reads a clue feed (witness statements, smart-light logs,
headcounts) and proves which statements are lies and where the liars
really were. Anything that cannot be proven stays unknown.`,
		Version:           version,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: setup,
		CompletionOptions: cobra.CompletionOptions{
			HiddenDefaultCmd: true,
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&globalFlags.configPath, "config", "", "Config file (default ~/.whodunit/config.yaml)")
	pf.StringVar(&globalFlags.logLevel, "log-level", "", "Log level: debug, info, warn, error")
	pf.StringVar(&globalFlags.logFormat, "log-format", "", "Log format: text or json")
	pf.StringVar(&globalFlags.dbPath, "db", "", "Case store path (default "+store.DefaultDBPath+")")

	root.AddCommand(
		newGenerateCmd(),
		newSolveCmd(),
		newReportCmd(),
		newCalibrateCmd(),
		newStatusCmd(),
		newServeCmd(),
		newConfigCmd(),
	)
	return root
}

// setup resolves configuration and installs the logger before any command runs.
func setup(cmd *cobra.Command, _ []string) error {
	opts := config.ResolveOptions{
		ConfigPath:   globalFlags.configPath,
		CLIDBPath:    globalFlags.dbPath,
		CLILogLevel:  globalFlags.logLevel,
		CLILogFormat: globalFlags.logFormat,
	}
	if f := cmd.Flags().Lookup("max-rounds"); f != nil && f.Changed {
		opts.CLIMaxRounds = f.Value.String()
	}

	var err error
	resolved, err = config.ResolveConfig(opts)
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}

	level, err := logging.ParseLevel(resolved.LogLevel.Value)
	if err != nil {
		return err
	}
	logging.Init(level, resolved.LogFormat.Value, cmd.ErrOrStderr())
	return nil
}
