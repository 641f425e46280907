// Package cmd implements the muhigh command tree.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/muhigh-lang/muhigh/internal/cli"
	"github.com/muhigh-lang/muhigh/internal/config"
	cerrors "github.com/muhigh-lang/muhigh/internal/errors"
	"github.com/muhigh-lang/muhigh/internal/frontend"
)

// ErrDiagnostics is returned when a command printed error diagnostics.
var ErrDiagnostics = errors.New("compilation reported errors")

// app carries what the persistent pre-run resolved for the subcommands.
type app struct {
	configPath string
	logLevel   string
	logFormat  string

	logger *slog.Logger
	config *config.Config
}

// NewRootCommand builds a fresh command tree.
func NewRootCommand() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   cli.ToolName,
		Short: "μHigh front end: lexer, parser and diagnostics",
		Long: `muhigh turns μHigh source files into tokens and syntax trees and
reports lexical and syntax problems.

Configuration is read from --config, or from muhigh.toml / muhigh.yaml in
the working directory or one of its parents. MUHIGH_* environment variables
override the file; flags override both.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
	}

	root.PersistentFlags().StringVar(&a.configPath, "config", "", "config file (default: discovered muhigh.toml or muhigh.yaml)")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "warn", "log level: debug, info, warn or error")
	root.PersistentFlags().StringVar(&a.logFormat, "log-format", "text", "log format: text or json")

	root.AddCommand(
		newTokensCmd(a),
		newParseCmd(a),
		newCheckCmd(a),
		newVersionCmd(),
	)
	return root
}

// Execute runs the command tree against os.Args. An interrupt cancels the
// running command.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	return NewRootCommand().ExecuteContext(ctx)
}

func (a *app) setup(cmd *cobra.Command) error {
	logger, err := cli.NewLogger(a.logLevel, a.logFormat, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	a.logger = logger

	wd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("working directory: %w", err)
	}
	cfg, err := config.Resolve(a.configPath, wd)
	if err != nil {
		return err
	}
	if err := cfg.ApplyEnv(nil); err != nil {
		return err
	}
	if err := cfg.Validate(cli.Version); err != nil {
		return err
	}
	a.config = cfg

	if cfg.Path != "" {
		logger.Debug("loaded config", slog.String("path", cfg.Path))
	}
	return nil
}

// unitFlags are the compilation flags shared by tokens, parse and check.
type unitFlags struct {
	mode    string
	verbose bool
}

func (f *unitFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.mode, "mode", "", "error mode: strict or diagnostics (default from config)")
	cmd.Flags().BoolVar(&f.verbose, "verbose", false, "record informational diagnostics")
}

// options merges the flags over the configuration.
func (a *app) options(cmd *cobra.Command, f *unitFlags) (frontend.Options, error) {
	opts := frontend.Options{
		Mode:    a.config.Mode(),
		Verbose: a.config.Compiler.Verbose,
		Jobs:    a.config.Compiler.Jobs,
		Logger:  a.logger,
	}
	if cmd.Flags().Changed("mode") {
		mode, err := cerrors.ParseMode(f.mode)
		if err != nil {
			return opts, err
		}
		opts.Mode = mode
	}
	if cmd.Flags().Changed("verbose") {
		opts.Verbose = f.verbose
	}
	return opts, nil
}

func readSource(path string) (frontend.Source, error) {
	sources, err := frontend.ReadSources([]string{path})
	if err != nil {
		return frontend.Source{}, err
	}
	return sources[0], nil
}
