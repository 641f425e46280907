package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/muhigh-lang/muhigh/internal/cli"
	cerrors "github.com/muhigh-lang/muhigh/internal/errors"
	"github.com/muhigh-lang/muhigh/internal/frontend"
	"github.com/muhigh-lang/muhigh/internal/watch"
)

var checkFormats = []string{"text", "json", "lsp"}

type checkFlags struct {
	unitFlags
	format string
	jobs   int
	watch  bool
}

func newCheckCmd(a *app) *cobra.Command {
	var flags checkFlags
	cmd := &cobra.Command{
		Use:   "check [PATH...]",
		Short: "Lex and parse every source file under the given paths",
		Long: `check compiles every .mu file below PATH (default: sources.paths from the
config) in parallel and prints all diagnostics. The exit status is 1 when any
file has errors. With --watch, files are re-checked whenever they change and
the error mode is always diagnostics.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := a.options(cmd, &flags.unitFlags)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("jobs") {
				opts.Jobs = flags.jobs
			}
			format := a.config.Output.Format
			if cmd.Flags().Changed("format") {
				format = flags.format
			}
			format = strings.ToLower(format)
			if !slices.Contains(checkFormats, format) {
				return fmt.Errorf("unknown format %q (want text, json or lsp)", format)
			}
			if format == "lsp" || flags.watch {
				opts.Mode = cerrors.DiagnosticsOnly
			}

			paths := args
			if len(paths) == 0 {
				paths = a.config.Sources.Paths
			}
			c := &checker{app: a, cmd: cmd, paths: paths, format: format, opts: opts}

			if flags.watch {
				return c.watch(cmd.Context())
			}
			failed, err := c.run(cmd.Context())
			if err != nil {
				return err
			}
			if failed {
				return ErrDiagnostics
			}
			return nil
		},
	}
	flags.register(cmd)
	cmd.Flags().StringVar(&flags.format, "format", "text", "output format: text, json or lsp (default from config)")
	cmd.Flags().IntVarP(&flags.jobs, "jobs", "j", 0, "files compiled in parallel (0 = GOMAXPROCS)")
	cmd.Flags().BoolVarP(&flags.watch, "watch", "w", false, "re-check files when they change")
	return cmd
}

type checker struct {
	app    *app
	cmd    *cobra.Command
	paths  []string
	format string
	opts   frontend.Options
}

// run performs one check pass and reports whether any file had errors.
func (c *checker) run(ctx context.Context) (bool, error) {
	files, err := frontend.Discover(c.paths, c.app.config.Sources.Exclude)
	if err != nil {
		return false, err
	}
	sources, err := frontend.ReadSources(files)
	if err != nil {
		return false, err
	}
	units, err := frontend.CompileAll(ctx, sources, c.opts)
	if err != nil {
		return false, err
	}

	out := c.cmd.OutOrStdout()
	switch c.format {
	case "json":
		err = cli.NewReport(units).WriteJSON(out)
	case "lsp":
		err = cli.WriteLSP(out, cli.NewLSPReport(units))
	default:
		cli.WriteText(out, cli.NewRenderer(out, cli.UseColor(c.app.config.Output.Color, out)), units)
	}
	return frontend.HasErrors(units), err
}

// watch checks once, then again after every batch of changes until ctx
// ends.
func (c *checker) watch(ctx context.Context) error {
	w, err := watch.New(
		watch.WithMatch(frontend.IsSourceFile),
		watch.WithExclude(c.app.config.Sources.Exclude),
		watch.WithLogger(c.app.logger),
	)
	if err != nil {
		return fmt.Errorf("start watcher: %w", err)
	}
	defer w.Close()
	for _, p := range c.paths {
		if err := w.AddTree(p); err != nil {
			return fmt.Errorf("watch %s: %w", p, err)
		}
	}

	if _, err := c.run(ctx); err != nil {
		return err
	}
	err = w.Run(ctx, func(changed []string) {
		c.app.logger.Info("re-checking", slog.Int("changed", len(changed)))
		if _, err := c.run(ctx); err != nil && ctx.Err() == nil {
			c.app.logger.Error("check failed", slog.Any("error", err))
		}
	})
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
