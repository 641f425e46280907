package cmd

import (
	"fmt"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/muhigh-lang/muhigh/internal/cli"
	"github.com/muhigh-lang/muhigh/internal/diagnostic"
	"github.com/muhigh-lang/muhigh/internal/frontend"
	"github.com/muhigh-lang/muhigh/internal/lexer"
)

func newTokensCmd(a *app) *cobra.Command {
	var flags unitFlags
	cmd := &cobra.Command{
		Use:   "tokens FILE",
		Short: "Print the token stream of a source file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := a.options(cmd, &flags)
			if err != nil {
				return err
			}
			src, err := readSource(args[0])
			if err != nil {
				return err
			}

			reporter := diagnostic.NewReporter(diagnostic.WithVerbose(opts.Verbose), diagnostic.WithLogger(a.logger))
			tokens, lexErr := lexer.New(src.Text, reporter, lexer.WithMode(opts.Mode)).Tokenize(cmd.Context())

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			for _, tok := range tokens {
				text := tok.Text
				if tok.Kind == lexer.TokenString {
					text = strconv.Quote(text)
				}
				fmt.Fprintf(tw, "%s\t%s\t%d:%d\n", tok.Kind, text, tok.Line, tok.Column)
			}
			if err := tw.Flush(); err != nil {
				return err
			}

			unit := &frontend.Unit{Source: src, Tokens: tokens, Reporter: reporter}
			return reportUnits(cmd, a, []*frontend.Unit{unit}, lexErr)
		},
	}
	flags.register(cmd)
	return cmd
}

// reportUnits prints diagnostics of units to stderr. It returns cause when
// it is not a compile error, ErrDiagnostics when errors were printed, and
// nil otherwise.
func reportUnits(cmd *cobra.Command, a *app, units []*frontend.Unit, cause error) error {
	if cause != nil && !isCompileError(cause) {
		return cause
	}
	stderr := cmd.ErrOrStderr()
	if len(frontend.Merge(units)) > 0 {
		renderer := cli.NewRenderer(stderr, cli.UseColor(a.config.Output.Color, stderr))
		cli.WriteText(stderr, renderer, units)
	}
	if frontend.HasErrors(units) {
		return ErrDiagnostics
	}
	return nil
}
