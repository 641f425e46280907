package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/muhigh-lang/muhigh/internal/ast"
	cerrors "github.com/muhigh-lang/muhigh/internal/errors"
	"github.com/muhigh-lang/muhigh/internal/frontend"
)

func newParseCmd(a *app) *cobra.Command {
	var flags unitFlags
	cmd := &cobra.Command{
		Use:   "parse FILE",
		Short: "Print the syntax tree of a source file as an s-expression",
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

			unit, err := frontend.Compile(cmd.Context(), src, opts)
			if err != nil {
				return err
			}
			if unit.Program != nil && len(unit.Program.Statements) > 0 {
				fmt.Fprintln(cmd.OutOrStdout(), ast.Print(unit.Program))
			}
			return reportUnits(cmd, a, []*frontend.Unit{unit}, unit.Err)
		},
	}
	flags.register(cmd)
	return cmd
}

func isCompileError(err error) bool {
	var ce *cerrors.CompileError
	return errors.As(err, &ce)
}
