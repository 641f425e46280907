// Command muhigh runs the μHigh front end: tokenize, parse and check
// source files.
package main

import (
	"errors"

	"github.com/muhigh-lang/muhigh/cmd/muhigh/cmd"
	"github.com/muhigh-lang/muhigh/internal/cli"
)

func main() {
	if err := cmd.Execute(); err != nil {
		// diagnostics were already printed
		if errors.Is(err, cmd.ErrDiagnostics) {
			cli.ExitWithCode(1, "")
		}
		cli.ExitWithError("%v", err)
	}
}
