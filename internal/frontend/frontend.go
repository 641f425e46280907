// Package frontend runs the lexer and parser over whole compilation units.
//
// Compile handles one unit; CompileAll handles many in parallel, giving each
// unit its own Reporter so that no reporter ever has concurrent writers.
package frontend

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/muhigh-lang/muhigh/internal/ast"
	"github.com/muhigh-lang/muhigh/internal/diagnostic"
	cerrors "github.com/muhigh-lang/muhigh/internal/errors"
	"github.com/muhigh-lang/muhigh/internal/lexer"
	"github.com/muhigh-lang/muhigh/internal/parser"
)

// Source is one compilation unit.
type Source struct {
	Name string
	Text string
}

// Options configures a compilation.
type Options struct {
	Mode    cerrors.Mode
	Verbose bool
	// Jobs bounds CompileAll's parallelism; 0 means GOMAXPROCS.
	Jobs   int
	Logger *slog.Logger
}

func (o Options) logger() *slog.Logger {
	if o.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return o.Logger
}

func (o Options) jobs() int {
	if o.Jobs > 0 {
		return o.Jobs
	}
	return runtime.GOMAXPROCS(0)
}

// Unit is the result of compiling one Source.
type Unit struct {
	Source   Source
	Tokens   []lexer.Token
	Program  *ast.Program
	Reporter *diagnostic.Reporter

	// Err is the first lexical or syntax error in strict mode. It is always
	// nil in diagnostics-only mode.
	Err error

	LexTime   time.Duration
	ParseTime time.Duration
}

// Diagnostics returns the unit's diagnostics in report order.
func (u *Unit) Diagnostics() []diagnostic.Diagnostic {
	return u.Reporter.Diagnostics()
}

// HasErrors reports whether any error-level diagnostic was recorded.
func (u *Unit) HasErrors() bool {
	return u.Reporter.HasErrors()
}

// Compile lexes and parses src. Strict mode stops after a failing phase and
// records its error in Unit.Err. The returned error is non-nil only when
// ctx is done, in which case the partial unit is still returned.
func Compile(ctx context.Context, src Source, opts Options) (*Unit, error) {
	log := opts.logger().With(slog.String("unit", src.Name))
	unit := &Unit{
		Source: src,
		Reporter: diagnostic.NewReporter(
			diagnostic.WithVerbose(opts.Verbose),
			diagnostic.WithLogger(log),
		),
	}

	began := time.Now()
	tokens, err := lexer.New(src.Text, unit.Reporter, lexer.WithMode(opts.Mode)).Tokenize(ctx)
	unit.LexTime = time.Since(began)
	unit.Tokens = tokens
	if err != nil {
		if isContextError(err) {
			return unit, fmt.Errorf("lex %s: %w", src.Name, err)
		}
		unit.Err = err
		log.Debug("lexing failed", slog.Duration("elapsed", unit.LexTime), slog.Any("error", err))
		return unit, nil
	}
	log.Debug("lexed", slog.Int("tokens", len(tokens)), slog.Duration("elapsed", unit.LexTime))

	began = time.Now()
	prog, err := parser.New(tokens, unit.Reporter, parser.WithMode(opts.Mode)).Parse(ctx)
	unit.ParseTime = time.Since(began)
	unit.Program = prog
	if err != nil {
		if isContextError(err) {
			return unit, fmt.Errorf("parse %s: %w", src.Name, err)
		}
		unit.Err = err
	}
	log.Debug("parsed",
		slog.Int("statements", len(prog.Statements)),
		slog.Int("errors", unit.Reporter.ErrorCount()),
		slog.Duration("elapsed", unit.ParseTime))
	return unit, nil
}

// CompileAll compiles every source with at most opts.Jobs units in flight.
// Units are returned in input order. Compile errors stay inside their unit;
// only cancellation aborts the whole run.
func CompileAll(ctx context.Context, sources []Source, opts Options) ([]*Unit, error) {
	units := make([]*Unit, len(sources))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.jobs())

	began := time.Now()
	for i, src := range sources {
		g.Go(func() error {
			unit, err := Compile(gctx, src, opts)
			units[i] = unit
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return units, err
	}

	opts.logger().Debug("compiled units",
		slog.Int("units", len(sources)),
		slog.Int("jobs", opts.jobs()),
		slog.Duration("elapsed", time.Since(began)))
	return units, nil
}

// Merge returns the diagnostics of all units as one list, unit by unit in
// the order given.
func Merge(units []*Unit) []diagnostic.Diagnostic {
	reporters := make([]*diagnostic.Reporter, 0, len(units))
	for _, u := range units {
		if u != nil {
			reporters = append(reporters, u.Reporter)
		}
	}
	return diagnostic.Merge(reporters...)
}

// HasErrors reports whether any unit recorded an error.
func HasErrors(units []*Unit) bool {
	for _, u := range units {
		if u != nil && u.HasErrors() {
			return true
		}
	}
	return false
}

func isContextError(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
