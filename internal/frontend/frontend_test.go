package frontend

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/muhigh-lang/muhigh/internal/diagnostic"
	cerrors "github.com/muhigh-lang/muhigh/internal/errors"
)

func TestCompile(t *testing.T) {
	unit, err := Compile(context.Background(), Source{Name: "a.mu", Text: "var x = 1; func f() { return x; }"}, Options{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if unit.Err != nil || unit.HasErrors() {
		t.Fatalf("unexpected compile errors: %v %v", unit.Err, unit.Diagnostics())
	}
	if len(unit.Program.Statements) != 2 {
		t.Fatalf("expected 2 statements, got %d", len(unit.Program.Statements))
	}
	if len(unit.Tokens) == 0 {
		t.Fatalf("tokens should be kept on the unit")
	}
}

func TestCompileStrictStopsAfterLexing(t *testing.T) {
	unit, err := Compile(context.Background(), Source{Name: "bad.mu", Text: "var x = @"}, Options{Mode: cerrors.Strict})
	if err != nil {
		t.Fatalf("compile errors must not be returned as run errors: %v", err)
	}
	if !errors.Is(unit.Err, cerrors.ErrLexical) {
		t.Fatalf("expected a lexical error on the unit, got %v", unit.Err)
	}
	if unit.Program != nil {
		t.Fatalf("strict mode must not parse after a lexical error")
	}
}

func TestCompileDiagnosticsOnly(t *testing.T) {
	unit, err := Compile(context.Background(), Source{Name: "bad.mu", Text: "var x = @; var = 2; var y = 3"},
		Options{Mode: cerrors.DiagnosticsOnly})
	if err != nil || unit.Err != nil {
		t.Fatalf("diagnostics-only must not fail: %v %v", err, unit.Err)
	}
	if !unit.HasErrors() {
		t.Fatalf("expected diagnostics")
	}
	if unit.Program == nil || len(unit.Program.Statements) == 0 {
		t.Fatalf("expected a partial program")
	}
}

func TestCompileVerbose(t *testing.T) {
	unit, _ := Compile(context.Background(), Source{Name: "v.mu", Text: "var x = 1"}, Options{Verbose: true})
	var codes []string
	for _, d := range unit.Diagnostics() {
		codes = append(codes, d.Code)
	}
	want := []string{diagnostic.CodeLexStarted, diagnostic.CodeLexFinished, diagnostic.CodeParseFinished}
	if fmt.Sprint(codes) != fmt.Sprint(want) {
		t.Fatalf("codes wrong. expected=%v, got=%v", want, codes)
	}
}

func TestCompileAllKeepsInputOrder(t *testing.T) {
	var sources []Source
	for i := range 20 {
		text := fmt.Sprintf("var v%d = %d", i, i)
		if i%3 == 0 {
			text = "var = 1"
		}
		sources = append(sources, Source{Name: fmt.Sprintf("u%02d.mu", i), Text: text})
	}

	units, err := CompileAll(context.Background(), sources, Options{Mode: cerrors.DiagnosticsOnly, Jobs: 4})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(units) != len(sources) {
		t.Fatalf("expected %d units, got %d", len(sources), len(units))
	}
	for i, u := range units {
		if u.Source.Name != sources[i].Name {
			t.Fatalf("units[%d] - order wrong. expected=%s, got=%s", i, sources[i].Name, u.Source.Name)
		}
		if u.HasErrors() != (i%3 == 0) {
			t.Errorf("units[%d] - diagnostics leaked between units: %v", i, u.Diagnostics())
		}
	}

	merged := Merge(units)
	if len(merged) != 7 {
		t.Fatalf("expected 7 merged diagnostics, got %d", len(merged))
	}
	if !HasErrors(units) {
		t.Fatalf("HasErrors should see the failing units")
	}
}

func TestCompileAllCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := CompileAll(ctx, []Source{{Name: "a.mu", Text: "var x = 1"}}, Options{})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestDiscover(t *testing.T) {
	dir := t.TempDir()
	write := func(rel, text string) {
		t.Helper()
		path := filepath.Join(dir, rel)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	write("main.mu", "var a = 1")
	write("lib/util.mu", "var b = 2")
	write("lib/notes.txt", "not source")
	write("vendor/dep.mu", "var c = 3")

	files, err := Discover([]string{dir, filepath.Join(dir, "main.mu")}, []string{"vendor"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{filepath.Join(dir, "lib", "util.mu"), filepath.Join(dir, "main.mu")}
	if fmt.Sprint(files) != fmt.Sprint(want) {
		t.Fatalf("files wrong.\nexpected=%v\ngot=     %v", want, files)
	}

	sources, err := ReadSources(files)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sources[1].Text != "var a = 1" {
		t.Fatalf("unexpected source text %q", sources[1].Text)
	}

	if _, err := Discover([]string{filepath.Join(dir, "missing")}, nil); err == nil {
		t.Fatalf("expected an error for a missing path")
	}
}
