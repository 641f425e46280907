package parser

import (
	"testing"

	"github.com/muhigh-lang/muhigh/internal/ast"
	"github.com/muhigh-lang/muhigh/internal/diagnostic"
	cerrors "github.com/muhigh-lang/muhigh/internal/errors"
)

func TestMatchExpression(t *testing.T) {
	expr := singleExpression(t, `x match { 1 => "one", 2 => "two", _ => "other" }`)
	m, ok := expr.(*ast.MatchExpression)
	if !ok {
		t.Fatalf("expected MatchExpression, got %T", expr)
	}
	if len(m.Arms) != 3 {
		t.Fatalf("expected 3 arms, got %d", len(m.Arms))
	}
	if !m.Arms[2].IsDefault {
		t.Errorf("third arm should be the default arm")
	}
	if len(m.Arms[0].Patterns) != 1 {
		t.Errorf("first arm should have one pattern, got %d", len(m.Arms[0].Patterns))
	}
	if m.DefaultArm() != m.Arms[2] {
		t.Errorf("DefaultArm returned the wrong arm")
	}
	if id, ok := m.Subject.(*ast.IdentifierExpression); !ok || id.Name != "x" {
		t.Errorf("unexpected subject %s", ast.Print(m.Subject))
	}
}

func TestMatchArmShapes(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{
			`code match { 1, 2, 3 => "low", _ => "high" }`,
			`(match code (arm 1 2 3 => "low") (arm _ => "high"))`,
		},
		{
			"n match { 0 => { return zero; } _ => n * 2 }",
			"(match n (arm 0 => (block (return zero))) (arm _ => (* n 2)))",
		},
		{
			"var label = status match { Status.Ok => \"ok\", _ => \"error\" }",
			`(var label (match status (arm Status.Ok => "ok") (arm _ => "error")))`,
		},
		{
			"x match { a => a }",
			"(match x (arm a => a))",
		},
		{
			"x match { _ => 1 } match { 1 => true }",
			"(match (match x (arm _ => 1)) (arm 1 => true))",
		},
		{
			"x match { }",
			"(match x)",
		},
	}

	for i, tt := range tests {
		prog := mustParse(t, tt.input)
		if got := ast.Print(prog); got != tt.want {
			t.Errorf("tests[%d] - %q wrong.\nexpected=%s\ngot=     %s", i, tt.input, tt.want, got)
		}
	}
}

func TestMatchArmPatternIsNotLambda(t *testing.T) {
	m := singleExpression(t, "x match { y => y + 1 }").(*ast.MatchExpression)
	if _, ok := m.Arms[0].Patterns[0].(*ast.IdentifierExpression); !ok {
		t.Fatalf("pattern must be an identifier, got %T", m.Arms[0].Patterns[0])
	}
	if _, ok := m.Arms[0].Result.(*ast.BinaryExpression); !ok {
		t.Fatalf("result must be the arm body, got %T", m.Arms[0].Result)
	}
}

func TestMatchStatement(t *testing.T) {
	input := `
match command {
	"start" => run(),
	"stop", "halt" => { shutdown(); }
	_ => usage()
}`
	prog := mustParse(t, input)
	stmt, ok := prog.Statements[0].(*ast.MatchStatement)
	if !ok {
		t.Fatalf("expected MatchStatement, got %T", prog.Statements[0])
	}
	if len(stmt.Arms) != 3 || len(stmt.Arms[1].Patterns) != 2 {
		t.Fatalf("unexpected arms %s", ast.Print(stmt))
	}
	if stmt.DefaultArm() == nil || stmt.DefaultArm().Result == nil {
		t.Fatalf("default arm missing")
	}
	if _, ok := stmt.Arms[1].Result.(*ast.BlockExpression); !ok {
		t.Fatalf("block arm should produce a BlockExpression, got %T", stmt.Arms[1].Result)
	}
}

func TestMatchErrors(t *testing.T) {
	tests := []struct {
		input string
		code  string
	}{
		{"x match { 1 \"one\" }", diagnostic.CodeMalformedMatchArm},
		{"x match { 1 => 2", diagnostic.CodeMalformedMatchArm},
		{"x match { => 2 }", diagnostic.CodeUnexpectedToken},
	}

	for i, tt := range tests {
		_, r, err := parse(t, tt.input, cerrors.Strict)
		if err == nil {
			t.Fatalf("tests[%d] - %q: expected an error", i, tt.input)
		}
		errs := r.Errors()
		if len(errs) != 1 || errs[0].Code != tt.code {
			t.Errorf("tests[%d] - %q: expected one %s, got %v", i, tt.input, tt.code, errs)
		}
	}
}
