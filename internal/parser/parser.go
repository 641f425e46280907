// Package parser implements the μHigh recursive descent parser
// 再帰下降パーサー: 文は再帰下降、式は優先順位上昇法で解析する。
package parser

import (
	"context"
	"errors"
	"fmt"

	"github.com/muhigh-lang/muhigh/internal/ast"
	"github.com/muhigh-lang/muhigh/internal/diagnostic"
	cerrors "github.com/muhigh-lang/muhigh/internal/errors"
	"github.com/muhigh-lang/muhigh/internal/lexer"
	"github.com/muhigh-lang/muhigh/internal/position"
)

// Parser turns one token stream into one Program. A Parser is used once.
type Parser struct {
	tokens []lexer.Token
	pos    int

	reporter *diagnostic.Reporter
	mode     cerrors.Mode

	// ctx is only set while Parse runs.
	ctx context.Context

	// aborted holds the first syntax error once strict mode starts unwinding.
	aborted *cerrors.CompileError

	// noLambda disables `x => ...` detection inside match patterns.
	noLambda bool

	program *ast.Program
	err     error
	done    bool
}

// Option configures a Parser.
type Option func(*Parser)

// WithMode sets the error-handling mode. The default is strict.
func WithMode(mode cerrors.Mode) Option {
	return func(p *Parser) { p.mode = mode }
}

// New creates a new parser instance. The stream is terminated with EOF if
// the caller did not do so. A nil reporter gets a private one.
func New(tokens []lexer.Token, reporter *diagnostic.Reporter, opts ...Option) *Parser {
	if reporter == nil {
		reporter = diagnostic.NewReporter()
	}
	if len(tokens) == 0 || tokens[len(tokens)-1].Kind != lexer.TokenEOF {
		eof := lexer.Token{Kind: lexer.TokenEOF, Line: 1, Column: 1}
		if n := len(tokens); n > 0 {
			eof.Line, eof.Column = tokens[n-1].Line, tokens[n-1].Column+len([]rune(tokens[n-1].Text))
		}
		tokens = append(tokens[:len(tokens):len(tokens)], eof)
	}
	p := &Parser{
		tokens:   tokens,
		reporter: reporter,
		mode:     cerrors.Strict,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Parse builds the Program.
//
// In strict mode the first syntax error is returned together with the
// statements parsed before it. In diagnostics-only mode every error is
// reported, the parser resynchronizes, and the returned error is nil unless
// ctx was cancelled. A cancelled parse returns ctx.Err() in either mode and
// reports nothing for it.
func (p *Parser) Parse(ctx context.Context) (*ast.Program, error) {
	if p.done {
		return p.program, p.err
	}
	p.done = true
	p.ctx = ctx
	defer func() { p.ctx = nil }()

	p.program = &ast.Program{}
	p.program.Statements, p.err = p.parseStatementList(recoverDeclaration, lexer.TokenEOF)
	if p.err == nil {
		p.reporter.Infof(diagnostic.CodeParseFinished, p.cur().Pos(),
			"parsed %d statements", len(p.program.Statements))
	}
	return p.program, p.err
}

// parseStatementList parses statements until the terminator (not consumed)
// or EOF. It is the only place a failed statement is reported and recovered.
func (p *Parser) parseStatementList(set recoverySet, terminator lexer.TokenKind) ([]ast.Statement, error) {
	var stmts []ast.Statement
	for !p.at(terminator) && !p.at(lexer.TokenEOF) {
		if err := p.ctx.Err(); err != nil {
			return stmts, err
		}

		start := p.pos
		stmt, err := p.parseDeclarationOrStatement()
		if err != nil {
			if err := p.fail(err); err != nil {
				return stmts, err
			}
			p.synchronize(set, start)
			continue
		}
		if stmt != nil {
			stmts = append(stmts, stmt)
		}
	}
	return stmts, nil
}

// fail records a syntax error and decides, once for the whole parser,
// whether to unwind. It returns nil when parsing should continue.
func (p *Parser) fail(err error) error {
	var ce *cerrors.CompileError
	if !errors.As(err, &ce) {
		return err
	}
	if p.aborted != nil {
		return p.aborted
	}
	p.reporter.ReportError(ce)
	if p.mode == cerrors.Strict {
		p.aborted = ce
		return ce
	}
	return nil
}

// ===== token helpers =====

func (p *Parser) cur() lexer.Token {
	return p.peekAt(0)
}

// peekAt returns the token offset tokens ahead, clamped to EOF.
func (p *Parser) peekAt(offset int) lexer.Token {
	i := p.pos + offset
	if i >= len(p.tokens) {
		return p.tokens[len(p.tokens)-1]
	}
	return p.tokens[i]
}

func (p *Parser) at(kind lexer.TokenKind) bool {
	return p.cur().Kind == kind
}

// advance consumes the current token. EOF is never consumed.
func (p *Parser) advance() lexer.Token {
	tok := p.cur()
	if tok.Kind != lexer.TokenEOF {
		p.pos++
	}
	return tok
}

// accept consumes the current token if it has the given kind.
func (p *Parser) accept(kind lexer.TokenKind) bool {
	if p.at(kind) {
		p.advance()
		return true
	}
	return false
}

// expect consumes a token of the given kind or returns an E2002 error.
func (p *Parser) expect(kind lexer.TokenKind) (lexer.Token, error) {
	if p.at(kind) {
		return p.advance(), nil
	}
	return p.cur(), p.errorf(diagnostic.CodeExpectedToken, p.cur().Pos(),
		"expected %s, found %s", kind.Spelling(), describe(p.cur()))
}

// unexpected reports the current token as unusable where `expected` was wanted.
func (p *Parser) unexpected(expected string) error {
	tok := p.cur()
	return diagnostic.UnexpectedTokenError(describe(tok), expected, tok.Pos())
}

func (p *Parser) errorf(code string, pos position.Position, format string, args ...any) error {
	return cerrors.Syntax(code, pos, format, args...)
}

func describe(tok lexer.Token) string {
	switch tok.Kind {
	case lexer.TokenEOF:
		return "end of input"
	case lexer.TokenString:
		return fmt.Sprintf("string %q", tok.Text)
	default:
		return fmt.Sprintf("'%s'", tok.Text)
	}
}
