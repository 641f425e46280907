// Package lexer implements the μHigh lexical analyzer.
// 手書きの字句解析器: ソース文字列を EOF で終わるトークン列に変換する。
package lexer

import (
	"context"
	"strconv"
	"unicode"

	"github.com/muhigh-lang/muhigh/internal/diagnostic"
	cerrors "github.com/muhigh-lang/muhigh/internal/errors"
	"github.com/muhigh-lang/muhigh/internal/position"
)

// Lexer converts one compilation unit into tokens. A Lexer is used once.
type Lexer struct {
	input  []rune
	pos    int // index of the current rune
	line   int // current line number
	column int // current column number

	reporter *diagnostic.Reporter
	mode     cerrors.Mode

	tokens   []Token
	firstErr *cerrors.CompileError
	done     bool
}

// Option configures a Lexer.
type Option func(*Lexer)

// WithMode sets the error-handling mode. The default is strict.
func WithMode(mode cerrors.Mode) Option {
	return func(l *Lexer) { l.mode = mode }
}

// New creates a new lexer instance. A nil reporter gets a private one.
func New(source string, reporter *diagnostic.Reporter, opts ...Option) *Lexer {
	if reporter == nil {
		reporter = diagnostic.NewReporter()
	}
	l := &Lexer{
		input:    []rune(source),
		line:     1,
		column:   1,
		reporter: reporter,
		mode:     cerrors.Strict,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Tokenize scans the whole input. The returned stream always ends with
// exactly one EOF token.
//
// Every lexical problem is reported to the reporter. In diagnostics-only mode
// the error result is only ever a context error. In strict mode scanning
// still runs to the end, dropping each failing token, and the first lexical
// error is returned alongside the stream.
func (l *Lexer) Tokenize(ctx context.Context) ([]Token, error) {
	if l.done {
		return l.tokens, l.result()
	}
	l.done = true

	l.reporter.Infof(diagnostic.CodeLexStarted, position.At(1, 1),
		"lexing %d characters", len(l.input))

	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		l.skipTrivia()
		if l.atEnd() {
			break
		}

		start := l.pos
		tok, lexErr := l.scanToken()
		if lexErr == nil {
			l.tokens = append(l.tokens, tok)
			continue
		}

		l.reporter.ReportError(lexErr)
		if l.firstErr == nil {
			l.firstErr = lexErr
		}

		switch l.mode {
		case cerrors.Strict:
			l.reporter.Errorf(diagnostic.CodeLexerRecovered, lexErr.Pos,
				"skipped invalid input after %s", lexErr.Code)
		default:
			if tok.Kind != TokenIllegal {
				l.tokens = append(l.tokens, tok)
			}
		}

		if l.pos == start {
			l.advance()
		}
	}

	l.tokens = append(l.tokens, Token{Kind: TokenEOF, Line: l.line, Column: l.column})

	l.reporter.Infof(diagnostic.CodeLexFinished, position.At(l.line, l.column),
		"produced %d tokens", len(l.tokens))

	return l.tokens, l.result()
}

func (l *Lexer) result() error {
	if l.mode == cerrors.Strict && l.firstErr != nil {
		return l.firstErr
	}
	return nil
}

// scanToken scans one token starting at the current rune. On failure it
// returns the error together with the partial token, or an ILLEGAL token
// when nothing usable was scanned.
func (l *Lexer) scanToken() (Token, *cerrors.CompileError) {
	pos := l.position()
	r := l.peek()

	switch {
	case isIdentStart(r):
		return l.scanIdentifier(pos), nil
	case isDigit(r):
		return l.scanNumber(pos)
	case r == '"':
		return l.scanString(pos)
	}

	if tok, ok := l.scanOperator(pos); ok {
		return tok, nil
	}

	return Token{Kind: TokenIllegal, Text: string(r), Line: pos.Line, Column: pos.Column},
		diagnostic.UnknownCharacterError(r, pos)
}

// scanIdentifier reads an identifier, a keyword, a dotted identifier such as
// System.Console.WriteLine, or a type name with a fused array suffix.
func (l *Lexer) scanIdentifier(pos position.Position) Token {
	start := l.pos
	l.advance()
	for isIdentPart(l.peek()) {
		l.advance()
	}

	dotted := false
	for l.peek() == '.' && isIdentStart(l.peekAt(1)) {
		dotted = true
		l.advance() // '.'
		for isIdentPart(l.peek()) {
			l.advance()
		}
	}

	text := string(l.input[start:l.pos])

	suffixed := false
	if l.peek() == '[' && l.peekAt(1) == ']' && LooksLikeType(text) {
		l.advance()
		l.advance()
		text += "[]"
		suffixed = true
	}

	kind := TokenIdentifier
	if !dotted && !suffixed {
		if kw, ok := LookupKeyword(text); ok {
			kind = kw
		}
	}

	return Token{Kind: kind, Text: text, Line: pos.Line, Column: pos.Column}
}

// scanNumber reads digits with at most one decimal point. A second '.' is
// left for the next token so "1.0.0" becomes 1.0 . 0.
func (l *Lexer) scanNumber(pos position.Position) (Token, *cerrors.CompileError) {
	start := l.pos
	for isDigit(l.peek()) {
		l.advance()
	}

	if l.peek() == '.' && isDigit(l.peekAt(1)) {
		l.advance() // '.'
		for isDigit(l.peek()) {
			l.advance()
		}
	}

	// Letters glued to the digits belong to the same malformed literal.
	for isIdentPart(l.peek()) {
		l.advance()
	}

	text := string(l.input[start:l.pos])
	tok := Token{Kind: TokenNumber, Text: text, Line: pos.Line, Column: pos.Column}

	if _, err := strconv.ParseFloat(text, 64); err != nil {
		return tok, diagnostic.InvalidNumberError(text, pos)
	}
	return tok, nil
}

// scanString reads a double-quoted literal. The token text is the raw
// content between the quotes; the first '"' always closes the literal.
func (l *Lexer) scanString(pos position.Position) (Token, *cerrors.CompileError) {
	l.advance() // opening quote
	start := l.pos

	for !l.atEnd() {
		if l.peek() == '"' {
			text := string(l.input[start:l.pos])
			l.advance() // closing quote
			return Token{Kind: TokenString, Text: text, Line: pos.Line, Column: pos.Column}, nil
		}
		l.advance()
	}

	return Token{Kind: TokenIllegal, Line: pos.Line, Column: pos.Column},
		diagnostic.UnterminatedStringError(pos)
}

// scanOperator checks the two-character table before the single-character one.
func (l *Lexer) scanOperator(pos position.Position) (Token, bool) {
	if l.pos+1 < len(l.input) {
		text := string(l.input[l.pos : l.pos+2])
		if kind, ok := twoCharOperators[text]; ok {
			l.advance()
			l.advance()
			return Token{Kind: kind, Text: text, Line: pos.Line, Column: pos.Column}, true
		}
	}

	r := l.peek()
	if kind, ok := singleCharOperators[r]; ok {
		l.advance()
		return Token{Kind: kind, Text: string(r), Line: pos.Line, Column: pos.Column}, true
	}
	return Token{}, false
}

// skipTrivia skips whitespace and comments. An unclosed block comment runs to
// the end of input.
func (l *Lexer) skipTrivia() {
	for !l.atEnd() {
		r := l.peek()
		switch {
		case unicode.IsSpace(r):
			l.advance()
		case r == '/' && l.peekAt(1) == '/':
			for !l.atEnd() && l.peek() != '\n' {
				l.advance()
			}
		case r == '/' && l.peekAt(1) == '*':
			l.advance()
			l.advance()
			for !l.atEnd() && !(l.peek() == '*' && l.peekAt(1) == '/') {
				l.advance()
			}
			if !l.atEnd() {
				l.advance()
				l.advance()
			}
		default:
			return
		}
	}
}

// advance consumes the current rune, tracking line and column.
func (l *Lexer) advance() {
	if l.atEnd() {
		return
	}
	if l.input[l.pos] == '\n' {
		l.line++
		l.column = 1
	} else {
		l.column++
	}
	l.pos++
}

func (l *Lexer) peek() rune {
	return l.peekAt(0)
}

// peekAt returns the rune offset runes ahead, or 0 past the end.
func (l *Lexer) peekAt(offset int) rune {
	i := l.pos + offset
	if i >= len(l.input) {
		return 0
	}
	return l.input[i]
}

func (l *Lexer) atEnd() bool {
	return l.pos >= len(l.input)
}

func (l *Lexer) position() position.Position {
	return position.At(l.line, l.column)
}

func isIdentStart(r rune) bool {
	return r == '_' || unicode.IsLetter(r)
}

func isIdentPart(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

func isDigit(r rune) bool {
	return '0' <= r && r <= '9'
}

// LooksLikeType reports whether an identifier reads as a type name: a
// built-in type, generic text, or a name starting with an upper-case letter.
// It decides whether "[]" fuses onto a name and whether `Name<...>(` is
// tried as a constructor call.
func LooksLikeType(text string) bool {
	if IsBuiltinType(text) {
		return true
	}
	for _, r := range text {
		if r == '<' || r == '>' {
			return true
		}
	}
	first := []rune(text)[0]
	return unicode.IsUpper(first)
}
