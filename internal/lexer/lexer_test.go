package lexer

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/muhigh-lang/muhigh/internal/diagnostic"
	cerrors "github.com/muhigh-lang/muhigh/internal/errors"
)

type expectedToken struct {
	kind TokenKind
	text string
}

func tokenize(t *testing.T, input string, mode cerrors.Mode) ([]Token, *diagnostic.Reporter, error) {
	t.Helper()
	r := diagnostic.NewReporter()
	toks, err := New(input, r, WithMode(mode)).Tokenize(context.Background())
	return toks, r, err
}

func checkTokens(t *testing.T, toks []Token, want []expectedToken) {
	t.Helper()
	if len(toks) != len(want) {
		t.Fatalf("expected %d tokens, got %d: %v", len(want), len(toks), toks)
	}
	for i, tt := range want {
		if toks[i].Kind != tt.kind {
			t.Fatalf("tests[%d] - tokentype wrong. expected=%s, got=%s", i, tt.kind, toks[i].Kind)
		}
		if toks[i].Text != tt.text {
			t.Fatalf("tests[%d] - literal wrong. expected=%q, got=%q", i, tt.text, toks[i].Text)
		}
	}
}

func TestVariableDeclarationTokens(t *testing.T) {
	toks, r, err := tokenize(t, "var x = 42", cerrors.Strict)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	checkTokens(t, toks, []expectedToken{
		{TokenVar, "var"},
		{TokenIdentifier, "x"},
		{TokenAssign, "="},
		{TokenNumber, "42"},
		{TokenEOF, ""},
	})
	if r.Len() != 0 {
		t.Fatalf("expected no diagnostics, got %v", r.Diagnostics())
	}
}

func TestNumberStopsAtSecondDot(t *testing.T) {
	toks, _, err := tokenize(t, "1.0.0", cerrors.Strict)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	checkTokens(t, toks, []expectedToken{
		{TokenNumber, "1.0"},
		{TokenDot, "."},
		{TokenNumber, "0"},
		{TokenEOF, ""},
	})
}

func TestDottedIdentifier(t *testing.T) {
	toks, _, _ := tokenize(t, "System.Console.WriteLine", cerrors.Strict)
	checkTokens(t, toks, []expectedToken{
		{TokenIdentifier, "System.Console.WriteLine"},
		{TokenEOF, ""},
	})

	// A keyword inside a dotted name does not make the token a keyword.
	toks, _, _ = tokenize(t, "a.string", cerrors.Strict)
	checkTokens(t, toks, []expectedToken{
		{TokenIdentifier, "a.string"},
		{TokenEOF, ""},
	})

	// A dot before a digit or a paren is left alone.
	toks, _, _ = tokenize(t, "a.0 (b).c", cerrors.Strict)
	checkTokens(t, toks, []expectedToken{
		{TokenIdentifier, "a"},
		{TokenDot, "."},
		{TokenNumber, "0"},
		{TokenLeftParen, "("},
		{TokenIdentifier, "b"},
		{TokenRightParen, ")"},
		{TokenDot, "."},
		{TokenIdentifier, "c"},
		{TokenEOF, ""},
	})
}

func TestArraySuffixFusion(t *testing.T) {
	tests := []struct {
		input string
		want  []expectedToken
	}{
		{"string[]", []expectedToken{{TokenIdentifier, "string[]"}, {TokenEOF, ""}}},
		{"Person[]", []expectedToken{{TokenIdentifier, "Person[]"}, {TokenEOF, ""}}},
		{"List<string>[]", []expectedToken{
			{TokenIdentifier, "List"},
			{TokenLess, "<"},
			{TokenStringType, "string"},
			{TokenGreater, ">"},
			{TokenLeftBracket, "["},
			{TokenRightBracket, "]"},
			{TokenEOF, ""},
		}},
		// lower-case names are not types, so the brackets stay separate
		{"items[]", []expectedToken{
			{TokenIdentifier, "items"},
			{TokenLeftBracket, "["},
			{TokenRightBracket, "]"},
			{TokenEOF, ""},
		}},
	}

	for _, tt := range tests {
		toks, _, err := tokenize(t, tt.input, cerrors.Strict)
		if err != nil {
			t.Fatalf("%q: unexpected error: %v", tt.input, err)
		}
		checkTokens(t, toks, tt.want)
	}
}

func TestKeywords(t *testing.T) {
	input := `func class namespace property new this import if else while for in match
return break continue public private protected internal static abstract virtual
override readonly sealed async get set true false null int float double string
bool char void object long const var`

	want := []TokenKind{
		TokenFunc, TokenClass, TokenNamespace, TokenProperty, TokenNew, TokenThis, TokenImport,
		TokenIf, TokenElse, TokenWhile, TokenFor, TokenIn, TokenMatch,
		TokenReturn, TokenBreak, TokenContinue, TokenPublic, TokenPrivate, TokenProtected,
		TokenInternal, TokenStatic, TokenAbstract, TokenVirtual,
		TokenOverride, TokenReadonly, TokenSealed, TokenAsync, TokenGet, TokenSet,
		TokenTrue, TokenFalse, TokenNull, TokenIntType, TokenFloatType, TokenDoubleType, TokenStringType,
		TokenBoolType, TokenCharType, TokenVoidType, TokenObjectType, TokenLongType, TokenConst, TokenVar,
		TokenEOF,
	}

	toks, _, err := tokenize(t, input, cerrors.Strict)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(toks) != len(want) {
		t.Fatalf("expected %d tokens, got %d", len(want), len(toks))
	}
	for i, kind := range want {
		if toks[i].Kind != kind {
			t.Fatalf("tests[%d] - tokentype wrong. expected=%s, got=%s", i, kind, toks[i].Kind)
		}
	}
}

func TestOperators(t *testing.T) {
	input := `== != <= >= && || ++ -- += -= *= /= ?? ?. .. => + - * / % = < > ! ? . , : ; ( ) { } [ ]`

	want := []TokenKind{
		TokenEqual, TokenNotEqual, TokenLessEqual, TokenGreaterEqual, TokenAndAnd, TokenOrOr,
		TokenPlusPlus, TokenMinusMinus, TokenPlusAssign, TokenMinusAssign, TokenStarAssign,
		TokenSlashAssign, TokenQuestionQuestion, TokenQuestionDot, TokenDotDot, TokenArrow,
		TokenPlus, TokenMinus, TokenStar, TokenSlash, TokenPercent, TokenAssign, TokenLess,
		TokenGreater, TokenBang, TokenQuestion, TokenDot, TokenComma, TokenColon, TokenSemicolon,
		TokenLeftParen, TokenRightParen, TokenLeftBrace, TokenRightBrace, TokenLeftBracket,
		TokenRightBracket, TokenEOF,
	}

	toks, _, err := tokenize(t, input, cerrors.Strict)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(toks) != len(want) {
		t.Fatalf("expected %d tokens, got %d", len(want), len(toks))
	}
	for i, kind := range want {
		if toks[i].Kind != kind {
			t.Fatalf("tests[%d] - tokentype wrong. expected=%s, got=%s", i, kind, toks[i].Kind)
		}
	}
}

func TestStringsAndComments(t *testing.T) {
	input := `// line comment
var s = "a\nb" /* block
comment */ x`

	toks, _, err := tokenize(t, input, cerrors.Strict)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	checkTokens(t, toks, []expectedToken{
		{TokenVar, "var"},
		{TokenIdentifier, "s"},
		{TokenAssign, "="},
		{TokenString, `a\nb`},
		{TokenIdentifier, "x"},
		{TokenEOF, ""},
	})

	if toks[0].Line != 2 || toks[0].Column != 1 {
		t.Fatalf("var position wrong: %d:%d", toks[0].Line, toks[0].Column)
	}
	if toks[4].Line != 3 || toks[4].Column != 12 {
		t.Fatalf("x position wrong: %d:%d", toks[4].Line, toks[4].Column)
	}
}

func TestStringsAreRaw(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{`"C:\"`, `C:\`},
		{`"tab\t"`, `tab\t`},
		{`"two\\"`, `two\\`},
		{"\"multi\nline\"", "multi\nline"},
	}

	for i, tt := range tests {
		toks, r, err := tokenize(t, "var s = "+tt.input, cerrors.DiagnosticsOnly)
		if err != nil || r.Len() != 0 {
			t.Fatalf("tests[%d] - unexpected diagnostics %v (%v)", i, r.Diagnostics(), err)
		}
		checkTokens(t, toks, []expectedToken{
			{TokenVar, "var"},
			{TokenIdentifier, "s"},
			{TokenAssign, "="},
			{TokenString, tt.want},
			{TokenEOF, ""},
		})
	}
}

func TestBackslashDoesNotHideClosingQuote(t *testing.T) {
	toks, r, err := tokenize(t, `f("C:\", x)`, cerrors.Strict)
	if err != nil || r.HasErrors() {
		t.Fatalf("unexpected error: %v %v", err, r.Diagnostics())
	}
	checkTokens(t, toks, []expectedToken{
		{TokenIdentifier, "f"},
		{TokenLeftParen, "("},
		{TokenString, `C:\`},
		{TokenComma, ","},
		{TokenIdentifier, "x"},
		{TokenRightParen, ")"},
		{TokenEOF, ""},
	})
}

func TestUnterminatedBlockCommentEndsAtEOF(t *testing.T) {
	toks, r, err := tokenize(t, "x /* never closed", cerrors.Strict)
	if err != nil || r.HasErrors() {
		t.Fatalf("unterminated block comment must not be an error: %v", err)
	}
	checkTokens(t, toks, []expectedToken{{TokenIdentifier, "x"}, {TokenEOF, ""}})
}

func TestEOFPosition(t *testing.T) {
	toks, _, _ := tokenize(t, "var x\n", cerrors.Strict)
	eof := toks[len(toks)-1]
	if eof.Kind != TokenEOF || eof.Text != "" {
		t.Fatalf("last token must be an empty EOF, got %s", eof)
	}
	if eof.Line != 2 || eof.Column != 1 {
		t.Fatalf("EOF position wrong: %d:%d", eof.Line, eof.Column)
	}

	toks, _, _ = tokenize(t, "", cerrors.Strict)
	if len(toks) != 1 || toks[0].Line != 1 || toks[0].Column != 1 {
		t.Fatalf("empty input must yield a single EOF at 1:1, got %v", toks)
	}
}

func TestUnterminatedStringDiagnosticsOnly(t *testing.T) {
	toks, r, err := tokenize(t, `var s = "abc`, cerrors.DiagnosticsOnly)
	if err != nil {
		t.Fatalf("diagnostics-only mode must not return an error, got %v", err)
	}
	if !r.HasErrors() {
		t.Fatalf("expected HasErrors after an unterminated string")
	}
	if r.Diagnostics()[0].Code != diagnostic.CodeUnterminatedString {
		t.Fatalf("unexpected code %s", r.Diagnostics()[0].Code)
	}
	checkTokens(t, toks, []expectedToken{
		{TokenVar, "var"},
		{TokenIdentifier, "s"},
		{TokenAssign, "="},
		{TokenEOF, ""},
	})
}

func TestRecoveryLocality(t *testing.T) {
	toks, r, err := tokenize(t, "var x = 1 @ y;", cerrors.DiagnosticsOnly)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	checkTokens(t, toks, []expectedToken{
		{TokenVar, "var"},
		{TokenIdentifier, "x"},
		{TokenAssign, "="},
		{TokenNumber, "1"},
		{TokenIdentifier, "y"},
		{TokenSemicolon, ";"},
		{TokenEOF, ""},
	})
	ds := r.Diagnostics()
	if len(ds) != 1 {
		t.Fatalf("expected exactly one diagnostic, got %v", ds)
	}
	if ds[0].Code != diagnostic.CodeUnknownCharacter || ds[0].Line != 1 || ds[0].Column != 11 {
		t.Fatalf("unexpected diagnostic %s", ds[0])
	}
}

func TestStrictModeReportsRecovery(t *testing.T) {
	toks, r, err := tokenize(t, "a @ b # c", cerrors.Strict)
	if err == nil {
		t.Fatalf("strict mode must return the first lexical error")
	}
	if !errors.Is(err, cerrors.ErrLexical) {
		t.Fatalf("expected a lexical error, got %v", err)
	}
	var ce *cerrors.CompileError
	if !errors.As(err, &ce) || ce.Pos.Column != 3 {
		t.Fatalf("expected the first error at column 3, got %v", err)
	}

	// every error is followed by a recovery note, and scanning still reaches the end
	codes := []string{
		diagnostic.CodeUnknownCharacter, diagnostic.CodeLexerRecovered,
		diagnostic.CodeUnknownCharacter, diagnostic.CodeLexerRecovered,
	}
	ds := r.Diagnostics()
	if len(ds) != len(codes) {
		t.Fatalf("expected %d diagnostics, got %v", len(codes), ds)
	}
	for i, code := range codes {
		if ds[i].Code != code {
			t.Errorf("diagnostics[%d] - code wrong. expected=%s, got=%s", i, code, ds[i].Code)
		}
	}
	checkTokens(t, toks, []expectedToken{
		{TokenIdentifier, "a"},
		{TokenIdentifier, "b"},
		{TokenIdentifier, "c"},
		{TokenEOF, ""},
	})
}

func TestInvalidNumber(t *testing.T) {
	toks, r, err := tokenize(t, "x = 12ab", cerrors.DiagnosticsOnly)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.ErrorCount() != 1 || r.Diagnostics()[0].Code != diagnostic.CodeInvalidNumber {
		t.Fatalf("expected one invalid number diagnostic, got %v", r.Diagnostics())
	}
	checkTokens(t, toks, []expectedToken{
		{TokenIdentifier, "x"},
		{TokenAssign, "="},
		{TokenNumber, "12ab"},
		{TokenEOF, ""},
	})

	toks, _, err = tokenize(t, "x = 12ab", cerrors.Strict)
	if !errors.Is(err, cerrors.ErrLexical) {
		t.Fatalf("expected lexical error in strict mode, got %v", err)
	}
	checkTokens(t, toks, []expectedToken{
		{TokenIdentifier, "x"},
		{TokenAssign, "="},
		{TokenEOF, ""},
	})
}

func TestExponentIsPartOfNumber(t *testing.T) {
	toks, r, err := tokenize(t, "1e10", cerrors.Strict)
	if err != nil || r.HasErrors() {
		t.Fatalf("unexpected error: %v %v", err, r.Diagnostics())
	}
	checkTokens(t, toks, []expectedToken{{TokenNumber, "1e10"}, {TokenEOF, ""}})
}

func TestVerboseInfoDiagnostics(t *testing.T) {
	r := diagnostic.NewReporter(diagnostic.WithVerbose(true))
	toks, err := New("var x", r).Tokenize(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	ds := r.Diagnostics()
	if len(ds) != 2 {
		t.Fatalf("expected start and finish notes, got %v", ds)
	}
	if ds[0].Code != diagnostic.CodeLexStarted || ds[0].Message != "lexing 5 characters" {
		t.Fatalf("unexpected start note %s", ds[0])
	}
	if ds[1].Code != diagnostic.CodeLexFinished || ds[1].Message != "produced 3 tokens" {
		t.Fatalf("unexpected finish note %s", ds[1])
	}
	if r.HasErrors() || len(toks) != 3 {
		t.Fatalf("info notes must not affect the result")
	}
}

func TestTokenizeIsIdempotent(t *testing.T) {
	input := "class A { var s = \"open\n func f() { return 1 @ 2 } }"

	toks1, r1, _ := tokenize(t, input, cerrors.DiagnosticsOnly)
	toks2, r2, _ := tokenize(t, input, cerrors.DiagnosticsOnly)

	if !reflect.DeepEqual(toks1, toks2) {
		t.Fatalf("token streams differ:\n%v\n%v", toks1, toks2)
	}
	if !reflect.DeepEqual(r1.Diagnostics(), r2.Diagnostics()) {
		t.Fatalf("diagnostics differ:\n%v\n%v", r1.Diagnostics(), r2.Diagnostics())
	}
}

func TestTokenizeTwiceReturnsSameStream(t *testing.T) {
	r := diagnostic.NewReporter()
	l := New("a b", r)
	first, _ := l.Tokenize(context.Background())
	second, _ := l.Tokenize(context.Background())
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("second call must return the same stream")
	}
	if r.Len() != 0 {
		t.Fatalf("second call must not report again")
	}
}

func TestTokenizeCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	r := diagnostic.NewReporter()
	_, err := New("var x = 1", r, WithMode(cerrors.DiagnosticsOnly)).Tokenize(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if r.HasErrors() {
		t.Fatalf("cancellation must not be reported as a diagnostic")
	}
}

func TestTokenString(t *testing.T) {
	tok := Token{Kind: TokenIdentifier, Text: "x", Line: 3, Column: 7}
	if got := tok.String(); got != `IDENTIFIER("x")@3:7` {
		t.Fatalf("unexpected token string %q", got)
	}
	if got := TokenKind(999).String(); got != "UNKNOWN(999)" {
		t.Fatalf("unexpected kind string %q", got)
	}
}

func TestTokenKindSpelling(t *testing.T) {
	tests := []struct {
		kind TokenKind
		want string
	}{
		{TokenRightBrace, "'}'"},
		{TokenArrow, "'=>'"},
		{TokenClass, "'class'"},
		{TokenEOF, "end of input"},
		{TokenIdentifier, "identifier"},
	}

	for i, tt := range tests {
		if got := tt.kind.Spelling(); got != tt.want {
			t.Errorf("tests[%d] - spelling wrong. expected=%q, got=%q", i, tt.want, got)
		}
	}
}
