package lexer

import (
	"fmt"
	"strings"

	"github.com/muhigh-lang/muhigh/internal/position"
)

// TokenKind represents the type of a token
type TokenKind int

// String returns a string representation of the token kind
func (k TokenKind) String() string {
	if name, ok := tokenNames[k]; ok {
		return name
	}
	return fmt.Sprintf("UNKNOWN(%d)", int(k))
}

// Token kinds - μHigh言語のトークン定義
const (
	// 特殊トークン
	TokenEOF TokenKind = iota
	TokenIllegal

	// リテラル
	TokenNumber
	TokenString
	TokenIdentifier

	// 宣言キーワード
	TokenVar
	TokenConst
	TokenFunc
	TokenClass
	TokenNamespace
	TokenProperty
	TokenNew
	TokenThis
	TokenImport

	// 制御フロー
	TokenIf
	TokenElse
	TokenWhile
	TokenFor
	TokenIn
	TokenMatch
	TokenReturn
	TokenBreak
	TokenContinue

	// 修飾子
	TokenPublic
	TokenPrivate
	TokenProtected
	TokenInternal
	TokenStatic
	TokenAbstract
	TokenVirtual
	TokenOverride
	TokenReadonly
	TokenSealed
	TokenAsync

	// アクセサ
	TokenGet
	TokenSet

	// リテラルキーワード
	TokenTrue
	TokenFalse
	TokenNull

	// 型キーワード
	TokenIntType
	TokenFloatType
	TokenDoubleType
	TokenStringType
	TokenBoolType
	TokenCharType
	TokenVoidType
	TokenObjectType
	TokenLongType

	// 二文字演算子
	TokenEqual            // ==
	TokenNotEqual         // !=
	TokenLessEqual        // <=
	TokenGreaterEqual     // >=
	TokenAndAnd           // &&
	TokenOrOr             // ||
	TokenPlusPlus         // ++
	TokenMinusMinus       // --
	TokenPlusAssign       // +=
	TokenMinusAssign      // -=
	TokenStarAssign       // *=
	TokenSlashAssign      // /=
	TokenQuestionQuestion // ??
	TokenQuestionDot      // ?.
	TokenDotDot           // ..
	TokenArrow            // =>

	// 一文字演算子
	TokenPlus
	TokenMinus
	TokenStar
	TokenSlash
	TokenPercent
	TokenAssign
	TokenLess
	TokenGreater
	TokenBang
	TokenQuestion

	// 記号
	TokenDot
	TokenComma
	TokenColon
	TokenSemicolon
	TokenLeftParen
	TokenRightParen
	TokenLeftBrace
	TokenRightBrace
	TokenLeftBracket
	TokenRightBracket
)

// Token represents a lexical token with position information
type Token struct {
	Kind   TokenKind
	Text   string
	Line   int // 1-based
	Column int // 1-based
}

// Pos returns the position of the token's first character.
func (t Token) Pos() position.Position {
	return position.At(t.Line, t.Column)
}

// Is reports whether the token has the given kind.
func (t Token) Is(kind TokenKind) bool {
	return t.Kind == kind
}

// String returns a string representation of the token
func (t Token) String() string {
	return fmt.Sprintf("%s(%q)@%d:%d", t.Kind, t.Text, t.Line, t.Column)
}

// tokenNames provides string representations for token kinds
var tokenNames = map[TokenKind]string{
	TokenEOF:        "EOF",
	TokenIllegal:    "ILLEGAL",
	TokenNumber:     "NUMBER",
	TokenString:     "STRING",
	TokenIdentifier: "IDENTIFIER",

	TokenVar:       "VAR",
	TokenConst:     "CONST",
	TokenFunc:      "FUNC",
	TokenClass:     "CLASS",
	TokenNamespace: "NAMESPACE",
	TokenProperty:  "PROPERTY",
	TokenNew:       "NEW",
	TokenThis:      "THIS",
	TokenImport:    "IMPORT",

	TokenIf:       "IF",
	TokenElse:     "ELSE",
	TokenWhile:    "WHILE",
	TokenFor:      "FOR",
	TokenIn:       "IN",
	TokenMatch:    "MATCH",
	TokenReturn:   "RETURN",
	TokenBreak:    "BREAK",
	TokenContinue: "CONTINUE",

	TokenPublic:    "PUBLIC",
	TokenPrivate:   "PRIVATE",
	TokenProtected: "PROTECTED",
	TokenInternal:  "INTERNAL",
	TokenStatic:    "STATIC",
	TokenAbstract:  "ABSTRACT",
	TokenVirtual:   "VIRTUAL",
	TokenOverride:  "OVERRIDE",
	TokenReadonly:  "READONLY",
	TokenSealed:    "SEALED",
	TokenAsync:     "ASYNC",

	TokenGet: "GET",
	TokenSet: "SET",

	TokenTrue:  "TRUE",
	TokenFalse: "FALSE",
	TokenNull:  "NULL",

	TokenIntType:    "INT_TYPE",
	TokenFloatType:  "FLOAT_TYPE",
	TokenDoubleType: "DOUBLE_TYPE",
	TokenStringType: "STRING_TYPE",
	TokenBoolType:   "BOOL_TYPE",
	TokenCharType:   "CHAR_TYPE",
	TokenVoidType:   "VOID_TYPE",
	TokenObjectType: "OBJECT_TYPE",
	TokenLongType:   "LONG_TYPE",

	TokenEqual:            "EQUAL",
	TokenNotEqual:         "NOT_EQUAL",
	TokenLessEqual:        "LESS_EQUAL",
	TokenGreaterEqual:     "GREATER_EQUAL",
	TokenAndAnd:           "AND_AND",
	TokenOrOr:             "OR_OR",
	TokenPlusPlus:         "PLUS_PLUS",
	TokenMinusMinus:       "MINUS_MINUS",
	TokenPlusAssign:       "PLUS_ASSIGN",
	TokenMinusAssign:      "MINUS_ASSIGN",
	TokenStarAssign:       "STAR_ASSIGN",
	TokenSlashAssign:      "SLASH_ASSIGN",
	TokenQuestionQuestion: "QUESTION_QUESTION",
	TokenQuestionDot:      "QUESTION_DOT",
	TokenDotDot:           "DOT_DOT",
	TokenArrow:            "ARROW",

	TokenPlus:     "PLUS",
	TokenMinus:    "MINUS",
	TokenStar:     "STAR",
	TokenSlash:    "SLASH",
	TokenPercent:  "PERCENT",
	TokenAssign:   "ASSIGN",
	TokenLess:     "LESS",
	TokenGreater:  "GREATER",
	TokenBang:     "BANG",
	TokenQuestion: "QUESTION",

	TokenDot:          "DOT",
	TokenComma:        "COMMA",
	TokenColon:        "COLON",
	TokenSemicolon:    "SEMICOLON",
	TokenLeftParen:    "LPAREN",
	TokenRightParen:   "RPAREN",
	TokenLeftBrace:    "LBRACE",
	TokenRightBrace:   "RBRACE",
	TokenLeftBracket:  "LBRACKET",
	TokenRightBracket: "RBRACKET",
}

// keywords maps reserved words to their token kinds. Read only through
// LookupKeyword; never mutated after package initialization.
var keywords = map[string]TokenKind{
	"var":       TokenVar,
	"const":     TokenConst,
	"func":      TokenFunc,
	"class":     TokenClass,
	"namespace": TokenNamespace,
	"property":  TokenProperty,
	"new":       TokenNew,
	"this":      TokenThis,
	"import":    TokenImport,
	"if":        TokenIf,
	"else":      TokenElse,
	"while":     TokenWhile,
	"for":       TokenFor,
	"in":        TokenIn,
	"match":     TokenMatch,
	"return":    TokenReturn,
	"break":     TokenBreak,
	"continue":  TokenContinue,
	"public":    TokenPublic,
	"private":   TokenPrivate,
	"protected": TokenProtected,
	"internal":  TokenInternal,
	"static":    TokenStatic,
	"abstract":  TokenAbstract,
	"virtual":   TokenVirtual,
	"override":  TokenOverride,
	"readonly":  TokenReadonly,
	"sealed":    TokenSealed,
	"async":     TokenAsync,
	"get":       TokenGet,
	"set":       TokenSet,
	"true":      TokenTrue,
	"false":     TokenFalse,
	"null":      TokenNull,
	"int":       TokenIntType,
	"float":     TokenFloatType,
	"double":    TokenDoubleType,
	"string":    TokenStringType,
	"bool":      TokenBoolType,
	"char":      TokenCharType,
	"void":      TokenVoidType,
	"object":    TokenObjectType,
	"long":      TokenLongType,
}

// twoCharOperators is consulted before singleCharOperators (maximal munch).
var twoCharOperators = map[string]TokenKind{
	"==": TokenEqual,
	"!=": TokenNotEqual,
	"<=": TokenLessEqual,
	">=": TokenGreaterEqual,
	"&&": TokenAndAnd,
	"||": TokenOrOr,
	"++": TokenPlusPlus,
	"--": TokenMinusMinus,
	"+=": TokenPlusAssign,
	"-=": TokenMinusAssign,
	"*=": TokenStarAssign,
	"/=": TokenSlashAssign,
	"??": TokenQuestionQuestion,
	"?.": TokenQuestionDot,
	"..": TokenDotDot,
	"=>": TokenArrow,
}

var singleCharOperators = map[rune]TokenKind{
	'+': TokenPlus,
	'-': TokenMinus,
	'*': TokenStar,
	'/': TokenSlash,
	'%': TokenPercent,
	'=': TokenAssign,
	'<': TokenLess,
	'>': TokenGreater,
	'!': TokenBang,
	'?': TokenQuestion,
	'.': TokenDot,
	',': TokenComma,
	':': TokenColon,
	';': TokenSemicolon,
	'(': TokenLeftParen,
	')': TokenRightParen,
	'{': TokenLeftBrace,
	'}': TokenRightBrace,
	'[': TokenLeftBracket,
	']': TokenRightBracket,
}

// spellings maps keyword and operator kinds back to their source text.
var spellings = func() map[TokenKind]string {
	m := make(map[TokenKind]string, len(keywords)+len(twoCharOperators)+len(singleCharOperators))
	for text, kind := range keywords {
		m[kind] = text
	}
	for text, kind := range twoCharOperators {
		m[kind] = text
	}
	for r, kind := range singleCharOperators {
		m[kind] = string(r)
	}
	return m
}()

// Spelling describes the kind for diagnostics: the quoted source text for
// keywords and operators, a lower-case name otherwise.
func (k TokenKind) Spelling() string {
	if s, ok := spellings[k]; ok {
		return "'" + s + "'"
	}
	if k == TokenEOF {
		return "end of input"
	}
	return strings.ToLower(k.String())
}

// LookupKeyword returns the keyword kind for text.
func LookupKeyword(text string) (TokenKind, bool) {
	kind, ok := keywords[text]
	return kind, ok
}

// IsBuiltinType reports whether text names a built-in type.
func IsBuiltinType(text string) bool {
	kind, ok := keywords[text]
	return ok && IsTypeKeyword(kind)
}

// IsTypeKeyword reports whether kind is one of the built-in type keywords.
func IsTypeKeyword(kind TokenKind) bool {
	return kind >= TokenIntType && kind <= TokenLongType
}

// IsModifier reports whether kind is a declaration modifier.
func IsModifier(kind TokenKind) bool {
	return kind >= TokenPublic && kind <= TokenAsync
}

// IsKeyword reports whether kind is any reserved word.
func IsKeyword(kind TokenKind) bool {
	return kind >= TokenVar && kind <= TokenLongType
}
