package parser

import (
	"github.com/muhigh-lang/muhigh/internal/lexer"
)

// recoverySet selects where panic-mode recovery may stop.
type recoverySet int

const (
	// recoverStatement stops after ';', after a brace group closes, before
	// the enclosing '}' or before a statement keyword.
	recoverStatement recoverySet = iota
	// recoverDeclaration additionally stops before a top-level declaration.
	recoverDeclaration
	// recoverMember stops before the next class member or the closing '}'.
	recoverMember
)

var statementStarts = map[lexer.TokenKind]bool{
	lexer.TokenVar:      true,
	lexer.TokenConst:    true,
	lexer.TokenIf:       true,
	lexer.TokenWhile:    true,
	lexer.TokenFor:      true,
	lexer.TokenReturn:   true,
	lexer.TokenBreak:    true,
	lexer.TokenContinue: true,
}

var declarationStarts = map[lexer.TokenKind]bool{
	lexer.TokenFunc:      true,
	lexer.TokenAsync:     true,
	lexer.TokenClass:     true,
	lexer.TokenNamespace: true,
	lexer.TokenImport:    true,
}

var memberStarts = map[lexer.TokenKind]bool{
	lexer.TokenVar:      true,
	lexer.TokenConst:    true,
	lexer.TokenFunc:     true,
	lexer.TokenProperty: true,
}

func (s recoverySet) stopsBefore(kind lexer.TokenKind) bool {
	switch s {
	case recoverMember:
		return memberStarts[kind] || lexer.IsModifier(kind)
	case recoverDeclaration:
		return statementStarts[kind] || declarationStarts[kind] || lexer.IsModifier(kind)
	default:
		return statementStarts[kind] || declarationStarts[kind]
	}
}

// synchronize discards tokens after a failed statement that began at start.
// Brace groups opened while skipping are skipped whole. At least one token
// is consumed per failed statement so recovery always makes progress.
func (p *Parser) synchronize(set recoverySet, start int) {
	depth := 0
	for !p.at(lexer.TokenEOF) {
		kind := p.cur().Kind
		switch {
		case kind == lexer.TokenSemicolon && depth == 0:
			p.advance()
			return
		case kind == lexer.TokenLeftBrace:
			depth++
		case kind == lexer.TokenRightBrace:
			if depth == 0 {
				p.ensureProgress(start)
				return
			}
			depth--
			if depth == 0 {
				p.advance()
				return
			}
		case depth == 0 && p.pos > start && set.stopsBefore(kind):
			return
		}
		p.advance()
	}
}

// ensureProgress skips one token when nothing was consumed since start and
// the stopping '}' is stray at the outermost level.
func (p *Parser) ensureProgress(start int) {
	if p.pos == start {
		p.advance()
	}
}
