package parser

import (
	"errors"
	"strings"

	"github.com/muhigh-lang/muhigh/internal/ast"
	"github.com/muhigh-lang/muhigh/internal/diagnostic"
	cerrors "github.com/muhigh-lang/muhigh/internal/errors"
	"github.com/muhigh-lang/muhigh/internal/lexer"
)

// parseType parses `Name [<Type {, Type}>] {[]}`. A "[]" fused onto the
// name by the lexer counts toward the array rank.
func (p *Parser) parseType() (*ast.TypeRef, error) {
	tok := p.cur()
	if tok.Kind != lexer.TokenIdentifier && !lexer.IsTypeKeyword(tok.Kind) {
		return nil, p.unexpected("type")
	}
	p.advance()

	ref := &ast.TypeRef{Start: tok.Pos(), Name: tok.Text}
	for strings.HasSuffix(ref.Name, "[]") {
		ref.Name = strings.TrimSuffix(ref.Name, "[]")
		ref.ArrayRank++
	}

	if ref.ArrayRank == 0 && p.at(lexer.TokenLess) {
		open := p.advance()
		for {
			if err := p.ctx.Err(); err != nil {
				return nil, err
			}
			arg, err := p.parseType()
			if err != nil {
				var ce *cerrors.CompileError
				if !errors.As(err, &ce) {
					return nil, err
				}
				return nil, p.errorf(diagnostic.CodeMalformedGeneric, ce.Pos,
					"malformed generic argument list for %s: %s", ref.Name, ce.Message)
			}
			ref.Arguments = append(ref.Arguments, arg)
			if !p.accept(lexer.TokenComma) {
				break
			}
		}
		if !p.accept(lexer.TokenGreater) {
			return nil, p.errorf(diagnostic.CodeMalformedGeneric, p.cur().Pos(),
				"expected '>' to close generic arguments opened at %s, found %s", open.Pos(), describe(p.cur()))
		}
	}

	for p.at(lexer.TokenLeftBracket) && p.peekAt(1).Kind == lexer.TokenRightBracket {
		p.advance()
		p.advance()
		ref.ArrayRank++
	}
	return ref, nil
}

// tryParseType parses a type without side effects on failure: the position
// is restored and nothing is reported.
func (p *Parser) tryParseType() (*ast.TypeRef, bool) {
	saved := p.pos
	ref, err := p.parseType()
	if err != nil {
		p.pos = saved
		return nil, false
	}
	return ref, true
}
