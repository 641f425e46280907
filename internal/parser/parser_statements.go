package parser

import (
	"github.com/muhigh-lang/muhigh/internal/ast"
	"github.com/muhigh-lang/muhigh/internal/lexer"
)

// parseStatement parses one statement that is not a function or class.
func (p *Parser) parseStatement() (ast.Statement, error) {
	switch p.cur().Kind {
	case lexer.TokenImport:
		return p.parseImportDeclaration()
	case lexer.TokenVar, lexer.TokenConst:
		return p.parseVariableDeclaration(true)
	case lexer.TokenNamespace:
		return p.parseNamespaceDeclaration()
	case lexer.TokenIf:
		return p.parseIfStatement()
	case lexer.TokenWhile:
		return p.parseWhileStatement()
	case lexer.TokenFor:
		return p.parseForStatement()
	case lexer.TokenMatch:
		return p.parseMatchStatement()
	case lexer.TokenReturn:
		return p.parseReturnStatement()
	case lexer.TokenBreak:
		tok := p.advance()
		p.accept(lexer.TokenSemicolon)
		return &ast.BreakStatement{Start: tok.Pos()}, nil
	case lexer.TokenContinue:
		tok := p.advance()
		p.accept(lexer.TokenSemicolon)
		return &ast.ContinueStatement{Start: tok.Pos()}, nil
	case lexer.TokenSemicolon:
		// empty statement
		p.advance()
		return nil, nil
	default:
		return p.parseExpressionStatement()
	}
}

// parseBlock parses `{ statements }`.
func (p *Parser) parseBlock() ([]ast.Statement, error) {
	if _, err := p.expect(lexer.TokenLeftBrace); err != nil {
		return nil, err
	}
	stmts, err := p.parseStatementList(recoverStatement, lexer.TokenRightBrace)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.TokenRightBrace); err != nil {
		return nil, err
	}
	if stmts == nil {
		stmts = []ast.Statement{}
	}
	return stmts, nil
}

func (p *Parser) parseIfStatement() (ast.Statement, error) {
	start := p.advance()
	cond, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	then, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	stmt := &ast.IfStatement{Start: start.Pos(), Condition: cond, Then: then}

	if p.accept(lexer.TokenElse) {
		if p.at(lexer.TokenIf) {
			nested, err := p.parseIfStatement()
			if err != nil {
				return nil, err
			}
			stmt.Else = []ast.Statement{nested}
		} else if stmt.Else, err = p.parseBlock(); err != nil {
			return nil, err
		}
	}
	return stmt, nil
}

func (p *Parser) parseWhileStatement() (ast.Statement, error) {
	start := p.advance()
	cond, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	return &ast.WhileStatement{Start: start.Pos(), Condition: cond, Body: body}, nil
}

// parseForStatement handles the three loop shapes:
//
//	for (init; cond; incr) { }
//	for var x in iterable { }
//	for var x = 0; cond; incr { }
func (p *Parser) parseForStatement() (ast.Statement, error) {
	start := p.advance()
	stmt := &ast.ForStatement{Start: start.Pos()}

	switch {
	case p.at(lexer.TokenLeftParen):
		p.advance()
		if err := p.parseForClauses(stmt, lexer.TokenRightParen); err != nil {
			return nil, err
		}
		if _, err := p.expect(lexer.TokenRightParen); err != nil {
			return nil, err
		}

	case p.at(lexer.TokenVar) && p.peekAt(2).Kind == lexer.TokenIn,
		p.at(lexer.TokenIdentifier) && p.peekAt(1).Kind == lexer.TokenIn:
		p.accept(lexer.TokenVar)
		name, err := p.expect(lexer.TokenIdentifier)
		if err != nil {
			return nil, err
		}
		p.advance() // in
		stmt.IsForIn = true
		stmt.Iterator = name.Text
		if stmt.Iterable, err = p.parseExpression(); err != nil {
			return nil, err
		}

	default:
		if err := p.parseForClauses(stmt, lexer.TokenLeftBrace); err != nil {
			return nil, err
		}
	}

	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	stmt.Body = body
	return stmt, nil
}

// parseForClauses parses `init? ; cond? ; incr?` stopping before end.
func (p *Parser) parseForClauses(stmt *ast.ForStatement, end lexer.TokenKind) error {
	if !p.at(lexer.TokenSemicolon) {
		if p.at(lexer.TokenVar) || p.at(lexer.TokenConst) {
			decl, err := p.parseVariableDeclaration(false)
			if err != nil {
				return err
			}
			stmt.Init = decl
		} else {
			expr, err := p.parseExpression()
			if err != nil {
				return err
			}
			stmt.Init = &ast.ExpressionStatement{Start: expr.Pos(), Expression: expr}
		}
	}
	if _, err := p.expect(lexer.TokenSemicolon); err != nil {
		return err
	}

	var err error
	if !p.at(lexer.TokenSemicolon) {
		if stmt.Condition, err = p.parseExpression(); err != nil {
			return err
		}
	}
	if _, err := p.expect(lexer.TokenSemicolon); err != nil {
		return err
	}

	if !p.at(end) {
		if stmt.Increment, err = p.parseExpression(); err != nil {
			return err
		}
	}
	return nil
}

// parseMatchStatement parses `match subject { arms }`.
func (p *Parser) parseMatchStatement() (ast.Statement, error) {
	start := p.advance()
	subject, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	arms, err := p.parseMatchArms()
	if err != nil {
		return nil, err
	}
	return &ast.MatchStatement{Start: start.Pos(), Subject: subject, Arms: arms}, nil
}

func (p *Parser) parseReturnStatement() (ast.Statement, error) {
	start := p.advance()
	stmt := &ast.ReturnStatement{Start: start.Pos()}
	if !p.at(lexer.TokenSemicolon) && !p.at(lexer.TokenRightBrace) && !p.at(lexer.TokenEOF) {
		value, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		stmt.Value = value
	}
	p.accept(lexer.TokenSemicolon)
	return stmt, nil
}

func (p *Parser) parseExpressionStatement() (ast.Statement, error) {
	expr, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	p.accept(lexer.TokenSemicolon)
	return &ast.ExpressionStatement{Start: expr.Pos(), Expression: expr}, nil
}
