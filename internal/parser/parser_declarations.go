package parser

import (
	"github.com/muhigh-lang/muhigh/internal/ast"
	"github.com/muhigh-lang/muhigh/internal/diagnostic"
	"github.com/muhigh-lang/muhigh/internal/lexer"
	"github.com/muhigh-lang/muhigh/internal/position"
)

// parseDeclarationOrStatement parses an optional attribute list and the
// statement or declaration after it.
func (p *Parser) parseDeclarationOrStatement() (ast.Statement, error) {
	var attrs []*ast.Attribute
	if p.atAttributeList() {
		var err error
		attrs, err = p.parseAttributes()
		if err != nil {
			return nil, err
		}
		if !p.attributable() {
			if err := p.fail(p.errorf(diagnostic.CodeDanglingAttribute, attrs[0].Start,
				"attributes must be followed by a function or class declaration, found %s", describe(p.cur()))); err != nil {
				return nil, err
			}
			attrs = nil
		}
	}

	switch kind := p.cur().Kind; {
	case kind == lexer.TokenFunc, kind == lexer.TokenAsync && p.peekAt(1).Kind == lexer.TokenFunc:
		return p.parseFunctionDeclaration(attrs)
	case kind == lexer.TokenClass, lexer.IsModifier(kind):
		return p.parseClassDeclaration(attrs)
	default:
		return p.parseStatement()
	}
}

// attributable reports whether the current token can carry attributes at
// statement level.
func (p *Parser) attributable() bool {
	kind := p.cur().Kind
	return kind == lexer.TokenFunc || kind == lexer.TokenClass || lexer.IsModifier(kind)
}

// ===== Attributes =====

// attributeFollowers are the tokens that may follow a closing ']' for the
// brackets to be read as attributes.
var attributeFollowers = map[lexer.TokenKind]bool{
	lexer.TokenLeftBracket: true,
	lexer.TokenFunc:        true,
	lexer.TokenClass:       true,
	lexer.TokenVar:         true,
	lexer.TokenConst:       true,
	lexer.TokenProperty:    true,
	lexer.TokenNamespace:   true,
	lexer.TokenImport:      true,
}

// atAttributeList decides whether '[' opens attributes rather than an array
// literal: the brackets must hold an identifier first and be followed by
// another attribute list or a declaration keyword.
func (p *Parser) atAttributeList() bool {
	if !p.at(lexer.TokenLeftBracket) || p.peekAt(1).Kind != lexer.TokenIdentifier {
		return false
	}
	depth := 0
	for i := 0; ; i++ {
		switch p.peekAt(i).Kind {
		case lexer.TokenEOF:
			return false
		case lexer.TokenLeftBracket:
			depth++
		case lexer.TokenRightBracket:
			depth--
			if depth == 0 {
				next := p.peekAt(i + 1).Kind
				return attributeFollowers[next] || lexer.IsModifier(next)
			}
		}
	}
}

// parseAttributes parses one or more `[Name(args), Other]` groups.
func (p *Parser) parseAttributes() ([]*ast.Attribute, error) {
	var attrs []*ast.Attribute
	for p.at(lexer.TokenLeftBracket) {
		open := p.advance()
		for {
			if err := p.ctx.Err(); err != nil {
				return nil, err
			}
			if !p.at(lexer.TokenIdentifier) {
				return nil, p.errorf(diagnostic.CodeMalformedAttr, p.cur().Pos(),
					"expected attribute name, found %s", describe(p.cur()))
			}
			name := p.advance()
			attr := &ast.Attribute{Start: name.Pos(), Name: name.Text}
			if p.at(lexer.TokenLeftParen) {
				args, err := p.parseArguments()
				if err != nil {
					return nil, err
				}
				attr.Arguments = args
			}
			attrs = append(attrs, attr)
			if !p.accept(lexer.TokenComma) {
				break
			}
		}
		if !p.accept(lexer.TokenRightBracket) {
			return nil, p.errorf(diagnostic.CodeMalformedAttr, p.cur().Pos(),
				"unclosed attribute list opened at %s, found %s", open.Pos(), describe(p.cur()))
		}
	}
	return attrs, nil
}

// ===== Declarations =====

func (p *Parser) parseImportDeclaration() (ast.Statement, error) {
	start := p.advance()
	name, err := p.expect(lexer.TokenIdentifier)
	if err != nil {
		return nil, err
	}
	p.accept(lexer.TokenSemicolon)
	return &ast.ImportDeclaration{Start: start.Pos(), Path: name.Text}, nil
}

// parseVariableDeclaration parses var/const. The trailing ';' is consumed
// only when terminated is set; for-loop headers handle it themselves.
func (p *Parser) parseVariableDeclaration(terminated bool) (*ast.VariableDeclaration, error) {
	start := p.advance()
	decl := &ast.VariableDeclaration{Start: start.Pos(), IsConst: start.Kind == lexer.TokenConst}

	name, err := p.expect(lexer.TokenIdentifier)
	if err != nil {
		return nil, err
	}
	decl.Name = name.Text

	if p.accept(lexer.TokenColon) {
		if decl.Type, err = p.parseType(); err != nil {
			return nil, err
		}
	}
	if p.accept(lexer.TokenAssign) {
		if decl.Initializer, err = p.parseExpression(); err != nil {
			return nil, err
		}
	}
	if terminated {
		p.accept(lexer.TokenSemicolon)
	}
	return decl, nil
}

func (p *Parser) parseFunctionDeclaration(attrs []*ast.Attribute) (ast.Statement, error) {
	decl := &ast.FunctionDeclaration{Start: p.cur().Pos(), Attributes: attrs}
	if p.accept(lexer.TokenAsync) {
		decl.IsAsync = true
	}
	if _, err := p.expect(lexer.TokenFunc); err != nil {
		return nil, err
	}

	var err error
	decl.Name, decl.Parameters, decl.ReturnType, decl.Body, err = p.parseCallable()
	if err != nil {
		return nil, err
	}
	return decl, nil
}

// parseCallable parses `Name(params) [: Type] { body }` shared by functions
// and methods.
func (p *Parser) parseCallable() (string, []*ast.Parameter, *ast.TypeRef, []ast.Statement, error) {
	name, err := p.expect(lexer.TokenIdentifier)
	if err != nil {
		return "", nil, nil, nil, err
	}
	params, err := p.parseParameters()
	if err != nil {
		return "", nil, nil, nil, err
	}
	var ret *ast.TypeRef
	if p.accept(lexer.TokenColon) {
		if ret, err = p.parseType(); err != nil {
			return "", nil, nil, nil, err
		}
	}
	body, err := p.parseBlock()
	if err != nil {
		return "", nil, nil, nil, err
	}
	return name.Text, params, ret, body, nil
}

// parseParameters parses `( [name: Type {, name: Type}] )`.
func (p *Parser) parseParameters() ([]*ast.Parameter, error) {
	if _, err := p.expect(lexer.TokenLeftParen); err != nil {
		return nil, err
	}
	var params []*ast.Parameter
	for !p.at(lexer.TokenRightParen) {
		if err := p.ctx.Err(); err != nil {
			return nil, err
		}
		name, err := p.expect(lexer.TokenIdentifier)
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(lexer.TokenColon); err != nil {
			return nil, err
		}
		typ, err := p.parseType()
		if err != nil {
			return nil, err
		}
		params = append(params, &ast.Parameter{Start: name.Pos(), Name: name.Text, Type: typ})
		if !p.accept(lexer.TokenComma) {
			break
		}
	}
	if _, err := p.expect(lexer.TokenRightParen); err != nil {
		return nil, err
	}
	return params, nil
}

// parseModifiers collects leading modifier keywords.
func (p *Parser) parseModifiers() []string {
	var mods []string
	for lexer.IsModifier(p.cur().Kind) {
		mods = append(mods, p.advance().Text)
	}
	return mods
}

func (p *Parser) parseClassDeclaration(attrs []*ast.Attribute) (ast.Statement, error) {
	decl := &ast.ClassDeclaration{Start: p.cur().Pos(), Attributes: attrs}
	decl.Modifiers = p.parseModifiers()
	if _, err := p.expect(lexer.TokenClass); err != nil {
		return nil, err
	}
	name, err := p.expect(lexer.TokenIdentifier)
	if err != nil {
		return nil, err
	}
	decl.Name = name.Text

	if p.accept(lexer.TokenColon) {
		for {
			base, err := p.parseType()
			if err != nil {
				return nil, err
			}
			decl.BaseTypes = append(decl.BaseTypes, base)
			if !p.accept(lexer.TokenComma) {
				break
			}
		}
	}

	if _, err := p.expect(lexer.TokenLeftBrace); err != nil {
		return nil, err
	}
	if decl.Members, err = p.parseMembers(); err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.TokenRightBrace); err != nil {
		return nil, err
	}
	return decl, nil
}

// parseMembers parses class members up to the closing '}' (not consumed),
// recovering at member boundaries.
func (p *Parser) parseMembers() ([]ast.Statement, error) {
	var members []ast.Statement
	for !p.at(lexer.TokenRightBrace) && !p.at(lexer.TokenEOF) {
		if err := p.ctx.Err(); err != nil {
			return members, err
		}
		start := p.pos
		member, err := p.parseMember()
		if err != nil {
			if err := p.fail(err); err != nil {
				return members, err
			}
			p.synchronize(recoverMember, start)
			continue
		}
		members = append(members, member)
	}
	return members, nil
}

func (p *Parser) parseMember() (ast.Statement, error) {
	var attrs []*ast.Attribute
	if p.at(lexer.TokenLeftBracket) {
		var err error
		if attrs, err = p.parseAttributes(); err != nil {
			return nil, err
		}
	}
	start := p.cur().Pos()
	mods := p.parseModifiers()

	switch p.cur().Kind {
	case lexer.TokenVar, lexer.TokenConst:
		return p.parseField(start, mods, attrs)
	case lexer.TokenFunc:
		p.advance()
		method := &ast.MethodDeclaration{Start: start, Modifiers: mods, Attributes: attrs}
		var err error
		method.Name, method.Parameters, method.ReturnType, method.Body, err = p.parseCallable()
		if err != nil {
			return nil, err
		}
		return method, nil
	case lexer.TokenProperty:
		return p.parseProperty(start, mods, attrs)
	default:
		return nil, p.unexpected("class member")
	}
}

// parseField parses `var|const Name: Type [= expr] [;]` inside a class.
func (p *Parser) parseField(start position.Position, mods []string, attrs []*ast.Attribute) (ast.Statement, error) {
	keyword := p.advance()
	field := &ast.FieldDeclaration{
		Start:      start,
		Modifiers:  mods,
		Attributes: attrs,
		IsConst:    keyword.Kind == lexer.TokenConst,
	}
	name, err := p.expect(lexer.TokenIdentifier)
	if err != nil {
		return nil, err
	}
	field.Name = name.Text
	if _, err := p.expect(lexer.TokenColon); err != nil {
		return nil, err
	}
	if field.Type, err = p.parseType(); err != nil {
		return nil, err
	}
	if p.accept(lexer.TokenAssign) {
		if field.Initializer, err = p.parseExpression(); err != nil {
			return nil, err
		}
	}
	p.accept(lexer.TokenSemicolon)
	return field, nil
}

// parseProperty parses `property Name: Type { get; set { ... } }`.
func (p *Parser) parseProperty(start position.Position, mods []string, attrs []*ast.Attribute) (ast.Statement, error) {
	p.advance()
	prop := &ast.PropertyDeclaration{Start: start, Modifiers: mods, Attributes: attrs}
	name, err := p.expect(lexer.TokenIdentifier)
	if err != nil {
		return nil, err
	}
	prop.Name = name.Text
	if _, err := p.expect(lexer.TokenColon); err != nil {
		return nil, err
	}
	if prop.Type, err = p.parseType(); err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.TokenLeftBrace); err != nil {
		return nil, err
	}

	for !p.at(lexer.TokenRightBrace) {
		if err := p.ctx.Err(); err != nil {
			return nil, err
		}
		tok := p.cur()
		acc := &ast.Accessor{Start: tok.Pos()}
		switch tok.Kind {
		case lexer.TokenGet:
			acc.Kind = ast.AccessorGet
		case lexer.TokenSet:
			acc.Kind = ast.AccessorSet
		default:
			return nil, p.unexpected("'get' or 'set'")
		}
		p.advance()

		if p.accept(lexer.TokenSemicolon) {
			acc.IsAuto = true
		} else if p.at(lexer.TokenLeftBrace) {
			if acc.Body, err = p.parseBlock(); err != nil {
				return nil, err
			}
		} else {
			return nil, p.unexpected("';' or accessor body")
		}
		prop.Accessors = append(prop.Accessors, acc)
	}
	p.advance()
	return prop, nil
}

func (p *Parser) parseNamespaceDeclaration() (ast.Statement, error) {
	start := p.advance()
	name, err := p.expect(lexer.TokenIdentifier)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.TokenLeftBrace); err != nil {
		return nil, err
	}
	members, err := p.parseStatementList(recoverDeclaration, lexer.TokenRightBrace)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.TokenRightBrace); err != nil {
		return nil, err
	}
	return &ast.NamespaceDeclaration{Start: start.Pos(), Name: name.Text, Members: members}, nil
}
