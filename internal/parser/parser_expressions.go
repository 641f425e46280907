package parser

import (
	"strconv"
	"strings"

	"github.com/muhigh-lang/muhigh/internal/ast"
	"github.com/muhigh-lang/muhigh/internal/diagnostic"
	"github.com/muhigh-lang/muhigh/internal/lexer"
)

// ====== Expression Parsing (precedence climbing) ======
//
// Lowest to highest:
//
//	assignment   = += -= *= /=   (right)
//	match        subject match { arms }
//	coalesce     ??              (right)
//	or           ||
//	and          &&
//	equality     == !=
//	relational   < > <= >=
//	range        ..              (non-chaining)
//	additive     + -
//	multiplicative * / %
//	unary        ! - ++ --
//	postfix      call, member, ?.member, index, ++ --

var assignmentOperators = map[lexer.TokenKind]bool{
	lexer.TokenAssign:      true,
	lexer.TokenPlusAssign:  true,
	lexer.TokenMinusAssign: true,
	lexer.TokenStarAssign:  true,
	lexer.TokenSlashAssign: true,
}

// binaryLevels lists the left-associative binary levels from lowest to
// highest precedence.
var binaryLevels = [][]lexer.TokenKind{
	{lexer.TokenOrOr},
	{lexer.TokenAndAnd},
	{lexer.TokenEqual, lexer.TokenNotEqual},
	{lexer.TokenLess, lexer.TokenGreater, lexer.TokenLessEqual, lexer.TokenGreaterEqual},
	// the range level sits here; see parseRange
	{lexer.TokenPlus, lexer.TokenMinus},
	{lexer.TokenStar, lexer.TokenSlash, lexer.TokenPercent},
}

const (
	levelRelational = 3
	levelAdditive   = 4
)

func (p *Parser) parseExpression() (ast.Expression, error) {
	return p.parseAssignment()
}

func (p *Parser) parseAssignment() (ast.Expression, error) {
	left, err := p.parseMatch()
	if err != nil {
		return nil, err
	}
	if !assignmentOperators[p.cur().Kind] {
		return left, nil
	}

	op := p.cur()
	switch left.(type) {
	case *ast.IdentifierExpression, *ast.QualifiedIdentifierExpression,
		*ast.MemberAccessExpression, *ast.IndexExpression:
	default:
		return nil, p.errorf(diagnostic.CodeInvalidAssignment, op.Pos(),
			"cannot assign to %s", ast.Print(left))
	}
	p.advance()

	value, err := p.parseAssignment()
	if err != nil {
		return nil, err
	}
	return &ast.AssignmentExpression{Start: left.Pos(), Target: left, Operator: op.Text, Value: value}, nil
}

// parseMatch parses `subject match { arms }`, which may chain.
func (p *Parser) parseMatch() (ast.Expression, error) {
	subject, err := p.parseCoalesce()
	if err != nil {
		return nil, err
	}
	for p.at(lexer.TokenMatch) && p.peekAt(1).Kind == lexer.TokenLeftBrace {
		p.advance()
		arms, err := p.parseMatchArms()
		if err != nil {
			return nil, err
		}
		subject = &ast.MatchExpression{Start: subject.Pos(), Subject: subject, Arms: arms}
	}
	return subject, nil
}

func (p *Parser) parseCoalesce() (ast.Expression, error) {
	left, err := p.parseBinary(0)
	if err != nil {
		return nil, err
	}
	if !p.at(lexer.TokenQuestionQuestion) {
		return left, nil
	}
	op := p.advance()
	right, err := p.parseCoalesce()
	if err != nil {
		return nil, err
	}
	return &ast.BinaryExpression{Start: left.Pos(), Left: left, Operator: op.Text, Right: right}, nil
}

// parseBinary parses the left-associative level at index level of
// binaryLevels. The range level is entered between relational and additive.
func (p *Parser) parseBinary(level int) (ast.Expression, error) {
	next := func() (ast.Expression, error) {
		switch {
		case level+1 == len(binaryLevels):
			return p.parseUnary()
		case level == levelRelational:
			return p.parseRange()
		default:
			return p.parseBinary(level + 1)
		}
	}

	left, err := next()
	if err != nil {
		return nil, err
	}
	for p.atAny(binaryLevels[level]) {
		op := p.advance()
		right, err := next()
		if err != nil {
			return nil, err
		}
		left = &ast.BinaryExpression{Start: left.Pos(), Left: left, Operator: op.Text, Right: right}
	}
	return left, nil
}

// parseRange parses `start..end`. A range does not chain.
func (p *Parser) parseRange() (ast.Expression, error) {
	left, err := p.parseBinary(levelAdditive)
	if err != nil {
		return nil, err
	}
	if !p.accept(lexer.TokenDotDot) {
		return left, nil
	}
	right, err := p.parseBinary(levelAdditive)
	if err != nil {
		return nil, err
	}
	return &ast.RangeExpression{Start: left.Pos(), From: left, To: right}, nil
}

func (p *Parser) parseUnary() (ast.Expression, error) {
	switch p.cur().Kind {
	case lexer.TokenBang, lexer.TokenMinus, lexer.TokenPlusPlus, lexer.TokenMinusMinus:
		op := p.advance()
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &ast.UnaryExpression{Start: op.Pos(), Operator: op.Text, Operand: operand}, nil
	}
	return p.parsePostfix()
}

func (p *Parser) parsePostfix() (ast.Expression, error) {
	expr, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}

	for {
		if err := p.ctx.Err(); err != nil {
			return nil, err
		}
		switch p.cur().Kind {
		case lexer.TokenLeftParen:
			args, err := p.parseArguments()
			if err != nil {
				return nil, err
			}
			expr = &ast.CallExpression{Start: expr.Pos(), Callee: expr, Arguments: args}

		case lexer.TokenDot, lexer.TokenQuestionDot:
			op := p.advance()
			member := p.cur()
			if member.Kind != lexer.TokenIdentifier && !lexer.IsKeyword(member.Kind) {
				return nil, p.unexpected("member name")
			}
			p.advance()
			// A dotted token after the dot becomes a chain of member accesses.
			for i, name := range strings.Split(member.Text, ".") {
				expr = &ast.MemberAccessExpression{
					Start:           expr.Pos(),
					Object:          expr,
					Member:          name,
					NullConditional: i == 0 && op.Kind == lexer.TokenQuestionDot,
				}
			}

		case lexer.TokenLeftBracket:
			p.advance()
			index, err := p.parseExpression()
			if err != nil {
				return nil, err
			}
			if _, err := p.expect(lexer.TokenRightBracket); err != nil {
				return nil, err
			}
			expr = &ast.IndexExpression{Start: expr.Pos(), Object: expr, Index: index}

		case lexer.TokenPlusPlus, lexer.TokenMinusMinus:
			op := p.advance()
			expr = &ast.UnaryExpression{Start: expr.Pos(), Operator: op.Text, Operand: expr, Postfix: true}

		default:
			return expr, nil
		}
	}
}

func (p *Parser) parsePrimary() (ast.Expression, error) {
	tok := p.cur()
	switch tok.Kind {
	case lexer.TokenNumber:
		p.advance()
		return &ast.LiteralExpression{Start: tok.Pos(), Kind: ast.LiteralNumber, Value: numberValue(tok.Text), Raw: tok.Text}, nil
	case lexer.TokenString:
		p.advance()
		return &ast.LiteralExpression{Start: tok.Pos(), Kind: ast.LiteralString, Value: tok.Text, Raw: tok.Text}, nil
	case lexer.TokenTrue, lexer.TokenFalse:
		p.advance()
		return &ast.LiteralExpression{Start: tok.Pos(), Kind: ast.LiteralBool, Value: tok.Kind == lexer.TokenTrue, Raw: tok.Text}, nil
	case lexer.TokenNull:
		p.advance()
		return &ast.LiteralExpression{Start: tok.Pos(), Kind: ast.LiteralNull, Raw: tok.Text}, nil
	case lexer.TokenThis:
		p.advance()
		return &ast.ThisExpression{Start: tok.Pos()}, nil
	case lexer.TokenNew:
		return p.parseNewExpression()
	case lexer.TokenLeftParen:
		if !p.noLambda && p.lambdaAhead() {
			return p.parseLambda()
		}
		return p.parseGrouped()
	case lexer.TokenLeftBracket:
		return p.parseArrayLiteral()
	case lexer.TokenIdentifier:
		return p.parseIdentifierExpression()
	}

	if lexer.IsTypeKeyword(tok.Kind) {
		// built-in type names used as values, e.g. string in a pattern
		p.advance()
		return &ast.IdentifierExpression{Start: tok.Pos(), Name: tok.Text}, nil
	}
	return nil, p.unexpected("expression")
}

// parseIdentifierExpression handles everything that starts with an
// identifier: range(...), single-parameter lambdas, generic constructor
// calls, qualified names and plain names.
func (p *Parser) parseIdentifierExpression() (ast.Expression, error) {
	tok := p.cur()
	next := p.peekAt(1).Kind

	switch {
	case tok.Text == "range" && next == lexer.TokenLeftParen:
		return p.parseRangeCall()
	case next == lexer.TokenArrow && !p.noLambda:
		return p.parseLambda()
	case next == lexer.TokenLess && lexer.LooksLikeType(tok.Text),
		next == lexer.TokenLeftParen && strings.HasSuffix(tok.Text, "[]"):
		if ref, ok := p.constructorType(); ok {
			args, err := p.parseArguments()
			if err != nil {
				return nil, err
			}
			return &ast.ConstructorCallExpression{Start: ref.Start, Type: ref, Arguments: args}, nil
		}
	}

	p.advance()
	if strings.Contains(tok.Text, ".") {
		return &ast.QualifiedIdentifierExpression{Start: tok.Pos(), Name: tok.Text}, nil
	}
	return &ast.IdentifierExpression{Start: tok.Pos(), Name: tok.Text}, nil
}

// constructorType speculatively parses the `Type<Args>[]` of a constructor
// call. It succeeds only when the type is followed by '('; otherwise the
// position is restored.
func (p *Parser) constructorType() (*ast.TypeRef, bool) {
	saved := p.pos
	ref, ok := p.tryParseType()
	if !ok || !p.at(lexer.TokenLeftParen) {
		p.pos = saved
		return nil, false
	}
	return ref, true
}

// parseNewExpression parses `new Type(args)`.
func (p *Parser) parseNewExpression() (ast.Expression, error) {
	start := p.advance()
	ref, err := p.parseType()
	if err != nil {
		return nil, err
	}
	args, err := p.parseArguments()
	if err != nil {
		return nil, err
	}
	return &ast.ConstructorCallExpression{Start: start.Pos(), Type: ref, Arguments: args, HasNew: true}, nil
}

// parseRangeCall parses `range(end)` and `range(start, end)`.
func (p *Parser) parseRangeCall() (ast.Expression, error) {
	start := p.advance()
	args, err := p.parseArguments()
	if err != nil {
		return nil, err
	}
	switch len(args) {
	case 1:
		return &ast.RangeExpression{Start: start.Pos(), To: args[0], IsSimple: true}, nil
	case 2:
		return &ast.RangeExpression{Start: start.Pos(), From: args[0], To: args[1]}, nil
	default:
		return nil, p.errorf(diagnostic.CodeUnexpectedToken, start.Pos(),
			"range takes 1 or 2 arguments, found %d", len(args))
	}
}

// parseArguments parses `( [expr {, expr}] )`.
func (p *Parser) parseArguments() ([]ast.Expression, error) {
	if _, err := p.expect(lexer.TokenLeftParen); err != nil {
		return nil, err
	}
	args, err := p.parseExpressionList(lexer.TokenRightParen)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.TokenRightParen); err != nil {
		return nil, err
	}
	return args, nil
}

// parseExpressionList parses comma-separated expressions up to end (not
// consumed). A trailing comma is allowed.
func (p *Parser) parseExpressionList(end lexer.TokenKind) ([]ast.Expression, error) {
	var list []ast.Expression
	for !p.at(end) {
		if err := p.ctx.Err(); err != nil {
			return nil, err
		}
		expr, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		list = append(list, expr)
		if !p.accept(lexer.TokenComma) {
			break
		}
	}
	return list, nil
}

func (p *Parser) parseGrouped() (ast.Expression, error) {
	p.advance()
	expr, err := p.parseExpression()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.TokenRightParen); err != nil {
		return nil, err
	}
	return expr, nil
}

func (p *Parser) parseArrayLiteral() (ast.Expression, error) {
	start := p.advance()
	elems, err := p.parseExpressionList(lexer.TokenRightBracket)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(lexer.TokenRightBracket); err != nil {
		return nil, err
	}
	return &ast.ArrayExpression{Start: start.Pos(), Elements: elems}, nil
}

// ===== Lambdas =====

// lambdaAhead reports whether the '(' at the current position closes into
// `) =>`.
func (p *Parser) lambdaAhead() bool {
	depth := 0
	for i := 0; ; i++ {
		switch p.peekAt(i).Kind {
		case lexer.TokenEOF:
			return false
		case lexer.TokenLeftParen:
			depth++
		case lexer.TokenRightParen:
			depth--
			if depth == 0 {
				return p.peekAt(i+1).Kind == lexer.TokenArrow
			}
		}
	}
}

// parseLambda parses `x => body` or `(params) => body`. Parameters inside
// parentheses may carry types.
func (p *Parser) parseLambda() (ast.Expression, error) {
	start := p.cur()
	lambda := &ast.LambdaExpression{Start: start.Pos()}

	if start.Kind == lexer.TokenIdentifier {
		p.advance()
		lambda.Parameters = []*ast.Parameter{{Start: start.Pos(), Name: start.Text}}
	} else {
		p.advance() // (
		for !p.at(lexer.TokenRightParen) {
			if err := p.ctx.Err(); err != nil {
				return nil, err
			}
			name, err := p.expect(lexer.TokenIdentifier)
			if err != nil {
				return nil, err
			}
			param := &ast.Parameter{Start: name.Pos(), Name: name.Text}
			if p.accept(lexer.TokenColon) {
				if param.Type, err = p.parseType(); err != nil {
					return nil, err
				}
			}
			lambda.Parameters = append(lambda.Parameters, param)
			if !p.accept(lexer.TokenComma) {
				break
			}
		}
		if _, err := p.expect(lexer.TokenRightParen); err != nil {
			return nil, err
		}
	}

	if _, err := p.expect(lexer.TokenArrow); err != nil {
		return nil, err
	}
	body, err := p.parseBody()
	if err != nil {
		return nil, err
	}
	lambda.Body = body
	return lambda, nil
}

// parseBody parses a block expression or a single expression, as used by
// lambdas and match arms.
func (p *Parser) parseBody() (ast.Expression, error) {
	if !p.at(lexer.TokenLeftBrace) {
		return p.parseExpression()
	}
	start := p.cur()
	stmts, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	return &ast.BlockExpression{Start: start.Pos(), Statements: stmts}, nil
}

// ===== Match arms =====

// parseMatchArms parses `{ arm {[,] arm} [,] }`. Arm order is kept.
func (p *Parser) parseMatchArms() ([]*ast.MatchArm, error) {
	if _, err := p.expect(lexer.TokenLeftBrace); err != nil {
		return nil, err
	}
	var arms []*ast.MatchArm
	for !p.at(lexer.TokenRightBrace) {
		if err := p.ctx.Err(); err != nil {
			return nil, err
		}
		if p.at(lexer.TokenEOF) {
			return nil, p.errorf(diagnostic.CodeMalformedMatchArm, p.cur().Pos(),
				"unclosed match, expected '}'")
		}
		arm, err := p.parseMatchArm()
		if err != nil {
			return nil, err
		}
		arms = append(arms, arm)
		p.accept(lexer.TokenComma)
	}
	p.advance()
	return arms, nil
}

// parseMatchArm parses `_ => result` or `pattern {, pattern} => result`.
func (p *Parser) parseMatchArm() (*ast.MatchArm, error) {
	arm := &ast.MatchArm{Start: p.cur().Pos()}

	if tok := p.cur(); tok.Kind == lexer.TokenIdentifier && tok.Text == "_" && p.peekAt(1).Kind == lexer.TokenArrow {
		p.advance()
		arm.IsDefault = true
	} else {
		saved := p.noLambda
		p.noLambda = true
		for {
			pattern, err := p.parseCoalesce()
			if err != nil {
				p.noLambda = saved
				return nil, err
			}
			arm.Patterns = append(arm.Patterns, pattern)
			if !p.accept(lexer.TokenComma) {
				break
			}
		}
		p.noLambda = saved
	}

	if !p.accept(lexer.TokenArrow) {
		return nil, p.errorf(diagnostic.CodeMalformedMatchArm, p.cur().Pos(),
			"expected '=>' in match arm, found %s", describe(p.cur()))
	}
	result, err := p.parseBody()
	if err != nil {
		return nil, err
	}
	arm.Result = result
	return arm, nil
}

// ===== helpers =====

func (p *Parser) atAny(kinds []lexer.TokenKind) bool {
	kind := p.cur().Kind
	for _, k := range kinds {
		if k == kind {
			return true
		}
	}
	return false
}

// numberValue converts literal text to int64 or float64, or nil when the
// lexer already reported the text as invalid.
func numberValue(text string) any {
	if i, err := strconv.ParseInt(text, 10, 64); err == nil {
		return i
	}
	if f, err := strconv.ParseFloat(text, 64); err == nil {
		return f
	}
	return nil
}
