package ast

import (
	"strings"

	"github.com/muhigh-lang/muhigh/internal/position"
)

// LiteralKind represents the category of a literal
type LiteralKind int

const (
	LiteralNumber LiteralKind = iota
	LiteralString
	LiteralBool
	LiteralNull
)

func (k LiteralKind) String() string {
	switch k {
	case LiteralNumber:
		return "number"
	case LiteralString:
		return "string"
	case LiteralBool:
		return "bool"
	default:
		return "null"
	}
}

// LiteralExpression represents a literal value. Numbers carry int64 when
// the text is integral and float64 otherwise; Value is nil for null and for
// numbers that failed to parse. Raw keeps the source text.
type LiteralExpression struct {
	Start position.Position
	Value any
	Kind  LiteralKind
	Raw   string
}

func (e *LiteralExpression) Pos() position.Position { return e.Start }
func (e *LiteralExpression) String() string         { return Print(e) }
func (e *LiteralExpression) Accept(visitor Visitor) any {
	return visitor.VisitLiteralExpression(e)
}
func (e *LiteralExpression) expressionNode() {}

// IdentifierExpression represents a plain name
type IdentifierExpression struct {
	Start position.Position
	Name  string
}

func (e *IdentifierExpression) Pos() position.Position { return e.Start }
func (e *IdentifierExpression) String() string         { return Print(e) }
func (e *IdentifierExpression) Accept(visitor Visitor) any {
	return visitor.VisitIdentifierExpression(e)
}
func (e *IdentifierExpression) expressionNode() {}

// QualifiedIdentifierExpression represents a dotted name such as
// System.Console.WriteLine scanned as one token.
type QualifiedIdentifierExpression struct {
	Start position.Position
	Name  string
}

func (e *QualifiedIdentifierExpression) Pos() position.Position { return e.Start }
func (e *QualifiedIdentifierExpression) String() string         { return Print(e) }
func (e *QualifiedIdentifierExpression) Accept(visitor Visitor) any {
	return visitor.VisitQualifiedIdentifierExpression(e)
}
func (e *QualifiedIdentifierExpression) expressionNode() {}

// Parts splits the dotted name into its segments.
func (e *QualifiedIdentifierExpression) Parts() []string {
	return strings.Split(e.Name, ".")
}

// BinaryExpression represents `left op right`
type BinaryExpression struct {
	Start    position.Position
	Left     Expression
	Operator string
	Right    Expression
}

func (e *BinaryExpression) Pos() position.Position { return e.Start }
func (e *BinaryExpression) String() string         { return Print(e) }
func (e *BinaryExpression) Accept(visitor Visitor) any {
	return visitor.VisitBinaryExpression(e)
}
func (e *BinaryExpression) expressionNode() {}

// UnaryExpression represents prefix `! - ++ --` and, with Postfix set,
// postfix `++ --`.
type UnaryExpression struct {
	Start    position.Position
	Operator string
	Operand  Expression
	Postfix  bool
}

func (e *UnaryExpression) Pos() position.Position { return e.Start }
func (e *UnaryExpression) String() string         { return Print(e) }
func (e *UnaryExpression) Accept(visitor Visitor) any {
	return visitor.VisitUnaryExpression(e)
}
func (e *UnaryExpression) expressionNode() {}

// CallExpression represents `callee(args)`
type CallExpression struct {
	Start     position.Position
	Callee    Expression
	Arguments []Expression
}

func (e *CallExpression) Pos() position.Position { return e.Start }
func (e *CallExpression) String() string         { return Print(e) }
func (e *CallExpression) Accept(visitor Visitor) any {
	return visitor.VisitCallExpression(e)
}
func (e *CallExpression) expressionNode() {}

// ConstructorCallExpression represents `new T(args)` and `T<Args>(args)`
type ConstructorCallExpression struct {
	Start     position.Position
	Type      *TypeRef
	Arguments []Expression
	HasNew    bool
}

func (e *ConstructorCallExpression) Pos() position.Position { return e.Start }
func (e *ConstructorCallExpression) String() string         { return Print(e) }
func (e *ConstructorCallExpression) Accept(visitor Visitor) any {
	return visitor.VisitConstructorCallExpression(e)
}
func (e *ConstructorCallExpression) expressionNode() {}

// TypeName returns the full type text including generic arguments and
// array suffixes.
func (e *ConstructorCallExpression) TypeName() string { return e.Type.String() }

// MemberAccessExpression represents `object.member` and `object?.member`
type MemberAccessExpression struct {
	Start           position.Position
	Object          Expression
	Member          string
	NullConditional bool
}

func (e *MemberAccessExpression) Pos() position.Position { return e.Start }
func (e *MemberAccessExpression) String() string         { return Print(e) }
func (e *MemberAccessExpression) Accept(visitor Visitor) any {
	return visitor.VisitMemberAccessExpression(e)
}
func (e *MemberAccessExpression) expressionNode() {}

// IndexExpression represents `object[index]`
type IndexExpression struct {
	Start  position.Position
	Object Expression
	Index  Expression
}

func (e *IndexExpression) Pos() position.Position { return e.Start }
func (e *IndexExpression) String() string         { return Print(e) }
func (e *IndexExpression) Accept(visitor Visitor) any {
	return visitor.VisitIndexExpression(e)
}
func (e *IndexExpression) expressionNode() {}

// ArrayExpression represents an array literal `[a, b, c]`
type ArrayExpression struct {
	Start    position.Position
	Elements []Expression
}

func (e *ArrayExpression) Pos() position.Position { return e.Start }
func (e *ArrayExpression) String() string         { return Print(e) }
func (e *ArrayExpression) Accept(visitor Visitor) any {
	return visitor.VisitArrayExpression(e)
}
func (e *ArrayExpression) expressionNode() {}

// LambdaExpression represents `x => body` and `(a, b) => body`. Body is a
// *BlockExpression for block lambdas.
type LambdaExpression struct {
	Start      position.Position
	Parameters []*Parameter
	Body       Expression
}

func (e *LambdaExpression) Pos() position.Position { return e.Start }
func (e *LambdaExpression) String() string         { return Print(e) }
func (e *LambdaExpression) Accept(visitor Visitor) any {
	return visitor.VisitLambdaExpression(e)
}
func (e *LambdaExpression) expressionNode() {}

// IsBlockLambda reports whether the body is a `{ }` block.
func (e *LambdaExpression) IsBlockLambda() bool {
	_, ok := e.Body.(*BlockExpression)
	return ok
}

// IsExpressionLambda reports whether the body is a single expression.
func (e *LambdaExpression) IsExpressionLambda() bool { return !e.IsBlockLambda() }

// MatchExpression represents `subject match { arms }`
type MatchExpression struct {
	Start   position.Position
	Subject Expression
	Arms    []*MatchArm
}

func (e *MatchExpression) Pos() position.Position { return e.Start }
func (e *MatchExpression) String() string         { return Print(e) }
func (e *MatchExpression) Accept(visitor Visitor) any {
	return visitor.VisitMatchExpression(e)
}
func (e *MatchExpression) expressionNode() {}

// DefaultArm returns the wildcard arm, or nil.
func (e *MatchExpression) DefaultArm() *MatchArm { return defaultArm(e.Arms) }

// DefaultArm returns the wildcard arm, or nil.
func (s *MatchStatement) DefaultArm() *MatchArm { return defaultArm(s.Arms) }

func defaultArm(arms []*MatchArm) *MatchArm {
	for _, arm := range arms {
		if arm.IsDefault {
			return arm
		}
	}
	return nil
}

// AssignmentExpression represents `target op value` for = += -= *= /=
type AssignmentExpression struct {
	Start    position.Position
	Target   Expression
	Operator string
	Value    Expression
}

func (e *AssignmentExpression) Pos() position.Position { return e.Start }
func (e *AssignmentExpression) String() string         { return Print(e) }
func (e *AssignmentExpression) Accept(visitor Visitor) any {
	return visitor.VisitAssignmentExpression(e)
}
func (e *AssignmentExpression) expressionNode() {}

// RangeExpression represents `range(end)`, `range(start, end)` and
// `start..end`. IsSimple is true for the one-argument form, where From is nil.
type RangeExpression struct {
	Start    position.Position
	From     Expression
	To       Expression
	IsSimple bool
}

func (e *RangeExpression) Pos() position.Position { return e.Start }
func (e *RangeExpression) String() string         { return Print(e) }
func (e *RangeExpression) Accept(visitor Visitor) any {
	return visitor.VisitRangeExpression(e)
}
func (e *RangeExpression) expressionNode() {}

// BlockExpression is a `{ }` statement list in expression position
type BlockExpression struct {
	Start      position.Position
	Statements []Statement
}

func (e *BlockExpression) Pos() position.Position { return e.Start }
func (e *BlockExpression) String() string         { return Print(e) }
func (e *BlockExpression) Accept(visitor Visitor) any {
	return visitor.VisitBlockExpression(e)
}
func (e *BlockExpression) expressionNode() {}

type ThisExpression struct {
	Start position.Position
}

func (e *ThisExpression) Pos() position.Position { return e.Start }
func (e *ThisExpression) String() string         { return Print(e) }
func (e *ThisExpression) Accept(visitor Visitor) any {
	return visitor.VisitThisExpression(e)
}
func (e *ThisExpression) expressionNode() {}
