// Package ast defines the Abstract Syntax Tree (AST) nodes for the μHigh programming language.
// 型安全AST定義: Statement と Expression は閉じた集合であり、Visitor で網羅的に走査する。
//
// Every node records the position of its first token. The tree owns its
// nodes exclusively; no node is referenced from two parents.
package ast

import (
	"strings"

	"github.com/muhigh-lang/muhigh/internal/position"
)

// Node is the base interface for all AST nodes
type Node interface {
	// Pos returns the position of the node's first token
	Pos() position.Position
	// String returns the s-expression form of the node
	String() string
	// Accept implements the visitor pattern for AST traversal
	Accept(visitor Visitor) any
}

// Statement represents all statement nodes in the AST
type Statement interface {
	Node
	statementNode() // Marker method to distinguish statements
}

// Expression represents all expression nodes in the AST
type Expression interface {
	Node
	expressionNode() // Marker method to distinguish expressions
}

// ===== Program Structure =====

// Program represents the root of the AST - one parsed compilation unit
type Program struct {
	Statements []Statement
}

func (p *Program) Pos() position.Position {
	if len(p.Statements) == 0 {
		return position.At(1, 1)
	}
	return p.Statements[0].Pos()
}
func (p *Program) String() string           { return Print(p) }
func (p *Program) Accept(visitor Visitor) any { return visitor.VisitProgram(p) }

// ===== Supporting structures =====

// TypeRef is a type annotation: a name, optional generic arguments and an
// array rank counting trailing "[]" pairs.
type TypeRef struct {
	Start     position.Position
	Name      string
	Arguments []*TypeRef
	ArrayRank int
}

// String renders the type as written, e.g. Dictionary<string, int>[].
func (t *TypeRef) String() string {
	if t == nil {
		return ""
	}
	var b strings.Builder
	b.WriteString(t.Name)
	if len(t.Arguments) > 0 {
		b.WriteByte('<')
		for i, arg := range t.Arguments {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(arg.String())
		}
		b.WriteByte('>')
	}
	for i := 0; i < t.ArrayRank; i++ {
		b.WriteString("[]")
	}
	return b.String()
}

// IsGeneric reports whether the type carries generic arguments.
func (t *TypeRef) IsGeneric() bool { return t != nil && len(t.Arguments) > 0 }

// IsArray reports whether the type has at least one array suffix.
func (t *TypeRef) IsArray() bool { return t != nil && t.ArrayRank > 0 }

// Parameter is a typed parameter of a function, method or lambda. Type is
// nil for untyped lambda parameters.
type Parameter struct {
	Start position.Position
	Name  string
	Type  *TypeRef
}

// Attribute is one bracketed annotation such as [Test] or [Timeout(500)].
type Attribute struct {
	Start     position.Position
	Name      string
	Arguments []Expression
}

// AccessorKind distinguishes property getters from setters.
type AccessorKind int

const (
	AccessorGet AccessorKind = iota
	AccessorSet
)

func (k AccessorKind) String() string {
	if k == AccessorSet {
		return "set"
	}
	return "get"
}

// Accessor is a get or set clause of a property. IsAuto is true when the
// accessor has no body.
type Accessor struct {
	Start  position.Position
	Kind   AccessorKind
	Body   []Statement
	IsAuto bool
}

// MatchArm is one arm of a match. Patterns is empty iff IsDefault. Result is
// an expression or a *BlockExpression.
type MatchArm struct {
	Start     position.Position
	Patterns  []Expression
	IsDefault bool
	Result    Expression
}

// ===== Declarations =====

// ImportDeclaration represents `import Name.Space`
type ImportDeclaration struct {
	Start position.Position
	Path  string
}

func (d *ImportDeclaration) Pos() position.Position   { return d.Start }
func (d *ImportDeclaration) String() string           { return Print(d) }
func (d *ImportDeclaration) Accept(visitor Visitor) any { return visitor.VisitImportDeclaration(d) }
func (d *ImportDeclaration) statementNode()           {}

// VariableDeclaration represents `var` and `const` declarations
type VariableDeclaration struct {
	Start       position.Position
	Name        string
	Type        *TypeRef   // nil when inferred
	Initializer Expression // nil when absent
	IsConst     bool
}

func (d *VariableDeclaration) Pos() position.Position { return d.Start }
func (d *VariableDeclaration) String() string         { return Print(d) }
func (d *VariableDeclaration) Accept(visitor Visitor) any {
	return visitor.VisitVariableDeclaration(d)
}
func (d *VariableDeclaration) statementNode() {}

// FunctionDeclaration represents a top-level or namespaced function
type FunctionDeclaration struct {
	Start      position.Position
	Name       string
	Parameters []*Parameter
	ReturnType *TypeRef // nil when omitted
	Body       []Statement
	Attributes []*Attribute
	IsAsync    bool
}

func (d *FunctionDeclaration) Pos() position.Position { return d.Start }
func (d *FunctionDeclaration) String() string         { return Print(d) }
func (d *FunctionDeclaration) Accept(visitor Visitor) any {
	return visitor.VisitFunctionDeclaration(d)
}
func (d *FunctionDeclaration) statementNode() {}

// ClassDeclaration represents a class with its members. Members holds
// FieldDeclaration, MethodDeclaration and PropertyDeclaration nodes.
type ClassDeclaration struct {
	Start      position.Position
	Name       string
	Modifiers  []string
	BaseTypes  []*TypeRef
	Members    []Statement
	Attributes []*Attribute
}

func (d *ClassDeclaration) Pos() position.Position { return d.Start }
func (d *ClassDeclaration) String() string         { return Print(d) }
func (d *ClassDeclaration) Accept(visitor Visitor) any {
	return visitor.VisitClassDeclaration(d)
}
func (d *ClassDeclaration) statementNode() {}

// FieldDeclaration represents a `var` or `const` class member
type FieldDeclaration struct {
	Start       position.Position
	Name        string
	Type        *TypeRef
	Modifiers   []string
	Initializer Expression
	IsConst     bool
	Attributes  []*Attribute
}

func (d *FieldDeclaration) Pos() position.Position { return d.Start }
func (d *FieldDeclaration) String() string         { return Print(d) }
func (d *FieldDeclaration) Accept(visitor Visitor) any {
	return visitor.VisitFieldDeclaration(d)
}
func (d *FieldDeclaration) statementNode() {}

// MethodDeclaration represents a `func` class member
type MethodDeclaration struct {
	Start      position.Position
	Name       string
	Parameters []*Parameter
	ReturnType *TypeRef
	Body       []Statement
	Modifiers  []string
	Attributes []*Attribute
}

func (d *MethodDeclaration) Pos() position.Position { return d.Start }
func (d *MethodDeclaration) String() string         { return Print(d) }
func (d *MethodDeclaration) Accept(visitor Visitor) any {
	return visitor.VisitMethodDeclaration(d)
}
func (d *MethodDeclaration) statementNode() {}

// PropertyDeclaration represents a `property` class member
type PropertyDeclaration struct {
	Start      position.Position
	Name       string
	Type       *TypeRef
	Modifiers  []string
	Accessors  []*Accessor
	Attributes []*Attribute
}

func (d *PropertyDeclaration) Pos() position.Position { return d.Start }
func (d *PropertyDeclaration) String() string         { return Print(d) }
func (d *PropertyDeclaration) Accept(visitor Visitor) any {
	return visitor.VisitPropertyDeclaration(d)
}
func (d *PropertyDeclaration) statementNode() {}

// IsAutoProperty reports whether every accessor is auto-implemented.
func (d *PropertyDeclaration) IsAutoProperty() bool {
	for _, a := range d.Accessors {
		if !a.IsAuto {
			return false
		}
	}
	return len(d.Accessors) > 0
}

// NamespaceDeclaration represents a (possibly dotted) namespace block
type NamespaceDeclaration struct {
	Start   position.Position
	Name    string
	Members []Statement
}

func (d *NamespaceDeclaration) Pos() position.Position { return d.Start }
func (d *NamespaceDeclaration) String() string         { return Print(d) }
func (d *NamespaceDeclaration) Accept(visitor Visitor) any {
	return visitor.VisitNamespaceDeclaration(d)
}
func (d *NamespaceDeclaration) statementNode() {}

// ===== Statements =====

// IfStatement represents if/else. An else-if chain is stored as a single
// nested IfStatement in Else.
type IfStatement struct {
	Start     position.Position
	Condition Expression
	Then      []Statement
	Else      []Statement // nil when there is no else branch
}

func (s *IfStatement) Pos() position.Position   { return s.Start }
func (s *IfStatement) String() string           { return Print(s) }
func (s *IfStatement) Accept(visitor Visitor) any { return visitor.VisitIfStatement(s) }
func (s *IfStatement) statementNode()           {}

// WhileStatement represents a while loop
type WhileStatement struct {
	Start     position.Position
	Condition Expression
	Body      []Statement
}

func (s *WhileStatement) Pos() position.Position   { return s.Start }
func (s *WhileStatement) String() string           { return Print(s) }
func (s *WhileStatement) Accept(visitor Visitor) any { return visitor.VisitWhileStatement(s) }
func (s *WhileStatement) statementNode()           {}

// ForStatement represents both loop forms. For-in loops set IsForIn,
// Iterator and Iterable; three-clause loops set Init, Condition and
// Increment, any of which may be nil.
type ForStatement struct {
	Start     position.Position
	IsForIn   bool
	Iterator  string
	Iterable  Expression
	Init      Statement
	Condition Expression
	Increment Expression
	Body      []Statement
}

func (s *ForStatement) Pos() position.Position   { return s.Start }
func (s *ForStatement) String() string           { return Print(s) }
func (s *ForStatement) Accept(visitor Visitor) any { return visitor.VisitForStatement(s) }
func (s *ForStatement) statementNode()           {}

// IsForInLoop reports whether the loop iterates a range or an iterable.
func (s *ForStatement) IsForInLoop() bool { return s.IsForIn }

// MatchStatement represents `match subject { arms }` in statement position
type MatchStatement struct {
	Start   position.Position
	Subject Expression
	Arms    []*MatchArm
}

func (s *MatchStatement) Pos() position.Position   { return s.Start }
func (s *MatchStatement) String() string           { return Print(s) }
func (s *MatchStatement) Accept(visitor Visitor) any { return visitor.VisitMatchStatement(s) }
func (s *MatchStatement) statementNode()           {}

// ReturnStatement represents return with an optional value
type ReturnStatement struct {
	Start position.Position
	Value Expression
}

func (s *ReturnStatement) Pos() position.Position   { return s.Start }
func (s *ReturnStatement) String() string           { return Print(s) }
func (s *ReturnStatement) Accept(visitor Visitor) any { return visitor.VisitReturnStatement(s) }
func (s *ReturnStatement) statementNode()           {}

// ExpressionStatement wraps an expression used as a statement
type ExpressionStatement struct {
	Start      position.Position
	Expression Expression
}

func (s *ExpressionStatement) Pos() position.Position { return s.Start }
func (s *ExpressionStatement) String() string         { return Print(s) }
func (s *ExpressionStatement) Accept(visitor Visitor) any {
	return visitor.VisitExpressionStatement(s)
}
func (s *ExpressionStatement) statementNode() {}

type BreakStatement struct {
	Start position.Position
}

func (s *BreakStatement) Pos() position.Position   { return s.Start }
func (s *BreakStatement) String() string           { return Print(s) }
func (s *BreakStatement) Accept(visitor Visitor) any { return visitor.VisitBreakStatement(s) }
func (s *BreakStatement) statementNode()           {}

type ContinueStatement struct {
	Start position.Position
}

func (s *ContinueStatement) Pos() position.Position { return s.Start }
func (s *ContinueStatement) String() string         { return Print(s) }
func (s *ContinueStatement) Accept(visitor Visitor) any {
	return visitor.VisitContinueStatement(s)
}
func (s *ContinueStatement) statementNode() {}
