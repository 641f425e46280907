// Package ast - Visitor pattern implementation for AST traversal.
// Visitor パターン実装: 変種を追加すると全ての Visitor 実装がコンパイルエラーになる。
package ast

// Visitor has one method per node variant. Adding a variant to the tree
// breaks every implementation until it handles the new case.
type Visitor interface {
	VisitProgram(node *Program) any

	// Declaration visitors.
	VisitImportDeclaration(node *ImportDeclaration) any
	VisitVariableDeclaration(node *VariableDeclaration) any
	VisitFunctionDeclaration(node *FunctionDeclaration) any
	VisitClassDeclaration(node *ClassDeclaration) any
	VisitFieldDeclaration(node *FieldDeclaration) any
	VisitMethodDeclaration(node *MethodDeclaration) any
	VisitPropertyDeclaration(node *PropertyDeclaration) any
	VisitNamespaceDeclaration(node *NamespaceDeclaration) any

	// Statement visitors.
	VisitIfStatement(node *IfStatement) any
	VisitWhileStatement(node *WhileStatement) any
	VisitForStatement(node *ForStatement) any
	VisitMatchStatement(node *MatchStatement) any
	VisitReturnStatement(node *ReturnStatement) any
	VisitExpressionStatement(node *ExpressionStatement) any
	VisitBreakStatement(node *BreakStatement) any
	VisitContinueStatement(node *ContinueStatement) any

	// Expression visitors.
	VisitLiteralExpression(node *LiteralExpression) any
	VisitIdentifierExpression(node *IdentifierExpression) any
	VisitQualifiedIdentifierExpression(node *QualifiedIdentifierExpression) any
	VisitBinaryExpression(node *BinaryExpression) any
	VisitUnaryExpression(node *UnaryExpression) any
	VisitCallExpression(node *CallExpression) any
	VisitConstructorCallExpression(node *ConstructorCallExpression) any
	VisitMemberAccessExpression(node *MemberAccessExpression) any
	VisitIndexExpression(node *IndexExpression) any
	VisitArrayExpression(node *ArrayExpression) any
	VisitLambdaExpression(node *LambdaExpression) any
	VisitMatchExpression(node *MatchExpression) any
	VisitAssignmentExpression(node *AssignmentExpression) any
	VisitRangeExpression(node *RangeExpression) any
	VisitBlockExpression(node *BlockExpression) any
	VisitThisExpression(node *ThisExpression) any
}

// BaseVisitor returns nil for every variant. Embed it to override only the
// methods a pass needs; passes that must handle every variant should not.
type BaseVisitor struct{}

func (BaseVisitor) VisitProgram(*Program) any                             { return nil }
func (BaseVisitor) VisitImportDeclaration(*ImportDeclaration) any         { return nil }
func (BaseVisitor) VisitVariableDeclaration(*VariableDeclaration) any     { return nil }
func (BaseVisitor) VisitFunctionDeclaration(*FunctionDeclaration) any     { return nil }
func (BaseVisitor) VisitClassDeclaration(*ClassDeclaration) any           { return nil }
func (BaseVisitor) VisitFieldDeclaration(*FieldDeclaration) any           { return nil }
func (BaseVisitor) VisitMethodDeclaration(*MethodDeclaration) any         { return nil }
func (BaseVisitor) VisitPropertyDeclaration(*PropertyDeclaration) any     { return nil }
func (BaseVisitor) VisitNamespaceDeclaration(*NamespaceDeclaration) any   { return nil }
func (BaseVisitor) VisitIfStatement(*IfStatement) any                     { return nil }
func (BaseVisitor) VisitWhileStatement(*WhileStatement) any               { return nil }
func (BaseVisitor) VisitForStatement(*ForStatement) any                   { return nil }
func (BaseVisitor) VisitMatchStatement(*MatchStatement) any               { return nil }
func (BaseVisitor) VisitReturnStatement(*ReturnStatement) any             { return nil }
func (BaseVisitor) VisitExpressionStatement(*ExpressionStatement) any     { return nil }
func (BaseVisitor) VisitBreakStatement(*BreakStatement) any               { return nil }
func (BaseVisitor) VisitContinueStatement(*ContinueStatement) any         { return nil }
func (BaseVisitor) VisitLiteralExpression(*LiteralExpression) any         { return nil }
func (BaseVisitor) VisitIdentifierExpression(*IdentifierExpression) any   { return nil }
func (BaseVisitor) VisitBinaryExpression(*BinaryExpression) any           { return nil }
func (BaseVisitor) VisitUnaryExpression(*UnaryExpression) any             { return nil }
func (BaseVisitor) VisitCallExpression(*CallExpression) any               { return nil }
func (BaseVisitor) VisitMemberAccessExpression(*MemberAccessExpression) any { return nil }
func (BaseVisitor) VisitIndexExpression(*IndexExpression) any             { return nil }
func (BaseVisitor) VisitArrayExpression(*ArrayExpression) any             { return nil }
func (BaseVisitor) VisitLambdaExpression(*LambdaExpression) any           { return nil }
func (BaseVisitor) VisitMatchExpression(*MatchExpression) any             { return nil }
func (BaseVisitor) VisitAssignmentExpression(*AssignmentExpression) any   { return nil }
func (BaseVisitor) VisitRangeExpression(*RangeExpression) any             { return nil }
func (BaseVisitor) VisitBlockExpression(*BlockExpression) any             { return nil }
func (BaseVisitor) VisitThisExpression(*ThisExpression) any               { return nil }

func (BaseVisitor) VisitQualifiedIdentifierExpression(*QualifiedIdentifierExpression) any {
	return nil
}

func (BaseVisitor) VisitConstructorCallExpression(*ConstructorCallExpression) any {
	return nil
}

// Inspect traverses the tree rooted at node in source order, calling f for
// each node. If f returns false the children of that node are skipped.
// Nil nodes are ignored.
func Inspect(node Node, f func(Node) bool) {
	if node == nil {
		return
	}
	node.Accept(&inspector{f: f})
}

// inspector walks children after f approves the parent. It implements every
// Visitor method so a new variant cannot be silently skipped.
type inspector struct {
	f func(Node) bool
}

func (v *inspector) visit(n Node) {
	if n == nil {
		return
	}
	n.Accept(v)
}

func (v *inspector) statements(list []Statement) {
	for _, s := range list {
		v.visit(s)
	}
}

func (v *inspector) expressions(list []Expression) {
	for _, e := range list {
		v.visit(e)
	}
}

// expr skips absent optional children.
func (v *inspector) expr(e Expression) {
	if e != nil {
		v.visit(e)
	}
}

func (v *inspector) attributes(attrs []*Attribute) {
	for _, a := range attrs {
		v.expressions(a.Arguments)
	}
}

func (v *inspector) arms(arms []*MatchArm) {
	for _, arm := range arms {
		v.expressions(arm.Patterns)
		v.expr(arm.Result)
	}
}

func (v *inspector) VisitProgram(n *Program) any {
	if v.f(n) {
		v.statements(n.Statements)
	}
	return nil
}

func (v *inspector) VisitImportDeclaration(n *ImportDeclaration) any {
	v.f(n)
	return nil
}

func (v *inspector) VisitVariableDeclaration(n *VariableDeclaration) any {
	if v.f(n) {
		v.expr(n.Initializer)
	}
	return nil
}

func (v *inspector) VisitFunctionDeclaration(n *FunctionDeclaration) any {
	if v.f(n) {
		v.attributes(n.Attributes)
		v.statements(n.Body)
	}
	return nil
}

func (v *inspector) VisitClassDeclaration(n *ClassDeclaration) any {
	if v.f(n) {
		v.attributes(n.Attributes)
		v.statements(n.Members)
	}
	return nil
}

func (v *inspector) VisitFieldDeclaration(n *FieldDeclaration) any {
	if v.f(n) {
		v.attributes(n.Attributes)
		v.expr(n.Initializer)
	}
	return nil
}

func (v *inspector) VisitMethodDeclaration(n *MethodDeclaration) any {
	if v.f(n) {
		v.attributes(n.Attributes)
		v.statements(n.Body)
	}
	return nil
}

func (v *inspector) VisitPropertyDeclaration(n *PropertyDeclaration) any {
	if v.f(n) {
		v.attributes(n.Attributes)
		for _, a := range n.Accessors {
			v.statements(a.Body)
		}
	}
	return nil
}

func (v *inspector) VisitNamespaceDeclaration(n *NamespaceDeclaration) any {
	if v.f(n) {
		v.statements(n.Members)
	}
	return nil
}

func (v *inspector) VisitIfStatement(n *IfStatement) any {
	if v.f(n) {
		v.expr(n.Condition)
		v.statements(n.Then)
		v.statements(n.Else)
	}
	return nil
}

func (v *inspector) VisitWhileStatement(n *WhileStatement) any {
	if v.f(n) {
		v.expr(n.Condition)
		v.statements(n.Body)
	}
	return nil
}

func (v *inspector) VisitForStatement(n *ForStatement) any {
	if v.f(n) {
		v.expr(n.Iterable)
		if n.Init != nil {
			v.visit(n.Init)
		}
		v.expr(n.Condition)
		v.expr(n.Increment)
		v.statements(n.Body)
	}
	return nil
}

func (v *inspector) VisitMatchStatement(n *MatchStatement) any {
	if v.f(n) {
		v.expr(n.Subject)
		v.arms(n.Arms)
	}
	return nil
}

func (v *inspector) VisitReturnStatement(n *ReturnStatement) any {
	if v.f(n) {
		v.expr(n.Value)
	}
	return nil
}

func (v *inspector) VisitExpressionStatement(n *ExpressionStatement) any {
	if v.f(n) {
		v.expr(n.Expression)
	}
	return nil
}

func (v *inspector) VisitBreakStatement(n *BreakStatement) any {
	v.f(n)
	return nil
}

func (v *inspector) VisitContinueStatement(n *ContinueStatement) any {
	v.f(n)
	return nil
}

func (v *inspector) VisitLiteralExpression(n *LiteralExpression) any {
	v.f(n)
	return nil
}

func (v *inspector) VisitIdentifierExpression(n *IdentifierExpression) any {
	v.f(n)
	return nil
}

func (v *inspector) VisitQualifiedIdentifierExpression(n *QualifiedIdentifierExpression) any {
	v.f(n)
	return nil
}

func (v *inspector) VisitBinaryExpression(n *BinaryExpression) any {
	if v.f(n) {
		v.expr(n.Left)
		v.expr(n.Right)
	}
	return nil
}

func (v *inspector) VisitUnaryExpression(n *UnaryExpression) any {
	if v.f(n) {
		v.expr(n.Operand)
	}
	return nil
}

func (v *inspector) VisitCallExpression(n *CallExpression) any {
	if v.f(n) {
		v.expr(n.Callee)
		v.expressions(n.Arguments)
	}
	return nil
}

func (v *inspector) VisitConstructorCallExpression(n *ConstructorCallExpression) any {
	if v.f(n) {
		v.expressions(n.Arguments)
	}
	return nil
}

func (v *inspector) VisitMemberAccessExpression(n *MemberAccessExpression) any {
	if v.f(n) {
		v.expr(n.Object)
	}
	return nil
}

func (v *inspector) VisitIndexExpression(n *IndexExpression) any {
	if v.f(n) {
		v.expr(n.Object)
		v.expr(n.Index)
	}
	return nil
}

func (v *inspector) VisitArrayExpression(n *ArrayExpression) any {
	if v.f(n) {
		v.expressions(n.Elements)
	}
	return nil
}

func (v *inspector) VisitLambdaExpression(n *LambdaExpression) any {
	if v.f(n) {
		v.expr(n.Body)
	}
	return nil
}

func (v *inspector) VisitMatchExpression(n *MatchExpression) any {
	if v.f(n) {
		v.expr(n.Subject)
		v.arms(n.Arms)
	}
	return nil
}

func (v *inspector) VisitAssignmentExpression(n *AssignmentExpression) any {
	if v.f(n) {
		v.expr(n.Target)
		v.expr(n.Value)
	}
	return nil
}

func (v *inspector) VisitRangeExpression(n *RangeExpression) any {
	if v.f(n) {
		v.expr(n.From)
		v.expr(n.To)
	}
	return nil
}

func (v *inspector) VisitBlockExpression(n *BlockExpression) any {
	if v.f(n) {
		v.statements(n.Statements)
	}
	return nil
}

func (v *inspector) VisitThisExpression(n *ThisExpression) any {
	v.f(n)
	return nil
}
