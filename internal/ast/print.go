package ast

import (
	"strings"
)

// Print renders node as a deterministic s-expression. A Program prints one
// top-level statement per line. Missing optional parts print as "_".
func Print(node Node) string {
	if node == nil {
		return "_"
	}
	s, _ := node.Accept(printer{}).(string)
	return s
}

// printer is the Visitor behind Print. Every method returns a string.
type printer struct{}

func (p printer) node(n Node) string {
	return Print(n)
}

func (p printer) expr(e Expression) string {
	if e == nil {
		return "_"
	}
	return p.node(e)
}

func sexpr(head string, parts ...string) string {
	var b strings.Builder
	b.WriteByte('(')
	b.WriteString(head)
	for _, part := range parts {
		if part == "" {
			continue
		}
		b.WriteByte(' ')
		b.WriteString(part)
	}
	b.WriteByte(')')
	return b.String()
}

func (p printer) block(list []Statement) string {
	parts := make([]string, 0, len(list))
	for _, s := range list {
		parts = append(parts, p.node(s))
	}
	return sexpr("block", parts...)
}

func (p printer) list(exprs []Expression) []string {
	parts := make([]string, 0, len(exprs))
	for _, e := range exprs {
		parts = append(parts, p.expr(e))
	}
	return parts
}

func params(ps []*Parameter) string {
	parts := make([]string, 0, len(ps))
	for _, param := range ps {
		parts = append(parts, typed(param.Name, param.Type))
	}
	return "(" + strings.Join(parts, " ") + ")"
}

func typed(name string, t *TypeRef) string {
	if t == nil {
		return name
	}
	return name + ":" + t.String()
}

func returns(t *TypeRef) string {
	if t == nil {
		return ""
	}
	return ":" + t.String()
}

func modifiers(mods []string) string {
	if len(mods) == 0 {
		return ""
	}
	return sexpr("mods", mods...)
}

func (p printer) attributes(attrs []*Attribute) string {
	parts := make([]string, 0, len(attrs))
	for _, a := range attrs {
		parts = append(parts, sexpr("@"+a.Name, p.list(a.Arguments)...))
	}
	return strings.Join(parts, " ")
}

func (p printer) arms(arms []*MatchArm) []string {
	parts := make([]string, 0, len(arms))
	for _, arm := range arms {
		var patterns []string
		if arm.IsDefault {
			patterns = []string{"_"}
		} else {
			patterns = p.list(arm.Patterns)
		}
		parts = append(parts, sexpr("arm", append(patterns, "=>", p.expr(arm.Result))...))
	}
	return parts
}

func (p printer) VisitProgram(n *Program) any {
	lines := make([]string, 0, len(n.Statements))
	for _, s := range n.Statements {
		lines = append(lines, p.node(s))
	}
	return strings.Join(lines, "\n")
}

func (p printer) VisitImportDeclaration(n *ImportDeclaration) any {
	return sexpr("import", n.Path)
}

func (p printer) VisitVariableDeclaration(n *VariableDeclaration) any {
	head := "var"
	if n.IsConst {
		head = "const"
	}
	init := ""
	if n.Initializer != nil {
		init = p.expr(n.Initializer)
	}
	return sexpr(head, typed(n.Name, n.Type), init)
}

func (p printer) VisitFunctionDeclaration(n *FunctionDeclaration) any {
	head := "func"
	if n.IsAsync {
		head = "async-func"
	}
	return sexpr(head, n.Name, params(n.Parameters), returns(n.ReturnType),
		p.attributes(n.Attributes), p.block(n.Body))
}

func (p printer) VisitClassDeclaration(n *ClassDeclaration) any {
	bases := ""
	if len(n.BaseTypes) > 0 {
		names := make([]string, 0, len(n.BaseTypes))
		for _, b := range n.BaseTypes {
			names = append(names, b.String())
		}
		bases = sexpr("extends", names...)
	}
	members := make([]string, 0, len(n.Members))
	for _, m := range n.Members {
		members = append(members, p.node(m))
	}
	return sexpr("class", n.Name, modifiers(n.Modifiers), bases,
		p.attributes(n.Attributes), sexpr("members", members...))
}

func (p printer) VisitFieldDeclaration(n *FieldDeclaration) any {
	head := "field"
	if n.IsConst {
		head = "const-field"
	}
	init := ""
	if n.Initializer != nil {
		init = p.expr(n.Initializer)
	}
	return sexpr(head, typed(n.Name, n.Type), modifiers(n.Modifiers), p.attributes(n.Attributes), init)
}

func (p printer) VisitMethodDeclaration(n *MethodDeclaration) any {
	return sexpr("method", n.Name, params(n.Parameters), returns(n.ReturnType),
		modifiers(n.Modifiers), p.attributes(n.Attributes), p.block(n.Body))
}

func (p printer) VisitPropertyDeclaration(n *PropertyDeclaration) any {
	accessors := make([]string, 0, len(n.Accessors))
	for _, a := range n.Accessors {
		if a.IsAuto {
			accessors = append(accessors, sexpr(a.Kind.String()))
		} else {
			accessors = append(accessors, sexpr(a.Kind.String(), p.block(a.Body)))
		}
	}
	return sexpr("property", append([]string{typed(n.Name, n.Type), modifiers(n.Modifiers),
		p.attributes(n.Attributes)}, accessors...)...)
}

func (p printer) VisitNamespaceDeclaration(n *NamespaceDeclaration) any {
	members := make([]string, 0, len(n.Members))
	for _, m := range n.Members {
		members = append(members, p.node(m))
	}
	return sexpr("namespace", append([]string{n.Name}, members...)...)
}

func (p printer) VisitIfStatement(n *IfStatement) any {
	els := ""
	if n.Else != nil {
		els = p.block(n.Else)
	}
	return sexpr("if", p.expr(n.Condition), p.block(n.Then), els)
}

func (p printer) VisitWhileStatement(n *WhileStatement) any {
	return sexpr("while", p.expr(n.Condition), p.block(n.Body))
}

func (p printer) VisitForStatement(n *ForStatement) any {
	if n.IsForIn {
		return sexpr("for-in", n.Iterator, p.expr(n.Iterable), p.block(n.Body))
	}
	init := "_"
	if n.Init != nil {
		init = p.node(n.Init)
	}
	return sexpr("for", init, p.expr(n.Condition), p.expr(n.Increment), p.block(n.Body))
}

func (p printer) VisitMatchStatement(n *MatchStatement) any {
	return sexpr("match", append([]string{p.expr(n.Subject)}, p.arms(n.Arms)...)...)
}

func (p printer) VisitReturnStatement(n *ReturnStatement) any {
	if n.Value == nil {
		return "(return)"
	}
	return sexpr("return", p.expr(n.Value))
}

func (p printer) VisitExpressionStatement(n *ExpressionStatement) any {
	return p.expr(n.Expression)
}

func (p printer) VisitBreakStatement(*BreakStatement) any       { return "(break)" }
func (p printer) VisitContinueStatement(*ContinueStatement) any { return "(continue)" }

func (p printer) VisitLiteralExpression(n *LiteralExpression) any {
	switch n.Kind {
	case LiteralString:
		return `"` + n.Raw + `"`
	case LiteralNull:
		return "null"
	default:
		return n.Raw
	}
}

func (p printer) VisitIdentifierExpression(n *IdentifierExpression) any { return n.Name }

func (p printer) VisitQualifiedIdentifierExpression(n *QualifiedIdentifierExpression) any {
	return n.Name
}

func (p printer) VisitBinaryExpression(n *BinaryExpression) any {
	return sexpr(n.Operator, p.expr(n.Left), p.expr(n.Right))
}

func (p printer) VisitUnaryExpression(n *UnaryExpression) any {
	if n.Postfix {
		return sexpr("postfix"+n.Operator, p.expr(n.Operand))
	}
	return sexpr(n.Operator, p.expr(n.Operand))
}

func (p printer) VisitCallExpression(n *CallExpression) any {
	return sexpr("call", append([]string{p.expr(n.Callee)}, p.list(n.Arguments)...)...)
}

func (p printer) VisitConstructorCallExpression(n *ConstructorCallExpression) any {
	head := "ctor"
	if n.HasNew {
		head = "new"
	}
	return sexpr(head, append([]string{n.TypeName()}, p.list(n.Arguments)...)...)
}

func (p printer) VisitMemberAccessExpression(n *MemberAccessExpression) any {
	op := "."
	if n.NullConditional {
		op = "?."
	}
	return sexpr(op, p.expr(n.Object), n.Member)
}

func (p printer) VisitIndexExpression(n *IndexExpression) any {
	return sexpr("index", p.expr(n.Object), p.expr(n.Index))
}

func (p printer) VisitArrayExpression(n *ArrayExpression) any {
	return sexpr("array", p.list(n.Elements)...)
}

func (p printer) VisitLambdaExpression(n *LambdaExpression) any {
	return sexpr("lambda", params(n.Parameters), p.expr(n.Body))
}

func (p printer) VisitMatchExpression(n *MatchExpression) any {
	return sexpr("match", append([]string{p.expr(n.Subject)}, p.arms(n.Arms)...)...)
}

func (p printer) VisitAssignmentExpression(n *AssignmentExpression) any {
	return sexpr(n.Operator, p.expr(n.Target), p.expr(n.Value))
}

func (p printer) VisitRangeExpression(n *RangeExpression) any {
	if n.IsSimple {
		return sexpr("range", p.expr(n.To))
	}
	return sexpr("range", p.expr(n.From), p.expr(n.To))
}

func (p printer) VisitBlockExpression(n *BlockExpression) any {
	return p.block(n.Statements)
}

func (p printer) VisitThisExpression(*ThisExpression) any { return "this" }
