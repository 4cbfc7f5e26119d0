// Package ast defines the tagged-variant expression and statement nodes the
// parser builds and the elaborator annotates. Per the redesign direction in
// spec.md §9 ("tagged variant plus pattern matching" in place of virtual
// dispatch), dispatch over node kinds is done with Go type switches
// (mirrored in elaborate, codegen, and the printer below), not an
// accept/visitor interface — the structural idiom the reference front end's
// own `astTypes.add` type switch (ast_util.go) already uses internally even
// though its AST nodes are concrete structs rather than an interface.
package ast

import (
	"github.com/ember-lang/emberc/env"
	"github.com/ember-lang/emberc/source"
	"github.com/ember-lang/emberc/symbol"
	"github.com/ember-lang/emberc/token"
	"github.com/ember-lang/emberc/types"
)

// Expr is any expression node: every expression carries a source location
// and a Type, the Type possibly nil until the elaborator fills it in.
type Expr interface {
	Pos() source.Location
	Type() *types.Type
	SetType(*types.Type)
	SetPos(source.Location)
	Clone() Expr
	exprNode()
}

// Stmt is any statement node.
type Stmt interface {
	Pos() source.Location
	Clone() Stmt
	stmtNode()
}

type exprBase struct {
	Location source.Location
	Typ      *types.Type
}

func (e *exprBase) Pos() source.Location    { return e.Location }
func (e *exprBase) Type() *types.Type       { return e.Typ }
func (e *exprBase) SetType(t *types.Type)   { e.Typ = t }
func (e *exprBase) SetPos(l source.Location) { e.Location = l }

type stmtBase struct {
	Location source.Location
}

func (s *stmtBase) Pos() source.Location     { return s.Location }
func (s *stmtBase) SetPos(l source.Location) { s.Location = l }

// ---- Expressions ----

// Binary is a binary operator application.
type Binary struct {
	exprBase
	Op          token.Kind
	Left, Right Expr
}

func (b *Binary) exprNode() {}
func (b *Binary) Clone() Expr {
	c := *b
	c.Left, c.Right = b.Left.Clone(), b.Right.Clone()
	return &c
}

// Prefix is a unary prefix operator application.
type Prefix struct {
	exprBase
	Op    token.Kind
	Inner Expr
}

func (p *Prefix) exprNode() {}
func (p *Prefix) Clone() Expr {
	c := *p
	c.Inner = p.Inner.Clone()
	return &c
}

// Int is a 32-bit signed integer literal.
type Int struct {
	exprBase
	Value int32
}

func (i *Int) exprNode()     {}
func (i *Int) Clone() Expr   { c := *i; return &c }

// Float is a 64-bit floating point literal.
type Float struct {
	exprBase
	Value float64
}

func (f *Float) exprNode()   {}
func (f *Float) Clone() Expr { c := *f; return &c }

// Bool is a boolean literal.
type Bool struct {
	exprBase
	Value bool
}

func (b *Bool) exprNode()    {}
func (b *Bool) Clone() Expr  { c := *b; return &c }

// Char is an 8-bit character literal.
type Char struct {
	exprBase
	Value byte
}

func (c *Char) exprNode()    {}
func (c *Char) Clone() Expr  { cc := *c; return &cc }

// String is a byte-string literal.
type String struct {
	exprBase
	Value []byte
}

func (s *String) exprNode() {}
func (s *String) Clone() Expr {
	c := *s
	c.Value = append([]byte(nil), s.Value...)
	return &c
}

// Literal is a reference to a previously declared name.
type Literal struct {
	exprBase
	Name symbol.ID
}

func (l *Literal) exprNode()  {}
func (l *Literal) Clone() Expr { c := *l; return &c }

// Function is a function literal: its parameters live in their own
// Environment, and the Body (expected to be a Block) gets a child
// Environment of it.
type Function struct {
	exprBase
	Arity      int
	Name       *symbol.ID // nil for anonymous function literals
	Parameters *env.Environment
	ReturnType *types.Type
	Body       Expr
}

func (f *Function) exprNode() {}
func (f *Function) Clone() Expr {
	c := *f
	c.Body = f.Body.Clone()
	return &c
}

// TypeConv is a conversion node: implicit conversions are inserted by the
// elaborator, explicit ones arise from a `convert(...)` call.
type TypeConv struct {
	exprBase
	Implicit  bool
	From, To  *types.Type
	Inner     Expr
}

func (t *TypeConv) exprNode() {}
func (t *TypeConv) Clone() Expr {
	c := *t
	c.Inner = t.Inner.Clone()
	return &c
}

// CaseCond is the condition form of a Case: an expression, a type selector,
// or a bare name.
type CaseCond interface{ caseCondNode() }

// ExprCond matches a Case on an arbitrary expression (e.g. an int range).
type ExprCond struct{ Expr Expr }

func (ExprCond) caseCondNode() {}

// TypeSelectorCond matches a Case on a Sum branch's type.
type TypeSelectorCond struct{ Type *types.Type }

func (TypeSelectorCond) caseCondNode() {}

// NameCond matches a Case by binding the scrutinee to a bare name.
type NameCond struct{ Name symbol.ID }

func (NameCond) caseCondNode() {}

// Case is one arm of a Match.
type Case struct {
	exprBase
	Selector *types.Type // the branch type this Case narrows to, if known
	Cond     CaseCond
	Body     Expr
}

func (c *Case) exprNode() {}
func (c *Case) Clone() Expr {
	cc := *c
	cc.Body = c.Body.Clone()
	return &cc
}

// Match dispatches over the branches of a Sum (or equivalent) scrutinee.
type Match struct {
	exprBase
	Cond  Expr
	Cases []*Case
}

func (m *Match) exprNode() {}
func (m *Match) Clone() Expr {
	c := *m
	c.Cond = m.Cond.Clone()
	c.Cases = make([]*Case, len(m.Cases))
	for i, ca := range m.Cases {
		c.Cases[i] = ca.Clone().(*Case)
	}
	return &c
}

// If is a conditional expression, optionally with an else branch.
type If struct {
	exprBase
	Cond, Then Expr
	Else       Expr // nil if no else branch
}

func (i *If) exprNode() {}
func (i *If) Clone() Expr {
	c := *i
	c.Cond, c.Then = i.Cond.Clone(), i.Then.Clone()
	if i.Else != nil {
		c.Else = i.Else.Clone()
	}
	return &c
}

// Block is a sequence of statements evaluated in its own Environment.
// HasReturn/HasYield record whether a Return or Yield statement was seen
// directly inside the block (not inside a nested function), since that
// affects the block's own type.
type Block struct {
	exprBase
	Stmts        []Stmt
	Env          *env.Environment
	HasReturn    bool
	HasYield     bool
}

func (b *Block) exprNode() {}
func (b *Block) Clone() Expr {
	c := *b
	c.Stmts = make([]Stmt, len(b.Stmts))
	for i, s := range b.Stmts {
		c.Stmts[i] = s.Clone()
	}
	return &c
}

// For is a for-loop: Env holds the desugared `name in expr` declaration.
type For struct {
	exprBase
	Env  *env.Environment
	Body Expr
}

func (f *For) exprNode() {}
func (f *For) Clone() Expr {
	c := *f
	c.Body = f.Body.Clone()
	return &c
}

// While is a while-loop.
type While struct {
	exprBase
	Cond, Body Expr
}

func (w *While) exprNode() {}
func (w *While) Clone() Expr {
	c := *w
	c.Cond, c.Body = w.Cond.Clone(), w.Body.Clone()
	return &c
}

// Get is field/member access: expr.name.
type Get struct {
	exprBase
	Expr Expr
	Name symbol.ID
}

func (g *Get) exprNode() {}
func (g *Get) Clone() Expr {
	c := *g
	c.Expr = g.Expr.Clone()
	return &c
}

// Call covers ordinary function calls, struct construction, and list
// indexing; which one it is is resolved by the elaborator from Expr's type.
type Call struct {
	exprBase
	Expr   Expr
	Params []Expr
}

func (c *Call) exprNode() {}
func (c *Call) Clone() Expr {
	cc := *c
	cc.Expr = c.Expr.Clone()
	cc.Params = make([]Expr, len(c.Params))
	for i, p := range c.Params {
		cc.Params[i] = p.Clone()
	}
	return &cc
}

// Void is the void literal expression.
type Void struct{ exprBase }

func (v *Void) exprNode()   {}
func (v *Void) Clone() Expr { c := *v; return &c }

// ---- Statements ----

// Declaration binds name to an optional initializer, with an optional
// syntactic type annotation that the elaborator resolves/checks.
type Declaration struct {
	stmtBase
	Const        bool
	Name         symbol.ID
	DeclaredType *types.Type // nil if no `: T` annotation was written
	Value        Expr        // nil for a bare `let x: T;` with no initializer
}

func (d *Declaration) stmtNode()           {}
func (d *Declaration) MemberName() symbol.ID { return d.Name }
func (d *Declaration) Clone() Stmt {
	c := *d
	if d.Value != nil {
		c.Value = d.Value.Clone()
	}
	return &c
}

// Return is a `return expr;` statement.
type Return struct {
	stmtBase
	Value Expr
}

func (r *Return) stmtNode() {}
func (r *Return) Clone() Stmt {
	c := *r
	if r.Value != nil {
		c.Value = r.Value.Clone()
	}
	return &c
}

// Yield is a `yield expr;` statement, giving a Block its value.
type Yield struct {
	stmtBase
	Value Expr
}

func (y *Yield) stmtNode() {}
func (y *Yield) Clone() Stmt {
	c := *y
	c.Value = y.Value.Clone()
	return &c
}

// ExprStmt is an expression evaluated for effect.
type ExprStmt struct {
	stmtBase
	Value Expr
}

func (e *ExprStmt) stmtNode() {}
func (e *ExprStmt) Clone() Stmt {
	c := *e
	c.Value = e.Value.Clone()
	return &c
}

// Class declares an ordered struct type from its field declarations.
type Class struct {
	stmtBase
	Name       symbol.ID
	Parameters []*Declaration
	StructType *types.Type
}

func (c *Class) stmtNode()             {}
func (c *Class) MemberName() symbol.ID { return c.Name }
func (c *Class) Clone() Stmt {
	cc := *c
	cc.Parameters = make([]*Declaration, len(c.Parameters))
	for i, p := range c.Parameters {
		cc.Parameters[i] = p.Clone().(*Declaration)
	}
	return &cc
}

// Impl declares an interface (Decorating == nil) or an implementation of one
// interface for one class (Decorating names the target class).
type Impl struct {
	stmtBase
	Name       symbol.ID
	Decorating *symbol.ID
	Parameters []Stmt
	ImplType   *types.Type
}

func (i *Impl) stmtNode()             {}
func (i *Impl) MemberName() symbol.ID { return i.Name }
func (i *Impl) Clone() Stmt {
	c := *i
	c.Parameters = make([]Stmt, len(i.Parameters))
	for idx, p := range i.Parameters {
		c.Parameters[idx] = p.Clone()
	}
	return &c
}

// TypeDef introduces a named alias for a type.
type TypeDef struct {
	stmtBase
	Name      symbol.ID
	AliasType *types.Type
}

func (t *TypeDef) stmtNode()             {}
func (t *TypeDef) MemberName() symbol.ID { return t.Name }
func (t *TypeDef) Clone() Stmt            { c := *t; return &c }

// Continue is a `continue;` statement, only legal inside a loop.
type Continue struct{ stmtBase }

func (c *Continue) stmtNode() {}
func (c *Continue) Clone() Stmt { cc := *c; return &cc }
