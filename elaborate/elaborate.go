// Package elaborate implements the type-checking / elaboration pass: name
// resolution, type inference, convertibility checks, insertion of explicit
// TypeConv nodes, and constant folding of unary literal expressions. It
// walks the AST the parser produced with a Go type switch, per the
// "tagged variant plus pattern matching" redesign direction (spec.md §9),
// mirroring the reference front end's own `astTypes.add` dispatcher
// (gql/ast_util.go) structurally while replacing its abstract-interpretation
// value model with direct mutation of each node's Type field.
package elaborate

import (
	"github.com/grailbio/base/log"

	"github.com/ember-lang/emberc/ast"
	"github.com/ember-lang/emberc/diag"
	"github.com/ember-lang/emberc/env"
	"github.com/ember-lang/emberc/symbol"
	"github.com/ember-lang/emberc/token"
	"github.com/ember-lang/emberc/types"
)

// Elaborator walks a parsed program and annotates it with types in place.
type Elaborator struct {
	root *env.Environment
}

// New creates an Elaborator over the root Environment the parser built.
func New(root *env.Environment) *Elaborator {
	return &Elaborator{root: root}
}

// Program elaborates every top-level statement in two passes, the two-phase
// top-level discovery spec.md §5 calls for: a global may reference another
// global declared later in the file. Inside a block, a name is looked up in
// the block's whole Environment, which the parser fills while parsing, so a
// reference to a name declared later in the same block is not reported as a
// forward reference. The first pass resolves every explicitly-typed
// Declaration's DeclaredType (a syntactic lookup, not a value elaboration),
// so any later pass can read it off regardless of file order; a Declaration
// whose type is only inferred from its own value has no signature to
// discover ahead of time and remains available starting at its own spot in
// the second pass, same as before (see DESIGN.md).
func (el *Elaborator) Program(stmts []ast.Stmt) error {
	for _, s := range stmts {
		el.declareSignature(s, el.root)
	}
	for _, s := range stmts {
		if err := el.stmt(s, el.root); err != nil {
			return err
		}
	}
	return nil
}

// declareSignature resolves the parts of a top-level declaration that are
// known from its syntax alone, ahead of body elaboration.
func (el *Elaborator) declareSignature(s ast.Stmt, scope *env.Environment) {
	d, ok := s.(*ast.Declaration)
	if !ok || d.DeclaredType == nil {
		return
	}
	d.DeclaredType = el.resolveType(d.DeclaredType, scope)
}

func (el *Elaborator) stmt(s ast.Stmt, scope *env.Environment) error {
	switch n := s.(type) {
	case *ast.Declaration:
		return el.declaration(n, scope)
	case *ast.Return:
		if n.Value != nil {
			return el.expr(&n.Value, scope)
		}
		return nil
	case *ast.Yield:
		return el.expr(&n.Value, scope)
	case *ast.ExprStmt:
		return el.expr(&n.Value, scope)
	case *ast.Class:
		return el.class(n, scope)
	case *ast.Impl:
		return el.impl(n, scope)
	case *ast.TypeDef:
		n.AliasType = el.resolveType(n.AliasType, scope)
		return nil
	case *ast.Continue:
		return nil
	default:
		log.Panicf("elaborate: unhandled statement %T", s)
		return nil
	}
}

func (el *Elaborator) declaration(d *ast.Declaration, scope *env.Environment) error {
	if d.Value != nil {
		if err := el.expr(&d.Value, scope); err != nil {
			return err
		}
	}
	if d.DeclaredType != nil {
		d.DeclaredType = el.resolveType(d.DeclaredType, scope)
		if d.Value != nil {
			wrapped, err := wrapToDeclared(d.Value, d.DeclaredType, "declaration of "+d.Name.Str())
			if err != nil {
				return err
			}
			d.Value = wrapped
		}
		return nil
	}
	if d.Value != nil {
		d.DeclaredType = d.Value.Type()
	}
	return nil
}

func (el *Elaborator) class(c *ast.Class, scope *env.Environment) error {
	if c.StructType != nil {
		return nil
	}
	for _, p := range c.Parameters {
		if err := el.declaration(p, scope); err != nil {
			return err
		}
	}
	fields := make([]types.Field, len(c.Parameters))
	for i, p := range c.Parameters {
		fields[i] = types.Field{Name: p.Name.Str(), Type: p.DeclaredType}
	}
	c.StructType = types.NewStruct(fields...)
	return nil
}

func (el *Elaborator) impl(im *ast.Impl, scope *env.Environment) error {
	if im.ImplType != nil {
		return nil
	}
	for _, p := range im.Parameters {
		if err := el.stmt(p, scope); err != nil {
			return err
		}
	}
	var fields []types.Field
	for _, p := range im.Parameters {
		if d, ok := p.(*ast.Declaration); ok {
			fields = append(fields, types.Field{Name: d.Name.Str(), Type: d.DeclaredType})
		}
	}
	im.ImplType = types.NewImpl(fields...)
	if im.Decorating == nil {
		return nil
	}
	target, ok := el.root.GetMember(*im.Decorating)
	if !ok {
		return diag.New(diag.ScopeError, im.Pos(), "impl for undeclared class %q", (*im.Decorating).Str())
	}
	class, ok := target.(*ast.Class)
	if !ok {
		return diag.New(diag.ScopeError, im.Pos(), "%q is not a class", (*im.Decorating).Str())
	}
	if len(class.Parameters) != len(fields) {
		return diag.New(diag.ScopeError, im.Pos(), "impl %q for %q: member count mismatch", im.Name.Str(), (*im.Decorating).Str())
	}
	for i, f := range fields {
		if class.Parameters[i].Name.Str() != f.Name {
			return diag.New(diag.ScopeError, im.Pos(),
				"impl %q for %q: member %q out of order (expected %q)",
				im.Name.Str(), (*im.Decorating).Str(), class.Parameters[i].Name.Str(), f.Name)
		}
	}
	return nil
}

// resolveType fills in any unresolved Alias reachable from t by looking its
// name up in scope. Already-resolved aliases and non-alias types pass
// through untouched (idempotent).
func (el *Elaborator) resolveType(t *types.Type, scope *env.Environment) *types.Type {
	if t == nil {
		return nil
	}
	av, ok := t.Alias()
	if !ok || av.Body() != nil {
		return t
	}
	name := symbol.Intern(av.Name)
	m, ok := scope.GetMember(name)
	if !ok {
		return t
	}
	switch decl := m.(type) {
	case *ast.TypeDef:
		if a, ok := decl.AliasType.Alias(); ok {
			av.ResolveBody(a.Body())
		}
	case *ast.Class:
		av.ResolveBody(decl.StructType)
	case *ast.Impl:
		av.ResolveBody(decl.ImplType)
	}
	return t
}

// expr elaborates *slot in place, possibly replacing it with a TypeConv
// wrapper; slot lets callers thread the (possibly rewritten) child back into
// its parent node.
func (el *Elaborator) expr(slot *ast.Expr, scope *env.Environment) error {
	e := *slot
	switch n := e.(type) {
	case *ast.Int, *ast.Float, *ast.Bool, *ast.Char, *ast.String, *ast.Void:
		return el.setLiteralType(e, scope)
	case *ast.Literal:
		return el.literal(n, scope)
	case *ast.Binary:
		return el.binary(n, slot, scope)
	case *ast.Prefix:
		return el.prefix(n, slot, scope)
	case *ast.TypeConv:
		if err := el.expr(&n.Inner, scope); err != nil {
			return err
		}
		if n.Type() == nil {
			n.From = n.Inner.Type()
			n.To = el.resolveType(n.To, scope)
			n.SetType(n.To)
		}
		return nil
	case *ast.If:
		return el.ifExpr(n, slot, scope)
	case *ast.While:
		if err := el.expr(&n.Cond, scope); err != nil {
			return err
		}
		if n.Cond.Type() != types.TheBool {
			return diag.New(diag.TypeError, n.Cond.Pos(), "while condition must be bool")
		}
		if err := el.expr(&n.Body, scope); err != nil {
			return err
		}
		n.SetType(n.Body.Type())
		return nil
	case *ast.For:
		if d, ok := n.Env.GetInOrder(0); ok {
			if decl, ok := d.(*ast.Declaration); ok {
				if err := el.declaration(decl, n.Env); err != nil {
					return err
				}
			}
		}
		if err := el.expr(&n.Body, n.Env); err != nil {
			return err
		}
		n.SetType(n.Body.Type())
		return nil
	case *ast.Block:
		return el.block(n, scope)
	case *ast.Get:
		return el.get(n, scope)
	case *ast.Call:
		return el.call(n, slot, scope)
	case *ast.Function:
		return el.function(n, scope)
	case *ast.Match:
		return el.match(n, scope)
	default:
		log.Panicf("elaborate: unhandled expression %T", e)
		return nil
	}
}

func (el *Elaborator) setLiteralType(e ast.Expr, scope *env.Environment) error {
	switch n := e.(type) {
	case *ast.Int:
		n.SetType(scope.Int())
	case *ast.Float:
		n.SetType(scope.Float())
	case *ast.Bool:
		n.SetType(scope.Bool())
	case *ast.Char:
		n.SetType(scope.Char())
	case *ast.String:
		n.SetType(types.NewList(len(n.Value), scope.Char()))
	case *ast.Void:
		n.SetType(scope.Void())
	}
	return nil
}

func (el *Elaborator) literal(l *ast.Literal, scope *env.Environment) error {
	if l.Name == symbol.Self {
		l.SetType(scope.SelfRef())
		return nil
	}
	m, ok := scope.GetMember(l.Name)
	if !ok {
		return diag.New(diag.ScopeError, l.Pos(), "undeclared name %q", l.Name.Str())
	}
	switch decl := m.(type) {
	case *ast.Declaration:
		if decl.DeclaredType == nil {
			return diag.New(diag.TypeError, l.Pos(), "use of %q before its type is known", l.Name.Str())
		}
		l.SetType(decl.DeclaredType)
	case *ast.Class:
		l.SetType(decl.StructType)
	case *ast.Impl:
		l.SetType(decl.ImplType)
	default:
		return diag.New(diag.ScopeError, l.Pos(), "%q does not name a value", l.Name.Str())
	}
	return nil
}

func (el *Elaborator) function(f *ast.Function, scope *env.Environment) error {
	for i := 0; i < f.Parameters.Len(); i++ {
		m, _ := f.Parameters.GetInOrder(i)
		if d, ok := m.(*ast.Declaration); ok {
			d.DeclaredType = el.resolveType(d.DeclaredType, scope)
		}
	}
	f.ReturnType = el.resolveType(f.ReturnType, scope)
	if err := el.expr(&f.Body, f.Parameters); err != nil {
		return err
	}
	params := make([]*types.Type, f.Parameters.Len())
	for i := 0; i < f.Parameters.Len(); i++ {
		m, _ := f.Parameters.GetInOrder(i)
		if d, ok := m.(*ast.Declaration); ok {
			params[i] = d.DeclaredType
		}
	}
	f.SetType(types.NewFunction(f.ReturnType, params...))
	return nil
}

func (el *Elaborator) block(b *ast.Block, scope *env.Environment) error {
	var yieldType *types.Type
	for _, s := range b.Stmts {
		if err := el.stmt(s, b.Env); err != nil {
			return err
		}
		if y, ok := s.(*ast.Yield); ok {
			yieldType = y.Value.Type()
		}
	}
	if b.HasYield {
		b.SetType(yieldType)
	} else {
		b.SetType(b.Env.Void())
	}
	return nil
}

func (el *Elaborator) ifExpr(i *ast.If, slot *ast.Expr, scope *env.Environment) error {
	if err := el.expr(&i.Cond, scope); err != nil {
		return err
	}
	if i.Cond.Type() != scope.Bool() {
		return diag.New(diag.TypeError, i.Cond.Pos(), "if condition must be bool")
	}
	if err := el.expr(&i.Then, scope); err != nil {
		return err
	}
	if i.Else == nil {
		i.SetType(i.Then.Type())
		return nil
	}
	if err := el.expr(&i.Else, scope); err != nil {
		return err
	}
	thenT, elseT := i.Then.Type(), i.Else.Type()
	if thenT == elseT {
		i.SetType(thenT)
		return nil
	}
	if thenT.IsVoid() || elseT.IsVoid() {
		return el.unifyOptional(i, thenT, elseT)
	}
	merged := unify(thenT, elseT)
	i.Then = wrapImplicit(i.Then, merged)
	i.Else = wrapImplicit(i.Else, merged)
	i.SetType(merged)
	return nil
}

// unifyOptional handles the case where exactly one branch of an If is Void:
// the result is Optional(T) with the Void side wrapped to it.
func (el *Elaborator) unifyOptional(i *ast.If, thenT, elseT *types.Type) error {
	if thenT.IsVoid() && elseT.IsVoid() {
		i.SetType(thenT)
		return nil
	}
	var other *types.Type
	if thenT.IsVoid() {
		other = elseT
	} else {
		other = thenT
	}
	target := other
	if !other.IsOptional() {
		target = types.NewOptional(other)
	}
	i.Then = wrapImplicit(i.Then, target)
	i.Else = wrapImplicit(i.Else, target)
	i.SetType(target)
	return nil
}

func (el *Elaborator) get(g *ast.Get, scope *env.Environment) error {
	if err := el.expr(&g.Expr, scope); err != nil {
		return err
	}
	base := g.Expr.Type()
	if av, ok := base.Alias(); ok && av.Body() != nil {
		base = av.Body()
	}
	var members []types.Field
	switch v := base.Variant.(type) {
	case types.StructVariant:
		members = v.Fields
	case types.ImplVariant:
		members = v.Members
	default:
		return diag.New(diag.TypeError, g.Pos(), "%s has no member %q", base, g.Name.Str())
	}
	for _, f := range members {
		if f.Name == g.Name.Str() {
			g.SetType(f.Type)
			return nil
		}
	}
	return diag.New(diag.TypeError, g.Pos(), "unknown field %q", g.Name.Str())
}

// match elaborates a Match's scrutinee and every Case arm. The identifier
// form of a Case condition (NameCond) binds the scrutinee's type to that
// name in a fresh scope covering the arm's body; the type-selector form
// (TypeSelectorCond) narrows Case.Selector without introducing a binding.
// spec.md leaves this underspecified ("the elaborator rules for the
// identifier form are not fully consistent in the source"); this is the
// resolution adopted here (see DESIGN.md).
func (el *Elaborator) match(m *ast.Match, scope *env.Environment) error {
	if err := el.expr(&m.Cond, scope); err != nil {
		return err
	}
	var result *types.Type
	for _, c := range m.Cases {
		bodyScope := scope
		switch cond := c.Cond.(type) {
		case ast.ExprCond:
			if err := el.expr(&cond.Expr, scope); err != nil {
				return err
			}
			c.Cond = cond
		case ast.TypeSelectorCond:
			c.Selector = el.resolveType(cond.Type, scope)
		case ast.NameCond:
			bodyScope = scope.GenerateInnerEnvironment()
			bind := &ast.Declaration{Name: cond.Name, DeclaredType: m.Cond.Type()}
			bind.SetPos(c.Pos())
			bodyScope.AddMember(cond.Name, bind)
		}
		if err := el.expr(&c.Body, bodyScope); err != nil {
			return err
		}
		if result == nil {
			result = c.Body.Type()
		} else {
			result = unify(result, c.Body.Type())
		}
	}
	if result == nil {
		result = scope.Void()
	}
	m.SetType(result)
	return nil
}

func (el *Elaborator) prefix(p *ast.Prefix, slot *ast.Expr, scope *env.Environment) error {
	if err := el.expr(&p.Inner, scope); err != nil {
		return err
	}
	switch p.Op {
	case token.MINUS:
		switch inner := p.Inner.(type) {
		case *ast.Int:
			*slot = &ast.Int{Value: -inner.Value}
			(*slot).SetPos(p.Pos())
			(*slot).SetType(inner.Type())
			return nil
		case *ast.Float:
			*slot = &ast.Float{Value: -inner.Value}
			(*slot).SetPos(p.Pos())
			(*slot).SetType(inner.Type())
			return nil
		default:
			if !isNumeric(p.Inner.Type()) {
				return diag.New(diag.TypeError, p.Pos(), "unary - requires int or float")
			}
			p.SetType(p.Inner.Type())
			return nil
		}
	case token.BANG:
		switch inner := p.Inner.(type) {
		case *ast.Int:
			*slot = &ast.Int{Value: ^inner.Value}
			(*slot).SetPos(p.Pos())
			(*slot).SetType(inner.Type())
			return nil
		case *ast.Bool:
			*slot = &ast.Bool{Value: !inner.Value}
			(*slot).SetPos(p.Pos())
			(*slot).SetType(inner.Type())
			return nil
		default:
			p.SetType(p.Inner.Type())
			return nil
		}
	default:
		log.Panicf("elaborate: unhandled prefix operator %s", p.Op)
		return nil
	}
}

func (el *Elaborator) binary(b *ast.Binary, slot *ast.Expr, scope *env.Environment) error {
	if err := el.expr(&b.Left, scope); err != nil {
		return err
	}
	if err := el.expr(&b.Right, scope); err != nil {
		return err
	}
	switch b.Op {
	case token.PLUS, token.MINUS, token.STAR, token.SLASH:
		return el.arith(b, scope)
	case token.LT, token.GT, token.LE, token.GE:
		if err := el.arithCompatible(b, scope); err != nil {
			return err
		}
		b.SetType(scope.Bool())
		return nil
	case token.PERCENT, token.SHL, token.SHR, token.AMP, token.CARET, token.RANGE, token.RANGE_EQ:
		if b.Left.Type() != scope.Int() || b.Right.Type() != scope.Int() {
			return diag.New(diag.TypeError, b.Pos(), "%s requires int operands", b.Op)
		}
		b.SetType(scope.Int())
		return nil
	case token.PIPE:
		if b.Left.Type() != scope.Int() || b.Right.Type() != scope.Int() {
			return diag.New(diag.TypeError, b.Pos(), "%s requires int operands", b.Op)
		}
		b.SetType(scope.Int())
		return nil
	case token.EQUALS:
		wrapped, err := wrapTo(b.Right, b.Left.Type(), diag.TypeError, "assignment")
		if err != nil {
			return err
		}
		b.Right = wrapped
		b.SetType(b.Left.Type())
		return nil
	case token.OROR, token.ANDAND, token.EQEQ, token.NE:
		if b.Left.Type() != scope.Bool() || b.Right.Type() != scope.Bool() {
			return diag.New(diag.TypeError, b.Pos(), "%s requires bool operands", b.Op)
		}
		b.SetType(scope.Bool())
		return nil
	default:
		log.Panicf("elaborate: unhandled binary operator %s", b.Op)
		return nil
	}
}

func isNumeric(t *types.Type) bool {
	v, ok := t.Variant.(types.BottomVariant)
	return ok && (v.Kind == types.Int || v.Kind == types.Float)
}

// unify picks the merged type for two branch types, special-casing Int/Float
// promotion the same way arith does: the generic ConvertibleTo ladder makes
// Int->Float FALSE and Float->Int IMPLICIT (that widening is deliberately
// reserved for this context, per spec.md §3.1's note), so types.Merge alone
// would pick Int for a mixed Int/Float pair. Branch unification and
// arithmetic both need the opposite: Int promotes up to Float.
func unify(a, b *types.Type) *types.Type {
	if a == b {
		return a
	}
	if isNumeric(a) && isNumeric(b) {
		return types.TheFloat
	}
	return types.Merge(a, b)
}

// arith implements `+ - * /`: both Int, both Float, or one of each
// (promoting the Int side to Float — a dedicated arithmetic-promotion rule,
// distinct from the general ConvertibleTo relation, which treats Int→Float
// as FALSE and reserves that widening for this context only; see DESIGN.md).
func (el *Elaborator) arith(b *ast.Binary, scope *env.Environment) error {
	lt, rt := b.Left.Type(), b.Right.Type()
	if !isNumeric(lt) || !isNumeric(rt) {
		return diag.New(diag.TypeError, b.Pos(), "%s requires int or float operands", b.Op)
	}
	if lt == rt {
		b.SetType(lt)
		return nil
	}
	target := unify(lt, rt)
	b.Left = wrapImplicit(b.Left, target)
	b.Right = wrapImplicit(b.Right, target)
	b.SetType(target)
	return nil
}

// arithCompatible checks relational-operator operands with the same
// promotion rule as arith, but only to validate compatibility (the result
// type is always Bool so no rewrite of the comparison node's own type is
// needed beyond making sure both sides end up comparable).
func (el *Elaborator) arithCompatible(b *ast.Binary, scope *env.Environment) error {
	return el.arith(b, scope)
}

func (el *Elaborator) call(c *ast.Call, slot *ast.Expr, scope *env.Environment) error {
	if err := el.expr(&c.Expr, scope); err != nil {
		return err
	}
	for i := range c.Params {
		if err := el.expr(&c.Params[i], scope); err != nil {
			return err
		}
	}
	calleeType := c.Expr.Type()
	if av, ok := calleeType.Alias(); ok && av.Body() != nil {
		calleeType = av.Body()
	}
	switch v := calleeType.Variant.(type) {
	case types.StructVariant:
		if len(c.Params) != len(v.Fields) {
			return diag.New(diag.TypeError, c.Pos(), "struct constructor expects %d arguments, got %d", len(v.Fields), len(c.Params))
		}
		for i, f := range v.Fields {
			wrapped, err := wrapTo(c.Params[i], f.Type, diag.TypeError, "struct field "+f.Name)
			if err != nil {
				return err
			}
			c.Params[i] = wrapped
		}
		c.SetType(calleeType)
		return nil
	case types.FunctionVariant:
		if len(c.Params) != len(v.Params) {
			return diag.New(diag.TypeError, c.Pos(), "function expects %d arguments, got %d", len(v.Params), len(c.Params))
		}
		for i, pt := range v.Params {
			wrapped, err := wrapTo(c.Params[i], pt, diag.TypeError, "argument")
			if err != nil {
				return err
			}
			c.Params[i] = wrapped
		}
		c.SetType(v.Return)
		return nil
	case types.ListVariant:
		if len(c.Params) != 1 || c.Params[0].Type() != scope.Int() {
			return diag.New(diag.TypeError, c.Pos(), "list indexing requires exactly one int argument")
		}
		c.SetType(v.Elem)
		return nil
	default:
		return diag.New(diag.TypeError, c.Pos(), "%s is not callable", calleeType)
	}
}

// wrapTo checks src.convertibleTo(target) and, if SAME, returns src
// unchanged; if IMPLICIT, wraps it in a TypeConv; otherwise reports a
// TypeError. Every TypeConv inserted here is IMPLICIT by ConvertibleTo; the
// ones wrapImplicit inserts (numeric widening, bare-to-Optional) need not be.
func wrapTo(src ast.Expr, target *types.Type, kind diag.Kind, context string) (ast.Expr, error) {
	conv := src.Type().ConvertibleTo(target)
	switch conv {
	case types.Same:
		return src, nil
	case types.Implicit:
		tc := &ast.TypeConv{Implicit: true, From: src.Type(), To: target, Inner: src}
		tc.SetPos(src.Pos())
		tc.SetType(target)
		return tc, nil
	default:
		return nil, diag.New(kind, src.Pos(), "%s: cannot convert %s to %s", context, src.Type(), target)
	}
}

// wrapToDeclared wraps a declaration's value to its declared type. Int/Float
// pairs take the same widening path arith/ifExpr/match get through
// wrapImplicit (spec.md §8 scenario 1, `let x: float = 3;`, must produce an
// implicit Int->Float TypeConv even though the generic ladder reserves that
// direction as FALSE); every other pair goes through the strict,
// ConvertibleTo-consulting wrapTo, which still errors on Explicit/False.
func wrapToDeclared(src ast.Expr, target *types.Type, context string) (ast.Expr, error) {
	if isNumeric(src.Type()) && isNumeric(target) {
		return wrapImplicit(src, target), nil
	}
	return wrapTo(src, target, diag.TypeError, context)
}

// wrapImplicit unconditionally wraps src in an implicit TypeConv to target
// unless it is already that type. Used where the caller (arithmetic
// promotion, branch-merge unification) has already established that the
// wrap is the intended outcome by construction — the general ConvertibleTo
// relation does not itself model numeric widening or bare-to-Optional
// promotion (see unify and Merge), so consulting it here would reject
// conversions the elaborator is deliberately inserting.
func wrapImplicit(src ast.Expr, target *types.Type) ast.Expr {
	if src.Type() == target {
		return src
	}
	tc := &ast.TypeConv{Implicit: true, From: src.Type(), To: target, Inner: src}
	tc.SetPos(src.Pos())
	tc.SetType(target)
	return tc
}
