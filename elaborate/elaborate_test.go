package elaborate_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ember-lang/emberc/ast"
	"github.com/ember-lang/emberc/elaborate"
	"github.com/ember-lang/emberc/env"
	"github.com/ember-lang/emberc/parsertest"
	"github.com/ember-lang/emberc/types"
)

func elaborateProgram(t *testing.T, src string) []ast.Stmt {
	t.Helper()
	stmts := parsertest.MustParse(t, src)
	root := env.NewRoot()
	registerGlobals(t, root, stmts)
	el := elaborate.New(root)
	assert.NoError(t, el.Program(stmts))
	return stmts
}

// registerGlobals mirrors what the parser already does while building the
// tree (every global Declaration/Class/Impl/TypeDef is added to the root
// Environment as it is parsed); MustParse's Parser keeps its own Environment
// instance, so these tests rebuild an equivalent root to elaborate against.
func registerGlobals(t *testing.T, root *env.Environment, stmts []ast.Stmt) {
	t.Helper()
	for _, s := range stmts {
		switch n := s.(type) {
		case *ast.Declaration:
			root.AddMember(n.Name, n)
		case *ast.Class:
			root.AddMember(n.Name, n)
		case *ast.Impl:
			root.AddMember(n.Name, n)
		case *ast.TypeDef:
			root.AddMember(n.Name, n)
		}
	}
}

func TestDeclarationIntToFloatWidens(t *testing.T) {
	stmts := elaborateProgram(t, "let x: float = 3;")
	d := stmts[0].(*ast.Declaration)
	assert.Equal(t, types.TheFloat, d.DeclaredType)
	tc, ok := d.Value.(*ast.TypeConv)
	assert.True(t, ok)
	assert.True(t, tc.Implicit)
	assert.Equal(t, types.TheInt, tc.From)
	assert.Equal(t, types.TheFloat, tc.To)
	assert.Equal(t, int32(3), tc.Inner.(*ast.Int).Value)
}

func TestBinaryIntPlusFloatPromotesLeft(t *testing.T) {
	e := parsertest.MustParseExpr(t, "1 + 2.0")
	root := env.NewRoot()
	el := elaborate.New(root)
	slot := ast.Expr(e)
	b := e.(*ast.Binary)
	assert.NoError(t, elaborateExprPublic(el, &slot))
	assert.Equal(t, types.TheFloat, b.Type())
	tc, ok := b.Left.(*ast.TypeConv)
	assert.True(t, ok)
	assert.Equal(t, types.TheInt, tc.From)
	assert.Equal(t, types.TheFloat, tc.To)
	_, isFloat := b.Right.(*ast.Float)
	assert.True(t, isFloat)
}

func TestPrefixDoubleNegateFolds(t *testing.T) {
	e := parsertest.MustParseExpr(t, "-(-7)")
	root := env.NewRoot()
	el := elaborate.New(root)
	slot := ast.Expr(e)
	assert.NoError(t, elaborateExprPublic(el, &slot))
	i, ok := slot.(*ast.Int)
	assert.True(t, ok)
	assert.Equal(t, int32(7), i.Value)
}

func TestIfBothBranchesMergeToFloat(t *testing.T) {
	e := parsertest.MustParseExpr(t, "if true 1 else 2.0")
	root := env.NewRoot()
	el := elaborate.New(root)
	slot := ast.Expr(e)
	assert.NoError(t, elaborateExprPublic(el, &slot))
	ifNode := slot.(*ast.If)
	assert.Equal(t, types.TheFloat, ifNode.Type())
	_, thenIsConv := ifNode.Then.(*ast.TypeConv)
	assert.True(t, thenIsConv)
}

func TestIfVoidBranchBecomesOptional(t *testing.T) {
	e := parsertest.MustParseExpr(t, "if true 1 else void")
	root := env.NewRoot()
	el := elaborate.New(root)
	slot := ast.Expr(e)
	assert.NoError(t, elaborateExprPublic(el, &slot))
	ifNode := slot.(*ast.If)
	assert.True(t, ifNode.Type().IsOptional())
	_, elseIsConv := ifNode.Else.(*ast.TypeConv)
	assert.True(t, elseIsConv)
}

func TestAliasDeclarationWrapsCharToInt(t *testing.T) {
	stmts := elaborateProgram(t, "type Id = int; let y: Id = 'a';")
	d := stmts[1].(*ast.Declaration)
	av, ok := d.DeclaredType.Alias()
	assert.True(t, ok)
	assert.Equal(t, "Id", av.Name)
	tc, ok := d.Value.(*ast.TypeConv)
	assert.True(t, ok)
	assert.True(t, tc.Implicit)
	assert.Equal(t, types.TheChar, tc.From)
}

func TestStructConstructorNoConversionNeeded(t *testing.T) {
	stmts := elaborateProgram(t, "class P { let x: int = 0; let y: int = 0; }; let p = P(1, 2);")
	d := stmts[1].(*ast.Declaration)
	call := d.Value.(*ast.Call)
	assert.True(t, call.Type().IsStruct())
	for _, p := range call.Params {
		_, isConv := p.(*ast.TypeConv)
		assert.False(t, isConv)
	}
}

func TestElaborationIsIdempotent(t *testing.T) {
	stmts := elaborateProgram(t, "let x: float = 3;")
	root := env.NewRoot()
	registerGlobals(t, root, stmts)
	el := elaborate.New(root)
	assert.NoError(t, el.Program(stmts))
	d := stmts[0].(*ast.Declaration)
	tc, ok := d.Value.(*ast.TypeConv)
	assert.True(t, ok)
	assert.True(t, tc.Implicit)
	_, doubleWrapped := tc.Inner.(*ast.TypeConv)
	assert.False(t, doubleWrapped)
}

func TestGlobalForwardReferencesExplicitlyTypedLaterGlobal(t *testing.T) {
	stmts := elaborateProgram(t, "let a: int = b; let b: int = 2;")
	a := stmts[0].(*ast.Declaration)
	assert.Equal(t, types.TheInt, a.DeclaredType)
	lit, ok := a.Value.(*ast.Literal)
	assert.True(t, ok)
	assert.Equal(t, types.TheInt, lit.Type())
}

func TestUndeclaredNameIsScopeError(t *testing.T) {
	e := parsertest.MustParseExpr(t, "missing")
	root := env.NewRoot()
	el := elaborate.New(root)
	slot := ast.Expr(e)
	assert.Error(t, elaborateExprPublic(el, &slot))
}

// elaborateExprPublic reaches Elaborator's unexported expr method through
// Program: wrap the target expression in a throwaway ExprStmt so the public
// entry point can reach it.
func elaborateExprPublic(el *elaborate.Elaborator, slot *ast.Expr) error {
	stmt := &ast.ExprStmt{Value: *slot}
	err := el.Program([]ast.Stmt{stmt})
	*slot = stmt.Value
	return err
}
