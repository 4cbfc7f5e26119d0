package ast_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ember-lang/emberc/ast"
	"github.com/ember-lang/emberc/symbol"
	"github.com/ember-lang/emberc/types"
)

func TestCloneIsDeep(t *testing.T) {
	orig := &ast.Binary{
		Left:  &ast.Int{Value: 1},
		Right: &ast.Int{Value: 2},
	}
	clone := orig.Clone().(*ast.Binary)
	clone.Left.(*ast.Int).Value = 99
	assert.Equal(t, int32(1), orig.Left.(*ast.Int).Value)
	assert.Equal(t, int32(99), clone.Left.(*ast.Int).Value)
}

func TestClonePreservesType(t *testing.T) {
	lit := &ast.Literal{Name: symbol.Intern("abc")}
	lit.SetType(types.TheInt)
	clone := lit.Clone()
	assert.Same(t, types.TheInt, clone.Type())
}

func TestPrintIntLiteral(t *testing.T) {
	expr := &ast.Int{Value: 3}
	assert.Equal(t, "3", ast.Print(expr))
}

func TestPrintDeclaration(t *testing.T) {
	d := &ast.Declaration{Name: symbol.Intern("x_decl"), Value: &ast.Int{Value: 7}}
	assert.Equal(t, "let x_decl = 7;", ast.PrintStmt(d))
}
