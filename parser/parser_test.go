package parser_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ember-lang/emberc/ast"
	"github.com/ember-lang/emberc/lexer"
	"github.com/ember-lang/emberc/parser"
	"github.com/ember-lang/emberc/token"
)

func parseExpr(t *testing.T, src string) ast.Expr {
	t.Helper()
	p := parser.New(lexer.New("(test)", src))
	e, err := p.Expr()
	assert.NoError(t, err)
	return e
}

func TestParsePrecedence(t *testing.T) {
	e := parseExpr(t, "1 + 2 * 3")
	bin, ok := e.(*ast.Binary)
	assert.True(t, ok)
	assert.Equal(t, token.PLUS, bin.Op)
	assert.Equal(t, int32(1), bin.Left.(*ast.Int).Value)
	rhs, ok := bin.Right.(*ast.Binary)
	assert.True(t, ok)
	assert.Equal(t, token.STAR, rhs.Op)
}

func TestParseNegateLiteral(t *testing.T) {
	e := parseExpr(t, "-(-7)")
	outer, ok := e.(*ast.Prefix)
	assert.True(t, ok)
	assert.Equal(t, token.MINUS, outer.Op)
	inner, ok := outer.Inner.(*ast.Prefix)
	assert.True(t, ok)
	assert.Equal(t, int32(7), inner.Inner.(*ast.Int).Value)
}

func TestParseIfElse(t *testing.T) {
	e := parseExpr(t, "if true 1 else 2.0")
	ifNode, ok := e.(*ast.If)
	assert.True(t, ok)
	assert.NotNil(t, ifNode.Else)
}

func TestParseAssignRightAssoc(t *testing.T) {
	e := parseExpr(t, "a = b = c")
	bin, ok := e.(*ast.Binary)
	assert.True(t, ok)
	assert.Equal(t, token.EQUALS, bin.Op)
	_, leftIsName := bin.Left.(*ast.Literal)
	assert.True(t, leftIsName)
	rhs, ok := bin.Right.(*ast.Binary)
	assert.True(t, ok)
	assert.Equal(t, token.EQUALS, rhs.Op)
}

func TestParseDeclarationProgram(t *testing.T) {
	p := parser.New(lexer.New("(test)", "let x: float = 3;"))
	stmts, err := p.Program()
	assert.NoError(t, err)
	assert.Len(t, stmts, 1)
	d, ok := stmts[0].(*ast.Declaration)
	assert.True(t, ok)
	assert.False(t, d.Const)
}

func TestParseClassProgram(t *testing.T) {
	p := parser.New(lexer.New("(test)",
		"class P { let x: int = 0; let y: int = 0; };"))
	stmts, err := p.Program()
	assert.NoError(t, err)
	assert.Len(t, stmts, 1)
	c, ok := stmts[0].(*ast.Class)
	assert.True(t, ok)
	assert.Len(t, c.Parameters, 2)
}

func TestContinueOutsideLoopIsError(t *testing.T) {
	p := parser.New(lexer.New("(test)", "{ continue; }"))
	_, err := p.Expr()
	assert.Error(t, err)
}

func TestSelfOutsideImplClassIsError(t *testing.T) {
	p := parser.New(lexer.New("(test)", "self"))
	_, err := p.Expr()
	assert.Error(t, err)
}
