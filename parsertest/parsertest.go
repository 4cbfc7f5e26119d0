// Package parsertest provides helper functions for parser and elaborator
// unit tests, the way gqltest.Eval does for the reference front end's own
// test suite.
package parsertest

import (
	"testing"

	"github.com/grailbio/base/must"

	"github.com/ember-lang/emberc/ast"
	"github.com/ember-lang/emberc/lexer"
	"github.com/ember-lang/emberc/parser"
)

// MustParse parses src as a program and fails the test on error.
func MustParse(t testing.TB, src string) []ast.Stmt {
	p := parser.New(lexer.New("(test)", src))
	stmts, err := p.Program()
	must.Nilf(err, "parse %q", src)
	return stmts
}

// MustParseExpr parses src as a single expression and fails the test on
// error.
func MustParseExpr(t testing.TB, src string) ast.Expr {
	p := parser.New(lexer.New("(test)", src))
	e, err := p.Expr()
	must.Nilf(err, "parse expr %q", src)
	return e
}
