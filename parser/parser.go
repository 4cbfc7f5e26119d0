// Package parser implements the recursive-descent construction of the AST
// and its environment tree from a token stream. All semantic type work
// (name resolution beyond syntactic Alias lookup, inference, conversion
// insertion) is deferred to the elaborate package; the parser only attaches
// the syntactic type annotations the grammar spells out.
package parser

import (
	"github.com/ember-lang/emberc/ast"
	"github.com/ember-lang/emberc/diag"
	"github.com/ember-lang/emberc/env"
	"github.com/ember-lang/emberc/symbol"
	"github.com/ember-lang/emberc/token"
	"github.com/ember-lang/emberc/types"
)

// implClassContext is the parser's "inImplClass" context flag.
type implClassContext int

const (
	contextNormal implClassContext = iota
	contextImpl
	contextClass
)

// Parser holds the two-token lookahead and the context flags the grammar's
// `self`/`continue`/`yield` restrictions depend on. Fields are plain,
// save-and-restored around recursive entries, per the redesign note in
// spec.md §9 ("Parser context flags. Keep as plain fields on the parser
// value; save-and-restore around recursive entries.").
type Parser struct {
	lex  token.Lexer
	cur  token.Token
	peek token.Token

	root  *env.Environment
	scope *env.Environment

	inImplClass implClassContext
	inLoop      bool
	inBlock     bool
}

// New creates a Parser reading from lex, with a fresh root Environment.
func New(lex token.Lexer) *Parser {
	p := &Parser{lex: lex, root: env.NewRoot()}
	p.scope = p.root
	p.cur = lex.Next()
	p.peek = lex.Next()
	return p
}

// Root returns the root Environment the parser builds into.
func (p *Parser) Root() *env.Environment { return p.root }

func (p *Parser) advance() {
	p.cur = p.peek
	p.peek = p.lex.Next()
}

// expect consumes cur if it has kind k, else reports a SyntaxError.
func (p *Parser) expect(k token.Kind) (token.Token, error) {
	if p.cur.Kind != k {
		return token.Token{}, diag.New(diag.SyntaxError, p.cur.Location,
			"expected %s, got %s %q", k, p.cur.Kind, p.cur.Text)
	}
	t := p.cur
	p.advance()
	return t, nil
}

// accept consumes cur if it has kind k, reporting whether it did.
func (p *Parser) accept(k token.Kind) (token.Token, bool) {
	if p.cur.Kind == k {
		t := p.cur
		p.advance()
		return t, true
	}
	return token.Token{}, false
}

// Program parses zero or more globals until EOF (the PROGRAM entry mode).
func (p *Parser) Program() ([]ast.Stmt, error) {
	var stmts []ast.Stmt
	for p.cur.Kind != token.EOF {
		s, err := p.global()
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, s)
	}
	return stmts, nil
}

// Expr parses a single expression (the EXPR entry mode).
func (p *Parser) Expr() (ast.Expr, error) { return p.assign() }

// Type parses a single type (the TYPE entry mode).
func (p *Parser) Type() (*types.Type, error) { return p.sumType() }

func (p *Parser) global() (ast.Stmt, error) {
	switch p.cur.Kind {
	case token.TYPE:
		return p.typeDef()
	case token.LET, token.CONST:
		s, err := p.declarationStmt()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.SEMI); err != nil {
			return nil, err
		}
		return s, nil
	case token.IMPL:
		return p.implStmt()
	case token.CLASS:
		return p.classStmt()
	default:
		return nil, diag.New(diag.SyntaxError, p.cur.Location, "unknown declaration form at %s", p.cur.Kind)
	}
}

// stmt parses one statement inside a block.
func (p *Parser) stmt() (ast.Stmt, error) {
	loc := p.cur.Location
	var s ast.Stmt
	var err error
	switch p.cur.Kind {
	case token.TYPE:
		return p.typeDef()
	case token.LET, token.CONST:
		s, err = p.declarationStmt()
	case token.YIELD:
		if !p.inBlock {
			return nil, diag.New(diag.ScopeError, loc, "yield only legal inside a block")
		}
		p.advance()
		var v ast.Expr
		v, err = p.Expr()
		if err == nil {
			y := &ast.Yield{Value: v}
			y.SetPos(loc)
			s = y
		}
	case token.RETURN:
		p.advance()
		if p.cur.Kind == token.SEMI {
			r := &ast.Return{}
			r.SetPos(loc)
			s = r
		} else {
			var v ast.Expr
			v, err = p.Expr()
			if err == nil {
				r := &ast.Return{Value: v}
				r.SetPos(loc)
				s = r
			}
		}
	case token.IMPL:
		return p.implStmt()
	case token.CLASS:
		return p.classStmt()
	case token.CONTINUE:
		if !p.inLoop {
			return nil, diag.New(diag.ScopeError, loc, "continue only legal inside a loop")
		}
		p.advance()
		c := &ast.Continue{}
		c.SetPos(loc)
		s = c
	default:
		var v ast.Expr
		v, err = p.Expr()
		if err == nil {
			e := &ast.ExprStmt{Value: v}
			e.SetPos(loc)
			s = e
		}
	}
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.SEMI); err != nil {
		return nil, err
	}
	return s, nil
}

func (p *Parser) declarationStmt() (*ast.Declaration, error) {
	loc := p.cur.Location
	isConst := p.cur.Kind == token.CONST
	p.advance() // LET or CONST
	nameTok, err := p.expect(token.IDENT)
	if err != nil {
		return nil, err
	}
	name := symbol.Intern(nameTok.Text)
	d := &ast.Declaration{Const: isConst, Name: name}
	d.SetPos(loc)
	if _, ok := p.accept(token.COLON); ok {
		t, err := p.Type()
		if err != nil {
			return nil, err
		}
		d.DeclaredType = t
	}
	if _, ok := p.accept(token.EQUALS); ok {
		v, err := p.Expr()
		if err != nil {
			return nil, err
		}
		d.Value = v
	}
	if isConst && d.Value == nil {
		return nil, diag.New(diag.SyntaxError, loc, "const must have a definition")
	}
	if d.DeclaredType == nil && d.Value == nil {
		return nil, diag.New(diag.SyntaxError, loc, "either a type or a value must be given for inference")
	}
	switch p.scope.RedeclarationState(name) {
	case env.Redeclaration:
		return nil, diag.New(diag.ScopeError, loc, "redeclaration of %q", nameTok.Text)
	}
	p.scope.AddMember(name, d)
	return d, nil
}

func (p *Parser) typeDef() (*ast.TypeDef, error) {
	loc := p.cur.Location
	p.advance() // TYPE
	nameTok, err := p.expect(token.IDENT)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.EQUALS); err != nil {
		return nil, err
	}
	body, err := p.Type()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.SEMI); err != nil {
		return nil, err
	}
	name := symbol.Intern(nameTok.Text)
	td := &ast.TypeDef{Name: name, AliasType: types.NewResolvedAlias(nameTok.Text, body)}
	td.SetPos(loc)
	if p.scope.RedeclarationState(name) == env.Redeclaration {
		return nil, diag.New(diag.ScopeError, loc, "redeclaration of %q", nameTok.Text)
	}
	p.scope.AddMember(name, td)
	return td, nil
}

func (p *Parser) classStmt() (*ast.Class, error) {
	loc := p.cur.Location
	p.advance() // CLASS
	saved := p.inImplClass
	p.inImplClass = contextClass
	defer func() { p.inImplClass = saved }()

	nameTok, err := p.expect(token.IDENT)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.LBRACE); err != nil {
		return nil, err
	}
	var fields []*ast.Declaration
	for p.cur.Kind != token.RBRACE {
		d, err := p.declarationStmt()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.SEMI); err != nil {
			return nil, err
		}
		fields = append(fields, d)
	}
	p.advance() // RBRACE
	if _, err := p.expect(token.SEMI); err != nil {
		return nil, err
	}
	structFields := make([]types.Field, len(fields))
	for i, f := range fields {
		ft := f.DeclaredType
		if ft == nil && f.Value != nil {
			ft = f.Value.Type()
		}
		structFields[i] = types.Field{Name: f.Name.Str(), Type: ft}
	}
	name := symbol.Intern(nameTok.Text)
	c := &ast.Class{Name: name, Parameters: fields, StructType: types.NewStruct(structFields...)}
	c.SetPos(loc)
	if p.scope.RedeclarationState(name) == env.Redeclaration {
		return nil, diag.New(diag.ScopeError, loc, "redeclaration of %q", nameTok.Text)
	}
	p.scope.AddMember(name, c)
	return c, nil
}

func (p *Parser) implStmt() (*ast.Impl, error) {
	loc := p.cur.Location
	p.advance() // IMPL
	saved := p.inImplClass
	p.inImplClass = contextImpl
	defer func() { p.inImplClass = saved }()

	nameTok, err := p.expect(token.IDENT)
	if err != nil {
		return nil, err
	}
	var decorating *symbol.ID
	if _, ok := p.accept(token.FOR); ok {
		targetTok, err := p.expect(token.IDENT)
		if err != nil {
			return nil, err
		}
		target := symbol.Intern(targetTok.Text)
		decorating = &target
	}
	if _, err := p.expect(token.LBRACE); err != nil {
		return nil, err
	}
	var members []ast.Stmt
	var fields []types.Field
	for p.cur.Kind != token.RBRACE {
		d, err := p.declarationStmt()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.SEMI); err != nil {
			return nil, err
		}
		members = append(members, d)
		ft := d.DeclaredType
		if ft == nil && d.Value != nil {
			ft = d.Value.Type()
		}
		fields = append(fields, types.Field{Name: d.Name.Str(), Type: ft})
	}
	p.advance() // RBRACE
	if _, err := p.expect(token.SEMI); err != nil {
		return nil, err
	}
	name := symbol.Intern(nameTok.Text)
	im := &ast.Impl{Name: name, Decorating: decorating, Parameters: members, ImplType: types.NewImpl(fields...)}
	im.SetPos(loc)
	if decorating == nil {
		if p.scope.RedeclarationState(name) == env.Redeclaration {
			return nil, diag.New(diag.ScopeError, loc, "redeclaration of %q", nameTok.Text)
		}
		p.scope.AddMember(name, im)
	}
	return im, nil
}

// ---- type grammar ----

func (p *Parser) sumType() (*types.Type, error) {
	first, err := p.productType()
	if err != nil {
		return nil, err
	}
	branches := []*types.Type{first}
	for {
		if _, ok := p.accept(token.PIPE); !ok {
			break
		}
		next, err := p.productType()
		if err != nil {
			return nil, err
		}
		branches = append(branches, next)
	}
	if len(branches) == 1 {
		return branches[0], nil
	}
	return types.NewSum(branches...), nil
}

func (p *Parser) productType() (*types.Type, error) {
	switch p.cur.Kind {
	case token.FN:
		return p.functionType()
	case token.LIST:
		return p.listType()
	case token.LPAREN:
		return p.tupleType()
	case token.OPTIONAL:
		return p.optionalType()
	case token.SELF:
		p.advance()
		return types.TheSelfRef, nil
	case token.VOID:
		p.advance()
		return types.TheVoid, nil
	case token.IDENT:
		return p.nameType()
	default:
		return nil, diag.New(diag.SyntaxError, p.cur.Location, "expected a type, got %s", p.cur.Kind)
	}
}

func (p *Parser) functionType() (*types.Type, error) {
	p.advance() // FN
	if _, err := p.expect(token.LPAREN); err != nil {
		return nil, err
	}
	var params []*types.Type
	for p.cur.Kind != token.RPAREN {
		t, err := p.sumType()
		if err != nil {
			return nil, err
		}
		params = append(params, t)
		if p.cur.Kind != token.RPAREN {
			if _, err := p.expect(token.COMMA); err != nil {
				return nil, err
			}
		}
	}
	p.advance() // RPAREN
	if _, err := p.expect(token.ARROW); err != nil {
		return nil, err
	}
	ret, err := p.sumType()
	if err != nil {
		return nil, err
	}
	return types.NewFunction(ret, params...), nil
}

func (p *Parser) listType() (*types.Type, error) {
	p.advance() // LIST
	if _, err := p.expect(token.LBRACKET); err != nil {
		return nil, err
	}
	size := -1
	if p.cur.Kind == token.INT {
		size = parseIntLiteral(p.cur.Text)
		p.advance()
	} else if _, ok := p.accept(token.STAR); ok {
		size = -1
	}
	if _, err := p.expect(token.PIPE); err != nil {
		return nil, err
	}
	elem, err := p.sumType()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.RBRACKET); err != nil {
		return nil, err
	}
	return types.NewList(size, elem), nil
}

func (p *Parser) tupleType() (*types.Type, error) {
	p.advance() // LPAREN
	var elems []*types.Type
	for p.cur.Kind != token.RPAREN {
		t, err := p.sumType()
		if err != nil {
			return nil, err
		}
		elems = append(elems, t)
		if p.cur.Kind != token.RPAREN {
			if _, err := p.expect(token.COMMA); err != nil {
				return nil, err
			}
		}
	}
	p.advance() // RPAREN
	return types.NewTuple(elems...), nil
}

func (p *Parser) optionalType() (*types.Type, error) {
	p.advance() // OPTIONAL
	if _, err := p.expect(token.LBRACKET); err != nil {
		return nil, err
	}
	elem, err := p.sumType()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.RBRACKET); err != nil {
		return nil, err
	}
	return types.NewOptional(elem), nil
}

// nameType resolves an identifier type: a bottom-type name, a previously
// declared TypeDef/Class/Impl, or (if unknown at parse time) an unresolved
// Alias left for the elaborator to bind through the environment.
func (p *Parser) nameType() (*types.Type, error) {
	tok := p.cur
	p.advance()
	switch tok.Text {
	case "int":
		return types.TheInt, nil
	case "char":
		return types.TheChar, nil
	case "bool":
		return types.TheBool, nil
	case "float":
		return types.TheFloat, nil
	case "void":
		return types.TheVoid, nil
	}
	name := symbol.Intern(tok.Text)
	if m, ok := p.scope.GetMember(name); ok {
		switch decl := m.(type) {
		case *ast.TypeDef:
			return decl.AliasType, nil
		case *ast.Class:
			return decl.StructType, nil
		case *ast.Impl:
			return decl.ImplType, nil
		}
	}
	return types.NewAlias(tok.Text), nil
}

func parseIntLiteral(text string) int {
	n := 0
	neg := false
	for i, c := range text {
		if i == 0 && c == '-' {
			neg = true
			continue
		}
		n = n*10 + int(c-'0')
	}
	if neg {
		n = -n
	}
	return n
}
