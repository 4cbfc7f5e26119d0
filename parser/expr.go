package parser

import (
	"github.com/ember-lang/emberc/ast"
	"github.com/ember-lang/emberc/diag"
	"github.com/ember-lang/emberc/env"
	"github.com/ember-lang/emberc/symbol"
	"github.com/ember-lang/emberc/token"
)

func oneOf(k token.Kind, ops []token.Kind) bool {
	for _, op := range ops {
		if k == op {
			return true
		}
	}
	return false
}

// binaryLeft implements one left-associative precedence level: parse an
// operand with next, then fold in any run of operators from ops.
func (p *Parser) binaryLeft(next func() (ast.Expr, error), ops ...token.Kind) (ast.Expr, error) {
	left, err := next()
	if err != nil {
		return nil, err
	}
	for oneOf(p.cur.Kind, ops) {
		op := p.cur.Kind
		loc := p.cur.Location
		p.advance()
		right, err := next()
		if err != nil {
			return nil, err
		}
		b := &ast.Binary{Op: op, Left: left, Right: right}
		b.SetPos(loc)
		left = b
	}
	return left, nil
}

// assign is level 16, right-associative.
func (p *Parser) assign() (ast.Expr, error) {
	left, err := p.rangeExpr()
	if err != nil {
		return nil, err
	}
	if p.cur.Kind != token.EQUALS {
		return left, nil
	}
	loc := p.cur.Location
	if !isAssignable(left) {
		return nil, diag.New(diag.SyntaxError, loc, "left side of assignment must be a name, field access, or index expression")
	}
	p.advance()
	right, err := p.assign()
	if err != nil {
		return nil, err
	}
	b := &ast.Binary{Op: token.EQUALS, Left: left, Right: right}
	b.SetPos(loc)
	return b, nil
}

func isAssignable(e ast.Expr) bool {
	switch e.(type) {
	case *ast.Literal, *ast.Get, *ast.Call:
		return true
	default:
		return false
	}
}

func (p *Parser) rangeExpr() (ast.Expr, error) { return p.binaryLeft(p.or, token.RANGE, token.RANGE_EQ) }
func (p *Parser) or() (ast.Expr, error)        { return p.binaryLeft(p.and, token.OROR) }
func (p *Parser) and() (ast.Expr, error)       { return p.binaryLeft(p.bitOr, token.ANDAND) }
func (p *Parser) bitOr() (ast.Expr, error)     { return p.binaryLeft(p.xor, token.PIPE) }
func (p *Parser) xor() (ast.Expr, error)       { return p.binaryLeft(p.bitAnd, token.CARET) }
func (p *Parser) bitAnd() (ast.Expr, error)    { return p.binaryLeft(p.equate, token.AMP) }
func (p *Parser) equate() (ast.Expr, error)    { return p.binaryLeft(p.notLevel, token.EQEQ, token.NE) }

// notLevel is level 8: prefix `!`, wrapping a relation operand.
func (p *Parser) notLevel() (ast.Expr, error) {
	if p.cur.Kind == token.BANG {
		loc := p.cur.Location
		p.advance()
		inner, err := p.relation()
		if err != nil {
			return nil, err
		}
		pr := &ast.Prefix{Op: token.BANG, Inner: inner}
		pr.SetPos(loc)
		return pr, nil
	}
	return p.relation()
}

func (p *Parser) relation() (ast.Expr, error) {
	return p.binaryLeft(p.shift, token.LT, token.GT, token.LE, token.GE)
}
func (p *Parser) shift() (ast.Expr, error) { return p.binaryLeft(p.add, token.SHL, token.SHR) }
func (p *Parser) add() (ast.Expr, error)   { return p.binaryLeft(p.mult, token.PLUS, token.MINUS) }
func (p *Parser) mult() (ast.Expr, error) {
	return p.binaryLeft(p.negate, token.STAR, token.SLASH, token.PERCENT)
}

// negate is level 3: prefix `-`.
func (p *Parser) negate() (ast.Expr, error) {
	if p.cur.Kind == token.MINUS {
		loc := p.cur.Location
		p.advance()
		inner, err := p.negate()
		if err != nil {
			return nil, err
		}
		pr := &ast.Prefix{Op: token.MINUS, Inner: inner}
		pr.SetPos(loc)
		return pr, nil
	}
	return p.access()
}

// access is level 2: `.name` and call/index `(args)`. The `convert(...)`
// special form is parsed by primary.
func (p *Parser) access() (ast.Expr, error) {
	e, err := p.primary()
	if err != nil {
		return nil, err
	}
	for {
		switch p.cur.Kind {
		case token.DOT:
			loc := p.cur.Location
			p.advance()
			nameTok, err := p.expect(token.IDENT)
			if err != nil {
				return nil, err
			}
			g := &ast.Get{Expr: e, Name: symbol.Intern(nameTok.Text)}
			g.SetPos(loc)
			e = g
		case token.LPAREN:
			loc := p.cur.Location
			p.advance()
			var params []ast.Expr
			for p.cur.Kind != token.RPAREN {
				arg, err := p.Expr()
				if err != nil {
					return nil, err
				}
				params = append(params, arg)
				if p.cur.Kind != token.RPAREN {
					if _, err := p.expect(token.COMMA); err != nil {
						return nil, err
					}
				}
			}
			p.advance() // RPAREN
			c := &ast.Call{Expr: e, Params: params}
			c.SetPos(loc)
			e = c
		default:
			return e, nil
		}
	}
}

// primary covers literals, parenthesized expressions, identifiers
// (including `convert`), and the block/if/while/for/match/function forms
// that bypass the rest of the precedence chain.
func (p *Parser) primary() (ast.Expr, error) {
	tok := p.cur
	loc := tok.Location
	switch tok.Kind {
	case token.INT:
		p.advance()
		n := &ast.Int{Value: int32(parseIntLiteral(tok.Text))}
		n.SetPos(loc)
		return n, nil
	case token.FLOAT:
		p.advance()
		f := &ast.Float{Value: parseFloatLiteral(tok.Text)}
		f.SetPos(loc)
		return f, nil
	case token.CHAR:
		p.advance()
		c := &ast.Char{Value: byte(tok.Text[0])}
		c.SetPos(loc)
		return c, nil
	case token.STRING:
		p.advance()
		s := &ast.String{Value: []byte(tok.Text)}
		s.SetPos(loc)
		return s, nil
	case token.TRUE, token.FALSE:
		p.advance()
		b := &ast.Bool{Value: tok.Kind == token.TRUE}
		b.SetPos(loc)
		return b, nil
	case token.VOID:
		p.advance()
		v := &ast.Void{}
		v.SetPos(loc)
		return v, nil
	case token.SELF:
		if p.inImplClass == contextNormal {
			return nil, diag.New(diag.ScopeError, loc, "self only legal inside an impl or class body")
		}
		p.advance()
		l := &ast.Literal{Name: symbol.Self}
		l.SetPos(loc)
		return l, nil
	case token.LPAREN:
		p.advance()
		e, err := p.Expr()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.RPAREN); err != nil {
			return nil, err
		}
		return e, nil
	case token.LBRACE:
		return p.block()
	case token.IF:
		return p.ifExpr()
	case token.WHILE:
		return p.whileExpr()
	case token.FOR:
		return p.forExpr()
	case token.MATCH:
		return p.matchExpr()
	case token.FN:
		return p.functionLit()
	case token.IDENT:
		if tok.Text == "convert" && p.peek.Kind == token.LPAREN {
			return p.convertCall()
		}
		p.advance()
		l := &ast.Literal{Name: symbol.Intern(tok.Text)}
		l.SetPos(loc)
		return l, nil
	default:
		return nil, diag.New(diag.SyntaxError, loc, "unexpected token %s in expression", tok.Kind)
	}
}

// convertCall parses `convert(TypeText, expr)`: the first argument is
// re-parsed as a type, producing an explicit TypeConv node.
func (p *Parser) convertCall() (ast.Expr, error) {
	loc := p.cur.Location
	p.advance() // "convert" ident
	if _, err := p.expect(token.LPAREN); err != nil {
		return nil, err
	}
	to, err := p.Type()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.COMMA); err != nil {
		return nil, err
	}
	inner, err := p.Expr()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.RPAREN); err != nil {
		return nil, err
	}
	tc := &ast.TypeConv{Implicit: false, To: to, Inner: inner}
	tc.SetPos(loc)
	return tc, nil
}

func (p *Parser) block() (*ast.Block, error) {
	loc := p.cur.Location
	p.advance() // LBRACE
	savedScope := p.scope
	savedInBlock := p.inBlock
	p.scope = p.scope.GenerateInnerEnvironment()
	p.inBlock = true
	defer func() { p.scope = savedScope; p.inBlock = savedInBlock }()

	b := &ast.Block{Env: p.scope}
	b.SetPos(loc)
	for p.cur.Kind != token.RBRACE {
		s, err := p.stmt()
		if err != nil {
			return nil, err
		}
		switch s.(type) {
		case *ast.Return:
			b.HasReturn = true
		case *ast.Yield:
			b.HasYield = true
		}
		b.Stmts = append(b.Stmts, s)
	}
	p.advance() // RBRACE
	return b, nil
}

func (p *Parser) ifExpr() (ast.Expr, error) {
	loc := p.cur.Location
	p.advance() // IF
	cond, err := p.Expr()
	if err != nil {
		return nil, err
	}
	then, err := p.Expr()
	if err != nil {
		return nil, err
	}
	ifNode := &ast.If{Cond: cond, Then: then}
	ifNode.SetPos(loc)
	if _, ok := p.accept(token.ELSE); ok {
		elseExpr, err := p.Expr()
		if err != nil {
			return nil, err
		}
		ifNode.Else = elseExpr
	}
	return ifNode, nil
}

func (p *Parser) whileExpr() (ast.Expr, error) {
	loc := p.cur.Location
	p.advance() // WHILE
	savedLoop := p.inLoop
	p.inLoop = true
	defer func() { p.inLoop = savedLoop }()
	cond, err := p.Expr()
	if err != nil {
		return nil, err
	}
	body, err := p.Expr()
	if err != nil {
		return nil, err
	}
	w := &ast.While{Cond: cond, Body: body}
	w.SetPos(loc)
	return w, nil
}

// forExpr desugars `IDEN in expr BODY` into a Declaration(name, initializer
// = expr) inside a fresh environment that becomes the For node's env.
func (p *Parser) forExpr() (ast.Expr, error) {
	loc := p.cur.Location
	p.advance() // FOR
	savedScope := p.scope
	savedLoop := p.inLoop
	p.scope = p.scope.GenerateInnerEnvironment()
	p.inLoop = true
	defer func() { p.scope = savedScope; p.inLoop = savedLoop }()

	nameTok, err := p.expect(token.IDENT)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.IN); err != nil {
		return nil, err
	}
	init, err := p.Expr()
	if err != nil {
		return nil, err
	}
	name := symbol.Intern(nameTok.Text)
	decl := &ast.Declaration{Name: name, Value: init}
	decl.SetPos(nameTok.Location)
	p.scope.AddMember(name, decl)
	forEnv := p.scope

	body, err := p.Expr()
	if err != nil {
		return nil, err
	}
	f := &ast.For{Env: forEnv, Body: body}
	f.SetPos(loc)
	return f, nil
}

func (p *Parser) matchExpr() (ast.Expr, error) {
	loc := p.cur.Location
	p.advance() // MATCH
	cond, err := p.Expr()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.LBRACE); err != nil {
		return nil, err
	}
	var cases []*ast.Case
	for p.cur.Kind != token.RBRACE {
		c, err := p.caseArm()
		if err != nil {
			return nil, err
		}
		cases = append(cases, c)
	}
	p.advance() // RBRACE
	m := &ast.Match{Cond: cond, Cases: cases}
	m.SetPos(loc)
	return m, nil
}

func (p *Parser) caseArm() (*ast.Case, error) {
	loc := p.cur.Location
	if _, err := p.expect(token.CASE); err != nil {
		return nil, err
	}
	var cond ast.CaseCond
	switch {
	case p.cur.Kind == token.IDENT && p.peek.Kind == token.ARROW:
		nameTok := p.cur
		p.advance()
		cond = ast.NameCond{Name: symbol.Intern(nameTok.Text)}
	case isTypeStart(p.cur.Kind) && p.peek.Kind == token.ARROW:
		t, err := p.Type()
		if err != nil {
			return nil, err
		}
		cond = ast.TypeSelectorCond{Type: t}
	default:
		e, err := p.Expr()
		if err != nil {
			return nil, err
		}
		cond = ast.ExprCond{Expr: e}
	}
	if _, err := p.expect(token.ARROW); err != nil {
		return nil, err
	}
	body, err := p.Expr()
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(token.SEMI); err != nil {
		return nil, err
	}
	c := &ast.Case{Cond: cond, Body: body}
	c.SetPos(loc)
	return c, nil
}

func isTypeStart(k token.Kind) bool {
	switch k {
	case token.FN, token.LIST, token.LPAREN, token.OPTIONAL, token.SELF:
		return true
	default:
		return false
	}
}

func (p *Parser) functionLit() (*ast.Function, error) {
	loc := p.cur.Location
	p.advance() // FN
	var name *symbol.ID
	if p.cur.Kind == token.IDENT {
		n := symbol.Intern(p.cur.Text)
		name = &n
		p.advance()
	}
	savedScope := p.scope
	params := p.scope.GenerateInnerEnvironment()
	p.scope = params
	defer func() { p.scope = savedScope }()

	if _, err := p.expect(token.LPAREN); err != nil {
		return nil, err
	}
	arity := 0
	for p.cur.Kind != token.RPAREN {
		pnameTok, err := p.expect(token.IDENT)
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.COLON); err != nil {
			return nil, err
		}
		pt, err := p.Type()
		if err != nil {
			return nil, err
		}
		pname := symbol.Intern(pnameTok.Text)
		pd := &ast.Declaration{Name: pname, DeclaredType: pt}
		pd.SetPos(pnameTok.Location)
		if params.RedeclarationState(pname) == env.Redeclaration {
			return nil, diag.New(diag.ScopeError, pnameTok.Location, "duplicate parameter %q", pnameTok.Text)
		}
		params.AddMember(pname, pd)
		arity++
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
	rt, err := p.Type()
	if err != nil {
		return nil, err
	}
	body, err := p.Expr()
	if err != nil {
		return nil, err
	}
	f := &ast.Function{Arity: arity, Name: name, Parameters: params, ReturnType: rt, Body: body}
	f.SetPos(loc)
	return f, nil
}

func parseFloatLiteral(text string) float64 {
	neg := false
	i := 0
	if i < len(text) && text[i] == '-' {
		neg = true
		i++
	}
	whole := 0.0
	for ; i < len(text) && text[i] != '.'; i++ {
		whole = whole*10 + float64(text[i]-'0')
	}
	frac := 0.0
	div := 1.0
	if i < len(text) && text[i] == '.' {
		i++
		for ; i < len(text); i++ {
			frac = frac*10 + float64(text[i]-'0')
			div *= 10
		}
	}
	result := whole + frac/div
	if neg {
		result = -result
	}
	return result
}
