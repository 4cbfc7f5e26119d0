package ast

import (
	"fmt"
	"strconv"
	"strings"
)

// Print renders an expression as source text for the parser to read back.
// It ignores Type annotations computed by the elaborator, which the parser
// and elaborator recompute. Not every tree reparses to an identical one:
// function parameter and return types and the target type of a convert are
// not printed, a type-selector case condition prints as `<type>`, a
// negative numeric literal reparses as a prefix negation, and char and
// string literals containing a quote or backslash do not reparse to the
// same value.
func Print(e Expr) string {
	var b strings.Builder
	printExpr(&b, e)
	return b.String()
}

// PrintStmt renders a statement as source text, terminated with `;` the way
// the grammar requires at top level and inside blocks. Declared types are not
// printed, and a TypeDef prints as `type Name;` without its aliased type.
func PrintStmt(s Stmt) string {
	var b strings.Builder
	printStmt(&b, s)
	return b.String()
}

func printExpr(b *strings.Builder, e Expr) {
	switch n := e.(type) {
	case *Binary:
		b.WriteByte('(')
		printExpr(b, n.Left)
		fmt.Fprintf(b, " %s ", n.Op)
		printExpr(b, n.Right)
		b.WriteByte(')')
	case *Prefix:
		fmt.Fprintf(b, "%s", n.Op)
		printExpr(b, n.Inner)
	case *Int:
		fmt.Fprintf(b, "%d", n.Value)
	case *Float:
		s := strconv.FormatFloat(n.Value, 'f', -1, 64)
		if !strings.Contains(s, ".") {
			s += ".0"
		}
		b.WriteString(s)
	case *Bool:
		fmt.Fprintf(b, "%t", n.Value)
	case *Char:
		fmt.Fprintf(b, "'%c'", n.Value)
	case *String:
		fmt.Fprintf(b, "%q", string(n.Value))
	case *Literal:
		b.WriteString(n.Name.Str())
	case *Function:
		b.WriteString("fn(")
		for i := 0; i < n.Parameters.Len(); i++ {
			if i > 0 {
				b.WriteString(", ")
			}
			m, _ := n.Parameters.GetInOrder(i)
			if d, ok := m.(*Declaration); ok {
				b.WriteString(d.Name.Str())
			}
		}
		b.WriteString(") ")
		printExpr(b, n.Body)
	case *TypeConv:
		b.WriteString("convert(")
		printExpr(b, n.Inner)
		b.WriteByte(')')
	case *Match:
		b.WriteString("match ")
		printExpr(b, n.Cond)
		b.WriteString(" { ")
		for _, c := range n.Cases {
			printExpr(b, c)
			b.WriteString("; ")
		}
		b.WriteByte('}')
	case *Case:
		b.WriteString("case ")
		switch cond := n.Cond.(type) {
		case ExprCond:
			printExpr(b, cond.Expr)
		case NameCond:
			b.WriteString(cond.Name.Str())
		case TypeSelectorCond:
			b.WriteString("<type>")
		}
		b.WriteString(" -> ")
		printExpr(b, n.Body)
	case *If:
		b.WriteString("if ")
		printExpr(b, n.Cond)
		b.WriteByte(' ')
		printExpr(b, n.Then)
		if n.Else != nil {
			b.WriteString(" else ")
			printExpr(b, n.Else)
		}
	case *Block:
		b.WriteString("{ ")
		for _, s := range n.Stmts {
			printStmt(b, s)
			b.WriteByte(' ')
		}
		b.WriteByte('}')
	case *For:
		b.WriteString("for ")
		if n.Env.Len() > 0 {
			m, _ := n.Env.GetInOrder(0)
			if d, ok := m.(*Declaration); ok && d.Value != nil {
				fmt.Fprintf(b, "%s in ", d.Name.Str())
				printExpr(b, d.Value)
			}
		}
		b.WriteByte(' ')
		printExpr(b, n.Body)
	case *While:
		b.WriteString("while ")
		printExpr(b, n.Cond)
		b.WriteByte(' ')
		printExpr(b, n.Body)
	case *Get:
		printExpr(b, n.Expr)
		b.WriteByte('.')
		b.WriteString(n.Name.Str())
	case *Call:
		printExpr(b, n.Expr)
		b.WriteByte('(')
		for i, p := range n.Params {
			if i > 0 {
				b.WriteString(", ")
			}
			printExpr(b, p)
		}
		b.WriteByte(')')
	case *Void:
		b.WriteString("void")
	default:
		b.WriteString("<?>")
	}
}

func printStmt(b *strings.Builder, s Stmt) {
	switch n := s.(type) {
	case *Declaration:
		if n.Const {
			b.WriteString("const ")
		} else {
			b.WriteString("let ")
		}
		b.WriteString(n.Name.Str())
		if n.Value != nil {
			b.WriteString(" = ")
			printExpr(b, n.Value)
		}
		b.WriteByte(';')
	case *Return:
		b.WriteString("return")
		if n.Value != nil {
			b.WriteByte(' ')
			printExpr(b, n.Value)
		}
		b.WriteByte(';')
	case *Yield:
		b.WriteString("yield ")
		printExpr(b, n.Value)
		b.WriteByte(';')
	case *ExprStmt:
		printExpr(b, n.Value)
		b.WriteByte(';')
	case *Class:
		fmt.Fprintf(b, "class %s { ", n.Name.Str())
		for _, p := range n.Parameters {
			printStmt(b, p)
			b.WriteByte(' ')
		}
		b.WriteString("};")
	case *Impl:
		b.WriteString("impl ")
		b.WriteString(n.Name.Str())
		if n.Decorating != nil {
			b.WriteString(" for ")
			b.WriteString((*n.Decorating).Str())
		}
		b.WriteString(" { ")
		for _, p := range n.Parameters {
			printStmt(b, p)
			b.WriteByte(' ')
		}
		b.WriteString("};")
	case *TypeDef:
		fmt.Fprintf(b, "type %s;", n.Name.Str())
	case *Continue:
		b.WriteString("continue;")
	default:
		b.WriteString("<?>;")
	}
}
