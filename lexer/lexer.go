// Package lexer is the concrete token-stream producer that satisfies the
// token.Lexer contract the parser depends on. It is kept deliberately small:
// per the system's scope, the lexer is an external collaborator of the
// semantic pipeline, referenced only through its interface.
package lexer

import (
	"strings"
	"text/scanner"
	"unicode"

	"github.com/ember-lang/emberc/source"
	"github.com/ember-lang/emberc/token"
)

// Lexer scans UTF-8 source text into tokens using text/scanner as the
// character classifier, the same technique the reference query-language
// front end uses, adapted to a fixed operator table and the language's
// keyword set.
type Lexer struct {
	sc      scanner.Scanner
	ops     map[string]token.Kind
	opPfx   map[string]int
	eof     bool
}

var opTable = []struct {
	text string
	kind token.Kind
}{
	{"..=", token.RANGE_EQ},
	{"..", token.RANGE},
	{"->", token.ARROW},
	{"<<", token.SHL},
	{">>", token.SHR},
	{"<=", token.LE},
	{">=", token.GE},
	{"==", token.EQEQ},
	{"!=", token.NE},
	{"&&", token.ANDAND},
	{"||", token.OROR},
	{"+", token.PLUS}, {"-", token.MINUS}, {"*", token.STAR}, {"/", token.SLASH},
	{"%", token.PERCENT}, {"<", token.LT}, {">", token.GT}, {"!", token.BANG},
	{"&", token.AMP}, {"^", token.CARET}, {"|", token.PIPE}, {"=", token.EQUALS},
	{".", token.DOT},
	{"(", token.LPAREN}, {")", token.RPAREN},
	{"[", token.LBRACKET}, {"]", token.RBRACKET},
	{"{", token.LBRACE}, {"}", token.RBRACE},
	{",", token.COMMA}, {";", token.SEMI}, {":", token.COLON},
}

// New creates a Lexer reading from text, with filename used for diagnostics.
func New(filename, text string) *Lexer {
	lex := &Lexer{ops: map[string]token.Kind{}, opPfx: map[string]int{}}
	lex.sc.Init(strings.NewReader(text))
	lex.sc.Mode = scanner.ScanIdents | scanner.ScanInts | scanner.ScanFloats |
		scanner.ScanChars | scanner.ScanStrings | scanner.ScanComments | scanner.SkipComments
	lex.sc.Filename = filename
	lex.sc.IsIdentRune = func(ch rune, i int) bool {
		return ch == '_' || unicode.IsLetter(ch) || (unicode.IsDigit(ch) && i > 0)
	}
	for _, op := range opTable {
		lex.ops[op.text] = op.kind
		for i := 1; i <= len(op.text); i++ {
			lex.opPfx[op.text[:i]]++
		}
	}
	return lex
}

func (l *Lexer) loc() source.Location {
	p := l.sc.Pos()
	return source.Location{Line: p.Line, Character: p.Column}
}

// Next implements token.Lexer.
func (l *Lexer) Next() token.Token {
	if l.eof {
		return token.Token{Kind: token.EOF, Location: l.loc()}
	}
	tok := l.sc.Scan()
	loc := source.Location{Line: l.sc.Position.Line, Character: l.sc.Position.Column}
	switch tok {
	case scanner.EOF:
		l.eof = true
		return token.Token{Kind: token.EOF, Location: loc}
	case scanner.Ident:
		text := l.sc.TokenText()
		if kw, ok := token.Keywords[text]; ok {
			return token.Token{Kind: kw, Text: text, Location: loc}
		}
		return token.Token{Kind: token.IDENT, Text: text, Location: loc}
	case scanner.Int:
		return token.Token{Kind: token.INT, Text: l.sc.TokenText(), Location: loc}
	case scanner.Float:
		return token.Token{Kind: token.FLOAT, Text: l.sc.TokenText(), Location: loc}
	case scanner.Char:
		text := l.sc.TokenText()
		return token.Token{Kind: token.CHAR, Text: unquote(text), Location: loc}
	case scanner.String:
		text := l.sc.TokenText()
		return token.Token{Kind: token.STRING, Text: unquote(text), Location: loc}
	default:
		return l.scanOperator(tok, loc)
	}
}

// scanOperator greedily matches the longest operator starting with ch, using
// the prefix-count table so e.g. "..=" is preferred over "..".
func (l *Lexer) scanOperator(ch rune, loc source.Location) token.Token {
	buf := string(ch)
	for {
		next := buf + string(l.sc.Peek())
		if l.opPfx[next] == 0 {
			break
		}
		buf = next
		l.sc.Next()
	}
	for len(buf) > 0 {
		if kind, ok := l.ops[buf]; ok {
			return token.Token{Kind: kind, Text: buf, Location: loc}
		}
		buf = buf[:len(buf)-1]
	}
	return token.Token{Kind: token.ILLEGAL, Text: string(ch), Location: loc}
}

// unquote strips the surrounding quote characters text/scanner leaves in
// place. Escape sequences are not decoded: Token.Text holds the raw text
// between the quotes.
func unquote(s string) string {
	if len(s) >= 2 {
		return s[1 : len(s)-1]
	}
	return s
}
