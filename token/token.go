// Package token defines the closed set of lexical token kinds the parser
// consumes, and the Token/Lexer contract an external lexer must satisfy
// (see PURPOSE & SCOPE: the lexer itself is an external collaborator).
package token

import "github.com/ember-lang/emberc/source"

// Kind identifies the lexical class of a Token.
type Kind int

const (
	ILLEGAL Kind = iota
	EOF

	// Literals.
	INT
	FLOAT
	CHAR
	STRING
	IDENT

	// Keywords.
	LET
	CONST
	FN
	CLASS
	IMPL
	TYPE
	CASE
	MATCH
	IF
	ELSE
	FOR
	WHILE
	IN
	RETURN
	YIELD
	CONTINUE
	SELF
	TRUE
	FALSE
	VOID
	OPTIONAL
	LIST

	// Operators.
	PLUS
	MINUS
	STAR
	SLASH
	PERCENT
	SHL
	SHR
	LT
	GT
	LE
	GE
	BANG
	EQEQ
	NE
	AMP
	CARET
	PIPE
	ANDAND
	OROR
	RANGE
	RANGE_EQ
	EQUALS
	ARROW
	DOT

	// Punctuation.
	LPAREN
	RPAREN
	LBRACKET
	RBRACKET
	LBRACE
	RBRACE
	COMMA
	SEMI
	COLON
)

var names = map[Kind]string{
	ILLEGAL: "illegal", EOF: "eof",
	INT: "int", FLOAT: "float", CHAR: "char", STRING: "string", IDENT: "ident",
	LET: "let", CONST: "const", FN: "fn", CLASS: "class", IMPL: "impl",
	TYPE: "type", CASE: "case", MATCH: "match", IF: "if", ELSE: "else",
	FOR: "for", WHILE: "while", IN: "in", RETURN: "return", YIELD: "yield",
	CONTINUE: "continue", SELF: "self", TRUE: "true", FALSE: "false",
	VOID: "void", OPTIONAL: "optional", LIST: "list",
	PLUS: "+", MINUS: "-", STAR: "*", SLASH: "/", PERCENT: "%",
	SHL: "<<", SHR: ">>", LT: "<", GT: ">", LE: "<=", GE: ">=",
	BANG: "!", EQEQ: "==", NE: "!=", AMP: "&", CARET: "^", PIPE: "|",
	ANDAND: "&&", OROR: "||", RANGE: "..", RANGE_EQ: "..=", EQUALS: "=",
	ARROW: "->", DOT: ".",
	LPAREN: "(", RPAREN: ")", LBRACKET: "[", RBRACKET: "]",
	LBRACE: "{", RBRACE: "}", COMMA: ",", SEMI: ";", COLON: ":",
}

// String renders a Kind for diagnostics.
func (k Kind) String() string {
	if s, ok := names[k]; ok {
		return s
	}
	return "unknown"
}

// Keywords maps the closed keyword set to their token kind.
var Keywords = map[string]Kind{
	"let": LET, "const": CONST, "fn": FN, "class": CLASS, "impl": IMPL,
	"type": TYPE, "case": CASE, "match": MATCH, "if": IF, "else": ELSE,
	"for": FOR, "while": WHILE, "in": IN, "return": RETURN, "yield": YIELD,
	"continue": CONTINUE, "self": SELF, "true": TRUE, "false": FALSE,
	"void": VOID, "optional": OPTIONAL, "list": LIST,
}

// Token is one lexical unit: a kind, its source text, and where it began.
type Token struct {
	Kind     Kind
	Text     string
	Location source.Location
}

// Lexer is the contract the parser depends on. An external lexer produces a
// stream of Tokens; the parser only ever pulls one token at a time via Next.
type Lexer interface {
	// Next returns the next token in the stream. The lexer must return an EOF
	// token forever once the input is exhausted, rather than an error.
	Next() Token
}
