// Package token defines the lexical vocabulary shared by the Core scanner, the
// instruction-driven parser and the interpreter's Read statement.
package token

import "fmt"

// Kind classifies a lexical token.
type Kind int

const (
	Illegal Kind = iota
	EOS
	ID
	Const
	String

	keywordBegin
	And
	Begin
	Case
	Do
	Else
	End
	For
	If
	In
	Integer
	Is
	New
	Not
	Object
	Or
	Print
	Procedure
	Read
	Return
	Then
	keywordEnd

	symbolBegin
	LParen
	RParen
	LSquare
	RSquare
	LCurl
	RCurl
	Period
	Colon
	Semicolon
	Comma
	Less
	Divide
	Add
	Multiply
	Subtract
	Assign
	Equal
	symbolEnd
)

// Literal bounds for Const tokens.
const (
	MinConst = 0
	MaxConst = 8191
)

var kindNames = map[Kind]string{
	Illegal:   "ILLEGAL",
	EOS:       "EOS",
	ID:        "ID",
	Const:     "CONST",
	String:    "STRING",
	And:       "AND",
	Begin:     "BEGIN",
	Case:      "CASE",
	Do:        "DO",
	Else:      "ELSE",
	End:       "END",
	For:       "FOR",
	If:        "IF",
	In:        "IN",
	Integer:   "INTEGER",
	Is:        "IS",
	New:       "NEW",
	Not:       "NOT",
	Object:    "OBJECT",
	Or:        "OR",
	Print:     "PRINT",
	Procedure: "PROCEDURE",
	Read:      "READ",
	Return:    "RETURN",
	Then:      "THEN",
	LParen:    "LPAREN",
	RParen:    "RPAREN",
	LSquare:   "LSQUARE",
	RSquare:   "RSQUARE",
	LCurl:     "LCURL",
	RCurl:     "RCURL",
	Period:    "PERIOD",
	Colon:     "COLON",
	Semicolon: "SEMICOLON",
	Comma:     "COMMA",
	Less:      "LESS",
	Divide:    "DIVIDE",
	Add:       "ADD",
	Multiply:  "MULTIPLY",
	Subtract:  "SUBTRACT",
	Assign:    "ASSIGN",
	Equal:     "EQUAL",
}

var keywords = map[string]Kind{
	"and":       And,
	"begin":     Begin,
	"case":      Case,
	"do":        Do,
	"else":      Else,
	"end":       End,
	"for":       For,
	"if":        If,
	"in":        In,
	"integer":   Integer,
	"is":        Is,
	"new":       New,
	"not":       Not,
	"object":    Object,
	"or":        Or,
	"print":     Print,
	"procedure": Procedure,
	"read":      Read,
	"return":    Return,
	"then":      Then,
}

var symbols = map[rune]Kind{
	'(': LParen,
	')': RParen,
	'[': LSquare,
	']': RSquare,
	'{': LCurl,
	'}': RCurl,
	'.': Period,
	':': Colon,
	';': Semicolon,
	',': Comma,
	'<': Less,
	'/': Divide,
	'+': Add,
	'*': Multiply,
	'-': Subtract,
	'=': Assign,
}

var (
	symbolText  = map[Kind]string{Equal: "=="}
	keywordText = map[Kind]string{}
)

func init() {
	for r, kind := range symbols {
		symbolText[kind] = string(r)
	}
	for word, kind := range keywords {
		keywordText[kind] = word
	}
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// IsKeyword reports whether k is a reserved word.
func (k Kind) IsKeyword() bool { return k > keywordBegin && k < keywordEnd }

// IsSymbol reports whether k is punctuation or an operator.
func (k Kind) IsSymbol() bool { return k > symbolBegin && k < symbolEnd }

// Keyword returns the token kind for a reserved word.
func Keyword(word string) (Kind, bool) {
	kind, ok := keywords[word]
	return kind, ok
}

// Symbol returns the token kind for a single-character symbol. '=' maps to
// Assign; the scanner upgrades it to Equal on a second '='.
func Symbol(r rune) (Kind, bool) {
	kind, ok := symbols[r]
	return kind, ok
}

// Position is a 1-based source location.
type Position struct {
	Line   int
	Column int
}

func (p Position) String() string {
	if p.Line == 0 {
		return ""
	}
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// IsZero reports whether no location was recorded.
func (p Position) IsZero() bool { return p.Line == 0 && p.Column == 0 }

// Token is one classified lexeme. Text holds the identifier name, the decimal
// digits of a Const, or the unquoted contents of a String.
type Token struct {
	Kind Kind
	Text string
	Pos  Position
}

// Literal renders the token as it appears in a parse tree terminal: keywords
// lower-cased, strings re-quoted, everything else verbatim.
func (t Token) Literal() string {
	switch {
	case t.Kind == ID || t.Kind == Const:
		return t.Text
	case t.Kind == String:
		return "'" + t.Text + "'"
	case t.Kind.IsSymbol():
		return symbolText[t.Kind]
	case t.Kind.IsKeyword():
		return keywordText[t.Kind]
	}
	return ""
}

func (t Token) String() string {
	if t.Text == "" {
		return t.Kind.String()
	}
	return fmt.Sprintf("%s(%s)", t.Kind, t.Text)
}

// Source is a stream of tokens with one token of lookahead. Current returns
// the EOS token once the stream is exhausted; advancing past EOS is an error.
type Source interface {
	Current() Token
	Next() error
}
