// Package ast holds the Core parse tree: tagged non-terminal nodes with ordered
// children, immutable terminals and parent links.
package ast

import (
	"fmt"
	"strings"

	"github.com/mayaaleahanne/CORE-Programming-Language/pkg/token"
)

// Kind tags a parse node. Terminal is the only kind without children.
type Kind int

const (
	Terminal Kind = iota
	Procedure
	DeclSeq
	StmtSeq
	Decl
	DeclInteger
	DeclObj
	Function
	Parameters
	Stmt
	Call
	Assign
	Print
	Read
	If
	Loop
	Cond
	Cmpr
	Expr
	Term
	Factor
)

var kindNames = [...]string{
	Terminal:    "terminal",
	Procedure:   "procedure",
	DeclSeq:     "declseq",
	StmtSeq:     "stmtseq",
	Decl:        "decl",
	DeclInteger: "declinteger",
	DeclObj:     "declobj",
	Function:    "function",
	Parameters:  "parameters",
	Stmt:        "stmt",
	Call:        "call",
	Assign:      "assign",
	Print:       "print",
	Read:        "read",
	If:          "if",
	Loop:        "loop",
	Cond:        "cond",
	Cmpr:        "cmpr",
	Expr:        "expr",
	Term:        "term",
	Factor:      "factor",
}

func (k Kind) String() string {
	if k >= 0 && int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Node is a parse tree node. Non-terminals own an ordered list of children
// mixing terminals and non-terminals; terminals carry literal text.
type Node struct {
	kind     Kind
	text     string
	pos      token.Position
	parent   *Node
	children []*Node
}

// NewNonTerminal returns an empty non-terminal of the given kind.
func NewNonTerminal(kind Kind) *Node {
	if kind == Terminal {
		panic("ast: NewNonTerminal called with Terminal kind")
	}
	return &Node{kind: kind}
}

// NewTerminal returns a leaf holding literal text.
func NewTerminal(text string, pos token.Position) *Node {
	return &Node{kind: Terminal, text: text, pos: pos}
}

// AddChild appends child and links it to n. A node's parent is fixed once set.
func (n *Node) AddChild(child *Node) {
	if n.kind == Terminal {
		panic("ast: terminals cannot own children")
	}
	if child.parent != nil {
		panic(fmt.Sprintf("ast: %s already has a parent", child.kind))
	}
	child.parent = n
	n.children = append(n.children, child)
}

func (n *Node) Kind() Kind { return n.kind }

// Text is the literal of a terminal and empty for non-terminals.
func (n *Node) Text() string { return n.text }

func (n *Node) Parent() *Node { return n.parent }

func (n *Node) IsTerminal() bool { return n.kind == Terminal }

// Children returns every child in order. The slice must not be modified.
func (n *Node) Children() []*Node { return n.children }

// NonTerminals returns the non-terminal children in order.
func (n *Node) NonTerminals() []*Node {
	var out []*Node
	for _, child := range n.children {
		if child.kind != Terminal {
			out = append(out, child)
		}
	}
	return out
}

// Terminals returns the literal text of the terminal children in order.
func (n *Node) Terminals() []string {
	var out []string
	for _, child := range n.children {
		if child.kind == Terminal {
			out = append(out, child.text)
		}
	}
	return out
}

// TerminalCount counts terminal children equal to text.
func (n *Node) TerminalCount(text string) int {
	count := 0
	for _, child := range n.children {
		if child.kind == Terminal && child.text == text {
			count++
		}
	}
	return count
}

// HasTerminal reports whether a terminal child equals text.
func (n *Node) HasTerminal(text string) bool { return n.TerminalCount(text) > 0 }

// Pos is the source position of a terminal, or of the first terminal
// descendant of a non-terminal.
func (n *Node) Pos() token.Position {
	if n.kind == Terminal {
		return n.pos
	}
	for _, child := range n.children {
		if pos := child.Pos(); !pos.IsZero() {
			return pos
		}
	}
	return token.Position{}
}

func (n *Node) String() string {
	if n.kind == Terminal {
		return n.text
	}
	return n.kind.String()
}

// Walk visits n and its descendants depth first, in child order. Returning
// false from visit skips the node's children.
func Walk(n *Node, visit func(*Node) bool) {
	if n == nil || !visit(n) {
		return
	}
	for _, child := range n.children {
		Walk(child, visit)
	}
}

// Equal compares two trees structurally, ignoring positions.
func Equal(a, b *Node) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.kind != b.kind || a.text != b.text || len(a.children) != len(b.children) {
		return false
	}
	for i := range a.children {
		if !Equal(a.children[i], b.children[i]) {
			return false
		}
	}
	return true
}

// Unquote strips the single quotes from a string terminal.
func Unquote(text string) string {
	if len(text) >= 2 && strings.HasPrefix(text, "'") && strings.HasSuffix(text, "'") {
		return text[1 : len(text)-1]
	}
	return text
}

// IsNumber reports whether text is a Const terminal.
func IsNumber(text string) bool {
	if text == "" {
		return false
	}
	for _, r := range text {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
