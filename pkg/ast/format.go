package ast

import (
	"bufio"
	"io"
	"strings"

	"github.com/mayaaleahanne/CORE-Programming-Language/pkg/token"
)

// Format writes root as canonical Core source: one declaration or statement
// per line, nested blocks indented by a tab.
func Format(w io.Writer, root *Node) error {
	bw := bufio.NewWriter(w)
	f := &formatter{w: bw}
	f.node(root, 0)
	if f.err != nil {
		return f.err
	}
	return bw.Flush()
}

// FormatString is Format into a string.
func FormatString(root *Node) string {
	var b strings.Builder
	_ = Format(&b, root)
	return b.String()
}

type formatter struct {
	w   *bufio.Writer
	err error
}

func (f *formatter) line(indent int, words []string) {
	if f.err != nil || len(words) == 0 {
		return
	}
	_, f.err = f.w.WriteString(strings.Repeat("\t", indent) + JoinTerminals(words) + "\n")
}

func (f *formatter) node(n *Node, indent int) {
	switch n.kind {
	case Procedure, Function, If, Loop:
		f.block(n, indent)
	case DeclSeq, StmtSeq, Decl, Stmt:
		for _, child := range n.NonTerminals() {
			f.node(child, indent)
		}
	case Terminal:
		f.line(indent, flatten(n, nil))
	default:
		f.line(indent, flatten(n, nil))
	}
}

// block prints a construct whose nested sequences sit on their own indented
// lines. begin, else and end of the construct get lines of their own.
func (f *formatter) block(n *Node, indent int) {
	var header []string
	for _, child := range n.children {
		switch {
		case child.kind == DeclSeq || child.kind == StmtSeq:
			f.line(indent, header)
			header = nil
			f.node(child, indent+1)
		case child.kind == Terminal && (child.text == "end" || child.text == "else" || (child.text == "begin" && n.kind == Procedure)):
			f.line(indent, header)
			header = nil
			f.line(indent, []string{child.text})
		default:
			header = flatten(child, header)
		}
	}
	f.line(indent, header)
}

func flatten(n *Node, out []string) []string {
	if n.kind == Terminal {
		if n.text == "" {
			return out
		}
		return append(out, n.text)
	}
	for _, child := range n.children {
		out = flatten(child, out)
	}
	return out
}

// JoinTerminals lays out a run of terminal literals on one line.
func JoinTerminals(words []string) string {
	var b strings.Builder
	for i, word := range words {
		if i > 0 && spaceBefore(words[i-1], word) {
			b.WriteByte(' ')
		}
		b.WriteString(word)
	}
	return b.String()
}

func spaceBefore(prev, word string) bool {
	switch word {
	case ";", ",", ")", "]":
		return false
	case "(":
		return !isIdentifier(prev) && prev != "object" && prev != "print" && prev != "read"
	case "[":
		return !isIdentifier(prev)
	}
	return prev != "(" && prev != "["
}

func isIdentifier(word string) bool {
	if _, kw := token.Keyword(word); word == "" || kw {
		return false
	}
	c := word[0]
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}
