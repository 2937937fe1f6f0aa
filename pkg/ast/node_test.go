package ast

import (
	"strings"
	"testing"

	"gopkg.in/yaml.v3"

	"github.com/mayaaleahanne/CORE-Programming-Language/pkg/token"
)

func term(text string, line, col int) *Node {
	return NewTerminal(text, token.Position{Line: line, Column: col})
}

// build assembles `print(x);` by hand.
func buildPrint() *Node {
	printNode := NewNonTerminal(Print)
	printNode.AddChild(term("print", 1, 1))
	printNode.AddChild(term("(", 1, 6))
	expr := NewNonTerminal(Expr)
	termNode := NewNonTerminal(Term)
	factor := NewNonTerminal(Factor)
	factor.AddChild(term("x", 1, 7))
	termNode.AddChild(factor)
	expr.AddChild(termNode)
	printNode.AddChild(expr)
	printNode.AddChild(term(")", 1, 8))
	printNode.AddChild(term(";", 1, 9))
	return printNode
}

func TestNodeViews(t *testing.T) {
	n := buildPrint()
	if got := strings.Join(n.Terminals(), " "); got != "print ( ) ;" {
		t.Fatalf("Terminals = %q, want %q", got, "print ( ) ;")
	}
	nts := n.NonTerminals()
	if len(nts) != 1 || nts[0].Kind() != Expr {
		t.Fatalf("NonTerminals = %v, want [expr]", nts)
	}
	if nts[0].Parent() != n {
		t.Fatalf("expr parent = %v, want print node", nts[0].Parent())
	}
	if n.TerminalCount("(") != 1 || !n.HasTerminal(";") || n.HasTerminal("[") {
		t.Fatalf("terminal queries wrong for %v", n.Terminals())
	}
	if pos := nts[0].Pos(); pos != (token.Position{Line: 1, Column: 7}) {
		t.Fatalf("expr pos = %v, want 1:7", pos)
	}
	if n.Kind().String() != "print" {
		t.Fatalf("kind = %q", n.Kind().String())
	}
}

func TestAddChildRejectsReparent(t *testing.T) {
	a := NewNonTerminal(Expr)
	b := NewNonTerminal(Expr)
	child := NewNonTerminal(Term)
	a.AddChild(child)
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic re-parenting a node")
		}
		if child.Parent() != a {
			t.Fatalf("parent changed to %v", child.Parent())
		}
	}()
	b.AddChild(child)
}

func TestEqualIgnoresPositions(t *testing.T) {
	a := buildPrint()
	b := buildPrint()
	b.children[0].pos = token.Position{Line: 9, Column: 9}
	if !Equal(a, b) {
		t.Fatalf("trees differing only by position should be equal")
	}
	c := NewNonTerminal(Print)
	c.AddChild(term("print", 1, 1))
	if Equal(a, c) {
		t.Fatalf("trees with different children should differ")
	}
}

func TestWalkOrder(t *testing.T) {
	var seen []string
	Walk(buildPrint(), func(n *Node) bool {
		seen = append(seen, n.String())
		return n.Kind() != Term
	})
	want := "print print ( expr term ) ;"
	if got := strings.Join(seen, " "); got != want {
		t.Fatalf("walk = %q, want %q", got, want)
	}
}

func TestFormatStatement(t *testing.T) {
	if got := FormatString(buildPrint()); got != "print(x);\n" {
		t.Fatalf("FormatString = %q, want %q", got, "print(x);\n")
	}
}

func TestFormatSkipsEmptyTerminal(t *testing.T) {
	n := buildPrint()
	n.AddChild(term("", 2, 1))
	if got := FormatString(n); got != "print(x);\n" {
		t.Fatalf("FormatString = %q, want %q", got, "print(x);\n")
	}
}

func TestJoinTerminals(t *testing.T) {
	cases := []struct {
		words []string
		want  string
	}{
		{[]string{"o", "=", "new", "object", "(", "'a'", ",", "5", ")", ";"}, "o = new object('a', 5);"},
		{[]string{"o", "[", "'a'", "]", "=", "x", "*", "(", "y", "-", "1", ")", ";"}, "o['a'] = x * (y - 1);"},
		{[]string{"not", "[", "x", "<", "1", "or", "y", "==", "2", "]"}, "not [x < 1 or y == 2]"},
		{[]string{"begin", "f", "(", "a", ",", "b", ")", ";"}, "begin f(a, b);"},
		{[]string{"for", "(", "i", "=", "0", ";", "i", "<", "3", ";", "i", "+", "1", ")", "do"}, "for (i = 0; i < 3; i + 1) do"},
	}
	for _, tc := range cases {
		if got := JoinTerminals(tc.words); got != tc.want {
			t.Fatalf("JoinTerminals(%v) = %q, want %q", tc.words, got, tc.want)
		}
	}
}

func TestDumpYAML(t *testing.T) {
	out, err := DumpYAML(buildPrint())
	if err != nil {
		t.Fatalf("DumpYAML error: %v", err)
	}
	var decoded map[string]interface{}
	if err := yaml.Unmarshal(out, &decoded); err != nil {
		t.Fatalf("decode dump: %v\n%s", err, out)
	}
	if decoded["kind"] != "print" || decoded["pos"] != "1:1" {
		t.Fatalf("unexpected dump header: %v", decoded)
	}
	children, ok := decoded["children"].([]interface{})
	if !ok || len(children) != 5 || children[0] != "print" {
		t.Fatalf("unexpected children: %#v", decoded["children"])
	}
}

func TestUnquoteAndIsNumber(t *testing.T) {
	if Unquote("'key'") != "key" || Unquote("key") != "key" {
		t.Fatalf("Unquote mismatch")
	}
	if !IsNumber("8191") || IsNumber("x1") || IsNumber("") {
		t.Fatalf("IsNumber mismatch")
	}
}
