package semantic

import (
	"errors"
	"strings"
	"testing"

	"github.com/mayaaleahanne/CORE-Programming-Language/pkg/ast"
	"github.com/mayaaleahanne/CORE-Programming-Language/pkg/token"
)

func terminal(text string) *ast.Node { return ast.NewTerminal(text, token.Position{}) }

func withTerminals(kind ast.Kind, texts ...string) *ast.Node {
	n := ast.NewNonTerminal(kind)
	for _, text := range texts {
		n.AddChild(terminal(text))
	}
	return n
}

func TestDeclareAndResolveInnermostFirst(t *testing.T) {
	c := NewChecker()
	c.Enter(ast.NewNonTerminal(ast.DeclSeq))
	c.Declare("x", Integer)
	c.Enter(ast.NewNonTerminal(ast.StmtSeq))
	c.Declare("x", Object)

	kind, ok := c.Resolve("x")
	if !ok || kind != Object {
		t.Fatalf("Resolve(x) = %v, %v; want object, true", kind, ok)
	}
	c.LeaveScope()
	kind, ok = c.Resolve("x")
	if !ok || kind != Integer {
		t.Fatalf("Resolve(x) after leave = %v, %v; want integer, true", kind, ok)
	}
	if err := c.Err(); err != nil {
		t.Fatalf("unexpected errors: %v", err)
	}
}

func TestDuplicateDeclarationInSameScope(t *testing.T) {
	c := NewChecker()
	c.Enter(ast.NewNonTerminal(ast.DeclSeq))
	c.Declare("x", Integer)
	c.Declare("x", Object)
	got := c.Errors()
	if len(got) != 1 || got[0] != "ERROR: identifier 'x' already in use." {
		t.Fatalf("errors = %q", got)
	}
}

func TestUndeclaredReportedOnce(t *testing.T) {
	c := NewChecker()
	c.Enter(ast.NewNonTerminal(ast.DeclSeq))
	factor := ast.NewNonTerminal(ast.Factor)
	c.CheckIdentifier("y", factor)
	c.CheckIdentifier("y", factor)
	c.CheckIdentifier("z", factor)
	want := []string{
		"ERROR: 'y' is used but never declared.",
		"ERROR: 'z' is used but never declared.",
	}
	got := c.Errors()
	if strings.Join(got, "|") != strings.Join(want, "|") {
		t.Fatalf("errors = %q, want %q", got, want)
	}
	// Errors does not drain the queue.
	if len(c.Errors()) != 2 {
		t.Fatalf("Errors drained the queue")
	}
	var semErr *Error
	if err := c.Err(); !errors.As(err, &semErr) || len(semErr.Messages) != 2 {
		t.Fatalf("Err = %v", err)
	}
}

func TestStmtSeqUnderFunctionSharesScope(t *testing.T) {
	c := NewChecker()
	fn := ast.NewNonTerminal(ast.Function)
	c.Enter(fn)
	body := ast.NewNonTerminal(ast.StmtSeq)
	fn.AddChild(body)
	c.Enter(body)
	if c.Depth() != 1 {
		t.Fatalf("depth = %d, want 1", c.Depth())
	}
	nested := ast.NewNonTerminal(ast.StmtSeq)
	c.Enter(nested)
	if c.Depth() != 2 {
		t.Fatalf("depth = %d, want 2", c.Depth())
	}
}

func TestAssignmentCompatibility(t *testing.T) {
	cases := []struct {
		name  string
		terms []string
		want  string
	}{
		{name: "alias int source", terms: []string{"o", ":", "i", ";"}, want: "ERROR: Invalid assignment. 'i' must be of type Object."},
		{name: "alias int target", terms: []string{"i", ":", "o", ";"}, want: "ERROR: Invalid assignment. 'i' must be of type Object."},
		{name: "alias both int", terms: []string{"i", ":", "j", ";"}, want: "ERROR: Invalid assignment. 'i' and 'j' must be of type Object."},
		{name: "new on int", terms: []string{"i", "=", "new", "object", "(", "'a'", ",", ")"}, want: "ERROR: Invalid assignment. 'i' must be of type Object."},
		{name: "key on int", terms: []string{"i", "[", "'a'", "]", "="}, want: "ERROR: Invalid assignment. 'i' must be of type Object."},
		{name: "key on object", terms: []string{"o", "[", "'a'", "]", "=", ";"}},
		{name: "new on object", terms: []string{"o", "=", "new", "object", "(", "'a'", ",", ")", ";"}},
		{name: "alias objects", terms: []string{"o", ":", "p"}},
		{name: "undeclared target", terms: []string{"q", ":", "o"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := NewChecker()
			c.Enter(ast.NewNonTerminal(ast.DeclSeq))
			c.Declare("i", Integer)
			c.Declare("j", Integer)
			c.Declare("o", Object)
			c.Declare("p", Object)
			c.CheckAssignment(withTerminals(ast.Assign, tc.terms...))
			got := c.Errors()
			if tc.want == "" {
				if len(got) != 0 {
					t.Fatalf("unexpected errors: %q", got)
				}
				return
			}
			if len(got) != 1 || got[0] != tc.want {
				t.Fatalf("errors = %q, want %q", got, tc.want)
			}
		})
	}
}

func buildFunction(name string, params ...string) *ast.Node {
	fn := withTerminals(ast.Function, "procedure", name, "(", "object")
	p := ast.NewNonTerminal(ast.Parameters)
	for i, param := range params {
		if i > 0 {
			p.AddChild(terminal(","))
		}
		p.AddChild(terminal(param))
	}
	fn.AddChild(p)
	return fn
}

func buildCall(name string, args ...string) *ast.Node {
	call := withTerminals(ast.Call, "begin", name, "(")
	p := ast.NewNonTerminal(ast.Parameters)
	for i, arg := range args {
		if i > 0 {
			p.AddChild(terminal(","))
		}
		p.AddChild(terminal(arg))
	}
	call.AddChild(p)
	call.AddChild(terminal(")"))
	call.AddChild(terminal(";"))
	return call
}

func TestCallArityAndArguments(t *testing.T) {
	c := NewChecker()
	c.Enter(ast.NewNonTerminal(ast.DeclSeq))
	c.Declare("a", Object)
	c.Declare("b", Object)
	c.Declare("n", Integer)
	fn := buildFunction("f", "x", "y")
	c.CheckIdentifier("f", fn)

	sig, ok := c.Registry().Lookup("f")
	if !ok || sig.ParamCount() != 2 {
		t.Fatalf("signature = %+v, %v", sig, ok)
	}

	c.ValidateCall(buildCall("f", "a", "b"))
	if errs := c.Errors(); len(errs) != 0 {
		t.Fatalf("unexpected errors: %q", errs)
	}

	c.ValidateCall(buildCall("f", "a"))
	c.ValidateCall(buildCall("f", "a", "n"))
	want := []string{
		"ERROR: procedure 'f' requires 2 parameter(s), but was called with 1.",
		"ERROR: argument 'n' to procedure 'f' must be of type object.",
	}
	if got := c.Errors(); strings.Join(got, "|") != strings.Join(want, "|") {
		t.Fatalf("errors = %q, want %q", got, want)
	}
}

func TestProcedureRegistration(t *testing.T) {
	c := NewChecker()
	root := ast.NewNonTerminal(ast.Procedure)
	c.CheckIdentifier("main", root)
	c.CheckIdentifier("main", buildFunction("main", "x"))
	c.CheckIdentifier("missing", ast.NewNonTerminal(ast.Call))
	c.CheckIdentifier("main", ast.NewNonTerminal(ast.Call))
	want := []string{
		"ERROR: Procedure ID 'main' is already in use.",
		"ERROR: Cannot call procedure 'missing'. It does not exist.",
		"ERROR: Cannot call main procedure 'main'.",
	}
	if got := c.Errors(); strings.Join(got, "|") != strings.Join(want, "|") {
		t.Fatalf("errors = %q, want %q", got, want)
	}
	if sig, ok := c.Registry().Main(); !ok || sig.Node != root {
		t.Fatalf("main signature = %+v, %v", sig, ok)
	}
}

func TestCheckVarKind(t *testing.T) {
	c := NewChecker()
	c.Enter(ast.NewNonTerminal(ast.DeclSeq))
	c.Declare("i", Integer)
	c.CheckVarKind("i", Object)
	got := c.Errors()
	if len(got) != 1 || got[0] != "ERROR: 'i' must be of type object." {
		t.Fatalf("errors = %q", got)
	}
}
