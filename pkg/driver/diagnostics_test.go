package driver

import (
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/mayaaleahanne/CORE-Programming-Language/pkg/interpreter"
	"github.com/mayaaleahanne/CORE-Programming-Language/pkg/lexer"
	"github.com/mayaaleahanne/CORE-Programming-Language/pkg/token"
)

func TestDiagnoseStages(t *testing.T) {
	cases := []struct {
		name  string
		src   string
		stage Stage
		want  string
	}{
		{
			name:  "lexer",
			src:   "procedure p is begin x = 07; end",
			stage: StageLexer,
			want:  "lexer: prog.core:1:26: 07 is an invalid CONST: CONST cannot have leading zeroes",
		},
		{
			name:  "parser",
			src:   "procedure p is begin end",
			stage: StageParser,
			want:  "parser: prog.core:1:22: parsing stmt: expected",
		},
		{
			name:  "semantic",
			src:   "procedure p is begin y = 1; end",
			stage: StageSemantic,
			want:  "semantic: prog.core: ERROR: 'y' is used but never declared.",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Check("prog.core", strings.NewReader(tc.src), nil)
			diags := Diagnose("prog.core", err)
			if len(diags) != 1 {
				t.Fatalf("diagnostics = %+v, want one", diags)
			}
			if diags[0].Stage != tc.stage || diags[0].Severity != SeverityError {
				t.Fatalf("diagnostic = %+v", diags[0])
			}
			if got := Describe(diags[0]); !strings.HasPrefix(got, tc.want) {
				t.Fatalf("Describe = %q, want prefix %q", got, tc.want)
			}
		})
	}
}

func TestDiagnoseRuntimeNotes(t *testing.T) {
	err := &interpreter.RuntimeError{
		Message: "divide by zero",
		Pos:     token.Position{Line: 4, Column: 9},
		Calls:   []interpreter.CallNote{{Procedure: "f", Pos: token.Position{Line: 8, Column: 2}}},
		Err:     interpreter.ErrDivideByZero,
	}
	diags := Diagnose("prog.core", err)
	want := "runtime: prog.core:4:9: divide by zero\nnote: prog.core:8:2: called from here (f)"
	if len(diags) != 1 || Describe(diags[0]) != want {
		t.Fatalf("diagnostics = %+v, want %q", diags, want)
	}
}

func TestDiagnoseOtherErrors(t *testing.T) {
	if diags := Diagnose("x", nil); diags != nil {
		t.Fatalf("Diagnose(nil) = %+v", diags)
	}
	diags := Diagnose("", errors.New("boom"))
	if len(diags) != 1 || diags[0].Stage != StageIO || Describe(diags[0]) != "io: boom" {
		t.Fatalf("diagnostics = %+v", diags)
	}
	if diags[0].Severity != SeverityError || diags[0].Prefix() != "io: " {
		t.Fatalf("diagnostic = %+v, want io error", diags[0])
	}
}

func TestRunUsesDataFile(t *testing.T) {
	prog, err := Check("p.core", strings.NewReader("procedure p is integer a; begin read(a); print(a * 2); end"), nil)
	if err != nil {
		t.Fatalf("Check error: %v", err)
	}
	data, err := lexer.NewString("p.data", "21")
	if err != nil {
		t.Fatalf("lexer error: %v", err)
	}
	var out strings.Builder
	if err := prog.Run(interpreter.Options{Stdout: &out, GCLog: io.Discard, Input: data}); err != nil {
		t.Fatalf("Run error: %v", err)
	}
	if out.String() != "42\n" {
		t.Fatalf("output = %q, want %q", out.String(), "42\n")
	}

	source, closer, err := OpenData("")
	if err != nil || source != nil {
		t.Fatalf("OpenData(\"\") = %v, %v", source, err)
	}
	_ = closer.Close()
}
