package parser

import (
	"fmt"
	"sort"
	"strings"

	"github.com/mayaaleahanne/CORE-Programming-Language/pkg/ast"
	"github.com/mayaaleahanne/CORE-Programming-Language/pkg/semantic"
	"github.com/mayaaleahanne/CORE-Programming-Language/pkg/token"
)

// Op is a parse instruction opcode.
type Op int

const (
	// OpValidate requires the lookahead to match Tokens[0], attaches it and
	// advances. Final ends the node.
	OpValidate Op = iota
	// OpValidateSeq is OpValidate over every kind in Tokens. CheckArity runs
	// the call arity check once the sequence completes.
	OpValidateSeq
	// OpParseIfMismatch parses Child unless the lookahead is Tokens[0].
	OpParseIfMismatch
	// OpParse parses Child unconditionally.
	OpParse
	// OpParseOrFail dispatches on FirstSet and fails when the lookahead is
	// absent from it. Consume attaches the lookahead first.
	OpParseOrFail
	// OpParseIfStartValid restarts the program when the lookahead is in
	// FirstSet, optionally consuming it.
	OpParseIfStartValid
	// OpConsumeLeading attaches lookahead tokens while FirstSet maps them to
	// ast.Terminal.
	OpConsumeLeading
	// OpConsumeTrailing validates one Tokens[0] per Opening terminal already
	// attached to the node.
	OpConsumeTrailing
	// OpStartAlternative clears the invalid flag at the start of an
	// alternative.
	OpStartAlternative
	// OpDetect attaches Tokens[0] if present, otherwise marks the current
	// alternative invalid.
	OpDetect
	// OpCheckEnd attaches Tokens[0] if present and then either ends the node
	// or, with Restart, runs the program again from the top.
	OpCheckEnd
	// OpValidateAssignment runs the assignment compatibility check.
	OpValidateAssignment
	// OpValidateVarType requires the node's first identifier to have VarType.
	OpValidateVarType
)

var opNames = [...]string{
	OpValidate:           "Validate",
	OpValidateSeq:        "ValidateSeq",
	OpParseIfMismatch:    "ParseIfMismatch",
	OpParse:              "Parse",
	OpParseOrFail:        "ParseOrFail",
	OpParseIfStartValid:  "ParseIfStartValid",
	OpConsumeLeading:     "ConsumeLeading",
	OpConsumeTrailing:    "ConsumeTrailing",
	OpStartAlternative:   "StartAlternative",
	OpDetect:             "Detect",
	OpCheckEnd:           "CheckEnd",
	OpValidateAssignment: "ValidateAssignment",
	OpValidateVarType:    "ValidateVarType",
}

func (o Op) String() string {
	if o >= 0 && int(o) < len(opNames) {
		return opNames[o]
	}
	return fmt.Sprintf("Op(%d)", int(o))
}

// FirstSet maps a lookahead token to the non-terminal it starts. ast.Terminal
// marks a token that is consumed without starting a child.
type FirstSet map[token.Kind]ast.Kind

func (f FirstSet) kinds() []token.Kind {
	out := make([]token.Kind, 0, len(f))
	for k := range f {
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Instruction is one step of a grammar rule program. Which fields matter
// depends on Op.
type Instruction struct {
	Op         Op
	Tokens     []token.Kind
	Final      bool
	CheckArity bool
	Child      ast.Kind
	FirstSet   FirstSet
	Consume    bool
	Restart    bool
	Opening    string
	VarType    semantic.VarKind
}

func (in Instruction) String() string {
	var parts []string
	for _, k := range in.Tokens {
		parts = append(parts, k.String())
	}
	if in.Child != ast.Terminal {
		parts = append(parts, in.Child.String())
	}
	if len(in.FirstSet) > 0 {
		parts = append(parts, fmt.Sprintf("first=%v", in.FirstSet.kinds()))
	}
	if in.Final {
		parts = append(parts, "final")
	}
	return fmt.Sprintf("%s(%s)", in.Op, strings.Join(parts, " "))
}

// Program is the ordered instruction list for one non-terminal kind.
type Program []Instruction

// Grammar maps each non-terminal kind to its program.
type Grammar map[ast.Kind]Program

func Validate(k token.Kind) Instruction {
	return Instruction{Op: OpValidate, Tokens: []token.Kind{k}}
}

func ValidateFinal(k token.Kind) Instruction {
	return Instruction{Op: OpValidate, Tokens: []token.Kind{k}, Final: true}
}

func ValidateSeq(ks ...token.Kind) Instruction {
	return Instruction{Op: OpValidateSeq, Tokens: ks}
}

func ValidateSeqFinal(ks ...token.Kind) Instruction {
	return Instruction{Op: OpValidateSeq, Tokens: ks, Final: true}
}

// ValidateCallEnd closes a call statement and checks its arity.
func ValidateCallEnd(ks ...token.Kind) Instruction {
	return Instruction{Op: OpValidateSeq, Tokens: ks, Final: true, CheckArity: true}
}

func ParseIfMismatch(k token.Kind, child ast.Kind) Instruction {
	return Instruction{Op: OpParseIfMismatch, Tokens: []token.Kind{k}, Child: child}
}

func Parse(child ast.Kind) Instruction {
	return Instruction{Op: OpParse, Child: child}
}

func ParseOrFail(first FirstSet, consume bool) Instruction {
	return Instruction{Op: OpParseOrFail, FirstSet: first, Consume: consume}
}

func ParseIfStartValid(first FirstSet, consume bool) Instruction {
	return Instruction{Op: OpParseIfStartValid, FirstSet: first, Consume: consume}
}

func ConsumeLeading(first FirstSet) Instruction {
	return Instruction{Op: OpConsumeLeading, FirstSet: first}
}

func ConsumeTrailing(closing token.Kind, opening string) Instruction {
	return Instruction{Op: OpConsumeTrailing, Tokens: []token.Kind{closing}, Opening: opening}
}

func StartAlternative() Instruction {
	return Instruction{Op: OpStartAlternative}
}

func Detect(k token.Kind) Instruction {
	return Instruction{Op: OpDetect, Tokens: []token.Kind{k}}
}

func CheckEnd(k token.Kind, restart bool) Instruction {
	return Instruction{Op: OpCheckEnd, Tokens: []token.Kind{k}, Restart: restart}
}

func ValidateAssignment() Instruction {
	return Instruction{Op: OpValidateAssignment}
}

func ValidateVarType(kind semantic.VarKind) Instruction {
	return Instruction{Op: OpValidateVarType, VarType: kind}
}
