// Package parser builds Core parse trees with an instruction-driven top-down
// driver. Each non-terminal kind has a program of parse instructions; the
// driver interprets a private copy of the program for every node it builds
// while notifying the semantic checker as terminals are attached.
package parser

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/mayaaleahanne/CORE-Programming-Language/pkg/ast"
	"github.com/mayaaleahanne/CORE-Programming-Language/pkg/semantic"
	"github.com/mayaaleahanne/CORE-Programming-Language/pkg/token"
)

// Parser drives a grammar over a token source. A Parser holds no per-parse
// state and may be reused.
type Parser struct {
	grammar Grammar
	logger  *slog.Logger
}

// Option configures a Parser.
type Option func(*Parser)

// WithGrammar replaces the Core grammar.
func WithGrammar(g Grammar) Option {
	return func(p *Parser) {
		if g != nil {
			p.grammar = g
		}
	}
}

// WithLogger sets the debug logger.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Parser) {
		if logger != nil {
			p.logger = logger
		}
	}
}

func New(opts ...Option) *Parser {
	p := &Parser{
		grammar: CoreGrammar(),
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Parse builds the tree rooted at a Procedure node. Syntax errors abort the
// parse and are returned as *ParseError. When parsing succeeds but the checker
// queued semantic errors, the tree is returned together with a
// *semantic.Error. A nil checker gets a fresh one.
func (p *Parser) Parse(src token.Source, checker *semantic.Checker) (*ast.Node, error) {
	if checker == nil {
		checker = semantic.NewChecker(semantic.WithLogger(p.logger))
	}
	st := &state{grammar: p.grammar, src: src, checker: checker, logger: p.logger}
	root := ast.NewNonTerminal(ast.Procedure)
	if err := st.parseNode(root); err != nil {
		return nil, err
	}
	if err := checker.Err(); err != nil {
		return root, err
	}
	return root, nil
}

type state struct {
	grammar Grammar
	src     token.Source
	checker *semantic.Checker
	logger  *slog.Logger
}

// run is the driver state for one node.
type run struct {
	node    *ast.Node
	program Program
	cursor  int
	done    bool
	invalid bool
	repeat  bool
}

func (st *state) parseNode(n *ast.Node) error {
	rules, ok := st.grammar[n.Kind()]
	if !ok {
		return fmt.Errorf("parser: no grammar rule for %s", n.Kind())
	}
	st.checker.Enter(n)
	st.logger.Debug("parse", "rule", n.Kind().String(), "token", st.src.Current().String())

	r := &run{node: n, program: append(Program(nil), rules...)}
	for r.cursor < len(r.program) && !r.done {
		in := r.program[r.cursor]
		if r.invalid && in.Op != OpStartAlternative {
			r.program = append(r.program[:r.cursor], r.program[r.cursor+1:]...)
			continue
		}
		if err := st.execute(r, in); err != nil {
			return err
		}
		if r.repeat {
			r.repeat = false
			r.cursor = 0
			continue
		}
		r.cursor++
	}
	return nil
}

func (st *state) parseChild(parent *ast.Node, kind ast.Kind) error {
	child := ast.NewNonTerminal(kind)
	parent.AddChild(child)
	return st.parseNode(child)
}

func (st *state) execute(r *run, in Instruction) error {
	cur := st.src.Current()
	switch in.Op {
	case OpValidate:
		if err := st.validate(r.node, in.Tokens[0]); err != nil {
			return err
		}
		if in.Final {
			r.done = true
		}
	case OpValidateSeq:
		for _, k := range in.Tokens {
			if err := st.validate(r.node, k); err != nil {
				return err
			}
		}
		if in.Final {
			r.done = true
			if in.CheckArity {
				st.checker.ValidateCall(r.node)
			}
		}
	case OpParseIfMismatch:
		if cur.Kind != in.Tokens[0] {
			return st.parseChild(r.node, in.Child)
		}
	case OpParse:
		return st.parseChild(r.node, in.Child)
	case OpParseOrFail:
		kind, ok := in.FirstSet[cur.Kind]
		if !ok {
			return newParseError(r.node.Kind(), in.FirstSet.kinds(), cur)
		}
		if in.Consume {
			if err := st.consume(r.node); err != nil {
				return err
			}
		}
		return st.parseChild(r.node, kind)
	case OpParseIfStartValid:
		if _, ok := in.FirstSet[cur.Kind]; !ok {
			r.repeat = false
			return nil
		}
		if in.Consume {
			if err := st.consume(r.node); err != nil {
				return err
			}
		}
		r.repeat = true
	case OpConsumeLeading:
		for {
			kind, ok := in.FirstSet[st.src.Current().Kind]
			if !ok || kind != ast.Terminal {
				return nil
			}
			if err := st.consume(r.node); err != nil {
				return err
			}
		}
	case OpConsumeTrailing:
		for i := r.node.TerminalCount(in.Opening); i > 0; i-- {
			if err := st.validate(r.node, in.Tokens[0]); err != nil {
				return err
			}
		}
	case OpStartAlternative:
		r.invalid = false
	case OpDetect:
		if cur.Kind != in.Tokens[0] {
			r.invalid = true
			return nil
		}
		return st.consume(r.node)
	case OpCheckEnd:
		if cur.Kind != in.Tokens[0] {
			return nil
		}
		if err := st.consume(r.node); err != nil {
			return err
		}
		if in.Restart {
			r.repeat = true
		} else {
			r.done = true
		}
	case OpValidateAssignment:
		st.checker.CheckAssignment(r.node)
	case OpValidateVarType:
		if terms := r.node.Terminals(); len(terms) > 0 {
			st.checker.CheckVarKind(terms[0], in.VarType)
		}
	default:
		return fmt.Errorf("parser: unknown instruction %s", in.Op)
	}
	return nil
}

func (st *state) validate(n *ast.Node, want token.Kind) error {
	cur := st.src.Current()
	if cur.Kind != want {
		return newParseError(n.Kind(), []token.Kind{want}, cur)
	}
	return st.consume(n)
}

// consume attaches the lookahead to n and advances. EOS is attached as an
// empty terminal and the source stays put.
func (st *state) consume(n *ast.Node) error {
	tok := st.src.Current()
	if tok.Kind == token.EOS {
		n.AddChild(ast.NewTerminal(tok.Literal(), tok.Pos))
		return nil
	}
	if tok.Kind == token.End || tok.Kind == token.Else {
		st.checker.LeaveScope()
	}
	n.AddChild(ast.NewTerminal(tok.Literal(), tok.Pos))
	if tok.Kind == token.ID {
		st.checker.CheckIdentifier(tok.Text, n)
	}
	return st.src.Next()
}
