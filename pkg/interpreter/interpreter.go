// Package interpreter executes checked Core parse trees by walking them node by
// node. All execution state (call stack, object tracker, input cursor) lives
// on an Interpreter value.
package interpreter

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/mayaaleahanne/CORE-Programming-Language/pkg/ast"
	"github.com/mayaaleahanne/CORE-Programming-Language/pkg/runtime"
	"github.com/mayaaleahanne/CORE-Programming-Language/pkg/semantic"
	"github.com/mayaaleahanne/CORE-Programming-Language/pkg/token"
)

// DefaultMaxCallDepth bounds recursion when Options.MaxCallDepth is zero.
const DefaultMaxCallDepth = 1000

// ErrDivideByZero is wrapped by the RuntimeError raised for a zero divisor.
var ErrDivideByZero = errors.New("divide by zero")

// ErrInputExhausted is wrapped when Read finds no more input.
var ErrInputExhausted = errors.New("input exhausted")

// TraceEvent describes one executed statement or evaluated comparison.
type TraceEvent struct {
	Kind  ast.Kind
	Pos   token.Position
	Depth int
	// Result is the comparison outcome for Cmpr events.
	Result bool
}

// Options configures an Interpreter.
type Options struct {
	// Stdout receives Print output. Defaults to os.Stdout.
	Stdout io.Writer
	// GCLog receives gc:<n> lines. Defaults to Stdout; use io.Discard to
	// silence them.
	GCLog io.Writer
	// Input feeds Read statements. A nil source behaves as empty input.
	Input token.Source
	// Logger receives debug records.
	Logger *slog.Logger
	// MaxCallDepth bounds active frames. Zero means DefaultMaxCallDepth and a
	// negative value removes the limit.
	MaxCallDepth int
	// Trace is invoked for every statement and comparison.
	Trace func(TraceEvent)
}

// Interpreter runs a single program.
type Interpreter struct {
	procedures *semantic.Registry
	out        io.Writer
	gcLog      io.Writer
	input      token.Source
	logger     *slog.Logger
	maxDepth   int
	trace      func(TraceEvent)

	stack   *runtime.CallStack
	tracker *runtime.Tracker
	calls   []*ast.Node
}

// New prepares an interpreter for programs whose procedures are in registry.
func New(registry *semantic.Registry, opts Options) *Interpreter {
	i := &Interpreter{
		procedures: registry,
		out:        opts.Stdout,
		gcLog:      opts.GCLog,
		input:      opts.Input,
		logger:     opts.Logger,
		maxDepth:   opts.MaxCallDepth,
		trace:      opts.Trace,
	}
	if i.procedures == nil {
		i.procedures = semantic.NewRegistry()
	}
	if i.out == nil {
		i.out = os.Stdout
	}
	if i.gcLog == nil {
		i.gcLog = i.out
	}
	if i.logger == nil {
		i.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	switch {
	case i.maxDepth == 0:
		i.maxDepth = DefaultMaxCallDepth
	case i.maxDepth < 0:
		i.maxDepth = 0
	}
	return i
}

// Tracker exposes the object tracker of the last run.
func (i *Interpreter) Tracker() *runtime.Tracker { return i.tracker }

// Run executes the program rooted at a Procedure node.
func (i *Interpreter) Run(root *ast.Node) error {
	if root == nil || root.Kind() != ast.Procedure {
		return fmt.Errorf("interpreter: run: root must be a procedure node")
	}
	i.tracker = runtime.NewTracker(i.gcLog)
	i.stack = runtime.NewCallStack(i.tracker, i.maxDepth)
	i.calls = nil

	name := ""
	if terms := root.Terminals(); len(terms) > 1 {
		name = terms[1]
	}
	i.logger.Debug("run", "procedure", name)
	if err := i.stack.PushFrame(runtime.NewFrame(name)); err != nil {
		return i.fail(root, err.Error(), err)
	}
	for _, child := range root.NonTerminals() {
		switch child.Kind() {
		case ast.DeclSeq:
			for _, decl := range child.NonTerminals() {
				if decl.Kind() == ast.Decl {
					i.declare(decl)
				}
			}
		case ast.StmtSeq:
			i.stack.StopGlobalAllocation()
			if err := i.execStmtSeq(child); err != nil {
				return err
			}
		}
	}
	i.stack.PopFrame()
	i.stack.ReleaseGlobals()
	if err := i.tracker.Err(); err != nil {
		return fmt.Errorf("interpreter: %w", err)
	}
	return nil
}

func (i *Interpreter) fail(n *ast.Node, msg string, cause error) error {
	rerr := &RuntimeError{Message: msg, Pos: n.Pos(), Err: cause}
	for idx := len(i.calls) - 1; idx >= 0; idx-- {
		call := i.calls[idx]
		name := ""
		if terms := call.Terminals(); len(terms) > 1 {
			name = terms[1]
		}
		rerr.Calls = append(rerr.Calls, CallNote{Procedure: name, Pos: call.Pos()})
	}
	return rerr
}

func (i *Interpreter) emit(ev TraceEvent) {
	if i.trace != nil {
		ev.Depth = i.stack.Depth()
		i.trace(ev)
	}
}

func (i *Interpreter) lookup(n *ast.Node, name string) (runtime.Variable, error) {
	v, ok := i.stack.Lookup(name)
	if !ok {
		return nil, i.fail(n, fmt.Sprintf("'%s' is not declared", name), nil)
	}
	return v, nil
}

func (i *Interpreter) lookupObject(n *ast.Node, name string) (*runtime.ObjectVar, error) {
	v, err := i.lookup(n, name)
	if err != nil {
		return nil, err
	}
	ov, ok := v.(*runtime.ObjectVar)
	if !ok {
		return nil, i.fail(n, fmt.Sprintf("'%s' must be of type object", name), nil)
	}
	return ov, nil
}

// objectFailure converts a runtime package error into a RuntimeError.
func (i *Interpreter) objectFailure(n *ast.Node, err error) error {
	return i.fail(n, err.Error(), err)
}
