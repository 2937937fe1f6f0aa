package interpreter

import (
	"fmt"
	"strconv"

	"github.com/mayaaleahanne/CORE-Programming-Language/pkg/ast"
	"github.com/mayaaleahanne/CORE-Programming-Language/pkg/runtime"
	"github.com/mayaaleahanne/CORE-Programming-Language/pkg/semantic"
	"github.com/mayaaleahanne/CORE-Programming-Language/pkg/token"
)

func (i *Interpreter) execStmtSeq(seq *ast.Node) error {
	for _, stmt := range seq.NonTerminals() {
		inner := stmt
		if stmt.Kind() == ast.Stmt {
			nts := stmt.NonTerminals()
			if len(nts) == 0 {
				continue
			}
			inner = nts[0]
		}
		if err := i.execStmt(inner); err != nil {
			return err
		}
	}
	return nil
}

func (i *Interpreter) execStmt(n *ast.Node) error {
	i.emit(TraceEvent{Kind: n.Kind(), Pos: n.Pos()})
	switch n.Kind() {
	case ast.Assign:
		return i.execAssign(n)
	case ast.If:
		return i.execIf(n)
	case ast.Loop:
		return i.execLoop(n)
	case ast.Print:
		return i.execPrint(n)
	case ast.Read:
		return i.execRead(n)
	case ast.Decl:
		i.declare(n)
		return nil
	case ast.Call:
		return i.execCall(n)
	}
	return i.fail(n, fmt.Sprintf("cannot execute %s", n.Kind()), nil)
}

// declare allocates the variable named by a Decl node.
func (i *Interpreter) declare(decl *ast.Node) {
	for _, d := range decl.NonTerminals() {
		terms := d.Terminals()
		if len(terms) < 2 {
			continue
		}
		switch d.Kind() {
		case ast.DeclInteger:
			i.stack.Allocate(runtime.NewIntegerVar(terms[1]))
		case ast.DeclObj:
			i.stack.Allocate(runtime.NewObjectVar(terms[1], i.tracker))
		}
	}
}

// execAssign runs one of the five assignment forms. A target that does not
// resolve leaves the statement a no-op; the checker reports it before Run.
func (i *Interpreter) execAssign(n *ast.Node) error {
	terms := n.Terminals()
	name := terms[0]
	if _, ok := i.stack.Lookup(name); !ok {
		i.logger.Debug("assignment target not declared", "name", name, "pos", n.Pos())
		return nil
	}
	switch {
	case n.HasTerminal("["):
		value, err := i.eval(n.NonTerminals()[0])
		if err != nil {
			return err
		}
		ov, err := i.lookupObject(n, name)
		if err != nil {
			return err
		}
		if err := ov.Set(ast.Unquote(terms[2]), value); err != nil {
			return i.objectFailure(n, err)
		}
	case n.HasTerminal("new"):
		value, err := i.eval(n.NonTerminals()[0])
		if err != nil {
			return err
		}
		ov, err := i.lookupObject(n, name)
		if err != nil {
			return err
		}
		if i.stack.Depth() > 1 {
			i.stack.RemoveLocal(name)
			ov = runtime.NewObjectVar(name, i.tracker)
			i.stack.Allocate(ov)
		}
		ov.Construct(ast.Unquote(terms[5]), value)
	case n.HasTerminal(":"):
		target, err := i.lookupObject(n, name)
		if err != nil {
			return err
		}
		source, err := i.lookupObject(n, terms[2])
		if err != nil {
			return err
		}
		target.AliasTo(source)
	default:
		value, err := i.eval(n.NonTerminals()[0])
		if err != nil {
			return err
		}
		v, err := i.lookup(n, name)
		if err != nil {
			return err
		}
		if err := runtime.Assign(v, value); err != nil {
			return i.objectFailure(n, err)
		}
	}
	return nil
}

func (i *Interpreter) execIf(n *ast.Node) error {
	nts := n.NonTerminals()
	ok, err := i.evalCond(nts[0])
	if err != nil {
		return err
	}
	var branch *ast.Node
	switch {
	case ok:
		branch = nts[1]
	case len(nts) > 2:
		branch = nts[2]
	}
	if branch == nil {
		return nil
	}
	return i.inScope(branch)
}

func (i *Interpreter) inScope(seq *ast.Node) error {
	i.stack.PushScope()
	if err := i.execStmtSeq(seq); err != nil {
		return err
	}
	i.stack.PopScope()
	return nil
}

func (i *Interpreter) execLoop(n *ast.Node) error {
	terms := n.Terminals()
	nts := n.NonTerminals()
	init, cond, step, body := nts[0], nts[1], nts[2], nts[3]

	v, err := i.lookup(n, terms[2])
	if err != nil {
		return err
	}
	set := func(expr *ast.Node) error {
		value, err := i.eval(expr)
		if err != nil {
			return err
		}
		if err := runtime.Assign(v, value); err != nil {
			return i.objectFailure(n, err)
		}
		return nil
	}
	if err := set(init); err != nil {
		return err
	}
	for {
		ok, err := i.evalCond(cond)
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
		if err := i.inScope(body); err != nil {
			return err
		}
		if err := set(step); err != nil {
			return err
		}
	}
}

func (i *Interpreter) execPrint(n *ast.Node) error {
	value, err := i.eval(n.NonTerminals()[0])
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintln(i.out, value); err != nil {
		return fmt.Errorf("interpreter: print: %w", err)
	}
	return nil
}

func (i *Interpreter) execRead(n *ast.Node) error {
	name := n.Terminals()[2]
	v, err := i.lookup(n, name)
	if err != nil {
		return err
	}
	if i.input == nil {
		return i.fail(n, fmt.Sprintf("couldn't read value into %s", name), ErrInputExhausted)
	}
	tok := i.input.Current()
	if err := inputErr(i.input); err != nil {
		return i.fail(n, fmt.Sprintf("couldn't read value into %s: %v", name, err), err)
	}
	if tok.Kind == token.EOS {
		return i.fail(n, fmt.Sprintf("couldn't read value into %s", name), ErrInputExhausted)
	}
	if tok.Kind != token.Const {
		return i.fail(n, fmt.Sprintf("couldn't read value into %s: input %s is not an integer", name, tok), nil)
	}
	value, err := strconv.Atoi(tok.Text)
	if err != nil {
		return i.fail(n, fmt.Sprintf("couldn't read value into %s", name), err)
	}
	if err := runtime.Assign(v, value); err != nil {
		return i.objectFailure(n, err)
	}
	if err := i.input.Next(); err != nil {
		return i.fail(n, fmt.Sprintf("reading input after %s", name), err)
	}
	return nil
}

// inputErr is the failure behind src's lookahead for sources that can fail
// while producing it, such as an interactive prompt.
func inputErr(src token.Source) error {
	if f, ok := src.(interface{ Err() error }); ok {
		return f.Err()
	}
	return nil
}

func (i *Interpreter) execCall(n *ast.Node) error {
	name := n.Terminals()[1]
	sig, ok := i.procedures.Lookup(name)
	if !ok || sig.Main {
		return i.fail(n, fmt.Sprintf("cannot call procedure '%s'", name), nil)
	}
	var actuals []string
	for _, child := range n.NonTerminals() {
		if child.Kind() == ast.Parameters {
			actuals = semantic.ParameterNames(child)
		}
	}
	formals := sig.Formals()
	if len(formals) != len(actuals) {
		return i.fail(n, fmt.Sprintf("procedure '%s' requires %d parameter(s), but was called with %d", name, len(formals), len(actuals)), nil)
	}

	frame := runtime.NewFrame(name)
	for idx, formal := range formals {
		source, err := i.lookupObject(n, actuals[idx])
		if err != nil {
			frame.Release()
			return err
		}
		param := runtime.NewObjectVar(formal, i.tracker)
		frame.Top().Declare(param)
		param.AliasTo(source)
	}
	if err := i.stack.PushFrame(frame); err != nil {
		frame.Release()
		return i.fail(n, err.Error(), err)
	}
	i.logger.Debug("call", "procedure", name, "depth", i.stack.Depth())

	i.calls = append(i.calls, n)
	if err := i.execStmtSeq(sig.Body()); err != nil {
		return err
	}
	i.calls = i.calls[:len(i.calls)-1]
	i.stack.PopFrame()
	return nil
}
