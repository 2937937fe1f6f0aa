package interpreter

import (
	"fmt"
	"strconv"

	"github.com/mayaaleahanne/CORE-Programming-Language/pkg/ast"
	"github.com/mayaaleahanne/CORE-Programming-Language/pkg/runtime"
)

// evalCond walks the condition's children in order. Each run of modifier
// terminals before a comparison counts nots and may switch the combinator;
// a run without or/and keeps the previous one, starting from and. The run
// before the first comparison negates the whole condition.
func (i *Interpreter) evalCond(n *ast.Node) (bool, error) {
	children := n.Children()
	idx := 0

	modifiers := func() (nots int, or bool, sawCombinator bool) {
		for idx < len(children) && children[idx].IsTerminal() {
			switch children[idx].Text() {
			case "not":
				nots++
			case "or":
				or, sawCombinator = true, true
			case "and":
				or, sawCombinator = false, true
			}
			idx++
		}
		return nots, or, sawCombinator
	}

	leading, _, _ := modifiers()
	if idx >= len(children) {
		return false, i.fail(n, "condition has no comparison", nil)
	}
	result, err := i.evalCmpr(children[idx], false)
	if err != nil {
		return false, err
	}
	idx++

	or := false
	for idx < len(children) {
		nots, runOr, saw := modifiers()
		if idx >= len(children) {
			break
		}
		if saw {
			or = runOr
		}
		if (result && or) || (!result && !or) {
			break
		}
		v, err := i.evalCmpr(children[idx], nots%2 == 1)
		if err != nil {
			return false, err
		}
		idx++
		if or {
			result = result || v
		} else {
			result = result && v
		}
	}
	if leading%2 == 1 {
		result = !result
	}
	return result, nil
}

func (i *Interpreter) evalCmpr(n *ast.Node, negate bool) (bool, error) {
	nts := n.NonTerminals()
	left, err := i.eval(nts[0])
	if err != nil {
		return false, err
	}
	right, err := i.eval(nts[1])
	if err != nil {
		return false, err
	}
	var result bool
	switch op := n.Terminals()[0]; op {
	case "==":
		result = left == right
	case "<":
		result = left < right
	default:
		return false, i.fail(n, fmt.Sprintf("unknown comparison %q", op), nil)
	}
	if negate {
		result = !result
	}
	i.emit(TraceEvent{Kind: ast.Cmpr, Pos: n.Pos(), Result: result})
	return result, nil
}

// eval computes an Expr, Term or Factor. Operator chains fold from the right:
// a - b - c is a - (b - c).
func (i *Interpreter) eval(n *ast.Node) (int, error) {
	if n.Kind() == ast.Factor {
		return i.evalFactor(n)
	}
	children := n.Children()
	if len(children) == 0 {
		return 0, i.fail(n, fmt.Sprintf("empty %s", n.Kind()), nil)
	}
	acc, err := i.eval(children[len(children)-1])
	if err != nil {
		return 0, err
	}
	for idx := len(children) - 2; idx >= 1; idx -= 2 {
		left, err := i.eval(children[idx-1])
		if err != nil {
			return 0, err
		}
		switch op := children[idx].Text(); op {
		case "+":
			acc = left + acc
		case "-":
			acc = left - acc
		case "*":
			acc = left * acc
		case "/":
			if acc == 0 {
				return 0, i.fail(children[idx], "divide by zero", ErrDivideByZero)
			}
			acc = left / acc
		default:
			return 0, i.fail(n, fmt.Sprintf("unknown operator %q", op), nil)
		}
	}
	return acc, nil
}

func (i *Interpreter) evalFactor(n *ast.Node) (int, error) {
	terms := n.Terminals()
	switch {
	case len(terms) == 0:
		return i.eval(n.NonTerminals()[0])
	case terms[0] == "(":
		return i.eval(n.NonTerminals()[0])
	case ast.IsNumber(terms[0]):
		v, err := strconv.Atoi(terms[0])
		if err != nil {
			return 0, i.fail(n, fmt.Sprintf("bad constant %s", terms[0]), err)
		}
		return v, nil
	case len(terms) > 2 && terms[1] == "[":
		ov, err := i.lookupObject(n, terms[0])
		if err != nil {
			return 0, err
		}
		v, err := ov.Get(ast.Unquote(terms[2]))
		if err != nil {
			return 0, i.objectFailure(n, err)
		}
		return v, nil
	}
	v, err := i.lookup(n, terms[0])
	if err != nil {
		return 0, err
	}
	value, err := runtime.Value(v)
	if err != nil {
		return 0, i.objectFailure(n, err)
	}
	return value, nil
}
