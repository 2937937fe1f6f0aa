// Package semantic implements the checks that run interleaved with parsing:
// block scoping of variable declarations, identifier resolution, procedure
// registration, call arity and assignment compatibility. Errors are queued
// rather than raised so that every problem in a program is reported at once.
package semantic

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/ahrtr/gocontainer/set"
	"github.com/edwingeng/deque"

	"github.com/mayaaleahanne/CORE-Programming-Language/pkg/ast"
)

// VarKind is the declared type of a variable.
type VarKind int

const (
	Integer VarKind = iota
	Object
)

func (k VarKind) String() string {
	if k == Object {
		return "object"
	}
	return "integer"
}

// Error carries every queued semantic message in discovery order.
type Error struct {
	Messages []string
}

func (e *Error) Error() string {
	if len(e.Messages) == 1 {
		return "semantic: " + e.Messages[0]
	}
	return fmt.Sprintf("semantic: %d errors:\n%s", len(e.Messages), strings.Join(e.Messages, "\n"))
}

// Checker tracks compile-time scopes while the parser builds the tree.
type Checker struct {
	scopes   []map[string]VarKind
	errs     deque.Deque
	reported set.Interface
	registry *Registry
	logger   *slog.Logger
}

// Option configures a Checker.
type Option func(*Checker)

// WithLogger sets the debug logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Checker) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithRegistry shares an existing procedure registry.
func WithRegistry(registry *Registry) Option {
	return func(c *Checker) {
		if registry != nil {
			c.registry = registry
		}
	}
}

func NewChecker(opts ...Option) *Checker {
	c := &Checker{
		errs:     deque.NewDeque(),
		reported: set.New(),
		registry: NewRegistry(),
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Registry returns the procedures registered so far.
func (c *Checker) Registry() *Registry { return c.registry }

// Depth is the number of open compile-time scopes.
func (c *Checker) Depth() int { return len(c.scopes) }

// Enter is called when the parser starts a non-terminal. DeclSeq, Function and
// any StmtSeq that is not a procedure body open a scope.
func (c *Checker) Enter(n *ast.Node) {
	switch n.Kind() {
	case ast.DeclSeq, ast.Function:
		c.pushScope(n)
	case ast.StmtSeq:
		if parent := n.Parent(); parent == nil || parent.Kind() != ast.Function {
			c.pushScope(n)
		}
	}
}

func (c *Checker) pushScope(n *ast.Node) {
	c.scopes = append(c.scopes, make(map[string]VarKind))
	c.logger.Debug("enter scope", "node", n.Kind().String(), "depth", len(c.scopes))
}

// LeaveScope closes the innermost scope. It is driven by the end and else
// keywords.
func (c *Checker) LeaveScope() {
	if len(c.scopes) == 0 {
		return
	}
	c.scopes = c.scopes[:len(c.scopes)-1]
	c.logger.Debug("leave scope", "depth", len(c.scopes))
}

// Declare adds name to the innermost scope.
func (c *Checker) Declare(name string, kind VarKind) {
	if len(c.scopes) == 0 {
		c.pushScope(ast.NewNonTerminal(ast.DeclSeq))
	}
	top := c.scopes[len(c.scopes)-1]
	if _, exists := top[name]; exists {
		c.Report("ERROR: identifier '%s' already in use.", name)
		return
	}
	top[name] = kind
}

// Lookup searches the open scopes innermost first without reporting.
func (c *Checker) Lookup(name string) (VarKind, bool) {
	for i := len(c.scopes) - 1; i >= 0; i-- {
		if kind, ok := c.scopes[i][name]; ok {
			return kind, true
		}
	}
	return 0, false
}

// Resolve is Lookup that queues "used but never declared" the first time an
// unknown name is seen.
func (c *Checker) Resolve(name string) (VarKind, bool) {
	kind, ok := c.Lookup(name)
	if !ok && !c.reported.Contains(name) {
		c.reported.Add(name)
		c.Report("ERROR: '%s' is used but never declared.", name)
	}
	return kind, ok
}

// CheckIdentifier applies the rule for an identifier attached to n.
func (c *Checker) CheckIdentifier(name string, n *ast.Node) {
	switch n.Kind() {
	case ast.DeclInteger:
		c.Declare(name, Integer)
	case ast.DeclObj:
		c.Declare(name, Object)
	case ast.Parameters:
		if parent := n.Parent(); parent != nil && parent.Kind() == ast.Function {
			c.Declare(name, Object)
			return
		}
		c.Resolve(name)
	case ast.Procedure, ast.Function:
		if !c.registry.Register(name, n, n.Kind() == ast.Procedure) {
			c.Report("ERROR: Procedure ID '%s' is already in use.", name)
		}
	case ast.Call:
		sig, ok := c.registry.Lookup(name)
		switch {
		case !ok:
			c.Report("ERROR: Cannot call procedure '%s'. It does not exist.", name)
		case sig.Main:
			c.Report("ERROR: Cannot call main procedure '%s'.", name)
		}
	default:
		c.Resolve(name)
	}
}

// CheckVarKind requires name to be declared with the given kind.
func (c *Checker) CheckVarKind(name string, want VarKind) {
	kind, ok := c.Resolve(name)
	if ok && kind != want {
		c.Report("ERROR: '%s' must be of type %s.", name, want)
	}
}

// CheckAssignment validates the assignment form recorded so far in an Assign
// node: aliasing needs objects on both sides, while construction and keyed
// writes only need an object target.
func (c *Checker) CheckAssignment(n *ast.Node) {
	terms := n.Terminals()
	if len(terms) == 0 {
		return
	}
	target := terms[0]
	targetKind, ok := c.Lookup(target)
	if !ok {
		return
	}
	switch {
	case n.HasTerminal(":"):
		if len(terms) < 3 {
			return
		}
		source := terms[2]
		sourceKind, ok := c.Lookup(source)
		if !ok {
			return
		}
		switch {
		case targetKind == Object && sourceKind != Object:
			c.Report("ERROR: Invalid assignment. '%s' must be of type Object.", source)
		case targetKind != Object && sourceKind == Object:
			c.Report("ERROR: Invalid assignment. '%s' must be of type Object.", target)
		case targetKind != Object && sourceKind != Object:
			c.Report("ERROR: Invalid assignment. '%s' and '%s' must be of type Object.", target, source)
		}
	case n.HasTerminal("new"), n.HasTerminal("["):
		if targetKind != Object {
			c.Report("ERROR: Invalid assignment. '%s' must be of type Object.", target)
		}
	}
}

// ValidateCall checks a completed Call node against the callee's signature.
func (c *Checker) ValidateCall(call *ast.Node) {
	terms := call.Terminals()
	if len(terms) < 2 {
		return
	}
	name := terms[1]
	sig, ok := c.registry.Lookup(name)
	if !ok || sig.Main {
		return
	}
	var actuals []string
	for _, child := range call.NonTerminals() {
		if child.Kind() == ast.Parameters {
			actuals = ParameterNames(child)
		}
	}
	if want := sig.ParamCount(); want != len(actuals) {
		c.Report("ERROR: procedure '%s' requires %d parameter(s), but was called with %d.", name, want, len(actuals))
		return
	}
	for _, actual := range actuals {
		if kind, ok := c.Lookup(actual); ok && kind != Object {
			c.Report("ERROR: argument '%s' to procedure '%s' must be of type object.", actual, name)
		}
	}
}

// Report queues a formatted message.
func (c *Checker) Report(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	c.logger.Debug("semantic error queued", "message", msg)
	c.errs.PushBack(msg)
}

// Errors returns the queued messages in order.
func (c *Checker) Errors() []string {
	n := c.errs.Len()
	out := make([]string, 0, n)
	for i := 0; i < n; i++ {
		msg := c.errs.PopFront()
		out = append(out, msg.(string))
		c.errs.PushBack(msg)
	}
	return out
}

// Err returns a *Error holding every queued message, or nil.
func (c *Checker) Err() error {
	if c.errs.Empty() {
		return nil
	}
	return &Error{Messages: c.Errors()}
}
