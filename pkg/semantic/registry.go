package semantic

import (
	"sort"

	"github.com/mayaaleahanne/CORE-Programming-Language/pkg/ast"
)

// Signature locates a declared procedure.
type Signature struct {
	Name string
	// Node is the Procedure root for the main procedure and the Function node
	// for every other procedure.
	Node *ast.Node
	Main bool
}

// Formals returns the formal parameter names in declaration order.
func (s *Signature) Formals() []string {
	if s == nil || s.Main || s.Node == nil {
		return nil
	}
	for _, child := range s.Node.NonTerminals() {
		if child.Kind() == ast.Parameters {
			return ParameterNames(child)
		}
	}
	return nil
}

// ParamCount is the number of formal parameters, separators excluded.
func (s *Signature) ParamCount() int { return len(s.Formals()) }

// Body returns the statement sequence executed when the procedure is called.
func (s *Signature) Body() *ast.Node {
	if s == nil || s.Node == nil {
		return nil
	}
	for _, child := range s.Node.NonTerminals() {
		if child.Kind() == ast.StmtSeq {
			return child
		}
	}
	return nil
}

// ParameterNames lists the identifiers of a Parameters node.
func ParameterNames(params *ast.Node) []string {
	var names []string
	for _, text := range params.Terminals() {
		if text != "," {
			names = append(names, text)
		}
	}
	return names
}

// Registry maps procedure names to signatures. Names are global and unique.
type Registry struct {
	procs map[string]*Signature
	main  string
}

func NewRegistry() *Registry {
	return &Registry{procs: make(map[string]*Signature)}
}

// Register records a procedure. It reports false when the name is taken.
func (r *Registry) Register(name string, node *ast.Node, main bool) bool {
	if _, exists := r.procs[name]; exists {
		return false
	}
	r.procs[name] = &Signature{Name: name, Node: node, Main: main}
	if main {
		r.main = name
	}
	return true
}

// Lookup returns the signature registered under name.
func (r *Registry) Lookup(name string) (*Signature, bool) {
	sig, ok := r.procs[name]
	return sig, ok
}

// Main returns the program's main procedure, if registered.
func (r *Registry) Main() (*Signature, bool) {
	if r.main == "" {
		return nil, false
	}
	return r.Lookup(r.main)
}

// Names returns the registered procedure names sorted.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.procs))
	for name := range r.procs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
