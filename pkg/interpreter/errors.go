package interpreter

import (
	"fmt"
	"strings"

	"github.com/mayaaleahanne/CORE-Programming-Language/pkg/token"
)

// CallNote locates one active call at the time of a runtime error.
type CallNote struct {
	Procedure string
	Pos       token.Position
}

// RuntimeError is a fatal execution error. Calls lists the active call sites,
// innermost first.
type RuntimeError struct {
	Message string
	Pos     token.Position
	Calls   []CallNote
	Err     error
}

func (e *RuntimeError) Error() string {
	var b strings.Builder
	if loc := e.Pos.String(); loc != "" {
		fmt.Fprintf(&b, "runtime: %s: %s", loc, e.Message)
	} else {
		fmt.Fprintf(&b, "runtime: %s", e.Message)
	}
	for _, call := range e.Calls {
		if loc := call.Pos.String(); loc != "" {
			fmt.Fprintf(&b, "\nnote: %s: called from here (%s)", loc, call.Procedure)
		} else {
			fmt.Fprintf(&b, "\nnote: called from here (%s)", call.Procedure)
		}
	}
	return b.String()
}

func (e *RuntimeError) Unwrap() error { return e.Err }
