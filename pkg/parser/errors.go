package parser

import (
	"fmt"
	"strings"

	"github.com/mayaaleahanne/CORE-Programming-Language/pkg/ast"
	"github.com/mayaaleahanne/CORE-Programming-Language/pkg/token"
)

// ParseError reports the first syntax error of a parse.
type ParseError struct {
	Rule     ast.Kind
	Expected []token.Kind
	Found    token.Token
	Pos      token.Position
}

func newParseError(rule ast.Kind, expected []token.Kind, found token.Token) *ParseError {
	return &ParseError{Rule: rule, Expected: expected, Found: found, Pos: found.Pos}
}

// Detail is the message without the stage prefix or location.
func (e *ParseError) Detail() string {
	return fmt.Sprintf("parsing %s: expected %s, found %s", e.Rule, expectedList(e.Expected), e.Found)
}

func (e *ParseError) Error() string {
	msg := e.Detail()
	if loc := e.Pos.String(); loc != "" {
		return fmt.Sprintf("parser: %s: %s", loc, msg)
	}
	return "parser: " + msg
}

func expectedList(kinds []token.Kind) string {
	names := make([]string, len(kinds))
	for i, k := range kinds {
		names[i] = k.String()
	}
	switch len(names) {
	case 0:
		return "nothing"
	case 1:
		return names[0]
	}
	return strings.Join(names[:len(names)-1], ", ") + " or " + names[len(names)-1]
}
