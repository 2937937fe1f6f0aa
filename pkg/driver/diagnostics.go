package driver

import (
	"errors"
	"fmt"
	"strings"

	"github.com/mayaaleahanne/CORE-Programming-Language/pkg/interpreter"
	"github.com/mayaaleahanne/CORE-Programming-Language/pkg/lexer"
	"github.com/mayaaleahanne/CORE-Programming-Language/pkg/parser"
	"github.com/mayaaleahanne/CORE-Programming-Language/pkg/semantic"
	"github.com/mayaaleahanne/CORE-Programming-Language/pkg/token"
)

// DiagnosticSeverity captures diagnostic levels. Core has no warnings.
type DiagnosticSeverity string

const SeverityError DiagnosticSeverity = "error"

// Stage names the pipeline step that produced a diagnostic.
type Stage string

const (
	StageLexer    Stage = "lexer"
	StageParser   Stage = "parser"
	StageSemantic Stage = "semantic"
	StageRuntime  Stage = "runtime"
	StageIO       Stage = "io"
)

// DiagnosticLocation references a source position.
type DiagnosticLocation struct {
	Path   string
	Line   int
	Column int
}

// DiagnosticNote adds context, such as an active call site.
type DiagnosticNote struct {
	Message  string
	Location DiagnosticLocation
}

// Diagnostic is one reportable problem.
type Diagnostic struct {
	Stage    Stage
	Severity DiagnosticSeverity
	Message  string
	Location DiagnosticLocation
	Notes    []DiagnosticNote
}

// Diagnose converts a pipeline error into diagnostics. Semantic errors yield
// one diagnostic per queued message. path labels locations that carry no
// file name of their own.
func Diagnose(path string, err error) []Diagnostic {
	if err == nil {
		return nil
	}
	var (
		lexErr   *lexer.Error
		parseErr *parser.ParseError
		semErr   *semantic.Error
		runErr   *interpreter.RuntimeError
	)
	switch {
	case errors.As(err, &lexErr):
		file := lexErr.File
		if file == "" {
			file = path
		}
		return []Diagnostic{{
			Stage:    StageLexer,
			Severity: SeverityError,
			Message:  lexErr.Message,
			Location: location(file, lexErr.Pos),
		}}
	case errors.As(err, &parseErr):
		return []Diagnostic{{
			Stage:    StageParser,
			Severity: SeverityError,
			Message:  parseErr.Detail(),
			Location: location(path, parseErr.Pos),
		}}
	case errors.As(err, &semErr):
		diags := make([]Diagnostic, len(semErr.Messages))
		for i, msg := range semErr.Messages {
			diags[i] = Diagnostic{
				Stage:    StageSemantic,
				Severity: SeverityError,
				Message:  msg,
				Location: DiagnosticLocation{Path: path},
			}
		}
		return diags
	case errors.As(err, &runErr):
		diag := Diagnostic{
			Stage:    StageRuntime,
			Severity: SeverityError,
			Message:  runErr.Message,
			Location: location(path, runErr.Pos),
		}
		for _, call := range runErr.Calls {
			diag.Notes = append(diag.Notes, DiagnosticNote{
				Message:  fmt.Sprintf("called from here (%s)", call.Procedure),
				Location: location(path, call.Pos),
			})
		}
		return []Diagnostic{diag}
	}
	return []Diagnostic{{Stage: StageIO, Severity: SeverityError, Message: err.Error()}}
}

func location(path string, pos token.Position) DiagnosticLocation {
	return DiagnosticLocation{Path: path, Line: pos.Line, Column: pos.Column}
}

// Prefix is the "stage: " lead of a rendered diagnostic.
func (d Diagnostic) Prefix() string {
	return fmt.Sprintf("%s: ", d.Stage)
}

// Body renders the location, message and notes without the prefix.
func (d Diagnostic) Body() string {
	var b strings.Builder
	if loc := formatDiagnosticLocation(d.Location); loc != "" {
		fmt.Fprintf(&b, "%s %s", loc, d.Message)
	} else {
		b.WriteString(d.Message)
	}
	for _, note := range d.Notes {
		if loc := formatDiagnosticLocation(note.Location); loc != "" {
			fmt.Fprintf(&b, "\nnote: %s %s", loc, note.Message)
		} else {
			fmt.Fprintf(&b, "\nnote: %s", note.Message)
		}
	}
	return b.String()
}

// Describe formats a diagnostic for CLI output.
func Describe(d Diagnostic) string { return d.Prefix() + d.Body() }

func formatDiagnosticLocation(loc DiagnosticLocation) string {
	path := strings.TrimSpace(loc.Path)
	switch {
	case path != "" && loc.Line > 0 && loc.Column > 0:
		return fmt.Sprintf("%s:%d:%d:", path, loc.Line, loc.Column)
	case path != "" && loc.Line > 0:
		return fmt.Sprintf("%s:%d:", path, loc.Line)
	case path != "":
		return path + ":"
	case loc.Line > 0 && loc.Column > 0:
		return fmt.Sprintf("line %d, column %d:", loc.Line, loc.Column)
	default:
		return ""
	}
}
