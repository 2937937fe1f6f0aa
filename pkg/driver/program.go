// Package driver wires the Core pipeline together: it loads project
// manifests, fetches program sources, runs lexer, parser, checker and
// interpreter, and turns their errors into diagnostics.
package driver

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/mayaaleahanne/CORE-Programming-Language/pkg/ast"
	"github.com/mayaaleahanne/CORE-Programming-Language/pkg/interpreter"
	"github.com/mayaaleahanne/CORE-Programming-Language/pkg/lexer"
	"github.com/mayaaleahanne/CORE-Programming-Language/pkg/parser"
	"github.com/mayaaleahanne/CORE-Programming-Language/pkg/semantic"
	"github.com/mayaaleahanne/CORE-Programming-Language/pkg/token"
)

// Program is a parsed and checked Core program.
type Program struct {
	Name       string
	Root       *ast.Node
	Procedures *semantic.Registry
}

// Parse lexes and parses src without stopping on semantic errors. The
// returned program is nil only for lexical or syntax errors.
func Parse(name string, src io.Reader, logger *slog.Logger) (*Program, error) {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	scanner, err := lexer.New(name, src)
	if err != nil {
		return nil, err
	}
	checker := semantic.NewChecker(semantic.WithLogger(logger))
	root, err := parser.New(parser.WithLogger(logger)).Parse(scanner, checker)
	if root == nil {
		return nil, err
	}
	return &Program{Name: name, Root: root, Procedures: checker.Registry()}, err
}

// Check is Parse that treats semantic errors as fatal.
func Check(name string, src io.Reader, logger *slog.Logger) (*Program, error) {
	prog, err := Parse(name, src, logger)
	if err != nil {
		return nil, err
	}
	return prog, nil
}

// CheckFile reads and checks the program at path.
func CheckFile(path string, logger *slog.Logger) (*Program, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("driver: read %s: %w", path, err)
	}
	return Check(path, bytes.NewReader(data), logger)
}

// Run executes the program.
func (p *Program) Run(opts interpreter.Options) error {
	return interpreter.New(p.Procedures, opts).Run(p.Root)
}

// OpenData returns a token source over the data file at path. An empty path
// yields an empty input.
func OpenData(path string) (token.Source, io.Closer, error) {
	if path == "" {
		return nil, io.NopCloser(nil), nil
	}
	file, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("driver: open data %s: %w", path, err)
	}
	src, err := lexer.New(path, file)
	if err != nil {
		file.Close()
		return nil, nil, err
	}
	return src, file, nil
}

// Execute checks and runs the program at programPath with data from
// dataPath.
func Execute(programPath, dataPath string, opts interpreter.Options) error {
	prog, err := CheckFile(programPath, opts.Logger)
	if err != nil {
		return err
	}
	input, closer, err := OpenData(dataPath)
	if err != nil {
		return err
	}
	defer closer.Close()
	if opts.Input == nil {
		opts.Input = input
	}
	return prog.Run(opts)
}
