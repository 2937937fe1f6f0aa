package main

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/peterh/liner"
	"github.com/spf13/cobra"

	"github.com/mayaaleahanne/CORE-Programming-Language/pkg/ast"
	"github.com/mayaaleahanne/CORE-Programming-Language/pkg/driver"
	"github.com/mayaaleahanne/CORE-Programming-Language/pkg/interpreter"
	"github.com/mayaaleahanne/CORE-Programming-Language/pkg/lexer"
	"github.com/mayaaleahanne/CORE-Programming-Language/pkg/token"
)

// target is a program selected by arguments, a git source or a manifest.
type target struct {
	label    string
	path     string
	src      []byte
	dataPath string
	manifest *driver.Manifest
}

func (a *app) resolveTarget(ctx context.Context, args []string, gitURL, rev string) (*target, error) {
	var t target
	switch {
	case gitURL != "":
		if len(args) == 0 {
			return nil, fmt.Errorf("--git needs the program path inside the repository")
		}
		src, commit, err := driver.FetchGitFile(ctx, gitURL, rev, args[0])
		if err != nil {
			return nil, err
		}
		t.label = fmt.Sprintf("%s@%.12s:%s", gitURL, commit, args[0])
		t.src = src
	case len(args) > 0:
		src, err := os.ReadFile(args[0])
		if err != nil {
			return nil, err
		}
		t.label, t.path, t.src = args[0], args[0], src
	default:
		path, err := driver.FindManifest(".")
		if err != nil {
			return nil, fmt.Errorf("%w: pass a program file or create one", errManifestNotFound)
		}
		manifest, err := driver.LoadManifest(path)
		if err != nil {
			return nil, err
		}
		label, src, err := manifest.LoadSource(ctx)
		if err != nil {
			return nil, err
		}
		t.label, t.src, t.manifest = label, src, manifest
		if manifest.Source == nil {
			t.path = label
		}
		t.dataPath = manifest.DataPath()
		a.logger.Debug("manifest", "name", manifest.Name, "path", path)
	}
	if len(args) > 1 {
		t.dataPath = args[1]
	}
	a.label = t.label
	return &t, nil
}

func (a *app) runCommand() *cobra.Command {
	var (
		gitURL      string
		rev         string
		interactive bool
		noGCLog     bool
		maxDepth    int
	)
	cmd := &cobra.Command{
		Use:   "run [program [data]]",
		Short: "Check and execute a program",
		Long: "Check and execute a program. Without arguments the program and data named by\n" +
			"the nearest " + driver.ManifestName + " are used.",
		Args: cobra.MaximumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := a.resolveTarget(cmd.Context(), args, gitURL, rev)
			if err != nil {
				return err
			}
			prog, err := driver.Check(t.label, bytes.NewReader(t.src), a.logger)
			if err != nil {
				return err
			}

			opts := interpreter.Options{Stdout: a.stdout, Logger: a.logger}
			gcLog := a.cfg.Run.GCLog
			opts.MaxCallDepth = a.cfg.Run.MaxCallDepth
			if t.manifest != nil {
				if v := t.manifest.Options.GCLog; v != nil {
					gcLog = *v
				}
				if v := t.manifest.Options.MaxCallDepth; v != nil {
					opts.MaxCallDepth = *v
				}
			}
			if noGCLog {
				gcLog = false
			}
			if cmd.Flags().Changed("max-depth") {
				opts.MaxCallDepth = maxDepth
			}
			if !gcLog {
				opts.GCLog = io.Discard
			}

			if interactive {
				prompt := a.prompt
				if prompt == nil {
					ln := liner.NewLiner()
					defer ln.Close()
					ln.SetCtrlCAborts(true)
					prompt = ln.Prompt
				}
				opts.Input = newPromptSource("stdin", prompt)
			} else {
				input, closer, err := driver.OpenData(t.dataPath)
				if err != nil {
					return err
				}
				defer closer.Close()
				opts.Input = input
			}

			a.logger.Debug("execute", "program", t.label, "data", t.dataPath, "max_call_depth", opts.MaxCallDepth)
			return prog.Run(opts)
		},
	}
	flags := cmd.Flags()
	flags.StringVar(&gitURL, "git", "", "fetch the program from this git repository")
	flags.StringVar(&rev, "rev", "", "git revision to check out (default HEAD)")
	flags.BoolVarP(&interactive, "interactive", "i", false, "read input values from the terminal")
	flags.BoolVar(&noGCLog, "no-gc-log", false, "suppress gc:<n> lines")
	flags.IntVar(&maxDepth, "max-depth", 0, "maximum procedure call depth (negative for unlimited)")
	return cmd
}

func (a *app) checkCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "check [program]",
		Short: "Parse and check a program without running it",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := a.resolveTarget(cmd.Context(), args, "", "")
			if err != nil {
				return err
			}
			prog, err := driver.Check(t.label, bytes.NewReader(t.src), a.logger)
			if err != nil {
				return err
			}
			fmt.Fprintf(a.stdout, "%s: ok (%d procedures)\n", t.label, len(prog.Procedures.Names()))
			return nil
		},
	}
}

func (a *app) fmtCommand() *cobra.Command {
	var write bool
	cmd := &cobra.Command{
		Use:   "fmt [program]",
		Short: "Print a program in canonical layout",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := a.resolveTarget(cmd.Context(), args, "", "")
			if err != nil {
				return err
			}
			prog, err := driver.Parse(t.label, bytes.NewReader(t.src), a.logger)
			if prog == nil {
				return err
			}
			formatted := ast.FormatString(prog.Root)
			if write {
				if t.path == "" {
					return fmt.Errorf("fmt: -w needs a local program file")
				}
				return os.WriteFile(t.path, []byte(formatted), 0o644)
			}
			_, err = io.WriteString(a.stdout, formatted)
			return err
		},
	}
	cmd.Flags().BoolVarP(&write, "write", "w", false, "rewrite the program file in place")
	return cmd
}

func (a *app) treeCommand() *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "tree [program]",
		Short: "Dump the parse tree",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := a.resolveTarget(cmd.Context(), args, "", "")
			if err != nil {
				return err
			}
			prog, err := driver.Parse(t.label, bytes.NewReader(t.src), a.logger)
			if prog == nil {
				return err
			}
			switch format {
			case "yaml":
				out, err := ast.DumpYAML(prog.Root)
				if err != nil {
					return err
				}
				_, err = a.stdout.Write(out)
				return err
			case "text":
				writeOutline(a.stdout, prog.Root, 0)
				return nil
			}
			return fmt.Errorf("tree: unknown format %q (want yaml or text)", format)
		},
	}
	cmd.Flags().StringVar(&format, "format", "text", "output format: text or yaml")
	return cmd
}

func writeOutline(w io.Writer, n *ast.Node, depth int) {
	indent := strings.Repeat("  ", depth)
	if n.IsTerminal() {
		fmt.Fprintf(w, "%s%q\n", indent, n.Text())
		return
	}
	fmt.Fprintf(w, "%s%s\n", indent, n.Kind())
	for _, child := range n.Children() {
		writeOutline(w, child, depth+1)
	}
}

func (a *app) tokensCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "tokens [program]",
		Short: "Print the token stream",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := a.resolveTarget(cmd.Context(), args, "", "")
			if err != nil {
				return err
			}
			scanner, err := lexer.New(t.label, bytes.NewReader(t.src))
			if err != nil {
				return err
			}
			toks, err := lexer.All(scanner)
			for _, tok := range toks {
				if tok.Kind == token.EOS {
					fmt.Fprintf(a.stdout, "%s\t%s\n", tok.Pos, tok.Kind)
					continue
				}
				fmt.Fprintf(a.stdout, "%s\t%s\t%s\n", tok.Pos, tok.Kind, tok.Literal())
			}
			return err
		},
	}
}

func (a *app) versionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the CLI version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(a.stdout, cliToolVersion)
		},
	}
}
