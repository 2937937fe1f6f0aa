package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/mayaaleahanne/CORE-Programming-Language/pkg/config"
	"github.com/mayaaleahanne/CORE-Programming-Language/pkg/driver"
)

const cliToolVersion = "core-cli 0.1.0-dev"

var errManifestNotFound = errors.New(driver.ManifestName + " not found")

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	return newApp(os.Stdout, os.Stderr).execute(args)
}

// app carries the state shared by every subcommand.
type app struct {
	stdout io.Writer
	stderr io.Writer

	configPath string
	verbose    bool
	colorMode  string

	cfg    *config.Config
	logger *slog.Logger
	// label names the program being processed in diagnostics.
	label string
	// prompt reads one line of interactive input; nil uses a terminal.
	prompt func(string) (string, error)
}

func newApp(stdout, stderr io.Writer) *app {
	return &app{stdout: stdout, stderr: stderr}
}

func (a *app) execute(args []string) int {
	root := a.rootCommand()
	root.SetArgs(args)
	root.SetOut(a.stdout)
	root.SetErr(a.stderr)
	if err := root.Execute(); err != nil {
		a.report(err)
		return 1
	}
	return 0
}

func (a *app) rootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "core",
		Short:         "Run and inspect Core programs",
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup()
		},
	}
	flags := root.PersistentFlags()
	flags.StringVar(&a.configPath, "config", "", "config file (default: $XDG_CONFIG_HOME/corelang/config.toml)")
	flags.BoolVarP(&a.verbose, "verbose", "v", false, "debug logging on stderr")
	flags.StringVar(&a.colorMode, "color", "", "colour diagnostics: auto, always or never")

	root.AddCommand(
		a.runCommand(),
		a.checkCommand(),
		a.fmtCommand(),
		a.treeCommand(),
		a.tokensCommand(),
		a.versionCommand(),
	)
	return root
}

func (a *app) setup() error {
	cfg, err := config.LoadOptional(a.configPath)
	if err != nil {
		return err
	}
	if a.colorMode != "" {
		cfg.Output.Color = a.colorMode
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("--color: %w", err)
		}
	}
	a.cfg = cfg
	a.logger = cfg.Logger(a.stderr, a.verbose).With("run_id", uuid.NewString())
	return nil
}

// report prints err as diagnostics on stderr.
func (a *app) report(err error) {
	prefix := color.New(color.FgRed, color.Bold)
	mode := "auto"
	if a.cfg != nil {
		mode = a.cfg.Output.Color
	}
	switch mode {
	case "always":
		prefix.EnableColor()
	case "never":
		prefix.DisableColor()
	}
	for _, diag := range driver.Diagnose(a.label, err) {
		prefix.Fprint(a.stderr, strings.TrimSuffix(diag.Prefix(), " "))
		fmt.Fprintf(a.stderr, " %s\n", diag.Body())
	}
}
