// Package cli implements the switchcase command.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/funvibe/switchcase/internal/config"
	"github.com/funvibe/switchcase/internal/manifest"
)

// errPrinted marks an error already reported to the user.
var errPrinted = errors.New("terminating because of errors")

// env is the state shared by all subcommands.
type env struct {
	stdout, stderr io.Writer

	configPath string
	verbose    bool
	noColor    bool
}

func (e *env) logger() *log.Logger {
	if !e.verbose {
		return log.New(io.Discard, "", 0)
	}
	return log.New(e.stderr, "", 0)
}

// color reports whether stdout is a terminal that accepts ANSI colours.
func (e *env) color() bool {
	if e.noColor {
		return false
	}
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return false
	}
	f, ok := e.stdout.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func (e *env) paint(code, s string) string {
	if !e.color() {
		return s
	}
	return "\x1b[" + code + "m" + s + "\x1b[0m"
}

func (e *env) ok() string   { return e.paint("32", "✓") }
func (e *env) fail() string { return e.paint("31", "✗") }

// loadManifest reads --config, or finds switchcase.yaml from the working
// directory upwards.
func (e *env) loadManifest() (*manifest.Manifest, string, error) {
	path := e.configPath
	if path == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, "", fmt.Errorf("cannot determine working directory: %w", err)
		}
		found, err := manifest.FindManifest(cwd)
		if err != nil {
			return nil, "", err
		}
		if found == "" {
			return nil, "", fmt.Errorf("%s not found (or use --config)", config.ManifestFileNames[0])
		}
		path = found
	}
	m, err := manifest.LoadManifest(path)
	if err != nil {
		return nil, "", err
	}
	return m, path, nil
}

func newRootCmd(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "switchcase",
		Short: "switchcase resolves values against declared switch labels.",
		Long: `switchcase builds dispatch resolvers for the call points declared in
switchcase.yaml and answers which label a value selects.

A resolved value yields -1 when absent, the position of the first matching
label, or the label count when nothing matches.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.SetOut(e.stdout)
	cmd.SetErr(e.stderr)

	flags := cmd.PersistentFlags()
	flags.StringVar(&e.configPath, "config", "", "manifest path (default: search for switchcase.yaml)")
	flags.BoolVarP(&e.verbose, "verbose", "v", false, "log bind and request diagnostics to stderr")
	flags.BoolVar(&e.noColor, "no-color", false, "disable coloured output")

	cmd.AddCommand(
		newCheckCmd(e),
		newResolveCmd(e),
		newServeCmd(e),
		newCatalogCmd(e),
		newVersionCmd(e),
	)
	return cmd
}

// Run executes the command line args and reports errors to stderr.
func Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	e := &env{stdout: stdout, stderr: stderr}
	cmd := newRootCmd(e)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(ctx)
	if err != nil && err != errPrinted {
		fmt.Fprintf(stderr, "Error: %v\n", err)
	}
	return err
}

// Main runs the command and returns the code for passing to os.Exit.
func Main() int {
	log.SetFlags(0)
	log.SetOutput(os.Stderr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		return 1
	}
	return 0
}

func newVersionCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "print the switchcase version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintf(e.stdout, "switchcase %s\n", config.Version)
			return nil
		},
	}
}
