// Command ravenc is the CLI entry point (§1 data flow, terminal stage):
// it loads a build manifest, drives the middle-end, and renders the
// Compilation Queue's output. Argument handling is plain os.Args
// dispatch, the way cmd/funxy/main.go never reaches for a flag-parsing
// library either.
package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/BigBadE/Raven-Language-sub000/internal/backend"
	"github.com/BigBadE/Raven-Language-sub000/internal/buildfile"
	"github.com/BigBadE/Raven-Language-sub000/internal/driver"
	"github.com/BigBadE/Raven-Language-sub000/internal/frontend"
	"github.com/BigBadE/Raven-Language-sub000/internal/logging"
	"github.com/mattn/go-isatty"
)

func main() {
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "Internal error: %v\n", r)
			fmt.Fprintln(os.Stderr, "This is a bug. Please report it.")
			os.Exit(1)
		}
	}()

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	if os.Args[1] == "-h" || os.Args[1] == "--help" {
		printUsage()
		return
	}

	if err := run(os.Args[1]); err != nil {
		printError(err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Fprintln(os.Stderr, "usage: ravenc <manifest.yaml>")
}

// colorEnabled reports whether stdout is a real terminal, mirroring the
// teacher's internal/evaluator/builtins_term.go isatty check.
func colorEnabled() bool {
	return isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
}

func printError(err error) {
	if colorEnabled() {
		fmt.Fprintf(os.Stderr, "\x1b[31merror:\x1b[0m %v\n", err)
		return
	}
	fmt.Fprintf(os.Stderr, "error: %v\n", err)
}

func run(manifestPath string) error {
	manifest, err := buildfile.Load(manifestPath)
	if err != nil {
		return err
	}

	runID := logging.NewRunID()
	logger := logging.New(runID)
	logger.Info("compiling", "manifest", manifestPath, "sources", len(manifest.Sources))

	d := driver.New()
	d.Timeout = manifest.Timeout()
	d.EntryTimeout = manifest.EntryTimeout()
	d.Solver.MaxDepth = manifest.Solver.MaxDepth
	d.Solver.GoalCap = manifest.Solver.MaxGoals

	prog, err := loadProgram(manifest)
	if err != nil {
		return err
	}

	if _, err := d.Run(context.Background(), prog); err != nil {
		logger.Error("compile failed", "error", err)
		return err
	}

	logger.Info("compile finished", "functions", len(d.Queue.Order()))
	return backend.Emit(os.Stdout, d.Queue)
}

// loadProgram concatenates every source file the manifest lists and feeds
// the result through the frontend's literal-syntax parser.
func loadProgram(manifest *buildfile.File) (*driver.Program, error) {
	var combined strings.Builder
	for _, path := range manifest.Sources {
		text, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading source %s: %w", path, err)
		}
		combined.Write(text)
		combined.WriteByte('\n')
	}
	prog, err := frontend.ParseSource(combined.String())
	if err != nil {
		return nil, err
	}
	if manifest.Entry != "" {
		prog.EntryFunction = manifest.Entry
	}
	return prog, nil
}
