// Package app is the process bootstrap around the flagkit registry. It
// parses the command line exactly once, wires the logger from the standard
// logging flags, renders structured flag errors to stderr, and hands the
// positional arguments to the program's real main function. It consumes
// the registry's read API only; all parsing logic lives in flagkit.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"

	"github.com/vk/flagkit"
	"github.com/vk/flagkit/internal/ctxlog"
)

// ExitError carries a specific process exit code out of a realMain
// function.
type ExitError struct {
	Code    int
	Message string
}

func (e *ExitError) Error() string { return e.Message }

var (
	helpFlag = flagkit.Bool(flagkit.CommandLine, "help", false,
		"Show help for all key flags and exit.", flagkit.ShortName("h"))
	logLevel = flagkit.Enum(flagkit.CommandLine, "log-level", "info",
		[]string{"debug", "info", "warn", "error"},
		"Set the logging level.")
	logFormat = flagkit.Enum(flagkit.CommandLine, "log-format", "text",
		[]string{"text", "json"},
		"Log output format.")
)

// Run parses os.Args against the process-wide registry, then calls
// realMain with a context carrying the configured logger and the
// positional arguments (program name at index 0). It exits the process
// with 0 on success, 2 on a flag error, the carried code for an
// *ExitError, and 1 for any other failure.
func Run(realMain func(ctx context.Context, args []string) error) {
	os.Exit(run(os.Args, os.Stdout, os.Stderr, realMain))
}

// run is Run without the os.Exit, for tests.
func run(argv []string, outW, errW io.Writer, realMain func(ctx context.Context, args []string) error) int {
	args, err := flagkit.CommandLine.Parse(argv)
	if err != nil {
		printFlagError(errW, err)
		fmt.Fprintln(errW, "Run with --help to see the available flags.")
		return 2
	}

	if helpFlag.Get() {
		writeUsage(outW, argv[0], flagkit.CommandLine)
		return 0
	}

	logger := newLogger(logLevel.Get(), logFormat.Get(), errW)
	ctx := ctxlog.WithLogger(context.Background(), logger)

	if err := realMain(ctx, args); err != nil {
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			if exitErr.Message != "" {
				errorColor().Fprintln(errW, exitErr.Message)
			}
			return exitErr.Code
		}
		errorColor().Fprintf(errW, "fatal: %v\n", err)
		return 1
	}
	return 0
}

// printFlagError renders a structured parse failure. The registry never
// terminates the process itself; exit behavior is owned here.
func printFlagError(w io.Writer, err error) {
	errorColor().Fprintf(w, "error: %v\n", err)

	var unrecognized *flagkit.UnrecognizedFlagError
	if errors.As(err, &unrecognized) && len(unrecognized.Suggestions) > 0 {
		fmt.Fprintf(w, "Closest known flags: --%s\n", unrecognized.Suggestions[0])
	}
}

func errorColor() *color.Color {
	return color.New(color.FgRed, color.Bold)
}
