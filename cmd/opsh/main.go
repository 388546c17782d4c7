// opsh is an interactive hierarchical command shell.
//
// With no arguments it reads command lines at a prompt, with tab
// completion and '?' help. With arguments it dispatches them as a
// single command and exits. The built-in tree administers jobs and
// users.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/psaab/opsh/pkg/cli"
)

// binFlags holds the binary's own flags, separate from dispatcher
// tokens.
type binFlags struct {
	historyFile string
	metricsAddr string
	debug       bool
}

func main() {
	// A --help or -h anywhere in the arguments is a help query for
	// the path before the final slot, not a request for flag usage,
	// so it is answered before flag parsing can intercept it.
	args := os.Args[1:]
	if hasHelpMarker(args) {
		sh, err := newShell(cli.Options{})
		if err != nil {
			fatal(err)
		}
		if err := sh.ShowHelp(args[:len(args)-1]); err != nil {
			fatal(err)
		}
		return
	}

	bf, tokens := parseArgs(args)

	logLevel := slog.LevelInfo
	if bf.debug {
		logLevel = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel,
	})))

	sh, err := newShell(cli.Options{HistoryFile: bf.historyFile})
	if err != nil {
		fatal(err)
	}

	if bf.metricsAddr != "" {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		go func() {
			if err := sh.ServeMetrics(ctx, bf.metricsAddr); err != nil {
				slog.Error("metrics server failed", "err", err)
			}
		}()
	}

	if len(tokens) > 0 {
		if err := sh.Execute(tokens); err != nil {
			fatal(err)
		}
		return
	}

	if err := sh.Run(); err != nil {
		fatal(err)
	}
}

// parseArgs separates the binary's own flags from dispatcher tokens.
// Dispatcher options may open the argument list (--nice 5 jobs start),
// so an argument the flag set does not recognize hands the whole list
// to the dispatcher untouched, with every flag at its zero value,
// instead of aborting the process.
func parseArgs(args []string) (binFlags, []string) {
	var bf binFlags
	fs := flag.NewFlagSet("opsh", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.StringVar(&bf.historyFile, "history-file", "/tmp/opsh_history", "readline history file")
	fs.StringVar(&bf.metricsAddr, "metrics-addr", "", "Prometheus metrics listen address (empty to disable)")
	fs.BoolVar(&bf.debug, "debug", false, "enable debug logging")

	if err := fs.Parse(args); err != nil {
		return binFlags{}, args
	}
	return bf, fs.Args()
}

func newShell(opts cli.Options) (*cli.Shell, error) {
	opts.Tree = commandTree(os.Stdout)
	return cli.New(opts)
}

// hasHelpMarker reports whether any argument is the --help or -h
// help marker.
func hasHelpMarker(args []string) bool {
	for _, a := range args {
		if a == "--help" || a == "-h" {
			return true
		}
	}
	return false
}

func fatal(err error) {
	fmt.Fprintf(os.Stderr, "opsh: %v\n", err)
	os.Exit(1)
}
