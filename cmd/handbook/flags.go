package main

import (
	"errors"
	"fmt"
	"io"
	"time"

	flag "github.com/spf13/pflag"
)

// ErrUsage marks invalid command lines.
var ErrUsage = errors.New("invalid usage")

// Default listen address of the preview server.
const defaultAddr = ":3000"

// commonFlags holds flags shared across commands.
type commonFlags struct {
	config   string
	logLevel string
}

// renderFlags holds all flags for the render command.
type renderFlags struct {
	common          commonFlags
	output          string
	workers         int
	timeout         time.Duration
	quiet           bool
	verbose         bool
	noHeadingPlugin bool
}

// serveFlags holds all flags for the serve command.
type serveFlags struct {
	common  commonFlags
	addr    string
	workers int
	noWatch bool
}

// addCommonFlags adds common flags to a FlagSet.
func addCommonFlags(fs *flag.FlagSet, f *commonFlags) {
	fs.StringVarP(&f.config, "config", "c", "", "config file name or path")
	fs.StringVar(&f.logLevel, "log-level", "", "log level: debug, info, warn, error")
}

// addRenderFlags registers the render command flags. Parsing and shell
// completion share it.
func addRenderFlags(fs *flag.FlagSet, f *renderFlags) {
	addCommonFlags(fs, &f.common)
	fs.StringVarP(&f.output, "output", "o", "", "output file or directory")
	fs.IntVarP(&f.workers, "workers", "w", 0, "parallel workers (0 = auto)")
	fs.DurationVarP(&f.timeout, "timeout", "t", 0, "per-page render timeout (e.g., 30s, 2m)")
	fs.BoolVarP(&f.quiet, "quiet", "q", false, "only show errors")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "show detailed timing")
	fs.BoolVar(&f.noHeadingPlugin, "no-heading-plugin", false, "keep heading levels as written")
}

// addServeFlags registers the serve command flags.
func addServeFlags(fs *flag.FlagSet, f *serveFlags) {
	addCommonFlags(fs, &f.common)
	fs.StringVarP(&f.addr, "addr", "a", "", "listen address (default "+defaultAddr+")")
	fs.IntVarP(&f.workers, "workers", "w", 0, "parallel renderers (0 = auto)")
	fs.BoolVar(&f.noWatch, "no-watch", false, "disable reload on file changes")
}

// newFlagSet builds a FlagSet whose usage and errors go to w.
func newFlagSet(name string, w io.Writer, usage func(io.Writer)) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(w)
	fs.Usage = func() { usage(w) }
	return fs
}

// parseRenderFlags parses render command flags and returns positional args.
// Returns flag.ErrHelp when -h was given; usage has been printed by then.
func parseRenderFlags(args []string, w io.Writer) (*renderFlags, []string, error) {
	fs := newFlagSet("render", w, printRenderUsage)
	f := &renderFlags{}
	addRenderFlags(fs, f)

	if err := fs.Parse(args); err != nil {
		return nil, nil, wrapFlagError(err)
	}
	if f.workers < 0 {
		return nil, nil, fmt.Errorf("%w: --workers must be >= 0, got %d", ErrUsage, f.workers)
	}
	if f.timeout < 0 {
		return nil, nil, fmt.Errorf("%w: --timeout must be positive, got %s", ErrUsage, f.timeout)
	}
	if f.quiet && f.verbose {
		return nil, nil, fmt.Errorf("%w: --quiet and --verbose are mutually exclusive", ErrUsage)
	}
	return f, fs.Args(), nil
}

// parseServeFlags parses serve command flags and returns positional args.
func parseServeFlags(args []string, w io.Writer) (*serveFlags, []string, error) {
	fs := newFlagSet("serve", w, printServeUsage)
	f := &serveFlags{}
	addServeFlags(fs, f)

	if err := fs.Parse(args); err != nil {
		return nil, nil, wrapFlagError(err)
	}
	if f.workers < 0 {
		return nil, nil, fmt.Errorf("%w: --workers must be >= 0, got %d", ErrUsage, f.workers)
	}
	return f, fs.Args(), nil
}

// wrapFlagError tags pflag parse errors as usage errors.
func wrapFlagError(err error) error {
	if errors.Is(err, flag.ErrHelp) {
		return err
	}
	return fmt.Errorf("%w: %v", ErrUsage, err)
}

// renderLogLevel picks the render log level: --log-level wins, then
// --verbose (debug) and --quiet (error). Default is warn so page results
// stay readable.
func renderLogLevel(f *renderFlags, env *envConfig) string {
	switch {
	case f.common.logLevel != "":
		return f.common.logLevel
	case f.verbose:
		return "debug"
	case f.quiet:
		return "error"
	case env.LogLevel != "":
		return env.LogLevel
	default:
		return "warn"
	}
}
