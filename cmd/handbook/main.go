package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"go.uber.org/automaxprocs/maxprocs"

	"github.com/alnah/go-handbook/internal/config"
	"github.com/alnah/go-handbook/internal/fileutil"
	"github.com/alnah/go-handbook/internal/hints"
)

// Version is set at build time via ldflags.
var Version = "dev"

func main() {
	os.Exit(runMain(os.Args[1:], DefaultEnv()))
}

// runMain runs the command line and maps the outcome to an exit code.
func runMain(args []string, env *Environment) int {
	ctx, stop := notifyContext(context.Background())
	defer stop()

	err := run(ctx, args, env)
	if err != nil {
		fmt.Fprintln(env.Stderr, err)
	}
	return exitCodeFor(err)
}

// run dispatches to a command.
func run(ctx context.Context, args []string, env *Environment) error {
	if len(args) == 0 {
		printUsage(env.Stderr)
		return fmt.Errorf("%w: missing command", ErrUsage)
	}

	cmd, rest := args[0], args[1:]
	switch cmd {
	case "render":
		return runRender(ctx, rest, env)
	case "serve":
		return runServe(ctx, rest, env)
	case "init":
		return runInit(rest, env)
	case "completion":
		return runCompletion(rest, env)
	case "version", "--version":
		fmt.Fprintf(env.Stdout, "handbook %s\n", Version)
		return nil
	case "help", "-h", "--help":
		return runHelp(rest, env)
	default:
		printUsage(env.Stderr)
		return fmt.Errorf("%w: unknown command %q", ErrUsage, cmd)
	}
}

// loadSiteConfig loads the named config, or the defaults when name is empty.
func loadSiteConfig(name string, env *envConfig) (*config.Config, error) {
	name = firstNonEmpty(name, env.ConfigPath)

	var cfg *config.Config
	if name == "" {
		cfg = config.DefaultConfig()
	} else {
		loaded, err := config.LoadConfig(name)
		if err != nil {
			if errors.Is(err, config.ErrConfigNotFound) && !fileutil.IsFilePath(name) {
				return nil, fmt.Errorf("%w%s", err, hints.ForConfigNotFound(config.SearchPaths(name), config.AppName))
			}
			return nil, err
		}
		cfg = loaded
	}

	applyEnvConfig(env, cfg)
	return cfg, nil
}

// configureMaxProcs sets GOMAXPROCS from the container CPU quota and
// returns the function restoring the previous value.
// Errors are logged: maxprocs.Set only fails on an invalid GOMAXPROCS env,
// in which case the runtime default applies.
func configureMaxProcs(logger *slog.Logger) func() {
	undo, err := maxprocs.Set(maxprocs.Logger(func(format string, args ...any) {
		logger.Debug(fmt.Sprintf(format, args...))
	}))
	if err != nil {
		logger.Warn("maxprocs not applied", "error", err)
		return func() {}
	}
	return undo
}
