package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	flag "github.com/spf13/pflag"
	"golang.org/x/sync/errgroup"

	handbook "github.com/alnah/go-handbook"
	"github.com/alnah/go-handbook/internal/hints"
	"github.com/alnah/go-handbook/internal/logging"
	"github.com/alnah/go-handbook/internal/server"
	"github.com/alnah/go-handbook/internal/watch"
)

// contentWatcher reports content changes until its context is done.
type contentWatcher interface {
	Run(ctx context.Context) error
}

// newWatcher builds the serve-mode watcher. Tests replace it.
var newWatcher = func(root string, onChange func(paths []string), logger *slog.Logger) (contentWatcher, error) {
	return watch.New(root, onChange, watch.WithLogger(logger))
}

// runServe serves a handbook directory until ctx is canceled.
func runServe(ctx context.Context, args []string, env *Environment) error {
	flags, positional, err := parseServeFlags(args, env.Stdout)
	if errors.Is(err, flag.ErrHelp) {
		return nil
	}
	if err != nil {
		return err
	}
	if len(positional) != 1 {
		printServeUsage(env.Stderr)
		return fmt.Errorf("%w: serve needs exactly one directory", ErrUsage)
	}
	root := positional[0]

	info, err := os.Stat(root)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return fmt.Errorf("%w: %s is not a directory", ErrUsage, root)
	}

	envCfg := loadEnvConfig()
	warnUnknownEnvVars(env.Stderr)

	logger := logging.BuildLogger(firstNonEmpty(flags.common.logLevel, envCfg.LogLevel, "info"), env.Stderr)
	defer configureMaxProcs(logger)()

	cfg, err := loadSiteConfig(flags.common.config, envCfg)
	if err != nil {
		return err
	}

	poolSize := handbook.ResolvePoolSize(firstPositive(flags.workers, envCfg.Workers))
	pool, err := handbook.NewRendererPool(poolSize, rendererOptions(cfg, false, envCfg.Timeout)...)
	if err != nil {
		return err
	}
	defer func() { _ = pool.Close() }()

	srv, err := server.New(root, cfg, pool, logger)
	if err != nil {
		return err
	}

	var w contentWatcher
	if !flags.noWatch {
		w, err = newWatcher(root, func(paths []string) {
			logger.Info("content changed", "files", len(paths))
			srv.Invalidate(paths)
		}, logger)
		if err != nil {
			return fmt.Errorf("starting watcher: %w", err)
		}
	}

	addr := firstNonEmpty(flags.addr, envCfg.Addr, defaultAddr)
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := srv.ListenAndServe(gctx, addr); err != nil {
			return fmt.Errorf("%w%s", err, hints.ForListen(err, addr))
		}
		return nil
	})
	if w != nil {
		g.Go(func() error {
			return w.Run(gctx)
		})
	}

	logger.Debug("serving handbook", "root", root, "addr", addr, "watch", !flags.noWatch)
	return g.Wait()
}
