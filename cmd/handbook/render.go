package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	flag "github.com/spf13/pflag"
	"golang.org/x/sync/errgroup"

	handbook "github.com/alnah/go-handbook"
	"github.com/alnah/go-handbook/internal/assets"
	"github.com/alnah/go-handbook/internal/config"
	"github.com/alnah/go-handbook/internal/hints"
	"github.com/alnah/go-handbook/internal/logging"
	"github.com/alnah/go-handbook/internal/server"
)

// Sentinel errors for rendering.
var (
	ErrNoInput      = errors.New("no markdown files found")
	ErrReadMarkdown = errors.New("failed to read markdown")
	ErrWriteHTML    = errors.New("failed to write HTML")
	ErrPoolClosed   = errors.New("renderer pool closed")
)

// File permissions for rendered output.
const (
	dirPermissions  = 0o750
	filePermissions = 0o644
)

// siteLayout carries what every rendered document shares.
type siteLayout struct {
	cfg   *config.Config
	style string
}

// RenderResult holds the outcome of rendering one page.
type RenderResult struct {
	InputPath  string
	OutputPath string
	Err        error
	Duration   time.Duration
}

// runRender renders every page under the positional inputs to HTML files.
func runRender(ctx context.Context, args []string, env *Environment) error {
	flags, inputs, err := parseRenderFlags(args, env.Stdout)
	if errors.Is(err, flag.ErrHelp) {
		return nil
	}
	if err != nil {
		return err
	}
	if len(inputs) == 0 {
		printRenderUsage(env.Stderr)
		return fmt.Errorf("%w: render needs a file or directory", ErrUsage)
	}

	envCfg := loadEnvConfig()
	warnUnknownEnvVars(env.Stderr)

	logger := logging.BuildLogger(renderLogLevel(flags, envCfg), env.Stderr)
	defer configureMaxProcs(logger)()

	cfg, err := loadSiteConfig(flags.common.config, envCfg)
	if err != nil {
		return err
	}

	files, err := discoverAll(inputs, firstNonEmpty(flags.output, envCfg.OutputDir))
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return fmt.Errorf("%w%s", ErrNoInput, hints.ForEmptyInput())
	}

	poolSize := handbook.ResolvePoolSize(firstPositive(flags.workers, envCfg.Workers))
	opts := rendererOptions(cfg, flags.noHeadingPlugin, firstPositive(flags.timeout, envCfg.Timeout))
	pool, err := handbook.NewRendererPool(poolSize, opts...)
	if err != nil {
		return err
	}
	defer func() { _ = pool.Close() }()

	logger.Debug("rendering", "pages", len(files), "workers", pool.Size())

	style, err := assets.LoadTheme(cfg.ThemeDir, cfg.Theme)
	if err != nil {
		return fmt.Errorf("loading theme: %w", err)
	}

	results := renderBatch(ctx, pool, files, &siteLayout{cfg: cfg, style: style}, logger)
	if failed := printResults(results, flags.quiet, flags.verbose, env); failed > 0 {
		return fmt.Errorf("%d of %d pages failed: %w", failed, len(results), firstError(results))
	}
	return nil
}

// rendererOptions builds renderer options from the site config and flags.
func rendererOptions(cfg *config.Config, noHeadingPlugin bool, timeout time.Duration) []handbook.Option {
	opts := []handbook.Option{handbook.WithSubMaxLevel(cfg.SubMaxLevel)}
	if timeout > 0 {
		opts = append(opts, handbook.WithTimeout(timeout))
	}
	if noHeadingPlugin {
		opts = append(opts, handbook.WithoutDefaultPlugins())
	}
	return opts
}

// renderBatch renders files concurrently, bounded by the pool size.
// Results keep the order of files.
func renderBatch(ctx context.Context, pool *handbook.RendererPool, files []FileToRender, site *siteLayout, logger *slog.Logger) []RenderResult {
	results := make([]RenderResult, len(files))

	var g errgroup.Group
	g.SetLimit(pool.Size())

	for i, f := range files {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				results[i] = RenderResult{InputPath: f.InputPath, OutputPath: f.OutputPath, Err: err}
				return nil
			}

			r := pool.Acquire()
			if r == nil {
				results[i] = RenderResult{InputPath: f.InputPath, OutputPath: f.OutputPath, Err: ErrPoolClosed}
				return nil
			}
			defer pool.Release(r)

			results[i] = renderFile(ctx, r, f, site)
			if results[i].Err != nil {
				logger.Debug("page failed", "path", f.InputPath, "error", results[i].Err)
			}
			return nil
		})
	}

	_ = g.Wait()
	return results
}

// renderFile renders one page and writes it as a standalone document.
func renderFile(ctx context.Context, r *handbook.Renderer, f FileToRender, site *siteLayout) RenderResult {
	start := time.Now()
	result := RenderResult{InputPath: f.InputPath, OutputPath: f.OutputPath}

	content, err := os.ReadFile(f.InputPath) // #nosec G304 -- path from discovery
	if err != nil {
		result.Err = fmt.Errorf("%w: %v", ErrReadMarkdown, err)
		return result
	}

	page, err := r.Render(ctx, handbook.Input{Path: f.InputPath, Markdown: string(content)})
	if errors.Is(err, handbook.ErrEmptyMarkdown) {
		page, err = &handbook.Page{Path: f.InputPath}, nil
	}
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			err = fmt.Errorf("%w%s", err, hints.ForTimeout())
		}
		result.Err = err
		return result
	}

	var buf bytes.Buffer
	data := server.PageData{
		SiteName: site.cfg.Name,
		Repo:     site.cfg.Repo,
		Title:    page.Title,
		Style:    template.CSS(site.style), // #nosec G203 -- theme files are trusted site assets
		// #nosec G203 -- goldmark renders without raw HTML, outline text is escaped
		Content: template.HTML(page.HTML),
		Outline: template.HTML(page.SidebarHTML()),
	}
	if err := server.WritePage(&buf, data); err != nil {
		result.Err = fmt.Errorf("writing page layout: %w", err)
		return result
	}

	if err := os.MkdirAll(filepath.Dir(f.OutputPath), dirPermissions); err != nil {
		result.Err = fmt.Errorf("%w: %v%s", ErrWriteHTML, err, hints.ForOutputDirectory())
		return result
	}
	if err := os.WriteFile(f.OutputPath, buf.Bytes(), filePermissions); err != nil { // #nosec G306 -- rendered pages are public
		result.Err = fmt.Errorf("%w: %v", ErrWriteHTML, err)
		return result
	}

	result.Duration = time.Since(start)
	return result
}

// firstError returns the first failure in results.
func firstError(results []RenderResult) error {
	for _, r := range results {
		if r.Err != nil {
			return r.Err
		}
	}
	return nil
}

// ResultSummary holds the count of succeeded and failed pages.
type ResultSummary struct {
	Succeeded int
	Failed    int
}

// countResults tallies succeeded and failed pages.
func countResults(results []RenderResult) ResultSummary {
	var summary ResultSummary
	for _, r := range results {
		if r.Err != nil {
			summary.Failed++
		} else {
			summary.Succeeded++
		}
	}
	return summary
}

// printResults reports each page and returns the failure count.
func printResults(results []RenderResult, quiet, verbose bool, env *Environment) int {
	summary := countResults(results)

	for _, r := range results {
		if r.Err != nil {
			fmt.Fprintf(env.Stderr, "FAILED %s: %v\n", r.InputPath, r.Err)
			continue
		}

		if quiet {
			continue
		}

		if verbose {
			fmt.Fprintf(env.Stdout, "%s -> %s (%v)\n", r.InputPath, r.OutputPath, r.Duration.Round(time.Millisecond))
		} else {
			fmt.Fprintf(env.Stdout, "Created %s\n", r.OutputPath)
		}
	}

	if !quiet && len(results) > 1 {
		fmt.Fprintf(env.Stdout, "\n%d succeeded, %d failed\n", summary.Succeeded, summary.Failed)
	}

	return summary.Failed
}
