package handbook

import (
	"fmt"
	"time"

	"github.com/alnah/go-handbook/internal/pipeline"
)

// Hooks is the set of hooks plugins register on.
// Register with BeforeEach and AfterEach inside a Plugin.
type Hooks = pipeline.Hooks

// Plugin registers hooks on a renderer's Hooks.
type Plugin = pipeline.Plugin

// BeforeEachFunc transforms Markdown source before parsing.
type BeforeEachFunc = pipeline.BeforeEachFunc

// AfterEachFunc transforms rendered HTML and passes it to next, exactly once.
type AfterEachFunc = pipeline.AfterEachFunc

// OutlineEntry is one heading listed in a page sidebar.
type OutlineEntry = pipeline.OutlineEntry

// HeadingPlugin inserts an empty level-1 heading before a page's first
// level-1 heading, and shifts rendered h1-h5 tags down one level.
// Renderers install it unless WithoutDefaultPlugins is given.
var HeadingPlugin Plugin = pipeline.HeadingPlugin

// Input is one page to render.
type Input struct {
	Path     string // handbook route, e.g. "/guide/intro.md" (optional)
	Markdown string // raw Markdown source (required)
}

// Page is the rendered result of one Input.
type Page struct {
	Path    string
	Title   string         // first non-empty heading text
	HTML    string         // HTML fragment after every after-each hook
	Outline []OutlineEntry // sidebar headings, before after-each hooks
}

// SidebarHTML renders the page outline as nested sidebar lists.
func (p *Page) SidebarHTML() string {
	if p == nil {
		return ""
	}
	return pipeline.RenderOutline(p.Outline)
}

// Option configures a Renderer.
type Option func(*Renderer)

// rendererConfig holds internal configuration for Renderer.
type rendererConfig struct {
	timeout          time.Duration
	subMaxLevel      int
	plugins          []Plugin
	noDefaultPlugins bool
}

// defaultTimeout bounds a single Render call.
const defaultTimeout = 30 * time.Second

// WithTimeout sets the timeout of a single Render call.
// Panics if d is not positive.
func WithTimeout(d time.Duration) Option {
	if d <= 0 {
		panic("handbook: WithTimeout duration must be positive")
	}
	return func(r *Renderer) {
		r.cfg.timeout = d
	}
}

// WithSubMaxLevel limits the sidebar outline to headings of level n or
// above. 0 keeps every level.
func WithSubMaxLevel(n int) Option {
	return func(r *Renderer) {
		r.cfg.subMaxLevel = n
	}
}

// WithPlugins appends plugins, applied after the default ones in order.
func WithPlugins(plugins ...Plugin) Option {
	return func(r *Renderer) {
		r.cfg.plugins = append(r.cfg.plugins, plugins...)
	}
}

// WithoutDefaultPlugins skips HeadingPlugin.
func WithoutDefaultPlugins() Option {
	return func(r *Renderer) {
		r.cfg.noDefaultPlugins = true
	}
}

// validateSubMaxLevel checks the sidebar depth bound.
func validateSubMaxLevel(n int) error {
	if n < 0 || n > pipeline.MaxHeadingLevel {
		return fmt.Errorf("%w: %d (must be between 0 and %d)", ErrInvalidSubMaxLevel, n, pipeline.MaxHeadingLevel)
	}
	return nil
}
