package handbook

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/alnah/go-handbook/internal/pipeline"
)

// Compile-time interface implementation checks.
var (
	_ pipeline.MarkdownPreprocessor = (*pipeline.CommonMarkPreprocessor)(nil)
	_ pipeline.HTMLConverter        = (*pipeline.GoldmarkConverter)(nil)
)

// Renderer runs handbook pages through the content pipeline.
// Create with NewRenderer and call Render once per page. A Renderer handles
// one page at a time; use a RendererPool for parallel work.
type Renderer struct {
	mu            sync.Mutex
	cfg           rendererConfig
	hooks         pipeline.Hooks
	preprocessor  pipeline.MarkdownPreprocessor
	htmlConverter pipeline.HTMLConverter
}

// NewRenderer creates a Renderer with HeadingPlugin installed.
// Returns error if an option value is out of range.
func NewRenderer(opts ...Option) (*Renderer, error) {
	r := &Renderer{
		cfg:           rendererConfig{timeout: defaultTimeout},
		preprocessor:  &pipeline.CommonMarkPreprocessor{},
		htmlConverter: pipeline.NewGoldmarkConverter(),
	}

	for _, opt := range opts {
		opt(r)
	}

	if err := validateSubMaxLevel(r.cfg.subMaxLevel); err != nil {
		return nil, err
	}

	if !r.cfg.noDefaultPlugins {
		r.hooks.Use(HeadingPlugin)
	}
	r.hooks.Use(r.cfg.plugins...)

	return r, nil
}

// Render runs one page through the pipeline:
//
//  1. Markdown preprocessing
//  2. before-each hooks
//  3. Markdown to HTML
//  4. sidebar outline extraction
//  5. after-each hooks
//
// Recovers from panics raised by hooks so a bad plugin cannot crash the caller.
func (r *Renderer) Render(ctx context.Context, input Input) (page *Page, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("internal error: %v", rec)
		}
	}()

	if strings.TrimSpace(input.Markdown) == "" {
		return nil, ErrEmptyMarkdown
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	ctx, cancel := context.WithTimeout(ctx, r.cfg.timeout)
	defer cancel()

	mdContent := r.preprocessor.PreprocessMarkdown(ctx, input.Markdown)
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	mdContent = r.hooks.RunBeforeEach(mdContent)

	htmlContent, err := r.htmlConverter.ToHTML(ctx, mdContent)
	if err != nil {
		return nil, fmt.Errorf("converting to HTML: %w", err)
	}

	outline := pipeline.ExtractOutline(htmlContent, r.cfg.subMaxLevel)
	title := pipeline.PageTitle(htmlContent)

	htmlContent, err = r.hooks.RunAfterEach(ctx, htmlContent)
	if err != nil {
		return nil, fmt.Errorf("running after-each hooks: %w", err)
	}

	return &Page{
		Path:    input.Path,
		Title:   title,
		HTML:    htmlContent,
		Outline: outline,
	}, nil
}
