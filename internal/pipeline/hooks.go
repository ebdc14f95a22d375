package pipeline

import (
	"context"
	"errors"
	"fmt"
)

// Sentinel errors for after-each continuation misuse.
var (
	ErrContinuationNotCalled   = errors.New("after-each hook returned without calling next")
	ErrContinuationCalledTwice = errors.New("after-each hook called next more than once")
)

// BeforeEachFunc receives the raw Markdown of a page and returns the source
// to parse. It runs synchronously.
type BeforeEachFunc func(content string) string

// AfterEachFunc receives the rendered HTML of a page and must call next
// exactly once with the markup to pass on.
type AfterEachFunc func(htmlContent string, next func(string))

// Hooks collects the hooks registered by plugins, in registration order.
// The zero value is ready to use.
type Hooks struct {
	beforeEach []BeforeEachFunc
	afterEach  []AfterEachFunc
}

// Plugin registers hooks on a Hooks set.
type Plugin func(h *Hooks)

// BeforeEach registers fn to run on Markdown source before parsing.
// Nil functions are ignored.
func (h *Hooks) BeforeEach(fn BeforeEachFunc) {
	if fn != nil {
		h.beforeEach = append(h.beforeEach, fn)
	}
}

// AfterEach registers fn to run on HTML after rendering.
// Nil functions are ignored.
func (h *Hooks) AfterEach(fn AfterEachFunc) {
	if fn != nil {
		h.afterEach = append(h.afterEach, fn)
	}
}

// Use applies plugins in order.
func (h *Hooks) Use(plugins ...Plugin) {
	for _, p := range plugins {
		if p != nil {
			p(h)
		}
	}
}

// Len reports how many before-each and after-each hooks are registered.
func (h *Hooks) Len() (beforeEach, afterEach int) {
	return len(h.beforeEach), len(h.afterEach)
}

// RunBeforeEach threads content through every before-each hook.
func (h *Hooks) RunBeforeEach(content string) string {
	for _, fn := range h.beforeEach {
		content = fn(content)
	}
	return content
}

// RunAfterEach threads htmlContent through every after-each hook. Each hook
// must call its continuation exactly once before returning; a hook that
// never calls it, or calls it twice, aborts the chain. A second value
// passed to next is discarded.
func (h *Hooks) RunAfterEach(ctx context.Context, htmlContent string) (string, error) {
	for i, fn := range h.afterEach {
		if err := ctx.Err(); err != nil {
			return "", err
		}

		var (
			calls  int
			result string
		)
		fn(htmlContent, func(s string) {
			calls++
			if calls == 1 {
				result = s
			}
		})

		switch {
		case calls == 0:
			return "", fmt.Errorf("%w (hook %d)", ErrContinuationNotCalled, i)
		case calls > 1:
			return "", fmt.Errorf("%w (hook %d, %d calls)", ErrContinuationCalledTwice, i, calls)
		}
		htmlContent = result
	}
	return htmlContent, nil
}

// HeadingPlugin registers the heading hooks: NormalizeHeadings before
// parsing and PromoteHeadings after rendering.
func HeadingPlugin(h *Hooks) {
	h.BeforeEach(NormalizeHeadings)
	h.AfterEach(PromoteHeadings)
}
