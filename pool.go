package handbook

import (
	"runtime"
	"sync"
)

// Pool sizing constants.
const (
	// MinPoolSize ensures at least one worker is available.
	MinPoolSize = 1

	// MaxPoolSize caps renderers; goldmark is CPU bound so more rarely helps.
	MaxPoolSize = 8

	// cpuDivisor leaves headroom for file I/O and the HTTP server.
	cpuDivisor = 2
)

// RendererPool manages Renderer instances for parallel page rendering.
// Renderers are created lazily on first acquire, all with the same options.
type RendererPool struct {
	size      int
	opts      []Option
	renderers []*Renderer
	sem       chan *Renderer
	mu        sync.Mutex
	created   int
	closed    bool
}

// NewRendererPool creates a pool with capacity for n renderers built with opts.
// Options are validated once up front.
func NewRendererPool(n int, opts ...Option) (*RendererPool, error) {
	if n < MinPoolSize {
		n = MinPoolSize
	}

	// Build the first renderer eagerly so option errors surface here.
	first, err := NewRenderer(opts...)
	if err != nil {
		return nil, err
	}

	p := &RendererPool{
		size:      n,
		opts:      opts,
		renderers: make([]*Renderer, 0, n),
		sem:       make(chan *Renderer, n),
		created:   1,
	}
	p.renderers = append(p.renderers, first)
	p.sem <- first
	return p, nil
}

// Acquire gets a renderer from the pool, creating one if needed.
// Blocks if all renderers are in use. Returns nil once the pool is closed.
func (p *RendererPool) Acquire() *Renderer {
	// Try to get an existing renderer (non-blocking)
	select {
	case r := <-p.sem:
		return r
	default:
	}

	p.mu.Lock()
	if !p.closed && p.created < p.size {
		p.created++
		p.mu.Unlock()

		// Options were validated by NewRendererPool, so this cannot fail.
		r, _ := NewRenderer(p.opts...)

		p.mu.Lock()
		p.renderers = append(p.renderers, r)
		p.mu.Unlock()
		return r
	}
	p.mu.Unlock()

	// All renderers created, wait for one to be released
	return <-p.sem
}

// Release returns a renderer to the pool. The channel holds one slot per
// renderer, so the send never blocks while the lock is held.
func (p *RendererPool) Release(r *Renderer) {
	if r == nil {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.closed {
		p.sem <- r
	}
}

// Close stops handing out renderers. Blocked Acquire calls return nil.
func (p *RendererPool) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return nil
	}
	p.closed = true
	close(p.sem)
	return nil
}

// Size returns the pool capacity.
func (p *RendererPool) Size() int {
	return p.size
}

// ResolvePoolSize determines the optimal pool size.
// Priority: explicit workers > GOMAXPROCS-based calculation.
func ResolvePoolSize(workers int) int {
	if workers > 0 {
		return workers
	}

	// GOMAXPROCS is adjusted by automaxprocs for containers
	available := runtime.GOMAXPROCS(0)
	n := available / cpuDivisor

	if n < MinPoolSize {
		return MinPoolSize
	}
	if n > MaxPoolSize {
		return MaxPoolSize
	}
	return n
}
