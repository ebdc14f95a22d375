// Package handbook renders the pages of a Markdown handbook through a
// pluggable content pipeline.
//
// # Quick Start
//
//	r, err := handbook.NewRenderer()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	page, err := r.Render(ctx, handbook.Input{
//	    Path:     "/guide/intro.md",
//	    Markdown: "# Intro\n\n## Install\n",
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(page.HTML)          // <h2 id="intro">Intro</h2>...
//	fmt.Println(page.SidebarHTML()) // nested outline
//
// # Pipeline
//
// Each page goes through these stages:
//
//  1. Markdown preprocessing (line normalization)
//  2. before-each hooks on the Markdown source
//  3. Markdown to HTML conversion via Goldmark (GFM, syntax highlighting)
//  4. sidebar outline extraction
//  5. after-each hooks on the HTML, each calling its continuation once
//
// # Plugins
//
// A Plugin registers hooks. HeadingPlugin is installed by default: its
// before-each hook puts an empty level-1 heading in front of the first
// one, so the real title survives the sidebar dropping the first h1, and
// its after-each hook shifts h1-h5 down one level.
//
//	stamp := func(h *handbook.Hooks) {
//	    h.AfterEach(func(html string, next func(string)) {
//	        next(html + "<footer>generated</footer>")
//	    })
//	}
//	r, err := handbook.NewRenderer(handbook.WithPlugins(stamp))
//
// # Parallel Processing
//
// A Renderer handles one page at a time. For batch work use RendererPool:
//
//	pool, err := handbook.NewRendererPool(4)
//	defer pool.Close()
//
//	r := pool.Acquire()
//	defer pool.Release(r)
//	page, err := r.Render(ctx, input)
package handbook
