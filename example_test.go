package handbook_test

import (
	"context"
	"fmt"
	"log"

	handbook "github.com/alnah/go-handbook"
)

func ExampleRenderer_Render() {
	r, err := handbook.NewRenderer()
	if err != nil {
		log.Fatal(err)
	}

	page, err := r.Render(context.Background(), handbook.Input{
		Markdown: "# Hello\n\n## World\n",
	})
	if err != nil {
		log.Fatal(err)
	}

	fmt.Println(page.Title)
	for _, e := range page.Outline {
		fmt.Println(e.Level, e.Text)
	}
	// Output:
	// Hello
	// 1 Hello
	// 2 World
}

func ExampleWithPlugins() {
	footer := func(h *handbook.Hooks) {
		h.AfterEach(func(html string, next func(string)) {
			next(html + "<footer>fin</footer>")
		})
	}

	r, err := handbook.NewRenderer(handbook.WithoutDefaultPlugins(), handbook.WithPlugins(footer))
	if err != nil {
		log.Fatal(err)
	}

	page, err := r.Render(context.Background(), handbook.Input{Markdown: "hi"})
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(page.HTML)
	// Output:
	// <p>hi</p>
	// <footer>fin</footer>
}

func ExampleAliasTable_Resolve() {
	aliases, err := handbook.NewAliasTable(map[string]string{
		"/.*/_sidebar.md": "/_sidebar.md",
	})
	if err != nil {
		log.Fatal(err)
	}

	fmt.Println(aliases.Resolve("/guide/_sidebar.md"))
	fmt.Println(aliases.Resolve("/guide/intro.md"))
	// Output:
	// /_sidebar.md
	// /guide/intro.md
}
