//go:build bench

package pipeline

import (
	"context"
	"fmt"
	"strings"
	"testing"
)

func BenchmarkNormalizeHeadings(b *testing.B) {
	inputs := map[string]string{
		"first_line": "# Title\n\nBody.\n",
		"late_h1":    strings.Repeat("Paragraph.\n\n", 200) + "# Title\n",
		"no_h1":      generateHeadingsMarkdown(60, 2),
	}

	for name, content := range inputs {
		b.Run(name, func(b *testing.B) {
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				_ = NormalizeHeadings(content)
			}
		})
	}
}

func BenchmarkShiftHeadingLevels(b *testing.B) {
	converter := NewGoldmarkConverter()

	for _, n := range []int{10, 100, 1000} {
		html, err := converter.ToHTML(context.Background(), generateHeadingsMarkdown(n, 1))
		if err != nil {
			b.Fatal(err)
		}
		b.Run(fmt.Sprintf("headings_%d", n), func(b *testing.B) {
			b.ReportAllocs()
			b.SetBytes(int64(len(html)))
			for i := 0; i < b.N; i++ {
				_ = ShiftHeadingLevels(html)
			}
		})
	}
}

func BenchmarkRunAfterEach(b *testing.B) {
	html := strings.Repeat("<h1>Title</h1><p>text</p><h2>Sub</h2>", 50)

	for _, hooks := range []int{1, 4, 16} {
		var h Hooks
		for j := 0; j < hooks; j++ {
			h.Use(HeadingPlugin)
		}
		b.Run(fmt.Sprintf("hooks_%d", hooks), func(b *testing.B) {
			b.ReportAllocs()
			ctx := context.Background()
			for i := 0; i < b.N; i++ {
				if _, err := h.RunAfterEach(ctx, html); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

func BenchmarkGoldmarkToHTML(b *testing.B) {
	converter := NewGoldmarkConverter()
	ctx := context.Background()

	for _, sections := range []int{10, 50, 200} {
		content := generateChapterMarkdown(sections)
		b.Run(fmt.Sprintf("sections_%d", sections), func(b *testing.B) {
			b.ReportAllocs()
			b.SetBytes(int64(len(content)))
			for i := 0; i < b.N; i++ {
				if _, err := converter.ToHTML(ctx, content); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}

func BenchmarkExtractOutline(b *testing.B) {
	converter := NewGoldmarkConverter()
	html, err := converter.ToHTML(context.Background(), generateChapterMarkdown(100))
	if err != nil {
		b.Fatal(err)
	}

	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		_ = RenderOutline(ExtractOutline(html, 3))
	}
}

// generateHeadingsMarkdown cycles heading levels starting at minLevel.
func generateHeadingsMarkdown(count, minLevel int) string {
	var sb strings.Builder
	span := MaxHeadingLevel - minLevel + 1
	for i := 0; i < count; i++ {
		level := minLevel + i%span
		fmt.Fprintf(&sb, "%s Heading %d\n\nSome content under this heading.\n\n", strings.Repeat("#", level), i+1)
	}
	return sb.String()
}

// generateChapterMarkdown builds a handbook chapter with code and tables.
func generateChapterMarkdown(sections int) string {
	var sb strings.Builder
	sb.WriteString("# Chapter\n\nIntroduction with **bold** and `code`.\n\n")

	for i := 0; i < sections; i++ {
		fmt.Fprintf(&sb, "## Section %d\n\n", i+1)
		sb.WriteString("A paragraph linking to [the guide](guide/intro.md).\n\n")
		sb.WriteString("### Details\n\n- one\n- two\n\n")
		if i%3 == 0 {
			sb.WriteString("```go\nfunc main() {\n    fmt.Println(\"hello\")\n}\n```\n\n")
		}
		if i%5 == 0 {
			sb.WriteString("| A | B |\n|---|---|\n| 1 | 2 |\n\n")
		}
	}
	return sb.String()
}
