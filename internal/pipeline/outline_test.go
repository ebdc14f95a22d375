package pipeline

import (
	"context"
	"reflect"
	"testing"
)

func TestExtractOutline(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		html     string
		maxLevel int
		want     []OutlineEntry
	}{
		{
			name: "empty",
			html: "",
			want: nil,
		},
		{
			name: "first h1 dropped",
			html: `<h1 id="title">Title</h1><h2 id="a">A</h2>`,
			want: []OutlineEntry{{Level: 2, ID: "a", Text: "A"}},
		},
		{
			name: "empty h1 shields the real title",
			html: `<h1 id="heading"></h1><h1 id="title">Title</h1><h2 id="a">A</h2>`,
			want: []OutlineEntry{
				{Level: 1, ID: "title", Text: "Title"},
				{Level: 2, ID: "a", Text: "A"},
			},
		},
		{
			name:     "max level filters deeper headings",
			html:     `<h2 id="a">A</h2><h3 id="b">B</h3><h4 id="c">C</h4>`,
			maxLevel: 3,
			want: []OutlineEntry{
				{Level: 2, ID: "a", Text: "A"},
				{Level: 3, ID: "b", Text: "B"},
			},
		},
		{
			name: "inline markup and entities",
			html: `<h2 id="x">Use <code>go</code> &amp; <em>fun</em></h2>`,
			want: []OutlineEntry{{Level: 2, ID: "x", Text: "Use go & fun"}},
		},
		{
			name: "heading without id",
			html: `<h3>Plain</h3>`,
			want: []OutlineEntry{{Level: 3, Text: "Plain"}},
		},
		{
			name: "non heading tags ignored",
			html: `<p>p</p><header>h</header><hr/>`,
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := ExtractOutline(tt.html, tt.maxLevel)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ExtractOutline() = %#v, want %#v", got, tt.want)
			}
		})
	}
}

func TestExtractOutline_AfterNormalizeHeadings(t *testing.T) {
	t.Parallel()

	conv := NewGoldmarkConverter()
	md := NormalizeHeadings("# Guide\n\n## Install\n\n## Usage\n")

	html, err := conv.ToHTML(context.Background(), md)
	if err != nil {
		t.Fatalf("ToHTML() error: %v", err)
	}

	got := ExtractOutline(html, 6)
	if len(got) != 3 {
		t.Fatalf("outline has %d entries, want 3: %#v", len(got), got)
	}
	if got[0].Level != 1 || got[0].Text != "Guide" {
		t.Errorf("first entry = %#v, want level-1 Guide", got[0])
	}
}

func TestPageTitle(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		html string
		want string
	}{
		{"none", `<p>x</p>`, ""},
		{"first heading", `<h2>One</h2><h1>Two</h1>`, "One"},
		{"skips empty heading", `<h1 id="heading"></h1><h1>Real  Title</h1>`, "Real Title"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := PageTitle(tt.html); got != tt.want {
				t.Errorf("PageTitle() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRenderOutline(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		entries []OutlineEntry
		want    string
	}{
		{
			name: "empty",
			want: "",
		},
		{
			name:    "flat",
			entries: []OutlineEntry{{Level: 2, ID: "a", Text: "A"}, {Level: 2, ID: "b", Text: "B"}},
			want: `<ul class="app-sub-sidebar">` +
				`<li><a class="section-link" href="#a">A</a></li>` +
				`<li><a class="section-link" href="#b">B</a></li></ul>`,
		},
		{
			name: "nested then back up",
			entries: []OutlineEntry{
				{Level: 2, ID: "a", Text: "A"},
				{Level: 3, ID: "b", Text: "B"},
				{Level: 2, ID: "c", Text: "C"},
			},
			want: `<ul class="app-sub-sidebar">` +
				`<li><a class="section-link" href="#a">A</a>` +
				`<ul><li><a class="section-link" href="#b">B</a></li></ul></li>` +
				`<li><a class="section-link" href="#c">C</a></li></ul>`,
		},
		{
			name: "level gap treated as child",
			entries: []OutlineEntry{
				{Level: 1, ID: "a", Text: "A"},
				{Level: 4, ID: "b", Text: "B"},
			},
			want: `<ul class="app-sub-sidebar">` +
				`<li><a class="section-link" href="#a">A</a>` +
				`<ul><li><a class="section-link" href="#b">B</a></li></ul></li></ul>`,
		},
		{
			name:    "escapes text and drops link without id",
			entries: []OutlineEntry{{Level: 2, Text: "<b>&"}},
			want:    `<ul class="app-sub-sidebar"><li>&lt;b&gt;&amp;</li></ul>`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := RenderOutline(tt.entries); got != tt.want {
				t.Errorf("RenderOutline() =\n%s\nwant\n%s", got, tt.want)
			}
		})
	}
}
