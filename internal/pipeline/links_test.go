package pipeline

import (
	"reflect"
	"testing"
)

func TestExtractLinks(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		html string
		want []string
	}{
		{"none", `<p>text</p>`, nil},
		{
			name: "document order",
			html: `<ul><li><a href="guide/intro.md">Intro</a></li><li><a href="/guide/next.md">Next</a></li></ul>`,
			want: []string{"guide/intro.md", "/guide/next.md"},
		},
		{
			name: "anchors and empty hrefs skipped",
			html: `<a href="#top">top</a><a href="">x</a><a>y</a><a href="a.md">a</a>`,
			want: []string{"a.md"},
		},
		{
			name: "entities decoded",
			html: `<a href="a.md?x=1&amp;y=2">a</a>`,
			want: []string{"a.md?x=1&y=2"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := ExtractLinks(tt.html); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ExtractLinks() = %#v, want %#v", got, tt.want)
			}
		})
	}
}
