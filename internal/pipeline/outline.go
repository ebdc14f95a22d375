package pipeline

import (
	"fmt"
	"strings"

	"golang.org/x/net/html"
)

// MaxHeadingLevel is the deepest HTML heading level.
const MaxHeadingLevel = 6

// OutlineEntry is one heading listed in a page sidebar.
type OutlineEntry struct {
	Level int    `json:"level"` // 1-6, as rendered before after-each hooks
	ID    string `json:"id,omitempty"`
	Text  string `json:"text"`
}

// ExtractOutline tokenizes an HTML fragment and returns its headings up to
// maxLevel (0 means all levels). The first h1 is left out of the outline:
// it is treated as the page title, which is why NormalizeHeadings puts an
// empty one in front of the real title.
func ExtractOutline(htmlContent string, maxLevel int) []OutlineEntry {
	if maxLevel <= 0 || maxLevel > MaxHeadingLevel {
		maxLevel = MaxHeadingLevel
	}

	var (
		entries   []OutlineEntry
		current   *OutlineEntry
		text      strings.Builder
		skippedH1 bool
	)

	z := html.NewTokenizer(strings.NewReader(htmlContent))
	for {
		tt := z.Next()
		switch tt {
		case html.ErrorToken:
			// io.EOF or malformed input; either way the outline ends here.
			return entries

		case html.StartTagToken:
			name, hasAttr := z.TagName()
			level := headingLevel(name)
			if level == 0 || current != nil {
				continue
			}
			current = &OutlineEntry{Level: level}
			for hasAttr {
				var key, val []byte
				key, val, hasAttr = z.TagAttr()
				if string(key) == "id" {
					current.ID = string(val)
				}
			}
			text.Reset()

		case html.TextToken:
			if current != nil {
				text.Write(z.Text())
			}

		case html.EndTagToken:
			name, _ := z.TagName()
			if current == nil || headingLevel(name) != current.Level {
				continue
			}
			entry := *current
			current = nil
			entry.Text = strings.Join(strings.Fields(text.String()), " ")

			if entry.Level == 1 && !skippedH1 {
				skippedH1 = true
				continue
			}
			if entry.Level <= maxLevel {
				entries = append(entries, entry)
			}
		}
	}
}

// headingLevel returns 1-6 for h1-h6 tag names and 0 otherwise.
func headingLevel(name []byte) int {
	if len(name) != 2 || name[0] != 'h' || name[1] < '1' || name[1] > '6' {
		return 0
	}
	return int(name[1] - '0')
}

// PageTitle returns the text of the first non-empty heading in the
// fragment, or "" when there is none.
func PageTitle(htmlContent string) string {
	z := html.NewTokenizer(strings.NewReader(htmlContent))
	inHeading := 0
	var text strings.Builder
	for {
		switch z.Next() {
		case html.ErrorToken:
			return ""
		case html.StartTagToken:
			name, _ := z.TagName()
			if inHeading == 0 {
				if level := headingLevel(name); level != 0 {
					inHeading = level
					text.Reset()
				}
			}
		case html.TextToken:
			if inHeading != 0 {
				text.Write(z.Text())
			}
		case html.EndTagToken:
			name, _ := z.TagName()
			if inHeading != 0 && headingLevel(name) == inHeading {
				inHeading = 0
				if title := strings.Join(strings.Fields(text.String()), " "); title != "" {
					return title
				}
			}
		}
	}
}

// RenderOutline renders entries as nested sidebar lists. Entries are
// nested relative to the shallowest level present; jumps of more than one
// level are treated as direct children.
func RenderOutline(entries []OutlineEntry) string {
	if len(entries) == 0 {
		return ""
	}

	base := entries[0].Level
	for _, e := range entries {
		if e.Level < base {
			base = e.Level
		}
	}

	var buf strings.Builder
	buf.WriteString(`<ul class="app-sub-sidebar">`)

	depth := 1
	open := false // an <li> is open at the current depth
	closeTo := func(target int) {
		for depth > target {
			if open {
				buf.WriteString(`</li>`)
			}
			buf.WriteString(`</ul>`)
			depth--
			open = true
		}
	}

	for _, e := range entries {
		target := e.Level - base + 1
		if target > depth+1 {
			target = depth + 1
		}

		if target > depth {
			if !open {
				buf.WriteString(`<li>`)
			}
			buf.WriteString(`<ul>`)
			depth = target
			open = false
		}
		closeTo(target)
		if open {
			buf.WriteString(`</li>`)
		}

		buf.WriteString(`<li>`)
		if e.ID != "" {
			fmt.Fprintf(&buf, `<a class="section-link" href="#%s">%s</a>`,
				html.EscapeString(e.ID), html.EscapeString(e.Text))
		} else {
			buf.WriteString(html.EscapeString(e.Text))
		}
		open = true
	}

	closeTo(1)
	if open {
		buf.WriteString(`</li>`)
	}
	buf.WriteString(`</ul>`)
	return buf.String()
}
