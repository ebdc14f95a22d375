package pipeline

import (
	"strings"

	"golang.org/x/net/html"
)

// ExtractLinks returns the href of every <a> in the fragment, in document
// order. Empty hrefs and in-page anchors are skipped.
func ExtractLinks(htmlContent string) []string {
	var links []string
	z := html.NewTokenizer(strings.NewReader(htmlContent))
	for {
		tt := z.Next()
		if tt == html.ErrorToken {
			return links
		}
		if tt != html.StartTagToken {
			continue
		}
		name, hasAttr := z.TagName()
		if string(name) != "a" {
			continue
		}
		for hasAttr {
			var key, val []byte
			key, val, hasAttr = z.TagAttr()
			if string(key) != "href" {
				continue
			}
			href := strings.TrimSpace(string(val))
			if href != "" && !strings.HasPrefix(href, "#") {
				links = append(links, href)
			}
		}
	}
}
