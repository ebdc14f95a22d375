package server

import (
	"html/template"
	"io"
)

// PageData feeds the page layout.
type PageData struct {
	SiteName string
	Repo     string
	Title    string
	Style    template.CSS
	Content  template.HTML
	Outline  template.HTML
	Sidebar  template.HTML
	Prev     *PageLink
	Next     *PageLink
}

// PageLink is a pagination target.
type PageLink struct {
	Label string
	Href  string
}

var pageTemplate = template.Must(template.New("page").Parse(pageLayout))

// WritePage renders a full HTML document around a rendered page.
func WritePage(w io.Writer, data PageData) error {
	return pageTemplate.Execute(w, data)
}

const pageLayout = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{if .Title}}{{.Title}} - {{end}}{{.SiteName}}</title>
{{- if .Style}}
<style>{{.Style}}</style>
{{- end}}
</head>
<body>
<aside class="sidebar">
<h1 class="app-name">{{.SiteName}}</h1>
{{- if .Repo}}
<a class="github-corner" href="{{.Repo}}">{{.Repo}}</a>
{{- end}}
<nav class="sidebar-nav">{{.Sidebar}}</nav>
{{.Outline}}
</aside>
<article class="markdown-section">
{{.Content}}
</article>
<div class="pagination">
{{- with .Prev}}
<a class="pagination-item--previous" href="{{.Href}}">{{.Label}}</a>
{{- end}}
{{- with .Next}}
<a class="pagination-item--next" href="{{.Href}}">{{.Label}}</a>
{{- end}}
</div>
</body>
</html>
`
