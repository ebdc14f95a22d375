// Package pipeline implements the per-page content pipeline of a handbook.
//
// A page travels through these stages:
//   - Markdown preprocessing (line normalization, blank line compression)
//   - before-each hooks on the raw Markdown source
//   - Markdown to HTML conversion via Goldmark
//   - sidebar outline extraction from the rendered headings
//   - after-each hooks on the rendered HTML, continuation based
//
// The built-in heading hooks live in headings.go. NormalizeHeadings runs
// before parsing and ShiftHeadingLevels after rendering; both are pure
// string transforms that never fail.
package pipeline
