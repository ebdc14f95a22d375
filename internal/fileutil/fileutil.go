// Package fileutil provides file and path utility functions.
package fileutil

import (
	"errors"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// ErrPathTraversal indicates a route escapes its root directory.
var ErrPathTraversal = errors.New("path escapes root directory")

// MarkdownExt is the extension of handbook pages.
const MarkdownExt = ".md"

// FileExists returns true if the path exists and is a regular file.
func FileExists(p string) bool {
	info, err := os.Stat(p)
	if err != nil {
		return false
	}
	return !info.IsDir()
}

// DirExists returns true if the path exists and is a directory.
func DirExists(p string) bool {
	info, err := os.Stat(p)
	if err != nil {
		return false
	}
	return info.IsDir()
}

// IsFilePath returns true if the string looks like a file path rather than a name.
// A string containing path separators (/, \) is treated as a path.
//
// Examples:
//   - "handbook" -> false (name)
//   - "./handbook.yaml" -> true (relative path)
//   - "/etc/handbook.yaml" -> true (absolute)
func IsFilePath(s string) bool {
	return strings.ContainsAny(s, "/\\")
}

// IsURL returns true if the string looks like a URL.
func IsURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}

// IsMarkdown reports whether name has the .md extension (case-insensitive).
func IsMarkdown(name string) bool {
	return strings.EqualFold(filepath.Ext(name), MarkdownExt)
}

// IsSpecialPage reports whether a file is a site partial such as
// _sidebar.md, _navbar.md or _coverpage.md rather than a page.
func IsSpecialPage(name string) bool {
	return strings.HasPrefix(filepath.Base(name), "_")
}

// IsHidden reports whether the base name starts with a dot.
func IsHidden(name string) bool {
	base := filepath.Base(name)
	return strings.HasPrefix(base, ".") && base != "." && base != ".."
}

// SafeJoin maps a slash-separated route under root to a file path.
// Returns ErrPathTraversal if the cleaned route leaves root.
func SafeJoin(root, route string) (string, error) {
	if strings.ContainsRune(route, 0) {
		return "", ErrPathTraversal
	}
	for _, part := range strings.Split(route, "/") {
		if part == ".." {
			return "", ErrPathTraversal
		}
	}
	cleaned := path.Clean("/" + route)
	return filepath.Join(root, filepath.FromSlash(cleaned)), nil
}

// ReplaceExt swaps the extension of p for ext.
func ReplaceExt(p, ext string) string {
	return strings.TrimSuffix(p, filepath.Ext(p)) + ext
}
