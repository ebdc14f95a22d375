package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/alnah/go-handbook/internal/fileutil"
)

// ErrInvalidExtension is returned for explicit inputs that are not markdown.
var ErrInvalidExtension = errors.New("file must have .md extension")

// htmlExt is the extension of rendered pages.
const htmlExt = ".html"

// FileToRender represents a single page to process.
type FileToRender struct {
	InputPath  string
	OutputPath string
}

// discoverFiles finds all pages to render under inputPath.
// Directories are walked recursively; hidden entries and partials such as
// _sidebar.md are skipped. An explicit file is always rendered.
func discoverFiles(inputPath, outputDir string) ([]FileToRender, error) {
	info, err := os.Stat(inputPath)
	if err != nil {
		return nil, err
	}

	if !info.IsDir() {
		if !fileutil.IsMarkdown(inputPath) {
			return nil, fmt.Errorf("%w: %s", ErrInvalidExtension, inputPath)
		}
		return []FileToRender{{InputPath: inputPath, OutputPath: resolveOutputPath(inputPath, outputDir, "")}}, nil
	}

	var files []FileToRender
	err = filepath.WalkDir(inputPath, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return fmt.Errorf("scanning %s: %w", path, err)
		}
		if d.IsDir() {
			if path != inputPath && fileutil.IsHidden(path) {
				return filepath.SkipDir
			}
			return nil
		}
		if !fileutil.IsMarkdown(path) || fileutil.IsHidden(path) || fileutil.IsSpecialPage(path) {
			return nil
		}
		files = append(files, FileToRender{InputPath: path, OutputPath: resolveOutputPath(path, outputDir, inputPath)})
		return nil
	})

	return files, err
}

// discoverAll runs discoverFiles for each input, dropping duplicates.
func discoverAll(inputs []string, outputDir string) ([]FileToRender, error) {
	seen := make(map[string]bool)
	var all []FileToRender
	for _, in := range inputs {
		files, err := discoverFiles(in, outputDir)
		if err != nil {
			return nil, err
		}
		for _, f := range files {
			key := filepath.Clean(f.InputPath)
			if seen[key] {
				continue
			}
			seen[key] = true
			all = append(all, f)
		}
	}
	return all, nil
}

// resolveOutputPath determines the HTML path for a page.
// No outputDir: next to the source. An outputDir ending in .html names the
// file for a single input. Otherwise the layout under baseInputDir is
// mirrored into outputDir.
func resolveOutputPath(inputPath, outputDir, baseInputDir string) string {
	if outputDir == "" {
		return fileutil.ReplaceExt(inputPath, htmlExt)
	}

	if baseInputDir == "" && strings.EqualFold(filepath.Ext(outputDir), htmlExt) {
		return outputDir
	}

	if baseInputDir != "" {
		if rel, err := filepath.Rel(baseInputDir, inputPath); err == nil {
			return filepath.Join(outputDir, fileutil.ReplaceExt(rel, htmlExt))
		}
	}

	return filepath.Join(outputDir, fileutil.ReplaceExt(filepath.Base(inputPath), htmlExt))
}
