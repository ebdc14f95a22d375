package assets

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
)

const (
	// themesSubdir holds override stylesheets inside a theme directory.
	themesSubdir = "themes"

	themeExt = ".css"

	// MaxThemeSize caps a stylesheet read from a theme directory; it is
	// inlined into every page.
	MaxThemeSize = 1 << 20
)

// FilesystemLoader loads override themes from {dir}/themes/{name}.css.
// Reads go through an os.Root opened on dir, so a theme file that is a
// symlink pointing outside dir is refused.
type FilesystemLoader struct {
	dir string
}

// NewFilesystemLoader creates a FilesystemLoader for a theme directory.
// The directory must exist; its themes/ subdirectory may be missing, in
// which case every theme is reported as not found.
func NewFilesystemLoader(dir string) (*FilesystemLoader, error) {
	if dir == "" {
		return nil, fmt.Errorf("%w: empty path", ErrInvalidThemeDir)
	}

	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidThemeDir, err)
	}

	info, err := os.Stat(abs)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return nil, fmt.Errorf("%w: %s does not exist", ErrInvalidThemeDir, dir)
	case err != nil:
		return nil, fmt.Errorf("%w: %v", ErrInvalidThemeDir, err)
	case !info.IsDir():
		return nil, fmt.Errorf("%w: %s is not a directory", ErrInvalidThemeDir, dir)
	}

	return &FilesystemLoader{dir: abs}, nil
}

// LoadTheme reads the override stylesheet for name.
func (f *FilesystemLoader) LoadTheme(name string) (string, error) {
	if err := ValidateAssetName(name); err != nil {
		return "", err
	}

	root, err := os.OpenRoot(f.dir)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidThemeDir, err)
	}
	defer func() { _ = root.Close() }()

	rel := path.Join(themesSubdir, name+themeExt)
	file, err := root.Open(rel)
	if err != nil {
		return "", f.openError(root, rel, name, err)
	}
	defer func() { _ = file.Close() }()

	content, err := io.ReadAll(io.LimitReader(file, MaxThemeSize+1))
	if err != nil {
		return "", fmt.Errorf("%w: theme %q: %v", ErrAssetRead, name, err)
	}
	if len(content) > MaxThemeSize {
		return "", fmt.Errorf("%w: theme %q exceeds %d bytes", ErrThemeTooLarge, name, MaxThemeSize)
	}

	return string(content), nil
}

// openError classifies a failed open of a theme file.
func (f *FilesystemLoader) openError(root *os.Root, rel, name string, err error) error {
	if errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%w: %q in %s", ErrThemeNotFound, name, f.dir)
	}
	// os.Root refuses links that leave the directory.
	if info, lerr := root.Lstat(rel); lerr == nil && info.Mode()&fs.ModeSymlink != 0 {
		return fmt.Errorf("%w: theme %q links outside %s", ErrPathTraversal, name, f.dir)
	}
	return fmt.Errorf("%w: theme %q: %v", ErrAssetRead, name, err)
}

// Themes lists the override theme names present in the directory, sorted.
func (f *FilesystemLoader) Themes() []string {
	entries, err := os.ReadDir(filepath.Join(f.dir, themesSubdir))
	if err != nil {
		return nil
	}
	var names []string
	for _, e := range entries {
		name, ok := strings.CutSuffix(e.Name(), themeExt)
		if !ok || e.IsDir() || ValidateAssetName(name) != nil {
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Compile-time interface check.
var _ AssetLoader = (*FilesystemLoader)(nil)
