package assets

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

// AssetResolver combines custom and embedded loaders with fallback logic.
// When a custom loader is configured, it tries custom first, then falls back
// to embedded if the theme is not found in the custom location.
type AssetResolver struct {
	custom   *FilesystemLoader // nil if no theme directory configured
	embedded AssetLoader
}

// NewAssetResolver creates an AssetResolver.
// If themeDir is empty, only embedded themes are used.
// Returns ErrInvalidThemeDir if themeDir is set but invalid.
func NewAssetResolver(themeDir string) (*AssetResolver, error) {
	resolver := &AssetResolver{
		embedded: NewEmbeddedLoader(),
	}

	if themeDir != "" {
		fsLoader, err := NewFilesystemLoader(themeDir)
		if err != nil {
			return nil, err
		}
		resolver.custom = fsLoader
	}

	return resolver, nil
}

// LoadTheme loads a theme, trying the custom loader first if available.
func (r *AssetResolver) LoadTheme(name string) (string, error) {
	if r.custom == nil {
		return r.embedded.LoadTheme(name)
	}

	content, err := r.custom.LoadTheme(name)
	if err == nil {
		return content, nil
	}

	// Only fall back for "not found" errors, not validation or I/O errors
	if !errors.Is(err, ErrThemeNotFound) {
		return "", err
	}

	content, err = r.embedded.LoadTheme(name)
	if errors.Is(err, ErrThemeNotFound) {
		return "", fmt.Errorf("%w: %q (available: %s)", ErrThemeNotFound, name, strings.Join(r.Themes(), ", "))
	}
	return content, err
}

// Themes lists every theme name the resolver can load, sorted.
func (r *AssetResolver) Themes() []string {
	names := EmbeddedThemes()
	if r.custom != nil {
		names = append(names, r.custom.Themes()...)
	}
	slices.Sort(names)
	return slices.Compact(names)
}

// HasCustomLoader returns true if a custom theme directory is configured.
func (r *AssetResolver) HasCustomLoader() bool {
	return r.custom != nil
}

// Compile-time interface check.
var _ AssetLoader = (*AssetResolver)(nil)
