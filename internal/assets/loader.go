package assets

// DefaultThemeName is the built-in theme used when none is configured.
const DefaultThemeName = "vue"

// AssetLoader loads theme stylesheets by name.
type AssetLoader interface {
	// LoadTheme loads a theme by name (without .css extension).
	// Returns ErrThemeNotFound if the theme doesn't exist.
	// Returns ErrInvalidAssetName if the name contains invalid characters.
	LoadTheme(name string) (string, error)
}

// LoadTheme resolves a theme from dir, falling back to the embedded themes.
// An empty name selects DefaultThemeName; an empty dir uses embedded only.
func LoadTheme(dir, name string) (string, error) {
	if name == "" {
		name = DefaultThemeName
	}
	resolver, err := NewAssetResolver(dir)
	if err != nil {
		return "", err
	}
	return resolver.LoadTheme(name)
}
