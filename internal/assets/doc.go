// Package assets provides the theme stylesheets inlined into rendered pages.
//
// # Loader Architecture
//
//	AssetLoader (interface)
//	    │
//	    ├── EmbeddedLoader    - loads built-in themes from go:embed
//	    ├── FilesystemLoader  - loads themes from a directory on disk
//	    └── AssetResolver     - combines both with custom-first fallback
//
// A theme directory only needs the themes it overrides; anything else falls
// back to the embedded copy.
//
// # Directory Structure
//
//	{themeDir}/
//	└── themes/
//	    └── {name}.css
//
// # Security
//
// Theme names are validated to prevent path traversal. FilesystemLoader
// reads through an os.Root, so links leaving themeDir are refused, and caps
// stylesheets at MaxThemeSize.
package assets
