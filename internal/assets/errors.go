package assets

import "errors"

// Sentinel errors for asset operations.
var (
	// ErrThemeNotFound indicates the requested theme does not exist.
	ErrThemeNotFound = errors.New("theme not found")

	// ErrInvalidAssetName indicates the asset name contains invalid characters
	// such as path separators or traversal sequences.
	ErrInvalidAssetName = errors.New("invalid asset name")

	// ErrInvalidThemeDir indicates the configured theme directory is missing
	// or not a directory.
	ErrInvalidThemeDir = errors.New("invalid theme directory")

	// ErrThemeTooLarge indicates a theme stylesheet exceeds MaxThemeSize.
	ErrThemeTooLarge = errors.New("theme too large")

	// ErrAssetRead indicates an I/O error occurred while reading an asset file.
	ErrAssetRead = errors.New("failed to read asset")

	// ErrPathTraversal indicates a theme file resolving outside its theme
	// directory.
	ErrPathTraversal = errors.New("path traversal detected")
)
