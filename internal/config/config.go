package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	handbook "github.com/alnah/go-handbook"
	"github.com/alnah/go-handbook/internal/assets"
	"github.com/alnah/go-handbook/internal/fileutil"
	"github.com/alnah/go-handbook/internal/yamlutil"
)

// Sentinel errors for config operations.
var (
	ErrConfigNotFound  = errors.New("config file not found")
	ErrEmptyConfigName = errors.New("config name cannot be empty")
	ErrConfigParse     = errors.New("failed to parse config")
	ErrInvalidConfig   = errors.New("invalid config")
)

// Limits for configuration values.
const (
	MaxNameLength   = 200 // site name shown in the page header
	MaxURLLength    = 2048
	MaxTextLength   = 100 // labels such as pagination texts
	MaxHeadingLevel = 6
)

// AppName names the per-user config directory.
const AppName = "go-handbook"

// Config holds the settings of one handbook site.
// Treat a loaded Config as read-only; it is shared between renderers.
type Config struct {
	Name        string            `yaml:"name"`
	Repo        string            `yaml:"repo"`
	LoadSidebar bool              `yaml:"loadSidebar"`
	Alias       map[string]string `yaml:"alias"`
	SubMaxLevel int               `yaml:"subMaxLevel"` // sidebar depth, 0 = all
	Coverpage   bool              `yaml:"coverpage"`
	OnlyCover   bool              `yaml:"onlyCover"`
	Search      SearchConfig      `yaml:"search"`
	Count       CountConfig       `yaml:"count"`
	Progress    ProgressConfig    `yaml:"progress"`
	Pagination  PaginationConfig  `yaml:"pagination"`
	Theme       string            `yaml:"theme"`    // built-in or themeDir theme, "" = vue
	ThemeDir    string            `yaml:"themeDir"` // directory holding themes/{name}.css
}

// SearchConfig is passed through to the search plugin of the site.
type SearchConfig struct {
	Paths       string            `yaml:"paths"`  // "auto" or empty
	MaxAge      int               `yaml:"maxAge"` // index cache lifetime
	Placeholder map[string]string `yaml:"placeholder"`
	NoData      map[string]string `yaml:"noData"`
	Depth       int               `yaml:"depth"` // heading depth indexed, 0-6
}

// CountConfig configures the word counter shown on pages.
type CountConfig struct {
	Countable bool   `yaml:"countable"`
	FontSize  string `yaml:"fontsize"`
	Color     string `yaml:"color"`
	Language  string `yaml:"language"`
}

// ProgressConfig configures the reading progress bar.
type ProgressConfig struct {
	Position string `yaml:"position"` // "top" or "bottom"
	Color    string `yaml:"color"`
	Height   string `yaml:"height"`
}

// PaginationConfig configures the previous/next chapter links.
type PaginationConfig struct {
	PreviousText     string `yaml:"previousText"`
	NextText         string `yaml:"nextText"`
	CrossChapter     bool   `yaml:"crossChapter"`
	CrossChapterText bool   `yaml:"crossChapterText"`
}

// Validate checks value ranges and alias patterns.
// Called automatically by LoadConfig, but available for consumers
// who construct Config manually.
func (c *Config) Validate() error {
	if err := validateFieldLength("name", c.Name, MaxNameLength); err != nil {
		return err
	}

	if c.Repo != "" {
		if err := validateFieldLength("repo", c.Repo, MaxURLLength); err != nil {
			return err
		}
		u, err := url.Parse(c.Repo)
		if err != nil || !fileutil.IsURL(c.Repo) || u.Host == "" {
			return fmt.Errorf("%w: repo: %q is not an http(s) URL", ErrInvalidConfig, c.Repo)
		}
	}

	if _, err := handbook.NewAliasTable(c.Alias); err != nil {
		return fmt.Errorf("%w: alias: %w", ErrInvalidConfig, err)
	}

	if c.SubMaxLevel < 0 || c.SubMaxLevel > MaxHeadingLevel {
		return fmt.Errorf("%w: subMaxLevel: must be between 0 and %d, got %d", ErrInvalidConfig, MaxHeadingLevel, c.SubMaxLevel)
	}

	if c.Search.Depth < 0 || c.Search.Depth > MaxHeadingLevel {
		return fmt.Errorf("%w: search.depth: must be between 0 and %d, got %d", ErrInvalidConfig, MaxHeadingLevel, c.Search.Depth)
	}
	if c.Search.MaxAge < 0 {
		return fmt.Errorf("%w: search.maxAge: must not be negative, got %d", ErrInvalidConfig, c.Search.MaxAge)
	}

	switch strings.ToLower(c.Progress.Position) {
	case "", "top", "bottom":
	default:
		return fmt.Errorf("%w: progress.position: invalid value %q (must be top or bottom)", ErrInvalidConfig, c.Progress.Position)
	}

	if c.Theme != "" {
		if err := assets.ValidateAssetName(c.Theme); err != nil {
			return fmt.Errorf("%w: theme: %v", ErrInvalidConfig, err)
		}
	}

	if err := validateFieldLength("pagination.previousText", c.Pagination.PreviousText, MaxTextLength); err != nil {
		return err
	}
	return validateFieldLength("pagination.nextText", c.Pagination.NextText, MaxTextLength)
}

// validateFieldLength checks if a field exceeds its maximum allowed length.
func validateFieldLength(fieldName, value string, maxLength int) error {
	if len(value) > maxLength {
		return fmt.Errorf("%w: %s too long (%d chars, max %d)", ErrInvalidConfig, fieldName, len(value), maxLength)
	}
	return nil
}

// DefaultConfig returns the settings the handbook ships with.
func DefaultConfig() *Config {
	return &Config{
		Name:        "Golang 学习手册",
		Repo:        "https://github.com/askfiy/golang-handbook.git",
		LoadSidebar: true,
		Alias: map[string]string{
			"/.*/_sidebar.md": "/_sidebar.md",
		},
		SubMaxLevel: 6,
		Coverpage:   true,
		Search: SearchConfig{
			Paths:  "auto",
			MaxAge: 100,
			Placeholder: map[string]string{
				"/zh-cn/": "搜索",
				"/":       "Type to search",
			},
			NoData: map[string]string{
				"/zh-cn/": "暂无结果",
				"/":       "No Results!",
			},
			Depth: 6,
		},
		Count: CountConfig{
			Countable: true,
			FontSize:  "0.9em",
			Color:     "rgb(90,90,90)",
			Language:  "chinese",
		},
		Progress: ProgressConfig{
			Position: "top",
			Color:    "var(--theme-color,#42b983)",
			Height:   "3px",
		},
		Pagination: PaginationConfig{
			PreviousText:     "上一章节",
			NextText:         "下一章节",
			CrossChapter:     true,
			CrossChapterText: true,
		},
	}
}

// LoadConfig loads configuration from a file path or config name.
// If nameOrPath contains a path separator, it's treated as a file path.
// Otherwise, it's treated as a config name and searched in standard locations.
// Returns error if the file is not found (no silent fallback).
func LoadConfig(nameOrPath string) (*Config, error) {
	if nameOrPath == "" {
		return nil, ErrEmptyConfigName
	}

	var configPath string
	var err error

	if fileutil.IsFilePath(nameOrPath) {
		configPath = nameOrPath
	} else {
		configPath, err = resolveConfigPath(nameOrPath)
		if err != nil {
			return nil, err
		}
	}

	data, err := os.ReadFile(configPath) // #nosec G304 -- config path is user-provided
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, configPath)
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	return Parse(data)
}

// Parse decodes YAML config data strictly and validates it.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yamlutil.UnmarshalStrict(data, &cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigParse, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// SearchPaths lists the files tried for a config name, in order.
// Extensions: .yaml, .yml. Locations: current directory, then
// <user config dir>/go-handbook/.
func SearchPaths(name string) []string {
	extensions := []string{".yaml", ".yml"}
	paths := make([]string, 0, len(extensions)*2)

	for _, ext := range extensions {
		paths = append(paths, name+ext)
	}

	if userConfigDir, err := os.UserConfigDir(); err == nil {
		for _, ext := range extensions {
			paths = append(paths, filepath.Join(userConfigDir, AppName, name+ext))
		}
	}

	return paths
}

// resolveConfigPath returns the first existing file from SearchPaths.
func resolveConfigPath(name string) (string, error) {
	paths := SearchPaths(name)
	for _, p := range paths {
		if fileutil.FileExists(p) {
			return p, nil
		}
	}

	return "", fmt.Errorf("%w: tried %s", ErrConfigNotFound, strings.Join(paths, ", "))
}
