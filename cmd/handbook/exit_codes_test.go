package main

// Notes:
// - exitCodeFor: every sentinel from the handbook, config and CLI packages,
//   plus wrapped variants to verify the errors.Is chain.

import (
	"errors"
	"fmt"
	"os"
	"testing"

	handbook "github.com/alnah/go-handbook"
	"github.com/alnah/go-handbook/internal/assets"
	"github.com/alnah/go-handbook/internal/config"
)

// ---------------------------------------------------------------------------
// TestExitCodeFor - Error to exit code mapping
// ---------------------------------------------------------------------------

func TestExitCodeFor(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		err  error
		want int
	}{
		// Success
		{"nil error", nil, ExitSuccess},

		// I/O errors (exit 3)
		{"file not exist", os.ErrNotExist, ExitIO},
		{"permission denied", os.ErrPermission, ExitIO},
		{"file exists", os.ErrExist, ExitIO},
		{"read markdown", ErrReadMarkdown, ExitIO},
		{"write html", ErrWriteHTML, ExitIO},
		{"no input", ErrNoInput, ExitIO},
		{"wrapped file not exist", fmt.Errorf("reading: %w", os.ErrNotExist), ExitIO},

		// Usage/config/validation errors (exit 2)
		{"usage", ErrUsage, ExitUsage},
		{"invalid extension", ErrInvalidExtension, ExitUsage},
		{"config not found", config.ErrConfigNotFound, ExitUsage},
		{"empty config name", config.ErrEmptyConfigName, ExitUsage},
		{"config parse", config.ErrConfigParse, ExitUsage},
		{"invalid config", config.ErrInvalidConfig, ExitUsage},
		{"empty markdown", handbook.ErrEmptyMarkdown, ExitUsage},
		{"invalid sub max level", handbook.ErrInvalidSubMaxLevel, ExitUsage},
		{"invalid alias", handbook.ErrInvalidAlias, ExitUsage},
		{"theme not found", assets.ErrThemeNotFound, ExitUsage},
		{"invalid theme dir", assets.ErrInvalidThemeDir, ExitUsage},
		{"theme too large", assets.ErrThemeTooLarge, ExitUsage},
		{"theme link escapes", assets.ErrPathTraversal, ExitUsage},
		{"unsupported shell", ErrUnsupportedShell, ExitUsage},
		{"wrapped config parse", fmt.Errorf("loading: %w", config.ErrConfigParse), ExitUsage},

		// General errors (exit 1)
		{"unknown error", errors.New("boom"), ExitGeneral},
		{"continuation not called", handbook.ErrContinuationNotCalled, ExitGeneral},
		{"pool closed", ErrPoolClosed, ExitGeneral},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := exitCodeFor(tt.err); got != tt.want {
				t.Errorf("exitCodeFor(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}

func TestExitCodes_Conventions(t *testing.T) {
	t.Parallel()

	if ExitSuccess != 0 || ExitGeneral != 1 || ExitUsage != 2 {
		t.Error("exit codes must follow 0=success, 1=general, 2=usage")
	}
	if ExitIO >= 126 {
		t.Errorf("ExitIO = %d, custom codes must be below 126", ExitIO)
	}
}
