// Package hints provides actionable error hints for common failure scenarios.
// Hints are formatted consistently as "\n  hint: <text>" for appending to error messages.
package hints

import (
	"errors"
	"strings"
	"syscall"
)

// ForConfigNotFound returns hints for config file not found errors.
// Suggests --config and, when a user config path was searched, creating it
// with the init command.
func ForConfigNotFound(searchedPaths []string, appName string) string {
	hints := []string{"use --config /path/to/file.yaml"}

	for _, p := range searchedPaths {
		if appName != "" && strings.Contains(p, appName) {
			hints = append(hints, "run 'handbook init "+p+"'")
			break
		}
	}

	return formatHints(hints)
}

// ForOutputDirectory returns hints for output directory creation errors.
func ForOutputDirectory() string {
	return format("check parent directory exists and is writable")
}

// ForTimeout returns a hint about increasing timeout for slow renders.
func ForTimeout() string {
	return format("for large pages, use --timeout flag")
}

// ForListen returns hints for server listen errors.
// Returns an empty string when err carries no known cause.
func ForListen(err error, addr string) string {
	switch {
	case errors.Is(err, syscall.EADDRINUSE):
		return format(addr + " is in use; pick another with --addr")
	case errors.Is(err, syscall.EACCES):
		return format("ports below 1024 need elevated privileges; try --addr :3000")
	default:
		return ""
	}
}

// ForEmptyInput returns a hint when no markdown file was found.
func ForEmptyInput() string {
	return format("files starting with '_' or '.' are skipped; check the path contains .md pages")
}

// format creates a single hint string with consistent formatting.
func format(hint string) string {
	if hint == "" {
		return ""
	}
	return "\n  hint: " + hint
}

// formatHints joins multiple hints with consistent formatting.
func formatHints(hints []string) string {
	if len(hints) == 0 {
		return ""
	}
	return format(strings.Join(hints, "; "))
}
