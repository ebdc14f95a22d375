package main

import (
	"context"
	"errors"
	"strings"
	"testing"
)

// ---------------------------------------------------------------------------
// TestRun - Command dispatch
// ---------------------------------------------------------------------------

func TestRun_Version(t *testing.T) {
	t.Parallel()

	env, stdout, _ := testEnv()
	if err := run(context.Background(), []string{"version"}, env); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := stdout.String(); got != "handbook "+Version+"\n" {
		t.Errorf("stdout = %q", got)
	}
}

func TestRun_UsageErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		args []string
	}{
		{"no command", nil},
		{"unknown command", []string{"convert"}},
		{"help for unknown command", []string{"help", "convert"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			env, _, stderr := testEnv()
			err := run(context.Background(), tt.args, env)
			if !errors.Is(err, ErrUsage) {
				t.Errorf("error = %v, want ErrUsage", err)
			}
			if !strings.Contains(stderr.String(), "Usage: handbook") {
				t.Errorf("stderr should show usage:\n%s", stderr.String())
			}
		})
	}
}

func TestRunMain_ExitCodes(t *testing.T) {
	t.Parallel()

	dir := setupTestDir(t, map[string]string{"doc.md": "# Doc\n"})

	tests := []struct {
		name string
		args []string
		want int
	}{
		{"version", []string{"version"}, ExitSuccess},
		{"unknown command", []string{"bogus"}, ExitUsage},
		{"missing input", []string{"render", dir + "/absent.md"}, ExitIO},
		{"render", []string{"render", "-q", dir}, ExitSuccess},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			env, _, stderr := testEnv()
			if got := runMain(tt.args, env); got != tt.want {
				t.Errorf("runMain(%v) = %d, want %d\nstderr: %s", tt.args, got, tt.want, stderr.String())
			}
		})
	}
}

