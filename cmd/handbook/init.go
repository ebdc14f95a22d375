package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/alnah/go-handbook/internal/config"
	"github.com/alnah/go-handbook/internal/fileutil"
	"github.com/alnah/go-handbook/internal/yamlutil"
)

// defaultConfigFile is written by init when no path is given.
const defaultConfigFile = "handbook.yaml"

// runInit writes the default configuration as YAML.
// Refuses to overwrite an existing file.
func runInit(args []string, env *Environment) error {
	if len(args) > 1 {
		return fmt.Errorf("%w: init takes at most one path", ErrUsage)
	}
	target := defaultConfigFile
	if len(args) == 1 {
		target = args[0]
	}

	if fileutil.FileExists(target) {
		return fmt.Errorf("%w: %s", os.ErrExist, target)
	}

	data, err := yamlutil.Marshal(config.DefaultConfig())
	if err != nil {
		return fmt.Errorf("encoding default config: %w", err)
	}

	if dir := filepath.Dir(target); dir != "." {
		if err := os.MkdirAll(dir, dirPermissions); err != nil {
			return fmt.Errorf("creating %s: %w", dir, err)
		}
	}

	f, err := os.OpenFile(target, os.O_WRONLY|os.O_CREATE|os.O_EXCL, filePermissions) // #nosec G304 -- user-provided path
	if err != nil {
		return fmt.Errorf("creating %s: %w", target, err)
	}
	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		return fmt.Errorf("writing %s: %w", target, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("writing %s: %w", target, err)
	}

	fmt.Fprintf(env.Stdout, "Created %s\n", target)
	return nil
}

