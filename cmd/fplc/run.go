package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"fplc/pkg/driver"
	"fplc/pkg/interpreter"
)

func runRun(args []string) int {
	var debug bool
	var source string
	for _, a := range args {
		if a == "-d" {
			debug = true
			continue
		}
		if source == "" {
			source = a
			continue
		}
		fmt.Fprintf(os.Stderr, "unexpected argument: %s\n", a)
		return 1
	}
	if source == "" {
		fmt.Fprintln(os.Stderr, "fplc run requires a source file")
		return 1
	}

	log := newLogger(debug)
	data, err := os.ReadFile(source)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to read %s: %v\n", source, err)
		return 1
	}

	resolver := buildResolver(filepath.Dir(source), log)
	status := interpreter.Run(string(data), os.Stdin, os.Stdout, resolver.Resolve)
	if status.Err != nil {
		fmt.Fprintln(os.Stderr, status.Err)
	}
	return status.Code
}

// newLogger builds the CLI's one externally observable side channel
// besides the output sink (SPEC_FULL.md "Logging"); the evaluator itself
// never logs.
func newLogger(debug bool) *slog.Logger {
	level := slog.LevelWarn
	if debug {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// buildResolver loads fplc.yml from dir upward if present, falling back to
// a bare filesystem resolver rooted at dir when no manifest is found.
func buildResolver(dir string, log *slog.Logger) *driver.Resolver {
	manifestPath, err := findManifest(dir)
	var manifest *driver.Manifest
	if err == nil {
		manifest, err = driver.LoadManifest(manifestPath)
		if err != nil {
			log.Warn("failed to parse fplc.yml, ignoring", "error", err)
			manifest = nil
		}
	}
	if manifest == nil {
		manifest = &driver.Manifest{ImportPaths: []string{dir}}
	} else {
		manifest.ImportPaths = append(manifest.ImportPaths, dir)
	}
	return driver.NewResolver(manifest, cacheDir(), log)
}

func findManifest(start string) (string, error) {
	dir, err := filepath.Abs(start)
	if err != nil {
		return "", err
	}
	for {
		candidate := filepath.Join(dir, "fplc.yml")
		if info, statErr := os.Stat(candidate); statErr == nil && !info.IsDir() {
			return candidate, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("no fplc.yml found from %s upwards", start)
		}
		dir = parent
	}
}

func cacheDir() string {
	if env := strings.TrimSpace(os.Getenv("FPLC_HOME")); env != "" {
		return env
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".fplc-cache"
	}
	return filepath.Join(home, ".fplc")
}
