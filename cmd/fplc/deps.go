package main

import (
	"fmt"
	"os"
	"sort"

	"fplc/pkg/driver"
)

// runDeps fetches every git-sourced dependency declared in fplc.yml into
// the local cache, mirroring the teacher's `able deps` (SPEC_FULL.md
// EXPANSION "CLI").
func runDeps(args []string) int {
	log := newLogger(len(args) > 0 && args[0] == "-d")

	manifestPath, err := findManifest(".")
	if err != nil {
		fmt.Fprintln(os.Stderr, "fplc deps requires an fplc.yml in this directory or an ancestor")
		return 1
	}
	manifest, err := driver.LoadManifest(manifestPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to read %s: %v\n", manifestPath, err)
		return 1
	}

	names := make([]string, 0, len(manifest.Dependencies))
	for name := range manifest.Dependencies {
		names = append(names, name)
	}
	sort.Strings(names)

	resolver := driver.NewResolver(manifest, cacheDir(), log)
	for _, name := range names {
		dep := manifest.Dependencies[name]
		if dep.Git == "" {
			continue
		}
		if _, err := resolver.Resolve(name); err != nil {
			fmt.Fprintf(os.Stderr, "fetching %s: %v\n", name, err)
			return 1
		}
		fmt.Printf("fetched %s\n", name)
	}
	fmt.Println("Dependencies up to date.")
	return 0
}
