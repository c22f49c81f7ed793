// Command fplc is the CLI driver for the fplc pseudocode interpreter
// (SPEC_FULL.md EXPANSION "CLI"), grounded on the teacher's cmd/able/main.go
// shape: main hands argv to run and os.Exits its result, no flag library.
package main

import (
	"fmt"
	"os"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	if len(args) == 0 {
		printUsage()
		return 1
	}

	switch args[0] {
	case "--help", "-h":
		printUsage()
		return 0
	case "run":
		return runRun(args[1:])
	case "repl":
		return runRepl(args[1:])
	case "deps":
		return runDeps(args[1:])
	default:
		return runRun(args)
	}
}

func printUsage() {
	fmt.Fprintln(os.Stderr, "Usage:")
	fmt.Fprintln(os.Stderr, "  fplc run <source.psl> [-d]")
	fmt.Fprintln(os.Stderr, "  fplc repl [-d]")
	fmt.Fprintln(os.Stderr, "  fplc deps")
}
