package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"

	"fplc/pkg/interpreter"
	"fplc/pkg/runtime"
)

const (
	historyFile = ".fplc_history"
	promptMain  = "fplc> "
	promptCont  = "...   "
	banner      = "fplc REPL — Ctrl+D to exit. Type :vars to list bindings."
)

// runRepl is an interactive persistent-environment loop grounded on
// daios-ai-msg/mindscript/cmd/main.go's line-editing loop (SPEC_FULL.md
// EXPANSION "REPL"). Each line is evaluated against a single Global frame
// shared across the whole session, and the canonical form of any non-null
// result is printed.
func runRepl(args []string) int {
	debug := false
	for _, a := range args {
		if a == "-d" {
			debug = true
		}
	}
	log := newLogger(debug)
	fmt.Println(banner)

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	histPath := ""
	if home, err := os.UserHomeDir(); err == nil {
		histPath = filepath.Join(home, historyFile)
		if f, err := os.Open(histPath); err == nil {
			ln.ReadHistory(f)
			f.Close()
		}
	}

	resolver := buildResolver(".", log)
	ip := interpreter.New(os.Stdin, os.Stdout, resolver.Resolve)

	for {
		code, ok := readUntilBalanced(ln)
		if !ok {
			fmt.Println()
			break
		}
		if strings.TrimSpace(code) == "" {
			continue
		}
		if strings.TrimSpace(code) == ":vars" {
			printVars(ip.Global)
			continue
		}
		ln.AppendHistory(strings.ReplaceAll(code, "\n", " "))

		v, err := ip.Eval(code, ip.Global)
		if err != nil {
			fmt.Println(err)
			continue
		}
		if _, isNull := v.(runtime.Null); !isNull {
			fmt.Println(runtime.Stringify(v))
		}
	}

	if histPath != "" {
		if f, err := os.Create(histPath); err == nil {
			ln.WriteHistory(f)
			f.Close()
		}
	}
	return 0
}

// printVars lists the session's top-level bindings, grounded on
// daios-ai-msg/mindscript/cmd/main.go's :-prefixed REPL commands. Snapshot
// gives a stable copy to print against while Keys orders it deterministically.
func printVars(global *runtime.Environment) {
	bindings := global.Snapshot()
	for _, name := range global.Keys() {
		fmt.Printf("%s = %s\n", name, runtime.Stringify(bindings[name]))
	}
}

// readUntilBalanced accumulates lines until braces/brackets/parens balance,
// so a multi-line PROCEDURE/CLASS/IF body can be typed across several
// prompts. Returns ok=false on Ctrl+D/EOF.
func readUntilBalanced(ln *liner.State) (string, bool) {
	var b strings.Builder
	depth := 0
	for {
		prompt := promptMain
		if b.Len() > 0 {
			prompt = promptCont
		}
		line, err := ln.Prompt(prompt)
		if errors.Is(err, io.EOF) {
			return "", false
		}
		if err != nil {
			return "", true
		}
		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(line)
		depth += braceDelta(line)
		if depth <= 0 {
			return b.String(), true
		}
	}
}

func braceDelta(line string) int {
	delta := 0
	for _, ch := range line {
		switch ch {
		case '{', '(', '[':
			delta++
		case '}', ')', ']':
			delta--
		}
	}
	return delta
}
