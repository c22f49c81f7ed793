// Package interpreter implements the fplc tree-walking evaluator (spec §4.3):
// the third and largest stage of the lexer → parser → evaluator pipeline.
package interpreter

import (
	"io"
	"time"

	"fplc/pkg/ast"
	"fplc/pkg/builtins"
	"fplc/pkg/parser"
	"fplc/pkg/runtime"
)

// ImportResolver fetches a named unit's source text on behalf of IMPORT
// (spec §4.4 "Import", §6 "Host embedding contract"). The core never reads
// files itself; the host supplies this collaborator.
type ImportResolver func(name string) (string, error)

// ExitStatus is the result of a Run invocation (spec §6).
type ExitStatus struct {
	Code int
	Err  error // non-nil on an uncaught lexing/parsing/evaluation error
}

// Interpreter holds everything one `run` invocation needs: the global
// frame, the builtin registry binding, the per-invocation RNG/output sink,
// and the import resolver/idempotency table. A fresh Interpreter is built
// for every Run call — there is no interpreter-wide global state (spec §5,
// §9 "Global mutable state → per-invocation context").
type Interpreter struct {
	Global    *runtime.Environment
	Registry  *builtins.Registry
	Ctx       *builtins.Context
	Resolver  ImportResolver
	imported  map[string]bool
	callDepth int
}

const maxCallDepth = 2000

// Run lexes, parses, and evaluates source against a fresh interpreter
// instance, exactly the core's single entry point (spec §6).
func Run(source string, stdin io.Reader, stdout io.Writer, resolver ImportResolver) ExitStatus {
	ip := New(stdin, stdout, resolver)
	program, err := parser.Parse(source)
	if err != nil {
		return ExitStatus{Code: 1, Err: err}
	}
	_, err = ip.EvaluateProgram(program)
	if err == nil {
		return ExitStatus{Code: 0}
	}
	if _, ok := err.(exitSignal); ok {
		return ExitStatus{Code: 0}
	}
	return ExitStatus{Code: 1, Err: err}
}

// New constructs an Interpreter with its own global frame, builtin
// registry, and per-invocation RNG seeded from the wall clock.
func New(stdin io.Reader, stdout io.Writer, resolver ImportResolver) *Interpreter {
	return &Interpreter{
		Global:   runtime.NewEnvironment(nil),
		Registry: builtins.NewRegistry(),
		Ctx:      builtins.NewContext(stdout, stdin, time.Now().UnixNano()),
		Resolver: resolver,
		imported: make(map[string]bool),
	}
}

// EvaluateProgram runs every top-level statement against the global frame.
func (ip *Interpreter) EvaluateProgram(program *ast.Program) (runtime.Value, error) {
	var result runtime.Value = runtime.Null{}
	for _, stmt := range program.Statements {
		v, err := ip.evalStatement(stmt, ip.Global)
		if err != nil {
			return nil, err
		}
		result = v
	}
	return result, nil
}

// Eval re-enters the full pipeline for the EVAL builtin (spec §4.4 "Meta",
// §9 "EVAL re-entry"): it shares env so evaluated code can observe and
// mutate the caller's variables, and yields the value of the last
// top-level statement evaluated (Null for an empty program).
func (ip *Interpreter) Eval(src string, env *runtime.Environment) (runtime.Value, error) {
	program, err := parser.Parse(src)
	if err != nil {
		return nil, evalErr(KindParseError, ast.Pos{}, "%s", err.Error())
	}
	var result runtime.Value = runtime.Null{}
	for _, stmt := range program.Statements {
		v, err := ip.evalStatement(stmt, env)
		if err != nil {
			return nil, err
		}
		result = v
	}
	return result, nil
}

// runImport executes IMPORT name: fetches the unit's source from the host
// resolver, parses it, and runs its top-level statements directly against
// Global so declarations become visible there. Repeated imports of the
// same unit are no-ops (spec §4.4 "Import": "Recursive imports are
// idempotent by unit name").
func (ip *Interpreter) runImport(stmt *ast.ImportStatement) error {
	if ip.imported[stmt.Name] {
		return nil
	}
	ip.imported[stmt.Name] = true
	if ip.Resolver == nil {
		return evalErr(KindImportError, stmt.Position(), "no import resolver configured for %q", stmt.Name)
	}
	src, err := ip.Resolver(stmt.Name)
	if err != nil {
		return evalErr(KindImportError, stmt.Position(), "importing %q: %s", stmt.Name, err.Error())
	}
	program, err := parser.Parse(src)
	if err != nil {
		return evalErr(KindImportError, stmt.Position(), "importing %q: %s", stmt.Name, err.Error())
	}
	for _, s := range program.Statements {
		if _, err := ip.evalStatement(s, ip.Global); err != nil {
			return err
		}
	}
	return nil
}

