// Package builtins implements the fplc builtin registry (spec §4.4): the
// Casts, Math, List, String, Time, and I/O categories. EVAL, EXIT, and
// IMPORT need the interpreter's own pipeline/environment/signal machinery
// and are wired directly by pkg/interpreter instead of living here, the way
// the grouping is described in spec §4.4 "Meta"/"Import".
package builtins

import (
	"bufio"
	"io"
	"math/rand"

	"fplc/pkg/runtime"
)

// HandlerFunc implements one builtin. It receives only the per-invocation
// Context and the evaluated arguments; no Environment is passed in.
type HandlerFunc func(ctx *Context, args []runtime.Value) (runtime.Value, error)

// Entry is one registry row: a name's arity contract plus its handler.
type Entry struct {
	Name     string
	MinArgs  int
	MaxArgs  int // -1 means unbounded (variadic)
	Handler  HandlerFunc
}

// Registry maps builtin names to their Entry.
type Registry struct {
	entries map[string]Entry
}

// NewRegistry builds a Registry with every category registered.
func NewRegistry() *Registry {
	r := &Registry{entries: make(map[string]Entry)}
	registerCasts(r)
	registerMath(r)
	registerList(r)
	registerString(r)
	registerTime(r)
	registerIO(r)
	return r
}

func (r *Registry) register(name string, minArgs, maxArgs int, fn HandlerFunc) {
	r.entries[name] = Entry{Name: name, MinArgs: minArgs, MaxArgs: maxArgs, Handler: fn}
}

// Lookup reports whether name is a registered builtin.
func (r *Registry) Lookup(name string) (Entry, bool) {
	e, ok := r.entries[name]
	return e, ok
}

// ArityError reports a builtin invoked with the wrong number of arguments.
type ArityError struct {
	Name string
	Got  int
}

func (e *ArityError) Error() string {
	return "Arity error: " + e.Name + " called with wrong number of arguments"
}

// DomainError reports a builtin given an argument outside its accepted
// domain (spec §4.4, e.g. FACTORIAL(-1)).
type DomainError struct {
	Msg string
}

func (e *DomainError) Error() string { return e.Msg }

// TypeError reports a builtin given an argument of the wrong Value kind.
type TypeError struct {
	Msg string
}

func (e *TypeError) Error() string { return e.Msg }

// IndexError reports an out-of-range or invalid index argument.
type IndexError struct {
	Msg string
}

func (e *IndexError) Error() string { return e.Msg }

// Call invokes name with args after checking its arity, returning
// (result, found, error). found is false when name is not a registered
// builtin at all, letting the caller fall through to procedure lookup.
func (r *Registry) Call(ctx *Context, name string, args []runtime.Value) (runtime.Value, bool, error) {
	e, ok := r.entries[name]
	if !ok {
		return nil, false, nil
	}
	if len(args) < e.MinArgs || (e.MaxArgs >= 0 && len(args) > e.MaxArgs) {
		return nil, true, &ArityError{Name: name, Got: len(args)}
	}
	v, err := e.Handler(ctx, args)
	return v, true, err
}

// Context bundles the per-invocation collaborators builtins need: the
// output sink, the stdin reader, and a private RNG (spec §5: "Each call to
// run constructs its own environment, RNG, builtin registry binding, and
// output sink").
type Context struct {
	Stdout io.Writer
	Stdin  *bufio.Reader
	Rand   *rand.Rand
}

// NewContext builds a Context over the given collaborators.
func NewContext(stdout io.Writer, stdin io.Reader, seed int64) *Context {
	return &Context{
		Stdout: stdout,
		Stdin:  bufio.NewReader(stdin),
		Rand:   rand.New(rand.NewSource(seed)),
	}
}
