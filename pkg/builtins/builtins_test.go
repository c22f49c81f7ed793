package builtins

import (
	"bytes"
	"strings"
	"testing"

	"fplc/pkg/runtime"
)

func newTestContext(stdin string) *Context {
	return NewContext(&bytes.Buffer{}, strings.NewReader(stdin), 1)
}

func call(t *testing.T, r *Registry, ctx *Context, name string, args ...runtime.Value) runtime.Value {
	t.Helper()
	v, handled, err := r.Call(ctx, name, args)
	if !handled {
		t.Fatalf("%s: not a registered builtin", name)
	}
	if err != nil {
		t.Fatalf("%s: unexpected error: %v", name, err)
	}
	return v
}

func TestCastBuiltins(t *testing.T) {
	r := NewRegistry()
	ctx := newTestContext("")
	if v := call(t, r, ctx, "TOSTRING", runtime.Integer(5)); v != runtime.String("5") {
		t.Fatalf("got %v, want \"5\"", v)
	}
	if v := call(t, r, ctx, "TONUM", runtime.String("3.5")); v != runtime.Float(3.5) {
		t.Fatalf("got %v, want 3.5", v)
	}
	if v := call(t, r, ctx, "TONUM", runtime.String("42")); v != runtime.Integer(42) {
		t.Fatalf("got %v, want 42", v)
	}
	if _, _, err := r.Call(ctx, "TONUM", []runtime.Value{runtime.String("nope")}); err == nil {
		t.Fatalf("expected a DomainError for an unparseable number")
	}
}

func TestMathBuiltins(t *testing.T) {
	r := NewRegistry()
	ctx := newTestContext("")
	if v := call(t, r, ctx, "ABS", runtime.Integer(-7)); v != runtime.Integer(7) {
		t.Fatalf("got %v, want 7", v)
	}
	if v := call(t, r, ctx, "FLOOR", runtime.Float(3.7)); v != runtime.Integer(3) {
		t.Fatalf("got %v, want 3", v)
	}
	if v := call(t, r, ctx, "GCD", runtime.Integer(12), runtime.Integer(18)); v != runtime.Integer(6) {
		t.Fatalf("got %v, want 6", v)
	}
	if v := call(t, r, ctx, "FACTORIAL", runtime.Integer(5)); v != runtime.Integer(120) {
		t.Fatalf("got %v, want 120", v)
	}
	if _, _, err := r.Call(ctx, "FACTORIAL", []runtime.Value{runtime.Integer(-1)}); err == nil {
		t.Fatalf("expected a DomainError for a negative FACTORIAL argument")
	}
	if v := call(t, r, ctx, "MAX", runtime.Integer(1), runtime.Integer(9), runtime.Integer(3)); v != runtime.Integer(9) {
		t.Fatalf("got %v, want 9", v)
	}
	if v := call(t, r, ctx, "SQRT", runtime.Float(-1)); v.Kind() != runtime.KindNaN {
		t.Fatalf("got %v, want NaN for SQRT of a negative number", v)
	}
	if v := call(t, r, ctx, "POW", runtime.Integer(2), runtime.Integer(10)); v != runtime.Integer(1024) {
		t.Fatalf("got %v, want 1024", v)
	}
}

func TestRandomRespectsBounds(t *testing.T) {
	r := NewRegistry()
	ctx := newTestContext("")
	for i := 0; i < 50; i++ {
		v := call(t, r, ctx, "RANDOM", runtime.Integer(1), runtime.Integer(3))
		n, ok := v.(runtime.Integer)
		if !ok || n < 1 || n > 3 {
			t.Fatalf("got %v, want an Integer in [1, 3]", v)
		}
	}
	if _, _, err := r.Call(ctx, "RANDOM", []runtime.Value{runtime.Integer(5), runtime.Integer(1)}); err == nil {
		t.Fatalf("expected a DomainError when lower bound exceeds upper bound")
	}
}

func TestListBuiltins(t *testing.T) {
	r := NewRegistry()
	ctx := newTestContext("")

	l := runtime.NewList([]runtime.Value{runtime.Integer(1), runtime.Integer(2)})
	call(t, r, ctx, "APPEND", l, runtime.Integer(3))
	if len(l.Elements) != 3 || l.Elements[2] != runtime.Integer(3) {
		t.Fatalf("APPEND did not extend the list: %v", l.Elements)
	}

	call(t, r, ctx, "INSERT", l, runtime.Integer(1), runtime.Integer(0))
	if l.Elements[0] != runtime.Integer(0) {
		t.Fatalf("INSERT did not place at index 1: %v", l.Elements)
	}

	call(t, r, ctx, "REMOVE", l, runtime.Integer(1))
	if l.Elements[0] != runtime.Integer(1) {
		t.Fatalf("REMOVE did not drop the first element: %v", l.Elements)
	}

	if v := call(t, r, ctx, "LENGTH", l); v != runtime.Integer(3) {
		t.Fatalf("got %v, want 3", v)
	}

	unsorted := runtime.NewList([]runtime.Value{runtime.Integer(3), runtime.Integer(1), runtime.Integer(2)})
	sorted := call(t, r, ctx, "SORT", unsorted).(*runtime.List)
	want := []int64{1, 2, 3}
	for i, w := range want {
		if sorted.Elements[i] != runtime.Integer(w) {
			t.Fatalf("got %v, want sorted [1 2 3]", sorted.Elements)
		}
	}

	rng := call(t, r, ctx, "RANGE", runtime.Integer(2), runtime.Integer(5)).(*runtime.List)
	if len(rng.Elements) != 4 || rng.Elements[0] != runtime.Integer(2) {
		t.Fatalf("got %v, want [2 3 4 5]", rng.Elements)
	}
}

func TestListBuiltinsRejectNonList(t *testing.T) {
	r := NewRegistry()
	ctx := newTestContext("")
	if _, _, err := r.Call(ctx, "LENGTH", []runtime.Value{runtime.Integer(1)}); err == nil {
		t.Fatalf("expected a TypeError for LENGTH on a non-List")
	}
}

func TestStringBuiltins(t *testing.T) {
	r := NewRegistry()
	ctx := newTestContext("")

	if v := call(t, r, ctx, "SUBSTRING", runtime.String("hello"), runtime.Integer(2), runtime.Integer(4)); v != runtime.String("ell") {
		t.Fatalf("got %v, want ell", v)
	}
	if v := call(t, r, ctx, "CONCAT", runtime.String("foo"), runtime.String("bar")); v != runtime.String("foobar") {
		t.Fatalf("got %v, want foobar", v)
	}
	if v := call(t, r, ctx, "CONTAINS", runtime.String("hello"), runtime.String("ell")); v != runtime.Boolean(true) {
		t.Fatalf("got %v, want true", v)
	}
	if v := call(t, r, ctx, "FIND", runtime.String("hello"), runtime.String("l")); v != runtime.Integer(3) {
		t.Fatalf("got %v, want 3", v)
	}
	if v := call(t, r, ctx, "FIND", runtime.String("hello"), runtime.String("z")); v != runtime.Integer(-1) {
		t.Fatalf("got %v, want -1", v)
	}
	split := call(t, r, ctx, "SPLIT", runtime.String("a,b,c"), runtime.String(",")).(*runtime.List)
	if len(split.Elements) != 3 || split.Elements[1] != runtime.String("b") {
		t.Fatalf("got %v, want [a b c]", split.Elements)
	}
	if v := call(t, r, ctx, "TRIM", runtime.String("  hi  ")); v != runtime.String("hi") {
		t.Fatalf("got %q, want hi", v)
	}
	if v := call(t, r, ctx, "REPLACE", runtime.String("aaa"), runtime.String("a"), runtime.String("b")); v != runtime.String("bbb") {
		t.Fatalf("got %v, want bbb", v)
	}
	if v := call(t, r, ctx, "UPPERCASE", runtime.String("hi")); v != runtime.String("HI") {
		t.Fatalf("got %v, want HI", v)
	}
	if v := call(t, r, ctx, "LOWERCASE", runtime.String("HI")); v != runtime.String("hi") {
		t.Fatalf("got %v, want hi", v)
	}
	if v := call(t, r, ctx, "STARTSWITH", runtime.String("hello"), runtime.String("he")); v != runtime.Boolean(true) {
		t.Fatalf("got %v, want true", v)
	}
	if v := call(t, r, ctx, "ENDSWITH", runtime.String("hello"), runtime.String("lo")); v != runtime.Boolean(true) {
		t.Fatalf("got %v, want true", v)
	}
}

func TestSubstringOutOfRangeIsIndexError(t *testing.T) {
	r := NewRegistry()
	ctx := newTestContext("")
	if _, _, err := r.Call(ctx, "SUBSTRING", []runtime.Value{runtime.String("hi"), runtime.Integer(1), runtime.Integer(99)}); err == nil {
		t.Fatalf("expected an IndexError")
	}
}

func TestInputReadsALine(t *testing.T) {
	r := NewRegistry()
	ctx := newTestContext("hello world\n")
	if v := call(t, r, ctx, "INPUT"); v != runtime.String("hello world") {
		t.Fatalf("got %q, want \"hello world\"", v)
	}
}

func TestTimezonesReturnsANonEmptyList(t *testing.T) {
	r := NewRegistry()
	ctx := newTestContext("")
	v := call(t, r, ctx, "TIMEZONES").(*runtime.List)
	if len(v.Elements) == 0 {
		t.Fatalf("expected a non-empty list of timezones")
	}
}

func TestArityErrorOnWrongArgumentCount(t *testing.T) {
	r := NewRegistry()
	ctx := newTestContext("")
	if _, _, err := r.Call(ctx, "ABS", []runtime.Value{}); err == nil {
		t.Fatalf("expected an ArityError for ABS called with 0 arguments")
	}
}

func TestUnknownBuiltinIsNotHandled(t *testing.T) {
	r := NewRegistry()
	ctx := newTestContext("")
	_, handled, _ := r.Call(ctx, "NOT_A_BUILTIN", nil)
	if handled {
		t.Fatalf("expected handled=false for an unregistered name")
	}
}
