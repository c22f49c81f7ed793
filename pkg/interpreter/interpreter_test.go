package interpreter

import (
	"bytes"
	"fmt"
	"math"
	"strings"
	"testing"

	"fplc/pkg/parser"
	"fplc/pkg/runtime"
)

func runSrc(t *testing.T, src string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	status := Run(src, strings.NewReader(""), &out, nil)
	return out.String(), status.Err
}

// evalLast runs src to completion and returns the final value bound to x in
// the global frame (every test program below ends by assigning its result
// to x, since AssignStatement itself evaluates to Null rather than the
// assigned value).
func evalLast(t *testing.T, src string) (runtime.Value, error) {
	t.Helper()
	ip := New(strings.NewReader(""), &bytes.Buffer{}, nil)
	prog, err := parser.Parse(src)
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	if _, err := ip.EvaluateProgram(prog); err != nil {
		return nil, err
	}
	v, err := ip.Global.Get("x")
	if err != nil {
		t.Fatalf("x was never bound: %v", err)
	}
	return v, nil
}

func TestIntegerDivisionTruncatesTowardZero(t *testing.T) {
	v, err := evalLast(t, `x <- -7 / 2`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v != runtime.Integer(-3) {
		t.Fatalf("got %v, want -3", v)
	}
}

func TestModSignFollowsDividend(t *testing.T) {
	v, err := evalLast(t, `x <- -7 MOD 2`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v != runtime.Integer(-1) {
		t.Fatalf("got %v, want -1", v)
	}
}

func TestDivModInvariantHoldsForTruncatingDivision(t *testing.T) {
	cases := []struct{ a, b int64 }{
		{-7, 2}, {7, -2}, {-7, -2}, {7, 2}, {1, 3}, {-1, 3},
	}
	for _, c := range cases {
		v, err := evalLast(t, fmt.Sprintf(`x <- (%d / %d) * %d + (%d MOD %d)`, c.a, c.b, c.b, c.a, c.b))
		if err != nil {
			t.Fatalf("unexpected error for a=%d b=%d: %v", c.a, c.b, err)
		}
		if v != runtime.Integer(c.a) {
			t.Fatalf("a=%d b=%d: got %v, want %d ((a/b)*b + (a MOD b) = a)", c.a, c.b, v, c.a)
		}
	}
}

func TestIntegerAddOverflowPromotesToFloat(t *testing.T) {
	v, err := evalLast(t, fmt.Sprintf(`x <- %d + 1`, int64(math.MaxInt64)))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	f, ok := v.(runtime.Float)
	if !ok {
		t.Fatalf("got %v (%T), want a promoted Float", v, v)
	}
	want := float64(math.MaxInt64) + 1
	if float64(f) != want {
		t.Fatalf("got %v, want %v", f, want)
	}
}

func TestIntegerMulOverflowPromotesToFloat(t *testing.T) {
	v, err := evalLast(t, fmt.Sprintf(`x <- %d * 2`, int64(math.MaxInt64)))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := v.(runtime.Float); !ok {
		t.Fatalf("got %v (%T), want a promoted Float", v, v)
	}
}

func TestIntegerAddWithinRangeStaysInteger(t *testing.T) {
	v, err := evalLast(t, `x <- 5 + 3`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v != runtime.Integer(8) {
		t.Fatalf("got %v, want Integer 8", v)
	}
}

func TestIntegerFloatPromotion(t *testing.T) {
	v, err := evalLast(t, `x <- 1 + 2.5`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v != runtime.Float(3.5) {
		t.Fatalf("got %v, want 3.5", v)
	}
}

func TestDivisionByZeroIsArithmeticError(t *testing.T) {
	_, err := evalLast(t, `x <- 1 / 0`)
	if err == nil {
		t.Fatalf("expected an error")
	}
	ee, ok := err.(*EvalError)
	if !ok || ee.Kind != KindArithmeticErr {
		t.Fatalf("got %v, want ArithmeticError", err)
	}
}

func TestNaNPropagatesThroughArithmetic(t *testing.T) {
	v, err := evalLast(t, `x <- NAN + 1`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := v.(runtime.NaNValue); !ok {
		t.Fatalf("got %v, want NaN", v)
	}
}

func TestNaNNeverEqualsItself(t *testing.T) {
	v, err := evalLast(t, `x <- NAN = NAN`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v != runtime.Boolean(false) {
		t.Fatalf("got %v, want false", v)
	}
}

func TestStringConcatenation(t *testing.T) {
	v, err := evalLast(t, `x <- "a" + "b"`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v != runtime.String("ab") {
		t.Fatalf("got %v, want ab", v)
	}
}

func TestMixedStringListConcatIsTypeError(t *testing.T) {
	_, err := evalLast(t, `x <- "a" + [1]`)
	ee, ok := err.(*EvalError)
	if !ok || ee.Kind != KindTypeError {
		t.Fatalf("got %v, want TypeError", err)
	}
}

func TestListConcatenation(t *testing.T) {
	v, err := evalLast(t, `x <- [1, 2] + [3]`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	l, ok := v.(*runtime.List)
	if !ok || len(l.Elements) != 3 {
		t.Fatalf("got %v, want a 3-element list", v)
	}
}

func TestListIndexIsOneBased(t *testing.T) {
	v, err := evalLast(t, `x <- [10, 20, 30][1]`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v != runtime.Integer(10) {
		t.Fatalf("got %v, want 10", v)
	}
}

func TestListIndexOutOfRangeIsIndexError(t *testing.T) {
	_, err := evalLast(t, `x <- [1, 2][0]`)
	ee, ok := err.(*EvalError)
	if !ok || ee.Kind != KindIndexError {
		t.Fatalf("got %v, want IndexError", err)
	}
}

func TestAssignmentCopiesListsDeeply(t *testing.T) {
	v, err := evalLast(t, `
a <- [1, 2]
b <- a
b[1] <- 99
x <- a[1]
`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v != runtime.Integer(1) {
		t.Fatalf("mutating b affected a: got %v, want 1", v)
	}
}

func TestRepeatTimesLoop(t *testing.T) {
	v, err := evalLast(t, `
total <- 0
REPEAT 5 TIMES {
  total <- total + 1
}
x <- total
`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v != runtime.Integer(5) {
		t.Fatalf("got %v, want 5", v)
	}
}

func TestRepeatUntilRunsAtLeastOnce(t *testing.T) {
	v, err := evalLast(t, `
count <- 0
REPEAT UNTIL(count > 0) {
  count <- count + 1
}
x <- count
`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v != runtime.Integer(1) {
		t.Fatalf("got %v, want 1", v)
	}
}

func TestForEachSnapshotsBeforeIteration(t *testing.T) {
	v, err := evalLast(t, `
items <- [1, 2, 3]
seen <- 0
FOR EACH item IN items {
  seen <- seen + 1
  APPEND(items, 99)
}
x <- seen
`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v != runtime.Integer(3) {
		t.Fatalf("got %v, want 3 (loop body mutation of items must not extend iteration)", v)
	}
}

func TestProcedureRecursion(t *testing.T) {
	v, err := evalLast(t, `
PROCEDURE fact(n) {
  IF (n <= 1) {
    RETURN(1)
  }
  RETURN(n * fact(n - 1))
}
x <- fact(5)
`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v != runtime.Integer(120) {
		t.Fatalf("got %v, want 120", v)
	}
}

func TestClassInitAndExplicitThisMethodAccess(t *testing.T) {
	v, err := evalLast(t, `
CLASS Counter() {
  PROCEDURE INIT(start) {
    this.n <- start
  }
  PROCEDURE increment() {
    this.n <- this.n + 1
  }
  PROCEDURE get() {
    RETURN(this.n)
  }
}
c <- Counter(10)
c.increment()
x <- c.get()
`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v != runtime.Integer(11) {
		t.Fatalf("got %v, want 11", v)
	}
}

func TestTryCatchCatchesEvalError(t *testing.T) {
	v, err := evalLast(t, `
msg <- "none"
TRY {
  x <- 1 / 0
} CATCH (e) {
  msg <- e
}
x <- msg
`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	s, ok := v.(runtime.String)
	if !ok || !strings.Contains(string(s), "Division by zero") {
		t.Fatalf("got %v, want the caught \"Division by zero\" message", v)
	}
}

func TestTryCatchDoesNotCatchExit(t *testing.T) {
	out, err := runSrc(t, `
TRY {
  EXIT()
} CATCH (e) {
  DISPLAY("should not run")
}
`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.Contains(out, "should not run") {
		t.Fatalf("EXIT must propagate through TRY/CATCH untouched, got output %q", out)
	}
}

func TestDisplayWritesStringifiedValue(t *testing.T) {
	out, err := runSrc(t, `DISPLAY(1 + 2)`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.TrimSpace(out) != "3" {
		t.Fatalf("got output %q, want 3", out)
	}
}

func TestEvalReentersPipelineAgainstCallerEnv(t *testing.T) {
	v, err := evalLast(t, `
x <- 1
EVAL("x <- x + 41")
`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v != runtime.Integer(42) {
		t.Fatalf("got %v, want 42", v)
	}
}

func TestUndefinedNameIsNameError(t *testing.T) {
	_, err := evalLast(t, `x <- undefinedThing(1)`)
	ee, ok := err.(*EvalError)
	if !ok || ee.Kind != KindNameError {
		t.Fatalf("got %v, want NameError", err)
	}
}

func TestAndRequiresBooleanOperands(t *testing.T) {
	_, err := evalLast(t, `x <- 1 AND TRUE`)
	ee, ok := err.(*EvalError)
	if !ok || ee.Kind != KindTypeError {
		t.Fatalf("got %v, want TypeError", err)
	}
}
