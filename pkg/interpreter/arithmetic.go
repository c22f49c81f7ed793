package interpreter

import (
	"math"

	"fplc/pkg/ast"
	"fplc/pkg/runtime"
)

// evalArith implements spec §4.3 "Arithmetic": Integer/Float promotion,
// truncation-toward-zero division, sign-of-dividend MOD, overflow-to-Float
// promotion on Integer +/-/*, NaN propagation, and String/List concatenation
// via +.
func (ip *Interpreter) evalArith(op string, left, right runtime.Value, pos ast.Pos) (runtime.Value, error) {
	if op == "+" {
		if v, ok, err := evalConcat(left, right, pos); ok {
			return v, err
		}
	}

	if _, ok := left.(runtime.NaNValue); ok {
		if !runtime.IsNumeric(right) {
			return nil, typeErrForArith(op, left, right, pos)
		}
		return runtime.NaNValue{}, nil
	}
	if _, ok := right.(runtime.NaNValue); ok {
		if !runtime.IsNumeric(left) {
			return nil, typeErrForArith(op, left, right, pos)
		}
		return runtime.NaNValue{}, nil
	}

	if !runtime.IsNumeric(left) || !runtime.IsNumeric(right) {
		return nil, typeErrForArith(op, left, right, pos)
	}

	li, lIsInt := left.(runtime.Integer)
	ri, rIsInt := right.(runtime.Integer)

	if lIsInt && rIsInt {
		a, b := int64(li), int64(ri)
		switch op {
		case "+":
			if (a > 0 && b > math.MaxInt64-a) || (a < 0 && b < math.MinInt64-a) {
				return runtime.Float(float64(a) + float64(b)), nil
			}
			return runtime.Integer(a + b), nil
		case "-":
			if (b > 0 && a < math.MinInt64+b) || (b < 0 && a > math.MaxInt64+b) {
				return runtime.Float(float64(a) - float64(b)), nil
			}
			return runtime.Integer(a - b), nil
		case "*":
			if a != 0 && b != 0 && mulOverflows(a, b) {
				return runtime.Float(float64(a) * float64(b)), nil
			}
			return runtime.Integer(a * b), nil
		case "/":
			if b == 0 {
				return nil, evalErr(KindArithmeticErr, pos, "Division by zero")
			}
			return runtime.Integer(a / b), nil // Go integer division truncates toward zero
		case "MOD":
			if b == 0 {
				return nil, evalErr(KindArithmeticErr, pos, "Division by zero")
			}
			return runtime.Integer(a % b), nil // sign of the dividend, per spec §4.3/§8
		}
	}

	a := toFloat(left)
	b := toFloat(right)
	switch op {
	case "+":
		return runtime.Float(a + b), nil
	case "-":
		return runtime.Float(a - b), nil
	case "*":
		return runtime.Float(a * b), nil
	case "/":
		if b == 0 {
			return nil, evalErr(KindArithmeticErr, pos, "Division by zero")
		}
		return runtime.Float(a / b), nil
	case "MOD":
		if b == 0 {
			return nil, evalErr(KindArithmeticErr, pos, "Division by zero")
		}
		return runtime.Float(math.Mod(a, b)), nil // sign of the dividend, per spec §4.3/§8
	}
	return nil, evalErr(KindTypeError, pos, "unknown arithmetic operator %q", op)
}

// mulOverflows reports whether a*b would overflow int64, assuming a != 0 and
// b != 0 (ported from the Rust source's evaluate_binary_op Mul guard).
func mulOverflows(a, b int64) bool {
	switch {
	case a > 0 && b > 0:
		return a > math.MaxInt64/b
	case a > 0 && b < 0:
		return b < math.MinInt64/a
	case a < 0 && b > 0:
		return a < math.MinInt64/b
	default:
		return a < math.MaxInt64/b
	}
}

func isNaN(v runtime.Value) bool {
	_, ok := v.(runtime.NaNValue)
	return ok
}

func toFloat(v runtime.Value) float64 {
	switch x := v.(type) {
	case runtime.Integer:
		return float64(x)
	case runtime.Float:
		return float64(x)
	}
	return 0
}

func typeErrForArith(op string, left, right runtime.Value, pos ast.Pos) error {
	return evalErr(KindTypeError, pos, "cannot apply %s to %s and %s", op, left.Kind(), right.Kind())
}

// evalConcat handles `+` between two Strings or two Lists; mixed List/String
// is rejected as a TypeError (spec §9 Open Question resolution). The bool
// return reports whether this call handled the combination at all.
func evalConcat(left, right runtime.Value, pos ast.Pos) (runtime.Value, bool, error) {
	ls, lIsStr := left.(runtime.String)
	rs, rIsStr := right.(runtime.String)
	if lIsStr && rIsStr {
		return runtime.String(string(ls) + string(rs)), true, nil
	}
	ll, lIsList := left.(*runtime.List)
	rl, rIsList := right.(*runtime.List)
	if lIsList && rIsList {
		combined := make([]runtime.Value, 0, len(ll.Elements)+len(rl.Elements))
		combined = append(combined, ll.Elements...)
		combined = append(combined, rl.Elements...)
		return runtime.NewList(combined), true, nil
	}
	if lIsStr || lIsList || rIsStr || rIsList {
		return nil, true, evalErr(KindTypeError, pos, "cannot apply + to %s and %s", left.Kind(), right.Kind())
	}
	return nil, false, nil
}

// evalRelational implements =, NOT=, and ordering comparisons (spec §4.3
// "Relational"). NaN never equals anything, including itself.
func (ip *Interpreter) evalRelational(op string, left, right runtime.Value, pos ast.Pos) (runtime.Value, error) {
	if op == "=" || op == "NOT=" {
		eq := valuesEqual(left, right)
		if op == "NOT=" {
			eq = !eq
		}
		return runtime.Boolean(eq), nil
	}

	if !runtime.IsNumeric(left) || !runtime.IsNumeric(right) {
		if ls, ok := left.(runtime.String); ok {
			if rs, ok2 := right.(runtime.String); ok2 {
				return runtime.Boolean(compareOrdered(op, string(ls) < string(rs), string(ls) == string(rs))), nil
			}
		}
		return nil, evalErr(KindTypeError, pos, "cannot compare %s and %s", left.Kind(), right.Kind())
	}
	if isNaN(left) || isNaN(right) {
		return runtime.Boolean(false), nil
	}
	a, b := toFloat(left), toFloat(right)
	return runtime.Boolean(compareOrdered(op, a < b, a == b)), nil
}

func compareOrdered(op string, less, equal bool) bool {
	switch op {
	case ">":
		return !less && !equal
	case "<":
		return less
	case ">=":
		return !less
	case "<=":
		return less || equal
	}
	return false
}

// valuesEqual implements `=` across all kinds (spec §4.3): NaN is never
// equal to anything, numerics compare across Integer/Float, Lists compare
// element-wise, Instances compare by identity.
func valuesEqual(left, right runtime.Value) bool {
	if isNaN(left) || isNaN(right) {
		return false
	}
	if runtime.IsNumeric(left) && runtime.IsNumeric(right) {
		return toFloat(left) == toFloat(right)
	}
	switch l := left.(type) {
	case runtime.String:
		r, ok := right.(runtime.String)
		return ok && l == r
	case runtime.Boolean:
		r, ok := right.(runtime.Boolean)
		return ok && l == r
	case runtime.Null:
		_, ok := right.(runtime.Null)
		return ok
	case *runtime.List:
		r, ok := right.(*runtime.List)
		if !ok || len(l.Elements) != len(r.Elements) {
			return false
		}
		for i := range l.Elements {
			if !valuesEqual(l.Elements[i], r.Elements[i]) {
				return false
			}
		}
		return true
	case *runtime.Instance:
		r, ok := right.(*runtime.Instance)
		return ok && l == r
	case *runtime.Procedure:
		r, ok := right.(*runtime.Procedure)
		return ok && l == r
	case *runtime.Class:
		r, ok := right.(*runtime.Class)
		return ok && l == r
	}
	return false
}
