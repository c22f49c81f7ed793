package builtins

import (
	"math"

	"fplc/pkg/runtime"
)

func registerMath(r *Registry) {
	r.register("ABS", 1, 1, biAbs)
	r.register("CEIL", 1, 1, unaryFloatToInt(math.Ceil))
	r.register("FLOOR", 1, 1, unaryFloatToInt(math.Floor))
	r.register("ROUND", 1, 1, unaryFloatToInt(math.Round))
	r.register("SQRT", 1, 1, biSqrt)
	r.register("POW", 2, 2, biPow)
	r.register("EXP", 1, 1, unaryFloat(math.Exp))
	r.register("LOG", 1, 1, unaryFloat(math.Log))
	r.register("LOGTEN", 1, 1, unaryFloat(math.Log10))
	r.register("LOGTWO", 1, 1, unaryFloat(math.Log2))
	r.register("SIN", 1, 1, unaryFloat(math.Sin))
	r.register("COS", 1, 1, unaryFloat(math.Cos))
	r.register("TAN", 1, 1, unaryFloat(math.Tan))
	r.register("ASIN", 1, 1, unaryFloat(math.Asin))
	r.register("ACOS", 1, 1, unaryFloat(math.Acos))
	r.register("ATAN", 1, 1, unaryFloat(math.Atan))
	r.register("HYPOT", 2, 2, biHypot)
	r.register("MIN", 1, -1, biMin)
	r.register("MAX", 1, -1, biMax)
	r.register("GCD", 2, 2, biGCD)
	r.register("FACTORIAL", 1, 1, biFactorial)
	r.register("DEGREES", 1, 1, unaryFloat(func(x float64) float64 { return x * 180 / math.Pi }))
	r.register("RADIANS", 1, 1, unaryFloat(func(x float64) float64 { return x * math.Pi / 180 }))
	r.register("RANDOM", 2, 2, biRandom)
}

func toFloat64(v runtime.Value) (float64, bool) {
	switch x := v.(type) {
	case runtime.Integer:
		return float64(x), true
	case runtime.Float:
		return float64(x), true
	default:
		return 0, false
	}
}

func isNaNValue(v runtime.Value) bool {
	_, ok := v.(runtime.NaNValue)
	return ok
}

func unaryFloat(fn func(float64) float64) HandlerFunc {
	return func(ctx *Context, args []runtime.Value) (runtime.Value, error) {
		if isNaNValue(args[0]) {
			return runtime.NaNValue{}, nil
		}
		f, ok := toFloat64(args[0])
		if !ok {
			return nil, &TypeError{Msg: "expected a numeric argument"}
		}
		return runtime.Float(fn(f)), nil
	}
}

func unaryFloatToInt(fn func(float64) float64) HandlerFunc {
	return func(ctx *Context, args []runtime.Value) (runtime.Value, error) {
		if isNaNValue(args[0]) {
			return runtime.NaNValue{}, nil
		}
		f, ok := toFloat64(args[0])
		if !ok {
			return nil, &TypeError{Msg: "expected a numeric argument"}
		}
		return runtime.Integer(int64(fn(f))), nil
	}
}

func biAbs(ctx *Context, args []runtime.Value) (runtime.Value, error) {
	switch x := args[0].(type) {
	case runtime.Integer:
		if x < 0 {
			return -x, nil
		}
		return x, nil
	case runtime.Float:
		return runtime.Float(math.Abs(float64(x))), nil
	case runtime.NaNValue:
		return runtime.NaNValue{}, nil
	default:
		return nil, &TypeError{Msg: "ABS expects a numeric argument"}
	}
}

func biSqrt(ctx *Context, args []runtime.Value) (runtime.Value, error) {
	if isNaNValue(args[0]) {
		return runtime.NaNValue{}, nil
	}
	f, ok := toFloat64(args[0])
	if !ok {
		return nil, &TypeError{Msg: "SQRT expects a numeric argument"}
	}
	if f < 0 {
		return runtime.NaNValue{}, nil
	}
	return runtime.Float(math.Sqrt(f)), nil
}

func biPow(ctx *Context, args []runtime.Value) (runtime.Value, error) {
	if isNaNValue(args[0]) || isNaNValue(args[1]) {
		return runtime.NaNValue{}, nil
	}
	base, ok1 := toFloat64(args[0])
	exp, ok2 := toFloat64(args[1])
	if !ok1 || !ok2 {
		return nil, &TypeError{Msg: "POW expects numeric arguments"}
	}
	result := math.Pow(base, exp)
	_, baseInt := args[0].(runtime.Integer)
	_, expInt := args[1].(runtime.Integer)
	if baseInt && expInt && exp >= 0 && result == math.Trunc(result) {
		return runtime.Integer(int64(result)), nil
	}
	return runtime.Float(result), nil
}

func biHypot(ctx *Context, args []runtime.Value) (runtime.Value, error) {
	if isNaNValue(args[0]) || isNaNValue(args[1]) {
		return runtime.NaNValue{}, nil
	}
	a, ok1 := toFloat64(args[0])
	b, ok2 := toFloat64(args[1])
	if !ok1 || !ok2 {
		return nil, &TypeError{Msg: "HYPOT expects numeric arguments"}
	}
	return runtime.Float(math.Hypot(a, b)), nil
}

func biMin(ctx *Context, args []runtime.Value) (runtime.Value, error) {
	return extremum(args, true)
}

func biMax(ctx *Context, args []runtime.Value) (runtime.Value, error) {
	return extremum(args, false)
}

func extremum(args []runtime.Value, wantMin bool) (runtime.Value, error) {
	best := args[0]
	bestF, ok := toFloat64(best)
	if !ok && !isNaNValue(best) {
		return nil, &TypeError{Msg: "MIN/MAX expects numeric arguments"}
	}
	for _, v := range args[1:] {
		f, ok := toFloat64(v)
		if !ok {
			if isNaNValue(v) {
				continue
			}
			return nil, &TypeError{Msg: "MIN/MAX expects numeric arguments"}
		}
		if (wantMin && f < bestF) || (!wantMin && f > bestF) {
			best, bestF = v, f
		}
	}
	return best, nil
}

func biGCD(ctx *Context, args []runtime.Value) (runtime.Value, error) {
	a, ok1 := args[0].(runtime.Integer)
	b, ok2 := args[1].(runtime.Integer)
	if !ok1 || !ok2 {
		return nil, &TypeError{Msg: "GCD expects two Integer arguments"}
	}
	x, y := int64(a), int64(b)
	if x < 0 {
		x = -x
	}
	if y < 0 {
		y = -y
	}
	for y != 0 {
		x, y = y, x%y
	}
	return runtime.Integer(x), nil
}

func biFactorial(ctx *Context, args []runtime.Value) (runtime.Value, error) {
	n, ok := args[0].(runtime.Integer)
	if !ok {
		return nil, &TypeError{Msg: "FACTORIAL expects an Integer argument"}
	}
	if n < 0 {
		return nil, &DomainError{Msg: "FACTORIAL: argument must be non-negative"}
	}
	result := int64(1)
	for i := int64(2); i <= int64(n); i++ {
		result *= i
	}
	return runtime.Integer(result), nil
}

func biRandom(ctx *Context, args []runtime.Value) (runtime.Value, error) {
	if isNaNValue(args[0]) || isNaNValue(args[1]) {
		return runtime.NaNValue{}, nil
	}
	aInt, aIsInt := args[0].(runtime.Integer)
	bInt, bIsInt := args[1].(runtime.Integer)
	if aIsInt && bIsInt {
		if aInt > bInt {
			return nil, &DomainError{Msg: "RANDOM: lower bound exceeds upper bound"}
		}
		span := int64(bInt) - int64(aInt) + 1
		return runtime.Integer(int64(aInt) + ctx.Rand.Int63n(span)), nil
	}
	a, ok1 := toFloat64(args[0])
	b, ok2 := toFloat64(args[1])
	if !ok1 || !ok2 {
		return nil, &TypeError{Msg: "RANDOM expects numeric arguments"}
	}
	if a > b {
		return nil, &DomainError{Msg: "RANDOM: lower bound exceeds upper bound"}
	}
	return runtime.Float(a + ctx.Rand.Float64()*(b-a)), nil
}
