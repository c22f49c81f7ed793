package builtins

import (
	"strings"

	"fplc/pkg/runtime"
)

func registerString(r *Registry) {
	r.register("SUBSTRING", 3, 3, biSubstring)
	r.register("CONCAT", 2, 2, biConcat)
	r.register("CONTAINS", 2, 2, biContains)
	r.register("FIND", 2, 2, biFind)
	r.register("SPLIT", 2, 2, biSplit)
	r.register("TRIM", 1, 1, biTrim)
	r.register("REPLACE", 3, 3, biReplace)
	r.register("UPPERCASE", 1, 1, biUppercase)
	r.register("LOWERCASE", 1, 1, biLowercase)
	r.register("STARTSWITH", 2, 2, biStartsWith)
	r.register("ENDSWITH", 2, 2, biEndsWith)
}

func asString(v runtime.Value, who string) (string, error) {
	s, ok := v.(runtime.String)
	if !ok {
		return "", &TypeError{Msg: who + " expects a String argument"}
	}
	return string(s), nil
}

func biSubstring(ctx *Context, args []runtime.Value) (runtime.Value, error) {
	s, err := asString(args[0], "SUBSTRING")
	if err != nil {
		return nil, err
	}
	a, ok1 := args[1].(runtime.Integer)
	b, ok2 := args[2].(runtime.Integer)
	if !ok1 || !ok2 {
		return nil, &TypeError{Msg: "SUBSTRING expects Integer bounds"}
	}
	runes := []rune(s)
	if a < 1 || b < a || int(b) > len(runes) {
		return nil, &IndexError{Msg: "Index out of range"}
	}
	return runtime.String(string(runes[a-1 : b])), nil
}

func biConcat(ctx *Context, args []runtime.Value) (runtime.Value, error) {
	a, err := asString(args[0], "CONCAT")
	if err != nil {
		return nil, err
	}
	b, err := asString(args[1], "CONCAT")
	if err != nil {
		return nil, err
	}
	return runtime.String(a + b), nil
}

func biContains(ctx *Context, args []runtime.Value) (runtime.Value, error) {
	s, err := asString(args[0], "CONTAINS")
	if err != nil {
		return nil, err
	}
	sub, err := asString(args[1], "CONTAINS")
	if err != nil {
		return nil, err
	}
	return runtime.Boolean(strings.Contains(s, sub)), nil
}

func biFind(ctx *Context, args []runtime.Value) (runtime.Value, error) {
	s, err := asString(args[0], "FIND")
	if err != nil {
		return nil, err
	}
	sub, err := asString(args[1], "FIND")
	if err != nil {
		return nil, err
	}
	runes := []rune(s)
	subRunes := []rune(sub)
	for i := 0; i+len(subRunes) <= len(runes); i++ {
		if string(runes[i:i+len(subRunes)]) == sub {
			return runtime.Integer(i + 1), nil
		}
	}
	return runtime.Integer(-1), nil
}

func biSplit(ctx *Context, args []runtime.Value) (runtime.Value, error) {
	s, err := asString(args[0], "SPLIT")
	if err != nil {
		return nil, err
	}
	sep, err := asString(args[1], "SPLIT")
	if err != nil {
		return nil, err
	}
	parts := strings.Split(s, sep)
	out := make([]runtime.Value, len(parts))
	for i, p := range parts {
		out[i] = runtime.String(p)
	}
	return runtime.NewList(out), nil
}

func biTrim(ctx *Context, args []runtime.Value) (runtime.Value, error) {
	s, err := asString(args[0], "TRIM")
	if err != nil {
		return nil, err
	}
	return runtime.String(strings.TrimSpace(s)), nil
}

func biReplace(ctx *Context, args []runtime.Value) (runtime.Value, error) {
	s, err := asString(args[0], "REPLACE")
	if err != nil {
		return nil, err
	}
	old, err := asString(args[1], "REPLACE")
	if err != nil {
		return nil, err
	}
	newS, err := asString(args[2], "REPLACE")
	if err != nil {
		return nil, err
	}
	return runtime.String(strings.ReplaceAll(s, old, newS)), nil
}

func biUppercase(ctx *Context, args []runtime.Value) (runtime.Value, error) {
	s, err := asString(args[0], "UPPERCASE")
	if err != nil {
		return nil, err
	}
	return runtime.String(strings.ToUpper(s)), nil
}

func biLowercase(ctx *Context, args []runtime.Value) (runtime.Value, error) {
	s, err := asString(args[0], "LOWERCASE")
	if err != nil {
		return nil, err
	}
	return runtime.String(strings.ToLower(s)), nil
}

func biStartsWith(ctx *Context, args []runtime.Value) (runtime.Value, error) {
	s, err := asString(args[0], "STARTSWITH")
	if err != nil {
		return nil, err
	}
	prefix, err := asString(args[1], "STARTSWITH")
	if err != nil {
		return nil, err
	}
	return runtime.Boolean(strings.HasPrefix(s, prefix)), nil
}

func biEndsWith(ctx *Context, args []runtime.Value) (runtime.Value, error) {
	s, err := asString(args[0], "ENDSWITH")
	if err != nil {
		return nil, err
	}
	suffix, err := asString(args[1], "ENDSWITH")
	if err != nil {
		return nil, err
	}
	return runtime.Boolean(strings.HasSuffix(s, suffix)), nil
}
