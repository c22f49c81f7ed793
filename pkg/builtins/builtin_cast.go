package builtins

import (
	"strconv"
	"strings"

	"fplc/pkg/runtime"
)

func registerCasts(r *Registry) {
	r.register("TOSTRING", 1, 1, biTostring)
	r.register("TONUM", 1, 1, biTonum)
}

func biTostring(ctx *Context, args []runtime.Value) (runtime.Value, error) {
	return runtime.String(runtime.Stringify(args[0])), nil
}

func biTonum(ctx *Context, args []runtime.Value) (runtime.Value, error) {
	s, ok := args[0].(runtime.String)
	if !ok {
		return nil, &TypeError{Msg: "TONUM expects a String"}
	}
	text := strings.TrimSpace(string(s))
	if !strings.Contains(text, ".") {
		if i, err := strconv.ParseInt(text, 10, 64); err == nil {
			return runtime.Integer(i), nil
		}
	}
	f, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return nil, &DomainError{Msg: "TONUM: cannot parse " + strconv.Quote(string(s)) + " as a number"}
	}
	return runtime.Float(f), nil
}
