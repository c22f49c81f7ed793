package builtins

import (
	"strings"

	"fplc/pkg/runtime"
)

func registerIO(r *Registry) {
	r.register("INPUT", 0, 0, biInput)
}

func biInput(ctx *Context, args []runtime.Value) (runtime.Value, error) {
	line, err := ctx.Stdin.ReadString('\n')
	if err != nil && line == "" {
		return runtime.String(""), nil
	}
	return runtime.String(strings.TrimRight(line, "\r\n")), nil
}
