package builtins

import (
	"sort"

	"fplc/pkg/runtime"
)

func registerList(r *Registry) {
	r.register("INSERT", 3, 3, biInsert)
	r.register("APPEND", 2, 2, biAppend)
	r.register("REMOVE", 2, 2, biRemove)
	r.register("LENGTH", 1, 1, biLength)
	r.register("SORT", 1, 1, biSort)
	r.register("RANGE", 1, 2, biRange)
}

func asList(v runtime.Value, who string) (*runtime.List, error) {
	l, ok := v.(*runtime.List)
	if !ok {
		return nil, &TypeError{Msg: who + " expects a List argument"}
	}
	return l, nil
}

func asIndex(v runtime.Value, length int, allowOnePastEnd bool) (int, error) {
	i, ok := v.(runtime.Integer)
	if !ok {
		return 0, &IndexError{Msg: "Index out of range: index must be an Integer"}
	}
	max := length
	if allowOnePastEnd {
		max = length + 1
	}
	if i < 1 || int(i) > max {
		return 0, &IndexError{Msg: "Index out of range"}
	}
	return int(i), nil
}

func biInsert(ctx *Context, args []runtime.Value) (runtime.Value, error) {
	l, err := asList(args[0], "INSERT")
	if err != nil {
		return nil, err
	}
	idx, err := asIndex(args[1], len(l.Elements), true)
	if err != nil {
		return nil, err
	}
	elems := l.Elements
	elems = append(elems, nil)
	copy(elems[idx:], elems[idx-1:len(elems)-1])
	elems[idx-1] = args[2]
	l.Elements = elems
	return runtime.Null{}, nil
}

func biAppend(ctx *Context, args []runtime.Value) (runtime.Value, error) {
	l, err := asList(args[0], "APPEND")
	if err != nil {
		return nil, err
	}
	l.Elements = append(l.Elements, args[1])
	return runtime.Null{}, nil
}

func biRemove(ctx *Context, args []runtime.Value) (runtime.Value, error) {
	l, err := asList(args[0], "REMOVE")
	if err != nil {
		return nil, err
	}
	idx, err := asIndex(args[1], len(l.Elements), false)
	if err != nil {
		return nil, err
	}
	l.Elements = append(l.Elements[:idx-1], l.Elements[idx:]...)
	return runtime.Null{}, nil
}

func biLength(ctx *Context, args []runtime.Value) (runtime.Value, error) {
	l, err := asList(args[0], "LENGTH")
	if err != nil {
		return nil, err
	}
	return runtime.Integer(len(l.Elements)), nil
}

func biSort(ctx *Context, args []runtime.Value) (runtime.Value, error) {
	l, err := asList(args[0], "SORT")
	if err != nil {
		return nil, err
	}
	out := make([]int64, len(l.Elements))
	for i, e := range l.Elements {
		n, ok := e.(runtime.Integer)
		if !ok {
			return nil, &TypeError{Msg: "SORT expects a List of Integer"}
		}
		out[i] = int64(n)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	result := make([]runtime.Value, len(out))
	for i, n := range out {
		result[i] = runtime.Integer(n)
	}
	return runtime.NewList(result), nil
}

func biRange(ctx *Context, args []runtime.Value) (runtime.Value, error) {
	var start, end int64
	if len(args) == 1 {
		endV, ok := args[0].(runtime.Integer)
		if !ok {
			return nil, &TypeError{Msg: "RANGE expects Integer arguments"}
		}
		start, end = 1, int64(endV)
	} else {
		startV, ok1 := args[0].(runtime.Integer)
		endV, ok2 := args[1].(runtime.Integer)
		if !ok1 || !ok2 {
			return nil, &TypeError{Msg: "RANGE expects Integer arguments"}
		}
		start, end = int64(startV), int64(endV)
	}
	if end < start {
		return runtime.NewList(nil), nil
	}
	elems := make([]runtime.Value, 0, end-start+1)
	for i := start; i <= end; i++ {
		elems = append(elems, runtime.Integer(i))
	}
	return runtime.NewList(elems), nil
}
