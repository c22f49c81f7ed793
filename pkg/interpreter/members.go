package interpreter

import (
	"fplc/pkg/ast"
	"fplc/pkg/runtime"
)

// evalCall dispatches a bare `name(args)` expression in priority order:
// the EVAL/EXIT meta-operations wired directly into the interpreter (spec
// §4.4 "Meta"), then the builtin registry, then a user procedure, then a
// class constructor.
func (ip *Interpreter) evalCall(e *ast.Call, env *runtime.Environment) (runtime.Value, error) {
	switch e.Name {
	case "DISPLAY", "DISPLAYINLINE":
		return ip.evalDisplayCall(e, env)
	case "EXIT":
		if len(e.Args) != 0 {
			return nil, evalErr(KindArityError, e.Position(), "EXIT takes no arguments")
		}
		return nil, exitSignal{}
	case "EVAL":
		if len(e.Args) != 1 {
			return nil, evalErr(KindArityError, e.Position(), "EVAL takes exactly 1 argument")
		}
		arg, err := ip.evalExpression(e.Args[0], env)
		if err != nil {
			return nil, err
		}
		src, ok := arg.(runtime.String)
		if !ok {
			return nil, evalErr(KindTypeError, e.Position(), "EVAL requires a String argument, got %s", arg.Kind())
		}
		v, err := ip.Eval(string(src), env)
		if err != nil {
			if ee, ok := err.(*EvalError); ok {
				return nil, &EvalError{Kind: ee.Kind, Msg: ee.Msg, Line: e.Position().Line, Col: e.Position().Col}
			}
			return nil, err
		}
		return v, nil
	}

	args := make([]runtime.Value, len(e.Args))
	for i, a := range e.Args {
		v, err := ip.evalExpression(a, env)
		if err != nil {
			return nil, err
		}
		args[i] = v
	}

	if result, handled, err := ip.Registry.Call(ip.Ctx, e.Name, args); handled {
		if err != nil {
			return nil, classifyBuiltinError(err, e.Position())
		}
		return result, nil
	}

	if v, err := env.Get(e.Name); err == nil {
		switch callee := v.(type) {
		case *runtime.Procedure:
			return ip.callProcedure(callee, args, nil, e.Position())
		case *runtime.Class:
			return ip.instantiate(callee, args, e.Position())
		}
	}

	return nil, evalErr(KindNameError, e.Position(), "Undefined procedure or class '%s'", e.Name)
}

func (ip *Interpreter) evalDisplayCall(e *ast.Call, env *runtime.Environment) (runtime.Value, error) {
	if len(e.Args) != 1 {
		return nil, evalErr(KindArityError, e.Position(), "%s takes exactly 1 argument", e.Name)
	}
	v, err := ip.evalExpression(e.Args[0], env)
	if err != nil {
		return nil, err
	}
	ip.display(v, e.Name == "DISPLAYINLINE")
	return runtime.Null{}, nil
}

func (ip *Interpreter) display(v runtime.Value, inline bool) {
	text := runtime.Stringify(v)
	if inline {
		ip.Ctx.Stdout.Write([]byte(text))
	} else {
		ip.Ctx.Stdout.Write([]byte(text + "\n"))
	}
}

// evalMethodCall dispatches `target.name(args)`. An Instance resolves name
// against its class's method table; anything else is a TypeError, since
// only Instances carry methods (spec §4.3 "Explicit this").
func (ip *Interpreter) evalMethodCall(e *ast.MethodCall, env *runtime.Environment) (runtime.Value, error) {
	target, err := ip.evalExpression(e.Target, env)
	if err != nil {
		return nil, err
	}
	inst, ok := target.(*runtime.Instance)
	if !ok {
		return nil, evalErr(KindTypeError, e.Position(), "cannot call method %q on a %s", e.Name, target.Kind())
	}
	method, ok := inst.Class.Methods[e.Name]
	if !ok {
		return nil, evalErr(KindNameError, e.Position(), "Undefined method '%s' on class %s", e.Name, inst.Class.Name)
	}
	args := make([]runtime.Value, len(e.Args))
	for i, a := range e.Args {
		v, err := ip.evalExpression(a, env)
		if err != nil {
			return nil, err
		}
		args[i] = v
	}
	return ip.callProcedure(method, args, inst, e.Position())
}

// callProcedure pushes a new frame parented to proc's closure, binds
// positional parameters (and `this` when called as a method), runs the
// body, and unwraps a returnSignal into its value (spec §4.3 "Procedure
// call"). End of body without RETURN yields Null.
func (ip *Interpreter) callProcedure(proc *runtime.Procedure, args []runtime.Value, this *runtime.Instance, pos ast.Pos) (runtime.Value, error) {
	if len(args) != len(proc.Params) {
		return nil, evalErr(KindArityError, pos, "%s expects %d argument(s), got %d", proc.Name, len(proc.Params), len(args))
	}
	ip.callDepth++
	defer func() { ip.callDepth-- }()
	if ip.callDepth > maxCallDepth {
		return nil, evalErr(KindArithmeticErr, pos, "maximum call depth exceeded")
	}

	frame := proc.Closure.Extend()
	if this != nil {
		frame.Define("this", this)
	}
	for i, name := range proc.Params {
		frame.Define(name, args[i])
	}

	for _, stmt := range proc.Body {
		_, err := ip.evalStatement(stmt, frame)
		if err != nil {
			if rs, ok := err.(returnSignal); ok {
				return rs.Value, nil
			}
			return nil, err
		}
	}
	return runtime.Null{}, nil
}

// instantiate creates a new Instance of cls and, if it declares an INIT
// method, invokes it with this bound to the fresh instance (spec §4.3
// "Class instantiation").
func (ip *Interpreter) instantiate(cls *runtime.Class, args []runtime.Value, pos ast.Pos) (runtime.Value, error) {
	inst := runtime.NewInstance(cls)
	if init, ok := cls.Methods["INIT"]; ok {
		if _, err := ip.callProcedure(init, args, inst, pos); err != nil {
			return nil, err
		}
	} else if len(args) != 0 {
		return nil, evalErr(KindArityError, pos, "class %s has no INIT and takes no arguments", cls.Name)
	}
	return inst, nil
}
