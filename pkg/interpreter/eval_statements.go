package interpreter

import (
	"fplc/pkg/ast"
	"fplc/pkg/runtime"
)

// evalStatement dispatches one statement node against env, returning the
// value of its last evaluated expression where that's meaningful (used by
// EvaluateProgram/Eval to report a program's final value) or Null otherwise.
func (ip *Interpreter) evalStatement(stmt ast.Statement, env *runtime.Environment) (runtime.Value, error) {
	switch s := stmt.(type) {
	case *ast.AssignStatement:
		return ip.evalAssign(s, env)
	case *ast.IndexAssignStatement:
		return ip.evalIndexAssign(s, env)
	case *ast.FieldAssignStatement:
		return ip.evalFieldAssign(s, env)
	case *ast.DisplayStatement:
		v, err := ip.evalExpression(s.Value, env)
		if err != nil {
			return nil, err
		}
		ip.display(v, s.Inline)
		return runtime.Null{}, nil
	case *ast.IfStatement:
		return ip.evalIf(s, env)
	case *ast.RepeatTimesStatement:
		return ip.evalRepeatTimes(s, env)
	case *ast.RepeatUntilStatement:
		return ip.evalRepeatUntil(s, env)
	case *ast.ForEachStatement:
		return ip.evalForEach(s, env)
	case *ast.ProcedureDecl:
		env.Define(s.Name, &runtime.Procedure{Name: s.Name, Params: s.Params, Body: s.Body, Closure: env})
		return runtime.Null{}, nil
	case *ast.ClassDecl:
		methods := make(map[string]*runtime.Procedure, len(s.Methods))
		for _, m := range s.Methods {
			methods[m.Name] = &runtime.Procedure{Name: m.Name, Params: m.Params, Body: m.Body, Closure: env}
		}
		env.Define(s.Name, &runtime.Class{Name: s.Name, Methods: methods})
		return runtime.Null{}, nil
	case *ast.ReturnStatement:
		var v runtime.Value = runtime.Null{}
		if s.Value != nil {
			var err error
			v, err = ip.evalExpression(s.Value, env)
			if err != nil {
				return nil, err
			}
		}
		return nil, returnSignal{Value: v}
	case *ast.ImportStatement:
		if err := ip.runImport(s); err != nil {
			return nil, err
		}
		return runtime.Null{}, nil
	case *ast.TryCatchStatement:
		return ip.evalTryCatch(s, env)
	case *ast.ExpressionStatement:
		return ip.evalExpression(s.Expr, env)
	case *ast.ExitStatement:
		return nil, exitSignal{}
	default:
		return nil, evalErr(KindTypeError, stmt.Position(), "cannot evaluate statement of type %T", stmt)
	}
}

func (ip *Interpreter) evalBlock(stmts []ast.Statement, env *runtime.Environment) (runtime.Value, error) {
	var result runtime.Value = runtime.Null{}
	for _, stmt := range stmts {
		v, err := ip.evalStatement(stmt, env)
		if err != nil {
			return nil, err
		}
		result = v
	}
	return result, nil
}

func (ip *Interpreter) evalAssign(s *ast.AssignStatement, env *runtime.Environment) (runtime.Value, error) {
	v, err := ip.evalExpression(s.Value, env)
	if err != nil {
		return nil, err
	}
	v = copyOnAssign(v)
	if err := env.Assign(s.Name, v); err != nil {
		env.Define(s.Name, v)
	}
	return runtime.Null{}, nil
}

// copyOnAssign performs the deep-list/shallow-instance copy required on
// assignment (spec §3.2 invariant iii).
func copyOnAssign(v runtime.Value) runtime.Value {
	if l, ok := v.(*runtime.List); ok {
		return l.Clone()
	}
	return v
}

func (ip *Interpreter) evalIndexAssign(s *ast.IndexAssignStatement, env *runtime.Environment) (runtime.Value, error) {
	target, err := ip.evalExpression(s.Target, env)
	if err != nil {
		return nil, err
	}
	value, err := ip.evalExpression(s.Value, env)
	if err != nil {
		return nil, err
	}
	value = copyOnAssign(value)

	list, ok := target.(*runtime.List)
	if !ok {
		return nil, evalErr(KindTypeError, s.Position(), "cannot index-assign to a %s", target.Kind())
	}
	for depth, idxExpr := range s.Indices {
		idxVal, err := ip.evalExpression(idxExpr, env)
		if err != nil {
			return nil, err
		}
		i, err := listIndex(idxVal, len(list.Elements), s.Position())
		if err != nil {
			return nil, err
		}
		if depth == len(s.Indices)-1 {
			list.Elements[i-1] = value
			return runtime.Null{}, nil
		}
		next, ok := list.Elements[i-1].(*runtime.List)
		if !ok {
			return nil, evalErr(KindTypeError, s.Position(), "cannot index a %s", list.Elements[i-1].Kind())
		}
		list = next
	}
	return runtime.Null{}, nil
}

func (ip *Interpreter) evalFieldAssign(s *ast.FieldAssignStatement, env *runtime.Environment) (runtime.Value, error) {
	target, err := ip.evalExpression(s.Target, env)
	if err != nil {
		return nil, err
	}
	value, err := ip.evalExpression(s.Value, env)
	if err != nil {
		return nil, err
	}
	value = copyOnAssign(value)

	inst, ok := target.(*runtime.Instance)
	if !ok {
		return nil, evalErr(KindTypeError, s.Position(), "cannot set a field on a %s", target.Kind())
	}
	for depth, field := range s.Fields {
		if depth == len(s.Fields)-1 {
			inst.Fields[field] = value
			return runtime.Null{}, nil
		}
		next, ok := inst.Fields[field].(*runtime.Instance)
		if !ok {
			return nil, evalErr(KindTypeError, s.Position(), "cannot set a field on field %q", field)
		}
		inst = next
	}
	return runtime.Null{}, nil
}

func (ip *Interpreter) evalIf(s *ast.IfStatement, env *runtime.Environment) (runtime.Value, error) {
	cond, err := ip.evalExpression(s.Condition, env)
	if err != nil {
		return nil, err
	}
	b, ok := runtime.Truthy(cond)
	if !ok {
		return nil, evalErr(KindTypeError, s.Position(), "IF condition must be a Boolean, got %s", cond.Kind())
	}
	if b {
		return ip.evalBlock(s.Then, env.Extend())
	}
	return ip.evalBlock(s.Else, env.Extend())
}

func (ip *Interpreter) evalRepeatTimes(s *ast.RepeatTimesStatement, env *runtime.Environment) (runtime.Value, error) {
	countVal, err := ip.evalExpression(s.Count, env)
	if err != nil {
		return nil, err
	}
	n, ok := countVal.(runtime.Integer)
	if !ok {
		return nil, evalErr(KindTypeError, s.Position(), "REPEAT ... TIMES requires an Integer, got %s", countVal.Kind())
	}
	for i := int64(0); i < int64(n); i++ {
		if _, err := ip.evalBlock(s.Body, env.Extend()); err != nil {
			return nil, err
		}
	}
	return runtime.Null{}, nil
}

func (ip *Interpreter) evalRepeatUntil(s *ast.RepeatUntilStatement, env *runtime.Environment) (runtime.Value, error) {
	for {
		if _, err := ip.evalBlock(s.Body, env.Extend()); err != nil {
			return nil, err
		}
		cond, err := ip.evalExpression(s.Condition, env)
		if err != nil {
			return nil, err
		}
		b, ok := runtime.Truthy(cond)
		if !ok {
			return nil, evalErr(KindTypeError, s.Position(), "REPEAT UNTIL condition must be a Boolean, got %s", cond.Kind())
		}
		if b {
			return runtime.Null{}, nil
		}
	}
}

// evalForEach snapshots the list before iterating (spec §4.3 "FOR EACH"):
// mutation of the underlying list during the loop body does not affect
// which elements are visited.
func (ip *Interpreter) evalForEach(s *ast.ForEachStatement, env *runtime.Environment) (runtime.Value, error) {
	listVal, err := ip.evalExpression(s.List, env)
	if err != nil {
		return nil, err
	}
	list, ok := listVal.(*runtime.List)
	if !ok {
		return nil, evalErr(KindTypeError, s.Position(), "FOR EACH requires a List, got %s", listVal.Kind())
	}
	snapshot := make([]runtime.Value, len(list.Elements))
	copy(snapshot, list.Elements)

	for _, elem := range snapshot {
		loopEnv := env.Extend()
		loopEnv.Define(s.VarName, elem)
		if _, err := ip.evalBlock(s.Body, loopEnv); err != nil {
			return nil, err
		}
	}
	return runtime.Null{}, nil
}

// evalTryCatch runs Try; on an *EvalError (but not a control-flow signal —
// spec §7, §9 "TRY/CATCH only catches recoverable errors") it binds the
// error's message into CatchVar and runs Catch instead.
func (ip *Interpreter) evalTryCatch(s *ast.TryCatchStatement, env *runtime.Environment) (runtime.Value, error) {
	tryEnv := env.Extend()
	_, err := ip.evalBlock(s.Try, tryEnv)
	if err == nil {
		return runtime.Null{}, nil
	}
	if isControlFlow(err) {
		return nil, err
	}
	ee, ok := err.(*EvalError)
	if !ok {
		return nil, err
	}
	catchEnv := env.Extend()
	catchEnv.Define(s.CatchVar, runtime.String(ee.Msg))
	return ip.evalBlock(s.Catch, catchEnv)
}
