package interpreter

import (
	"strings"

	"fplc/pkg/ast"
	"fplc/pkg/runtime"
)

func (ip *Interpreter) evalExpression(expr ast.Expression, env *runtime.Environment) (runtime.Value, error) {
	switch e := expr.(type) {
	case *ast.NumberLit:
		if e.IsFloat {
			return runtime.Float(e.Float), nil
		}
		return runtime.Integer(e.Int), nil
	case *ast.StringLit:
		return runtime.String(e.Value), nil
	case *ast.RawStringLit:
		return runtime.String(e.Value), nil
	case *ast.FormatString:
		return ip.evalFormatString(e, env)
	case *ast.BoolLit:
		return runtime.Boolean(e.Value), nil
	case *ast.NullLit:
		return runtime.Null{}, nil
	case *ast.NanLit:
		return runtime.NaNValue{}, nil
	case *ast.ListLit:
		elems := make([]runtime.Value, len(e.Elements))
		for i, el := range e.Elements {
			v, err := ip.evalExpression(el, env)
			if err != nil {
				return nil, err
			}
			elems[i] = v
		}
		return runtime.NewList(elems), nil
	case *ast.Variable:
		v, err := env.Get(e.Name)
		if err != nil {
			return nil, evalErr(KindNameError, e.Position(), "Undefined variable '%s'", e.Name)
		}
		return v, nil
	case *ast.Index:
		return ip.evalIndex(e, env)
	case *ast.FieldAccess:
		return ip.evalFieldAccess(e, env)
	case *ast.Call:
		return ip.evalCall(e, env)
	case *ast.MethodCall:
		return ip.evalMethodCall(e, env)
	case *ast.Unary:
		return ip.evalUnary(e, env)
	case *ast.Binary:
		return ip.evalBinary(e, env)
	default:
		return nil, evalErr(KindTypeError, expr.Position(), "cannot evaluate expression of type %T", expr)
	}
}

func (ip *Interpreter) evalFormatString(e *ast.FormatString, env *runtime.Environment) (runtime.Value, error) {
	var b strings.Builder
	for _, part := range e.Parts {
		if part.Expr == nil {
			b.WriteString(part.Literal)
			continue
		}
		v, err := ip.evalExpression(part.Expr, env)
		if err != nil {
			return nil, err
		}
		b.WriteString(runtime.Stringify(v))
	}
	return runtime.String(b.String()), nil
}

// listIndex resolves a 1-based index against a list of the given length,
// raising IndexError on a non-integer, non-positive, or out-of-range index
// (spec §4.3 "Assignment").
func listIndex(idx runtime.Value, length int, pos ast.Pos) (int, error) {
	n, ok := idx.(runtime.Integer)
	if !ok {
		return 0, evalErr(KindIndexError, pos, "Index out of range: index must be an Integer")
	}
	if n < 1 || int(n) > length {
		return 0, evalErr(KindIndexError, pos, "Index out of range")
	}
	return int(n), nil
}

func (ip *Interpreter) evalIndex(e *ast.Index, env *runtime.Environment) (runtime.Value, error) {
	target, err := ip.evalExpression(e.Target, env)
	if err != nil {
		return nil, err
	}
	list, ok := target.(*runtime.List)
	if !ok {
		return nil, evalErr(KindTypeError, e.Position(), "cannot index a %s", target.Kind())
	}
	idxVal, err := ip.evalExpression(e.Idx, env)
	if err != nil {
		return nil, err
	}
	i, err := listIndex(idxVal, len(list.Elements), e.Position())
	if err != nil {
		return nil, err
	}
	return list.Elements[i-1], nil
}

func (ip *Interpreter) evalFieldAccess(e *ast.FieldAccess, env *runtime.Environment) (runtime.Value, error) {
	target, err := ip.evalExpression(e.Target, env)
	if err != nil {
		return nil, err
	}
	inst, ok := target.(*runtime.Instance)
	if !ok {
		return nil, evalErr(KindTypeError, e.Position(), "cannot read field %q of a %s", e.Field, target.Kind())
	}
	v, ok := inst.Fields[e.Field]
	if !ok {
		return nil, evalErr(KindNameError, e.Position(), "Undefined field '%s'", e.Field)
	}
	return v, nil
}

func (ip *Interpreter) evalUnary(e *ast.Unary, env *runtime.Environment) (runtime.Value, error) {
	v, err := ip.evalExpression(e.Operand, env)
	if err != nil {
		return nil, err
	}
	switch e.Op {
	case "NOT":
		b, ok := runtime.Truthy(v)
		if !ok {
			return nil, evalErr(KindTypeError, e.Position(), "NOT requires a Boolean operand, got %s", v.Kind())
		}
		return runtime.Boolean(!b), nil
	case "-":
		switch x := v.(type) {
		case runtime.Integer:
			return -x, nil
		case runtime.Float:
			return -x, nil
		case runtime.NaNValue:
			return runtime.NaNValue{}, nil
		default:
			return nil, evalErr(KindTypeError, e.Position(), "unary - requires a numeric operand, got %s", v.Kind())
		}
	case "+":
		if !runtime.IsNumeric(v) {
			return nil, evalErr(KindTypeError, e.Position(), "unary + requires a numeric operand, got %s", v.Kind())
		}
		return v, nil
	default:
		return nil, evalErr(KindTypeError, e.Position(), "unknown unary operator %q", e.Op)
	}
}

func (ip *Interpreter) evalBinary(e *ast.Binary, env *runtime.Environment) (runtime.Value, error) {
	switch e.Op {
	case "AND":
		left, err := ip.evalExpression(e.Left, env)
		if err != nil {
			return nil, err
		}
		lb, ok := runtime.Truthy(left)
		if !ok {
			return nil, evalErr(KindTypeError, e.Position(), "AND requires Boolean operands, got %s", left.Kind())
		}
		if !lb {
			return runtime.Boolean(false), nil
		}
		right, err := ip.evalExpression(e.Right, env)
		if err != nil {
			return nil, err
		}
		rb, ok := runtime.Truthy(right)
		if !ok {
			return nil, evalErr(KindTypeError, e.Position(), "AND requires Boolean operands, got %s", right.Kind())
		}
		return runtime.Boolean(rb), nil
	case "OR":
		left, err := ip.evalExpression(e.Left, env)
		if err != nil {
			return nil, err
		}
		lb, ok := runtime.Truthy(left)
		if !ok {
			return nil, evalErr(KindTypeError, e.Position(), "OR requires Boolean operands, got %s", left.Kind())
		}
		if lb {
			return runtime.Boolean(true), nil
		}
		right, err := ip.evalExpression(e.Right, env)
		if err != nil {
			return nil, err
		}
		rb, ok := runtime.Truthy(right)
		if !ok {
			return nil, evalErr(KindTypeError, e.Position(), "OR requires Boolean operands, got %s", right.Kind())
		}
		return runtime.Boolean(rb), nil
	}

	left, err := ip.evalExpression(e.Left, env)
	if err != nil {
		return nil, err
	}
	right, err := ip.evalExpression(e.Right, env)
	if err != nil {
		return nil, err
	}

	switch e.Op {
	case "+", "-", "*", "/", "MOD":
		return ip.evalArith(e.Op, left, right, e.Position())
	case "=", "NOT=", ">", "<", ">=", "<=":
		return ip.evalRelational(e.Op, left, right, e.Position())
	default:
		return nil, evalErr(KindTypeError, e.Position(), "unknown binary operator %q", e.Op)
	}
}
