package interpreter

import (
	"fmt"

	"fplc/pkg/ast"
	"fplc/pkg/builtins"
)

// ErrorKind classifies an EvalError (spec §7).
type ErrorKind string

const (
	KindLexError       ErrorKind = "LexError"
	KindParseError     ErrorKind = "ParseError"
	KindNameError      ErrorKind = "NameError"
	KindTypeError      ErrorKind = "TypeError"
	KindArityError     ErrorKind = "ArityError"
	KindIndexError     ErrorKind = "IndexError"
	KindArithmeticErr  ErrorKind = "ArithmeticError"
	KindDomainError    ErrorKind = "DomainError"
	KindImportError    ErrorKind = "ImportError"
)

// EvalError is the single recoverable-error type raised during evaluation.
// TRY/CATCH unwraps it into a String bound in the catch frame; unhandled it
// terminates the invocation with a kind-prefixed, span-qualified message
// (spec §7).
type EvalError struct {
	Kind ErrorKind
	Msg  string
	Line int
	Col  int
}

func (e *EvalError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("%s at %d:%d: %s", e.Kind, e.Line, e.Col, e.Msg)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
}

func evalErr(kind ErrorKind, pos ast.Pos, format string, args ...any) *EvalError {
	return &EvalError{Kind: kind, Msg: fmt.Sprintf(format, args...), Line: pos.Line, Col: pos.Col}
}

// classifyBuiltinError maps a pkg/builtins error into the matching EvalError
// kind, attaching the call's source position.
func classifyBuiltinError(err error, pos ast.Pos) *EvalError {
	switch e := err.(type) {
	case *builtins.ArityError:
		return evalErr(KindArityError, pos, "%s", e.Error())
	case *builtins.DomainError:
		return evalErr(KindDomainError, pos, "%s", e.Msg)
	case *builtins.TypeError:
		return evalErr(KindTypeError, pos, "%s", e.Msg)
	case *builtins.IndexError:
		return evalErr(KindIndexError, pos, "%s", e.Msg)
	default:
		return evalErr(KindDomainError, pos, "%s", err.Error())
	}
}
