package interpreter

import "fplc/pkg/runtime"

// returnSignal and exitSignal are control-flow signals (spec §7, §9): they
// unwind the Go call stack like errors but are never caught by TRY/CATCH,
// only by the call/program boundary that understands them.

type returnSignal struct {
	Value runtime.Value
}

func (returnSignal) Error() string { return "return" }

type exitSignal struct{}

func (exitSignal) Error() string { return "exit" }

// isControlFlow reports whether err is a signal that must propagate through
// TRY/CATCH untouched rather than being caught as a recoverable error.
func isControlFlow(err error) bool {
	switch err.(type) {
	case returnSignal, exitSignal:
		return true
	default:
		return false
	}
}
