// Package runtime defines the fplc tagged Value model and lexical Environment
// (spec §3.2, §3.3).
package runtime

import "fplc/pkg/ast"

// Kind identifies a Value's concrete variant.
type Kind int

const (
	KindInteger Kind = iota
	KindFloat
	KindString
	KindBoolean
	KindNull
	KindNaN
	KindList
	KindProcedure
	KindClass
	KindInstance
)

func (k Kind) String() string {
	switch k {
	case KindInteger:
		return "Integer"
	case KindFloat:
		return "Float"
	case KindString:
		return "String"
	case KindBoolean:
		return "Boolean"
	case KindNull:
		return "Null"
	case KindNaN:
		return "NaN"
	case KindList:
		return "List"
	case KindProcedure:
		return "Procedure"
	case KindClass:
		return "Class"
	case KindInstance:
		return "Instance"
	default:
		return "Unknown"
	}
}

// Value is the closed sum type every fplc runtime datum belongs to.
type Value interface {
	Kind() Kind
}

// Integer is a 64-bit signed integer value.
type Integer int64

func (Integer) Kind() Kind { return KindInteger }

// Float is a 64-bit IEEE-754 value.
type Float float64

func (Float) Kind() Kind { return KindFloat }

// String is an immutable UTF-8 string value.
type String string

func (String) Kind() Kind { return KindString }

// Boolean is TRUE/FALSE.
type Boolean bool

func (Boolean) Kind() Kind { return KindBoolean }

// Null is the unique NULL value.
type Null struct{}

func (Null) Kind() Kind { return KindNull }

// NaNValue is the distinguished NaN value: compares unequal to everything,
// including itself, and propagates through arithmetic (spec §3.2).
type NaNValue struct{}

func (NaNValue) Kind() Kind { return KindNaN }

// List is a dense, 1-based, mutable ordered sequence of Values.
type List struct {
	Elements []Value
}

// NewList wraps elems in a *List.
func NewList(elems []Value) *List { return &List{Elements: elems} }

func (*List) Kind() Kind { return KindList }

// Clone performs the deep-with-respect-to-lists, shallow-with-respect-to-
// instances copy required by assignment (spec §3.2 invariant iii).
func (l *List) Clone() *List {
	out := make([]Value, len(l.Elements))
	for i, e := range l.Elements {
		if nested, ok := e.(*List); ok {
			out[i] = nested.Clone()
		} else {
			out[i] = e
		}
	}
	return &List{Elements: out}
}

// Procedure is a named procedure's captured definition: parameters, body,
// and the lexical frame in which it was declared (spec §3.2).
type Procedure struct {
	Name    string
	Params  []string
	Body    []ast.Statement
	Closure *Environment
}

func (*Procedure) Kind() Kind { return KindProcedure }

// Class is a declared class's member-procedure table.
type Class struct {
	Name    string
	Methods map[string]*Procedure
}

func (*Class) Kind() Kind { return KindClass }

// Instance is a reference to an instance record: its class plus a mutable,
// per-instance field map. Instances are shared by reference on copy (spec
// §3.2 invariant iii), which is what lets an instance field point back at
// the instance itself (spec §9).
type Instance struct {
	Class  *Class
	Fields map[string]Value
}

// NewInstance creates an empty-fielded instance bound to class.
func NewInstance(class *Class) *Instance {
	return &Instance{Class: class, Fields: make(map[string]Value)}
}

func (*Instance) Kind() Kind { return KindInstance }

// IsNumeric reports whether v is an Integer, Float, or NaN.
func IsNumeric(v Value) bool {
	switch v.(type) {
	case Integer, Float, NaNValue:
		return true
	default:
		return false
	}
}

// Truthy requires v to already be a Boolean (spec §4.3 "Short-circuit":
// booleans are not produced from non-boolean operands automatically). It
// is the caller's job to raise a TypeError when that's not the case.
func Truthy(v Value) (bool, bool) {
	b, ok := v.(Boolean)
	return bool(b), ok
}
