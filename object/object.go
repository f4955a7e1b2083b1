package object

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
	"math/big"
	"reflect"
	"strings"

	"github.com/podhmo/daro/ast"
	"github.com/podhmo/daro/token"
)

// ObjectType is a string representation of an object's type.
type ObjectType string

const (
	INTEGER_OBJ         ObjectType = "INTEGER"
	REAL_OBJ            ObjectType = "REAL"
	STRING_OBJ          ObjectType = "STRING"
	BOOLEAN_OBJ         ObjectType = "BOOLEAN"
	NULL_OBJ            ObjectType = "NULL"
	ARRAY_OBJ           ObjectType = "ARRAY"
	FUNCTION_OBJ        ObjectType = "FUNCTION"
	BUILTIN_OBJ         ObjectType = "BUILTIN"
	INSTANCE_OBJ        ObjectType = "INSTANCE"
	MODULE_OBJ          ObjectType = "MODULE"
	NATIVE_VALUE_OBJ    ObjectType = "NATIVE_VALUE"
	NATIVE_FUNCTION_OBJ ObjectType = "NATIVE_FUNCTION"
	TYPE_OBJ            ObjectType = "TYPE"

	RETURN_VALUE_OBJ ObjectType = "RETURN_VALUE"
	BREAK_OBJ        ObjectType = "BREAK"
	CONTINUE_OBJ     ObjectType = "CONTINUE"
	ERROR_OBJ        ObjectType = "ERROR"
)

// Object is the interface that all values in the interpreter implement.
type Object interface {
	// Type returns the type of the object.
	Type() ObjectType
	// Inspect returns a string representation of the object's value.
	Inspect() string
}

// --- Integer Object ---

// Integer is an arbitrary precision integer.
type Integer struct {
	Value *big.Int
}

// NewInteger creates an Integer from an int64.
func NewInteger(v int64) *Integer { return &Integer{Value: big.NewInt(v)} }

func (i *Integer) Type() ObjectType { return INTEGER_OBJ }
func (i *Integer) Inspect() string  { return i.Value.String() }

// --- Real Object ---

// RealPrec is the mantissa precision, in bits, of every Real.
const RealPrec = 256

// Real is an arbitrary precision floating point number.
type Real struct {
	Value *big.Float
}

// ErrNonFinite is returned for float64 values without a Real form.
// Reals are always finite.
var ErrNonFinite = errors.New("real value out of range")

// NewReal creates a Real from a float64. It panics if v is NaN or infinite.
func NewReal(v float64) *Real {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		panic(fmt.Sprintf("object.NewReal: %v", v))
	}
	return &Real{Value: new(big.Float).SetPrec(RealPrec).SetFloat64(v)}
}

// ToReal is NewReal for values that may be NaN or infinite.
func ToReal(v float64) (*Real, error) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil, fmt.Errorf("%w: %v", ErrNonFinite, v)
	}
	return NewReal(v), nil
}

// NewRealFromInt converts an integer into a Real.
func NewRealFromInt(v *big.Int) *Real {
	return &Real{Value: new(big.Float).SetPrec(RealPrec).SetInt(v)}
}

func (r *Real) Type() ObjectType { return REAL_OBJ }
func (r *Real) Inspect() string  { return ast.FormatReal(r.Value) }

// --- String Object ---

type String struct {
	Value string
}

func (s *String) Type() ObjectType { return STRING_OBJ }
func (s *String) Inspect() string  { return s.Value }

// --- Boolean Object ---

type Boolean struct {
	Value bool
}

func (b *Boolean) Type() ObjectType { return BOOLEAN_OBJ }
func (b *Boolean) Inspect() string  { return fmt.Sprintf("%t", b.Value) }

// --- Null Object ---

type Null struct{}

func (n *Null) Type() ObjectType { return NULL_OBJ }
func (n *Null) Inspect() string  { return "null" }

var (
	TRUE  = &Boolean{Value: true}
	FALSE = &Boolean{Value: false}
	NULL  = &Null{}
)

// NativeBoolToBooleanObject returns TRUE or FALSE.
func NativeBoolToBooleanObject(input bool) *Boolean {
	if input {
		return TRUE
	}
	return FALSE
}

// --- Array Object ---

// Array is a sequence of values. ArrayType is never nil; it fixes the
// element type and, unless growable, the length.
type Array struct {
	ArrayType *ArrayType
	Elements  []Object
}

// NewArray creates an untyped growable array.
func NewArray(elems []Object) *Array {
	return &Array{ArrayType: UntypedArray, Elements: elems}
}

func (a *Array) Type() ObjectType { return ARRAY_OBJ }

func (a *Array) Inspect() string {
	var out bytes.Buffer
	out.WriteString("[")
	for i, e := range a.Elements {
		if i > 0 {
			out.WriteString(", ")
		}
		out.WriteString(Repr(e))
	}
	out.WriteString("]")
	return out.String()
}

// Set stores v at index i, coercing it to the element type.
func (a *Array) Set(i int, v Object) error {
	if i < 0 || i >= len(a.Elements) {
		return fmt.Errorf("index %d out of range [0:%d]", i, len(a.Elements))
	}
	v, err := Coerce(v, a.ArrayType.Elem)
	if err != nil {
		return err
	}
	a.Elements[i] = v
	return nil
}

// --- Function Object ---

// Function is a script function closed over the scope it was defined in.
type Function struct {
	Name     string
	Params   []*ast.Ident
	Variadic bool
	Body     *ast.Block
	Env      *Scope
}

func (f *Function) Type() ObjectType { return FUNCTION_OBJ }

func (f *Function) Inspect() string {
	params := make([]string, len(f.Params))
	for i, p := range f.Params {
		params[i] = p.Name
		if f.Variadic && i == len(f.Params)-1 {
			params[i] = "..." + p.Name
		}
	}
	return "fn " + f.Name + "(" + strings.Join(params, ", ") + ")"
}

// Accepts reports whether the function can be called with n arguments.
func (f *Function) Accepts(n int) bool {
	if f.Variadic {
		return n >= len(f.Params)-1
	}
	return n == len(f.Params)
}

// --- Builtin Object ---

// BuiltinContext provides the necessary context for a built-in function to execute.
type BuiltinContext struct {
	Stdout   io.Writer
	Stderr   io.Writer
	Pos      token.Position
	NewError func(format string, args ...any) *Error
}

// BuiltinFunction is the signature for built-in functions.
type BuiltinFunction func(ctx *BuiltinContext, args ...Object) Object

// Builtin is a host-defined function with an argument-count predicate.
type Builtin struct {
	Name  string
	Arity func(n int) bool
	Fn    BuiltinFunction
}

func (b *Builtin) Type() ObjectType { return BUILTIN_OBJ }
func (b *Builtin) Inspect() string  { return "builtin " + b.Name }

// Accepts reports whether the builtin can be called with n arguments.
func (b *Builtin) Accepts(n int) bool {
	return b.Arity == nil || b.Arity(n)
}

// ExactArgs accepts exactly n arguments.
func ExactArgs(n int) func(int) bool { return func(got int) bool { return got == n } }

// MinArgs accepts n or more arguments.
func MinArgs(n int) func(int) bool { return func(got int) bool { return got >= n } }

// RangeArgs accepts between min and max arguments, inclusive.
func RangeArgs(min, max int) func(int) bool {
	return func(got int) bool { return min <= got && got <= max }
}

// --- Instance Object ---

// Instance is a class instance. Its members live in a shadowing scope.
type Instance struct {
	Class   *ClassType
	Members *Scope
}

func (i *Instance) Type() ObjectType { return INSTANCE_OBJ }

func (i *Instance) Inspect() string {
	var fields []string
	for _, name := range i.Members.Names() {
		v, _ := i.Members.Get(name)
		switch v.(type) {
		case *Function, *Builtin:
			continue
		}
		fields = append(fields, name+" = "+Repr(v))
	}
	return i.Class.Name() + "{" + strings.Join(fields, ", ") + "}"
}

// --- Module Object ---

// Module exposes the top-level bindings of a loaded script, or the symbols
// of a registered host package.
type Module struct {
	Name  string
	Path  string
	Scope *Scope
}

func (m *Module) Type() ObjectType { return MODULE_OBJ }
func (m *Module) Inspect() string  { return fmt.Sprintf("module %s (%q)", m.Name, m.Path) }

// --- NativeValue Object ---

// NativeValue wraps a host value.
type NativeValue struct {
	Value reflect.Value
}

func (n *NativeValue) Type() ObjectType { return NATIVE_VALUE_OBJ }

func (n *NativeValue) Inspect() string {
	if !n.Value.IsValid() {
		return "<invalid native value>"
	}
	switch n.Value.Kind() {
	case reflect.Ptr, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		if n.Value.IsNil() {
			return "null"
		}
	}
	if !n.Value.CanInterface() {
		return fmt.Sprintf("<%s>", n.Value.Type())
	}
	return fmt.Sprintf("%v", n.Value.Interface())
}

// --- NativeFunction Object ---

// NativeFunction is a host function, possibly overloaded. The overload used
// for a call is picked from the arguments. Receiver names the package or
// host type the function was found on.
type NativeFunction struct {
	Receiver  string
	Name      string
	Overloads []reflect.Value
}

func (n *NativeFunction) Type() ObjectType { return NATIVE_FUNCTION_OBJ }

// FullName returns Receiver.Name.
func (n *NativeFunction) FullName() string {
	if n.Receiver == "" {
		return n.Name
	}
	return n.Receiver + "." + n.Name
}

func (n *NativeFunction) Inspect() string {
	if len(n.Overloads) == 1 {
		return fmt.Sprintf("native %s %s", n.FullName(), n.Overloads[0].Type())
	}
	return fmt.Sprintf("native %s (%d overloads)", n.FullName(), len(n.Overloads))
}

// --- Control signals ---

// ReturnValue carries the value of a return statement up to the caller.
type ReturnValue struct {
	Value Object
}

func (rv *ReturnValue) Type() ObjectType { return RETURN_VALUE_OBJ }
func (rv *ReturnValue) Inspect() string  { return rv.Value.Inspect() }

type Break struct{}

func (b *Break) Type() ObjectType { return BREAK_OBJ }
func (b *Break) Inspect() string  { return "break" }

type Continue struct{}

func (c *Continue) Type() ObjectType { return CONTINUE_OBJ }
func (c *Continue) Inspect() string  { return "continue" }

var (
	BREAK    = &Break{}
	CONTINUE = &Continue{}
)

// IsSignal reports whether obj interrupts normal sequencing: an error, a
// return, a break or a continue.
func IsSignal(obj Object) bool {
	switch obj.(type) {
	case *Error, *ReturnValue, *Break, *Continue:
		return true
	}
	return false
}
