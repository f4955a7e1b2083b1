package object

import (
	"fmt"
	"reflect"

	"github.com/podhmo/daro/ast"
)

// Type is a runtime type value. Every value has exactly one type, see TypeOf.
type Type interface {
	Object
	Name() string
}

// --- Basic types ---

// BasicType is one of the prelude types. Kind is the ObjectType of its
// values, or empty for any.
type BasicType struct {
	name string
	Kind ObjectType
}

func (t *BasicType) Type() ObjectType { return TYPE_OBJ }
func (t *BasicType) Inspect() string  { return t.name }
func (t *BasicType) Name() string     { return t.name }

var (
	IntType    = &BasicType{name: "int", Kind: INTEGER_OBJ}
	FloatType  = &BasicType{name: "float", Kind: REAL_OBJ}
	StringType = &BasicType{name: "string", Kind: STRING_OBJ}
	BoolType   = &BasicType{name: "bool", Kind: BOOLEAN_OBJ}
	FuncType   = &BasicType{name: "func", Kind: FUNCTION_OBJ}
	ModuleType = &BasicType{name: "module", Kind: MODULE_OBJ}
	TypeType   = &BasicType{name: "type", Kind: TYPE_OBJ}
	NullType   = &BasicType{name: "null", Kind: NULL_OBJ}
	AnyType    = &BasicType{name: "any"}
)

// BasicTypes lists the types bound by name in the prelude.
var BasicTypes = []*BasicType{IntType, FloatType, StringType, BoolType, FuncType, ModuleType, TypeType, AnyType}

// --- Array types ---

// ArrayType describes arrays. Elem nil means untyped; Len < 0 means growable.
type ArrayType struct {
	Elem Type
	Len  int
}

// UntypedArray is the type of array literals.
var UntypedArray = &ArrayType{Len: -1}

func (t *ArrayType) Type() ObjectType { return TYPE_OBJ }
func (t *ArrayType) Inspect() string  { return t.Name() }

func (t *ArrayType) Name() string {
	s := "[]"
	if t.Len >= 0 {
		s = fmt.Sprintf("[%d]", t.Len)
	}
	if t.Elem != nil {
		s += t.Elem.Name()
	}
	return s
}

// Growable reports whether the length is not fixed.
func (t *ArrayType) Growable() bool { return t.Len < 0 }

// --- Class types ---

// ClassType is a class declared by a script. Instantiating it runs Body in
// a scope chained under Scope, the scope the class was declared in.
type ClassType struct {
	Decl  *ast.ClassDecl
	Scope *Scope
}

func (t *ClassType) Type() ObjectType { return TYPE_OBJ }
func (t *ClassType) Inspect() string  { return "class " + t.Name() }
func (t *ClassType) Name() string     { return t.Decl.Name.Name }

// --- Native types ---

// NativeType is a host type, optionally with constructors.
type NativeType struct {
	T            reflect.Type
	Constructors []reflect.Value
}

func (t *NativeType) Type() ObjectType { return TYPE_OBJ }
func (t *NativeType) Inspect() string  { return "native " + t.T.String() }
func (t *NativeType) Name() string     { return t.T.String() }

// TypeOf returns the runtime type of a value.
func TypeOf(obj Object) Type {
	switch obj := obj.(type) {
	case *Integer:
		return IntType
	case *Real:
		return FloatType
	case *String:
		return StringType
	case *Boolean:
		return BoolType
	case *Null:
		return NullType
	case *Array:
		return obj.ArrayType
	case *Function, *Builtin, *NativeFunction:
		return FuncType
	case *Instance:
		return obj.Class
	case *Module:
		return ModuleType
	case *NativeValue:
		if !obj.Value.IsValid() {
			return NullType
		}
		return &NativeType{T: obj.Value.Type()}
	case Type:
		return TypeType
	}
	return AnyType
}

// SameType reports whether a and b denote the same type.
func SameType(a, b Type) bool {
	if a == b {
		return true
	}
	switch a := a.(type) {
	case *ArrayType:
		b, ok := b.(*ArrayType)
		if !ok || a.Len != b.Len {
			return false
		}
		if a.Elem == nil || b.Elem == nil {
			return a.Elem == nil && b.Elem == nil
		}
		return SameType(a.Elem, b.Elem)
	case *NativeType:
		b, ok := b.(*NativeType)
		return ok && a.T == b.T
	}
	return false
}
