package object

import (
	"fmt"
	"math/big"
	"reflect"
	"strings"
)

// Zero returns the default value of t. It reports false for class types,
// whose default value is produced by running the class body.
func Zero(t Type) (Object, bool) {
	switch t := t.(type) {
	case *BasicType:
		switch t {
		case IntType:
			return NewInteger(0), true
		case FloatType:
			return NewReal(0), true
		case StringType:
			return &String{}, true
		case BoolType:
			return FALSE, true
		}
		return NULL, true
	case *ArrayType:
		if t.Growable() {
			return &Array{ArrayType: t, Elements: []Object{}}, true
		}
		elems := make([]Object, t.Len)
		for i := range elems {
			v, ok := ZeroElem(t.Elem)
			if !ok {
				return nil, false
			}
			elems[i] = v
		}
		return &Array{ArrayType: t, Elements: elems}, true
	case *NativeType:
		if t.T.Kind() == reflect.Ptr {
			return &NativeValue{Value: reflect.New(t.T.Elem())}, true
		}
		return &NativeValue{Value: reflect.New(t.T).Elem()}, true
	}
	return nil, false
}

// ZeroElem is Zero for array elements: untyped elements default to null.
func ZeroElem(t Type) (Object, bool) {
	if t == nil {
		return NULL, true
	}
	return Zero(t)
}

// Coerce checks that v may be stored where a value of type t is expected,
// widening integers to reals for float. A nil t accepts anything.
func Coerce(v Object, t Type) (Object, error) {
	if t == nil || t == AnyType {
		return v, nil
	}
	if t == FloatType {
		if i, ok := v.(*Integer); ok {
			return NewRealFromInt(i.Value), nil
		}
	}
	if _, ok := v.(*Null); ok {
		switch t.(type) {
		case *ClassType, *NativeType, *ArrayType:
			return v, nil
		}
		switch t {
		case FuncType, ModuleType, TypeType, NullType:
			return v, nil
		}
	}
	if Is(v, t) {
		return v, nil
	}
	return nil, fmt.Errorf("cannot use %s value as %s", TypeOf(v).Name(), t.Name())
}

// Is reports whether v is a value of type t.
func Is(v Object, t Type) bool {
	switch t := t.(type) {
	case *BasicType:
		if t == AnyType {
			return true
		}
		if t == TypeType {
			_, ok := v.(Type)
			return ok
		}
		if t == FuncType {
			return TypeOf(v) == FuncType
		}
		return v.Type() == t.Kind
	case *ArrayType:
		arr, ok := v.(*Array)
		if !ok {
			return false
		}
		if !t.Growable() && len(arr.Elements) != t.Len {
			return false
		}
		if t.Elem == nil {
			return true
		}
		for _, e := range arr.Elements {
			if _, err := Coerce(e, t.Elem); err != nil {
				return false
			}
		}
		return true
	case *ClassType:
		inst, ok := v.(*Instance)
		return ok && inst.Class == t
	case *NativeType:
		nv, ok := v.(*NativeValue)
		return ok && nv.Value.IsValid() && nv.Value.Type().AssignableTo(t.T)
	}
	return false
}

// Convert turns a single initializer value into a value of a basic type, as
// in new int{"42"}.
func Convert(v Object, t *BasicType) (Object, error) {
	switch t {
	case IntType:
		switch v := v.(type) {
		case *Integer:
			return v, nil
		case *Real:
			if v.Value.IsInf() {
				return nil, fmt.Errorf("cannot convert %s to int", v.Inspect())
			}
			i, _ := v.Value.Int(nil)
			return &Integer{Value: i}, nil
		case *Boolean:
			if v.Value {
				return NewInteger(1), nil
			}
			return NewInteger(0), nil
		case *String:
			s := strings.TrimSpace(v.Value)
			base := 10
			if len(s) > 1 && s[0] == '0' && strings.ContainsRune("bBoOxX", rune(s[1])) {
				base = 0
			}
			i, ok := new(big.Int).SetString(s, base)
			if !ok {
				return nil, fmt.Errorf("cannot convert %q to int", v.Value)
			}
			return &Integer{Value: i}, nil
		}
	case FloatType:
		switch v := v.(type) {
		case *Integer:
			return NewRealFromInt(v.Value), nil
		case *Real:
			return v, nil
		case *String:
			f, _, err := big.ParseFloat(strings.TrimSpace(v.Value), 10, RealPrec, big.ToNearestEven)
			if err != nil || f.IsInf() {
				return nil, fmt.Errorf("cannot convert %q to float", v.Value)
			}
			return &Real{Value: f}, nil
		}
	case StringType:
		return &String{Value: v.Inspect()}, nil
	case BoolType:
		return NativeBoolToBooleanObject(Truthy(v)), nil
	default:
		return Coerce(v, t)
	}
	return nil, fmt.Errorf("cannot convert %s to %s", TypeOf(v).Name(), t.Name())
}
