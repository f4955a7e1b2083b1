package object

import (
	"reflect"
	"strconv"
)

// Truthy applies the language's truthiness rule: zero numbers, empty
// strings, empty arrays, false and null are false; everything else is true.
func Truthy(obj Object) bool {
	switch obj := obj.(type) {
	case *Boolean:
		return obj.Value
	case *Null:
		return false
	case *Integer:
		return obj.Value.Sign() != 0
	case *Real:
		return obj.Value.Sign() != 0
	case *String:
		return obj.Value != ""
	case *Array:
		return len(obj.Elements) > 0
	case *NativeValue:
		if !obj.Value.IsValid() {
			return false
		}
		switch obj.Value.Kind() {
		case reflect.Ptr, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
			return !obj.Value.IsNil()
		}
		return true
	}
	return true
}

// Equal reports whether a and b are equal values. Numbers compare across
// int and float, arrays compare element-wise, and other reference values
// compare by identity.
func Equal(a, b Object) bool {
	switch a := a.(type) {
	case *Integer:
		switch b := b.(type) {
		case *Integer:
			return a.Value.Cmp(b.Value) == 0
		case *Real:
			return NewRealFromInt(a.Value).Value.Cmp(b.Value) == 0
		}
		return false
	case *Real:
		switch b := b.(type) {
		case *Integer:
			return a.Value.Cmp(NewRealFromInt(b.Value).Value) == 0
		case *Real:
			return a.Value.Cmp(b.Value) == 0
		}
		return false
	case *String:
		b, ok := b.(*String)
		return ok && a.Value == b.Value
	case *Boolean:
		b, ok := b.(*Boolean)
		return ok && a.Value == b.Value
	case *Null:
		if nv, ok := b.(*NativeValue); ok {
			return isNilKind(nv.Value)
		}
		_, ok := b.(*Null)
		return ok
	case *Array:
		b, ok := b.(*Array)
		if !ok || len(a.Elements) != len(b.Elements) {
			return false
		}
		for i := range a.Elements {
			if !Equal(a.Elements[i], b.Elements[i]) {
				return false
			}
		}
		return true
	case *NativeValue:
		switch b := b.(type) {
		case *NativeValue:
			if !a.Value.IsValid() || !b.Value.IsValid() {
				return a.Value.IsValid() == b.Value.IsValid()
			}
			if a.Value.Type() != b.Value.Type() || !a.Value.CanInterface() || !b.Value.CanInterface() {
				return false
			}
			if a.Value.Type().Comparable() {
				return a.Value.Interface() == b.Value.Interface()
			}
			return reflect.DeepEqual(a.Value.Interface(), b.Value.Interface())
		case *Null:
			return Equal(b, a)
		}
		return false
	case *ArrayType, *NativeType:
		t, ok := b.(Type)
		return ok && SameType(a.(Type), t)
	}
	return a == b
}

func isNilKind(v reflect.Value) bool {
	if !v.IsValid() {
		return true
	}
	switch v.Kind() {
	case reflect.Ptr, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		return v.IsNil()
	}
	return false
}

// Repr returns the literal form of a value: strings are quoted, everything
// else prints as Inspect.
func Repr(obj Object) string {
	if s, ok := obj.(*String); ok {
		return strconv.Quote(s.Value)
	}
	return obj.Inspect()
}
