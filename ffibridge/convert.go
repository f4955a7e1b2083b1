package ffibridge

import (
	"errors"
	"fmt"
	"math/big"
	"reflect"

	"github.com/podhmo/daro/object"
)

// Caller calls a script function on behalf of host code, for script
// functions passed where a Go func is expected.
type Caller func(fn object.Object, args []object.Object) (object.Object, error)

var errNoCaller = errors.New("script functions cannot be converted to host funcs here")

// Cast converts obj into a host value of type t.
func Cast(obj object.Object, t reflect.Type, call Caller) (reflect.Value, error) {
	if Loss(obj, t) == Impossible {
		return reflect.Value{}, fmt.Errorf("cannot use %s value %s as %s", object.TypeOf(obj).Name(), object.Repr(obj), t)
	}
	if t == objectType {
		out := reflect.New(t).Elem()
		out.Set(reflect.ValueOf(obj))
		return out, nil
	}

	switch obj := obj.(type) {
	case *object.Integer:
		return castInteger(obj.Value, t), nil
	case *object.Real:
		switch {
		case t == bigFloatType:
			return reflect.ValueOf(new(big.Float).Copy(obj.Value)), nil
		case isAny(t):
			f, _ := obj.Value.Float64()
			return toType(reflect.ValueOf(f), t), nil
		case isInteger(t):
			n, _ := integralReal(obj.Value)
			return castInteger(n, t), nil
		}
		f, _ := obj.Value.Float64()
		out := reflect.New(t).Elem()
		out.SetFloat(f)
		return out, nil
	case *object.String:
		switch t.Kind() {
		case reflect.String:
			out := reflect.New(t).Elem()
			out.SetString(obj.Value)
			return out, nil
		case reflect.Slice:
			return reflect.ValueOf([]byte(obj.Value)).Convert(t), nil
		}
		return toType(reflect.ValueOf(obj.Value), t), nil
	case *object.Boolean:
		if t.Kind() == reflect.Bool {
			out := reflect.New(t).Elem()
			out.SetBool(obj.Value)
			return out, nil
		}
		return toType(reflect.ValueOf(obj.Value), t), nil
	case *object.Null:
		return reflect.Zero(t), nil
	case *object.Array:
		return castArray(obj, t, call)
	case *object.NativeFunction:
		if len(obj.Overloads) == 1 && obj.Overloads[0].Type().AssignableTo(t) {
			return obj.Overloads[0], nil
		}
		if call == nil {
			return reflect.Value{}, errNoCaller
		}
		return makeFunc(obj, t, call), nil
	case *object.Function, *object.Builtin:
		if call == nil {
			return reflect.Value{}, errNoCaller
		}
		return makeFunc(obj, t, call), nil
	case *object.NativeValue:
		v := obj.Value
		if !v.IsValid() {
			return reflect.Zero(t), nil
		}
		switch {
		case v.Type().AssignableTo(t):
			return toType(v, t), nil
		case v.CanAddr() && reflect.PointerTo(v.Type()).AssignableTo(t):
			return toType(v.Addr(), t), nil
		}
		return v.Convert(t), nil
	case *object.NativeType:
		return toType(reflect.ValueOf(obj.T), t), nil
	}
	return reflect.Value{}, fmt.Errorf("cannot use %s as %s", obj.Type(), t)
}

// toType returns v as a value whose static type is t, which v must be
// assignable to.
func toType(v reflect.Value, t reflect.Type) reflect.Value {
	if v.Type() == t {
		return v
	}
	out := reflect.New(t).Elem()
	out.Set(v)
	return out
}

func castInteger(n *big.Int, t reflect.Type) reflect.Value {
	switch t {
	case bigIntType:
		return reflect.ValueOf(new(big.Int).Set(n))
	case bigFloatType:
		return reflect.ValueOf(new(big.Float).SetPrec(object.RealPrec).SetInt(n))
	}
	out := reflect.New(t).Elem()
	switch t.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		out.SetInt(n.Int64())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		out.SetUint(n.Uint64())
	case reflect.Float32, reflect.Float64:
		f, _ := new(big.Float).SetInt(n).Float64()
		out.SetFloat(f)
	default: // any
		if n.IsInt64() && fitsSigned(n, intSize) {
			out.Set(reflect.ValueOf(int(n.Int64())))
		} else {
			out.Set(reflect.ValueOf(new(big.Int).Set(n)))
		}
	}
	return out
}

const intSize = 32 << (^uint(0) >> 63)

func castArray(arr *object.Array, t reflect.Type, call Caller) (reflect.Value, error) {
	var out reflect.Value
	switch t.Kind() {
	case reflect.Slice:
		out = reflect.MakeSlice(t, len(arr.Elements), len(arr.Elements))
	case reflect.Array:
		out = reflect.New(t).Elem()
	default: // any
		s := reflect.MakeSlice(reflect.TypeOf([]any{}), len(arr.Elements), len(arr.Elements))
		for i, e := range arr.Elements {
			v, err := Cast(e, anyType, call)
			if err != nil {
				return reflect.Value{}, fmt.Errorf("element %d: %w", i, err)
			}
			s.Index(i).Set(v)
		}
		return toType(s, t), nil
	}
	for i, e := range arr.Elements {
		v, err := Cast(e, t.Elem(), call)
		if err != nil {
			return reflect.Value{}, fmt.Errorf("element %d: %w", i, err)
		}
		out.Index(i).Set(v)
	}
	return out, nil
}

// makeFunc adapts a script callable to the Go func type t. Errors raised by
// the script are returned through a trailing error result when t has one,
// and panic otherwise; Invoke recovers such panics.
func makeFunc(fn object.Object, t reflect.Type, call Caller) reflect.Value {
	return reflect.MakeFunc(t, func(in []reflect.Value) []reflect.Value {
		args := make([]object.Object, len(in))
		for i, v := range in {
			args[i] = Wrap(v)
		}
		res, err := call(fn, args)

		outs := make([]reflect.Value, t.NumOut())
		for i := range outs {
			outs[i] = reflect.Zero(t.Out(i))
		}
		hasErr := t.NumOut() > 0 && t.Out(t.NumOut()-1) == errorType
		if err != nil {
			if !hasErr {
				panic(err)
			}
			outs[len(outs)-1] = reflect.ValueOf(&err).Elem()
			return outs
		}
		if t.NumOut() == 0 || (hasErr && t.NumOut() == 1) {
			return outs
		}
		v, err := Cast(res, t.Out(0), call)
		if err != nil {
			if !hasErr {
				panic(err)
			}
			outs[len(outs)-1] = reflect.ValueOf(&err).Elem()
			return outs
		}
		outs[0] = v
		return outs
	})
}

// Wrap converts a host value into an interpreter object. Unnamed numbers,
// strings, booleans and slices become script values; everything else stays
// a NativeValue.
func Wrap(v reflect.Value) object.Object {
	if !v.IsValid() {
		return object.NULL
	}
	if v.CanInterface() {
		switch x := v.Interface().(type) {
		case object.Object:
			return x
		case reflect.Type:
			return &object.NativeType{T: x}
		case *big.Int:
			if x == nil {
				return object.NULL
			}
			return &object.Integer{Value: new(big.Int).Set(x)}
		case *big.Float:
			if x == nil {
				return object.NULL
			}
			if x.IsInf() {
				return &object.NativeValue{Value: v}
			}
			return &object.Real{Value: new(big.Float).SetPrec(object.RealPrec).Set(x)}
		}
	}

	t := v.Type()
	switch t.Kind() {
	case reflect.Interface:
		if v.IsNil() {
			return object.NULL
		}
		return Wrap(v.Elem())
	case reflect.Ptr, reflect.Map, reflect.Func, reflect.Chan:
		if v.IsNil() {
			return object.NULL
		}
		return &object.NativeValue{Value: v}
	}

	if t.PkgPath() != "" || t.NumMethod() > 0 {
		return &object.NativeValue{Value: addressable(v)}
	}
	switch t.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return object.NewInteger(v.Int())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return &object.Integer{Value: new(big.Int).SetUint64(v.Uint())}
	case reflect.Float32, reflect.Float64:
		// NaN and infinities have no Real form and stay host values.
		if r, err := object.ToReal(v.Float()); err == nil {
			return r
		}
		return &object.NativeValue{Value: addressable(v)}
	case reflect.String:
		return &object.String{Value: v.String()}
	case reflect.Bool:
		return object.NativeBoolToBooleanObject(v.Bool())
	case reflect.Slice, reflect.Array:
		if t.Kind() == reflect.Slice && v.IsNil() {
			return object.NULL
		}
		elems := make([]object.Object, v.Len())
		for i := range elems {
			elems[i] = Wrap(v.Index(i))
		}
		return object.NewArray(elems)
	}
	return &object.NativeValue{Value: addressable(v)}
}

// addressable returns an addressable copy of v so that fields can be set
// and pointer methods called.
func addressable(v reflect.Value) reflect.Value {
	if v.CanAddr() {
		return v
	}
	p := reflect.New(v.Type()).Elem()
	p.Set(v)
	return p
}
