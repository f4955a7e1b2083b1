package ffibridge

import (
	"fmt"
	"reflect"

	"github.com/podhmo/daro/object"
)

// Invoke casts args to the parameters of fn and calls it. A trailing error
// result is returned as the error, a single remaining result is wrapped,
// several become an array. Panics raised by the host are returned as errors.
func Invoke(fn reflect.Value, args []object.Object, call Caller) (ret object.Object, err error) {
	defer func() {
		if r := recover(); r != nil {
			if rerr, ok := r.(error); ok {
				err = fmt.Errorf("native panic: %w", rerr)
			} else {
				err = fmt.Errorf("native panic: %v", r)
			}
		}
	}()

	ft := fn.Type()
	if !arityOK(ft, len(args)) {
		return nil, fmt.Errorf("wrong number of arguments: got %d, want %d", len(args), ft.NumIn())
	}
	in := make([]reflect.Value, len(args))
	for i, arg := range args {
		v, err := Cast(arg, paramType(ft, i), call)
		if err != nil {
			return nil, fmt.Errorf("argument %d: %w", i+1, err)
		}
		in[i] = v
	}

	results := fn.Call(in)
	if n := len(results); n > 0 && ft.Out(n-1) == errorType {
		if errv := results[n-1]; !errv.IsNil() {
			return nil, errv.Interface().(error)
		}
		results = results[:n-1]
	}
	switch len(results) {
	case 0:
		return object.NULL, nil
	case 1:
		return Wrap(results[0]), nil
	}
	elems := make([]object.Object, len(results))
	for i, r := range results {
		elems[i] = Wrap(r)
	}
	return object.NewArray(elems), nil
}

func arityOK(ft reflect.Type, n int) bool {
	if ft.IsVariadic() {
		return n >= ft.NumIn()-1
	}
	return n == ft.NumIn()
}
