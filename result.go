package daro

import (
	"fmt"
	"math/big"
	"reflect"
	"strings"

	"github.com/podhmo/daro/object"
)

var (
	bigIntType   = reflect.TypeOf((*big.Int)(nil))
	bigFloatType = reflect.TypeOf((*big.Float)(nil))
)

// Result holds the outcome of a script execution.
type Result struct {
	Value object.Object
}

// As unmarshals the result into a Go variable. The target must be a
// pointer to a Go variable. Arrays fill slices and arrays, class
// instances fill structs by case-insensitive field name.
func (r *Result) As(target any) error {
	if target == nil {
		return fmt.Errorf("target cannot be nil")
	}
	dstVal := reflect.ValueOf(target)
	if dstVal.Kind() != reflect.Ptr || dstVal.IsNil() {
		return fmt.Errorf("target must be a non-nil pointer, but got %T", target)
	}
	return unmarshal(r.Value, dstVal.Elem())
}

// unmarshal populates dst from src.
func unmarshal(src object.Object, dst reflect.Value) error {
	if !dst.CanSet() {
		return fmt.Errorf("cannot set destination value of type %s", dst.Type())
	}
	if _, ok := src.(*object.Null); ok {
		dst.Set(reflect.Zero(dst.Type()))
		return nil
	}
	switch dst.Type() {
	case bigIntType:
		if s, ok := src.(*object.Integer); ok {
			dst.Set(reflect.ValueOf(new(big.Int).Set(s.Value)))
			return nil
		}
	case bigFloatType:
		if f, ok := toBigFloat(src); ok {
			dst.Set(reflect.ValueOf(f))
			return nil
		}
	}
	for dst.Kind() == reflect.Ptr {
		if dst.IsNil() {
			dst.Set(reflect.New(dst.Type().Elem()))
		}
		dst = dst.Elem()
	}

	switch s := src.(type) {
	case *object.Integer:
		switch dst.Kind() {
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			if !s.Value.IsInt64() || dst.OverflowInt(s.Value.Int64()) {
				return fmt.Errorf("integer %s overflows %s", s.Value, dst.Type())
			}
			dst.SetInt(s.Value.Int64())
		case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
			if s.Value.Sign() < 0 || !s.Value.IsUint64() || dst.OverflowUint(s.Value.Uint64()) {
				return fmt.Errorf("integer %s overflows %s", s.Value, dst.Type())
			}
			dst.SetUint(s.Value.Uint64())
		case reflect.Float32, reflect.Float64:
			f, _ := new(big.Float).SetInt(s.Value).Float64()
			dst.SetFloat(f)
		case reflect.Interface:
			return setInterface(dst, integerValue(s))
		default:
			return fmt.Errorf("cannot unmarshal integer into %s", dst.Type())
		}
		return nil
	case *object.Real:
		switch dst.Kind() {
		case reflect.Float32, reflect.Float64:
			f, _ := s.Value.Float64()
			dst.SetFloat(f)
		case reflect.Interface:
			f, _ := s.Value.Float64()
			return setInterface(dst, f)
		default:
			return fmt.Errorf("cannot unmarshal real into %s", dst.Type())
		}
		return nil
	case *object.String:
		switch dst.Kind() {
		case reflect.String:
			dst.SetString(s.Value)
		case reflect.Interface:
			return setInterface(dst, s.Value)
		default:
			return fmt.Errorf("cannot unmarshal string into %s", dst.Type())
		}
		return nil
	case *object.Boolean:
		switch dst.Kind() {
		case reflect.Bool:
			dst.SetBool(s.Value)
		case reflect.Interface:
			return setInterface(dst, s.Value)
		default:
			return fmt.Errorf("cannot unmarshal boolean into %s", dst.Type())
		}
		return nil
	case *object.NativeValue:
		if !s.Value.IsValid() {
			dst.Set(reflect.Zero(dst.Type()))
			return nil
		}
		if !s.Value.Type().AssignableTo(dst.Type()) {
			if s.Value.Type().ConvertibleTo(dst.Type()) {
				dst.Set(s.Value.Convert(dst.Type()))
				return nil
			}
			if s.Value.Kind() == reflect.Ptr && s.Value.Elem().Type().AssignableTo(dst.Type()) {
				dst.Set(s.Value.Elem())
				return nil
			}
			return fmt.Errorf("cannot assign Go value of type %s to %s", s.Value.Type(), dst.Type())
		}
		dst.Set(s.Value)
		return nil
	case *object.Array:
		switch dst.Kind() {
		case reflect.Slice:
			newSlice := reflect.MakeSlice(dst.Type(), len(s.Elements), len(s.Elements))
			for i, elem := range s.Elements {
				if err := unmarshal(elem, newSlice.Index(i)); err != nil {
					return fmt.Errorf("error in slice element %d: %w", i, err)
				}
			}
			dst.Set(newSlice)
		case reflect.Array:
			if len(s.Elements) > dst.Len() {
				return fmt.Errorf("array has more elements (%d) than destination %s", len(s.Elements), dst.Type())
			}
			for i, elem := range s.Elements {
				if err := unmarshal(elem, dst.Index(i)); err != nil {
					return fmt.Errorf("error in array element %d: %w", i, err)
				}
			}
		case reflect.Interface:
			out := make([]any, len(s.Elements))
			for i, elem := range s.Elements {
				if err := unmarshal(elem, reflect.ValueOf(&out[i]).Elem()); err != nil {
					return fmt.Errorf("error in slice element %d: %w", i, err)
				}
			}
			return setInterface(dst, out)
		default:
			return fmt.Errorf("cannot unmarshal array into non-slice type %s", dst.Type())
		}
		return nil
	case *object.Instance:
		switch dst.Kind() {
		case reflect.Struct:
			dstFields := make(map[string]reflect.Value)
			for i := 0; i < dst.NumField(); i++ {
				field := dst.Type().Field(i)
				if field.PkgPath != "" {
					continue
				}
				dstFields[strings.ToLower(field.Name)] = dst.Field(i)
			}
			for _, name := range s.Members.Names() {
				dstField, ok := dstFields[strings.ToLower(name)]
				if !ok {
					continue
				}
				v, _ := s.Members.Get(name)
				if err := unmarshal(v, dstField); err != nil {
					return fmt.Errorf("error in struct field %q: %w", name, err)
				}
			}
		case reflect.Map:
			if dst.Type().Key().Kind() != reflect.String {
				return fmt.Errorf("cannot unmarshal instance into map with %s keys", dst.Type().Key())
			}
			newMap := reflect.MakeMap(dst.Type())
			for _, name := range s.Members.Names() {
				v, _ := s.Members.Get(name)
				switch v.(type) {
				case *object.Function, *object.Builtin:
					continue
				}
				val := reflect.New(dst.Type().Elem()).Elem()
				if err := unmarshal(v, val); err != nil {
					return fmt.Errorf("error in map value for key %q: %w", name, err)
				}
				newMap.SetMapIndex(reflect.ValueOf(name).Convert(dst.Type().Key()), val)
			}
			dst.Set(newMap)
		default:
			return fmt.Errorf("cannot unmarshal instance of %s into %s", s.Class.Name(), dst.Type())
		}
		return nil
	default:
		if dst.Kind() == reflect.Interface && reflect.TypeOf(src).AssignableTo(dst.Type()) {
			dst.Set(reflect.ValueOf(src))
			return nil
		}
		return fmt.Errorf("unsupported object type for unmarshaling: %s", src.Type())
	}
}

func setInterface(dst reflect.Value, v any) error {
	rv := reflect.ValueOf(v)
	if !rv.Type().AssignableTo(dst.Type()) {
		return fmt.Errorf("cannot assign %s to %s", rv.Type(), dst.Type())
	}
	dst.Set(rv)
	return nil
}

// integerValue is an int when the value fits, and a *big.Int otherwise.
func integerValue(i *object.Integer) any {
	if i.Value.IsInt64() {
		n := i.Value.Int64()
		if int64(int(n)) == n {
			return int(n)
		}
		return n
	}
	return new(big.Int).Set(i.Value)
}

func toBigFloat(obj object.Object) (*big.Float, bool) {
	switch obj := obj.(type) {
	case *object.Integer:
		return object.NewRealFromInt(obj.Value).Value, true
	case *object.Real:
		return new(big.Float).Copy(obj.Value), true
	}
	return nil, false
}
