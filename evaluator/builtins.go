package evaluator

import (
	"fmt"
	"reflect"
	"strings"
	"unicode/utf8"

	"github.com/podhmo/daro/object"
)

var intArray = &object.ArrayType{Elem: object.IntType, Len: -1}

var builtins = map[string]*object.Builtin{
	"print": {
		Name: "print",
		Fn: func(ctx *object.BuiltinContext, args ...object.Object) object.Object {
			fmt.Fprint(ctx.Stdout, joinInspect(args))
			return object.NULL
		},
	},
	"println": {
		Name: "println",
		Fn: func(ctx *object.BuiltinContext, args ...object.Object) object.Object {
			fmt.Fprintln(ctx.Stdout, joinInspect(args))
			return object.NULL
		},
	},
	"len": {
		Name:  "len",
		Arity: object.ExactArgs(1),
		Fn: func(ctx *object.BuiltinContext, args ...object.Object) object.Object {
			switch arg := args[0].(type) {
			case *object.Array:
				return object.NewInteger(int64(len(arg.Elements)))
			case *object.String:
				return object.NewInteger(int64(utf8.RuneCountInString(arg.Value)))
			case *object.NativeValue:
				val := arg.Value
				switch val.Kind() {
				case reflect.Array, reflect.Slice, reflect.Map, reflect.String, reflect.Chan:
					return object.NewInteger(int64(val.Len()))
				default:
					return ctx.NewError("argument to `len` not supported, got native value of kind %s", val.Kind())
				}
			default:
				return ctx.NewError("argument to `len` not supported, got %s", object.TypeOf(args[0]).Name())
			}
		},
	},
	"typeof": {
		Name:  "typeof",
		Arity: object.ExactArgs(1),
		Fn: func(ctx *object.BuiltinContext, args ...object.Object) object.Object {
			return object.TypeOf(args[0])
		},
	},
	"str": {
		Name:  "str",
		Arity: object.ExactArgs(1),
		Fn: func(ctx *object.BuiltinContext, args ...object.Object) object.Object {
			if s, ok := args[0].(*object.String); ok {
				return s
			}
			return &object.String{Value: args[0].Inspect()}
		},
	},
	"append": {
		Name:  "append",
		Arity: object.MinArgs(1),
		Fn: func(ctx *object.BuiltinContext, args ...object.Object) object.Object {
			arr, ok := args[0].(*object.Array)
			if !ok {
				return ctx.NewError("first argument to `append` must be an array, got %s", object.TypeOf(args[0]).Name())
			}
			if !arr.ArrayType.Growable() {
				return ctx.NewError("cannot append to fixed length array %s", arr.ArrayType.Name())
			}
			elems := make([]object.Object, len(arr.Elements), len(arr.Elements)+len(args)-1)
			copy(elems, arr.Elements)
			for _, v := range args[1:] {
				cv, err := object.Coerce(v, arr.ArrayType.Elem)
				if err != nil {
					return ctx.NewError("%v", err)
				}
				elems = append(elems, cv)
			}
			return &object.Array{ArrayType: arr.ArrayType, Elements: elems}
		},
	},
	"range": {
		Name:  "range",
		Arity: object.RangeArgs(1, 2),
		Fn: func(ctx *object.BuiltinContext, args ...object.Object) object.Object {
			bounds := make([]int64, len(args))
			for i, arg := range args {
				n, ok := arg.(*object.Integer)
				if !ok || !n.Value.IsInt64() {
					return ctx.NewError("arguments to `range` must be ints, got %s", arg.Inspect())
				}
				bounds[i] = n.Value.Int64()
			}
			from, to := int64(0), bounds[0]
			if len(bounds) == 2 {
				from, to = bounds[0], bounds[1]
			}
			elems := []object.Object{}
			for i := from; i < to; i++ {
				elems = append(elems, object.NewInteger(i))
			}
			return &object.Array{ArrayType: intArray, Elements: elems}
		},
	},
	"assert": {
		Name:  "assert",
		Arity: object.RangeArgs(1, 2),
		Fn: func(ctx *object.BuiltinContext, args ...object.Object) object.Object {
			if object.Truthy(args[0]) {
				return object.NULL
			}
			if len(args) == 2 {
				return ctx.NewError("assertion failed: %s", args[1].Inspect())
			}
			return ctx.NewError("assertion failed")
		},
	},
}

func joinInspect(args []object.Object) string {
	parts := make([]string, len(args))
	for i, a := range args {
		parts[i] = a.Inspect()
	}
	return strings.Join(parts, " ")
}

// newPrelude builds the constant scope every global scope is chained to:
// the builtins, the basic types, the native namespace and the host
// supplied globals, which take precedence.
func (e *Evaluator) newPrelude(globals map[string]object.Object) *object.Scope {
	bindings := make(map[string]object.Object, len(builtins)+len(object.BasicTypes)+len(globals)+1)
	for name, b := range builtins {
		bindings[name] = b
	}
	for _, t := range object.BasicTypes {
		bindings[t.Name()] = t
	}
	bindings["native"] = &object.Module{Name: "native", Scope: e.bridge.Namespace()}
	for name, v := range globals {
		bindings[name] = v
	}
	return object.NewConstantScope(nil, bindings)
}
