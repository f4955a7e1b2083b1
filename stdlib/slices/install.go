package stdslices

import (
	"sort"

	"github.com/podhmo/daro/ffibridge"
	"github.com/podhmo/daro/object"
)

// Install registers the `slices` functions. They work on script arrays
// directly, so they are builtins rather than reflected host functions.
func Install(reg *ffibridge.Registry) {
	reg.Register("slices", map[string]any{
		"Sort":     builtinSort(),
		"Clone":    builtinClone(),
		"Equal":    builtinEqual(),
		"Compare":  builtinCompare(),
		"Contains": builtinContains(),
		"Index":    builtinIndex(),
		"Reverse":  builtinReverse(),
	})
}

func arrayArg(ctx *object.BuiltinContext, name string, arg object.Object) (*object.Array, *object.Error) {
	arr, ok := arg.(*object.Array)
	if !ok {
		return nil, ctx.NewError("argument to slices.%s must be an array, got %s", name, object.TypeOf(arg).Name())
	}
	return arr, nil
}

func builtinSort() *object.Builtin {
	return &object.Builtin{
		Name:  "slices.Sort",
		Arity: object.ExactArgs(1),
		Fn: func(ctx *object.BuiltinContext, args ...object.Object) object.Object {
			arr, err := arrayArg(ctx, "Sort", args[0])
			if err != nil {
				return err
			}
			for i := 1; i < len(arr.Elements); i++ {
				if _, ok := compareObjects(arr.Elements[0], arr.Elements[i]); !ok {
					return ctx.NewError("slices.Sort cannot order %s and %s", object.TypeOf(arr.Elements[0]).Name(), object.TypeOf(arr.Elements[i]).Name())
				}
			}
			sort.SliceStable(arr.Elements, func(i, j int) bool {
				c, _ := compareObjects(arr.Elements[i], arr.Elements[j])
				return c < 0
			})
			return object.NULL
		},
	}
}

func builtinClone() *object.Builtin {
	return &object.Builtin{
		Name:  "slices.Clone",
		Arity: object.ExactArgs(1),
		Fn: func(ctx *object.BuiltinContext, args ...object.Object) object.Object {
			arr, err := arrayArg(ctx, "Clone", args[0])
			if err != nil {
				return err
			}
			elems := make([]object.Object, len(arr.Elements))
			copy(elems, arr.Elements)
			return &object.Array{ArrayType: arr.ArrayType, Elements: elems}
		},
	}
}

func builtinEqual() *object.Builtin {
	return &object.Builtin{
		Name:  "slices.Equal",
		Arity: object.ExactArgs(2),
		Fn: func(ctx *object.BuiltinContext, args ...object.Object) object.Object {
			a, err := arrayArg(ctx, "Equal", args[0])
			if err != nil {
				return err
			}
			b, err := arrayArg(ctx, "Equal", args[1])
			if err != nil {
				return err
			}
			return object.NativeBoolToBooleanObject(object.Equal(a, b))
		},
	}
}

func builtinCompare() *object.Builtin {
	return &object.Builtin{
		Name:  "slices.Compare",
		Arity: object.ExactArgs(2),
		Fn: func(ctx *object.BuiltinContext, args ...object.Object) object.Object {
			a, err := arrayArg(ctx, "Compare", args[0])
			if err != nil {
				return err
			}
			b, err := arrayArg(ctx, "Compare", args[1])
			if err != nil {
				return err
			}
			for i := 0; i < min(len(a.Elements), len(b.Elements)); i++ {
				c, ok := compareObjects(a.Elements[i], b.Elements[i])
				if !ok {
					return ctx.NewError("slices.Compare cannot order element %d", i)
				}
				if c != 0 {
					return object.NewInteger(int64(c))
				}
			}
			switch {
			case len(a.Elements) < len(b.Elements):
				return object.NewInteger(-1)
			case len(a.Elements) > len(b.Elements):
				return object.NewInteger(1)
			}
			return object.NewInteger(0)
		},
	}
}

func builtinContains() *object.Builtin {
	return &object.Builtin{
		Name:  "slices.Contains",
		Arity: object.ExactArgs(2),
		Fn: func(ctx *object.BuiltinContext, args ...object.Object) object.Object {
			arr, err := arrayArg(ctx, "Contains", args[0])
			if err != nil {
				return err
			}
			return object.NativeBoolToBooleanObject(index(arr, args[1]) >= 0)
		},
	}
}

func builtinIndex() *object.Builtin {
	return &object.Builtin{
		Name:  "slices.Index",
		Arity: object.ExactArgs(2),
		Fn: func(ctx *object.BuiltinContext, args ...object.Object) object.Object {
			arr, err := arrayArg(ctx, "Index", args[0])
			if err != nil {
				return err
			}
			return object.NewInteger(int64(index(arr, args[1])))
		},
	}
}

func builtinReverse() *object.Builtin {
	return &object.Builtin{
		Name:  "slices.Reverse",
		Arity: object.ExactArgs(1),
		Fn: func(ctx *object.BuiltinContext, args ...object.Object) object.Object {
			arr, err := arrayArg(ctx, "Reverse", args[0])
			if err != nil {
				return err
			}
			for i, j := 0, len(arr.Elements)-1; i < j; i, j = i+1, j-1 {
				arr.Elements[i], arr.Elements[j] = arr.Elements[j], arr.Elements[i]
			}
			return object.NULL
		},
	}
}

func index(arr *object.Array, v object.Object) int {
	for i, e := range arr.Elements {
		if object.Equal(e, v) {
			return i
		}
	}
	return -1
}

// compareObjects orders numbers and strings; ok is false for other pairs.
func compareObjects(a, b object.Object) (c int, ok bool) {
	switch a := a.(type) {
	case *object.Integer:
		switch b := b.(type) {
		case *object.Integer:
			return a.Value.Cmp(b.Value), true
		case *object.Real:
			return object.NewRealFromInt(a.Value).Value.Cmp(b.Value), true
		}
	case *object.Real:
		switch b := b.(type) {
		case *object.Integer:
			return a.Value.Cmp(object.NewRealFromInt(b.Value).Value), true
		case *object.Real:
			return a.Value.Cmp(b.Value), true
		}
	case *object.String:
		if b, ok := b.(*object.String); ok {
			switch {
			case a.Value < b.Value:
				return -1, true
			case a.Value > b.Value:
				return 1, true
			}
			return 0, true
		}
	}
	return 0, false
}
