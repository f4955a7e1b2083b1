package evaluator

import (
	"context"
	"errors"
	"reflect"

	"github.com/podhmo/daro/ast"
	"github.com/podhmo/daro/ffibridge"
	"github.com/podhmo/daro/object"
	"github.com/podhmo/daro/token"
)

func (e *Evaluator) evalIndexExpr(ctx context.Context, n *ast.IndexExpr, ec *ExecutionContext) object.Object {
	x, sig := e.evalValue(ctx, n.X, ec)
	if sig != nil {
		return sig
	}
	index, sig := e.evalValue(ctx, n.Index, ec)
	if sig != nil {
		return sig
	}
	loc, err := e.indexLocation(ctx, n.Pos(), x, index, ec)
	if err != nil {
		return err
	}
	v, ok := loc.Load()
	if !ok {
		return object.NULL
	}
	return v
}

// intIndex checks that index is an integer in [0, length).
func (e *Evaluator) intIndex(ctx context.Context, pos token.Position, index object.Object, length int) (int, *object.Error) {
	i, ok := index.(*object.Integer)
	if !ok {
		return 0, e.newError(ctx, pos, "index must be an int, got %s", object.TypeOf(index).Name())
	}
	if !i.Value.IsInt64() || i.Value.Int64() < 0 || i.Value.Int64() >= int64(length) {
		return 0, e.newError(ctx, pos, "index %s out of range [0:%d]", i.Value, length)
	}
	return int(i.Value.Int64()), nil
}

var (
	errImmutableString = errors.New("strings are immutable")
	errNotAddressable  = errors.New("host value is not addressable")
)

// locationFuncs is a Location backed by functions, for array elements and
// host containers.
type locationFuncs struct {
	name  string
	load  func() (object.Object, bool)
	store func(v object.Object) error
}

func (l *locationFuncs) Name() string                { return l.name }
func (l *locationFuncs) Load() (object.Object, bool) { return l.load() }
func (l *locationFuncs) Store(v object.Object) error { return l.store(v) }

// indexLocation resolves x[index] to a location.
func (e *Evaluator) indexLocation(ctx context.Context, pos token.Position, x, index object.Object, ec *ExecutionContext) (object.Location, *object.Error) {
	switch x := x.(type) {
	case *object.Array:
		i, err := e.intIndex(ctx, pos, index, len(x.Elements))
		if err != nil {
			return nil, err
		}
		return &locationFuncs{
			name:  index.Inspect(),
			load:  func() (object.Object, bool) { return x.Elements[i], true },
			store: func(v object.Object) error { return x.Set(i, v) },
		}, nil
	case *object.String:
		runes := []rune(x.Value)
		i, err := e.intIndex(ctx, pos, index, len(runes))
		if err != nil {
			return nil, err
		}
		return &locationFuncs{
			name:  index.Inspect(),
			load:  func() (object.Object, bool) { return &object.String{Value: string(runes[i])}, true },
			store: func(object.Object) error { return errImmutableString },
		}, nil
	case *object.NativeValue:
		return e.nativeIndexLocation(ctx, pos, x, index, ec)
	}
	return nil, e.newError(ctx, pos, "cannot index %s", object.TypeOf(x).Name())
}

func (e *Evaluator) nativeIndexLocation(ctx context.Context, pos token.Position, x *object.NativeValue, index object.Object, ec *ExecutionContext) (object.Location, *object.Error) {
	rv := x.Value
	call := e.caller(ctx, pos, ec)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		i, err := e.intIndex(ctx, pos, index, rv.Len())
		if err != nil {
			return nil, err
		}
		elem := rv.Index(i)
		return &locationFuncs{
			name: index.Inspect(),
			load: func() (object.Object, bool) { return ffibridge.Wrap(elem), true },
			store: func(v object.Object) error {
				if !elem.CanSet() {
					return errNotAddressable
				}
				cv, err := ffibridge.Cast(v, elem.Type(), call)
				if err != nil {
					return err
				}
				elem.Set(cv)
				return nil
			},
		}, nil
	case reflect.Map:
		key, err := ffibridge.Cast(index, rv.Type().Key(), call)
		if err != nil {
			return nil, e.wrapError(ctx, pos, err)
		}
		return &locationFuncs{
			name: index.Inspect(),
			load: func() (object.Object, bool) {
				v := rv.MapIndex(key)
				if !v.IsValid() {
					return object.NULL, true
				}
				return ffibridge.Wrap(v), true
			},
			store: func(v object.Object) error {
				cv, err := ffibridge.Cast(v, rv.Type().Elem(), call)
				if err != nil {
					return err
				}
				rv.SetMapIndex(key, cv)
				return nil
			},
		}, nil
	}
	return nil, e.newError(ctx, pos, "cannot index %s", object.TypeOf(x).Name())
}

func (e *Evaluator) evalRangeExpr(ctx context.Context, n *ast.RangeExpr, ec *ExecutionContext) object.Object {
	x, sig := e.evalValue(ctx, n.X, ec)
	if sig != nil {
		return sig
	}
	var length int
	switch x := x.(type) {
	case *object.Array:
		length = len(x.Elements)
	case *object.String:
		length = len([]rune(x.Value))
	default:
		return e.newError(ctx, n.Pos(), "cannot slice %s", object.TypeOf(x).Name())
	}

	from, to := 0, length
	if n.From != nil {
		v, sig := e.evalValue(ctx, n.From, ec)
		if sig != nil {
			return sig
		}
		i, err := e.bound(ctx, n.From.Pos(), v, length)
		if err != nil {
			return err
		}
		from = i
	}
	if n.To != nil {
		v, sig := e.evalValue(ctx, n.To, ec)
		if sig != nil {
			return sig
		}
		i, err := e.bound(ctx, n.To.Pos(), v, length)
		if err != nil {
			return err
		}
		to = i
	}
	if from > to {
		return e.newError(ctx, n.Pos(), "invalid slice indices %d > %d", from, to)
	}

	switch x := x.(type) {
	case *object.Array:
		elems := make([]object.Object, to-from)
		copy(elems, x.Elements[from:to])
		return &object.Array{ArrayType: &object.ArrayType{Elem: x.ArrayType.Elem, Len: -1}, Elements: elems}
	case *object.String:
		return &object.String{Value: string([]rune(x.Value)[from:to])}
	}
	return object.NULL
}

// bound checks a slice bound, which may equal length.
func (e *Evaluator) bound(ctx context.Context, pos token.Position, v object.Object, length int) (int, *object.Error) {
	i, ok := v.(*object.Integer)
	if !ok {
		return 0, e.newError(ctx, pos, "slice index must be an int, got %s", object.TypeOf(v).Name())
	}
	if !i.Value.IsInt64() || i.Value.Int64() < 0 || i.Value.Int64() > int64(length) {
		return 0, e.newError(ctx, pos, "slice bounds out of range [%s] with length %d", i.Value, length)
	}
	return int(i.Value.Int64()), nil
}
