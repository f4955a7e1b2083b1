package evaluator

import (
	"context"
	"fmt"
	"reflect"

	"github.com/podhmo/daro/ffibridge"
	"github.com/podhmo/daro/object"
	"github.com/podhmo/daro/token"
)

// Apply calls fn with args, as a call expression at pos would.
func (e *Evaluator) Apply(ctx context.Context, pos token.Position, fn object.Object, args []object.Object, ec *ExecutionContext) object.Object {
	return e.applyFunction(ctx, pos, fn, args, ec)
}

func (e *Evaluator) applyFunction(ctx context.Context, pos token.Position, fn object.Object, args []object.Object, ec *ExecutionContext) object.Object {
	switch fn := fn.(type) {
	case *object.Function:
		return e.applyScriptFunction(ctx, pos, fn, args, ec)
	case *object.Builtin:
		if !fn.Accepts(len(args)) {
			return e.newError(ctx, pos, "wrong number of arguments for %s: got %d", fn.Name, len(args))
		}
		bctx := &object.BuiltinContext{
			Stdout: ec.Stdout,
			Stderr: ec.Stderr,
			Pos:    pos,
			NewError: func(format string, args ...any) *object.Error {
				return e.newError(ctx, pos, format, args...)
			},
		}
		return fn.Fn(bctx, args...)
	case *object.NativeFunction:
		res, err := e.bridge.Call(ctx, fn, args, e.caller(ctx, pos, ec))
		if err != nil {
			return e.wrapError(ctx, pos, err)
		}
		return res
	case *object.NativeValue:
		// host func values, such as those read from a host map
		if fn.Value.IsValid() && fn.Value.Kind() == reflect.Func {
			native := &object.NativeFunction{Name: fn.Value.Type().String(), Overloads: []reflect.Value{fn.Value}}
			return e.applyFunction(ctx, pos, native, args, ec)
		}
	case *object.NativeType:
		res, err := e.bridge.Construct(ctx, fn, args, e.caller(ctx, pos, ec))
		if err != nil {
			return e.wrapError(ctx, pos, err)
		}
		return res
	}
	return e.newError(ctx, pos, "%s is not a function", object.TypeOf(fn).Name())
}

func (e *Evaluator) applyScriptFunction(ctx context.Context, pos token.Position, fn *object.Function, args []object.Object, ec *ExecutionContext) object.Object {
	if !fn.Accepts(len(args)) {
		want := fmt.Sprintf("%d", len(fn.Params))
		if fn.Variadic {
			want = fmt.Sprintf("at least %d", len(fn.Params)-1)
		}
		return e.newError(ctx, pos, "wrong number of arguments for %s: got %d, want %s", fn.Inspect(), len(args), want)
	}

	// parameters shadow the closure scope, so the body never rebinds names
	// of the defining scope
	params := object.NewShadowingScope(fn.Env)
	for i, p := range fn.Params {
		if fn.Variadic && i == len(fn.Params)-1 {
			rest := make([]object.Object, len(args)-i)
			copy(rest, args[i:])
			params.Define(p.Name, object.NewArray(rest))
			break
		}
		params.Define(p.Name, args[i])
	}

	name := fn.Name
	if name == "" {
		name = "fn"
	}
	e.callStack = append(e.callStack, &object.CallFrame{Pos: pos, Function: name})
	defer func() {
		e.callStack = e.callStack[:len(e.callStack)-1]
	}()

	switch res := e.Eval(ctx, fn.Body, ec.WithScope(params)).(type) {
	case *object.ReturnValue:
		return res.Value
	case *object.Break, *object.Continue:
		return e.newError(ctx, fn.Body.Pos(), "unexpected %s outside of a loop", res.Inspect())
	default:
		return res
	}
}

// caller lets host code call back into script functions.
func (e *Evaluator) caller(ctx context.Context, pos token.Position, ec *ExecutionContext) ffibridge.Caller {
	return func(fn object.Object, args []object.Object) (object.Object, error) {
		res := e.applyFunction(ctx, pos, fn, args, ec)
		if err, ok := res.(*object.Error); ok {
			return nil, err
		}
		return res, nil
	}
}
