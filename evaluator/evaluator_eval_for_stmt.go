package evaluator

import (
	"context"
	"reflect"

	"github.com/podhmo/daro/ast"
	"github.com/podhmo/daro/ffibridge"
	"github.com/podhmo/daro/object"
)

func (e *Evaluator) evalForStmt(ctx context.Context, n *ast.ForStmt, ec *ExecutionContext) object.Object {
	lec := ec.WithScope(object.NewBlockScope(ec.Scope))
	if n.Init != nil {
		if res := e.Eval(ctx, n.Init, lec); object.IsSignal(res) {
			return res
		}
	}
	for {
		if n.Cond != nil {
			cond, sig := e.evalValue(ctx, n.Cond, lec)
			if sig != nil {
				return sig
			}
			if !object.Truthy(cond) {
				break
			}
		}
		switch res := e.Eval(ctx, n.Body, lec).(type) {
		case *object.Error, *object.ReturnValue:
			return res
		case *object.Break:
			return object.NULL
		}
		if n.Post != nil {
			if res := e.Eval(ctx, n.Post, lec); object.IsSignal(res) {
				return res
			}
		}
	}
	return object.NULL
}

func (e *Evaluator) evalForInStmt(ctx context.Context, n *ast.ForInStmt, ec *ExecutionContext) object.Object {
	iter, sig := e.evalValue(ctx, n.Iter, ec)
	if sig != nil {
		return sig
	}
	next, err := e.iterate(ctx, n.Iter, iter)
	if err != nil {
		return err
	}
	loopScope := object.NewBlockScope(ec.Scope)
	lec := ec.WithScope(loopScope)
	for {
		v, ok := next()
		if !ok {
			return object.NULL
		}
		if err := loopScope.Define(n.Var.Name, v); err != nil {
			return e.newError(ctx, n.Var.Pos(), "%v", err)
		}
		switch res := e.Eval(ctx, n.Body, lec).(type) {
		case *object.Error, *object.ReturnValue:
			return res
		case *object.Break:
			return object.NULL
		}
	}
}

// iterate returns a function yielding the elements of v. Arrays are read
// live, so elements appended by the body are visited.
func (e *Evaluator) iterate(ctx context.Context, node ast.Node, v object.Object) (func() (object.Object, bool), *object.Error) {
	i := 0
	switch v := v.(type) {
	case *object.Array:
		return func() (object.Object, bool) {
			if i >= len(v.Elements) {
				return nil, false
			}
			i++
			return v.Elements[i-1], true
		}, nil
	case *object.String:
		runes := []rune(v.Value)
		return func() (object.Object, bool) {
			if i >= len(runes) {
				return nil, false
			}
			i++
			return &object.String{Value: string(runes[i-1])}, true
		}, nil
	case *object.NativeValue:
		rv := v.Value
		switch rv.Kind() {
		case reflect.Slice, reflect.Array:
			return func() (object.Object, bool) {
				if i >= rv.Len() {
					return nil, false
				}
				i++
				return ffibridge.Wrap(rv.Index(i - 1)), true
			}, nil
		}
	}
	return nil, e.newError(ctx, node.Pos(), "cannot iterate over %s", object.TypeOf(v).Name())
}
