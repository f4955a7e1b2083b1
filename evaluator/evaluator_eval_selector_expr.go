package evaluator

import (
	"context"

	"github.com/podhmo/daro/ast"
	"github.com/podhmo/daro/object"
)

func (e *Evaluator) evalMemberExpr(ctx context.Context, n *ast.MemberExpr, ec *ExecutionContext) object.Object {
	x, sig := e.evalValue(ctx, n.X, ec)
	if sig != nil {
		return sig
	}
	scope, err := e.membersOf(ctx, n, x, ec)
	if err != nil {
		return err
	}
	// only the value's own bindings are members, not the scopes it is
	// chained to
	if scope.HasOwn(n.Name.Name) {
		if v, ok := scope.Get(n.Name.Name); ok {
			return v
		}
	}
	return e.newError(ctx, n.Name.Pos(), "%s has no member %s", describe(x), n.Name.Name)
}

// membersOf returns the scope holding the members of x.
func (e *Evaluator) membersOf(ctx context.Context, n *ast.MemberExpr, x object.Object, ec *ExecutionContext) (*object.Scope, *object.Error) {
	switch x := x.(type) {
	case *object.Instance:
		return x.Members, nil
	case *object.Module:
		return x.Scope, nil
	case *object.NativeValue:
		return e.bridge.ScopeOf(x, e.caller(ctx, n.Pos(), ec)), nil
	case *object.NativeType:
		return e.bridge.TypeScope(x), nil
	}
	return nil, e.newError(ctx, n.Pos(), "%s has no members", describe(x))
}

func describe(obj object.Object) string {
	switch obj := obj.(type) {
	case *object.Module:
		return "module " + obj.Name
	case *object.Instance:
		return obj.Class.Name() + " instance"
	}
	return object.TypeOf(obj).Name() + " value"
}
