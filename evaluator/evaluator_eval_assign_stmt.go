package evaluator

import (
	"context"

	"github.com/podhmo/daro/ast"
	"github.com/podhmo/daro/object"
)

func (e *Evaluator) evalAssignStmt(ctx context.Context, n *ast.AssignStmt, ec *ExecutionContext) object.Object {
	loc, sig := e.locate(ctx, n.Target, ec)
	if sig != nil {
		return sig
	}
	value, sig := e.evalValue(ctx, n.Value, ec)
	if sig != nil {
		return sig
	}
	if op, ok := n.Op.AssignOp(); ok {
		old, ok := loc.Load()
		if !ok {
			// a shadowing level reads through to the enclosing binding
			old, ok = ec.Scope.Get(loc.Name())
		}
		if !ok {
			return e.newError(ctx, n.Target.Pos(), "undefined: %s", loc.Name())
		}
		value = e.binary(ctx, n.Pos(), op, old, value)
		if isError(value) {
			return value
		}
	}
	if err := loc.Store(value); err != nil {
		return e.wrapError(ctx, n.Pos(), err)
	}
	return object.NULL
}

// locate resolves an assignment target to a location, notifying the
// observers around the resolution.
func (e *Evaluator) locate(ctx context.Context, target ast.Node, ec *ExecutionContext) (object.Location, object.Object) {
	for _, o := range ec.observers {
		if err := o.BeforeLocate(ec, target); err != nil {
			return nil, e.observerError(ctx, target.Pos(), err)
		}
	}
	loc, sig := e.resolveLocation(ctx, target, ec)
	if sig != nil {
		return nil, sig
	}
	for _, o := range ec.observers {
		if err := o.AfterLocate(ec, target, loc); err != nil {
			return nil, e.observerError(ctx, target.Pos(), err)
		}
	}
	return loc, nil
}

func (e *Evaluator) resolveLocation(ctx context.Context, target ast.Node, ec *ExecutionContext) (object.Location, object.Object) {
	switch t := target.(type) {
	case *ast.Ident:
		loc, ok := ec.Scope.Locate(t.Name)
		if !ok {
			return nil, e.newError(ctx, t.Pos(), "cannot assign to %s: it is a constant", t.Name)
		}
		return loc, nil
	case *ast.MemberExpr:
		x, sig := e.evalValue(ctx, t.X, ec)
		if sig != nil {
			return nil, sig
		}
		scope, err := e.membersOf(ctx, t, x, ec)
		if err != nil {
			return nil, err
		}
		if !scope.HasOwn(t.Name.Name) {
			return nil, e.newError(ctx, t.Name.Pos(), "%s has no member %s", describe(x), t.Name.Name)
		}
		loc, ok := scope.Locate(t.Name.Name)
		if !ok {
			return nil, e.newError(ctx, t.Name.Pos(), "cannot assign to %s.%s", describe(x), t.Name.Name)
		}
		return loc, nil
	case *ast.IndexExpr:
		x, sig := e.evalValue(ctx, t.X, ec)
		if sig != nil {
			return nil, sig
		}
		index, sig := e.evalValue(ctx, t.Index, ec)
		if sig != nil {
			return nil, sig
		}
		loc, err := e.indexLocation(ctx, t.Pos(), x, index, ec)
		if err != nil {
			return nil, err
		}
		return loc, nil
	}
	return nil, e.newError(ctx, target.Pos(), "cannot assign to %s", target)
}

func (e *Evaluator) evalDefineStmt(ctx context.Context, n *ast.DefineStmt, ec *ExecutionContext) object.Object {
	var typ object.Type
	if n.Type != nil {
		t, sig := e.typeValue(ctx, n.Type, ec)
		if sig != nil {
			return sig
		}
		typ = t
	}

	var value object.Object = object.NULL
	switch {
	case n.Value != nil:
		v, sig := e.evalValue(ctx, n.Value, ec)
		if sig != nil {
			return sig
		}
		value = v
		if typ != nil {
			cv, err := object.Coerce(v, typ)
			if err != nil {
				return e.newError(ctx, n.Value.Pos(), "%v", err)
			}
			value = cv
		}
	case typ != nil:
		v := e.zero(ctx, n.Pos(), typ, ec)
		if isError(v) {
			return v
		}
		value = v
	}

	if err := ec.Scope.Define(n.Name.Name, value); err != nil {
		return e.newError(ctx, n.Pos(), "%v", err)
	}
	return object.NULL
}
