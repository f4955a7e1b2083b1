package evaluator

import (
	"context"

	"github.com/podhmo/daro/ast"
	"github.com/podhmo/daro/object"
	"github.com/podhmo/daro/token"
)

func (e *Evaluator) evalNewExpr(ctx context.Context, n *ast.NewExpr, ec *ExecutionContext) object.Object {
	t, sig := e.typeValue(ctx, n.Type, ec)
	if sig != nil {
		return sig
	}
	if n.Init == nil {
		return e.zero(ctx, n.Pos(), t, ec)
	}
	return e.instantiate(ctx, t, n.Init, ec)
}

func (e *Evaluator) evalType(ctx context.Context, n *ast.ArrayType, ec *ExecutionContext) object.Object {
	t, sig := e.typeValue(ctx, n, ec)
	if sig != nil {
		return sig
	}
	return t
}

// typeValue evaluates a type expression.
func (e *Evaluator) typeValue(ctx context.Context, n ast.Node, ec *ExecutionContext) (object.Type, object.Object) {
	at, ok := n.(*ast.ArrayType)
	if !ok {
		v, sig := e.evalValue(ctx, n, ec)
		if sig != nil {
			return nil, sig
		}
		t, ok := v.(object.Type)
		if !ok {
			return nil, e.newError(ctx, n.Pos(), "%s is not a type", describe(v))
		}
		return t, nil
	}

	t := &object.ArrayType{Len: -1}
	if at.Len != nil {
		v, sig := e.evalValue(ctx, at.Len, ec)
		if sig != nil {
			return nil, sig
		}
		length, ok := v.(*object.Integer)
		if !ok || !length.Value.IsInt64() || length.Value.Sign() < 0 {
			return nil, e.newError(ctx, at.Len.Pos(), "array length must be a non-negative int, got %s", v.Inspect())
		}
		t.Len = int(length.Value.Int64())
	}
	if at.Elem != nil {
		elem, sig := e.typeValue(ctx, at.Elem, ec)
		if sig != nil {
			return nil, sig
		}
		t.Elem = elem
	}
	return t, nil
}

// zero produces the default value of t. Class defaults are produced by
// running the class body.
func (e *Evaluator) zero(ctx context.Context, pos token.Position, t object.Type, ec *ExecutionContext) object.Object {
	if v, ok := object.Zero(t); ok {
		return v
	}
	switch t := t.(type) {
	case *object.ClassType:
		return e.instantiateClass(ctx, pos, t, nil, ec)
	case *object.ArrayType:
		elems := make([]object.Object, t.Len)
		for i := range elems {
			v := e.zero(ctx, pos, t.Elem, ec)
			if isError(v) {
				return v
			}
			elems[i] = v
		}
		return &object.Array{ArrayType: t, Elements: elems}
	}
	return e.newError(ctx, pos, "%s has no default value", t.Name())
}

// instantiate builds a value of t from an initializer.
func (e *Evaluator) instantiate(ctx context.Context, t object.Type, init *ast.Initializer, ec *ExecutionContext) object.Object {
	switch t := t.(type) {
	case *object.ArrayType:
		return e.instantiateArray(ctx, t, init, ec)
	case *object.ClassType:
		return e.instantiateClass(ctx, init.Pos(), t, init.Entries, ec)
	case *object.NativeType:
		args, sig := e.evalExpressions(ctx, init.Entries, ec)
		if sig != nil {
			return sig
		}
		return e.applyFunction(ctx, init.Pos(), t, args, ec)
	case *object.BasicType:
		if len(init.Entries) != 1 {
			return e.newError(ctx, init.Pos(), "%s initializer takes exactly one value, got %d", t.Name(), len(init.Entries))
		}
		if _, nested := init.Entries[0].(*ast.Initializer); nested {
			return e.newError(ctx, init.Entries[0].Pos(), "%s initializer takes a value, not a nested initializer", t.Name())
		}
		v, sig := e.evalValue(ctx, init.Entries[0], ec)
		if sig != nil {
			return sig
		}
		cv, err := object.Convert(v, t)
		if err != nil {
			return e.newError(ctx, init.Entries[0].Pos(), "%v", err)
		}
		return cv
	}
	return e.newError(ctx, init.Pos(), "cannot instantiate %s", t.Name())
}

func (e *Evaluator) instantiateArray(ctx context.Context, t *object.ArrayType, init *ast.Initializer, ec *ExecutionContext) object.Object {
	if !t.Growable() && len(init.Entries) > t.Len {
		return e.newError(ctx, init.Pos(), "initializer has %d entries but array length is %d", len(init.Entries), t.Len)
	}
	elems := make([]object.Object, 0, max(t.Len, len(init.Entries)))
	for _, entry := range init.Entries {
		var v object.Object
		if sub, ok := entry.(*ast.Initializer); ok {
			if t.Elem == nil {
				return e.newError(ctx, sub.Pos(), "nested initializer needs an element type")
			}
			v = e.instantiate(ctx, t.Elem, sub, ec)
			if isError(v) {
				return v
			}
		} else {
			ev, sig := e.evalValue(ctx, entry, ec)
			if sig != nil {
				return sig
			}
			cv, err := object.Coerce(ev, t.Elem)
			if err != nil {
				return e.newError(ctx, entry.Pos(), "%v", err)
			}
			v = cv
		}
		elems = append(elems, v)
	}
	for len(elems) < t.Len {
		var v object.Object = object.NULL
		if t.Elem != nil {
			v = e.zero(ctx, init.Pos(), t.Elem, ec)
			if isError(v) {
				return v
			}
		}
		elems = append(elems, v)
	}
	return &object.Array{ArrayType: t, Elements: elems}
}

// instantiateClass runs the class body in the members scope of a new
// instance, then applies the initializer entries, which must assign
// existing members.
func (e *Evaluator) instantiateClass(ctx context.Context, pos token.Position, class *object.ClassType, entries []ast.Node, ec *ExecutionContext) object.Object {
	// entries are evaluated in the caller's scope
	type assignment struct {
		target *ast.Ident
		value  object.Object
	}
	assignments := make([]assignment, 0, len(entries))
	for _, entry := range entries {
		a, ok := entry.(*ast.AssignStmt)
		if !ok || a.Op != token.ASSIGN {
			return e.newError(ctx, entry.Pos(), "class initializer entries must be assignments to members, found %s", entry)
		}
		target, ok := a.Target.(*ast.Ident)
		if !ok {
			return e.newError(ctx, a.Target.Pos(), "class initializer must name a member, found %s", a.Target)
		}
		v, sig := e.evalValue(ctx, a.Value, ec)
		if sig != nil {
			return sig
		}
		assignments = append(assignments, assignment{target: target, value: v})
	}

	inst := &object.Instance{Class: class}
	this := object.NewConstantScope(class.Scope, map[string]object.Object{"this": inst})
	inst.Members = object.NewShadowingScope(this)

	e.callStack = append(e.callStack, &object.CallFrame{Pos: pos, Function: "new " + class.Name()})
	defer func() {
		e.callStack = e.callStack[:len(e.callStack)-1]
	}()

	res := e.evalStatements(ctx, class.Decl.Body.Stmts, ec.WithScope(inst.Members))
	switch res := res.(type) {
	case *object.Error:
		return res
	case *object.ReturnValue, *object.Break, *object.Continue:
		return e.newError(ctx, class.Decl.Pos(), "unexpected %s in class body", res.Inspect())
	}

	for _, a := range assignments {
		if !inst.Members.HasOwn(a.target.Name) {
			return e.newError(ctx, a.target.Pos(), "%s has no member %s", class.Name(), a.target.Name)
		}
		if err := inst.Members.Define(a.target.Name, a.value); err != nil {
			return e.newError(ctx, a.target.Pos(), "%v", err)
		}
	}
	return inst
}
