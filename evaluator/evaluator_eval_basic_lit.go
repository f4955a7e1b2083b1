package evaluator

import (
	"context"

	"github.com/podhmo/daro/ast"
	"github.com/podhmo/daro/object"
)

func (e *Evaluator) evalBasicLit(node ast.Node) object.Object {
	switch n := node.(type) {
	case *ast.IntegerLit:
		return &object.Integer{Value: n.Value}
	case *ast.RealLit:
		return &object.Real{Value: n.Value}
	case *ast.StringLit:
		return &object.String{Value: n.Value}
	case *ast.CharLit:
		return &object.String{Value: n.Value}
	case *ast.BoolLit:
		return object.NativeBoolToBooleanObject(n.Value)
	}
	return object.NULL
}

func (e *Evaluator) evalArrayLit(ctx context.Context, n *ast.ArrayLit, ec *ExecutionContext) object.Object {
	elems, sig := e.evalExpressions(ctx, n.Elems, ec)
	if sig != nil {
		return sig
	}
	return object.NewArray(elems)
}

// evalExpressions evaluates nodes left to right, stopping at the first
// error or control signal, which is returned as sig.
func (e *Evaluator) evalExpressions(ctx context.Context, nodes []ast.Node, ec *ExecutionContext) (values []object.Object, sig object.Object) {
	values = make([]object.Object, 0, len(nodes))
	for _, n := range nodes {
		v, s := e.evalValue(ctx, n, ec)
		if s != nil {
			return nil, s
		}
		values = append(values, v)
	}
	return values, nil
}

// evalValue evaluates an expression whose result is used as a value.
// Errors and control signals are returned as sig and must be propagated.
func (e *Evaluator) evalValue(ctx context.Context, n ast.Node, ec *ExecutionContext) (v object.Object, sig object.Object) {
	v = e.Eval(ctx, n, ec)
	if object.IsSignal(v) {
		return nil, v
	}
	return v, nil
}
