package evaluator

import (
	"context"
	"math/big"

	"github.com/podhmo/daro/ast"
	"github.com/podhmo/daro/object"
	"github.com/podhmo/daro/token"
)

func (e *Evaluator) evalUnaryExpr(ctx context.Context, n *ast.UnaryExpr, ec *ExecutionContext) object.Object {
	operand, sig := e.evalValue(ctx, n.Operand, ec)
	if sig != nil {
		return sig
	}
	switch n.Op {
	case token.NOT:
		return object.NativeBoolToBooleanObject(!object.Truthy(operand))
	case token.SUB:
		switch v := operand.(type) {
		case *object.Integer:
			return &object.Integer{Value: new(big.Int).Neg(v.Value)}
		case *object.Real:
			return &object.Real{Value: newFloat().Neg(v.Value)}
		}
	case token.ADD:
		switch operand.(type) {
		case *object.Integer, *object.Real:
			return operand
		}
	case token.TILDE:
		if v, ok := operand.(*object.Integer); ok {
			return &object.Integer{Value: new(big.Int).Not(v.Value)}
		}
	}
	return e.newError(ctx, n.Pos(), "unsupported operator %s for %s", n.Op, object.TypeOf(operand).Name())
}
