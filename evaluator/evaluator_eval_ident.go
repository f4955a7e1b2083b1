package evaluator

import (
	"context"

	"github.com/podhmo/daro/ast"
	"github.com/podhmo/daro/object"
)

func (e *Evaluator) evalIdent(ctx context.Context, n *ast.Ident, ec *ExecutionContext) object.Object {
	if v, ok := ec.Scope.Get(n.Name); ok {
		return v
	}
	return e.newError(ctx, n.Pos(), "undefined: %s", n.Name)
}
