package evaluator

import (
	"context"

	"github.com/podhmo/daro/ast"
	"github.com/podhmo/daro/object"
)

// evalSequence runs top-level statements directly in ec.Scope.
func (e *Evaluator) evalSequence(ctx context.Context, seq *ast.Sequence, ec *ExecutionContext) object.Object {
	if err := e.prebind(ctx, seq.Stmts, ec); err != nil {
		return err
	}
	var result object.Object = object.NULL
	for _, stmt := range seq.Stmts {
		result = e.Eval(declaring(ctx, stmt), stmt, ec)
		if object.IsSignal(result) {
			return e.toplevel(ctx, stmt.Pos(), result)
		}
	}
	return result
}

// evalBlock runs statements in a fresh block scope. The value of a block is
// the value of its last statement.
func (e *Evaluator) evalBlock(ctx context.Context, block *ast.Block, ec *ExecutionContext) object.Object {
	return e.evalStatements(ctx, block.Stmts, ec.WithScope(object.NewBlockScope(ec.Scope)))
}

func (e *Evaluator) evalStatements(ctx context.Context, stmts []ast.Node, ec *ExecutionContext) object.Object {
	if err := e.prebind(ctx, stmts, ec); err != nil {
		return err
	}
	var result object.Object = object.NULL
	for _, stmt := range stmts {
		result = e.Eval(declaring(ctx, stmt), stmt, ec)
		if object.IsSignal(result) {
			return result
		}
	}
	return result
}

// prebind binds the named functions and classes declared directly in
// stmts before any of them runs, so siblings may refer to each other
// regardless of order.
func (e *Evaluator) prebind(ctx context.Context, stmts []ast.Node, ec *ExecutionContext) *object.Error {
	for _, stmt := range stmts {
		switch n := stmt.(type) {
		case *ast.FuncLit:
			if n.Name == nil {
				continue
			}
			if err := ec.Scope.Define(n.Name.Name, e.newFunction(n, ec)); err != nil {
				return e.newError(ctx, n.Pos(), "%v", err)
			}
		case *ast.ClassDecl:
			if err := ec.Scope.Define(n.Name.Name, &object.ClassType{Decl: n, Scope: ec.Scope}); err != nil {
				return e.newError(ctx, n.Pos(), "%v", err)
			}
		}
	}
	return nil
}

type declKey struct{}

// declaring marks stmt as a direct statement of a block. Named functions
// and classes only declare bindings there.
func declaring(ctx context.Context, stmt ast.Node) context.Context {
	switch n := stmt.(type) {
	case *ast.FuncLit:
		if n.Name != nil {
			return context.WithValue(ctx, declKey{}, stmt)
		}
	case *ast.ClassDecl:
		return context.WithValue(ctx, declKey{}, stmt)
	}
	return ctx
}

func isDeclaration(ctx context.Context, n ast.Node) bool {
	return ctx.Value(declKey{}) == n
}
