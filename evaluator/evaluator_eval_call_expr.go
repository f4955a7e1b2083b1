package evaluator

import (
	"context"

	"github.com/podhmo/daro/ast"
	"github.com/podhmo/daro/object"
)

func (e *Evaluator) evalCallExpr(ctx context.Context, n *ast.CallExpr, ec *ExecutionContext) object.Object {
	fn, sig := e.evalValue(ctx, n.Fn, ec)
	if sig != nil {
		return sig
	}
	args, sig := e.evalExpressions(ctx, n.Args, ec)
	if sig != nil {
		return sig
	}
	return e.applyFunction(ctx, n.Pos(), fn, args, ec)
}

func (e *Evaluator) evalFuncLit(ctx context.Context, n *ast.FuncLit, ec *ExecutionContext) object.Object {
	if n.Name != nil && !isDeclaration(ctx, n) {
		return e.newError(ctx, n.Pos(), "function %s must be declared as a statement; use an anonymous fn in expressions", n.Name.Name)
	}
	if n.Name != nil && ec.Scope.HasOwn(n.Name.Name) {
		// already bound by prebind
		v, _ := ec.Scope.Get(n.Name.Name)
		if fn, ok := v.(*object.Function); ok && fn.Body == n.Body {
			return fn
		}
	}
	fn := e.newFunction(n, ec)
	if n.Name != nil {
		if err := ec.Scope.Define(n.Name.Name, fn); err != nil {
			return e.newError(ctx, n.Pos(), "cannot declare function %s here: %v", n.Name.Name, err)
		}
	}
	return fn
}

func (e *Evaluator) newFunction(n *ast.FuncLit, ec *ExecutionContext) *object.Function {
	name := ""
	if n.Name != nil {
		name = n.Name.Name
	}
	return &object.Function{
		Name:     name,
		Params:   n.Params,
		Variadic: n.Variadic,
		Body:     n.Body,
		Env:      ec.Scope,
	}
}

func (e *Evaluator) evalClassDecl(ctx context.Context, n *ast.ClassDecl, ec *ExecutionContext) object.Object {
	if !isDeclaration(ctx, n) {
		return e.newError(ctx, n.Pos(), "class %s must be declared as a statement", n.Name.Name)
	}
	if v, ok := ec.Scope.Get(n.Name.Name); ok && ec.Scope.HasOwn(n.Name.Name) {
		if class, ok := v.(*object.ClassType); ok && class.Decl == n {
			return class
		}
	}
	class := &object.ClassType{Decl: n, Scope: ec.Scope}
	if err := ec.Scope.Define(n.Name.Name, class); err != nil {
		return e.newError(ctx, n.Pos(), "cannot declare class %s here: %v", n.Name.Name, err)
	}
	return class
}
