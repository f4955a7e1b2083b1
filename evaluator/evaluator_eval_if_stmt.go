package evaluator

import (
	"context"

	"github.com/podhmo/daro/ast"
	"github.com/podhmo/daro/object"
)

func (e *Evaluator) evalIfStmt(ctx context.Context, n *ast.IfStmt, ec *ExecutionContext) object.Object {
	cond, sig := e.evalValue(ctx, n.Cond, ec)
	if sig != nil {
		return sig
	}
	if object.Truthy(cond) {
		return e.Eval(ctx, n.Then, ec)
	}
	if n.Else != nil {
		return e.Eval(ctx, n.Else, ec)
	}
	return object.NULL
}

func (e *Evaluator) evalMatchStmt(ctx context.Context, n *ast.MatchStmt, ec *ExecutionContext) object.Object {
	subject, sig := e.evalValue(ctx, n.Subject, ec)
	if sig != nil {
		return sig
	}
	var fallback *ast.MatchCase
	for _, c := range n.Cases {
		if c.Values == nil {
			fallback = c
			continue
		}
		for _, valueNode := range c.Values {
			v, sig := e.evalValue(ctx, valueNode, ec)
			if sig != nil {
				return sig
			}
			if object.Equal(subject, v) {
				return e.Eval(ctx, c.Body, ec)
			}
		}
	}
	if fallback != nil {
		return e.Eval(ctx, fallback.Body, ec)
	}
	return object.NULL
}

func (e *Evaluator) evalReturnStmt(ctx context.Context, n *ast.ReturnStmt, ec *ExecutionContext) object.Object {
	if n.Value == nil {
		return &object.ReturnValue{Value: object.NULL}
	}
	v, sig := e.evalValue(ctx, n.Value, ec)
	if sig != nil {
		return sig
	}
	return &object.ReturnValue{Value: v}
}
