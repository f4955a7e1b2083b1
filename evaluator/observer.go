package evaluator

import (
	"github.com/podhmo/daro/ast"
	"github.com/podhmo/daro/object"
)

// Observer is notified around the evaluation of every node and around the
// resolution of every assignment target. Returning an error aborts the
// evaluation with that error as the cause.
type Observer interface {
	BeforeNode(ec *ExecutionContext, node ast.Node) error
	AfterNode(ec *ExecutionContext, node ast.Node, result object.Object) error
	BeforeLocate(ec *ExecutionContext, target ast.Node) error
	AfterLocate(ec *ExecutionContext, target ast.Node, loc object.Location) error
}

// ObserverFuncs adapts a set of optional callbacks to Observer.
type ObserverFuncs struct {
	OnBeforeNode   func(ec *ExecutionContext, node ast.Node) error
	OnAfterNode    func(ec *ExecutionContext, node ast.Node, result object.Object) error
	OnBeforeLocate func(ec *ExecutionContext, target ast.Node) error
	OnAfterLocate  func(ec *ExecutionContext, target ast.Node, loc object.Location) error
}

func (o ObserverFuncs) BeforeNode(ec *ExecutionContext, node ast.Node) error {
	if o.OnBeforeNode == nil {
		return nil
	}
	return o.OnBeforeNode(ec, node)
}

func (o ObserverFuncs) AfterNode(ec *ExecutionContext, node ast.Node, result object.Object) error {
	if o.OnAfterNode == nil {
		return nil
	}
	return o.OnAfterNode(ec, node, result)
}

func (o ObserverFuncs) BeforeLocate(ec *ExecutionContext, target ast.Node) error {
	if o.OnBeforeLocate == nil {
		return nil
	}
	return o.OnBeforeLocate(ec, target)
}

func (o ObserverFuncs) AfterLocate(ec *ExecutionContext, target ast.Node, loc object.Location) error {
	if o.OnAfterLocate == nil {
		return nil
	}
	return o.OnAfterLocate(ec, target, loc)
}
