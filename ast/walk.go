package ast

import (
	"fmt"
	"hash/fnv"
)

// A Visitor's Visit method is invoked for each node encountered by Walk.
// If the result visitor w is not nil, Walk visits each of the children
// of node with w, followed by a call of w.Visit(nil).
type Visitor interface {
	Visit(node Node) (w Visitor)
}

// Walk traverses the tree in depth-first order.
func Walk(v Visitor, node Node) {
	if v = v.Visit(node); v == nil {
		return
	}
	for _, c := range Children(node) {
		Walk(v, c)
	}
	v.Visit(nil)
}

type inspector func(Node) bool

func (f inspector) Visit(node Node) Visitor {
	if f(node) {
		return f
	}
	return nil
}

// Inspect calls f for node and, while f returns true, its descendants.
// f is called with nil after the children of a node have been visited.
func Inspect(node Node, f func(Node) bool) {
	Walk(inspector(f), node)
}

// Children returns the direct, non-nil children of n in source order.
func Children(n Node) []Node {
	var out []Node
	add := func(nodes ...Node) {
		for _, c := range nodes {
			if c != nil {
				out = append(out, c)
			}
		}
	}
	switch n := n.(type) {
	case *Ident, *IntegerLit, *RealLit, *StringLit, *CharLit, *BoolLit, *NullLit,
		*BreakStmt, *ContinueStmt, *UseStmt, *ImportStmt:
	case *ArrayLit:
		add(n.Elems...)
	case *BinaryExpr:
		add(n.Left, n.Right)
	case *UnaryExpr:
		add(n.Operand)
	case *CallExpr:
		add(n.Fn)
		add(n.Args...)
	case *MemberExpr:
		add(n.X, n.Name)
	case *IndexExpr:
		add(n.X, n.Index)
	case *RangeExpr:
		add(n.X, n.From, n.To)
	case *ArrayType:
		add(n.Len, n.Elem)
	case *NewExpr:
		add(n.Type)
		if n.Init != nil {
			add(n.Init)
		}
	case *Initializer:
		add(n.Entries...)
	case *Block:
		add(n.Stmts...)
	case *Sequence:
		add(n.Stmts...)
	case *DefineStmt:
		add(n.Name, n.Type, n.Value)
	case *AssignStmt:
		add(n.Target, n.Value)
	case *IfStmt:
		add(n.Cond, n.Then, n.Else)
	case *ForStmt:
		add(n.Init, n.Cond, n.Post, n.Body)
	case *ForInStmt:
		add(n.Var, n.Iter, n.Body)
	case *MatchStmt:
		add(n.Subject)
		for _, c := range n.Cases {
			add(c)
		}
	case *MatchCase:
		add(n.Values...)
		add(n.Body)
	case *ReturnStmt:
		add(n.Value)
	case *FuncLit:
		if n.Name != nil {
			add(n.Name)
		}
		for _, p := range n.Params {
			add(p)
		}
		add(n.Body)
	case *ClassDecl:
		add(n.Name, n.Body)
	case *FromImportStmt:
		for _, id := range n.Names {
			add(id)
		}
	default:
		panic(fmt.Sprintf("ast.Children: unexpected node type %T", n))
	}
	return out
}

// Equal reports whether a and b are structurally equal. Positions are ignored.
func Equal(a, b Node) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return fmt.Sprintf("%T", a) == fmt.Sprintf("%T", b) && a.String() == b.String()
}

// Hash returns a structural hash consistent with Equal.
func Hash(n Node) uint64 {
	h := fnv.New64a()
	if n != nil {
		fmt.Fprintf(h, "%T:%s", n, n.String())
	}
	return h.Sum64()
}
