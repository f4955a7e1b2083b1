package ast

import (
	"math/big"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/podhmo/daro/token"
)

func ident(name string) *Ident { return &Ident{Name: name} }

func intLit(v int64) *IntegerLit { return &IntegerLit{Value: big.NewInt(v)} }

func TestString(t *testing.T) {
	tests := []struct {
		name string
		node Node
		want string
	}{
		{"binary", &BinaryExpr{Op: token.ADD, Left: ident("x"), Right: intLit(1)}, "(x + 1)"},
		{"unary", &UnaryExpr{Op: token.SUB, Operand: ident("x")}, "(-x)"},
		{"call", &CallExpr{Fn: ident("f"), Args: []Node{intLit(1), ident("y")}}, "f(1, y)"},
		{"range", &RangeExpr{X: ident("a"), From: intLit(1)}, "a[1:]"},
		{"new", &NewExpr{Type: &ArrayType{Len: intLit(3), Elem: ident("int")}, Init: &Initializer{Entries: []Node{intLit(1), intLit(2)}}}, "new [3]int{1, 2}"},
		{"define", &DefineStmt{Name: ident("x"), Type: ident("int"), Value: intLit(0)}, "var x: int = 0"},
		{"func", &FuncLit{Name: ident("f"), Params: []*Ident{ident("a"), ident("rest")}, Variadic: true, Body: &Block{}}, "fn f(a, ...rest) {}"},
		{"real", &RealLit{Value: big.NewFloat(2)}, "2.0"},
		{"char", &CharLit{Value: "a"}, "'a'"},
		{"string", &StringLit{Value: "a\"b"}, `"a\"b"`},
		{"match", &MatchStmt{Subject: ident("x"), Cases: []*MatchCase{{Values: []Node{intLit(1)}, Body: intLit(2)}, {Body: intLit(3)}}}, "match x {1 => 2; default => 3}"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.node.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestEqualAndHash(t *testing.T) {
	a := &BinaryExpr{Position: token.Position{Start: 0, End: 5}, Op: token.MUL, Left: ident("x"), Right: intLit(2)}
	b := &BinaryExpr{Position: token.Position{Start: 10, End: 15}, Op: token.MUL, Left: ident("x"), Right: intLit(2)}
	c := &BinaryExpr{Op: token.MUL, Left: ident("x"), Right: intLit(3)}

	if !Equal(a, b) {
		t.Errorf("nodes differing only in position must be equal")
	}
	if Hash(a) != Hash(b) {
		t.Errorf("equal nodes must hash alike")
	}
	if Equal(a, c) {
		t.Errorf("%s and %s must differ", a, c)
	}
	if Equal(&StringLit{Value: "x"}, ident("x")) {
		t.Errorf("nodes of different types must differ")
	}
	if !Equal(nil, nil) || Equal(a, nil) {
		t.Errorf("nil handling is wrong")
	}
}

func TestInspect(t *testing.T) {
	tree := &Block{Stmts: []Node{
		&AssignStmt{Op: token.ASSIGN, Target: ident("x"), Value: &BinaryExpr{Op: token.ADD, Left: ident("y"), Right: intLit(1)}},
		&IfStmt{Cond: ident("x"), Then: &Block{Stmts: []Node{ident("z")}}},
	}}

	var names []string
	Inspect(tree, func(n Node) bool {
		if id, ok := n.(*Ident); ok {
			names = append(names, id.Name)
		}
		return true
	})
	if diff := cmp.Diff([]string{"x", "y", "x", "z"}, names); diff != "" {
		t.Errorf("Inspect order mismatch (-want +got):\n%s", diff)
	}

	var visited int
	Inspect(tree, func(n Node) bool {
		if n == nil {
			return false
		}
		visited++
		_, isIf := n.(*IfStmt)
		return !isIf
	})
	// Block, Assign, x, Binary, y, 1, If
	if visited != 7 {
		t.Errorf("visited %d nodes, want 7", visited)
	}
}
