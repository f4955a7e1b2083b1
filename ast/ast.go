// Package ast declares the syntax tree of daro programs.
//
// The tree is a closed set of node types: every node implements Node and
// nothing outside this package can add new ones. Consumers switch on the
// concrete type.
package ast

import (
	"fmt"
	"math/big"
	"strconv"
	"strings"

	"github.com/podhmo/daro/token"
)

// Node is implemented by every syntax tree node.
type Node interface {
	Pos() token.Position
	// String returns the canonical printable form of the node. Two nodes
	// with the same dynamic type and the same String are structurally equal.
	String() string
	node()
}

// ----------------------------------------------------------------------------
// Literals and names

type Ident struct {
	Position token.Position
	Name     string
}

type IntegerLit struct {
	Position token.Position
	Value    *big.Int
}

type RealLit struct {
	Position token.Position
	Value    *big.Float
}

type StringLit struct {
	Position token.Position
	Value    string
}

// CharLit holds a single character; it evaluates to a one-rune string.
type CharLit struct {
	Position token.Position
	Value    string
}

type BoolLit struct {
	Position token.Position
	Value    bool
}

type NullLit struct {
	Position token.Position
}

// ArrayLit is a bracketed list: [1, 2, 3].
type ArrayLit struct {
	Position token.Position
	Elems    []Node
}

// ----------------------------------------------------------------------------
// Operators

// BinaryExpr covers arithmetic, bitwise, comparison and logical operators.
type BinaryExpr struct {
	Position token.Position
	Op       token.Kind
	Left     Node
	Right    Node
}

type UnaryExpr struct {
	Position token.Position
	Op       token.Kind
	Operand  Node
}

// ----------------------------------------------------------------------------
// Postfix forms

type CallExpr struct {
	Position token.Position
	Fn       Node
	Args     []Node
}

// MemberExpr is x.name.
type MemberExpr struct {
	Position token.Position
	X        Node
	Name     *Ident
}

// IndexExpr is x[i].
type IndexExpr struct {
	Position token.Position
	X        Node
	Index    Node
}

// RangeExpr is x[from:to]; either bound may be nil.
type RangeExpr struct {
	Position token.Position
	X        Node
	From     Node
	To       Node
}

// ----------------------------------------------------------------------------
// Types and allocation

// ArrayType is [len]elem. Len nil means growable, Elem nil means untyped.
type ArrayType struct {
	Position token.Position
	Len      Node
	Elem     Node
}

// NewExpr is new type [initializer].
type NewExpr struct {
	Position token.Position
	Type     Node
	Init     *Initializer // nil: default value
}

// Initializer is a brace group. Entries are plain expressions, nested
// initializers, or *AssignStmt naming a member.
type Initializer struct {
	Position token.Position
	Entries  []Node
}

// ----------------------------------------------------------------------------
// Statements

type Block struct {
	Position token.Position
	Stmts    []Node
}

// Sequence is a program: top-level statements evaluated in the caller's scope.
type Sequence struct {
	Position token.Position
	Stmts    []Node
}

// DefineStmt is var name [: type] [= value].
type DefineStmt struct {
	Position token.Position
	Name     *Ident
	Type     Node // may be nil
	Value    Node // may be nil
}

// AssignStmt is target op value where op is = or a compound assignment.
type AssignStmt struct {
	Position token.Position
	Op       token.Kind
	Target   Node
	Value    Node
}

type IfStmt struct {
	Position token.Position
	Cond     Node
	Then     Node
	Else     Node // may be nil
}

// ForStmt covers infinite, while and three-clause loops; any clause may be nil.
type ForStmt struct {
	Position token.Position
	Init     Node
	Cond     Node
	Post     Node
	Body     Node
}

type ForInStmt struct {
	Position token.Position
	Var      *Ident
	Iter     Node
	Body     Node
}

type MatchStmt struct {
	Position token.Position
	Subject  Node
	Cases    []*MatchCase
}

// MatchCase is one arm of a match. Values is nil for the default arm.
type MatchCase struct {
	Position token.Position
	Values   []Node
	Body     Node
}

type ReturnStmt struct {
	Position token.Position
	Value    Node // may be nil
}

type BreakStmt struct {
	Position token.Position
}

type ContinueStmt struct {
	Position token.Position
}

// ----------------------------------------------------------------------------
// Declarations

// FuncLit is a named or anonymous function. When Variadic is set the last
// parameter collects the remaining arguments.
type FuncLit struct {
	Position token.Position
	Name     *Ident // nil for anonymous functions
	Params   []*Ident
	Variadic bool
	Body     *Block
}

type ClassDecl struct {
	Position token.Position
	Name     *Ident
	Body     *Block
}

// UseStmt loads a script module: use "path" [as alias].
type UseStmt struct {
	Position token.Position
	Path     string
	Alias    *Ident // may be nil
}

// FromImportStmt binds selected names of a script module.
type FromImportStmt struct {
	Position token.Position
	Path     string
	Names    []*Ident
}

// ImportStmt binds a registered host package: import "strings" [as s].
type ImportStmt struct {
	Position token.Position
	Path     string
	Alias    *Ident // may be nil
}

// ----------------------------------------------------------------------------
// Pos implementations

func (n *Ident) Pos() token.Position          { return n.Position }
func (n *IntegerLit) Pos() token.Position     { return n.Position }
func (n *RealLit) Pos() token.Position        { return n.Position }
func (n *StringLit) Pos() token.Position      { return n.Position }
func (n *CharLit) Pos() token.Position        { return n.Position }
func (n *BoolLit) Pos() token.Position        { return n.Position }
func (n *NullLit) Pos() token.Position        { return n.Position }
func (n *ArrayLit) Pos() token.Position       { return n.Position }
func (n *BinaryExpr) Pos() token.Position     { return n.Position }
func (n *UnaryExpr) Pos() token.Position      { return n.Position }
func (n *CallExpr) Pos() token.Position       { return n.Position }
func (n *MemberExpr) Pos() token.Position     { return n.Position }
func (n *IndexExpr) Pos() token.Position      { return n.Position }
func (n *RangeExpr) Pos() token.Position      { return n.Position }
func (n *ArrayType) Pos() token.Position      { return n.Position }
func (n *NewExpr) Pos() token.Position        { return n.Position }
func (n *Initializer) Pos() token.Position    { return n.Position }
func (n *Block) Pos() token.Position          { return n.Position }
func (n *Sequence) Pos() token.Position       { return n.Position }
func (n *DefineStmt) Pos() token.Position     { return n.Position }
func (n *AssignStmt) Pos() token.Position     { return n.Position }
func (n *IfStmt) Pos() token.Position         { return n.Position }
func (n *ForStmt) Pos() token.Position        { return n.Position }
func (n *ForInStmt) Pos() token.Position      { return n.Position }
func (n *MatchStmt) Pos() token.Position      { return n.Position }
func (n *MatchCase) Pos() token.Position      { return n.Position }
func (n *ReturnStmt) Pos() token.Position     { return n.Position }
func (n *BreakStmt) Pos() token.Position      { return n.Position }
func (n *ContinueStmt) Pos() token.Position   { return n.Position }
func (n *FuncLit) Pos() token.Position        { return n.Position }
func (n *ClassDecl) Pos() token.Position      { return n.Position }
func (n *UseStmt) Pos() token.Position        { return n.Position }
func (n *FromImportStmt) Pos() token.Position { return n.Position }
func (n *ImportStmt) Pos() token.Position     { return n.Position }

func (*Ident) node()          {}
func (*IntegerLit) node()     {}
func (*RealLit) node()        {}
func (*StringLit) node()      {}
func (*CharLit) node()        {}
func (*BoolLit) node()        {}
func (*NullLit) node()        {}
func (*ArrayLit) node()       {}
func (*BinaryExpr) node()     {}
func (*UnaryExpr) node()      {}
func (*CallExpr) node()       {}
func (*MemberExpr) node()     {}
func (*IndexExpr) node()      {}
func (*RangeExpr) node()      {}
func (*ArrayType) node()      {}
func (*NewExpr) node()        {}
func (*Initializer) node()    {}
func (*Block) node()          {}
func (*Sequence) node()       {}
func (*DefineStmt) node()     {}
func (*AssignStmt) node()     {}
func (*IfStmt) node()         {}
func (*ForStmt) node()        {}
func (*ForInStmt) node()      {}
func (*MatchStmt) node()      {}
func (*MatchCase) node()      {}
func (*ReturnStmt) node()     {}
func (*BreakStmt) node()      {}
func (*ContinueStmt) node()   {}
func (*FuncLit) node()        {}
func (*ClassDecl) node()      {}
func (*UseStmt) node()        {}
func (*FromImportStmt) node() {}
func (*ImportStmt) node()     {}

// ----------------------------------------------------------------------------
// Printable forms

func (n *Ident) String() string      { return n.Name }
func (n *IntegerLit) String() string { return n.Value.String() }
func (n *RealLit) String() string    { return FormatReal(n.Value) }
func (n *StringLit) String() string  { return strconv.Quote(n.Value) }
func (n *CharLit) String() string    { return quoteChar(n.Value) }
func (n *BoolLit) String() string    { return strconv.FormatBool(n.Value) }
func (n *NullLit) String() string    { return "null" }
func (n *ArrayLit) String() string   { return "[" + join(n.Elems, ", ") + "]" }

func (n *BinaryExpr) String() string {
	return "(" + n.Left.String() + " " + n.Op.String() + " " + n.Right.String() + ")"
}

func (n *UnaryExpr) String() string {
	return "(" + n.Op.String() + n.Operand.String() + ")"
}

func (n *CallExpr) String() string {
	return n.Fn.String() + "(" + join(n.Args, ", ") + ")"
}

func (n *MemberExpr) String() string { return n.X.String() + "." + n.Name.Name }

func (n *IndexExpr) String() string {
	return n.X.String() + "[" + n.Index.String() + "]"
}

func (n *RangeExpr) String() string {
	return n.X.String() + "[" + str(n.From) + ":" + str(n.To) + "]"
}

func (n *ArrayType) String() string {
	return "[" + str(n.Len) + "]" + str(n.Elem)
}

func (n *NewExpr) String() string {
	if n.Init == nil {
		return "new " + n.Type.String()
	}
	return "new " + n.Type.String() + n.Init.String()
}

func (n *Initializer) String() string { return "{" + join(n.Entries, ", ") + "}" }

func (n *Block) String() string    { return "{" + join(n.Stmts, "; ") + "}" }
func (n *Sequence) String() string { return join(n.Stmts, "; ") }

func (n *DefineStmt) String() string {
	var sb strings.Builder
	sb.WriteString("var ")
	sb.WriteString(n.Name.Name)
	if n.Type != nil {
		sb.WriteString(": ")
		sb.WriteString(n.Type.String())
	}
	if n.Value != nil {
		sb.WriteString(" = ")
		sb.WriteString(n.Value.String())
	}
	return sb.String()
}

func (n *AssignStmt) String() string {
	return n.Target.String() + " " + n.Op.String() + " " + n.Value.String()
}

func (n *IfStmt) String() string {
	s := "if " + n.Cond.String() + " " + n.Then.String()
	if n.Else != nil {
		s += " else " + n.Else.String()
	}
	return s
}

func (n *ForStmt) String() string {
	switch {
	case n.Init == nil && n.Post == nil && n.Cond == nil:
		return "for " + n.Body.String()
	case n.Init == nil && n.Post == nil:
		return "for " + n.Cond.String() + " " + n.Body.String()
	}
	return fmt.Sprintf("for %s; %s; %s %s", str(n.Init), str(n.Cond), str(n.Post), n.Body)
}

func (n *ForInStmt) String() string {
	return "for " + n.Var.Name + " in " + n.Iter.String() + " " + n.Body.String()
}

func (n *MatchStmt) String() string {
	parts := make([]string, len(n.Cases))
	for i, c := range n.Cases {
		parts[i] = c.String()
	}
	return "match " + n.Subject.String() + " {" + strings.Join(parts, "; ") + "}"
}

func (n *MatchCase) String() string {
	if n.Values == nil {
		return "default => " + n.Body.String()
	}
	return join(n.Values, ", ") + " => " + n.Body.String()
}

func (n *ReturnStmt) String() string {
	if n.Value == nil {
		return "return"
	}
	return "return " + n.Value.String()
}

func (n *BreakStmt) String() string    { return "break" }
func (n *ContinueStmt) String() string { return "continue" }

func (n *FuncLit) String() string {
	var sb strings.Builder
	sb.WriteString("fn")
	if n.Name != nil {
		sb.WriteString(" ")
		sb.WriteString(n.Name.Name)
	}
	sb.WriteString("(")
	for i, p := range n.Params {
		if i > 0 {
			sb.WriteString(", ")
		}
		if n.Variadic && i == len(n.Params)-1 {
			sb.WriteString("...")
		}
		sb.WriteString(p.Name)
	}
	sb.WriteString(") ")
	sb.WriteString(n.Body.String())
	return sb.String()
}

func (n *ClassDecl) String() string {
	return "class " + n.Name.Name + " " + n.Body.String()
}

func (n *UseStmt) String() string {
	s := "use " + strconv.Quote(n.Path)
	if n.Alias != nil {
		s += " as " + n.Alias.Name
	}
	return s
}

func (n *FromImportStmt) String() string {
	names := make([]string, len(n.Names))
	for i, id := range n.Names {
		names[i] = id.Name
	}
	return "from " + strconv.Quote(n.Path) + " import " + strings.Join(names, ", ")
}

func (n *ImportStmt) String() string {
	s := "import " + strconv.Quote(n.Path)
	if n.Alias != nil {
		s += " as " + n.Alias.Name
	}
	return s
}

// FormatReal renders a real in its shortest exact decimal form, always
// distinguishable from an integer.
func FormatReal(f *big.Float) string {
	s := f.Text('g', -1)
	if f.IsInf() || strings.ContainsAny(s, ".eE") {
		return s
	}
	return s + ".0"
}

func quoteChar(s string) string {
	for _, r := range s {
		return strconv.QuoteRune(r)
	}
	return "''"
}

func join(nodes []Node, sep string) string {
	parts := make([]string, len(nodes))
	for i, n := range nodes {
		parts[i] = n.String()
	}
	return strings.Join(parts, sep)
}

func str(n Node) string {
	if n == nil {
		return ""
	}
	return n.String()
}
