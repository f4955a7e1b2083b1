package daro

import (
	"fmt"
	"math/big"

	"github.com/podhmo/daro/ast"
	"github.com/podhmo/daro/object"
	"github.com/podhmo/daro/parser"
	"github.com/podhmo/daro/token"
)

// ParseLiteral parses a single literal value without evaluating any code.
// Numbers (optionally signed), strings, characters, booleans, null and
// arrays of those are accepted; anything else is an error.
func ParseLiteral(text string) (object.Object, error) {
	node, err := parser.ParseExpression("", text)
	if err != nil {
		return nil, err
	}
	return literalValue(node)
}

func literalValue(node ast.Node) (object.Object, error) {
	switch n := node.(type) {
	case *ast.IntegerLit:
		return &object.Integer{Value: new(big.Int).Set(n.Value)}, nil
	case *ast.RealLit:
		return &object.Real{Value: new(big.Float).Copy(n.Value)}, nil
	case *ast.StringLit:
		return &object.String{Value: n.Value}, nil
	case *ast.CharLit:
		return &object.String{Value: n.Value}, nil
	case *ast.BoolLit:
		return object.NativeBoolToBooleanObject(n.Value), nil
	case *ast.NullLit:
		return object.NULL, nil
	case *ast.UnaryExpr:
		if n.Op != token.SUB && n.Op != token.ADD {
			break
		}
		switch operand := n.Operand.(type) {
		case *ast.IntegerLit:
			v := new(big.Int).Set(operand.Value)
			if n.Op == token.SUB {
				v.Neg(v)
			}
			return &object.Integer{Value: v}, nil
		case *ast.RealLit:
			v := new(big.Float).Copy(operand.Value)
			if n.Op == token.SUB {
				v.Neg(v)
			}
			return &object.Real{Value: v}, nil
		}
	case *ast.ArrayLit:
		elems := make([]object.Object, len(n.Elems))
		for i, e := range n.Elems {
			v, err := literalValue(e)
			if err != nil {
				return nil, err
			}
			elems[i] = v
		}
		return object.NewArray(elems), nil
	}
	return nil, object.NewError(node.Pos(), "%s is not a literal", node)
}

// MustParseLiteral is like ParseLiteral but panics on error.
func MustParseLiteral(text string) object.Object {
	v, err := ParseLiteral(text)
	if err != nil {
		panic(fmt.Sprintf("daro: %v", err))
	}
	return v
}
