package evaluator

import (
	"context"
	"math"
	"math/big"
	"strings"

	"github.com/podhmo/daro/ast"
	"github.com/podhmo/daro/object"
	"github.com/podhmo/daro/token"
)

func (e *Evaluator) evalBinaryExpr(ctx context.Context, n *ast.BinaryExpr, ec *ExecutionContext) object.Object {
	left, sig := e.evalValue(ctx, n.Left, ec)
	if sig != nil {
		return sig
	}
	switch n.Op {
	case token.LAND:
		if !object.Truthy(left) {
			return object.FALSE
		}
		right, sig := e.evalValue(ctx, n.Right, ec)
		if sig != nil {
			return sig
		}
		return object.NativeBoolToBooleanObject(object.Truthy(right))
	case token.LOR:
		if object.Truthy(left) {
			return object.TRUE
		}
		right, sig := e.evalValue(ctx, n.Right, ec)
		if sig != nil {
			return sig
		}
		return object.NativeBoolToBooleanObject(object.Truthy(right))
	}
	right, sig := e.evalValue(ctx, n.Right, ec)
	if sig != nil {
		return sig
	}
	return e.binary(ctx, n.Pos(), n.Op, left, right)
}

// binary applies op, trying the integer implementation first, then the
// numeric one, then the generic one.
func (e *Evaluator) binary(ctx context.Context, pos token.Position, op token.Kind, left, right object.Object) (res object.Object) {
	defer func() {
		if r := recover(); r != nil {
			nan, ok := r.(big.ErrNaN)
			if !ok {
				panic(r)
			}
			res = e.newError(ctx, pos, "invalid operation %s: %s", op, nan.Error())
		}
	}()
	if l, ok := left.(*object.Integer); ok {
		if r, ok := right.(*object.Integer); ok {
			if v := e.integerBinary(ctx, pos, op, l.Value, r.Value); v != nil {
				return v
			}
		}
	}
	if l, ok := toFloat(left); ok {
		if r, ok := toFloat(right); ok {
			if v := e.numericBinary(ctx, pos, op, left, right, l, r); v != nil {
				return v
			}
		}
	}
	if v := e.genericBinary(ctx, pos, op, left, right); v != nil {
		return v
	}
	return e.newError(ctx, pos, "unsupported operator %s for %s and %s", op, object.TypeOf(left).Name(), object.TypeOf(right).Name())
}

// integerBinary returns nil when op does not apply to two integers.
func (e *Evaluator) integerBinary(ctx context.Context, pos token.Position, op token.Kind, l, r *big.Int) object.Object {
	z := new(big.Int)
	switch op {
	case token.ADD:
		z.Add(l, r)
	case token.SUB:
		z.Sub(l, r)
	case token.MUL:
		z.Mul(l, r)
	case token.QUO:
		if r.Sign() == 0 {
			return e.newError(ctx, pos, "integer division by zero")
		}
		z.Quo(l, r)
	case token.REM:
		if r.Sign() == 0 {
			return e.newError(ctx, pos, "integer division by zero")
		}
		z.Rem(l, r)
	case token.POW:
		if r.Sign() < 0 {
			return nil
		}
		if err := e.checkSize(ctx, pos, op, l, r); err != nil {
			return err
		}
		z.Exp(l, r, nil)
	case token.AND:
		z.And(l, r)
	case token.OR:
		z.Or(l, r)
	case token.XOR:
		z.Xor(l, r)
	case token.SHL, token.SHR:
		if r.Sign() < 0 || !r.IsUint64() || r.Uint64() > math.MaxUint32 {
			return e.newError(ctx, pos, "invalid shift count %s", r)
		}
		if op == token.SHL {
			if err := e.checkSize(ctx, pos, op, l, r); err != nil {
				return err
			}
			z.Lsh(l, uint(r.Uint64()))
		} else {
			z.Rsh(l, uint(r.Uint64()))
		}
	case token.EQL, token.NEQ, token.LSS, token.LEQ, token.GTR, token.GEQ:
		return compare(op, l.Cmp(r))
	default:
		return nil
	}
	return &object.Integer{Value: z}
}

func toFloat(obj object.Object) (*big.Float, bool) {
	switch obj := obj.(type) {
	case *object.Integer:
		return object.NewRealFromInt(obj.Value).Value, true
	case *object.Real:
		return obj.Value, true
	}
	return nil, false
}

func newFloat() *big.Float { return new(big.Float).SetPrec(object.RealPrec) }

// numericBinary returns nil when op does not apply to two numbers.
func (e *Evaluator) numericBinary(ctx context.Context, pos token.Position, op token.Kind, left, right object.Object, l, r *big.Float) object.Object {
	if l.IsInf() || r.IsInf() {
		return e.newError(ctx, pos, "invalid operation %s: %v", op, object.ErrNonFinite)
	}
	switch op {
	case token.ADD:
		return e.real(ctx, pos, op, newFloat().Add(l, r))
	case token.SUB:
		return e.real(ctx, pos, op, newFloat().Sub(l, r))
	case token.MUL:
		return e.real(ctx, pos, op, newFloat().Mul(l, r))
	case token.QUO:
		if r.Sign() == 0 {
			return e.newError(ctx, pos, "division by zero")
		}
		return e.real(ctx, pos, op, newFloat().Quo(l, r))
	case token.REM:
		if r.Sign() == 0 {
			return e.newError(ctx, pos, "division by zero")
		}
		return e.real(ctx, pos, op, rem(l, r))
	case token.POW:
		if exp, ok := right.(*object.Integer); ok && exp.Value.IsInt64() {
			if l.Sign() == 0 && exp.Value.Sign() < 0 {
				return e.newError(ctx, pos, "division by zero")
			}
			return e.real(ctx, pos, op, powInt(l, exp.Value.Int64()))
		}
		lf, _ := l.Float64()
		rf, _ := r.Float64()
		v, err := object.ToReal(math.Pow(lf, rf))
		if err != nil {
			return e.newError(ctx, pos, "invalid operation %s: %v", op, err)
		}
		return v
	case token.EQL, token.NEQ, token.LSS, token.LEQ, token.GTR, token.GEQ:
		return compare(op, l.Cmp(r))
	}
	return nil
}

// real wraps the result of a real operation, which overflows to an
// infinity when its exponent leaves the big.Float range.
func (e *Evaluator) real(ctx context.Context, pos token.Position, op token.Kind, v *big.Float) object.Object {
	if v.IsInf() {
		return e.newError(ctx, pos, "invalid operation %s: %v", op, object.ErrNonFinite)
	}
	return &object.Real{Value: v}
}

// rem returns l - trunc(l/r)*r, the remainder with the sign of l. float64
// is used when both operands fit, so the result matches math.Mod.
func rem(l, r *big.Float) *big.Float {
	lf, lacc := l.Float64()
	rf, racc := r.Float64()
	if !math.IsInf(lf, 0) && !math.IsInf(rf, 0) && rf != 0 && (lacc == big.Exact || lf != 0) && (racc == big.Exact || rf != 0) {
		return newFloat().SetFloat64(math.Mod(lf, rf))
	}
	q := newFloat().Quo(l, r)
	if q.MantExp(nil) > object.RealPrec {
		// l/r has no fractional bits left at this precision.
		return newFloat()
	}
	qi, _ := q.Int(nil)
	return newFloat().Sub(l, newFloat().Mul(newFloat().SetInt(qi), r))
}

// maxResultBits bounds the width of integers produced by ** and <<.
const maxResultBits = 1 << 24

// checkSize rejects l ** r and l << r when the result would be wider than
// maxResultBits.
func (e *Evaluator) checkSize(ctx context.Context, pos token.Position, op token.Kind, l, r *big.Int) *object.Error {
	if l.BitLen() <= 1 && (op == token.POW || l.Sign() == 0) {
		return nil // 0, 1 and -1 do not grow
	}
	n := uint64(maxResultBits + 1)
	if r.IsUint64() {
		n = r.Uint64()
	}
	bits := uint64(l.BitLen())
	if op == token.POW {
		if n <= maxResultBits {
			bits *= n
		} else {
			bits = n
		}
	} else {
		bits += n
	}
	if bits > maxResultBits {
		return e.newError(ctx, pos, "integer overflow: %s %s %s exceeds %d bits", l, op, r, maxResultBits)
	}
	return nil
}

// powInt computes x**n by repeated squaring.
func powInt(x *big.Float, n int64) *big.Float {
	neg := n < 0
	if neg {
		n = -n
	}
	result := newFloat().SetInt64(1)
	base := newFloat().Set(x)
	for n > 0 {
		if n&1 == 1 {
			result.Mul(result, base)
		}
		base.Mul(base, base)
		n >>= 1
	}
	if neg {
		return newFloat().Quo(newFloat().SetInt64(1), result)
	}
	return result
}

func compare(op token.Kind, c int) object.Object {
	var b bool
	switch op {
	case token.EQL:
		b = c == 0
	case token.NEQ:
		b = c != 0
	case token.LSS:
		b = c < 0
	case token.LEQ:
		b = c <= 0
	case token.GTR:
		b = c > 0
	case token.GEQ:
		b = c >= 0
	}
	return object.NativeBoolToBooleanObject(b)
}

// genericBinary returns nil when op does not apply to the operands.
func (e *Evaluator) genericBinary(ctx context.Context, pos token.Position, op token.Kind, left, right object.Object) object.Object {
	switch op {
	case token.EQL:
		return object.NativeBoolToBooleanObject(object.Equal(left, right))
	case token.NEQ:
		return object.NativeBoolToBooleanObject(!object.Equal(left, right))
	}

	ls, lok := left.(*object.String)
	rs, rok := right.(*object.String)
	switch {
	case op == token.ADD && (lok || rok):
		return &object.String{Value: left.Inspect() + right.Inspect()}
	case lok && rok:
		switch op {
		case token.LSS, token.LEQ, token.GTR, token.GEQ:
			return compare(op, strings.Compare(ls.Value, rs.Value))
		}
	case lok && op == token.MUL:
		n, ok := right.(*object.Integer)
		if !ok {
			return nil
		}
		if n.Value.Sign() < 0 || !n.Value.IsInt64() {
			return e.newError(ctx, pos, "invalid repeat count %s", n.Value)
		}
		return &object.String{Value: strings.Repeat(ls.Value, int(n.Value.Int64()))}
	}

	if la, ok := left.(*object.Array); ok && op == token.ADD {
		if ra, ok := right.(*object.Array); ok {
			elems := make([]object.Object, 0, len(la.Elements)+len(ra.Elements))
			elems = append(elems, la.Elements...)
			elems = append(elems, ra.Elements...)
			return object.NewArray(elems)
		}
	}

	if lb, ok := left.(*object.Boolean); ok {
		if rb, ok := right.(*object.Boolean); ok {
			switch op {
			case token.AND:
				return object.NativeBoolToBooleanObject(lb.Value && rb.Value)
			case token.OR:
				return object.NativeBoolToBooleanObject(lb.Value || rb.Value)
			case token.XOR:
				return object.NativeBoolToBooleanObject(lb.Value != rb.Value)
			}
		}
	}
	return nil
}
