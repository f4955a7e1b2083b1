package ffibridge

import (
	"math"
	"math/big"
	"reflect"

	"github.com/podhmo/daro/object"
)

// Impossible is the casting loss of a conversion that cannot happen.
const Impossible = math.MaxInt32

var (
	bigIntType      = reflect.TypeOf((*big.Int)(nil))
	bigFloatType    = reflect.TypeOf((*big.Float)(nil))
	objectType      = reflect.TypeOf((*object.Object)(nil)).Elem()
	reflectTypeType = reflect.TypeOf((*reflect.Type)(nil)).Elem()
	errorType       = reflect.TypeOf((*error)(nil)).Elem()
	anyType         = reflect.TypeOf((*any)(nil)).Elem()
)

// lossByBits ranks fixed-width integer targets: wider is cheaper.
var lossByBits = map[int]int{64: 1, 32: 2, 16: 3, 8: 4}

const (
	lossToAny     = 10
	lossToFunc    = 5
	lossRealToInt = 8
)

func isAny(t reflect.Type) bool {
	return t.Kind() == reflect.Interface && t.NumMethod() == 0
}

func isNillable(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Ptr, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		return true
	}
	return false
}

// Loss returns the casting loss of passing obj where a t is expected:
// 0 for an exact match, larger for lossier conversions, Impossible when
// the value cannot be passed at all.
func Loss(obj object.Object, t reflect.Type) int {
	if t == objectType {
		return 0
	}
	switch obj := obj.(type) {
	case *object.Integer:
		return integerLoss(obj.Value, t)
	case *object.Real:
		switch {
		case t == bigFloatType:
			return 0
		case t.Kind() == reflect.Float64:
			return 1
		case t.Kind() == reflect.Float32:
			return 2
		case isAny(t):
			return lossToAny
		case isInteger(t):
			n, ok := integralReal(obj.Value)
			if !ok {
				return Impossible
			}
			if l := integerLoss(n, t); l != Impossible {
				return lossRealToInt + l
			}
		}
	case *object.String:
		switch {
		case t.Kind() == reflect.String:
			return namedPenalty(t)
		case t.Kind() == reflect.Slice && t.Elem().Kind() == reflect.Uint8:
			return 2
		case isAny(t):
			return lossToAny
		}
	case *object.Boolean:
		switch {
		case t.Kind() == reflect.Bool:
			return namedPenalty(t)
		case isAny(t):
			return lossToAny
		}
	case *object.Null:
		if isNillable(t) {
			return 0
		}
	case *object.Array:
		return arrayLoss(obj, t)
	case *object.Function, *object.Builtin:
		if t.Kind() == reflect.Func {
			return lossToFunc
		}
	case *object.NativeFunction:
		if len(obj.Overloads) == 1 && obj.Overloads[0].Type().AssignableTo(t) {
			return 0
		}
		if t.Kind() == reflect.Func {
			return lossToFunc
		}
	case *object.NativeValue:
		return nativeLoss(obj.Value, t)
	case *object.NativeType:
		if t == reflectTypeType {
			return 0
		}
		if isAny(t) {
			return lossToAny
		}
	}
	return Impossible
}

func namedPenalty(t reflect.Type) int {
	if t.PkgPath() != "" {
		return 1
	}
	return 0
}

func integerLoss(n *big.Int, t reflect.Type) int {
	switch t {
	case bigIntType:
		return 0
	case bigFloatType:
		return 3
	}
	switch t.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		if !fitsSigned(n, t.Bits()) {
			return Impossible
		}
		return lossByBits[t.Bits()]
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		if n.Sign() < 0 || n.BitLen() > t.Bits() {
			return Impossible
		}
		return lossByBits[t.Bits()] + 1
	case reflect.Float64:
		return 6
	case reflect.Float32:
		return 7
	case reflect.Interface:
		if isAny(t) {
			return lossToAny
		}
	}
	return Impossible
}

func isInteger(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return true
	}
	return false
}

// integralReal returns f as an integer when it has no fractional part and
// fits in 64 bits.
func integralReal(f *big.Float) (*big.Int, bool) {
	if !f.IsInt() || f.MantExp(nil) > 64 {
		return nil, false
	}
	n, _ := f.Int(nil)
	return n, true
}

func fitsSigned(n *big.Int, bits int) bool {
	hi := new(big.Int).Lsh(big.NewInt(1), uint(bits-1))
	lo := new(big.Int).Neg(hi)
	hi.Sub(hi, big.NewInt(1))
	return n.Cmp(lo) >= 0 && n.Cmp(hi) <= 0
}

func arrayLoss(arr *object.Array, t reflect.Type) int {
	var elem reflect.Type
	switch t.Kind() {
	case reflect.Slice:
		elem = t.Elem()
	case reflect.Array:
		if t.Len() != len(arr.Elements) {
			return Impossible
		}
		elem = t.Elem()
	case reflect.Interface:
		if !isAny(t) {
			return Impossible
		}
		elem = anyType
	default:
		return Impossible
	}
	worst := 0
	for _, e := range arr.Elements {
		l := Loss(e, elem)
		if l == Impossible {
			return Impossible
		}
		worst = max(worst, l)
	}
	if isAny(t) {
		return lossToAny
	}
	return 1 + worst
}

func nativeLoss(v reflect.Value, t reflect.Type) int {
	if !v.IsValid() {
		if isNillable(t) {
			return 0
		}
		return Impossible
	}
	vt := v.Type()
	switch {
	case vt == t:
		return 0
	case vt.AssignableTo(t):
		return 1
	case v.CanAddr() && reflect.PointerTo(vt).AssignableTo(t):
		return 1
	case vt.Kind() == t.Kind() && vt.ConvertibleTo(t):
		return 2
	}
	return Impossible
}

// CallLoss sums the losses of passing args to a function of type ft.
func CallLoss(ft reflect.Type, args []object.Object) int {
	n := ft.NumIn()
	if ft.IsVariadic() {
		if len(args) < n-1 {
			return Impossible
		}
	} else if len(args) != n {
		return Impossible
	}
	total := 0
	for i, arg := range args {
		l := Loss(arg, paramType(ft, i))
		if l == Impossible {
			return Impossible
		}
		total += l
	}
	return total
}

// paramType returns the type the i-th argument is converted to, unfolding
// the variadic parameter.
func paramType(ft reflect.Type, i int) reflect.Type {
	n := ft.NumIn()
	if ft.IsVariadic() && i >= n-1 {
		return ft.In(n - 1).Elem()
	}
	return ft.In(i)
}
