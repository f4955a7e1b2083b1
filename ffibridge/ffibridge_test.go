package ffibridge

import (
	"context"
	"errors"
	"math"
	"math/big"
	"reflect"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/podhmo/daro/object"
)

func typeOf[T any]() reflect.Type { return reflect.TypeOf((*T)(nil)).Elem() }

type celsius float64

type point struct {
	X, Y   int
	hidden int
}

func (p *point) Move(dx, dy int) { p.X += dx; p.Y += dy }
func (p point) Sum() int         { return p.X + p.Y }

func TestLoss(t *testing.T) {
	big64 := &object.Integer{Value: new(big.Int).Lsh(big.NewInt(1), 40)}
	tests := []struct {
		name string
		obj  object.Object
		typ  reflect.Type
		want int
	}{
		{"int to big.Int", object.NewInteger(1), bigIntType, 0},
		{"int to int64", object.NewInteger(1), typeOf[int64](), 1},
		{"int to int32", object.NewInteger(1), typeOf[int32](), 2},
		{"int to int8", object.NewInteger(1), typeOf[int8](), 4},
		{"int to uint64", object.NewInteger(1), typeOf[uint64](), 2},
		{"negative to uint", object.NewInteger(-1), typeOf[uint](), Impossible},
		{"overflow int32", big64, typeOf[int32](), Impossible},
		{"int to float64", object.NewInteger(1), typeOf[float64](), 6},
		{"int to any", object.NewInteger(1), typeOf[any](), lossToAny},
		{"int to string", object.NewInteger(1), typeOf[string](), Impossible},
		{"real to float64", object.NewReal(1), typeOf[float64](), 1},
		{"real to named float", object.NewReal(1), typeOf[celsius](), 1},
		{"integral real to int", object.NewReal(2), typeOf[int](), lossRealToInt + 1},
		{"integral real to int8", object.NewReal(-3), typeOf[int8](), lossRealToInt + 4},
		{"integral real overflows int8", object.NewReal(300), typeOf[int8](), Impossible},
		{"fractional real to int", object.NewReal(1.5), typeOf[int](), Impossible},
		{"huge real to int64", object.NewReal(1e30), typeOf[int64](), Impossible},
		{"string to string", &object.String{Value: "x"}, typeOf[string](), 0},
		{"string to bytes", &object.String{Value: "x"}, typeOf[[]byte](), 2},
		{"bool to bool", object.TRUE, typeOf[bool](), 0},
		{"null to pointer", object.NULL, typeOf[*point](), 0},
		{"null to int", object.NULL, typeOf[int](), Impossible},
		{"array to []int", object.NewArray([]object.Object{object.NewInteger(1)}), typeOf[[]int](), 2},
		{"array to [2]int", object.NewArray([]object.Object{object.NewInteger(1)}), typeOf[[2]int](), Impossible},
		{"array of strings to []int", object.NewArray([]object.Object{&object.String{}}), typeOf[[]int](), Impossible},
		{"anything to Object", &object.String{}, objectType, 0},
		{"native value identical", &object.NativeValue{Value: reflect.ValueOf(celsius(1))}, typeOf[celsius](), 0},
		{"native value convertible", &object.NativeValue{Value: reflect.ValueOf(celsius(1))}, typeOf[float64](), 2},
		{"native type to reflect.Type", &object.NativeType{T: typeOf[point]()}, reflectTypeType, 0},
		{"script function to func", &object.Function{Name: "f"}, typeOf[func(int) int](), lossToFunc},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Loss(tt.obj, tt.typ); got != tt.want {
				t.Errorf("Loss(%s, %s) = %d, want %d", tt.obj.Inspect(), tt.typ, got, tt.want)
			}
		})
	}
}

func TestResolve_ExactMatchWinsInAnyOrder(t *testing.T) {
	exact := reflect.ValueOf(func(n int64) string { return "int64" })
	narrow := reflect.ValueOf(func(n int8) string { return "int8" })
	args := []object.Object{object.NewInteger(7)}

	for _, order := range [][]reflect.Value{{exact, narrow}, {narrow, exact}} {
		fn, _, err := Resolve("pkg", "F", order, args)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		out, err := Invoke(fn, args, nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got := out.Inspect(); got != "int64" {
			t.Errorf("picked %s overload", got)
		}
	}
}

func TestResolve_TiesGoToFirst(t *testing.T) {
	first := reflect.ValueOf(func(s string) int { return 1 })
	second := reflect.ValueOf(func(s string) int { return 2 })
	fn, _, err := Resolve("pkg", "F", []reflect.Value{first, second}, []object.Object{&object.String{Value: "x"}})
	if err != nil {
		t.Fatal(err)
	}
	if fn.Pointer() != first.Pointer() {
		t.Errorf("the first candidate must win a tie")
	}
}

func TestResolve_Errors(t *testing.T) {
	_, _, err := Resolve("strings", "Nope", nil, nil)
	var rerr *ResolutionError
	if !errors.As(err, &rerr) || !rerr.Unknown {
		t.Fatalf("expected unknown method error, got %v", err)
	}
	if got := err.Error(); got != "unknown method strings.Nope" {
		t.Errorf("Error() = %q", got)
	}

	candidates := []reflect.Value{reflect.ValueOf(strings.ToUpper)}
	_, _, err = Resolve("strings", "ToUpper", candidates, []object.Object{object.NewInteger(1), object.TRUE})
	if got := err.Error(); got != "no overload of strings.ToUpper accepts (int, bool)" {
		t.Errorf("Error() = %q", got)
	}
}

func TestInvoke(t *testing.T) {
	boom := errors.New("boom")

	t.Run("trailing error", func(t *testing.T) {
		fn := reflect.ValueOf(func(fail bool) (int, error) {
			if fail {
				return 0, boom
			}
			return 42, nil
		})
		got, err := Invoke(fn, []object.Object{object.FALSE}, nil)
		if err != nil || got.Inspect() != "42" {
			t.Errorf("got %v, %v", got, err)
		}
		if _, err := Invoke(fn, []object.Object{object.TRUE}, nil); !errors.Is(err, boom) {
			t.Errorf("expected boom, got %v", err)
		}
	})

	t.Run("multiple results", func(t *testing.T) {
		fn := reflect.ValueOf(func() (int, string) { return 1, "a" })
		got, err := Invoke(fn, nil, nil)
		if err != nil {
			t.Fatal(err)
		}
		if diff := cmp.Diff(`[1, "a"]`, got.Inspect()); diff != "" {
			t.Errorf("mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("variadic", func(t *testing.T) {
		fn := reflect.ValueOf(func(sep string, parts ...string) string { return strings.Join(parts, sep) })
		args := []object.Object{&object.String{Value: "-"}, &object.String{Value: "a"}, &object.String{Value: "b"}}
		got, err := Invoke(fn, args, nil)
		if err != nil || got.Inspect() != "a-b" {
			t.Errorf("got %v, %v", got, err)
		}
	})

	t.Run("panic", func(t *testing.T) {
		fn := reflect.ValueOf(func() { panic("kaboom") })
		_, err := Invoke(fn, nil, nil)
		if err == nil || !strings.Contains(err.Error(), "kaboom") {
			t.Errorf("expected recovered panic, got %v", err)
		}
	})

	t.Run("arity", func(t *testing.T) {
		fn := reflect.ValueOf(strings.ToUpper)
		if _, err := Invoke(fn, nil, nil); err == nil {
			t.Errorf("expected arity error")
		}
	})
}

func TestCast_ScriptFunction(t *testing.T) {
	double := &object.Builtin{Name: "double"}
	call := func(fn object.Object, args []object.Object) (object.Object, error) {
		if fn != double {
			t.Fatalf("unexpected callee %v", fn)
		}
		n := args[0].(*object.Integer).Value
		return &object.Integer{Value: new(big.Int).Mul(n, big.NewInt(2))}, nil
	}
	v, err := Cast(double, typeOf[func(int) int](), call)
	if err != nil {
		t.Fatal(err)
	}
	f := v.Interface().(func(int) int)
	if got := f(21); got != 42 {
		t.Errorf("f(21) = %d", got)
	}
}

func TestCast_ScriptFunctionWithoutCaller(t *testing.T) {
	fn := &object.Builtin{Name: "double"}
	if _, err := Cast(fn, typeOf[func(int) int](), nil); err == nil {
		t.Error("expected an error without a caller")
	}
}

func TestWrap_NonFiniteFloats(t *testing.T) {
	for _, f := range []float64{math.Inf(1), math.NaN()} {
		got := Wrap(reflect.ValueOf(f))
		if got.Type() != object.NATIVE_VALUE_OBJ {
			t.Errorf("Wrap(%v) = %s, want a native value", f, got.Type())
		}
	}
	got := Wrap(reflect.ValueOf(new(big.Float).SetInf(false)))
	if got.Type() != object.NATIVE_VALUE_OBJ {
		t.Errorf("Wrap(+Inf big.Float) = %s, want a native value", got.Type())
	}
}

func TestWrap(t *testing.T) {
	tests := []struct {
		in   any
		want string
		typ  object.ObjectType
	}{
		{int32(5), "5", object.INTEGER_OBJ},
		{uint8(255), "255", object.INTEGER_OBJ},
		{1.5, "1.5", object.REAL_OBJ},
		{"s", "s", object.STRING_OBJ},
		{[]int{1, 2}, "[1, 2]", object.ARRAY_OBJ},
		{celsius(3), "3", object.NATIVE_VALUE_OBJ},
		{(*point)(nil), "null", object.NULL_OBJ},
		{big.NewInt(9), "9", object.INTEGER_OBJ},
	}
	for _, tt := range tests {
		got := Wrap(reflect.ValueOf(tt.in))
		if got.Type() != tt.typ || got.Inspect() != tt.want {
			t.Errorf("Wrap(%#v) = %s %s, want %s %s", tt.in, got.Type(), got.Inspect(), tt.typ, tt.want)
		}
	}
}

func TestBridge_Package(t *testing.T) {
	reg := NewRegistry()
	reg.Register("strings", map[string]any{"ToUpper": strings.ToUpper})
	reg.Register("encoding/hex", map[string]any{"Sentinel": "x"})
	reg.Register("geo", map[string]any{
		"Point": Class{Type: typeOf[point](), Constructors: []any{
			func(x, y int) *point { return &point{X: x, Y: y} },
		}},
		"Pick": Overload{
			func(n int8) string { return "narrow" },
			func(n int64) string { return "exact" },
		},
	})
	b := New(reg, nil)
	ctx := context.Background()

	mod, ok := b.Package("strings")
	if !ok {
		t.Fatal("strings not found")
	}
	upper, _ := mod.Scope.Get("ToUpper")
	got, err := b.Call(ctx, upper.(*object.NativeFunction), []object.Object{&object.String{Value: "abc"}}, nil)
	if err != nil || got.Inspect() != "ABC" {
		t.Errorf("ToUpper = %v, %v", got, err)
	}

	ns := b.Namespace()
	if diff := cmp.Diff([]string{"encoding", "geo", "strings"}, ns.Names()); diff != "" {
		t.Errorf("namespace mismatch (-want +got):\n%s", diff)
	}
	enc, _ := ns.Get("encoding")
	hex, ok := enc.(*object.Module).Scope.Get("hex")
	if !ok {
		t.Fatal("native.encoding.hex not found")
	}
	if v, _ := hex.(*object.Module).Scope.Get("Sentinel"); v.Inspect() != "x" {
		t.Errorf("Sentinel = %s", v.Inspect())
	}

	geo, _ := b.Package("geo")
	pick, _ := geo.Scope.Get("Pick")
	got, err = b.Call(ctx, pick.(*object.NativeFunction), []object.Object{object.NewInteger(3)}, nil)
	if err != nil || got.Inspect() != "exact" {
		t.Errorf("Pick = %v, %v", got, err)
	}

	pt, _ := geo.Scope.Get("Point")
	p, err := b.Construct(ctx, pt.(*object.NativeType), []object.Object{object.NewInteger(1), object.NewInteger(2)}, nil)
	if err != nil {
		t.Fatal(err)
	}
	scope := b.ScopeOf(p.(*object.NativeValue), nil)
	move, _ := scope.Get("Move")
	if _, err := b.Call(ctx, move.(*object.NativeFunction), []object.Object{object.NewInteger(1), object.NewInteger(1)}, nil); err != nil {
		t.Fatal(err)
	}
	loc, ok := scope.Locate("Y")
	if !ok {
		t.Fatal("field Y must be writable")
	}
	if err := loc.Store(object.NewInteger(10)); err != nil {
		t.Fatal(err)
	}
	sum, _ := scope.Get("Sum")
	got, _ = b.Call(ctx, sum.(*object.NativeFunction), nil, nil)
	if got.Inspect() != "12" {
		t.Errorf("Sum() = %s", got.Inspect())
	}
	if _, ok := scope.Get("hidden"); ok {
		t.Errorf("unexported fields must not be visible")
	}
	if diff := cmp.Diff([]string{"Move", "Sum", "X", "Y"}, scope.Names()); diff != "" {
		t.Errorf("names mismatch (-want +got):\n%s", diff)
	}
}

func TestBridge_ConstructWithoutConstructors(t *testing.T) {
	b := New(nil, nil)
	ctx := context.Background()
	v, err := b.Construct(ctx, &object.NativeType{T: typeOf[celsius]()}, []object.Object{object.NewReal(21.5)}, nil)
	if err != nil {
		t.Fatal(err)
	}
	if got := v.Inspect(); got != "21.5" {
		t.Errorf("celsius(21.5) = %s", got)
	}
	zero, err := b.Construct(ctx, &object.NativeType{T: typeOf[point]()}, nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	if got := zero.Inspect(); got != "{0 0 0}" {
		t.Errorf("zero point = %s", got)
	}
}
