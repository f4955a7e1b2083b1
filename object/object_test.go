package object

import (
	"errors"
	"io"
	"math"
	"reflect"
	"testing"

	"github.com/podhmo/daro/ast"
	"github.com/podhmo/daro/token"
)

func TestObjectTypes(t *testing.T) {
	tests := []struct {
		obj             Object
		expectedType    ObjectType
		expectedInspect string
	}{
		{obj: NewInteger(123), expectedType: INTEGER_OBJ, expectedInspect: "123"},
		{obj: NewReal(1.5), expectedType: REAL_OBJ, expectedInspect: "1.5"},
		{obj: NewReal(3), expectedType: REAL_OBJ, expectedInspect: "3.0"},
		{obj: &String{Value: "hello"}, expectedType: STRING_OBJ, expectedInspect: "hello"},
		{obj: TRUE, expectedType: BOOLEAN_OBJ, expectedInspect: "true"},
		{obj: NULL, expectedType: NULL_OBJ, expectedInspect: "null"},
		{
			obj:             NewArray([]Object{NewInteger(1), &String{Value: "a"}, NULL}),
			expectedType:    ARRAY_OBJ,
			expectedInspect: `[1, "a", null]`,
		},
		{
			obj:             &Function{Name: "f", Params: []*ast.Ident{{Name: "a"}, {Name: "rest"}}, Variadic: true},
			expectedType:    FUNCTION_OBJ,
			expectedInspect: "fn f(a, ...rest)",
		},
		{obj: IntType, expectedType: TYPE_OBJ, expectedInspect: "int"},
		{obj: &ArrayType{Elem: IntType, Len: 3}, expectedType: TYPE_OBJ, expectedInspect: "[3]int"},
		{obj: &NativeValue{Value: reflect.ValueOf(42)}, expectedType: NATIVE_VALUE_OBJ, expectedInspect: "42"},
	}

	for _, tt := range tests {
		if tt.obj.Type() != tt.expectedType {
			t.Errorf("wrong type: expected=%q, got=%q", tt.expectedType, tt.obj.Type())
		}
		if tt.obj.Inspect() != tt.expectedInspect {
			t.Errorf("wrong inspect: expected=%q, got=%q", tt.expectedInspect, tt.obj.Inspect())
		}
	}
}

func TestTruthy(t *testing.T) {
	tests := []struct {
		obj  Object
		want bool
	}{
		{NewInteger(0), false},
		{NewInteger(-1), true},
		{NewReal(0), false},
		{NewReal(0.1), true},
		{&String{}, false},
		{&String{Value: "x"}, true},
		{FALSE, false},
		{NULL, false},
		{NewArray(nil), false},
		{NewArray([]Object{NULL}), true},
		{&NativeValue{Value: reflect.ValueOf((*int)(nil))}, false},
		{IntType, true},
	}
	for _, tt := range tests {
		if got := Truthy(tt.obj); got != tt.want {
			t.Errorf("Truthy(%s) = %v, want %v", tt.obj.Inspect(), got, tt.want)
		}
	}
}

func TestEqual(t *testing.T) {
	tests := []struct {
		a, b Object
		want bool
	}{
		{NewInteger(1), NewInteger(1), true},
		{NewInteger(1), NewReal(1), true},
		{NewReal(1.5), NewInteger(1), false},
		{&String{Value: "a"}, &String{Value: "a"}, true},
		{&String{Value: "1"}, NewInteger(1), false},
		{NULL, NULL, true},
		{NULL, FALSE, false},
		{NewArray([]Object{NewInteger(1), NewInteger(2)}), NewArray([]Object{NewInteger(1), NewReal(2)}), true},
		{NewArray([]Object{NewInteger(1)}), NewArray([]Object{NewInteger(1), NewInteger(2)}), false},
		{&NativeValue{Value: reflect.ValueOf("x")}, &NativeValue{Value: reflect.ValueOf("x")}, true},
		{NULL, &NativeValue{Value: reflect.ValueOf((*int)(nil))}, true},
		{&ArrayType{Elem: IntType, Len: -1}, &ArrayType{Elem: IntType, Len: -1}, true},
		{IntType, FloatType, false},
	}
	for _, tt := range tests {
		if got := Equal(tt.a, tt.b); got != tt.want {
			t.Errorf("Equal(%s, %s) = %v, want %v", tt.a.Inspect(), tt.b.Inspect(), got, tt.want)
		}
	}
}

func TestTypeOf(t *testing.T) {
	arr := &Array{ArrayType: &ArrayType{Elem: FloatType, Len: 2}}
	class := &ClassType{Decl: &ast.ClassDecl{Name: &ast.Ident{Name: "P"}}}
	tests := []struct {
		obj  Object
		want Type
	}{
		{NewInteger(1), IntType},
		{&String{}, StringType},
		{arr, arr.ArrayType},
		{&Builtin{Name: "len"}, FuncType},
		{&Instance{Class: class, Members: NewShadowingScope(nil)}, class},
		{FloatType, TypeType},
		{NULL, NullType},
	}
	for _, tt := range tests {
		if got := TypeOf(tt.obj); got != tt.want {
			t.Errorf("TypeOf(%s) = %s, want %s", tt.obj.Inspect(), got.Name(), tt.want.Name())
		}
	}
}

func TestZero(t *testing.T) {
	v, ok := Zero(&ArrayType{Elem: IntType, Len: 3})
	if !ok {
		t.Fatalf("Zero([3]int) not available")
	}
	if got := v.Inspect(); got != "[0, 0, 0]" {
		t.Errorf("Zero([3]int) = %s", got)
	}
	if v, _ := Zero(&ArrayType{Len: 2}); v.Inspect() != "[null, null]" {
		t.Errorf("Zero([2]) = %s", v.Inspect())
	}
	class := &ClassType{Decl: &ast.ClassDecl{Name: &ast.Ident{Name: "P"}}}
	if _, ok := Zero(class); ok {
		t.Errorf("class types have no static zero value")
	}
	if _, ok := Zero(&ArrayType{Elem: class, Len: 1}); ok {
		t.Errorf("arrays of classes have no static zero value")
	}
}

func TestArraySet_Coerces(t *testing.T) {
	arr := &Array{ArrayType: &ArrayType{Elem: FloatType, Len: 1}, Elements: []Object{NewReal(0)}}
	if err := arr.Set(0, NewInteger(2)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := arr.Elements[0].(*Real); !ok {
		t.Errorf("int stored into float array must widen, got %T", arr.Elements[0])
	}
	if err := arr.Set(0, &String{Value: "x"}); err == nil {
		t.Errorf("storing a string into a float array must fail")
	}
	if err := arr.Set(1, NewReal(1)); err == nil {
		t.Errorf("out of range store must fail")
	}
}

func TestConvert(t *testing.T) {
	tests := []struct {
		in   Object
		to   *BasicType
		want string
	}{
		{NewReal(3.7), IntType, "3"},
		{NewReal(-3.7), IntType, "-3"},
		{&String{Value: "0x10"}, IntType, "16"},
		{&String{Value: "010"}, IntType, "10"},
		{NewInteger(2), FloatType, "2.0"},
		{NewInteger(5), StringType, "5"},
		{&String{}, BoolType, "false"},
	}
	for _, tt := range tests {
		got, err := Convert(tt.in, tt.to)
		if err != nil {
			t.Errorf("Convert(%s, %s) unexpected error: %v", tt.in.Inspect(), tt.to.Name(), err)
			continue
		}
		if got.Inspect() != tt.want {
			t.Errorf("Convert(%s, %s) = %s, want %s", tt.in.Inspect(), tt.to.Name(), got.Inspect(), tt.want)
		}
	}
	if _, err := Convert(&String{Value: "abc"}, IntType); err == nil {
		t.Errorf("expected conversion error")
	}
}

func TestError(t *testing.T) {
	cause := io.ErrUnexpectedEOF
	err := &Error{
		Pos:       token.Position{File: "main.daro", Start: 3, End: 5},
		Message:   "boom",
		CallStack: []*CallFrame{{Function: "f"}},
		Cause:     cause,
	}
	if got := err.Error(); got != "main.daro:3:5: boom" {
		t.Errorf("Error() = %q", got)
	}
	if !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Errorf("errors.Is must reach the cause")
	}
	if got := NewError(token.NoPos, "plain").Error(); got != "plain" {
		t.Errorf("Error() without position = %q", got)
	}
}

func TestToReal(t *testing.T) {
	if r, err := ToReal(2.5); err != nil || r.Inspect() != "2.5" {
		t.Errorf("ToReal(2.5) = %v, %v", r, err)
	}
	for _, v := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		if _, err := ToReal(v); !errors.Is(err, ErrNonFinite) {
			t.Errorf("ToReal(%v) = %v, want ErrNonFinite", v, err)
		}
	}

	defer func() {
		if recover() == nil {
			t.Errorf("NewReal(NaN) must panic")
		}
	}()
	NewReal(math.NaN())
}

func TestConvert_RejectsInfinity(t *testing.T) {
	for _, s := range []string{"inf", "-Inf"} {
		if got, err := Convert(&String{Value: s}, FloatType); err == nil {
			t.Errorf("Convert(%q) = %s, want an error", s, got.Inspect())
		}
	}
}

func TestZero_NativePointerAllocates(t *testing.T) {
	type counter struct{ N int }
	v, ok := Zero(&NativeType{T: reflect.TypeOf(&counter{})})
	if !ok {
		t.Fatal("expected a zero value")
	}
	nv, ok := v.(*NativeValue)
	if !ok || nv.Value.IsNil() {
		t.Fatalf("expected an allocated pointer, got %#v", v)
	}
	nv.Value.Interface().(*counter).N = 1
}
