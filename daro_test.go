package daro

import (
	"bytes"
	"context"
	"errors"
	"math/big"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/podhmo/daro/ast"
	"github.com/podhmo/daro/evaluator"
	"github.com/podhmo/daro/fs"
	"github.com/podhmo/daro/object"
	"github.com/podhmo/daro/parser"
)

func run(t *testing.T, i *Interpreter, src string) object.Object {
	t.Helper()
	res, err := i.Execute(context.Background(), src)
	if err != nil {
		t.Fatalf("Execute(%q) failed: %v", src, err)
	}
	return res.Value
}

func TestInterpreter_PersistentScope(t *testing.T) {
	i := New()
	run(t, i, "x = 40")
	run(t, i, "fn inc(n) { n + 1 }")
	if got := run(t, i, "inc(x) + 1").Inspect(); got != "42" {
		t.Errorf("got %s, want 42", got)
	}

	i.Reset()
	if _, err := i.Execute(context.Background(), "x"); err == nil {
		t.Error("expected x to be undefined after Reset")
	}
	i.Reset()
	if got := run(t, i, "len([1, 2])").Inspect(); got != "2" {
		t.Errorf("prelude lost after Reset: got %s", got)
	}
}

func TestInterpreter_Stdout(t *testing.T) {
	var stdout bytes.Buffer
	i := New(WithStdout(&stdout))
	run(t, i, `println("hello", 1 + 1)`)
	if diff := cmp.Diff("hello 2\n", stdout.String()); diff != "" {
		t.Errorf("stdout mismatch (-want +got):\n%s", diff)
	}
}

func TestInterpreter_CallAndLookup(t *testing.T) {
	i := New()
	run(t, i, "fn greet(name, n) { name * n }")

	res, err := i.Call(context.Background(), "greet", "ab", 2)
	if err != nil {
		t.Fatalf("Call failed: %v", err)
	}
	var got string
	if err := res.As(&got); err != nil {
		t.Fatalf("As failed: %v", err)
	}
	if got != "abab" {
		t.Errorf("got %q, want %q", got, "abab")
	}

	if _, ok := i.Lookup("greet"); !ok {
		t.Error("greet should be bound")
	}
	if _, err := i.Call(context.Background(), "missing"); err == nil {
		t.Error("expected an error for an unknown function")
	}
	if _, err := i.Call(context.Background(), "greet", "x"); err == nil {
		t.Error("expected an arity error")
	}
}

func TestInterpreter_Globals(t *testing.T) {
	type point struct{ X, Y int }
	i := New(WithGlobals(map[string]any{
		"limit":  10,
		"origin": point{X: 1, Y: 2},
		"name":   &object.String{Value: "daro"},
	}))
	if got := run(t, i, "limit * 2").Inspect(); got != "20" {
		t.Errorf("got %s, want 20", got)
	}
	if got := run(t, i, "origin.X + origin.Y").Inspect(); got != "3" {
		t.Errorf("got %s, want 3", got)
	}
	if got := run(t, i, "name").Inspect(); got != "daro" {
		t.Errorf("got %s, want daro", got)
	}
	if _, err := i.Execute(context.Background(), "limit = 1"); err == nil {
		t.Error("globals should be constant")
	}
}

func TestInterpreter_Stdlib(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"strings", `import "strings" as s; s.ToUpper("abc") + s.Repeat("-", 2)`, "ABC--"},
		{"strings builder", `import "strings" as s; b = new s.Builder; b.WriteString("hi"); b.String()`, "hi"},
		{"strings replacer", `import "strings" as s; r = new s.Replacer{"a", "1"}; r.Replace("banana")`, "b1n1n1"},
		{"strconv", `import "strconv"; Itoa(42) + "!"`, "42!"},
		{"math int overload", `use "math"; math.Abs(-3)`, "3"},
		{"math float overload", `use "math"; math.Abs(-1.5)`, "1.5"},
		{"math float", `use "math"; math.Sqrt(16)`, "4.0"},
		{"slices", `use "slices"; a = [3, 1, 2]; slices.Sort(a); a`, "[1, 2, 3]"},
		{"slices contains", `from "slices" import Contains; Contains(["a", "b"], "b")`, "true"},
		{"hex", `use "encoding/hex"; hex.EncodedLen(4)`, "8"},
		{"native namespace", `native.encoding.hex.DecodedLen(8)`, "4"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			i := New()
			if got := run(t, i, tt.input).Inspect(); got != tt.want {
				t.Errorf("got %s, want %s", got, tt.want)
			}
		})
	}

	t.Run("without stdlib", func(t *testing.T) {
		i := New(WithoutStdlib())
		if _, err := i.Execute(context.Background(), `import "strings"`); err == nil {
			t.Error("expected strings to be unavailable")
		}
	})
}

func TestInterpreter_Register(t *testing.T) {
	i := New(WithoutStdlib())
	i.Register("greeting", map[string]any{
		"Hello": func(name string) string { return "hello " + name },
		"Fail":  func() (int, error) { return 0, errors.New("boom") },
	})
	if got := run(t, i, `use "greeting"; greeting.Hello("world")`).Inspect(); got != "hello world" {
		t.Errorf("got %s", got)
	}
	_, err := i.Execute(context.Background(), "greeting.Fail()")
	if err == nil || !strings.Contains(err.Error(), "boom") {
		t.Errorf("expected the host error, got %v", err)
	}
}

func TestInterpreter_ScriptCallbacksInHostContainers(t *testing.T) {
	handlers := map[string]func(int) int{}
	i := New(
		WithoutStdlib(),
		WithGlobals(map[string]any{"handlers": handlers}),
	)
	i.Register("hooks", map[string]any{
		"Run": func(m map[string]func(int) int, name string, n int) int { return m[name](n) },
	})

	run(t, i, `handlers["double"] = fn(x) { x * 2 }`)
	if got := run(t, i, `use "hooks"; hooks.Run(handlers, "double", 21)`).Inspect(); got != "42" {
		t.Errorf("script side: got %s, want 42", got)
	}
	if got := run(t, i, `handlers["double"](5)`).Inspect(); got != "10" {
		t.Errorf("index call: got %s, want 10", got)
	}

	double, ok := handlers["double"]
	if !ok {
		t.Fatal("the callback was not stored into the host map")
	}
	if got := double(4); got != 8 {
		t.Errorf("host side: got %d, want 8", got)
	}
}

func TestInterpreter_ExecuteFile(t *testing.T) {
	files := fs.NewMemFS(map[string]string{
		"main.daro":    `use "lib/util"; util.double(21)`,
		"lib/util.daro": "fn double(x) { x * 2 }",
		"bad.daro":     "x = (",
		"fail.daro":    "y = 1\nz = y / 0",
	})
	i := New(WithFS(files))

	res, err := i.ExecuteFile(context.Background(), "main.daro")
	if err != nil {
		t.Fatalf("ExecuteFile failed: %v", err)
	}
	if res.Value.Inspect() != "42" {
		t.Errorf("got %s, want 42", res.Value.Inspect())
	}

	if _, err := i.ExecuteFile(context.Background(), "missing.daro"); err == nil {
		t.Error("expected an error for a missing file")
	}

	t.Run("syntax error", func(t *testing.T) {
		_, err := i.ExecuteFile(context.Background(), "bad.daro")
		var diag Diagnostic
		if !errors.As(err, &diag) {
			t.Fatalf("expected a Diagnostic, got %T: %v", err, err)
		}
		var perr *parser.Error
		if !errors.As(err, &perr) {
			t.Errorf("expected a *parser.Error, got %T", err)
		}
		if diag.Position().File != "bad.daro" {
			t.Errorf("position file = %q", diag.Position().File)
		}
	})
	t.Run("runtime error", func(t *testing.T) {
		_, err := i.ExecuteFile(context.Background(), "fail.daro")
		var diag Diagnostic
		if !errors.As(err, &diag) {
			t.Fatalf("expected a Diagnostic, got %T: %v", err, err)
		}
		pos := diag.Position()
		if pos.File != "fail.daro" || pos.Start < len("y = 1\n") {
			t.Errorf("unexpected position %+v", pos)
		}
		if !strings.Contains(err.Error(), "division by zero") {
			t.Errorf("unexpected message %q", err.Error())
		}
	})
}

func TestInterpreter_ObserversPerExecution(t *testing.T) {
	i := New()
	var seen int
	obs := evaluator.ObserverFuncs{
		OnBeforeNode: func(ec *evaluator.ExecutionContext, node ast.Node) error {
			if _, ok := node.(*ast.CallExpr); ok {
				seen++
			}
			return nil
		},
	}
	if _, err := i.Execute(context.Background(), "len([1]); len([2])", obs); err != nil {
		t.Fatal(err)
	}
	if seen != 2 {
		t.Errorf("observer saw %d calls, want 2", seen)
	}
	run(t, i, "len([3])")
	if seen != 2 {
		t.Errorf("observer leaked into a later execution: %d", seen)
	}
}

func TestParseLiteral(t *testing.T) {
	tests := []struct {
		text string
		want string
	}{
		{"42", "42"},
		{"0x2a", "42"},
		{"-7", "-7"},
		{"+1.5", "1.5"},
		{`"hi"`, "hi"},
		{"'c'", "c"},
		{"true", "true"},
		{"null", "null"},
		{`[1, -2, "x", [true]]`, `[1, -2, "x", [true]]`},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			got, err := ParseLiteral(tt.text)
			if err != nil {
				t.Fatalf("ParseLiteral(%q) failed: %v", tt.text, err)
			}
			if got.Inspect() != tt.want {
				t.Errorf("got %s, want %s", got.Inspect(), tt.want)
			}
		})
	}

	for _, text := range []string{"1 + 2", "x", "f()", "!true", "["} {
		if _, err := ParseLiteral(text); err == nil {
			t.Errorf("ParseLiteral(%q) should fail", text)
		}
	}

	if !object.Equal(MustParseLiteral("0x2a"), MustParseLiteral("42")) {
		t.Error("0x2a and 42 should be equal")
	}
}

func TestResult_As(t *testing.T) {
	ctx := context.Background()
	i := New()
	eval := func(src string) *Result {
		t.Helper()
		res, err := i.Execute(ctx, src)
		if err != nil {
			t.Fatalf("Execute(%q) failed: %v", src, err)
		}
		return res
	}

	t.Run("scalars", func(t *testing.T) {
		var n int
		if err := eval("6 * 7").As(&n); err != nil || n != 42 {
			t.Errorf("int: got %d, %v", n, err)
		}
		var f float64
		if err := eval("1.5 + 1").As(&f); err != nil || f != 2.5 {
			t.Errorf("float: got %v, %v", f, err)
		}
		var b bool
		if err := eval("1 < 2").As(&b); err != nil || !b {
			t.Errorf("bool: got %v, %v", b, err)
		}
		var p *int
		if err := eval("5").As(&p); err != nil || p == nil || *p != 5 {
			t.Errorf("pointer: got %v, %v", p, err)
		}
	})

	t.Run("big numbers", func(t *testing.T) {
		var small int8
		if err := eval("1000").As(&small); err == nil {
			t.Error("expected an overflow error")
		}
		var u uint
		if err := eval("-1").As(&u); err == nil {
			t.Error("expected an overflow error for a negative unsigned")
		}
		var bi *big.Int
		if err := eval("2 ** 70").As(&bi); err != nil {
			t.Fatal(err)
		}
		want, _ := new(big.Int).SetString("1180591620717411303424", 10)
		if bi.Cmp(want) != 0 {
			t.Errorf("got %s, want %s", bi, want)
		}
	})

	t.Run("arrays", func(t *testing.T) {
		var got []string
		if err := eval(`["a", "b"]`).As(&got); err != nil {
			t.Fatal(err)
		}
		if diff := cmp.Diff([]string{"a", "b"}, got); diff != "" {
			t.Errorf("mismatch (-want +got):\n%s", diff)
		}
		var fixed [3]int
		if err := eval("new [3]int{1, 2}").As(&fixed); err != nil {
			t.Fatal(err)
		}
		if diff := cmp.Diff([3]int{1, 2, 0}, fixed); diff != "" {
			t.Errorf("mismatch (-want +got):\n%s", diff)
		}
		var anys any
		if err := eval(`[1, "x", null]`).As(&anys); err != nil {
			t.Fatal(err)
		}
		if diff := cmp.Diff([]any{1, "x", nil}, anys); diff != "" {
			t.Errorf("mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("instances", func(t *testing.T) {
		type Point struct {
			X, Y int
			Tags []string
		}
		var got Point
		src := `class point { x = 0; y = 0; tags = []; fn sum() { this.x + this.y } }; new point{x = 3, tags = ["a"]}`
		if err := eval(src).As(&got); err != nil {
			t.Fatal(err)
		}
		if diff := cmp.Diff(Point{X: 3, Tags: []string{"a"}}, got); diff != "" {
			t.Errorf("mismatch (-want +got):\n%s", diff)
		}

		var m map[string]int
		if err := eval(`class pair { a = 1; b = 2 }; new pair`).As(&m); err != nil {
			t.Fatal(err)
		}
		if diff := cmp.Diff(map[string]int{"a": 1, "b": 2}, m); diff != "" {
			t.Errorf("mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("errors", func(t *testing.T) {
		var s string
		if err := eval("1").As(&s); err == nil {
			t.Error("expected a type mismatch error")
		}
		if err := eval("1").As(s); err == nil {
			t.Error("expected a non-pointer error")
		}
	})
}
