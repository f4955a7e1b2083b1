package lexer

import (
	"slices"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/podhmo/daro/token"
)

type tk struct {
	Kind token.Kind
	Text string
}

func scanAll(src string) []tk {
	var got []tk
	for tok := range New("", src).All() {
		got = append(got, tk{tok.Kind, tok.Text})
	}
	return got
}

func TestScanner(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want []tk
	}{
		{
			name: "definition",
			src:  "var x: int = 10",
			want: []tk{{token.VAR, "var"}, {token.IDENTIFIER, "x"}, {token.COLON, ":"}, {token.IDENTIFIER, "int"}, {token.ASSIGN, "="}, {token.INTEGER, "10"}},
		},
		{
			name: "integer bases",
			src:  "0b1010 0o17 0x2a 0X2A 42",
			want: []tk{{token.INTEGER, "0b1010"}, {token.INTEGER, "0o17"}, {token.INTEGER, "0x2a"}, {token.INTEGER, "0X2A"}, {token.INTEGER, "42"}},
		},
		{
			name: "prefix without digits",
			src:  "0x",
			want: []tk{{token.INVALID, "0x"}},
		},
		{
			name: "reals",
			src:  "1.5 1. 1e10 2.5e-3 1E+2",
			want: []tk{{token.REAL, "1.5"}, {token.REAL, "1."}, {token.REAL, "1e10"}, {token.REAL, "2.5e-3"}, {token.REAL, "1E+2"}},
		},
		{
			name: "dangling exponent",
			src:  "1e",
			want: []tk{{token.INTEGER, "1"}, {token.IDENTIFIER, "e"}},
		},
		{
			name: "identifiers take ASCII digits only",
			src:  "x1 y٣ _é2",
			want: []tk{{token.IDENTIFIER, "x1"}, {token.IDENTIFIER, "y"}, {token.INVALID, "٣"}, {token.IDENTIFIER, "_é2"}},
		},
		{
			name: "member access on integer is not a real",
			src:  "1.x",
			want: []tk{{token.INTEGER, "1"}, {token.PERIOD, "."}, {token.IDENTIFIER, "x"}},
		},
		{
			name: "comments",
			src:  "a // line\n/* outer /* inner */ still */ b",
			want: []tk{{token.IDENTIFIER, "a"}, {token.IDENTIFIER, "b"}},
		},
		{
			name: "unterminated block comment",
			src:  "a /* b",
			want: []tk{{token.IDENTIFIER, "a"}},
		},
		{
			name: "strings and chars",
			src:  `"a\"b" 'c'`,
			want: []tk{{token.STRING, `"a\"b"`}, {token.CHAR, `'c'`}},
		},
		{
			name: "unterminated string",
			src:  `"abc`,
			want: []tk{{token.STRING, `"abc`}},
		},
		{
			name: "longest match operators",
			src:  "a**=b<<c...d=>e",
			want: []tk{
				{token.IDENTIFIER, "a"}, {token.POW_ASSIGN, "**="}, {token.IDENTIFIER, "b"}, {token.SHL, "<<"},
				{token.IDENTIFIER, "c"}, {token.ELLIPSIS, "..."}, {token.IDENTIFIER, "d"}, {token.ARROW, "=>"}, {token.IDENTIFIER, "e"},
			},
		},
		{
			name: "unicode identifiers",
			src:  "größe _x1",
			want: []tk{{token.IDENTIFIER, "größe"}, {token.IDENTIFIER, "_x1"}},
		},
		{
			name: "invalid character",
			src:  "a @ b",
			want: []tk{{token.IDENTIFIER, "a"}, {token.INVALID, "@"}, {token.IDENTIFIER, "b"}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := scanAll(tt.src)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("tokens mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestScanner_Positions(t *testing.T) {
	s := New("main.daro", "ab  cd")
	first := s.Next()
	second := s.Next()
	if first.Pos != (token.Position{File: "main.daro", Start: 0, End: 2}) {
		t.Errorf("unexpected position %v", first.Pos)
	}
	if second.Pos != (token.Position{File: "main.daro", Start: 4, End: 6}) {
		t.Errorf("unexpected position %v", second.Pos)
	}
	eof := s.Next()
	if eof.Kind != token.EOF || eof.Pos.Start != 6 {
		t.Errorf("expected EOF at 6, got %v at %v", eof, eof.Pos)
	}
	if again := s.Next(); again.Kind != token.EOF {
		t.Errorf("EOF must be sticky, got %v", again)
	}
}

func TestScanner_PeekAndRevert(t *testing.T) {
	s := New("", "x = 1")
	if !s.HasNext(token.IDENTIFIER) {
		t.Fatalf("HasNext(IDENTIFIER) = false")
	}
	if s.HasNext(token.ASSIGN) {
		t.Fatalf("HasNext must only look one token ahead")
	}
	x := s.Next()
	if p := s.Peek(); p.Kind != token.ASSIGN {
		t.Fatalf("Peek() = %v", p)
	}
	s.Next()
	s.Revert(x)
	var got []string
	for tok := range s.All() {
		got = append(got, tok.Text)
	}
	if want := []string{"x", "=", "1"}; !slices.Equal(got, want) {
		t.Errorf("after Revert got %v, want %v", got, want)
	}
}

func TestUnquote(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{`"hello"`, "hello", false},
		{`"a\nb\t\"c\""`, "a\nb\t\"c\"", false},
		{`"é"`, "é", false},
		{`'\''`, "'", false},
		{`"abc`, "", true},
		{`"abc\"`, "", true},
		{`"\q"`, "", true},
		{`"\u12"`, "", true},
	}
	for _, tt := range tests {
		got, err := Unquote(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Errorf("Unquote(%s) expected error, got %q", tt.in, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("Unquote(%s) unexpected error: %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("Unquote(%s) = %q, want %q", tt.in, got, tt.want)
		}
	}

	if _, err := UnquoteChar(`'ab'`); err == nil {
		t.Errorf("UnquoteChar must reject multi-character literals")
	}
}

func TestParseInteger(t *testing.T) {
	for _, in := range []string{"42", "0x2a", "0b101010", "0o52", "042"} {
		n, err := ParseInteger(in)
		if err != nil {
			t.Fatalf("ParseInteger(%s): %v", in, err)
		}
		want := int64(42)
		if in == "042" {
			want = 42 // decimal, leading zeros do not mean octal
		}
		if n.Int64() != want {
			t.Errorf("ParseInteger(%s) = %s, want %d", in, n, want)
		}
	}
}

func TestParseReal(t *testing.T) {
	f, err := ParseReal("2.5e-3")
	if err != nil {
		t.Fatal(err)
	}
	if got, _ := f.Float64(); got != 0.0025 {
		t.Errorf("ParseReal = %v", got)
	}
	if f.Prec() != RealPrec {
		t.Errorf("precision = %d", f.Prec())
	}
}
