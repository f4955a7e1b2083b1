package token

import "testing"

func TestLookup(t *testing.T) {
	tests := []struct {
		in   string
		want Kind
	}{
		{"fn", FN},
		{"class", CLASS},
		{"match", MATCH},
		{"null", NULL},
		{"fnx", IDENTIFIER},
		{"_", IDENTIFIER},
	}
	for _, tt := range tests {
		if got := Lookup(tt.in); got != tt.want {
			t.Errorf("Lookup(%q) = %s, want %s", tt.in, got, tt.want)
		}
	}
}

func TestMatchOperator_LongestMatch(t *testing.T) {
	tests := []struct {
		in       string
		want     Kind
		wantSize int
	}{
		{"**=1", POW_ASSIGN, 3},
		{"**1", POW, 2},
		{"*1", MUL, 1},
		{"<<=", SHL_ASSIGN, 3},
		{"<=", LEQ, 2},
		{"...x", ELLIPSIS, 3},
		{".x", PERIOD, 1},
		{"=>", ARROW, 2},
		{"==", EQL, 2},
	}
	for _, tt := range tests {
		got, n, ok := MatchOperator(tt.in)
		if !ok {
			t.Errorf("MatchOperator(%q) did not match", tt.in)
			continue
		}
		if got != tt.want || n != tt.wantSize {
			t.Errorf("MatchOperator(%q) = (%s, %d), want (%s, %d)", tt.in, got, n, tt.want, tt.wantSize)
		}
	}
	if _, _, ok := MatchOperator("@"); ok {
		t.Errorf("MatchOperator(@) should not match")
	}
}

func TestPosition(t *testing.T) {
	a := Position{File: "a.daro", Start: 4, End: 6}
	b := Position{File: "b.daro", Start: 1, End: 5}
	got := Span(a, b)
	want := Position{File: "a.daro", Start: 1, End: 6}
	if got != want {
		t.Errorf("Span() = %v, want %v", got, want)
	}
	if NoPos.IsValid() {
		t.Errorf("NoPos must not be valid")
	}
	if s := a.String(); s != "a.daro:4:6" {
		t.Errorf("String() = %q", s)
	}

	line, col := Position{Start: 6}.LineCol("ab\ncd\nef")
	if line != 3 || col != 1 {
		t.Errorf("LineCol() = %d:%d, want 3:1", line, col)
	}
}

func TestAssignOp(t *testing.T) {
	if op, ok := SHR_ASSIGN.AssignOp(); !ok || op != SHR {
		t.Errorf("SHR_ASSIGN.AssignOp() = %s, %v", op, ok)
	}
	if _, ok := ASSIGN.AssignOp(); ok {
		t.Errorf("ASSIGN is not a compound assignment")
	}
}
