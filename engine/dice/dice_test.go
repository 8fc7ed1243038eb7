package dice

import (
	"errors"
	"testing"
)

type fixedRoller int

func (f fixedRoller) Roll(sides int) int {
	if int(f) > sides {
		return sides
	}
	return int(f)
}

func TestParse(t *testing.T) {
	tests := []struct {
		in   string
		want Expr
		err  bool
	}{
		{"3d6", Expr{Count: 3, Sides: 6}, false},
		{"1D8", Expr{Count: 1, Sides: 8}, false},
		{" 2d10 ", Expr{Count: 2, Sides: 10}, false},
		{"d6", Expr{}, true},
		{"3d", Expr{}, true},
		{"0d6", Expr{}, true},
		{"3d0", Expr{}, true},
		{"three d six", Expr{}, true},
		{"36", Expr{}, true},
	}
	for _, tt := range tests {
		got, err := Parse(tt.in)
		if tt.err {
			if !errors.Is(err, ErrInvalidExpr) {
				t.Errorf("Parse(%q) err = %v, want ErrInvalidExpr", tt.in, err)
			}
			continue
		}
		if err != nil {
			t.Errorf("Parse(%q) unexpected error %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("Parse(%q) = %+v, want %+v", tt.in, got, tt.want)
		}
	}
}

func TestContains_Boundaries(t *testing.T) {
	for _, s := range []string{"1d4", "2d6", "3d6", "4d6", "2d8", "3d10"} {
		e, err := Parse(s)
		if err != nil {
			t.Fatal(err)
		}
		n, max := e.Count, e.Count*e.Sides
		if !e.Contains(n) || !e.Contains(max) {
			t.Errorf("%s: boundaries %d and %d must be accepted", s, n, max)
		}
		if e.Contains(n-1) || e.Contains(max+1) {
			t.Errorf("%s: %d and %d must be rejected", s, n-1, max+1)
		}
	}
}

func TestRoll(t *testing.T) {
	e := Expr{Count: 3, Sides: 6}
	if got := e.Roll(fixedRoller(1)); got != 3 {
		t.Errorf("all ones = %d, want 3", got)
	}
	if got := e.Roll(fixedRoller(6)); got != 18 {
		t.Errorf("all sixes = %d, want 18", got)
	}
	if e.String() != "3d6" {
		t.Errorf("String = %q", e.String())
	}
}
