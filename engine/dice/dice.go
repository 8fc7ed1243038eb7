// Package dice parses and rolls "NdM" dice expressions.
package dice

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrInvalidExpr indicates a dice expression is not of the form NdM with
// positive N and M.
var ErrInvalidExpr = errors.New("dice expression must look like NdM with positive N and M")

// Roller produces one die result in [1, sides].
type Roller interface {
	Roll(sides int) int
}

// Expr is a parsed dice expression: Count dice with Sides faces each.
type Expr struct {
	Count int
	Sides int
}

// Parse reads "3d6" (case-insensitive) into an Expr.
func Parse(s string) (Expr, error) {
	n, m, ok := strings.Cut(strings.ToLower(strings.TrimSpace(s)), "d")
	if !ok {
		return Expr{}, fmt.Errorf("%q: %w", s, ErrInvalidExpr)
	}
	count, err := strconv.Atoi(n)
	if err != nil || count <= 0 {
		return Expr{}, fmt.Errorf("%q: %w", s, ErrInvalidExpr)
	}
	sides, err := strconv.Atoi(m)
	if err != nil || sides <= 0 {
		return Expr{}, fmt.Errorf("%q: %w", s, ErrInvalidExpr)
	}
	return Expr{Count: count, Sides: sides}, nil
}

// Min is the lowest possible total.
func (e Expr) Min() int { return e.Count }

// Max is the highest possible total.
func (e Expr) Max() int { return e.Count * e.Sides }

// Contains reports whether total is a possible result of e.
func (e Expr) Contains(total int) bool {
	return total >= e.Min() && total <= e.Max()
}

// Roll sums Count rolls of a Sides-faced die.
func (e Expr) Roll(r Roller) int {
	total := 0
	for i := 0; i < e.Count; i++ {
		total += r.Roll(e.Sides)
	}
	return total
}

func (e Expr) String() string {
	return fmt.Sprintf("%dd%d", e.Count, e.Sides)
}
