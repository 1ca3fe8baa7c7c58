// Package port binds the ports of an external core to bus signals, clocks,
// pins, and literals.
package port

import (
	"fmt"
	"math/bits"
	"strconv"

	"github.com/sarchlab/ipgen/param"
)

// Expr is a port width expression over the parameters of a core.
type Expr interface {
	Eval(s param.Set) (int, error)
	String() string
}

type constExpr int

// Const is a fixed width.
func Const(n int) Expr { return constExpr(n) }

func (c constExpr) Eval(param.Set) (int, error) { return int(c), nil }
func (c constExpr) String() string              { return strconv.Itoa(int(c)) }

type paramExpr string

// Param reads an integer parameter. A boolean parameter reads as 0 or 1.
func Param(name string) Expr { return paramExpr(name) }

func (p paramExpr) Eval(s param.Set) (int, error) {
	name := string(p)
	if !s.Has(name) {
		return 0, fmt.Errorf("parameter %q is not defined", name)
	}

	switch v := s.Value(name).(type) {
	case int:
		return v, nil
	case bool:
		if v {
			return 1, nil
		}

		return 0, nil
	}

	return 0, fmt.Errorf("parameter %q is not numeric", name)
}

func (p paramExpr) String() string { return string(p) }

type log2Expr struct{ e Expr }

// Log2Ceil is ceil(log2(e)), the number of bits needed to index e entries.
func Log2Ceil(e Expr) Expr { return log2Expr{e} }

func (l log2Expr) Eval(s param.Set) (int, error) {
	v, err := l.e.Eval(s)
	if err != nil {
		return 0, err
	}

	if v <= 0 {
		return 0, fmt.Errorf("log2 of %d in %s", v, l)
	}

	return bits.Len(uint(v - 1)), nil
}

func (l log2Expr) String() string { return "ceil(log2(" + l.e.String() + "))" }

type binExpr struct {
	op   byte
	a, b Expr
}

// Add is a+b.
func Add(a, b Expr) Expr { return binExpr{'+', a, b} }

// Mul is a*b.
func Mul(a, b Expr) Expr { return binExpr{'*', a, b} }

// Div is a/b, truncating.
func Div(a, b Expr) Expr { return binExpr{'/', a, b} }

func (e binExpr) Eval(s param.Set) (int, error) {
	a, err := e.a.Eval(s)
	if err != nil {
		return 0, err
	}

	b, err := e.b.Eval(s)
	if err != nil {
		return 0, err
	}

	switch e.op {
	case '+':
		return a + b, nil
	case '*':
		return a * b, nil
	case '/':
		if b == 0 {
			return 0, fmt.Errorf("division by zero in %s", e)
		}

		return a / b, nil
	}

	panic("unknown operator " + string(e.op))
}

func (e binExpr) String() string {
	return "(" + e.a.String() + string(e.op) + e.b.String() + ")"
}
