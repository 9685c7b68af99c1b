package rpn

import "math"

// operator describes one operator symbol: how many operands it pops and how
// to combine them. args[0] is the operand pushed first.
type operator struct {
	arity int
	apply func(args []float64) (float64, error)
}

// operators 支持的运算符表
var operators = map[string]operator{
	"+": {arity: 2, apply: func(a []float64) (float64, error) { return a[0] + a[1], nil }},
	"-": {arity: 2, apply: func(a []float64) (float64, error) { return a[0] - a[1], nil }},
	"*": {arity: 2, apply: func(a []float64) (float64, error) { return a[0] * a[1], nil }},
	"/": {arity: 2, apply: func(a []float64) (float64, error) {
		if a[1] == 0 {
			return 0, errDivisionByZero
		}
		return a[0] / a[1], nil
	}},
	"%": {arity: 2, apply: func(a []float64) (float64, error) {
		if a[1] == 0 {
			return 0, errDivisionByZero
		}
		return math.Mod(a[0], a[1]), nil
	}},
	"^":   {arity: 2, apply: func(a []float64) (float64, error) { return math.Pow(a[0], a[1]), nil }},
	"min": {arity: 2, apply: func(a []float64) (float64, error) { return math.Min(a[0], a[1]), nil }},
	"max": {arity: 2, apply: func(a []float64) (float64, error) { return math.Max(a[0], a[1]), nil }},

	// 一元运算符
	"neg":   {arity: 1, apply: func(a []float64) (float64, error) { return -a[0], nil }},
	"abs":   {arity: 1, apply: func(a []float64) (float64, error) { return math.Abs(a[0]), nil }},
	"floor": {arity: 1, apply: func(a []float64) (float64, error) { return math.Floor(a[0]), nil }},
	"ceil":  {arity: 1, apply: func(a []float64) (float64, error) { return math.Ceil(a[0]), nil }},
}

// IsOperator reports whether tok is a known operator symbol.
func IsOperator(tok string) bool {
	_, ok := operators[tok]
	return ok
}
