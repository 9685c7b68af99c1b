// Package rpn evaluates the postfix ("reverse Polish") formulas used by the
// content files: enemy counts, hit points, speeds, spawn delays, class stats,
// relic amounts and spell scaling.
//
// A formula is a whitespace separated token list. Tokens are numeric literals,
// variable names bound by the caller, or operator symbols:
//
//	"base wave +"         → base + wave
//	"95 wave 5 * +"       → 95 + wave*5
//	"wave 2 / 1 max"      → max(wave/2, 1)
//
// Evaluation never mutates the expression or the bindings and holds no shared
// state, so it is safe to call from any number of call sites concurrently.
package rpn

import (
	"math"
	"strconv"
	"strings"
)

// Vars 变量绑定：变量名 → 数值
type Vars map[string]float64

// Evaluate parses and evaluates expr against vars.
//
// Returns an *EvaluationError (matching ErrEvaluation via errors.Is) when the
// expression is empty, references an unknown token, underflows the stack,
// divides by zero, produces a non-finite value or does not leave exactly one
// value on the stack.
func Evaluate(expr string, vars Vars) (float64, error) {
	tokens := strings.Fields(expr)
	if len(tokens) == 0 {
		return 0, newError(expr, -1, "", errEmptyExpression)
	}

	stack := make([]float64, 0, len(tokens))
	for pos, tok := range tokens {
		// 解析顺序：数字字面量 → 变量 → 运算符
		if v, ok := parseLiteral(tok); ok {
			stack = append(stack, v)
			continue
		}

		if v, ok := vars[tok]; ok {
			stack = append(stack, v)
			continue
		}

		op, ok := operators[tok]
		if !ok {
			return 0, newError(expr, pos, tok, errUnknownToken)
		}

		if len(stack) < op.arity {
			return 0, newError(expr, pos, tok, errStackUnderflow)
		}

		// 先入栈的操作数是左操作数
		args := stack[len(stack)-op.arity:]
		result, err := op.apply(args)
		if err != nil {
			return 0, newError(expr, pos, tok, err)
		}
		if math.IsNaN(result) || math.IsInf(result, 0) {
			return 0, newError(expr, pos, tok, errNonFinite)
		}

		stack = stack[:len(stack)-op.arity]
		stack = append(stack, result)
	}

	if len(stack) != 1 {
		return 0, newError(expr, len(tokens), "", errUnbalanced)
	}
	return stack[0], nil
}

// SafeEvaluate evaluates expr and returns fallback on any evaluation error.
func SafeEvaluate(expr string, vars Vars, fallback float64) float64 {
	v, err := Evaluate(expr, vars)
	if err != nil {
		return fallback
	}
	return v
}

// SafeEvaluateInt is the whole-number shape of SafeEvaluate, used for enemy
// counts and hit points. The result is rounded half away from zero.
func SafeEvaluateInt(expr string, vars Vars, fallback int) int {
	v, err := Evaluate(expr, vars)
	if err != nil {
		return fallback
	}
	rounded := math.Round(v)
	if rounded > math.MaxInt32 || rounded < math.MinInt32 {
		return fallback
	}
	return int(rounded)
}

// Validate reports whether expr is well formed for the given variable names.
// Content loaders use it to reject broken formulas early; bindings are all
// set to 1 so that the check does not trip over a division by a variable.
func Validate(expr string, names ...string) error {
	vars := make(Vars, len(names))
	for _, name := range names {
		vars[name] = 1
	}
	_, err := Evaluate(expr, vars)
	return err
}

// parseLiteral 解析数字字面量，拒绝 NaN / Inf
func parseLiteral(tok string) (float64, bool) {
	v, err := strconv.ParseFloat(tok, 64)
	if err != nil {
		return 0, false
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}
