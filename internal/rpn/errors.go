package rpn

import (
	"errors"
	"fmt"
)

// ErrEvaluation is matched by every error returned from Evaluate.
var ErrEvaluation = errors.New("rpn: evaluation error")

var (
	errEmptyExpression = errors.New("empty expression")
	errUnknownToken    = errors.New("unknown token")
	errStackUnderflow  = errors.New("not enough operands")
	errUnbalanced      = errors.New("expression does not reduce to a single value")
	errDivisionByZero  = errors.New("division by zero")
	errNonFinite       = errors.New("non-finite result")
)

// EvaluationError describes why a formula could not be evaluated.
type EvaluationError struct {
	Expr  string // 原始表达式
	Pos   int    // 出错 token 的下标，-1 表示整体错误
	Token string // 出错 token（可能为空）
	Err   error  // 具体原因
}

func newError(expr string, pos int, tok string, cause error) *EvaluationError {
	return &EvaluationError{Expr: expr, Pos: pos, Token: tok, Err: cause}
}

func (e *EvaluationError) Error() string {
	if e.Token != "" {
		return fmt.Sprintf("rpn: %q: token %d (%q): %v", e.Expr, e.Pos, e.Token, e.Err)
	}
	return fmt.Sprintf("rpn: %q: %v", e.Expr, e.Err)
}

// Unwrap returns the underlying cause.
func (e *EvaluationError) Unwrap() error {
	return e.Err
}

// Is makes every EvaluationError match ErrEvaluation.
func (e *EvaluationError) Is(target error) bool {
	return target == ErrEvaluation
}
