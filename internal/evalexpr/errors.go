package evalexpr

import "fmt"

// EvalError is returned for any failure inside tokenizing, parsing, or
// evaluating an expression. The interpreter reclassifies it as an
// InterpretError (spec §7) at the call site; the evaluator itself knows
// nothing about strict mode.
type EvalError struct {
	Message string
	Column  int
}

func (e *EvalError) Error() string {
	if e.Column >= 0 {
		return fmt.Sprintf("%s (at column %d)", e.Message, e.Column)
	}
	return e.Message
}

func errAt(col int, format string, args ...any) *EvalError {
	return &EvalError{Message: fmt.Sprintf(format, args...), Column: col}
}
