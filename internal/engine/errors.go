package engine

import (
	"errors"
	"fmt"

	"github.com/rohmanhakim/conditions/internal/condition"
	"github.com/rohmanhakim/conditions/internal/handler"
	"github.com/rohmanhakim/conditions/internal/restart"
	"github.com/rohmanhakim/conditions/pkg/failure"
)

var ErrTryFailure = errors.New("try: evaluation failed")

// Abort is raised when a terminal condition reaches the top level
// unhandled. It unwinds every scope up to the enclosing top-level unit.
type Abort struct {
	Condition *condition.Condition
}

func (e *Abort) Error() string {
	return fmt.Sprintf("unit aborted: %s", e.Condition.Error())
}

func (e *Abort) Severity() failure.Severity {
	return failure.SeverityFatal
}

func (e *Abort) Unwrap() error {
	return e.Condition
}

// TryError is returned by Try when the body signaled an error.
type TryError struct {
	Condition *condition.Condition
}

func (e *TryError) Error() string {
	return fmt.Sprintf("%s: %s", ErrTryFailure.Error(), e.Condition.Message())
}

func (e *TryError) Severity() failure.Severity {
	return failure.SeverityRecoverable
}

func (e *TryError) Is(target error) bool {
	return target == ErrTryFailure
}

func (e *TryError) Unwrap() error {
	return e.Condition
}

// PanicError is a Go panic that escaped a top-level unit.
type PanicError struct {
	Value any
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("panic: %v", e.Value)
}

func (e *PanicError) Severity() failure.Severity {
	return failure.SeverityFatal
}

// unwind transfers control to the catching scope that matched.
type unwind struct {
	scope handler.ScopeID
	index int
	cond  *condition.Condition
}

// jump transfers control back to the frame that established a restart.
type jump struct {
	token restart.Token
	name  string
	args  []any
}
