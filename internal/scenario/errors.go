package scenario

import (
	"errors"
	"fmt"

	"github.com/rohmanhakim/conditions/pkg/failure"
)

var (
	ErrParse       = errors.New("scenario: parse failed")
	ErrInvalidStep = errors.New("scenario: invalid step")
	ErrNoUnits     = errors.New("scenario: no units")
)

type ScenarioErrorCause string

const (
	ErrCauseRead    ScenarioErrorCause = "read failed"
	ErrCauseSyntax  ScenarioErrorCause = "syntax"
	ErrCauseInvalid ScenarioErrorCause = "invalid"
)

// ScenarioError locates a problem in a scenario file. Line is 0 when the
// problem is not tied to one node.
type ScenarioError struct {
	Message string
	Cause   ScenarioErrorCause
	Source  string
	Line    int
	Err     error
}

func (e *ScenarioError) Error() string {
	loc := e.Source
	if e.Line > 0 {
		loc = fmt.Sprintf("%s:%d", e.Source, e.Line)
	}
	if loc == "" {
		return fmt.Sprintf("scenario error: %s: %s", e.Cause, e.Message)
	}
	return fmt.Sprintf("scenario error: %s: %s: %s", loc, e.Cause, e.Message)
}

func (e *ScenarioError) Severity() failure.Severity {
	return failure.SeverityFatal
}

func (e *ScenarioError) Unwrap() error {
	return e.Err
}
