package driver

import (
	"errors"
	"fmt"

	"github.com/rohmanhakim/conditions/pkg/failure"
)

var ErrUnitsFailed = errors.New("one or more units failed")

// RunError reports a run in which at least one unit failed.
type RunError struct {
	Failed int
	Total  int
}

func (e *RunError) Error() string {
	return fmt.Sprintf("%s: %d of %d", ErrUnitsFailed.Error(), e.Failed, e.Total)
}

func (e *RunError) Severity() failure.Severity {
	return failure.SeverityFatal
}

func (e *RunError) Is(target error) bool {
	return target == ErrUnitsFailed
}
