package driver

import (
	"time"

	"github.com/rohmanhakim/conditions/internal/engine"
)

// UnitReport is the result of one unit, in program order.
type UnitReport struct {
	Index    int
	ID       string
	Name     string
	Value    string
	Outcome  engine.Outcome
	Duration time.Duration
}

type Report struct {
	Units []UnitReport
}

func (r Report) Failed() int {
	n := 0
	for _, u := range r.Units {
		if u.Outcome.Failed {
			n++
		}
	}
	return n
}

// Err returns a *RunError when any unit failed.
func (r Report) Err() error {
	if n := r.Failed(); n > 0 {
		return &RunError{Failed: n, Total: len(r.Units)}
	}
	return nil
}
