package engine

import (
	"github.com/rohmanhakim/conditions/internal/condition"
	"github.com/rohmanhakim/conditions/pkg/failure"
)

type unitState struct {
	warnings []*condition.Condition
}

// Outcome is what a top-level unit reports to its driver.
type Outcome struct {
	Failed bool
	// Abort is the condition that aborted the unit, nil otherwise.
	Abort *condition.Condition
	// Warnings holds every warning deferred during the unit.
	Warnings []*condition.Condition
	// Panic is an ordinary Go panic that escaped the unit.
	Panic any
}

func (o Outcome) Severity() failure.Severity {
	if o.Failed {
		return failure.SeverityFatal
	}
	return failure.SeverityRecoverable
}

// Err returns the unit's failure as an error, nil when it succeeded.
func (o Outcome) Err() error {
	switch {
	case o.Abort != nil:
		return &Abort{Condition: o.Abort}
	case o.Panic != nil:
		return &PanicError{Value: o.Panic}
	default:
		return nil
	}
}

/*
RunTopLevel runs body as one top-level unit.

An unhandled error or interrupt inside body aborts it and marks the
outcome failed. Warnings deferred during the unit are flushed to the
diagnostic sink as one summary when it finishes, whether it failed or not.
A Go panic that is not a condition transfer also fails the unit and is
reported to the sink.

Units nest: each keeps its own deferred warnings. Restart jumps to frames
outside the unit pass through untouched.
*/
func (e *Env) RunTopLevel(body func()) (out Outcome) {
	prev := e.unit
	e.unit = &unitState{}

	defer func() {
		r := recover()
		out.Warnings = e.unit.warnings
		e.unit = prev
		e.flushWarnings(out.Warnings)

		switch v := r.(type) {
		case nil:
		case *Abort:
			out.Failed = true
			out.Abort = v.Condition
		case *unwind, *jump:
			panic(r)
		default:
			out.Failed = true
			out.Panic = v
			e.sink.Emit(condition.KindError, (&PanicError{Value: v}).Error())
		}
	}()

	body()
	return out
}
