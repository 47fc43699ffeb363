package engine

import (
	"github.com/rohmanhakim/conditions/internal/condition"
	"github.com/rohmanhakim/conditions/internal/handler"
)

// CatchHandler unwinds to its scope and supplies the scope's result.
type CatchHandler[T any] struct {
	Class condition.Class
	Fn    func(*condition.Condition) T
}

func On[T any](class condition.Class, fn func(*condition.Condition) T) CatchHandler[T] {
	return CatchHandler[T]{Class: class, Fn: fn}
}

// Catch is CatchFinally without a finally guard.
func Catch[T any](e *Env, handlers []CatchHandler[T], body func() T) T {
	return CatchFinally(e, handlers, body, nil)
}

// Guard runs body and then cleanup, on every exit path.
func Guard[T any](e *Env, body func() T, cleanup func()) T {
	return CatchFinally(e, nil, body, cleanup)
}

/*
CatchFinally installs handlers as one catching scope and runs body.

  - body returns normally: finally runs, body's result is returned.
  - a signal matching one of handlers reaches this scope: every nested
    scope between the signal site and here has already run its guard,
    finally runs, then the first registered matching handler is called
    and its value becomes the result. body does not resume.
  - anything else unwinding through: finally runs and the unwind continues.

If finally itself fails (signals an error that unwinds, or panics), the
handler selection made above still stands and the handler still runs,
then the guard's failure propagates.
*/
func CatchFinally[T any](e *Env, handlers []CatchHandler[T], body func() T, finally func()) T {
	e.SafePoint()

	specs := make([]handler.Spec, len(handlers))
	for i, h := range handlers {
		specs[i] = handler.Spec{Class: h.Class}
	}
	id, mark := e.stack.Push(handler.Catching, specs...)

	var (
		result       T
		caught       *unwind
		guardFailure any
	)
	func() {
		defer func() {
			r := recover()
			e.stack.Truncate(mark)
			if u, ok := r.(*unwind); ok && u.scope == id {
				caught, r = u, nil
				e.trace.RecordUnwind(e.unitID, uint64(id), u.cond.Fingerprint())
			}
			if finally != nil {
				guardFailure = runGuard(finally)
			}
			if r == nil {
				return
			}
			if guardFailure != nil {
				panic(guardFailure)
			}
			panic(r)
		}()
		result = body()
	}()

	if caught != nil {
		result = handlers[caught.index].Fn(caught.cond)
	}
	if guardFailure != nil {
		panic(guardFailure)
	}
	return result
}

// runGuard runs a finally guard and returns whatever it panicked with.
func runGuard(fn func()) (failure any) {
	defer func() {
		failure = recover()
	}()
	fn()
	return nil
}
