package engine

import (
	"github.com/rohmanhakim/conditions/internal/condition"
	"github.com/rohmanhakim/conditions/internal/handler"
)

// CallingHandler runs in place atop the signal site. It does not unwind by
// itself; to stop a warning or message it invokes the muffle restart.
type CallingHandler struct {
	Class condition.Class
	Fn    func(*condition.Condition)
}

func OnCalling(class condition.Class, fn func(*condition.Condition)) CallingHandler {
	return CallingHandler{Class: class, Fn: fn}
}

// WithCalling installs handlers as one calling scope for the extent of body.
//
// A matching handler runs with the dynamic context of the signal intact.
// When it returns, dispatch continues with the next enclosing handler;
// for errors and interrupts that eventually means an outer catching scope
// or an aborted unit.
func WithCalling[T any](e *Env, handlers []CallingHandler, body func() T) T {
	e.SafePoint()

	specs := make([]handler.Spec, len(handlers))
	for i, h := range handlers {
		specs[i] = handler.Spec{Class: h.Class, Fn: h.Fn}
	}
	_, mark := e.stack.Push(handler.Calling, specs...)
	defer e.stack.Truncate(mark)

	return body()
}
