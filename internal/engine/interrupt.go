package engine

import "github.com/rohmanhakim/conditions/internal/condition"

// DefaultInterruptMessage is the message of an interrupt delivered without one.
const DefaultInterruptMessage = "interrupted"

// Interrupt schedules c for delivery at the Env's next safe point.
// It is safe to call from any goroutine. A nil c delivers a plain
// interrupt. Delivering again before the first fired replaces it.
func (e *Env) Interrupt(c *condition.Condition) {
	if c == nil {
		c = condition.New(condition.Interrupt, DefaultInterruptMessage)
	}
	e.pending.Store(c)
}

// SignalInterrupt dispatches c synchronously with error semantics. A
// handler for condition.Error does not match it.
func (e *Env) SignalInterrupt(c *condition.Condition) {
	e.signalError(e.locate(c, 1))
}

/*
SafePoint delivers a pending interrupt, if any.

Safe points are scope entry, every signal, every write to the ordinary
output, and any explicit call. Long-running bodies call SafePoint between
steps to stay cancellable.
*/
func (e *Env) SafePoint() {
	c := e.pending.Swap(nil)
	if c == nil {
		return
	}
	e.signalError(c)
}
