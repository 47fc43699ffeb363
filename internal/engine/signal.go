package engine

import (
	"fmt"

	"github.com/rohmanhakim/conditions/internal/condition"
	"github.com/rohmanhakim/conditions/internal/restart"
)

// Signal dispatches c and returns. No restart is established and no
// default applies.
func (e *Env) Signal(c *condition.Condition) {
	e.SafePoint()
	e.dispatch(e.locate(c, 1))
}

// SignalError dispatches c with error semantics. It never returns: either a
// catching scope unwinds, or the top-level default aborts the unit.
func (e *Env) SignalError(c *condition.Condition) {
	e.SafePoint()
	e.signalError(e.locate(c, 1))
}

// SignalWarning dispatches c under a muffle-warning restart and applies the
// configured warning default if nothing muffled it. It returns to the
// caller unless a catching scope unwinds past it.
func (e *Env) SignalWarning(c *condition.Condition) {
	e.SafePoint()
	e.signalWarning(e.locate(c, 1))
}

// SignalMessage dispatches c under a muffle-message restart and writes it to
// the diagnostic sink if nothing muffled it.
func (e *Env) SignalMessage(c *condition.Condition) {
	e.SafePoint()
	e.signalMessage(e.locate(c, 1))
}

func (e *Env) Errorf(format string, args ...any) {
	e.SafePoint()
	e.signalError(e.locate(condition.New(condition.Error, fmt.Sprintf(format, args...)), 1))
}

func (e *Env) Warnf(format string, args ...any) {
	e.SafePoint()
	e.signalWarning(e.locate(condition.New(condition.Warning, fmt.Sprintf(format, args...)), 1))
}

func (e *Env) Messagef(format string, args ...any) {
	e.SafePoint()
	e.signalMessage(e.locate(condition.New(condition.Message, fmt.Sprintf(format, args...)), 1))
}

// Check signals err as an error condition when it is not nil.
func (e *Env) Check(err error) {
	if err == nil {
		return
	}
	e.SafePoint()
	e.signalError(e.locate(condition.FromError(err), 1))
}

func (e *Env) signalError(c *condition.Condition) {
	e.dispatch(c)
	e.onError(c)
}

func (e *Env) signalWarning(c *condition.Condition) {
	e.withMuffle(restart.MuffleWarning, c, e.onWarning)
}

func (e *Env) signalMessage(c *condition.Condition) {
	e.withMuffle(restart.MuffleMessage, c, e.onMessage)
}

// withMuffle establishes the named restart for the extent of one dispatch
// plus its default. Invoking the restart skips whatever is left of both.
func (e *Env) withMuffle(name string, c *condition.Condition, fallback func(*condition.Condition)) {
	tok := e.restarts.Establish(name)
	defer e.restarts.Remove(tok)

	e.protect(tok, func() {
		e.dispatch(c)
		fallback(c)
	})
}

// locate records the Go frame skip levels above locate's caller when call
// site capture is on and c has none yet.
func (e *Env) locate(c *condition.Condition, skip int) *condition.Condition {
	if !e.cfg.CaptureCallSites() {
		return c
	}
	if _, ok := c.CallSite(); ok {
		return c
	}
	site, ok := condition.Caller(skip + 1)
	if !ok {
		return c
	}
	return c.At(site)
}
