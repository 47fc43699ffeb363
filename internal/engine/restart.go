package engine

import (
	"fmt"

	"github.com/rohmanhakim/conditions/internal/condition"
	"github.com/rohmanhakim/conditions/internal/restart"
)

// ErrorRestart is the class signaled when an unknown restart is invoked.
var ErrorRestart = condition.Error.Sub("restart")

// protect runs fn and absorbs a jump to tok, reporting the jump's args.
// Every other panic keeps propagating.
func (e *Env) protect(tok restart.Token, fn func()) (args []any, invoked bool) {
	defer func() {
		r := recover()
		if r == nil {
			return
		}
		if j, ok := r.(*jump); ok && j.token == tok {
			args, invoked = j.args, true
			return
		}
		panic(r)
	}()

	fn()
	return nil, false
}

// InvokeRestart transfers control to the innermost restart named name.
// It does not return. Invoking a restart that is not established signals
// an error of class ErrorRestart.
func (e *Env) InvokeRestart(name string, args ...any) {
	r, ok := e.restarts.Find(name)
	if !ok {
		e.signalError(e.locate(condition.New(
			ErrorRestart,
			fmt.Sprintf("no restart %q established", name),
			condition.WithExtra("restart", name),
		), 1))
		return
	}

	e.trace.RecordRestart(e.unitID, name)
	panic(&jump{token: r.Token, name: name, args: args})
}

// MuffleWarning invokes the muffle-warning restart of the warning being handled.
func (e *Env) MuffleWarning() {
	e.InvokeRestart(restart.MuffleWarning)
}

// MuffleMessage invokes the muffle-message restart of the message being handled.
func (e *Env) MuffleMessage() {
	e.InvokeRestart(restart.MuffleMessage)
}

// Muffle invokes the muffle restart matching c's severity. It returns
// without effect for conditions that cannot be muffled.
func (e *Env) Muffle(c *condition.Condition) {
	switch c.Severity() {
	case condition.KindWarning:
		e.MuffleWarning()
	case condition.KindMessage:
		e.MuffleMessage()
	}
}

/*
WithRestart establishes a restart named name for the extent of body.

If code running inside body invokes it, body is abandoned and WithRestart
returns onInvoke(args...) instead, after the restart was removed.
*/
func WithRestart[T any](e *Env, name string, body func() T, onInvoke func(args ...any) T) T {
	e.SafePoint()

	var result T
	args, invoked := func() ([]any, bool) {
		tok := e.restarts.Establish(name)
		defer e.restarts.Remove(tok)
		return e.protect(tok, func() { result = body() })
	}()

	if invoked {
		return onInvoke(args...)
	}
	return result
}
