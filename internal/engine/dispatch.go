package engine

import (
	"github.com/rohmanhakim/conditions/internal/condition"
	"github.com/rohmanhakim/conditions/internal/handler"
)

/*
dispatch walks the visible handler stack from the most recent scope to the
outermost one.

Within a scope handlers are tried in registration order. The first
catching handler that matches ends the walk by unwinding to its scope.
Calling handlers run in place and the walk continues below them. When
dispatch returns, nothing unwound and the caller applies its default.
*/
func (e *Env) dispatch(c *condition.Condition) {
	fp := c.Fingerprint()
	e.trace.RecordSignal(e.unitID, c.Class().String(), c.Message(), fp)

	top := e.stack.Len() - 1
	for top >= 0 {
		scope := e.stack.At(top).Scope
		base := top
		for base > 0 && e.stack.At(base-1).Scope == scope {
			base--
		}

		for i := base; i <= top; i++ {
			ent := e.stack.At(i)
			if !ent.Matches(c) {
				continue
			}
			e.trace.RecordHandler(e.unitID, ent.Mode.String(), uint64(ent.Scope), ent.Class.String(), fp)

			if ent.Mode == handler.Catching {
				panic(&unwind{scope: ent.Scope, index: ent.Index, cond: c})
			}
			e.callInPlace(i, ent, c)
		}
		top = base - 1
	}
}

// callInPlace runs a calling handler atop the signal site. Signals raised by
// the handler see the stack below its scope, not the handler itself.
func (e *Env) callInPlace(pos int, ent handler.Entry, c *condition.Condition) {
	snap := e.stack.NarrowFor(pos, c)
	defer e.stack.Restore(snap)
	ent.Fn(c)
}
