package handler

import "github.com/rohmanhakim/conditions/internal/condition"

// Mode says what happens when an entry matches a signal.
type Mode int

const (
	// Catching entries unwind to their scope and replace its result.
	Catching Mode = iota
	// Calling entries run in place atop the signal site.
	Calling
)

func (m Mode) String() string {
	switch m {
	case Catching:
		return "catching"
	case Calling:
		return "calling"
	default:
		return "unknown"
	}
}

// ScopeID identifies the scope that installed an entry.
type ScopeID uint64

// Spec describes a handler to install. Fn is only used by calling
// handlers; catching callbacks stay with the scope that owns them.
type Spec struct {
	Class condition.Class
	Fn    func(*condition.Condition)
}

// Entry is one installed handler. Index is the handler's position in its
// scope's registration order.
type Entry struct {
	Class condition.Class
	Mode  Mode
	Scope ScopeID
	Index int
	Fn    func(*condition.Condition)
}

func (e Entry) Matches(c *condition.Condition) bool {
	return e.Class.Matches(c.Class())
}
