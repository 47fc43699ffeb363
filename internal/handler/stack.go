package handler

import "github.com/rohmanhakim/conditions/internal/condition"

/*
Stack is the ordered set of handlers active in one execution context.

Responsibilities
- Append a scope's entries on scope entry, truncate them on scope exit
- Expose entries most-recent first for dispatch
- Narrow the visible stack while a calling handler runs

A Stack belongs to a single goroutine. It is never shared.
*/
type Stack struct {
	entries []Entry
	nextID  ScopeID
}

func NewStack() *Stack {
	return &Stack{}
}

// Mark is a truncation point returned by Push.
type Mark int

// Push installs entries for a new scope, all sharing a fresh ScopeID,
// and returns the mark to truncate back to on exit.
func (s *Stack) Push(mode Mode, specs ...Spec) (ScopeID, Mark) {
	s.nextID++
	id := s.nextID
	mark := Mark(len(s.entries))
	for i, spec := range specs {
		s.entries = append(s.entries, Entry{
			Class: spec.Class,
			Mode:  mode,
			Scope: id,
			Index: i,
			Fn:    spec.Fn,
		})
	}
	return id, mark
}

// Truncate removes every entry installed at or after mark.
func (s *Stack) Truncate(mark Mark) {
	if int(mark) > len(s.entries) {
		return
	}
	clear(s.entries[mark:])
	s.entries = s.entries[:mark]
}

func (s *Stack) Len() int {
	return len(s.entries)
}

// At returns the entry at position i, 0 being the outermost.
func (s *Stack) At(i int) Entry {
	return s.entries[i]
}

// Entries returns a copy of the stack, most recent first.
func (s *Stack) Entries() []Entry {
	out := make([]Entry, 0, len(s.entries))
	for i := len(s.entries) - 1; i >= 0; i-- {
		out = append(out, s.entries[i])
	}
	return out
}

// Snapshot is a saved stack state restored by Restore.
type Snapshot struct {
	entries []Entry
}

/*
NarrowFor hides the handler at position pos while its callback runs for c.

The visible stack becomes every entry installed below pos's scope, plus
the entries of that same scope that do not match c. Scopes installed by
the callback itself are pushed on top of that view. The returned snapshot
must be passed to Restore when the callback exits, on every path.
*/
func (s *Stack) NarrowFor(pos int, c *condition.Condition) Snapshot {
	saved := Snapshot{entries: s.entries}
	scope := s.entries[pos].Scope

	base := pos
	for base > 0 && s.entries[base-1].Scope == scope {
		base--
	}

	view := make([]Entry, base, len(s.entries))
	copy(view, s.entries[:base])
	for i := base; i < len(s.entries) && s.entries[i].Scope == scope; i++ {
		if !s.entries[i].Matches(c) {
			view = append(view, s.entries[i])
		}
	}
	s.entries = view
	return saved
}

func (s *Stack) Restore(snap Snapshot) {
	s.entries = snap.entries
}
