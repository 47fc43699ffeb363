package condition

import (
	"fmt"
	"strings"
)

// Kind is the built-in severity a class belongs to.
type Kind int

const (
	// KindCondition is the root of the taxonomy. A handler for it sees every signal.
	KindCondition Kind = iota
	KindMessage
	KindWarning
	KindError
	// KindInterrupt is asynchronous cancellation. It is dispatched like an error
	// but an Error handler does not match it.
	KindInterrupt
)

func (k Kind) String() string {
	switch k {
	case KindCondition:
		return "condition"
	case KindMessage:
		return "message"
	case KindWarning:
		return "warning"
	case KindError:
		return "error"
	case KindInterrupt:
		return "interrupt"
	default:
		return "unknown"
	}
}

const subtypeSep = "/"

/*
Class identifies what a condition is: a built-in kind plus an optional
path of subtype tags ordered from general to specific.

	condition.Warning                              // any warning
	condition.Warning.Sub("deprecated")            // deprecation warnings
	condition.Warning.Sub("deprecated").Sub("api") // a narrower one

Class is a comparable value. Matching is subtype-or-self: a handler
registered for a class matches every condition whose class is that class
or one of its subtypes.
*/
type Class struct {
	kind Kind
	path string
}

var (
	Any       = Class{kind: KindCondition}
	Message   = Class{kind: KindMessage}
	Warning   = Class{kind: KindWarning}
	Error     = Class{kind: KindError}
	Interrupt = Class{kind: KindInterrupt}
)

// Sub declares a subtype of c tagged with tag.
func (c Class) Sub(tag string) Class {
	if tag == "" || strings.Contains(tag, subtypeSep) {
		panic(fmt.Sprintf("condition: invalid subtype tag %q", tag))
	}
	if c.path == "" {
		return Class{kind: c.kind, path: tag}
	}
	return Class{kind: c.kind, path: c.path + subtypeSep + tag}
}

func (c Class) Kind() Kind {
	return c.kind
}

// Subtypes returns the subtype tags, general to specific.
func (c Class) Subtypes() []string {
	if c.path == "" {
		return nil
	}
	return strings.Split(c.path, subtypeSep)
}

// Parent returns the class c was derived from. The parent of a built-in is Any.
func (c Class) Parent() Class {
	if c.path == "" {
		return Any
	}
	i := strings.LastIndex(c.path, subtypeSep)
	if i < 0 {
		return Class{kind: c.kind}
	}
	return Class{kind: c.kind, path: c.path[:i]}
}

// Matches reports whether a handler registered for c handles a condition
// of class target.
func (c Class) Matches(target Class) bool {
	if c.kind == KindCondition && c.path == "" {
		return true
	}
	if c.kind != target.kind {
		return false
	}
	if c.path == "" || c.path == target.path {
		return true
	}
	return strings.HasPrefix(target.path, c.path+subtypeSep)
}

// Terminal reports whether an unhandled condition of this class aborts the
// current top-level unit.
func (c Class) Terminal() bool {
	return c.kind == KindError || c.kind == KindInterrupt
}

// Resumable reports whether signaling returns to the call site by default.
func (c Class) Resumable() bool {
	return c.kind == KindWarning || c.kind == KindMessage
}

func (c Class) String() string {
	if c.path == "" {
		return c.kind.String()
	}
	return c.kind.String() + subtypeSep + c.path
}

// ParseClass parses the String form of a class, e.g. "warning/deprecated".
func ParseClass(s string) (Class, error) {
	head, rest, _ := strings.Cut(strings.TrimSpace(s), subtypeSep)

	var cls Class
	switch strings.ToLower(head) {
	case "condition":
		cls = Any
	case "message":
		cls = Message
	case "warning":
		cls = Warning
	case "error":
		cls = Error
	case "interrupt":
		cls = Interrupt
	default:
		return Class{}, fmt.Errorf("%w: %q", ErrUnknownClass, s)
	}

	if rest == "" {
		return cls, nil
	}
	for _, tag := range strings.Split(rest, subtypeSep) {
		if tag == "" {
			return Class{}, fmt.Errorf("%w: empty subtype in %q", ErrUnknownClass, s)
		}
		cls = cls.Sub(tag)
	}
	return cls, nil
}
