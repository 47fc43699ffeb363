package condition

import (
	"errors"
	"sort"

	"github.com/rohmanhakim/conditions/pkg/hashutil"
)

/*
Condition describes one signaled event.

A Condition is immutable: it is built once by New (or derived with At and
Convert, which return copies) and is read-only for every handler that
sees it. Nothing retains it after dispatch completes.
*/
type Condition struct {
	class    Class
	message  string
	callSite *CallSite
	extra    map[string]any
	call     func() any
	cause    error
}

type Option func(*Condition)

// WithCallSite records where the condition was signaled.
func WithCallSite(cs CallSite) Option {
	return func(c *Condition) {
		site := cs
		c.callSite = &site
	}
}

// WithExtra attaches one extra field.
func WithExtra(key string, value any) Option {
	return func(c *Condition) {
		c.extra[key] = value
	}
}

// WithExtras attaches every entry of m. The map is copied.
func WithExtras(m map[string]any) Option {
	return func(c *Condition) {
		for k, v := range m {
			c.extra[k] = v
		}
	}
}

// WithCall attaches a re-invocable form of the signaling call so handlers
// can replay it for diagnostics.
func WithCall(fn func() any) Option {
	return func(c *Condition) {
		c.call = fn
	}
}

// WithCause records the Go error the condition was built from.
func WithCause(err error) Option {
	return func(c *Condition) {
		c.cause = err
	}
}

func New(class Class, message string, opts ...Option) *Condition {
	c := &Condition{
		class:   class,
		message: message,
		extra:   make(map[string]any),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// FromError builds an Error condition from a Go error. A *Condition found in
// the chain is returned as is.
func FromError(err error, opts ...Option) *Condition {
	var existing *Condition
	if errors.As(err, &existing) {
		return existing
	}
	opts = append([]Option{WithCause(err)}, opts...)
	return New(Error, err.Error(), opts...)
}

func (c *Condition) Class() Class {
	return c.class
}

func (c *Condition) Severity() Kind {
	return c.class.kind
}

func (c *Condition) Message() string {
	return c.message
}

// CallSite returns the signaling frame, if one was recorded.
func (c *Condition) CallSite() (CallSite, bool) {
	if c.callSite == nil {
		return CallSite{}, false
	}
	return *c.callSite, true
}

func (c *Condition) Extra(key string) (any, bool) {
	v, ok := c.extra[key]
	return v, ok
}

// ExtraKeys returns the extra field names in sorted order.
func (c *Condition) ExtraKeys() []string {
	keys := make([]string, 0, len(c.extra))
	for k := range c.extra {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Call returns the replayable form of the signaling call, if any.
func (c *Condition) Call() (func() any, bool) {
	return c.call, c.call != nil
}

// Fingerprint identifies the condition by class and message.
func (c *Condition) Fingerprint() string {
	return hashutil.Fingerprint(c.class.String(), c.message)
}

// At returns a copy of c signaled from cs.
func (c *Condition) At(cs CallSite) *Condition {
	cp := c.clone()
	site := cs
	cp.callSite = &site
	return cp
}

// Convert returns a copy of c with a different class and message,
// keeping its call site and extras.
func (c *Condition) Convert(class Class, message string) *Condition {
	cp := c.clone()
	cp.class = class
	cp.message = message
	return cp
}

func (c *Condition) Error() string {
	return c.class.String() + ": " + c.message
}

func (c *Condition) Unwrap() error {
	return c.cause
}

func (c *Condition) clone() *Condition {
	cp := *c
	cp.extra = make(map[string]any, len(c.extra))
	for k, v := range c.extra {
		cp.extra[k] = v
	}
	return &cp
}
