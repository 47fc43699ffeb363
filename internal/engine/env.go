package engine

import (
	"sync/atomic"

	"github.com/rohmanhakim/conditions/internal/condition"
	"github.com/rohmanhakim/conditions/internal/config"
	"github.com/rohmanhakim/conditions/internal/diag"
	"github.com/rohmanhakim/conditions/internal/handler"
	"github.com/rohmanhakim/conditions/internal/metadata"
	"github.com/rohmanhakim/conditions/internal/restart"
)

/*
Env is one execution context: it owns the handler stack, the restart
registry and the defaults that apply when nothing handles a signal.

Responsibilities
- Signal conditions and dispatch them over the handler stack
- Install catching and calling scopes
- Establish and invoke restarts
- Apply top-level defaults and bound top-level units

An Env belongs to a single goroutine. Independent goroutines use
independent Envs; the only method safe to call from elsewhere is
Interrupt.
*/
type Env struct {
	cfg      config.Config
	stack    *handler.Stack
	restarts *restart.Registry
	sink     diag.Sink
	out      *diag.Output
	trace    metadata.TraceSink
	unitID   string

	// deferred warnings of the running top-level unit, nil outside one
	unit *unitState

	pending atomic.Pointer[condition.Condition]
}

type Option func(*Env)

// WithSink sets the diagnostic sink. Defaults to diag.Discard.
func WithSink(sink diag.Sink) Option {
	return func(e *Env) {
		e.sink = sink
	}
}

// WithOutput sets the ordinary output channel. Defaults to a discarding one.
func WithOutput(out *diag.Output) Option {
	return func(e *Env) {
		e.out = out
	}
}

func WithTrace(trace metadata.TraceSink) Option {
	return func(e *Env) {
		e.trace = trace
	}
}

// WithUnitID names the context in trace events.
func WithUnitID(id string) Option {
	return func(e *Env) {
		e.unitID = id
	}
}

func New(cfg config.Config, opts ...Option) *Env {
	e := &Env{
		cfg:      cfg,
		stack:    handler.NewStack(),
		restarts: restart.NewRegistry(),
		sink:     diag.Discard{},
		out:      diag.NewOutput(nil),
		trace:    metadata.NoopSink{},
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *Env) Config() config.Config {
	return e.cfg
}

func (e *Env) Sink() diag.Sink {
	return e.sink
}

func (e *Env) Output() *diag.Output {
	return e.out
}

// Printf writes to the ordinary output channel.
func (e *Env) Printf(format string, args ...any) {
	e.SafePoint()
	e.out.Printf(format, args...)
}

// Capture runs fn and returns what it wrote to the ordinary output.
// Diagnostics are not captured.
func (e *Env) Capture(fn func()) string {
	return diag.Capture(e.out, fn)
}

// Handlers returns the visible handler stack, most recent first.
func (e *Env) Handlers() []handler.Entry {
	return e.stack.Entries()
}

// ComputeRestarts lists the visible restarts, innermost first.
func (e *Env) ComputeRestarts() []string {
	return e.restarts.Names()
}
