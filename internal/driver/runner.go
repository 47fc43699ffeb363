package driver

import (
	"bytes"
	"context"
	"io"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rohmanhakim/conditions/internal/config"
	"github.com/rohmanhakim/conditions/internal/diag"
	"github.com/rohmanhakim/conditions/internal/engine"
	"github.com/rohmanhakim/conditions/internal/metadata"
	"github.com/rohmanhakim/conditions/internal/scenario"
	"golang.org/x/sync/errgroup"
)

/*
Runner executes the units of a scenario program.

Responsibilities
- Run every unit as a top-level unit with its own Env
- Bound how many units run at once
- Write each unit's output and diagnostics in program order
- Deliver cancellation as an interrupt to every unit

Units never share handler stacks or restarts. What they share is the
trace sink and the final output destinations, which only see a unit's
buffered text after the whole run finished.
*/
type Runner struct {
	cfg   config.Config
	out   io.Writer
	sink  diag.Sink
	trace metadata.TraceSink
	newID func() string
	now   func() time.Time

	mu   sync.Mutex
	envs map[int]*engine.Env
}

type Option func(*Runner)

func WithTrace(trace metadata.TraceSink) Option {
	return func(r *Runner) {
		r.trace = trace
	}
}

// WithIDs replaces the unit id generator. Defaults to random UUIDs.
func WithIDs(newID func() string) Option {
	return func(r *Runner) {
		r.newID = newID
	}
}

func WithClock(now func() time.Time) Option {
	return func(r *Runner) {
		r.now = now
	}
}

// NewRunner writes ordinary output to out and diagnostics to sink.
func NewRunner(cfg config.Config, out io.Writer, sink diag.Sink, opts ...Option) *Runner {
	if out == nil {
		out = io.Discard
	}
	if sink == nil {
		sink = diag.Discard{}
	}
	r := &Runner{
		cfg:   cfg,
		out:   out,
		sink:  sink,
		trace: metadata.NoopSink{},
		newID: uuid.NewString,
		now:   time.Now,
		envs:  make(map[int]*engine.Env),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

type unitBuffers struct {
	out   bytes.Buffer
	diags *diag.Buffer
}

// Run executes every unit of prog. Cancelling ctx interrupts the units
// that are running and every unit started afterwards. Run returns once
// all units finished; the report's Err says whether any failed.
func (r *Runner) Run(ctx context.Context, prog scenario.Program) Report {
	units := prog.Units
	reports := make([]UnitReport, len(units))
	buffers := make([]unitBuffers, len(units))

	r.trace.RecordRun(prog.Source, prog.Digest, len(units))

	stop := context.AfterFunc(ctx, r.interruptAll)
	defer stop()

	var g errgroup.Group
	if n := r.cfg.Concurrency(); n > 0 {
		g.SetLimit(n)
	}
	for i, u := range units {
		g.Go(func() error {
			buffers[i].diags = diag.NewBuffer()
			reports[i] = r.runUnit(ctx, prog.Source, i, u, &buffers[i])
			return nil
		})
	}
	_ = g.Wait()

	for i := range buffers {
		_, _ = r.out.Write(buffers[i].out.Bytes())
		buffers[i].diags.ReplayTo(r.sink)
	}
	return Report{Units: reports}
}

func (r *Runner) runUnit(ctx context.Context, source string, index int, u scenario.Unit, buf *unitBuffers) UnitReport {
	id := r.newID()
	env := engine.New(r.cfg,
		engine.WithSink(buf.diags),
		engine.WithOutput(diag.NewOutput(&buf.out)),
		engine.WithTrace(r.trace),
		engine.WithUnitID(id),
	)

	r.register(index, env)
	defer r.unregister(index)
	if ctx.Err() != nil {
		env.Interrupt(nil)
	}

	start := r.now()
	res := scenario.NewInterpreter(env, source).Run(u)
	elapsed := r.now().Sub(start)

	r.trace.RecordUnit(id, u.Name, res.Outcome.Failed, len(res.Outcome.Warnings), elapsed)
	return UnitReport{
		Index:    index,
		ID:       id,
		Name:     res.Name,
		Value:    res.Value,
		Outcome:  res.Outcome,
		Duration: elapsed,
	}
}

func (r *Runner) register(index int, env *engine.Env) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.envs[index] = env
}

func (r *Runner) unregister(index int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.envs, index)
}

func (r *Runner) interruptAll() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, env := range r.envs {
		env.Interrupt(nil)
	}
}
