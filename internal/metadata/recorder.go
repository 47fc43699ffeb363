package metadata

import (
	"io"
	"sync"
	"time"

	"github.com/go-logfmt/logfmt"
)

/*
TraceSink receives structured events about dispatch.

It must not:
- affect control flow
- be read back by the runtime
- fail the unit being traced

Ordering guarantees:
- Events of one execution context are recorded in the order they happen.
- Events of concurrently running units interleave; no global order is implied.
*/
type TraceSink interface {
	RecordSignal(unit string, class string, message string, fingerprint string)
	RecordHandler(unit string, mode string, scope uint64, class string, fingerprint string)
	RecordUnwind(unit string, scope uint64, fingerprint string)
	RecordRestart(unit string, name string)
	RecordDefault(unit string, action DefaultAction, fingerprint string)
	RecordUnit(unit string, name string, failed bool, warnings int, duration time.Duration)
	RecordRun(source string, digest string, units int)
}

// Recorder writes every event as one logfmt record.
type Recorder struct {
	mu  sync.Mutex
	enc *logfmt.Encoder
	now func() time.Time
}

func NewRecorder(w io.Writer) *Recorder {
	return &Recorder{
		enc: logfmt.NewEncoder(w),
		now: time.Now,
	}
}

// WithClock replaces the time source, for deterministic traces.
func (r *Recorder) WithClock(now func() time.Time) *Recorder {
	r.now = now
	return r
}

func (r *Recorder) RecordSignal(unit string, class string, message string, fingerprint string) {
	r.append(EventSignal, unit,
		NewAttr(AttrClass, class),
		NewAttr(AttrMessage, message),
		NewAttr(AttrFingerprint, fingerprint),
	)
}

func (r *Recorder) RecordHandler(unit string, mode string, scope uint64, class string, fingerprint string) {
	r.append(EventHandler, unit,
		NewAttr(AttrMode, mode),
		NewAttr(AttrScope, scope),
		NewAttr(AttrClass, class),
		NewAttr(AttrFingerprint, fingerprint),
	)
}

func (r *Recorder) RecordUnwind(unit string, scope uint64, fingerprint string) {
	r.append(EventUnwind, unit,
		NewAttr(AttrScope, scope),
		NewAttr(AttrFingerprint, fingerprint),
	)
}

func (r *Recorder) RecordRestart(unit string, name string) {
	r.append(EventRestart, unit, NewAttr(AttrRestart, name))
}

func (r *Recorder) RecordDefault(unit string, action DefaultAction, fingerprint string) {
	r.append(EventDefault, unit,
		NewAttr(AttrAction, string(action)),
		NewAttr(AttrFingerprint, fingerprint),
	)
}

/*
RecordUnit records the terminal summary of a top-level unit.

Contract:
  - Called exactly once per unit, after deferred warnings were flushed.
  - The values are derived from the unit outcome, not accumulated here.
*/
func (r *Recorder) RecordUnit(unit string, name string, failed bool, warnings int, duration time.Duration) {
	outcome := "ok"
	if failed {
		outcome = "failed"
	}
	r.append(EventUnit, unit,
		NewAttr(AttrName, name),
		NewAttr(AttrOutcome, outcome),
		NewAttr(AttrWarnings, warnings),
		NewAttr(AttrDurationMs, duration.Milliseconds()),
	)
}

// RecordRun records the start of a program run. It carries no unit id.
func (r *Recorder) RecordRun(source string, digest string, units int) {
	r.append(EventRun, "",
		NewAttr(AttrSource, source),
		NewAttr(AttrDigest, digest),
		NewAttr(AttrUnits, units),
	)
}

func (r *Recorder) append(kind EventKind, unit string, attrs ...Attribute) {
	r.mu.Lock()
	defer r.mu.Unlock()

	// a broken trace writer is ignored, tracing never fails a unit
	_ = r.enc.EncodeKeyvals(
		string(AttrTime), r.now().UTC().Format(time.RFC3339Nano),
		string(AttrEvent), string(kind),
		string(AttrUnit), unit,
	)
	for _, a := range attrs {
		_ = r.enc.EncodeKeyval(string(a.Key), a.Value)
	}
	_ = r.enc.EndRecord()
}

// NoopSink implements TraceSink and does nothing.
// The engine uses it when tracing is not configured.
type NoopSink struct{}

func (NoopSink) RecordSignal(string, string, string, string)          {}
func (NoopSink) RecordHandler(string, string, uint64, string, string) {}
func (NoopSink) RecordUnwind(string, uint64, string)                  {}
func (NoopSink) RecordRestart(string, string)                         {}
func (NoopSink) RecordDefault(string, DefaultAction, string)          {}
func (NoopSink) RecordUnit(string, string, bool, int, time.Duration)  {}
func (NoopSink) RecordRun(string, string, int)                        {}
