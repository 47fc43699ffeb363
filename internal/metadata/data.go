package metadata

/*
EventKind is a closed classification of trace events, used exclusively
for observability.

Rules:
  - Events are recorded after the runtime has already decided what to do.
  - No component may read trace events to influence dispatch.
  - Event attributes are primitive values only.

# EventSignal

A condition was signaled and dispatch is about to start.

# EventHandler

A handler matched and is being invoked. The mode attribute says whether
it unwinds (catching) or runs in place (calling).

# EventUnwind

The stack was unwound to a catching scope.

# EventRestart

A restart was invoked.

# EventDefault

No handler resolved the signal and a top-level default applied.

# EventUnit

A top-level unit finished.

# EventRun

A scenario program started running. It precedes the events of its units.
*/
type EventKind string

const (
	EventSignal  EventKind = "signal"
	EventHandler EventKind = "handler"
	EventUnwind  EventKind = "unwind"
	EventRestart EventKind = "restart"
	EventDefault EventKind = "default"
	EventUnit    EventKind = "unit"
	EventRun     EventKind = "run"
)

// DefaultAction names the top-level default that applied to a signal.
type DefaultAction string

const (
	DefaultAbort    DefaultAction = "abort"
	DefaultDefer    DefaultAction = "defer"
	DefaultPrint    DefaultAction = "print"
	DefaultEscalate DefaultAction = "escalate"
	DefaultIgnore   DefaultAction = "ignore"
)

type AttributeKey string

const (
	AttrTime        AttributeKey = "time"
	AttrEvent       AttributeKey = "event"
	AttrUnit        AttributeKey = "unit"
	AttrName        AttributeKey = "name"
	AttrClass       AttributeKey = "class"
	AttrMessage     AttributeKey = "message"
	AttrFingerprint AttributeKey = "fingerprint"
	AttrMode        AttributeKey = "mode"
	AttrScope       AttributeKey = "scope"
	AttrRestart     AttributeKey = "restart"
	AttrAction      AttributeKey = "action"
	AttrOutcome     AttributeKey = "outcome"
	AttrWarnings    AttributeKey = "warnings"
	AttrDurationMs  AttributeKey = "duration_ms"
	AttrSource      AttributeKey = "source"
	AttrDigest      AttributeKey = "digest"
	AttrUnits       AttributeKey = "units"
)

type Attribute struct {
	Key   AttributeKey
	Value any
}

func NewAttr(key AttributeKey, val any) Attribute {
	return Attribute{
		Key:   key,
		Value: val,
	}
}
