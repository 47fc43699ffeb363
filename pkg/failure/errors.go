package failure

type Severity int

// top-level unit control flow
const (
	SeverityFatal Severity = iota
	SeverityRecoverable
)

func (s Severity) String() string {
	switch s {
	case SeverityFatal:
		return "fatal"
	case SeverityRecoverable:
		return "recoverable"
	default:
		return "unknown"
	}
}

// ClassifiedError is an error that knows whether the top-level unit
// producing it can keep going.
type ClassifiedError interface {
	error
	Severity() Severity
}

// IsFatal reports whether err is classified and fatal. Unclassified
// errors are treated as fatal.
func IsFatal(err error) bool {
	if err == nil {
		return false
	}
	if c, ok := err.(ClassifiedError); ok {
		return c.Severity() == SeverityFatal
	}
	return true
}
