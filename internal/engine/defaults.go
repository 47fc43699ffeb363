package engine

import (
	"fmt"
	"strings"

	"github.com/rohmanhakim/conditions/internal/condition"
	"github.com/rohmanhakim/conditions/internal/config"
	"github.com/rohmanhakim/conditions/internal/metadata"
)

const (
	escalatedPrefix     = "(converted from warning) "
	defaultSummaryLimit = 10
)

// onError reports c and aborts the running top-level unit.
func (e *Env) onError(c *condition.Condition) {
	e.trace.RecordDefault(e.unitID, metadata.DefaultAbort, c.Fingerprint())
	e.sink.Emit(c.Severity(), formatReport(reportLabel(c), c))
	panic(&Abort{Condition: c})
}

func (e *Env) onWarning(c *condition.Condition) {
	fp := c.Fingerprint()
	switch e.cfg.WarningMode() {
	case config.WarningEscalate:
		e.trace.RecordDefault(e.unitID, metadata.DefaultEscalate, fp)
		e.signalError(c.Convert(condition.Error, escalatedPrefix+c.Message()))
	case config.WarningImmediate:
		e.trace.RecordDefault(e.unitID, metadata.DefaultPrint, fp)
		e.sink.Emit(condition.KindWarning, formatReport("Warning", c))
	default:
		// outside a unit nothing would flush the batch
		if e.unit == nil {
			e.trace.RecordDefault(e.unitID, metadata.DefaultPrint, fp)
			e.sink.Emit(condition.KindWarning, formatReport("Warning", c))
			return
		}
		e.trace.RecordDefault(e.unitID, metadata.DefaultDefer, fp)
		e.unit.warnings = append(e.unit.warnings, c)
	}
}

func (e *Env) onMessage(c *condition.Condition) {
	e.trace.RecordDefault(e.unitID, metadata.DefaultPrint, c.Fingerprint())
	e.sink.Emit(condition.KindMessage, c.Message())
}

// flushWarnings writes the deferred warning summary of a finished unit.
func (e *Env) flushWarnings(ws []*condition.Condition) {
	if len(ws) == 0 {
		return
	}
	limit := e.cfg.WarningSummaryLimit()
	if limit <= 0 {
		limit = defaultSummaryLimit
	}
	e.sink.Emit(condition.KindWarning, formatSummary(ws, limit))
}

func formatSummary(ws []*condition.Condition, limit int) string {
	switch n := len(ws); {
	case n == 1:
		return "Warning message:\n" + describe(ws[0])
	case n <= limit:
		var b strings.Builder
		b.WriteString("Warning messages:")
		for i, w := range ws {
			fmt.Fprintf(&b, "\n%d: %s", i+1, describe(w))
		}
		return b.String()
	default:
		return fmt.Sprintf("There were %d warnings (use Outcome.Warnings to see them)", n)
	}
}

// formatReport renders "<label> in <function>: <message>", dropping the
// function part when c has no call site.
func formatReport(label string, c *condition.Condition) string {
	if site, ok := c.CallSite(); ok && site.Function != "" {
		return fmt.Sprintf("%s in %s: %s", label, site.ShortFunction(), c.Message())
	}
	return fmt.Sprintf("%s: %s", label, c.Message())
}

func describe(c *condition.Condition) string {
	if site, ok := c.CallSite(); ok && site.Function != "" {
		return fmt.Sprintf("In %s: %s", site.ShortFunction(), c.Message())
	}
	return c.Message()
}

func reportLabel(c *condition.Condition) string {
	if c.Severity() == condition.KindInterrupt {
		return "Interrupted"
	}
	return "Error"
}
