package failure_test

import (
	"errors"
	"testing"

	"github.com/rohmanhakim/conditions/pkg/failure"
	"github.com/stretchr/testify/assert"
)

type classified struct {
	sev failure.Severity
}

func (c classified) Error() string              { return "classified" }
func (c classified) Severity() failure.Severity { return c.sev }

func TestIsFatal(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{name: "nil", err: nil, expected: false},
		{name: "fatal", err: classified{sev: failure.SeverityFatal}, expected: true},
		{name: "recoverable", err: classified{sev: failure.SeverityRecoverable}, expected: false},
		{name: "plain error", err: errors.New("plain"), expected: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, failure.IsFatal(tt.err))
		})
	}
}

func TestSeverityString(t *testing.T) {
	assert.Equal(t, "fatal", failure.SeverityFatal.String())
	assert.Equal(t, "recoverable", failure.SeverityRecoverable.String())
	assert.Equal(t, "unknown", failure.Severity(42).String())
}
