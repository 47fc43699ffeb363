package engine_test

import (
	"testing"
	"time"

	"github.com/rohmanhakim/conditions/internal/config"
	"github.com/rohmanhakim/conditions/internal/diag"
	"github.com/rohmanhakim/conditions/internal/engine"
	"github.com/rohmanhakim/conditions/internal/metadata"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// newEnvForTest builds an Env writing diagnostics into a buffer. Call
// sites are not captured so reports are stable.
func newEnvForTest(t *testing.T, mode config.WarningMode) (*engine.Env, *diag.Buffer) {
	t.Helper()
	cfg, err := config.WithDefault().
		WithWarningMode(mode).
		WithCaptureCallSites(false).
		Build()
	require.NoError(t, err)

	sink := diag.NewBuffer()
	return engine.New(cfg, engine.WithSink(sink)), sink
}

func newEnvWithCallSitesForTest(t *testing.T) (*engine.Env, *diag.Buffer) {
	t.Helper()
	cfg, err := config.WithDefault().Build()
	require.NoError(t, err)

	sink := diag.NewBuffer()
	return engine.New(cfg, engine.WithSink(sink)), sink
}

type traceMock struct {
	mock.Mock
}

func (m *traceMock) RecordSignal(unit string, class string, message string, fingerprint string) {
	m.Called(unit, class, message, fingerprint)
}

func (m *traceMock) RecordHandler(unit string, mode string, scope uint64, class string, fingerprint string) {
	m.Called(unit, mode, scope, class, fingerprint)
}

func (m *traceMock) RecordUnwind(unit string, scope uint64, fingerprint string) {
	m.Called(unit, scope, fingerprint)
}

func (m *traceMock) RecordRestart(unit string, name string) {
	m.Called(unit, name)
}

func (m *traceMock) RecordDefault(unit string, action metadata.DefaultAction, fingerprint string) {
	m.Called(unit, action, fingerprint)
}

func (m *traceMock) RecordUnit(unit string, name string, failed bool, warnings int, duration time.Duration) {
	m.Called(unit, name, failed, warnings, duration)
}

func (m *traceMock) RecordRun(source string, digest string, units int) {
	m.Called(source, digest, units)
}

func newTraceMockForTest(t *testing.T) *traceMock {
	t.Helper()
	return new(traceMock)
}
