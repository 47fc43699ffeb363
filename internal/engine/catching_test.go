package engine_test

import (
	"testing"

	"github.com/rohmanhakim/conditions/internal/condition"
	"github.com/rohmanhakim/conditions/internal/config"
	"github.com/rohmanhakim/conditions/internal/engine"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatch_ErrorUnwindsAndReplacesResult(t *testing.T) {
	e, sink := newEnvForTest(t, config.WarningDeferred)
	resumed := false

	got := engine.Catch(e, []engine.CatchHandler[string]{
		engine.On(condition.Error, func(c *condition.Condition) string {
			return "caught: " + c.Message()
		}),
	}, func() string {
		e.Errorf("boom")
		resumed = true
		return "normal"
	})

	assert.Equal(t, "caught: boom", got)
	assert.False(t, resumed)
	assert.Empty(t, sink.Entries())
	assert.Empty(t, e.Handlers())
}

func TestCatch_NormalCompletionKeepsResult(t *testing.T) {
	e, _ := newEnvForTest(t, config.WarningDeferred)

	got := engine.Catch(e, []engine.CatchHandler[int]{
		engine.On(condition.Error, func(*condition.Condition) int { return -1 }),
	}, func() int {
		return 42
	})

	assert.Equal(t, 42, got)
}

func TestCatch_WarningCaughtDoesNotResume(t *testing.T) {
	e, sink := newEnvForTest(t, config.WarningImmediate)
	resumed := false

	got := engine.Catch(e, []engine.CatchHandler[string]{
		engine.On(condition.Warning, func(c *condition.Condition) string { return c.Message() }),
	}, func() string {
		e.Warnf("careful")
		resumed = true
		return "normal"
	})

	assert.Equal(t, "careful", got)
	assert.False(t, resumed)
	assert.Empty(t, sink.Entries())
}

func TestCatch_SubtypeMatching(t *testing.T) {
	deprecated := condition.Warning.Sub("deprecated")

	t.Run("supertype handler catches subtype", func(t *testing.T) {
		e, _ := newEnvForTest(t, config.WarningDeferred)
		got := engine.Catch(e, []engine.CatchHandler[string]{
			engine.On(condition.Warning, func(c *condition.Condition) string { return c.Class().String() }),
		}, func() string {
			e.SignalWarning(condition.New(deprecated, "old api"))
			return "normal"
		})
		assert.Equal(t, "warning/deprecated", got)
	})

	t.Run("subtype handler ignores supertype", func(t *testing.T) {
		e, _ := newEnvForTest(t, config.WarningDeferred)
		var out engine.Outcome
		got := ""
		out = e.RunTopLevel(func() {
			got = engine.Catch(e, []engine.CatchHandler[string]{
				engine.On(deprecated, func(*condition.Condition) string { return "caught" }),
			}, func() string {
				e.Warnf("plain")
				return "normal"
			})
		})
		assert.Equal(t, "normal", got)
		require.Len(t, out.Warnings, 1)
		assert.Equal(t, "plain", out.Warnings[0].Message())
	})

	t.Run("any catches interrupts and errors", func(t *testing.T) {
		e, _ := newEnvForTest(t, config.WarningDeferred)
		got := engine.Catch(e, []engine.CatchHandler[string]{
			engine.On(condition.Any, func(c *condition.Condition) string { return c.Severity().String() }),
		}, func() string {
			e.SignalInterrupt(condition.New(condition.Interrupt, "stop"))
			return "normal"
		})
		assert.Equal(t, "interrupt", got)
	})
}

func TestCatch_FirstRegisteredHandlerWins(t *testing.T) {
	e, _ := newEnvForTest(t, config.WarningDeferred)
	custom := condition.Error.Sub("io")

	got := engine.Catch(e, []engine.CatchHandler[string]{
		engine.On(condition.Error, func(*condition.Condition) string { return "generic" }),
		engine.On(custom, func(*condition.Condition) string { return "specific" }),
	}, func() string {
		e.SignalError(condition.New(custom, "disk"))
		return "normal"
	})

	assert.Equal(t, "generic", got)
}

func TestCatch_InnermostScopeWins(t *testing.T) {
	e, _ := newEnvForTest(t, config.WarningDeferred)

	got := engine.Catch(e, []engine.CatchHandler[string]{
		engine.On(condition.Error, func(*condition.Condition) string { return "outer" }),
	}, func() string {
		return engine.Catch(e, []engine.CatchHandler[string]{
			engine.On(condition.Error, func(*condition.Condition) string { return "inner" }),
		}, func() string {
			e.Errorf("boom")
			return "normal"
		})
	})

	assert.Equal(t, "inner", got)
}

func TestCatch_NonMatchingInnerScopePassesThrough(t *testing.T) {
	e, _ := newEnvForTest(t, config.WarningDeferred)
	var order []string

	got := engine.CatchFinally(e, []engine.CatchHandler[string]{
		engine.On(condition.Error, func(c *condition.Condition) string {
			order = append(order, "handler")
			return "outer: " + c.Message()
		}),
	}, func() string {
		return engine.CatchFinally(e, []engine.CatchHandler[string]{
			engine.On(condition.Message, func(*condition.Condition) string { return "inner" }),
		}, func() string {
			e.Errorf("boom")
			return "normal"
		}, func() { order = append(order, "inner finally") })
	}, func() { order = append(order, "outer finally") })

	assert.Equal(t, "outer: boom", got)
	assert.Equal(t, []string{"inner finally", "outer finally", "handler"}, order)
}

func TestCatchFinally_RunsExactlyOnce(t *testing.T) {
	tests := []struct {
		name string
		body func(e *engine.Env) string
		want string
	}{
		{
			name: "normal completion",
			body: func(*engine.Env) string { return "done" },
			want: "done",
		},
		{
			name: "handled here",
			body: func(e *engine.Env) string {
				e.Errorf("boom")
				return "done"
			},
			want: "handled",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, _ := newEnvForTest(t, config.WarningDeferred)
			runs := 0
			got := engine.CatchFinally(e, []engine.CatchHandler[string]{
				engine.On(condition.Error, func(*condition.Condition) string { return "handled" }),
			}, func() string { return tt.body(e) }, func() { runs++ })

			assert.Equal(t, tt.want, got)
			assert.Equal(t, 1, runs)
		})
	}

	t.Run("unwinding through to an aborted unit", func(t *testing.T) {
		e, sink := newEnvForTest(t, config.WarningDeferred)
		runs := 0
		out := e.RunTopLevel(func() {
			engine.Guard(e, func() int {
				e.Errorf("fatal")
				return 0
			}, func() { runs++ })
		})

		assert.True(t, out.Failed)
		assert.Equal(t, 1, runs)
		assert.Equal(t, "Error: fatal\n", sink.String())
	})
}

func TestCatchFinally_GuardFailureAfterSelection(t *testing.T) {
	e, _ := newEnvForTest(t, config.WarningDeferred)
	cleanup := condition.Error.Sub("cleanup")
	handled := ""

	got := engine.Catch(e, []engine.CatchHandler[string]{
		engine.On(cleanup, func(c *condition.Condition) string { return "outer: " + c.Message() }),
	}, func() string {
		return engine.CatchFinally(e, []engine.CatchHandler[string]{
			engine.On(condition.Error, func(c *condition.Condition) string {
				handled = c.Message()
				return "inner"
			}),
		}, func() string {
			e.Errorf("boom")
			return "normal"
		}, func() {
			e.SignalError(condition.New(cleanup, "guard failed"))
		})
	})

	assert.Equal(t, "boom", handled)
	assert.Equal(t, "outer: guard failed", got)
}

func TestCatchFinally_UnhandledGuardFailureAbortsUnit(t *testing.T) {
	e, sink := newEnvForTest(t, config.WarningDeferred)
	handled := false

	out := e.RunTopLevel(func() {
		engine.CatchFinally(e, []engine.CatchHandler[int]{
			engine.On(condition.Warning, func(*condition.Condition) int {
				handled = true
				return 1
			}),
		}, func() int {
			e.Warnf("w")
			return 0
		}, func() {
			e.Errorf("cleanup broke")
		})
	})

	assert.True(t, handled)
	assert.True(t, out.Failed)
	require.NotNil(t, out.Abort)
	assert.Equal(t, "cleanup broke", out.Abort.Message())
	assert.Equal(t, "Error: cleanup broke\n", sink.String())
}

func TestCatch_GoPanicRunsGuardAndPropagates(t *testing.T) {
	e, _ := newEnvForTest(t, config.WarningDeferred)
	runs := 0

	assert.PanicsWithValue(t, "raw", func() {
		engine.Guard(e, func() int { panic("raw") }, func() { runs++ })
	})
	assert.Equal(t, 1, runs)
	assert.Empty(t, e.Handlers())
}

func TestCatch_RecordsUnwindTrace(t *testing.T) {
	trace := newTraceMockForTest(t)
	cfg, err := config.WithDefault().WithCaptureCallSites(false).Build()
	require.NoError(t, err)
	e := engine.New(cfg, engine.WithTrace(trace), engine.WithUnitID("u1"))

	c := condition.New(condition.Error, "boom")
	fp := c.Fingerprint()
	trace.On("RecordSignal", "u1", "error", "boom", fp).Once()
	trace.On("RecordHandler", "u1", "catching", uint64(1), "error", fp).Once()
	trace.On("RecordUnwind", "u1", uint64(1), fp).Once()

	engine.Catch(e, []engine.CatchHandler[bool]{
		engine.On(condition.Error, func(*condition.Condition) bool { return true }),
	}, func() bool {
		e.SignalError(c)
		return false
	})

	trace.AssertExpectations(t)
}
