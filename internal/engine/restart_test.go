package engine_test

import (
	"testing"

	"github.com/rohmanhakim/conditions/internal/condition"
	"github.com/rohmanhakim/conditions/internal/config"
	"github.com/rohmanhakim/conditions/internal/engine"
	"github.com/rohmanhakim/conditions/internal/restart"
	"github.com/stretchr/testify/assert"
)

func useValue(args ...any) int {
	return args[0].(int)
}

func TestWithRestart_InvokeFromBody(t *testing.T) {
	e, _ := newEnvForTest(t, config.WarningDeferred)

	got := engine.WithRestart(e, "use-value", func() int {
		e.InvokeRestart("use-value", 7)
		return 0
	}, useValue)

	assert.Equal(t, 7, got)
	assert.Empty(t, e.ComputeRestarts())
}

func TestWithRestart_BodyResultWhenNotInvoked(t *testing.T) {
	e, _ := newEnvForTest(t, config.WarningDeferred)

	got := engine.WithRestart(e, "use-value", func() int { return 3 }, useValue)

	assert.Equal(t, 3, got)
}

func TestWithRestart_InvokeFromCallingHandler(t *testing.T) {
	e, _ := newEnvForTest(t, config.WarningDeferred)

	got := engine.WithRestart(e, "use-value", func() int {
		return engine.WithCalling(e, []engine.CallingHandler{
			engine.OnCalling(condition.Error, func(*condition.Condition) {
				e.InvokeRestart("use-value", 99)
			}),
		}, func() int {
			e.Errorf("bad")
			return 0
		})
	}, useValue)

	assert.Equal(t, 99, got)
	assert.Empty(t, e.Handlers())
	assert.Empty(t, e.ComputeRestarts())
}

func TestWithRestart_InnermostShadows(t *testing.T) {
	e, _ := newEnvForTest(t, config.WarningDeferred)

	got := engine.WithRestart(e, "retry", func() int {
		inner := engine.WithRestart(e, "retry", func() int {
			e.InvokeRestart("retry", 1)
			return 0
		}, func(args ...any) int { return 10 + args[0].(int) })
		return inner * 2
	}, func(...any) int { return -1 })

	assert.Equal(t, 22, got)
}

func TestComputeRestarts_InsideWarningHandler(t *testing.T) {
	e, _ := newEnvForTest(t, config.WarningDeferred)
	var visible []string

	engine.WithRestart(e, "skip", func() int {
		return engine.WithCalling(e, []engine.CallingHandler{
			engine.OnCalling(condition.Warning, func(*condition.Condition) {
				visible = e.ComputeRestarts()
				e.MuffleWarning()
			}),
		}, func() int {
			e.Warnf("w")
			return 0
		})
	}, func(...any) int { return 0 })

	assert.Equal(t, []string{restart.MuffleWarning, "skip"}, visible)
}

func TestInvokeRestart_UnknownSignalsError(t *testing.T) {
	e, _ := newEnvForTest(t, config.WarningDeferred)

	got := engine.Catch(e, []engine.CatchHandler[string]{
		engine.On(engine.ErrorRestart, func(c *condition.Condition) string { return c.Message() }),
	}, func() string {
		e.InvokeRestart("nope")
		return "unreachable"
	})

	assert.Equal(t, `no restart "nope" established`, got)
}

func TestMuffle_OutsideWarningIsAnError(t *testing.T) {
	e, sink := newEnvForTest(t, config.WarningDeferred)

	out := e.RunTopLevel(func() {
		e.MuffleWarning()
	})

	assert.True(t, out.Failed)
	assert.Equal(t, "Error: no restart \"muffle-warning\" established\n", sink.String())
}
