package scenario_test

import (
	"errors"
	"testing"

	"github.com/rohmanhakim/conditions/internal/condition"
	"github.com/rohmanhakim/conditions/internal/scenario"
	"github.com/rohmanhakim/conditions/pkg/failure"
	"github.com/rohmanhakim/conditions/pkg/fileutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Units(t *testing.T) {
	prog, err := scenario.Load("testdata/units.yaml")
	require.NoError(t, err)

	assert.Equal(t, "testdata/units.yaml", prog.Source)
	assert.Len(t, prog.Digest, 64)
	require.Len(t, prog.Units, 10)
	assert.Equal(t, "recover", prog.Units[0].Name)
	assert.Equal(t, 2, prog.Units[0].Line)

	first := prog.Units[0].Steps[0]
	assert.Equal(t, scenario.StepCatch, first.Kind())
	require.Len(t, first.Catch.Handlers, 1)
	assert.Equal(t, "error", first.Catch.Handlers[0].Class)
	require.Len(t, first.Catch.Body, 3)
	assert.Equal(t, scenario.StepError, first.Catch.Body[1].Kind())
	assert.Equal(t, "boom", first.Catch.Body[1].Error.Message)
	assert.Equal(t, 10, first.Catch.Body[1].Line)
}

func TestParse_SignalMapping(t *testing.T) {
	prog, err := scenario.Parse([]byte(`
units:
  - steps:
      - warning: {message: old api, class: deprecated/v1, extra: {since: 2}}
      - invoke: retry
      - invoke: {name: use-value, value: "7"}
`), "inline")
	require.NoError(t, err)

	u := prog.Units[0]
	assert.Equal(t, "unit-1", u.Name)
	require.Len(t, u.Steps, 3)

	w := u.Steps[0].Warning
	require.NotNil(t, w)
	assert.Equal(t, "old api", w.Message)
	assert.Equal(t, "deprecated/v1", w.Class)
	assert.Equal(t, map[string]any{"since": 2}, w.Extra)

	assert.Equal(t, "retry", u.Steps[1].Invoke.Name)
	assert.Nil(t, u.Steps[1].Invoke.Value)
	require.NotNil(t, u.Steps[2].Invoke.Value)
	assert.Equal(t, "7", *u.Steps[2].Invoke.Value)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		path    string
		wantErr error
		cause   scenario.ScenarioErrorCause
	}{
		{
			name:    "two actions in one step",
			path:    "testdata/invalid_two_actions.yaml",
			wantErr: scenario.ErrInvalidStep,
			cause:   scenario.ErrCauseInvalid,
		},
		{
			name:    "unknown handler class",
			path:    "testdata/invalid_class.yaml",
			wantErr: condition.ErrUnknownClass,
			cause:   scenario.ErrCauseInvalid,
		},
		{
			name:    "unknown top-level field",
			path:    "testdata/unknown_field.yaml",
			wantErr: scenario.ErrParse,
			cause:   scenario.ErrCauseSyntax,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := scenario.Load(tt.path)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)

			var se *scenario.ScenarioError
			require.ErrorAs(t, err, &se)
			assert.Equal(t, tt.cause, se.Cause)
			assert.Equal(t, tt.path, se.Source)
			assert.True(t, failure.IsFatal(err))
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := scenario.Load("testdata/does-not-exist.yaml")

	var se *scenario.ScenarioError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, scenario.ErrCauseRead, se.Cause)

	var fe *fileutil.FileError
	assert.True(t, errors.As(err, &fe))
}

func TestParse_Empty(t *testing.T) {
	_, err := scenario.Parse([]byte(""), "empty")
	assert.ErrorIs(t, err, scenario.ErrNoUnits)

	_, err = scenario.Parse([]byte("units: []\n"), "empty")
	assert.ErrorIs(t, err, scenario.ErrNoUnits)
}

func TestParse_StepWithoutAction(t *testing.T) {
	_, err := scenario.Parse([]byte("units:\n  - name: x\n    steps:\n      - {}\n"), "inline")

	var se *scenario.ScenarioError
	require.ErrorAs(t, err, &se)
	assert.ErrorIs(t, err, scenario.ErrInvalidStep)
	assert.Equal(t, 4, se.Line)
	assert.Contains(t, se.Error(), "inline:4")
}
