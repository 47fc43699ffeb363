package restart_test

import (
	"testing"

	"github.com/rohmanhakim/conditions/internal/restart"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry(t *testing.T) {
	r := restart.NewRegistry()
	outer := r.Establish(restart.MuffleWarning)
	r.Establish("retry")
	inner := r.Establish(restart.MuffleWarning)

	assert.Equal(t, []string{restart.MuffleWarning, "retry", restart.MuffleWarning}, r.Names())

	found, ok := r.Find(restart.MuffleWarning)
	require.True(t, ok)
	assert.Equal(t, inner, found.Token, "innermost restart wins")

	_, ok = r.Find(restart.MuffleMessage)
	assert.False(t, ok)

	r.Remove(inner)
	found, _ = r.Find(restart.MuffleWarning)
	assert.Equal(t, outer, found.Token)
	assert.Equal(t, 2, r.Len())
}

func TestRemove_DropsLaterRestarts(t *testing.T) {
	r := restart.NewRegistry()
	tok := r.Establish("a")
	r.Establish("b")
	r.Establish("c")

	r.Remove(tok)
	assert.Equal(t, 0, r.Len())

	// removing an unknown token changes nothing
	r.Establish("d")
	r.Remove(tok)
	assert.Equal(t, []string{"d"}, r.Names())
}
