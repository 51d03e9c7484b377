package inflight

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGuard_RejectsDuplicate(t *testing.T) {
	var g Guard

	release, err := g.Acquire("create-post")
	require.NoError(t, err)
	assert.True(t, g.Busy("create-post"))

	_, err = g.Acquire("create-post")
	assert.ErrorIs(t, err, ErrBusy)

	_, err = g.Acquire("join:1")
	assert.NoError(t, err, "different actions do not block each other")

	release()
	release()
	assert.False(t, g.Busy("create-post"))

	_, err = g.Acquire("create-post")
	assert.NoError(t, err)
}

func TestGuard_Run(t *testing.T) {
	var g Guard
	boom := errors.New("boom")

	err := g.Run("a", func() error {
		assert.ErrorIs(t, g.Run("a", func() error { return nil }), ErrBusy)
		return boom
	})
	assert.ErrorIs(t, err, boom)
	assert.False(t, g.Busy("a"))
}
