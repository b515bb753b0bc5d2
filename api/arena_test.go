package api

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TylerAlbaz/SolarFramework/render"
)

func TestArenaHandles(t *testing.T) {
	var ar arena

	ctx := &render.DeviceContext{}
	h := ar.insert(ctx)
	require.NotZero(t, h, "handles must never be zero")

	got, err := ar.lookup(h)
	require.NoError(t, err)
	assert.Same(t, ctx, got)

	// Removal retires the handle.
	got, err = ar.remove(h)
	require.NoError(t, err)
	assert.Same(t, ctx, got)

	_, err = ar.lookup(h)
	assert.Equal(t, render.BadArgs, render.CodeOf(err))
}

func TestArenaStaleGeneration(t *testing.T) {
	var ar arena

	first := &render.DeviceContext{}
	h1 := ar.insert(first)
	_, err := ar.remove(h1)
	require.NoError(t, err)

	// The slot is reused with a bumped generation; the old handle must
	// not resolve to the new occupant.
	second := &render.DeviceContext{}
	h2 := ar.insert(second)
	assert.NotEqual(t, h1, h2)

	_, err = ar.lookup(h1)
	assert.Equal(t, render.BadArgs, render.CodeOf(err))

	got, err := ar.lookup(h2)
	require.NoError(t, err)
	assert.Same(t, second, got)
}

func TestArenaRejectsForeignHandles(t *testing.T) {
	var ar arena

	_, err := ar.lookup(0)
	assert.Equal(t, render.BadArgs, render.CodeOf(err))

	_, err = ar.lookup(packHandle(41, 0))
	assert.Equal(t, render.BadArgs, render.CodeOf(err))
}
