package api_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TylerAlbaz/SolarFramework/api"
	"github.com/TylerAlbaz/SolarFramework/render"
)

func TestNewVersionNegotiation(t *testing.T) {
	a, err := api.New(api.Version)
	require.NoError(t, err)
	require.NotNil(t, a)

	a, err = api.New(api.Version + 1)
	assert.Nil(t, a)
	assert.Equal(t, render.Unsupported, render.CodeOf(err))

	a, err = api.New(0)
	assert.Nil(t, a)
	assert.Equal(t, render.Unsupported, render.CodeOf(err))
}

func TestOperationsOnBadHandle(t *testing.T) {
	a, err := api.New(api.Version)
	require.NoError(t, err)

	assert.Equal(t, render.BadArgs, render.CodeOf(a.BeginFrame(0, render.Color{})))
	assert.Equal(t, render.BadArgs, render.CodeOf(a.EndFrame(0)))
	assert.Equal(t, render.BadArgs, render.CodeOf(a.Present(0)))
	assert.Equal(t, render.BadArgs, render.CodeOf(a.DestroyDevice(0)))
	assert.NotEmpty(t, a.LastError(0), "failures must be readable afterwards")
}

func TestCreateDeviceNilWindow(t *testing.T) {
	a, err := api.New(api.Version)
	require.NoError(t, err)

	h, err := a.CreateDevice(render.Config{})
	assert.Zero(t, h, "handle must be zero exactly when creation fails")
	assert.Equal(t, render.BadArgs, render.CodeOf(err))
}
