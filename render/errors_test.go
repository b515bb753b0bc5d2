package render

import (
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	vk "github.com/vulkan-go/vulkan"
)

func TestCodeOf(t *testing.T) {
	assert.Equal(t, Ok, CodeOf(nil))
	assert.Equal(t, Unspecified, CodeOf(errors.New("plain")))
	assert.Equal(t, NoMem, CodeOf(codedf(NoMem, "buffer overflow")))

	// Codes survive wrapping.
	wrapped := errors.Wrap(codedf(OutOfDate, "stale"), "begin frame")
	assert.Equal(t, OutOfDate, CodeOf(wrapped))
}

func TestTransient(t *testing.T) {
	assert.True(t, NotReady.Transient())
	assert.True(t, OutOfDate.Transient())
	assert.False(t, Device.Transient())
	assert.False(t, BadArgs.Transient())
	assert.False(t, Ok.Transient())
}

func TestErrorMessage(t *testing.T) {
	err := codedf(Device, "fence wait exceeded %v", "10s")
	assert.Equal(t, "device failure: fence wait exceeded 10s", err.Error())
}

func TestNewError(t *testing.T) {
	err := NewError(Unsupported, errors.New("table version 2"))
	assert.Equal(t, Unsupported, CodeOf(err))
	assert.Contains(t, err.Error(), "unsupported")
}

func TestVkCall(t *testing.T) {
	assert.NoError(t, vkCall(Device, "vk.CreateDevice", vk.Success))

	err := vkCall(Device, "vk.CreateDevice", vk.ErrorOutOfDeviceMemory)
	assert.Equal(t, Device, CodeOf(err))
	assert.Contains(t, err.Error(), "vk.CreateDevice()")
}
