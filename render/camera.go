package render

import (
	"github.com/go-gl/mathgl/mgl64"
)

// cameraState stores the host-supplied camera verbatim. The line pipeline
// does not consume it yet; it is retained for the world-space vertex
// stage.
type cameraState struct {
	view        mgl64.Mat3x4
	projection  mgl64.Mat4
	worldOrigin mgl64.Vec3
}

// SetView stores the 3x4 view matrix.
func (c *DeviceContext) SetView(view mgl64.Mat3x4) {
	c.camera.view = view
}

// SetProjection stores the 4x4 projection matrix.
func (c *DeviceContext) SetProjection(projection mgl64.Mat4) {
	c.camera.projection = projection
}

// SetWorldOrigin stores the double-precision world origin.
func (c *DeviceContext) SetWorldOrigin(origin mgl64.Vec3) {
	c.camera.worldOrigin = origin
}

// View returns the stored view matrix.
func (c *DeviceContext) View() mgl64.Mat3x4 {
	return c.camera.view
}

// Projection returns the stored projection matrix.
func (c *DeviceContext) Projection() mgl64.Mat4 {
	return c.camera.projection
}

// WorldOrigin returns the stored world origin.
func (c *DeviceContext) WorldOrigin() mgl64.Vec3 {
	return c.camera.worldOrigin
}
