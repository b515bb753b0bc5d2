package render

// chain is the GPU-facing half of the frame protocol: the presentation
// chain plus the fence and semaphores that guard it. gpuState implements
// it against Vulkan; the frame tests drive the protocol against a stub.
// Acquire and present report staleness as a value, not an error, so the
// caller can route it into the recreate flag.
type chain interface {
	// clientExtent is the live window client area.
	clientExtent() Extent

	// extent is the extent the current chain was built for.
	extent() Extent

	// rebuild runs the recreation protocol: wait idle, destroy chain
	// objects, re-query the surface and build anew. Returns a NotReady
	// error while the window is minimised.
	rebuild() error

	// waitFrame blocks until the previous submission's fence signals.
	waitFrame() error

	// acquire obtains the next presentable image with the acquire
	// semaphore.
	acquire() (image int, outdated bool, err error)

	// beginRecording begins the image's command buffer and render pass
	// with the given clear colour and current dynamic state.
	beginRecording(image int, clear Color) error

	// finishRecording records the pending draw, if any, then ends the
	// render pass and command buffer.
	finishRecording(image int, draw *drawCall) error

	// submit resets the frame fence and submits the image's command
	// buffer, waiting on acquire and signalling render-complete.
	submit(image int) error

	// present queues the present request for the image, waiting on
	// render-complete.
	present(image int) (outdated bool, err error)
}

// frameState tracks where the single in-flight frame is in its lifecycle.
type frameState int

const (
	frameIdle frameState = iota
	frameRecording
	frameSubmitted
)

// drawCall is the at-most-one pending line draw of the current frame. A
// second DrawLines before EndFrame overwrites it.
type drawCall struct {
	vertexCount uint32
	color       Color
	lineWidth   float32
}

// BeginFrame gates the frame: it defers while the window is minimised,
// consumes the recreate flag, waits out the previous frame and acquires
// the next presentable image. On success command recording is open and
// the caller may stage a draw.
func (c *DeviceContext) BeginFrame(clear Color) error {
	if err := c.usable(); err != nil {
		return c.fail(err)
	}

	live := c.chain.clientExtent()
	if live.zero() {
		return c.fail(codedf(NotReady, "window minimised"))
	}
	if live != c.chain.extent() {
		c.needsRecreate = true
	}

	if c.needsRecreate {
		if err := c.chain.rebuild(); err != nil {
			// The flag stays set so the next frame retries.
			return c.fail(err)
		}
		c.needsRecreate = false
		c.log.Infof("presentation chain recreated (%dx%d)", c.chain.extent().Width, c.chain.extent().Height)
	}

	if err := c.chain.waitFrame(); err != nil {
		return c.fail(err)
	}

	image, outdated, err := c.chain.acquire()
	if outdated {
		c.needsRecreate = true
		return c.fail(codedf(OutOfDate, "presentation chain stale on acquire"))
	}
	if err != nil {
		return c.fail(err)
	}
	c.image = image

	if err := c.chain.beginRecording(image, clear); err != nil {
		return c.fail(err)
	}
	c.state = frameRecording
	return nil
}

// DrawLines stages count line-list vertices (three float32 each) into the
// mapped buffer and marks the frame's pending draw. The staged content is
// replaced wholesale; only the last call before EndFrame is drawn. A
// payload beyond the fixed capacity fails with NoMem and leaves prior
// state unchanged.
func (c *DeviceContext) DrawLines(vertices []float32, count uint32, color Color, lineWidth float32) error {
	if err := c.usable(); err != nil {
		return c.fail(err)
	}
	if count == 0 || vertices == nil {
		return nil
	}
	// Sizes are computed in 64 bits: count*12 overflows uint32 long
	// before it exceeds any real capacity.
	need := uint64(count) * vertexStride
	if need > uint64(c.staging.capacity) {
		return c.fail(codedf(NoMem, "lines buffer overflow: need %d bytes, capacity %d", need, c.staging.capacity))
	}
	if uint64(len(vertices)) < uint64(count)*vertexFloats {
		return c.fail(codedf(BadArgs, "vertex slice holds %d floats, need %d", len(vertices), uint64(count)*vertexFloats))
	}
	if err := c.staging.stage(vertices[:count*vertexFloats]); err != nil {
		return c.fail(err)
	}
	if lineWidth <= 0 {
		lineWidth = 1
	}
	c.pending = &drawCall{
		vertexCount: count,
		color:       color,
		lineWidth:   lineWidth,
	}
	return nil
}

// EndFrame records the pending draw (if any), closes the command buffer
// and submits it. The pending draw and staged vertex usage are reset
// whether or not a draw was recorded. A frame that never opened recording
// is a no-op beyond that reset.
func (c *DeviceContext) EndFrame() error {
	if err := c.usable(); err != nil {
		return c.fail(err)
	}
	if c.state != frameRecording {
		c.resetDraw()
		return nil
	}

	pending := c.pending
	c.resetDraw()

	if err := c.chain.finishRecording(c.image, pending); err != nil {
		c.state = frameIdle
		return c.fail(err)
	}
	if err := c.chain.submit(c.image); err != nil {
		c.state = frameIdle
		return c.fail(err)
	}
	c.state = frameSubmitted
	return nil
}

// Present queues the present request for the submitted frame. Staleness
// here flags recreation for the next frame but does not fail this one:
// the work was submitted and will complete.
func (c *DeviceContext) Present() error {
	if err := c.usable(); err != nil {
		return c.fail(err)
	}
	if c.state != frameSubmitted {
		return nil
	}
	c.state = frameIdle

	outdated, err := c.chain.present(c.image)
	if outdated {
		c.needsRecreate = true
	}
	if err != nil {
		return c.fail(err)
	}
	return nil
}

// Resize notes a new client area. Zero in either dimension defers
// recreation until a later non-zero notification or frame attempt.
func (c *DeviceContext) Resize(width, height uint32) {
	if c.usable() != nil {
		return
	}
	if width == 0 || height == 0 {
		return
	}
	c.needsRecreate = true
}

func (c *DeviceContext) resetDraw() {
	c.pending = nil
	c.staging.reset()
}
