package render

// teardown collects destructors in creation order and runs them in
// reverse. Any failure mid-create unwinds everything created so far, so a
// partial context is never handed to the caller.
type teardown struct {
	fns []func()
}

func (t *teardown) push(fn func()) {
	t.fns = append(t.fns, fn)
}

func (t *teardown) unwind() {
	for i := len(t.fns) - 1; i >= 0; i-- {
		t.fns[i]()
	}
	t.fns = nil
}

// live is the number of registered destructors that have not run yet. It
// balances to zero after a rollback or a full destroy.
func (t *teardown) live() int {
	return len(t.fns)
}

// DeviceContext owns one logical device, its queue, command pool,
// presentation chain, line pipeline, vertex staging buffer and frame
// synchronisation state. All methods must be called from the single
// caller-designated render thread; there is no internal locking.
type DeviceContext struct {
	cfg Config
	log Logger

	gpu     *gpuState
	chain   chain
	staging *stagingBuffer

	cleanup teardown

	needsRecreate bool
	state         frameState
	image         int
	pending       *drawCall
	camera        cameraState

	lastErr   string
	destroyed bool
}

// NewDeviceContext creates the device, presentation chain, pipeline and
// staging buffer against the given window. On any failure everything
// created so far is torn down in reverse order before the error is
// returned.
func NewDeviceContext(cfg Config) (*DeviceContext, error) {
	if cfg.Window == nil {
		return nil, codedf(BadArgs, "nil window handle")
	}
	cfg = cfg.withDefaults()
	if err := cfg.Shaders.validate(); err != nil {
		return nil, err
	}

	c := &DeviceContext{
		cfg: cfg,
		log: cfg.Logger,
	}
	gpu, err := newGPUState(c)
	if err != nil {
		c.cleanup.unwind()
		return nil, err
	}
	c.gpu = gpu
	c.chain = gpu
	c.staging = gpu.staging

	c.log.Infof("vulkan: swapchain and line pipeline ready (%dx%d)",
		gpu.chainExtent.Width, gpu.chainExtent.Height)
	return c, nil
}

// Destroy blocks until the device is idle, then frees every owned object
// in reverse creation order. The context is terminal afterwards; it is
// never reused.
func (c *DeviceContext) Destroy() {
	if c == nil || c.destroyed {
		return
	}
	c.destroyed = true
	if c.gpu != nil {
		c.gpu.waitIdle()
	}
	c.cleanup.unwind()
	c.chain = nil
	c.staging = nil
	c.gpu = nil
	c.log.Infof("vulkan: device destroyed")
}

// LastError returns the message of the most recent failure, for
// diagnostics only; it carries no control-flow meaning.
func (c *DeviceContext) LastError() string {
	return c.lastErr
}

// StagingUsed returns the staged vertex byte count of the current frame.
func (c *DeviceContext) StagingUsed() uint32 {
	if c.staging == nil {
		return 0
	}
	return c.staging.used
}

// StagingCapacity returns the fixed staging buffer capacity in bytes.
func (c *DeviceContext) StagingCapacity() uint32 {
	if c.staging == nil {
		return 0
	}
	return c.staging.capacity
}

// LiveResources counts GPU-owning objects that have been created and not
// yet destroyed. It balances to zero after Destroy and after any failed
// create.
func (c *DeviceContext) LiveResources() int {
	return c.cleanup.live()
}

func (c *DeviceContext) usable() error {
	if c.destroyed {
		return codedf(BadArgs, "device context already destroyed")
	}
	if c.chain == nil {
		return codedf(BadArgs, "device context not created")
	}
	return nil
}

// fail records the last-error string and passes the error through.
func (c *DeviceContext) fail(err error) error {
	c.lastErr = err.Error()
	if CodeOf(err).Transient() {
		c.log.Debugf("%v", err)
	} else {
		c.log.Errorf("%v", err)
	}
	return err
}
