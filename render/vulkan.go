package render

import (
	"github.com/cockroachdb/errors"
	vk "github.com/vulkan-go/vulkan"
)

// gpuState holds every Vulkan object a DeviceContext owns. It implements
// the chain interface for the frame protocol.
type gpuState struct {
	ctx    *DeviceContext
	log    Logger
	window Window

	instance    vk.Instance
	physical    vk.PhysicalDevice
	queueFamily uint32
	device      vk.Device
	queue       vk.Queue
	surface     vk.Surface

	cmdPool    vk.CommandPool
	fence      vk.Fence
	semAcquire vk.Semaphore
	semRender  vk.Semaphore

	format      vk.Format
	colorSpace  vk.ColorSpace
	chainExtent Extent
	swapchain   vk.Swapchain

	images         []vk.Image
	views          []vk.ImageView
	framebuffers   []vk.Framebuffer
	commandBuffers []vk.CommandBuffer

	renderPass vk.RenderPass
	pipeline   pipelineSet
	staging    *stagingBuffer
}

// newGPUState builds the full device stack in creation order, registering
// a destructor with the context's teardown stack per owned object so a
// failure anywhere rolls back cleanly.
func newGPUState(c *DeviceContext) (*gpuState, error) {
	g := &gpuState{
		ctx:    c,
		log:    c.log,
		window: c.cfg.Window,
	}

	if err := g.createInstance(c.cfg); err != nil {
		return nil, err
	}
	c.cleanup.push(func() { vk.DestroyInstance(g.instance, nil) })

	// The surface destructor is registered after the device's so the
	// unwind order matches destruction: surface before device, device
	// before instance.
	surface, err := g.window.CreateSurface(g.instance)
	if err != nil {
		return nil, coded(Device, errors.Wrap(err, "window surface creation"))
	}
	g.surface = surface

	if err := g.pickAdapter(); err != nil {
		vk.DestroySurface(g.instance, g.surface, nil)
		return nil, err
	}
	if err := g.createDevice(); err != nil {
		vk.DestroySurface(g.instance, g.surface, nil)
		return nil, err
	}
	c.cleanup.push(func() { vk.DestroyDevice(g.device, nil) })
	c.cleanup.push(func() { vk.DestroySurface(g.instance, g.surface, nil) })

	if err := g.createCommandPool(); err != nil {
		return nil, err
	}
	c.cleanup.push(func() { vk.DestroyCommandPool(g.device, g.cmdPool, nil) })

	if err := g.createSynchronization(); err != nil {
		return nil, err
	}
	c.cleanup.push(func() {
		vk.DestroyFence(g.device, g.fence, nil)
		vk.DestroySemaphore(g.device, g.semRender, nil)
		vk.DestroySemaphore(g.device, g.semAcquire, nil)
	})

	chosen, err := g.chooseSurfaceFormat()
	if err != nil {
		return nil, err
	}
	g.format = chosen.Format
	g.colorSpace = chosen.ColorSpace

	if err := g.createRenderPass(); err != nil {
		return nil, err
	}
	c.cleanup.push(func() { vk.DestroyRenderPass(g.device, g.renderPass, nil) })

	// A minimised window at creation is not an error: the context comes
	// up with the chain absent and the first frame after the window is
	// restored builds it.
	if err := g.createChainObjects(c.cfg.VSync, Extent{c.cfg.Width, c.cfg.Height}); err != nil {
		if CodeOf(err) != NotReady {
			return nil, err
		}
		c.needsRecreate = true
		g.log.Infof("vulkan: window minimised, deferring presentation chain creation")
	}
	c.cleanup.push(func() { g.destroyChainObjects() })

	if err := g.pipeline.create(g.device, g.renderPass, c.cfg.Shaders); err != nil {
		return nil, err
	}
	c.cleanup.push(func() { g.pipeline.destroy(g.device) })

	staging, err := newStagingBuffer(g.device, g.physical, c.cfg.StagingBytes)
	if err != nil {
		return nil, err
	}
	g.staging = staging
	c.cleanup.push(func() { g.staging.destroy() })

	return g, nil
}

func (g *gpuState) createInstance(cfg Config) error {
	if proc := g.window.InstanceProcAddr(); proc != nil {
		vk.SetGetInstanceProcAddr(proc)
	} else if err := vk.SetDefaultGetInstanceProcAddr(); err != nil {
		return coded(Device, errors.Wrap(err, "vk.SetDefaultGetInstanceProcAddr()"))
	}
	if err := vk.Init(); err != nil {
		return coded(Device, errors.Wrap(err, "vk.Init()"))
	}

	extensions := g.window.InstanceExtensions()
	var layers []string
	if cfg.Validation {
		layers = append(layers, "VK_LAYER_KHRONOS_validation")
		extensions = append(extensions, "VK_EXT_debug_report")
	}

	appInfo := &vk.ApplicationInfo{
		SType:              vk.StructureTypeApplicationInfo,
		ApiVersion:         vk.MakeVersion(1, 2, 0),
		ApplicationVersion: vk.MakeVersion(1, 0, 0),
		PApplicationName:   safeString(cfg.AppName),
		PEngineName:        safeString("SolarFramework"),
	}
	ici := vk.InstanceCreateInfo{
		SType:                   vk.StructureTypeInstanceCreateInfo,
		PApplicationInfo:        appInfo,
		EnabledExtensionCount:   uint32(len(extensions)),
		PpEnabledExtensionNames: safeStrings(extensions),
		EnabledLayerCount:       uint32(len(layers)),
		PpEnabledLayerNames:     safeStrings(layers),
	}

	var instance vk.Instance
	if err := vkCall(Device, "vk.CreateInstance", vk.CreateInstance(&ici, nil, &instance)); err != nil {
		return err
	}
	vk.InitInstance(instance)
	g.instance = instance
	g.log.Infof("vulkan: instance created")
	return nil
}

// pickAdapter selects the first physical device offering a queue family
// that supports both graphics submission and presentation to the surface.
// Adapters lacking the combination are skipped.
func (g *gpuState) pickAdapter() error {
	var count uint32
	if err := vkCall(Device, "vk.EnumeratePhysicalDevices", vk.EnumeratePhysicalDevices(g.instance, &count, nil)); err != nil {
		return err
	}
	if count == 0 {
		return codedf(Device, "no Vulkan-capable adapters present")
	}
	adapters := make([]vk.PhysicalDevice, count)
	if err := vkCall(Device, "vk.EnumeratePhysicalDevices", vk.EnumeratePhysicalDevices(g.instance, &count, adapters)); err != nil {
		return err
	}

	for _, adapter := range adapters {
		family, ok := g.findQueueFamily(adapter)
		if !ok {
			continue
		}
		g.physical = adapter
		g.queueFamily = family
		info := describeAdapter(adapter)
		g.log.Infof("vulkan: using adapter %q (vendor 0x%x, queue family %d)", info.Name, info.VendorID, family)
		return nil
	}
	return codedf(Device, "no adapter offers a combined graphics+present queue family")
}

func (g *gpuState) findQueueFamily(adapter vk.PhysicalDevice) (uint32, bool) {
	var count uint32
	vk.GetPhysicalDeviceQueueFamilyProperties(adapter, &count, nil)
	families := make([]vk.QueueFamilyProperties, count)
	vk.GetPhysicalDeviceQueueFamilyProperties(adapter, &count, families)

	for i := uint32(0); i < count; i++ {
		families[i].Deref()
		if families[i].QueueFlags&vk.QueueFlags(vk.QueueGraphicsBit) == 0 {
			continue
		}
		var supported vk.Bool32
		vk.GetPhysicalDeviceSurfaceSupport(adapter, i, g.surface, &supported)
		if supported.B() {
			return i, true
		}
	}
	return 0, false
}

func (g *gpuState) createDevice() error {
	queueInfos := []vk.DeviceQueueCreateInfo{{
		SType:            vk.StructureTypeDeviceQueueCreateInfo,
		QueueFamilyIndex: g.queueFamily,
		QueueCount:       1,
		PQueuePriorities: []float32{1.0},
	}}
	extensions := safeStrings([]string{"VK_KHR_swapchain"})
	dci := vk.DeviceCreateInfo{
		SType:                   vk.StructureTypeDeviceCreateInfo,
		QueueCreateInfoCount:    uint32(len(queueInfos)),
		PQueueCreateInfos:       queueInfos,
		EnabledExtensionCount:   uint32(len(extensions)),
		PpEnabledExtensionNames: extensions,
	}

	var device vk.Device
	if err := vkCall(Device, "vk.CreateDevice", vk.CreateDevice(g.physical, &dci, nil, &device)); err != nil {
		return err
	}
	g.device = device

	var queue vk.Queue
	vk.GetDeviceQueue(device, g.queueFamily, 0, &queue)
	g.queue = queue
	return nil
}

func (g *gpuState) createCommandPool() error {
	cpci := vk.CommandPoolCreateInfo{
		SType:            vk.StructureTypeCommandPoolCreateInfo,
		QueueFamilyIndex: g.queueFamily,
		Flags:            vk.CommandPoolCreateFlags(vk.CommandPoolCreateResetCommandBufferBit),
	}
	var pool vk.CommandPool
	if err := vkCall(Device, "vk.CreateCommandPool", vk.CreateCommandPool(g.device, &cpci, nil, &pool)); err != nil {
		return err
	}
	g.cmdPool = pool
	return nil
}

// createSynchronization builds the single-frame protocol primitives: the
// frame fence (signalled so the first BeginFrame does not block) and the
// acquire and render-complete semaphores.
func (g *gpuState) createSynchronization() error {
	sci := vk.SemaphoreCreateInfo{
		SType: vk.StructureTypeSemaphoreCreateInfo,
	}
	fci := vk.FenceCreateInfo{
		SType: vk.StructureTypeFenceCreateInfo,
		Flags: vk.FenceCreateFlags(vk.FenceCreateSignaledBit),
	}

	var acquire, render vk.Semaphore
	if err := vkCall(Device, "vk.CreateSemaphore", vk.CreateSemaphore(g.device, &sci, nil, &acquire)); err != nil {
		return err
	}
	if err := vkCall(Device, "vk.CreateSemaphore", vk.CreateSemaphore(g.device, &sci, nil, &render)); err != nil {
		vk.DestroySemaphore(g.device, acquire, nil)
		return err
	}
	var fence vk.Fence
	if err := vkCall(Device, "vk.CreateFence", vk.CreateFence(g.device, &fci, nil, &fence)); err != nil {
		vk.DestroySemaphore(g.device, render, nil)
		vk.DestroySemaphore(g.device, acquire, nil)
		return err
	}

	g.semAcquire = acquire
	g.semRender = render
	g.fence = fence
	return nil
}

// waitIdle drains the device. Device is a dispatchable handle, a plain
// pointer on the Go side, so absence is nil rather than a null constant.
func (g *gpuState) waitIdle() {
	if g.device != nil {
		vk.DeviceWaitIdle(g.device)
	}
}
