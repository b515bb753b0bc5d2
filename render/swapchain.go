package render

import (
	"math"

	vk "github.com/vulkan-go/vulkan"
)

// chooseSurfaceFormat prefers 8-bit BGRA (unorm or srgb) with the srgb
// non-linear colorspace, falling back to the first reported format. The
// entries must already be dereferenced.
func chooseSurfaceFormat(formats []vk.SurfaceFormat) vk.SurfaceFormat {
	for _, f := range formats {
		if (f.Format == vk.FormatB8g8r8a8Unorm || f.Format == vk.FormatB8g8r8a8Srgb) &&
			f.ColorSpace == vk.ColorSpaceSrgbNonlinear {
			return f
		}
	}
	return formats[0]
}

// choosePresentMode selects FIFO when vsync is requested; otherwise
// mailbox, then immediate, then the always-available FIFO.
func choosePresentMode(modes []vk.PresentMode, vsync bool) vk.PresentMode {
	if vsync {
		return vk.PresentModeFifo
	}
	for _, m := range modes {
		if m == vk.PresentModeMailbox {
			return m
		}
	}
	for _, m := range modes {
		if m == vk.PresentModeImmediate {
			return m
		}
	}
	return vk.PresentModeFifo
}

// chooseExtent resolves the chain extent: the surface's current extent
// when it reports one, otherwise the live client area (or the creation
// hint when the live query is empty) clamped to the surface limits.
func chooseExtent(current, min, max, live, hint Extent) Extent {
	if current.Width != math.MaxUint32 {
		return current
	}
	e := live
	if e.zero() {
		e = hint
	}
	if e.Width < min.Width {
		e.Width = min.Width
	}
	if e.Height < min.Height {
		e.Height = min.Height
	}
	if max.Width > 0 && e.Width > max.Width {
		e.Width = max.Width
	}
	if max.Height > 0 && e.Height > max.Height {
		e.Height = max.Height
	}
	return e
}

func (g *gpuState) clientExtent() Extent {
	w, h := g.window.DrawableExtent()
	return Extent{w, h}
}

func (g *gpuState) extent() Extent {
	return g.chainExtent
}

// chooseSurfaceFormat queries the surface and picks the chain format.
func (g *gpuState) chooseSurfaceFormat() (vk.SurfaceFormat, error) {
	var count uint32
	if err := vkCall(Device, "vk.GetPhysicalDeviceSurfaceFormats",
		vk.GetPhysicalDeviceSurfaceFormats(g.physical, g.surface, &count, nil)); err != nil {
		return vk.SurfaceFormat{}, err
	}
	if count == 0 {
		return vk.SurfaceFormat{}, codedf(Device, "surface reports no formats")
	}
	formats := make([]vk.SurfaceFormat, count)
	if err := vkCall(Device, "vk.GetPhysicalDeviceSurfaceFormats",
		vk.GetPhysicalDeviceSurfaceFormats(g.physical, g.surface, &count, formats)); err != nil {
		return vk.SurfaceFormat{}, err
	}
	for i := range formats {
		formats[i].Deref()
	}
	return chooseSurfaceFormat(formats), nil
}

// createChainObjects queries the current surface capabilities and builds
// the swapchain, one view, framebuffer and command buffer per image. The
// render pass must exist already. Partial failures clean up after
// themselves, leaving the chain absent.
func (g *gpuState) createChainObjects(vsync bool, hint Extent) error {
	var caps vk.SurfaceCapabilities
	if err := vkCall(Device, "vk.GetPhysicalDeviceSurfaceCapabilities",
		vk.GetPhysicalDeviceSurfaceCapabilities(g.physical, g.surface, &caps)); err != nil {
		return err
	}
	caps.Deref()
	caps.CurrentExtent.Deref()
	caps.MinImageExtent.Deref()
	caps.MaxImageExtent.Deref()

	var modeCount uint32
	if err := vkCall(Device, "vk.GetPhysicalDeviceSurfacePresentModes",
		vk.GetPhysicalDeviceSurfacePresentModes(g.physical, g.surface, &modeCount, nil)); err != nil {
		return err
	}
	modes := make([]vk.PresentMode, modeCount)
	if err := vkCall(Device, "vk.GetPhysicalDeviceSurfacePresentModes",
		vk.GetPhysicalDeviceSurfacePresentModes(g.physical, g.surface, &modeCount, modes)); err != nil {
		return err
	}

	extent := chooseExtent(
		Extent{caps.CurrentExtent.Width, caps.CurrentExtent.Height},
		Extent{caps.MinImageExtent.Width, caps.MinImageExtent.Height},
		Extent{caps.MaxImageExtent.Width, caps.MaxImageExtent.Height},
		g.clientExtent(), hint)
	if extent.zero() {
		return codedf(NotReady, "window minimised, deferring chain creation")
	}

	imageCount := caps.MinImageCount + 1
	if caps.MaxImageCount > 0 && imageCount > caps.MaxImageCount {
		imageCount = caps.MaxImageCount
	}

	scci := vk.SwapchainCreateInfo{
		SType:           vk.StructureTypeSwapchainCreateInfo,
		Surface:         g.surface,
		MinImageCount:   imageCount,
		ImageFormat:     g.format,
		ImageColorSpace: g.colorSpace,
		ImageExtent: vk.Extent2D{
			Width:  extent.Width,
			Height: extent.Height,
		},
		ImageArrayLayers: 1,
		ImageUsage:       vk.ImageUsageFlags(vk.ImageUsageColorAttachmentBit),
		ImageSharingMode: vk.SharingModeExclusive,
		PreTransform:     caps.CurrentTransform,
		CompositeAlpha:   vk.CompositeAlphaOpaqueBit,
		PresentMode:      choosePresentMode(modes, vsync),
		Clipped:          vk.True,
	}
	var swapchain vk.Swapchain
	if err := vkCall(Device, "vk.CreateSwapchain", vk.CreateSwapchain(g.device, &scci, nil, &swapchain)); err != nil {
		return err
	}
	g.swapchain = swapchain
	g.chainExtent = extent

	var count uint32
	if err := vkCall(Device, "vk.GetSwapchainImages", vk.GetSwapchainImages(g.device, swapchain, &count, nil)); err != nil {
		g.destroyChainObjects()
		return err
	}
	g.images = make([]vk.Image, count)
	if err := vkCall(Device, "vk.GetSwapchainImages", vk.GetSwapchainImages(g.device, swapchain, &count, g.images)); err != nil {
		g.destroyChainObjects()
		return err
	}

	for _, image := range g.images {
		ivci := vk.ImageViewCreateInfo{
			SType:    vk.StructureTypeImageViewCreateInfo,
			Image:    image,
			ViewType: vk.ImageViewType2d,
			Format:   g.format,
			SubresourceRange: vk.ImageSubresourceRange{
				AspectMask: vk.ImageAspectFlags(vk.ImageAspectColorBit),
				LevelCount: 1,
				LayerCount: 1,
			},
		}
		var view vk.ImageView
		if err := vkCall(Device, "vk.CreateImageView", vk.CreateImageView(g.device, &ivci, nil, &view)); err != nil {
			g.destroyChainObjects()
			return err
		}
		g.views = append(g.views, view)
	}

	for _, view := range g.views {
		fci := vk.FramebufferCreateInfo{
			SType:           vk.StructureTypeFramebufferCreateInfo,
			RenderPass:      g.renderPass,
			AttachmentCount: 1,
			PAttachments:    []vk.ImageView{view},
			Width:           extent.Width,
			Height:          extent.Height,
			Layers:          1,
		}
		var framebuffer vk.Framebuffer
		if err := vkCall(Device, "vk.CreateFramebuffer", vk.CreateFramebuffer(g.device, &fci, nil, &framebuffer)); err != nil {
			g.destroyChainObjects()
			return err
		}
		g.framebuffers = append(g.framebuffers, framebuffer)
	}

	cbai := vk.CommandBufferAllocateInfo{
		SType:              vk.StructureTypeCommandBufferAllocateInfo,
		CommandPool:        g.cmdPool,
		Level:              vk.CommandBufferLevelPrimary,
		CommandBufferCount: uint32(len(g.images)),
	}
	commandBuffers := make([]vk.CommandBuffer, len(g.images))
	if err := vkCall(Device, "vk.AllocateCommandBuffers", vk.AllocateCommandBuffers(g.device, &cbai, commandBuffers)); err != nil {
		g.destroyChainObjects()
		return err
	}
	g.commandBuffers = commandBuffers

	return nil
}

// destroyChainObjects frees framebuffers, views, command buffers and the
// swapchain itself. The images are owned by the presentation subsystem
// and are not freed individually. The render pass and pipeline survive.
func (g *gpuState) destroyChainObjects() {
	for _, fb := range g.framebuffers {
		vk.DestroyFramebuffer(g.device, fb, nil)
	}
	g.framebuffers = nil

	for _, view := range g.views {
		vk.DestroyImageView(g.device, view, nil)
	}
	g.views = nil
	g.images = nil

	if len(g.commandBuffers) > 0 {
		vk.FreeCommandBuffers(g.device, g.cmdPool, uint32(len(g.commandBuffers)), g.commandBuffers)
		g.commandBuffers = nil
	}

	if g.swapchain != vk.NullSwapchain {
		vk.DestroySwapchain(g.device, g.swapchain, nil)
		g.swapchain = vk.NullSwapchain
	}
	g.chainExtent = Extent{}
}

// rebuild runs the recreation protocol: wait idle, tear down the chain
// objects, re-query the surface and build against the current geometry.
// A surface format change also rebuilds the render pass and pipeline,
// which otherwise survive recreation untouched.
func (g *gpuState) rebuild() error {
	if g.clientExtent().zero() {
		return codedf(NotReady, "window minimised, deferring chain recreation")
	}

	g.waitIdle()
	g.destroyChainObjects()

	chosen, err := g.chooseSurfaceFormat()
	if err != nil {
		return err
	}
	// A pass or pipeline missing here is a prior rebuild that failed
	// midway; retry the recreation even though the format matches.
	if chosen.Format != g.format || chosen.ColorSpace != g.colorSpace ||
		g.renderPass == vk.NullRenderPass || g.pipeline.pipeline == vk.NullPipeline {
		if chosen.Format != g.format {
			g.log.Infof("vulkan: surface format changed (%d -> %d), rebuilding render pass and pipeline",
				g.format, chosen.Format)
		}
		g.pipeline.destroy(g.device)
		if g.renderPass != vk.NullRenderPass {
			vk.DestroyRenderPass(g.device, g.renderPass, nil)
			g.renderPass = vk.NullRenderPass
		}
		g.format = chosen.Format
		g.colorSpace = chosen.ColorSpace
		if err := g.createRenderPass(); err != nil {
			return err
		}
		if err := g.pipeline.create(g.device, g.renderPass, g.ctx.cfg.Shaders); err != nil {
			return err
		}
	}

	return g.createChainObjects(g.ctx.cfg.VSync, g.clientExtent())
}
