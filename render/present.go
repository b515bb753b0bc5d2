package render

import (
	"math"
	"unsafe"

	vk "github.com/vulkan-go/vulkan"
)

// waitFrame blocks until the previous submission's fence signals. The
// wait is bounded; expiry reports a Device error rather than stalling the
// render thread forever. The fence is reset in submit, not here, so a
// frame abandoned after acquire staleness leaves it signalled.
func (g *gpuState) waitFrame() error {
	timeout := uint64(g.ctx.cfg.FrameTimeout.Nanoseconds())
	res := vk.WaitForFences(g.device, 1, []vk.Fence{g.fence}, vk.True, timeout)
	if res == vk.Timeout {
		return codedf(Device, "frame fence wait exceeded %s, device hung or removed", g.ctx.cfg.FrameTimeout)
	}
	return vkCall(Device, "vk.WaitForFences", res)
}

func (g *gpuState) acquire() (int, bool, error) {
	var index uint32
	res := vk.AcquireNextImage(g.device, g.swapchain, math.MaxUint64, g.semAcquire, vk.NullFence, &index)
	if res == vk.ErrorOutOfDate || res == vk.Suboptimal {
		return 0, true, nil
	}
	if err := vkCall(Device, "vk.AcquireNextImage", res); err != nil {
		return 0, false, err
	}
	return int(index), false, nil
}

// beginRecording opens the image's command buffer and render pass with
// the caller's clear colour, then sets the dynamic viewport and scissor
// for the current extent.
func (g *gpuState) beginRecording(image int, clear Color) error {
	cb := g.commandBuffers[image]

	cbbi := vk.CommandBufferBeginInfo{
		SType: vk.StructureTypeCommandBufferBeginInfo,
		Flags: vk.CommandBufferUsageFlags(vk.CommandBufferUsageOneTimeSubmitBit),
	}
	if err := vkCall(Device, "vk.BeginCommandBuffer", vk.BeginCommandBuffer(cb, &cbbi)); err != nil {
		return err
	}

	clearValues := make([]vk.ClearValue, 1)
	clearValues[0].SetColor(clear[:])

	rpbi := vk.RenderPassBeginInfo{
		SType:       vk.StructureTypeRenderPassBeginInfo,
		RenderPass:  g.renderPass,
		Framebuffer: g.framebuffers[image],
		RenderArea: vk.Rect2D{
			Offset: vk.Offset2D{X: 0, Y: 0},
			Extent: vk.Extent2D{
				Width:  g.chainExtent.Width,
				Height: g.chainExtent.Height,
			},
		},
		ClearValueCount: 1,
		PClearValues:    clearValues,
	}
	vk.CmdBeginRenderPass(cb, &rpbi, vk.SubpassContentsInline)

	vk.CmdSetViewport(cb, 0, 1, []vk.Viewport{{
		X:        0,
		Y:        0,
		Width:    float32(g.chainExtent.Width),
		Height:   float32(g.chainExtent.Height),
		MinDepth: 0,
		MaxDepth: 1,
	}})
	vk.CmdSetScissor(cb, 0, 1, []vk.Rect2D{{
		Offset: vk.Offset2D{X: 0, Y: 0},
		Extent: vk.Extent2D{
			Width:  g.chainExtent.Width,
			Height: g.chainExtent.Height,
		},
	}})
	return nil
}

// finishRecording records the pending line draw, if any, and closes the
// render pass and command buffer.
func (g *gpuState) finishRecording(image int, draw *drawCall) error {
	cb := g.commandBuffers[image]

	if draw != nil && draw.vertexCount > 0 && g.staging.used >= vertexStride {
		vk.CmdBindPipeline(cb, vk.PipelineBindPointGraphics, g.pipeline.pipeline)
		vk.CmdBindVertexBuffers(cb, 0, 1, []vk.Buffer{g.staging.buffer}, []vk.DeviceSize{0})
		vk.CmdSetLineWidth(cb, draw.lineWidth)
		vk.CmdPushConstants(cb, g.pipeline.layout,
			vk.ShaderStageFlags(vk.ShaderStageFragmentBit), 0, 16, unsafe.Pointer(&draw.color[0]))
		vk.CmdDraw(cb, draw.vertexCount, 1, 0, 0)
	}

	vk.CmdEndRenderPass(cb)
	return vkCall(Device, "vk.EndCommandBuffer", vk.EndCommandBuffer(cb))
}

// submit resets the frame fence and hands the command buffer to the
// queue: wait on acquire at color-attachment output, signal
// render-complete, fence the whole frame.
func (g *gpuState) submit(image int) error {
	if err := vkCall(Device, "vk.ResetFences", vk.ResetFences(g.device, 1, []vk.Fence{g.fence})); err != nil {
		return err
	}

	submits := []vk.SubmitInfo{{
		SType:              vk.StructureTypeSubmitInfo,
		WaitSemaphoreCount: 1,
		PWaitSemaphores:    []vk.Semaphore{g.semAcquire},
		PWaitDstStageMask: []vk.PipelineStageFlags{
			vk.PipelineStageFlags(vk.PipelineStageColorAttachmentOutputBit),
		},
		CommandBufferCount:   1,
		PCommandBuffers:      []vk.CommandBuffer{g.commandBuffers[image]},
		SignalSemaphoreCount: 1,
		PSignalSemaphores:    []vk.Semaphore{g.semRender},
	}}
	return vkCall(Device, "vk.QueueSubmit", vk.QueueSubmit(g.queue, 1, submits, g.fence))
}

func (g *gpuState) present(image int) (bool, error) {
	index := uint32(image)
	pi := vk.PresentInfo{
		SType:              vk.StructureTypePresentInfo,
		WaitSemaphoreCount: 1,
		PWaitSemaphores:    []vk.Semaphore{g.semRender},
		SwapchainCount:     1,
		PSwapchains:        []vk.Swapchain{g.swapchain},
		PImageIndices:      []uint32{index},
	}
	res := vk.QueuePresent(g.queue, &pi)
	if res == vk.ErrorOutOfDate || res == vk.Suboptimal {
		return true, nil
	}
	return false, vkCall(Device, "vk.QueuePresent", res)
}
