package render

import (
	vk "github.com/vulkan-go/vulkan"
)

// createRenderPass builds the single-subpass color pass for the chosen
// surface format: cleared on load, stored, transitioned to present.
func (g *gpuState) createRenderPass() error {
	attachments := []vk.AttachmentDescription{{
		Format:         g.format,
		Samples:        vk.SampleCount1Bit,
		LoadOp:         vk.AttachmentLoadOpClear,
		StoreOp:        vk.AttachmentStoreOpStore,
		StencilLoadOp:  vk.AttachmentLoadOpDontCare,
		StencilStoreOp: vk.AttachmentStoreOpDontCare,
		InitialLayout:  vk.ImageLayoutUndefined,
		FinalLayout:    vk.ImageLayoutPresentSrc,
	}}

	colorRef := []vk.AttachmentReference{{
		Attachment: 0,
		Layout:     vk.ImageLayoutColorAttachmentOptimal,
	}}
	subpass := vk.SubpassDescription{
		PipelineBindPoint:    vk.PipelineBindPointGraphics,
		ColorAttachmentCount: uint32(len(colorRef)),
		PColorAttachments:    colorRef,
	}
	dependency := vk.SubpassDependency{
		SrcSubpass:    vk.SubpassExternal,
		DstSubpass:    0,
		SrcStageMask:  vk.PipelineStageFlags(vk.PipelineStageColorAttachmentOutputBit),
		DstStageMask:  vk.PipelineStageFlags(vk.PipelineStageColorAttachmentOutputBit),
		DstAccessMask: vk.AccessFlags(vk.AccessColorAttachmentWriteBit),
	}

	rpci := vk.RenderPassCreateInfo{
		SType:           vk.StructureTypeRenderPassCreateInfo,
		AttachmentCount: uint32(len(attachments)),
		PAttachments:    attachments,
		SubpassCount:    1,
		PSubpasses:      []vk.SubpassDescription{subpass},
		DependencyCount: 1,
		PDependencies:   []vk.SubpassDependency{dependency},
	}

	var renderPass vk.RenderPass
	if err := vkCall(Device, "vk.CreateRenderPass", vk.CreateRenderPass(g.device, &rpci, nil, &renderPass)); err != nil {
		return err
	}
	g.renderPass = renderPass
	return nil
}

// pipelineSet is the fixed line pipeline and its layout: line-list
// topology, a 16-byte fragment-stage push-constant colour block, and
// viewport, scissor and line width left dynamic so chain recreation never
// touches it.
type pipelineSet struct {
	layout   vk.PipelineLayout
	pipeline vk.Pipeline
}

func (p *pipelineSet) create(device vk.Device, renderPass vk.RenderPass, shaders ShaderSet) error {
	plci := vk.PipelineLayoutCreateInfo{
		SType:                  vk.StructureTypePipelineLayoutCreateInfo,
		PushConstantRangeCount: 1,
		PPushConstantRanges: []vk.PushConstantRange{{
			StageFlags: vk.ShaderStageFlags(vk.ShaderStageFragmentBit),
			Offset:     0,
			Size:       16,
		}},
	}
	var layout vk.PipelineLayout
	if err := vkCall(Device, "vk.CreatePipelineLayout", vk.CreatePipelineLayout(device, &plci, nil, &layout)); err != nil {
		return err
	}

	vert, err := newShaderModule(device, shaders.VertexNDC)
	if err != nil {
		vk.DestroyPipelineLayout(device, layout, nil)
		return err
	}
	frag, err := newShaderModule(device, shaders.Fragment)
	if err != nil {
		vk.DestroyShaderModule(device, vert, nil)
		vk.DestroyPipelineLayout(device, layout, nil)
		return err
	}
	// Modules are only needed while the pipeline is assembled.
	defer vk.DestroyShaderModule(device, frag, nil)
	defer vk.DestroyShaderModule(device, vert, nil)

	stages := []vk.PipelineShaderStageCreateInfo{{
		SType:  vk.StructureTypePipelineShaderStageCreateInfo,
		Stage:  vk.ShaderStageVertexBit,
		Module: vert,
		PName:  safeString("main"),
	}, {
		SType:  vk.StructureTypePipelineShaderStageCreateInfo,
		Stage:  vk.ShaderStageFragmentBit,
		Module: frag,
		PName:  safeString("main"),
	}}

	gpci := []vk.GraphicsPipelineCreateInfo{{
		SType:      vk.StructureTypeGraphicsPipelineCreateInfo,
		StageCount: uint32(len(stages)),
		PStages:    stages,
		PVertexInputState: &vk.PipelineVertexInputStateCreateInfo{
			SType:                         vk.StructureTypePipelineVertexInputStateCreateInfo,
			VertexBindingDescriptionCount: 1,
			PVertexBindingDescriptions: []vk.VertexInputBindingDescription{{
				Binding:   0,
				Stride:    vertexStride,
				InputRate: vk.VertexInputRateVertex,
			}},
			VertexAttributeDescriptionCount: 1,
			PVertexAttributeDescriptions: []vk.VertexInputAttributeDescription{{
				Location: 0,
				Binding:  0,
				Format:   vk.FormatR32g32b32Sfloat,
				Offset:   0,
			}},
		},
		PInputAssemblyState: &vk.PipelineInputAssemblyStateCreateInfo{
			SType:    vk.StructureTypePipelineInputAssemblyStateCreateInfo,
			Topology: vk.PrimitiveTopologyLineList,
		},
		PViewportState: &vk.PipelineViewportStateCreateInfo{
			SType:         vk.StructureTypePipelineViewportStateCreateInfo,
			ViewportCount: 1,
			ScissorCount:  1,
		},
		PRasterizationState: &vk.PipelineRasterizationStateCreateInfo{
			SType:       vk.StructureTypePipelineRasterizationStateCreateInfo,
			PolygonMode: vk.PolygonModeFill,
			CullMode:    vk.CullModeFlags(vk.CullModeNone),
			FrontFace:   vk.FrontFaceCounterClockwise,
			LineWidth:   1.0,
		},
		PMultisampleState: &vk.PipelineMultisampleStateCreateInfo{
			SType:                vk.StructureTypePipelineMultisampleStateCreateInfo,
			RasterizationSamples: vk.SampleCount1Bit,
		},
		PColorBlendState: &vk.PipelineColorBlendStateCreateInfo{
			SType:           vk.StructureTypePipelineColorBlendStateCreateInfo,
			AttachmentCount: 1,
			PAttachments: []vk.PipelineColorBlendAttachmentState{{
				ColorWriteMask: vk.ColorComponentFlags(
					vk.ColorComponentRBit | vk.ColorComponentGBit |
						vk.ColorComponentBBit | vk.ColorComponentABit),
			}},
		},
		PDynamicState: &vk.PipelineDynamicStateCreateInfo{
			SType:             vk.StructureTypePipelineDynamicStateCreateInfo,
			DynamicStateCount: 3,
			PDynamicStates: []vk.DynamicState{
				vk.DynamicStateViewport,
				vk.DynamicStateScissor,
				vk.DynamicStateLineWidth,
			},
		},
		Layout:     layout,
		RenderPass: renderPass,
	}}

	pipelines := make([]vk.Pipeline, len(gpci))
	if err := vkCall(Device, "vk.CreateGraphicsPipelines",
		vk.CreateGraphicsPipelines(device, vk.NullPipelineCache, uint32(len(gpci)), gpci, nil, pipelines)); err != nil {
		vk.DestroyPipelineLayout(device, layout, nil)
		return err
	}

	p.layout = layout
	p.pipeline = pipelines[0]
	return nil
}

func (p *pipelineSet) destroy(device vk.Device) {
	if p.pipeline != vk.NullPipeline {
		vk.DestroyPipeline(device, p.pipeline, nil)
		p.pipeline = vk.NullPipeline
	}
	if p.layout != vk.NullPipelineLayout {
		vk.DestroyPipelineLayout(device, p.layout, nil)
		p.layout = vk.NullPipelineLayout
	}
}
