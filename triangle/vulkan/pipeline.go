package main

import (
	"log"

	"github.com/cockroachdb/errors"
	"github.com/vkngwrapper/core/v3/core1_0"
	"github.com/vkngwrapper/extensions/v3/khr_swapchain"

	"github.com/mygameengine/triangle/scene"
	"github.com/mygameengine/triangle/shaders"
)

// vertexInput describes scene.Vertex as the single binding the pipeline reads.
func vertexInput() *core1_0.PipelineVertexInputStateCreateInfo {
	layout := scene.PositionLayout
	return &core1_0.PipelineVertexInputStateCreateInfo{
		VertexBindingDescriptions: []core1_0.VertexInputBindingDescription{
			{Binding: 0, Stride: layout.Stride, InputRate: core1_0.VertexInputRateVertex},
		},
		VertexAttributeDescriptions: []core1_0.VertexInputAttributeDescription{
			{Binding: 0, Location: scene.PositionLocation, Format: core1_0.FormatR32G32B32SignedFloat, Offset: layout.Offset},
		},
	}
}

// createRenderPass makes a single-subpass pass that clears the swapchain
// image and leaves it ready to present.
func (app *TriangleApplication) createRenderPass(target *renderTarget) error {
	color := core1_0.AttachmentDescription{
		Format:         target.format,
		Samples:        core1_0.Samples1,
		LoadOp:         core1_0.AttachmentLoadOpClear,
		StoreOp:        core1_0.AttachmentStoreOpStore,
		StencilLoadOp:  core1_0.AttachmentLoadOpDontCare,
		StencilStoreOp: core1_0.AttachmentStoreOpDontCare,
		InitialLayout:  core1_0.ImageLayoutUndefined,
		FinalLayout:    khr_swapchain.ImageLayoutPresentSrc,
	}

	// The image may still be read by the presentation engine until the
	// acquire semaphore is waited on at the color output stage.
	waitForAcquire := core1_0.SubpassDependency{
		SrcSubpass:    core1_0.SubpassExternal,
		DstSubpass:    0,
		SrcStageMask:  core1_0.PipelineStageColorAttachmentOutput,
		DstStageMask:  core1_0.PipelineStageColorAttachmentOutput,
		DstAccessMask: core1_0.AccessColorAttachmentWrite,
	}

	var err error
	target.renderPass, _, err = app.deviceDriver.CreateRenderPass(nil, core1_0.RenderPassCreateInfo{
		Attachments: []core1_0.AttachmentDescription{color},
		Subpasses: []core1_0.SubpassDescription{{
			PipelineBindPoint: core1_0.PipelineBindPointGraphics,
			ColorAttachments: []core1_0.AttachmentReference{
				{Attachment: 0, Layout: core1_0.ImageLayoutColorAttachmentOptimal},
			},
		}},
		SubpassDependencies: []core1_0.SubpassDependency{waitForAcquire},
	})
	return errors.Wrap(err, "create render pass")
}

// createGraphicsPipeline leaves target.pipeline unset when either shader
// stage failed to compile. Frames are then cleared but nothing is drawn.
func (app *TriangleApplication) createGraphicsPipeline(target *renderTarget) error {
	if !app.shaders.Vertex.OK() || !app.shaders.Fragment.OK() {
		log.Println("skipping graphics pipeline: shader program is incomplete")
		return nil
	}

	var stages []core1_0.PipelineShaderStageCreateInfo
	for _, stage := range []struct {
		flag  core1_0.ShaderStageFlags
		code  []uint32
		entry string
	}{
		{core1_0.StageVertex, app.shaders.Vertex.Code, shaders.VertexEntryPoint},
		{core1_0.StageFragment, app.shaders.Fragment.Code, shaders.FragmentEntryPoint},
	} {
		module, _, err := app.deviceDriver.CreateShaderModule(nil, core1_0.ShaderModuleCreateInfo{Code: stage.code})
		if err != nil {
			return errors.Wrapf(err, "create %s shader module", stage.entry)
		}
		defer app.deviceDriver.DestroyShaderModule(module, nil)

		stages = append(stages, core1_0.PipelineShaderStageCreateInfo{
			Stage:  stage.flag,
			Module: module,
			Name:   stage.entry,
		})
	}

	var err error
	target.pipelineLayout, _, err = app.deviceDriver.CreatePipelineLayout(nil, core1_0.PipelineLayoutCreateInfo{})
	if err != nil {
		return errors.Wrap(err, "create pipeline layout")
	}

	extent := target.extent
	pipelines, _, err := app.deviceDriver.CreateGraphicsPipelines(nil, nil, core1_0.GraphicsPipelineCreateInfo{
		Stages:           stages,
		VertexInputState: vertexInput(),
		InputAssemblyState: &core1_0.PipelineInputAssemblyStateCreateInfo{
			Topology: core1_0.PrimitiveTopologyTriangleList,
		},
		ViewportState: &core1_0.PipelineViewportStateCreateInfo{
			Viewports: []core1_0.Viewport{
				{Width: float32(extent.Width), Height: float32(extent.Height), MaxDepth: 1},
			},
			Scissors: []core1_0.Rect2D{{Extent: extent}},
		},
		RasterizationState: &core1_0.PipelineRasterizationStateCreateInfo{
			PolygonMode: core1_0.PolygonModeFill,
			// No culling, so winding order after the Y flip does not matter
			CullMode:  0,
			FrontFace: core1_0.FrontFaceCounterClockwise,
			LineWidth: 1.0,
		},
		MultisampleState: &core1_0.PipelineMultisampleStateCreateInfo{
			RasterizationSamples: core1_0.Samples1,
			MinSampleShading:     1.0,
		},
		ColorBlendState: &core1_0.PipelineColorBlendStateCreateInfo{
			LogicOp: core1_0.LogicOpCopy,
			Attachments: []core1_0.PipelineColorBlendAttachmentState{{
				ColorWriteMask: core1_0.ColorComponentRed | core1_0.ColorComponentGreen | core1_0.ColorComponentBlue | core1_0.ColorComponentAlpha,
			}},
		},
		Layout:            target.pipelineLayout,
		RenderPass:        target.renderPass,
		BasePipelineIndex: -1,
	})
	if err != nil {
		return errors.Wrap(err, "create graphics pipeline")
	}
	target.pipeline = pipelines[0]

	return nil
}
