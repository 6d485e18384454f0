package main

import (
	"github.com/cockroachdb/errors"
	"github.com/vkngwrapper/core/v3/common"
	"github.com/vkngwrapper/core/v3/core1_0"
	"github.com/vkngwrapper/extensions/v3/khr_swapchain"

	"github.com/mygameengine/triangle/scene"
)

// recordCommands gives every target image a command buffer that clears it
// and, when the pipeline exists, draws the triangle. The buffers are recorded
// once and replayed each frame.
func (app *TriangleApplication) recordCommands(target *renderTarget) error {
	buffers, _, err := app.deviceDriver.AllocateCommandBuffers(core1_0.CommandBufferAllocateInfo{
		CommandPool:        app.commandPool,
		Level:              core1_0.CommandBufferLevelPrimary,
		CommandBufferCount: len(target.images),
	})
	if err != nil {
		return errors.Wrap(err, "allocate command buffers")
	}

	background := scene.ClearColor
	for idx := range target.images {
		slot := &target.images[idx]
		slot.commands = buffers[idx]

		if _, err := app.deviceDriver.BeginCommandBuffer(slot.commands, core1_0.CommandBufferBeginInfo{}); err != nil {
			return errors.Wrap(err, "begin command buffer")
		}

		err = app.deviceDriver.CmdBeginRenderPass(slot.commands, core1_0.SubpassContentsInline, core1_0.RenderPassBeginInfo{
			RenderPass:  target.renderPass,
			Framebuffer: slot.framebuffer,
			RenderArea:  core1_0.Rect2D{Extent: target.extent},
			ClearValues: []core1_0.ClearValue{
				core1_0.ClearValueFloat{background[0], background[1], background[2], background[3]},
			},
		})
		if err != nil {
			return errors.Wrap(err, "begin render pass")
		}

		if target.pipeline.Initialized() {
			app.deviceDriver.CmdBindPipeline(slot.commands, core1_0.PipelineBindPointGraphics, target.pipeline)
			app.deviceDriver.CmdBindVertexBuffers(slot.commands, 0, []core1_0.Buffer{app.vertexBuffer}, []int{0})
			app.deviceDriver.CmdDraw(slot.commands, scene.VertexCount, 1, 0, 0)
		}
		app.deviceDriver.CmdEndRenderPass(slot.commands)

		if _, err := app.deviceDriver.EndCommandBuffer(slot.commands); err != nil {
			return errors.Wrap(err, "end command buffer")
		}
	}

	return nil
}

// createFrameSync makes the acquire semaphore and fence for each frame in
// flight. Fences start signaled so the first wait on each returns at once.
func (app *TriangleApplication) createFrameSync() error {
	for idx := range app.frames {
		frame := &app.frames[idx]

		var err error
		frame.imageAvailable, _, err = app.deviceDriver.CreateSemaphore(nil, core1_0.SemaphoreCreateInfo{})
		if err != nil {
			return errors.Wrapf(err, "create image-available semaphore %d", idx)
		}

		frame.inFlight, _, err = app.deviceDriver.CreateFence(nil, core1_0.FenceCreateInfo{Flags: core1_0.FenceCreateSignaled})
		if err != nil {
			return errors.Wrapf(err, "create in-flight fence %d", idx)
		}
	}

	return nil
}

// drawFrame replays the acquired image's command buffer. An out-of-date or
// suboptimal swapchain rebuilds the target instead of failing the frame.
func (app *TriangleApplication) drawFrame() error {
	frame := &app.frames[app.currentFrame]

	if _, err := app.deviceDriver.WaitForFences(true, common.NoTimeout, frame.inFlight); err != nil {
		return errors.Wrap(err, "wait for frame fence")
	}

	imageIndex, res, err := app.swapchainDriver.AcquireNextImage(app.target.swapchain, common.NoTimeout, &frame.imageAvailable, nil)
	if res == khr_swapchain.VKErrorOutOfDate {
		return app.rebuildTarget()
	} else if err != nil {
		return errors.Wrap(err, "acquire swapchain image")
	}

	// Another frame in flight may still be drawing into this image.
	slot := &app.target.images[imageIndex]
	if slot.lastFence.Initialized() {
		if _, err := app.deviceDriver.WaitForFences(true, common.NoTimeout, slot.lastFence); err != nil {
			return errors.Wrap(err, "wait for image fence")
		}
	}
	slot.lastFence = frame.inFlight

	if _, err := app.deviceDriver.ResetFences(frame.inFlight); err != nil {
		return errors.Wrap(err, "reset frame fence")
	}

	_, err = app.deviceDriver.QueueSubmit(app.graphicsQueue, &frame.inFlight, core1_0.SubmitInfo{
		WaitSemaphores:   []core1_0.Semaphore{frame.imageAvailable},
		WaitDstStageMask: []core1_0.PipelineStageFlags{core1_0.PipelineStageColorAttachmentOutput},
		CommandBuffers:   []core1_0.CommandBuffer{slot.commands},
		SignalSemaphores: []core1_0.Semaphore{slot.renderFinished},
	})
	if err != nil {
		return errors.Wrap(err, "submit frame")
	}

	res, err = app.swapchainDriver.QueuePresent(app.presentQueue, khr_swapchain.PresentInfo{
		WaitSemaphores: []core1_0.Semaphore{slot.renderFinished},
		Swapchains:     []khr_swapchain.Swapchain{app.target.swapchain},
		ImageIndices:   []int{imageIndex},
	})
	app.currentFrame = (app.currentFrame + 1) % MaxFramesInFlight

	switch {
	case res == khr_swapchain.VKErrorOutOfDate || res == khr_swapchain.VKSuboptimal:
		return app.rebuildTarget()
	case err != nil:
		return errors.Wrap(err, "present frame")
	}
	return nil
}
