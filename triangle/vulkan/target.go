package main

import (
	"github.com/cockroachdb/errors"
	"github.com/vkngwrapper/core/v3/core1_0"
	"github.com/vkngwrapper/extensions/v3/khr_surface"
	"github.com/vkngwrapper/extensions/v3/khr_swapchain"

	"github.com/mygameengine/triangle/swapplan"
)

// renderTarget owns everything whose size or format follows the swapchain.
// It is destroyed and built again whole whenever the surface changes.
type renderTarget struct {
	swapchain khr_swapchain.Swapchain
	format    core1_0.Format
	extent    core1_0.Extent2D

	renderPass     core1_0.RenderPass
	pipelineLayout core1_0.PipelineLayout
	pipeline       core1_0.Pipeline

	images []targetImage
}

// targetImage is the state kept for one swapchain image.
type targetImage struct {
	view           core1_0.ImageView
	framebuffer    core1_0.Framebuffer
	commands       core1_0.CommandBuffer
	renderFinished core1_0.Semaphore
	// lastFence is the frame fence of the last submit that drew into this
	// image. It belongs to a frameSync and is not destroyed here.
	lastFence core1_0.Fence
}

// newTargetImages sizes the per-image state to the swapchain's image count.
func newTargetImages(count int) []targetImage {
	return make([]targetImage, count)
}

type surfaceSupport struct {
	capabilities *khr_surface.SurfaceCapabilities
	formats      []khr_surface.SurfaceFormat
	presentModes []khr_surface.PresentMode
}

func (app *TriangleApplication) surfaceSupport(device core1_0.PhysicalDevice) (surfaceSupport, error) {
	var support surfaceSupport
	var err error

	support.capabilities, _, err = app.surfaceDriver.GetPhysicalDeviceSurfaceCapabilities(app.surface, device)
	if err != nil {
		return support, errors.Wrap(err, "query surface capabilities")
	}
	support.formats, _, err = app.surfaceDriver.GetPhysicalDeviceSurfaceFormats(app.surface, device)
	if err != nil {
		return support, errors.Wrap(err, "query surface formats")
	}
	support.presentModes, _, err = app.surfaceDriver.GetPhysicalDeviceSurfacePresentModes(app.surface, device)
	return support, errors.Wrap(err, "query present modes")
}

// pickSurfaceFormat prefers a UNORM target so the clear colour and the
// fragment output are written as-is, the same way the default GL framebuffer does.
func pickSurfaceFormat(formats []khr_surface.SurfaceFormat) khr_surface.SurfaceFormat {
	for _, format := range formats {
		if format.Format == core1_0.FormatB8G8R8A8UnsignedNormalized && format.ColorSpace == khr_surface.ColorSpaceSRGBNonlinear {
			return format
		}
	}
	return formats[0]
}

var presentModes = map[khr_surface.PresentMode]swapplan.PresentMode{
	khr_surface.PresentModeFIFO:      swapplan.FIFO,
	khr_surface.PresentModeMailbox:   swapplan.Mailbox,
	khr_surface.PresentModeImmediate: swapplan.Immediate,
}

func pickPresentMode(available []khr_surface.PresentMode, vsync bool) khr_surface.PresentMode {
	planned := make([]swapplan.PresentMode, 0, len(available))
	for _, mode := range available {
		planned = append(planned, presentModes[mode])
	}

	choice := swapplan.ChoosePresentMode(planned, vsync)
	for mode, plan := range presentModes {
		if plan == choice {
			return mode
		}
	}
	return khr_surface.PresentModeFIFO
}

func toPlanExtent(extent core1_0.Extent2D) swapplan.Extent {
	return swapplan.Extent{Width: extent.Width, Height: extent.Height}
}

// buildTarget creates the swapchain and everything sized by it, then records
// one command buffer per image. A partly built target is left on app so
// cleanup can release it.
func (app *TriangleApplication) buildTarget() error {
	support, err := app.surfaceSupport(app.physicalDevice)
	if err != nil {
		return err
	}

	caps := support.capabilities
	format := pickSurfaceFormat(support.formats)
	drawableWidth, drawableHeight := app.window.VulkanGetDrawableSize()
	extent := swapplan.ResolveExtent(
		toPlanExtent(caps.CurrentExtent),
		swapplan.Extent{Width: int(drawableWidth), Height: int(drawableHeight)},
		toPlanExtent(caps.MinImageExtent),
		toPlanExtent(caps.MaxImageExtent),
	)

	info := khr_swapchain.SwapchainCreateInfo{
		Surface:          app.surface,
		MinImageCount:    swapplan.ImageCount(caps.MinImageCount, caps.MaxImageCount),
		ImageFormat:      format.Format,
		ImageColorSpace:  format.ColorSpace,
		ImageExtent:      core1_0.Extent2D{Width: extent.Width, Height: extent.Height},
		ImageArrayLayers: 1,
		ImageUsage:       core1_0.ImageUsageColorAttachment,
		ImageSharingMode: core1_0.SharingModeExclusive,
		PreTransform:     caps.CurrentTransform,
		CompositeAlpha:   khr_surface.CompositeAlphaOpaque,
		PresentMode:      pickPresentMode(support.presentModes, app.config.VSync),
		Clipped:          true,
	}
	if !app.families.shared() {
		info.ImageSharingMode = core1_0.SharingModeConcurrent
		info.QueueFamilyIndices = app.families.distinct()
	}

	target := &renderTarget{format: info.ImageFormat, extent: info.ImageExtent}
	app.target = target

	target.swapchain, _, err = app.swapchainDriver.CreateSwapchain(nil, info)
	if err != nil {
		return errors.Wrap(err, "create swapchain")
	}

	if err := app.createRenderPass(target); err != nil {
		return err
	}
	if err := app.createGraphicsPipeline(target); err != nil {
		return err
	}

	images, _, err := app.swapchainDriver.GetSwapchainImages(target.swapchain)
	if err != nil {
		return errors.Wrap(err, "get swapchain images")
	}
	target.images = newTargetImages(len(images))

	for idx, image := range images {
		if err := app.buildTargetImage(target, &target.images[idx], image); err != nil {
			return errors.Wrapf(err, "swapchain image %d", idx)
		}
	}

	return app.recordCommands(target)
}

func (app *TriangleApplication) buildTargetImage(target *renderTarget, slot *targetImage, image core1_0.Image) error {
	var err error
	slot.view, _, err = app.deviceDriver.CreateImageView(nil, core1_0.ImageViewCreateInfo{
		Image:    image,
		ViewType: core1_0.ImageViewType2D,
		Format:   target.format,
		SubresourceRange: core1_0.ImageSubresourceRange{
			AspectMask: core1_0.ImageAspectColor,
			LevelCount: 1,
			LayerCount: 1,
		},
	})
	if err != nil {
		return errors.Wrap(err, "create image view")
	}

	slot.framebuffer, _, err = app.deviceDriver.CreateFramebuffer(nil, core1_0.FramebufferCreateInfo{
		RenderPass:  target.renderPass,
		Attachments: []core1_0.ImageView{slot.view},
		Width:       target.extent.Width,
		Height:      target.extent.Height,
		Layers:      1,
	})
	if err != nil {
		return errors.Wrap(err, "create framebuffer")
	}

	slot.renderFinished, _, err = app.deviceDriver.CreateSemaphore(nil, core1_0.SemaphoreCreateInfo{})
	return errors.Wrap(err, "create render-finished semaphore")
}

func (app *TriangleApplication) destroyTarget() {
	target := app.target
	if target == nil {
		return
	}
	app.target = nil

	for _, slot := range target.images {
		if slot.commands.Initialized() {
			app.deviceDriver.FreeCommandBuffers(slot.commands)
		}
		if slot.renderFinished.Initialized() {
			app.deviceDriver.DestroySemaphore(slot.renderFinished, nil)
		}
		if slot.framebuffer.Initialized() {
			app.deviceDriver.DestroyFramebuffer(slot.framebuffer, nil)
		}
		if slot.view.Initialized() {
			app.deviceDriver.DestroyImageView(slot.view, nil)
		}
	}

	if target.pipeline.Initialized() {
		app.deviceDriver.DestroyPipeline(target.pipeline, nil)
	}
	if target.pipelineLayout.Initialized() {
		app.deviceDriver.DestroyPipelineLayout(target.pipelineLayout, nil)
	}
	if target.renderPass.Initialized() {
		app.deviceDriver.DestroyRenderPass(target.renderPass, nil)
	}
	if target.swapchain.Initialized() {
		app.swapchainDriver.DestroySwapchain(target.swapchain, nil)
	}
}

// rebuildTarget replaces the render target after the surface changed. A
// zero-sized drawable means the window is minimized, so nothing is built
// until it is restored.
func (app *TriangleApplication) rebuildTarget() error {
	width, height := app.window.VulkanGetDrawableSize()
	if width == 0 || height == 0 {
		app.minimized = true
		return nil
	}

	if err := drainDevice(app.deviceDriver.DeviceWaitIdle); err != nil {
		return err
	}

	app.destroyTarget()
	return app.buildTarget()
}
