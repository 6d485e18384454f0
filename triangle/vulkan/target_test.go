package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/vkngwrapper/core/v3/core1_0"
	"github.com/vkngwrapper/extensions/v3/khr_surface"
)

// A rebuilt swapchain may report more images than the one it replaced; every
// image index must still have its own semaphore slot.
func TestNewTargetImagesFollowsImageCount(t *testing.T) {
	first := newTargetImages(3)
	assert.Len(t, first, 3)

	rebuilt := newTargetImages(4)
	assert.Len(t, rebuilt, 4)
	for _, slot := range rebuilt {
		assert.False(t, slot.renderFinished.Initialized())
		assert.False(t, slot.lastFence.Initialized())
	}
}

func TestPickPresentMode(t *testing.T) {
	all := []khr_surface.PresentMode{khr_surface.PresentModeFIFO, khr_surface.PresentModeImmediate, khr_surface.PresentModeMailbox}

	assert.Equal(t, khr_surface.PresentModeFIFO, pickPresentMode(all, true))
	assert.Equal(t, khr_surface.PresentModeMailbox, pickPresentMode(all, false))
	assert.Equal(t, khr_surface.PresentModeImmediate, pickPresentMode(all[:2], false))
	assert.Equal(t, khr_surface.PresentModeFIFO, pickPresentMode(all[:1], false))
}

func TestPickSurfaceFormat(t *testing.T) {
	srgb := khr_surface.SurfaceFormat{Format: core1_0.FormatB8G8R8A8SRGB, ColorSpace: khr_surface.ColorSpaceSRGBNonlinear}
	unorm := khr_surface.SurfaceFormat{Format: core1_0.FormatB8G8R8A8UnsignedNormalized, ColorSpace: khr_surface.ColorSpaceSRGBNonlinear}

	assert.Equal(t, unorm, pickSurfaceFormat([]khr_surface.SurfaceFormat{srgb, unorm}))
	assert.Equal(t, srgb, pickSurfaceFormat([]khr_surface.SurfaceFormat{srgb}))
}

func TestQueueFamilies(t *testing.T) {
	same := queueFamilies{graphics: 0, present: 0}
	assert.True(t, same.shared())
	assert.Equal(t, []int{0}, same.distinct())

	split := queueFamilies{graphics: 0, present: 2}
	assert.False(t, split.shared())
	assert.Equal(t, []int{0, 2}, split.distinct())
}
