// Package swapplan decides swapchain parameters from what a surface reports.
// It has no GPU dependency; the Vulkan program maps its surface types onto these.
package swapplan

type PresentMode int

const (
	Other PresentMode = iota
	FIFO
	Mailbox
	Immediate
)

func (m PresentMode) String() string {
	switch m {
	case FIFO:
		return "fifo"
	case Mailbox:
		return "mailbox"
	case Immediate:
		return "immediate"
	default:
		return "other"
	}
}

// ChoosePresentMode returns FIFO when presentation should wait for vertical
// sync. Otherwise it returns the lowest latency mode available: mailbox, then
// immediate. FIFO is always supported, so it is also the fallback.
func ChoosePresentMode(available []PresentMode, vsync bool) PresentMode {
	if vsync {
		return FIFO
	}

	for _, preferred := range []PresentMode{Mailbox, Immediate} {
		for _, mode := range available {
			if mode == preferred {
				return mode
			}
		}
	}

	return FIFO
}

type Extent struct {
	Width, Height int
}

// undefinedExtent is the width a surface reports when the swapchain decides its own size.
const undefinedExtent = -1

// ResolveExtent uses the surface's current extent when it has one, and the
// window's drawable size clamped to the surface limits when it does not.
func ResolveExtent(current, drawable, minExtent, maxExtent Extent) Extent {
	if current.Width != undefinedExtent {
		return current
	}

	return Extent{
		Width:  clamp(drawable.Width, minExtent.Width, maxExtent.Width),
		Height: clamp(drawable.Height, minExtent.Height, maxExtent.Height),
	}
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// ImageCount asks for one image more than the minimum, so the driver never
// has to wait on us before it can hand out the next image. A maxCount of 0
// means the surface sets no upper bound.
func ImageCount(minCount, maxCount int) int {
	count := minCount + 1
	if maxCount > 0 && count > maxCount {
		count = maxCount
	}
	return count
}
