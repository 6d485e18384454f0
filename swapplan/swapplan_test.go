package swapplan

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestChoosePresentModeVSync(t *testing.T) {
	assert.Equal(t, FIFO, ChoosePresentMode([]PresentMode{Immediate, Mailbox, FIFO}, true))
	assert.Equal(t, FIFO, ChoosePresentMode(nil, true))
}

func TestChoosePresentModeLowLatency(t *testing.T) {
	tests := []struct {
		name      string
		available []PresentMode
		want      PresentMode
	}{
		{"mailbox first", []PresentMode{FIFO, Immediate, Mailbox}, Mailbox},
		{"immediate when no mailbox", []PresentMode{FIFO, Other, Immediate}, Immediate},
		{"fifo fallback", []PresentMode{FIFO, Other}, FIFO},
		{"empty list", nil, FIFO},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ChoosePresentMode(tt.available, false))
		})
	}
}

func TestPresentModeString(t *testing.T) {
	assert.Equal(t, "fifo", FIFO.String())
	assert.Equal(t, "mailbox", Mailbox.String())
	assert.Equal(t, "immediate", Immediate.String())
	assert.Equal(t, "other", Other.String())
}

func TestResolveExtentUsesCurrent(t *testing.T) {
	got := ResolveExtent(Extent{800, 600}, Extent{1920, 1080}, Extent{1, 1}, Extent{4096, 4096})
	assert.Equal(t, Extent{800, 600}, got)
}

func TestResolveExtentClampsDrawable(t *testing.T) {
	undefined := Extent{Width: -1, Height: -1}
	limitsMin := Extent{200, 100}
	limitsMax := Extent{1024, 768}

	assert.Equal(t, Extent{800, 600}, ResolveExtent(undefined, Extent{800, 600}, limitsMin, limitsMax))
	assert.Equal(t, Extent{1024, 768}, ResolveExtent(undefined, Extent{2000, 2000}, limitsMin, limitsMax))
	assert.Equal(t, Extent{200, 100}, ResolveExtent(undefined, Extent{0, 0}, limitsMin, limitsMax))
	assert.Equal(t, Extent{1024, 100}, ResolveExtent(undefined, Extent{5000, 50}, limitsMin, limitsMax))
}

func TestImageCount(t *testing.T) {
	assert.Equal(t, 3, ImageCount(2, 0))
	assert.Equal(t, 3, ImageCount(2, 8))
	assert.Equal(t, 2, ImageCount(2, 2))
	assert.Equal(t, 4, ImageCount(3, 4))
}
