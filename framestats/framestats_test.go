package framestats

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDisabled(t *testing.T) {
	c := New(0)
	assert.False(t, c.Enabled())

	for i := 0; i < 10; i++ {
		_, ok := c.Frame(time.Duration(i) * time.Hour)
		assert.False(t, ok)
	}
	_, ok := c.Tick()
	assert.False(t, ok)
}

func TestReportsEveryInterval(t *testing.T) {
	c := New(time.Second)
	frame := 10 * time.Millisecond

	_, ok := c.Frame(0)
	require.False(t, ok)

	var reports []Report
	for i := 1; i <= 250; i++ {
		if r, ok := c.Frame(time.Duration(i) * frame); ok {
			reports = append(reports, r)
		}
	}

	require.Len(t, reports, 2)
	assert.Equal(t, 100, reports[0].Frames)
	assert.Equal(t, time.Second, reports[0].Elapsed)
	assert.InDelta(t, 100.0, reports[0].FPS, 0.001)
	assert.Equal(t, frame, reports[0].MeanFrame)
	assert.Equal(t, 100, reports[1].Frames)
}

func TestReportString(t *testing.T) {
	r := Report{Frames: 60, Elapsed: time.Second, FPS: 60, MeanFrame: 16666 * time.Microsecond}
	assert.Equal(t, "60 frames in 1s (60.0 fps, 16.666ms/frame)", r.String())
}

func TestTickUsesMonotonicClock(t *testing.T) {
	c := New(time.Hour)
	_, ok := c.Tick()
	assert.False(t, ok)
	_, ok = c.Tick()
	assert.False(t, ok)
	assert.Equal(t, 1, c.frames)
}
