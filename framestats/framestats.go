// Package framestats counts rendered frames and summarises them at a fixed interval.
package framestats

import (
	"fmt"
	"time"

	"github.com/loov/hrtime"
)

type Report struct {
	Frames    int
	Elapsed   time.Duration
	FPS       float64
	MeanFrame time.Duration
}

func (r Report) String() string {
	return fmt.Sprintf("%d frames in %s (%.1f fps, %s/frame)", r.Frames, r.Elapsed.Round(time.Millisecond), r.FPS, r.MeanFrame.Round(time.Microsecond))
}

// Counter is not safe for concurrent use; the render loop owns it.
type Counter struct {
	interval time.Duration
	start    time.Duration
	frames   int
	started  bool
}

// New returns a Counter that reports every interval. Zero disables reports.
func New(interval time.Duration) *Counter {
	return &Counter{interval: interval}
}

func (c *Counter) Enabled() bool {
	return c.interval > 0
}

// Tick records a frame at the current high resolution time.
func (c *Counter) Tick() (Report, bool) {
	if !c.Enabled() {
		return Report{}, false
	}
	return c.Frame(hrtime.Now())
}

// Frame records a frame finished at now, a monotonic timestamp. The first
// call only starts the clock.
func (c *Counter) Frame(now time.Duration) (Report, bool) {
	if !c.Enabled() {
		return Report{}, false
	}

	if !c.started {
		c.started = true
		c.start = now
		return Report{}, false
	}

	c.frames++
	elapsed := now - c.start
	if elapsed < c.interval {
		return Report{}, false
	}

	report := Report{
		Frames:    c.frames,
		Elapsed:   elapsed,
		FPS:       float64(c.frames) / elapsed.Seconds(),
		MeanFrame: elapsed / time.Duration(c.frames),
	}
	c.start = now
	c.frames = 0

	return report, true
}
