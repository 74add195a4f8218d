// Package progress accumulates loading progress across ticks. The driver
// feeds it through the loadstate Progress interface; display code reads the
// totals to render a loading bar.
package progress

// Counter splits progress into a frame-scoped part and a persistent part.
// Collections still loading report their totals again every tick, so the
// frame part is reset at tick start; completed collections are moved into
// the persistent baseline exactly once and never reported again.
//
// Single-goroutine access from the tick loop.
type Counter struct {
	frameTotal int
	frameDone  int
	persisted  int
}

func NewCounter() *Counter {
	return &Counter{}
}

// Reset clears the frame-scoped counters. Call once at tick start, before
// the driver polls.
func (c *Counter) Reset() {
	c.frameTotal = 0
	c.frameDone = 0
}

// Track adds one still-loading collection's handle counts to the frame.
func (c *Counter) Track(total, done int) {
	c.frameTotal += total
	c.frameDone += done
}

// PersistDoneTasks moves a completed collection's handles into the
// persistent baseline.
func (c *Counter) PersistDoneTasks(done int) {
	c.persisted += done
}

// Done returns loaded handles observed this tick plus all persisted ones.
func (c *Counter) Done() int {
	return c.persisted + c.frameDone
}

// Total returns this tick's in-flight handles plus all persisted ones.
func (c *Counter) Total() int {
	return c.persisted + c.frameTotal
}

// Fraction returns completion in [0, 1]. A counter that has seen nothing
// reports 0.
func (c *Counter) Fraction() float64 {
	total := c.Total()
	if total == 0 {
		return 0
	}
	return float64(c.Done()) / float64(total)
}
