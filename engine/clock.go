package engine

import "time"

// Clock is a monotonic time source.
type Clock interface {
	Now() time.Duration
}

// FrameScheduler invokes fn once, later, roughly at display refresh rate.
type FrameScheduler interface {
	RequestFrame(fn func(now time.Duration))
}

// SystemClock measures time since it was created.
type SystemClock struct {
	start time.Time
}

func NewSystemClock() *SystemClock {
	return &SystemClock{start: time.Now()}
}

func (c *SystemClock) Now() time.Duration {
	return time.Since(c.start)
}

// ManualScheduler queues requested frames until Fire is called. Hosts that
// own their own main loop (ebiten's Update, tests) drive the engine with it.
type ManualScheduler struct {
	pending []func(time.Duration)
}

func (s *ManualScheduler) RequestFrame(fn func(now time.Duration)) {
	s.pending = append(s.pending, fn)
}

// Fire runs the callbacks queued before the call and returns how many ran.
// Callbacks requested while firing wait for the next Fire.
func (s *ManualScheduler) Fire(now time.Duration) int {
	queued := s.pending
	s.pending = nil
	for _, fn := range queued {
		fn(now)
	}
	return len(queued)
}

// Pending returns the number of queued callbacks.
func (s *ManualScheduler) Pending() int {
	return len(s.pending)
}

// FakeClock is a Clock that only moves when told to.
type FakeClock struct {
	now time.Duration
}

func (c *FakeClock) Now() time.Duration {
	return c.now
}

func (c *FakeClock) Advance(d time.Duration) time.Duration {
	c.now += d
	return c.now
}
