package actor

const DefaultTickRate = 60.0

// Clock supplies simulation time to the movement engine.
type Clock interface {
	// Now returns the elapsed simulation time in milliseconds.
	Now() int64
	// TickRate returns the number of simulation ticks per second.
	TickRate() float64
}

// TickClock derives time from a tick counter so simulations are
// reproducible regardless of wall-clock jitter.
type TickClock struct {
	rate  float64
	ticks int64
}

func NewTickClock(rate float64) *TickClock {
	if rate <= 0 {
		rate = DefaultTickRate
	}
	return &TickClock{rate: rate}
}

// Tick advances the clock by one simulation step.
func (c *TickClock) Tick() {
	c.ticks++
}

func (c *TickClock) Ticks() int64 {
	return c.ticks
}

func (c *TickClock) Now() int64 {
	return int64(float64(c.ticks) * 1000 / c.rate)
}

func (c *TickClock) TickRate() float64 {
	return c.rate
}

var stoppedClock = NewTickClock(DefaultTickRate)
