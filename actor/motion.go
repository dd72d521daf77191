package actor

import "github.com/milk9111/tilerpg/common"

// VelocityProfile maps the time elapsed since a move started (ms) to an
// instantaneous speed in pixels per second. The engine samples it once per
// tick and never integrates it, so the distance covered in one tick is
// profile(elapsed) / tickRate.
type VelocityProfile func(elapsedMs int64) float64

// Constant returns a profile that always yields v.
func Constant(v float64) VelocityProfile {
	return func(int64) float64 { return v }
}

// Decelerate returns a profile that starts at v and slows linearly to floor
// over d milliseconds, then keeps floor. A zero floor never arrives.
func Decelerate(v, floor float64, d int64) VelocityProfile {
	return func(elapsed int64) float64 {
		if d <= 0 || elapsed >= d {
			return floor
		}
		return common.Lerp(v, floor, float64(elapsed)/float64(d))
	}
}

// Motion is the time-stepped interpolation state of one actor. The zero
// value is idle.
type Motion struct {
	direction common.Vec2
	target    common.Vec2
	start     int64
	moving    bool
	travelled float64
	total     float64
	profile   VelocityProfile
}

// Start begins (or redirects) a move from "from" towards target. Any
// previous interpolation is discarded.
func (m *Motion) Start(from, target common.Vec2, now int64, profile VelocityProfile) {
	if profile == nil {
		panic("actor: moveTo with nil velocity profile")
	}
	delta := target.Sub(from)
	m.direction = delta.Normalize()
	m.total = delta.Len()
	m.target = target
	m.start = now
	m.travelled = 0
	m.profile = profile
	m.moving = true
}

// Step advances the interpolation by one tick and returns the new position.
// arrived is true when the target was reached on this tick; the motion is
// idle afterwards.
func (m *Motion) Step(pos common.Vec2, now int64, tickRate float64) (next common.Vec2, arrived bool) {
	if !m.moving {
		return pos, false
	}
	step := m.profile(now-m.start) / tickRate
	m.travelled += step
	if m.travelled >= m.total {
		target := m.target
		m.Clear()
		return target, true
	}
	return pos.Add(m.direction.Scale(step)), false
}

// Clear drops all movement state without touching the actor position.
func (m *Motion) Clear() {
	*m = Motion{}
}

func (m *Motion) Moving() bool {
	return m.moving
}

func (m *Motion) Direction() common.Vec2 { return m.direction }
func (m *Motion) Target() common.Vec2    { return m.target }
func (m *Motion) Travelled() float64     { return m.travelled }
func (m *Motion) Total() float64         { return m.total }

// Progress returns travelled/total in [0,1], or 0 when idle or when the
// move has no length.
func (m *Motion) Progress() float64 {
	if !m.moving || m.total <= 0 {
		return 0
	}
	p := m.travelled / m.total
	if p > 1 {
		return 1
	}
	return p
}
