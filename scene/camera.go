package scene

import (
	"math"

	"github.com/milk9111/tilerpg/common"
)

// Camera follows a world point. Pos is the world coordinate shown at the
// center of the screen.
type Camera struct {
	Pos common.Vec2

	screenW int
	screenH int
	zoom    float64

	// smoothing factor (0..1). higher -> faster follow
	smooth float64
	// world bounds in pixels (0 means unbounded)
	worldW float64
	worldH float64
}

func NewCamera(screenW, screenH int, zoom float64) *Camera {
	c := &Camera{screenW: screenW, screenH: screenH, zoom: 1, smooth: 0.15}
	c.SetZoom(zoom)
	c.Pos = common.V(float64(screenW)/2, float64(screenH)/2)
	return c
}

func (c *Camera) SetZoom(z float64) {
	if z <= 0 {
		return
	}
	c.zoom = z
}

func (c *Camera) Zoom() float64 {
	return c.zoom
}

func (c *Camera) SetScreenSize(w, h int) {
	if w <= 0 || h <= 0 {
		return
	}
	c.screenW = w
	c.screenH = h
}

// SetWorldBounds sets the world pixel dimensions for clamping.
func (c *Camera) SetWorldBounds(size common.Vec2) {
	c.worldW = size.X
	c.worldH = size.Y
}

func (c *Camera) SetSmooth(f float64) {
	c.smooth = common.Clamp(f, 0, 1)
}

// viewSize is the screen size in world pixels.
func (c *Camera) viewSize() common.Vec2 {
	return common.V(float64(c.screenW)/c.zoom, float64(c.screenH)/c.zoom)
}

// Origin returns the world point drawn at the top-left of the screen.
func (c *Camera) Origin() common.Vec2 {
	return c.Pos.Sub(c.viewSize().Scale(0.5))
}

// View returns the visible world rectangle.
func (c *Camera) View() common.Rect {
	o := c.Origin()
	v := c.viewSize()
	return common.R(o.X, o.Y, v.X, v.Y)
}

// Follow moves the camera toward target. Call once per tick.
func (c *Camera) Follow(target common.Vec2) {
	if c.smooth <= 0 || c.smooth >= 1 {
		c.Pos = target
	} else {
		c.Pos = c.Pos.Add(target.Sub(c.Pos).Scale(c.smooth))
	}
	c.settle()
}

// SnapTo places the camera immediately, e.g. after a map load.
func (c *Camera) SnapTo(target common.Vec2) {
	c.Pos = target
	c.settle()
}

// settle aligns the position to the zoomed pixel grid and clamps it to the
// world bounds. A world smaller than the view is centered.
func (c *Camera) settle() {
	c.Pos.X = math.Round(c.Pos.X*c.zoom) / c.zoom
	c.Pos.Y = math.Round(c.Pos.Y*c.zoom) / c.zoom

	half := c.viewSize().Scale(0.5)
	if c.worldW > 0 {
		c.Pos.X = clampAxis(c.Pos.X, half.X, c.worldW)
	}
	if c.worldH > 0 {
		c.Pos.Y = clampAxis(c.Pos.Y, half.Y, c.worldH)
	}
}

func clampAxis(v, half, world float64) float64 {
	lo, hi := half, world-half
	if hi < lo {
		return world / 2
	}
	return common.Clamp(v, lo, hi)
}
