package scene

import (
	"testing"

	"github.com/milk9111/tilerpg/actor"
	"github.com/milk9111/tilerpg/common"
)

func TestCameraClampsToWorld(t *testing.T) {
	c := NewCamera(320, 240, 2)
	c.SetWorldBounds(common.V(640, 480))

	tests := []struct {
		name   string
		target common.Vec2
		want   common.Vec2
	}{
		{"inside", common.V(300, 200), common.V(300, 200)},
		{"top left", common.V(0, 0), common.V(80, 60)},
		{"bottom right", common.V(1000, 1000), common.V(560, 420)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c.SnapTo(tt.target)
			if c.Pos != tt.want {
				t.Fatalf("Pos = %v, want %v", c.Pos, tt.want)
			}
		})
	}
}

func TestCameraCentersSmallWorld(t *testing.T) {
	c := NewCamera(320, 240, 1)
	c.SetWorldBounds(common.V(100, 400))
	c.SnapTo(common.V(0, 0))
	if c.Pos != common.V(50, 120) {
		t.Fatalf("Pos = %v, want (50,120)", c.Pos)
	}
}

func TestCameraView(t *testing.T) {
	c := NewCamera(320, 240, 2)
	c.SnapTo(common.V(100, 100))
	if got := c.Origin(); got != common.V(20, 40) {
		t.Fatalf("Origin = %v, want (20,40)", got)
	}
	if got := c.View(); got != common.R(20, 40, 160, 120) {
		t.Fatalf("View = %v", got)
	}
}

func TestCameraFollowSmooths(t *testing.T) {
	c := NewCamera(320, 240, 1)
	c.SetSmooth(0.5)
	c.Follow(common.V(260, 120))
	if c.Pos != common.V(210, 120) {
		t.Fatalf("Pos = %v, want (210,120)", c.Pos)
	}

	c.SetSmooth(0)
	c.Follow(common.V(400, 300))
	if c.Pos != common.V(400, 300) {
		t.Fatalf("Pos = %v, want an immediate jump", c.Pos)
	}
}

func TestCameraIgnoresBadSizes(t *testing.T) {
	c := NewCamera(320, 240, 2)
	c.SetZoom(0)
	c.SetScreenSize(0, 10)
	if c.Zoom() != 2 {
		t.Fatalf("Zoom = %v", c.Zoom())
	}
	if v := c.View(); v.Width != 160 || v.Height != 120 {
		t.Fatalf("View = %v", v)
	}
}

func TestStickDirection(t *testing.T) {
	tests := []struct {
		x, y float64
		want actor.Direction
	}{
		{0, 0, actor.DirNone},
		{0.2, 0.1, actor.DirNone},
		{0.9, 0.2, actor.DirRight},
		{-0.5, 0.5, actor.DirLeft},
		{0.1, -0.8, actor.DirUp},
		{0, 1, actor.DirDown},
	}
	for _, tt := range tests {
		if got := stickDirection(tt.x, tt.y); got != tt.want {
			t.Fatalf("stickDirection(%v, %v) = %v, want %v", tt.x, tt.y, got, tt.want)
		}
	}
}
