package scene

import (
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/milk9111/tilerpg/actor"
)

// Intent is what the user asked for this frame.
type Intent struct {
	// Move is the held direction, DirNone when idle.
	Move actor.Direction
	// Activate is true on the frame the action button is pressed.
	Activate bool
	// Pause is true on the frame the pause button is pressed.
	Pause bool
}

// InputSource produces one Intent per frame.
type InputSource func() Intent

const stickDeadZone = 0.3

// ReadInput polls the keyboard and the first gamepad.
func ReadInput() Intent {
	var in Intent
	switch {
	case ebiten.IsKeyPressed(ebiten.KeyW) || ebiten.IsKeyPressed(ebiten.KeyArrowUp):
		in.Move = actor.DirUp
	case ebiten.IsKeyPressed(ebiten.KeyS) || ebiten.IsKeyPressed(ebiten.KeyArrowDown):
		in.Move = actor.DirDown
	case ebiten.IsKeyPressed(ebiten.KeyA) || ebiten.IsKeyPressed(ebiten.KeyArrowLeft):
		in.Move = actor.DirLeft
	case ebiten.IsKeyPressed(ebiten.KeyD) || ebiten.IsKeyPressed(ebiten.KeyArrowRight):
		in.Move = actor.DirRight
	}
	in.Activate = inpututil.IsKeyJustPressed(ebiten.KeySpace) || inpututil.IsKeyJustPressed(ebiten.KeyEnter)
	in.Pause = inpututil.IsKeyJustPressed(ebiten.KeyEscape)

	ids := ebiten.AppendGamepadIDs(nil)
	if len(ids) == 0 {
		return in
	}
	gid := ids[0]
	if in.Move == actor.DirNone {
		x := ebiten.StandardGamepadAxisValue(gid, ebiten.StandardGamepadAxisLeftStickHorizontal)
		y := ebiten.StandardGamepadAxisValue(gid, ebiten.StandardGamepadAxisLeftStickVertical)
		in.Move = stickDirection(x, y)
	}
	if in.Move == actor.DirNone {
		switch {
		case ebiten.IsStandardGamepadButtonPressed(gid, ebiten.StandardGamepadButtonLeftTop):
			in.Move = actor.DirUp
		case ebiten.IsStandardGamepadButtonPressed(gid, ebiten.StandardGamepadButtonLeftBottom):
			in.Move = actor.DirDown
		case ebiten.IsStandardGamepadButtonPressed(gid, ebiten.StandardGamepadButtonLeftLeft):
			in.Move = actor.DirLeft
		case ebiten.IsStandardGamepadButtonPressed(gid, ebiten.StandardGamepadButtonLeftRight):
			in.Move = actor.DirRight
		}
	}
	in.Activate = in.Activate || inpututil.IsStandardGamepadButtonJustPressed(gid, ebiten.StandardGamepadButtonRightBottom)
	in.Pause = in.Pause || inpututil.IsStandardGamepadButtonJustPressed(gid, ebiten.StandardGamepadButtonCenterRight)
	return in
}

// stickDirection maps a stick deflection to the dominant axis.
func stickDirection(x, y float64) actor.Direction {
	if x*x+y*y < stickDeadZone*stickDeadZone {
		return actor.DirNone
	}
	if math.Abs(x) >= math.Abs(y) {
		if x < 0 {
			return actor.DirLeft
		}
		return actor.DirRight
	}
	if y < 0 {
		return actor.DirUp
	}
	return actor.DirDown
}
