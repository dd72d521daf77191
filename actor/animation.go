package actor

import (
	"fmt"
	"strings"

	"github.com/milk9111/tilerpg/common"
)

// AnimationMode selects when an actor's frame advances.
type AnimationMode int

const (
	AnimateNever AnimationMode = iota
	AnimateOnMove
	AnimateAlways
)

func (m AnimationMode) String() string {
	switch m {
	case AnimateOnMove:
		return "on_move"
	case AnimateAlways:
		return "always"
	default:
		return "never"
	}
}

// ParseAnimationMode parses "never", "on_move" or "always". The empty string
// is AnimateNever.
func ParseAnimationMode(s string) (AnimationMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "never":
		return AnimateNever, nil
	case "on_move", "onmove":
		return AnimateOnMove, nil
	case "always":
		return AnimateAlways, nil
	default:
		return AnimateNever, fmt.Errorf("actor: invalid animation mode %q", s)
	}
}

// Animator tracks the current frame of a sprite strip.
type Animator struct {
	Mode   AnimationMode
	frame  int
	frames int
}

func (a *Animator) Frame() int { return a.frame }

func (a *Animator) FrameCount() int { return a.frames }

func (a *Animator) SetFrameCount(n int) {
	if n < 0 {
		n = 0
	}
	a.frames = n
	if a.frame >= n {
		a.frame = 0
	}
}

// NextFrame advances one frame, wrapping at the frame count.
func (a *Animator) NextFrame() {
	if a.frames <= 0 {
		return
	}
	a.frame = (a.frame + 1) % a.frames
}

func (a *Animator) Reset() {
	a.frame = 0
}

// tick applies one simulation step. In on_move mode frames are spread over
// the travelled distance: the frame advances once progress crosses
// (frame+1)/frames.
func (a *Animator) tick(moving bool, progress float64) {
	switch a.Mode {
	case AnimateAlways:
		a.NextFrame()
	case AnimateOnMove:
		if !moving || a.frames <= 0 {
			return
		}
		if progress >= float64(a.frame+1)/float64(a.frames) {
			a.NextFrame()
		}
	}
}

// Sprite is the frame/stride metadata supplied by the texture collaborator.
// Frames run left to right; when DirectionRows is set each look direction
// has its own row in up, right, down, left order.
type Sprite struct {
	Graphic       string
	FrameWidth    int
	FrameHeight   int
	Frames        int
	DirectionRows bool
}

// SourceRect returns the sheet region for frame while looking towards look.
func (s Sprite) SourceRect(frame int, look Direction) common.Rect {
	row := 0
	if s.DirectionRows && look != DirNone {
		row = int(look) - 1
	}
	return common.R(
		float64(frame*s.FrameWidth),
		float64(row*s.FrameHeight),
		float64(s.FrameWidth),
		float64(s.FrameHeight),
	)
}
