package scene

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
)

type fadePhase int

const (
	fadeIdle fadePhase = iota
	fadeOut
	fadeIn
)

// Fade darkens the screen, runs a callback while it is black and fades back
// in. The world is frozen while it runs.
type Fade struct {
	Duration int

	phase   fadePhase
	frames  int
	onMid   func()
	overlay *ebiten.Image
}

func NewFade(frames int) *Fade {
	if frames < 0 {
		frames = 0
	}
	return &Fade{Duration: frames}
}

// Start begins a fade. It returns false when one is already running.
func (f *Fade) Start(onMid func()) bool {
	if f.phase != fadeIdle {
		return false
	}
	f.phase = fadeOut
	f.frames = 0
	f.onMid = onMid
	return true
}

func (f *Fade) Active() bool {
	return f.phase != fadeIdle
}

// Update advances one frame. onMid runs once the screen is fully dark.
func (f *Fade) Update() {
	switch f.phase {
	case fadeOut:
		f.frames++
		if f.frames >= f.Duration {
			if f.onMid != nil {
				f.onMid()
				f.onMid = nil
			}
			f.phase = fadeIn
			f.frames = 0
		}
	case fadeIn:
		f.frames++
		if f.frames >= f.Duration {
			f.phase = fadeIdle
			f.frames = 0
		}
	}
}

// Alpha is the overlay opacity for the current frame.
func (f *Fade) Alpha() float64 {
	if f.Duration <= 0 {
		if f.phase == fadeIdle {
			return 0
		}
		return 1
	}
	p := float64(f.frames) / float64(f.Duration)
	switch f.phase {
	case fadeOut:
		return min(p, 1)
	case fadeIn:
		return max(1-p, 0)
	default:
		return 0
	}
}

func (f *Fade) Draw(screen *ebiten.Image) {
	alpha := f.Alpha()
	if alpha <= 0 {
		return
	}
	if f.overlay == nil {
		f.overlay = ebiten.NewImage(1, 1)
		f.overlay.Fill(color.Black)
	}
	b := screen.Bounds()
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(float64(b.Dx()), float64(b.Dy()))
	op.ColorScale.ScaleAlpha(float32(alpha))
	screen.DrawImage(f.overlay, op)
}
