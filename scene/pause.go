package scene

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// Pause freezes the scene below it until the pause button is pressed again.
type Pause struct {
	input InputSource
}

func NewPause(input InputSource) *Pause {
	return &Pause{input: input}
}

func (p *Pause) Update(stack *Stack) error {
	if in := p.input(); in.Pause || in.Activate {
		stack.Pop()
	}
	return nil
}

func (p *Pause) Draw(screen *ebiten.Image) {
	b := screen.Bounds()
	vector.DrawFilledRect(screen, 0, 0, float32(b.Dx()), float32(b.Dy()), color.RGBA{A: 0x90}, false)
	ebitenutil.DebugPrintAt(screen, "PAUSED - press Esc to resume", b.Dx()/2-84, b.Dy()/2-8)
}
