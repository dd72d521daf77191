// Package scene runs maps on screen: a small scene stack, the map scene
// with its camera and fades, and the headless World it drives.
package scene

import (
	"github.com/hajimehoshi/ebiten/v2"
)

// Scene is one layer of the stack. Only the top scene is updated; every
// scene is drawn from the bottom up so overlays keep the world visible.
type Scene interface {
	Update(stack *Stack) error
	Draw(screen *ebiten.Image)
}

type Stack struct {
	scenes []Scene
}

func NewStack(root Scene) *Stack {
	s := &Stack{}
	if root != nil {
		s.scenes = append(s.scenes, root)
	}
	return s
}

func (s *Stack) Push(sc Scene) { s.scenes = append(s.scenes, sc) }

// Pop removes the top scene. The root scene is never removed.
func (s *Stack) Pop() {
	if len(s.scenes) > 1 {
		s.scenes = s.scenes[:len(s.scenes)-1]
	}
}

func (s *Stack) Top() Scene {
	if len(s.scenes) == 0 {
		return nil
	}
	return s.scenes[len(s.scenes)-1]
}

func (s *Stack) Len() int { return len(s.scenes) }

func (s *Stack) Update() error {
	top := s.Top()
	if top == nil {
		return nil
	}
	return top.Update(s)
}

func (s *Stack) Draw(screen *ebiten.Image) {
	for _, sc := range s.scenes {
		sc.Draw(screen)
	}
}
