package collision

import (
	"github.com/milk9111/tilerpg/actor"
	"github.com/milk9111/tilerpg/common"
)

// Separations splits the push-back resolving the overlap of a pair. The
// correction runs along the axis of least penetration. The actor with the
// higher Yield rank takes all of it, so a walking player is stopped by an
// idle prop instead of shoving it; equal ranks take half each. The result
// depends only on the snapshot passed in, never on the order events are
// later delivered.
//
// a must be the lower-ID actor: when the centers coincide a is pushed
// towards negative coordinates.
func Separations(a, b *actor.Actor, boxA, boxB, inter common.Rect) (sepA, sepB common.Vec2) {
	pushA := b.Blocks(a) && a.Movable()
	pushB := a.Blocks(b) && b.Movable()
	if !pushA && !pushB {
		return common.Vec2{}, common.Vec2{}
	}
	if pushA && pushB {
		ya, yb := a.Yield(), b.Yield()
		pushA, pushB = ya >= yb, yb >= ya
	}

	ca, cb := boxA.Center(), boxB.Center()
	var away common.Vec2
	if inter.Width <= inter.Height {
		away = common.V(side(ca.X, cb.X)*inter.Width, 0)
	} else {
		away = common.V(0, side(ca.Y, cb.Y)*inter.Height)
	}

	switch {
	case pushA && pushB:
		return away.Scale(0.5), away.Scale(-0.5)
	case pushA:
		return away, common.Vec2{}
	default:
		return common.Vec2{}, away.Scale(-1)
	}
}

func side(a, b float64) float64 {
	if a > b {
		return 1
	}
	return -1
}
