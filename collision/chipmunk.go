package collision

import (
	"math"

	"github.com/charmbracelet/log"
	"github.com/jakecoffman/cp"

	"github.com/milk9111/tilerpg/actor"
	"github.com/milk9111/tilerpg/common"
)

const collisionTypeActor cp.CollisionType = 1

type sensor struct {
	body          *cp.Body
	shape         *cp.Shape
	width, height float64
}

// Chipmunk is a contact source backed by a Chipmunk2D space. Every
// collidable actor owns a sensor box that is moved onto its collision box
// before each step. The space reports overlaps through PreSolve and never
// applies a collision response of its own; push-back stays with the
// dispatcher.
type Chipmunk struct {
	space   *cp.Space
	dt      float64
	sensors map[*actor.Actor]*sensor
	owners  map[*cp.Shape]*actor.Actor
	pending []Pair
	logger  *log.Logger
}

func NewChipmunk(tickRate float64) *Chipmunk {
	if tickRate <= 0 {
		tickRate = actor.DefaultTickRate
	}
	space := cp.NewSpace()
	space.SetGravity(cp.Vector{})

	c := &Chipmunk{
		space:   space,
		dt:      1 / tickRate,
		sensors: make(map[*actor.Actor]*sensor),
		owners:  make(map[*cp.Shape]*actor.Actor),
		logger:  log.WithPrefix("chipmunk"),
	}

	handler := space.NewCollisionHandler(collisionTypeActor, collisionTypeActor)
	handler.PreSolveFunc = func(arb *cp.Arbiter, space *cp.Space, userData interface{}) bool {
		shapeA, shapeB := arb.Shapes()
		a, okA := c.owners[shapeA]
		b, okB := c.owners[shapeB]
		if okA && okB && a != b {
			c.pending = append(c.pending, NewPair(a, b))
		}
		return true
	}
	return c
}

// Space returns the underlying Chipmunk space.
func (c *Chipmunk) Space() *cp.Space {
	return c.space
}

// Contacts syncs the sensors to actors, steps the space once and returns the
// pairs reported during the step.
func (c *Chipmunk) Contacts(actors []*actor.Actor) []Pair {
	live := make(map[*actor.Actor]struct{}, len(actors))
	for _, a := range actors {
		if a == nil || !a.Collidable() {
			continue
		}
		box := a.CollisionBox()
		if box.Empty() {
			continue
		}
		live[a] = struct{}{}
		c.sync(a, box)
	}
	for a, s := range c.sensors {
		if _, ok := live[a]; !ok {
			c.remove(a, s)
		}
	}

	c.pending = c.pending[:0]
	c.space.Step(c.dt)

	pairs := make([]Pair, len(c.pending))
	copy(pairs, c.pending)
	sortPairs(pairs)
	return pairs
}

func (c *Chipmunk) sync(a *actor.Actor, box common.Rect) {
	s, ok := c.sensors[a]
	if ok && (s.width != box.Width || s.height != box.Height) {
		c.remove(a, s)
		ok = false
	}
	if !ok {
		body := cp.NewBody(1, math.Inf(1))
		shape := cp.NewBox(body, box.Width, box.Height, 0)
		shape.SetSensor(true)
		shape.SetCollisionType(collisionTypeActor)
		c.space.AddBody(body)
		c.space.AddShape(shape)
		s = &sensor{body: body, shape: shape, width: box.Width, height: box.Height}
		c.sensors[a] = s
		c.owners[shape] = a
		c.logger.Debug("sensor added", "actor", a, "w", box.Width, "h", box.Height)
	}
	center := box.Center()
	s.body.SetPosition(cp.Vector{X: center.X, Y: center.Y})
	s.body.SetVelocityVector(cp.Vector{})
}

func (c *Chipmunk) remove(a *actor.Actor, s *sensor) {
	c.space.RemoveShape(s.shape)
	c.space.RemoveBody(s.body)
	delete(c.owners, s.shape)
	delete(c.sensors, a)
}
