package collision

import (
	"github.com/charmbracelet/log"

	"github.com/milk9111/tilerpg/actor"
	"github.com/milk9111/tilerpg/common"
)

type contact struct {
	pair       Pair
	inter      common.Rect
	sepA, sepB common.Vec2
}

// Dispatcher turns overlapping collision boxes into events delivered to
// both actors of each pair, once per pair per tick.
//
// Every box, intersection and separation of a pass is computed before the
// first event is delivered, so one actor's reaction cannot change what
// another actor is told in the same tick. Delivery follows ascending
// (A, B) ID order; A is handled before B.
type Dispatcher struct {
	source Source
	prev   map[pairKey]Pair
	logger *log.Logger
}

func NewDispatcher(source Source) *Dispatcher {
	if source == nil {
		source = NewGrid(DefaultCellSize)
	}
	return &Dispatcher{
		source: source,
		prev:   make(map[pairKey]Pair),
		logger: log.WithPrefix("collision"),
	}
}

func (d *Dispatcher) Source() Source {
	return d.source
}

// Reset forgets the pairs seen on the previous tick, so no separation
// events are sent for them.
func (d *Dispatcher) Reset() {
	clear(d.prev)
}

// Dispatch runs one detection pass over actors and delivers collision
// events, then separation events for pairs that stopped overlapping. It
// returns the number of overlapping pairs.
func (d *Dispatcher) Dispatch(st actor.Stage, actors []*actor.Actor) int {
	candidates := d.source.Contacts(actors)
	sortPairs(candidates)

	current := make(map[pairKey]Pair, len(candidates))
	contacts := make([]contact, 0, len(candidates))
	for _, p := range candidates {
		if p.A == nil || p.B == nil || p.A == p.B {
			continue
		}
		k := p.key()
		if _, dup := current[k]; dup {
			continue
		}
		boxA, boxB := p.A.CollisionBox(), p.B.CollisionBox()
		inter, ok := boxA.Intersection(boxB)
		if !ok {
			continue
		}
		current[k] = p
		sepA, sepB := Separations(p.A, p.B, boxA, boxB, inter)
		contacts = append(contacts, contact{pair: p, inter: inter, sepA: sepA, sepB: sepB})
	}

	for _, c := range contacts {
		d.logger.Debug("collision", "a", c.pair.A, "b", c.pair.B, "sepA", c.sepA, "sepB", c.sepB)
		c.pair.A.HandleEvent(st, actor.Event{
			Kind:         actor.EventCollision,
			Other:        c.pair.B,
			Intersection: c.inter,
			Separation:   c.sepA,
		})
		c.pair.B.HandleEvent(st, actor.Event{
			Kind:         actor.EventCollision,
			Other:        c.pair.A,
			Intersection: c.inter,
			Separation:   c.sepB,
		})
	}

	var gone []Pair
	for k, p := range d.prev {
		if _, still := current[k]; !still {
			gone = append(gone, p)
		}
	}
	sortPairs(gone)
	for _, p := range gone {
		d.logger.Debug("separation", "a", p.A, "b", p.B)
		p.A.HandleEvent(st, actor.Event{Kind: actor.EventSeparation, Other: p.B})
		p.B.HandleEvent(st, actor.Event{Kind: actor.EventSeparation, Other: p.A})
	}

	d.prev = current
	return len(contacts)
}
