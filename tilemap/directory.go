package tilemap

import "github.com/milk9111/tilerpg/actor"

type placement struct {
	actor *actor.Actor
	layer *ObjectLayer
}

// directory is the map-wide actor index. IDs come from map files and may be
// sparse or large, so they are hashed; dense keeps insertion order for
// iteration.
type directory struct {
	dense []placement
	pos   map[actor.ID]int
}

func (d *directory) index(id actor.ID) (int, bool) {
	idx, ok := d.pos[id]
	return idx, ok
}

func (d *directory) has(id actor.ID) bool {
	_, ok := d.pos[id]
	return ok
}

func (d *directory) get(id actor.ID) (placement, bool) {
	idx, ok := d.pos[id]
	if !ok {
		return placement{}, false
	}
	return d.dense[idx], true
}

// set inserts or moves the actor.
func (d *directory) set(a *actor.Actor, layer *ObjectLayer) {
	id := a.ID()
	if idx, ok := d.pos[id]; ok {
		d.dense[idx] = placement{actor: a, layer: layer}
		return
	}
	if d.pos == nil {
		d.pos = make(map[actor.ID]int)
	}
	d.dense = append(d.dense, placement{actor: a, layer: layer})
	d.pos[id] = len(d.dense) - 1
}

// remove swaps the last placement into the hole, so order is only kept
// for actors that were never removed.
func (d *directory) remove(id actor.ID) {
	idx, ok := d.pos[id]
	if !ok {
		return
	}
	last := len(d.dense) - 1
	moved := d.dense[last]
	d.dense[idx] = moved
	d.pos[moved.actor.ID()] = idx
	d.dense[last] = placement{}
	d.dense = d.dense[:last]
	delete(d.pos, id)
}

func (d *directory) len() int {
	return len(d.dense)
}

func (d *directory) maxID() actor.ID {
	var top actor.ID
	for _, p := range d.dense {
		if p.actor.ID() > top {
			top = p.actor.ID()
		}
	}
	return top
}
