package actor

import (
	"fmt"

	"github.com/milk9111/tilerpg/common"
)

// CollisionBox is an invisible solid area.
type CollisionBox struct{}

// Signpost blocks movement and shows its text when the player activates it.
type Signpost struct {
	Text string
}

func (s *Signpost) Interact(self, player *Actor, st Stage) {
	st.Say(self, s.Text)
	st.Cue("signpost")
}

// CollisionBox covers the lower half of the sign so the top can overlap
// whatever stands behind it.
func (s *Signpost) CollisionBox(self *Actor) common.Rect {
	r := self.DrawRect()
	r.Height /= 2
	r.Y += r.Height
	return r
}

// Passage moves actors approaching from one of Directions onto the Target
// object layer. Approaches from other directions are blocked.
type Passage struct {
	Directions DirectionMask
	Target     string
}

// Accepts reports whether other is moving in a permitted direction.
func (p *Passage) Accepts(other *Actor) bool {
	return other.IsMoving() && p.Directions.Matches(other.MoveDirection())
}

// Blocks stops an actor heading in a direction the passage does not permit.
// An actor at rest is never blocked: it either arrived through the passage
// or stands beside it.
func (p *Passage) Blocks(self, other *Actor) bool {
	return other.IsMoving() && !p.Directions.Matches(other.MoveDirection())
}

func (p *Passage) HandleEvent(self *Actor, st Stage, ev Event) {
	if ev.Kind != EventCollision || !p.Accepts(ev.Other) {
		return
	}
	if err := st.ChangeActorLayer(ev.Other, p.Target); err != nil {
		panic(fmt.Errorf("passage %d: %w", self.ID(), err))
	}
}

// Teleport relocates the party when the player steps on it: to an entry of
// the same map when TargetMap is empty, otherwise into another map.
type Teleport struct {
	TargetMap   string
	TargetEntry ID
}

func (t *Teleport) HandleEvent(self *Actor, st Stage, ev Event) {
	if ev.Kind != EventCollision || ev.Other.Role() != RolePlayer {
		return
	}
	if t.TargetMap != "" {
		st.RequestMapChange(MapChange{Map: t.TargetMap, Entry: t.TargetEntry})
		return
	}
	entry, ok := st.FindActor(t.TargetEntry)
	if !ok || entry.Kind() != KindEntry {
		panic(fmt.Errorf("teleport %d: entry %d not found", self.ID(), t.TargetEntry))
	}
	for _, p := range st.Protagonists() {
		p.StopMoving()
		p.Position = entry.Position
		p.SetLook(entry.Look())
	}
	st.Cue("teleport")
}

// NPC carries the hooks map controllers use to script a character.
type NPC struct {
	// Interaction runs when the player activates the NPC.
	Interaction func(npc, player *Actor)
	// Routine runs every tick after movement.
	Routine func(npc *Actor, st Stage)
}

func (n *NPC) Interact(self, player *Actor, st Stage) {
	self.SetLook(DirectionOf(player.CollisionBox().Center().Sub(self.CollisionBox().Center())))
	if n.Interaction != nil {
		n.Interaction(self, player)
	}
}

func (n *NPC) Update(self *Actor, st Stage) {
	if n.Routine != nil {
		n.Routine(self, st)
	}
}

// Footprint is a collision box placed relative to the actor position,
// typically the feet of a character taller than a tile.
type Footprint struct {
	Offset common.Vec2
	Size   common.Vec2
}

func (f *Footprint) CollisionBox(self *Actor) common.Rect {
	return common.R(self.Position.X+f.Offset.X, self.Position.Y+f.Offset.Y, f.Size.X, f.Size.Y)
}
