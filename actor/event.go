package actor

import "github.com/milk9111/tilerpg/common"

// EventKind identifies an event delivered to HandleEvent. New kinds can be
// added without changing the dispatch call shape.
type EventKind int

const (
	// EventCollision is delivered every tick to both actors of an
	// overlapping pair.
	EventCollision EventKind = iota + 1
	// EventSeparation is delivered once when a pair that overlapped on the
	// previous tick no longer does.
	EventSeparation
)

func (k EventKind) String() string {
	switch k {
	case EventCollision:
		return "collision"
	case EventSeparation:
		return "separation"
	default:
		return "unknown"
	}
}

// Event is built and consumed within one dispatch pass. It must not be
// retained.
type Event struct {
	Kind  EventKind
	Other *Actor
	// Intersection is the overlap of both collision boxes, captured before
	// any event of the pass was delivered.
	Intersection common.Rect
	// Separation is this actor's share of the push-back that resolves the
	// overlap. Zero when this actor must not move.
	Separation common.Vec2
}

// MapChange asks the scene to replace the current map.
type MapChange struct {
	Map   string
	Entry ID
}

// Stage is what actor behavior may ask of the map hosting it.
type Stage interface {
	FindActor(id ID) (*Actor, bool)
	// Protagonists returns the player and companion actors in ID order.
	Protagonists() []*Actor
	// ChangeActorLayer moves a to the named object layer. During a tick the
	// transfer is applied after the pass.
	ChangeActorLayer(a *Actor, layer string) error
	RequestMapChange(req MapChange)
	// Say queues a dialog line spoken by speaker.
	Say(speaker *Actor, text string)
	// Cue queues a sound cue for the audio collaborator.
	Cue(name string)
}

// EventHandler replaces the default push-back reaction.
type EventHandler interface {
	HandleEvent(self *Actor, st Stage, ev Event)
}

// Interactable reacts to the player pressing the activate button.
type Interactable interface {
	Interact(self, player *Actor, st Stage)
}

// Updater runs once per tick after movement.
type Updater interface {
	Update(self *Actor, st Stage)
}

// Blocker decides whether self blocks other. Actors without it block when
// solid.
type Blocker interface {
	Blocks(self, other *Actor) bool
}

// Boxer overrides the collision box, decoupling it from the draw rect.
type Boxer interface {
	CollisionBox(self *Actor) common.Rect
}
