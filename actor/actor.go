package actor

import (
	"fmt"

	"github.com/milk9111/tilerpg/common"
)

// ID identifies an actor. IDs are unique across a whole map.
type ID int

// Kind is the authored object type that built an actor.
type Kind string

const (
	KindStatic        Kind = "static"
	KindStartPosition Kind = "startpos"
	KindEntry         Kind = "entry"
	KindSignpost      Kind = "signpost"
	KindCollisionBox  Kind = "collbox"
	KindPassage       Kind = "passage"
	KindTeleport      Kind = "teleport"
	KindNPC           Kind = "npc"
	KindPlayer        Kind = "player"
)

// Mobility controls whether an actor takes part in push-back.
type Mobility int

const (
	// Movable actors are pushed out of solid actors. While idle they yield
	// only to fixed obstacles and to other idle actors.
	Movable Mobility = iota
	// Fixed actors never move on collision; the other party takes the
	// whole correction.
	Fixed
	// MovableWhileMoving actors are fixed while idle.
	MovableWhileMoving
)

// Actor is a positioned, oriented, optionally moving entity. Kind specific
// behavior lives in the value returned by Behavior and is discovered through
// the capability interfaces (EventHandler, Interactable, Updater, Blocker,
// Boxer).
type Actor struct {
	id   ID
	kind Kind
	role Role

	// Position is the top-left corner in world pixels.
	Position common.Vec2
	// Size is the draw size in pixels.
	Size common.Vec2

	look       Direction
	mobility   Mobility
	solid      bool
	collidable bool

	Sprite Sprite

	motion   Motion
	animator Animator
	clock    Clock
	behavior any
}

// Option configures an actor built by New. The With options below set the
// field of the same name.
type Option func(*Actor)

func WithPosition(p common.Vec2) Option { return func(a *Actor) { a.Position = p } }
func WithSize(w, h float64) Option      { return func(a *Actor) { a.Size = common.V(w, h) } }
func WithRole(r Role) Option            { return func(a *Actor) { a.role = r } }
func WithLook(d Direction) Option       { return func(a *Actor) { a.look = d } }
func WithMobility(m Mobility) Option    { return func(a *Actor) { a.mobility = m } }
func WithClock(c Clock) Option          { return func(a *Actor) { a.clock = c } }
func WithBehavior(b any) Option         { return func(a *Actor) { a.behavior = b } }

// WithSprite sets the sprite metadata. A zero Size is taken from the frame
// size.
func WithSprite(s Sprite) Option {
	return func(a *Actor) {
		a.Sprite = s
		a.animator.SetFrameCount(s.Frames)
	}
}

// WithAnimationMode picks when the frame advances.
func WithAnimationMode(m AnimationMode) Option {
	return func(a *Actor) { a.animator.Mode = m }
}

// Passable makes the actor non-solid: it still collides and receives
// events but blocks nobody.
func Passable() Option { return func(a *Actor) { a.solid = false } }

// Intangible removes the actor from collision detection entirely.
func Intangible() Option {
	return func(a *Actor) {
		a.collidable = false
		a.solid = false
	}
}

// New builds an actor. Actors are solid, collidable and movable unless an
// option says otherwise.
func New(id ID, kind Kind, opts ...Option) *Actor {
	a := &Actor{
		id:         id,
		kind:       kind,
		solid:      true,
		collidable: true,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(a)
		}
	}
	if a.Size.IsZero() && a.Sprite.FrameWidth > 0 {
		a.Size = common.V(float64(a.Sprite.FrameWidth), float64(a.Sprite.FrameHeight))
	}
	return a
}

func (a *Actor) ID() ID          { return a.id }
func (a *Actor) Kind() Kind      { return a.kind }
func (a *Actor) Role() Role      { return a.role }
func (a *Actor) SetRole(r Role)  { a.role = r }
func (a *Actor) Look() Direction { return a.look }
func (a *Actor) Behavior() any   { return a.behavior }
func (a *Actor) Solid() bool     { return a.solid }
func (a *Actor) Collidable() bool {
	return a.collidable
}

func (a *Actor) SetLook(d Direction) {
	if d != DirNone {
		a.look = d
	}
}

// SetClock attaches the simulation clock of the hosting map.
func (a *Actor) SetClock(c Clock) { a.clock = c }

func (a *Actor) String() string {
	return fmt.Sprintf("%s#%d", a.kind, a.id)
}

func (a *Actor) now() (int64, float64) {
	c := a.clock
	if c == nil {
		c = stoppedClock
	}
	return c.Now(), c.TickRate()
}

// MoveTo starts interpolated motion towards target, replacing any move in
// progress. The actor turns towards the dominant axis of travel.
func (a *Actor) MoveTo(target common.Vec2, profile VelocityProfile) {
	now, _ := a.now()
	a.motion.Start(a.Position, target, now, profile)
	a.SetLook(DirectionOf(a.motion.Direction()))
}

// MoveToSpeed is MoveTo with a constant velocity in pixels per second.
func (a *Actor) MoveToSpeed(target common.Vec2, speed float64) {
	a.MoveTo(target, Constant(speed))
}

// StopMoving cancels the current move, leaving the actor where it is.
func (a *Actor) StopMoving() {
	a.motion.Clear()
}

func (a *Actor) IsMoving() bool             { return a.motion.Moving() }
func (a *Actor) MoveDirection() common.Vec2 { return a.motion.Direction() }
func (a *Actor) Target() common.Vec2        { return a.motion.Target() }
func (a *Actor) DistanceTravelled() float64 { return a.motion.Travelled() }
func (a *Actor) TotalDistance() float64     { return a.motion.Total() }

func (a *Actor) Frame() int                       { return a.animator.Frame() }
func (a *Actor) FrameCount() int                  { return a.animator.FrameCount() }
func (a *Actor) NextFrame()                       { a.animator.NextFrame() }
func (a *Actor) AnimationMode() AnimationMode     { return a.animator.Mode }
func (a *Actor) SetAnimationMode(m AnimationMode) { a.animator.Mode = m }

// Advance runs the movement engine and animation for one tick.
func (a *Actor) Advance() {
	if !a.motion.Moving() {
		a.animator.tick(false, 0)
		return
	}
	now, rate := a.now()
	pos, arrived := a.motion.Step(a.Position, now, rate)
	a.Position = pos
	if arrived {
		a.animator.Reset()
		return
	}
	a.animator.tick(true, a.motion.Progress())
}

// Update is the per-tick entry point: movement, animation, then the
// behavior hook.
func (a *Actor) Update(st Stage) {
	a.Advance()
	if u, ok := a.behavior.(Updater); ok {
		u.Update(a, st)
	}
}

// Push-back ranks returned by Yield.
const (
	YieldNever = iota
	YieldIdle
	YieldMoving
)

// Yield ranks how readily the actor takes push-back right now. Of a
// blocking pair the higher ranked actor takes the whole correction and
// equal ranks split it, so a moving actor is stopped by an idle prop while
// the idle prop is still pushed out of a fixed box.
func (a *Actor) Yield() int {
	switch {
	case a.mobility == Fixed:
		return YieldNever
	case a.motion.Moving():
		return YieldMoving
	case a.mobility == MovableWhileMoving:
		return YieldNever
	default:
		return YieldIdle
	}
}

// Movable reports whether the actor takes push-back right now.
func (a *Actor) Movable() bool {
	return a.Yield() > YieldNever
}

// Blocks reports whether a stops other from overlapping it. Members of the
// party walk through each other.
func (a *Actor) Blocks(other *Actor) bool {
	if a.role.Protagonist() && other.role.Protagonist() {
		return false
	}
	if b, ok := a.behavior.(Blocker); ok {
		return b.Blocks(a, other)
	}
	return a.solid
}

// DrawRect is the on-screen rectangle in world coordinates.
func (a *Actor) DrawRect() common.Rect {
	return common.R(a.Position.X, a.Position.Y, a.Size.X, a.Size.Y)
}

// CollisionBox defaults to the draw rect.
func (a *Actor) CollisionBox() common.Rect {
	if b, ok := a.behavior.(Boxer); ok {
		return b.CollisionBox(a)
	}
	return a.DrawRect()
}

// SourceRect selects the sprite region for the current frame and look.
func (a *Actor) SourceRect() common.Rect {
	return a.Sprite.SourceRect(a.animator.Frame(), a.look)
}

// HandleEvent delivers ev to the behavior, falling back to AntiCollide.
func (a *Actor) HandleEvent(st Stage, ev Event) {
	if h, ok := a.behavior.(EventHandler); ok {
		h.HandleEvent(a, st, ev)
		return
	}
	a.AntiCollide(ev)
}

// AntiCollide applies this actor's share of the push-back. A move heading
// into the obstacle is cancelled so the actor does not keep pressing
// against it.
func (a *Actor) AntiCollide(ev Event) {
	if ev.Kind != EventCollision || ev.Separation.IsZero() {
		return
	}
	a.Position = a.Position.Add(ev.Separation)
	if a.motion.Moving() && a.motion.Direction().Dot(ev.Separation) < 0 {
		a.StopMoving()
	}
}

// Interact is called when player activates a. It reports whether a reacted.
// Only the player role may interact.
func (a *Actor) Interact(player *Actor, st Stage) bool {
	if player == nil || player.Role() != RolePlayer {
		return false
	}
	i, ok := a.behavior.(Interactable)
	if !ok {
		return false
	}
	i.Interact(a, player, st)
	return true
}
