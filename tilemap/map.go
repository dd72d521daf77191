package tilemap

import (
	"fmt"
	"sort"

	"github.com/charmbracelet/log"

	"github.com/milk9111/tilerpg/actor"
	"github.com/milk9111/tilerpg/collision"
	"github.com/milk9111/tilerpg/common"
)

// Dialog is a line queued by actor behavior for the scene to show.
type Dialog struct {
	Speaker actor.ID
	Text    string
}

type transfer struct {
	actor *actor.Actor
	// to is nil for a removal.
	to *ObjectLayer
}

// Map owns an ordered sequence of layers, the tileset index and the
// map-wide actor directory. It implements actor.Stage for the actors it
// hosts.
type Map struct {
	name string

	// Width and Height are in tiles.
	Width, Height         int
	TileWidth, TileHeight int
	Properties            map[string]string

	layers     []Layer
	tilesets   TilesetIndex
	dir        directory
	clock      *actor.TickClock
	dispatcher *collision.Dispatcher

	ticking   bool
	transfers []transfer
	change    *actor.MapChange
	dialogs   []Dialog
	cues      []string

	logger *log.Logger
}

type Option func(*Map)

// WithTickRate sets the simulation rate used by the actors' movement.
func WithTickRate(rate float64) Option {
	return func(m *Map) { m.clock = actor.NewTickClock(rate) }
}

// WithCollisionSource replaces the default spatial-hash broad-phase. A nil
// source keeps the default.
func WithCollisionSource(src collision.Source) Option {
	return func(m *Map) {
		if src != nil {
			m.dispatcher = collision.NewDispatcher(src)
		}
	}
}

func New(name string, width, height, tileWidth, tileHeight int, opts ...Option) *Map {
	m := &Map{
		name:       name,
		Width:      width,
		Height:     height,
		TileWidth:  tileWidth,
		TileHeight: tileHeight,
		Properties: make(map[string]string),
		logger:     log.WithPrefix("tilemap"),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(m)
		}
	}
	if m.clock == nil {
		m.clock = actor.NewTickClock(actor.DefaultTickRate)
	}
	if m.dispatcher == nil {
		m.dispatcher = collision.NewDispatcher(collision.NewGrid(float64(max(tileWidth, tileHeight) * 2)))
	}
	return m
}

func (m *Map) Name() string            { return m.name }
func (m *Map) Layers() []Layer         { return m.layers }
func (m *Map) Tilesets() *TilesetIndex { return &m.tilesets }
func (m *Map) Clock() *actor.TickClock { return m.clock }
func (m *Map) Ticks() int64            { return m.clock.Ticks() }
func (m *Map) ActorCount() int         { return m.dir.len() }
func (m *Map) Dispatcher() *collision.Dispatcher {
	return m.dispatcher
}

// PixelSize returns the tile area in world pixels.
func (m *Map) PixelSize() common.Vec2 {
	return common.V(float64(m.Width*m.TileWidth), float64(m.Height*m.TileHeight))
}

// AddLayer appends l on top of the existing layers. Object layer names must
// be unique since passages refer to them by name.
func (m *Map) AddLayer(l Layer) error {
	if ol, ok := l.(*ObjectLayer); ok {
		if _, dup := m.ObjectLayer(ol.Name()); dup {
			return fmt.Errorf("tilemap: duplicate object layer %q", ol.Name())
		}
		for _, a := range ol.actors {
			if err := m.register(a, ol); err != nil {
				return err
			}
		}
	}
	m.layers = append(m.layers, l)
	return nil
}

func (m *Map) AddTileset(ts *Tileset) error {
	return m.tilesets.Add(ts)
}

// Layer returns the first layer named name.
func (m *Map) Layer(name string) (Layer, bool) {
	for _, l := range m.layers {
		if l.Name() == name {
			return l, true
		}
	}
	return nil, false
}

func (m *Map) ObjectLayer(name string) (*ObjectLayer, bool) {
	for _, l := range m.layers {
		if ol, ok := l.(*ObjectLayer); ok && ol.Name() == name {
			return ol, true
		}
	}
	return nil, false
}

func (m *Map) ObjectLayers() []*ObjectLayer {
	var out []*ObjectLayer
	for _, l := range m.layers {
		if ol, ok := l.(*ObjectLayer); ok {
			out = append(out, ol)
		}
	}
	return out
}

func (m *Map) TileLayers() []*TileLayer {
	var out []*TileLayer
	for _, l := range m.layers {
		if tl, ok := l.(*TileLayer); ok {
			out = append(out, tl)
		}
	}
	return out
}

// Actors returns every actor, object layer by object layer in map order.
func (m *Map) Actors() []*actor.Actor {
	var out []*actor.Actor
	for _, ol := range m.ObjectLayers() {
		out = append(out, ol.actors...)
	}
	return out
}

// FindActor looks id up in the map-wide directory. A missing ID is not an
// error.
func (m *Map) FindActor(id actor.ID) (*actor.Actor, bool) {
	p, ok := m.dir.get(id)
	if !ok {
		return nil, false
	}
	return p.actor, true
}

// LayerOf returns the object layer owning a.
func (m *Map) LayerOf(a *actor.Actor) (*ObjectLayer, bool) {
	p, ok := m.dir.get(a.ID())
	if !ok || p.actor != a {
		return nil, false
	}
	return p.layer, true
}

// NextID returns an ID no actor on the map uses.
func (m *Map) NextID() actor.ID {
	return m.dir.maxID() + 1
}

func (m *Map) register(a *actor.Actor, layer *ObjectLayer) error {
	if a.ID() <= 0 {
		return fmt.Errorf("%w: %v", ErrBadActorID, a)
	}
	if m.dir.has(a.ID()) {
		return fmt.Errorf("%w: %d", ErrDuplicateActorID, a.ID())
	}
	a.SetClock(m.clock)
	m.dir.set(a, layer)
	return nil
}

// AddActor places a on the named object layer.
func (m *Map) AddActor(a *actor.Actor, layerName string) error {
	layer, ok := m.ObjectLayer(layerName)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownLayer, layerName)
	}
	if err := m.register(a, layer); err != nil {
		return err
	}
	layer.insert(a)
	m.logger.Debug("actor added", "actor", a, "layer", layerName)
	return nil
}

// RemoveActor takes the actor off the map. During a tick the removal is
// applied after the pass.
func (m *Map) RemoveActor(id actor.ID) error {
	p, ok := m.dir.get(id)
	if !ok {
		return fmt.Errorf("%w: %d", ErrActorNotFound, id)
	}
	t := transfer{actor: p.actor}
	if m.ticking {
		m.transfers = append(m.transfers, t)
		return nil
	}
	m.apply(t)
	return nil
}

// ChangeActorLayer moves a onto the named object layer, keeping its identity
// and state. During a tick the transfer is queued and applied after the
// pass, so the layer being iterated never changes under the update loop.
func (m *Map) ChangeActorLayer(a *actor.Actor, layerName string) error {
	if _, ok := m.LayerOf(a); !ok {
		return fmt.Errorf("%w: %v", ErrActorNotFound, a)
	}
	target, ok := m.ObjectLayer(layerName)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownLayer, layerName)
	}
	t := transfer{actor: a, to: target}
	if m.ticking {
		m.transfers = append(m.transfers, t)
		return nil
	}
	m.apply(t)
	return nil
}

func (m *Map) apply(t transfer) {
	p, ok := m.dir.get(t.actor.ID())
	if !ok || p.actor != t.actor {
		return
	}
	if t.to == p.layer {
		return
	}
	if !p.layer.remove(t.actor) {
		panic(fmt.Errorf("tilemap: %v missing from layer %q", t.actor, p.layer.Name()))
	}
	if t.to == nil {
		m.dir.remove(t.actor.ID())
		m.logger.Debug("actor removed", "actor", t.actor, "from", p.layer.Name())
		return
	}
	t.to.insert(t.actor)
	m.dir.set(t.actor, t.to)
	m.logger.Debug("layer change", "actor", t.actor, "from", p.layer.Name(), "to", t.to.Name())
}

// Update runs one simulation tick: every actor advances and runs its
// behavior, object layer by object layer in insertion order, then the
// collision dispatcher delivers events. Deferred layer transfers are
// applied last.
func (m *Map) Update() {
	m.clock.Tick()
	m.ticking = true

	for _, ol := range m.ObjectLayers() {
		pass := make([]*actor.Actor, len(ol.actors))
		copy(pass, ol.actors)
		for _, a := range pass {
			a.Update(m)
		}
	}
	m.dispatcher.Dispatch(m, m.Actors())

	m.ticking = false
	pending := m.transfers
	m.transfers = nil
	for _, t := range pending {
		m.apply(t)
	}
}

// Protagonists returns the player and companion actors in ID order.
func (m *Map) Protagonists() []*actor.Actor {
	var out []*actor.Actor
	for _, p := range m.dir.dense {
		if p.actor.Role().Protagonist() {
			out = append(out, p.actor)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID() < out[j].ID() })
	return out
}

// Player returns the actor with the player role, if any.
func (m *Map) Player() (*actor.Actor, bool) {
	for _, a := range m.Protagonists() {
		if a.Role() == actor.RolePlayer {
			return a, true
		}
	}
	return nil, false
}

// RequestMapChange keeps the first request of a tick. A teleport keeps
// firing while the player stands on it; later requests are ignored until
// the scene takes the pending one.
func (m *Map) RequestMapChange(req actor.MapChange) {
	if m.change != nil {
		return
	}
	m.logger.Debug("map change requested", "map", req.Map, "entry", req.Entry)
	m.change = &req
}

// TakeMapChange returns and clears the pending map change.
func (m *Map) TakeMapChange() (actor.MapChange, bool) {
	if m.change == nil {
		return actor.MapChange{}, false
	}
	req := *m.change
	m.change = nil
	return req, true
}

func (m *Map) Say(speaker *actor.Actor, text string) {
	d := Dialog{Text: text}
	if speaker != nil {
		d.Speaker = speaker.ID()
	}
	m.dialogs = append(m.dialogs, d)
}

// TakeDialogs returns and clears the queued dialog lines.
func (m *Map) TakeDialogs() []Dialog {
	out := m.dialogs
	m.dialogs = nil
	return out
}

func (m *Map) Cue(name string) {
	m.cues = append(m.cues, name)
}

// TakeCues returns and clears the sound cues queued during the last tick.
func (m *Map) TakeCues() []string {
	out := m.cues
	m.cues = nil
	return out
}

// Interact probes the area in front of player and activates the first
// interactable actor found, in ID order. Only the player role can interact.
func (m *Map) Interact(player *actor.Actor) bool {
	if player == nil || player.Role() != actor.RolePlayer {
		return false
	}
	reach := float64(max(m.TileWidth, m.TileHeight)) / 2
	probe := player.CollisionBox().Translate(player.Look().Vector().Scale(reach))

	var hits []*actor.Actor
	for _, a := range m.Actors() {
		if a == player || !a.Collidable() {
			continue
		}
		if a.CollisionBox().Intersects(probe) {
			hits = append(hits, a)
		}
	}
	sort.Slice(hits, func(i, j int) bool { return hits[i].ID() < hits[j].ID() })
	for _, a := range hits {
		if a.Interact(player, m) {
			m.logger.Debug("interact", "player", player, "target", a)
			return true
		}
	}
	return false
}
