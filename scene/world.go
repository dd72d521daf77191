package scene

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/milk9111/tilerpg/actor"
	"github.com/milk9111/tilerpg/common"
	"github.com/milk9111/tilerpg/prefabs"
	"github.com/milk9111/tilerpg/script"
	"github.com/milk9111/tilerpg/tilemap"
)

var (
	ErrNoStart  = errors.New("scene: map has no start position")
	ErrNoPlayer = errors.New("scene: no player on the map")
)

type WorldConfig struct {
	// Step is the distance of one walking step, normally the tile size.
	Step            float64
	PlayerSpeed     float64
	PlayerPrefab    string
	CompanionPrefab string
}

// StepResult is what a tick produced for the presentation layer.
type StepResult struct {
	Cues   []string
	Change *actor.MapChange
}

// World owns the current map and the party walking on it. It holds no
// ebiten state so it can run headless.
type World struct {
	loader  *tilemap.Loader
	scripts *script.Registry
	catalog *prefabs.Catalog
	cfg     WorldConfig

	current   *tilemap.Map
	player    *actor.Actor
	companion *actor.Actor
	dialogs   []tilemap.Dialog
	// refused is the last map change Enter could not perform. It is not
	// reported again until a tick passes without the request.
	refused *actor.MapChange
	logger  *log.Logger
}

func NewWorld(loader *tilemap.Loader, scripts *script.Registry, catalog *prefabs.Catalog, cfg WorldConfig) *World {
	if scripts == nil {
		scripts = script.NewRegistry()
	}
	return &World{
		loader:  loader,
		scripts: scripts,
		catalog: catalog,
		cfg:     cfg,
		logger:  log.WithPrefix("world"),
	}
}

func (w *World) Map() *tilemap.Map         { return w.current }
func (w *World) Player() *actor.Actor      { return w.player }
func (w *World) Companion() *actor.Actor   { return w.companion }
func (w *World) Scripts() *script.Registry { return w.scripts }
func (w *World) Loader() *tilemap.Loader   { return w.loader }
func (w *World) Catalog() *prefabs.Catalog { return w.catalog }

// Dialog returns the line currently shown, if any.
func (w *World) Dialog() (tilemap.Dialog, bool) {
	if len(w.dialogs) == 0 {
		return tilemap.Dialog{}, false
	}
	return w.dialogs[0], true
}

// Start loads name and places the party on its start position.
func (w *World) Start(name string) error {
	m, err := w.prepare(name)
	if err != nil {
		return err
	}
	start, ok := startPosition(m)
	if !ok {
		return fmt.Errorf("%w: %s", ErrNoStart, name)
	}
	return w.swap(m, start.Position, start.Look(), start)
}

// Enter performs a cross-map teleport. The target map is loaded and the
// party placed before anything is swapped, so a failure keeps the current
// map running. A failed request is not reported by Step again while the
// player keeps standing on the teleport.
func (w *World) Enter(req actor.MapChange) error {
	err := w.enter(req)
	if err != nil {
		w.refused = &req
	}
	return err
}

func (w *World) enter(req actor.MapChange) error {
	m, err := w.prepare(req.Map)
	if err != nil {
		return err
	}
	entry, ok := m.FindActor(req.Entry)
	if !ok || entry.Kind() != actor.KindEntry {
		return fmt.Errorf("scene: enter %s: %w: %d", req.Map, tilemap.ErrUnknownEntry, req.Entry)
	}
	return w.swap(m, entry.Position, entry.Look(), entry)
}

// Reload rereads the current map, keeping the party where it stands.
func (w *World) Reload() error {
	if w.current == nil || w.player == nil {
		return ErrNoPlayer
	}
	m, err := w.prepare(w.current.Name())
	if err != nil {
		return err
	}
	layer := ""
	if l, ok := w.current.LayerOf(w.player); ok {
		if _, ok := m.ObjectLayer(l.Name()); ok {
			layer = l.Name()
		}
	}
	return w.place(m, w.player.Position, w.player.Look(), layer)
}

func (w *World) prepare(name string) (*tilemap.Map, error) {
	m, err := w.loader.Load(name)
	if err != nil {
		return nil, err
	}
	if err := w.scripts.Attach(m); err != nil {
		return nil, err
	}
	return m, nil
}

func (w *World) swap(m *tilemap.Map, pos common.Vec2, look actor.Direction, at *actor.Actor) error {
	layer := ""
	if l, ok := m.LayerOf(at); ok {
		layer = l.Name()
	}
	return w.place(m, pos, look, layer)
}

// place spawns the party on m and makes it current. An empty layer means
// the first object layer.
func (w *World) place(m *tilemap.Map, pos common.Vec2, look actor.Direction, layer string) error {
	if layer == "" {
		layers := m.ObjectLayers()
		if len(layers) == 0 {
			return fmt.Errorf("scene: %s: %w: no object layer", m.Name(), tilemap.ErrUnknownLayer)
		}
		layer = layers[0].Name()
	}
	player, companion, err := w.spawnParty(m, pos, look, layer)
	if err != nil {
		return err
	}
	w.current = m
	w.player = player
	w.companion = companion
	w.dialogs = nil
	w.refused = nil
	w.logger.Info("map entered", "map", m.Name(), "pos", pos, "layer", layer)
	return nil
}

// spawnParty builds the player, and the companion one step behind it.
func (w *World) spawnParty(m *tilemap.Map, pos common.Vec2, look actor.Direction, layer string) (*actor.Actor, *actor.Actor, error) {
	spec, err := prefabs.LoadActorSpec(w.cfg.PlayerPrefab)
	if err != nil {
		return nil, nil, err
	}
	player, err := prefabs.BuildActor(spec, m.NextID(), pos, w.catalog)
	if err != nil {
		return nil, nil, err
	}
	if look != actor.DirNone {
		player.SetLook(look)
	}
	player.SetRole(actor.RolePlayer)
	if err := m.AddActor(player, layer); err != nil {
		return nil, nil, err
	}

	if w.cfg.CompanionPrefab == "" {
		return player, nil, nil
	}
	spec, err = prefabs.LoadActorSpec(w.cfg.CompanionPrefab)
	if err != nil {
		return nil, nil, err
	}
	behind := pos.Sub(player.Look().Vector().Scale(w.step(m)))
	companion, err := prefabs.BuildActor(spec, m.NextID(), behind, w.catalog)
	if err != nil {
		return nil, nil, err
	}
	companion.SetLook(player.Look())
	companion.SetRole(actor.RoleCompanion)
	if err := m.AddActor(companion, layer); err != nil {
		return nil, nil, err
	}
	return player, companion, nil
}

func (w *World) step(m *tilemap.Map) float64 {
	if w.cfg.Step > 0 {
		return w.cfg.Step
	}
	return float64(max(m.TileWidth, m.TileHeight))
}

// Step runs one tick. While a dialog line is shown the world is paused
// and Activate dismisses the line.
func (w *World) Step(in Intent) StepResult {
	var res StepResult
	if w.current == nil {
		return res
	}
	if len(w.dialogs) > 0 {
		if in.Activate {
			w.dialogs = w.dialogs[1:]
		}
		return res
	}

	if w.player != nil {
		w.control(in)
	}
	w.current.Update()

	w.dialogs = append(w.dialogs, w.current.TakeDialogs()...)
	res.Cues = w.current.TakeCues()
	req, ok := w.current.TakeMapChange()
	switch {
	case !ok:
		w.refused = nil
	case w.refused != nil && *w.refused == req:
	default:
		res.Change = &req
	}
	return res
}

// control turns input into a step of the player, a one-tile move in the
// held direction started only when the previous step has finished. The
// companion walks into the cell the player left.
func (w *World) control(in Intent) {
	p := w.player
	if in.Activate && !p.IsMoving() {
		w.current.Interact(p)
	}
	if in.Move == actor.DirNone || p.IsMoving() {
		return
	}
	p.SetLook(in.Move)
	from := p.Position
	p.MoveToSpeed(from.Add(in.Move.Vector().Scale(w.step(w.current))), w.cfg.PlayerSpeed)

	c := w.companion
	if c == nil || c.IsMoving() {
		return
	}
	if d := from.Sub(c.Position); !d.IsZero() {
		c.SetLook(actor.DirectionOf(d))
		c.MoveToSpeed(from, w.cfg.PlayerSpeed)
	}
}

// startPosition returns the start actor with the lowest ID.
func startPosition(m *tilemap.Map) (*actor.Actor, bool) {
	var start *actor.Actor
	for _, a := range m.Actors() {
		if a.Kind() != actor.KindStartPosition {
			continue
		}
		if start == nil || a.ID() < start.ID() {
			start = a
		}
	}
	return start, start != nil
}
