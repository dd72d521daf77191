package tilemap

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/milk9111/tilerpg/actor"
	"github.com/milk9111/tilerpg/collision"
)

// mapExtensions are tried in order when a map is named without one.
var mapExtensions = []string{".json", ".tmj"}

// Loader reads Tiled JSON maps from a file system and builds Maps from
// them. Every map it returns passed validation: tile IDs resolve, passages
// name an object layer, same-map teleports point at an entry.
type Loader struct {
	fsys     fs.FS
	sprites  SpriteSource
	tickRate float64
	source   func(tickRate float64) collision.Source
	logger   *log.Logger
}

type LoaderOption func(*Loader)

func WithSprites(s SpriteSource) LoaderOption {
	return func(l *Loader) { l.sprites = s }
}

func WithLoaderTickRate(rate float64) LoaderOption {
	return func(l *Loader) { l.tickRate = rate }
}

// WithBackend picks the collision source built for each loaded map.
func WithBackend(fn func(tickRate float64) collision.Source) LoaderOption {
	return func(l *Loader) { l.source = fn }
}

func NewLoader(fsys fs.FS, opts ...LoaderOption) *Loader {
	l := &Loader{
		fsys:     fsys,
		tickRate: actor.DefaultTickRate,
		logger:   log.WithPrefix("loader"),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(l)
		}
	}
	return l
}

// FS returns the file system maps are read from.
func (l *Loader) FS() fs.FS {
	return l.fsys
}

// Resolve returns the file path of the named map.
func (l *Loader) Resolve(name string) (string, error) {
	if path.Ext(name) != "" {
		if _, err := fs.Stat(l.fsys, name); err != nil {
			return "", err
		}
		return name, nil
	}
	for _, ext := range mapExtensions {
		if _, err := fs.Stat(l.fsys, name+ext); err == nil {
			return name + ext, nil
		}
	}
	return "", fmt.Errorf("%s: %w", name, fs.ErrNotExist)
}

// Load reads, builds and validates the named map. name may omit the file
// extension.
func (l *Loader) Load(name string) (*Map, error) {
	file, err := l.Resolve(name)
	if err != nil {
		return nil, fmt.Errorf("tilemap: load %s: %w", name, err)
	}
	data, err := fs.ReadFile(l.fsys, file)
	if err != nil {
		return nil, fmt.Errorf("tilemap: load %s: %w", name, err)
	}
	m, err := l.Parse(mapName(file), path.Dir(file), data)
	if err != nil {
		return nil, fmt.Errorf("tilemap: load %s: %w", name, err)
	}
	l.logger.Debug("map loaded", "map", m.Name(), "layers", len(m.layers), "actors", m.ActorCount())
	return m, nil
}

// Parse builds a map from Tiled JSON. dir is where external tilesets are
// looked up.
func (l *Loader) Parse(name, dir string, data []byte) (*Map, error) {
	var tm tiledMap
	if err := json.Unmarshal(data, &tm); err != nil {
		return nil, fmt.Errorf("unmarshal map: %w", err)
	}
	if tm.Infinite {
		return nil, errors.New("infinite maps are not supported")
	}

	opts := []Option{WithTickRate(l.tickRate)}
	if l.source != nil {
		opts = append(opts, WithCollisionSource(l.source(l.tickRate)))
	}
	m := New(name, tm.Width, tm.Height, tm.TileWidth, tm.TileHeight, opts...)
	for k, v := range toProperties(tm.Properties) {
		m.Properties[k] = v
	}

	for _, ref := range tm.Tilesets {
		ts, err := l.tileset(dir, ref)
		if err != nil {
			return nil, err
		}
		if err := m.AddTileset(ts); err != nil {
			return nil, err
		}
	}

	ctx := &BuildContext{Map: name, Sprites: l.sprites, TileWidth: tm.TileWidth, TileHeight: tm.TileHeight}
	if err := l.addLayers(m, tm.Layers, ctx); err != nil {
		return nil, err
	}
	if err := Validate(m); err != nil {
		return nil, err
	}
	return m, nil
}

func (l *Loader) addLayers(m *Map, layers []tiledLayer, ctx *BuildContext) error {
	for _, tl := range layers {
		switch tl.Type {
		case "tilelayer":
			layer, err := tileLayer(tl)
			if err != nil {
				return err
			}
			if err := m.AddLayer(layer); err != nil {
				return err
			}
		case "objectgroup":
			layer := NewObjectLayer(tl.Name)
			layer.visible = tl.visible()
			for _, obj := range tl.Objects {
				a, err := Build(object(obj), ctx)
				if err != nil {
					return fmt.Errorf("layer %q: %w", tl.Name, err)
				}
				layer.insert(a)
			}
			if err := m.AddLayer(layer); err != nil {
				return fmt.Errorf("layer %q: %w", tl.Name, err)
			}
		case "group":
			if err := l.addLayers(m, tl.Layers, ctx); err != nil {
				return err
			}
		default:
			l.logger.Debug("skipping layer", "layer", tl.Name, "type", tl.Type)
		}
	}
	return nil
}

func tileLayer(tl tiledLayer) (*TileLayer, error) {
	tiles, err := decodeTiles(tl)
	if err != nil {
		return nil, fmt.Errorf("layer %q: %w", tl.Name, err)
	}
	layer, err := NewTileLayer(tl.Name, tl.Width, tl.Height, tiles)
	if err != nil {
		return nil, err
	}
	layer.visible = tl.visible()
	props := toProperties(tl.Properties)
	if layer.Facing, err = ParseFacing(props.String("facing", "")); err != nil {
		return nil, fmt.Errorf("layer %q: %w", tl.Name, err)
	}
	return layer, nil
}

// object converts a Tiled object. Tile objects are anchored at their
// bottom-left corner in Tiled; actors are anchored top-left.
func object(o tiledObject) Object {
	y := o.Y
	if o.GID != 0 {
		y -= o.Height
	}
	return Object{
		ID:         actor.ID(o.ID),
		Name:       o.Name,
		Type:       o.kind(),
		X:          o.X,
		Y:          y,
		Width:      o.Width,
		Height:     o.Height,
		Properties: toProperties(o.Properties),
	}
}

func (l *Loader) tileset(dir string, ref tiledTileset) (*Tileset, error) {
	if ref.Source != "" {
		file := path.Join(dir, ref.Source)
		if ext := path.Ext(file); ext == ".tsx" {
			return nil, fmt.Errorf("tileset %s: XML tilesets are not supported, export as JSON", ref.Source)
		}
		data, err := fs.ReadFile(l.fsys, file)
		if err != nil {
			return nil, fmt.Errorf("tileset %s: %w", ref.Source, err)
		}
		firstGID := ref.FirstGID
		if err := json.Unmarshal(data, &ref); err != nil {
			return nil, fmt.Errorf("tileset %s: %w", ref.Source, err)
		}
		ref.FirstGID = firstGID
		if ref.Image != "" {
			ref.Image = path.Join(path.Dir(file), ref.Image)
		}
	} else if ref.Image != "" {
		ref.Image = path.Join(dir, ref.Image)
	}
	return &Tileset{
		Name:       ref.Name,
		FirstGID:   ref.FirstGID,
		Image:      ref.Image,
		TileWidth:  ref.TileWidth,
		TileHeight: ref.TileHeight,
		Columns:    ref.Columns,
		TileCount:  ref.TileCount,
		Margin:     ref.Margin,
		Spacing:    ref.Spacing,
	}, nil
}

// Validate checks the references a map makes to itself. Loaded maps are
// always validated; maps assembled in code may call it directly.
func Validate(m *Map) error {
	for _, tl := range m.TileLayers() {
		for i, gid := range tl.Tiles {
			if gid == 0 {
				continue
			}
			if _, err := m.tilesets.Resolve(gid); err != nil {
				return fmt.Errorf("layer %q tile %d (col %d, row %d): %w", tl.Name(), i, i%tl.Width, i/tl.Width, err)
			}
		}
	}
	for _, a := range m.Actors() {
		switch b := a.Behavior().(type) {
		case *actor.Passage:
			if _, ok := m.ObjectLayer(b.Target); !ok {
				return fmt.Errorf("passage %d: %w: %q", a.ID(), ErrUnknownLayer, b.Target)
			}
		case *actor.Teleport:
			if b.TargetMap != "" {
				continue
			}
			entry, ok := m.FindActor(b.TargetEntry)
			if !ok || entry.Kind() != actor.KindEntry {
				return fmt.Errorf("teleport %d: %w: %d", a.ID(), ErrUnknownEntry, b.TargetEntry)
			}
		}
	}
	return nil
}

// CheckLinks loads every map a cross-map teleport of m points at and checks
// the target entry exists there.
func (l *Loader) CheckLinks(m *Map) error {
	loaded := map[string]*Map{m.Name(): m}
	for _, a := range m.Actors() {
		t, ok := a.Behavior().(*actor.Teleport)
		if !ok || t.TargetMap == "" {
			continue
		}
		target, ok := loaded[t.TargetMap]
		if !ok {
			var err error
			if target, err = l.Load(t.TargetMap); err != nil {
				return fmt.Errorf("teleport %d: %w", a.ID(), err)
			}
			loaded[t.TargetMap] = target
		}
		entry, ok := target.FindActor(t.TargetEntry)
		if !ok || entry.Kind() != actor.KindEntry {
			return fmt.Errorf("teleport %d: %w: %s#%d", a.ID(), ErrUnknownEntry, t.TargetMap, t.TargetEntry)
		}
	}
	return nil
}

func mapName(file string) string {
	return strings.TrimSuffix(file, path.Ext(file))
}
