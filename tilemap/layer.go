package tilemap

import (
	"fmt"
	"strings"

	"github.com/milk9111/tilerpg/actor"
)

// Facing says where a tile layer sits relative to the actors.
type Facing int

const (
	// FacingUp layers are drawn in map order, beneath later layers.
	FacingUp Facing = iota
	// FacingDown layers are drawn over every object layer (roofs, tree
	// tops).
	FacingDown
	// FacingBoth layers are drawn in map order and again over the actors.
	FacingBoth
)

func (f Facing) String() string {
	switch f {
	case FacingDown:
		return "down"
	case FacingBoth:
		return "both"
	default:
		return "up"
	}
}

// ParseFacing accepts up, down or both. The empty string is FacingUp.
func ParseFacing(s string) (Facing, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "up":
		return FacingUp, nil
	case "down":
		return FacingDown, nil
	case "both":
		return FacingBoth, nil
	default:
		return FacingUp, fmt.Errorf("tilemap: unknown facing %q", s)
	}
}

// Layer is either a *TileLayer or an *ObjectLayer.
type Layer interface {
	Name() string
	Visible() bool
	layer()
}

// TileLayer is a row-major grid of global tile IDs. 0 means no tile.
type TileLayer struct {
	name    string
	visible bool

	Width, Height int
	Tiles         []int
	Facing        Facing
}

func NewTileLayer(name string, width, height int, tiles []int) (*TileLayer, error) {
	if width < 0 || height < 0 || len(tiles) != width*height {
		return nil, fmt.Errorf("%w: layer %q is %dx%d with %d tiles", ErrBadLayerSize, name, width, height, len(tiles))
	}
	return &TileLayer{name: name, visible: true, Width: width, Height: height, Tiles: tiles}, nil
}

func (l *TileLayer) Name() string  { return l.name }
func (l *TileLayer) Visible() bool { return l.visible }
func (l *TileLayer) layer()        {}

// At returns the GID at column x, row y, or 0 outside the grid.
func (l *TileLayer) At(x, y int) int {
	if x < 0 || y < 0 || x >= l.Width || y >= l.Height {
		return 0
	}
	return l.Tiles[y*l.Width+x]
}

// Set stores gid at column x, row y. Out of range writes are ignored.
func (l *TileLayer) Set(x, y, gid int) {
	if x < 0 || y < 0 || x >= l.Width || y >= l.Height {
		return
	}
	l.Tiles[y*l.Width+x] = gid
}

// ObjectLayer exclusively owns its actors. Membership only changes through
// the Map so the map-wide ID directory stays consistent.
type ObjectLayer struct {
	name    string
	visible bool
	actors  []*actor.Actor
}

func NewObjectLayer(name string) *ObjectLayer {
	return &ObjectLayer{name: name, visible: true}
}

func (l *ObjectLayer) Name() string  { return l.name }
func (l *ObjectLayer) Visible() bool { return l.visible }
func (l *ObjectLayer) layer()        {}

// Actors returns the layer's actors in insertion order. The slice must not
// be modified.
func (l *ObjectLayer) Actors() []*actor.Actor {
	return l.actors
}

func (l *ObjectLayer) Len() int {
	return len(l.actors)
}

func (l *ObjectLayer) insert(a *actor.Actor) {
	l.actors = append(l.actors, a)
}

func (l *ObjectLayer) remove(a *actor.Actor) bool {
	for i, other := range l.actors {
		if other == a {
			copy(l.actors[i:], l.actors[i+1:])
			l.actors[len(l.actors)-1] = nil
			l.actors = l.actors[:len(l.actors)-1]
			return true
		}
	}
	return false
}
