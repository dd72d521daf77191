package tilemap

import (
	"fmt"
	"math"
	"sort"

	"github.com/milk9111/tilerpg/actor"
	"github.com/milk9111/tilerpg/common"
)

// TileDraw is one tile blit: Src in the tileset image, Dst in world pixels.
type TileDraw struct {
	Tileset *Tileset
	GID     int
	Src     common.Rect
	Dst     common.Rect
}

// Surface is implemented by the rendering collaborator. The map only works
// out what goes where; it never draws by itself.
type Surface interface {
	DrawTile(t TileDraw)
	DrawActor(a *actor.Actor, dst common.Rect)
}

// VisibleTiles calls fn for every non-empty tile of l intersecting view, row
// by row. Tile index i is column i % Width, row i / Width.
func (m *Map) VisibleTiles(l *TileLayer, view common.Rect, fn func(TileDraw)) {
	if m.TileWidth <= 0 || m.TileHeight <= 0 {
		return
	}
	tw, th := float64(m.TileWidth), float64(m.TileHeight)
	x0 := clampInt(int(math.Floor(view.X/tw)), 0, l.Width)
	y0 := clampInt(int(math.Floor(view.Y/th)), 0, l.Height)
	x1 := clampInt(int(math.Ceil(view.Right()/tw)), 0, l.Width)
	y1 := clampInt(int(math.Ceil(view.Bottom()/th)), 0, l.Height)

	for y := y0; y < y1; y++ {
		for x := x0; x < x1; x++ {
			idx := y*l.Width + x
			gid := l.Tiles[idx]
			if gid == 0 {
				continue
			}
			ts, src, err := m.tilesets.ReadTile(gid)
			if err != nil {
				panic(fmt.Errorf("tilemap %s: layer %q tile %d: %w", m.name, l.Name(), idx, err))
			}
			col, row := idx%l.Width, idx/l.Width
			fn(TileDraw{
				Tileset: ts,
				GID:     gid,
				Src:     src,
				Dst:     common.R(float64(col)*tw, float64(row)*th-(src.Height-th), src.Width, src.Height),
			})
		}
	}
}

// VisibleActors returns the actors of l whose draw rect intersects view,
// sorted by their bottom edge so lower actors are drawn over higher ones.
func (m *Map) VisibleActors(l *ObjectLayer, view common.Rect) []*actor.Actor {
	var out []*actor.Actor
	for _, a := range l.actors {
		if a.Sprite.Graphic == "" {
			continue
		}
		if a.DrawRect().Intersects(view) {
			out = append(out, a)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		bi, bj := out[i].DrawRect().Bottom(), out[j].DrawRect().Bottom()
		if bi != bj {
			return bi < bj
		}
		return out[i].ID() < out[j].ID()
	})
	return out
}

// Draw emits the tiles and actors intersecting view in layer order, later
// layers on top. Tile layers facing down are emitted after everything else;
// layers facing both ways are emitted in place and again at the end.
func (m *Map) Draw(s Surface, view common.Rect) {
	var overhead []*TileLayer
	for _, l := range m.layers {
		if !l.Visible() {
			continue
		}
		switch l := l.(type) {
		case *TileLayer:
			if l.Facing != FacingUp {
				overhead = append(overhead, l)
			}
			if l.Facing != FacingDown {
				m.VisibleTiles(l, view, s.DrawTile)
			}
		case *ObjectLayer:
			for _, a := range m.VisibleActors(l, view) {
				s.DrawActor(a, a.DrawRect())
			}
		}
	}
	for _, l := range overhead {
		m.VisibleTiles(l, view, s.DrawTile)
	}
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
