package tilemap

import (
	"fmt"
	"sort"

	"github.com/milk9111/tilerpg/common"
)

// Tiled stores flip and rotation flags in the high bits of a GID.
const (
	flipHorizontal uint32 = 0x80000000
	flipVertical   uint32 = 0x40000000
	flipDiagonal   uint32 = 0x20000000
	rotateHex      uint32 = 0x10000000

	gidMask = ^(flipHorizontal | flipVertical | flipDiagonal | rotateHex)
)

// CleanGID strips the flip bits from a raw GID.
func CleanGID(raw uint32) int {
	return int(raw & gidMask)
}

// Tileset maps the global IDs [FirstGID, FirstGID+TileCount) onto regions of
// one image.
type Tileset struct {
	Name       string
	FirstGID   int
	Image      string
	TileWidth  int
	TileHeight int
	Columns    int
	// TileCount of 0 means the range runs up to the next tileset.
	TileCount int
	Margin    int
	Spacing   int
}

// Contains reports whether gid falls inside the tileset's own range.
func (t *Tileset) Contains(gid int) bool {
	if gid < t.FirstGID {
		return false
	}
	return t.TileCount <= 0 || gid < t.FirstGID+t.TileCount
}

// ReadTile returns the source rectangle of gid in the tileset image. Tile
// local index i sits at column i % Columns, row i / Columns.
func (t *Tileset) ReadTile(gid int) common.Rect {
	local := gid - t.FirstGID
	cols := t.Columns
	if cols <= 0 {
		cols = 1
	}
	col, row := local%cols, local/cols
	x := t.Margin + col*(t.TileWidth+t.Spacing)
	y := t.Margin + row*(t.TileHeight+t.Spacing)
	return common.R(float64(x), float64(y), float64(t.TileWidth), float64(t.TileHeight))
}

// TilesetIndex resolves global tile IDs to their tileset by first-GID range.
type TilesetIndex struct {
	sets []*Tileset
}

// Add inserts ts keeping the index ordered by FirstGID. Overlapping ranges
// are rejected.
func (ix *TilesetIndex) Add(ts *Tileset) error {
	if ts == nil {
		return fmt.Errorf("tilemap: nil tileset")
	}
	if ts.FirstGID <= 0 {
		return fmt.Errorf("tilemap: tileset %q: firstgid must be positive, got %d", ts.Name, ts.FirstGID)
	}
	i := sort.Search(len(ix.sets), func(i int) bool { return ix.sets[i].FirstGID >= ts.FirstGID })
	if i < len(ix.sets) && ix.sets[i].FirstGID == ts.FirstGID {
		return fmt.Errorf("tilemap: tilesets %q and %q share firstgid %d", ix.sets[i].Name, ts.Name, ts.FirstGID)
	}
	if i > 0 && ix.sets[i-1].TileCount > 0 && ix.sets[i-1].Contains(ts.FirstGID) {
		return fmt.Errorf("tilemap: tileset %q overlaps %q", ts.Name, ix.sets[i-1].Name)
	}
	if i < len(ix.sets) && ts.TileCount > 0 && ts.Contains(ix.sets[i].FirstGID) {
		return fmt.Errorf("tilemap: tileset %q overlaps %q", ts.Name, ix.sets[i].Name)
	}
	ix.sets = append(ix.sets, nil)
	copy(ix.sets[i+1:], ix.sets[i:])
	ix.sets[i] = ts
	return nil
}

// Resolve returns the tileset owning gid. gid 0 and IDs outside every range
// yield ErrTileOutOfRange.
func (ix *TilesetIndex) Resolve(gid int) (*Tileset, error) {
	if gid <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrTileOutOfRange, gid)
	}
	i := sort.Search(len(ix.sets), func(i int) bool { return ix.sets[i].FirstGID > gid }) - 1
	if i < 0 || !ix.sets[i].Contains(gid) {
		return nil, fmt.Errorf("%w: %d", ErrTileOutOfRange, gid)
	}
	return ix.sets[i], nil
}

// ReadTile resolves gid and returns its tileset and source rectangle.
func (ix *TilesetIndex) ReadTile(gid int) (*Tileset, common.Rect, error) {
	ts, err := ix.Resolve(gid)
	if err != nil {
		return nil, common.Rect{}, err
	}
	return ts, ts.ReadTile(gid), nil
}

func (ix *TilesetIndex) Tilesets() []*Tileset {
	return ix.sets
}

func (ix *TilesetIndex) Len() int {
	return len(ix.sets)
}
