package tilemap

import (
	"errors"
	"testing"

	"github.com/milk9111/tilerpg/common"
)

func testIndex(t *testing.T) *TilesetIndex {
	t.Helper()
	var ix TilesetIndex
	sets := []*Tileset{
		{Name: "objects", FirstGID: 17, TileWidth: 32, TileHeight: 64, Columns: 2, TileCount: 4},
		{Name: "terrain", FirstGID: 1, TileWidth: 32, TileHeight: 32, Columns: 4, TileCount: 16},
		{Name: "spaced", FirstGID: 21, TileWidth: 16, TileHeight: 16, Columns: 3, TileCount: 9, Margin: 1, Spacing: 2},
	}
	for _, ts := range sets {
		if err := ix.Add(ts); err != nil {
			t.Fatalf("add %s: %v", ts.Name, err)
		}
	}
	return &ix
}

func TestTilesetIndexResolve(t *testing.T) {
	ix := testIndex(t)
	cases := []struct {
		gid  int
		want string
		src  common.Rect
	}{
		{1, "terrain", common.R(0, 0, 32, 32)},
		{6, "terrain", common.R(32, 32, 32, 32)},
		{16, "terrain", common.R(96, 96, 32, 32)},
		{17, "objects", common.R(0, 0, 32, 64)},
		{20, "objects", common.R(32, 64, 32, 64)},
		{25, "spaced", common.R(19, 19, 16, 16)},
	}
	for _, c := range cases {
		ts, src, err := ix.ReadTile(c.gid)
		if err != nil {
			t.Fatalf("gid %d: %v", c.gid, err)
		}
		if ts.Name != c.want || src != c.src {
			t.Fatalf("gid %d: got %s %v, want %s %v", c.gid, ts.Name, src, c.want, c.src)
		}
	}
}

func TestTilesetIndexOutOfRange(t *testing.T) {
	ix := testIndex(t)
	for _, gid := range []int{0, -3, 30, 1000} {
		if _, err := ix.Resolve(gid); !errors.Is(err, ErrTileOutOfRange) {
			t.Fatalf("gid %d: err = %v", gid, err)
		}
	}
}

func TestTilesetIndexRejectsOverlap(t *testing.T) {
	ix := testIndex(t)
	cases := []*Tileset{
		{Name: "same_first", FirstGID: 17, TileCount: 1},
		{Name: "inside_terrain", FirstGID: 10, TileCount: 2},
		{Name: "runs_into_objects", FirstGID: 15, TileCount: 4},
		{Name: "zero_first", FirstGID: 0, TileCount: 4},
	}
	for _, ts := range cases {
		if err := ix.Add(ts); err == nil {
			t.Fatalf("%s: expected overlap error", ts.Name)
		}
	}
}

func TestCleanGID(t *testing.T) {
	cases := []struct {
		raw  uint32
		want int
	}{
		{5, 5},
		{0x80000005, 5},
		{0x40000005 | 0x20000000, 5},
		{0xF0000000 | 12, 12},
	}
	for _, c := range cases {
		if got := CleanGID(c.raw); got != c.want {
			t.Fatalf("CleanGID(%#x) = %d, want %d", c.raw, got, c.want)
		}
	}
}
