package tilemap

import (
	"errors"
	"slices"
	"testing"
	"testing/fstest"

	"github.com/milk9111/tilerpg/actor"
)

func TestLoadBuildsLayersAndActors(t *testing.T) {
	doc := mapJSON(terrainTileset,
		tileLayerJSON("ground", 10, 10, "1,2,0,0,0,0,0,0,0,0,"+zeros(90), prop("facing", "both")),
		objectLayerJSON("objects",
			objectJSON(1, "static", 64, 64, 0, 0, prop("graphic", "barrel"), prop("animation_mode", "always")),
			objectJSON(2, "signpost", 96, 64, 32, 32, prop("text", "Welcome")),
			objectJSON(3, "passage", 0, 0, 32, 32, prop("direction", "up,left"), prop("target", "upper")),
			objectJSON(4, "npc", 128, 128, 32, 48, prop("look", "left")),
		),
		objectLayerJSON("upper"),
	)
	m := loadFixture(t, doc)

	if m.Name() != "maps/test" {
		t.Fatalf("name = %q", m.Name())
	}
	if len(m.Layers()) != 3 || len(m.TileLayers()) != 1 || len(m.ObjectLayers()) != 2 {
		t.Fatalf("layers = %d", len(m.Layers()))
	}
	ground := m.TileLayers()[0]
	if ground.Facing != FacingBoth || ground.At(1, 0) != 2 {
		t.Fatalf("ground facing=%v at(1,0)=%d", ground.Facing, ground.At(1, 0))
	}

	barrel, ok := m.FindActor(1)
	if !ok || barrel.Kind() != actor.KindStatic || barrel.AnimationMode() != actor.AnimateAlways {
		t.Fatalf("barrel = %v", barrel)
	}
	if barrel.Size.X != 32 || barrel.Size.Y != 32 {
		t.Fatalf("point object should take the tile size, got %v", barrel.Size)
	}
	sign, _ := m.FindActor(2)
	if s, ok := sign.Behavior().(*actor.Signpost); !ok || s.Text != "Welcome" {
		t.Fatalf("signpost behavior = %#v", sign.Behavior())
	}
	gate, _ := m.FindActor(3)
	if p, ok := gate.Behavior().(*actor.Passage); !ok || p.Directions != actor.MaskUp|actor.MaskLeft || p.Target != "upper" {
		t.Fatalf("passage behavior = %#v", gate.Behavior())
	}
	npc, _ := m.FindActor(4)
	if npc.Role() != actor.RoleNPC || npc.Look() != actor.DirLeft || npc.Movable() {
		t.Fatalf("npc role=%v look=%v movable=%v", npc.Role(), npc.Look(), npc.Movable())
	}
	if m.NextID() != 5 {
		t.Fatalf("next id = %d", m.NextID())
	}
}

func TestLoadRejectsBadContent(t *testing.T) {
	upper := objectLayerJSON("upper")
	cases := []struct {
		name string
		doc  string
		want error
	}{
		{
			"duplicate_id_across_layers",
			mapJSON(terrainTileset,
				objectLayerJSON("objects", objectJSON(1, "static", 0, 0, 32, 32)),
				objectLayerJSON("upper", objectJSON(1, "collbox", 64, 0, 32, 32))),
			ErrDuplicateActorID,
		},
		{
			"duplicate_id_same_layer",
			mapJSON(terrainTileset,
				objectLayerJSON("objects", objectJSON(5, "static", 0, 0, 32, 32), objectJSON(5, "static", 64, 0, 32, 32))),
			ErrDuplicateActorID,
		},
		{
			"unknown_type",
			mapJSON(terrainTileset, objectLayerJSON("objects", objectJSON(1, "dragon", 0, 0, 32, 32))),
			ErrUnknownActorType,
		},
		{
			"tile_outside_tilesets",
			mapJSON(terrainTileset, tileLayerJSON("ground", 10, 10, "99,"+zeros(99), "")),
			ErrTileOutOfRange,
		},
		{
			"bad_layer_size",
			mapJSON(terrainTileset, tileLayerJSON("ground", 10, 10, zeros(42), "")),
			ErrBadLayerSize,
		},
		{
			"passage_to_missing_layer",
			mapJSON(terrainTileset, objectLayerJSON("objects",
				objectJSON(1, "passage", 0, 0, 32, 32, prop("direction", "up"), prop("target", "attic")))),
			ErrUnknownLayer,
		},
		{
			"teleport_to_missing_entry",
			mapJSON(terrainTileset, upper, objectLayerJSON("objects",
				objectJSON(1, "teleport", 0, 0, 32, 32, prop("entry", 7)))),
			ErrUnknownEntry,
		},
		{
			"teleport_to_non_entry",
			mapJSON(terrainTileset, objectLayerJSON("objects",
				objectJSON(1, "teleport", 0, 0, 32, 32, prop("entry", 2)),
				objectJSON(2, "static", 64, 0, 32, 32))),
			ErrUnknownEntry,
		},
		{
			"bad_direction",
			mapJSON(terrainTileset, objectLayerJSON("objects",
				objectJSON(1, "entry", 0, 0, 32, 32, prop("look", "sideways")))),
			actor.ErrBadDirection,
		},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, err := loadFixtureErr(c.doc)
			if !errors.Is(err, c.want) {
				t.Fatalf("err = %v, want %v", err, c.want)
			}
		})
	}
}

func TestLoadLargeActorIDs(t *testing.T) {
	m := loadFixture(t, mapJSON(terrainTileset, objectLayerJSON("objects",
		objectJSON(50000000, "static", 0, 0, 32, 32),
		objectJSON(2000000000, "signpost", 64, 0, 32, 32, prop("text", "far")),
	)))
	for _, id := range []actor.ID{50000000, 2000000000} {
		if a, ok := m.FindActor(id); !ok || a.ID() != id {
			t.Fatalf("FindActor(%d) = %v, %v", id, a, ok)
		}
	}
	if _, ok := m.FindActor(3); ok {
		t.Fatalf("found an actor that was never placed")
	}
	if got := m.NextID(); got != 2000000001 {
		t.Fatalf("NextID = %d", got)
	}
}

func TestLoadMissingMap(t *testing.T) {
	_, err := NewLoader(fstest.MapFS{}).Load("nowhere")
	if err == nil {
		t.Fatalf("expected error")
	}
}

func TestLoadExternalTilesetAndBase64(t *testing.T) {
	// Two tiles, GIDs 1 and 0x80000002 (flipped 2), little endian.
	data := "AQAAAAIAAIA="
	doc := `{"width":2,"height":1,"tilewidth":32,"tileheight":32,
		"tilesets":[{"firstgid":1,"source":"../tiles/terrain.tsj"}],
		"layers":[{"id":1,"name":"ground","type":"tilelayer","width":2,"height":1,"encoding":"base64","data":"` + data + `"}]}`
	fsys := fstest.MapFS{
		"maps/field.tmj":    &fstest.MapFile{Data: []byte(doc)},
		"tiles/terrain.tsj":  &fstest.MapFile{Data: []byte(`{"name":"terrain","image":"terrain.png","tilewidth":32,"tileheight":32,"columns":4,"tilecount":16}`)},
	}
	m, err := NewLoader(fsys).Load("maps/field")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	ground := m.TileLayers()[0]
	if ground.Tiles[0] != 1 || ground.Tiles[1] != 2 {
		t.Fatalf("tiles = %v", ground.Tiles)
	}
	ts := m.Tilesets().Tilesets()[0]
	if ts.FirstGID != 1 || ts.Image != "tiles/terrain.png" {
		t.Fatalf("tileset = %+v", ts)
	}
}

func TestCheckLinks(t *testing.T) {
	town := mapJSON(terrainTileset, objectLayerJSON("objects",
		objectJSON(1, "teleport", 0, 0, 32, 32, prop("map", "maps/cave"), prop("entry", 3))))
	caveOK := mapJSON(terrainTileset, objectLayerJSON("objects", objectJSON(3, "entry", 0, 0, 32, 32)))
	caveBad := mapJSON(terrainTileset, objectLayerJSON("objects", objectJSON(4, "entry", 0, 0, 32, 32)))

	for _, c := range []struct {
		cave string
		ok   bool
	}{{caveOK, true}, {caveBad, false}} {
		l := NewLoader(fstest.MapFS{
			"maps/town.json": &fstest.MapFile{Data: []byte(town)},
			"maps/cave.json": &fstest.MapFile{Data: []byte(c.cave)},
		})
		m, err := l.Load("maps/town")
		if err != nil {
			t.Fatalf("load town: %v", err)
		}
		err = l.CheckLinks(m)
		if (err == nil) != c.ok {
			t.Fatalf("CheckLinks err = %v, want ok=%v", err, c.ok)
		}
		if !c.ok && !errors.Is(err, ErrUnknownEntry) {
			t.Fatalf("err = %v, want ErrUnknownEntry", err)
		}
	}
}

func TestRegisterKind(t *testing.T) {
	if !slices.Contains(Kinds(), "test_crate") {
		RegisterKind("test_crate", func(obj Object, ctx *BuildContext) (*actor.Actor, error) {
			return actor.New(obj.ID, actor.Kind("test_crate"), actor.WithSize(16, 16)), nil
		})
	}
	m := loadFixture(t, mapJSON(terrainTileset, objectLayerJSON("objects", objectJSON(9, "test_crate", 0, 0, 0, 0))))
	crate, ok := m.FindActor(9)
	if !ok || crate.Kind() != "test_crate" {
		t.Fatalf("crate = %v", crate)
	}

	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic on duplicate registration")
		}
	}()
	RegisterKind("static", buildStatic)
}
