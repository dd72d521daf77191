package levels

import (
	"testing"
	"testing/fstest"

	"github.com/milk9111/tilerpg/actor"
	"github.com/milk9111/tilerpg/prefabs"
	"github.com/milk9111/tilerpg/script"
	"github.com/milk9111/tilerpg/tilemap"
)

func TestEmbeddedMapsLoadAndLink(t *testing.T) {
	catalog, err := prefabs.LoadCatalog("sprites.yaml")
	if err != nil {
		t.Fatalf("LoadCatalog: %v", err)
	}
	fsys := FS("")
	names, err := Names(fsys)
	if err != nil {
		t.Fatalf("Names: %v", err)
	}
	if len(names) != 2 || names[0] != "cave" || names[1] != "town" {
		t.Fatalf("Names = %v", names)
	}

	loader := tilemap.NewLoader(fsys, tilemap.WithSprites(catalog))
	for _, name := range names {
		t.Run(name, func(t *testing.T) {
			m, err := loader.Load(name)
			if err != nil {
				t.Fatalf("Load: %v", err)
			}
			if err := loader.CheckLinks(m); err != nil {
				t.Fatalf("CheckLinks: %v", err)
			}
			for _, a := range m.Actors() {
				if g := a.Sprite.Graphic; g != "" && a.Sprite.FrameWidth == 0 {
					t.Fatalf("actor %d graphic %q has no frame size", a.ID(), g)
				}
			}
		})
	}
}

func TestTownHasAStart(t *testing.T) {
	m, err := tilemap.NewLoader(FS("")).Load("town")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	var starts int
	for _, a := range m.Actors() {
		if a.Kind() == actor.KindStartPosition {
			starts++
		}
	}
	if starts != 1 {
		t.Fatalf("town has %d start positions", starts)
	}
	if ts := m.Tilesets().Tilesets(); len(ts) != 1 || ts[0].Image != "tiles/terrain.png" {
		t.Fatalf("tilesets = %+v", ts)
	}
}

func TestScriptsCompileForExistingMaps(t *testing.T) {
	reg := script.NewRegistry()
	if err := script.LoadScripts(reg, LevelsFS, ScriptDir); err != nil {
		t.Fatalf("LoadScripts: %v", err)
	}
	loader := tilemap.NewLoader(LevelsFS)
	for _, name := range reg.Names() {
		m, err := loader.Load(name)
		if err != nil {
			t.Fatalf("script %s has no map: %v", name, err)
		}
		if err := reg.Attach(m); err != nil {
			t.Fatalf("Attach(%s): %v", name, err)
		}
		for i := 0; i < 120; i++ {
			m.Update()
		}
	}
}

func TestFSOverlay(t *testing.T) {
	dir := t.TempDir()
	fsys := FS(dir)
	names, err := Names(fsys)
	if err != nil {
		t.Fatalf("Names: %v", err)
	}
	if len(names) != 2 {
		t.Fatalf("Names over an empty dir = %v", names)
	}
	names, err = Names(fstest.MapFS{"a.tmj": {}, "b.txt": {}, "c.json": {}})
	if err != nil {
		t.Fatalf("Names: %v", err)
	}
	if len(names) != 2 || names[0] != "a" || names[1] != "c" {
		t.Fatalf("Names = %v", names)
	}
}
