package main

import (
	"bytes"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/milk9111/tilerpg/actor"
	"github.com/milk9111/tilerpg/common"
	"github.com/milk9111/tilerpg/config"
	"github.com/milk9111/tilerpg/levels"
)

const fixtureTown = `{"width":10,"height":10,"tilewidth":32,"tileheight":32,"tilesets":[],
"layers":[{"id":1,"name":"objects","type":"objectgroup","objects":[
 {"id":1,"type":"startpos","x":64,"y":64,"width":32,"height":32,"properties":[{"name":"look","type":"string","value":"right"}]},
 {"id":2,"type":"teleport","x":64,"y":128,"width":32,"height":32,"properties":[
  {"name":"map","type":"string","value":"cave"},{"name":"entry","type":"int","value":1}]}
]}]}`

const fixtureCave = `{"width":10,"height":10,"tilewidth":32,"tileheight":32,"tilesets":[],
"layers":[{"id":1,"name":"objects","type":"objectgroup","objects":[
 {"id":1,"type":"entry","x":32,"y":32,"width":32,"height":32,"properties":[{"name":"look","type":"string","value":"down"}]}
]}]}`

const fixtureBroken = `{"width":10,"height":10,"tilewidth":32,"tileheight":32,"tilesets":[],
"layers":[{"id":1,"name":"objects","type":"objectgroup","objects":[
 {"id":1,"type":"teleport","x":0,"y":0,"width":32,"height":32,"properties":[
  {"name":"map","type":"string","value":"nowhere"},{"name":"entry","type":"int","value":1}]}
]}]}`

func fixtureEnv(t *testing.T, c config.Config, files map[string]string) *env {
	t.Helper()
	fsys := fstest.MapFS{}
	for name, data := range files {
		fsys[name] = &fstest.MapFile{Data: []byte(data)}
	}
	e, err := newEnv(c, fsys)
	if err != nil {
		t.Fatalf("newEnv: %v", err)
	}
	return e
}

func TestValidateEmbeddedLevels(t *testing.T) {
	e, err := newEnv(config.Default(), levels.LevelsFS)
	if err != nil {
		t.Fatalf("newEnv: %v", err)
	}
	var out bytes.Buffer
	if err := validateMaps(&out, e, nil); err != nil {
		t.Fatalf("validateMaps: %v\n%s", err, out.String())
	}
	for _, name := range []string{"ok   cave", "ok   town"} {
		if !strings.Contains(out.String(), name) {
			t.Fatalf("output missing %q:\n%s", name, out.String())
		}
	}
}

func TestValidateReportsBrokenLinks(t *testing.T) {
	e := fixtureEnv(t, config.Default(), map[string]string{
		"town.json":   fixtureTown,
		"cave.json":   fixtureCave,
		"broken.json": fixtureBroken,
	})
	var out bytes.Buffer
	err := validateMaps(&out, e, nil)
	if err == nil || !strings.Contains(err.Error(), "1 of 3") {
		t.Fatalf("validateMaps = %v, want one failure", err)
	}
	if !strings.Contains(out.String(), "FAIL broken") || !strings.Contains(out.String(), "ok   town") {
		t.Fatalf("unexpected report:\n%s", out.String())
	}

	out.Reset()
	if err := validateMaps(&out, e, []string{"missing"}); err == nil {
		t.Fatal("expected an error for a missing map")
	}
}

func TestSimulateFollowsTeleport(t *testing.T) {
	for _, backend := range []string{config.BackendAABB, config.BackendChipmunk} {
		t.Run(backend, func(t *testing.T) {
			c := config.Default()
			c.CollisionBackend = backend
			e := fixtureEnv(t, c, map[string]string{
				"town.json": fixtureTown,
				"cave.json": fixtureCave,
			})

			var out bytes.Buffer
			s, err := simulate(&out, e, "town", 120, []actor.Direction{actor.DirDown, actor.DirDown})
			if err != nil {
				t.Fatalf("simulate: %v", err)
			}
			if s.Map != "cave" || s.Changes != 1 || s.Ticks != 120 {
				t.Fatalf("summary = %+v\n%s", s, out.String())
			}
			if s.Position != common.V(32, 32) {
				t.Fatalf("player at %v, want the cave entry", s.Position)
			}
			if !strings.Contains(out.String(), "map cave entry 1") {
				t.Fatalf("report missing the map change:\n%s", out.String())
			}
		})
	}
}

func TestParseWalk(t *testing.T) {
	tests := []struct {
		in      string
		want    []actor.Direction
		wantErr bool
	}{
		{"", nil, false},
		{"down, left ,UP", []actor.Direction{actor.DirDown, actor.DirLeft, actor.DirUp}, false},
		{"down,,right", []actor.Direction{actor.DirDown, actor.DirRight}, false},
		{"north", nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parseWalk(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parseWalk(%q) err = %v", tt.in, err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("parseWalk(%q) = %v, want %v", tt.in, got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Fatalf("parseWalk(%q) = %v, want %v", tt.in, got, tt.want)
				}
			}
		})
	}
}
