package script

import (
	"errors"
	"testing"
	"testing/fstest"

	"github.com/milk9111/tilerpg/actor"
	"github.com/milk9111/tilerpg/common"
	"github.com/milk9111/tilerpg/tilemap"
)

const greeter = `
interact := func(engine, state, npc, player) {
	count := state.count
	if is_undefined(count) {
		count = 0
	}
	count += 1
	state.count = count
	engine.say("hello " + string(count))
	engine.face("left")
}

routine := func(engine, state, npc) {
	if is_undefined(state.started) {
		state.started = true
		engine.move_by(32, 0, 60)
	}
}
`

func townMap(t *testing.T) (*tilemap.Map, *actor.Actor, *actor.Actor) {
	t.Helper()
	m := tilemap.New("town", 10, 10, 32, 32)
	if err := m.AddLayer(tilemap.NewObjectLayer("objects")); err != nil {
		t.Fatalf("AddLayer: %v", err)
	}
	npc := actor.New(1, actor.KindNPC,
		actor.WithBehavior(&actor.NPC{}),
		actor.WithRole(actor.RoleNPC),
		actor.WithMobility(actor.MovableWhileMoving),
		actor.WithPosition(common.V(64, 64)),
		actor.WithSize(32, 32),
	)
	player := actor.New(2, actor.KindPlayer,
		actor.WithRole(actor.RolePlayer),
		actor.WithPosition(common.V(64, 128)),
		actor.WithSize(32, 32),
	)
	for _, a := range []*actor.Actor{npc, player} {
		if err := m.AddActor(a, "objects"); err != nil {
			t.Fatalf("AddActor(%d): %v", a.ID(), err)
		}
	}
	return m, npc, player
}

func TestTengoInteraction(t *testing.T) {
	m, npc, player := townMap(t)
	c, err := NewTengoController("town", []byte(greeter))
	if err != nil {
		t.Fatalf("NewTengoController: %v", err)
	}
	if err := c.Attach(m); err != nil {
		t.Fatalf("Attach: %v", err)
	}

	hooks := npc.Behavior().(*actor.NPC)
	if hooks.Interaction == nil || hooks.Routine == nil {
		t.Fatalf("hooks not installed: %+v", hooks)
	}
	hooks.Interaction(npc, player)
	hooks.Interaction(npc, player)

	dialogs := m.TakeDialogs()
	want := []tilemap.Dialog{{Speaker: 1, Text: "hello 1"}, {Speaker: 1, Text: "hello 2"}}
	if len(dialogs) != len(want) {
		t.Fatalf("dialogs = %+v, want %+v", dialogs, want)
	}
	for i := range want {
		if dialogs[i] != want[i] {
			t.Fatalf("dialog %d = %+v, want %+v", i, dialogs[i], want[i])
		}
	}
	if npc.Look() != actor.DirLeft {
		t.Fatalf("look = %v, want left", npc.Look())
	}
}

func TestTengoRoutineRunsEachTick(t *testing.T) {
	m, npc, _ := townMap(t)
	c, err := NewTengoController("town", []byte(greeter))
	if err != nil {
		t.Fatalf("NewTengoController: %v", err)
	}
	if err := c.Attach(m); err != nil {
		t.Fatalf("Attach: %v", err)
	}

	m.Update()
	if !npc.IsMoving() {
		t.Fatal("routine did not start a move")
	}
	if got := npc.Target(); got != common.V(96, 64) {
		t.Fatalf("target = %v, want (96,64)", got)
	}
}

func TestTengoStateIsPerNPC(t *testing.T) {
	m, npc, player := townMap(t)
	other := actor.New(3, actor.KindNPC, actor.WithBehavior(&actor.NPC{}), actor.WithRole(actor.RoleNPC))
	if err := m.AddActor(other, "objects"); err != nil {
		t.Fatalf("AddActor: %v", err)
	}
	c, err := NewTengoController("town", []byte(greeter))
	if err != nil {
		t.Fatalf("NewTengoController: %v", err)
	}
	if err := c.Attach(m); err != nil {
		t.Fatalf("Attach: %v", err)
	}

	npc.Behavior().(*actor.NPC).Interaction(npc, player)
	other.Behavior().(*actor.NPC).Interaction(other, player)

	dialogs := m.TakeDialogs()
	if len(dialogs) != 2 || dialogs[0].Text != "hello 1" || dialogs[1].Text != "hello 1" {
		t.Fatalf("dialogs = %+v", dialogs)
	}
	if dialogs[1].Speaker != 3 {
		t.Fatalf("speaker = %d, want 3", dialogs[1].Speaker)
	}
}

func TestTengoBrokenRoutineIsDisabled(t *testing.T) {
	m, npc, _ := townMap(t)
	c, err := NewTengoController("town", []byte(`routine := func(engine, state, npc) { state.n = npc / 0 }`))
	if err != nil {
		t.Fatalf("NewTengoController: %v", err)
	}
	if err := c.Attach(m); err != nil {
		t.Fatalf("Attach: %v", err)
	}
	hooks := npc.Behavior().(*actor.NPC)
	if hooks.Interaction != nil {
		t.Fatal("interaction installed without an interact hook")
	}
	m.Update()
	if hooks.Routine != nil {
		t.Fatal("failing routine still installed")
	}
}

func TestNewTengoControllerErrors(t *testing.T) {
	tests := []struct {
		name  string
		src   string
		noHks bool
	}{
		{name: "syntax", src: `interact := func(`},
		{name: "no hooks", src: `x := 1`, noHks: true},
		{name: "hook not callable", src: `interact := 5`, noHks: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewTengoController("bad", []byte(tt.src))
			if err == nil {
				t.Fatal("expected an error")
			}
			if got := errors.Is(err, ErrNoHooks); got != tt.noHks {
				t.Fatalf("errors.Is(ErrNoHooks) = %v for %v", got, err)
			}
		})
	}
}

func TestRegistryAttach(t *testing.T) {
	m, _, _ := townMap(t)
	reg := NewRegistry()
	var order []string
	reg.Register("town", ControllerFunc(func(*tilemap.Map) error {
		order = append(order, "first")
		return nil
	}))
	reg.Register("town", ControllerFunc(func(*tilemap.Map) error {
		order = append(order, "second")
		return nil
	}))
	reg.Register("cave", ControllerFunc(func(*tilemap.Map) error {
		order = append(order, "cave")
		return nil
	}))

	if err := reg.Attach(m); err != nil {
		t.Fatalf("Attach: %v", err)
	}
	if len(order) != 2 || order[0] != "first" || order[1] != "second" {
		t.Fatalf("order = %v", order)
	}

	boom := errors.New("boom")
	reg.Set("town", ControllerFunc(func(*tilemap.Map) error { return boom }))
	if err := reg.Attach(m); !errors.Is(err, boom) {
		t.Fatalf("Attach error = %v, want boom", err)
	}

	reg.Set("town")
	if names := reg.Names(); len(names) != 1 || names[0] != "cave" {
		t.Fatalf("Names = %v", names)
	}
}

func TestLoadScripts(t *testing.T) {
	fsys := fstest.MapFS{
		"scripts/town.tengo": {Data: []byte(greeter)},
		"scripts/notes.txt":  {Data: []byte("ignored")},
		"scripts/cave.tengo": {Data: []byte(`interact := func(engine, state, npc, player) { engine.say("echo") }`)},
		"elsewhere/x.tengo":  {Data: []byte(`interact := 1`)},
	}
	reg := NewRegistry()
	if err := LoadScripts(reg, fsys, "scripts"); err != nil {
		t.Fatalf("LoadScripts: %v", err)
	}
	names := reg.Names()
	if len(names) != 2 || names[0] != "cave" || names[1] != "town" {
		t.Fatalf("Names = %v", names)
	}

	fsys["scripts/broken.tengo"] = &fstest.MapFile{Data: []byte(`x := 1`)}
	if err := LoadScripts(NewRegistry(), fsys, "scripts"); !errors.Is(err, ErrNoHooks) {
		t.Fatalf("LoadScripts error = %v, want ErrNoHooks", err)
	}
}
