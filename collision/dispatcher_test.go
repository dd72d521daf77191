package collision

import (
	"testing"

	"github.com/milk9111/tilerpg/actor"
	"github.com/milk9111/tilerpg/common"
)

type stubStage struct {
	transfers map[actor.ID]string
}

func newStubStage() *stubStage {
	return &stubStage{transfers: map[actor.ID]string{}}
}

func (s *stubStage) FindActor(actor.ID) (*actor.Actor, bool) { return nil, false }
func (s *stubStage) Protagonists() []*actor.Actor            { return nil }
func (s *stubStage) RequestMapChange(actor.MapChange)       {}
func (s *stubStage) Say(*actor.Actor, string)               {}
func (s *stubStage) Cue(string)                             {}

func (s *stubStage) ChangeActorLayer(a *actor.Actor, layer string) error {
	s.transfers[a.ID()] = layer
	return nil
}

type recorder struct {
	events []actor.Event
}

func (r *recorder) HandleEvent(self *actor.Actor, st actor.Stage, ev actor.Event) {
	r.events = append(r.events, ev)
	self.AntiCollide(ev)
}

func TestMovableAgainstFixedBox(t *testing.T) {
	cases := []struct {
		name string
		pos  common.Vec2
	}{
		{"same_origin", common.V(0, 0)},
		{"from_left", common.V(-20, 4)},
		{"from_below", common.V(8, 26)},
		{"from_right", common.V(30, -2)},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			hero := actor.New(1, actor.KindStatic, actor.WithPosition(c.pos), actor.WithSize(32, 32))
			box := actor.New(2, actor.KindCollisionBox, actor.WithBehavior(&actor.CollisionBox{}),
				actor.WithMobility(actor.Fixed), actor.WithSize(32, 32))

			d := NewDispatcher(NewGrid(16))
			if n := d.Dispatch(newStubStage(), []*actor.Actor{hero, box}); n != 1 {
				t.Fatalf("pairs = %d, want 1", n)
			}
			if box.Position != (common.Vec2{}) {
				t.Fatalf("box moved to %v", box.Position)
			}
			if hero.CollisionBox().Intersects(box.CollisionBox()) {
				t.Fatalf("still overlapping: %v vs %v", hero.CollisionBox(), box.CollisionBox())
			}
		})
	}
}

func TestCoincidentBoxesPushLowerIDNegative(t *testing.T) {
	hero := actor.New(1, actor.KindStatic, actor.WithSize(32, 32))
	box := actor.New(2, actor.KindCollisionBox, actor.WithMobility(actor.Fixed), actor.WithSize(32, 32))
	NewDispatcher(nil).Dispatch(newStubStage(), []*actor.Actor{box, hero})
	if hero.Position != common.V(-32, 0) {
		t.Fatalf("hero at %v, want (-32,0)", hero.Position)
	}
}

func TestTwoMovableActorsSplitCorrection(t *testing.T) {
	for _, order := range [][2]int{{0, 1}, {1, 0}} {
		a := actor.New(1, actor.KindStatic, actor.WithPosition(common.V(0, 0)), actor.WithSize(32, 32))
		b := actor.New(2, actor.KindStatic, actor.WithPosition(common.V(24, 0)), actor.WithSize(32, 32))
		both := []*actor.Actor{a, b}
		actors := []*actor.Actor{both[order[0]], both[order[1]]}

		NewDispatcher(BruteForce{}).Dispatch(newStubStage(), actors)
		if a.Position != common.V(-4, 0) || b.Position != common.V(28, 0) {
			t.Fatalf("order %v: a=%v b=%v", order, a.Position, b.Position)
		}
	}
}

func TestMovingActorTakesCorrectionFromIdleProp(t *testing.T) {
	for _, ids := range [][2]actor.ID{{1, 2}, {2, 1}} {
		barrel := actor.New(ids[0], actor.KindStatic, actor.WithSize(32, 32))
		hero := actor.New(ids[1], actor.KindPlayer, actor.WithRole(actor.RolePlayer),
			actor.WithPosition(common.V(0, 28)), actor.WithSize(32, 32))
		hero.MoveToSpeed(common.V(0, -100), 160)

		NewDispatcher(BruteForce{}).Dispatch(newStubStage(), []*actor.Actor{hero, barrel})
		if barrel.Position != (common.Vec2{}) {
			t.Fatalf("ids %v: barrel pushed to %v", ids, barrel.Position)
		}
		if hero.Position != common.V(0, 32) || hero.IsMoving() {
			t.Fatalf("ids %v: hero at %v moving=%v", ids, hero.Position, hero.IsMoving())
		}
	}
}

func TestEventsCarrySnapshot(t *testing.T) {
	ra, rb := &recorder{}, &recorder{}
	a := actor.New(1, actor.KindStatic, actor.WithBehavior(ra), actor.WithSize(32, 32))
	b := actor.New(2, actor.KindStatic, actor.WithBehavior(rb), actor.WithPosition(common.V(0, 30)), actor.WithSize(32, 32))

	NewDispatcher(nil).Dispatch(newStubStage(), []*actor.Actor{a, b})
	if len(ra.events) != 1 || len(rb.events) != 1 {
		t.Fatalf("events a=%d b=%d", len(ra.events), len(rb.events))
	}
	want := common.R(0, 30, 32, 2)
	if ra.events[0].Intersection != want || rb.events[0].Intersection != want {
		t.Fatalf("intersection = %v / %v", ra.events[0].Intersection, rb.events[0].Intersection)
	}
	if ra.events[0].Other != b || rb.events[0].Other != a {
		t.Fatalf("wrong other actor")
	}
	if ra.events[0].Separation != common.V(0, -1) || rb.events[0].Separation != common.V(0, 1) {
		t.Fatalf("separations %v %v", ra.events[0].Separation, rb.events[0].Separation)
	}
}

func TestSeparationDeliveredOnce(t *testing.T) {
	r := &recorder{}
	a := actor.New(1, actor.KindStatic, actor.WithBehavior(r), actor.WithSize(32, 32), actor.Passable())
	b := actor.New(2, actor.KindStatic, actor.WithPosition(common.V(10, 0)), actor.WithSize(32, 32), actor.Passable())
	d := NewDispatcher(nil)
	st := newStubStage()
	actors := []*actor.Actor{a, b}

	d.Dispatch(st, actors)
	b.Position = common.V(100, 0)
	d.Dispatch(st, actors)
	d.Dispatch(st, actors)

	var kinds []actor.EventKind
	for _, ev := range r.events {
		kinds = append(kinds, ev.Kind)
	}
	if len(kinds) != 2 || kinds[0] != actor.EventCollision || kinds[1] != actor.EventSeparation {
		t.Fatalf("events = %v", kinds)
	}
}

func TestPassageThroughDispatcher(t *testing.T) {
	cases := []struct {
		name     string
		mask     actor.DirectionMask
		transfer bool
	}{
		{"permitted_direction", actor.MaskUp, true},
		{"wrong_direction", actor.MaskDown, false},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			clk := actor.NewTickClock(60)
			hero := actor.New(1, actor.KindPlayer, actor.WithRole(actor.RolePlayer),
				actor.WithPosition(common.V(0, 40)), actor.WithSize(32, 32), actor.WithClock(clk))
			gate := actor.New(2, actor.KindPassage,
				actor.WithBehavior(&actor.Passage{Directions: c.mask, Target: "upper"}),
				actor.WithMobility(actor.Fixed), actor.WithSize(32, 32))
			hero.MoveToSpeed(common.V(0, -100), 600)

			st := newStubStage()
			d := NewDispatcher(nil)
			for i := 0; i < 10 && !hero.CollisionBox().Intersects(gate.CollisionBox()); i++ {
				clk.Tick()
				hero.Advance()
			}
			before := hero.Position
			if n := d.Dispatch(st, []*actor.Actor{hero, gate}); n != 1 {
				t.Fatalf("pairs = %d", n)
			}

			_, moved := st.transfers[hero.ID()]
			if moved != c.transfer {
				t.Fatalf("transfer = %v, want %v", moved, c.transfer)
			}
			if c.transfer && hero.Position != before {
				t.Fatalf("accepted actor was pushed back to %v", hero.Position)
			}
			if !c.transfer {
				if hero.CollisionBox().Intersects(gate.CollisionBox()) {
					t.Fatalf("blocked actor still overlaps the passage")
				}
				if hero.IsMoving() {
					t.Fatalf("blocked actor should stop pressing into the passage")
				}
			}
		})
	}
}

func TestIntangibleActorsAreSkipped(t *testing.T) {
	a := actor.New(1, actor.KindStatic, actor.WithSize(32, 32))
	entry := actor.New(2, actor.KindEntry, actor.WithSize(32, 32), actor.Intangible())
	if n := NewDispatcher(nil).Dispatch(newStubStage(), []*actor.Actor{a, entry}); n != 0 {
		t.Fatalf("pairs = %d, want 0", n)
	}
	if a.Position != (common.Vec2{}) {
		t.Fatalf("actor moved")
	}
}
