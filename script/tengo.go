package script

import (
	"errors"
	"fmt"
	"io/fs"
	"path"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"

	"github.com/milk9111/tilerpg/actor"
	"github.com/milk9111/tilerpg/common"
	"github.com/milk9111/tilerpg/tilemap"
)

// DefaultSpeed is the walking speed, in pixels per second, used by move_to
// and move_by when the script passes none.
const DefaultSpeed = 64.0

var ErrNoHooks = errors.New("script: neither interact nor routine is defined")

// TengoController drives the NPCs of one map from a tengo script. The
// script defines either or both of
//
//	interact := func(engine, state, npc, player) { ... }
//	routine := func(engine, state, npc) { ... }
//
// where state is a map private to each NPC that survives between calls.
type TengoController struct {
	name     string
	compiled *tengo.Compiled
	interact bool
	routine  bool
	states   map[actor.ID]*tengo.Map
	logger   *log.Logger
}

// NewTengoController compiles src. name only labels log lines and errors.
func NewTengoController(name string, src []byte) (*TengoController, error) {
	interact, routine, err := probeHooks(src)
	if err != nil {
		return nil, fmt.Errorf("script %s: %w", name, err)
	}
	if !interact && !routine {
		return nil, fmt.Errorf("script %s: %w", name, ErrNoHooks)
	}

	dispatch := make([]string, 0, 2)
	if interact {
		dispatch = append(dispatch, `if __phase == "interact" { interact(__engine, __state, __npc, __player) }`)
	}
	if routine {
		dispatch = append(dispatch, `if __phase == "routine" { routine(__engine, __state, __npc) }`)
	}
	full := string(src) + "\n" + strings.Join(dispatch, "\n") + "\n"

	compiled, err := compile([]byte(full))
	if err != nil {
		return nil, fmt.Errorf("script %s: %w", name, err)
	}
	return &TengoController{
		name:     name,
		compiled: compiled,
		interact: interact,
		routine:  routine,
		states:   make(map[actor.ID]*tengo.Map),
		logger:   log.WithPrefix("script"),
	}, nil
}

func compile(src []byte) (*tengo.Compiled, error) {
	script := tengo.NewScript(src)
	_ = script.Add("__phase", "")
	_ = script.Add("__engine", map[string]any{})
	_ = script.Add("__state", map[string]any{})
	_ = script.Add("__npc", 0)
	_ = script.Add("__player", 0)
	script.SetImports(stdlib.GetModuleMap(stdlib.AllModuleNames()...))
	return script.Compile()
}

// probeHooks runs the bare script once to see which hooks it defines.
func probeHooks(src []byte) (interact, routine bool, err error) {
	compiled, err := compile(src)
	if err != nil {
		return false, false, err
	}
	if err := compiled.Run(); err != nil {
		return false, false, err
	}
	return isFunc(compiled, "interact"), isFunc(compiled, "routine"), nil
}

func isFunc(c *tengo.Compiled, name string) bool {
	if !c.IsDefined(name) {
		return false
	}
	return c.Get(name).Object().CanCall()
}

func (c *TengoController) Name() string { return c.name }

// Attach installs the script hooks on every NPC of m. Per NPC state starts
// empty on each attach.
func (c *TengoController) Attach(m *tilemap.Map) error {
	c.states = make(map[actor.ID]*tengo.Map)
	count := 0
	for _, a := range m.Actors() {
		npc, ok := a.Behavior().(*actor.NPC)
		if !ok {
			continue
		}
		if c.interact {
			npc.Interaction = func(self, player *actor.Actor) {
				if err := c.run("interact", m, self, player); err != nil {
					c.logger.Error("interact failed", "map", c.name, "npc", self.ID(), "err", err)
				}
			}
		}
		if c.routine {
			npc.Routine = func(self *actor.Actor, st actor.Stage) {
				if err := c.run("routine", m, self, nil); err != nil {
					c.logger.Error("routine failed, disabling", "map", c.name, "npc", self.ID(), "err", err)
					npc.Routine = nil
				}
			}
		}
		count++
	}
	c.logger.Debug("script attached", "map", c.name, "npcs", count)
	return nil
}

func (c *TengoController) state(id actor.ID) *tengo.Map {
	s, ok := c.states[id]
	if !ok {
		s = &tengo.Map{Value: map[string]tengo.Object{}}
		c.states[id] = s
	}
	return s
}

func (c *TengoController) run(phase string, m *tilemap.Map, npc, player *actor.Actor) error {
	playerID := -1
	if player != nil {
		playerID = int(player.ID())
	}
	if err := c.compiled.Set("__phase", phase); err != nil {
		return err
	}
	if err := c.compiled.Set("__engine", engine(m, npc, player)); err != nil {
		return err
	}
	if err := c.compiled.Set("__state", c.state(npc.ID())); err != nil {
		return err
	}
	if err := c.compiled.Set("__npc", int(npc.ID())); err != nil {
		return err
	}
	if err := c.compiled.Set("__player", playerID); err != nil {
		return err
	}
	return c.compiled.Run()
}

func engine(m *tilemap.Map, npc, player *actor.Actor) *tengo.ImmutableMap {
	values := map[string]tengo.Object{}

	values["say"] = &tengo.UserFunction{Name: "say", Value: func(args ...tengo.Object) (tengo.Object, error) {
		if len(args) < 1 {
			return tengo.FalseValue, nil
		}
		m.Say(npc, objectAsString(args[0]))
		return tengo.TrueValue, nil
	}}

	values["cue"] = &tengo.UserFunction{Name: "cue", Value: func(args ...tengo.Object) (tengo.Object, error) {
		if len(args) < 1 {
			return tengo.FalseValue, nil
		}
		m.Cue(objectAsString(args[0]))
		return tengo.TrueValue, nil
	}}

	values["move_to"] = &tengo.UserFunction{Name: "move_to", Value: func(args ...tengo.Object) (tengo.Object, error) {
		target, speed, ok := moveArgs(args)
		if !ok {
			return tengo.FalseValue, nil
		}
		npc.MoveToSpeed(target, speed)
		return tengo.TrueValue, nil
	}}

	values["move_by"] = &tengo.UserFunction{Name: "move_by", Value: func(args ...tengo.Object) (tengo.Object, error) {
		delta, speed, ok := moveArgs(args)
		if !ok {
			return tengo.FalseValue, nil
		}
		npc.MoveToSpeed(npc.Position.Add(delta), speed)
		return tengo.TrueValue, nil
	}}

	values["stop"] = &tengo.UserFunction{Name: "stop", Value: func(args ...tengo.Object) (tengo.Object, error) {
		npc.StopMoving()
		return tengo.TrueValue, nil
	}}

	values["moving"] = &tengo.UserFunction{Name: "moving", Value: func(args ...tengo.Object) (tengo.Object, error) {
		if npc.IsMoving() {
			return tengo.TrueValue, nil
		}
		return tengo.FalseValue, nil
	}}

	values["face"] = &tengo.UserFunction{Name: "face", Value: func(args ...tengo.Object) (tengo.Object, error) {
		if len(args) < 1 {
			return tengo.FalseValue, nil
		}
		d, err := actor.ParseDirection(objectAsString(args[0]))
		if err != nil {
			return tengo.FalseValue, nil
		}
		npc.SetLook(d)
		return tengo.TrueValue, nil
	}}

	values["look"] = &tengo.UserFunction{Name: "look", Value: func(args ...tengo.Object) (tengo.Object, error) {
		return &tengo.String{Value: npc.Look().String()}, nil
	}}

	values["position"] = &tengo.UserFunction{Name: "position", Value: func(args ...tengo.Object) (tengo.Object, error) {
		return vecObject(npc.Position), nil
	}}

	values["player_position"] = &tengo.UserFunction{Name: "player_position", Value: func(args ...tengo.Object) (tengo.Object, error) {
		p := player
		if p == nil {
			p, _ = m.Player()
		}
		if p == nil {
			return tengo.UndefinedValue, nil
		}
		return vecObject(p.Position), nil
	}}

	values["ticks"] = &tengo.UserFunction{Name: "ticks", Value: func(args ...tengo.Object) (tengo.Object, error) {
		return &tengo.Int{Value: m.Ticks()}, nil
	}}

	return &tengo.ImmutableMap{Value: values}
}

// moveArgs reads (x, y[, speed]).
func moveArgs(args []tengo.Object) (common.Vec2, float64, bool) {
	if len(args) < 2 {
		return common.Vec2{}, 0, false
	}
	x, okX := tengo.ToFloat64(args[0])
	y, okY := tengo.ToFloat64(args[1])
	if !okX || !okY {
		return common.Vec2{}, 0, false
	}
	speed := DefaultSpeed
	if len(args) > 2 {
		s, ok := tengo.ToFloat64(args[2])
		if !ok || s <= 0 {
			return common.Vec2{}, 0, false
		}
		speed = s
	}
	return common.V(x, y), speed, true
}

func vecObject(v common.Vec2) tengo.Object {
	return &tengo.Array{Value: []tengo.Object{&tengo.Float{Value: v.X}, &tengo.Float{Value: v.Y}}}
}

func objectAsString(obj tengo.Object) string {
	if obj == nil {
		return ""
	}
	if s, ok := obj.(*tengo.String); ok {
		return s.Value
	}
	return strings.Trim(obj.String(), "\"")
}

// LoadScripts compiles every <map>.tengo file in dir and installs it as the
// controller of <map>, replacing earlier ones.
func LoadScripts(reg *Registry, fsys fs.FS, dir string) error {
	matches, err := fs.Glob(fsys, path.Join(dir, "*.tengo"))
	if err != nil {
		return err
	}
	for _, file := range matches {
		src, err := fs.ReadFile(fsys, file)
		if err != nil {
			return fmt.Errorf("script: read %s: %w", file, err)
		}
		name := strings.TrimSuffix(path.Base(file), ".tengo")
		c, err := NewTengoController(name, src)
		if err != nil {
			return err
		}
		reg.Set(name, c)
	}
	return nil
}
