package prefabs

import (
	"fmt"

	"github.com/milk9111/tilerpg/actor"
	"github.com/milk9111/tilerpg/common"
)

// ParseRole maps the role keyword of an actor template.
func ParseRole(s string) (actor.Role, error) {
	switch s {
	case "", "none":
		return actor.RoleNone, nil
	case "player":
		return actor.RolePlayer, nil
	case "companion":
		return actor.RoleCompanion, nil
	case "npc":
		return actor.RoleNPC, nil
	default:
		return actor.RoleNone, fmt.Errorf("unknown role %q", s)
	}
}

// BuildActor instantiates spec with the given ID at pos.
func BuildActor(spec ActorSpec, id actor.ID, pos common.Vec2, sprites *Catalog) (*actor.Actor, error) {
	role, err := ParseRole(spec.Role)
	if err != nil {
		return nil, fmt.Errorf("prefabs: %s: %w", spec.Name, err)
	}
	look, err := actor.ParseDirection(spec.Look)
	if err != nil {
		return nil, fmt.Errorf("prefabs: %s: %w", spec.Name, err)
	}
	mode, err := actor.ParseAnimationMode(spec.AnimationMode)
	if err != nil {
		return nil, fmt.Errorf("prefabs: %s: %w", spec.Name, err)
	}

	opts := []actor.Option{
		actor.WithPosition(pos),
		actor.WithRole(role),
		actor.WithLook(look),
	}
	if spec.Width > 0 && spec.Height > 0 {
		opts = append(opts, actor.WithSize(spec.Width, spec.Height))
	}
	if spec.Graphic != "" {
		if sprites == nil {
			return nil, fmt.Errorf("prefabs: %s: no sprite catalog for graphic %q", spec.Name, spec.Graphic)
		}
		sprite, ok := sprites.Sprite(spec.Graphic)
		if !ok {
			return nil, fmt.Errorf("prefabs: %s: unknown graphic %q", spec.Name, spec.Graphic)
		}
		opts = append(opts, actor.WithSprite(sprite))
	}
	opts = append(opts, actor.WithAnimationMode(mode))
	if b := spec.Collision; b != nil {
		opts = append(opts, actor.WithBehavior(&actor.Footprint{
			Offset: common.V(b.X, b.Y),
			Size:   common.V(b.Width, b.Height),
		}))
	}

	kind := actor.Kind(spec.Kind)
	if kind == "" {
		kind = actor.KindPlayer
	}
	return actor.New(id, kind, opts...), nil
}
