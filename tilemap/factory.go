package tilemap

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/milk9111/tilerpg/actor"
	"github.com/milk9111/tilerpg/common"
)

// Object is a placed object read from an object layer.
type Object struct {
	ID            actor.ID
	Name          string
	Type          string
	X, Y          float64
	Width, Height float64
	Properties    Properties
}

// SpriteSource resolves a graphic name to its frame metadata.
type SpriteSource interface {
	Sprite(graphic string) (actor.Sprite, bool)
}

// BuildContext carries the load-time collaborators a KindBuilder may use.
type BuildContext struct {
	Map     string
	Sprites SpriteSource
	// TileWidth and TileHeight size objects placed as points.
	TileWidth, TileHeight int
}

// KindBuilder constructs the actor for one placed object.
type KindBuilder func(obj Object, ctx *BuildContext) (*actor.Actor, error)

var (
	kindsMu      sync.RWMutex
	kindRegistry = map[string]KindBuilder{
		string(actor.KindStatic):        buildStatic,
		string(actor.KindStartPosition): buildStartPosition,
		string(actor.KindEntry):         buildEntry,
		string(actor.KindSignpost):      buildSignpost,
		string(actor.KindCollisionBox):  buildCollisionBox,
		string(actor.KindPassage):       buildPassage,
		string(actor.KindTeleport):      buildTeleport,
		string(actor.KindNPC):           buildNPC,
	}
)

// RegisterKind makes an object type available to the loader. It panics if
// the name is taken or the builder is nil.
func RegisterKind(name string, b KindBuilder) {
	kindsMu.Lock()
	defer kindsMu.Unlock()
	name = strings.ToLower(name)
	if b == nil {
		panic("tilemap: RegisterKind builder is nil")
	}
	if _, dup := kindRegistry[name]; dup {
		panic("tilemap: RegisterKind called twice for " + name)
	}
	kindRegistry[name] = b
}

// Kinds lists the registered object types.
func Kinds() []string {
	kindsMu.RLock()
	defer kindsMu.RUnlock()
	names := make([]string, 0, len(kindRegistry))
	for name := range kindRegistry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Build constructs the actor for obj with the builder registered for its
// type.
func Build(obj Object, ctx *BuildContext) (*actor.Actor, error) {
	if ctx == nil {
		ctx = &BuildContext{}
	}
	kindsMu.RLock()
	b, ok := kindRegistry[strings.ToLower(obj.Type)]
	kindsMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: object %d has type %q", ErrUnknownActorType, obj.ID, obj.Type)
	}
	a, err := b(obj, ctx)
	if err != nil {
		return nil, fmt.Errorf("object %d (%s): %w", obj.ID, obj.Type, err)
	}
	return a, nil
}

// placeOptions returns the options shared by every kind: position, size and
// look. Point objects are sized by their sprite, or else by the tile size.
func placeOptions(obj Object, ctx *BuildContext) ([]actor.Option, error) {
	opts := []actor.Option{actor.WithPosition(common.V(obj.X, obj.Y))}
	if obj.Width > 0 && obj.Height > 0 {
		opts = append(opts, actor.WithSize(obj.Width, obj.Height))
	}
	look := obj.Properties.String("look", obj.Properties.String("facing", ""))
	d, err := actor.ParseDirection(look)
	if err != nil {
		return nil, err
	}
	opts = append(opts, actor.WithLook(d))
	return opts, nil
}

// appearance resolves the graphic and animation properties.
func appearance(obj Object, ctx *BuildContext, defaultMode actor.AnimationMode) ([]actor.Option, error) {
	graphic := obj.Properties.String("graphic", "")
	if graphic == "" {
		return nil, nil
	}
	sprite, ok := actor.Sprite{}, false
	if ctx.Sprites != nil {
		sprite, ok = ctx.Sprites.Sprite(graphic)
	}
	if !ok {
		frames, err := obj.Properties.Int("frames", 1)
		if err != nil {
			return nil, err
		}
		w, h := int(obj.Width), int(obj.Height)
		if w <= 0 || h <= 0 {
			w, h = ctx.TileWidth, ctx.TileHeight
		}
		sprite = actor.Sprite{Graphic: graphic, FrameWidth: w, FrameHeight: h, Frames: frames}
	}
	mode := defaultMode
	if obj.Properties.Has("animation_mode") {
		m, err := actor.ParseAnimationMode(obj.Properties.String("animation_mode", ""))
		if err != nil {
			return nil, err
		}
		mode = m
	}
	return []actor.Option{actor.WithSprite(sprite), actor.WithAnimationMode(mode)}, nil
}

func build(obj Object, ctx *BuildContext, kind actor.Kind, mode actor.AnimationMode, extra ...actor.Option) (*actor.Actor, error) {
	opts, err := placeOptions(obj, ctx)
	if err != nil {
		return nil, err
	}
	look, err := appearance(obj, ctx, mode)
	if err != nil {
		return nil, err
	}
	opts = append(opts, look...)
	opts = append(opts, extra...)
	a := actor.New(obj.ID, kind, opts...)
	if a.Size.IsZero() {
		a.Size = common.V(float64(ctx.TileWidth), float64(ctx.TileHeight))
	}
	return a, nil
}

func buildStatic(obj Object, ctx *BuildContext) (*actor.Actor, error) {
	solid, err := obj.Properties.Bool("solid", true)
	if err != nil {
		return nil, err
	}
	var extra []actor.Option
	if !solid {
		extra = append(extra, actor.Passable())
	}
	return build(obj, ctx, actor.KindStatic, actor.AnimateNever, extra...)
}

func buildStartPosition(obj Object, ctx *BuildContext) (*actor.Actor, error) {
	return build(obj, ctx, actor.KindStartPosition, actor.AnimateNever, actor.Intangible(), actor.WithMobility(actor.Fixed))
}

func buildEntry(obj Object, ctx *BuildContext) (*actor.Actor, error) {
	return build(obj, ctx, actor.KindEntry, actor.AnimateNever, actor.Intangible(), actor.WithMobility(actor.Fixed))
}

func buildSignpost(obj Object, ctx *BuildContext) (*actor.Actor, error) {
	sign := &actor.Signpost{Text: obj.Properties.String("text", obj.Name)}
	return build(obj, ctx, actor.KindSignpost, actor.AnimateNever, actor.WithBehavior(sign), actor.WithMobility(actor.Fixed))
}

func buildCollisionBox(obj Object, ctx *BuildContext) (*actor.Actor, error) {
	return build(obj, ctx, actor.KindCollisionBox, actor.AnimateNever,
		actor.WithBehavior(&actor.CollisionBox{}), actor.WithMobility(actor.Fixed))
}

func buildPassage(obj Object, ctx *BuildContext) (*actor.Actor, error) {
	mask, err := actor.ParseDirectionMask(obj.Properties.String("direction", ""))
	if err != nil {
		return nil, err
	}
	if mask == 0 {
		return nil, fmt.Errorf("passage needs a direction")
	}
	target := obj.Properties.String("target", "")
	if target == "" {
		return nil, fmt.Errorf("passage needs a target layer")
	}
	p := &actor.Passage{Directions: mask, Target: target}
	return build(obj, ctx, actor.KindPassage, actor.AnimateNever, actor.WithBehavior(p), actor.WithMobility(actor.Fixed))
}

func buildTeleport(obj Object, ctx *BuildContext) (*actor.Actor, error) {
	entry, err := obj.Properties.Int("entry", 0)
	if err != nil {
		return nil, err
	}
	if entry <= 0 {
		return nil, fmt.Errorf("teleport needs an entry id")
	}
	t := &actor.Teleport{TargetMap: obj.Properties.String("map", ""), TargetEntry: actor.ID(entry)}
	return build(obj, ctx, actor.KindTeleport, actor.AnimateNever,
		actor.WithBehavior(t), actor.Passable(), actor.WithMobility(actor.Fixed))
}

func buildNPC(obj Object, ctx *BuildContext) (*actor.Actor, error) {
	return build(obj, ctx, actor.KindNPC, actor.AnimateOnMove,
		actor.WithBehavior(&actor.NPC{}), actor.WithRole(actor.RoleNPC), actor.WithMobility(actor.MovableWhileMoving))
}
