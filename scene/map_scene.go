package scene

import (
	"image/color"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/milk9111/tilerpg/actor"
	"github.com/milk9111/tilerpg/audio"
	"github.com/milk9111/tilerpg/prefabs"
	"github.com/milk9111/tilerpg/render"
	"github.com/milk9111/tilerpg/script"
)

// Reloader rereads whatever a changed file feeds: sprite specs, scripts.
// It runs before the current map is reloaded.
type Reloader func(path string) error

// MapScene shows the World through a following camera, plays the cues it
// produces and fades around map changes.
type MapScene struct {
	world    *World
	camera   *Camera
	fade     *Fade
	textures *render.Textures
	sounds   *audio.Player
	input    InputSource
	watcher  *prefabs.Watcher
	reload   Reloader
	debug    bool
	logger   *log.Logger
}

type MapSceneOption func(*MapScene)

// WithWatcher enables hot reload from w. reload runs for every changed
// path before the map itself is reloaded.
func WithWatcher(w *prefabs.Watcher, reload Reloader) MapSceneOption {
	return func(s *MapScene) {
		s.watcher = w
		s.reload = reload
	}
}

func WithDebug(debug bool) MapSceneOption {
	return func(s *MapScene) { s.debug = debug }
}

func WithInput(in InputSource) MapSceneOption {
	return func(s *MapScene) { s.input = in }
}

func NewMapScene(world *World, camera *Camera, fade *Fade, textures *render.Textures, sounds *audio.Player, opts ...MapSceneOption) *MapScene {
	s := &MapScene{
		world:    world,
		camera:   camera,
		fade:     fade,
		textures: textures,
		sounds:   sounds,
		input:    ReadInput,
		logger:   log.WithPrefix("scene"),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	s.snapCamera()
	return s
}

func (s *MapScene) World() *World { return s.world }

func (s *MapScene) Update(stack *Stack) error {
	if s.fade.Active() {
		s.fade.Update()
		return nil
	}
	s.hotReload()

	in := s.input()
	if in.Pause {
		stack.Push(NewPause(s.input))
		return nil
	}
	res := s.world.Step(in)
	if s.sounds != nil {
		s.sounds.Play(res.Cues)
	}
	if res.Change != nil {
		req := *res.Change
		s.fade.Start(func() { s.enter(req) })
	}
	if p := s.world.Player(); p != nil {
		s.camera.Follow(p.DrawRect().Center())
	}
	return nil
}

func (s *MapScene) enter(req actor.MapChange) {
	if err := s.world.Enter(req); err != nil {
		s.logger.Error("map change failed, staying", "map", req.Map, "entry", req.Entry, "err", err)
		return
	}
	s.snapCamera()
}

func (s *MapScene) snapCamera() {
	m := s.world.Map()
	if m == nil {
		return
	}
	s.camera.SetWorldBounds(m.PixelSize())
	if p := s.world.Player(); p != nil {
		s.camera.SnapTo(p.DrawRect().Center())
	}
}

func (s *MapScene) hotReload() {
	if s.watcher == nil {
		return
	}
	changed := s.watcher.Drain()
	if len(changed) == 0 {
		return
	}
	for _, path := range changed {
		if s.reload == nil {
			continue
		}
		if err := s.reload(path); err != nil {
			s.logger.Error("hot reload failed", "path", path, "err", err)
			return
		}
	}
	if s.textures != nil && touchesImages(changed) {
		s.textures.Forget()
	}
	if err := s.world.Reload(); err != nil {
		s.logger.Error("map reload failed, keeping the old map", "err", err)
		return
	}
	s.snapCamera()
	s.logger.Info("map reloaded", "map", s.world.Map().Name(), "files", len(changed))
}

func touchesImages(paths []string) bool {
	for _, p := range paths {
		switch strings.ToLower(filepath.Ext(p)) {
		case ".yaml", ".yml", ".json", ".tsj":
			return true
		}
	}
	return false
}

func (s *MapScene) Draw(screen *ebiten.Image) {
	screen.Fill(color.Black)
	if m := s.world.Map(); m != nil {
		surface := &render.Surface{
			Screen:   screen,
			Textures: s.textures,
			Origin:   s.camera.Origin(),
			Zoom:     s.camera.Zoom(),
		}
		m.Draw(surface, s.camera.View())
	}
	s.drawDialog(screen)
	if s.debug {
		s.drawDebug(screen)
	}
	s.fade.Draw(screen)
}

func (s *MapScene) drawDialog(screen *ebiten.Image) {
	d, ok := s.world.Dialog()
	if !ok {
		return
	}
	b := screen.Bounds()
	const margin, height = 16, 64
	y := float32(b.Dy() - height - margin)
	vector.DrawFilledRect(screen, margin, y, float32(b.Dx()-2*margin), height, color.RGBA{R: 0x10, G: 0x10, B: 0x30, A: 0xe0}, false)
	vector.StrokeRect(screen, margin, y, float32(b.Dx()-2*margin), height, 2, color.White, false)
	ebitenutil.DebugPrintAt(screen, d.Text, margin+12, int(y)+12)
	ebitenutil.DebugPrintAt(screen, "[Space]", b.Dx()-margin-60, int(y)+height-20)
}

func (s *MapScene) drawDebug(screen *ebiten.Image) {
	m := s.world.Map()
	if m == nil {
		return
	}
	origin, zoom := s.camera.Origin(), s.camera.Zoom()
	for _, a := range m.Actors() {
		if !a.Collidable() {
			continue
		}
		r := a.CollisionBox()
		x := float32((r.X - origin.X) * zoom)
		y := float32((r.Y - origin.Y) * zoom)
		vector.StrokeRect(screen, x, y, float32(r.Width*zoom), float32(r.Height*zoom), 1, color.RGBA{R: 0xff, A: 0xff}, false)
	}
	p := s.world.Player()
	msg := "map: " + m.Name()
	if p != nil {
		msg += "  player: " + p.String()
	}
	ebitenutil.DebugPrintAt(screen, msg, 4, 4)
}

// ReloadScripts returns a Reloader that recompiles scripts when a .tengo
// file changes.
func ReloadScripts(reg *script.Registry, load func(reg *script.Registry) error) Reloader {
	return func(path string) error {
		if strings.ToLower(filepath.Ext(path)) != ".tengo" {
			return nil
		}
		return load(reg)
	}
}
