package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"

	"github.com/milk9111/tilerpg/assets"
	"github.com/milk9111/tilerpg/audio"
	"github.com/milk9111/tilerpg/collision"
	"github.com/milk9111/tilerpg/config"
	"github.com/milk9111/tilerpg/levels"
	"github.com/milk9111/tilerpg/prefabs"
	"github.com/milk9111/tilerpg/render"
	"github.com/milk9111/tilerpg/scene"
	"github.com/milk9111/tilerpg/script"
	"github.com/milk9111/tilerpg/tilemap"
)

const spriteSheet = "sprites.yaml"

type Game struct {
	cfg   config.Config
	debug bool

	stack   *scene.Stack
	watcher *prefabs.Watcher
	logger  *log.Logger
}

func NewGame(cfg config.Config, debug bool) (*Game, error) {
	g := &Game{cfg: cfg, debug: debug, logger: log.WithPrefix("game")}

	fsys := levels.FS(cfg.MapsDir)
	catalog, err := prefabs.LoadCatalog(spriteSheet)
	if err != nil {
		return nil, err
	}
	backend, err := collision.Backend(cfg.CollisionBackend, cfg.CellSize)
	if err != nil {
		return nil, err
	}
	loadScripts := func(reg *script.Registry) error {
		return script.LoadScripts(reg, fsys, levels.ScriptDir)
	}
	scripts := script.NewRegistry()
	if err := loadScripts(scripts); err != nil {
		return nil, err
	}

	loader := tilemap.NewLoader(fsys,
		tilemap.WithSprites(catalog),
		tilemap.WithLoaderTickRate(cfg.TickRate),
		tilemap.WithBackend(backend),
	)
	world := scene.NewWorld(loader, scripts, catalog, scene.WorldConfig{
		Step:            float64(cfg.TileSize),
		PlayerSpeed:     cfg.PlayerSpeed,
		PlayerPrefab:    cfg.PlayerPrefab,
		CompanionPrefab: cfg.CompanionPrefab,
	})
	if err := world.Start(cfg.StartMap); err != nil {
		return nil, fmt.Errorf("start map %s: %w", cfg.StartMap, err)
	}

	opts := []scene.MapSceneOption{scene.WithDebug(debug)}
	if cfg.HotReload {
		if w, err := prefabs.NewWatcher(watchDirs(cfg)...); err != nil {
			g.logger.Warn("hot reload disabled", "err", err)
		} else {
			g.watcher = w
			opts = append(opts, scene.WithWatcher(w, reloader(catalog, scene.ReloadScripts(scripts, loadScripts))))
		}
	}

	ms := scene.NewMapScene(world,
		scene.NewCamera(cfg.ScreenWidth, cfg.ScreenHeight, cfg.Zoom),
		scene.NewFade(cfg.FadeFrames),
		render.NewTextures(fsys, assets.FS()),
		audio.NewPlayer(assets.FS(), cfg.Volume),
		opts...,
	)
	g.stack = scene.NewStack(ms)
	return g, nil
}

// watchDirs returns the on-disk directories that exist among the ones
// hot reload cares about.
func watchDirs(cfg config.Config) []string {
	candidates := []string{prefabs.Dir}
	if cfg.MapsDir != "" {
		candidates = append(candidates,
			cfg.MapsDir,
			filepath.Join(cfg.MapsDir, "tiles"),
			filepath.Join(cfg.MapsDir, levels.ScriptDir),
		)
	}
	var dirs []string
	for _, dir := range candidates {
		if info, err := os.Stat(dir); err == nil && info.IsDir() {
			dirs = append(dirs, dir)
		}
	}
	return dirs
}

// reloader refreshes the sprite catalog when the sprite sheet changes and
// hands every other path to next.
func reloader(catalog *prefabs.Catalog, next scene.Reloader) scene.Reloader {
	return func(path string) error {
		if filepath.Base(path) == spriteSheet {
			sheet, err := prefabs.LoadSpriteSheetSpec(spriteSheet)
			if err != nil {
				return err
			}
			return catalog.Replace(sheet.Sprites)
		}
		return next(path)
	}
}

func (g *Game) Update() error {
	return g.stack.Update()
}

func (g *Game) Draw(screen *ebiten.Image) {
	g.stack.Draw(screen)
	if g.debug {
		b := screen.Bounds()
		ebitenutil.DebugPrintAt(screen, fmt.Sprintf("TPS: %.2f  FPS: %.2f", ebiten.ActualTPS(), ebiten.ActualFPS()), 4, b.Dy()-20)
	}
}

func (g *Game) LayoutF(outsideWidth, outsideHeight float64) (float64, float64) {
	return float64(g.cfg.ScreenWidth), float64(g.cfg.ScreenHeight)
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	panic("shouldn't use Layout")
}

func (g *Game) Close() error {
	if g.watcher == nil {
		return nil
	}
	return g.watcher.Close()
}
