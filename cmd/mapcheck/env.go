package main

import (
	"io/fs"

	"github.com/milk9111/tilerpg/collision"
	"github.com/milk9111/tilerpg/config"
	"github.com/milk9111/tilerpg/levels"
	"github.com/milk9111/tilerpg/prefabs"
	"github.com/milk9111/tilerpg/scene"
	"github.com/milk9111/tilerpg/script"
	"github.com/milk9111/tilerpg/tilemap"
)

// env is everything needed to load and run maps from one level tree.
type env struct {
	cfg     config.Config
	fsys    fs.FS
	catalog *prefabs.Catalog
	loader  *tilemap.Loader
	scripts *script.Registry
}

func newEnv(cfg config.Config, fsys fs.FS) (*env, error) {
	catalog, err := prefabs.LoadCatalog("sprites.yaml")
	if err != nil {
		return nil, err
	}
	backend, err := collision.Backend(cfg.CollisionBackend, cfg.CellSize)
	if err != nil {
		return nil, err
	}
	scripts := script.NewRegistry()
	if err := script.LoadScripts(scripts, fsys, levels.ScriptDir); err != nil {
		return nil, err
	}
	loader := tilemap.NewLoader(fsys,
		tilemap.WithSprites(catalog),
		tilemap.WithLoaderTickRate(cfg.TickRate),
		tilemap.WithBackend(backend),
	)
	return &env{cfg: cfg, fsys: fsys, catalog: catalog, loader: loader, scripts: scripts}, nil
}

func (e *env) world() *scene.World {
	return scene.NewWorld(e.loader, e.scripts, e.catalog, scene.WorldConfig{
		Step:            float64(e.cfg.TileSize),
		PlayerSpeed:     e.cfg.PlayerSpeed,
		PlayerPrefab:    e.cfg.PlayerPrefab,
		CompanionPrefab: e.cfg.CompanionPrefab,
	})
}
