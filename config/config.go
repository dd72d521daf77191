// Package config loads the engine configuration from YAML.
package config

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/milk9111/tilerpg/collision"
)

// Collision backends.
const (
	BackendAABB     = collision.BackendAABB
	BackendChipmunk = collision.BackendChipmunk
)

var ErrInvalid = errors.New("config: invalid configuration")

type Config struct {
	TickRate     float64 `yaml:"tick_rate"`
	TileSize     int     `yaml:"tile_size"`
	ScreenWidth  int     `yaml:"screen_width"`
	ScreenHeight int     `yaml:"screen_height"`
	Zoom         float64 `yaml:"zoom"`

	// MapsDir overrides the embedded levels when set.
	MapsDir         string  `yaml:"maps_dir"`
	StartMap        string  `yaml:"start_map"`
	PlayerPrefab    string  `yaml:"player_prefab"`
	CompanionPrefab string  `yaml:"companion_prefab"`
	PlayerSpeed     float64 `yaml:"player_speed"`

	CollisionBackend string  `yaml:"collision_backend"`
	CellSize         float64 `yaml:"cell_size"`

	HotReload  bool    `yaml:"hot_reload"`
	LogLevel   string  `yaml:"log_level"`
	FadeFrames int     `yaml:"fade_frames"`
	Volume     float64 `yaml:"volume"`
}

func Default() Config {
	return Config{
		TickRate:         60,
		TileSize:         32,
		ScreenWidth:      1280,
		ScreenHeight:     720,
		Zoom:             2,
		StartMap:         "town",
		PlayerPrefab:     "player.yaml",
		CompanionPrefab:  "companion.yaml",
		PlayerSpeed:      128,
		CollisionBackend: BackendAABB,
		CellSize:         64,
		LogLevel:         "info",
		FadeFrames:       20,
		Volume:           0.5,
	}
}

func (c Config) Validate() error {
	switch {
	case c.TickRate <= 0:
		return fmt.Errorf("%w: tick_rate must be positive, got %v", ErrInvalid, c.TickRate)
	case c.TileSize <= 0:
		return fmt.Errorf("%w: tile_size must be positive, got %d", ErrInvalid, c.TileSize)
	case c.ScreenWidth <= 0 || c.ScreenHeight <= 0:
		return fmt.Errorf("%w: screen size %dx%d", ErrInvalid, c.ScreenWidth, c.ScreenHeight)
	case c.Zoom <= 0:
		return fmt.Errorf("%w: zoom must be positive, got %v", ErrInvalid, c.Zoom)
	case c.StartMap == "":
		return fmt.Errorf("%w: start_map is empty", ErrInvalid)
	case c.PlayerSpeed <= 0:
		return fmt.Errorf("%w: player_speed must be positive, got %v", ErrInvalid, c.PlayerSpeed)
	case c.CollisionBackend != BackendAABB && c.CollisionBackend != BackendChipmunk:
		return fmt.Errorf("%w: unknown collision_backend %q", ErrInvalid, c.CollisionBackend)
	case c.CellSize < 0:
		return fmt.Errorf("%w: cell_size must not be negative, got %v", ErrInvalid, c.CellSize)
	case c.FadeFrames < 0:
		return fmt.Errorf("%w: fade_frames must not be negative, got %d", ErrInvalid, c.FadeFrames)
	case c.Volume < 0 || c.Volume > 1:
		return fmt.Errorf("%w: volume must be within [0,1], got %v", ErrInvalid, c.Volume)
	}
	if _, err := log.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("%w: log_level: %v", ErrInvalid, err)
	}
	return nil
}

// Level returns the configured log level, info when it does not parse.
func (c Config) Level() log.Level {
	lvl, err := log.ParseLevel(c.LogLevel)
	if err != nil {
		return log.InfoLevel
	}
	return lvl
}
