package prefabs

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

//go:embed *.yaml
var builtin embed.FS

// Dir holds edited templates. A file there shadows the built-in template of
// the same name, so saving it is picked up by the next load.
var Dir = "prefabs"

// readTemplate resolves a template by its base name, so paths reported by the
// watcher work as well as bare names.
func readTemplate(filename string) ([]byte, error) {
	name := path.Base(filepath.ToSlash(filename))
	data, err := os.ReadFile(filepath.Join(Dir, name))
	if err == nil {
		return data, nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}
	return builtin.ReadFile(name)
}

// LoadSpec decodes the YAML template filename into T.
func LoadSpec[T any](filename string) (T, error) {
	var zero T
	data, err := readTemplate(filename)
	if err != nil {
		return zero, fmt.Errorf("prefabs: load %s: %w", filename, err)
	}

	var spec T
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return zero, fmt.Errorf("prefabs: unmarshal %s: %w", filename, err)
	}

	return spec, nil
}

// SpriteSpec describes one sprite sheet. Frames run left to right; with
// direction_rows the sheet has one row per look direction in the order up,
// right, down, left.
type SpriteSpec struct {
	Name          string `yaml:"name"`
	Image         string `yaml:"image"`
	FrameW        int    `yaml:"frame_w"`
	FrameH        int    `yaml:"frame_h"`
	Frames        int    `yaml:"frames"`
	DirectionRows bool   `yaml:"direction_rows"`
}

type SpriteSheetSpec struct {
	Sprites []SpriteSpec `yaml:"sprites"`
}

func LoadSpriteSheetSpec(filename string) (SpriteSheetSpec, error) {
	return LoadSpec[SpriteSheetSpec](filename)
}

type BoxSpec struct {
	X      float64 `yaml:"x"`
	Y      float64 `yaml:"y"`
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

// ActorSpec is a template for actors spawned by code rather than placed in a
// map, such as the player and its companions.
type ActorSpec struct {
	Name          string   `yaml:"name"`
	Kind          string   `yaml:"kind"`
	Role          string   `yaml:"role"`
	Graphic       string   `yaml:"graphic"`
	Width         float64  `yaml:"width"`
	Height        float64  `yaml:"height"`
	Look          string   `yaml:"look"`
	AnimationMode string   `yaml:"animation_mode"`
	Speed         float64  `yaml:"speed"`
	Collision     *BoxSpec `yaml:"collision"`
}

func LoadActorSpec(filename string) (ActorSpec, error) {
	spec, err := LoadSpec[ActorSpec](filename)
	if err != nil {
		return spec, err
	}
	if spec.Speed < 0 {
		return spec, fmt.Errorf("prefabs: %s: negative speed %v", filename, spec.Speed)
	}
	return spec, nil
}
