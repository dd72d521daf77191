package prefabs

import (
	"fmt"
	"sync"

	"github.com/milk9111/tilerpg/actor"
)

// Catalog indexes sprite specs by name. It satisfies tilemap.SpriteSource.
type Catalog struct {
	mu      sync.RWMutex
	sprites map[string]SpriteSpec
}

func NewCatalog(specs ...SpriteSpec) (*Catalog, error) {
	c := &Catalog{}
	if err := c.Replace(specs); err != nil {
		return nil, err
	}
	return c, nil
}

// LoadCatalog reads a sprite sheet file such as sprites.yaml.
func LoadCatalog(filename string) (*Catalog, error) {
	sheet, err := LoadSpriteSheetSpec(filename)
	if err != nil {
		return nil, err
	}
	c, err := NewCatalog(sheet.Sprites...)
	if err != nil {
		return nil, fmt.Errorf("prefabs: %s: %w", filename, err)
	}
	return c, nil
}

// Replace swaps the whole catalog, for hot reload. On error the catalog is
// left untouched.
func (c *Catalog) Replace(specs []SpriteSpec) error {
	next := make(map[string]SpriteSpec, len(specs))
	for _, s := range specs {
		if s.Name == "" {
			return fmt.Errorf("sprite without a name")
		}
		if _, dup := next[s.Name]; dup {
			return fmt.Errorf("sprite %q defined twice", s.Name)
		}
		if s.FrameW <= 0 || s.FrameH <= 0 {
			return fmt.Errorf("sprite %q: frame size must be positive", s.Name)
		}
		next[s.Name] = s
	}
	c.mu.Lock()
	c.sprites = next
	c.mu.Unlock()
	return nil
}

// Spec returns the raw spec for name.
func (c *Catalog) Spec(name string) (SpriteSpec, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	s, ok := c.sprites[name]
	return s, ok
}

func (c *Catalog) Sprite(name string) (actor.Sprite, bool) {
	s, ok := c.Spec(name)
	if !ok {
		return actor.Sprite{}, false
	}
	frames := s.Frames
	if frames <= 0 {
		frames = 1
	}
	return actor.Sprite{
		Graphic:       s.Image,
		FrameWidth:    s.FrameW,
		FrameHeight:   s.FrameH,
		Frames:        frames,
		DirectionRows: s.DirectionRows,
	}, true
}

func (c *Catalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.sprites)
}
