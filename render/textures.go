// Package render draws maps with ebiten.
package render

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"io/fs"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/hajimehoshi/ebiten/v2"

	"github.com/milk9111/tilerpg/assets"
)

var ErrNoImage = errors.New("render: image not found")

// Textures caches decoded images by key. A key is looked up in each source
// file system in order; the first hit wins. Missing images are replaced by
// a placeholder so a broken reference shows up on screen instead of
// stopping the game.
type Textures struct {
	mu          sync.Mutex
	sources     []fs.FS
	images      map[string]*ebiten.Image
	missing     map[string]bool
	placeholder *ebiten.Image
	logger      *log.Logger
}

func NewTextures(sources ...fs.FS) *Textures {
	return &Textures{
		sources: sources,
		images:  make(map[string]*ebiten.Image),
		missing: make(map[string]bool),
		logger:  log.WithPrefix("render"),
	}
}

// Get returns the image for key, loading it on first use.
func (t *Textures) Get(key string) *ebiten.Image {
	t.mu.Lock()
	defer t.mu.Unlock()
	if img, ok := t.images[key]; ok {
		return img
	}
	src, err := Decode(key, t.sources...)
	if err != nil {
		if !t.missing[key] {
			t.logger.Warn("texture missing", "key", key, "err", err)
			t.missing[key] = true
		}
		return t.placeholderImage()
	}
	img := ebiten.NewImageFromImage(src)
	t.images[key] = img
	return img
}

// Forget drops every cached image.
func (t *Textures) Forget() {
	t.mu.Lock()
	defer t.mu.Unlock()
	for _, img := range t.images {
		img.Deallocate()
	}
	t.images = make(map[string]*ebiten.Image)
	t.missing = make(map[string]bool)
}

func (t *Textures) placeholderImage() *ebiten.Image {
	if t.placeholder == nil {
		t.placeholder = ebiten.NewImage(1, 1)
		t.placeholder.Fill(color.RGBA{R: 0xff, B: 0xff, A: 0xff})
	}
	return t.placeholder
}

// Decode reads key from the first source that has it.
func Decode(key string, sources ...fs.FS) (image.Image, error) {
	if key == "" {
		return nil, fmt.Errorf("%w: empty key", ErrNoImage)
	}
	for _, fsys := range sources {
		if fsys == nil {
			continue
		}
		img, err := assets.DecodeImage(fsys, key)
		if err == nil {
			return img, nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrNoImage, key)
}
