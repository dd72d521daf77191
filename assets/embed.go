package assets

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"image"
	_ "image/png"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
)

//go:embed sprites sounds
var assetsFS embed.FS

// Dir is the on-disk override directory. Files there shadow the embedded
// copies of the same path.
var Dir = "assets"

// FS returns the asset tree, disk first.
func FS() fs.FS {
	return Overlay(os.DirFS(Dir), assetsFS)
}

// Overlay returns a read-only fs.FS that serves a file from upper when it
// exists there and from lower otherwise. A nil upper serves lower only.
func Overlay(upper, lower fs.FS) fs.FS {
	if upper == nil {
		return lower
	}
	return overlay{upper: upper, lower: lower}
}

type overlay struct {
	upper, lower fs.FS
}

func (o overlay) Open(name string) (fs.File, error) {
	f, err := o.upper.Open(name)
	if err == nil {
		return f, nil
	}
	if !errors.Is(err, fs.ErrNotExist) && !errors.Is(err, fs.ErrInvalid) {
		return nil, err
	}
	return o.lower.Open(name)
}

// ReadDir merges both layers; upper entries shadow lower ones.
func (o overlay) ReadDir(name string) ([]fs.DirEntry, error) {
	upper, uerr := fs.ReadDir(o.upper, name)
	lower, lerr := fs.ReadDir(o.lower, name)
	if uerr != nil && lerr != nil {
		return nil, lerr
	}
	seen := make(map[string]bool, len(upper))
	out := make([]fs.DirEntry, 0, len(upper)+len(lower))
	for _, e := range upper {
		seen[e.Name()] = true
		out = append(out, e)
	}
	for _, e := range lower {
		if !seen[e.Name()] {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name() < out[j].Name() })
	return out, nil
}

// LoadFile loads an asset by assets-relative path.
func LoadFile(path string) ([]byte, error) {
	return fs.ReadFile(FS(), cleanAssetPath(path))
}

// DecodeImage reads and decodes an image from fsys.
func DecodeImage(fsys fs.FS, path string) (image.Image, error) {
	b, err := fs.ReadFile(fsys, cleanAssetPath(path))
	if err != nil {
		return nil, err
	}
	img, _, err := image.Decode(bytes.NewReader(b))
	if err != nil {
		return nil, fmt.Errorf("decode %q: %w", path, err)
	}
	return img, nil
}

// LoadImage loads an asset image as an *ebiten.Image.
func LoadImage(path string) (*ebiten.Image, error) {
	img, err := DecodeImage(FS(), path)
	if err != nil {
		return nil, err
	}
	return ebiten.NewImageFromImage(img), nil
}

func cleanAssetPath(path string) string {
	if path == "" {
		return ""
	}
	if filepath.IsAbs(path) {
		s := filepath.ToSlash(path)
		if idx := strings.LastIndex(s, "/assets/"); idx >= 0 {
			return s[idx+len("/assets/"):]
		}
		return filepath.Base(path)
	}
	s := filepath.ToSlash(path)
	if after, ok := strings.CutPrefix(s, "assets/"); ok {
		return after
	}
	return s
}
