package render

import (
	"image"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/milk9111/tilerpg/actor"
	"github.com/milk9111/tilerpg/common"
	"github.com/milk9111/tilerpg/tilemap"
)

// Surface draws map content onto an ebiten image through a view: Origin is
// the world point at the top-left of the screen and Zoom scales world
// pixels to screen pixels.
type Surface struct {
	Screen   *ebiten.Image
	Textures *Textures
	Origin   common.Vec2
	Zoom     float64
}

var _ tilemap.Surface = (*Surface)(nil)

func (s *Surface) DrawTile(t tilemap.TileDraw) {
	img := s.Textures.Get(t.Tileset.Image)
	s.blit(img, t.Src, t.Dst)
}

func (s *Surface) DrawActor(a *actor.Actor, dst common.Rect) {
	img := s.Textures.Get(a.Sprite.Graphic)
	src := a.SourceRect()
	if src.Width <= 0 || src.Height <= 0 {
		b := img.Bounds()
		src = common.R(0, 0, float64(b.Dx()), float64(b.Dy()))
	}
	s.blit(img, src, dst)
}

func (s *Surface) blit(img *ebiten.Image, src, dst common.Rect) {
	sub := subImage(img, src)
	b := sub.Bounds()
	if b.Dx() == 0 || b.Dy() == 0 {
		return
	}
	op := &ebiten.DrawImageOptions{}
	op.GeoM = Transform(float64(b.Dx()), float64(b.Dy()), dst, s.Origin, s.zoom())
	s.Screen.DrawImage(sub, op)
}

func (s *Surface) zoom() float64 {
	if s.Zoom <= 0 {
		return 1
	}
	return s.Zoom
}

// View returns the world rectangle visible on a screen of the given size.
func View(origin common.Vec2, zoom float64, screenW, screenH int) common.Rect {
	if zoom <= 0 {
		zoom = 1
	}
	return common.R(origin.X, origin.Y, float64(screenW)/zoom, float64(screenH)/zoom)
}

// Transform maps a srcW x srcH image onto the world rectangle dst as seen
// from origin at zoom.
func Transform(srcW, srcH float64, dst common.Rect, origin common.Vec2, zoom float64) ebiten.GeoM {
	var g ebiten.GeoM
	if srcW > 0 && srcH > 0 {
		g.Scale(dst.Width/srcW, dst.Height/srcH)
	}
	g.Translate(dst.X-origin.X, dst.Y-origin.Y)
	g.Scale(zoom, zoom)
	return g
}

func subImage(img *ebiten.Image, r common.Rect) *ebiten.Image {
	rect := image.Rect(int(r.X), int(r.Y), int(r.X+r.Width), int(r.Y+r.Height))
	return img.SubImage(rect).(*ebiten.Image)
}
