package viewer

import (
	"context"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/1F47E/go-scrollreel/pkg/frames"
	"github.com/1F47E/go-scrollreel/pkg/player"
)

// Surface is a player.Surface drawing on an offscreen ebiten image.
type Surface struct {
	img  *ebiten.Image
	w, h int
}

func NewSurface() *Surface {
	return &Surface{}
}

func (s *Surface) Size() (int, int) {
	return s.w, s.h
}

func (s *Surface) SetSize(w, h int) {
	if w == s.w && h == s.h {
		return
	}
	if s.img != nil {
		s.img.Deallocate()
		s.img = nil
	}
	s.w, s.h = w, h
	if w > 0 && h > 0 {
		s.img = ebiten.NewImage(w, h)
	}
}

func (s *Surface) Clear() {
	if s.img != nil {
		s.img.Clear()
	}
}

// DrawFrame draws an *ebiten.Image frame scaled into r.
func (s *Surface) DrawFrame(f player.Frame, r player.Rect) {
	src, ok := f.(*ebiten.Image)
	if !ok || s.img == nil {
		return
	}
	b := src.Bounds()
	if b.Dx() == 0 || b.Dy() == 0 {
		return
	}
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(r.W/float64(b.Dx()), r.H/float64(b.Dy()))
	op.GeoM.Translate(r.X, r.Y)
	op.Filter = ebiten.FilterLinear
	s.img.DrawImage(src, op)
}

// Image returns the offscreen image, nil while the surface is empty.
func (s *Surface) Image() *ebiten.Image {
	return s.img
}

// Fetch adapts a disk loader to a player fetch returning GPU images.
func Fetch(l *frames.Loader) player.FetchFunc {
	return func(ctx context.Context, i int) (player.Frame, error) {
		img, err := l.Load(ctx, i)
		if err != nil {
			return nil, err
		}
		return ebiten.NewImageFromImage(img), nil
	}
}

// Release frees the GPU memory of an evicted frame.
func Release(_ int, f player.Frame) {
	if img, ok := f.(*ebiten.Image); ok {
		img.Deallocate()
	}
}
