package player

import (
	"image"
	"image/color"
	"math"

	"golang.org/x/image/draw"
)

// Surface is what a Player paints on.
type Surface interface {
	Size() (width, height int)
	SetSize(width, height int)
	Clear()
	DrawFrame(f Frame, r Rect)
}

// ImageSurface is a Surface backed by an in-memory RGBA image.
type ImageSurface struct {
	Background color.Color
	// Scaler defaults to Catmull-Rom.
	Scaler draw.Scaler

	img *image.RGBA
}

func NewImageSurface(width, height int) *ImageSurface {
	s := &ImageSurface{Background: color.Black}
	s.SetSize(width, height)
	return s
}

func (s *ImageSurface) Size() (int, int) {
	b := s.img.Bounds()
	return b.Dx(), b.Dy()
}

// SetSize replaces the backing image. Its content is cleared.
func (s *ImageSurface) SetSize(width, height int) {
	if s.img != nil {
		if b := s.img.Bounds(); b.Dx() == width && b.Dy() == height {
			return
		}
	}
	s.img = image.NewRGBA(image.Rect(0, 0, max(width, 0), max(height, 0)))
	s.Clear()
}

func (s *ImageSurface) Clear() {
	bg := s.Background
	if bg == nil {
		bg = color.Transparent
	}
	draw.Draw(s.img, s.img.Bounds(), image.NewUniform(bg), image.Point{}, draw.Src)
}

// DrawFrame scales f into r. Parts of r outside the surface are cropped.
// Frames that are not an image.Image are ignored.
func (s *ImageSurface) DrawFrame(f Frame, r Rect) {
	src, ok := f.(image.Image)
	if !ok {
		return
	}
	dr := image.Rect(
		int(math.Round(r.X)),
		int(math.Round(r.Y)),
		int(math.Round(r.X+r.W)),
		int(math.Round(r.Y+r.H)),
	)
	if dr.Empty() {
		return
	}
	scaler := s.Scaler
	if scaler == nil {
		scaler = draw.CatmullRom
	}
	scaler.Scale(s.img, dr, src, src.Bounds(), draw.Over, nil)
}

// Image returns the current content.
func (s *ImageSurface) Image() *image.RGBA {
	return s.img
}
