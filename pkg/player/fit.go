package player

import (
	"image"
	"math"
)

// Size is a width and height in pixels.
type Size struct {
	W, H int
}

func sizeOf(r image.Rectangle) Size {
	return Size{W: r.Dx(), H: r.Dy()}
}

func (s Size) empty() bool {
	return s.W <= 0 || s.H <= 0
}

// Rect is a placement on the drawing surface. X and Y may be negative
// when the frame is cropped.
type Rect struct {
	X, Y, W, H float64
}

// Cover scales img so that it fills canvas exactly along one axis and
// overflows along the other, centred, keeping the aspect ratio.
func Cover(canvas, img Size) Rect {
	if canvas.empty() || img.empty() {
		return Rect{}
	}
	cw, ch := float64(canvas.W), float64(canvas.H)
	imgRatio := float64(img.W) / float64(img.H)

	var r Rect
	if cw/ch > imgRatio {
		r.W = cw
		r.H = cw / imgRatio
		r.Y = (ch - r.H) / 2
	} else {
		r.W = ch * imgRatio
		r.H = ch
		r.X = (cw - r.W) / 2
	}
	return r
}

// Fit is Cover, except that on canvases narrower than breakpoint the result
// is shrunk until it fits inside the canvas on both axes.
func Fit(canvas, img Size, breakpoint int) Rect {
	r := Cover(canvas, img)
	if canvas.W >= breakpoint || r == (Rect{}) {
		return r
	}
	cw, ch := float64(canvas.W), float64(canvas.H)
	if r.W > cw {
		r.H = r.H * cw / r.W
		r.W = cw
	}
	if r.H > ch {
		r.W = math.Min(r.W*ch/r.H, cw)
		r.H = ch
	}
	r.X = (cw - r.W) / 2
	r.Y = (ch - r.H) / 2
	return r
}
