package config

import "time"

// NOTE: frames are numbered from 1, the hero sequence is 240 frames of webp
const (
	FrameCount     = 240
	PreloadWindow  = 20 // frames kept on each side of the current one
	InitialPreload = 30 // frames loaded before the first paint

	// canvases narrower than this are clamped to contain the frame
	MobileBreakpoint = 768

	ResizeDelay = 150 * time.Millisecond

	// viewer scroll container is this many viewport heights tall
	ScrollScreens = 4
	WheelStep     = 60 // pixels per wheel notch

	// spring smoothing of the scroll progress
	SpringMass      = 0.1
	SpringStiffness = 100
	SpringDamping   = 20
	SpringRestDelta = 0.001

	// overlay fades
	TitleFadeEnd = 0.2
	HintFadeEnd  = 0.1

	// naming
	FramePrefix  = "frame_"
	FramePadding = 4
	FrameExt     = ".webp"
	FrameStart   = 1
	TempPrefix   = "temp_"

	// webp
	WebPQuality = 80

	// Path
	PathFramesDir = "public/section-two"
	EnvFramesDir  = "SCROLLREEL_DIR"
)

// ImageExtensions are the extensions treated as frame sources.
var ImageExtensions = []string{".png", ".jpg", ".jpeg", ".webp"}
