// Package viewer hosts a player in a desktop window: the mouse wheel and
// keyboard scroll a virtual page and the page position drives the player.
package viewer

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/sirupsen/logrus"

	cfg "github.com/1F47E/go-scrollreel/pkg/config"
	"github.com/1F47E/go-scrollreel/pkg/logger"
	"github.com/1F47E/go-scrollreel/pkg/player"
)

var (
	colorOverlay = color.RGBA{0, 0, 0, 77} // 30% black over the frames
	colorHint    = color.RGBA{255, 255, 255, 128}
)

const (
	title = "AUTONOVA"
	tag   = "System Intelligence. Real outcomes."
	hint  = "Scroll to explore"

	titleScale = 6
)

// Config sets up the window.
type Config struct {
	Title  string
	Width  int
	Height int
	FPS    int
	// ScrollScreens is the height of the virtual page in viewport heights.
	ScrollScreens int
	WheelStep     float64
	// Smooth enables spring smoothing of the scroll position.
	Smooth bool
	// HUD prints frame and cache statistics.
	HUD bool
}

func DefaultConfig() Config {
	return Config{
		Title:         "scrollreel",
		Width:         1280,
		Height:        720,
		FPS:           60,
		ScrollScreens: cfg.ScrollScreens,
		WheelStep:     cfg.WheelStep,
		Smooth:        true,
		HUD:           logger.Log.IsLevelEnabled(logrus.DebugLevel),
	}
}

// Viewer implements ebiten.Game.
type Viewer struct {
	cfg     Config
	player  *player.Player
	surface *Surface
	smooth  *player.Smoother
	scroll  scroller

	w, h     int
	progress float64

	titleImg *ebiten.Image
	hintImg  *ebiten.Image
}

func New(p *player.Player, s *Surface, c Config) *Viewer {
	return &Viewer{
		cfg:     c,
		player:  p,
		surface: s,
		smooth:  player.NewSmoother(c.FPS),
		scroll:  scroller{screens: float64(c.ScrollScreens)},
	}
}

// Run opens the window and blocks until it is closed. The player is
// started here and disposed on return.
func Run(p *player.Player, s *Surface, c Config) error {
	log := logger.Log.WithField("scope", "viewer")
	defer p.Dispose()

	ebiten.SetWindowSize(c.Width, c.Height)
	ebiten.SetWindowTitle(c.Title)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetTPS(c.FPS)

	p.Start()
	log.Debugf("window %dx%d, %d frames", c.Width, c.Height, p.Options().FrameCount)
	return ebiten.RunGame(New(p, s, c))
}

// Update handles input and advances the player (Ebiten interface)
func (v *Viewer) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) || inpututil.IsKeyJustPressed(ebiten.KeyQ) {
		return ebiten.Termination
	}
	v.handleScroll()

	target := v.scroll.progress()
	if v.cfg.Smooth {
		v.progress = v.smooth.Update(target)
	} else {
		v.progress = target
	}
	v.player.SetProgress(v.progress)
	v.player.Tick()
	return nil
}

func (v *Viewer) handleScroll() {
	if _, dy := ebiten.Wheel(); dy != 0 {
		v.scroll.by(-dy * v.cfg.WheelStep)
	}
	switch {
	case ebiten.IsKeyPressed(ebiten.KeyArrowDown) || ebiten.IsKeyPressed(ebiten.KeyJ):
		v.scroll.by(v.cfg.WheelStep / 4)
	case ebiten.IsKeyPressed(ebiten.KeyArrowUp) || ebiten.IsKeyPressed(ebiten.KeyK):
		v.scroll.by(-v.cfg.WheelStep / 4)
	}
	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeyPageDown) || inpututil.IsKeyJustPressed(ebiten.KeySpace):
		v.scroll.by(float64(v.h))
	case inpututil.IsKeyJustPressed(ebiten.KeyPageUp):
		v.scroll.by(-float64(v.h))
	case inpututil.IsKeyJustPressed(ebiten.KeyHome):
		v.scroll.top()
	case inpututil.IsKeyJustPressed(ebiten.KeyEnd):
		v.scroll.bottom()
	}
}

// Draw blits the player surface and the hero overlay (Ebiten interface)
func (v *Viewer) Draw(screen *ebiten.Image) {
	if img := v.surface.Image(); img != nil {
		screen.DrawImage(img, nil)
	}
	vector.DrawFilledRect(screen, 0, 0, float32(v.w), float32(v.h), colorOverlay, false)

	v.drawTitle(screen)
	v.drawHint(screen)

	if v.cfg.HUD {
		c := v.player.Cache()
		ebitenutil.DebugPrintAt(screen, fmt.Sprintf("frame %d/%d  painted %d  cached %d  loading %d  tps %.0f",
			v.player.Current(), v.player.Options().FrameCount, v.player.Painted(), c.Len(), c.InFlight(), ebiten.ActualTPS()), 8, v.h-20)
	}
}

func (v *Viewer) drawTitle(screen *ebiten.Image) {
	alpha := player.FadeOut(v.progress, 0, cfg.TitleFadeEnd)
	if alpha <= 0 {
		return
	}
	if v.titleImg == nil {
		v.titleImg = ebiten.NewImage(len(tag)*6+2, 34)
		ebitenutil.DebugPrintAt(v.titleImg, title, 0, 0)
		ebitenutil.DebugPrintAt(v.titleImg, tag, 0, 18)
	}
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(titleScale/2, titleScale/2)
	op.GeoM.Translate(float64(v.w)/12, float64(v.h)/2-float64(34*titleScale/4))
	op.ColorScale.ScaleAlpha(float32(alpha))
	screen.DrawImage(v.titleImg, op)
}

func (v *Viewer) drawHint(screen *ebiten.Image) {
	alpha := player.FadeOut(v.progress, 0, cfg.HintFadeEnd)
	if alpha <= 0 {
		return
	}
	if v.hintImg == nil {
		v.hintImg = ebiten.NewImage(len(hint)*6+2, 16)
		ebitenutil.DebugPrintAt(v.hintImg, hint, 0, 0)
	}
	b := v.hintImg.Bounds()
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Translate(float64(v.w-b.Dx())/2, float64(v.h-40))
	op.ColorScale.ScaleWithColor(colorHint)
	op.ColorScale.ScaleAlpha(float32(alpha))
	screen.DrawImage(v.hintImg, op)
}

// Layout follows the window size and resizes the player surface (Ebiten interface)
func (v *Viewer) Layout(outsideWidth, outsideHeight int) (int, int) {
	if outsideWidth != v.w || outsideHeight != v.h {
		first := v.w == 0 && v.h == 0
		v.w, v.h = outsideWidth, outsideHeight
		v.scroll.setViewport(outsideHeight)

		// the sticky canvas fills the viewport, the container is taller
		container := player.Size{W: outsideWidth, H: outsideHeight * v.cfg.ScrollScreens}
		viewport := player.Size{W: outsideWidth, H: outsideHeight}
		if first {
			v.player.ResizeNow(container, viewport)
		} else {
			v.player.Resize(container, viewport)
		}
	}
	return outsideWidth, outsideHeight
}
