// Package player plays a numbered frame sequence in step with a scroll
// position.
//
// A Player maps scroll progress to a frame index, keeps a window of frames
// around that index resident in a Cache, evicts the rest and paints the
// current frame onto a Surface with a cover fit. Paints are coalesced: any
// number of progress updates between two calls to Tick produce one paint.
package player

import (
	"errors"
	"fmt"
	"runtime"
	"sync"
	"time"

	cfg "github.com/1F47E/go-scrollreel/pkg/config"
	"github.com/1F47E/go-scrollreel/pkg/logger"
)

var log = logger.Log

// Options configures a Player.
type Options struct {
	FrameCount int
	// PreloadWindow frames on each side of the current one are fetched.
	PreloadWindow int
	// RetainWindow frames on each side of the current one are kept, the
	// rest is evicted. Zero means PreloadWindow.
	RetainWindow int
	// InitialPreload frames from the start are fetched by Start.
	InitialPreload int
	// Canvases narrower than MobileBreakpoint contain the frame instead
	// of covering.
	MobileBreakpoint int
	ResizeDelay      time.Duration
	// MaxConcurrentLoads bounds the fetches running at once. Zero means
	// the number of CPUs.
	MaxConcurrentLoads int
}

// DefaultOptions returns the options of the hero sequence.
func DefaultOptions() Options {
	return Options{
		FrameCount:       cfg.FrameCount,
		PreloadWindow:    cfg.PreloadWindow,
		InitialPreload:   cfg.InitialPreload,
		MobileBreakpoint: cfg.MobileBreakpoint,
		ResizeDelay:      cfg.ResizeDelay,
	}
}

func (o *Options) validate() error {
	if o.FrameCount < 1 {
		return fmt.Errorf("frame count must be positive: %d", o.FrameCount)
	}
	if o.PreloadWindow < 0 {
		return fmt.Errorf("preload window must not be negative: %d", o.PreloadWindow)
	}
	if o.RetainWindow == 0 {
		o.RetainWindow = o.PreloadWindow
	}
	if o.RetainWindow < o.PreloadWindow {
		return fmt.Errorf("retain window %d smaller than preload window %d", o.RetainWindow, o.PreloadWindow)
	}
	if o.InitialPreload < 0 {
		o.InitialPreload = 0
	}
	if o.InitialPreload > o.FrameCount {
		o.InitialPreload = o.FrameCount
	}
	if o.MaxConcurrentLoads <= 0 {
		o.MaxConcurrentLoads = runtime.NumCPU()
	}
	return nil
}

var errNoSurface = errors.New("no surface")

// Player binds scroll progress to the frames of a sequence.
type Player struct {
	opts    Options
	surface Surface
	cache   *Cache
	sched   *Scheduler
	resize  *Debouncer

	mu       sync.Mutex
	current  int   // last requested frame
	painted  int   // frame last drawn, 0 before the first paint
	resized  *Size // debounced size waiting for the next Tick
	disposed bool
}

// New returns a player painting on s the frames returned by fetch.
func New(s Surface, fetch FetchFunc, opts Options) (*Player, error) {
	if s == nil {
		return nil, errNoSurface
	}
	if err := opts.validate(); err != nil {
		return nil, err
	}
	p := &Player{
		opts:    opts,
		surface: s,
		current: 1,
		resize:  NewDebouncer(opts.ResizeDelay),
	}
	p.cache = NewCache(fetch, opts.MaxConcurrentLoads)
	p.cache.OnLoad = p.loaded
	p.sched = NewScheduler(func(index int) { p.Paint(index) })
	return p, nil
}

// Options returns the validated options.
func (p *Player) Options() Options {
	return p.opts
}

// Cache returns the frame cache.
func (p *Player) Cache() *Cache {
	return p.cache
}

// Start fetches the first InitialPreload frames. The returned channel is
// closed when all of them have loaded or failed, at which point a paint of
// the current frame is scheduled.
func (p *Player) Start() <-chan struct{} {
	log.WithField("scope", "player").Debugf("preloading %d of %d frames", p.opts.InitialPreload, p.opts.FrameCount)
	pending := make([]<-chan struct{}, 0, p.opts.InitialPreload)
	for i := 1; i <= p.opts.InitialPreload; i++ {
		pending = append(pending, p.cache.Load(i))
	}
	ready := make(chan struct{})
	go func() {
		defer close(ready)
		for _, ch := range pending {
			<-ch
		}
		p.mu.Lock()
		current, disposed := p.current, p.disposed
		p.mu.Unlock()
		if !disposed {
			p.sched.Request(current)
		}
	}()
	return ready
}

// SetProgress moves the player to the frame matching progress and returns
// that frame. When the frame changes the window around it is fetched, frames
// outside the retained window are evicted and a paint is scheduled.
func (p *Player) SetProgress(progress float64) int {
	index := FrameIndexOf(progress, p.opts.FrameCount)

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.disposed || index == p.current {
		return index
	}
	p.current = index
	p.preload(index)
	p.evict(index)
	p.sched.Request(index)
	return index
}

// preload fetches the window around index, nearest frames first.
func (p *Player) preload(index int) {
	w := p.opts.PreloadWindow
	p.cache.Load(index)
	for d := 1; d <= w; d++ {
		if i := index + d; i <= p.opts.FrameCount {
			p.cache.Load(i)
		}
		if i := index - d; i >= 1 {
			p.cache.Load(i)
		}
	}
}

func (p *Player) evict(index int) {
	w := p.opts.RetainWindow
	if n := p.cache.Evict(index-w, index+w); n > 0 {
		log.WithField("scope", "player").Debugf("evicted %d frames around %d", n, index)
	}
}

// loaded repaints when the frame on screen is a stand-in for the one that
// just arrived.
func (p *Player) loaded(index int) {
	p.mu.Lock()
	want := !p.disposed && index == p.current && p.painted != index
	p.mu.Unlock()
	if want {
		p.sched.Request(index)
	}
}

// Current returns the last requested frame.
func (p *Player) Current() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.current
}

// Painted returns the frame last drawn, 0 if nothing was drawn yet.
func (p *Player) Painted() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.painted
}

// Tick is the animation frame hook: it applies a debounced resize and
// performs the pending paint, if any. It reports whether it painted.
func (p *Player) Tick() bool {
	p.mu.Lock()
	size := p.resized
	p.resized = nil
	p.mu.Unlock()
	if size != nil {
		p.setSize(*size)
	}
	return p.sched.Flush()
}

// Paint draws frame index, or the nearest cached frame when index is not
// cached. It reports whether anything was drawn; with no frame cached the
// surface is left as it is.
func (p *Player) Paint(index int) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.disposed {
		return false
	}
	f, at, ok := p.cache.Nearest(index)
	if !ok {
		return false
	}
	w, h := p.surface.Size()
	canvas := Size{W: w, H: h}
	if canvas.empty() {
		return false
	}
	r := Fit(canvas, sizeOf(f.Bounds()), p.opts.MobileBreakpoint)
	p.surface.Clear()
	p.surface.DrawFrame(f, r)
	p.painted = at
	return true
}

// Resize schedules a resize of the surface to the container bounds clamped
// to the viewport. Bursts of calls within the resize delay apply only the
// last one, on the first Tick after the delay.
func (p *Player) Resize(container, viewport Size) {
	size := surfaceSize(container, viewport)
	p.resize.Trigger(func() {
		p.mu.Lock()
		if !p.disposed {
			p.resized = &size
		}
		p.mu.Unlock()
	})
}

// ResizeNow applies a resize immediately and schedules a repaint of the
// current frame.
func (p *Player) ResizeNow(container, viewport Size) {
	p.setSize(surfaceSize(container, viewport))
}

func surfaceSize(container, viewport Size) Size {
	w, h := container.W, container.H
	if viewport.W > 0 {
		w = min(w, viewport.W)
	}
	if viewport.H > 0 {
		h = min(h, viewport.H)
	}
	return Size{W: max(w, 0), H: max(h, 0)}
}

func (p *Player) setSize(size Size) {
	p.mu.Lock()
	if p.disposed {
		p.mu.Unlock()
		return
	}
	p.surface.SetSize(size.W, size.H)
	current := p.current
	p.mu.Unlock()

	log.WithField("scope", "player").Debugf("surface resized to %dx%d", size.W, size.H)
	p.sched.Request(current)
}

// Dispose releases the player: pending resizes and paints are dropped,
// fetches in flight are cancelled and awaited and the cache is cleared.
// Dispose is idempotent.
func (p *Player) Dispose() {
	p.mu.Lock()
	if p.disposed {
		p.mu.Unlock()
		return
	}
	p.disposed = true
	p.resized = nil
	p.mu.Unlock()

	p.resize.Stop()
	p.sched.Drop()
	p.cache.Close()
}
