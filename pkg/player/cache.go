package player

import (
	"context"
	"image"
	"sort"
	"sync"

	"github.com/remeh/sizedwaitgroup"
	"github.com/zyedidia/generic/mapset"

	"github.com/1F47E/go-scrollreel/pkg/logger"
)

// Frame is a decoded frame. image.Image and *ebiten.Image both satisfy it.
type Frame interface {
	Bounds() image.Rectangle
}

// FetchFunc fetches and decodes frame index.
type FetchFunc func(ctx context.Context, index int) (Frame, error)

// Cache holds decoded frames by index and de-duplicates their fetches:
// there is at most one fetch in flight per index.
type Cache struct {
	fetch FetchFunc

	// OnLoad is called after a frame was inserted.
	OnLoad func(index int)
	// OnEvict is called for every frame removed from the cache.
	OnEvict func(index int, f Frame)

	ctx      context.Context
	cancel   context.CancelFunc
	limit    sizedwaitgroup.SizedWaitGroup
	inflight sync.WaitGroup

	mu      sync.Mutex
	frames  map[int]Frame
	loading mapset.Set[int]
	pending map[int]chan struct{}
	fetches int
	closed  bool
}

// NewCache returns a cache that runs at most limit fetches at once.
func NewCache(fetch FetchFunc, limit int) *Cache {
	if limit < 1 {
		limit = 1
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Cache{
		fetch:   fetch,
		ctx:     ctx,
		cancel:  cancel,
		limit:   sizedwaitgroup.New(limit),
		frames:  make(map[int]Frame),
		loading: mapset.New[int](),
		pending: make(map[int]chan struct{}),
	}
}

var closedCh = func() chan struct{} {
	ch := make(chan struct{})
	close(ch)
	return ch
}()

// Load makes sure frame index is cached or being fetched. The returned
// channel is closed once the frame is available or its fetch has failed.
// Loading a cached frame returns immediately and loading a frame that is
// already being fetched returns the channel of that fetch.
func (c *Cache) Load(index int) <-chan struct{} {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return closedCh
	}
	if _, ok := c.frames[index]; ok {
		return closedCh
	}
	if c.loading.Has(index) {
		return c.pending[index]
	}

	done := make(chan struct{})
	c.loading.Put(index)
	c.pending[index] = done
	c.fetches++
	c.inflight.Add(1)
	go c.run(index, done)
	return done
}

func (c *Cache) run(index int, done chan struct{}) {
	defer c.inflight.Done()
	defer close(done)

	var (
		f   Frame
		err error
	)
	if err = c.limit.AddWithContext(c.ctx); err == nil {
		f, err = c.fetch(c.ctx, index)
		c.limit.Done()
	}

	c.mu.Lock()
	c.loading.Remove(index)
	delete(c.pending, index)
	inserted := false
	if err == nil && f != nil && !c.closed {
		c.frames[index] = f
		inserted = true
	}
	c.mu.Unlock()

	if err != nil {
		logger.Log.WithField("scope", "frame cache").Debugf("frame %d not loaded: %v", index, err)
		return
	}
	if inserted && c.OnLoad != nil {
		c.OnLoad(index)
	}
}

// Has reports whether frame index is cached.
func (c *Cache) Has(index int) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.frames[index]
	return ok
}

// Get returns the cached frame index.
func (c *Cache) Get(index int) (Frame, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	f, ok := c.frames[index]
	return f, ok
}

// Nearest returns the cached frame closest to index and its own index.
// On a tie the earlier frame wins.
func (c *Cache) Nearest(index int) (Frame, int, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if f, ok := c.frames[index]; ok {
		return f, index, true
	}
	best, bestDist := 0, -1
	for k := range c.frames {
		d := k - index
		if d < 0 {
			d = -d
		}
		if bestDist < 0 || d < bestDist || (d == bestDist && k < best) {
			best, bestDist = k, d
		}
	}
	if bestDist < 0 {
		return nil, 0, false
	}
	return c.frames[best], best, true
}

// Loading reports whether frame index is being fetched.
func (c *Cache) Loading(index int) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loading.Has(index)
}

// Len returns the number of cached frames.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.frames)
}

// InFlight returns the number of fetches currently running or queued.
func (c *Cache) InFlight() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loading.Size()
}

// Fetches returns the number of fetches started so far.
func (c *Cache) Fetches() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.fetches
}

// Indices returns the cached frame indices in ascending order.
func (c *Cache) Indices() []int {
	c.mu.Lock()
	idx := make([]int, 0, len(c.frames))
	for k := range c.frames {
		idx = append(idx, k)
	}
	c.mu.Unlock()
	sort.Ints(idx)
	return idx
}

// Evict removes every cached frame outside [lo, hi] and returns how many
// were removed. Fetches in flight are not affected.
func (c *Cache) Evict(lo, hi int) int {
	c.mu.Lock()
	var gone map[int]Frame
	for k, f := range c.frames {
		if k >= lo && k <= hi {
			continue
		}
		if gone == nil {
			gone = make(map[int]Frame)
		}
		gone[k] = f
		delete(c.frames, k)
	}
	c.mu.Unlock()

	c.evicted(gone)
	return len(gone)
}

// Clear removes all cached frames.
func (c *Cache) Clear() {
	c.mu.Lock()
	gone := c.frames
	c.frames = make(map[int]Frame)
	c.mu.Unlock()

	c.evicted(gone)
}

func (c *Cache) evicted(gone map[int]Frame) {
	if c.OnEvict == nil {
		return
	}
	for k, f := range gone {
		c.OnEvict(k, f)
	}
}

// Wait blocks until no fetch is in flight.
func (c *Cache) Wait() {
	c.inflight.Wait()
}

// Close cancels fetches in flight, waits for them to return and clears the
// cache. Frames fetched after Close are discarded. Close is idempotent.
func (c *Cache) Close() {
	c.mu.Lock()
	c.closed = true
	c.mu.Unlock()

	c.cancel()
	c.inflight.Wait()
	c.Clear()
}
