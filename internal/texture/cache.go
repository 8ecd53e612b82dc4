package texture

import "image"

// Entry is one uploaded texture: the decoded RGBA image, the frame number
// it was last touched on, and its byte footprint for budget accounting.
type Entry struct {
	Image       *image.RGBA
	WindowID    uint64
	FrameNumber uint64
	Bytes       int
	Fallback    bool // true if this is a solid-color soft-fail placeholder
}

// Cache is the frame-keyed LRU texture cache. Entries are kept in two
// generations — res (this generation's live set) and prev (last
// generation's, not yet confirmed dead) — and a generation advance
// (AdvanceFrame) demotes res to prev and starts a fresh res, discarding
// whatever prev held that wasn't re-touched; this mirrors gio's
// gpu/caches.go res/newRes double-map swap, adapted from gio's
// per-draw-op cache key to Axiom's per-window texture key.
type Cache struct {
	res  map[uint64]*Entry
	prev map[uint64]*Entry

	byteBudget int
	usedBytes  int
}

// NewCache creates a texture cache with the given byte budget.
func NewCache(byteBudget int) *Cache {
	return &Cache{
		res:        make(map[uint64]*Entry),
		prev:       make(map[uint64]*Entry),
		byteBudget: byteBudget,
	}
}

// Get returns the cached texture for windowID, checking the current
// generation first and falling back to (and promoting from) the previous
// one, per gio's retain-across-frames lookup order.
func (c *Cache) Get(windowID uint64) (*Entry, bool) {
	if e, ok := c.res[windowID]; ok {
		return e, true
	}
	if e, ok := c.prev[windowID]; ok {
		c.res[windowID] = e
		delete(c.prev, windowID)
		return e, true
	}
	return nil, false
}

// Put inserts or replaces windowID's cached texture, evicting older
// entries under the byte budget if necessary (see evictUntilFits).
func (c *Cache) Put(e *Entry) {
	if old, ok := c.res[e.WindowID]; ok {
		c.usedBytes -= old.Bytes
	} else if old, ok := c.prev[e.WindowID]; ok {
		c.usedBytes -= old.Bytes
		delete(c.prev, e.WindowID)
	}
	c.evictUntilFits(e.Bytes)
	c.res[e.WindowID] = e
	c.usedBytes += e.Bytes
}

// evictUntilFits evicts least-recently-touched entries (oldest
// FrameNumber first) from the previous generation, then the current one,
// until there is room for incoming bytes, or nothing left to evict.
// Crossing the 50% usage threshold during eviction triggers Axiom's
// "emergency eviction" policy: drop everything in the previous generation
// outright rather than eviction one at a time.
func (c *Cache) evictUntilFits(incoming int) {
	if c.byteBudget <= 0 {
		return
	}
	if float64(c.usedBytes+incoming) >= 0.5*float64(c.byteBudget) && len(c.prev) > 0 {
		for _, e := range c.prev {
			c.usedBytes -= e.Bytes
		}
		c.prev = make(map[uint64]*Entry)
	}
	for c.usedBytes+incoming > c.byteBudget {
		evicted := c.evictOldest(c.prev)
		if !evicted {
			evicted = c.evictOldest(c.res)
		}
		if !evicted {
			return
		}
	}
}

func (c *Cache) evictOldest(gen map[uint64]*Entry) bool {
	var oldestID uint64
	var oldest *Entry
	for id, e := range gen {
		if oldest == nil || e.FrameNumber < oldest.FrameNumber {
			oldestID, oldest = id, e
		}
	}
	if oldest == nil {
		return false
	}
	c.usedBytes -= oldest.Bytes
	delete(gen, oldestID)
	return true
}

// AdvanceFrame demotes the current generation to "previous" and starts a
// fresh current generation. Call once per render frame after all windows
// visible this frame have been Put/Get'd.
func (c *Cache) AdvanceFrame() {
	for _, e := range c.prev {
		c.usedBytes -= e.Bytes
	}
	c.prev = c.res
	c.res = make(map[uint64]*Entry)
}

// UsedBytes reports current total cache footprint (both generations).
func (c *Cache) UsedBytes() int {
	total := 0
	for _, e := range c.res {
		total += e.Bytes
	}
	for _, e := range c.prev {
		total += e.Bytes
	}
	return total
}

// Remove drops windowID's entry from both generations, e.g. on window
// close.
func (c *Cache) Remove(windowID uint64) {
	if e, ok := c.res[windowID]; ok {
		c.usedBytes -= e.Bytes
		delete(c.res, windowID)
	}
	delete(c.prev, windowID)
}
