package gallery

import (
	"log/slog"
	"sync"
)

// Settler runs done once whatever follows a load (a scroll or transition) has finished.
// A nil Settler settles immediately.
type Settler func(done func())

// DragState is the transient gesture state. It is empty outside an active gesture.
type DragState struct {
	HasOrigin   bool    `json:"has_origin"`
	TouchStartX float64 `json:"touch_start_x,omitempty"`
	IsDragging  bool    `json:"is_dragging"`
}

// State is a snapshot of a Controller.
type State struct {
	Mode           string    `json:"mode"`
	Total          int       `json:"total"`
	CurrentPage    int       `json:"current_page"`
	TotalPages     int       `json:"total_pages"`
	Direction      Direction `json:"direction"`
	RevealCount    int       `json:"reveal_count"`
	Exhausted      bool      `json:"exhausted"`
	Selected       ImagePath `json:"selected,omitempty"`
	HasSelection   bool      `json:"has_selection"`
	Loading        bool      `json:"loading"`
	ScrollToOrigin bool      `json:"scroll_to_origin"`
	Drag           DragState `json:"drag"`
}

// Controller owns the gallery state. All methods are safe for concurrent use; events
// are applied one at a time.
type Controller struct {
	mu     sync.Mutex
	images Collection
	cfg    Config
	swipe  Classifier

	page      int
	direction Direction

	revealCount    int
	loading        bool
	loadGen        int
	// scrollToOrigin is set by a wraparound load and cleared by the next other event.
	scrollToOrigin bool

	selected     ImagePath
	hasSelection bool

	touchStartX float64
	hasOrigin   bool
	dragging    bool

	sentinelVisible bool
	settle          Settler
	unsubscribe     func()

	// wrap computes the next page; replaced in tests.
	wrap func(page, total int) int
}

// New mounts a controller over images with defaults: first page, initial reveal
// count, nothing selected.
func New(images Collection, cfg Config) *Controller {
	c := &Controller{
		images: images,
		cfg:    cfg.Normalize(),
		wrap:   wrapPage,
	}
	c.swipe = c.cfg.Classifier()
	c.resetLocked()
	return c
}

func wrapPage(page, total int) int {
	return ((page % total) + total) % total
}

// Config returns the normalized configuration.
func (c *Controller) Config() Config {
	return c.cfg
}

// Images returns the backing collection.
func (c *Controller) Images() Collection {
	return c.images
}

// State returns a snapshot.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stateLocked()
}

func (c *Controller) stateLocked() State {
	return State{
		Mode:           c.cfg.Mode.String(),
		Total:          c.images.Len(),
		CurrentPage:    c.page,
		TotalPages:     c.totalPagesLocked(),
		Direction:      c.direction,
		RevealCount:    c.revealCount,
		Exhausted:      c.revealCount >= c.images.Len(),
		Selected:       c.selected,
		HasSelection:   c.hasSelection,
		Loading:        c.loading,
		ScrollToOrigin: c.scrollToOrigin,
		Drag: DragState{
			HasOrigin:   c.hasOrigin,
			TouchStartX: c.touchStartX,
			IsDragging:  c.dragging,
		},
	}
}

func (c *Controller) totalPagesLocked() int {
	n := c.images.Len()
	if n == 0 {
		return 0
	}
	return (n + c.cfg.PageSize - 1) / c.cfg.PageSize
}

// Reset returns to the initial view. A load still settling from before the reset
// no longer affects the loading flag.
func (c *Controller) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.resetLocked()
}

func (c *Controller) resetLocked() {
	c.page = 0
	c.direction = None
	c.revealCount = min(c.cfg.InitialRevealCount, c.images.Len())
	c.loading = false
	c.loadGen++
	c.scrollToOrigin = false
	c.selected = ""
	c.hasSelection = false
	c.clearDragLocked()
}

// Visible returns the cells currently on screen.
func (c *Controller) Visible() []Cell {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.visibleLocked()
}

func (c *Controller) visiblePathsLocked() []ImagePath {
	if c.cfg.Mode == ModeReveal {
		return c.images.slice(0, c.revealCount)
	}
	from := c.page * c.cfg.PageSize
	return c.images.slice(from, from+c.cfg.PageSize)
}

func (c *Controller) visibleLocked() []Cell {
	paths := c.visiblePathsLocked()
	cells := make([]Cell, len(paths))
	for i, p := range paths {
		cells[i] = Cell{
			Path:     p,
			Index:    i,
			Selected: c.hasSelection && c.selected == p,
		}
	}
	return cells
}

func (c *Controller) isVisibleLocked(p ImagePath) bool {
	for _, v := range c.visiblePathsLocked() {
		if v == p {
			return true
		}
	}
	return false
}

// Paginate moves one page in the sign of dir, wrapping around both ends. It does
// nothing while an image is expanded or outside paging mode.
func (c *Controller) Paginate(dir Direction) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.scrollToOrigin = false
	c.paginateLocked(dir)
}

func (c *Controller) paginateLocked(dir Direction) {
	dir = directionOf(int(dir))
	if c.cfg.Mode != ModePaging || c.hasSelection || dir == None {
		return
	}
	total := c.totalPagesLocked()
	if total == 0 {
		return
	}

	defer func() {
		if r := recover(); r != nil {
			slog.Warn("Gallery pagination failed, resetting view", "panic", r, "page", c.page, "direction", dir)
			c.resetLocked()
		}
	}()

	c.page = c.wrap(c.page+int(dir), total)
	c.direction = dir
}

// GoToPage steps one page toward index, as the page dots do.
func (c *Controller) GoToPage(index int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.scrollToOrigin = false
	if index < 0 || index >= c.totalPagesLocked() || index == c.page {
		return
	}
	if index > c.page {
		c.paginateLocked(Next)
	} else {
		c.paginateLocked(Prev)
	}
}

// SelectImage toggles p: selecting the expanded image collapses it, selecting any
// other visible image replaces the selection. Images not on screen are ignored, as
// are clicks that end a drag.
func (c *Controller) SelectImage(p ImagePath) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.scrollToOrigin = false
	if c.dragging || !c.isVisibleLocked(p) {
		return
	}
	if c.hasSelection && c.selected == p {
		c.selected = ""
		c.hasSelection = false
		return
	}
	c.selected = p
	c.hasSelection = true
}

// SetSelection expands p without toggling. It is a no-op for images not on screen.
func (c *Controller) SetSelection(p ImagePath) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.scrollToOrigin = false
	if !c.isVisibleLocked(p) {
		return
	}
	c.selected = p
	c.hasSelection = true
}

// ClearSelection collapses the expanded image, if any.
func (c *Controller) ClearSelection() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.scrollToOrigin = false
	c.selected = ""
	c.hasSelection = false
}

// Selected returns the expanded image.
func (c *Controller) Selected() (ImagePath, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.selected, c.hasSelection
}

// LoadMore reveals the next batch, or wraps back to the initial count once every
// image is shown. While a previous load has not settled the call is dropped and ok
// is false. On success the caller must invoke done after its continuation finishes.
func (c *Controller) LoadMore() (done func(), ok bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loadMoreLocked()
}

func (c *Controller) loadMoreLocked() (func(), bool) {
	if c.cfg.Mode != ModeReveal || c.loading {
		return func() {}, false
	}
	c.loading = true
	c.loadGen++
	gen := c.loadGen

	total := c.images.Len()
	if c.revealCount >= total {
		c.revealCount = min(c.cfg.InitialRevealCount, total)
		c.scrollToOrigin = true
		if c.hasSelection && !c.isVisibleLocked(c.selected) {
			c.selected = ""
			c.hasSelection = false
		}
	} else {
		c.revealCount = min(c.revealCount+c.cfg.LoadMoreIncrement, total)
		c.scrollToOrigin = false
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			c.mu.Lock()
			defer c.mu.Unlock()
			if c.loadGen == gen {
				c.loading = false
			}
		})
	}, true
}

// Mount subscribes the load-more sentinel to feed. Each transition of the sentinel
// into view triggers one LoadMore when nothing is loading and images remain. Loads
// started this way are settled through settle. Mounting again replaces the previous
// subscription.
func (c *Controller) Mount(feed VisibilityFeed, settle Settler) {
	c.mu.Lock()
	prev := c.unsubscribe
	c.unsubscribe = nil
	c.sentinelVisible = false
	c.settle = settle
	c.mu.Unlock()

	if prev != nil {
		prev()
	}
	unsubscribe := feed.Subscribe(c.observeSentinel)

	c.mu.Lock()
	c.unsubscribe = unsubscribe
	c.mu.Unlock()
}

// Unmount releases the sentinel subscription. It is safe to call when not mounted.
func (c *Controller) Unmount() {
	c.mu.Lock()
	unsubscribe := c.unsubscribe
	c.unsubscribe = nil
	c.sentinelVisible = false
	c.mu.Unlock()

	if unsubscribe != nil {
		unsubscribe()
	}
}

// Mounted reports whether a sentinel subscription is held.
func (c *Controller) Mounted() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.unsubscribe != nil
}

func (c *Controller) observeSentinel(visible bool) {
	c.mu.Lock()
	c.scrollToOrigin = false
	rising := visible && !c.sentinelVisible
	c.sentinelVisible = visible
	if !rising || c.loading || c.revealCount >= c.images.Len() {
		c.mu.Unlock()
		return
	}
	done, ok := c.loadMoreLocked()
	settle := c.settle
	c.mu.Unlock()

	if !ok {
		return
	}
	slog.Debug("Gallery auto-load triggered")
	if settle == nil {
		done()
		return
	}
	settle(done)
}

// TouchStart records the origin of a touch gesture. Ignored while an image is expanded.
func (c *Controller) TouchStart(x float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.scrollToOrigin = false
	if c.hasSelection {
		return
	}
	c.touchStartX = x
	c.hasOrigin = true
	c.dragging = true
}

// TouchMove turns the page once the finger has travelled past the threshold. The
// origin is consumed so one continuous drag turns at most one page.
func (c *Controller) TouchMove(x float64) Direction {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.scrollToOrigin = false
	if !c.hasOrigin || c.hasSelection {
		return None
	}
	dir := c.swipe.Classify(InputTouch, c.touchStartX, x, 0)
	if dir == None {
		return None
	}
	c.hasOrigin = false
	c.touchStartX = 0
	c.paginateLocked(dir)
	return dir
}

// TouchEnd clears the gesture state whatever happened during the drag.
func (c *Controller) TouchEnd() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.scrollToOrigin = false
	c.clearDragLocked()
}

// DragStart marks a pointer drag in progress.
func (c *Controller) DragStart() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.scrollToOrigin = false
	if c.hasSelection {
		return
	}
	c.dragging = true
}

// DragEnd classifies a released pointer drag by swipe power. A weak drag snaps back
// without a state change. Gesture state is cleared either way.
func (c *Controller) DragEnd(offset, velocity float64) Direction {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.scrollToOrigin = false
	defer c.clearDragLocked()
	if c.hasSelection {
		return None
	}
	dir := c.swipe.Classify(InputPointer, 0, offset, velocity)
	c.paginateLocked(dir)
	return dir
}

func (c *Controller) clearDragLocked() {
	c.touchStartX = 0
	c.hasOrigin = false
	c.dragging = false
}
