// Package viewport decides whether a view renders its compact (narrow-screen)
// layout. The browser's width reaches the server as a client hint, a query
// parameter or a cookie kept current by the layout's resize listener.
package viewport

import (
	"net/http"
	"strconv"
	"strings"
	"sync"
)

// Common breakpoints used by the page views.
const (
	DefaultBreakpoint = 600
	NavBreakpoint     = 640
	CaseBreakpoint    = 700
)

// Header, query and cookie names carrying the browser width.
const (
	HintHeader = "Sec-CH-Viewport-Width"
	WidthParam = "vw"
)

// Classifier compares a width against one breakpoint.
type Classifier struct {
	Breakpoint int
}

// New returns a classifier for bp, falling back to DefaultBreakpoint.
func New(bp int) Classifier {
	if bp <= 0 {
		bp = DefaultBreakpoint
	}
	return Classifier{Breakpoint: bp}
}

// Compact reports width < Breakpoint. An unknown width (<= 0) is wide.
func (c Classifier) Compact(width int) bool {
	if width <= 0 {
		return false
	}
	return width < c.Breakpoint
}

// Tracker follows resize events for one dependent and notifies subscribers
// when the compact signal flips.
type Tracker struct {
	mu        sync.Mutex
	class     Classifier
	width     int
	compact   bool
	nextID    int
	listeners map[int]func(bool)
	order     []int
}

// NewTracker starts tracking at the given width.
func NewTracker(c Classifier, width int) *Tracker {
	return &Tracker{
		class:     c,
		width:     width,
		compact:   c.Compact(width),
		listeners: make(map[int]func(bool)),
	}
}

// Current returns the compact signal for the latest width.
func (t *Tracker) Current() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.compact
}

// Width returns the latest reported width.
func (t *Tracker) Width() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.width
}

// Resize records a new width. Subscribers are called only when the width
// crosses the breakpoint.
func (t *Tracker) Resize(width int) {
	t.mu.Lock()
	t.width = width
	next := t.class.Compact(width)
	if next == t.compact {
		t.mu.Unlock()
		return
	}
	t.compact = next
	fns := make([]func(bool), 0, len(t.order))
	for _, id := range t.order {
		fns = append(fns, t.listeners[id])
	}
	t.mu.Unlock()

	for _, fn := range fns {
		fn(next)
	}
}

// Subscribe registers fn for compact-signal changes. The returned release
// removes it and is safe to call more than once.
func (t *Tracker) Subscribe(fn func(compact bool)) (release func()) {
	t.mu.Lock()
	id := t.nextID
	t.nextID++
	t.listeners[id] = fn
	t.order = append(t.order, id)
	t.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			t.mu.Lock()
			defer t.mu.Unlock()
			delete(t.listeners, id)
			for i, v := range t.order {
				if v == id {
					t.order = append(t.order[:i], t.order[i+1:]...)
					break
				}
			}
		})
	}
}

// Listeners returns the number of live subscriptions.
func (t *Tracker) Listeners() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.listeners)
}

// FromRequest extracts the browser width from r, preferring the client hint,
// then the query parameter, then the cookie. It returns 0 when unknown.
func FromRequest(r *http.Request) int {
	if w := parseWidth(r.Header.Get(HintHeader)); w > 0 {
		return w
	}
	if w := parseWidth(r.URL.Query().Get(WidthParam)); w > 0 {
		return w
	}
	if c, err := r.Cookie(WidthParam); err == nil {
		return parseWidth(c.Value)
	}
	return 0
}

func parseWidth(s string) int {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	// Hints may carry fractional CSS pixels.
	if i := strings.IndexByte(s, '.'); i >= 0 {
		s = s[:i]
	}
	w, err := strconv.Atoi(s)
	if err != nil || w < 0 {
		return 0
	}
	return w
}
