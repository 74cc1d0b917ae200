package disclosure

import "sync"

// Target is the element an event was delivered to.
type Target interface {
	// Within reports whether the target is the element id or inside it.
	Within(id string) bool
}

// Element is a Target described by its id and its ancestors' ids.
type Element struct {
	ID        string
	Ancestors []string
}

// Within implements Target.
func (e Element) Within(id string) bool {
	if e.ID == id {
		return true
	}
	for _, a := range e.Ancestors {
		if a == id {
			return true
		}
	}
	return false
}

// Document delivers clicks that no element handler stopped.
type Document struct {
	mu        sync.Mutex
	nextID    int
	listeners map[int]func(Target)
	order     []int
}

// NewDocument returns an empty document.
func NewDocument() *Document {
	return &Document{listeners: make(map[int]func(Target))}
}

// Listen registers fn for document clicks. Release is idempotent.
func (d *Document) Listen(fn func(Target)) (release func()) {
	d.mu.Lock()
	id := d.nextID
	d.nextID++
	d.listeners[id] = fn
	d.order = append(d.order, id)
	d.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			d.mu.Lock()
			defer d.mu.Unlock()
			delete(d.listeners, id)
			for i, v := range d.order {
				if v == id {
					d.order = append(d.order[:i], d.order[i+1:]...)
					break
				}
			}
		})
	}
}

// Dispatch delivers a click on t to every listener.
func (d *Document) Dispatch(t Target) {
	d.mu.Lock()
	fns := make([]func(Target), 0, len(d.order))
	for _, id := range d.order {
		fns = append(fns, d.listeners[id])
	}
	d.mu.Unlock()

	for _, fn := range fns {
		fn(t)
	}
}

// Listeners returns the number of registered listeners.
func (d *Document) Listeners() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.listeners)
}

// Popover is a hover- or tap-driven disclosure. Each variant ignores the
// events that belong to the other.
type Popover interface {
	IsOpen() bool
	PointerEnter()
	PointerLeave()
	// Tap handles a tap on the trigger element.
	Tap()
	// Release drops any listener held by the popover.
	Release()
}

// NewPopover picks the variant for the layout at mount time.
func NewPopover(compact bool, doc *Document, trigger, panel string) Popover {
	if compact {
		return &TapPopover{doc: doc, trigger: trigger, panel: panel}
	}
	return &HoverPopover{}
}

// HoverPopover follows the pointer on wide layouts.
type HoverPopover struct {
	open bool
}

func (p *HoverPopover) IsOpen() bool  { return p.open }
func (p *HoverPopover) PointerEnter() { p.open = true }
func (p *HoverPopover) PointerLeave() { p.open = false }
func (p *HoverPopover) Tap()          {}
func (p *HoverPopover) Release()      { p.open = false }

// TapPopover toggles on trigger taps on compact layouts. While open it holds a
// document listener that closes it on taps outside both trigger and panel.
type TapPopover struct {
	doc     *Document
	trigger string
	panel   string
	open    bool
	release func()
}

func (p *TapPopover) IsOpen() bool  { return p.open }
func (p *TapPopover) PointerEnter() {}
func (p *TapPopover) PointerLeave() {}

// Tap toggles the popover. The trigger stops propagation, so the document
// listener never sees this tap.
func (p *TapPopover) Tap() {
	if p.open {
		p.close()
		return
	}
	p.open = true
	p.release = p.doc.Listen(p.onDocumentClick)
}

// Open shows the popover as if its trigger had been tapped.
func (p *TapPopover) Open() {
	if !p.open {
		p.Tap()
	}
}

func (p *TapPopover) Release() { p.close() }

func (p *TapPopover) onDocumentClick(t Target) {
	if t.Within(p.panel) || t.Within(p.trigger) {
		return
	}
	p.close()
}

func (p *TapPopover) close() {
	p.open = false
	if p.release != nil {
		p.release()
		p.release = nil
	}
}
