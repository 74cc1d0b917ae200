package disclosure

// EscapeKey is the key name that closes an open modal.
const EscapeKey = "Escape"

// Modal is a single-slot dialog or lightbox. Opening while open replaces the
// content.
type Modal[T any] struct {
	open    bool
	content T
}

// Open shows p.
func (m *Modal[T]) Open(p T) {
	m.open = true
	m.content = p
}

// Close hides the modal and drops its content.
func (m *Modal[T]) Close() {
	var zero T
	m.open = false
	m.content = zero
}

// IsOpen reports whether the modal is shown.
func (m *Modal[T]) IsOpen() bool { return m.open }

// Content returns the shown payload; the zero value when closed.
func (m *Modal[T]) Content() T { return m.content }

// HandleKey closes the modal on Escape and reports whether it did.
func (m *Modal[T]) HandleKey(key string) bool {
	if key != EscapeKey || !m.open {
		return false
	}
	m.Close()
	return true
}

// BackdropClick closes the modal.
func (m *Modal[T]) BackdropClick() { m.Close() }
