package disclosure

// Accordion keeps at most one item open by storing the active id at the list
// level instead of one flag per item.
type Accordion[ID comparable] struct {
	active ID
	open   bool
}

// Select opens id, closing any other item. Selecting the active id closes it.
func (a *Accordion[ID]) Select(id ID) {
	a.active, a.open = a.Next(id)
}

// Next returns the state Select(id) would produce without applying it.
func (a *Accordion[ID]) Next(id ID) (ID, bool) {
	if a.open && a.active == id {
		var zero ID
		return zero, false
	}
	return id, true
}

// Active returns the open id, if any.
func (a *Accordion[ID]) Active() (ID, bool) {
	return a.active, a.open
}

// IsOpen reports whether id is the open item.
func (a *Accordion[ID]) IsOpen(id ID) bool {
	return a.open && a.active == id
}

// Reset closes the open item.
func (a *Accordion[ID]) Reset() {
	var zero ID
	a.active, a.open = zero, false
}
