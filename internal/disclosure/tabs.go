package disclosure

// Tabs keeps exactly one active key out of a fixed set.
type Tabs[K comparable] struct {
	keys   []K
	active K
}

// NewTabs selects the first key. It panics on an empty key set.
func NewTabs[K comparable](keys ...K) *Tabs[K] {
	if len(keys) == 0 {
		panic("disclosure: tabs need at least one key")
	}
	return &Tabs[K]{keys: keys, active: keys[0]}
}

// Select makes k active. Keys outside the set are ignored.
func (t *Tabs[K]) Select(k K) {
	if t.Has(k) {
		t.active = k
	}
}

// Active returns the selected key.
func (t *Tabs[K]) Active() K { return t.active }

// Keys returns the key set in order.
func (t *Tabs[K]) Keys() []K { return t.keys }

// Has reports whether k belongs to the set.
func (t *Tabs[K]) Has(k K) bool {
	for _, v := range t.keys {
		if v == k {
			return true
		}
	}
	return false
}
