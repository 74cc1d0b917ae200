// Package disclosure holds the small state machines behind the site's
// interactive affordances: expandable text, single-select accordions, modals,
// hover/tap popovers and tab selectors.
package disclosure

// Expandable tracks a collapsed/expanded text block. It starts collapsed.
type Expandable struct {
	expanded bool
}

// Expand is a no-op when already expanded.
func (e *Expandable) Expand() { e.expanded = true }

// Collapse is a no-op when already collapsed.
func (e *Expandable) Collapse() { e.expanded = false }

// Toggle flips the state.
func (e *Expandable) Toggle() { e.expanded = !e.expanded }

// Expanded reports the current state.
func (e *Expandable) Expanded() bool { return e.expanded }

// Truncate shortens text to limit runes plus an ellipsis unless expanded.
// The boolean reports whether anything was cut.
func Truncate(text string, limit int, expanded bool) (string, bool) {
	r := []rune(text)
	if expanded || limit <= 0 || len(r) <= limit {
		return text, false
	}
	return string(r[:limit]) + "…", true
}
