package disclosure

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpandableIdempotent(t *testing.T) {
	var e Expandable
	assert.False(t, e.Expanded())

	e.Expand()
	e.Expand()
	assert.True(t, e.Expanded())

	e.Collapse()
	e.Collapse()
	assert.False(t, e.Expanded())

	e.Toggle()
	assert.True(t, e.Expanded())
}

func TestTruncate(t *testing.T) {
	s, cut := Truncate("héllo world", 5, false)
	assert.Equal(t, "héllo…", s)
	assert.True(t, cut)

	s, cut = Truncate("héllo world", 5, true)
	assert.Equal(t, "héllo world", s)
	assert.False(t, cut)

	s, cut = Truncate("short", 50, false)
	assert.Equal(t, "short", s)
	assert.False(t, cut)
}

func TestAccordionAtMostOneOpen(t *testing.T) {
	var a Accordion[int]
	seq := []int{3, 1, 1, 4, 4, 4, 2, 3}
	for _, id := range seq {
		a.Select(id)
		open := 0
		for _, other := range []int{1, 2, 3, 4} {
			if a.IsOpen(other) {
				open++
			}
		}
		assert.LessOrEqual(t, open, 1)
	}
}

func TestAccordionReselectCloses(t *testing.T) {
	var a Accordion[string]
	a.Select("A")
	id, ok := a.Active()
	require.True(t, ok)
	assert.Equal(t, "A", id)

	a.Select("B")
	assert.False(t, a.IsOpen("A"))
	assert.True(t, a.IsOpen("B"))

	a.Select("B")
	_, ok = a.Active()
	assert.False(t, ok)
}

func TestAccordionNextDoesNotMutate(t *testing.T) {
	var a Accordion[int]
	a.Select(5)

	id, ok := a.Next(5)
	assert.False(t, ok)
	assert.Zero(t, id)

	id, ok = a.Next(6)
	assert.True(t, ok)
	assert.Equal(t, 6, id)

	assert.True(t, a.IsOpen(5))

	a.Reset()
	assert.False(t, a.IsOpen(5))
}

func TestModalOpenClose(t *testing.T) {
	var m Modal[string]
	m.Open("/persona.png")
	m.Close()
	assert.False(t, m.IsOpen())
	assert.Empty(t, m.Content())

	m.Open("p1")
	m.Open("p2")
	assert.True(t, m.IsOpen())
	assert.Equal(t, "p2", m.Content())
}

func TestModalEscapeAndBackdrop(t *testing.T) {
	var m Modal[int]
	assert.False(t, m.HandleKey(EscapeKey))

	m.Open(1)
	assert.False(t, m.HandleKey("Enter"))
	assert.True(t, m.IsOpen())
	assert.True(t, m.HandleKey(EscapeKey))
	assert.False(t, m.IsOpen())

	m.Open(2)
	m.BackdropClick()
	assert.False(t, m.IsOpen())
}

func TestNewPopoverPicksVariant(t *testing.T) {
	doc := NewDocument()
	assert.IsType(t, &HoverPopover{}, NewPopover(false, doc, "pill", "popup"))
	assert.IsType(t, &TapPopover{}, NewPopover(true, doc, "pill", "popup"))
}

func TestHoverPopoverFollowsPointer(t *testing.T) {
	p := NewPopover(false, NewDocument(), "pill", "popup")
	p.Tap()
	assert.False(t, p.IsOpen())

	p.PointerEnter()
	assert.True(t, p.IsOpen())
	p.PointerLeave()
	assert.False(t, p.IsOpen())
}

func TestTapPopoverOutsideTapCloses(t *testing.T) {
	doc := NewDocument()
	p := NewPopover(true, doc, "pill", "popup")
	assert.Equal(t, 0, doc.Listeners())

	p.PointerEnter()
	assert.False(t, p.IsOpen())

	p.Tap()
	require.True(t, p.IsOpen())
	assert.Equal(t, 1, doc.Listeners())

	doc.Dispatch(Element{ID: "text", Ancestors: []string{"popup"}})
	assert.True(t, p.IsOpen())

	doc.Dispatch(Element{ID: "page-body"})
	assert.False(t, p.IsOpen())
	assert.Equal(t, 0, doc.Listeners())
}

func TestTapPopoverTriggerToggles(t *testing.T) {
	doc := NewDocument()
	p := NewPopover(true, doc, "pill", "popup")

	p.Tap()
	p.Tap()
	assert.False(t, p.IsOpen())
	assert.Equal(t, 0, doc.Listeners())

	p.Tap()
	assert.True(t, p.IsOpen())
}

func TestTapPopoverReleaseDropsListener(t *testing.T) {
	doc := NewDocument()
	p := NewPopover(true, doc, "pill", "popup").(*TapPopover)
	p.Open()
	p.Open()
	assert.Equal(t, 1, doc.Listeners())

	p.Release()
	p.Release()
	assert.False(t, p.IsOpen())
	assert.Equal(t, 0, doc.Listeners())
}

func TestTabsDefaultAndSelect(t *testing.T) {
	tabs := NewTabs("languages", "frameworks", "tools")
	assert.Equal(t, "languages", tabs.Active())

	for _, k := range []string{"tools", "tools", "frameworks", "languages"} {
		tabs.Select(k)
		assert.Equal(t, k, tabs.Active())
	}

	tabs.Select("cooking")
	assert.Equal(t, "languages", tabs.Active())
	assert.Len(t, tabs.Keys(), 3)
}

func TestTabsPanicsWithoutKeys(t *testing.T) {
	assert.Panics(t, func() { NewTabs[string]() })
}

func TestStatus(t *testing.T) {
	var s Status
	assert.False(t, s.Shown())

	s.Fail("provider down")
	assert.True(t, s.Failed())
	assert.Equal(t, "provider down", s.Message())

	s.Succeed("sent")
	assert.True(t, s.Shown())
	assert.False(t, s.Failed())

	s.Reset()
	assert.False(t, s.Shown())
}

func TestScrollTargetIsOneShot(t *testing.T) {
	var s ScrollTarget
	s.JumpTo("step-3")
	assert.Equal(t, "step-3", s.Take())
	assert.Empty(t, s.Take())
}
