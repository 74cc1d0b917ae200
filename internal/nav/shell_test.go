package nav

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jaeyunjks/portfolio/internal/theme"
)

type lifecycle struct {
	mounted   []string
	unmounted []string
}

func (l *lifecycle) view(name string) View {
	return func(m *Mount) (Page, error) {
		l.mounted = append(l.mounted, name)
		m.Defer(func() { l.unmounted = append(l.unmounted, name) })
		return Page{Template: name + ".html"}, nil
	}
}

func testTable(l *lifecycle) Table {
	return Table{
		{Path: "/", Label: "Home", View: l.view("home"), InNav: true},
		{Path: "/portfolio", Label: "Portfolio", View: l.view("portfolio"), InNav: true},
		{Path: "/contact", Label: "Contact", View: l.view("contact"), InNav: true},
		{Path: "/stqm-case-study", Label: "STQM", View: l.view("stqm")},
	}
}

func TestLinksExactMatch(t *testing.T) {
	table := testTable(&lifecycle{})

	links := table.Links("/portfolio")
	require.Len(t, links, 3)
	for _, l := range links {
		assert.Equal(t, l.Path == "/portfolio", l.Active, l.Path)
	}

	for _, l := range table.Links("/stqm-case-study") {
		assert.False(t, l.Active, "case study must not highlight %s", l.Path)
	}
}

func TestResolveUnknown(t *testing.T) {
	_, err := testTable(&lifecycle{}).Resolve("/nope")
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestNavigateUnmountsPrevious(t *testing.T) {
	l := &lifecycle{}
	s := NewShell(testTable(l))
	env := Env{Theme: theme.New(theme.Light)}

	page, err := s.Navigate("/", env)
	require.NoError(t, err)
	assert.Equal(t, "home.html", page.Template)
	assert.Equal(t, "Home", page.Title)

	_, err = s.Navigate("/portfolio", env)
	require.NoError(t, err)
	assert.Equal(t, []string{"home", "portfolio"}, l.mounted)
	assert.Equal(t, []string{"home"}, l.unmounted)
	assert.Equal(t, "/portfolio", s.Current())

	s.Close()
	assert.Equal(t, []string{"home", "portfolio"}, l.unmounted)
	assert.Empty(t, s.Current())
}

func TestNavigateUnknownKeepsCurrent(t *testing.T) {
	l := &lifecycle{}
	s := NewShell(testTable(l))
	_, err := s.Navigate("/", Env{})
	require.NoError(t, err)

	_, err = s.Navigate("/missing", Env{})
	assert.True(t, errors.Is(err, ErrNotFound))
	assert.Equal(t, "/", s.Current())
	assert.Empty(t, l.unmounted)
}

func TestFailedMountReleases(t *testing.T) {
	released := false
	s := NewShell(Table{{Path: "/broken", View: func(m *Mount) (Page, error) {
		m.Defer(func() { released = true })
		return Page{}, errors.New("boom")
	}}})

	_, err := s.Navigate("/broken", Env{})
	assert.Error(t, err)
	assert.True(t, released)
	assert.Empty(t, s.Current())
}

func TestMountUnmountRunsOnceInReverse(t *testing.T) {
	var order []int
	m := &Mount{}
	m.Defer(func() { order = append(order, 1) })
	m.Defer(func() { order = append(order, 2) })
	m.Unmount()
	m.Unmount()
	assert.Equal(t, []int{2, 1}, order)
}

func TestBarSwitchesOnWidth(t *testing.T) {
	s := NewShell(testTable(&lifecycle{}))
	_, err := s.Navigate("/", Env{Width: 1024})
	require.NoError(t, err)

	bar := s.Bar(1024)
	assert.False(t, bar.Compact)
	assert.Len(t, bar.Links, 3)

	bar = s.Bar(400)
	assert.True(t, bar.Compact)
	assert.False(t, bar.MenuOpen)

	s.OpenMenu()
	assert.True(t, s.Bar(400).MenuOpen)
	assert.False(t, s.Bar(1024).MenuOpen)
}

func TestSelectLinkClosesMenuThenNavigates(t *testing.T) {
	l := &lifecycle{}
	s := NewShell(testTable(l))
	_, err := s.Navigate("/", Env{Width: 400})
	require.NoError(t, err)

	s.OpenMenu()
	require.True(t, s.MenuOpen())

	_, err = s.SelectLink("/contact", Env{Width: 400})
	require.NoError(t, err)
	assert.False(t, s.MenuOpen())
	assert.Equal(t, "/contact", s.Current())
	assert.True(t, s.Bar(400).Links[2].Active)
}

func TestMountCompactUsesCallSiteBreakpoint(t *testing.T) {
	m := &Mount{Env: Env{Width: 650}}
	assert.False(t, m.Compact(600))
	assert.True(t, m.Compact(700))
}
