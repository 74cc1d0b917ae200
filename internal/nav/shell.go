// Package nav maps URL paths to page views and renders the navigation bar.
package nav

import (
	"net/url"

	"github.com/pkg/errors"

	"github.com/jaeyunjks/portfolio/internal/disclosure"
	"github.com/jaeyunjks/portfolio/internal/theme"
	"github.com/jaeyunjks/portfolio/internal/viewport"
)

// ErrNotFound is returned for paths outside the route table.
var ErrNotFound = errors.New("nav: no route for path")

// Env is what a page view reads while mounted.
type Env struct {
	Width int
	Theme *theme.Store
	Query url.Values
}

// Page is a mounted view's render result.
type Page struct {
	Template string
	Title    string
	Data     map[string]any
}

// View mounts a page. Teardown work is registered with m.Defer.
type View func(m *Mount) (Page, error)

// Route binds a path to a view. InNav routes appear in the bar.
type Route struct {
	Path  string
	Label string
	View  View
	InNav bool
}

// Link is one entry of the rendered nav bar.
type Link struct {
	Path   string
	Label  string
	Active bool
}

// Table is the static route table.
type Table []Route

// Resolve returns the route for path.
func (t Table) Resolve(path string) (Route, error) {
	for _, r := range t {
		if r.Path == path {
			return r, nil
		}
	}
	return Route{}, errors.Wrapf(ErrNotFound, "%q", path)
}

// Links returns the nav entries, highlighting the one equal to current.
// Matching is exact: a case-study page highlights nothing.
func (t Table) Links(current string) []Link {
	links := make([]Link, 0, len(t))
	for _, r := range t {
		if !r.InNav {
			continue
		}
		links = append(links, Link{Path: r.Path, Label: r.Label, Active: r.Path == current})
	}
	return links
}

// Mount is the lifetime of one mounted page view.
type Mount struct {
	Env
	Path     string
	Document *disclosure.Document

	releases []func()
	done     bool
}

// Compact classifies the mount's width against bp.
func (m *Mount) Compact(bp int) bool {
	return viewport.New(bp).Compact(m.Width)
}

// Defer registers fn to run at unmount.
func (m *Mount) Defer(fn func()) {
	m.releases = append(m.releases, fn)
}

// Unmount runs the registered teardown in reverse order, once.
func (m *Mount) Unmount() {
	if m.done {
		return
	}
	m.done = true
	for i := len(m.releases) - 1; i >= 0; i-- {
		m.releases[i]()
	}
	m.releases = nil
}

// Shell holds the navigation state for one visitor: the mounted view and the
// compact menu.
type Shell struct {
	table   Table
	current *Mount
	menu    disclosure.Modal[struct{}]
}

// NewShell creates a shell over t with nothing mounted.
func NewShell(t Table) *Shell {
	return &Shell{table: t}
}

// Navigate unmounts the current view and mounts the one for path. Nothing
// but the theme store carries over.
func (s *Shell) Navigate(path string, env Env) (Page, error) {
	route, err := s.table.Resolve(path)
	if err != nil {
		return Page{}, err
	}
	s.Close()

	m := &Mount{Env: env, Path: path, Document: disclosure.NewDocument()}
	page, err := route.View(m)
	if err != nil {
		m.Unmount()
		return Page{}, errors.Wrapf(err, "mounting %s", path)
	}
	if page.Title == "" {
		page.Title = route.Label
	}
	s.current = m
	return page, nil
}

// Current returns the mounted path, or "" when nothing is mounted.
func (s *Shell) Current() string {
	if s.current == nil {
		return ""
	}
	return s.current.Path
}

// Close unmounts the current view.
func (s *Shell) Close() {
	if s.current != nil {
		s.current.Unmount()
		s.current = nil
	}
}

// OpenMenu shows the compact overlay menu.
func (s *Shell) OpenMenu() { s.menu.Open(struct{}{}) }

// CloseMenu hides it.
func (s *Shell) CloseMenu() { s.menu.Close() }

// MenuOpen reports whether the overlay is shown.
func (s *Shell) MenuOpen() bool { return s.menu.IsOpen() }

// SelectLink closes the menu and then navigates.
func (s *Shell) SelectLink(path string, env Env) (Page, error) {
	s.CloseMenu()
	return s.Navigate(path, env)
}

// Bar is the nav affordance for one render.
type Bar struct {
	Compact  bool
	MenuOpen bool
	Links    []Link
}

// Bar renders the full bar on wide layouts and the toggle plus overlay on
// compact ones.
func (s *Shell) Bar(width int) Bar {
	compact := viewport.New(viewport.NavBreakpoint).Compact(width)
	return Bar{
		Compact:  compact,
		MenuOpen: compact && s.menu.IsOpen(),
		Links:    s.table.Links(s.Current()),
	}
}
