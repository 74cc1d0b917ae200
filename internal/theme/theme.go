// Package theme holds the visitor's light or dark mode. A Store notifies every
// subscribed view synchronously on Toggle, and the mode persists across
// requests in the theme cookie.
package theme

import (
	"net/http"
	"sync"
)

// Mode is the active visual theme.
type Mode string

const (
	Light Mode = "light"
	Dark  Mode = "dark"
)

// CookieName holds the visitor's mode between requests.
const CookieName = "theme"

// ParseMode returns the mode named by s, or fallback when s is not a mode.
func ParseMode(s string, fallback Mode) Mode {
	switch Mode(s) {
	case Light, Dark:
		return Mode(s)
	}
	return fallback
}

// Valid reports whether m is light or dark.
func (m Mode) Valid() bool {
	return m == Light || m == Dark
}

// Other returns the opposite mode.
func (m Mode) Other() Mode {
	if m == Dark {
		return Light
	}
	return Dark
}

// Store is the single source of truth for the active mode. Subscribers are
// notified synchronously, in subscription order, before Toggle returns.
type Store struct {
	mu     sync.Mutex
	mode   Mode
	nextID int
	subs   []subscriber
}

type subscriber struct {
	id int
	fn func(Mode)
}

// New creates a store starting in initial (light if initial is invalid).
func New(initial Mode) *Store {
	if !initial.Valid() {
		initial = Light
	}
	return &Store{mode: initial}
}

// FromRequest seeds a store from the theme cookie, falling back to def.
func FromRequest(r *http.Request, def Mode) *Store {
	mode := def
	if c, err := r.Cookie(CookieName); err == nil {
		mode = ParseMode(c.Value, def)
	}
	return New(mode)
}

// Get returns the active mode.
func (s *Store) Get() Mode {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.mode
}

// Toggle flips the mode and notifies every subscriber.
func (s *Store) Toggle() Mode {
	s.mu.Lock()
	s.mode = s.mode.Other()
	mode := s.mode
	subs := make([]subscriber, len(s.subs))
	copy(subs, s.subs)
	s.mu.Unlock()

	for _, sub := range subs {
		sub.fn(mode)
	}
	return mode
}

// Subscribe registers fn for mode changes and returns its de-registration.
func (s *Store) Subscribe(fn func(Mode)) (unsubscribe func()) {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.subs = append(s.subs, subscriber{id: id, fn: fn})
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		for i, sub := range s.subs {
			if sub.id == id {
				s.subs = append(s.subs[:i], s.subs[i+1:]...)
				return
			}
		}
	}
}

// Subscribers returns the number of registered subscribers.
func (s *Store) Subscribers() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.subs)
}

// Cookie returns the cookie persisting the store's mode for a year.
func (s *Store) Cookie() *http.Cookie {
	return &http.Cookie{
		Name:     CookieName,
		Value:    string(s.Get()),
		Path:     "/",
		MaxAge:   365 * 24 * 60 * 60,
		SameSite: http.SameSiteLaxMode,
	}
}
