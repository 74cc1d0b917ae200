package theme

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingView struct {
	name   string
	tokens Tokens
}

func (v *recordingView) Restyle(t Tokens) { v.tokens = t }

func TestToggleTwiceRestoresMode(t *testing.T) {
	for _, m := range []Mode{Light, Dark} {
		s := New(m)
		s.Toggle()
		assert.Equal(t, m.Other(), s.Get())
		s.Toggle()
		assert.Equal(t, m, s.Get())
	}
}

func TestSubscribersNotifiedOncePerToggleInOrder(t *testing.T) {
	s := New(Light)
	var seen []string
	s.Subscribe(func(m Mode) { seen = append(seen, "a:"+string(m)) })
	s.Subscribe(func(m Mode) { seen = append(seen, "b:"+string(m)) })

	s.Toggle()
	s.Toggle()

	assert.Equal(t, []string{"a:dark", "b:dark", "a:light", "b:light"}, seen)
}

func TestSubscriberSeesNewModeFromGet(t *testing.T) {
	s := New(Light)
	var observed Mode
	s.Subscribe(func(Mode) { observed = s.Get() })
	s.Toggle()
	assert.Equal(t, Dark, observed)
}

func TestUnsubscribe(t *testing.T) {
	s := New(Dark)
	calls := 0
	unsub := s.Subscribe(func(Mode) { calls++ })
	require.Equal(t, 1, s.Subscribers())

	unsub()
	unsub()
	s.Toggle()
	assert.Equal(t, 0, calls)
	assert.Equal(t, 0, s.Subscribers())
}

func TestBoundViewsAllReflectToggle(t *testing.T) {
	s := New(Light)
	views := []*recordingView{{name: "nav"}, {name: "background"}, {name: "cards"}}
	for _, v := range views {
		defer Bind(s, v)()
		assert.Equal(t, Light, v.tokens.Mode)
	}

	s.Toggle()

	for _, v := range views {
		assert.Equal(t, Dark, v.tokens.Mode, v.name)
		assert.Equal(t, darkTokens.Bg, v.tokens.Bg, v.name)
	}
}

func TestParseMode(t *testing.T) {
	assert.Equal(t, Dark, ParseMode("dark", Light))
	assert.Equal(t, Light, ParseMode("sepia", Light))
	assert.Equal(t, Light, New("bogus").Get())
}

func TestFromRequestAndCookie(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.Equal(t, Dark, FromRequest(req, Dark).Get())

	req.AddCookie(&http.Cookie{Name: CookieName, Value: "light"})
	s := FromRequest(req, Dark)
	assert.Equal(t, Light, s.Get())

	s.Toggle()
	c := s.Cookie()
	assert.Equal(t, "dark", c.Value)
	assert.Equal(t, "/", c.Path)
	assert.Equal(t, http.SameSiteLaxMode, c.SameSite)
}
