package server

import (
	"bytes"
	"fmt"
	"html/template"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"

	"github.com/jaeyunjks/portfolio/internal/disclosure"
	"github.com/jaeyunjks/portfolio/internal/nav"
	"github.com/jaeyunjks/portfolio/internal/particles"
	"github.com/jaeyunjks/portfolio/internal/theme"
)

var funcMap = template.FuncMap{
	"pct":  func(f float64) string { return fmt.Sprintf("%.0f%%", f) },
	"join": strings.Join,
	"add":  func(a, b int) int { return a + b },
}

// styled is one region of the layout that follows the theme.
type styled struct {
	tokens theme.Tokens
}

func (s *styled) Restyle(t theme.Tokens) { s.tokens = t }

// Tokens exposes the region's current palette to templates.
func (s *styled) Tokens() theme.Tokens { return s.tokens }

// chrome is the themed parts of the layout: the nav bar, the page background
// and the card lists.
type chrome struct {
	Nav   styled
	Page  styled
	Cards styled
}

// bindChrome subscribes every region to st.
func bindChrome(st *theme.Store) (*chrome, func()) {
	c := &chrome{}
	releases := []func(){
		theme.Bind(st, &c.Nav),
		theme.Bind(st, &c.Page),
		theme.Bind(st, &c.Cards),
	}
	return c, func() {
		for _, r := range releases {
			r()
		}
	}
}

// CSS renders the regions' tokens as custom properties.
func (c *chrome) CSS() template.CSS {
	p, n, k := c.Page.tokens, c.Nav.tokens, c.Cards.tokens
	var b strings.Builder
	fmt.Fprintf(&b, ":root{--primary:%s;--light:%s;--bg:%s;--surface:%s;--text:%s;--muted:%s;", p.Primary, p.Light, p.Bg, p.Surface, p.Text, p.Muted)
	fmt.Fprintf(&b, "--success:%s;--danger:%s;--warning:%s;--border:%s;", p.Success, p.Danger, p.Warning, p.Border)
	fmt.Fprintf(&b, "--nav:%s;--card:%s;}", n.Nav, k.Card)
	return template.CSS(b.String())
}

// envFor builds the mount environment of the current request.
func envFor(c *gin.Context) nav.Env {
	return nav.Env{
		Width: widthOf(c),
		Theme: themeOf(c),
		Query: c.Request.URL.Query(),
	}
}

// openShell prepares a shell for the request, applying the menu events.
func (s *Server) openShell(c *gin.Context) *nav.Shell {
	shell := nav.NewShell(s.table)
	if c.Query("menu") == "open" {
		shell.OpenMenu()
	}
	if c.Query("key") == disclosure.EscapeKey {
		shell.CloseMenu()
	}
	return shell
}

// page serves every route of the nav table, and the not-found page.
func (s *Server) page(c *gin.Context) {
	shell := s.openShell(c)
	defer shell.Close()

	env := envFor(c)
	pg, err := shell.Navigate(c.Request.URL.Path, env)
	if err != nil {
		s.fail(c, shell, env, err)
		return
	}
	s.render(c, http.StatusOK, shell, env, pg)
}

// fail renders err as the not-found or error page.
func (s *Server) fail(c *gin.Context, shell *nav.Shell, env nav.Env, err error) {
	status := http.StatusInternalServerError
	pg := nav.Page{Template: "error", Title: "Something went wrong", Data: map[string]any{"Message": "Please try again later."}}
	if errors.Is(err, nav.ErrNotFound) {
		status = http.StatusNotFound
		pg = nav.Page{Template: "notfound", Title: "Not found", Data: map[string]any{"Path": c.Request.URL.Path}}
	} else {
		log.Printf("Error rendering %s: %v", c.Request.URL.Path, err)
	}
	s.render(c, status, shell, env, pg)
}

// render executes the page body, then wraps it in the layout unless htmx asked
// for the fragment alone.
func (s *Server) render(c *gin.Context, status int, shell *nav.Shell, env nav.Env, pg nav.Page) {
	var body bytes.Buffer
	if err := s.tmpl.ExecuteTemplate(&body, pg.Template, pg.Data); err != nil {
		log.Printf("Error executing template %s: %v", pg.Template, err)
		c.String(http.StatusInternalServerError, "internal error")
		return
	}
	if c.GetHeader("HX-Request") == "true" && c.GetHeader("HX-Target") == "main" {
		c.Data(status, "text/html; charset=utf-8", body.Bytes())
		return
	}

	mode := env.Theme.Get()
	styles, unbind := bindChrome(env.Theme)
	defer unbind()

	opts, err := particles.JSON(mode)
	if err != nil {
		log.Printf("Error encoding particle options: %v", err)
		opts = []byte("null")
	}

	c.HTML(status, "layout", gin.H{
		"Title":     pg.Title,
		"Owner":     s.site.Owner,
		"Path":      c.Request.URL.Path,
		"Body":      template.HTML(body.String()),
		"Bar":       shell.Bar(env.Width),
		"MenuHref":  c.Request.URL.Path + "?menu=open",
		"Width":     env.Width,
		"Mode":      mode,
		"OtherMode": mode.Other(),
		"Chrome":    styles,
		"Particles": template.JS(opts),
	})
}
