package server

import (
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"

	"github.com/jaeyunjks/portfolio/internal/contact"
	"github.com/jaeyunjks/portfolio/internal/export"
	"github.com/jaeyunjks/portfolio/internal/nav"
	"github.com/jaeyunjks/portfolio/internal/particles"
	"github.com/jaeyunjks/portfolio/internal/theme"
	"github.com/jaeyunjks/portfolio/internal/viewport"
)

// submitContact delivers the form. htmx gets the form fragment back with its
// status region; a plain post gets the whole contact page.
func (s *Server) submitContact(c *gin.Context) {
	form := &contact.Form{}
	if err := c.ShouldBind(&form.Fields); err != nil {
		c.String(http.StatusBadRequest, "invalid form")
		return
	}

	res := s.contact.Submit(c.Request.Context(), c.ClientIP(), form.Begin(s.contact.Now()))
	form.Complete(res)

	status := http.StatusOK
	if errors.Is(res.Err, contact.ErrRateLimited) && c.GetHeader("HX-Request") != "true" {
		status = http.StatusTooManyRequests
	}

	if c.GetHeader("HX-Request") == "true" {
		c.HTML(status, "contact_form", form)
		return
	}

	shell := s.openShell(c)
	defer shell.Close()
	env := envFor(c)
	pg, err := shell.Navigate("/contact", env)
	if err != nil {
		s.fail(c, shell, env, err)
		return
	}
	pg.Data["Form"] = form
	s.render(c, status, shell, env, pg)
}

// toggleTheme flips the visitor's mode. The cookie is written by a store
// subscriber, so it always matches what every other subscriber saw.
func (s *Server) toggleTheme(c *gin.Context) {
	st := themeOf(c)
	unsubscribe := st.Subscribe(func(theme.Mode) {
		http.SetCookie(c.Writer, st.Cookie())
	})
	defer unsubscribe()
	mode := st.Toggle()

	if c.GetHeader("HX-Request") == "true" {
		c.Header("HX-Refresh", "true")
		c.Status(http.StatusNoContent)
		return
	}
	if c.Query("format") == "json" {
		c.JSON(http.StatusOK, gin.H{"theme": mode})
		return
	}
	c.Redirect(http.StatusSeeOther, backTo(c))
}

// backTo is the same-site page the request came from, or home.
func backTo(c *gin.Context) string {
	ref, err := url.Parse(c.GetHeader("Referer"))
	if err != nil || ref.Path == "" || (ref.Host != "" && ref.Host != c.Request.Host) {
		return "/"
	}
	if ref.RawQuery != "" {
		return ref.Path + "?" + ref.RawQuery
	}
	return ref.Path
}

// reloadBreakpoints are the widths at which some view changes layout.
var reloadBreakpoints = []int{viewport.DefaultBreakpoint, viewport.NavBreakpoint, viewport.CaseBreakpoint}

// resize records the browser's new width and tells it to reload only when a
// breakpoint was crossed.
func (s *Server) resize(c *gin.Context) {
	width, err := strconv.Atoi(strings.TrimSpace(c.PostForm(viewport.WidthParam)))
	if err != nil || width <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid width"})
		return
	}

	prev := widthOf(c)
	flipped := false
	for _, bp := range reloadBreakpoints {
		t := viewport.NewTracker(viewport.New(bp), prev)
		release := t.Subscribe(func(bool) { flipped = true })
		t.Resize(width)
		release()
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(viewport.WidthParam, strconv.Itoa(width), 0, "/", "", false, false)
	if flipped && c.GetHeader("HX-Request") == "true" {
		c.Header("HX-Refresh", "true")
	}
	c.JSON(http.StatusOK, gin.H{"width": width, "reload": flipped})
}

func (s *Server) particles(c *gin.Context) {
	mode := themeOf(c).Get()
	if q := c.Query("theme"); q != "" {
		mode = theme.ParseMode(q, mode)
	}
	c.Header("Cache-Control", "public, max-age=3600")
	c.JSON(http.StatusOK, particles.For(mode))
}

// exportPDF prints a page of the site through headless Chrome.
func (s *Server) exportPDF(c *gin.Context) {
	path := c.Param("path")
	if path == "" {
		path = "/"
	}
	if _, err := s.table.Resolve(path); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "page not found"})
		return
	}

	base := s.cfg.Server.PublicURL
	if base == "" {
		base = fmt.Sprintf("http://%s", c.Request.Host)
	}
	data, err := s.printer.Print(c.Request.Context(), export.PageURL(base, path))
	if errors.Is(err, export.ErrDisabled) {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	if err != nil {
		log.Printf("Error exporting %s: %v", path, err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "Failed to export page"})
		return
	}

	c.Header("Content-Disposition", "attachment; filename="+export.FileName(path))
	c.Data(http.StatusOK, "application/pdf", data)
}

func (s *Server) privacy(c *gin.Context) {
	shell := s.openShell(c)
	defer shell.Close()
	s.render(c, http.StatusOK, shell, envFor(c), nav.Page{
		Template: "privacy",
		Title:    "Privacy Policy",
		Data: map[string]any{
			"Tracking":        s.cfg.Store.Tracking,
			"RetentionMonths": s.cfg.Store.RetentionMonths,
		},
	})
}

func (s *Server) health(c *gin.Context) {
	if err := s.store.Ping(); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
