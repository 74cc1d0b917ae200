// Package server is the gin front end: it resolves paths through the nav
// table, mounts the page view with the visitor's width and theme, and renders
// it inside the shared layout.
package server

import (
	"context"
	"embed"
	"html/template"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"

	"github.com/jaeyunjks/portfolio/internal/config"
	"github.com/jaeyunjks/portfolio/internal/contact"
	"github.com/jaeyunjks/portfolio/internal/content"
	"github.com/jaeyunjks/portfolio/internal/export"
	"github.com/jaeyunjks/portfolio/internal/nav"
	"github.com/jaeyunjks/portfolio/internal/store"
	"github.com/jaeyunjks/portfolio/internal/theme"
)

//go:embed templates/*.html
var templateFS embed.FS

// Deps are the collaborators a Server is built from.
type Deps struct {
	Config  *config.Config
	Site    *content.Site
	Store   *store.Store
	Contact *contact.Service
	Printer export.Printer
}

type Server struct {
	cfg        *config.Config
	site       *content.Site
	store      *store.Store
	contact    *contact.Service
	printer    export.Printer
	table      nav.Table
	tmpl       *template.Template
	defTheme   theme.Mode
	adminToken string
	engine     *gin.Engine
}

// New wires the routes. The gin mode must be set before calling it.
func New(d Deps) (*Server, error) {
	if d.Config == nil || d.Site == nil || d.Store == nil || d.Contact == nil {
		return nil, errors.New("server: config, site, store and contact are required")
	}
	if d.Printer == nil {
		d.Printer = export.Disabled{}
	}

	tmpl, err := template.New("").Funcs(funcMap).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, errors.Wrap(err, "parsing templates")
	}
	token, err := store.Token()
	if err != nil {
		return nil, errors.Wrap(err, "generating admin token")
	}

	s := &Server{
		cfg:        d.Config,
		site:       d.Site,
		store:      d.Store,
		contact:    d.Contact,
		printer:    d.Printer,
		tmpl:       tmpl,
		defTheme:   theme.ParseMode(d.Config.Theme.Default, theme.Light),
		adminToken: token,
	}
	s.table = Routes(d.Site)
	s.engine = s.routes()

	log.Printf("Admin access available at: /admin/login")
	if gin.Mode() == gin.DebugMode {
		log.Printf("Admin token (dev only): %s", token)
	}
	return s, nil
}

// Handler returns the configured gin engine.
func (s *Server) Handler() *gin.Engine { return s.engine }

// Table returns the page route table.
func (s *Server) Table() nav.Table { return s.table }

func (s *Server) routes() *gin.Engine {
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())
	r.SetHTMLTemplate(s.tmpl)

	r.Static("/images", "./images")
	r.Static("/static", s.cfg.Server.Static)

	r.Use(clientHints(), s.visitorEnv())
	if s.cfg.Store.Tracking {
		r.Use(s.visitorTracking())
		log.Println("Privacy: Visitor tracking enabled with hashed IP addresses")
	}

	for _, route := range s.table {
		r.GET(route.Path, s.page)
	}
	r.NoRoute(s.page)

	r.POST("/contact", s.submitContact)
	r.POST("/theme/toggle", s.toggleTheme)
	r.POST("/viewport", s.resize)
	r.GET("/particles.json", s.particles)
	r.GET("/export/*path", s.exportPDF)
	r.GET("/privacy", s.privacy)
	r.GET("/healthz", s.health)

	s.setupAdminRoutes(r)
	return r
}

// Run serves until ctx is cancelled, then drains in-flight requests.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr(),
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("Listening on %s", srv.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return errors.Wrap(err, "serving")
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	log.Println("Shutting down")
	return errors.Wrap(srv.Shutdown(shutdownCtx), "shutting down")
}

// RunRetention deletes visitor records past the retention window now and
// then once a day until ctx is cancelled.
func (s *Server) RunRetention(ctx context.Context) {
	months := s.cfg.Store.RetentionMonths
	if months <= 0 {
		return
	}
	ticker := time.NewTicker(24 * time.Hour)
	defer ticker.Stop()
	for {
		s.cleanupVisitors(ctx)
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

func (s *Server) cleanupVisitors(ctx context.Context) {
	n, err := s.store.CleanupVisitors(ctx, s.cfg.Store.RetentionMonths)
	if err != nil {
		log.Printf("Error cleaning up old visitor data: %v", err)
		return
	}
	if n > 0 {
		log.Printf("Privacy cleanup: Removed %d visitor records older than %d months", n, s.cfg.Store.RetentionMonths)
	}
}
