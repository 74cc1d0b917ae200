package server

import (
	"context"
	"crypto/subtle"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jaeyunjks/portfolio/internal/theme"
	"github.com/jaeyunjks/portfolio/internal/viewport"
)

// Context keys set by visitorEnv.
const (
	widthKey = "viewport.width"
	themeKey = "theme.store"
)

// clientHints asks the browser to send its viewport width on later requests.
func clientHints() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Accept-CH", viewport.HintHeader)
		c.Header("Vary", viewport.HintHeader+", Cookie")
		c.Next()
	}
}

// visitorEnv resolves the visitor's width and theme once per request.
func (s *Server) visitorEnv() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(widthKey, viewport.FromRequest(c.Request))
		c.Set(themeKey, theme.FromRequest(c.Request, s.defTheme))
		c.Next()
	}
}

func widthOf(c *gin.Context) int {
	return c.GetInt(widthKey)
}

func themeOf(c *gin.Context) *theme.Store {
	if v, ok := c.Get(themeKey); ok {
		if st, ok := v.(*theme.Store); ok {
			return st
		}
	}
	return theme.New(theme.Light)
}

// untracked paths never reach the visitor log.
var untracked = []string{
	"/static/", "/images/", "/admin/", "/favicon", "/privacy",
	"/healthz", "/particles.json", "/viewport", "/export/", "/theme/",
}

// visitorTracking records page views with hashed addresses in the background.
func (s *Server) visitorTracking() gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		if c.Request.Method != http.MethodGet {
			c.Next()
			return
		}
		for _, p := range untracked {
			if strings.HasPrefix(path, p) {
				c.Next()
				return
			}
		}

		// Respect Do Not Track header
		if c.GetHeader("DNT") == "1" {
			c.Next()
			return
		}

		ip, ua := c.ClientIP(), c.GetHeader("User-Agent")
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := s.store.RecordVisit(ctx, ip, ua, path); err != nil {
				log.Printf("Error recording visitor: %v", err)
			}
		}()
		c.Next()
	}
}

// adminAuth admits requests carrying the session's admin token.
func (s *Server) adminAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(adminCookie)
		if err != nil || subtle.ConstantTimeCompare([]byte(token), []byte(s.adminToken)) != 1 {
			c.Redirect(http.StatusFound, "/admin/login")
			c.Abort()
			return
		}
		c.Next()
	}
}
