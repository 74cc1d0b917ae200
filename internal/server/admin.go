package server

import (
	"crypto/subtle"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

const (
	adminCookie = "admin_token"
	// adminSession is how long a login lasts, in seconds.
	adminSession = 3600 * 24
)

// setupAdminRoutes registers login, logout and the protected dashboard.
func (s *Server) setupAdminRoutes(r *gin.Engine) {
	r.GET("/admin/login", func(c *gin.Context) {
		c.HTML(http.StatusOK, "admin_login", gin.H{"title": "Admin Login"})
	})

	r.POST("/admin/login", func(c *gin.Context) {
		username := c.PostForm("username")
		password := c.PostForm("password")

		if s.validAdmin(username, password) {
			c.SetCookie(adminCookie, s.adminToken, adminSession, "/admin", "", false, true)
			log.Printf("Admin login successful from %s", s.store.HashIP(c.ClientIP()))
			c.Redirect(http.StatusFound, "/admin/dashboard")
			return
		}
		log.Printf("Failed admin login attempt from %s", s.store.HashIP(c.ClientIP()))
		c.HTML(http.StatusUnauthorized, "admin_login", gin.H{
			"title": "Admin Login",
			"error": "Invalid credentials",
		})
	})

	r.GET("/admin/logout", func(c *gin.Context) {
		c.SetCookie(adminCookie, "", -1, "/admin", "", false, true)
		log.Printf("Admin logout from %s", s.store.HashIP(c.ClientIP()))
		c.Redirect(http.StatusFound, "/admin/login")
	})

	admin := r.Group("/admin")
	admin.Use(s.adminAuth())

	admin.GET("/dashboard", func(c *gin.Context) {
		stats, err := s.store.Stats(c.Request.Context())
		if err != nil {
			log.Printf("Error loading admin stats: %v", err)
			c.HTML(http.StatusInternalServerError, "admin_error", gin.H{"error": "Failed to load statistics"})
			return
		}
		c.HTML(http.StatusOK, "admin_dashboard", gin.H{
			"stats":  stats,
			"mailer": s.mailerState(),
		})
	})

	admin.GET("/api/stats", func(c *gin.Context) {
		stats, err := s.store.Stats(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, stats)
	})

	admin.GET("/visitors", func(c *gin.Context) {
		visitors, err := s.store.RecentVisitors(c.Request.Context(), limitParam(c, 200))
		if err != nil {
			log.Printf("Error loading visitors: %v", err)
			c.HTML(http.StatusInternalServerError, "admin_error", gin.H{"error": "Failed to load visitors"})
			return
		}
		c.HTML(http.StatusOK, "admin_visitors", gin.H{"visitors": visitors})
	})

	admin.GET("/messages", func(c *gin.Context) {
		messages, err := s.store.RecentMessages(c.Request.Context(), limitParam(c, 100))
		if err != nil {
			log.Printf("Error loading messages: %v", err)
			c.HTML(http.StatusInternalServerError, "admin_error", gin.H{"error": "Failed to load messages"})
			return
		}
		c.HTML(http.StatusOK, "admin_messages", gin.H{"messages": messages})
	})

	// Retention cleanup on demand, same as the daily job.
	admin.POST("/privacy/cleanup", func(c *gin.Context) {
		n, err := s.store.CleanupVisitors(c.Request.Context(), s.cfg.Store.RetentionMonths)
		if err != nil {
			log.Printf("Error cleaning up old visitor data: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Privacy cleanup failed"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Privacy cleanup complete", "removed": n})
	})

	admin.GET("/export/stats", func(c *gin.Context) {
		stats, err := s.store.Stats(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		c.Header("Content-Disposition", "attachment; filename=admin-stats.json")
		log.Printf("Admin stats exported by %s", s.store.HashIP(c.ClientIP()))
		c.JSON(http.StatusOK, stats)
	})
}

func (s *Server) validAdmin(username, password string) bool {
	u := subtle.ConstantTimeCompare([]byte(username), []byte(s.cfg.Admin.Username))
	p := subtle.ConstantTimeCompare([]byte(password), []byte(s.cfg.Admin.Password))
	return u&p == 1
}

// mailerState reports the mail circuit breaker, when there is one.
func (s *Server) mailerState() string {
	type stater interface{ State() string }
	if b, ok := s.contact.Sender().(stater); ok {
		return b.State()
	}
	return "n/a"
}

func limitParam(c *gin.Context, def int) int {
	n, err := strconv.Atoi(c.Query("limit"))
	if err != nil || n <= 0 || n > 1000 {
		return def
	}
	return n
}
