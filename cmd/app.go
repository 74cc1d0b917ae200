package cmd

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"

	"github.com/jaeyunjks/portfolio/internal/config"
	"github.com/jaeyunjks/portfolio/internal/contact"
	"github.com/jaeyunjks/portfolio/internal/content"
	"github.com/jaeyunjks/portfolio/internal/export"
	"github.com/jaeyunjks/portfolio/internal/server"
	"github.com/jaeyunjks/portfolio/internal/store"
)

// app is a built server and what must be closed after it.
type app struct {
	cfg    *config.Config
	srv    *server.Server
	store  *store.Store
	closer []func()
}

func (a *app) Close() {
	for i := len(a.closer) - 1; i >= 0; i-- {
		a.closer[i]()
	}
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}
	if cfg.Admin.Password == config.DefaultAdminPassword {
		log.Println("WARNING: Using default admin password. Set ADMIN_PASSWORD environment variable.")
	}
	return cfg, nil
}

func loadSite(cfg *config.Config) (*content.Site, error) {
	if cfg.Server.Content != "" {
		return content.LoadFile(cfg.Server.Content)
	}
	return content.Default()
}

// newSender picks the mail provider. Real providers sit behind a circuit
// breaker.
func newSender(cfg config.MailConfig) contact.Sender {
	var s contact.Sender
	switch cfg.Provider {
	case config.MailSMTP:
		s = contact.NewSMTPSender(cfg.SMTP.Host, cfg.SMTP.Port, cfg.SMTP.User, cfg.SMTP.Pass, cfg.SMTP.To)
	case config.MailEmailJS:
		s = &contact.EmailJSSender{
			ServiceID:  cfg.EmailJS.ServiceID,
			TemplateID: cfg.EmailJS.TemplateID,
			PublicKey:  cfg.EmailJS.PublicKey,
			Endpoint:   cfg.EmailJS.Endpoint,
			Client:     &http.Client{Timeout: cfg.Timeout},
		}
	default:
		if gin.Mode() == gin.DebugMode {
			log.Println("WARNING: Contact messages are only logged. Set mail.provider to deliver them.")
		}
		return contact.LogSender{}
	}
	return contact.NewBreakerSender(s, cfg.Breaker.MaxFailures, cfg.Breaker.Timeout)
}

// buildApp wires the server from cfg. printer overrides the configured one
// when non-nil.
func buildApp(cfg *config.Config, printer export.Printer) (*app, error) {
	gin.SetMode(cfg.Server.Mode)
	a := &app{cfg: cfg}

	site, err := loadSite(cfg)
	if err != nil {
		return nil, errors.Wrap(err, "loading content")
	}

	st, err := store.Open(cfg.Store.Path)
	if err != nil {
		return nil, err
	}
	a.store = st
	a.closer = append(a.closer, func() {
		if err := st.Close(); err != nil {
			log.Printf("Error closing database: %v", err)
		}
	})

	if printer == nil {
		printer = export.Disabled{}
		if cfg.Export.Enabled {
			cp := export.NewChromePrinter(export.Config{RemoteURL: cfg.Export.ChromeURL, Timeout: cfg.Export.Timeout})
			a.closer = append(a.closer, cp.Close)
			printer = cp
		}
	}

	svc := contact.NewService(newSender(cfg.Mail), st, contact.ServiceConfig{
		Timeout:       cfg.Mail.Timeout,
		RatePerMinute: cfg.Mail.RatePerMinute,
		Burst:         cfg.Mail.Burst,
	})

	srv, err := server.New(server.Deps{
		Config:  cfg,
		Site:    site,
		Store:   st,
		Contact: svc,
		Printer: printer,
	})
	if err != nil {
		a.Close()
		return nil, err
	}
	a.srv = srv
	return a, nil
}
