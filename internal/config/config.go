package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/pkg/errors"
)

// EnvPrefix marks environment overrides: PORTFOLIO_MAIL__PROVIDER -> mail.provider.
const EnvPrefix = "PORTFOLIO_"

// DefaultAdminPassword is only acceptable outside release mode.
const DefaultAdminPassword = "admin123"

// Mail providers.
const (
	MailLog     = "log"
	MailSMTP    = "smtp"
	MailEmailJS = "emailjs"
)

type Config struct {
	Server ServerConfig `koanf:"server"`
	Theme  ThemeConfig  `koanf:"theme"`
	Mail   MailConfig   `koanf:"mail"`
	Store  StoreConfig  `koanf:"store"`
	Admin  AdminConfig  `koanf:"admin"`
	Export ExportConfig `koanf:"export"`
}

type ServerConfig struct {
	Port      int    `koanf:"port"`
	PublicURL string `koanf:"public_url"`
	// Mode is the gin mode: debug, release or test.
	Mode string `koanf:"mode"`
	// Content optionally replaces the embedded site content.
	Content string `koanf:"content"`
	Static  string `koanf:"static"`
}

type ThemeConfig struct {
	Default string `koanf:"default"`
}

type MailConfig struct {
	Provider      string        `koanf:"provider"`
	Timeout       time.Duration `koanf:"timeout"`
	RatePerMinute float64       `koanf:"rate_per_minute"`
	Burst         int           `koanf:"burst"`
	SMTP          SMTPConfig    `koanf:"smtp"`
	EmailJS       EmailJSConfig `koanf:"emailjs"`
	Breaker       BreakerConfig `koanf:"breaker"`
}

type SMTPConfig struct {
	Host string `koanf:"host"`
	Port string `koanf:"port"`
	User string `koanf:"user"`
	Pass string `koanf:"pass"`
	To   string `koanf:"to"`
}

type EmailJSConfig struct {
	ServiceID  string `koanf:"service_id"`
	TemplateID string `koanf:"template_id"`
	PublicKey  string `koanf:"public_key"`
	Endpoint   string `koanf:"endpoint"`
}

type BreakerConfig struct {
	MaxFailures uint32        `koanf:"max_failures"`
	Timeout     time.Duration `koanf:"timeout"`
}

type StoreConfig struct {
	Path            string `koanf:"path"`
	Tracking        bool   `koanf:"tracking"`
	RetentionMonths int    `koanf:"retention_months"`
}

type AdminConfig struct {
	Username string `koanf:"username"`
	Password string `koanf:"password"`
}

type ExportConfig struct {
	Enabled   bool          `koanf:"enabled"`
	ChromeURL string        `koanf:"chrome_url"`
	Timeout   time.Duration `koanf:"timeout"`
}

// Default returns the configuration used when nothing overrides it.
func Default() *Config {
	return &Config{
		Server: ServerConfig{Port: 8080, Mode: "debug", Static: "./static"},
		Theme:  ThemeConfig{Default: "light"},
		Mail: MailConfig{
			Provider:      MailLog,
			Timeout:       10 * time.Second,
			RatePerMinute: 3,
			Burst:         2,
			SMTP:          SMTPConfig{Host: "smtp.gmail.com", Port: "587"},
			EmailJS:       EmailJSConfig{Endpoint: "https://api.emailjs.com/api/v1.0/email/send"},
			Breaker:       BreakerConfig{MaxFailures: 5, Timeout: 30 * time.Second},
		},
		Store:  StoreConfig{Path: "portfolio.db", Tracking: true, RetentionMonths: 12},
		Admin:  AdminConfig{Username: "admin", Password: DefaultAdminPassword},
		Export: ExportConfig{Timeout: 30 * time.Second},
	}
}

// Load reads the optional YAML file at path, then PORTFOLIO_ overrides, then
// the plain variables the site has always honoured (PORT, SMTP_*, TO_EMAIL,
// ADMIN_*).
func Load(path string) (*Config, error) {
	k := koanf.New(".")
	cfg := Default()

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
				return nil, errors.Wrapf(err, "reading config %s", path)
			}
		} else if !os.IsNotExist(err) {
			return nil, errors.Wrapf(err, "accessing config %s", path)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, EnvPrefix)), "__", ".")
	}), nil); err != nil {
		return nil, errors.Wrap(err, "loading env overrides")
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, errors.Wrap(err, "unmarshalling config")
	}

	applyLegacyEnv(cfg, k.Exists("mail.provider"))
	return cfg, nil
}

func applyLegacyEnv(cfg *Config, providerSet bool) {
	if v := os.Getenv("PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = p
		}
	}
	setIf(&cfg.Mail.SMTP.Host, "SMTP_HOST")
	setIf(&cfg.Mail.SMTP.Port, "SMTP_PORT")
	setIf(&cfg.Mail.SMTP.User, "SMTP_USER")
	setIf(&cfg.Mail.SMTP.Pass, "SMTP_PASS")
	setIf(&cfg.Mail.SMTP.To, "TO_EMAIL")
	setIf(&cfg.Admin.Username, "ADMIN_USERNAME")
	setIf(&cfg.Admin.Password, "ADMIN_PASSWORD")

	if !providerSet && cfg.Mail.SMTP.User != "" && cfg.Mail.SMTP.Pass != "" {
		cfg.Mail.Provider = MailSMTP
	}
}

func setIf(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

// Validate checks that the configuration contains usable values.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return errors.Errorf("invalid server port %d", c.Server.Port)
	}
	switch c.Server.Mode {
	case "debug", "release", "test":
	default:
		return errors.Errorf("invalid server mode %q: must be debug, release or test", c.Server.Mode)
	}
	if c.Theme.Default != "light" && c.Theme.Default != "dark" {
		return errors.Errorf("invalid default theme %q: must be light or dark", c.Theme.Default)
	}

	switch c.Mail.Provider {
	case MailLog:
	case MailSMTP:
		if c.Mail.SMTP.User == "" || c.Mail.SMTP.Pass == "" {
			return errors.New("SMTP credentials not configured")
		}
		if c.Mail.SMTP.To == "" {
			return errors.New("mail.smtp.to is required")
		}
	case MailEmailJS:
		ej := c.Mail.EmailJS
		if ej.ServiceID == "" || ej.TemplateID == "" || ej.PublicKey == "" {
			return errors.New("emailjs requires service_id, template_id and public_key")
		}
	default:
		return errors.Errorf("invalid mail provider %q: must be log, smtp or emailjs", c.Mail.Provider)
	}
	if c.Mail.RatePerMinute < 0 || c.Mail.Burst < 0 {
		return errors.New("mail rate limits must not be negative")
	}

	if c.Admin.Password == "" {
		return errors.New("admin.password is required")
	}
	if c.Server.Mode == "release" && c.Admin.Password == DefaultAdminPassword {
		return errors.New("admin.password must be changed from the default in release mode")
	}

	if c.Export.Enabled && c.Server.PublicURL == "" {
		return errors.New("export requires server.public_url")
	}
	return nil
}

// Addr is the listen address.
func (c *Config) Addr() string {
	return ":" + strconv.Itoa(c.Server.Port)
}
