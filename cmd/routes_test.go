package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jaeyunjks/portfolio/internal/config"
	"github.com/jaeyunjks/portfolio/internal/content"
	"github.com/jaeyunjks/portfolio/internal/server"
)

func TestRenderRoutesListsEveryPage(t *testing.T) {
	site, err := content.Default()
	require.NoError(t, err)

	out := renderRoutes(server.Routes(site))
	for _, p := range []string{"/about", "/work", "/portfolio", "/contact", "/stqm-case-study", "/healthz"} {
		assert.Contains(t, out, p)
	}
	assert.Contains(t, out, "(not in nav)")
}

func TestNewSenderPicksProvider(t *testing.T) {
	cfg := config.Default().Mail
	assert.Equal(t, "log", newSender(cfg).Name())

	cfg.Provider = config.MailSMTP
	assert.Equal(t, "smtp", newSender(cfg).Name())

	cfg.Provider = config.MailEmailJS
	assert.Equal(t, "emailjs", newSender(cfg).Name())
}
