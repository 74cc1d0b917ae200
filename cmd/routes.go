package cmd

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/jaeyunjks/portfolio/internal/nav"
	"github.com/jaeyunjks/portfolio/internal/server"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7B9ACC"))
	pathStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#10B981"))
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#94A3B8"))
)

// endpoints are the routes outside the page table.
var endpoints = [][2]string{
	{"POST /contact", "contact form submission"},
	{"POST /theme/toggle", "flip light/dark mode"},
	{"POST /viewport", "report browser width"},
	{"GET  /particles.json", "particle background options"},
	{"GET  /export/*path", "page as PDF"},
	{"GET  /privacy", "privacy policy"},
	{"GET  /healthz", "health check"},
	{"*    /admin/...", "admin dashboard"},
}

var routesCmd = &cobra.Command{
	Use:   "routes",
	Short: "List the site's pages and endpoints",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		site, err := loadSite(cfg)
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), renderRoutes(server.Routes(site)))
		return nil
	},
}

func renderRoutes(t nav.Table) string {
	width := 0
	for _, r := range t {
		width = max(width, len(r.Path))
	}
	for _, e := range endpoints {
		width = max(width, len(e[0]))
	}

	var b strings.Builder
	b.WriteString(headerStyle.Render("Pages") + "\n")
	for _, r := range t {
		label := r.Label
		if !r.InNav {
			label += dimStyle.Render(" (not in nav)")
		}
		b.WriteString("  " + pathStyle.Render(pad(r.Path, width)) + "  " + label + "\n")
	}
	b.WriteString("\n" + headerStyle.Render("Endpoints") + "\n")
	for _, e := range endpoints {
		b.WriteString("  " + pathStyle.Render(pad(e[0], width)) + "  " + dimStyle.Render(e[1]) + "\n")
	}
	return b.String()
}

func pad(s string, n int) string {
	if len(s) >= n {
		return s
	}
	return s + strings.Repeat(" ", n-len(s))
}

func init() {
	rootCmd.AddCommand(routesCmd)
}
