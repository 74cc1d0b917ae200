package cmd

import (
	_ "github.com/joho/godotenv/autoload"
	"github.com/spf13/cobra"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "portfolio",
	Short: "Personal portfolio site",
	Long: `Serves the portfolio: the home, about, work, portfolio and contact pages,
the case studies, the contact form and the privacy-conscious visitor log.`,
	SilenceUsage: true,
	RunE:         serveCmd.RunE,
}

// Execute runs the command named on the command line, or serve.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "portfolio.yaml", "config file path")
}
