package cmd

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/jaeyunjks/portfolio/internal/export"
)

var (
	exportOut       string
	exportChromeURL string
)

var exportCmd = &cobra.Command{
	Use:   "export <path>",
	Short: "Print a page of the site to PDF",
	Long: `Starts the site on a loopback port, loads the page in headless Chrome and
writes it as a PDF. Chrome is launched locally unless --chrome points at a
running DevTools endpoint.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		cfg.Store.Tracking = false
		if exportChromeURL != "" {
			cfg.Export.ChromeURL = exportChromeURL
		}

		printer := export.NewChromePrinter(export.Config{RemoteURL: cfg.Export.ChromeURL, Timeout: cfg.Export.Timeout})
		defer printer.Close()

		a, err := buildApp(cfg, printer)
		if err != nil {
			return err
		}
		defer a.Close()

		if _, err := a.srv.Table().Resolve(path); err != nil {
			return err
		}

		ln, err := net.Listen("tcp", "127.0.0.1:0")
		if err != nil {
			return errors.Wrap(err, "listening on loopback")
		}
		hs := &http.Server{Handler: a.srv.Handler(), ReadHeaderTimeout: 10 * time.Second}
		go hs.Serve(ln)
		defer hs.Close()

		data, err := printer.Print(context.Background(), export.PageURL("http://"+ln.Addr().String(), path))
		if err != nil {
			return err
		}

		out := exportOut
		if out == "" {
			out = export.FileName(path)
		}
		if err := os.WriteFile(out, data, 0o644); err != nil {
			return errors.Wrapf(err, "writing %s", out)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s (%d bytes)\n", out, len(data))
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVarP(&exportOut, "output", "o", "", "output file (default derived from the path)")
	exportCmd.Flags().StringVar(&exportChromeURL, "chrome", "", "DevTools websocket URL of a running Chrome")
	rootCmd.AddCommand(exportCmd)
}
