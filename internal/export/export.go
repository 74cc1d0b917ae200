// Package export renders site pages to PDF with a headless Chrome.
package export

import (
	"context"
	"strings"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"github.com/pkg/errors"
)

// ErrDisabled is returned when PDF export is switched off.
var ErrDisabled = errors.New("pdf export is disabled")

// Printer turns a page URL into a PDF document.
type Printer interface {
	Print(ctx context.Context, url string) ([]byte, error)
}

// Config controls how Chrome is reached.
type Config struct {
	// RemoteURL is a DevTools websocket endpoint. Empty launches a local
	// headless Chrome.
	RemoteURL string
	Timeout   time.Duration
}

// ChromePrinter prints through chromedp. Each Print opens its own tab on a
// shared allocator.
type ChromePrinter struct {
	allocCtx    context.Context
	allocCancel context.CancelFunc
	timeout     time.Duration
}

// NewChromePrinter prepares an allocator. The browser itself starts lazily on
// the first Print.
func NewChromePrinter(cfg Config) *ChromePrinter {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}

	p := &ChromePrinter{timeout: cfg.Timeout}
	if cfg.RemoteURL != "" {
		p.allocCtx, p.allocCancel = chromedp.NewRemoteAllocator(context.Background(), cfg.RemoteURL)
		return p
	}

	opts := make([]chromedp.ExecAllocatorOption, len(chromedp.DefaultExecAllocatorOptions))
	copy(opts, chromedp.DefaultExecAllocatorOptions[:])
	opts = append(opts,
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.WindowSize(1280, 900),
	)
	p.allocCtx, p.allocCancel = chromedp.NewExecAllocator(context.Background(), opts...)
	return p
}

// Print loads url, waits for the body and prints it with backgrounds so the
// active theme survives.
func (p *ChromePrinter) Print(ctx context.Context, url string) ([]byte, error) {
	tabCtx, cancelTab := chromedp.NewContext(p.allocCtx)
	defer cancelTab()
	tabCtx, cancel := context.WithTimeout(tabCtx, p.timeout)
	defer cancel()

	// Propagate the caller's cancellation into the tab.
	stop := context.AfterFunc(ctx, cancel)
	defer stop()

	var buf []byte
	err := chromedp.Run(tabCtx,
		chromedp.Navigate(url),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.ActionFunc(func(ctx context.Context) error {
			data, _, err := page.PrintToPDF().
				WithPrintBackground(true).
				WithPreferCSSPageSize(true).
				Do(ctx)
			if err != nil {
				return err
			}
			buf = data
			return nil
		}),
	)
	if err != nil {
		return nil, errors.Wrapf(err, "printing %s", url)
	}
	return buf, nil
}

// Close shuts the allocator down, killing a locally launched browser.
func (p *ChromePrinter) Close() {
	if p.allocCancel != nil {
		p.allocCancel()
	}
}

// Disabled is the Printer used when export is off.
type Disabled struct{}

func (Disabled) Print(context.Context, string) ([]byte, error) { return nil, ErrDisabled }

// PageURL joins the public base URL and a site path.
func PageURL(base, path string) string {
	base = strings.TrimRight(base, "/")
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return base + path
}

// FileName derives a download name from a site path.
func FileName(path string) string {
	name := strings.Trim(path, "/")
	if name == "" {
		name = "home"
	}
	return strings.ReplaceAll(name, "/", "-") + ".pdf"
}
