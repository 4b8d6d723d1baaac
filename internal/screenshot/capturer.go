// Package screenshot renders a token's bubble map page to PNG through a
// headless Chrome reachable over the DevTools protocol.
package screenshot

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"bubblemaps-bot/internal/domain"
	"bubblemaps-bot/internal/observability"
)

// Default configuration values.
const (
	DefaultAppURL            = "https://app.bubblemaps.io"
	DefaultWidth             = 1920
	DefaultHeight            = 1080
	DefaultNavigationTimeout = 60 * time.Second
	DefaultSettleDelay       = 5 * time.Second
	DefaultUserAgent         = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
)

// ErrEmptyCapture is returned when the browser produces no image data.
var ErrEmptyCapture = errors.New("empty screenshot")

// mapRenderedExpr reports whether any known bubble map container rendered.
const mapRenderedExpr = `(() => {
	const selectors = ['.map-container', '#bubblemapViewer', '.bubblemap-container', 'svg'];
	return selectors.some((s) => document.querySelector(s) !== null);
})()`

// Options configures a Capturer. Zero fields take defaults.
type Options struct {
	DevToolsURL       string // http://host:9222 or a ws://.../devtools/browser/<id> URL
	AppURL            string
	Width             int
	Height            int
	UserAgent         string
	NavigationTimeout time.Duration
	SettleDelay       time.Duration
	Logger            logrus.FieldLogger
}

// Capturer takes bubble map screenshots. Each Capture opens and closes
// its own browser page, so concurrent captures do not share state.
type Capturer struct {
	devtoolsURL string
	appURL      string
	width       int
	height      int
	userAgent   string
	navTimeout  time.Duration
	settle      time.Duration
	log         logrus.FieldLogger

	open func(ctx context.Context) (tab, error)
}

// New creates a Capturer.
func New(opts Options) *Capturer {
	c := &Capturer{
		devtoolsURL: strings.TrimRight(opts.DevToolsURL, "/"),
		appURL:      DefaultAppURL,
		width:       DefaultWidth,
		height:      DefaultHeight,
		userAgent:   DefaultUserAgent,
		navTimeout:  DefaultNavigationTimeout,
		settle:      DefaultSettleDelay,
		log:         opts.Logger,
	}
	if opts.AppURL != "" {
		c.appURL = strings.TrimRight(opts.AppURL, "/")
	}
	if opts.Width > 0 {
		c.width = opts.Width
	}
	if opts.Height > 0 {
		c.height = opts.Height
	}
	if opts.UserAgent != "" {
		c.userAgent = opts.UserAgent
	}
	if opts.NavigationTimeout > 0 {
		c.navTimeout = opts.NavigationTimeout
	}
	if opts.SettleDelay > 0 {
		c.settle = opts.SettleDelay
	}
	if c.log == nil {
		c.log = logrus.StandardLogger()
	}
	c.open = func(ctx context.Context) (tab, error) {
		return openChromeTab(ctx, c.devtoolsURL, c.log)
	}
	return c
}

// PageURL returns the bubble map page for a token.
func (c *Capturer) PageURL(address string, chain domain.Chain) string {
	return fmt.Sprintf("%s/%s/token/%s", c.appURL, chain, address)
}

// Capture renders the token's bubble map and returns PNG bytes.
func (c *Capturer) Capture(ctx context.Context, address string, chain domain.Chain) (png []byte, err error) {
	start := time.Now()
	defer func() {
		observability.RecordScreenshot(time.Since(start), err)
	}()

	pageURL := c.PageURL(address, chain)
	log := c.log.WithField("url", pageURL)

	t, err := c.open(ctx)
	if err != nil {
		return nil, fmt.Errorf("open page: %w", err)
	}
	defer t.close()

	if err := t.prepare(c.width, c.height, c.userAgent); err != nil {
		return nil, fmt.Errorf("prepare page: %w", err)
	}

	// Navigation problems are logged; whatever rendered is still captured.
	if err := t.navigate(pageURL, c.navTimeout); err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		log.WithError(err).WithField("timeout", c.navTimeout).Warn("Navigation incomplete, continuing")
	}

	if err := t.settle(c.settle); err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		log.WithError(err).Warn("Settle wait interrupted")
	}

	found, err := t.evaluate(mapRenderedExpr)
	switch {
	case err != nil:
		log.WithError(err).Warn("Map render check failed")
	case found:
		log.Debug("Bubble map container found")
	default:
		log.Warn("Bubble map container not found, capturing anyway")
	}

	png, err = t.fullPage()
	if err == nil && len(png) == 0 {
		err = ErrEmptyCapture
	}
	if err == nil {
		return png, nil
	}
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	log.WithError(err).Warn("Full page capture failed, trying viewport")
	if fallback, ferr := t.viewport(); ferr == nil && len(fallback) > 0 {
		return fallback, nil
	}
	return nil, fmt.Errorf("capture: %w", err)
}
