package screenshot

import (
	"context"
	"time"

	"github.com/chromedp/cdproto/emulation"
	"github.com/chromedp/chromedp"
	"github.com/sirupsen/logrus"
)

// fullPageQuality makes FullScreenshot encode PNG rather than JPEG.
const fullPageQuality = 100

// tab is one browser page driven over the DevTools protocol.
type tab interface {
	prepare(width, height int, userAgent string) error
	navigate(url string, timeout time.Duration) error
	settle(d time.Duration) error
	evaluate(expression string) (bool, error)
	fullPage() ([]byte, error)
	viewport() ([]byte, error)
	close()
}

// chromeTab is a tab in a remote Chrome attached through chromedp.
type chromeTab struct {
	ctx    context.Context
	cancel context.CancelFunc
}

// openChromeTab attaches to the browser behind devtoolsURL (http or ws)
// and creates a new page. The connection is established lazily by the
// first action, so connection errors surface from prepare.
func openChromeTab(ctx context.Context, devtoolsURL string, log logrus.FieldLogger) (tab, error) {
	allocCtx, cancelAlloc := chromedp.NewRemoteAllocator(ctx, devtoolsURL)
	tabCtx, cancelTab := chromedp.NewContext(allocCtx,
		chromedp.WithLogf(log.Debugf),
		chromedp.WithErrorf(log.Debugf),
	)
	return &chromeTab{
		ctx: tabCtx,
		cancel: func() {
			cancelTab()
			cancelAlloc()
		},
	}, nil
}

func (t *chromeTab) prepare(width, height int, userAgent string) error {
	return chromedp.Run(t.ctx,
		chromedp.EmulateViewport(int64(width), int64(height)),
		emulation.SetUserAgentOverride(userAgent),
	)
}

func (t *chromeTab) navigate(url string, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(t.ctx, timeout)
	defer cancel()
	return chromedp.Run(ctx, chromedp.Navigate(url))
}

func (t *chromeTab) settle(d time.Duration) error {
	return chromedp.Run(t.ctx, chromedp.Sleep(d))
}

func (t *chromeTab) evaluate(expression string) (bool, error) {
	var found bool
	err := chromedp.Run(t.ctx, chromedp.Evaluate(expression, &found))
	return found, err
}

func (t *chromeTab) fullPage() ([]byte, error) {
	var buf []byte
	err := chromedp.Run(t.ctx, chromedp.FullScreenshot(&buf, fullPageQuality))
	return buf, err
}

func (t *chromeTab) viewport() ([]byte, error) {
	var buf []byte
	err := chromedp.Run(t.ctx, chromedp.CaptureScreenshot(&buf))
	return buf, err
}

// close closes the page; the remote browser keeps running.
func (t *chromeTab) close() {
	t.cancel()
}
