package browser

import (
	"context"
	"fmt"
	"time"

	"github.com/chromedp/chromedp"
)

// Loader renders a page and returns its HTML once waitSelector is visible.
// Each selector in clicks is clicked in order, waiting for waitSelector after every click.
type Loader interface {
	Load(ctx context.Context, url, waitSelector string, clicks ...string) (string, error)
}

// ChromeLoader drives headless Chrome through chromedp
type ChromeLoader struct {
	allocOpts   []chromedp.ExecAllocatorOption
	pageTimeout time.Duration
}

// NewChromeLoader creates a new loader. An empty execPath uses the Chrome found on PATH.
func NewChromeLoader(execPath, userAgent string, pageTimeout time.Duration) *ChromeLoader {
	opts := append([]chromedp.ExecAllocatorOption{}, chromedp.DefaultExecAllocatorOptions[:]...)
	if execPath != "" {
		opts = append(opts, chromedp.ExecPath(execPath))
	}
	if userAgent != "" {
		opts = append(opts, chromedp.UserAgent(userAgent))
	}
	return &ChromeLoader{
		allocOpts:   opts,
		pageTimeout: pageTimeout,
	}
}

// Load navigates to url, performs the clicks and returns the rendered HTML
func (l *ChromeLoader) Load(ctx context.Context, url, waitSelector string, clicks ...string) (string, error) {
	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, l.allocOpts...)
	defer cancelAlloc()

	tabCtx, cancelTab := chromedp.NewContext(allocCtx)
	defer cancelTab()

	tabCtx, cancelTimeout := context.WithTimeout(tabCtx, l.pageTimeout)
	defer cancelTimeout()

	actions := []chromedp.Action{
		chromedp.Navigate(url),
		chromedp.WaitVisible(waitSelector, chromedp.ByQuery),
	}
	for _, sel := range clicks {
		actions = append(actions,
			chromedp.Click(sel, chromedp.ByQuery, chromedp.NodeVisible),
			chromedp.WaitVisible(waitSelector, chromedp.ByQuery),
		)
	}

	var html string
	actions = append(actions, chromedp.OuterHTML("html", &html, chromedp.ByQuery))

	if err := chromedp.Run(tabCtx, actions...); err != nil {
		return "", fmt.Errorf("chromedp error loading %s: %w", url, err)
	}

	return html, nil
}
