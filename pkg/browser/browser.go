// Package browser captures rendered pages from headless Chrome.
//
// Capture loads a page through the DevTools protocol, tags every element with
// its document-order index and reads its computed style, producing a
// snapshot.Snapshot that the extractor can consume like any other document.
package browser

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/chromedp/chromedp"
	"go.uber.org/zap"

	"github.com/sprywebtech/breakdance-styles-extractor/pkg/dom"
	"github.com/sprywebtech/breakdance-styles-extractor/pkg/snapshot"
)

const (
	defaultViewportWidth  = 1280
	defaultViewportHeight = 800
	defaultTimeout        = 60 * time.Second
)

// Options configures a capture. Zero values select the defaults.
type Options struct {
	ExecPath       string // Chrome binary; empty searches the usual locations
	Headful        bool   // show the browser window
	ViewportWidth  int
	ViewportHeight int
	UserAgent      string
	Wait           time.Duration // settle time after the body is ready
	Timeout        time.Duration // whole capture
	Logger         *zap.Logger
}

func (o *Options) defaults() {
	if o.ViewportWidth <= 0 {
		o.ViewportWidth = defaultViewportWidth
	}
	if o.ViewportHeight <= 0 {
		o.ViewportHeight = defaultViewportHeight
	}
	if o.Timeout <= 0 {
		o.Timeout = defaultTimeout
	}
	if o.Logger == nil {
		o.Logger = zap.NewNop()
	}
}

// captureResult is what the capture script returns.
type captureResult struct {
	URL    string              `json:"url"`
	HTML   string              `json:"html"`
	Styles []map[string]string `json:"styles"`
}

// Capture navigates to target (an http, https or file URL) and snapshots
// the computed styles of every element.
func Capture(ctx context.Context, target string, opts Options) (*snapshot.Snapshot, error) {
	opts.defaults()
	log := opts.Logger.Named("browser")

	allocOpts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.WindowSize(opts.ViewportWidth, opts.ViewportHeight),
		chromedp.Flag("headless", !opts.Headful),
	)
	if opts.ExecPath != "" {
		allocOpts = append(allocOpts, chromedp.ExecPath(opts.ExecPath))
	}
	if opts.UserAgent != "" {
		allocOpts = append(allocOpts, chromedp.UserAgent(opts.UserAgent))
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, allocOpts...)
	defer cancelAlloc()

	sugar := log.Sugar()
	taskCtx, cancelTask := chromedp.NewContext(allocCtx,
		chromedp.WithLogf(sugar.Debugf),
		chromedp.WithErrorf(sugar.Debugf),
	)
	defer cancelTask()

	taskCtx, cancelTimeout := context.WithTimeout(taskCtx, opts.Timeout)
	defer cancelTimeout()

	script, err := captureScript(dom.Properties)
	if err != nil {
		return nil, err
	}

	log.Debug("capturing", zap.String("url", target), zap.Int("viewport", opts.ViewportWidth))

	var res captureResult
	err = chromedp.Run(taskCtx,
		chromedp.EmulateViewport(int64(opts.ViewportWidth), int64(opts.ViewportHeight)),
		chromedp.Navigate(target),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.Sleep(opts.Wait),
		chromedp.Evaluate(script, &res),
	)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, fmt.Errorf("capture %s: timed out after %s: %w", target, opts.Timeout, err)
		}
		return nil, fmt.Errorf("capture %s: %w", target, err)
	}

	log.Debug("captured", zap.String("url", res.URL), zap.Int("elements", len(res.Styles)))

	return &snapshot.Snapshot{
		URL:        res.URL,
		CapturedAt: time.Now().UTC(),
		Viewport:   opts.ViewportWidth,
		HTML:       res.HTML,
		Styles:     res.Styles,
	}, nil
}

// captureScript builds the JavaScript run in the page. Elements are visited
// in document order, the same order html.Parse yields them in.
func captureScript(props []string) (string, error) {
	list, err := json.Marshal(props)
	if err != nil {
		return "", fmt.Errorf("failed to encode property list: %w", err)
	}
	return fmt.Sprintf(`(() => {
  const props = %s;
  const styles = [];
  document.querySelectorAll('*').forEach((el, i) => {
    el.setAttribute(%q, String(i));
    const cs = window.getComputedStyle(el);
    const style = {};
    for (const p of props) style[p] = cs.getPropertyValue(p);
    styles.push(style);
  });
  return { url: location.href, html: document.documentElement.outerHTML, styles };
})()`, list, snapshot.IndexAttr), nil
}
