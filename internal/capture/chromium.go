package capture

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/chromedp/chromedp"

	"calpicker/internal/style"
)

// Default snapshot parameters. The page lays out at the reference width,
// so the viewport follows the appearance scale factor.
const (
	DefaultHeight     = 480
	DefaultTimeoutSec = 30
)

// Options defines parameters for a headless Chromium snapshot of the picker
// page.
type Options struct {
	// URL to capture, e.g. "http://127.0.0.1:8080/".
	URL string

	// OutputPath is where the PNG is written, e.g. "./cache/preview.png".
	OutputPath string

	// Scale multiplies the reference width when Width is zero.
	Scale float64

	// Width and Height are the viewport dimensions in pixels.
	Width  int
	Height int

	// Timeout bounds the whole capture. Defaults to DefaultTimeoutSec.
	Timeout time.Duration
}

func (o *Options) normalize() error {
	if o.URL == "" {
		return fmt.Errorf("capture: URL is required")
	}
	if o.OutputPath == "" {
		return fmt.Errorf("capture: OutputPath is required")
	}
	if o.Scale <= 0 {
		o.Scale = 1
	}
	if o.Width <= 0 {
		o.Width = int(style.ReferenceWidth * o.Scale)
	}
	if o.Height <= 0 {
		o.Height = int(DefaultHeight * o.Scale)
	}
	if o.Timeout <= 0 {
		o.Timeout = time.Duration(DefaultTimeoutSec) * time.Second
	}
	return nil
}

// CapturePickerPNG launches a headless Chromium via chromedp, loads
// opts.URL, waits for the picker root to report data-ready="true" and writes
// a full-page PNG screenshot to opts.OutputPath.
func CapturePickerPNG(parentCtx context.Context, opts Options) error {
	if err := opts.normalize(); err != nil {
		return err
	}

	ctx, cancel := chromedp.NewContext(parentCtx)
	defer cancel()

	ctx, timeoutCancel := context.WithTimeout(ctx, opts.Timeout)
	defer timeoutCancel()

	var png []byte
	tasks := chromedp.Tasks{
		chromedp.EmulateViewport(int64(opts.Width), int64(opts.Height)),
		chromedp.Navigate(opts.URL),
		chromedp.WaitVisible(`[data-ready="true"]`, chromedp.ByQuery),
		// Let web fonts settle.
		chromedp.Sleep(200 * time.Millisecond),
		chromedp.FullScreenshot(&png, 100),
	}

	if err := chromedp.Run(ctx, tasks); err != nil {
		return fmt.Errorf("capture: chromedp run failed: %w", err)
	}

	if err := os.WriteFile(opts.OutputPath, png, 0o644); err != nil {
		return fmt.Errorf("capture: failed to write PNG: %w", err)
	}
	return nil
}
