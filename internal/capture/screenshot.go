//go:build !darwin || !cgo

package capture

import (
	"context"
	"fmt"
	"time"

	"github.com/kbinani/screenshot"
)

// ScreenshotCapturer captures displays with github.com/kbinani/screenshot
// (GDI BitBlt on Windows, XGetImage/XShm on X11).
type ScreenshotCapturer struct{}

// NewCapturer returns the kbinani/screenshot backed capturer.
func NewCapturer() Capturer {
	return &ScreenshotCapturer{}
}

func (c *ScreenshotCapturer) Displays() ([]Display, error) {
	n := screenshot.NumActiveDisplays()
	if n <= 0 {
		return nil, ErrNoDisplays
	}
	out := make([]Display, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, Display{Index: i, Bounds: screenshot.GetDisplayBounds(i), Main: i == 0})
	}
	return out, nil
}

func (c *ScreenshotCapturer) CaptureAll(ctx context.Context) (FrameSet, error) {
	n := screenshot.NumActiveDisplays()
	if n <= 0 {
		return nil, ErrNoDisplays
	}

	frames := make(FrameSet, 0, n)
	for i := 0; i < n; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		bounds := screenshot.GetDisplayBounds(i)
		img, err := screenshot.CaptureRect(bounds)
		if err != nil {
			return nil, fmt.Errorf("display %d: %w", i, err)
		}
		// CaptureRect returns an image positioned at bounds.Min; repack to origin.
		f, err := FromImage(img)
		if err != nil {
			return nil, fmt.Errorf("display %d: %w", i, err)
		}
		f.Display = i
		f.Bounds = bounds
		f.Timestamp = time.Now()
		frames = append(frames, f)
	}
	return frames, nil
}
