package capture

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/draw"
	"time"
)

// BytesPerPixel is the size of one RGBA pixel.
const BytesPerPixel = 4

var (
	ErrInvalidFrame     = errors.New("invalid frame")
	ErrNoDisplays       = errors.New("no active displays")
	ErrPermissionDenied = errors.New("screen recording permission not granted")
	ErrCaptureFailed    = errors.New("display capture failed")
)

// Status codes reported by the native capture helper.
const (
	captureOK = iota
	captureNoSymbol
	captureNoImage
	captureNoMemory
	captureNoContext
)

// captureStatusError maps a native status to an error wrapping
// ErrCaptureFailed. It returns nil for captureOK.
func captureStatusError(status int) error {
	switch status {
	case captureOK:
		return nil
	case captureNoSymbol:
		return fmt.Errorf("%w: CGDisplayCreateImage not available", ErrCaptureFailed)
	case captureNoImage:
		return fmt.Errorf("%w: no image returned", ErrCaptureFailed)
	case captureNoMemory:
		return fmt.Errorf("%w: out of memory", ErrCaptureFailed)
	case captureNoContext:
		return fmt.Errorf("%w: bitmap context unavailable", ErrCaptureFailed)
	}
	return fmt.Errorf("%w: status %d", ErrCaptureFailed, status)
}

// Frame represents one captured screen, tightly packed RGBA at origin (0,0).
type Frame struct {
	Image     *image.RGBA
	Display   int
	Bounds    image.Rectangle // position on the virtual desktop
	Timestamp time.Time
}

// NewFrame wraps pix as a width x height RGBA frame. pix must hold exactly
// width*height*4 bytes.
func NewFrame(width, height int, pix []byte) (*Frame, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: size %dx%d", ErrInvalidFrame, width, height)
	}
	if want := width * height * BytesPerPixel; len(pix) != want {
		return nil, fmt.Errorf("%w: %dx%d needs %d bytes, got %d", ErrInvalidFrame, width, height, want, len(pix))
	}
	return &Frame{
		Image: &image.RGBA{
			Pix:    pix,
			Stride: width * BytesPerPixel,
			Rect:   image.Rect(0, 0, width, height),
		},
		Bounds:    image.Rect(0, 0, width, height),
		Timestamp: time.Now(),
	}, nil
}

// FromImage repacks img into a new frame. Sub-images and non-RGBA color
// models are copied so the result always has stride width*4.
func FromImage(img image.Image) (*Frame, error) {
	if img == nil {
		return nil, fmt.Errorf("%w: nil image", ErrInvalidFrame)
	}
	b := img.Bounds()
	if b.Empty() {
		return nil, fmt.Errorf("%w: empty bounds %v", ErrInvalidFrame, b)
	}
	rgba := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(rgba, rgba.Rect, img, b.Min, draw.Src)
	f, err := NewFrame(b.Dx(), b.Dy(), rgba.Pix)
	if err != nil {
		return nil, err
	}
	f.Bounds = b
	return f, nil
}

// Width returns the frame width in pixels.
func (f *Frame) Width() int { return f.Image.Rect.Dx() }

// Height returns the frame height in pixels.
func (f *Frame) Height() int { return f.Image.Rect.Dy() }

// FrameSet is an ordered set of frames in display enumeration order.
// Index 0 is the main display.
type FrameSet []*Frame

func (s FrameSet) Len() int { return len(s) }

// Release drops the pixel buffers so they can be collected while the
// set itself is still referenced.
func (s FrameSet) Release() {
	for _, f := range s {
		if f != nil {
			f.Image = nil
		}
	}
}

// Display describes an active monitor.
type Display struct {
	Index  int
	Bounds image.Rectangle
	Main   bool
}

// Capturer grabs every active display.
type Capturer interface {
	CaptureAll(ctx context.Context) (FrameSet, error)
	Displays() ([]Display, error)
}
