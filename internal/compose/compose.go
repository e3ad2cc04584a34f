// Package compose turns a set of captured displays into one image.
//
// Two layouts are supported. Collage places frames left to right, top
// aligned, in display order. Picture-in-picture keeps the main display at
// full size and stacks the other displays as scaled insets in its
// bottom-right corner. Both share one nearest-neighbor sampler.
package compose

import (
	"fmt"
	"image"

	"github.com/junsooki/AirShot/internal/capture"
)

const (
	// DefaultInsetRatio is main size / inset size, applied to both axes.
	DefaultInsetRatio = 4.0
	// DefaultInsetMargin is the gap in pixels between insets and the edges.
	DefaultInsetMargin = 20
	// DefaultFitSize is the bounding box used when collage fitting is on.
	DefaultFitSize = 800
)

// Compositor holds the layout constants.
type Compositor struct {
	// InsetRatio must be >= 1. Values below fall back to DefaultInsetRatio.
	InsetRatio  float64
	InsetMargin int
	// FitBox bounds every collage frame when non-zero. Frames already
	// inside the box are never enlarged.
	FitBox image.Point
}

// New returns a Compositor with the default constants and fitting off.
func New() *Compositor {
	return &Compositor{
		InsetRatio:  DefaultInsetRatio,
		InsetMargin: DefaultInsetMargin,
	}
}

// Compose dispatches to the layout for mode. An empty frame set yields nil.
func (c *Compositor) Compose(mode Mode, frames capture.FrameSet) (*image.RGBA, error) {
	switch mode {
	case ModeCollage:
		return c.Collage(frames), nil
	case ModePIP:
		return c.PictureInPicture(frames), nil
	}
	return nil, fmt.Errorf("%w: %q cannot be composited", ErrUnknownMode, mode)
}

// Collage composes frames side by side. Output width is the sum of the
// (fitted) frame widths and height is the tallest frame; the area below
// shorter frames stays zero.
func (c *Compositor) Collage(frames capture.FrameSet) *image.RGBA {
	imgs := make([]*image.RGBA, 0, len(frames))
	for _, img := range usable(frames) {
		if c.FitBox.X > 0 && c.FitBox.Y > 0 {
			img = FitWithin(img, c.FitBox.X, c.FitBox.Y)
		}
		imgs = append(imgs, img)
	}
	if len(imgs) == 0 {
		return nil
	}

	var total, tallest int
	for _, img := range imgs {
		total += img.Rect.Dx()
		tallest = max(tallest, img.Rect.Dy())
	}

	out := image.NewRGBA(image.Rect(0, 0, total, tallest))
	x := 0
	for _, img := range imgs {
		blit(out, img, image.Pt(x, 0))
		x += img.Rect.Dx()
	}
	return out
}

// PictureInPicture composes frames[0] at full size with every later frame
// drawn as an inset. Insets that do not fit above one another are clipped
// at the top edge and dropped once fully outside.
func (c *Compositor) PictureInPicture(frames capture.FrameSet) *image.RGBA {
	imgs := usable(frames)
	if len(imgs) == 0 {
		return nil
	}

	main := imgs[0]
	mw, mh := main.Rect.Dx(), main.Rect.Dy()
	out := image.NewRGBA(image.Rect(0, 0, mw, mh))
	if main.Stride == out.Stride && main.Rect.Min == (image.Point{}) {
		copy(out.Pix, main.Pix[:len(out.Pix)])
	} else {
		blit(out, main, image.Point{})
	}

	for i, r := range c.insetRects(mw, mh, len(imgs)-1) {
		if r.Intersect(out.Rect).Empty() {
			break
		}
		sampleNearest(out, r, imgs[i+1])
	}
	return out
}

// InsetSize returns the inset dimensions for a main frame, at least 1x1.
func (c *Compositor) InsetSize(mainW, mainH int) (int, int) {
	ratio := c.InsetRatio
	if ratio < 1 {
		ratio = DefaultInsetRatio
	}
	return max(int(float64(mainW)/ratio), 1), max(int(float64(mainH)/ratio), 1)
}

// insetRects lays out n insets from the bottom-right corner upward.
func (c *Compositor) insetRects(mw, mh, n int) []image.Rectangle {
	if n <= 0 {
		return nil
	}
	iw, ih := c.InsetSize(mw, mh)
	m := max(c.InsetMargin, 0)

	rects := make([]image.Rectangle, 0, n)
	right := mw - m
	bottom := mh - m
	for k := 0; k < n; k++ {
		rects = append(rects, image.Rect(right-iw, bottom-ih, right, bottom))
		bottom -= ih + m
	}
	return rects
}

func usable(frames capture.FrameSet) []*image.RGBA {
	out := make([]*image.RGBA, 0, len(frames))
	for _, f := range frames {
		if f == nil || f.Image == nil || f.Image.Rect.Empty() {
			continue
		}
		out = append(out, f.Image)
	}
	return out
}

// Collage composes frames with the default Compositor.
func Collage(frames capture.FrameSet) *image.RGBA {
	return New().Collage(frames)
}

// PictureInPicture composes frames with the default Compositor.
func PictureInPicture(frames capture.FrameSet) *image.RGBA {
	return New().PictureInPicture(frames)
}
