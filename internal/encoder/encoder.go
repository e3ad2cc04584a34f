package encoder

import (
	"errors"
	"fmt"
	"image"
	"strings"
)

// DefaultJPEGQuality is used for lossy uploads.
const DefaultJPEGQuality = 90

var ErrUnknownFormat = errors.New("unknown image format")

// Encoder encodes an image into bytes.
type Encoder interface {
	Encode(img *image.RGBA) ([]byte, error)
	// Ext is the file extension including the dot.
	Ext() string
	ContentType() string
}

// New returns the encoder for format ("png", "jpeg" or "jpg").
// quality only applies to JPEG.
func New(format string, quality int) (Encoder, error) {
	switch strings.ToLower(format) {
	case "png":
		return NewPNGEncoder(), nil
	case "jpeg", "jpg":
		return NewJPEGEncoder(quality), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
}
