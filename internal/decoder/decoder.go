package decoder

import "image"

// Decoder decodes encoded image bytes into a tightly packed RGBA image.
type Decoder interface {
	Decode(data []byte) (*image.RGBA, error)
}
