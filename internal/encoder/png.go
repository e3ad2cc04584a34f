package encoder

import (
	"bytes"
	"image"
	"image/png"
)

// PNGEncoder encodes frames losslessly, keeping the alpha channel.
type PNGEncoder struct {
	enc png.Encoder
}

func NewPNGEncoder() *PNGEncoder {
	return &PNGEncoder{enc: png.Encoder{CompressionLevel: png.DefaultCompression}}
}

func (e *PNGEncoder) Encode(img *image.RGBA) ([]byte, error) {
	var buf bytes.Buffer
	buf.Grow(len(img.Pix) / 4)
	if err := e.enc.Encode(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (e *PNGEncoder) Ext() string         { return ".png" }
func (e *PNGEncoder) ContentType() string { return "image/png" }
