package encoder

import (
	"image"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/junsooki/AirShot/internal/decoder"
)

func testImage() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, 32, 16))
	for y := 0; y < 16; y++ {
		for x := 0; x < 32; x++ {
			img.SetRGBA(x, y, color.RGBA{R: uint8(x * 8), G: uint8(y * 16), B: 40, A: 255})
		}
	}
	return img
}

func TestNew(t *testing.T) {
	tests := []struct {
		format  string
		ext     string
		ctype   string
		wantErr bool
	}{
		{format: "png", ext: ".png", ctype: "image/png"},
		{format: "PNG", ext: ".png", ctype: "image/png"},
		{format: "jpeg", ext: ".jpg", ctype: "image/jpeg"},
		{format: "jpg", ext: ".jpg", ctype: "image/jpeg"},
		{format: "webp", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			enc, err := New(tt.format, 0)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrUnknownFormat)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.ext, enc.Ext())
			assert.Equal(t, tt.ctype, enc.ContentType())
		})
	}
}

func TestJPEGQualityClamp(t *testing.T) {
	assert.Equal(t, DefaultJPEGQuality, NewJPEGEncoder(0).Quality())
	assert.Equal(t, 1, NewJPEGEncoder(-5).Quality())
	assert.Equal(t, 100, NewJPEGEncoder(250).Quality())
	assert.Equal(t, 75, NewJPEGEncoder(75).Quality())
}

func TestPNGIsLossless(t *testing.T) {
	img := testImage()
	data, err := NewPNGEncoder().Encode(img)
	require.NoError(t, err)

	got, err := decoder.NewImageDecoder().Decode(data)
	require.NoError(t, err)
	assert.Equal(t, img.Rect, got.Rect)
	assert.Equal(t, img.Pix, got.Pix)
}

func TestJPEGEncodes(t *testing.T) {
	data, err := NewJPEGEncoder(DefaultJPEGQuality).Encode(testImage())
	require.NoError(t, err)
	require.Greater(t, len(data), 2)
	assert.Equal(t, []byte{0xFF, 0xD8}, data[:2])

	got, err := decoder.NewImageDecoder().Decode(data)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 32, 16), got.Rect)
}

func TestWriteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "shot.png")
	require.NoError(t, WriteFile(path, NewPNGEncoder(), testImage()))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp file left behind")
}

func TestWriteFileErrors(t *testing.T) {
	dir := t.TempDir()
	assert.Error(t, WriteFile(filepath.Join(dir, "a.png"), NewPNGEncoder(), nil))

	// A regular file where a directory is expected.
	blocker := filepath.Join(dir, "blocker")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o644))
	assert.Error(t, WriteFile(filepath.Join(blocker, "shot.png"), NewPNGEncoder(), testImage()))
}
