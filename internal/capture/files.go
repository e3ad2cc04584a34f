package capture

import (
	"context"
	"fmt"
	"image"
	"os"
	"time"

	"github.com/junsooki/AirShot/internal/decoder"
)

// FileSource replays image files as if they were captured displays, in
// the order given.
type FileSource struct {
	Paths   []string
	decoder decoder.Decoder
}

func NewFileSource(paths ...string) *FileSource {
	return &FileSource{Paths: paths, decoder: decoder.NewImageDecoder()}
}

func (s *FileSource) Displays() ([]Display, error) {
	if len(s.Paths) == 0 {
		return nil, ErrNoDisplays
	}
	out := make([]Display, 0, len(s.Paths))
	x := 0
	for i, p := range s.Paths {
		img, err := s.load(p)
		if err != nil {
			return nil, err
		}
		w, h := img.Rect.Dx(), img.Rect.Dy()
		out = append(out, Display{Index: i, Bounds: image.Rect(x, 0, x+w, h), Main: i == 0})
		x += w
	}
	return out, nil
}

func (s *FileSource) CaptureAll(ctx context.Context) (FrameSet, error) {
	if len(s.Paths) == 0 {
		return nil, ErrNoDisplays
	}
	frames := make(FrameSet, 0, len(s.Paths))
	for i, p := range s.Paths {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		img, err := s.load(p)
		if err != nil {
			return nil, fmt.Errorf("source %d: %w", i, err)
		}
		f, err := NewFrame(img.Rect.Dx(), img.Rect.Dy(), img.Pix)
		if err != nil {
			return nil, fmt.Errorf("source %d: %w", i, err)
		}
		f.Display = i
		f.Timestamp = time.Now()
		frames = append(frames, f)
	}
	return frames, nil
}

func (s *FileSource) load(path string) (*image.RGBA, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	img, err := s.decoder.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return img, nil
}
