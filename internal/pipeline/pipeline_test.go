package pipeline

import (
	"context"
	"errors"
	"image"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/junsooki/AirShot/internal/capture"
	"github.com/junsooki/AirShot/internal/compose"
	"github.com/junsooki/AirShot/internal/decoder"
	"github.com/junsooki/AirShot/internal/encoder"
	"github.com/junsooki/AirShot/internal/logging"
	"github.com/junsooki/AirShot/internal/notify"
)

type fakeCapturer struct {
	frames capture.FrameSet
	err    error
}

func (f *fakeCapturer) CaptureAll(ctx context.Context) (capture.FrameSet, error) {
	return f.frames, f.err
}

func (f *fakeCapturer) Displays() ([]capture.Display, error) { return nil, nil }

type fakeUploader struct {
	paths []string
	err   error
}

func (f *fakeUploader) Upload(ctx context.Context, path string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.paths = append(f.paths, path)
	return "https://cdn.example.com/" + filepath.Base(path), nil
}

type fakeNotifier struct {
	events []notify.Event
	err    error
}

func (f *fakeNotifier) Notify(ctx context.Context, e notify.Event) error {
	f.events = append(f.events, e)
	return f.err
}

func frame(t *testing.T, w, h int) *capture.Frame {
	t.Helper()
	f, err := capture.NewFrame(w, h, make([]byte, w*h*4))
	require.NoError(t, err)
	return f
}

var fixedNow = time.Date(2024, 3, 5, 7, 8, 9, 0, time.UTC)

func newRunner(t *testing.T, frames capture.FrameSet) (*Runner, *fakeUploader, *fakeNotifier) {
	t.Helper()
	up := &fakeUploader{}
	nt := &fakeNotifier{}
	return &Runner{
		Capturer:   &fakeCapturer{frames: frames},
		Compositor: compose.New(),
		Encoder:    encoder.NewPNGEncoder(),
		Uploader:   up,
		Notifier:   nt,
		OutputDir:  t.TempDir(),
		Log:        logging.Discard(),
		Now:        func() time.Time { return fixedNow },
	}, up, nt
}

func TestRunCollage(t *testing.T) {
	r, up, nt := newRunner(t, capture.FrameSet{frame(t, 30, 20), frame(t, 10, 40)})

	res, err := r.Run(context.Background(), Request{Mode: compose.ModeCollage})
	require.NoError(t, err)

	want := filepath.Join(r.OutputDir, "screenshot_20240305070809.png")
	assert.Equal(t, 2, res.Frames)
	assert.Equal(t, []string{want}, res.Saved())
	assert.Equal(t, image.Pt(40, 40), res.Outputs[0].Size)
	assert.Nil(t, res.Outputs[0].Image)
	assert.Equal(t, []string{want}, up.paths)
	assert.Equal(t, []string{"https://cdn.example.com/screenshot_20240305070809.png"}, res.URLs())

	require.Len(t, nt.events, 1)
	assert.Equal(t, res.Outputs[0].URL, nt.events[0].URL)
	assert.Equal(t, fixedNow, nt.events[0].Time)
	assert.Equal(t, 1, res.Notified)

	img, err := decoder.NewImageDecoder().DecodeFile(want)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 40, 40), img.Rect)
}

func TestRunPictureInPicture(t *testing.T) {
	r, _, _ := newRunner(t, capture.FrameSet{frame(t, 64, 48), frame(t, 100, 100), frame(t, 20, 20)})
	r.KeepImages = true

	res, err := r.Run(context.Background(), Request{BaseName: "desk", Mode: compose.ModePIP})
	require.NoError(t, err)
	require.Len(t, res.Outputs, 1)
	assert.Equal(t, filepath.Join(r.OutputDir, "desk.png"), res.Outputs[0].Path)
	assert.Equal(t, image.Pt(64, 48), res.Outputs[0].Size)
	require.NotNil(t, res.Outputs[0].Image)
}

func TestRunSeparate(t *testing.T) {
	r, up, nt := newRunner(t, capture.FrameSet{frame(t, 8, 8), frame(t, 4, 6)})
	r.Encoder = encoder.NewJPEGEncoder(encoder.DefaultJPEGQuality)

	res, err := r.Run(context.Background(), Request{BaseName: "multi", Mode: compose.ModeSeparate})
	require.NoError(t, err)

	want := []string{
		filepath.Join(r.OutputDir, "multi_display0.jpg"),
		filepath.Join(r.OutputDir, "multi_display1.jpg"),
	}
	assert.Equal(t, want, res.Saved())
	assert.Equal(t, want, up.paths)
	assert.Len(t, nt.events, 2)
	for _, p := range want {
		_, err := os.Stat(p)
		assert.NoError(t, err)
	}
}

func TestRunEmptyCaptureIsNoop(t *testing.T) {
	r, up, nt := newRunner(t, nil)

	res, err := r.Run(context.Background(), Request{Mode: compose.ModeCollage})
	require.NoError(t, err)
	assert.Zero(t, res.Frames)
	assert.Empty(t, res.Outputs)
	assert.Empty(t, up.paths)
	assert.Empty(t, nt.events)
}

func TestRunCaptureFailure(t *testing.T) {
	r, up, _ := newRunner(t, nil)
	r.Capturer = &fakeCapturer{err: capture.ErrPermissionDenied}

	_, err := r.Run(context.Background(), Request{Mode: compose.ModeCollage})
	var se *StageError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, StageCapture, se.Stage)
	assert.ErrorIs(t, err, capture.ErrPermissionDenied)
	assert.Empty(t, up.paths)
}

func TestRunComposeFailure(t *testing.T) {
	r, _, _ := newRunner(t, capture.FrameSet{frame(t, 2, 2)})

	_, err := r.Run(context.Background(), Request{Mode: compose.Mode("grid")})
	var se *StageError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, StageCompose, se.Stage)
	assert.ErrorIs(t, err, compose.ErrUnknownMode)
}

func TestRunEncodeFailureSkipsUpload(t *testing.T) {
	r, up, _ := newRunner(t, capture.FrameSet{frame(t, 2, 2)})
	blocker := filepath.Join(r.OutputDir, "blocker")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o644))

	res, err := r.Run(context.Background(), Request{BaseName: filepath.Join(blocker, "shot"), Mode: compose.ModeCollage})
	var se *StageError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, StageEncode, se.Stage)
	assert.Empty(t, res.Outputs)
	assert.Empty(t, up.paths)
}

func TestRunUploadFailureKeepsSavedFile(t *testing.T) {
	boom := errors.New("connection refused")
	r, _, nt := newRunner(t, capture.FrameSet{frame(t, 2, 2)})
	r.Uploader = &fakeUploader{err: boom}

	res, err := r.Run(context.Background(), Request{BaseName: "partial", Mode: compose.ModeCollage})
	var se *StageError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, StageUpload, se.Stage)
	assert.ErrorIs(t, err, boom)

	require.Len(t, res.Saved(), 1)
	_, statErr := os.Stat(res.Saved()[0])
	assert.NoError(t, statErr)
	assert.Empty(t, res.URLs())
	assert.Empty(t, nt.events)
}

func TestRunNotifyFailure(t *testing.T) {
	boom := errors.New("hook down")
	r, _, nt := newRunner(t, capture.FrameSet{frame(t, 2, 2)})
	nt.err = boom

	res, err := r.Run(context.Background(), Request{Mode: compose.ModeCollage})
	var se *StageError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, StageNotify, se.Stage)
	assert.ErrorIs(t, err, boom)
	assert.Len(t, res.URLs(), 1)
	assert.Zero(t, res.Notified)
}

func TestRunWithoutUploader(t *testing.T) {
	r, _, nt := newRunner(t, capture.FrameSet{frame(t, 2, 2)})
	r.Uploader = nil

	res, err := r.Run(context.Background(), Request{Mode: compose.ModeCollage})
	require.NoError(t, err)
	assert.Len(t, res.Saved(), 1)
	assert.Empty(t, nt.events)
}

func TestRunReleasesFrames(t *testing.T) {
	frames := capture.FrameSet{frame(t, 2, 2)}
	r, _, _ := newRunner(t, frames)

	_, err := r.Run(context.Background(), Request{Mode: compose.ModeCollage})
	require.NoError(t, err)
	assert.Nil(t, frames[0].Image)
}

func TestBasePath(t *testing.T) {
	r := &Runner{OutputDir: "/out", Now: func() time.Time { return fixedNow }}

	assert.Equal(t, filepath.Join("/out", "screenshot_20240305070809"), r.basePath(""))
	assert.Equal(t, filepath.Join("/out", "desk"), r.basePath("desk"))
	assert.Equal(t, filepath.Join("/out", "desk"), r.basePath("desk.PNG"))
	assert.Equal(t, "/abs/desk", r.basePath("/abs/desk.jpg"))
	assert.Equal(t, filepath.Join("rel", "desk"), r.basePath(filepath.Join("rel", "desk")))

	r.OutputDir = ""
	assert.Equal(t, "desk", r.basePath("desk"))
}
