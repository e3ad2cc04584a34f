// Package pipeline runs one screenshot: capture every display, composite,
// write the image, upload it and announce the hosted URL.
//
// Steps run in order on the calling goroutine and stop at the first step
// that fails. The returned Result always describes what did complete, so a
// file that was saved but never uploaded is still reported.
package pipeline

import (
	"context"
	"fmt"
	"image"
	"path/filepath"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/junsooki/AirShot/internal/capture"
	"github.com/junsooki/AirShot/internal/compose"
	"github.com/junsooki/AirShot/internal/encoder"
	"github.com/junsooki/AirShot/internal/notify"
)

// Stage names a pipeline step.
type Stage string

const (
	StageCapture Stage = "capture"
	StageCompose Stage = "compose"
	StageEncode  Stage = "encode"
	StageUpload  Stage = "upload"
	StageNotify  Stage = "notify"
)

// StageError reports which step failed.
type StageError struct {
	Stage Stage
	Err   error
}

func (e *StageError) Error() string { return fmt.Sprintf("%s: %v", e.Stage, e.Err) }
func (e *StageError) Unwrap() error { return e.Err }

// Uploader hosts a written file and returns its URL.
type Uploader interface {
	Upload(ctx context.Context, path string) (string, error)
}

// Request selects the output name and layout for one run.
type Request struct {
	// BaseName is the output path without extension. Relative names
	// without a directory land in Runner.OutputDir; empty means
	// screenshot_<timestamp>.
	BaseName string
	Mode     compose.Mode
}

// Output is one written image.
type Output struct {
	Path  string
	Size  image.Point
	URL   string
	Image *image.RGBA
}

// Result describes the completed part of a run.
type Result struct {
	Mode     compose.Mode
	Frames   int
	Outputs  []Output
	Notified int
}

// Saved returns the paths of every written file.
func (r *Result) Saved() []string {
	out := make([]string, 0, len(r.Outputs))
	for _, o := range r.Outputs {
		out = append(out, o.Path)
	}
	return out
}

// URLs returns the hosted URLs obtained so far.
func (r *Result) URLs() []string {
	var out []string
	for _, o := range r.Outputs {
		if o.URL != "" {
			out = append(out, o.URL)
		}
	}
	return out
}

// Runner wires the collaborators. Uploader and Notifier are optional.
type Runner struct {
	Capturer   capture.Capturer
	Compositor *compose.Compositor
	Encoder    encoder.Encoder
	Uploader   Uploader
	Notifier   notify.Notifier
	OutputDir  string
	// KeepImages retains composited images in the Result for previewing.
	KeepImages bool
	Log        logrus.FieldLogger
	Now        func() time.Time
}

func (r *Runner) logger() logrus.FieldLogger {
	if r.Log == nil {
		return logrus.StandardLogger()
	}
	return r.Log
}

func (r *Runner) now() time.Time {
	if r.Now == nil {
		return time.Now()
	}
	return r.Now()
}

// Run executes one capture. An empty capture is a no-op and returns an
// empty Result with a nil error.
func (r *Runner) Run(ctx context.Context, req Request) (*Result, error) {
	log := r.logger().WithField("mode", req.Mode)
	res := &Result{Mode: req.Mode}

	frames, err := r.Capturer.CaptureAll(ctx)
	if err != nil {
		return res, &StageError{Stage: StageCapture, Err: err}
	}
	defer frames.Release()
	res.Frames = frames.Len()
	if frames.Len() == 0 {
		log.Warn("no frames captured, nothing to do")
		return res, nil
	}
	for _, f := range frames {
		log.WithFields(logrus.Fields{"display": f.Display, "width": f.Width(), "height": f.Height()}).Debug("captured display")
	}

	base := r.basePath(req.BaseName)
	outputs, err := r.layout(req.Mode, frames, base)
	if err != nil {
		return res, &StageError{Stage: StageCompose, Err: err}
	}
	if len(outputs) == 0 {
		log.Warn("compositor produced no image")
		return res, nil
	}

	for _, o := range outputs {
		if err := encoder.WriteFile(o.Path, r.Encoder, o.Image); err != nil {
			return res, &StageError{Stage: StageEncode, Err: err}
		}
		if !r.KeepImages {
			o.Image = nil
		}
		res.Outputs = append(res.Outputs, o)
		log.WithFields(logrus.Fields{"path": o.Path, "width": o.Size.X, "height": o.Size.Y}).Info("screenshot saved")
	}

	if r.Uploader == nil {
		return res, nil
	}
	for i := range res.Outputs {
		o := &res.Outputs[i]
		url, err := r.Uploader.Upload(ctx, o.Path)
		if err != nil {
			return res, &StageError{Stage: StageUpload, Err: errors.Wrapf(err, "upload %s", filepath.Base(o.Path))}
		}
		o.URL = url
		log.WithField("url", url).Info("screenshot uploaded")
	}

	if r.Notifier == nil {
		return res, nil
	}
	for _, o := range res.Outputs {
		e := notify.Event{URL: o.URL, Key: filepath.Base(o.Path), Path: o.Path, Time: r.now()}
		if err := r.Notifier.Notify(ctx, e); err != nil {
			return res, &StageError{Stage: StageNotify, Err: errors.Wrapf(err, "notify %s", o.URL)}
		}
		res.Notified++
	}
	return res, nil
}

func (r *Runner) layout(mode compose.Mode, frames capture.FrameSet, base string) ([]Output, error) {
	ext := r.Encoder.Ext()
	if mode == compose.ModeSeparate {
		outputs := make([]Output, 0, frames.Len())
		for i, f := range frames {
			if f == nil || f.Image == nil {
				continue
			}
			outputs = append(outputs, Output{
				Path:  fmt.Sprintf("%s_display%d%s", base, i, ext),
				Size:  f.Image.Rect.Size(),
				Image: f.Image,
			})
		}
		return outputs, nil
	}

	c := r.Compositor
	if c == nil {
		c = compose.New()
	}
	img, err := c.Compose(mode, frames)
	if err != nil {
		return nil, err
	}
	if img == nil {
		return nil, nil
	}
	return []Output{{Path: base + ext, Size: img.Rect.Size(), Image: img}}, nil
}

// DefaultBaseName is the timestamped name used when none is given.
func DefaultBaseName(t time.Time) string {
	return "screenshot_" + t.Format("20060102150405")
}

func (r *Runner) basePath(name string) string {
	if name == "" {
		name = DefaultBaseName(r.now())
	}
	switch strings.ToLower(filepath.Ext(name)) {
	case ".png", ".jpg", ".jpeg":
		name = strings.TrimSuffix(name, filepath.Ext(name))
	}
	if filepath.IsAbs(name) || filepath.Dir(name) != "." || r.OutputDir == "" {
		return name
	}
	return filepath.Join(r.OutputDir, name)
}
