package main

import (
	"fmt"
	"image"
	"io"

	"github.com/fatih/color"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/junsooki/AirShot/internal/capture"
	"github.com/junsooki/AirShot/internal/compose"
	"github.com/junsooki/AirShot/internal/config"
	"github.com/junsooki/AirShot/internal/encoder"
	"github.com/junsooki/AirShot/internal/notify"
	"github.com/junsooki/AirShot/internal/pipeline"
	"github.com/junsooki/AirShot/internal/upload"
)

// newRunner assembles a pipeline from the loaded configuration. Paths in
// from replace live capture with image files.
func newRunner(cfg *config.Config, log logrus.FieldLogger, from []string) (*pipeline.Runner, error) {
	enc, err := encoder.New(cfg.Output.Format, cfg.Output.Quality)
	if err != nil {
		return nil, err
	}

	comp := &compose.Compositor{
		InsetRatio:  cfg.Layout.InsetRatio,
		InsetMargin: cfg.Layout.InsetMargin,
	}
	if cfg.Layout.Fit {
		comp.FitBox = image.Pt(cfg.Layout.FitWidth, cfg.Layout.FitHeight)
	}

	var src capture.Capturer = capture.NewCapturer()
	if len(from) > 0 {
		src = capture.NewFileSource(from...)
	}

	r := &pipeline.Runner{
		Capturer:   src,
		Compositor: comp,
		Encoder:    enc,
		OutputDir:  cfg.ExpandDir(),
		KeepImages: cfg.Output.Preview,
		Log:        log,
	}

	switch {
	case cfg.UploadReady():
		up, err := upload.NewClient(upload.Options{
			Endpoint:   cfg.Upload.Endpoint,
			Token:      cfg.Upload.Token,
			Cookie:     cfg.Upload.Cookie,
			ResultPath: cfg.Upload.ResultPath,
			KeepNames:  cfg.Upload.KeepNames,
			Timeout:    cfg.Upload.Timeout,
			Logger:     log,
		})
		if err != nil {
			return nil, errors.Wrap(err, "upload client")
		}
		r.Uploader = up
		r.Notifier = notifiers(cfg)
	case cfg.Upload.Enabled:
		log.Warn("upload.endpoint is not set, screenshots are saved locally only")
	}
	return r, nil
}

// notifiers returns the configured notifiers, or nil when none are.
func notifiers(cfg *config.Config) notify.Notifier {
	var m notify.Multi
	if cfg.Notify.WebhookURL != "" {
		m = append(m, notify.NewWebhook(cfg.Notify.WebhookURL, cfg.Notify.WebhookParam, cfg.Notify.Timeout))
	}
	if cfg.Notify.WebSocketURL != "" {
		m = append(m, notify.NewWebSocket(cfg.Notify.WebSocketURL, cfg.Notify.ClientID, cfg.Notify.Timeout))
	}
	if cfg.Notify.Desktop {
		m = append(m, notify.NewDesktop())
	}
	if len(m) == 0 {
		return nil
	}
	return m
}

// printResult lists what a run produced. err is the run's error; the
// empty-capture notice is only printed for successful runs.
func printResult(w io.Writer, res *pipeline.Result, err error) {
	if res == nil {
		return
	}
	if err == nil && res.Frames == 0 {
		fmt.Fprintln(w, color.YellowString("No displays captured"))
		return
	}
	for _, o := range res.Outputs {
		fmt.Fprintf(w, "%s %s (%dx%d)\n", color.GreenString("Saved"), o.Path, o.Size.X, o.Size.Y)
		if o.URL != "" {
			fmt.Fprintf(w, "%s %s\n", color.GreenString("Uploaded"), color.CyanString(o.URL))
		}
	}
}
