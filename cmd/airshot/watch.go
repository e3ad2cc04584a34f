package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/junsooki/AirShot/internal/pipeline"
	"github.com/junsooki/AirShot/internal/schedule"
)

type WatchOptions struct {
	Now      bool
	NoUpload bool
}

func NewWatchCommand(a *app) *cobra.Command {
	opts := &WatchOptions{}

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Take screenshots on a schedule until interrupted",
		Long: `Run the screenshot pipeline on a cron schedule. A run that is still
in progress when the next one is due causes that tick to be skipped.`,
		Example: `  airshot watch
  airshot watch --cron "@every 30m" --layout pip
  airshot watch --cron "0 9-17 * * MON-FRI" --now`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWatch(cmd, a, opts)
		},
	}

	flags := cmd.Flags()
	flags.String("cron", "@every 10m", "Cron expression or descriptor")
	flags.StringP("layout", "l", "collage", "Layout: collage, pip or separate")
	flags.StringP("format", "f", "png", "Image format: png or jpeg")
	flags.IntP("quality", "q", 90, "JPEG quality (1-100)")
	flags.Bool("fit", false, "Shrink each display to the fit box before the collage")
	flags.BoolVar(&opts.Now, "now", false, "Take the first screenshot immediately")
	flags.BoolVar(&opts.NoUpload, "no-upload", false, "Save locally without uploading")

	return cmd
}

func runWatch(cmd *cobra.Command, a *app, opts *WatchOptions) error {
	cfg := a.cfg
	if opts.NoUpload {
		cfg.Upload.Enabled = false
	}
	// A preview window would block the schedule.
	cfg.Output.Preview = false

	r, err := newRunner(cfg, a.log, nil)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	s, err := schedule.New(cfg.Watch.Cron, func(ctx context.Context) error {
		res, err := r.Run(ctx, pipeline.Request{Mode: cfg.Mode()})
		printResult(out, res, err)
		return err
	}, a.log)
	if err != nil {
		return err
	}
	s.RunAtStart = opts.Now
	return s.Run(cmd.Context())
}
