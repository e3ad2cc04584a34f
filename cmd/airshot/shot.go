package main

import (
	"image"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/junsooki/AirShot/internal/display"
	"github.com/junsooki/AirShot/internal/pipeline"
)

// newPreview opens the result window. Replaced in tests.
var newPreview = func(img *image.RGBA, title string) display.Window {
	return display.NewPreview(img, title)
}

type ShotOptions struct {
	NoUpload bool
	From     []string
}

func NewShotCommand(a *app) *cobra.Command {
	opts := &ShotOptions{}

	cmd := &cobra.Command{
		Use:   "shot [base-name]",
		Short: "Take one screenshot of every display",
		Long: `Capture every display, compose them, save the image and upload it.
The base name may include a directory; without one the image is written to
the output directory. Defaults to screenshot_<yyyyMMddHHmmss>.`,
		Example: `  airshot shot
  airshot shot desk --layout pip
  airshot shot --layout separate --format jpeg --quality 80
  airshot shot --from left.png,right.png --no-upload`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			base := ""
			if len(args) == 1 {
				base = args[0]
			}
			return runShot(cmd, a, opts, base)
		},
	}

	flags := cmd.Flags()
	flags.StringP("layout", "l", "collage", "Layout: collage, pip or separate")
	flags.StringP("format", "f", "png", "Image format: png or jpeg")
	flags.IntP("quality", "q", 90, "JPEG quality (1-100)")
	flags.Bool("fit", false, "Shrink each display to the fit box before the collage")
	flags.BoolP("preview", "p", false, "Show the result in a window")
	flags.BoolVar(&opts.NoUpload, "no-upload", false, "Save locally without uploading")
	flags.StringSliceVar(&opts.From, "from", nil, "Compose these image files instead of capturing")

	cmd.RegisterFlagCompletionFunc("layout", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return []string{"collage", "pip", "separate"}, cobra.ShellCompDirectiveNoFileComp
	})
	cmd.RegisterFlagCompletionFunc("format", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		return []string{"png", "jpeg"}, cobra.ShellCompDirectiveNoFileComp
	})

	return cmd
}

func runShot(cmd *cobra.Command, a *app, opts *ShotOptions, base string) error {
	cfg := a.cfg
	if opts.NoUpload {
		cfg.Upload.Enabled = false
	}

	r, err := newRunner(cfg, a.log, opts.From)
	if err != nil {
		return err
	}

	res, err := r.Run(cmd.Context(), pipeline.Request{BaseName: base, Mode: cfg.Mode()})
	printResult(cmd.OutOrStdout(), res, err)
	if err != nil {
		return err
	}

	if cfg.Output.Preview && len(res.Outputs) > 0 {
		o := res.Outputs[0]
		return newPreview(o.Image, "AirShot - "+filepath.Base(o.Path)).Run()
	}
	return nil
}
