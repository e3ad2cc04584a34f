package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/junsooki/AirShot/internal/capture"
)

func NewDisplaysCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "displays",
		Short: "List the displays a screenshot would include",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ds, err := capture.NewCapturer().Displays()
			if err != nil {
				return err
			}
			renderDisplays(cmd.OutOrStdout(), ds)
			return nil
		},
	}
}

func renderDisplays(w io.Writer, ds []capture.Display) {
	header := fmt.Sprintf("%-5s %-11s %-13s %s", "INDEX", "SIZE", "ORIGIN", "MAIN")
	fmt.Fprintln(w, header)
	fmt.Fprintln(w, strings.Repeat("-", len(header)))
	for _, d := range ds {
		size := fmt.Sprintf("%dx%d", d.Bounds.Dx(), d.Bounds.Dy())
		origin := fmt.Sprintf("%d,%d", d.Bounds.Min.X, d.Bounds.Min.Y)
		primary := ""
		if d.Main {
			primary = color.GreenString("yes")
		}
		fmt.Fprintf(w, "%-5d %-11s %-13s %s\n", d.Index, size, origin, primary)
	}
}
