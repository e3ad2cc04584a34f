package main

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
)

// Set at build time via -ldflags "-X main.Version=...".
var (
	Version   = "dev"
	CommitID  = "unknown"
	BuildTime = "unknown"
)

func NewVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		// Runs without a config file.
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "AirShot %s (commit %s, built %s, %s %s/%s)\n",
				Version, CommitID, BuildTime, runtime.Version(), runtime.GOOS, runtime.GOARCH)
		},
	}
}
