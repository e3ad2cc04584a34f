package main

import (
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/junsooki/AirShot/internal/config"
	"github.com/junsooki/AirShot/internal/logging"
)

// flagKeys maps command line flags onto configuration keys so that a flag
// set on the command line wins over env and file values.
var flagKeys = map[string]string{
	"verbose":    "verbose",
	"output-dir": "output.dir",
	"layout":     "layout.mode",
	"format":     "output.format",
	"quality":    "output.quality",
	"fit":        "layout.fit",
	"preview":    "output.preview",
	"cron":       "watch.cron",
}

// app carries state shared by every subcommand once the configuration is loaded.
type app struct {
	configFile string
	cfg        *config.Config
	log        *logrus.Logger
}

func NewRootCommand() *cobra.Command {
	a := &app{}

	cmd := &cobra.Command{
		Use:   "airshot",
		Short: "Capture every display, upload the screenshot, share the link",
		Long: `AirShot captures all connected displays in one shot, lays them out as a
side-by-side collage or a picture-in-picture composite, saves the image,
uploads it to a hosting API and announces the hosted URL.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.load(cmd.Flags())
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVarP(&a.configFile, "config", "c", "", "Config file (default ./config.yaml or $XDG_CONFIG_HOME/airshot/config.yaml)")
	flags.BoolP("verbose", "v", false, "Enable debug logging")
	flags.StringP("output-dir", "o", "", "Directory screenshots are written to")

	cmd.AddCommand(NewShotCommand(a))
	cmd.AddCommand(NewWatchCommand(a))
	cmd.AddCommand(NewDisplaysCommand(a))
	cmd.AddCommand(NewVersionCommand())

	return cmd
}

func (a *app) load(flags *pflag.FlagSet) error {
	v, err := config.New(a.configFile)
	if err != nil {
		return err
	}
	if err := bindFlags(v, flags); err != nil {
		return err
	}
	cfg, err := config.Load(v)
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.log = logging.Init(cfg.Verbose)
	a.log.WithField("config", v.ConfigFileUsed()).Debug("configuration loaded")
	return nil
}

func bindFlags(v *viper.Viper, flags *pflag.FlagSet) error {
	for name, key := range flagKeys {
		f := flags.Lookup(name)
		if f == nil {
			continue
		}
		if err := v.BindPFlag(key, f); err != nil {
			return errors.Wrapf(err, "bind flag --%s", name)
		}
	}
	return nil
}
