package logging

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

// Init configures the standard logrus logger. Verbose switches to debug level.
func Init(verbose bool) *logrus.Logger {
	return Configure(logrus.StandardLogger(), os.Stderr, verbose)
}

// Configure sets output, formatter and level on l and returns it.
func Configure(l *logrus.Logger, out io.Writer, verbose bool) *logrus.Logger {
	l.SetOutput(out)
	l.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "15:04:05.000",
	})
	l.SetLevel(logrus.InfoLevel)
	if verbose {
		l.SetLevel(logrus.DebugLevel)
	}
	return l
}

// Discard returns a logger that drops everything, for tests and quiet runs.
func Discard() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}
