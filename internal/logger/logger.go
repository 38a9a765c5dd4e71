package logger

import (
	"github.com/sirupsen/logrus"
)

// Log is the process-wide logger. Init must run before use; tests get a
// default logger from the package init.
var Log = logrus.New()

// Init configures the level and JSON output.
func Init(level string) {
	Log = logrus.New()

	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	Log.SetLevel(lvl)
	Log.SetFormatter(&logrus.JSONFormatter{})
}

// SetTextFormatter switches to human-readable output for development.
func SetTextFormatter() {
	Log.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})
}
