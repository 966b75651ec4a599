package internal

import (
	"io"

	"github.com/sirupsen/logrus"
)

// NewLogger creates the diagnostic logger for a binary. Only warnings are shown unless verbose is set.
func NewLogger(w io.Writer, verbose bool) *logrus.Logger {
	log := logrus.New()
	log.SetOutput(w)
	log.SetFormatter(&logrus.TextFormatter{
		DisableTimestamp: true,
	})
	log.SetLevel(logrus.WarnLevel)
	if verbose {
		log.SetLevel(logrus.DebugLevel)
	}
	return log
}
