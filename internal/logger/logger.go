package logger

import (
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// New builds the job logger. The debug flag (DEBUG setting) forces debug
// level regardless of LOG_LEVEL, mirroring the verbose mode of the sync job.
func New(debug bool) *logrus.Logger {
	l := logrus.New()
	l.SetOutput(os.Stdout)
	l.SetFormatter(&logrus.JSONFormatter{})

	level := strings.ToLower(strings.TrimSpace(os.Getenv("LOG_LEVEL")))
	switch level {
	case "trace":
		l.SetLevel(logrus.TraceLevel)
	case "debug":
		l.SetLevel(logrus.DebugLevel)
	case "warn", "warning":
		l.SetLevel(logrus.WarnLevel)
	case "error":
		l.SetLevel(logrus.ErrorLevel)
	default:
		l.SetLevel(logrus.InfoLevel)
	}
	if debug {
		l.SetLevel(logrus.DebugLevel)
	}
	return l
}
