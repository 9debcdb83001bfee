// Package logging builds the process-wide logrus logger.
package logging

import (
	"fmt"
	"os"

	gommonlog "github.com/labstack/gommon/log"
	"github.com/sirupsen/logrus"
)

// New returns a logger writing to stderr at the given level. format is
// "json" for machine-readable output; anything else selects the text
// formatter with full timestamps.
func New(level, format string) (*logrus.Logger, error) {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("parse log level: %w", err)
	}

	l := logrus.New()
	l.SetOutput(os.Stderr)
	l.SetLevel(lvl)
	if format == "json" {
		l.SetFormatter(&logrus.JSONFormatter{})
	} else {
		l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	return l, nil
}

// EchoLevel maps a logrus level onto the gommon level used by echo's
// internal logger so both report at the same verbosity.
func EchoLevel(l logrus.Level) gommonlog.Lvl {
	switch l {
	case logrus.TraceLevel, logrus.DebugLevel:
		return gommonlog.DEBUG
	case logrus.InfoLevel:
		return gommonlog.INFO
	case logrus.WarnLevel:
		return gommonlog.WARN
	case logrus.ErrorLevel:
		return gommonlog.ERROR
	default:
		return gommonlog.OFF
	}
}
