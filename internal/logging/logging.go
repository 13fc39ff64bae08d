package logging

import (
	"github.com/sirupsen/logrus"
)

var log = logrus.New()

// Init configures the shared application logger.
func Init(debug bool) {
	level := logrus.InfoLevel
	if debug {
		level = logrus.DebugLevel
	}
	log.SetLevel(level)
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
}

// Logger returns the shared application logger.
func Logger() *logrus.Logger {
	return log
}
