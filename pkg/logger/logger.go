package logger

import (
	"os"

	"github.com/sirupsen/logrus"
)

// Log is shared by every package. DEBUG=1 turns on debug output, LOG_LEVEL
// picks any logrus level by name and wins over DEBUG.
var Log = newLogger(os.Getenv("DEBUG"), os.Getenv("LOG_LEVEL"))

func newLogger(debug, level string) *logrus.Logger {
	log := logrus.New()
	log.SetOutput(os.Stderr)
	log.SetFormatter(&logrus.TextFormatter{
		ForceColors:            true,
		DisableTimestamp:       true,
		DisableLevelTruncation: true,
		PadLevelText:           true,
	})

	log.SetLevel(logrus.InfoLevel)
	if debug == "1" {
		log.SetLevel(logrus.DebugLevel)
	}
	if level != "" {
		lvl, err := logrus.ParseLevel(level)
		if err != nil {
			log.Warnf("ignoring LOG_LEVEL: %v", err)
		} else {
			log.SetLevel(lvl)
		}
	}
	return log
}
