package logger

import (
	"testing"

	"github.com/sirupsen/logrus"
)

func TestNewLoggerLevel(t *testing.T) {
	testCases := []struct {
		name  string
		debug string
		level string
		want  logrus.Level
	}{
		{"default", "", "", logrus.InfoLevel},
		{"debug", "1", "", logrus.DebugLevel},
		{"debug off", "0", "", logrus.InfoLevel},
		{"level", "", "warn", logrus.WarnLevel},
		{"level wins", "1", "error", logrus.ErrorLevel},
		{"bad level", "1", "loud", logrus.DebugLevel},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := newLogger(tc.debug, tc.level).GetLevel(); got != tc.want {
				t.Errorf("level = %s, want %s", got, tc.want)
			}
		})
	}
}
