// Package logging configures the process-wide logrus logger.
package logging

import (
	"io"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

const (
	maxLogSizeMB = 5
	maxBackups   = 3
	maxAgeDays   = 30
)

// Setup routes logrus to stderr and a size-rotated file under dir/logs.
// With an empty dir only stderr is used.
func Setup(dir string, debug bool) {
	logrus.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})

	if debug {
		logrus.SetLevel(logrus.DebugLevel)
	} else {
		logrus.SetLevel(logrus.InfoLevel)
	}

	var out io.Writer = os.Stderr
	if dir != "" {
		rotated := &lumberjack.Logger{
			Filename:   filepath.Join(dir, "logs", "deepyami.log"),
			MaxSize:    maxLogSizeMB,
			MaxBackups: maxBackups,
			MaxAge:     maxAgeDays,
			Compress:   true,
		}
		out = io.MultiWriter(os.Stderr, rotated)
	}

	logrus.SetOutput(out)
}
