package log

import (
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// Config mirrors the "logger" section of the configuration file.
type Config struct {
	Level            string `mapstructure:"level"`
	Format           string `mapstructure:"format"`
	DisableTimestamp bool   `mapstructure:"disable_timestamp"`
}

// NewLogger builds a logrus logger writing to stderr, leaving stdout for
// report output. Unknown levels fall back to INFO; format is TEXT or JSON.
func NewLogger(cfg Config) *logrus.Logger {
	return newLogger(cfg, os.Stderr)
}

func newLogger(cfg Config, out io.Writer) *logrus.Logger {
	var log = logrus.New()
	switch strings.ToUpper(cfg.Format) {
	case "JSON":
		log.Formatter = &logrus.JSONFormatter{DisableTimestamp: cfg.DisableTimestamp}
	default:
		log.Formatter = &logrus.TextFormatter{
			DisableTimestamp: cfg.DisableTimestamp,
			FullTimestamp:    true,
		}
	}

	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	log.Level = level
	log.Out = out
	return log
}
