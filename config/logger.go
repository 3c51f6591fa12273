package config

import (
	"os"

	"github.com/sirupsen/logrus"
	"pony-express/config/common"
	"pony-express/config/logger"
)

// NewLogger builds the logrus logger used by the HTTP layer.
func NewLogger(cfg *common.Config) *logrus.Logger {
	log := logrus.New()
	log.SetOutput(os.Stdout)
	log.SetFormatter(&logrus.JSONFormatter{TimestampFormat: "2006-01-02 15:04:05.000"})

	level, err := logrus.ParseLevel(cfg.GetLogLevel())
	if err != nil {
		level = logrus.InfoLevel
	}
	log.SetLevel(level)
	return log
}

// NewAppLogger builds the zerolog channels used below the HTTP layer.
func NewAppLogger(cfg *common.Config) (*logger.AppLogger, error) {
	dir, maxSize, maxAge, maxBackups := cfg.GetLogFileConfig()
	return logger.NewLogger(logger.Options{
		Dir:        dir,
		Level:      cfg.GetLogLevel(),
		MaxSizeMB:  maxSize,
		MaxAgeDays: maxAge,
		MaxBackups: maxBackups,
	})
}
