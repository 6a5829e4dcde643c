package logger

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"

	"pong-backend/config"
)

// Log is usable before Init with logrus defaults, which keeps tests free of
// setup.
var Log = logrus.New()

// Init configures structured JSON logging with file rotation.
func Init(cfg *config.Config) {
	rotated := &lumberjack.Logger{
		Filename:   cfg.LogFilename,
		MaxSize:    cfg.LogMaxSize,
		MaxBackups: cfg.LogMaxBackups,
		MaxAge:     cfg.LogMaxAge,
		Compress:   cfg.LogCompress,
	}

	Log.SetFormatter(&logrus.JSONFormatter{})
	Log.SetOutput(io.MultiWriter(os.Stdout, rotated))

	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = logrus.InfoLevel
	}
	Log.SetLevel(level)
}
