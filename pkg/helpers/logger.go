package helpers

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

// NewLogger creates a configured Logrus logger: text at debug level in
// development, JSON at info level elsewhere.
func NewLogger(appName, env string) *logrus.Logger {
	return NewLoggerTo(os.Stdout, appName, env)
}

// NewLoggerTo is NewLogger writing to w.
func NewLoggerTo(w io.Writer, appName, env string) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(w)
	if env == "development" {
		logger.SetLevel(logrus.DebugLevel)
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	} else {
		logger.SetLevel(logrus.InfoLevel)
		logger.SetFormatter(&logrus.JSONFormatter{})
	}
	if lvl, err := logrus.ParseLevel(os.Getenv("LOG_LEVEL")); err == nil {
		logger.SetLevel(lvl)
	}
	logger.WithFields(logrus.Fields{"app": appName, "env": env}).Info("logger initialized")
	return logger
}

// NewNopLogger discards everything; for tests and CLI dry runs.
func NewNopLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}
