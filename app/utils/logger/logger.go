package logger

import (
	"os"
	"sync"

	"github.com/sirupsen/logrus"
)

var (
	instance *logrus.Logger
	once     sync.Once
)

// GetLogger returns the shared application logger.
func GetLogger() *logrus.Logger {
	once.Do(func() {
		instance = logrus.New()
		instance.SetOutput(os.Stdout)
		instance.SetFormatter(&logrus.JSONFormatter{})
		if os.Getenv("LOG_LEVEL") == "debug" {
			instance.SetLevel(logrus.DebugLevel)
		} else {
			instance.SetLevel(logrus.InfoLevel)
		}
	})
	return instance
}
