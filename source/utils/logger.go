package utils

import (
	"os"

	log "github.com/sirupsen/logrus"
)

// ConfigureLogger sets the global logrus level and format from the environment.
func ConfigureLogger() {
	level, err := log.ParseLevel(os.Getenv(LOG_LEVEL))
	if err != nil {
		level = log.InfoLevel
	}
	log.SetLevel(level)

	if os.Getenv(ENV) == ENV_RELEASE {
		log.SetFormatter(&log.JSONFormatter{})
	} else {
		log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	}
}
