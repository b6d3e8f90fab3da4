package main

import (
	"fmt"

	log "github.com/sirupsen/logrus"
)

func setLogLevel(l string) error {
	level, err := log.ParseLevel(l)
	if err != nil {
		return fmt.Errorf("invalid log level %q", l)
	}

	log.SetLevel(level)
	return nil
}

func setLogFormat(f string) error {
	switch f {
	case "text":
		log.SetFormatter(&log.TextFormatter{})
	case "json":
		log.SetFormatter(&log.JSONFormatter{})
	default:
		return fmt.Errorf("invalid log format %q", f)
	}

	return nil
}
