package main

import (
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

//newLogger returns a logger configured by cfg, writing to cfg.LogFile if set or out otherwise.
//The returned close func must be called when the logger is no longer needed.
func newLogger(cfg *Config, out io.Writer) (*logrus.Logger, func() error, error) {
	log := logrus.New()
	closeFn := func() error { return nil }

	if cfg.LogFile != "" {
		f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
		if err != nil {
			return nil, nil, fmt.Errorf("Could not open log file: %w", err)
		}
		out = f
		closeFn = f.Close
	}
	log.SetOutput(out)

	if cfg.IsProduction() {
		log.SetFormatter(&logrus.JSONFormatter{})
	} else {
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	log.SetLevel(logrus.InfoLevel)
	if cfg.Debug {
		log.SetLevel(logrus.DebugLevel)
	}

	return log, closeFn, nil
}
