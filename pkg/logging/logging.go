// Package logging builds the logrus logger used across uptui.
//
// The terminal is owned by the results table, so logs go to a rotating
// file instead of stderr.
package logging

import (
	"io"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

const (
	// DefaultFile is the log file used when none is given.
	DefaultFile = "uptui.log"

	maxSizeMB  = 10
	maxBackups = 5
	maxAgeDays = 14
)

// Options configures New.
type Options struct {
	// File is the log file path. Empty discards all output.
	File string

	// Debug enables debug level logging.
	Debug bool

	// JSON selects the JSON formatter instead of the text formatter.
	JSON bool
}

// New returns a logger writing to a rotating file and a close function that
// flushes and releases the file.
func New(opts Options) (*logrus.Logger, func() error, error) {
	logger := logrus.New()

	logger.SetLevel(logrus.InfoLevel)
	if opts.Debug {
		logger.SetLevel(logrus.DebugLevel)
	}

	if opts.JSON {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{
			DisableColors: true,
			FullTimestamp: true,
		})
	}

	if opts.File == "" {
		logger.SetOutput(io.Discard)
		return logger, func() error { return nil }, nil
	}

	if dir := filepath.Dir(opts.File); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, nil, errors.Wrapf(err, "failed to create log directory %s", dir)
		}
	}

	// Open once up front so an unwritable path fails at start-up rather
	// than being swallowed on the first write.
	f, err := os.OpenFile(opts.File, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, nil, errors.Wrapf(err, "failed to open log file %s", opts.File)
	}
	_ = f.Close()

	lj := &lumberjack.Logger{
		Filename:   opts.File,
		MaxSize:    maxSizeMB,
		MaxBackups: maxBackups,
		MaxAge:     maxAgeDays,
		Compress:   true,
	}
	logger.SetOutput(lj)

	return logger, lj.Close, nil
}
