// Package applog configures the process-wide logrus logger.
package applog

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	log "github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Options controls where and how much is logged.
type Options struct {
	Level string
	// File, when set, receives a rotated copy of every entry.
	File       string
	MaxSizeMB  int
	MaxBackups int
	// Console is the terminal sink, normally os.Stderr. Stdout is reserved
	// for command output and the MCP stdio transport.
	Console io.Writer
	JSON    bool
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// Setup applies opts to the standard logrus logger. The returned Closer
// flushes and closes the log file, if any.
func Setup(opts Options) (io.Closer, error) {
	level := log.InfoLevel
	if opts.Level != "" {
		lv, err := log.ParseLevel(opts.Level)
		if err != nil {
			return nil, fmt.Errorf("log level: %w", err)
		}
		level = lv
	}
	log.SetLevel(level)

	if opts.JSON {
		log.SetFormatter(&log.JSONFormatter{TimestampFormat: time.RFC3339})
	} else {
		log.SetFormatter(&log.TextFormatter{FullTimestamp: true, TimestampFormat: time.RFC3339})
	}

	console := opts.Console
	if console == nil {
		console = os.Stderr
	}
	if opts.File == "" {
		log.SetOutput(console)
		return nopCloser{}, nil
	}

	if err := os.MkdirAll(filepath.Dir(opts.File), 0o755); err != nil {
		return nil, fmt.Errorf("create log directory: %w", err)
	}
	file := &lumberjack.Logger{
		Filename:   opts.File,
		MaxSize:    opts.MaxSizeMB,
		MaxBackups: opts.MaxBackups,
		Compress:   true,
	}
	log.SetOutput(io.MultiWriter(console, file))
	return file, nil
}
