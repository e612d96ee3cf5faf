// Package log writes episodl diagnostics through logrus.
//
// Nothing is recorded until Setup enables the daily log file or EnableDebug
// switches to stderr. Warnings still reach the user while logging is off.
package log

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/episodl/episodl/filesystem"
	"github.com/episodl/episodl/key"
	"github.com/episodl/episodl/where"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

var (
	logger  = newLogger(io.Discard)
	enabled bool

	// stderr receives warnings while logging is disabled.
	stderr io.Writer = os.Stderr
)

func newLogger(out io.Writer) *logrus.Logger {
	l := logrus.New()
	l.SetOutput(out)
	return l
}

// Setup opens today's log file when logs.write is on.
func Setup() error {
	enabled = viper.GetBool(key.LogsWrite)
	if !enabled {
		logger.SetOutput(io.Discard)
		return nil
	}

	path := filepath.Join(where.Logs(), time.Now().Format(time.DateOnly)+".log")
	file, err := filesystem.API().OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	logger.SetOutput(file)

	if viper.GetBool(key.LogsJson) {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{DisableColors: true, FullTimestamp: true})
	}

	level, err := logrus.ParseLevel(viper.GetString(key.LogsLevel))
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)

	return nil
}

// EnableDebug sends everything from trace level up to stderr instead of the file.
func EnableDebug() {
	enabled = true
	logger.SetOutput(stderr)
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	logger.SetLevel(logrus.TraceLevel)
}

// WithField starts a structured entry. It is a no-op sink while logging is off.
func WithField(name string, value any) *logrus.Entry {
	return logger.WithField(name, value)
}

func Error(args ...any)                 { logger.Error(args...) }
func Errorf(format string, args ...any) { logger.Errorf(format, args...) }
func Info(args ...any)                  { logger.Info(args...) }
func Infof(format string, args ...any)  { logger.Infof(format, args...) }
func Debugf(format string, args ...any) { logger.Debugf(format, args...) }
func Trace(args ...any)                 { logger.Trace(args...) }
func Tracef(format string, args ...any) { logger.Tracef(format, args...) }

func Warn(args ...any) {
	warn(fmt.Sprint(args...))
}

func Warnf(format string, args ...any) {
	warn(fmt.Sprintf(format, args...))
}

func warn(msg string) {
	if enabled {
		logger.Warn(msg)
		return
	}
	_, _ = fmt.Fprintln(stderr, "warning: "+msg)
}
