// Package log provides the process-wide structured logger.
package log

import (
	"fmt"

	"go.uber.org/zap"
)

var sugar *zap.SugaredLogger

// Init builds the process logger. Debug selects the development config:
// human-readable output and debug-level logging.
func Init(debug bool) error {
	var logger *zap.Logger
	var err error

	if debug {
		logger, err = zap.NewDevelopment(zap.AddCallerSkip(1))
	} else {
		logger, err = zap.NewProduction(zap.AddCallerSkip(1))
	}
	if err != nil {
		return fmt.Errorf("initialize zap logger: %w", err)
	}

	sugar = logger.Sugar()
	return nil
}

func logger() *zap.SugaredLogger {
	if sugar == nil {
		// Fallback for code paths that log before Init
		base, _ := zap.NewProduction(zap.AddCallerSkip(1))
		sugar = base.Sugar()
	}
	return sugar
}

func Debugf(format string, args ...interface{}) { logger().Debugf(format, args...) }
func Infof(format string, args ...interface{})  { logger().Infof(format, args...) }
func Warnf(format string, args ...interface{})  { logger().Warnf(format, args...) }
func Errorf(format string, args ...interface{}) { logger().Errorf(format, args...) }
func Fatalf(format string, args ...interface{}) { logger().Fatalf(format, args...) }

// Sync flushes buffered log entries; call on shutdown.
func Sync() {
	if sugar != nil {
		sugar.Sync()
	}
}
