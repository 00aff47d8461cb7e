package shared

import (
	"io"
	"os"

	"github.com/charmbracelet/log"
)

// SetupLogger configures console logging to stderr.
func SetupLogger(debug bool) *log.Logger {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
	})
	if debug {
		logger.SetLevel(log.DebugLevel)
	}
	return logger
}

// SetupFileLogger logs to the named file, or discards everything when the
// name is empty. The TUI owns the terminal, so interactive play cannot log
// to stderr.
func SetupFileLogger(filename string, debug bool) (*log.Logger, func(), error) {
	if filename == "" {
		return log.New(io.Discard), func() {}, nil
	}

	f, err := os.OpenFile(filename, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, err
	}
	logger := log.NewWithOptions(f, log.Options{
		ReportTimestamp: true,
	})
	if debug {
		logger.SetLevel(log.DebugLevel)
	}
	return logger, func() { _ = f.Close() }, nil
}
