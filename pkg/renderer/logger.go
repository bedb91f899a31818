package renderer

import (
	"io"
	"log"

	"github.com/df07/go-rtiow/pkg/core"
)

// DefaultLogger implements core.Logger on top of a standard library logger
type DefaultLogger struct {
	logger *log.Logger
}

func (dl *DefaultLogger) Printf(format string, args ...interface{}) {
	dl.logger.Printf(format, args...)
}

// NewDefaultLogger creates a logger writing through the standard logger (stderr)
func NewDefaultLogger() core.Logger {
	return &DefaultLogger{logger: log.Default()}
}

// NewWriterLogger creates a timestamped logger writing to w
func NewWriterLogger(w io.Writer) core.Logger {
	return &DefaultLogger{logger: log.New(w, "", log.LstdFlags)}
}

// NopLogger discards everything
type NopLogger struct{}

func (NopLogger) Printf(string, ...interface{}) {}
