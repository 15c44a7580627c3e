package testutil

import (
	"bytes"
	"io"
	"log/slog"

	"github.com/dtroode/hypecard-server/internal/logger"
)

// MakeNoopLogger returns a logger that drops everything.
func MakeNoopLogger() *logger.Logger {
	return logger.NewWithWriter(io.Discard, int(slog.LevelError)+1)
}

// MakeBufferLogger returns a debug-level logger and the buffer it writes to.
func MakeBufferLogger() (*logger.Logger, *bytes.Buffer) {
	buf := &bytes.Buffer{}
	return logger.NewWithWriter(buf, int(slog.LevelDebug)), buf
}
