package testutil

import (
	"bytes"
	"io"

	"github.com/dtroode/amcbunq-server/internal/logger"
)

func MakeNoopLogger() *logger.Logger {
	return logger.NewWithWriter(io.Discard, 0, false)
}

// MakeBufferLogger returns a debug-level JSON logger and the buffer it writes to.
func MakeBufferLogger() (*logger.Logger, *bytes.Buffer) {
	buf := &bytes.Buffer{}
	return logger.NewWithWriter(buf, -4, true), buf
}
