// Package logx is the client's tracing/debug logger. The original SDK
// prints categorized wire dumps ("W>>"/"R<<") and command traces
// ("CMD ... =>>" / "RESP <<=") straight to stdout; this wraps a leveled,
// structured logger instead of bare fmt.Printf so those dumps carry
// level and timestamp like everything else a caller's process logs.
package logx

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
)

// Logger is the subset of charmbracelet/log's Logger the client needs.
type Logger struct {
	l *log.Logger
}

// New builds a Logger writing to w with timestamps and an "osd" prefix.
// It logs at debug level, so the wire and command traces below are
// printed whenever the client calls them.
func New(w io.Writer) *Logger {
	return &Logger{l: log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		Prefix:          "osd",
		Level:           log.DebugLevel,
	})}
}

// Default returns a Logger writing to stderr, used when a Client is
// constructed without an explicit logger.
func Default() *Logger {
	return New(os.Stderr)
}

func (l *Logger) Debugf(format string, args ...any) { l.l.Debug(fmt.Sprintf(format, args...)) }
func (l *Logger) Infof(format string, args ...any)  { l.l.Info(fmt.Sprintf(format, args...)) }
func (l *Logger) Warnf(format string, args ...any)  { l.l.Warn(fmt.Sprintf(format, args...)) }
func (l *Logger) Errorf(format string, args ...any) { l.l.Error(fmt.Sprintf(format, args...)) }

// WireOut logs an outbound frame, mirroring the original's "W>>" dump.
func (l *Logger) WireOut(frame []byte) {
	l.l.Debug("W>>", "bytes", frame)
}

// WireIn logs an inbound frame, mirroring the original's "R<<" dump.
func (l *Logger) WireIn(frame []byte) {
	l.l.Debug("R<<", "bytes", frame)
}

// Cmd logs a dispatched command, mirroring the original's "CMD ... =>>".
func (l *Logger) Cmd(name string, args ...any) {
	l.l.Debug("CMD =>>", append([]any{"name", name}, args...)...)
}

// Resp logs a decoded response, mirroring the original's "RESP <<=".
func (l *Logger) Resp(name string, args ...any) {
	l.l.Debug("RESP <<=", append([]any{"name", name}, args...)...)
}
