package wire

import "fmt"

// ConfigError signals a locally-detected malformed configuration: a bad
// transport URI, an out-of-range enum argument, or a malformed profile
// point. It is raised before any bytes leave the host.
type ConfigError struct {
	Msg string
}

func (e *ConfigError) Error() string { return "osd: config: " + e.Msg }

// NewConfigError builds a ConfigError with a formatted message.
func NewConfigError(format string, args ...any) *ConfigError {
	return &ConfigError{Msg: fmt.Sprintf(format, args...)}
}

// IoError wraps a transport read/write/close failure.
type IoError struct {
	Op  string
	Err error
}

func (e *IoError) Error() string { return fmt.Sprintf("osd: io: %s: %v", e.Op, e.Err) }
func (e *IoError) Unwrap() error { return e.Err }

// FramingError signals a malformed frame: marker not found, length over the
// 2048-byte ceiling, or a CRC mismatch.
type FramingError struct {
	Msg string
	Err error
}

func (e *FramingError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("osd: framing: %s: %v", e.Msg, e.Err)
	}
	return "osd: framing: " + e.Msg
}
func (e *FramingError) Unwrap() error { return e.Err }

// ProtocolError signals a response with the wrong opcode or shape.
type ProtocolError struct {
	Msg string
}

func (e *ProtocolError) Error() string { return "osd: protocol: " + e.Msg }

// NewProtocolError builds a ProtocolError with a formatted message.
func NewProtocolError(format string, args ...any) *ProtocolError {
	return &ProtocolError{Msg: fmt.Sprintf(format, args...)}
}

// RemoteError signals an ERROR response from the device. The error code's
// meaning is device-defined; code -9 from the VM storage writer means "the
// same program is already loaded" and is recoverable at the caller's
// discretion (see osd/vm).
type RemoteError struct {
	RequestCmd Opcode
	ErrorCode  int8
	Context    string
}

func (e *RemoteError) Error() string {
	if e.Context != "" {
		return fmt.Sprintf("osd: remote error %d in response to cmd %d: %s", e.ErrorCode, e.RequestCmd, e.Context)
	}
	return fmt.Sprintf("osd: remote error %d in response to cmd %d", e.ErrorCode, e.RequestCmd)
}

// FormatError signals a malformed font file or an oversized VM program.
type FormatError struct {
	Msg string
}

func (e *FormatError) Error() string { return "osd: format: " + e.Msg }

// NewFormatError builds a FormatError with a formatted message.
func NewFormatError(format string, args ...any) *FormatError {
	return &FormatError{Msg: fmt.Sprintf(format, args...)}
}
