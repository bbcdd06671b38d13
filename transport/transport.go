// Package transport provides the minimal read/write/close contract the OSD
// client speaks over, plus two concrete implementations (serial and TCP)
// and the URI-sniffing helper the CLI tools use to pick between them. The
// command dispatcher in package osd never sniffs a URI itself: it is
// always handed a Transport.
package transport

import "io"

// Transport is the minimal contract package osd needs from a byte
// stream: write a buffer, read one byte at a time (framing is resynced a
// byte at a time on marker bytes), and close.
type Transport interface {
	io.Writer
	ReadByte() (byte, error)
	Close() error
}

// Kind identifies which concrete Transport a URI selects.
type Kind int

const (
	KindSerial Kind = iota
	KindTCP
)

func (k Kind) String() string {
	switch k {
	case KindSerial:
		return "serial"
	case KindTCP:
		return "tcp"
	default:
		return "unknown"
	}
}
