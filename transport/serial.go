package transport

import (
	"fmt"

	"github.com/pkg/term"
	"golang.org/x/sys/unix"
)

// canonicalBauds are the speeds pkg/term.SetSpeed is guaranteed to accept
// directly on every platform it supports.
var canonicalBauds = map[int]bool{
	1200: true, 2400: true, 4800: true, 9600: true,
	19200: true, 38400: true, 57600: true, 115200: true,
	230400: true, 460800: true, 921600: true,
}

// Serial is a Transport backed by a raw-mode serial port.
type Serial struct {
	t *term.Term
}

// NewSerial opens devicename in raw mode at baud. A baud of 0 leaves the
// port's current speed alone. Speeds outside the canonical set are applied
// through an arbitrary-rate termios ioctl instead of being silently
// clamped to a fallback default.
func NewSerial(devicename string, baud int) (*Serial, error) {
	t, err := term.Open(devicename, term.RawMode)
	if err != nil {
		return nil, fmt.Errorf("open serial port %s: %w", devicename, err)
	}

	s := &Serial{t: t}
	if baud == 0 {
		return s, nil
	}
	if canonicalBauds[baud] {
		if err := t.SetSpeed(baud); err != nil {
			t.Close()
			return nil, fmt.Errorf("set speed %d on %s: %w", baud, devicename, err)
		}
		return s, nil
	}
	if err := setArbitraryBaud(t, baud); err != nil {
		t.Close()
		return nil, fmt.Errorf("set arbitrary speed %d on %s: %w", baud, devicename, err)
	}
	return s, nil
}

func (s *Serial) Write(p []byte) (int, error) {
	return s.t.Write(p)
}

// ReadByte blocks for exactly one byte.
func (s *Serial) ReadByte() (byte, error) {
	var buf [1]byte
	n, err := s.t.Read(buf[:])
	if n != 1 {
		return 0, err
	}
	return buf[0], nil
}

func (s *Serial) Close() error {
	return s.t.Close()
}

// setArbitraryBaud renegotiates the port to a speed pkg/term's canonical
// table doesn't enumerate, using the Linux BOTHER termios extension so
// set_data_rate can ask the device for any rate it actually supports
// instead of silently falling back to a fixed default.
func setArbitraryBaud(t *term.Term, baud int) error {
	fd := int(t.Fd())

	tio, err := unix.IoctlGetTermios(fd, unix.TCGETS)
	if err != nil {
		return err
	}

	tio.Ispeed = uint32(baud)
	tio.Ospeed = uint32(baud)
	tio.Cflag &^= unix.CBAUD
	tio.Cflag |= unix.BOTHER

	return unix.IoctlSetTermios(fd, unix.TCSETS, tio)
}
