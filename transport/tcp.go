package transport

import (
	"bufio"
	"net"
)

// TCP is a Transport backed by a plain TCP socket, for devices exposed
// over a network bridge instead of a local serial port.
type TCP struct {
	conn net.Conn
	r    *bufio.Reader
}

// NewTCP dials addr (host:port).
func NewTCP(addr string) (*TCP, error) {
	conn, err := net.Dial("tcp", addr)
	if err != nil {
		return nil, err
	}
	return &TCP{conn: conn, r: bufio.NewReader(conn)}, nil
}

func (c *TCP) Write(p []byte) (int, error) {
	return c.conn.Write(p)
}

func (c *TCP) ReadByte() (byte, error) {
	return c.r.ReadByte()
}

func (c *TCP) Close() error {
	return c.conn.Close()
}
