package transport

import (
	"strings"

	"github.com/kc5dju/osdctl/wire"
)

// isSerialName reports whether uri names a local serial device: a /dev/
// path on unix or a COM* name on Windows.
func isSerialName(uri string) bool {
	if strings.HasPrefix(uri, "/dev/") {
		return true
	}
	upper := strings.ToUpper(uri)
	return strings.HasPrefix(upper, "COM")
}

// Open sniffs uri and opens the transport it names: anything containing a
// ':' is treated as a "host:port" TCP address, otherwise a /dev/ path or
// COM* name opens a serial device, and anything else is a ConfigError. This
// is the only place in the library that does URI sniffing; osd.NewClient
// takes a Transport directly, and only the CLI entry points call Open.
func Open(uri string, baud int) (Transport, error) {
	if uri == "" {
		return nil, wire.NewConfigError("empty transport URI")
	}
	if strings.Contains(uri, ":") {
		return NewTCP(uri)
	}
	if isSerialName(uri) {
		return NewSerial(uri, baud)
	}
	return nil, wire.NewConfigError("%q is neither a serial device path nor a host:port address", uri)
}
