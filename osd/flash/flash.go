// Package flash implements chunked firmware upload and erase over the
// WRITE_FLASH command, including the reboot-to-bootloader sequence and
// the bootloader-ack workaround some early bootloaders need.
package flash

import (
	"errors"
	"io"
	"time"

	"github.com/kc5dju/osdctl/osd"
	"github.com/kc5dju/osdctl/wire"
)

// maxBlockSize is the largest chunk WRITE_FLASH accepts per request.
const maxBlockSize = 64

// writeEnd is the address sentinel that signals the end of a flash
// upload: (2 << 31) - 1.
const writeEnd = (2 << 31) - 1

// Options configures a Flash call.
type Options struct {
	// RebootFirst reboots the device into bootloader mode (and waits one
	// second for it to come back up) before flashing. Default true,
	// matching the original client's no_reboot=False default.
	RebootFirst bool
	// Progress is called after each chunk with the fraction [0,1] of the
	// upload completed so far.
	Progress func(frac float64)
}

// DefaultOptions returns the Options a plain `--flash` invocation uses.
func DefaultOptions() Options {
	return Options{RebootFirst: true}
}

// Flash uploads a complete firmware image read from r.
func Flash(c *osd.Client, r io.Reader, opts Options) error {
	if opts.RebootFirst {
		if err := c.Reboot(true); err != nil {
			return err
		}
		time.Sleep(time.Second)
	}
	return flashBootloader(c, r, opts)
}

// flashBootloader uploads firmware assuming the device is already in
// bootloader mode.
func flashBootloader(c *osd.Client, r io.Reader, opts Options) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return &wire.IoError{Op: "read firmware image", Err: err}
	}
	total := len(data)
	rem := data
	var addr uint32

	for len(rem) > 0 {
		sz := maxBlockSize
		if len(rem) < sz {
			sz = len(rem)
		}
		chunk := rem[:sz]
		rem = rem[sz:]
		addr += uint32(sz)

		payload := wire.PutU32(nil, addr-uint32(sz))
		payload = append(payload, chunk...)

		allowWorkaround := opts.allowWorkaround(c) && len(rem) == 0
		if err := writeFlashChunk(c, payload, addr, allowWorkaround); err != nil {
			return err
		}
		if opts.Progress != nil {
			opts.Progress(1 - float64(len(rem))/float64(total))
		}
	}
	return finishFlash(c, opts.allowWorkaround(c))
}

// Erase wipes the device's firmware with a zero-length WRITE_FLASH at
// address 0, never applying the bootloader-ack workaround (a short-circuited
// erase must be acknowledged correctly or the device is left unbootable).
func Erase(c *osd.Client, rebootFirst bool) error {
	if rebootFirst {
		if err := c.Reboot(true); err != nil {
			return err
		}
		time.Sleep(time.Second)
	}
	if err := writeFlashChunk(c, wire.PutU32(nil, 0), 0, false); err != nil {
		return err
	}
	return finishFlash(c, false)
}

func finishFlash(c *osd.Client, allowWorkaround bool) error {
	if err := writeFlashChunk(c, wire.PutU32(nil, writeEnd), 0, allowWorkaround); err != nil {
		return err
	}
	return c.Reboot(false)
}

// writeFlashChunk issues one synchronous WRITE_FLASH and checks that the
// device's next_addr matches wantAddr. When allowWorkaround is set, an
// ERROR response to this same WRITE_FLASH is treated as success instead
// of a fatal protocol error.
func writeFlashChunk(c *osd.Client, payload []byte, wantAddr uint32, allowWorkaround bool) error {
	resp, err := c.SendFrameSync(wire.CmdWriteFlash, payload)
	if err != nil {
		var remote *wire.RemoteError
		if allowWorkaround && errors.As(err, &remote) && remote.RequestCmd == wire.CmdWriteFlash {
			return nil
		}
		return err
	}
	wf, ok := resp.(*wire.WriteFlashResponse)
	if !ok {
		return wire.NewProtocolError("invalid WRITE_FLASH response")
	}
	if wf.NextAddr != wantAddr {
		return wire.NewProtocolError("unexpected WRITE_FLASH addr %d, expecting %d", wf.NextAddr, wantAddr)
	}
	return nil
}

// allowWorkaround reports whether the session's BootloaderCompat setting
// permits swallowing a final-chunk ERROR response. Flash never exposes the
// enum value itself (osd.Client keeps it private); Options only decides
// RebootFirst/Progress, so this always defers to the client's own policy.
func (o Options) allowWorkaround(c *osd.Client) bool {
	return c.AllowFlashAckWorkaround()
}
