// Package vm implements the VM storage/execute sub-protocol: uploading and
// downloading a stored program, starting it, looking up exported symbols,
// and calling exported functions with typed arguments.
package vm

import (
	"errors"
	"io"
	"strconv"
	"strings"

	"github.com/kc5dju/osdctl/osd"
	"github.com/kc5dju/osdctl/wire"
)

// storageHeaderSize is the size in bytes of the {total_size u32, crc32
// u32} header written ahead of every stored program.
const storageHeaderSize = 8

// maxTransferBlockSize is the largest chunk a single VM_STORAGE_READ/WRITE
// request carries.
const maxTransferBlockSize = 64

// sameProgramErrorCode is the remote error code VM_STORAGE_WRITE returns
// when the program already loaded matches the one being uploaded; it is
// safe to ignore and proceed straight to starting the program.
const sameProgramErrorCode = -9

// Arg is a VM function-call argument: either an unsigned 32-bit integer
// or a 32-bit float. This replaces the original client's runtime
// isinstance-based argument massage with an explicit tagged union decided
// once at the CLI boundary.
type Arg struct {
	isFloat bool
	i       uint32
	f       float32
}

// Int builds an integer Arg.
func Int(v uint32) Arg { return Arg{i: v} }

// Float builds a floating-point Arg.
func Float(v float32) Arg { return Arg{isFloat: true, f: v} }

// ParseArg parses a CLI argument string into an Arg: a value containing
// '.' is a float, otherwise an integer, matching the original client's
// inline parse in run_function.
func ParseArg(s string) (Arg, error) {
	if strings.Contains(s, ".") {
		f, err := strconv.ParseFloat(s, 32)
		if err != nil {
			return Arg{}, wire.NewFormatError("invalid float argument %q: %v", s, err)
		}
		return Float(float32(f)), nil
	}
	i, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return Arg{}, wire.NewFormatError("invalid integer argument %q: %v", s, err)
	}
	return Int(uint32(i)), nil
}

func (a Arg) encode(buf []byte) []byte {
	if a.isFloat {
		return wire.PutF32(buf, a.f)
	}
	return wire.PutU32(buf, a.i)
}

// StorageSize returns the VM's total storage capacity in bytes.
func StorageSize(c *osd.Client) (uint32, error) {
	resp, err := c.SendFrameSync(wire.CmdVMStorageSize, nil)
	if err != nil {
		return 0, err
	}
	g, ok := resp.(*wire.GenericResponse)
	if !ok || len(g.Payload) < 4 {
		return 0, wire.NewProtocolError("malformed VM_STORAGE_SIZE response")
	}
	return leU32(g.Payload), nil
}

// UploadProgram uploads the program read from r, preceded by its
// {total_size, crc32} header, in maxTransferBlockSize chunks.
func UploadProgram(c *osd.Client, r io.Reader) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return &wire.IoError{Op: "read vm program", Err: err}
	}
	total := uint32(len(data)) + storageHeaderSize
	capacity, err := StorageSize(c)
	if err != nil {
		return err
	}
	maxSize := capacity - storageHeaderSize
	if uint32(len(data)) > maxSize {
		return wire.NewFormatError("program of %d bytes exceeds maximum size %d", len(data), maxSize)
	}

	crc := wire.CRC32(data)
	header := wire.PutU32(nil, total)
	header = wire.PutU32(header, crc)

	offset, err := storageWrite(c, 0, header)
	if err != nil {
		return err
	}

	rem := data
	for len(rem) > 0 {
		sz := maxTransferBlockSize
		if len(rem) < sz {
			sz = len(rem)
		}
		dataOffset := offset - storageHeaderSize
		chunk := data[dataOffset : dataOffset+uint32(sz)]
		rem = rem[sz:]
		offset, err = storageWrite(c, offset, chunk)
		if err != nil {
			return err
		}
	}
	return nil
}

func storageWrite(c *osd.Client, offset uint32, blob []byte) (uint32, error) {
	payload := wire.PutU32(nil, offset)
	payload = wire.PutBlob(payload, blob)
	resp, err := c.SendFrameSync(wire.CmdVMStorageWrite, payload)
	if err != nil {
		return 0, err
	}
	g, ok := resp.(*wire.GenericResponse)
	if !ok || len(g.Payload) < 4 {
		return 0, wire.NewProtocolError("malformed VM_STORAGE_WRITE response")
	}
	return leU32(g.Payload), nil
}

// DownloadProgram reads the stored program's header, then its body, and
// writes the body to w.
func DownloadProgram(c *osd.Client, w io.Writer) error {
	capacity, err := StorageSize(c)
	if err != nil {
		return err
	}

	payload := wire.PutU32(nil, 0)
	payload = wire.PutU32(payload, storageHeaderSize)
	resp, err := c.SendFrameSync(wire.CmdVMStorageRead, payload)
	if err != nil {
		return err
	}
	g, ok := resp.(*wire.GenericResponse)
	if !ok || len(g.Payload) < storageHeaderSize {
		return wire.NewProtocolError("malformed VM_STORAGE_READ header response")
	}
	size := leU32(g.Payload)
	if size > capacity {
		return wire.NewProtocolError("no valid program found in vm storage")
	}

	rem := size - storageHeaderSize
	offset := uint32(storageHeaderSize)
	for rem > 0 {
		sz := uint32(maxTransferBlockSize)
		if rem < sz {
			sz = rem
		}
		payload := wire.PutU32(nil, offset)
		payload = wire.PutU32(payload, sz)
		resp, err := c.SendFrameSync(wire.CmdVMStorageRead, payload)
		if err != nil {
			return err
		}
		g, ok := resp.(*wire.GenericResponse)
		if !ok {
			return wire.NewProtocolError("malformed VM_STORAGE_READ response")
		}
		if _, err := w.Write(g.Payload); err != nil {
			return &wire.IoError{Op: "write downloaded program", Err: err}
		}
		offset += sz
		rem -= sz
	}
	return nil
}

// StartProgram starts whatever program is currently stored, returning the
// entry point or start status the device reports.
func StartProgram(c *osd.Client) (uint32, error) {
	resp, err := c.SendFrameSync(wire.CmdVMStart, nil)
	if err != nil {
		return 0, err
	}
	g, ok := resp.(*wire.GenericResponse)
	if !ok || len(g.Payload) < 4 {
		return 0, wire.NewProtocolError("malformed VM_START response")
	}
	return leU32(g.Payload), nil
}

// RunProgram uploads the program read from r and starts it, swallowing
// the remote "same program already loaded" error instead of treating it
// as fatal.
func RunProgram(c *osd.Client, r io.Reader) error {
	if err := UploadProgram(c, r); err != nil {
		var remote *wire.RemoteError
		if !errors.As(err, &remote) || remote.ErrorCode != sameProgramErrorCode {
			return err
		}
	}
	_, err := StartProgram(c)
	return err
}

// LookupSymbol resolves an exported symbol's name to its VM index.
func LookupSymbol(c *osd.Client, name string) (int16, error) {
	payload := wire.PutString(nil, name)
	resp, err := c.SendFrameSync(wire.CmdVMLookupSymbol, payload)
	if err != nil {
		return 0, err
	}
	g, ok := resp.(*wire.GenericResponse)
	if !ok || len(g.Payload) < 2 {
		return 0, wire.NewProtocolError("malformed VM_LOOKUP_SYMBOL response")
	}
	return int16(uint16(g.Payload[0]) | uint16(g.Payload[1])<<8), nil
}

// RunFunction looks up name and calls it with args. When reply is true it
// blocks for and returns the function's return value; otherwise the call
// is fire-and-forget.
func RunFunction(c *osd.Client, name string, args []Arg, reply bool) (uint32, error) {
	sym, err := LookupSymbol(c, name)
	if err != nil {
		return 0, err
	}
	tagged := uint64(sym) << 1
	if reply {
		tagged |= 1
	}

	payload := wire.PutVarint(nil, tagged)
	payload = wire.PutVarint(payload, uint64(len(args)))
	for _, a := range args {
		payload = a.encode(payload)
	}

	if !reply {
		c.SendFrame(wire.CmdVMExec, payload)
		return 0, nil
	}
	resp, err := c.SendFrameSync(wire.CmdVMExec, payload)
	if err != nil {
		return 0, err
	}
	g, ok := resp.(*wire.GenericResponse)
	if !ok || len(g.Payload) < 4 {
		return 0, wire.NewProtocolError("malformed VM_EXEC response")
	}
	return leU32(g.Payload), nil
}

func leU32(b []byte) uint32 {
	return uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16 | uint32(b[3])<<24
}
