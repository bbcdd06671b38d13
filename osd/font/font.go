// Package font uploads a MAX7456 character set to the OSD from an MCM
// font file, one glyph at a time.
package font

import (
	"bufio"
	"io"

	"github.com/kc5dju/osdctl/osd"
	"github.com/kc5dju/osdctl/wire"
)

// mcmHeader is the literal first line every valid MCM font file starts
// with.
const mcmHeader = "MAX7456"

// glyphBytes is the number of bytes that make up one glyph in the MCM
// bitstream.
const glyphBytes = 64

// Upload reads an MCM font file from r and uploads it glyph by glyph,
// calling progress (if non-nil) with each glyph's address after it is
// written. Glyph addresses start at 0 and increment by one per glyph.
func Upload(c *osd.Client, r io.Reader, progress func(addr uint16)) error {
	br := bufio.NewReader(r)

	header, err := br.ReadString('\n')
	if err != nil && err != io.EOF {
		return &wire.IoError{Op: "read mcm header", Err: err}
	}
	header = trimEOL(header)
	if header != mcmHeader {
		return wire.NewFormatError("invalid MAX7456 header %q", header)
	}

	var addr uint16
	var bitBuf []byte
	var acc byte
	var accBits int

	flush := func() error {
		payload := wire.PutU16(nil, addr)
		payload = append(payload, bitBuf...)
		if _, err := c.SendFrameSync(wire.CmdWriteFont, payload); err != nil {
			return err
		}
		if progress != nil {
			progress(addr)
		}
		addr++
		bitBuf = nil
		return nil
	}

	for {
		b, err := br.ReadByte()
		if err == io.EOF {
			break
		}
		if err != nil {
			return &wire.IoError{Op: "read mcm body", Err: err}
		}
		if b == '\r' || b == '\n' {
			continue
		}
		if b != '0' && b != '1' {
			return wire.NewFormatError("unexpected byte %q in glyph bitstream", b)
		}

		acc <<= 1
		if b == '1' {
			acc |= 1
		}
		accBits++
		if accBits == 8 {
			bitBuf = append(bitBuf, acc)
			acc = 0
			accBits = 0
			if len(bitBuf) == glyphBytes {
				if err := flush(); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

func trimEOL(s string) string {
	for len(s) > 0 && (s[len(s)-1] == '\n' || s[len(s)-1] == '\r') {
		s = s[:len(s)-1]
	}
	return s
}
