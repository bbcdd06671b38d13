package wire

import (
	"bufio"
	"io"
)

// Frame markers. Every frame on the wire begins with these two bytes.
const (
	MarkerByte0 = '$'
	MarkerByte1 = 'A'
)

// MaxFrameScan bounds how many bytes FrameReader will discard while
// hunting for a marker before giving up with a FramingError.
const MaxFrameScan = 1000

// MaxFrameLength bounds the varint-encoded payload length FrameReader will
// accept. A device that claims a longer frame is assumed desynchronized.
const MaxFrameLength = 2048

// EncodeFrame assembles a complete outbound frame: marker, varint payload
// length, payload, and trailing CRC-8-DVB-S2 over the length+payload.
func EncodeFrame(payload []byte) []byte {
	body := PutVarint(nil, uint64(len(payload)))
	body = append(body, payload...)
	crc := CRC8(body)

	out := make([]byte, 0, 2+len(body)+1)
	out = append(out, MarkerByte0, MarkerByte1)
	out = append(out, body...)
	out = append(out, crc)
	return out
}

// FrameReader decodes inbound frames from a byte stream, resynchronizing
// on the marker bytes and validating the trailing CRC.
type FrameReader struct {
	r *bufio.Reader
}

// NewFrameReader wraps r for frame decoding.
func NewFrameReader(r io.Reader) *FrameReader {
	return &FrameReader{r: bufio.NewReaderSize(r, MaxFrameLength+8)}
}

// ReadFrame blocks for the next complete, CRC-valid frame and returns its
// payload. It scans up to MaxFrameScan bytes for the marker sequence and
// rejects any claimed length over MaxFrameLength.
func (fr *FrameReader) ReadFrame() ([]byte, error) {
	if err := fr.sync(); err != nil {
		return nil, err
	}

	length, lenBytes, err := fr.readVarint()
	if err != nil {
		return nil, err
	}
	if length > MaxFrameLength {
		return nil, &FramingError{Msg: "frame length exceeds ceiling"}
	}

	payload := make([]byte, length)
	if _, err := io.ReadFull(fr.r, payload); err != nil {
		return nil, &FramingError{Msg: "short read on payload", Err: err}
	}

	crcByte, err := fr.r.ReadByte()
	if err != nil {
		return nil, &FramingError{Msg: "short read on crc", Err: err}
	}

	body := append(append([]byte{}, lenBytes...), payload...)
	if want := CRC8(body); want != crcByte {
		return nil, &FramingError{Msg: "crc mismatch"}
	}
	return payload, nil
}

// sync discards bytes until it has consumed the two marker bytes, or
// returns a FramingError after MaxFrameScan bytes with no match.
func (fr *FrameReader) sync() error {
	for scanned := 0; scanned < MaxFrameScan; scanned++ {
		b, err := fr.r.ReadByte()
		if err != nil {
			return &FramingError{Msg: "eof while scanning for marker", Err: err}
		}
		if b != MarkerByte0 {
			continue
		}
		b2, err := fr.r.ReadByte()
		if err != nil {
			return &FramingError{Msg: "eof while scanning for marker", Err: err}
		}
		if b2 == MarkerByte1 {
			return nil
		}
		scanned++
	}
	return &FramingError{Msg: "marker not found within scan window"}
}

// readVarint reads a varint directly off the reader, returning the decoded
// value and the raw bytes read (needed to recompute the CRC).
func (fr *FrameReader) readVarint() (uint64, []byte, error) {
	var raw []byte
	var v uint64
	var shift uint
	for {
		b, err := fr.r.ReadByte()
		if err != nil {
			return 0, nil, &FramingError{Msg: "eof while reading length", Err: err}
		}
		raw = append(raw, b)
		v |= uint64(b&0x7F) << shift
		if b&0x80 == 0 {
			return v, raw, nil
		}
		shift += 7
		if shift > 63 {
			return 0, nil, &FramingError{Msg: "length varint too long"}
		}
	}
}
