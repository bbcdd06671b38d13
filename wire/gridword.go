package wire

// PackGridChar2 packs a v2 grid-char word: gx:5 | gy:4 | ch:9 | opts:3,
// reserved:3, as a 24-bit little-endian word. It is only valid when
// ch < 512 and opts <= 7; callers must also have already confirmed the
// device speaks v2 before emitting CmdDrawGridChr2.
func PackGridChar2(gx, gy uint8, ch uint16, opts BitmapOpts) uint32 {
	var w BitWriter
	w.Write(uint32(gx), 5)
	w.Write(uint32(gy), 4)
	w.Write(uint32(ch), 9)
	w.Write(uint32(opts.Packed3()), 3)
	w.Write(0, 3)
	return w.Uint32()
}

// PutGridChar2 appends a packed v2 grid-char word as 3 little-endian bytes.
func PutGridChar2(buf []byte, gx, gy uint8, ch uint16, opts BitmapOpts) []byte {
	return PutU24(buf, PackGridChar2(gx, gy, ch, opts))
}

// ValidGridChar2 reports whether ch and opts fit the v2 grid-char word.
func ValidGridChar2(ch uint16, opts BitmapOpts) bool {
	return ch < 512 && opts <= 7
}

// PackGridString2Header packs the 16-bit v2 grid-string header word:
// gx:5 | gy:4 | opts:3 | len:4. len is 0 when the string is longer than 15
// bytes and must instead be varint-length-prefixed and NUL-terminated in
// the payload that follows the header.
func PackGridString2Header(gx, gy uint8, opts BitmapOpts, inlineLen uint8) uint16 {
	var w BitWriter
	w.Write(uint32(gx), 5)
	w.Write(uint32(gy), 4)
	w.Write(uint32(opts.Packed3()), 3)
	w.Write(uint32(inlineLen), 4)
	return uint16(w.Uint32())
}

// PutGridString2 appends the full v2 grid-string encoding for s: the header
// word, then either the inline bytes (len <= 15, no terminator) or a
// NUL-terminated string blob as written by PutString.
func PutGridString2(buf []byte, gx, gy uint8, opts BitmapOpts, s string) []byte {
	if len(s) <= 15 {
		buf = PutU16(buf, PackGridString2Header(gx, gy, opts, uint8(len(s))))
		return append(buf, s...)
	}
	buf = PutU16(buf, PackGridString2Header(gx, gy, opts, 0))
	return PutString(buf, s)
}

// PutBlob appends a varint-length-prefixed byte blob, with no terminator:
// varint(len(data)) followed by data verbatim.
func PutBlob(buf []byte, data []byte) []byte {
	buf = PutVarint(buf, uint64(len(data)))
	return append(buf, data...)
}

// PutString appends a varint-length-prefixed, NUL-terminated string blob
// (the v1 string encoding used by CmdDrawString/CmdDrawStringMask/
// CmdDrawGridStr and by the VM symbol-name payload): varint(len(s)+1),
// s, then a trailing NUL.
func PutString(buf []byte, s string) []byte {
	return PutBlob(buf, append([]byte(s), 0))
}
