package wire

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"
)

func TestCRC8Vectors(t *testing.T) {
	assert.Equal(t, uint8(0x00), CRC8(nil))
	assert.Equal(t, uint8(0x00), CRC8([]byte{0x00}))
	assert.Equal(t, uint8(0xD5), CRC8([]byte{0x01}))
	assert.Equal(t, uint8(0xF9), CRC8([]byte{0xFF}))
	assert.Equal(t, uint8(0xBC), CRC8([]byte("123456789")))
}

func TestVarintVectors(t *testing.T) {
	cases := []struct {
		v   uint64
		enc []byte
	}{
		{0, []byte{0x00}},
		{127, []byte{0x7F}},
		{128, []byte{0x80, 0x01}},
		{16384, []byte{0x80, 0x80, 0x01}},
	}
	for _, c := range cases {
		assert.Equal(t, c.enc, PutVarint(nil, c.v))
		got, n := ReadVarint(c.enc)
		assert.Equal(t, c.v, got)
		assert.Equal(t, len(c.enc), n)
	}
}

func TestVarintRoundTrip(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		v := rapid.Uint64().Draw(t, "v")
		enc := PutVarint(nil, v)
		got, n := ReadVarint(enc)
		assert.Equal(t, v, got)
		assert.Equal(t, len(enc), n)
	})
}

func TestPackPointVectors(t *testing.T) {
	cases := []struct {
		p    Point
		want []byte
	}{
		{Point{0, 0}, []byte{0x00, 0x00, 0x00}},
		{Point{1, 0}, []byte{0x01, 0x00, 0x00}},
		{Point{0, 1}, []byte{0x00, 0x10, 0x00}},
		{Point{-1, -1}, []byte{0xFF, 0xFF, 0xFF}},
		{Point{2047, 2047}, []byte{0xFF, 0xF7, 0x7F}},
		{Point{-2048, -2048}, []byte{0x00, 0x08, 0x80}},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, PutPoint(nil, c.p))
	}
}

func TestPackGridChar2Vector(t *testing.T) {
	// gx=1, gy=2, ch='A'(0x41), opts=0 -> u24 0x008241 -> LE [0x41,0x82,0x00]
	got := PutGridChar2(nil, 1, 2, 0x41, 0)
	assert.Equal(t, []byte{0x41, 0x82, 0x00}, got)
}

func TestFrameRoundTrip(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		payload := rapid.SliceOfN(rapid.Byte(), 0, 200).Draw(t, "payload")
		frame := EncodeFrame(payload)

		fr := NewFrameReader(bytes.NewReader(frame))
		got, err := fr.ReadFrame()
		assert.NoError(t, err)
		assert.Equal(t, payload, got)
	})
}

func TestFrameReaderSkipsGarbage(t *testing.T) {
	payload := []byte{0x01, 0x02, 0x03}
	frame := EncodeFrame(payload)
	noisy := append([]byte{0x00, 0xFF, 0x10}, frame...)

	fr := NewFrameReader(bytes.NewReader(noisy))
	got, err := fr.ReadFrame()
	assert.NoError(t, err)
	assert.Equal(t, payload, got)
}

func TestFrameReaderRejectsBadCRC(t *testing.T) {
	frame := EncodeFrame([]byte{0x01, 0x02})
	frame[len(frame)-1] ^= 0xFF

	fr := NewFrameReader(bytes.NewReader(frame))
	_, err := fr.ReadFrame()
	assert.Error(t, err)
	var fe *FramingError
	assert.ErrorAs(t, err, &fe)
}
