package font

import (
	"bytes"
	"strings"
	"testing"

	"github.com/kc5dju/osdctl/osd"
	"github.com/kc5dju/osdctl/transport"
	"github.com/kc5dju/osdctl/wire"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeTransport struct {
	Sent   [][]byte
	toRead bytes.Buffer
}

func (f *fakeTransport) Write(p []byte) (int, error) {
	cp := append([]byte(nil), p...)
	f.Sent = append(f.Sent, cp)
	return len(p), nil
}
func (f *fakeTransport) ReadByte() (byte, error) { return f.toRead.ReadByte() }
func (f *fakeTransport) Close() error            { return nil }

func (f *fakeTransport) QueueFrame(payload []byte) { f.toRead.Write(wire.EncodeFrame(payload)) }

var _ transport.Transport = (*fakeTransport)(nil)

func infoPayload() []byte {
	buf := []byte("AGH")
	buf = append(buf, 2, 0, 0, 12, 20)
	buf = wire.PutU16(buf, 720)
	buf = wire.PutU16(buf, 540)
	buf = append(buf, 0, 0)
	buf = wire.PutU16(buf, 256)
	buf = append(buf, 4)
	return append([]byte{byte(wire.CmdInfo)}, buf...)
}

func newTestClient(t *testing.T) (*osd.Client, *fakeTransport) {
	t.Helper()
	ft := &fakeTransport{}
	ft.QueueFrame(infoPayload())
	c := osd.NewClient(ft, 115200)
	require.NoError(t, c.Connect(false))
	return c, ft
}

// buildMCM writes a minimal single-glyph MCM file: the header line
// followed by 64 bytes' worth of '0'/'1' bits, all ones.
func buildMCM() string {
	var sb strings.Builder
	sb.WriteString("MAX7456\n")
	for i := 0; i < glyphBytes*8; i++ {
		sb.WriteByte('1')
		if i%16 == 15 {
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}

func TestUploadSingleGlyph(t *testing.T) {
	c, ft := newTestClient(t)
	ft.QueueFrame([]byte{byte(wire.CmdWriteFont)})

	var gotAddr uint16
	err := Upload(c, strings.NewReader(buildMCM()), func(addr uint16) { gotAddr = addr })
	require.NoError(t, err)
	assert.Equal(t, uint16(0), gotAddr)
}

func TestUploadTwoGlyphsIncrementsAddr(t *testing.T) {
	c, ft := newTestClient(t)
	ft.QueueFrame([]byte{byte(wire.CmdWriteFont)})
	ft.QueueFrame([]byte{byte(wire.CmdWriteFont)})

	var addrs []uint16
	body := buildMCM() + buildMCM()[len("MAX7456\n"):]
	err := Upload(c, strings.NewReader(body), func(addr uint16) { addrs = append(addrs, addr) })
	require.NoError(t, err)
	assert.Equal(t, []uint16{0, 1}, addrs)
}

func TestUploadRejectsBadHeader(t *testing.T) {
	c, _ := newTestClient(t)
	err := Upload(c, strings.NewReader("NOT_MAX7456\n"), nil)
	require.Error(t, err)
}

func TestUploadRejectsBadBit(t *testing.T) {
	c, _ := newTestClient(t)
	err := Upload(c, strings.NewReader("MAX7456\n2"), nil)
	require.Error(t, err)
}
