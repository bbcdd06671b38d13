package osd

import (
	"bytes"
	"errors"
	"io"
	"testing"

	"github.com/kc5dju/osdctl/transport"
	"github.com/kc5dju/osdctl/wire"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeTransport is an in-memory transport.Transport: everything written is
// captured in Sent, and ReadByte serves bytes queued ahead of time via
// QueueFrame/QueueRaw.
type fakeTransport struct {
	Sent   bytes.Buffer
	toRead bytes.Buffer
	closed bool
}

func (f *fakeTransport) Write(p []byte) (int, error) { return f.Sent.Write(p) }

func (f *fakeTransport) ReadByte() (byte, error) { return f.toRead.ReadByte() }

func (f *fakeTransport) Close() error { f.closed = true; return nil }

func (f *fakeTransport) QueueFrame(payload []byte) { f.toRead.Write(wire.EncodeFrame(payload)) }

func (f *fakeTransport) QueueRaw(b []byte) { f.toRead.Write(b) }

var _ transport.Transport = (*fakeTransport)(nil)

func infoPayload(major, minor, patch byte, gridRows, gridCols byte, pixelW, pixelH uint16) []byte {
	buf := []byte("AGH")
	buf = append(buf, major, minor, patch, gridRows, gridCols)
	buf = wire.PutU16(buf, pixelW)
	buf = wire.PutU16(buf, pixelH)
	buf = append(buf, 0, 0)
	buf = wire.PutU16(buf, 256)
	buf = append(buf, 4)
	full := []byte{byte(wire.CmdInfo)}
	full = append(full, buf...)
	return full
}

func newTestClient(t *testing.T) (*Client, *fakeTransport) {
	t.Helper()
	ft := &fakeTransport{}
	ft.QueueFrame(infoPayload(2, 0, 0, 12, 20, 720, 540))
	c := NewClient(ft, 115200)
	require.NoError(t, c.Connect(false))
	return c, ft
}

func TestConnectDecodesInfo(t *testing.T) {
	c, _ := newTestClient(t)
	assert.True(t, c.IsConnected())
	require.NotNil(t, c.Info())
	assert.Equal(t, uint8(2), c.Info().Major)
	assert.True(t, c.SpeaksV2())
}

func TestSendFrameBuffersUntilFlush(t *testing.T) {
	c, ft := newTestClient(t)
	ft.Sent.Reset()

	c.SendFrame(wire.CmdClearScreen, nil)
	assert.Equal(t, 0, ft.Sent.Len(), "nothing should be written before Flush")

	require.NoError(t, c.Flush())
	assert.Greater(t, ft.Sent.Len(), 0)

	fr := wire.NewFrameReader(bytes.NewReader(ft.Sent.Bytes()))
	frame, err := fr.ReadFrame()
	require.NoError(t, err)
	assert.Equal(t, []byte{byte(wire.CmdClearScreen)}, frame)
}

func TestSendFrameFlushesBeforeOverflow(t *testing.T) {
	c, ft := newTestClient(t)
	ft.Sent.Reset()

	big := bytes.Repeat([]byte{0xAA}, maxSendBufferSize-1)
	c.SendFrame(wire.CmdClearScreen, big)
	assert.Equal(t, 0, ft.Sent.Len())

	// Appending one more byte worth of command would overflow 254 bytes,
	// so this SendFrame must flush the first one first.
	c.SendFrame(wire.CmdClearScreen, nil)
	assert.Greater(t, ft.Sent.Len(), 0, "overflow must trigger an automatic flush")
}

func TestSendFrameSyncDecodesError(t *testing.T) {
	c, ft := newTestClient(t)
	ft.QueueFrame([]byte{byte(wire.CmdError), byte(wire.CmdWriteFlash), 0xF7})

	_, err := c.SendFrameSync(wire.CmdWriteFlash, nil)
	require.Error(t, err)

	var remote *wire.RemoteError
	require.True(t, errors.As(err, &remote))
	assert.Equal(t, wire.CmdWriteFlash, remote.RequestCmd)
	assert.Equal(t, int8(-9), remote.ErrorCode)
}

func TestTransactionCommitFlushesOnce(t *testing.T) {
	c, ft := newTestClient(t)
	ft.Sent.Reset()

	c.TransactionBegin()
	c.DrawingReset()
	c.ClearScreen()
	require.NoError(t, c.TransactionCommit())

	fr := wire.NewFrameReader(bytes.NewReader(ft.Sent.Bytes()))
	frame, err := fr.ReadFrame()
	require.NoError(t, err)
	assert.Equal(t, []byte{
		byte(wire.CmdTransactionBegin),
		byte(wire.CmdDrawingReset),
		byte(wire.CmdClearScreen),
		byte(wire.CmdTransactionCommit),
	}, frame)

	_, err = fr.ReadFrame()
	assert.ErrorIs(t, err, io.EOF)
}

func TestDrawGridStringV2(t *testing.T) {
	c, ft := newTestClient(t)
	ft.Sent.Reset()

	c.DrawGridString(1, 2, "HELLO", 0)
	require.NoError(t, c.Flush())

	fr := wire.NewFrameReader(bytes.NewReader(ft.Sent.Bytes()))
	frame, err := fr.ReadFrame()
	require.NoError(t, err)

	require.Equal(t, byte(wire.CmdDrawGridStr2), frame[0])
	header := uint16(frame[1]) | uint16(frame[2])<<8
	assert.Equal(t, "HELLO", string(frame[3:]))
	assert.Equal(t, uint8(len("HELLO")), uint8(header>>12&0x0F))
}
