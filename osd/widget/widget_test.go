package widget

import (
	"bytes"
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

func ackResp(op wire.Opcode) []byte { return []byte{byte(op)} }

func TestConfigureAHIOnlyOnce(t *testing.T) {
	c, ft := newTestClient(t)
	ft.QueueFrame(ackResp(wire.CmdWidgetSetConfig))

	f := New(c)
	cfg := AHIConfig{Rect: wire.NewRect(0, 0, 120, 180), Style: AHIStyleStaircase, CrosshairMargin: 6}

	require.NoError(t, f.ConfigureAHI(cfg))
	sendsAfterFirst := len(ft.Sent)

	require.NoError(t, f.ConfigureAHI(cfg))
	assert.Equal(t, sendsAfterFirst, len(ft.Sent), "a second ConfigureAHI must not re-send WIDGET_SET_CONFIG")
}

func TestDrawAHISendsPackedPoint(t *testing.T) {
	c, ft := newTestClient(t)
	ft.QueueFrame(ackResp(wire.CmdWidgetSetConfig))

	f := New(c)
	cfg := AHIConfig{Rect: wire.NewRect(0, 0, 120, 180), Style: AHIStyleLine, CrosshairMargin: 6}
	require.NoError(t, f.DrawAHI(cfg, 10, -10))
	require.NoError(t, c.Flush())

	fr := wire.NewFrameReader(bytes.NewReader(ft.Sent[len(ft.Sent)-1]))
	frame, err := fr.ReadFrame()
	require.NoError(t, err)
	want := []byte{byte(wire.CmdWidgetDraw), IDAHI}
	want = wire.PutPoint(want, wire.Point{X: 10, Y: -10})
	assert.Equal(t, want, frame)
}

func TestSidebarSlotValidation(t *testing.T) {
	_, err := SidebarSlot(5).id()
	require.Error(t, err)

	id, err := Sidebar1.id()
	require.NoError(t, err)
	assert.Equal(t, IDSidebar1, id)
}

func TestGraphSlotValidation(t *testing.T) {
	_, err := GraphSlot(4).id()
	require.Error(t, err)

	id, err := Graph2.id()
	require.NoError(t, err)
	assert.Equal(t, IDGraph0+2, id)
}

func TestConfigureSidebarPacksUnit(t *testing.T) {
	c, ft := newTestClient(t)
	ft.QueueFrame(ackResp(wire.CmdWidgetSetConfig))

	f := New(c)
	cfg := SidebarConfig{
		Rect:        wire.NewRect(0, 0, 72, 180),
		Divisions:   10,
		PerDivision: 5000,
		Unit:        wire.Unit{Scale: 100, Symbol: 0xB1, Divisor: 1000, DividedSymbol: 0xB2},
	}
	require.NoError(t, f.ConfigureSidebar(Sidebar0, cfg))

	fr := wire.NewFrameReader(bytes.NewReader(ft.Sent[len(ft.Sent)-1]))
	frame, err := fr.ReadFrame()
	require.NoError(t, err)
	assert.Equal(t, byte(wire.CmdWidgetSetConfig), frame[0])
	assert.Equal(t, byte(IDSidebar0), frame[1])
	// opcode, id, rect(6), options, divisions, per_division(2), then the unit.
	assert.Equal(t, []byte{100, 0, 0xB1, 0, 0xE8, 0x03, 0xB2, 0}, frame[12:])
}
