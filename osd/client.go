// Package osd implements the command dispatcher, session lifecycle, and
// full drawing method surface for a FrSky Pixel OSD device: buffering
// fire-and-forget commands, flushing and decoding synchronous ones,
// transactions, connect/info, MSP passthrough, and baud renegotiation.
package osd

import (
	"time"

	"github.com/kc5dju/osdctl/internal/logx"
	"github.com/kc5dju/osdctl/internal/msp"
	"github.com/kc5dju/osdctl/transport"
	"github.com/kc5dju/osdctl/wire"
)

// BootloaderCompat selects how the flash writer treats an ERROR response to
// the final WRITE_FLASH of a chunked upload. It replaces the original
// client's module-level _ALLOW_WORKAROUND flag with an explicit, per-session
// choice.
type BootloaderCompat int

const (
	// Strict treats any ERROR response as fatal, including the final
	// WRITE_FLASH of an upload.
	Strict BootloaderCompat = iota
	// CompatBootloader swallows an ERROR response to the final
	// WRITE_FLASH and the zero-length end-of-upload marker, working
	// around early bootloaders that ack the last chunk incorrectly.
	// This matches the original client's default-on behavior.
	CompatBootloader
)

// maxSendBufferSize bounds the fire-and-forget command buffer; it is
// flushed before any append that would exceed it.
const maxSendBufferSize = 254

// defaultBaudrate is the rate SetDataRate requests when it is asked for 0.
const defaultBaudrate = 115200

// Client is a single OSD session: the command dispatcher, response
// decoder, and connection lifecycle bound to one Transport. It is not
// safe for concurrent use; the protocol itself is strictly request/reply
// over one connection.
type Client struct {
	transport transport.Transport
	uri       string
	baudrate  int

	info *wire.DeviceInfo

	sendBuffer []byte

	trace bool
	debug bool
	log   *logx.Logger

	profileAt      *wire.Point
	mspPassthrough bool
	workaround     BootloaderCompat

	reopen func(baud int) (transport.Transport, error)
}

// Option configures a Client at construction time.
type Option func(*Client)

// WithTrace enables per-byte wire tracing. It implies WithDebug, matching
// the original client's trace-implies-debug behavior.
func WithTrace(on bool) Option {
	return func(c *Client) {
		c.trace = on
		if on {
			c.debug = true
		}
	}
}

// WithDebug enables per-command tracing. It cannot turn debug off while
// trace is on.
func WithDebug(on bool) Option {
	return func(c *Client) { c.debug = on || c.trace }
}

// WithProfileAt enables profiled transactions at the given screen point.
func WithProfileAt(p wire.Point) Option { return func(c *Client) { c.profileAt = &p } }

// WithMSPPassthrough marks the session as needing an MSP passthrough
// handshake before the OSD protocol can be spoken.
func WithMSPPassthrough(on bool) Option { return func(c *Client) { c.mspPassthrough = on } }

// WithBootloaderCompat overrides the default flash-ack workaround policy.
func WithBootloaderCompat(mode BootloaderCompat) Option {
	return func(c *Client) { c.workaround = mode }
}

// WithReopen lets the CLI supply a callback that reopens the underlying
// transport at a new baud rate, used by SetDataRate after the device
// acknowledges a rate change on a serial link.
func WithReopen(f func(baud int) (transport.Transport, error)) Option {
	return func(c *Client) { c.reopen = f }
}

// NewClient builds a Client around an already-open Transport. Library
// construction never sniffs a URI; callers that need that (the CLI tools)
// use transport.Open first.
func NewClient(t transport.Transport, baud int, opts ...Option) *Client {
	c := &Client{
		transport:  t,
		baudrate:   baud,
		workaround: CompatBootloader,
		log:        logx.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Connect retrieves device info (and re-enters MSP passthrough, if
// configured), unless already connected and force is false. Unlike the
// original client's connect()->open(), force never reopens or recreates
// the underlying transport: Transport is owned by the caller, constructed
// once via transport.Open and handed to NewClient, so force=true only
// re-runs the INFO handshake against the existing connection.
func (c *Client) Connect(force bool) error {
	if c.IsConnected() && !force {
		return nil
	}
	if c.mspPassthrough {
		if err := c.enterMSPPassthrough(); err != nil {
			return err
		}
	}
	resp, err := c.GetInfo()
	if err != nil {
		return err
	}
	c.info = resp
	c.log.Infof("%s", resp)
	return nil
}

// IsConnected reports whether info has been retrieved on the current
// transport.
func (c *Client) IsConnected() bool {
	return c.transport != nil && c.info != nil
}

// Info returns the most recently retrieved DeviceInfo, or nil before
// Connect succeeds.
func (c *Client) Info() *wire.DeviceInfo {
	return c.info
}

// SpeaksV2 reports whether the connected device understands the packed
// v2 grid/widget/VM opcodes.
func (c *Client) SpeaksV2() bool {
	return c.info != nil && c.info.SpeaksV2()
}

// Close flushes any buffered commands, tears down MSP passthrough if it
// was established, and closes the transport.
func (c *Client) Close() error {
	if c.transport == nil {
		return nil
	}
	if err := c.Flush(); err != nil {
		return err
	}
	if c.mspPassthrough {
		c.exitMSPPassthrough()
	}
	err := c.transport.Close()
	c.transport = nil
	return err
}

// GetInfo issues a synchronous CMD.INFO request.
func (c *Client) GetInfo() (*wire.DeviceInfo, error) {
	resp, err := c.sendFrameSyncResp(wire.CmdInfo, []byte{1})
	if err != nil {
		return nil, err
	}
	ir, ok := resp.(*wire.InfoResponse)
	if !ok {
		return nil, wire.NewProtocolError("expected INFO response, got opcode %d", resp.Opcode())
	}
	return &ir.Info, nil
}

// Reboot asks the device to reboot, optionally staying in bootloader mode.
func (c *Client) Reboot(toBootloader bool) error {
	var flag uint8
	if toBootloader {
		flag = 1
	}
	c.SendFrame(wire.CmdReboot, []byte{flag})
	return c.Flush()
}

// GetActiveCamera returns the index of the currently active camera input.
func (c *Client) GetActiveCamera() (uint8, error) {
	resp, err := c.sendFrameSyncResp(wire.CmdGetActiveCamera, nil)
	if err != nil {
		return 0, err
	}
	g, ok := resp.(*wire.GenericResponse)
	if !ok || len(g.Payload) < 1 {
		return 0, wire.NewProtocolError("malformed GET_ACTIVE_CAMERA response")
	}
	return g.Payload[0], nil
}

// SetDataRate renegotiates the baud rate: it asks the device to switch,
// reads back the rate it actually applied, and if that differs from the
// client's current rate, reopens the transport at the new rate using the
// WithReopen callback. A dr of 0 requests the default rate.
//
// Whether the device needs a pause before the host reopens at the new
// rate is firmware- and transport-dependent; this client reopens
// immediately, matching the original's behavior, and leaves any such
// delay to the caller's WithReopen implementation if its hardware needs
// one.
func (c *Client) SetDataRate(dr int) (int, error) {
	if dr == 0 {
		dr = defaultBaudrate
	}
	payload := wire.PutU32(nil, uint32(dr))
	resp, err := c.sendFrameSyncResp(wire.CmdSetDataRate, payload)
	if err != nil {
		return 0, err
	}
	g, ok := resp.(*wire.GenericResponse)
	if !ok || len(g.Payload) < 4 {
		return 0, wire.NewProtocolError("malformed SET_DATA_RATE response")
	}
	newRate := int(uint32(g.Payload[0]) | uint32(g.Payload[1])<<8 | uint32(g.Payload[2])<<16 | uint32(g.Payload[3])<<24)
	if newRate != c.baudrate {
		c.log.Debugf("changing baudrate from %d to %d", c.baudrate, newRate)
		c.baudrate = newRate
		if c.reopen != nil {
			nt, err := c.reopen(newRate)
			if err != nil {
				return 0, &wire.IoError{Op: "reopen after set_data_rate", Err: err}
			}
			c.transport = nt
		}
	}
	return c.baudrate, nil
}

// SendFrame buffers cmd and payload as a fire-and-forget command,
// flushing first if the append would exceed maxSendBufferSize.
func (c *Client) SendFrame(cmd wire.Opcode, payload []byte) {
	if c.debug {
		c.log.Cmd(opcodeLabel(cmd), "payload", payload)
	}
	if len(payload)+1+len(c.sendBuffer) > maxSendBufferSize {
		_ = c.Flush()
	}
	c.sendBuffer = append(c.sendBuffer, byte(cmd))
	c.sendBuffer = append(c.sendBuffer, payload...)
}

// sendFrameSyncResp flushes the buffer (with cmd/payload appended) and
// blocks for exactly one decoded response frame.
func (c *Client) sendFrameSyncResp(cmd wire.Opcode, payload []byte) (wire.Response, error) {
	c.SendFrame(cmd, payload)
	if err := c.Flush(); err != nil {
		return nil, err
	}

	fr := wire.NewFrameReader(byteReader{c.transport})
	frame, err := fr.ReadFrame()
	if err != nil {
		return nil, err
	}
	if c.trace {
		c.log.WireIn(frame)
	}
	resp, err := wire.DecodeResponse(frame)
	if err != nil {
		return nil, err
	}
	if c.debug {
		c.log.Resp(opcodeLabel(cmd), "resp", resp)
	}
	if ee, ok := resp.(*wire.ErrorResponse); ok {
		return resp, ee.AsRemoteError("")
	}
	return resp, nil
}

// SendFrameSync is the exported form of sendFrameSyncResp for callers
// outside the package (osd/font, osd/flash, osd/vm) that need
// to issue a synchronous command and inspect the raw response, including
// a RemoteError which they may choose to recover from.
func (c *Client) SendFrameSync(cmd wire.Opcode, payload []byte) (wire.Response, error) {
	resp, err := c.sendFrameSyncResp(cmd, payload)
	if err != nil {
		if _, ok := err.(*wire.RemoteError); ok {
			return resp, err
		}
		return nil, err
	}
	return resp, nil
}

// Flush sends any buffered fire-and-forget commands as one frame.
func (c *Client) Flush() error {
	frame := wire.EncodeFrame(c.sendBuffer)
	if c.trace {
		c.log.WireOut(frame)
	}
	if _, err := c.transport.Write(frame); err != nil {
		return &wire.IoError{Op: "write frame", Err: err}
	}
	c.sendBuffer = c.sendBuffer[:0]
	return nil
}

// TransactionBegin starts a buffered transaction, emitting the profiled
// variant if WithProfileAt was set.
func (c *Client) TransactionBegin() {
	if c.profileAt != nil {
		c.SendFrame(wire.CmdTransactionBeginProfiled, wire.PutPoint(nil, *c.profileAt))
		return
	}
	c.SendFrame(wire.CmdTransactionBegin, nil)
}

// TransactionCommit ends a transaction and flushes it as a single frame.
func (c *Client) TransactionCommit() error {
	c.SendFrame(wire.CmdTransactionCommit, nil)
	return c.Flush()
}

// AllowFlashAckWorkaround reports whether the session's BootloaderCompat
// setting permits package flash to swallow an ERROR response to the final
// chunk of a firmware upload.
func (c *Client) AllowFlashAckWorkaround() bool {
	return c.workaround == CompatBootloader
}

// WidgetSetConfig issues the synchronous WIDGET_SET_CONFIG command for a
// raw widget id, used by osd/widget's typed facade.
func (c *Client) WidgetSetConfig(wid uint8, config []byte) error {
	payload := append([]byte{wid}, config...)
	_, err := c.SendFrameSync(wire.CmdWidgetSetConfig, payload)
	return err
}

// WidgetDraw buffers a WIDGET_DRAW command for a raw widget id.
func (c *Client) WidgetDraw(wid uint8, data []byte) {
	payload := append([]byte{wid}, data...)
	c.SendFrame(wire.CmdWidgetDraw, payload)
}

func (c *Client) enterMSPPassthrough() error {
	if _, err := c.transport.Write(msp.FCVariantRequest()); err != nil {
		return &wire.IoError{Op: "msp fc variant request", Err: err}
	}
	variant, err := msp.ReadResponse(byteReader{c.transport})
	if err != nil {
		return wire.NewProtocolError("msp fc variant: %v", err)
	}
	fnID := msp.PassthroughFunctionID(variant.Payload)

	if _, err := c.transport.Write(msp.SetPassthroughRequest(fnID)); err != nil {
		return &wire.IoError{Op: "msp set passthrough request", Err: err}
	}
	resp, err := msp.ReadResponse(byteReader{c.transport})
	if err != nil {
		return wire.NewProtocolError("msp set passthrough: %v", err)
	}
	if len(resp.Payload) < 1 || resp.Payload[0] == 0 {
		return wire.NewProtocolError("msp passthrough rejected by flight controller")
	}
	return nil
}

func (c *Client) exitMSPPassthrough() {
	time.Sleep(time.Second)
	_, _ = c.transport.Write([]byte("+++"))
	time.Sleep(time.Second)
	_, _ = c.transport.Write([]byte("ATH"))
}

// byteReader adapts a transport.Transport's ReadByte method to io.Reader
// so it can feed wire.NewFrameReader and msp.ReadResponse.
type byteReader struct {
	t transport.Transport
}

func (r byteReader) Read(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	b, err := r.t.ReadByte()
	if err != nil {
		return 0, err
	}
	p[0] = b
	return 1, nil
}

func opcodeLabel(cmd wire.Opcode) string {
	return cmd.String()
}
