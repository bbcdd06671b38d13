// Package msp implements the small slice of the MultiWii Serial Protocol
// the OSD client needs to ask a flight controller to switch its serial
// port into FrSky Pixel OSD passthrough mode.
package msp

import (
	"fmt"
	"io"
)

// Request/response codes used by the passthrough handshake.
const (
	cmdFCVariant      = 2
	cmdSetPassthrough = 245
)

// function IDs the passthrough command expects, keyed by FC identity.
const (
	functionIDBetaflight = 16
	functionIDOther      = 20
)

// EncodeRequest builds an MSP v1 request frame: '$' 'M' '<' size cmd
// payload crc, where crc is the XOR of size, cmd, and every payload byte.
func EncodeRequest(cmd uint8, payload []byte) []byte {
	frame := make([]byte, 0, 6+len(payload))
	frame = append(frame, '$', 'M', '<', byte(len(payload)), cmd)
	frame = append(frame, payload...)
	crc := byte(len(payload)) ^ cmd
	for _, b := range payload {
		crc ^= b
	}
	frame = append(frame, crc)
	return frame
}

// Response is a decoded MSP v1 response.
type Response struct {
	Cmd     uint8
	Payload []byte
}

// ReadResponse reads a single "$M>" response frame from r.
func ReadResponse(r io.Reader) (*Response, error) {
	var hdr [5]byte
	if _, err := io.ReadFull(r, hdr[:]); err != nil {
		return nil, fmt.Errorf("msp: read header: %w", err)
	}
	if hdr[0] != '$' || hdr[1] != 'M' || hdr[2] != '>' {
		return nil, fmt.Errorf("msp: bad response marker %q", hdr[:3])
	}
	size := hdr[3]
	cmd := hdr[4]

	payload := make([]byte, size)
	if _, err := io.ReadFull(r, payload); err != nil {
		return nil, fmt.Errorf("msp: read payload: %w", err)
	}
	var crcByte [1]byte
	if _, err := io.ReadFull(r, crcByte[:]); err != nil {
		return nil, fmt.Errorf("msp: read crc: %w", err)
	}

	want := size ^ cmd
	for _, b := range payload {
		want ^= b
	}
	if want != crcByte[0] {
		return nil, fmt.Errorf("msp: crc mismatch")
	}
	return &Response{Cmd: cmd, Payload: payload}, nil
}

// FCVariantRequest builds the MSP_FC_VARIANT request frame.
func FCVariantRequest() []byte {
	return EncodeRequest(cmdFCVariant, nil)
}

// PassthroughFunctionID picks the passthrough function ID for the flight
// controller identity string returned by MSP_FC_VARIANT: Betaflight
// advertises "BTFL" and uses a different function ID than every other
// firmware.
func PassthroughFunctionID(variant []byte) uint8 {
	if len(variant) >= 4 && string(variant[:4]) == "BTFL" {
		return functionIDBetaflight
	}
	return functionIDOther
}

// SetPassthroughRequest builds the MSP_SET_PASSTHROUGH_SERIAL_FUNCTION_ID
// request that asks the FC to bridge its serial port to the OSD.
func SetPassthroughRequest(functionID uint8) []byte {
	return EncodeRequest(cmdSetPassthrough, []byte{0xFE, functionID})
}
