package wire

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeInfoResponse(t *testing.T) {
	body := []byte{
		2, 0, 1, // major, minor, patch
		13, 30, // gridRows, gridColumns
		0x68, 0x01, // pixelWidth = 360
		0xEA, 0x00, // pixelHeight = 234
		1,    // tvStandard
		1,    // hasDetectedCamera
		0x00, 0x04, // maxFrameSize = 1024
		4, // contextStackSize
	}
	payload := append([]byte{'A', 'G', 'H'}, body...)
	frame := append([]byte{byte(CmdInfo)}, payload...)

	resp, err := DecodeResponse(frame)
	require.NoError(t, err)
	ir, ok := resp.(*InfoResponse)
	require.True(t, ok)

	assert.Equal(t, uint8(2), ir.Info.Major)
	assert.Equal(t, uint8(0), ir.Info.Minor)
	assert.Equal(t, uint8(1), ir.Info.Patch)
	assert.Equal(t, uint8(13), ir.Info.GridRows)
	assert.Equal(t, uint8(30), ir.Info.GridColumns)
	assert.Equal(t, uint16(360), ir.Info.PixelWidth)
	assert.Equal(t, uint16(234), ir.Info.PixelHeight)
	assert.Equal(t, uint8(1), ir.Info.TVStandard)
	assert.Equal(t, uint8(1), ir.Info.HasDetectedCamera)
	assert.Equal(t, uint16(1024), ir.Info.MaxFrameSize)
	assert.Equal(t, uint8(4), ir.Info.ContextStackSize)
	assert.True(t, ir.Info.SpeaksV2())
	assert.Equal(t, uint16(12), ir.Info.GridWidth())
	assert.Equal(t, uint16(18), ir.Info.GridHeight())
}

func TestDecodeErrorResponse(t *testing.T) {
	frame := []byte{byte(CmdError), byte(CmdWriteFlash), 0xF7} // -9 as int8
	resp, err := DecodeResponse(frame)
	require.NoError(t, err)
	er, ok := resp.(*ErrorResponse)
	require.True(t, ok)
	assert.Equal(t, CmdWriteFlash, er.RequestCmd)
	assert.Equal(t, int8(-9), er.ErrorCode)
}

func TestDecodeWriteFlashResponse(t *testing.T) {
	frame := []byte{byte(CmdWriteFlash), 0x00, 0x01, 0x00, 0x00} // next addr 256
	resp, err := DecodeResponse(frame)
	require.NoError(t, err)
	wf, ok := resp.(*WriteFlashResponse)
	require.True(t, ok)
	assert.Equal(t, uint32(256), wf.NextAddr)
}
