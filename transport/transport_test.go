package transport

import (
	"testing"

	"github.com/creack/pty"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestPtyWriteReadRoundTrip writes through a pty master and reads the bytes
// back from its slave, a pty pair standing in for serial hardware the test
// runner doesn't have attached. It uses the pty files directly, not Serial.
func TestPtyWriteReadRoundTrip(t *testing.T) {
	master, slave, err := pty.Open()
	require.NoError(t, err)
	defer master.Close()
	defer slave.Close()

	n, err := master.Write([]byte("hello"))
	assert.NoError(t, err)
	assert.Equal(t, 5, n)

	buf := make([]byte, 5)
	n, err = slave.Read(buf)
	assert.NoError(t, err)
	assert.Equal(t, 5, n)
	assert.Equal(t, "hello", string(buf))
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "serial", KindSerial.String())
	assert.Equal(t, "tcp", KindTCP.String())
}

func TestOpenRejectsEmptyURI(t *testing.T) {
	_, err := Open("", 115200)
	require.Error(t, err)
}

func TestOpenRejectsBareWord(t *testing.T) {
	// No ':' and no /dev/ or COM prefix: not a valid address of either kind.
	_, err := Open("frobnicate", 115200)
	require.Error(t, err)
}

func TestOpenTCPDialFailure(t *testing.T) {
	// Nothing is listening on this port; Open must surface the dial
	// error rather than panic or hang.
	_, err := Open("127.0.0.1:1", 115200)
	require.Error(t, err)
}

func TestOpenRoutesDevPathToSerial(t *testing.T) {
	// No such device; NewSerial's open failure proves Open routed here
	// rather than treating it as a TCP address.
	_, err := Open("/dev/nonexistent-osdctl-test", 115200)
	require.Error(t, err)
}

func TestOpenRoutesCOMNameToSerial(t *testing.T) {
	_, err := Open("COM99", 115200)
	require.Error(t, err)
}
