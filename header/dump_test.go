package header

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDump_PreservesOrderAndFormat(t *testing.T) {
	l := New(2)
	l.Add("Host", "example.com")
	l.Add("Content-Length", "5")

	buf := Dump(l, nil)

	require.Equal(t, "Host: example.com\r\nContent-Length: 5\r\n", string(buf))
}

func TestDump_AppendsToExistingBuffer(t *testing.T) {
	l := New(1)
	l.Add("X", "y")

	buf := Dump(l, []byte("PREFIX"))

	require.Equal(t, "PREFIXX: y\r\n", string(buf))
}
