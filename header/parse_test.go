package header

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParser_CompleteInOneCall(t *testing.T) {
	list := New(4)
	p := NewParser()
	p.Reset(list)

	status, rest, err := p.Parse([]byte("Host: example.com\r\nX-Foo: bar\r\n\r\ntrailing"))

	require.NoError(t, err)
	require.Equal(t, Complete, status)
	require.Equal(t, "trailing", string(rest))
	require.Equal(t, "example.com", list.Value("Host"))
	require.Equal(t, "bar", list.Value("X-Foo"))
}

func TestParser_PendingAcrossCalls(t *testing.T) {
	list := New(4)
	p := NewParser()
	p.Reset(list)

	status, rest, err := p.Parse([]byte("Host: exam"))
	require.NoError(t, err)
	require.Equal(t, Pending, status)
	require.Nil(t, rest)

	status, rest, err = p.Parse([]byte("ple.com\r\n\r\n"))
	require.NoError(t, err)
	require.Equal(t, Complete, status)
	require.Empty(t, rest)
	require.Equal(t, "example.com", list.Value("Host"))
}

func TestParser_MalformedColonAsFirstKeyByte(t *testing.T) {
	list := New(4)
	p := NewParser()
	p.Reset(list)

	status, _, err := p.Parse([]byte(": bar\r\n\r\n"))

	require.Equal(t, Malformed, status)
	require.ErrorIs(t, err, ErrMalformed)
}

func TestParser_SkipsLeadingValueWhitespace(t *testing.T) {
	list := New(4)
	p := NewParser()
	p.Reset(list)

	_, _, err := p.Parse([]byte("X:    value\r\n\r\n"))

	require.NoError(t, err)
	require.Equal(t, "value", list.Value("X"))
}

func TestParser_BareLFTerminatedLines(t *testing.T) {
	list := New(4)
	p := NewParser()
	p.Reset(list)

	status, rest, err := p.Parse([]byte("Host: x\n\n"))

	require.NoError(t, err)
	require.Equal(t, Complete, status)
	require.Empty(t, rest)
	require.Equal(t, "x", list.Value("Host"))
}

func TestParser_ResetClearsPartialState(t *testing.T) {
	list1 := New(4)
	p := NewParser()
	p.Reset(list1)
	p.Parse([]byte("Partial-Ke"))

	list2 := New(4)
	p.Reset(list2)
	status, _, err := p.Parse([]byte("Host: y\r\n\r\n"))

	require.NoError(t, err)
	require.Equal(t, Complete, status)
	require.False(t, list1.Has("Partial-Ke"))
	require.Equal(t, "y", list2.Value("Host"))
}
