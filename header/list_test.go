package header

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestList_AddGetCaseInsensitive(t *testing.T) {
	l := New(2)
	l.Add("Content-Type", "text/plain")

	v, ok := l.Get("content-type")
	require.True(t, ok)
	require.Equal(t, "text/plain", v)
}

func TestList_ValuesPreservesArrivalOrder(t *testing.T) {
	l := New(2)
	l.Add("Set-Cookie", "a=1")
	l.Add("Set-Cookie", "b=2")

	require.Equal(t, []string{"a=1", "b=2"}, l.Values("Set-Cookie"))
}

func TestList_HasAndLen(t *testing.T) {
	l := New(2)
	require.False(t, l.Has("X"))
	require.Equal(t, 0, l.Len())

	l.Add("X", "1")
	require.True(t, l.Has("X"))
	require.Equal(t, 1, l.Len())
}

func TestList_Clear(t *testing.T) {
	l := New(2)
	l.Add("X", "1")
	l.Clear()

	require.Equal(t, 0, l.Len())
	require.False(t, l.Has("X"))
}
