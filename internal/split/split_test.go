package split

import (
	"github.com/stretchr/testify/require"
	"io"
	"testing"
)

func TestSplit_MultipleSeparators(t *testing.T) {
	sample := "Hello World Yes?"
	iterator := StringIter(sample, ' ')
	result, err := iterator()
	require.NoError(t, err)
	require.Equal(t, "Hello", result)
	result, err = iterator()
	require.NoError(t, err)
	require.Equal(t, "World", result)
	result, err = iterator()
	require.NoError(t, err)
	require.Equal(t, "Yes?", result)
	result, err = iterator()
	require.EqualError(t, err, io.EOF.Error())
}

func TestSplit_NoSeparator(t *testing.T) {
	sample := "Hello,World!"
	iterator := StringIter(sample, ' ')
	result, err := iterator()
	require.NoError(t, err)
	require.Equal(t, "Hello,World!", result)
	result, err = iterator()
	require.EqualError(t, err, io.EOF.Error())
}

func TestBounded(t *testing.T) {
	t.Run("request line", func(t *testing.T) {
		pieces := Bounded("GET /a/b HTTP/1.1", ' ', 3)
		require.Equal(t, []string{"GET", "/a/b", "HTTP/1.1"}, pieces)
	})

	t.Run("response line keeps spaces in the reason phrase", func(t *testing.T) {
		pieces := Bounded("HTTP/1.1 404 Not Found", ' ', 3)
		require.Equal(t, []string{"HTTP/1.1", "404", "Not Found"}, pieces)
	})

	t.Run("fewer separators than the bound", func(t *testing.T) {
		pieces := Bounded("GET /", ' ', 3)
		require.Equal(t, []string{"GET", "/"}, pieces)
	})

	t.Run("n of 1 returns the whole string", func(t *testing.T) {
		require.Equal(t, []string{"abc"}, Bounded("abc", ' ', 1))
	})
}

func TestSplit_SeparatorsOneByOne(t *testing.T) {
	sample := " Hello  World! "
	iterator := StringIter(sample, ' ')
	result, err := iterator()
	require.NoError(t, err)
	require.Equal(t, "", result)
	result, err = iterator()
	require.NoError(t, err)
	require.Equal(t, "Hello", result)
	result, err = iterator()
	require.NoError(t, err)
	require.Equal(t, "", result)
	result, err = iterator()
	require.NoError(t, err)
	require.Equal(t, "World!", result)
	result, err = iterator()
	require.NoError(t, err)
	require.Equal(t, "", result)
	result, err = iterator()
	require.EqualError(t, err, io.EOF.Error())
}
