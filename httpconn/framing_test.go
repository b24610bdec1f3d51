package httpconn

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/coreproxy/httpconn/header"
)

func TestComputeFraming_GETHasNoBody(t *testing.T) {
	f, err := computeFraming(ClientEndpoint, GET, 0, header.New(0))

	require.Nil(t, err)
	require.False(t, f.hasBody)
}

func TestComputeFraming_POSTWithContentLength(t *testing.T) {
	h := header.New(1)
	h.Add("Content-Length", "42")

	f, err := computeFraming(ClientEndpoint, POST, 0, h)

	require.Nil(t, err)
	require.True(t, f.hasBody)
	require.Equal(t, codingIdentity, f.coding)
	require.EqualValues(t, 42, f.remaining)
}

func TestComputeFraming_POSTWithoutLengthFails(t *testing.T) {
	_, err := computeFraming(ClientEndpoint, POST, 0, header.New(0))

	require.NotNil(t, err)
	require.Equal(t, ErrClientPostWithoutLength, err.Kind)
}

func TestComputeFraming_ChunkedTransferEncoding(t *testing.T) {
	h := header.New(1)
	h.Add("Transfer-Encoding", "chunked")

	f, err := computeFraming(ClientEndpoint, POST, 0, h)

	require.Nil(t, err)
	require.Equal(t, codingChunked, f.coding)
}

func TestComputeFraming_ResponseNoBodyCodes(t *testing.T) {
	for _, code := range []int{100, 204, 205, 304} {
		f, err := computeFraming(ServerEndpoint, 0, code, header.New(0))

		require.Nil(t, err)
		require.False(t, f.hasBody, "code %d should carry no body", code)
	}
}

func TestComputeFraming_ResponseWithoutLengthIsEOFCompletes(t *testing.T) {
	f, err := computeFraming(ServerEndpoint, 0, 200, header.New(0))

	require.Nil(t, err)
	require.True(t, f.eofCompletes)
}

func TestComputeFraming_NegativeContentLengthIsTreatedAsAbsent(t *testing.T) {
	h := header.New(1)
	h.Add("Content-Length", "-5")

	f, err := computeFraming(ClientEndpoint, POST, 0, h)

	require.NotNil(t, err)
	require.Equal(t, ErrClientPostWithoutLength, err.Kind)
	require.True(t, f.malformedCL)
}

func TestComputeFraming_MalformedContentLengthOnResponseIsEOFCompletes(t *testing.T) {
	h := header.New(1)
	h.Add("Content-Length", "not-a-number")

	f, err := computeFraming(ServerEndpoint, 0, 200, h)

	require.Nil(t, err)
	require.True(t, f.malformedCL)
	require.True(t, f.eofCompletes)
}

func TestComputePersistence_HTTP10DefaultsNonPersistent(t *testing.T) {
	persistent := computePersistence(HTTP10, 0, false, false, header.New(0))

	require.False(t, persistent)
}

func TestComputePersistence_HTTP11DefaultsPersistent(t *testing.T) {
	persistent := computePersistence(HTTP11, 0, false, false, header.New(0))

	require.True(t, persistent)
}

func TestComputePersistence_ConnectionCloseOverrides(t *testing.T) {
	h := header.New(1)
	h.Add("Connection", "close")

	persistent := computePersistence(HTTP11, 0, false, false, h)

	require.False(t, persistent)
}

func TestComputePersistence_VersionChangeRefusesPersistence(t *testing.T) {
	persistent := computePersistence(HTTP11, HTTP10, true, false, header.New(0))

	require.False(t, persistent)
}

func TestComputePersistence_EOFCompletesRefusesPersistence(t *testing.T) {
	persistent := computePersistence(HTTP11, 0, false, true, header.New(0))

	require.False(t, persistent)
}
