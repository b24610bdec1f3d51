package proxy

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/coreproxy/httpconn"
	"github.com/coreproxy/httpconn/header"
)

func TestIsChunked(t *testing.T) {
	h := header.New(1)
	h.Add("Transfer-Encoding", "chunked")
	require.True(t, isChunked(h))

	require.False(t, isChunked(header.New(0)))
}

func TestHexLen(t *testing.T) {
	require.Equal(t, "0", hexLen(0))
	require.Equal(t, "a", hexLen(10))
	require.Equal(t, "ff", hexLen(255))
	require.Equal(t, "100", hexLen(256))
}

func TestUpstreamAddr_PrefersAbsoluteFormHost(t *testing.T) {
	h := header.New(1)
	h.Add("Host", "ignored.example")

	req := &httpconn.Request{Headers: h}
	req.URL.Host = "upstream.example"
	req.URL.Port = "8081"

	require.Equal(t, "upstream.example:8081", upstreamAddr(req))
}

func TestUpstreamAddr_FallsBackToHostHeader(t *testing.T) {
	h := header.New(1)
	h.Add("Host", "example.com:80")

	req := &httpconn.Request{Headers: h}

	require.Equal(t, "example.com:80", upstreamAddr(req))
}
