// Package proxy is a demo embedder: it pairs one ClientEndpoint
// httpconn.Connection (the accepted browser-facing side) with one
// ServerEndpoint httpconn.Connection (a dialed upstream) per accepted
// connection, relaying requests and responses between them. CONNECT
// requests are tunneled raw after the 200 handshake instead of relayed as
// HTTP/1.x messages.
package proxy

import (
	"io"
	"log"
	"net"

	"github.com/coreproxy/httpconn"
	"github.com/coreproxy/httpconn/header"
	"github.com/coreproxy/httpconn/transport"
	"github.com/indigo-web/utils/strcomp"
)

// Proxy accepts connections handed to it by a transport.Listener and
// forwards each request to the upstream named by the request's own
// request-target (absolute-form or Host header), i.e. a plain forward
// proxy rather than a fixed reverse proxy.
type Proxy struct {
	Dial func(network, addr string) (net.Conn, error)
}

// New returns a Proxy that dials upstreams with net.Dial.
func New() *Proxy {
	return &Proxy{Dial: net.Dial}
}

// Handle is installed as the callback for transport.Listener.Serve. It
// starts the client-facing Connection; everything else happens from its
// callbacks.
func (p *Proxy) Handle(clientTr *transport.TCP) {
	s := &session{proxy: p, clientTr: clientTr}

	s.client = httpconn.New(httpconn.ClientEndpoint, clientTr, httpconn.Callbacks{
		OnClientRequest:   s.onClientRequest,
		OnReadBody:        s.onClientBody,
		OnMessageComplete: s.onClientMessageComplete,
		OnError:           s.onClientError,
	}, httpconn.Default())

	clientTr.Start()
}

// session correlates the client-facing and upstream-facing Connections for
// one proxied TCP connection. A new upstream Connection is dialed per
// request, matching a non-pipelining forward proxy's simplest correct
// behavior.
type session struct {
	proxy *Proxy

	clientTr *transport.TCP
	client   *httpconn.Connection

	upstream   *httpconn.Connection
	upstreamTr *transport.TCP

	// reqChunked/respChunked track whether the message currently being
	// relayed in that direction must be manually re-chunked on the way out,
	// since WriteBuf never re-frames outbound bodies on its own.
	reqChunked  bool
	respChunked bool
}

func (s *session) onClientRequest(c *httpconn.Connection, req *httpconn.Request) {
	if req.Method == httpconn.CONNECT {
		s.handleConnect(c, req)
		return
	}

	// A new upstream Connection is dialed per request; free whatever the
	// previous request left behind first, persistent or not, or its socket
	// and goroutines leak and its OnError closure can later fire a spurious
	// SendError into whatever this client Connection is doing by then.
	if s.upstream != nil {
		s.upstream.Free()
		s.upstream = nil
		s.upstreamTr = nil
	}

	addr := upstreamAddr(req)

	conn, err := s.proxy.Dial("tcp", addr)
	if err != nil {
		log.Printf("proxy: cid=%s dial %s failed: %v", c.ID(), addr, err)
		c.SendError(502)
		return
	}

	s.reqChunked = isChunked(req.Headers)

	s.upstreamTr = transport.NewTCP(conn)
	s.upstream = httpconn.New(httpconn.ServerEndpoint, s.upstreamTr, httpconn.Callbacks{
		OnConnect:         func(u *httpconn.Connection) { s.relayRequest(u, req) },
		OnServerResponse:  s.onUpstreamResponse,
		OnReadBody:        s.onUpstreamBody,
		OnMessageComplete: s.onUpstreamMessageComplete,
		OnError:           s.onUpstreamError,
	}, httpconn.Default())

	s.upstream.Connect()
}

func (s *session) relayRequest(u *httpconn.Connection, req *httpconn.Request) {
	u.WriteRequest(req.Method, req.URL.Raw, req.Version, req.Headers)
}

func (s *session) onClientBody(_ *httpconn.Connection, buf []byte) {
	if s.upstream == nil {
		return
	}

	writeBodyChunk(s.upstream, buf, s.reqChunked)
}

func (s *session) onClientMessageComplete(_ *httpconn.Connection) {
	if s.upstream != nil && s.reqChunked {
		s.upstream.WriteBuf([]byte("0\r\n\r\n"))
	}
}

func (s *session) onClientError(c *httpconn.Connection, err *httpconn.ConnError) {
	log.Printf("proxy: cid=%s client-side error: %v", c.ID(), err)

	if s.upstream != nil {
		s.upstream.Free()
		s.upstream = nil
	}
}

// Every upstream callback below guards on u == s.upstream: a callback can
// still be queued against a Connection that onClientRequest has already
// replaced and freed (the next request's upstream, or a future one, may
// already be sitting in s.upstream by the time it runs), and acting on a
// connection that is no longer the session's current one would step on
// whatever unrelated exchange has since taken its place.

func (s *session) onUpstreamResponse(u *httpconn.Connection, resp *httpconn.Response) {
	if u != s.upstream {
		return
	}

	s.respChunked = isChunked(resp.Headers)
	s.client.WriteResponse(resp.Version, resp.Code, resp.Reason, resp.Headers)
}

func (s *session) onUpstreamBody(u *httpconn.Connection, buf []byte) {
	if u != s.upstream {
		return
	}

	writeBodyChunk(s.client, buf, s.respChunked)
}

func (s *session) onUpstreamMessageComplete(u *httpconn.Connection) {
	if u != s.upstream {
		return
	}

	if s.respChunked {
		s.client.WriteBuf([]byte("0\r\n\r\n"))
	}

	if !s.upstream.IsPersistent() {
		s.upstream.Free()
		s.upstream = nil
	}
}

func (s *session) onUpstreamError(u *httpconn.Connection, err *httpconn.ConnError) {
	log.Printf("proxy: cid=%s upstream error: %v", u.ID(), err)

	if u != s.upstream {
		return
	}

	s.upstream = nil
	s.client.SendError(502)
}

// handleConnect answers a CONNECT tunnel request: dial the target, confirm
// with a 200, then hijack the client Connection and pipe raw bytes between
// its socket and the dialed one until either side closes.
func (s *session) handleConnect(c *httpconn.Connection, req *httpconn.Request) {
	addr := req.URL.Host + ":" + req.URL.Port

	conn, err := s.proxy.Dial("tcp", addr)
	if err != nil {
		log.Printf("proxy: cid=%s CONNECT dial %s failed: %v", c.ID(), addr, err)
		c.SendError(502)
		return
	}

	c.SetBodyless()
	c.WriteResponse(req.Version, 200, "Connection Established", header.New(0))

	c.Hijack()
	clientConn := s.clientTr.Conn()

	go func() {
		io.Copy(conn, clientConn)
		conn.Close()
	}()

	io.Copy(clientConn, conn)
	clientConn.Close()
}

func upstreamAddr(req *httpconn.Request) string {
	if req.URL.Host != "" {
		port := req.URL.Port
		if port == "" {
			port = "80"
		}

		return req.URL.Host + ":" + port
	}

	return req.Headers.Value("Host")
}

func isChunked(h *header.List) bool {
	te, ok := h.Get("Transfer-Encoding")
	return ok && strcomp.EqualFold(te, "chunked")
}

// writeBodyChunk forwards one body delivery to dst, manually re-framing it
// as a chunked chunk when chunked is true: WriteBuf never re-frames
// outbound bodies on its own (see httpconn.Connection.WriteBuf).
func writeBodyChunk(dst *httpconn.Connection, buf []byte, chunked bool) {
	if len(buf) == 0 {
		return
	}

	if !chunked {
		dst.WriteBuf(buf)
		return
	}

	framed := make([]byte, 0, len(buf)+16)
	framed = append(framed, hexLen(len(buf))...)
	framed = append(framed, '\r', '\n')
	framed = append(framed, buf...)
	framed = append(framed, '\r', '\n')

	dst.WriteBuf(framed)
}

func hexLen(n int) string {
	const digits = "0123456789abcdef"
	if n == 0 {
		return "0"
	}

	var buf [16]byte
	i := len(buf)

	for n > 0 {
		i--
		buf[i] = digits[n&0xf]
		n >>= 4
	}

	return string(buf[i:])
}
