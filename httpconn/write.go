package httpconn

import "github.com/coreproxy/httpconn/header"

// WriteRequest composes "METHOD TARGET VERSION\r\n" followed by the dumped
// headers and appends it to the outbound buffer. It is used by a
// ServerEndpoint connection (we are the client of an upstream). The
// returned bool follows the same accepted/choked contract as WriteBuf.
func (c *Connection) WriteRequest(method Method, target string, version Version, headers *header.List) bool {
	buf := make([]byte, 0, 64+headers.Len()*32)
	buf = append(buf, method.String()...)
	buf = append(buf, ' ')
	buf = append(buf, target...)
	buf = append(buf, ' ')
	buf = append(buf, version.String()...)
	buf = append(buf, '\r', '\n')
	buf = header.Dump(headers, buf)
	buf = append(buf, '\r', '\n')

	return c.write(buf)
}

// WriteResponse composes "VERSION CODE REASON\r\n" followed by the dumped
// headers. It is used by a ClientEndpoint connection (we are answering a
// client's request).
func (c *Connection) WriteResponse(version Version, code int, reason string, headers *header.List) bool {
	buf := make([]byte, 0, 64+headers.Len()*32)
	buf = append(buf, version.String()...)
	buf = append(buf, ' ')
	buf = appendInt(buf, code)
	buf = append(buf, ' ')
	buf = append(buf, reason...)
	buf = append(buf, '\r', '\n')
	buf = header.Dump(headers, buf)
	buf = append(buf, '\r', '\n')

	return c.write(buf)
}

// WriteBuf appends raw body bytes to the outbound buffer verbatim; outbound
// chunked re-framing is the embedder's responsibility.
func (c *Connection) WriteBuf(b []byte) bool {
	return c.write(b)
}

// write implements the backpressure procedure: append, measure, and choke
// once the outbound buffer exceeds MaxWriteBacklog.
func (c *Connection) write(b []byte) bool {
	if c.phase == MANGLED {
		return false
	}

	n, err := c.transport.Write(b)
	if err != nil {
		c.fail(newErr(ErrWriteFailed, err))
		return false
	}

	if n > c.cfg.MaxWriteBacklog {
		if !c.choked {
			c.choked = true
			c.transport.SetWriteWatermark(c.cfg.MaxWriteBacklog / 2)
		}

		return false
	}

	return true
}

func appendInt(buf []byte, n int) []byte {
	if n == 0 {
		return append(buf, '0')
	}

	start := len(buf)

	for n > 0 {
		buf = append(buf, byte('0'+n%10))
		n /= 10
	}

	for i, j := start, len(buf)-1; i < j; i, j = i+1, j-1 {
		buf[i], buf[j] = buf[j], buf[i]
	}

	return buf
}
