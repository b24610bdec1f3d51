package httpconn

import (
	"io"

	"github.com/indigo-web/chunkedbody"
)

// streamBody drains as much of the current message's body as is currently
// available and returns true once the message's body has been fully
// consumed (end-of-message should follow). It never blocks; if there isn't
// enough data yet it simply returns false having delivered whatever partial
// progress it could.
func (c *Connection) streamBody() (done bool, cerr *ConnError) {
	switch c.coding {
	case codingChunked:
		return c.streamChunkedBody()
	default:
		if c.eofCompletes {
			return c.streamEOFBody()
		}

		return c.streamIdentityBody()
	}
}

// streamIdentityBody implements the "identity with known length" framing
// discipline.
func (c *Connection) streamIdentityBody() (bool, *ConnError) {
	avail := c.transport.Read()
	if len(avail) == 0 {
		return false, nil
	}

	n := int64(len(avail))
	if n > c.remaining {
		n = c.remaining
	}

	if n > 0 {
		c.deliverBody(avail[:n])
		c.transport.Consume(int(n))
		c.remaining -= n
	}

	return c.remaining == 0, nil
}

// streamEOFBody implements the EOF-completes discipline: every available
// byte is body until the transport reports EOF (handled in
// onTransportError, not here).
func (c *Connection) streamEOFBody() (bool, *ConnError) {
	avail := c.transport.Read()
	if len(avail) == 0 {
		return false, nil
	}

	c.deliverBody(avail)
	c.transport.Consume(len(avail))

	return false, nil
}

// streamChunkedBody delegates the chunk-framing sub-state machine to
// chunkedbody.Parser: feed it the whole unconsumed buffer, consume exactly
// that much from the transport, and Unread whatever the parser reports as
// belonging to the next chunk-length line or the next message. The parser
// is run with trailer support enabled, so a trailer header block after the
// terminating chunk is read and discarded by the parser itself rather than
// failing the connection.
func (c *Connection) streamChunkedBody() (bool, *ConnError) {
	avail := c.transport.Read()
	if len(avail) == 0 {
		return false, nil
	}

	chunk, extra, err := c.chunkedParser.Parse(avail, true)

	c.transport.Consume(len(avail))
	if len(extra) > 0 {
		c.transport.Unread(extra)
	}

	if len(chunk) > 0 {
		c.deliverBody(chunk)
	}

	switch err {
	case nil:
		return false, nil
	case io.EOF:
		return true, nil
	default:
		return true, newErr(ErrChunkParseFailed, err)
	}
}

// deliverBody copies src into the scratch buffer before invoking
// Callbacks.OnReadBody, so the embedder never observes a slice that aliases
// the transport's internal storage.
func (c *Connection) deliverBody(src []byte) {
	c.scratch = append(c.scratch[:0], src...)
	c.cb.readBody(c, c.scratch)
}

// newChunkedParser constructs the shared chunk-framing decoder, reused
// across every chunked message on this Connection: the library's own state
// machine returns to its initial state once a chunk-terminator is parsed,
// so no per-message reset is needed.
func newChunkedParser() *chunkedbody.Parser {
	return chunkedbody.NewParser(chunkedbody.DefaultSettings())
}
