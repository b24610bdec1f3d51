// Package httpconn implements a single-connection HTTP/1.x protocol
// engine: an event-driven state machine that consumes bytes from a
// transport, parses request or response messages incrementally, and lets
// an embedding application emit outbound messages on the same stream.
package httpconn

import (
	"errors"

	"github.com/dchest/uniuri"
	"github.com/indigo-web/chunkedbody"
	"github.com/indigo-web/utils/uf"

	"github.com/coreproxy/httpconn/header"
	"github.com/coreproxy/httpconn/resource"
	"github.com/coreproxy/httpconn/transport"
)

// Connection is the engine. It is driven entirely by the four transport
// edges and by the verb methods below; it never blocks and performs no
// locking, staying single-threaded-cooperative on its own goroutine.
type Connection struct {
	// id is a short opaque correlation id attached to every Connection for
	// log lines (cid=...).
	id string

	role Role
	cb   Callbacks
	cfg  Config
	log  Logger

	transport transport.Transport

	phase   Phase
	version Version
	// priorVersion/priorVersionSet track the negotiated version across
	// pipelined messages, so a version change mid-connection can be
	// detected and refused persistence.
	priorVersion    Version
	priorVersionSet bool

	headers      *header.List
	headerParser *header.Parser

	// pending* hold the start-line fields parsed in READ_FIRSTLINE until
	// headers complete and a Request/Response can be built.
	pendingMethod Method
	pendingTarget resource.Target
	pendingCode   int
	pendingReason string

	coding       transferCoding
	hasBody      bool
	eofCompletes bool
	remaining    int64

	persistent bool
	choked     bool
	readPaused bool

	// outHasBody backs CurrentMessageHasBody/SetBodyless, for the message
	// this connection (in ClientEndpoint role) is currently composing.
	outHasBody bool

	scratch       []byte
	chunkedParser *chunkedbody.Parser

	callDepth   int
	freePending bool
}

// New constructs a Connection. role determines both which start line is
// parsed/written and, in this repository, the transport's direction:
// ClientEndpoint connections are always inbound (already-connected
// transport, starts IDLE); ServerEndpoint connections are always outbound
// (transport starts CONNECTING until Connect succeeds). Role and
// connection-direction are independent concepts in the abstract, but every
// embedder in this repository pairs them this way, so New bakes in the
// mapping rather than taking a redundant direction flag.
func New(role Role, tr transport.Transport, cb Callbacks, cfg Config) *Connection {
	c := &Connection{
		id:            uniuri.NewLen(8),
		role:          role,
		cb:            cb,
		cfg:           Fill(cfg),
		log:           stdLogger{},
		transport:     tr,
		headerParser:  header.NewParser(),
		scratch:       make([]byte, 0, Fill(cfg).ReadBufferSize),
		chunkedParser: newChunkedParser(),
		outHasBody:    true,
	}

	tr.SetEdges(transport.Edges{
		Readable:  c.onReadable,
		Writable:  c.onWritable,
		Error:     c.onTransportError,
		Connected: c.onConnected,
	})

	if role == ServerEndpoint {
		c.phase = CONNECTING
	} else {
		c.phase = IDLE
		c.armIdleDeadline()
	}

	return c
}

// armIdleDeadline arms the transport's read deadline with this Connection's
// idle timeout (role-specific), for a Connection sitting in IDLE awaiting
// reuse. armActiveDeadline arms the shorter timeout given to a message
// already in progress, so an active exchange gets its own bound instead of
// inheriting the (much longer) idle one.
func (c *Connection) armIdleDeadline() {
	if c.role == ClientEndpoint {
		c.transport.SetDeadline(c.cfg.IdleClientTimeout)
	} else {
		c.transport.SetDeadline(c.cfg.IdleServerTimeout)
	}
}

func (c *Connection) armActiveDeadline() {
	c.transport.SetDeadline(c.cfg.ActiveReadTimeout)
}

// SetLogger overrides the default standard-library logger.
func (c *Connection) SetLogger(l Logger) {
	c.log = l
}

// ID returns this Connection's short opaque correlation id, for log
// correlation across the embedder and this package.
func (c *Connection) ID() string { return c.id }

// Role returns the Role this Connection was constructed with.
func (c *Connection) Role() Role { return c.role }

// Phase returns the current state-machine phase.
func (c *Connection) Phase() Phase { return c.phase }

type starter interface {
	Start()
}

// Connect kicks off dialing for a ServerEndpoint connection whose transport
// hasn't started yet. It is a no-op for a ClientEndpoint connection or once
// CONNECTING has already resolved.
func (c *Connection) Connect() {
	if c.role != ServerEndpoint || c.phase != CONNECTING {
		return
	}

	if s, ok := c.transport.(starter); ok {
		s.Start()
	}
}

func (c *Connection) onConnected(err error) {
	if c.phase != CONNECTING {
		return
	}

	if err != nil {
		c.fail(newErr(ErrConnectFailed, err))
		return
	}

	c.phase = IDLE
	c.armIdleDeadline()
	c.invoke(func() { c.cb.connect(c) })
	c.drive()
}

// onReadable is installed as transport.Edges.Readable: new bytes have
// arrived, so the state machine gets a chance to make progress.
func (c *Connection) onReadable() {
	c.drive()
}

// onWritable is installed as transport.Edges.Writable: the outbound buffer
// has drained to or below the armed watermark.
func (c *Connection) onWritable() {
	if c.phase == MANGLED {
		return
	}

	if c.choked {
		c.choked = false
		c.transport.SetWriteWatermark(0)
		c.invoke(func() { c.cb.writeMore(c) })
		return
	}

	if c.transport.OutboundLen() == 0 {
		c.invoke(func() { c.cb.flush(c) })
	}
}

// onTransportError is installed as transport.Edges.Error. It demultiplexes
// a single failure edge into a phase-dependent taxonomy, using
// transport.WriteError to tell a write-side failure apart from a read-side
// one.
func (c *Connection) onTransportError(err error) {
	if c.phase == MANGLED {
		return
	}

	var we *transport.WriteError
	if errors.As(err, &we) {
		c.fail(newErr(ErrWriteFailed, we.Err))
		return
	}

	switch c.phase {
	case CONNECTING:
		c.fail(newErr(ErrConnectFailed, err))
	case IDLE:
		c.fail(newErr(ErrIdleConnTimedOut, err))
	case READ_FIRSTLINE, READ_HEADERS:
		c.fail(newErr(ErrIncompleteHeaders, err))
	case READ_BODY:
		if c.eofCompletes {
			c.endMessage(nil)
		} else {
			c.fail(newErr(ErrIncompleteBody, err))
		}
	default:
		// MANGLED already excluded above; any other phase reaching here is
		// a programming error, not a protocol condition worth a distinct
		// kind. Treat it the same as an incomplete body to stay terminal.
		c.fail(newErr(ErrIncompleteBody, err))
	}
}

// drive runs the state machine until the input buffer is exhausted, the
// phase cannot make progress without more bytes, reading is paused, or the
// connection has gone terminal. It consumes as many pipelined messages as
// are already fully buffered in one call.
func (c *Connection) drive() {
	for {
		if c.phase == MANGLED || c.readPaused {
			return
		}

		switch c.phase {
		case IDLE:
			if len(c.transport.Read()) == 0 {
				return
			}

			c.phase = READ_FIRSTLINE
			c.armActiveDeadline()

		case READ_FIRSTLINE:
			line, ok := c.scanLine()
			if !ok {
				return
			}

			if !c.onFirstLine(line) {
				return
			}

		case READ_HEADERS:
			data := c.transport.Read()
			if len(data) == 0 {
				return
			}

			status, rest, perr := c.headerParser.Parse(data)

			switch status {
			case header.Malformed:
				c.transport.Consume(len(data))
				c.fail(newErr(ErrHeaderParseFailed, perr))
				return
			case header.Pending:
				c.transport.Consume(len(data))
				return
			case header.Complete:
				c.transport.Consume(len(data) - len(rest))
				if !c.onHeadersComplete() {
					return
				}
			}

		case READ_BODY:
			before := len(c.transport.Read())
			done, berr := c.streamBody()
			if berr != nil {
				c.fail(berr)
				return
			}

			if !done {
				// A chunked step stops after one chunk and unreads the rest;
				// keep going while bytes remain and the step made progress.
				if left := len(c.transport.Read()); left > 0 && left < before {
					continue
				}

				return
			}

			c.endMessage(nil)

		case CONNECTING:
			return
		}
	}
}

// scanLine looks for a CRLF (or bare LF) terminated line at the front of
// the transport's read buffer. It consumes the line plus its terminator on
// success; on failure (no terminator yet) it consumes nothing.
func (c *Connection) scanLine() (string, bool) {
	data := c.transport.Read()

	idx := indexByte(data, '\n')
	if idx < 0 {
		return "", false
	}

	end := idx
	if end > 0 && data[end-1] == '\r' {
		end--
	}

	line := uf.B2S(data[:end])
	c.transport.Consume(idx + 1)

	return line, true
}

func indexByte(b []byte, c byte) int {
	for i := range b {
		if b[i] == c {
			return i
		}
	}

	return -1
}

// onFirstLine parses the just-scanned start line per role and advances to
// READ_HEADERS. It returns false if the connection failed and the driver
// loop must stop.
func (c *Connection) onFirstLine(line string) bool {
	switch c.role {
	case ClientEndpoint:
		method, target, version, err := parseRequestLine(line)
		if err != nil {
			c.fail(err.(*ConnError))
			return false
		}

		c.version = version
		c.pendingMethod = method
		c.pendingTarget = target
	case ServerEndpoint:
		version, code, reason, err := parseResponseLine(line)
		if err != nil {
			c.fail(err.(*ConnError))
			return false
		}

		c.version = version
		c.pendingCode = code
		c.pendingReason = reason
	}

	c.phase = READ_HEADERS
	c.headers = header.New(8)
	c.headerParser.Reset(c.headers)

	return true
}

// onHeadersComplete builds the Request/Response, computes framing and
// persistence, delivers the start callback, and advances to READ_BODY or
// straight to end-of-message. Returns false if the driver loop must stop
// (a failure, or a bodyless message whose end left the connection MANGLED).
func (c *Connection) onHeadersComplete() bool {
	headers := c.headers

	switch c.role {
	case ClientEndpoint:
		f, ferr := computeFraming(c.role, c.pendingMethod, 0, headers)
		if ferr != nil {
			c.fail(ferr)
			return false
		}

		c.applyFraming(f, headers)

		req := &Request{
			Method:  c.pendingMethod,
			URL:     c.pendingTarget,
			Version: c.version,
			Headers: headers,
		}
		c.headers = nil

		c.invoke(func() { c.cb.clientRequest(c, req) })

	case ServerEndpoint:
		f, ferr := computeFraming(c.role, 0, c.pendingCode, headers)
		if ferr != nil {
			c.fail(ferr)
			return false
		}

		c.applyFraming(f, headers)

		resp := &Response{
			Version: c.version,
			Code:    c.pendingCode,
			Reason:  c.pendingReason,
			Headers: headers,
		}
		c.headers = nil

		c.invoke(func() { c.cb.serverResponse(c, resp) })
	}

	if c.phase == MANGLED {
		return false
	}

	if c.hasBody {
		c.phase = READ_BODY
		return true
	}

	c.endMessage(nil)
	return c.phase != MANGLED
}

func (c *Connection) applyFraming(f framing, headers *header.List) {
	c.coding = f.coding
	c.hasBody = f.hasBody
	c.eofCompletes = f.eofCompletes
	c.remaining = f.remaining

	if f.unknownTE != "" {
		c.log.Printf("httpconn: cid=%s unrecognized Transfer-Encoding %q, treating as identity", c.id, f.unknownTE)
	}

	if f.malformedCL {
		c.log.Printf("httpconn: cid=%s %v", c.id, errBadContentLength)
	}

	c.persistent = computePersistence(c.version, c.priorVersion, c.priorVersionSet, f.eofCompletes, headers)
	c.priorVersion = c.version
	c.priorVersionSet = true
}

// endMessage implements the end-of-message procedure: on error or
// non-persistence it goes terminal and disables both transport directions;
// otherwise it begins a fresh message. Exactly one of
// OnMessageComplete/OnError is delivered.
func (c *Connection) endMessage(err *ConnError) {
	c.headers = nil

	if err != nil || !c.persistent {
		c.phase = MANGLED
		c.transport.DisableRead()
		c.transport.DisableWrite()
	} else {
		c.beginMessage()
	}

	if err != nil {
		c.invoke(func() { c.cb.error(c, err) })
	} else {
		c.invoke(func() { c.cb.messageComplete(c) })
	}
}

// beginMessage resets per-message scalar state and returns to IDLE so the
// driver loop can attempt pipelined reuse.
func (c *Connection) beginMessage() {
	c.phase = IDLE
	c.outHasBody = true
	c.armIdleDeadline()
}

// fail is endMessage's entry point from any error site in the driver; kept
// as a separate name at call sites for readability ("this path failed")
// even though it is exactly end-of-message with a non-nil error.
func (c *Connection) fail(err *ConnError) {
	c.endMessage(err)
}

// invoke wraps a single embedder callback with a reentrancy guard: a Free
// called from inside a callback is deferred until the outermost callback on
// this Connection returns.
func (c *Connection) invoke(fn func()) {
	c.callDepth++
	fn()
	c.callDepth--

	if c.callDepth == 0 && c.freePending {
		c.freePending = false
		c.doFree()
	}
}

// IsPersistent reports whether the connection may be reused for a
// subsequent message once the current one completes.
func (c *Connection) IsPersistent() bool { return c.persistent }

// IsChoked reports whether write-side backpressure is currently applied.
func (c *Connection) IsChoked() bool { return c.choked }

// IsReadPaused reports whether the embedder has called StopReading without
// a matching StartReading.
func (c *Connection) IsReadPaused() bool { return c.readPaused }

// CurrentMessageHasBody reports whether the outbound message this
// connection is composing (meaningful for a ClientEndpoint connection
// writing a response) is expected to carry a body.
func (c *Connection) CurrentMessageHasBody() bool { return c.outHasBody }

// SetBodyless forces CurrentMessageHasBody to false for the response
// currently being composed by a ClientEndpoint connection — used when the
// embedder knows the body must be suppressed (a HEAD request's response)
// regardless of what Content-Length says.
func (c *Connection) SetBodyless() { c.outHasBody = false }

// StopReading disables the transport's read side and marks reading paused.
// Idempotent.
func (c *Connection) StopReading() {
	if c.readPaused {
		return
	}

	c.readPaused = true
	c.transport.DisableRead()
}

// StartReading re-enables the transport's read side. If bytes are already
// buffered, it immediately redrives the state machine — a reentrancy
// hazard: callers invoking StartReading from inside a callback will see
// the driver loop run again before StartReading returns.
func (c *Connection) StartReading() {
	if !c.readPaused {
		return
	}

	c.readPaused = false
	c.transport.EnableRead()
	c.drive()
}

// Flush asks the connection to surface completion of the outbound buffer.
// If it is already empty and not choked, OnFlush fires synchronously;
// otherwise EnableWrite is kicked and OnFlush (or OnWriteMore, if choked)
// follows once the transport actually drains.
func (c *Connection) Flush() {
	if c.transport.OutboundLen() == 0 && !c.choked {
		c.invoke(func() { c.cb.flush(c) })
		return
	}

	c.transport.EnableWrite()
}

// Free releases the connection's transport and buffers. If called from
// inside an embedder callback (callDepth > 0), the free is deferred until
// the outermost callback returns.
func (c *Connection) Free() {
	if c.callDepth > 0 {
		c.freePending = true
		return
	}

	c.doFree()
}

// Hijack detaches the engine from the underlying transport and returns it
// for the embedder to drive directly, without closing it. Used for CONNECT:
// once the 2xx response is written, the tunnel's bytes are no longer
// HTTP/1.x framed and the engine has nothing further to parse.
func (c *Connection) Hijack() transport.Transport {
	c.transport.SetEdges(transport.Edges{})
	c.phase = MANGLED

	return c.transport
}

func (c *Connection) doFree() {
	c.phase = MANGLED
	_ = c.transport.Close()
	c.scratch = nil
	c.headers = nil
}
