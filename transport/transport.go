// Package transport implements a line-buffered transport exposing
// independent read/write buffers, per-direction enable bits and four edges
// (readable, writable, error, connected): a push-based model the connection
// engine needs to stay single-threaded-cooperative on its own goroutine
// while the Go runtime drives the socket concurrently.
package transport

import "time"

// Edges is the callback vtable a Transport reports activity through. The
// owning httpconn.Connection installs exactly one of these sets via SetEdges
// before any data is allowed to flow.
//
// A Transport implementation backed by more than one goroutine (TCP's
// reader and writer) is responsible for serializing edge delivery onto a
// single dispatch goroutine of its own before calling out — a Connection
// performs no locking and assumes every edge arrives one at a time, never
// concurrently with another.
type Edges struct {
	// Readable fires whenever new bytes have been appended to the read
	// buffer and the read side is enabled.
	Readable func()
	// Writable fires once the outbound buffer has drained to or below the
	// armed low-watermark.
	Writable func()
	// Error fires on any transport-level failure, including a clean EOF
	// (err == io.EOF) on the read side.
	Error func(err error)
	// Connected fires once, for a dialed (client-role) transport, with a
	// non-nil err on failure. Accepted (server-role) transports fire it
	// immediately with a nil err.
	Connected func(err error)
}

// Transport is the interface httpconn.Connection drives. It deliberately
// never blocks the caller: Write buffers and returns immediately, and all
// backpressure is reported asynchronously through Edges.Writable.
type Transport interface {
	SetEdges(Edges)

	// Read returns the bytes currently buffered from the peer. The slice
	// aliases internal storage and is invalidated by the next Consume.
	Read() []byte
	// Consume drops the first n bytes of the read buffer (n <= len(Read())).
	Consume(n int)
	// Unread prepends b back onto the read buffer, ahead of anything
	// delivered by a future Readable edge. Used when a parser oversteps a
	// message boundary and the trailing bytes belong to the next message.
	Unread(b []byte)

	// Write copies b onto the outbound buffer and returns the buffer's
	// length immediately after the append, so the caller can compare it
	// against its own backlog threshold. It never blocks on the network.
	Write(b []byte) (outboundLen int, err error)
	// OutboundLen reports the outbound buffer length without writing.
	OutboundLen() int
	// SetWriteWatermark sets the low-watermark that triggers Edges.Writable
	// once the outbound buffer has drained to at or below it; with n == 0,
	// Writable fires only once the buffer is empty.
	SetWriteWatermark(n int)

	EnableRead()
	DisableRead()
	EnableWrite()
	DisableWrite()

	// SetDeadline arms a read deadline, used for the idle/active read
	// timeouts. A zero duration disables it.
	SetDeadline(d time.Duration)

	Close() error
}

// WriteError wraps an error that occurred flushing bytes to the peer,
// distinguishing a write-side failure from a read-side one on the shared
// Error edge, since both the reader and writer goroutines report through
// the same callback.
type WriteError struct {
	Err error
}

func (e *WriteError) Error() string {
	return "transport: write failed: " + e.Err.Error()
}

func (e *WriteError) Unwrap() error {
	return e.Err
}
