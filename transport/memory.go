package transport

import (
	"io"
	"time"
)

// Memory is an in-memory Transport double with no goroutines: a test drives
// it directly through Feed (simulating inbound bytes) and Drain (simulating
// the OS flushing outbound bytes), so backpressure and callback ordering are
// both deterministic.
type Memory struct {
	readBuf   []byte
	writeBuf  []byte
	watermark int
	closed    bool

	readEnabled, writeEnabled bool

	edges Edges

	// Written accumulates everything ever handed to Write, for assertions;
	// unlike writeBuf it is never drained.
	Written []byte
}

func NewMemory() *Memory {
	return &Memory{readEnabled: true, writeEnabled: true}
}

func (m *Memory) SetEdges(e Edges) {
	m.edges = e
}

// Feed appends b to the read buffer and fires Readable, synchronously,
// exactly once, if reads are currently enabled.
func (m *Memory) Feed(b []byte) {
	m.readBuf = append(m.readBuf, b...)

	if m.readEnabled && m.edges.Readable != nil {
		m.edges.Readable()
	}
}

// FeedEOF fires Edges.Error with io.EOF, as a real TCP half-close would.
func (m *Memory) FeedEOF() {
	if m.edges.Error != nil {
		m.edges.Error(io.EOF)
	}
}

// Drain simulates the OS flushing up to n bytes of the outbound buffer. It
// is a no-op while the write side is disabled (TCP.DisableWrite, by
// contrast, does not pause its writer goroutine).
func (m *Memory) Drain(n int) {
	if !m.writeEnabled || len(m.writeBuf) == 0 {
		return
	}

	if n > len(m.writeBuf) {
		n = len(m.writeBuf)
	}

	m.writeBuf = m.writeBuf[n:]

	if len(m.writeBuf) <= m.watermark && m.edges.Writable != nil {
		m.edges.Writable()
	}
}

func (m *Memory) Read() []byte { return m.readBuf }

func (m *Memory) Consume(n int) { m.readBuf = m.readBuf[n:] }

func (m *Memory) Unread(b []byte) {
	m.readBuf = append(append([]byte{}, b...), m.readBuf...)
}

func (m *Memory) Write(b []byte) (int, error) {
	if m.closed {
		return 0, io.ErrClosedPipe
	}

	m.Written = append(m.Written, b...)
	m.writeBuf = append(m.writeBuf, b...)

	return len(m.writeBuf), nil
}

func (m *Memory) OutboundLen() int { return len(m.writeBuf) }

func (m *Memory) SetWriteWatermark(n int) { m.watermark = n }

func (m *Memory) EnableRead() { m.readEnabled = true }

func (m *Memory) DisableRead() { m.readEnabled = false }

func (m *Memory) EnableWrite() { m.writeEnabled = true }

func (m *Memory) DisableWrite() { m.writeEnabled = false }

// SetDeadline is a no-op: the in-memory double never blocks, so deadlines
// have nothing to race against.
func (m *Memory) SetDeadline(_ time.Duration) {}

func (m *Memory) Close() error {
	m.closed = true
	return nil
}
