package transport

import (
	"io"
	"net"
	"sync"
	"time"
)

// TCP is the real, net.Conn-backed Transport. It runs one reader goroutine
// that blocks on conn.Read and appends into a read buffer, and one writer
// goroutine that blocks on conn.Write draining an outbound buffer — so the
// backpressure the engine sees through OutboundLen and Edges.Writable is
// genuine OS-level backpressure, not simulated bookkeeping. It is grounded
// on the blocking, pull-based client/TCP pair, turned inside-out: instead of
// the engine calling Read and blocking, TCP pushes bytes and fires edges on
// its own goroutines.
//
// Those two goroutines never call an edge directly: both post a closure onto
// events, a single dispatch goroutine drains it and invokes the edge, so
// Edges.Readable/Writable/Error/Connected always arrive one at a time on one
// goroutine, never concurrently with each other. The engine they drive
// performs no locking of its own and relies on exactly that guarantee.
type TCP struct {
	conn net.Conn

	mu         sync.Mutex
	readBuf    []byte
	writeBuf   []byte
	watermark  int
	readEnable bool
	wantWrite  chan struct{}
	closed     bool

	edges Edges

	readDeadline time.Duration

	events chan func()
	done   chan struct{}
}

// NewTCP wraps an already-connected net.Conn. The caller is responsible for
// calling Start once edges are installed.
func NewTCP(conn net.Conn) *TCP {
	return &TCP{
		conn:       conn,
		readEnable: true,
		wantWrite:  make(chan struct{}, 1),
		events:     make(chan func()),
		done:       make(chan struct{}),
	}
}

// Start launches the dispatch goroutine plus the reader and writer
// goroutines. It must be called after SetEdges.
func (t *TCP) Start() {
	go t.dispatchLoop()
	go t.readLoop()
	go t.writeLoop()

	t.post(func() {
		if t.edges.Connected != nil {
			t.edges.Connected(nil)
		}
	})
}

// dispatchLoop is the single goroutine every edge is actually invoked from.
func (t *TCP) dispatchLoop() {
	for {
		select {
		case fn := <-t.events:
			fn()
		case <-t.done:
			return
		}
	}
}

// post hands fn to the dispatch goroutine, blocking the caller (the reader
// or writer goroutine) until it is picked up or the transport is closed.
func (t *TCP) post(fn func()) {
	select {
	case t.events <- fn:
	case <-t.done:
	}
}

func (t *TCP) SetEdges(e Edges) {
	t.edges = e
}

func (t *TCP) readLoop() {
	buf := make([]byte, 4096)

	for {
		t.mu.Lock()
		enabled := t.readEnable
		t.mu.Unlock()

		if !enabled {
			time.Sleep(time.Millisecond)
			continue
		}

		if t.readDeadline > 0 {
			_ = t.conn.SetReadDeadline(time.Now().Add(t.readDeadline))
		} else {
			_ = t.conn.SetReadDeadline(time.Time{})
		}

		n, err := t.conn.Read(buf)
		if n > 0 {
			t.mu.Lock()
			t.readBuf = append(t.readBuf, buf[:n]...)
			t.mu.Unlock()

			t.post(func() {
				if t.edges.Readable != nil {
					t.edges.Readable()
				}
			})
		}

		if err != nil {
			t.post(func() {
				if t.edges.Error != nil {
					t.edges.Error(err)
				}
			})

			return
		}
	}
}

func (t *TCP) writeLoop() {
	for range t.wantWrite {
		for {
			t.mu.Lock()
			if len(t.writeBuf) == 0 {
				t.mu.Unlock()
				break
			}

			chunk := t.writeBuf
			t.writeBuf = nil
			t.mu.Unlock()

			if _, err := t.conn.Write(chunk); err != nil {
				t.post(func() {
					if t.edges.Error != nil {
						t.edges.Error(&WriteError{Err: err})
					}
				})

				return
			}

			t.mu.Lock()
			drained := len(t.writeBuf) <= t.watermark
			t.mu.Unlock()

			if drained {
				t.post(func() {
					if t.edges.Writable != nil {
						t.edges.Writable()
					}
				})
			}
		}
	}
}

// Conn exposes the underlying net.Conn, for an embedder that has hijacked
// the connection (via httpconn.Connection.Hijack) and needs to drive it
// directly instead of through the buffered Transport methods.
func (t *TCP) Conn() net.Conn {
	return t.conn
}

func (t *TCP) Read() []byte {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.readBuf
}

func (t *TCP) Consume(n int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.readBuf = t.readBuf[n:]
}

func (t *TCP) Unread(b []byte) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.readBuf = append(append([]byte{}, b...), t.readBuf...)
}

func (t *TCP) Write(b []byte) (int, error) {
	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return 0, io.ErrClosedPipe
	}

	t.writeBuf = append(t.writeBuf, b...)
	n := len(t.writeBuf)
	t.mu.Unlock()

	select {
	case t.wantWrite <- struct{}{}:
	default:
	}

	return n, nil
}

func (t *TCP) OutboundLen() int {
	t.mu.Lock()
	defer t.mu.Unlock()

	return len(t.writeBuf)
}

func (t *TCP) SetWriteWatermark(n int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.watermark = n
}

func (t *TCP) EnableRead() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.readEnable = true
}

func (t *TCP) DisableRead() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.readEnable = false
}

func (t *TCP) EnableWrite() {
	select {
	case t.wantWrite <- struct{}{}:
	default:
	}
}

func (t *TCP) DisableWrite() {
	// the writer goroutine only runs while writeBuf is non-empty; there is
	// no separate gate to close here.
}

func (t *TCP) SetDeadline(d time.Duration) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.readDeadline = d
}

func (t *TCP) Close() error {
	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return nil
	}

	t.closed = true
	t.mu.Unlock()

	close(t.wantWrite)
	close(t.done)
	return t.conn.Close()
}
