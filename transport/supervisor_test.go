package transport

import (
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestListener(t *testing.T) {
	t.Run("accepts and serves a connection", func(t *testing.T) {
		l, err := NewListener("127.0.0.1:0", 50*time.Millisecond)
		require.NoError(t, err)

		addr := l.l.Addr().String()

		accepted := make(chan struct{})
		go func() {
			_ = l.Serve(func(tr *TCP) {
				close(accepted)
				tr.SetEdges(Edges{})
				tr.Start()
			})
		}()

		conn, err := net.Dial("tcp", addr)
		require.NoError(t, err)
		defer conn.Close()

		select {
		case <-accepted:
		case <-time.After(time.Second):
			require.Fail(t, "connection was not accepted in time")
		}

		l.Stop()
		l.Wait()
		require.NoError(t, l.Close())
	})
}
