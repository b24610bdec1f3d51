package httpconn

// Callbacks is the embedder's vtable: a plain struct of function fields
// plus an opaque Cookie, rather than an interface. A Go interface would
// force an embedder to implement every callback even when most are no-ops
// for its use case, whereas a struct of fields lets it populate only the
// ones it needs and leave the rest nil (nil callbacks are simply skipped).
type Callbacks struct {
	// OnConnect fires once after an outbound transport finishes dialing
	// successfully.
	OnConnect func(c *Connection)
	// OnError fires on any protocol or transport failure. It is the last
	// callback delivered on this connection.
	OnError func(c *Connection, err *ConnError)
	// OnClientRequest fires once per request on a ClientEndpoint
	// connection. The Connection no longer owns req.Headers after this
	// call returns.
	OnClientRequest func(c *Connection, req *Request)
	// OnServerResponse fires once per response on a ServerEndpoint
	// connection. The Connection no longer owns resp.Headers after this
	// call returns.
	OnServerResponse func(c *Connection, resp *Response)
	// OnReadBody fires zero or more times per message with a slice of body
	// bytes the embedder must copy out before returning; the buffer is
	// reused on the next delivery.
	OnReadBody func(c *Connection, buf []byte)
	// OnMessageComplete fires exactly once per successful message.
	OnMessageComplete func(c *Connection)
	// OnWriteMore fires once per choke/unchoke cycle, when the outbound
	// buffer has drained back to the low-watermark.
	OnWriteMore func(c *Connection)
	// OnFlush fires when the outbound buffer drains to empty without
	// having been choked first.
	OnFlush func(c *Connection)

	// Cookie is opaque embedder state stored with the callbacks; Connection
	// never inspects it and does not pass it to any callback or expose it
	// through an accessor.
	Cookie any
}

func (cb Callbacks) connect(c *Connection) {
	if cb.OnConnect != nil {
		cb.OnConnect(c)
	}
}

func (cb Callbacks) error(c *Connection, err *ConnError) {
	if cb.OnError != nil {
		cb.OnError(c, err)
	}
}

func (cb Callbacks) clientRequest(c *Connection, req *Request) {
	if cb.OnClientRequest != nil {
		cb.OnClientRequest(c, req)
	}
}

func (cb Callbacks) serverResponse(c *Connection, resp *Response) {
	if cb.OnServerResponse != nil {
		cb.OnServerResponse(c, resp)
	}
}

func (cb Callbacks) readBody(c *Connection, buf []byte) {
	if cb.OnReadBody != nil {
		cb.OnReadBody(c, buf)
	}
}

func (cb Callbacks) messageComplete(c *Connection) {
	if cb.OnMessageComplete != nil {
		cb.OnMessageComplete(c)
	}
}

func (cb Callbacks) writeMore(c *Connection) {
	if cb.OnWriteMore != nil {
		cb.OnWriteMore(c)
	}
}

func (cb Callbacks) flush(c *Connection) {
	if cb.OnFlush != nil {
		cb.OnFlush(c)
	}
}
