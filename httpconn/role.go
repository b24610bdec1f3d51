package httpconn

// Role fixes which side of an HTTP/1.x exchange a Connection plays: it
// determines which start line gets parsed (request or response) and which
// one gets written. Modeled as a plain enum rather than two concrete types
// so the shared state machine (httpconn/connection.go) has a single entry
// point regardless of direction.
type Role uint8

const (
	// ClientEndpoint means the peer is an HTTP client: the Connection reads
	// requests and writes responses. This is the role a reverse listener
	// hands to an accepted connection.
	ClientEndpoint Role = iota + 1
	// ServerEndpoint means the peer is an HTTP server: the Connection reads
	// responses and writes requests. This is the role used for an outbound
	// connection to an upstream.
	ServerEndpoint
)

func (r Role) String() string {
	switch r {
	case ClientEndpoint:
		return "client-endpoint"
	case ServerEndpoint:
		return "server-endpoint"
	default:
		return "unknown-role"
	}
}
