package httpconn

// ErrorKind is the closed taxonomy of failures surfaced via Callbacks.OnError,
// collapsed into one enum since this taxonomy (unlike HTTP status codes) has
// no independent identity worth giving each kind its own package-level
// error value.
type ErrorKind uint8

const (
	// ErrConnectFailed: an outbound transport never established.
	ErrConnectFailed ErrorKind = iota + 1
	// ErrIdleConnTimedOut: EOF or timeout while awaiting a new message on a
	// kept-alive connection.
	ErrIdleConnTimedOut
	// ErrIncompleteHeaders: EOF mid-start-line or mid-headers.
	ErrIncompleteHeaders
	// ErrHeaderParseFailed: malformed start line, unknown method, unknown
	// version, bad request-target, or a rejected header line.
	ErrHeaderParseFailed
	// ErrClientPostWithoutLength: an inbound request declared a body but
	// gave neither Content-Length nor chunked framing.
	ErrClientPostWithoutLength
	// ErrChunkParseFailed: unreadable hexadecimal chunk-length line.
	ErrChunkParseFailed
	// ErrIncompleteBody: EOF before a fixed-length or chunked body
	// completed, with EOF-completes false.
	ErrIncompleteBody
	// ErrWriteFailed: any write-side transport failure.
	ErrWriteFailed
)

func (k ErrorKind) String() string {
	switch k {
	case ErrConnectFailed:
		return "connect-failed"
	case ErrIdleConnTimedOut:
		return "idle-conn-timed-out"
	case ErrIncompleteHeaders:
		return "incomplete-headers"
	case ErrHeaderParseFailed:
		return "header-parse-failed"
	case ErrClientPostWithoutLength:
		return "client-post-without-length"
	case ErrChunkParseFailed:
		return "chunk-parse-failed"
	case ErrIncompleteBody:
		return "incomplete-body"
	case ErrWriteFailed:
		return "write-failed"
	default:
		return "unknown-error"
	}
}

// ConnError wraps an ErrorKind with the underlying cause, when one exists
// (a transport error, a parse error). Cause is nil for kinds that are
// purely protocol-level decisions (e.g. ErrClientPostWithoutLength).
type ConnError struct {
	Kind  ErrorKind
	Cause error
}

func (e *ConnError) Error() string {
	if e.Cause == nil {
		return e.Kind.String()
	}

	return e.Kind.String() + ": " + e.Cause.Error()
}

func (e *ConnError) Unwrap() error {
	return e.Cause
}

func newErr(kind ErrorKind, cause error) *ConnError {
	return &ConnError{Kind: kind, Cause: cause}
}
