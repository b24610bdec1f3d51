package httpconn

import (
	"strconv"

	"github.com/coreproxy/httpconn/header"
	"github.com/indigo-web/utils/strcomp"
)

// transferCoding distinguishes the two body-length disciplines the framing
// decision table can pick: identity (by length or to-EOF) and chunked.
type transferCoding uint8

const (
	codingIdentity transferCoding = iota + 1
	codingChunked
)

// framing is the outcome of the deterministic procedure run once per
// message, right after headers complete.
type framing struct {
	coding       transferCoding
	hasBody      bool
	eofCompletes bool
	remaining    int64  // -1 means unknown/not applicable
	unknownTE    string // non-empty if a Transfer-Encoding token other than "chunked" was seen
	malformedCL  bool   // Content-Length was present but not a non-negative integer
}

// computeFraming resolves the body-length discipline for one message.
// method is only meaningful for role == ClientEndpoint; code is only
// meaningful for role == ServerEndpoint.
func computeFraming(role Role, method Method, code int, headers *header.List) (framing, *ConnError) {
	f := framing{coding: codingIdentity, hasBody: true, remaining: -1}

	switch role {
	case ClientEndpoint:
		f.hasBody = method == POST || method == PUT
	case ServerEndpoint:
		f.hasBody = !(isInformational(code) || code == 204 || code == 205 || code == 304)
	}

	if !f.hasBody {
		return f, nil
	}

	if te, ok := headers.Get("Transfer-Encoding"); ok {
		if strcomp.EqualFold(te, "chunked") {
			f.coding = codingChunked
			return f, nil
		}

		f.unknownTE = te
	}

	if cl, ok := headers.Get("Content-Length"); ok {
		n, err := strconv.ParseInt(cl, 10, 64)
		if err == nil && n >= 0 {
			f.remaining = n
			if n == 0 {
				f.hasBody = false
			}

			return f, nil
		}

		// A malformed Content-Length is warned about and treated the same
		// as no Content-Length at all, rather than mangling the connection
		// over it.
		f.malformedCL = true
	}

	if role == ClientEndpoint {
		return f, newErr(ErrClientPostWithoutLength, nil)
	}

	f.eofCompletes = true
	return f, nil
}

func isInformational(code int) bool {
	return code >= 100 && code < 200
}

// computePersistence decides whether the connection survives this message:
// HTTP/1.1 plus a framing discipline that doesn't require EOF to delimit
// the body, downgraded by a version change mid-connection or an explicit
// Connection: close — evaluated the correct way round (Connection: close
// means non-persistent).
func computePersistence(version, priorVersion Version, priorVersionSet bool, eofCompletes bool, headers *header.List) bool {
	persistent := !eofCompletes && version == HTTP11

	if priorVersionSet && priorVersion != version {
		persistent = false
	}

	if conn, ok := headers.Get("Connection"); ok {
		if strcomp.EqualFold(conn, "close") {
			persistent = false
		} else {
			// any other value (e.g. "keep-alive") retains whatever persistence
			// was already decided above; it cannot promote a non-1.1 or
			// EOF-delimited message to persistent.
		}
	}

	return persistent
}
