package httpconn

import (
	json "github.com/json-iterator/go"

	"github.com/coreproxy/httpconn/header"
)

var reasonPhrases = map[int]string{
	400: "Bad Request",
	403: "Forbidden",
	404: "Not Found",
	405: "Method Not Allowed",
	408: "Request Timeout",
	411: "Length Required",
	413: "Payload Too Large",
	431: "Request Header Fields Too Large",
	500: "Internal Server Error",
	501: "Not Implemented",
	502: "Bad Gateway",
	503: "Service Unavailable",
	504: "Gateway Timeout",
}

func reasonFor(code int) string {
	if r, ok := reasonPhrases[code]; ok {
		return r
	}

	return "Error"
}

// SendError composes and writes a minimal HTTP/1.x error response: a
// status line, a Connection header reflecting whether this connection can
// survive the error, and a JSON body naming the error.
func (c *Connection) SendError(code int) bool {
	reason := reasonFor(code)

	body, err := json.Marshal(struct {
		Error string `json:"error"`
	}{Error: reason})
	if err != nil {
		c.log.Printf("httpconn: cid=%s failed to encode error body for %d: %v", c.id, code, err)
		body = []byte(`{"error":"` + reason + `"}`)
	}

	h := header.New(3)
	h.Add("Content-Type", "application/json")
	h.Add("Content-Length", itoa(len(body)))

	if c.phase == READ_BODY || !c.persistent {
		h.Add("Connection", "close")
	} else {
		h.Add("Connection", "keep-alive")
	}

	buf := make([]byte, 0, 96+len(body))
	buf = append(buf, HTTP11.String()...)
	buf = append(buf, ' ')
	buf = appendInt(buf, code)
	buf = append(buf, ' ')
	buf = append(buf, reason...)
	buf = append(buf, '\r', '\n')
	buf = header.Dump(h, buf)
	buf = append(buf, '\r', '\n')
	buf = append(buf, body...)

	return c.write(buf)
}

func itoa(n int) string {
	return string(appendInt(nil, n))
}
