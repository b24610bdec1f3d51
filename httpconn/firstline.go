package httpconn

import (
	"strconv"
	"strings"

	"github.com/coreproxy/httpconn/internal/split"
	"github.com/coreproxy/httpconn/resource"
	"github.com/indigo-web/utils/strcomp"
)

// parseVersion validates the "HTTP/1.x" token: a case-insensitive "HTTP/"
// prefix followed by exactly "1.0" or "1.1".
func parseVersion(tok string) (Version, bool) {
	if len(tok) < 5 || !strcomp.EqualFold(tok[:5], "HTTP/") {
		return 0, false
	}

	switch tok[5:] {
	case "1.0":
		return HTTP10, true
	case "1.1":
		return HTTP11, true
	default:
		return 0, false
	}
}

func parseMethod(tok string) (Method, bool) {
	switch {
	case strcomp.EqualFold(tok, "GET"):
		return GET, true
	case strcomp.EqualFold(tok, "HEAD"):
		return HEAD, true
	case strcomp.EqualFold(tok, "POST"):
		return POST, true
	case strcomp.EqualFold(tok, "PUT"):
		return PUT, true
	case strcomp.EqualFold(tok, "CONNECT"):
		return CONNECT, true
	default:
		return 0, false
	}
}

// parseRequestLine tokenizes a client-role start line into exactly three
// space-delimited tokens (method, request-target, version) using the
// shared split.Bounded tokenizer.
func parseRequestLine(line string) (Method, resource.Target, Version, error) {
	tokens := split.Bounded(line, ' ', 3)
	if len(tokens) != 3 || strings.IndexByte(tokens[2], ' ') != -1 {
		return 0, resource.Target{}, 0, newErr(ErrHeaderParseFailed, errMalformedStartLine)
	}

	method, ok := parseMethod(tokens[0])
	if !ok {
		return 0, resource.Target{}, 0, newErr(ErrHeaderParseFailed, errUnknownMethod)
	}

	version, ok := parseVersion(tokens[2])
	if !ok {
		return 0, resource.Target{}, 0, newErr(ErrHeaderParseFailed, errUnknownVersion)
	}

	target, err := resource.Parse(tokens[1], method == CONNECT)
	if err != nil {
		return 0, resource.Target{}, 0, newErr(ErrHeaderParseFailed, err)
	}

	return method, target, version, nil
}

// parseResponseLine tokenizes a server-role start line, reserving
// everything after the second space as the reason phrase.
func parseResponseLine(line string) (Version, int, string, error) {
	tokens := split.Bounded(line, ' ', 3)
	if len(tokens) != 3 {
		return 0, 0, "", newErr(ErrHeaderParseFailed, errMalformedStartLine)
	}

	version, ok := parseVersion(tokens[0])
	if !ok {
		return 0, 0, "", newErr(ErrHeaderParseFailed, errUnknownVersion)
	}

	if len(tokens[1]) != 3 {
		return 0, 0, "", newErr(ErrHeaderParseFailed, errBadStatusCode)
	}

	code, err := strconv.Atoi(tokens[1])
	if err != nil || code < 100 || code > 999 {
		return 0, 0, "", newErr(ErrHeaderParseFailed, errBadStatusCode)
	}

	return version, code, tokens[2], nil
}
