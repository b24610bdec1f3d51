package httpconn

import "errors"

var (
	errMalformedStartLine = errors.New("httpconn: start line does not tokenize into the expected number of fields")
	errUnknownMethod      = errors.New("httpconn: unrecognized request method")
	errUnknownVersion     = errors.New("httpconn: unsupported or malformed HTTP version token")
	errBadStatusCode      = errors.New("httpconn: status code is not a three-digit integer in [100, 999]")
	errBadContentLength   = errors.New("httpconn: Content-Length is not a non-negative integer")
)
