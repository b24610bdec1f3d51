package httpconn

import "log"

// Logger is the minimal sink for conditions that are logged but never
// surfaced as an error (unknown Transfer-Encoding tokens, malformed
// Content-Length values).
type Logger interface {
	Printf(format string, args ...any)
}

// stdLogger adapts the standard log package to the Logger interface; New
// always installs it, and SetLogger replaces it.
type stdLogger struct{}

func (stdLogger) Printf(format string, args ...any) {
	log.Printf(format, args...)
}
