package httpconn

import "time"

// Config holds the process-wide, static configuration constants a
// Connection needs. It follows a Default() builder plus a Fill() that
// backstops a partially-specified Config with defaults field by field, so
// embedders can specify only the knobs they care about.
type Config struct {
	// MaxWriteBacklog is the outbound buffer length past which a Connection
	// reports choked from WriteBuf. Default 50 KiB.
	MaxWriteBacklog int
	// IdleClientTimeout bounds how long a ClientEndpoint connection may sit
	// in IDLE awaiting a reused request. Default 120s.
	IdleClientTimeout time.Duration
	// IdleServerTimeout bounds how long a ServerEndpoint connection may sit
	// in IDLE awaiting a reused response. Default 120s.
	IdleServerTimeout time.Duration
	// ActiveReadTimeout bounds how long the connection may sit between
	// READ_FIRSTLINE and READ_BODY without forward progress, giving active
	// messages their own timeout instead of none at all. Default 30s.
	ActiveReadTimeout time.Duration
	// ReadBufferSize is the initial capacity of the Connection's scratch
	// body buffer (OnReadBody deliveries). Default 4 KiB.
	ReadBufferSize int
}

// Default returns the baseline constants a Connection runs with.
func Default() Config {
	return Config{
		MaxWriteBacklog:   50 * 1024,
		IdleClientTimeout: 120 * time.Second,
		IdleServerTimeout: 120 * time.Second,
		ActiveReadTimeout: 30 * time.Second,
		ReadBufferSize:    4096,
	}
}

// Fill backstops any zero-valued field of cfg with the corresponding
// Default() value and returns the result; it never mutates cfg.
func Fill(cfg Config) Config {
	d := Default()

	cfg.MaxWriteBacklog = intOrDefault(cfg.MaxWriteBacklog, d.MaxWriteBacklog)
	cfg.IdleClientTimeout = durationOrDefault(cfg.IdleClientTimeout, d.IdleClientTimeout)
	cfg.IdleServerTimeout = durationOrDefault(cfg.IdleServerTimeout, d.IdleServerTimeout)
	cfg.ActiveReadTimeout = durationOrDefault(cfg.ActiveReadTimeout, d.ActiveReadTimeout)
	cfg.ReadBufferSize = intOrDefault(cfg.ReadBufferSize, d.ReadBufferSize)

	return cfg
}

func intOrDefault(v, def int) int {
	if v == 0 {
		return def
	}

	return v
}

func durationOrDefault(v, def time.Duration) time.Duration {
	if v == 0 {
		return def
	}

	return v
}
