// Package resource implements the minimal request-target / URL tokenizer
// httpconn treats as an external collaborator: it is opaque to the engine
// beyond host, port and query.
package resource

import "strings"

// Target is the parsed form of an HTTP/1.x request-target. Only Host, Port
// and Query are meaningful to httpconn itself; Path and Fragment are
// carried through for the embedder's own routing/proxying policy, which is
// explicitly out of scope here.
type Target struct {
	// Raw is the request-target exactly as it appeared on the wire.
	Raw string
	// Authority form (used by CONNECT): host[:port], no scheme or path.
	IsAuthority bool
	Host        string
	Port        string
	Path        string
	Query       string
	Fragment    string
}

// Parse tokenizes an HTTP/1.x request-target. It accepts the three forms the
// engine may encounter: origin-form ("/a/b?c=d"), absolute-form
// ("http://host:port/a/b"), and authority-form ("host:port", used by
// CONNECT).
func Parse(raw string, isConnect bool) (Target, error) {
	t := Target{Raw: raw}

	if isConnect {
		t.IsAuthority = true
		host, port, err := splitHostPort(raw)
		if err != nil {
			return Target{}, err
		}

		t.Host, t.Port = host, port
		return t, nil
	}

	rest := raw
	if strings.HasPrefix(lower(rest), "http://") || strings.HasPrefix(lower(rest), "https://") {
		schemeEnd := strings.Index(rest, "://") + 3
		rest = rest[schemeEnd:]

		slash := strings.IndexByte(rest, '/')
		authority := rest
		if slash != -1 {
			authority = rest[:slash]
			rest = rest[slash:]
		} else {
			rest = "/"
		}

		host, port, err := splitHostPort(authority)
		if err != nil {
			return Target{}, err
		}

		t.Host, t.Port = host, port
	}

	if frag := strings.IndexByte(rest, '#'); frag != -1 {
		t.Fragment = rest[frag+1:]
		rest = rest[:frag]
	}

	if q := strings.IndexByte(rest, '?'); q != -1 {
		t.Query = rest[q+1:]
		rest = rest[:q]
	}

	if rest == "" {
		rest = "/"
	}

	t.Path = rest

	return t, nil
}

func splitHostPort(authority string) (host, port string, err error) {
	if authority == "" {
		return "", "", errEmptyAuthority
	}

	if colon := strings.LastIndexByte(authority, ':'); colon != -1 {
		return authority[:colon], authority[colon+1:], nil
	}

	return authority, "", nil
}

func lower(s string) string {
	return strings.ToLower(s)
}
