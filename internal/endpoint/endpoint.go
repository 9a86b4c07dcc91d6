// Package endpoint builds and parses Atomx API endpoint URLs.
package endpoint

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// Descriptor identifies a single API instance. It is recomputed from live
// configuration for every request, never cached.
type Descriptor struct {
	Domain  string
	Port    int
	Version string
}

// Scheme returns the URL scheme for the descriptor's port. Only port 443
// selects https; every other port is addressed as http, TLS or not. Deployed
// :api lines and configs rely on this mapping, so changing it would break
// them. A TLS endpoint on a non-443 port is not reachable.
func (d Descriptor) Scheme() string {
	if d.Port == 443 {
		return "https"
	}
	return "http"
}

// hostport returns domain[:port]. The default ports 443 and 80 are omitted.
func (d Descriptor) hostport() string {
	if d.Port == 443 || d.Port == 80 {
		return d.Domain
	}
	return d.Domain + ":" + strconv.Itoa(d.Port)
}

// Base returns the endpoint root, e.g. "https://api.atomx.com/v3".
func (d Descriptor) Base() string {
	return d.Scheme() + "://" + d.hostport() + "/" + d.Version
}

// URL composes scheme://domain[:port]/version/model[/seg1/seg2...].
// Slug segments are joined with "/"; no trailing separator when absent.
func (d Descriptor) URL(model string, slug ...string) string {
	var b strings.Builder
	b.WriteString(d.Base())
	b.WriteByte('/')
	b.WriteString(model)
	for _, seg := range slug {
		b.WriteByte('/')
		b.WriteString(seg)
	}
	return b.String()
}

// Parse splits a raw endpoint URL such as "https://sandbox-api.atomx.com/v3"
// into a Descriptor. An explicit :port suffix wins; otherwise https implies
// 443 and http implies 80. The first path segment is the API version.
func Parse(raw string) (Descriptor, error) {
	raw = strings.TrimSpace(raw)
	u, err := url.Parse(raw)
	if err != nil {
		return Descriptor{}, fmt.Errorf("invalid endpoint URL %q: %w", raw, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return Descriptor{}, fmt.Errorf("endpoint URL %q: unsupported scheme %q", raw, u.Scheme)
	}
	if u.Hostname() == "" {
		return Descriptor{}, fmt.Errorf("endpoint URL %q has no host", raw)
	}

	port := 80
	if u.Scheme == "https" {
		port = 443
	}
	if p := u.Port(); p != "" {
		n, err := strconv.Atoi(p)
		if err != nil {
			return Descriptor{}, fmt.Errorf("endpoint URL %q: invalid port %q", raw, p)
		}
		port = n
	}

	version := ""
	if segs := strings.Split(strings.Trim(u.Path, "/"), "/"); len(segs) > 0 {
		version = segs[0]
	}
	if version == "" {
		return Descriptor{}, fmt.Errorf("endpoint URL %q has no API version segment", raw)
	}

	return Descriptor{Domain: u.Hostname(), Port: port, Version: version}, nil
}
