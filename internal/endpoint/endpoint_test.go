package endpoint

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScheme(t *testing.T) {
	tests := []struct {
		name string
		port int
		want string
	}{
		{"standard https port", 443, "https"},
		{"plain http port", 80, "http"},
		{"alternate port is http", 8080, "http"},
		{"alternate tls-looking port is still http", 8443, "http"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := Descriptor{Domain: "api.atomx.com", Port: tt.port, Version: "v3"}
			assert.Equal(t, tt.want, d.Scheme())
		})
	}
}

func TestBase(t *testing.T) {
	tests := []struct {
		name string
		d    Descriptor
		want string
	}{
		{
			"default port omitted",
			Descriptor{Domain: "api.atomx.com", Port: 443, Version: "v3"},
			"https://api.atomx.com/v3",
		},
		{
			"port 80 omitted",
			Descriptor{Domain: "api.atomx.com", Port: 80, Version: "v3"},
			"http://api.atomx.com/v3",
		},
		{
			"other port kept",
			Descriptor{Domain: "localhost", Port: 3000, Version: "v3"},
			"http://localhost:3000/v3",
		},
		{
			"version segment verbatim",
			Descriptor{Domain: "sandbox-api.atomx.com", Port: 443, Version: "v4"},
			"https://sandbox-api.atomx.com/v4",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.d.Base())
		})
	}
}

func TestURL(t *testing.T) {
	d := Descriptor{Domain: "api.atomx.com", Port: 443, Version: "v3"}

	assert.Equal(t, "https://api.atomx.com/v3/publisher", d.URL("publisher"))
	assert.Equal(t, "https://api.atomx.com/v3/publisher/5", d.URL("publisher", "5"))
	assert.Equal(t, "https://api.atomx.com/v3/publisher/5/stats", d.URL("publisher", "5", "stats"))
}

func TestURLNoTrailingSlash(t *testing.T) {
	d := Descriptor{Domain: "api.atomx.com", Port: 443, Version: "v3"}
	url := d.URL("network")
	assert.NotEqual(t, byte('/'), url[len(url)-1])
}

func TestParse(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want Descriptor
	}{
		{
			"https implies 443",
			"https://sandbox-api.atomx.com/v3",
			Descriptor{Domain: "sandbox-api.atomx.com", Port: 443, Version: "v3"},
		},
		{
			"http implies 80",
			"http://api.atomx.com/v3",
			Descriptor{Domain: "api.atomx.com", Port: 80, Version: "v3"},
		},
		{
			"explicit port wins",
			"http://localhost:3000/v3",
			Descriptor{Domain: "localhost", Port: 3000, Version: "v3"},
		},
		{
			"explicit port on https",
			"https://api.atomx.com:8443/v3",
			Descriptor{Domain: "api.atomx.com", Port: 8443, Version: "v3"},
		},
		{
			"trailing slash tolerated",
			"https://api.atomx.com/v3/",
			Descriptor{Domain: "api.atomx.com", Port: 443, Version: "v3"},
		},
		{
			"surrounding whitespace trimmed",
			"  https://api.atomx.com/v3  ",
			Descriptor{Domain: "api.atomx.com", Port: 443, Version: "v3"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.raw)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"unsupported scheme", "ftp://api.atomx.com/v3"},
		{"no scheme", "api.atomx.com/v3"},
		{"no host", "https:///v3"},
		{"no version segment", "https://api.atomx.com"},
		{"empty version segment", "https://api.atomx.com/"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.raw)
			assert.Error(t, err)
		})
	}
}

func TestParseRoundTrip(t *testing.T) {
	// A parsed Base() must reproduce the canonical form of its input.
	for _, raw := range []string{
		"https://api.atomx.com/v3",
		"http://localhost:3000/v3",
		"http://api.atomx.com/v2",
	} {
		d, err := Parse(raw)
		require.NoError(t, err)
		assert.Equal(t, raw, d.Base())
	}
}
