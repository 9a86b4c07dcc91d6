package restbuf

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atomx/atomx-cli/internal/endpoint"
	"github.com/atomx/atomx-cli/internal/output"
)

const sampleBuffer = `# publisher lookup
:api = https://sandbox-api.atomx.com/v3
:auth-token = stale-token

GET {{api}}/publisher/5
Authorization: Bearer {{auth-token}}
`

func TestIsRequestFile(t *testing.T) {
	assert.True(t, IsRequestFile("scratch.http"))
	assert.True(t, IsRequestFile("scratch.rest"))
	assert.True(t, IsRequestFile("SCRATCH.HTTP"))
	assert.True(t, IsRequestFile("/some/dir/api.rest"))
	assert.False(t, IsRequestFile("scratch.txt"))
	assert.False(t, IsRequestFile("scratch"))
	assert.False(t, IsRequestFile("scratch.http.bak"))
}

func TestEndpointExtraction(t *testing.T) {
	lines := []string{
		"# comment",
		":api = https://sandbox-api.atomx.com/v3",
		":auth-token = old",
	}

	d, err := Endpoint(lines)
	require.NoError(t, err)
	assert.Equal(t, endpoint.Descriptor{Domain: "sandbox-api.atomx.com", Port: 443, Version: "v3"}, d)
}

func TestEndpointExtractionSpacing(t *testing.T) {
	// The marker tolerates variable whitespace around the equals sign.
	for _, ln := range []string{
		":api = http://localhost:3000/v3",
		":api=http://localhost:3000/v3",
		":api   =   http://localhost:3000/v3",
	} {
		d, err := Endpoint([]string{ln})
		require.NoError(t, err, ln)
		assert.Equal(t, 3000, d.Port)
	}
}

func TestEndpointMissing(t *testing.T) {
	_, err := Endpoint([]string{"GET /publisher", ":auth-token = x"})
	require.Error(t, err)
	assert.Equal(t, output.CodeConfig, output.AsError(err).Code)
}

func TestEndpointInvalidURL(t *testing.T) {
	_, err := Endpoint([]string{":api = ftp://wrong.example.com/v3"})
	require.Error(t, err)

	e := output.AsError(err)
	assert.Equal(t, output.CodeConfig, e.Code)
	assert.Equal(t, "Invalid :api declaration", e.Message)
}

func TestTokenIndex(t *testing.T) {
	lines := []string{
		":api = https://api.atomx.com/v3",
		"",
		":auth-token = something",
	}

	i, err := TokenIndex(lines)
	require.NoError(t, err)
	assert.Equal(t, 2, i)
}

func TestTokenIndexBareMarker(t *testing.T) {
	// The marker matches with or without a value or equals sign.
	for _, ln := range []string{":auth-token =", ":auth-token", ":auth-token = old-token"} {
		_, err := TokenIndex([]string{ln})
		assert.NoError(t, err, ln)
	}
}

func TestTokenIndexMissing(t *testing.T) {
	_, err := TokenIndex([]string{":api = https://api.atomx.com/v3"})
	require.Error(t, err)
	assert.Equal(t, output.CodeConfig, output.AsError(err).Code)
}

func TestWriteToken(t *testing.T) {
	lines := []string{
		"# header",
		":api = https://sandbox-api.atomx.com/v3",
		":auth-token = stale",
		"GET /publisher",
	}

	require.NoError(t, WriteToken(lines, "fresh-token"))

	// Only the token line changed.
	assert.Equal(t, "# header", lines[0])
	assert.Equal(t, ":api = https://sandbox-api.atomx.com/v3", lines[1])
	assert.Equal(t, ":auth-token = fresh-token", lines[2])
	assert.Equal(t, "GET /publisher", lines[3])
}

func TestReadWriteRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scratch.http")
	require.NoError(t, os.WriteFile(path, []byte(sampleBuffer), 0644))

	lines, err := ReadLines(path)
	require.NoError(t, err)

	// Trailing newline yields no empty final element.
	assert.Equal(t, "Authorization: Bearer {{auth-token}}", lines[len(lines)-1])

	require.NoError(t, WriteToken(lines, "fresh-token"))
	require.NoError(t, WriteLines(path, lines))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	want := `# publisher lookup
:api = https://sandbox-api.atomx.com/v3
:auth-token = fresh-token

GET {{api}}/publisher/5
Authorization: Bearer {{auth-token}}
`
	assert.Equal(t, want, string(data))
}

func TestWriteLinesPreservesMode(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scratch.http")
	require.NoError(t, os.WriteFile(path, []byte(":auth-token =\n"), 0600))

	require.NoError(t, WriteLines(path, []string{":auth-token = x"}))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}
