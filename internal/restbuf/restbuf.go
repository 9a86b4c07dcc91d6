// Package restbuf reads and rewrites restclient-style request scratch files.
//
// A scratch file declares its target API and token on two marker lines:
//
//	:api = https://sandbox-api.atomx.com/v3
//	:auth-token = <token>
//
// The adapter reads the first declaration and rewrites the second in place,
// leaving every other line untouched.
package restbuf

import (
	"context"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/gofrs/flock"

	"github.com/atomx/atomx-cli/internal/endpoint"
	"github.com/atomx/atomx-cli/internal/output"
)

var (
	apiLine   = regexp.MustCompile(`^:api\s*=\s*(.+)$`)
	tokenLine = regexp.MustCompile(`^:auth-token\s*=?\s*(.*)$`)
)

// IsRequestFile reports whether path looks like a request scratch file.
// This is the precondition check for every buffer operation.
func IsRequestFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".http", ".rest":
		return true
	}
	return false
}

// Endpoint locates the :api declaration and parses the remainder of the
// line into an endpoint descriptor.
func Endpoint(lines []string) (endpoint.Descriptor, error) {
	for _, ln := range lines {
		if m := apiLine.FindStringSubmatch(ln); m != nil {
			d, err := endpoint.Parse(m[1])
			if err != nil {
				return endpoint.Descriptor{}, output.ErrConfigHint("Invalid :api declaration", err.Error())
			}
			return d, nil
		}
	}
	return endpoint.Descriptor{}, output.ErrConfig("No :api declaration in buffer")
}

// TokenIndex returns the index of the :auth-token declaration line.
// Callers check this before any network call so a malformed buffer fails
// without side effects.
func TokenIndex(lines []string) (int, error) {
	for i, ln := range lines {
		if tokenLine.MatchString(ln) {
			return i, nil
		}
	}
	return 0, output.ErrConfig("No :auth-token declaration in buffer")
}

// WriteToken replaces everything after the :auth-token marker with the new
// token. All other lines are left as-is.
func WriteToken(lines []string, token string) error {
	i, err := TokenIndex(lines)
	if err != nil {
		return err
	}
	lines[i] = ":auth-token = " + token
	return nil
}

// ReadLines reads a scratch file into lines. A trailing newline produces no
// empty final element; WriteLines restores it.
func ReadLines(path string) ([]string, error) {
	data, err := os.ReadFile(path) //nolint:gosec // G304: Path is user-supplied by design
	if err != nil {
		return nil, err
	}
	text := strings.TrimSuffix(string(data), "\n")
	return strings.Split(text, "\n"), nil
}

// lockTimeout bounds how long a write waits for a concurrent editor save.
// On timeout the write proceeds unlocked rather than hanging the CLI.
const lockTimeout = 100 * time.Millisecond

// WriteLines writes lines back to the scratch file, preserving its mode.
// The write is guarded by an advisory lock on the file so two concurrent
// rewrites do not interleave.
func WriteLines(path string, lines []string) error {
	mode := os.FileMode(0644)
	if info, err := os.Stat(path); err == nil {
		mode = info.Mode().Perm()
	}

	fl := flock.New(path)
	ctx, cancel := context.WithTimeout(context.Background(), lockTimeout)
	defer cancel()
	if locked, err := fl.TryLockContext(ctx, 10*time.Millisecond); err == nil && locked {
		defer func() { _ = fl.Unlock() }()
	}

	data := strings.Join(lines, "\n") + "\n"
	return os.WriteFile(path, []byte(data), mode)
}
