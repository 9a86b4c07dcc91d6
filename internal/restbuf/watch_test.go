package restbuf

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atomx/atomx-cli/internal/endpoint"
)

func TestWatchReportsEndpointChange(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "scratch.http")
	require.NoError(t, os.WriteFile(path, []byte(
		":api = https://api.atomx.com/v3\n:auth-token =\n"), 0644))

	updates := make(chan endpoint.Descriptor, 1)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- Watch(ctx, path,
			func(d endpoint.Descriptor) error {
				updates <- d
				return nil
			},
			nil,
		)
	}()

	// Give the watcher time to register before the first write.
	time.Sleep(100 * time.Millisecond)
	require.NoError(t, os.WriteFile(path, []byte(
		":api = https://sandbox-api.atomx.com/v3\n:auth-token =\n"), 0644))

	select {
	case d := <-updates:
		assert.Equal(t, "sandbox-api.atomx.com", d.Domain)
	case <-ctx.Done():
		t.Fatal("no update before timeout")
	}

	cancel()
	err := <-done
	assert.True(t, errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded))
}

func TestWatchIgnoresUnchangedEndpoint(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "scratch.http")
	content := []byte(":api = https://api.atomx.com/v3\n:auth-token =\n")
	require.NoError(t, os.WriteFile(path, content, 0644))

	updates := make(chan endpoint.Descriptor, 4)
	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- Watch(ctx, path,
			func(d endpoint.Descriptor) error {
				updates <- d
				return nil
			},
			nil,
		)
	}()

	time.Sleep(100 * time.Millisecond)
	// Rewriting the same endpoint must not trigger an update.
	require.NoError(t, os.WriteFile(path, content, 0644))

	<-done
	assert.Empty(t, updates)
}
