package appctx

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atomx/atomx-cli/internal/config"
)

func TestNewApp(t *testing.T) {
	t.Setenv("ATOMX_NO_KEYRING", "1")
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("ATOMX_TOKEN", "")

	app := NewApp(config.Default())

	require.NotNil(t, app.Config)
	require.NotNil(t, app.Session)
	require.NotNil(t, app.Store)
	require.NotNil(t, app.Client)
	require.NotNil(t, app.Output)
	assert.False(t, app.Session.Authenticated())
}

func TestNewAppSeedsTokenFromEnv(t *testing.T) {
	t.Setenv("ATOMX_NO_KEYRING", "1")
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("ATOMX_TOKEN", "env-token")

	app := NewApp(config.Default())

	assert.True(t, app.Session.Authenticated())
	assert.Equal(t, "env-token", app.Session.Token())
}

func TestWithAppRoundTrip(t *testing.T) {
	t.Setenv("ATOMX_NO_KEYRING", "1")
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	app := NewApp(config.Default())
	ctx := WithApp(context.Background(), app)

	assert.Same(t, app, FromContext(ctx))
	assert.Nil(t, FromContext(context.Background()))
}
