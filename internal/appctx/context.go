// Package appctx provides application context helpers.
package appctx

import (
	"context"
	"log/slog"
	"os"
	"strconv"

	"github.com/atomx/atomx-cli/internal/api"
	"github.com/atomx/atomx-cli/internal/auth"
	"github.com/atomx/atomx-cli/internal/config"
	"github.com/atomx/atomx-cli/internal/output"
)

// contextKey is a private type for context keys.
type contextKey string

const appKey contextKey = "app"

// App holds the shared application context for all commands.
type App struct {
	Config  *config.Config
	Session *auth.Session
	Store   *auth.Store
	Client  *api.Client
	Output  *output.Writer

	// Flags holds the global flag values
	Flags GlobalFlags
}

// GlobalFlags holds values for global CLI flags.
type GlobalFlags struct {
	// Output format flags
	JSON  bool
	Quiet bool

	// Endpoint flags
	Domain  string
	Port    int
	Version string
	Email   string

	// Behavior flags
	Verbose int
}

// NewApp creates a new App with the given configuration. The session is
// seeded from ATOMX_TOKEN when set; the token still lives only in process
// memory.
func NewApp(cfg *config.Config) *App {
	session := auth.NewSession(os.Getenv("ATOMX_TOKEN"))
	store := auth.NewStore(config.GlobalConfigDir())
	client := api.NewClient(cfg, session, store)

	format := output.FormatAuto
	switch cfg.Format {
	case "json":
		format = output.FormatJSON
	case "quiet":
		format = output.FormatQuiet
	}

	return &App{
		Config:  cfg,
		Session: session,
		Store:   store,
		Client:  client,
		Output: output.New(output.Options{
			Format: format,
			Writer: os.Stdout,
		}),
	}
}

// ApplyFlags applies global flag values to the app configuration.
func (a *App) ApplyFlags() {
	if a.Flags.Quiet {
		a.Output = output.New(output.Options{
			Format: output.FormatQuiet,
			Writer: os.Stdout,
		})
	} else if a.Flags.JSON {
		a.Output = output.New(output.Options{
			Format: output.FormatJSON,
			Writer: os.Stdout,
		})
	}

	// ATOMX_DEBUG stacks with -v; whichever asks for more wins
	verboseLevel := a.Flags.Verbose
	if debugEnv := os.Getenv("ATOMX_DEBUG"); debugEnv != "" {
		if level, err := strconv.Atoi(debugEnv); err == nil {
			if level > verboseLevel {
				verboseLevel = level
			}
		} else if debugEnv == "true" {
			verboseLevel = 1
		}
	}

	if verboseLevel > 0 {
		debugLogger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		}))
		a.Client.SetLogger(debugLogger)
	}
}

// OK outputs a success response.
func (a *App) OK(data any, opts ...output.ResponseOption) error {
	return a.Output.OK(data, opts...)
}

// Err outputs an error response.
func (a *App) Err(err error) error {
	return a.Output.Err(err)
}

// WithApp stores the app in the context.
func WithApp(ctx context.Context, app *App) context.Context {
	return context.WithValue(ctx, appKey, app)
}

// FromContext retrieves the app from the context.
func FromContext(ctx context.Context) *App {
	app, _ := ctx.Value(appKey).(*App)
	return app
}
