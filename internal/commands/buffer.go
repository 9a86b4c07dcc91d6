package commands

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/atomx/atomx-cli/internal/appctx"
	"github.com/atomx/atomx-cli/internal/endpoint"
	"github.com/atomx/atomx-cli/internal/output"
	"github.com/atomx/atomx-cli/internal/restbuf"
)

// NewBufferCmd creates the buffer command group for request scratch files.
func NewBufferCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "buffer",
		Short: "Work with request scratch files",
		Long: `Read the :api declaration of a restclient-style scratch file
(.http/.rest), log in against that endpoint, and write the fresh token back
into the file's :auth-token declaration.`,
	}

	cmd.AddCommand(
		newBufferUpdateCmd(),
		newBufferWatchCmd(),
	)

	return cmd
}

func newBufferUpdateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "update <file>",
		Short: "Refresh the :auth-token declaration",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app := appctx.FromContext(cmd.Context())
			if app == nil {
				return fmt.Errorf("app not initialized")
			}

			path := args[0]
			result, err := updateBufferToken(cmd.Context(), app, path)
			if err != nil {
				return err
			}

			summary := result.Message
			if summary == "" {
				summary = "Token written to " + path
			}

			return app.OK(map[string]string{
				"file":     path,
				"endpoint": app.Config.Endpoint().Base(),
			}, output.WithSummary(summary))
		},
	}
}

// updateBufferToken runs the full update: precondition checks, endpoint
// extraction, login against the extracted endpoint, token rewrite. Both
// marker lines are verified before any network call.
func updateBufferToken(ctx context.Context, app *appctx.App, path string) (*loginOutcome, error) {
	if !restbuf.IsRequestFile(path) {
		return nil, output.ErrConfigHint(
			fmt.Sprintf("%s is not a request scratch file", path),
			"Expected a .http or .rest file",
		)
	}

	lines, err := restbuf.ReadLines(path)
	if err != nil {
		return nil, output.ErrConfigHint("Cannot read buffer", err.Error())
	}

	desc, err := restbuf.Endpoint(lines)
	if err != nil {
		return nil, err
	}
	if _, err := restbuf.TokenIndex(lines); err != nil {
		return nil, err
	}

	app.Config.ApplyEndpoint(desc)

	result, err := app.Client.Login(ctx)
	if err != nil {
		return nil, err
	}

	if err := restbuf.WriteToken(lines, result.Token); err != nil {
		return nil, err
	}
	if err := restbuf.WriteLines(path, lines); err != nil {
		return nil, err
	}

	return &loginOutcome{Message: result.Message}, nil
}

type loginOutcome struct {
	Message string
}

func newBufferWatchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "watch <file>",
		Short: "Re-login whenever the :api declaration changes",
		Long:  "Watch a scratch file and rewrite its :auth-token declaration every time the declared :api endpoint changes. Runs until interrupted.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app := appctx.FromContext(cmd.Context())
			if app == nil {
				return fmt.Errorf("app not initialized")
			}

			path := args[0]
			if !restbuf.IsRequestFile(path) {
				return output.ErrConfigHint(
					fmt.Sprintf("%s is not a request scratch file", path),
					"Expected a .http or .rest file",
				)
			}
			if _, err := os.Stat(path); err != nil {
				return output.ErrConfigHint("Cannot watch buffer", err.Error())
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()

			fmt.Fprintf(os.Stderr, "Watching %s (interrupt to stop)\n", path)

			err := restbuf.Watch(ctx, path,
				func(d endpoint.Descriptor) error {
					// The watch context cancels an in-flight login on interrupt.
					if _, err := updateBufferToken(ctx, app, path); err != nil {
						return err
					}
					fmt.Fprintf(os.Stderr, "Token refreshed for %s\n", d.Base())
					return nil
				},
				func(err error) {
					fmt.Fprintf(os.Stderr, "Update failed: %v\n", err)
				},
			)
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		},
	}
}
