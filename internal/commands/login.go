// Package commands implements the CLI commands.
package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/atomx/atomx-cli/internal/appctx"
	"github.com/atomx/atomx-cli/internal/output"
)

// NewLoginCmd creates the login command.
func NewLoginCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "login",
		Short: "Authenticate with the Atomx API",
		Long: `Exchange email/password credentials for a session token.

Credentials come from explicit configuration (flags, env, config file) or,
when absent, from the credential store keyed by the API domain. The token
lives only in process memory; capture it for reuse with:

  export ATOMX_TOKEN=$(atomx login -q | jq -r .token)`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app := appctx.FromContext(cmd.Context())
			if app == nil {
				return fmt.Errorf("app not initialized")
			}

			result, err := app.Client.Login(cmd.Context())
			if err != nil {
				return err
			}

			summary := result.Message
			if summary == "" {
				summary = "Logged in to " + app.Config.Domain
			}

			return app.OK(map[string]any{
				"domain": app.Config.Domain,
				"token":  result.Token,
			}, output.WithSummary(summary))
		},
	}
}

// NewLogoutCmd creates the logout command.
func NewLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Clear the session token",
		Long:  "Drop the in-process session token. Nothing is stored on disk, so this only affects the current invocation and is mainly useful before a re-login within one process.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app := appctx.FromContext(cmd.Context())
			if app == nil {
				return fmt.Errorf("app not initialized")
			}

			app.Client.Logout()

			return app.OK(map[string]string{
				"status": "logged_out",
			}, output.WithSummary("Session token cleared"))
		},
	}
}

// NewStatusCmd creates the status command.
func NewStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show session and credential status",
		RunE: func(cmd *cobra.Command, args []string) error {
			app := appctx.FromContext(cmd.Context())
			if app == nil {
				return fmt.Errorf("app not initialized")
			}

			domain := app.Config.Domain
			status := map[string]any{
				"endpoint":      app.Config.Endpoint().Base(),
				"authenticated": app.Session.Authenticated(),
			}

			credSource := "none"
			if app.Config.Email != "" && app.Config.Password != "" {
				credSource = "config"
			} else if email, _ := app.Store.Lookup(domain); email != "" {
				credSource = "credential store"
			}
			status["credentials"] = credSource

			summary := "Not authenticated"
			if app.Session.Authenticated() {
				summary = "Authenticated against " + domain
			}

			return app.OK(status, output.WithSummary(summary))
		},
	}
}

// NewTokenCmd creates the token command.
func NewTokenCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "token",
		Short: "Print the session token",
		Long: `Print the current session token to stdout for use with other tools.

The token is whatever the session holds: the ATOMX_TOKEN environment
variable when set, otherwise empty until a login in this process.

Examples:
  curl -H "Authorization: Bearer $(atomx token)" ...`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app := appctx.FromContext(cmd.Context())
			if app == nil {
				return fmt.Errorf("app not initialized")
			}

			token := app.Session.Token()
			if token == "" {
				return output.ErrConfigHint("No session token", "Set ATOMX_TOKEN or run: atomx login")
			}

			// Raw output by default for shell substitution
			if app.Flags.JSON || app.Flags.Quiet {
				return app.OK(map[string]string{"token": token})
			}

			fmt.Println(token)
			return nil
		},
	}
}
