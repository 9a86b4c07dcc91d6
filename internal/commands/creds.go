package commands

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/atomx/atomx-cli/internal/appctx"
	"github.com/atomx/atomx-cli/internal/auth"
	"github.com/atomx/atomx-cli/internal/output"
)

// NewCredsCmd creates the creds command group for the credential store.
func NewCredsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "creds",
		Short: "Manage stored credentials",
		Long:  "Manage email/password entries in the system keyring, keyed by API domain. Login falls back to these when no explicit credentials are configured.",
	}

	cmd.AddCommand(
		newCredsSetCmd(),
		newCredsShowCmd(),
		newCredsRmCmd(),
	)

	return cmd
}

func newCredsSetCmd() *cobra.Command {
	var email, password string

	cmd := &cobra.Command{
		Use:   "set",
		Short: "Store credentials for a domain",
		RunE: func(cmd *cobra.Command, args []string) error {
			app := appctx.FromContext(cmd.Context())
			if app == nil {
				return fmt.Errorf("app not initialized")
			}

			if email == "" {
				email = app.Config.Email
			}
			if email == "" {
				return output.ErrUsage("--set-email is required")
			}
			if password == "" {
				var err error
				password, err = readPassword()
				if err != nil {
					return err
				}
			}
			if password == "" {
				return output.ErrUsage("Password must not be empty")
			}

			domain := app.Config.Domain
			if err := app.Store.Save(domain, &auth.Credentials{Email: email, Password: password}); err != nil {
				return err
			}

			backend := "file"
			if app.Store.UsingKeyring() {
				backend = "keyring"
			}

			return app.OK(map[string]string{
				"domain":  domain,
				"email":   email,
				"backend": backend,
			}, output.WithSummary("Credentials stored for "+domain))
		},
	}

	cmd.Flags().StringVar(&email, "set-email", "", "Login email to store")
	cmd.Flags().StringVar(&password, "password", "", "Password to store (prompted when omitted)")

	return cmd
}

// readPassword prompts on stderr and reads one line from stdin. Kept plain
// on purpose: no terminal echo handling, so it also works when piped.
func readPassword() (string, error) {
	fmt.Fprint(os.Stderr, "Password: ")
	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func newCredsShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show stored credentials for the current domain",
		RunE: func(cmd *cobra.Command, args []string) error {
			app := appctx.FromContext(cmd.Context())
			if app == nil {
				return fmt.Errorf("app not initialized")
			}

			domain := app.Config.Domain
			creds, err := app.Store.Load(domain)
			if err != nil {
				return output.ErrConfigHint(
					"No stored credentials for "+domain,
					"Run: atomx creds set --set-email <email>",
				)
			}

			return app.OK(map[string]string{
				"domain":   domain,
				"email":    creds.Email,
				"password": strings.Repeat("*", len(creds.Password)),
			}, output.WithSummary("Credentials for "+domain))
		},
	}
}

func newCredsRmCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "rm",
		Aliases: []string{"remove", "delete"},
		Short:   "Remove stored credentials for the current domain",
		RunE: func(cmd *cobra.Command, args []string) error {
			app := appctx.FromContext(cmd.Context())
			if app == nil {
				return fmt.Errorf("app not initialized")
			}

			domain := app.Config.Domain
			if err := app.Store.Delete(domain); err != nil {
				return err
			}

			return app.OK(map[string]string{
				"domain": domain,
				"status": "removed",
			}, output.WithSummary("Credentials removed for "+domain))
		},
	}
}
