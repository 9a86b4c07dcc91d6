package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/atomx/atomx-cli/internal/appctx"
	"github.com/atomx/atomx-cli/internal/config"
	"github.com/atomx/atomx-cli/internal/output"
)

// NewConfigCmd creates the config command group.
func NewConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage configuration",
		Long:  "Show the resolved configuration or edit the global config file at " + config.GlobalConfigPath() + ".",
	}

	cmd.AddCommand(
		newConfigShowCmd(),
		newConfigSetCmd(),
		newConfigUnsetCmd(),
	)

	return cmd
}

func newConfigShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the resolved configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			app := appctx.FromContext(cmd.Context())
			if app == nil {
				return fmt.Errorf("app not initialized")
			}

			cfg := app.Config
			password := ""
			if cfg.Password != "" {
				password = "(set)"
			}

			return app.OK(map[string]any{
				"domain":   cfg.Domain,
				"port":     cfg.Port,
				"version":  cfg.Version,
				"email":    cfg.Email,
				"password": password,
				"format":   cfg.Format,
				"endpoint": cfg.Endpoint().Base(),
				"sources":  cfg.Sources,
				"file":     config.GlobalConfigPath(),
			}, output.WithSummary("Endpoint "+cfg.Endpoint().Base()))
		},
	}
}

func newConfigSetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a key in the global config file",
		Long:  "Set a key in the global config file. Keys: domain, port, version, email, password, format.",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			app := appctx.FromContext(cmd.Context())
			if app == nil {
				return fmt.Errorf("app not initialized")
			}

			key, value := args[0], args[1]
			if err := config.SetKey(key, value); err != nil {
				return output.ErrUsage(err.Error())
			}

			shown := value
			if key == "password" {
				shown = "(set)"
			}

			return app.OK(map[string]string{
				"key":   key,
				"value": shown,
			}, output.WithSummary(fmt.Sprintf("Set %s in %s", key, config.GlobalConfigPath())))
		},
	}
}

func newConfigUnsetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "unset <key>",
		Short: "Remove a key from the global config file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app := appctx.FromContext(cmd.Context())
			if app == nil {
				return fmt.Errorf("app not initialized")
			}

			key := args[0]
			if err := config.UnsetKey(key); err != nil {
				return output.ErrUsage(err.Error())
			}

			return app.OK(map[string]string{
				"key":    key,
				"status": "unset",
			}, output.WithSummary(fmt.Sprintf("Unset %s in %s", key, config.GlobalConfigPath())))
		},
	}
}
