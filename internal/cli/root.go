// Package cli wires the root cobra command.
package cli

import (
	"errors"
	"os"
	"regexp"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/atomx/atomx-cli/internal/appctx"
	"github.com/atomx/atomx-cli/internal/commands"
	"github.com/atomx/atomx-cli/internal/config"
	"github.com/atomx/atomx-cli/internal/output"
	"github.com/atomx/atomx-cli/internal/version"
)

// NewRootCmd creates the root cobra command with all subcommands attached.
func NewRootCmd() *cobra.Command {
	var flags appctx.GlobalFlags

	cmd := &cobra.Command{
		Use:           "atomx",
		Short:         "Command-line client for the Atomx API",
		Long:          "atomx is a CLI client for the Atomx REST API: login, token handling, and authenticated resource fetches.",
		Version:       version.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Skip setup for help and version commands
			if cmd.Name() == "help" || cmd.Name() == "version" {
				return nil
			}

			cfg, err := config.Load(config.FlagOverrides{
				Domain:  flags.Domain,
				Port:    flags.Port,
				Version: flags.Version,
				Email:   flags.Email,
			})
			if err != nil {
				return err
			}

			app := appctx.NewApp(cfg)
			app.Flags = flags
			app.ApplyFlags()

			cmd.SetContext(appctx.WithApp(cmd.Context(), app))
			return nil
		},
	}

	bindGlobalFlags(cmd.PersistentFlags(), &flags)

	cmd.AddCommand(
		commands.NewLoginCmd(),
		commands.NewLogoutCmd(),
		commands.NewStatusCmd(),
		commands.NewTokenCmd(),
		commands.NewGetCmd(),
		commands.NewBufferCmd(),
		commands.NewCredsCmd(),
		commands.NewConfigCmd(),
		commands.NewVersionCmd(),
	)

	return cmd
}

// bindGlobalFlags registers the persistent flags on the root flag set.
func bindGlobalFlags(fs *pflag.FlagSet, flags *appctx.GlobalFlags) {
	fs.SetInterspersed(true)

	// Output format flags
	fs.BoolVarP(&flags.JSON, "json", "j", false, "Output as JSON envelope")
	fs.BoolVarP(&flags.Quiet, "quiet", "q", false, "Output data only, no envelope")

	// Endpoint flags
	fs.StringVarP(&flags.Domain, "domain", "d", "", "API domain (default "+config.DefaultDomain+")")
	fs.IntVar(&flags.Port, "port", 0, "API port (default 443)")
	fs.StringVar(&flags.Version, "api-version", "", "API version (default "+config.DefaultVersion+")")
	fs.StringVar(&flags.Email, "email", "", "Login email (overrides config)")

	// Behavior flags
	fs.CountVarP(&flags.Verbose, "verbose", "v", "Verbose output (request tracing)")
}

// transformCobraError maps Cobra's own argument and flag errors onto the
// usage error class so they exit with the usage code. Structured errors
// pass through untouched.
func transformCobraError(err error) error {
	var oe *output.Error
	if errors.As(err, &oe) {
		return err
	}

	msg := err.Error()

	if flag, ok := strings.CutPrefix(msg, "flag needs an argument: "); ok {
		return output.ErrUsage(flag + " requires a value")
	}

	if flag, ok := strings.CutPrefix(msg, "unknown flag: "); ok {
		return output.ErrUsage("Unknown option: " + flag)
	}

	if strings.HasPrefix(msg, "unknown shorthand flag: ") {
		if m := shorthandFlagRe.FindStringSubmatch(msg); len(m) > 1 {
			return output.ErrUsage("Unknown option: " + m[1])
		}
		return output.ErrUsage(msg)
	}

	if strings.HasPrefix(msg, "unknown command ") ||
		strings.Contains(msg, "invalid argument") ||
		strings.Contains(msg, "arg(s)") ||
		strings.HasPrefix(msg, "required flag(s) ") {
		return output.ErrUsage(msg)
	}

	return err
}

var shorthandFlagRe = regexp.MustCompile(`unknown shorthand flag: '.' in (-\w)`)

// Execute runs the root command.
func Execute() {
	cmd := NewRootCmd()

	// Use ExecuteC to get the executed command (for correct context access)
	executedCmd, err := cmd.ExecuteC()
	if err != nil {
		err = transformCobraError(err)
		apiErr := output.AsError(err)

		if app := appctx.FromContext(executedCmd.Context()); app != nil {
			_ = app.Err(err)
		} else {
			// App not available, e.g. during setup
			writer := output.New(output.DefaultOptions())
			_ = writer.Err(err)
		}

		os.Exit(apiErr.ExitCode())
	}
}
