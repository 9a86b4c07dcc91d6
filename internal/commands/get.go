package commands

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/itchyny/gojq"
	"github.com/spf13/cobra"

	"github.com/atomx/atomx-cli/internal/appctx"
	"github.com/atomx/atomx-cli/internal/output"
)

// NewGetCmd creates the get command for authenticated resource fetches.
func NewGetCmd() *cobra.Command {
	var jqExpr string

	cmd := &cobra.Command{
		Use:   "get <model> [slug...]",
		Short: "Fetch a resource",
		Long: `Fetch a model from the API and print its payload.

Extra arguments are path segments appended after the model name:

  atomx get publisher           GET /v3/publisher
  atomx get publisher 5 stats   GET /v3/publisher/5/stats

When the session holds no token, a login is attempted first if credentials
resolve; otherwise the request is sent unauthenticated and the server
decides.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app := appctx.FromContext(cmd.Context())
			if app == nil {
				return fmt.Errorf("app not initialized")
			}

			model, slug := args[0], args[1:]

			if !app.Session.Authenticated() {
				if _, err := app.Client.Login(cmd.Context()); err != nil {
					var oe *output.Error
					if errors.As(err, &oe) && oe.Code == output.CodeConfig {
						// No credentials anywhere: send the request bare and
						// let the server reject it if it wants to.
					} else {
						return err
					}
				}
			}

			payload, err := app.Client.Get(cmd.Context(), model, slug...)
			if err != nil {
				return err
			}

			var data any = payload
			if jqExpr != "" {
				data, err = applyJQ(jqExpr, payload)
				if err != nil {
					return err
				}
			}

			summary := fmt.Sprintf("%s: %s", model, payloadSummary(payload))
			return app.OK(data, output.WithSummary(summary))
		},
	}

	cmd.Flags().StringVar(&jqExpr, "jq", "", "Filter the payload with a jq expression")

	return cmd
}

// applyJQ runs a jq expression over the payload. A single result is
// returned bare; multiple results come back as an array.
func applyJQ(expr string, payload json.RawMessage) (any, error) {
	q, err := gojq.Parse(expr)
	if err != nil {
		return nil, output.ErrUsageHint("Invalid jq expression", err.Error())
	}

	var in any
	if err := json.Unmarshal(payload, &in); err != nil {
		return nil, fmt.Errorf("failed to parse payload: %w", err)
	}

	var results []any
	iter := q.Run(in)
	for {
		v, ok := iter.Next()
		if !ok {
			break
		}
		if evalErr, isErr := v.(error); isErr {
			return nil, output.ErrUsageHint("jq evaluation failed", evalErr.Error())
		}
		results = append(results, v)
	}

	if len(results) == 1 {
		return results[0], nil
	}
	return results, nil
}

// payloadSummary describes the unwrapped payload in one short phrase.
func payloadSummary(payload json.RawMessage) string {
	var arr []json.RawMessage
	if err := json.Unmarshal(payload, &arr); err == nil {
		if len(arr) == 1 {
			return "1 item"
		}
		return fmt.Sprintf("%d items", len(arr))
	}

	var obj map[string]any
	if err := json.Unmarshal(payload, &obj); err == nil {
		for _, key := range []string{"name", "title"} {
			if v, ok := obj[key].(string); ok && v != "" {
				return v
			}
		}
		return "1 item"
	}

	return "payload"
}
