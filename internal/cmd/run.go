package cmd

import (
	"context"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/glpikit/cli/internal/app"
)

func newRunCmd() *cobra.Command {
	var inputJSON string
	var itemsPath string
	var contextName string
	var continueOnFail bool
	var transform string
	var specLocation string

	cmd := &cobra.Command{
		Use:     "run <operation>",
		Aliases: []string{"exec", "execute"},
		Short:   "Execute an operation against a GLPI deployment",
		Long: `Execute an operation of the GLPI high-level REST API.

The operation is addressed as "METHOD /path" from the OpenAPI document.
Parameters come from --input (one inline JSON object) or --items (a JSON
array or YAML list file, "-" for stdin); each item produces one request.
An item may carry "$operation" to override the operation for itself.

With --continue-on-fail, a failing item yields an {"error": ...} record
and the batch keeps going; otherwise the first failure aborts the batch.

Examples:
  glpikit run "GET /Ticket/{id}" --spec glpi.json --context prod --input '{"id":42}'
  glpikit run "POST /Ticket" --spec glpi.json --context prod --input '{"name":"Printer broken"}'
  glpikit run "GET /Computer" --spec glpi.json --context prod --items batch.yaml --continue-on-fail
  glpikit run "GET /Ticket" --spec glpi.json --context prod --transform '{"id": id}' -F json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			spec := specOrDefault(specLocation)
			if spec == "" {
				return app.ExitResult{Code: 2, Message: "provide --spec or set a default spec in the config file", ToStderr: true}
			}

			var items []map[string]any
			switch {
			case inputJSON != "" && itemsPath != "":
				return app.ExitResult{Code: 2, Message: "--input and --items are mutually exclusive", ToStderr: true}
			case inputJSON != "":
				item, err := app.ParseInlineItem(inputJSON)
				if err != nil {
					return app.ExitResult{Code: 2, Message: err.Error(), ToStderr: true}
				}
				items = []map[string]any{item}
			case itemsPath != "":
				loaded, err := app.LoadItems(itemsPath)
				if err != nil {
					return app.ExitResult{Code: 2, Message: err.Error(), ToStderr: true}
				}
				items = loaded
			default:
				// an operation without parameters still runs once
				items = []map[string]any{{}}
			}

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
			defer stop()

			out := app.Run(ctx, app.RunInput{
				SpecLocation:   spec,
				Operation:      args[0],
				Items:          items,
				ContextName:    contextOrDefault(contextName),
				ContinueOnFail: continueOnFail,
				Transform:      transform,
			})

			code := 0
			if out.Error != nil {
				code = 1
			}
			format, outputPath := getOutputFlags(cmd)
			return app.OutputResultWithCode(out, format, outputPath, code)
		},
	}

	cmd.Flags().StringVar(&specLocation, "spec", "", "OpenAPI document path or URL")
	cmd.Flags().StringVar(&inputJSON, "input", "", "parameters for a single item as JSON")
	cmd.Flags().StringVar(&itemsPath, "items", "", "file with a batch of items (JSON array or YAML list, \"-\" for stdin)")
	cmd.Flags().StringVar(&contextName, "context", "", "named context supplying credentials")
	cmd.Flags().BoolVar(&continueOnFail, "continue-on-fail", false, "capture per-item errors as records instead of aborting")
	cmd.Flags().StringVar(&transform, "transform", "", "JSONata expression applied to each output record")

	return cmd
}
