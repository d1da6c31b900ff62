package cmd

import (
	"github.com/spf13/cobra"

	"github.com/glpikit/cli/internal/app"
)

func newOperationsCmd() *cobra.Command {
	var specLocation string

	cmd := &cobra.Command{
		Use:     "operations",
		Aliases: []string{"ops"},
		Short:   "List the operations of an OpenAPI document",
		Long: `List every operation the GLPI OpenAPI document declares, as the
"METHOD /path" identifiers that glpikit run accepts.

Examples:
  glpikit operations --spec glpi.json
  glpikit ops --spec https://glpi.example.com/api.php/doc -F json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			spec := specOrDefault(specLocation)
			if spec == "" {
				return app.ExitResult{Code: 2, Message: "provide --spec or set a default spec in the config file", ToStderr: true}
			}
			result, err := app.Operations(spec)
			if err != nil {
				return app.ExitResult{Code: 1, Message: err.Error(), ToStderr: true}
			}
			format, outputPath := getOutputFlags(cmd)
			return app.OutputResult(result, format, outputPath)
		},
	}

	cmd.Flags().StringVar(&specLocation, "spec", "", "OpenAPI document path or URL")

	return cmd
}
