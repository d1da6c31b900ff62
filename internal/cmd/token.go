package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/glpikit/cli/internal/app"
)

func newTokenCmd() *cobra.Command {
	var contextName string

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Test token acquisition for a context",
		Long: `Perform one OAuth2 password-grant exchange against the context's
token endpoint and report the result. Useful for verifying credentials
without issuing an API call.

Examples:
  glpikit token --context prod
  glpikit token --context lab -F json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := app.CheckToken(context.Background(), contextOrDefault(contextName))
			if err != nil {
				return app.ExitResult{Code: 1, Message: err.Error(), ToStderr: true}
			}
			format, outputPath := getOutputFlags(cmd)
			return app.OutputResult(result, format, outputPath)
		},
	}

	cmd.Flags().StringVar(&contextName, "context", "", "named context supplying credentials")

	return cmd
}
