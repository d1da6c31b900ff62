// Package cmd defines the glpikit command tree.
package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/glpikit/cli/internal/app"
)

// NewRoot builds the top-level `glpikit` command.
//
// We keep errors/usage silent and let main() decide how to print ExitResult
// vs generic errors.
func NewRoot() *cobra.Command {
	root := &cobra.Command{
		Use:           "glpikit",
		Short:         "glpikit: run GLPI REST operations from its OpenAPI document",
		Long: `glpikit executes operations of a GLPI deployment's high-level REST API.

Operations are addressed as "METHOD /path" identifiers taken from the
deployment's OpenAPI document; parameter routing (path, query, header,
body) follows the document's declarations. Authentication uses the
OAuth2 password grant against {baseUrl}/api.php/token with credentials
from a named context.`,
		SilenceErrors: true,
		SilenceUsage:  true,
	}

	root.PersistentFlags().StringP("output", "o", "", "write output to file (default: stdout)")
	root.PersistentFlags().StringP("format", "F", "", "output format: json|yaml|text|quiet")

	root.AddCommand(
		newRunCmd(),
		newOperationsCmd(),
		newContextCmd(),
		newTokenCmd(),
	)

	return root
}

// initConfig wires the optional glpikit config file into viper. Missing
// config files are fine; flags keep their defaults.
func initConfig() {
	viper.SetConfigName(app.ConfigFileName)
	viper.SetConfigType(app.ConfigFileType)
	viper.AddConfigPath(".")
	if dir, err := app.GlobalConfigPath(); err == nil {
		viper.AddConfigPath(dir)
	}
	viper.SetDefault("context", "")
	viper.SetDefault("spec", "")
	_ = viper.ReadInConfig()
}

// Execute runs the root command and returns the process exit code.
func Execute() error {
	cobra.OnInitialize(initConfig)
	return NewRoot().Execute()
}
