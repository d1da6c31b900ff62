package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// getOutputFlags returns the global --format and -o/--output (path) from the root command.
// -o/--output = output path (file to write). --format/-F = output format (json|yaml|text|quiet).
func getOutputFlags(c *cobra.Command) (format string, outputPath string) {
	format, _ = c.Root().PersistentFlags().GetString("format")
	outputPath, _ = c.Root().PersistentFlags().GetString("output")
	return format, outputPath
}

// contextOrDefault falls back to the config file's default context when the
// flag is empty.
func contextOrDefault(name string) string {
	if name != "" {
		return name
	}
	return viper.GetString("context")
}

// specOrDefault falls back to the config file's default spec location when
// the argument is empty.
func specOrDefault(spec string) string {
	if spec != "" {
		return spec
	}
	return viper.GetString("spec")
}
