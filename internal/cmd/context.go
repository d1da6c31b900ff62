package cmd

import (
	"fmt"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/glpikit/cli/internal/app"
)

func newContextCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "context",
		Short: "Manage named contexts (GLPI credentials and defaults)",
		Long: `Manage named contexts for operation execution.

A context is a named GLPI connection: base URL, OAuth2 client settings,
TLS toggle, and default session headers. When executing an operation,
pass --context <name> to use it.

Username, password, and client secret are stored securely in the OS
keychain. Non-secret fields are stored in config files.`,
	}

	cmd.AddCommand(
		newContextListCmd(),
		newContextShowCmd(),
		newContextSetCmd(),
		newContextRemoveCmd(),
	)

	return cmd
}

func newContextListCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List all named contexts",
		RunE: func(cmd *cobra.Command, args []string) error {
			summaries, err := app.ListContexts()
			if err != nil {
				return app.ExitResult{Code: 1, Message: err.Error(), ToStderr: true}
			}
			format, outputPath := getOutputFlags(cmd)
			return app.OutputResult(app.ContextListOutput{Contexts: summaries}, format, outputPath)
		},
	}
}

func newContextShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <name>",
		Short: "Show context details (secrets stay in the keychain)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := app.LoadContextConfig(args[0])
			if err != nil {
				return app.ExitResult{Code: 1, Message: err.Error(), ToStderr: true}
			}
			if cfg.BaseURL == "" {
				return app.ExitResult{Code: 1, Message: fmt.Sprintf("context %q not found", args[0]), ToStderr: true}
			}
			format, outputPath := getOutputFlags(cmd)
			return app.OutputResult(cfg, format, outputPath)
		},
	}
}

func newContextSetCmd() *cobra.Command {
	var baseURL, username, password, clientID, clientSecret, scope string
	var skipTLSVerify bool
	var headers map[string]string

	cmd := &cobra.Command{
		Use:   "set <name>",
		Short: "Create or update a named context",
		Long: `Create or update a named context.

Credentials not passed as flags are prompted for interactively, so
passwords need not appear in shell history.

Examples:
  glpikit context set prod --base-url https://glpi.example.com --username glpi
  glpikit context set lab --base-url https://10.0.0.5 --skip-tls-verify
  glpikit context set prod --header GLPI-Entity=1 --header Accept-Language=fr_FR`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]

			if baseURL == "" || username == "" || password == "" {
				if err := promptCredentials(&baseURL, &username, &password); err != nil {
					return app.ExitResult{Code: 1, Message: err.Error(), ToStderr: true}
				}
			}
			if baseURL == "" {
				return app.ExitResult{Code: 2, Message: "a base URL is required", ToStderr: true}
			}

			cfg := app.ContextConfig{
				BaseURL:       baseURL,
				ClientID:      clientID,
				Scope:         scope,
				SkipTLSVerify: skipTLSVerify,
			}
			if len(headers) > 0 {
				cfg.Headers = headers
			}
			if err := app.SaveContextConfig(name, cfg); err != nil {
				return app.ExitResult{Code: 1, Message: err.Error(), ToStderr: true}
			}
			if err := app.SaveContextSecret(name, username, password, clientSecret); err != nil {
				return app.ExitResult{Code: 1, Message: err.Error(), ToStderr: true}
			}
			return app.ExitResult{Code: 0, Message: "Saved context " + name, ToStderr: false}
		},
	}

	cmd.Flags().StringVar(&baseURL, "base-url", "", "GLPI base URL (https://glpi.example.com)")
	cmd.Flags().StringVar(&username, "username", "", "GLPI user name")
	cmd.Flags().StringVar(&password, "password", "", "GLPI password (prompted when omitted)")
	cmd.Flags().StringVar(&clientID, "client-id", "", "OAuth2 client id (omit for public clients)")
	cmd.Flags().StringVar(&clientSecret, "client-secret", "", "OAuth2 client secret (omit for public clients)")
	cmd.Flags().StringVar(&scope, "scope", "", "OAuth2 scope (default \"api\")")
	cmd.Flags().BoolVar(&skipTLSVerify, "skip-tls-verify", false, "skip TLS certificate verification (self-signed deployments)")
	cmd.Flags().StringToStringVar(&headers, "header", nil, "default session header, e.g. GLPI-Entity=1 (repeatable)")

	return cmd
}

// promptCredentials interactively fills the connection fields left empty.
func promptCredentials(baseURL, username, password *string) error {
	var fields []huh.Field
	if *baseURL == "" {
		fields = append(fields, huh.NewInput().
			Title("Base URL").
			Description("GLPI deployment root, without /api.php").
			Placeholder("https://glpi.example.com").
			Value(baseURL))
	}
	if *username == "" {
		fields = append(fields, huh.NewInput().
			Title("Username").
			Value(username))
	}
	if *password == "" {
		fields = append(fields, huh.NewInput().
			Title("Password").
			EchoMode(huh.EchoModePassword).
			Value(password))
	}
	if len(fields) == 0 {
		return nil
	}
	return huh.NewForm(huh.NewGroup(fields...)).Run()
}

func newContextRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "remove <name>",
		Aliases: []string{"rm"},
		Short:   "Remove a context and its keychain entry",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.DeleteContext(args[0]); err != nil {
				return app.ExitResult{Code: 1, Message: err.Error(), ToStderr: true}
			}
			return app.ExitResult{Code: 0, Message: "Removed context " + args[0], ToStderr: false}
		},
	}
}
