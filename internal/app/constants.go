// Package app - constants.go centralizes magic strings and configuration values.
package app

import (
	"fmt"
	"os"
	"path/filepath"
)

// Directory and file paths for the glpikit configuration.
const (
	// GlobalConfigDir is the application subdirectory within the OS config directory.
	GlobalConfigDir = "glpikit"

	// ContextsDir is the subdirectory for named context config files.
	ContextsDir = "contexts"

	// KeychainService is the service name used in the OS keychain.
	KeychainService = "glpikit"

	// ConfigFileName is the viper config file name (without extension).
	ConfigFileName = "config"

	// ConfigFileType is the viper config file type.
	ConfigFileType = "toml"
)

// GlobalConfigPath returns the platform-appropriate global config directory
// for glpikit (e.g. ~/.config/glpikit on Linux,
// ~/Library/Application Support/glpikit on macOS).
func GlobalConfigPath() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine config directory: %w", err)
	}
	return filepath.Join(configDir, GlobalConfigDir), nil
}

// File permissions.
const (
	// DirPerm is the permission mode for directories.
	DirPerm = 0o755

	// FilePerm is the permission mode for regular files.
	FilePerm = 0o644
)
