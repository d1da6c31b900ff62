package app

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/zalando/go-keyring"

	"github.com/glpikit/cli/internal/glpi"
)

// ContextConfig holds the non-secret fields of a named context.
// Persisted as JSON in ~/.config/glpikit/contexts/<name>.json.
// Username and password live in the OS keychain, not here.
type ContextConfig struct {
	BaseURL       string            `json:"baseUrl"`
	ClientID      string            `json:"clientId,omitempty"`
	Scope         string            `json:"scope,omitempty"`
	SkipTLSVerify bool              `json:"skipTlsVerify,omitempty"`
	Headers       map[string]string `json:"headers,omitempty"` // default GLPI session headers
}

// contextSecret is the keychain payload for a named context.
type contextSecret struct {
	Username     string `json:"username"`
	Password     string `json:"password"`
	ClientSecret string `json:"clientSecret,omitempty"`
}

// ContextSummary is a compact representation for listing contexts.
type ContextSummary struct {
	Name           string `json:"name"`
	BaseURL        string `json:"baseUrl,omitempty"`
	HasCredentials bool   `json:"hasCredentials"`
	LoadError      string `json:"loadError,omitempty"`
}

// contextsDirFunc is the resolver for the contexts directory.
// Override in tests to use a temp directory.
var contextsDirFunc = defaultContextsDir

func defaultContextsDir() (string, error) {
	globalPath, err := GlobalConfigPath()
	if err != nil {
		return "", err
	}
	return filepath.Join(globalPath, ContextsDir), nil
}

// contextConfigPath returns the JSON file path for a named context.
func contextConfigPath(name string) (string, error) {
	dir, err := contextsDirFunc()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, name+".json"), nil
}

// LoadContextConfig reads the non-secret config for a named context.
// Returns an empty config (not an error) if the file does not exist.
func LoadContextConfig(name string) (ContextConfig, error) {
	path, err := contextConfigPath(name)
	if err != nil {
		return ContextConfig{}, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return ContextConfig{}, nil
		}
		return ContextConfig{}, fmt.Errorf("reading context config %q: %w", name, err)
	}
	var cfg ContextConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return ContextConfig{}, fmt.Errorf("parsing context config %q: %w", name, err)
	}
	return cfg, nil
}

// SaveContextConfig writes the non-secret config for a named context.
func SaveContextConfig(name string, cfg ContextConfig) error {
	dir, err := contextsDirFunc()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dir, DirPerm); err != nil {
		return fmt.Errorf("creating contexts directory: %w", err)
	}
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling context config: %w", err)
	}
	path := filepath.Join(dir, name+".json")
	return AtomicWriteFile(path, data, FilePerm)
}

// SaveContextSecret writes username/password/client secret to the OS keychain.
func SaveContextSecret(name, username, password, clientSecret string) error {
	data, err := json.Marshal(contextSecret{
		Username:     username,
		Password:     password,
		ClientSecret: clientSecret,
	})
	if err != nil {
		return fmt.Errorf("marshaling credentials: %w", err)
	}
	if err := keyring.Set(KeychainService, name, string(data)); err != nil {
		return fmt.Errorf("writing keychain for context %q: %w", name, err)
	}
	return nil
}

// loadContextSecret reads credentials from the OS keychain.
// Returns a zero secret (not an error) if none are stored.
func loadContextSecret(name string) (contextSecret, bool, error) {
	raw, err := keyring.Get(KeychainService, name)
	if err != nil {
		if err == keyring.ErrNotFound {
			return contextSecret{}, false, nil
		}
		return contextSecret{}, false, fmt.Errorf("reading keychain for context %q: %w", name, err)
	}
	var sec contextSecret
	if err := json.Unmarshal([]byte(raw), &sec); err != nil {
		return contextSecret{}, false, fmt.Errorf("parsing keychain credentials for context %q: %w", name, err)
	}
	return sec, true, nil
}

// DeleteContext removes a named context: its config file and its keychain entry.
func DeleteContext(name string) error {
	path, err := contextConfigPath(name)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("removing context config %q: %w", name, err)
	}
	if err := keyring.Delete(KeychainService, name); err != nil && err != keyring.ErrNotFound {
		return fmt.Errorf("removing keychain entry %q: %w", name, err)
	}
	return nil
}

// GetCredential assembles the full credential record for a named context:
// config file fields plus keychain secrets. Fails when the context has no
// stored credentials, since no request can proceed without a token.
func GetCredential(name string) (glpi.Credential, ContextConfig, error) {
	cfg, err := LoadContextConfig(name)
	if err != nil {
		return glpi.Credential{}, ContextConfig{}, err
	}
	if cfg.BaseURL == "" {
		return glpi.Credential{}, ContextConfig{}, fmt.Errorf("context %q not found (no base URL configured)", name)
	}
	sec, ok, err := loadContextSecret(name)
	if err != nil {
		return glpi.Credential{}, ContextConfig{}, err
	}
	if !ok {
		return glpi.Credential{}, ContextConfig{}, fmt.Errorf("context %q has no stored credentials", name)
	}
	return glpi.Credential{
		BaseURL:       cfg.BaseURL,
		Username:      sec.Username,
		Password:      sec.Password,
		ClientID:      cfg.ClientID,
		ClientSecret:  sec.ClientSecret,
		Scope:         cfg.Scope,
		SkipTLSVerify: cfg.SkipTLSVerify,
	}, cfg, nil
}

// ContextListOutput wraps the context listing for output formatting.
type ContextListOutput struct {
	Contexts []ContextSummary `json:"contexts"`
}

// Render returns a human-friendly context listing.
func (o ContextListOutput) Render() string {
	if len(o.Contexts) == 0 {
		return Styles.Dim.Render("No contexts")
	}
	var sb strings.Builder
	sb.WriteString(Styles.Header.Render("Contexts:"))
	for _, c := range o.Contexts {
		sb.WriteString("\n  ")
		sb.WriteString(Styles.Bullet.Render("•"))
		sb.WriteString(" ")
		sb.WriteString(Styles.Key.Render(c.Name))
		if c.BaseURL != "" {
			sb.WriteString(Styles.Dim.Render(" → " + c.BaseURL))
		}
		if !c.HasCredentials {
			sb.WriteString(Styles.Error.Render(" (no credentials)"))
		}
		if c.LoadError != "" {
			sb.WriteString(Styles.Error.Render(" (load error: " + c.LoadError + ")"))
		}
	}
	return sb.String()
}

// ListContexts enumerates the saved contexts in name order.
func ListContexts() ([]ContextSummary, error) {
	dir, err := contextsDirFunc()
	if err != nil {
		return nil, err
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading contexts directory: %w", err)
	}

	var summaries []ContextSummary
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		name := strings.TrimSuffix(entry.Name(), ".json")
		summary := ContextSummary{Name: name}
		cfg, err := LoadContextConfig(name)
		if err != nil {
			summary.LoadError = err.Error()
		} else {
			summary.BaseURL = cfg.BaseURL
		}
		if _, kerr := keyring.Get(KeychainService, name); kerr == nil {
			summary.HasCredentials = true
		}
		summaries = append(summaries, summary)
	}
	sort.Slice(summaries, func(i, j int) bool { return summaries[i].Name < summaries[j].Name })
	return summaries, nil
}
