package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	appconfig "github.com/fwmon/fwmon/internal/config"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is the default name of the config file
const DefaultConfigFile = "config.yaml"

const configVersion = "0.1.0"

// Config represents the configuration for the fwmon CLI.
// It contains the API location and the session obtained by login.
type Config struct {
	// Version of the configuration file format
	Version string `yaml:"version"`
	// ServerURL is the API base URL, including the version prefix
	ServerURL string `yaml:"server_url"`
	// Username of the logged in user
	Username string `yaml:"username,omitempty"`
	// Token is the bearer token returned by login
	Token string `yaml:"token,omitempty"`
	// TokenExpiry is when Token expires, RFC3339. Empty means unknown.
	TokenExpiry string `yaml:"token_expiry,omitempty"`
}

var cliConfig *Config

// GetDefaultConfigPath returns the default path for the config file
// It uses the OS-specific config directory (e.g., ~/.config/fwmon on Linux)
func GetDefaultConfigPath() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user config directory: %w", err)
	}
	return filepath.Join(configDir, "fwmon", DefaultConfigFile), nil
}

// ReadConfig reads the configuration from file.
func ReadConfig(file string) (*Config, error) {
	yamlStr, err := os.ReadFile(file)
	if err != nil {
		return nil, fmt.Errorf("unable to read config file: %w", err)
	}

	var c Config
	if err = yaml.Unmarshal(yamlStr, &c); err != nil {
		return nil, fmt.Errorf("unable to parse config file: %w", err)
	}
	c.ServerURL = MorphServer(c.ServerURL)
	return &c, nil
}

// LoadConfig loads the configuration from the specified file. A missing file
// is not an error: the server URL then comes from the environment, as does
// any server URL the file leaves empty.
func LoadConfig(file string, env *appconfig.Config) error {
	c, err := ReadConfig(file)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return err
		}
		c = &Config{Version: configVersion}
	}
	if c.ServerURL == "" {
		c.ServerURL = env.GetBaseURL()
	}
	if err := c.ValidateConfig(); err != nil {
		return err
	}

	cliConfig = c
	return nil
}

// GetConfig returns the current configuration
func GetConfig() *Config {
	return cliConfig
}

// WriteConfig writes the configuration to the specified file
func (cfg *Config) WriteConfig(file string) error {
	if file == "" {
		return errors.New("file path cannot be empty")
	}

	err := os.MkdirAll(filepath.Dir(file), 0700)
	if err != nil {
		return fmt.Errorf("unable to create config directory: %w", err)
	}

	yamlStr, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("unable to generate configuration: %w", err)
	}

	err = os.WriteFile(file, yamlStr, os.FileMode(0600))
	if err != nil {
		return fmt.Errorf("unable to write config file: %w", err)
	}

	return nil
}

// ValidateConfig checks that the server URL is usable as an API base URL.
func (cfg *Config) ValidateConfig() error {
	if cfg.ServerURL == "" {
		return errors.New("server URL is required")
	}
	if _, err := appconfig.New(cfg.ServerURL); err != nil {
		return err
	}
	return nil
}

// MorphServer ensures the server URL is properly formatted
// Adds http:// when no scheme is given and removes trailing slashes
func MorphServer(server string) string {
	if server == "" {
		return server
	}

	server = strings.TrimRight(server, "/")

	if !strings.Contains(server, "://") {
		server = "http://" + server
	}

	return server
}

// GetBaseURL returns the API base URL.
func (cfg *Config) GetBaseURL() string {
	return MorphServer(cfg.ServerURL)
}

// GetDefaultHeaders returns the headers sent with every request. The bearer
// token is only sent while it has not expired.
func (cfg *Config) GetDefaultHeaders() map[string]string {
	h := map[string]string{}
	if cfg.HasValidToken() {
		h["Authorization"] = "Bearer " + cfg.Token
	}
	return h
}

// HasValidToken reports whether a token is stored and not known to be expired.
func (cfg *Config) HasValidToken() bool {
	if cfg.Token == "" {
		return false
	}
	expiry := cfg.GetTokenExpiry()
	return expiry.IsZero() || time.Now().Before(expiry)
}

// GetTokenExpiry returns the token expiry time from the configuration
func (cfg *Config) GetTokenExpiry() time.Time {
	if cfg.TokenExpiry == "" {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339, cfg.TokenExpiry)
	if err != nil {
		return time.Time{}
	}
	return t
}

// ClearSession forgets the logged in user and token.
func (cfg *Config) ClearSession() {
	cfg.Username = ""
	cfg.Token = ""
	cfg.TokenExpiry = ""
}

// Print prints the current configuration in a human-readable format
func (cfg *Config) Print(w io.Writer) {
	fmt.Fprintf(w, "Server: %s\n", cfg.GetBaseURL())
	if cfg.Username != "" {
		fmt.Fprintf(w, "User: %s\n", cfg.Username)
	}
	switch {
	case cfg.Token == "":
		fmt.Fprintln(w, "Session: not logged in")
	case !cfg.HasValidToken():
		fmt.Fprintln(w, "Session: expired")
	case cfg.TokenExpiry != "":
		fmt.Fprintf(w, "Session: valid until %s\n", cfg.TokenExpiry)
	default:
		fmt.Fprintln(w, "Session: valid")
	}
}

func newConfigCmd() *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage CLI configuration",
		Long:  `Manage CLI configuration settings like the API server location and the login session.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			serverFlag, _ := cmd.Flags().GetString("server")
			if serverFlag != "" {
				return setServerConfig(cmd, serverFlag)
			}

			return cmd.Help()
		},
	}
	configCmd.Flags().String("server", "", "Set the API base URL (e.g., http://localhost:8000/api/v1)")

	configCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := GetConfig()
			if jsonOutput {
				return printJSON(cmd.OutOrStdout(), map[string]any{
					"server":      cfg.GetBaseURL(),
					"username":    cfg.Username,
					"logged_in":   cfg.HasValidToken(),
					"config_file": configFile,
				})
			}
			cfg.Print(cmd.OutOrStdout())
			fmt.Fprintf(cmd.OutOrStdout(), "Config file: %s\n", configFile)
			return nil
		},
	})

	configCmd.AddCommand(&cobra.Command{
		Use:   "clear",
		Short: "Clear the stored login session",
		Long: `Clear the stored login session. This will remove:
1. The authentication token
2. The token expiry time
3. The stored username

The server URL is kept.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := GetConfig()
			cfg.ClearSession()

			if err := cfg.WriteConfig(configFile); err != nil {
				return fmt.Errorf("failed to save config: %w", err)
			}

			if jsonOutput {
				return printJSON(cmd.OutOrStdout(), map[string]int{"result": 1})
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Session cleared. Log in again with \"fwmon login\"")
			return nil
		},
	})

	return configCmd
}

// setServerConfig points the configuration at a new server. The previous
// session belongs to the old server and is dropped.
func setServerConfig(cmd *cobra.Command, server string) error {
	cfg := &Config{
		Version:   configVersion,
		ServerURL: MorphServer(server),
	}
	if err := cfg.ValidateConfig(); err != nil {
		return err
	}

	if err := cfg.WriteConfig(configFile); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	cliConfig = cfg

	if jsonOutput {
		return printJSON(cmd.OutOrStdout(), map[string]string{
			"server":      cfg.ServerURL,
			"config_file": configFile,
		})
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Server configured: %s\n", cfg.ServerURL)
	fmt.Fprintf(cmd.OutOrStdout(), "Config file: %s\n", configFile)
	return nil
}
