package cli

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/fwmon/fwmon/internal/apiclient"
	"github.com/fwmon/fwmon/internal/models"
	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// passwordEnv is read when --passwd is not given.
const passwordEnv = "FWMON_PASSWORD"

// newLoginCmd creates and returns a new login command
func newLoginCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Authenticate with the firewall log monitoring API",
		Long: `Login to the API server to obtain an authentication token.
This command will authenticate with the server and store the token in your configuration file.
The token is sent with later commands until it expires.

The login process requires:
- A valid server configuration
- A username (provided via --user or stored in config from a previous login)
- A password (provided via --passwd or the FWMON_PASSWORD environment variable)

Example:
  fwmon login --user admin --passwd=mypassword
  FWMON_PASSWORD=mypassword fwmon login --user admin`,
		Args: cobra.NoArgs,
		RunE: runLogin,
	}

	cmd.Flags().String("user", "", "Username for authentication")
	cmd.Flags().String("passwd", "", "Password for authentication")
	return cmd
}

// runLogin handles the login command execution
func runLogin(cmd *cobra.Command, args []string) error {
	cfg := GetConfig()
	if cfg == nil {
		return errors.New("no configuration loaded")
	}

	creds := models.UserLogin{}
	creds.Username, _ = cmd.Flags().GetString("user")
	if creds.Username == "" {
		creds.Username = cfg.Username
	}
	creds.Password, _ = cmd.Flags().GetString("passwd")
	if creds.Password == "" {
		creds.Password = os.Getenv(passwordEnv)
	}
	if err := models.Validate(creds); err != nil {
		return fmt.Errorf("%w. Use --user and --passwd, or set %s", err, passwordEnv)
	}

	// log in without any stale token
	cfg.ClearSession()
	client := newClient()

	loginResp, err := apiclient.As[models.LoginResponse](client.Auth.Login(cmd.Context(), creds.Username, creds.Password))
	if err != nil {
		return fmt.Errorf("login request failed: %w", err)
	}
	if loginResp.Token == "" {
		return errors.New("login response carried no token")
	}

	cfg.Username = creds.Username
	if loginResp.User != nil && loginResp.User.Username != "" {
		cfg.Username = loginResp.User.Username
	}
	cfg.Token = loginResp.Token
	expiry := tokenExpiry(loginResp.Token)
	if !expiry.IsZero() {
		cfg.TokenExpiry = expiry.UTC().Format(time.RFC3339)
	}

	if err := cfg.WriteConfig(configFile); err != nil {
		return fmt.Errorf("failed to save configuration: %w", err)
	}
	log.Ctx(cmd.Context()).Debug().Str("user", cfg.Username).Time("expires_at", expiry).Msg("logged in")

	if jsonOutput {
		kv := map[string]any{
			"status":  "success",
			"message": "Login successful",
			"user":    cfg.Username,
		}
		if cfg.TokenExpiry != "" {
			kv["expires_at"] = cfg.TokenExpiry
		}
		return printJSON(cmd.OutOrStdout(), kv)
	}
	okLabel.Fprintf(cmd.OutOrStdout(), "✓ Logged in as %s\n", cfg.Username)
	if cfg.TokenExpiry != "" {
		fmt.Fprintf(cmd.OutOrStdout(), "Token expires at: %s\n", cfg.TokenExpiry)
	}
	return nil
}

// tokenExpiry reads the exp claim of a JWT without verifying its signature.
// Tokens that are not JWTs or carry no exp yield the zero time.
func tokenExpiry(token string) time.Time {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Time{}
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}
	}
	return exp.Time
}

func newLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "End the session and forget the stored token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := GetConfig()
			if cfg.HasValidToken() {
				// an expired or revoked session is gone either way
				if _, err := newClient().Auth.Logout(cmd.Context()); err != nil && !apiclient.IsUnauthorized(err) {
					return fmt.Errorf("logout request failed: %w", err)
				}
			}

			cfg.ClearSession()
			if err := cfg.WriteConfig(configFile); err != nil {
				return fmt.Errorf("failed to save configuration: %w", err)
			}
			return printDone(cmd, "Logged out")
		},
	}
}

func newWhoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the user the stored token belongs to",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := newClient().Auth.GetCurrentUser(cmd.Context())
			if err != nil {
				return err
			}
			if jsonOutput {
				return printResult(cmd, v)
			}

			user, err := apiclient.As[models.User](v, nil)
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "%s (%s)\n", user.Username, user.Role)
			if user.Email != "" {
				fmt.Fprintf(w, "Email: %s\n", user.Email)
			}
			if user.FullName != "" {
				fmt.Fprintf(w, "Name: %s\n", user.FullName)
			}
			if !user.IsActive {
				hintLabel.Fprintln(w, "Account is inactive")
			}
			return nil
		},
	}
}
