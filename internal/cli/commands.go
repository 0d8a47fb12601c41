package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/fatih/color"
	"github.com/fwmon/fwmon/internal/apiclient"
	"github.com/fwmon/fwmon/internal/common/logtrace"
	"github.com/fwmon/fwmon/internal/common/uuid"
	appconfig "github.com/fwmon/fwmon/internal/config"
	jsoniter "github.com/json-iterator/go"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

var (
	// Global flags
	jsonOutput bool
	configFile string
	logLevel   string
)

var okLabel = color.New(color.FgGreen)
var errorLabel = color.New(color.FgRed)
var hintLabel = color.New(color.FgYellow)

// newRootCmd builds the command tree. The global flags are rebound on every call.
func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "fwmon [command] [flags]",
		Short: "fwmon - A command line client for the firewall log monitoring API",
		Long: `fwmon is a command line client for the firewall log monitoring API.
It lists and records firewall log entries and manages users, alert rules and settings.

Examples:
  # Point the CLI at a server and log in
  fwmon config --server http://localhost:8000/api/v1
  fwmon login --user admin

  # List denied traffic
  fwmon logs list --action DENY --limit 20

  # Record log entries from a YAML file
  fwmon logs create -f entries.yaml

  # Show aggregate counters
  fwmon logs stats`,
		SilenceErrors:     true,
		SilenceUsage:      true,
		PersistentPreRunE: preRunHandlePersistents,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "", "", "Path to configuration file to override default")
	rootCmd.PersistentFlags().BoolVarP(&jsonOutput, "json", "j", false, "Output in JSON format")
	rootCmd.PersistentFlags().StringVarP(&logLevel, "log-level", "", "", "Log level (debug, info, warn, error); overrides FWMON_LOG_LEVEL")

	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newLoginCmd())
	rootCmd.AddCommand(newLogoutCmd())
	rootCmd.AddCommand(newWhoamiCmd())
	rootCmd.AddCommand(newLogsCmd())
	rootCmd.AddCommand(newUsersCmd())
	rootCmd.AddCommand(newAlertsCmd())
	rootCmd.AddCommand(newSettingsCmd())
	return rootCmd
}

// Execute runs the CLI with the process arguments and exits non-zero on failure.
// This is called by main.main().
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	rootCmd := newRootCmd()
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		printError(rootCmd, err)
		os.Exit(1)
	}
}

// printError reports a failed command. API errors carry their status, and an
// authentication failure gets a hint to log in again.
func printError(cmd *cobra.Command, err error) {
	apiErr, isAPIErr := apiclient.AsAPIError(err)
	if jsonOutput {
		kv := map[string]any{
			"error": err.Error(),
		}
		if isAPIErr && apiErr.HasStatus() {
			kv["status"] = apiErr.Status
		}
		if perr := printJSON(cmd.OutOrStdout(), kv); perr != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", perr)
		}
		return
	}

	w := cmd.ErrOrStderr()
	if isAPIErr && apiErr.HasStatus() {
		errorLabel.Fprintf(w, "Error: %v (status %d)\n", err, apiErr.Status)
	} else {
		errorLabel.Fprintf(w, "Error: %v\n", err)
	}
	if apiclient.IsUnauthorized(err) {
		hintLabel.Fprintln(w, "Log in with \"fwmon login\" to obtain a new token.")
	}
}

// preRunHandlePersistents sets up logging, loads configuration and tags the
// command context with a request id before any command runs.
func preRunHandlePersistents(cmd *cobra.Command, args []string) error {
	env, err := appconfig.Load(appconfig.DefaultEnvFile)
	if err != nil {
		return fmt.Errorf("loading environment: %w", err)
	}

	level := logLevel
	if level == "" {
		level = env.LogLevel()
	}
	if err := logtrace.InitLogger(level, true); err != nil {
		return fmt.Errorf("invalid log level %q: %w", level, err)
	}

	if configFile == "" {
		configFile, err = GetDefaultConfigPath()
		if err != nil {
			return err
		}
	}

	if cmd.Name() != "version" {
		if err := LoadConfig(configFile, env); err != nil {
			// config commands must still run to repair a broken file
			if !isConfigCmd(cmd) {
				return err
			}
			cliConfig = &Config{Version: configVersion, ServerURL: env.GetBaseURL()}
		}
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	requestID := uuid.New().String()
	ctx = logtrace.WithRequestID(ctx, requestID)
	ctx = log.With().Str("request_id", requestID).Logger().WithContext(ctx)
	cmd.SetContext(ctx)

	log.Ctx(ctx).Debug().
		Str("command", cmd.CommandPath()).
		Str("config_file", configFile).
		Str("environment", env.Environment()).
		Msg("running command")
	return nil
}

func isConfigCmd(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Name() == "config" {
			return true
		}
	}
	return false
}

// newClient returns an API client for the loaded configuration.
func newClient(opts ...apiclient.Option) *apiclient.Client {
	return apiclient.New(GetConfig(), opts...)
}

// newVersionCmd creates and returns a new version command
func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number of fwmon",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if jsonOutput {
				return printJSON(cmd.OutOrStdout(), map[string]string{
					"version":     getCLIVersion(),
					"config_file": configFile,
				})
			}
			fmt.Fprintf(cmd.OutOrStdout(), "fwmon CLI %s\n", getCLIVersion())
			fmt.Fprintf(cmd.OutOrStdout(), "Config file: %s\n", configFile)
			return nil
		},
	}
}

// printJSON writes data as indented JSON
func printJSON(w io.Writer, data any) error {
	jsonData, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to format JSON output: %w", err)
	}
	fmt.Fprintln(w, string(jsonData))
	return nil
}

// getCLIVersion returns the current CLI version
func getCLIVersion() string {
	return "v0.1.0"
}
