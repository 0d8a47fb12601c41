package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/fwmon/fwmon/internal/apiclient"
	"github.com/fwmon/fwmon/internal/models"
	"github.com/spf13/cobra"
)

func newSettingsCmd() *cobra.Command {
	settingsCmd := &cobra.Command{
		Use:   "settings",
		Short: "View and change system settings",
		Long: `View and change system settings.

Examples:
  fwmon settings list
  fwmon settings get retention_days
  fwmon settings set retention_days 30
  fwmon settings set notify_channels '["email","slack"]'`,
	}

	settingsCmd.AddCommand(&cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List settings",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := newClient().Settings.GetAll(cmd.Context())
			if err != nil {
				return err
			}
			if jsonOutput {
				return printResult(cmd, v)
			}
			settings, err := apiclient.As[[]models.Setting](v, nil)
			if err != nil {
				return printResult(cmd, v)
			}
			printSettings(cmd.OutOrStdout(), settings)
			return nil
		},
	})
	settingsCmd.AddCommand(&cobra.Command{
		Use:   "get KEY",
		Short: "Show one setting",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := newClient().Settings.GetByKey(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return printResult(cmd, v)
		},
	})
	settingsCmd.AddCommand(newSettingsSetCmd())
	return settingsCmd
}

func newSettingsSetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set KEY VALUE",
		Short: "Change a setting",
		Long: `Change a setting. VALUE is sent as JSON when it parses as JSON (30, true,
["a","b"]) and as a string otherwise.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			key, value := args[0], args[1]
			body, err := setJSONValue([]byte(`{}`), "value", value)
			if err != nil {
				return fmt.Errorf("encoding value: %w", err)
			}
			var update map[string]any
			if err := json.Unmarshal(body, &update); err != nil {
				return fmt.Errorf("encoding value: %w", err)
			}

			v, err := newClient().Settings.Update(cmd.Context(), key, update)
			if err != nil {
				return err
			}
			if jsonOutput {
				return printResult(cmd, v)
			}
			return printDone(cmd, "Setting %s updated", key)
		},
	}
}

func printSettings(w io.Writer, settings []models.Setting) {
	if len(settings) == 0 {
		fmt.Fprintln(w, "No settings found")
		return
	}
	for _, st := range settings {
		value, err := json.Marshal(st.Value)
		if err != nil {
			value = []byte(fmt.Sprint(st.Value))
		}
		headingLabel.Fprint(w, st.Key)
		fmt.Fprintf(w, " = %s", value)
		if st.ValueType != "" {
			fmt.Fprintf(w, " (%s)", st.ValueType)
		}
		fmt.Fprintln(w)
		if st.Description != "" {
			fmt.Fprintf(w, "    %s\n", st.Description)
		}
	}
}
