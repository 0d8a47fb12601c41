package cli

import (
	"context"
	"fmt"

	"github.com/fwmon/fwmon/internal/models"
	"github.com/spf13/cobra"
)

func newAlertsCmd() *cobra.Command {
	alertsCmd := &cobra.Command{
		Use:   "alerts",
		Short: "Manage alert rules",
	}

	alertsCmd.AddCommand(listCmd("alert", func(ctx context.Context) (any, error) {
		return newClient().Alerts.GetAll(ctx)
	}))
	alertsCmd.AddCommand(getByIDCmd("alert", func(ctx context.Context, id int) (any, error) {
		return newClient().Alerts.GetByID(ctx, id)
	}))
	alertsCmd.AddCommand(newAlertsCreateCmd())
	alertsCmd.AddCommand(newAlertsUpdateCmd())
	alertsCmd.AddCommand(deleteByIDCmd("alert", func(ctx context.Context, id int) (any, error) {
		return newClient().Alerts.Delete(ctx, id)
	}))
	return alertsCmd
}

func newAlertsCreateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create -f FILE",
		Short: "Create alert rules from a YAML file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			docs, err := loadDocuments(cmd)
			if err != nil {
				return err
			}
			alerts := newClient().Alerts
			return sendDocuments[models.Alert](cmd, "alert", docs, func(ctx context.Context, doc map[string]any) (any, error) {
				return alerts.Create(ctx, doc)
			})
		},
	}
	addInputFlags(cmd, true)
	return cmd
}

func newAlertsUpdateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "update ID -f FILE",
		Short: "Replace an alert rule",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			docs, err := loadDocuments(cmd)
			if err != nil {
				return err
			}
			if len(docs) != 1 {
				return fmt.Errorf("expected one document, found %d", len(docs))
			}
			alerts := newClient().Alerts
			return sendDocuments[models.Alert](cmd, "alert", docs, func(ctx context.Context, doc map[string]any) (any, error) {
				return alerts.Update(ctx, id, doc)
			})
		},
	}
	addInputFlags(cmd, true)
	return cmd
}
