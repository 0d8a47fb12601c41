package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/fwmon/fwmon/internal/apiclient"
	"github.com/fwmon/fwmon/internal/models"
	"github.com/spf13/cobra"
)

func newLogsCmd() *cobra.Command {
	logsCmd := &cobra.Command{
		Use:   "logs",
		Short: "Query and record firewall log entries",
		Long: `Query and record firewall log entries.

Examples:
  # Second page of dropped UDP traffic
  fwmon logs list --protocol UDP --action DROP --page 2

  # Entries from one source since a date
  fwmon logs list --source-ip 192.168.1.100 --from 2024-01-01

  # Record entries, overriding the severity of each
  fwmon logs create -f entries.yaml --set severity=critical`,
	}

	logsCmd.AddCommand(newLogsListCmd())
	logsCmd.AddCommand(getByIDCmd("log entry", func(ctx context.Context, id int) (any, error) {
		return newClient().Logs.GetByID(ctx, id)
	}))
	logsCmd.AddCommand(newLogsCreateCmd())
	logsCmd.AddCommand(newLogsUpdateCmd())
	logsCmd.AddCommand(deleteByIDCmd("log entry", func(ctx context.Context, id int) (any, error) {
		return newClient().Logs.Delete(ctx, id)
	}))
	logsCmd.AddCommand(newLogsStatsCmd())
	return logsCmd
}

func newLogsListCmd() *cobra.Command {
	var (
		filter   = models.NewLogFilter()
		from, to string
	)

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List log entries matching the filters",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var err error
			if filter.DateFrom, err = parseDateFlag("from", from); err != nil {
				return err
			}
			if filter.DateTo, err = parseDateFlag("to", to); err != nil {
				return err
			}
			if err := models.Validate(filter); err != nil {
				return err
			}

			v, err := newClient().Logs.GetAll(cmd.Context(), filter.Query())
			if err != nil {
				return err
			}
			if jsonOutput {
				return printResult(cmd, v)
			}

			logs, err := apiclient.As[[]models.FirewallLog](v, nil)
			if err != nil {
				// not a plain list; show whatever the server sent
				return printResult(cmd, v)
			}
			printLogTable(cmd.OutOrStdout(), logs)
			return nil
		},
	}

	f := cmd.Flags()
	f.IntVar(&filter.Page, "page", models.DefaultPage, "Page number, starting at 1")
	f.IntVar(&filter.Limit, "limit", models.DefaultLimit, fmt.Sprintf("Entries per page, at most %d", models.MaxLimit))
	f.StringVar(&filter.SourceIP, "source-ip", "", "Only entries from this address")
	f.StringVar(&filter.DestinationIP, "destination-ip", "", "Only entries to this address")
	f.StringVar(&filter.Protocol, "protocol", "", "Only entries with this protocol (TCP, UDP, ICMP)")
	f.StringVar(&filter.Action, "action", "", "Only entries with this action (ALLOW, DENY, DROP)")
	f.StringVar(&filter.Severity, "severity", "", "Only entries with this severity (critical, warning, info, debug)")
	f.StringVar(&from, "from", "", "Only entries at or after this time (RFC3339 or YYYY-MM-DD)")
	f.StringVar(&to, "to", "", "Only entries at or before this time (RFC3339 or YYYY-MM-DD)")
	return cmd
}

func parseDateFlag(name, value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	t, err := apiclient.ParseTime(value)
	if err != nil {
		return nil, fmt.Errorf("invalid --%s: %w", name, err)
	}
	return &t, nil
}

func newLogsCreateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create -f FILE",
		Short: "Record log entries from a YAML file",
		Long: `Record log entries from a YAML file. The file may hold several documents
separated by ---, one entry each. {{ .ENV.NAME }} placeholders are replaced with
environment variables. Every entry is validated before any is sent.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			docs, err := loadDocuments(cmd)
			if err != nil {
				return err
			}
			logs := newClient().Logs
			return sendDocuments[models.FirewallLog](cmd, "log entry", docs, func(ctx context.Context, doc map[string]any) (any, error) {
				return logs.Create(ctx, doc)
			})
		},
	}
	addInputFlags(cmd, true)
	return cmd
}

func newLogsUpdateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "update ID -f FILE",
		Short: "Replace a log entry",
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
			logs := newClient().Logs
			return sendDocuments[models.FirewallLog](cmd, "log entry", docs, func(ctx context.Context, doc map[string]any) (any, error) {
				return logs.Update(ctx, id, doc)
			})
		},
	}
	addInputFlags(cmd, true)
	return cmd
}

func newLogsStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show aggregate counters over all log entries",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := newClient().Logs.GetStats(cmd.Context())
			if err != nil {
				return err
			}
			if jsonOutput {
				return printResult(cmd, v)
			}
			stats, err := apiclient.As[models.LogStats](v, nil)
			if err != nil {
				return err
			}
			printStats(cmd.OutOrStdout(), stats)
			return nil
		},
	}
}
