package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/fwmon/fwmon/internal/models"
	"github.com/spf13/cobra"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"sigs.k8s.io/yaml"
)

var headingLabel = color.New(color.Bold)

var actionColors = map[string]*color.Color{
	"ALLOW": color.New(color.FgGreen),
	"DENY":  color.New(color.FgRed),
	"DROP":  color.New(color.FgYellow),
}

var severityColors = map[string]*color.Color{
	"critical": color.New(color.FgHiRed, color.Bold),
	"warning":  color.New(color.FgYellow),
	"info":     color.New(color.FgCyan),
	"debug":    color.New(color.FgHiBlack),
}

var titleCaser = cases.Title(language.English)

// printResult writes a plain API result. JSON output wraps it as
// {"result": 1, "value": ...}; otherwise it is rendered as YAML.
func printResult(cmd *cobra.Command, value any) error {
	w := cmd.OutOrStdout()
	if jsonOutput {
		return printJSON(w, map[string]any{
			"result": 1,
			"value":  value,
		})
	}
	if s, ok := value.(string); ok {
		fmt.Fprintln(w, s)
		return nil
	}
	if value == nil {
		return nil
	}
	yamlBytes, err := yaml.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to convert to YAML: %w", err)
	}
	fmt.Fprint(w, string(yamlBytes))
	return nil
}

// printDone reports a completed mutation.
func printDone(cmd *cobra.Command, format string, args ...any) error {
	msg := fmt.Sprintf(format, args...)
	if jsonOutput {
		return printJSON(cmd.OutOrStdout(), map[string]any{
			"result":  1,
			"message": msg,
		})
	}
	okLabel.Fprintln(cmd.OutOrStdout(), "✓ "+msg)
	return nil
}

// heading turns a snake_case field name into a title, e.g. top_source_ips -> Top Source Ips.
func heading(field string) string {
	return titleCaser.String(strings.ReplaceAll(field, "_", " "))
}

func colorize(palette map[string]*color.Color, key string) string {
	if c, ok := palette[key]; ok {
		return c.Sprint(key)
	}
	return key
}

// printLogTable renders log entries one per line, newest as returned by the server.
func printLogTable(w io.Writer, logs []models.FirewallLog) {
	if len(logs) == 0 {
		fmt.Fprintln(w, "No log entries found")
		return
	}
	headingLabel.Fprintf(w, "%-6s %-20s %-40s %-40s %-5s %-6s %s\n",
		"ID", heading("timestamp"), heading("source"), heading("destination"), "PROTO", heading("action"), heading("severity"))
	for _, l := range logs {
		fmt.Fprintf(w, "%-6d %-20s %-40s %-40s %-5s %-6s %s\n",
			l.ID,
			l.Timestamp.Format("2006-01-02 15:04:05"),
			endpoint(l.SourceIP, l.SourcePort),
			endpoint(l.DestinationIP, l.DestinationPort),
			strings.ToUpper(l.Protocol),
			// pad before coloring so escape codes do not break alignment
			colorize(actionColors, l.Action)+strings.Repeat(" ", max(0, 6-len(l.Action))),
			colorize(severityColors, l.Severity),
		)
	}
}

func endpoint(ip string, port *int) string {
	if port == nil {
		return ip
	}
	if strings.Contains(ip, ":") {
		return fmt.Sprintf("[%s]:%d", ip, *port)
	}
	return fmt.Sprintf("%s:%d", ip, *port)
}

// printStats renders the aggregate counters followed by the top address tables.
func printStats(w io.Writer, s models.LogStats) {
	counters := []struct {
		field string
		value int
		color *color.Color
	}{
		{"total_logs", s.TotalLogs, nil},
		{"allowed_count", s.AllowedCount, actionColors["ALLOW"]},
		{"denied_count", s.DeniedCount, actionColors["DENY"]},
		{"dropped_count", s.DroppedCount, actionColors["DROP"]},
		{"critical_count", s.CriticalCount, severityColors["critical"]},
		{"warning_count", s.WarningCount, severityColors["warning"]},
	}
	for _, c := range counters {
		label := fmt.Sprintf("%-16s", heading(c.field)+":")
		if c.color != nil {
			label = c.color.Sprint(label)
		}
		fmt.Fprintf(w, "%s %d\n", label, c.value)
	}

	for _, table := range []struct {
		field string
		rows  []models.IPCount
	}{
		{"top_source_ips", s.TopSourceIPs},
		{"top_destination_ips", s.TopDestinationIPs},
	} {
		if len(table.rows) == 0 {
			continue
		}
		fmt.Fprintln(w)
		headingLabel.Fprintln(w, heading(table.field))
		for _, r := range table.rows {
			fmt.Fprintf(w, "  %-40s %d\n", r.IP, r.Count)
		}
	}
}
