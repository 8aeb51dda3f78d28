package main

import (
	"database/sql"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	_ "modernc.org/sqlite"

	"github.com/vmunix/fijkbridge/internal/events"
)

var eventsCmd = &cobra.Command{
	Use:   "events",
	Short: "Show events from the event log",
	Long: `Show events recorded by the daemon in its SQLite event log.

The log is read directly from the database file, so the daemon does not
need to be running.`,
	Args: cobra.NoArgs,
	RunE: runEventsCmd,
}

func init() {
	rootCmd.AddCommand(eventsCmd)
	eventsCmd.Flags().IntP("limit", "n", 20, "Number of events to show")
	eventsCmd.Flags().StringP("type", "t", "", "Only show events of this type (e.g. player.error)")
	eventsCmd.Flags().Int64P("player", "p", 0, "Only show events for this player")
	eventsCmd.Flags().Duration("since", 0, "Only show events newer than this (e.g. 30m)")
	eventsCmd.Flags().String("db", "", "Event log database (default: from config)")
}

func runEventsCmd(cmd *cobra.Command, _ []string) error {
	limit, _ := cmd.Flags().GetInt("limit")
	eventType, _ := cmd.Flags().GetString("type")
	playerID, _ := cmd.Flags().GetInt64("player")
	since, _ := cmd.Flags().GetDuration("since")
	dbPath, _ := cmd.Flags().GetString("db")

	if dbPath == "" {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		dbPath = cfg.Database.Path
	}
	if _, err := os.Stat(dbPath); err != nil {
		return fmt.Errorf("event log: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer func() { _ = db.Close() }()

	f := events.Filter{Type: eventType, Player: playerID, Limit: limit}
	if since > 0 {
		f.Since = time.Now().Add(-since)
	}
	list, err := queryEvents(events.NewEventLog(db), f)
	if err != nil {
		return fmt.Errorf("failed to read events: %w", err)
	}

	if jsonOutput {
		printJSON(decodeEvents(list))
		return nil
	}
	printEvents(os.Stdout, list)
	return nil
}

// queryEvents returns the matching events, newest first.
func queryEvents(log *events.EventLog, f events.Filter) ([]events.RawEvent, error) {
	f.Newest = true
	return log.Query(f)
}

// decodeEvents turns raw rows into typed events. Rows of unregistered
// types are kept raw.
func decodeEvents(list []events.RawEvent) []any {
	reg := events.DefaultRegistry()
	out := make([]any, 0, len(list))
	for _, raw := range list {
		e, err := reg.Unmarshal(raw)
		if err != nil {
			out = append(out, raw)
			continue
		}
		out = append(out, e)
	}
	return out
}

func printEvents(w io.Writer, list []events.RawEvent) {
	if len(list) == 0 {
		_, _ = fmt.Fprintln(w, "No events")
		return
	}

	_, _ = fmt.Fprintf(w, "Recent Events (%d):\n\n", len(list))
	_, _ = fmt.Fprintf(w, "  %-12s %-26s %-10s %s\n", "TIME", "TYPE", "PLAYER", "PAYLOAD")
	_, _ = fmt.Fprintln(w, "  "+strings.Repeat("-", 72))
	for _, e := range list {
		_, _ = fmt.Fprintf(w, "  %-12s %-26s %-10d %s\n",
			formatTimeAgo(e.OccurredAt), e.EventType, e.EntityID, compactPayload(e.Payload))
	}
}

// compactPayload truncates a payload to fit the table.
func compactPayload(payload string) string {
	const width = 60
	if len(payload) > width {
		return payload[:width-3] + "..."
	}
	return payload
}

func formatTimeAgo(t time.Time) string {
	if t.IsZero() {
		return "never"
	}

	ago := time.Since(t)
	switch {
	case ago < time.Minute:
		return "just now"
	case ago < time.Hour:
		return fmt.Sprintf("%dm ago", int(ago.Minutes()))
	case ago < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(ago.Hours()))
	default:
		return fmt.Sprintf("%dd ago", int(ago.Hours()/24))
	}
}
