package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show daemon status",
	Args:  cobra.NoArgs,
	RunE:  runStatusCmd,
}

var playersCmd = &cobra.Command{
	Use:   "players",
	Short: "List live players",
	Args:  cobra.NoArgs,
	RunE:  runPlayersCmd,
}

var sendCmd = &cobra.Command{
	Use:   "send <player> <method> [key=value...]",
	Short: "Send a command to a player",
	Long: `Send a method-channel command to a player on the daemon.

Arguments after the method become request fields. Numeric values are
sent as numbers.

Examples:
  fijkctl send 1 setDataSource url=https://example.com/live.m3u8
  fijkctl send 1 prepareAsync
  fijkctl send 1 seekTo msec=30000
  fijkctl send 1 setOption cat=0 key=request-screen-on value=1`,
	Args: cobra.MinimumNArgs(2),
	RunE: runSendCmd,
}

var diagnosticsCmd = &cobra.Command{
	Use:   "diagnostics",
	Short: "Show unknown event codes and handler failures",
	Args:  cobra.NoArgs,
	RunE:  runDiagnosticsCmd,
}

var releaseCmd = &cobra.Command{
	Use:   "release <player>",
	Short: "Release a player",
	Args:  cobra.ExactArgs(1),
	RunE:  runReleaseCmd,
}

func init() {
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(playersCmd)
	rootCmd.AddCommand(sendCmd)
	rootCmd.AddCommand(releaseCmd)
	rootCmd.AddCommand(diagnosticsCmd)
}

func runDiagnosticsCmd(_ *cobra.Command, _ []string) error {
	d, err := NewClient(serverURL).Diagnostics()
	if err != nil {
		return fmt.Errorf("failed to get diagnostics: %w", err)
	}

	if jsonOutput {
		printJSON(d)
		return nil
	}

	if d.TotalUnknown == 0 && d.TotalFailed == 0 {
		fmt.Println("No protocol problems seen.")
		return nil
	}
	for _, u := range d.Unknown {
		fmt.Printf("unknown code %-8d seen %d times (players %v)\n", u.Code, u.Count, u.Players)
	}
	for name, n := range d.HandlerFailed {
		fmt.Printf("handler %-24s failed %d times\n", name, n)
	}
	return nil
}

func runStatusCmd(_ *cobra.Command, _ []string) error {
	health, err := NewClient(serverURL).Health()
	if err != nil {
		return fmt.Errorf("status check failed: %w", err)
	}

	if jsonOutput {
		printJSON(health)
		return nil
	}

	fmt.Printf("Server:     %s (%s)\n", serverURL, health.Status)
	fmt.Printf("Players:    %d (%d playing)\n", health.Players, health.Playing)
	fmt.Printf("Hosts:      %d\n", health.Clients)
	if health.Dropped > 0 {
		fmt.Printf("Dropped:    %d events\n", health.Dropped)
	}
	return nil
}

func runPlayersCmd(_ *cobra.Command, _ []string) error {
	players, err := NewClient(serverURL).Players()
	if err != nil {
		return fmt.Errorf("failed to list players: %w", err)
	}

	if jsonOutput {
		printJSON(players)
		return nil
	}

	if len(players) == 0 {
		fmt.Println("No players")
		return nil
	}
	fmt.Printf("  %-6s %s\n", "ID", "STATE")
	fmt.Println("  " + strings.Repeat("-", 24))
	for _, p := range players {
		fmt.Printf("  %-6d %s\n", p.ID, p.State)
	}
	return nil
}

func runSendCmd(_ *cobra.Command, args []string) error {
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid player ID: %s", args[0])
	}
	req, err := commandRequest(args[1], args[2:])
	if err != nil {
		return err
	}

	resp, err := NewClient(serverURL).Command(id, req)
	if err != nil {
		return fmt.Errorf("%s failed: %w", args[1], err)
	}

	if jsonOutput {
		printJSON(resp)
		return nil
	}
	fmt.Printf("Player %d: %s\n", resp.Player, resp.State)
	if resp.Position != nil {
		fmt.Printf("Position: %dms\n", *resp.Position)
	}
	return nil
}

// commandRequest builds a command body from a method and key=value pairs.
func commandRequest(method string, pairs []string) (map[string]any, error) {
	req := map[string]any{"method": method}
	for _, kv := range pairs {
		key, value, ok := strings.Cut(kv, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid argument %q, want key=value", kv)
		}
		if n, err := strconv.ParseInt(value, 10, 64); err == nil {
			req[key] = n
		} else if f, err := strconv.ParseFloat(value, 64); err == nil {
			req[key] = f
		} else {
			req[key] = value
		}
	}
	return req, nil
}

func runReleaseCmd(_ *cobra.Command, args []string) error {
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid player ID: %s", args[0])
	}
	if err := NewClient(serverURL).Release(id); err != nil {
		return fmt.Errorf("release failed: %w", err)
	}
	fmt.Printf("Released player %d\n", id)
	return nil
}
