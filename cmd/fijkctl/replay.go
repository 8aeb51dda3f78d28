package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/vmunix/fijkbridge/internal/dispatch"
	"github.com/vmunix/fijkbridge/internal/sink"
	"github.com/vmunix/fijkbridge/internal/trace"
)

var replayCmd = &cobra.Command{
	Use:   "replay <trace.yaml>",
	Short: "Replay a native event trace and print host payloads",
	Long: `Replay a recorded native event trace through a dispatcher.

Each host message is printed as a JSON line. Unknown codes are reported
on stderr and do not stop the replay.`,
	Args: cobra.ExactArgs(1),
	RunE: runReplayCmd,
}

func init() {
	rootCmd.AddCommand(replayCmd)
	replayCmd.Flags().Bool("realtime", false, "Honour the delays recorded in the trace")
	replayCmd.Flags().String("log-level", "warn", "Log level (debug, info, warn, error)")
}

func runReplayCmd(cmd *cobra.Command, args []string) error {
	realtime, _ := cmd.Flags().GetBool("realtime")
	level, _ := cmd.Flags().GetString("log-level")

	t, err := trace.Load(args[0])
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: parseLogLevel(level)}))
	res, err := replay(ctx, t, os.Stdout, logger, trace.Options{RealTime: realtime})
	if err != nil {
		return err
	}

	for _, e := range res.Errors {
		fmt.Fprintf(os.Stderr, "warning: %v\n", e)
	}
	fmt.Fprintf(os.Stderr, "%d dispatched, %d unknown, %d failed\n", res.Dispatched, res.Unknown, res.Failed)
	return nil
}

// replay runs t through a fresh dispatcher writing JSON lines to w.
func replay(ctx context.Context, t *trace.Trace, w io.Writer, logger *slog.Logger, opts trace.Options) (trace.Result, error) {
	out := sink.NewWriterSink(w, t.Player)
	d := dispatch.New(dispatch.Config{
		PlayerID: t.Player,
		Sink:     out,
		Logger:   logger,
	})

	res, err := trace.Replay(ctx, t, d.Dispatch, opts)
	if err != nil {
		return res, fmt.Errorf("replay: %w", err)
	}
	if err := out.Err(); err != nil {
		return res, fmt.Errorf("write output: %w", err)
	}
	return res, nil
}
