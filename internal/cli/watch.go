package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

// WatchOptions holds flags for the watch command.
type WatchOptions struct {
	*RootOptions

	// Count stops the watch after this many snapshots. Zero watches until
	// interrupted.
	Count int
}

// NewWatchCommand creates the watch command.
func NewWatchCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &WatchOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "watch <game-id>",
		Short: "Stream a game's state as it changes",
		Long: `Stream a game's state: its current snapshot, then every change.

Changes made by other processes are picked up every $TOUCHBASE_POLL_INTERVAL.
Press Ctrl-C to stop.

Example:
  touchbase watch 01923c5e-... --format json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWatch(opts, args[0], cmd)
		},
	}

	cmd.Flags().IntVar(&opts.Count, "count", 0, "stop after this many snapshots (0 = until interrupted)")

	return cmd
}

func runWatch(opts *WatchOptions, gameID string, cmd *cobra.Command) error {
	return withApp(opts.RootOptions, cmd, func(parent context.Context, a *app) error {
		ctx, cancel := context.WithCancel(parent)
		defer cancel()

		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
		defer signal.Stop(sigChan)

		go func() {
			select {
			case sig := <-sigChan:
				a.logger.Info("received signal, stopping watch", "signal", sig)
				cancel()
			case <-ctx.Done():
			}
		}()

		// The first snapshot proves the game exists.
		if _, err := a.svc.GetGame(ctx, gameID); err != nil {
			return err
		}

		games, err := a.svc.WatchGame(ctx, gameID)
		if err != nil {
			return err
		}

		seen := 0
		for g := range games {
			if err := a.out.Success(gameView{ID: g.ID, Game: g}, a.gameText(ctx, g)+"\n"); err != nil {
				return err
			}
			// Names may change between snapshots.
			a.names.Invalidate()
			seen++
			if opts.Count > 0 && seen >= opts.Count {
				cancel()
				break
			}
		}
		a.logger.Debug("watch stopped", "game", gameID, "snapshots", seen)
		return nil
	})
}
