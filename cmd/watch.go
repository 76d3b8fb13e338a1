package cmd

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"content-manager/core/content"
	"content-manager/core/watcher"
	"content-manager/feature/update"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var watchDebounce time.Duration

// watchCmd updates the database every time a branch moves.
var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Update the database whenever the repository gets new commits",
	Long: `Watch the git references of the content repository and run an update,
from the last synchronized revision to HEAD, after every commit, merge or pull.`,
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().DurationVar(&watchDebounce, "debounce", watcher.DefaultDebounce, "Quiet period before updating")
	RootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	env, err := setup(ctx)
	if err != nil {
		return err
	}
	defer env.close()

	rw, err := watcher.New(env.repo.Path(), watchDebounce)
	if err != nil {
		return err
	}
	if err := rw.Start(); err != nil {
		return err
	}
	defer rw.Stop()

	l := env.logger
	l.Info("Watching repository", zap.Duration("debounce", watchDebounce))

	// Catch up with commits made while not watching
	watchUpdate(ctx, env.service, l)

	for {
		select {
		case <-ctx.Done():
			l.Info("Stopped watching")
			return nil
		case err := <-rw.Errors():
			l.Warn("Watcher error", zap.Error(err))
		case <-rw.Changes():
			watchUpdate(ctx, env.service, l)
		}
	}
}

func watchUpdate(ctx context.Context, svc *update.Service, l *zap.Logger) {
	resp, err := svc.Update(ctx, update.Request{})
	switch {
	case err == nil:
		if resp.Committed && resp.Summary != (content.PlanSummary{}) {
			l.Info("Update committed",
				zap.String("run_id", resp.RunID),
				zap.String("until", resp.Until),
				zap.Int("added", resp.Summary.Added),
				zap.Int("modified", resp.Summary.Modified),
				zap.Int("renamed", resp.Summary.Renamed),
				zap.Int("deleted", resp.Summary.Deleted))
		}
	case errors.Is(err, content.ErrRunInProgress):
		l.Info("Update skipped, another run holds the lock")
	case isItemFailure(err):
		l.Warn("Update failed", zap.String("run_id", resp.RunID), zap.Error(err))
	default:
		l.Error("Update failed", zap.Error(err))
	}
}
