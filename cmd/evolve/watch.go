package main

import (
	"context"
	"fmt"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
)

func newWatchCmd(a *app) *cobra.Command {
	var debounce time.Duration
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Regenerate whenever the script changes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return a.watch(ctx, debounce, func() {
				out, err := a.generate(ctx)
				if err != nil {
					a.logger.Error("generation failed", "error", err)
					return
				}
				printOutput(cmd.OutOrStdout(), out)
			})
		},
	}
	cmd.Flags().DurationVar(&debounce, "debounce", 200*time.Millisecond, "quiet period before regenerating")
	return cmd
}

// watch runs fn once, then again after every burst of writes to the script,
// until ctx is done. The directory of the script is watched so that editors
// replacing the file are noticed.
func (a *app) watch(ctx context.Context, debounce time.Duration, fn func()) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer w.Close()
	script := filepath.Clean(a.cfg.Script)
	if err := w.Add(filepath.Dir(script)); err != nil {
		return fmt.Errorf("watching %s: %w", script, err)
	}
	a.logger.Info("watching script", "path", script)
	fn()

	timer := time.NewTimer(debounce)
	timer.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != script || !(ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create)) {
				continue
			}
			a.logger.Debug("script changed", "op", ev.Op.String())
			timer.Reset(debounce)
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			a.logger.Warn("watch error", "error", err)
		case <-timer.C:
			fn()
		}
	}
}
