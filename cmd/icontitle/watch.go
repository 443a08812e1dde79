package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"icontitle/internal/watcher"
)

func newWatchCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Re-run the merge whenever an input catalog changes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveConfig(cmd, opts)
			if err != nil {
				return err
			}
			out := newOutput(cmd, opts)

			handler := func() error {
				if _, err := runOnce(cfg, out); err != nil {
					out.Error("%v", err)
					return err
				}
				out.Status("Watching %s and %s (last run %s)",
					cfg.ReferenceFile, cfg.CatalogFile, time.Now().Format("15:04:05"))
				return nil
			}

			w := watcher.New(&watcher.WatchConfig{
				Debounce:  cfg.Watch.Debounce(),
				Stability: cfg.Watch.Stability(),
				OnError: func(err error) {
					out.Warn("watch: %v", err)
				},
			}, handler)
			if err := w.Start([]string{cfg.ReferenceFile, cfg.CatalogFile}); err != nil {
				return fmt.Errorf("failed to start watcher: %w", err)
			}

			w.RunNow()

			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
			<-sigCh
			signal.Stop(sigCh)

			summary := w.Stop()
			out.ClearStatus()
			out.Info("Stopped after %s: %d runs, %d failed",
				summary.Duration.Round(time.Second), summary.Runs, summary.Failures)
			return nil
		},
	}
}
