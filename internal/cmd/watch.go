package cmd

import (
	"context"
	"log/slog"
	"time"

	"github.com/radovskyb/watcher"
	"github.com/turbot/bqpipe/internal/perr"
)

const watchInterval = 100 * time.Millisecond

// watchFile runs compile once, then again on every change to path until ctx is done.
// Compile failures while watching are shown and do not stop the watch.
func watchFile(ctx context.Context, path string, compile func() error) error {
	if err := compile(); err != nil {
		ShowError(ctx, err)
	}

	w := watcher.New()
	// Only get one event per watching period. Avoids unnecessary recompiles.
	w.SetMaxEvents(1)
	w.FilterOps(watcher.Write, watcher.Create)

	if err := w.Add(path); err != nil {
		return perr.ConfigurationErrorWithMessage("failed to watch " + path + ": " + err.Error())
	}

	go func() {
		for {
			select {
			case event := <-w.Event:
				slog.Debug("document changed", "path", event.Path, "op", event.Op.String())
				if err := compile(); err != nil {
					ShowError(ctx, err)
				}
			case err := <-w.Error:
				slog.Error("file watcher error", "error", err)
			case <-ctx.Done():
				w.Close()
				return
			case <-w.Closed:
				return
			}
		}
	}()

	if err := w.Start(watchInterval); err != nil {
		return perr.InternalWithMessage("file watcher stopped: " + err.Error())
	}
	return nil
}
