package catalog

// scheduler.go re-fetches the catalog in the background.
//
// The scheduler is long-running and context-aware for graceful shutdown.
// A failed refresh is logged by the fetcher and leaves the previous
// snapshot in place; it never stops the loop.

import (
	"context"
	"log/slog"
	"time"
)

// StartRefreshScheduler fetches the catalog every interval until ctx is
// cancelled. It does not fetch immediately; the initial load is the
// caller's job.
func (f *Fetcher) StartRefreshScheduler(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}

	slog.Info("catalog refresh scheduler started", "interval", interval)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("catalog refresh scheduler stopped")
			return
		case <-ticker.C:
			f.runRefresh(ctx)
		}
	}
}

// runRefresh performs one scheduled fetch.
func (f *Fetcher) runRefresh(ctx context.Context) {
	result, err := f.Fetch(ctx)
	if err != nil {
		// Already logged with fetch_id by the fetcher.
		return
	}
	slog.Debug("scheduled catalog refresh completed",
		"generation", result.Generation,
		"count", result.Count,
		"shared", result.Shared,
	)
}
