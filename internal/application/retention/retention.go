// Package retention removes sign-in data that can no longer be used.
package retention

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/amirhosseinghanipour/launchpad/internal/application/ports"
)

// DefaultMagicLinkRetention keeps spent links around for a day for support lookups.
const DefaultMagicLinkRetention = 24 * time.Hour

// PurgeMagicLinks deletes links that expired, or were used, more than keepFor ago.
// keepFor <= 0 uses DefaultMagicLinkRetention.
func PurgeMagicLinks(ctx context.Context, links ports.MagicLinkStore, keepFor time.Duration, now time.Time) (int64, error) {
	if keepFor <= 0 {
		keepFor = DefaultMagicLinkRetention
	}
	return links.DeleteStale(ctx, now.Add(-keepFor))
}

// Run calls PurgeMagicLinks every interval until ctx is cancelled. Failures are logged and retried on the next tick.
func Run(ctx context.Context, links ports.MagicLinkStore, interval, keepFor time.Duration, log zerolog.Logger) {
	if interval <= 0 {
		interval = time.Hour
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			n, err := PurgeMagicLinks(ctx, links, keepFor, now)
			if err != nil {
				log.Warn().Err(err).Msg("purge magic links failed")
				continue
			}
			if n > 0 {
				log.Info().Int64("deleted", n).Msg("purged stale magic links")
			}
		}
	}
}
