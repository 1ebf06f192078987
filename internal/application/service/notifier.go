package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/sangkips/posdelivery-api/internal/infrastructure/cache"
	"github.com/sangkips/posdelivery-api/internal/infrastructure/realtime"
)

// notifier runs after a write has committed: it tells websocket clients what
// changed and drops cached dashboard numbers.
type notifier struct {
	events realtime.Broadcaster
	stats  cache.StatsCache
	log    zerolog.Logger
}

func newNotifier(events realtime.Broadcaster, stats cache.StatsCache, log zerolog.Logger) notifier {
	if events == nil {
		events = realtime.NopBroadcaster{}
	}
	if stats == nil {
		stats = cache.NoopStatsCache{}
	}
	return notifier{events: events, stats: stats, log: log}
}

func (n notifier) publish(ctx context.Context, eventType string, transactionID uuid.UUID, payload any) {
	n.events.Publish(realtime.Event{
		Type:          eventType,
		TransactionID: transactionID,
		Payload:       payload,
		At:            time.Now().UTC(),
	})
	n.invalidate(ctx)
}

func (n notifier) invalidate(ctx context.Context) {
	if err := n.stats.Invalidate(ctx); err != nil {
		n.log.Warn().Err(err).Msg("invalidate dashboard cache")
	}
}
