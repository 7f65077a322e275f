package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/collectivefm/collective-backend/internal/config"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// ActivityEvent is one entry on the admin activity feed.
type ActivityEvent struct {
	Type string         `json:"type"`
	At   time.Time      `json:"at"`
	Data map[string]any `json:"data,omitempty"`
}

// ActivityService fans admin-relevant events out over a Redis channel. The
// websocket feed subscribes to the same channel, so every server instance
// sees every event regardless of which instance produced it.
type ActivityService struct {
	rdb *redis.Client
	log zerolog.Logger
}

// NewActivityService creates a new ActivityService.
func NewActivityService(rdb *redis.Client, log zerolog.Logger) *ActivityService {
	return &ActivityService{
		rdb: rdb,
		log: log.With().Str("component", "activity_service").Logger(),
	}
}

// Publish emits an event on the activity channel. Failures are logged and
// swallowed; the feed is best-effort and never blocks the triggering request.
func (s *ActivityService) Publish(ctx context.Context, eventType string, data map[string]any) {
	payload, err := json.Marshal(ActivityEvent{Type: eventType, At: time.Now(), Data: data})
	if err != nil {
		s.log.Error().Err(err).Str("type", eventType).Msg("activity event marshal failed")
		return
	}
	if err := s.rdb.Publish(ctx, config.CacheKey.AdminActivityChannel(), payload).Err(); err != nil {
		s.log.Warn().Err(err).Str("type", eventType).Msg("activity publish failed")
	}
}
