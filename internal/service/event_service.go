package service

import (
	"context"
	"encoding/json"

	"github.com/collectivefm/collective-backend/internal/config"
	"github.com/collectivefm/collective-backend/internal/model"
	"github.com/collectivefm/collective-backend/internal/repository"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// EventService manages collective events.
type EventService struct {
	repo *repository.EventRepository
	rdb  *redis.Client
	log  zerolog.Logger
}

// NewEventService creates a new EventService.
func NewEventService(repo *repository.EventRepository, rdb *redis.Client, log zerolog.Logger) *EventService {
	return &EventService{
		repo: repo,
		rdb:  rdb,
		log:  log.With().Str("component", "event_service").Logger(),
	}
}

// ListPublic returns events filtered by kind (upcoming, past, all),
// cache-first.
func (s *EventService) ListPublic(ctx context.Context, kind model.EventKind) ([]model.Event, error) {
	key := config.CacheKey.PublicEventsKey(string(kind))

	if cached, err := s.rdb.Get(ctx, key).Result(); err == nil {
		var events []model.Event
		if err := json.Unmarshal([]byte(cached), &events); err == nil {
			return events, nil
		}
	}

	events, err := s.repo.ListByKind(ctx, kind)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(events); err == nil {
		if err := s.rdb.Set(ctx, key, data, publicCacheTTL).Err(); err != nil {
			s.log.Warn().Err(err).Msg("events cache write failed")
		}
	}
	return events, nil
}

// Get returns a single event.
func (s *EventService) Get(ctx context.Context, id int) (*model.Event, error) {
	event, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, ErrNotFound
	}
	return event, nil
}

// Create inserts a new event.
func (s *EventService) Create(ctx context.Context, req model.EventRequest) (*model.Event, error) {
	event := eventFromRequest(req)
	if err := s.repo.Create(ctx, event); err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	s.log.Info().Int("event_id", event.ID).Msg("event created")
	return event, nil
}

// Update replaces an event's fields.
func (s *EventService) Update(ctx context.Context, id int, req model.EventRequest) (*model.Event, error) {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return nil, ErrNotFound
	}

	event := eventFromRequest(req)
	event.ID = id
	if err := s.repo.Update(ctx, event); err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	return event, nil
}

// Delete removes an event.
func (s *EventService) Delete(ctx context.Context, id int) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return ErrNotFound
	}
	s.invalidate(ctx)
	s.log.Info().Int("event_id", id).Msg("event deleted")
	return nil
}

func (s *EventService) invalidate(ctx context.Context) {
	keys := []string{
		config.CacheKey.PublicEventsKey(string(model.EventKindUpcoming)),
		config.CacheKey.PublicEventsKey(string(model.EventKindPast)),
		config.CacheKey.PublicEventsKey(string(model.EventKindAll)),
	}
	if err := s.rdb.Del(ctx, keys...).Err(); err != nil {
		s.log.Warn().Err(err).Msg("events cache invalidation failed")
	}
}

func eventFromRequest(req model.EventRequest) *model.Event {
	event := &model.Event{
		Title:       req.Title,
		Description: req.Description,
		Image:       req.Image,
	}
	if d := parseDate(req.Date); d != nil {
		event.Date = *d
	}
	return event
}
