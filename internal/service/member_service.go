package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/collectivefm/collective-backend/internal/config"
	"github.com/collectivefm/collective-backend/internal/model"
	"github.com/collectivefm/collective-backend/internal/repository"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// ErrAccountArchived marks a member whose linked admin account was deleted.
// The profile row survives for the archive view but is gone from listings
// and direct lookups.
var ErrAccountArchived = errors.New("account archived")

const publicCacheTTL = 5 * time.Minute

// MemberService manages collective member profiles.
type MemberService struct {
	repo *repository.MemberRepository
	rdb  *redis.Client
	log  zerolog.Logger
}

// NewMemberService creates a new MemberService.
func NewMemberService(repo *repository.MemberRepository, rdb *redis.Client, log zerolog.Logger) *MemberService {
	return &MemberService{
		repo: repo,
		rdb:  rdb,
		log:  log.With().Str("component", "member_service").Logger(),
	}
}

// ListPublic returns the public roster, cache-first. Archived profiles are
// excluded at the query level.
func (s *MemberService) ListPublic(ctx context.Context) ([]model.PublicMember, error) {
	key := config.CacheKey.PublicMembersKey()

	if cached, err := s.rdb.Get(ctx, key).Result(); err == nil {
		var members []model.PublicMember
		if err := json.Unmarshal([]byte(cached), &members); err == nil {
			return members, nil
		}
	}

	members, err := s.repo.ListPublic(ctx)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(members); err == nil {
		if err := s.rdb.Set(ctx, key, data, publicCacheTTL).Err(); err != nil {
			s.log.Warn().Err(err).Msg("public members cache write failed")
		}
	}
	return members, nil
}

// GetPublic returns a single public profile with contact-routing fields
// stripped. Archived members read as not found so the public site never
// exposes them.
func (s *MemberService) GetPublic(ctx context.Context, id int) (*model.Member, error) {
	key := config.CacheKey.PublicMemberKey(id)

	if cached, err := s.rdb.Get(ctx, key).Result(); err == nil {
		var member model.Member
		if err := json.Unmarshal([]byte(cached), &member); err == nil {
			return &member, nil
		}
	}

	member, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, ErrNotFound
	}
	if member.Archived {
		return nil, ErrAccountArchived
	}

	// The relay endpoint is the only way to reach a member; the address
	// itself never leaves the backend.
	member.Email = ""
	member.AdminID = nil

	if data, err := json.Marshal(member); err == nil {
		if err := s.rdb.Set(ctx, key, data, publicCacheTTL).Err(); err != nil {
			s.log.Warn().Err(err).Msg("public member cache write failed")
		}
	}
	return member, nil
}

// List returns every profile for the back office, archived ones included.
func (s *MemberService) List(ctx context.Context) ([]model.Member, error) {
	return s.repo.List(ctx)
}

// Get returns a single profile for the back office. Archived profiles
// surface as a distinct state so the UI can label them.
func (s *MemberService) Get(ctx context.Context, id int) (*model.Member, error) {
	member, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, ErrNotFound
	}
	if member.Archived {
		return nil, ErrAccountArchived
	}
	return member, nil
}

// Create inserts a new profile. Embed snippets are sanitized before storage;
// anything that does not reduce to a whitelisted player iframe is dropped.
func (s *MemberService) Create(ctx context.Context, req model.MemberRequest) (*model.Member, error) {
	member := memberFromRequest(req)
	if err := s.repo.Create(ctx, member); err != nil {
		return nil, err
	}
	s.InvalidatePublic(ctx, member.ID)
	s.log.Info().Int("member_id", member.ID).Msg("member created")
	return member, nil
}

// Update replaces a profile's editable fields and returns the stored row,
// admin link and timestamps included.
func (s *MemberService) Update(ctx context.Context, id int, req model.MemberRequest) (*model.Member, error) {
	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, ErrNotFound
	}
	if existing.Archived {
		return nil, ErrAccountArchived
	}

	member := memberFromRequest(req)
	member.ID = id
	if err := s.repo.Update(ctx, member); err != nil {
		return nil, err
	}
	s.InvalidatePublic(ctx, id)
	return member, nil
}

// Delete removes a profile row entirely. Distinct from archival: archival
// happens implicitly when the linked admin account is deleted.
func (s *MemberService) Delete(ctx context.Context, id int) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return ErrNotFound
	}
	s.InvalidatePublic(ctx, id)
	s.log.Info().Int("member_id", id).Msg("member deleted")
	return nil
}

// InvalidatePublic drops the cached public copies of one profile together
// with the roster. Exported because the credential lifecycle archives
// profiles through its own transaction and must expire the public view too.
func (s *MemberService) InvalidatePublic(ctx context.Context, id int) {
	keys := []string{
		config.CacheKey.PublicMembersKey(),
		config.CacheKey.PublicMemberKey(id),
	}
	if err := s.rdb.Del(ctx, keys...).Err(); err != nil {
		s.log.Warn().Err(err).Msg("public member cache invalidation failed")
	}
}

// InvalidatePublicRoster drops only the cached roster, for writes that add a
// profile no visitor could have fetched individually yet.
func (s *MemberService) InvalidatePublicRoster(ctx context.Context) {
	if err := s.rdb.Del(ctx, config.CacheKey.PublicMembersKey()).Err(); err != nil {
		s.log.Warn().Err(err).Msg("public roster cache invalidation failed")
	}
}

func memberFromRequest(req model.MemberRequest) *model.Member {
	return &model.Member{
		Name:                 req.Name,
		Role:                 req.Role,
		Email:                req.Email,
		Genres:               req.Genres,
		Bio:                  req.Bio,
		JoinDate:             parseDate(req.JoinDate),
		City:                 req.City,
		Country:              req.Country,
		Instagram:            req.Instagram,
		Soundcloud:           req.Soundcloud,
		Spotify:              req.Spotify,
		Bandcamp:             req.Bandcamp,
		Photo:                req.Photo,
		PortfolioLink:        req.PortfolioLink,
		PortfolioDescription: req.PortfolioDescription,
		PortfolioImages:      req.PortfolioImages,
		SoundcloudEmbeds:     sanitizeEmbeds(req.SoundcloudEmbeds, "soundcloud"),
		SpotifyEmbeds:        sanitizeEmbeds(req.SpotifyEmbeds, "spotify"),
	}
}
