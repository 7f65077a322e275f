package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/collectivefm/collective-backend/internal/model"
	"github.com/collectivefm/collective-backend/internal/repository"
	"github.com/rs/zerolog"
)

// ErrMailDelivery means the relay accepted the form but the SMTP hop failed.
var ErrMailDelivery = errors.New("mail delivery failed")

// ContactService relays public contact-form submissions to a member's stored
// address without ever exposing that address to the sender.
type ContactService struct {
	members  *repository.MemberRepository
	mailer   Mailer
	activity *ActivityService
	log      zerolog.Logger
}

// NewContactService creates a new ContactService.
func NewContactService(members *repository.MemberRepository, mailer Mailer, activity *ActivityService, log zerolog.Logger) *ContactService {
	return &ContactService{
		members:  members,
		mailer:   mailer,
		activity: activity,
		log:      log.With().Str("component", "contact_service").Logger(),
	}
}

// Relay forwards a contact form to the member's registered address. The
// visitor's address rides in Reply-To so the member can answer directly.
// A missing or archived member reads as not found; the caller learns nothing
// about which of the two it was.
func (s *ContactService) Relay(ctx context.Context, memberID int, req model.ContactRequest) error {
	member, err := s.members.GetByID(ctx, memberID)
	if err != nil {
		return ErrNotFound
	}
	if member.Archived || member.Email == "" {
		return ErrNotFound
	}

	mail := Mail{
		To:      member.Email,
		ReplyTo: req.Email,
		Subject: fmt.Sprintf("Collective site: message from %s", req.Name),
		Body: fmt.Sprintf("You have a new message via your collective profile.\n\nFrom: %s <%s>\n\n%s\n",
			req.Name, req.Email, req.Message),
	}
	if err := s.mailer.Send(ctx, mail); err != nil {
		s.log.Error().Err(err).Int("member_id", memberID).Msg("contact relay delivery failed")
		return ErrMailDelivery
	}

	s.activity.Publish(ctx, "contact.relayed", map[string]any{
		"member_id":   memberID,
		"member_name": member.Name,
	})
	s.log.Info().Int("member_id", memberID).Msg("contact form relayed")
	return nil
}
