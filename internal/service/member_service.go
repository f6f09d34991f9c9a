package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/jhnmartin/join-gradient/internal/client"
	"github.com/jhnmartin/join-gradient/internal/domain"
	"github.com/jhnmartin/join-gradient/pkg/logger"
)

// Member outcome actions
const (
	MemberActionAdded    = "added"
	MemberActionRemoved  = "removed"
	MemberActionSkipped  = "skipped"
	MemberActionNotFound = "not_found"
)

// MemberOutcome reports what a member sync accomplished
type MemberOutcome struct {
	Action    string
	ProfileID string
}

// MemberService keeps the marketing list aligned with coworking membership.
// Only forward signals are handled: a member whose status later returns to
// active is not re-added.
type MemberService interface {
	MemberCreated(ctx context.Context, m *domain.MemberProfile) (*MemberOutcome, error)
	MemberUpdated(ctx context.Context, m *domain.MemberProfile) (*MemberOutcome, error)
}

type memberService struct {
	klaviyo client.KlaviyoClient
	listID  string
	log     *logger.Logger
}

// NewMemberService creates a new MemberService
func NewMemberService(klaviyo client.KlaviyoClient, listID string, log *logger.Logger) MemberService {
	if log == nil {
		log = logger.Get()
	}
	return &memberService{
		klaviyo: klaviyo,
		listID:  listID,
		log:     log,
	}
}

// MemberCreated upserts a marketing profile and adds it to the members list
func (s *memberService) MemberCreated(ctx context.Context, m *domain.MemberProfile) (*MemberOutcome, error) {
	if m.Email == "" {
		return nil, ErrMissingEmail
	}

	profileID, err := s.klaviyo.ImportProfile(ctx, m.Email)
	if err != nil {
		return nil, err
	}

	if err := s.klaviyo.AddToList(ctx, s.listID, profileID); err != nil {
		return nil, err
	}

	s.log.InfoContext(ctx, "member added to marketing list",
		zap.String("email", m.Email),
		zap.String("profile_id", profileID))
	return &MemberOutcome{Action: MemberActionAdded, ProfileID: profileID}, nil
}

// MemberUpdated removes the profile from the list when the member's status
// moved away from active; an active or missing status is a no-op
func (s *memberService) MemberUpdated(ctx context.Context, m *domain.MemberProfile) (*MemberOutcome, error) {
	if m.Email == "" {
		return nil, ErrMissingEmail
	}

	if !m.ShouldRemoveFromList() {
		return &MemberOutcome{Action: MemberActionSkipped}, nil
	}

	profileID, err := s.klaviyo.FindProfileByEmail(ctx, m.Email)
	if err != nil {
		return nil, err
	}
	if profileID == "" {
		// Never on the list; nothing to remove
		return &MemberOutcome{Action: MemberActionNotFound}, nil
	}

	if err := s.klaviyo.RemoveFromList(ctx, s.listID, profileID); err != nil {
		return nil, err
	}

	s.log.InfoContext(ctx, "member removed from marketing list",
		zap.String("email", m.Email),
		zap.String("profile_id", profileID),
		zap.String("status", m.Status))
	return &MemberOutcome{Action: MemberActionRemoved, ProfileID: profileID}, nil
}
