package services

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/fairwaylabs/trip-system/models"
	"github.com/fairwaylabs/trip-system/repositories"
	"github.com/fairwaylabs/trip-system/storage"
)

const (
	inviteTokenLength = 16                  // token length in bytes (32 hex characters)
	inviteDuration    = 14 * 24 * time.Hour // invites stay valid for two weeks
)

var ErrInviteTokenGeneration = errors.New("failed to generate unique invite token")

// RosterService manages who is on a trip: direct membership changes plus the
// email invite flow that feeds new members in.
type RosterService interface {
	ListMembers(ctx context.Context, tripID int) ([]models.Member, error)
	SetMemberRole(ctx context.Context, tripID, memberID, actorID int, role models.MemberRole) (*models.Member, error)
	AssignTeam(ctx context.Context, tripID, memberID, actorID int, teamID *int) (*models.Member, error)
	RemoveMember(ctx context.Context, tripID, memberID, actorID int) error

	InviteByEmail(ctx context.Context, tripID, actorID int, email string) (*models.Invite, error)
	ListInvites(ctx context.Context, tripID, actorID int) ([]*models.Invite, error)
	GetInviteByToken(ctx context.Context, token string) (*models.Invite, error)
	AcceptInvite(ctx context.Context, token string, userID int) (*models.Member, error)
	DeclineInvite(ctx context.Context, token string, userID int) error
	RevokeInvite(ctx context.Context, inviteID, actorID int) error
	CleanupExpiredInvites(ctx context.Context) (int64, error)
}

type rosterService struct {
	db           *sql.DB
	tripRepo     repositories.TripRepository
	memberRepo   repositories.MemberRepository
	teamRepo     repositories.TeamRepository
	userRepo     repositories.UserRepository
	inviteRepo   repositories.InviteRepository
	emailService *EmailService
	uploader     storage.FileUploader
	publicURL    string
}

func NewRosterService(
	db *sql.DB,
	tripRepo repositories.TripRepository,
	memberRepo repositories.MemberRepository,
	teamRepo repositories.TeamRepository,
	userRepo repositories.UserRepository,
	inviteRepo repositories.InviteRepository,
	emailService *EmailService,
	uploader storage.FileUploader,
	publicURL string,
) RosterService {
	return &rosterService{
		db:           db,
		tripRepo:     tripRepo,
		memberRepo:   memberRepo,
		teamRepo:     teamRepo,
		userRepo:     userRepo,
		inviteRepo:   inviteRepo,
		emailService: emailService,
		uploader:     uploader,
		publicURL:    publicURL,
	}
}

func generateSecureToken(length int) (string, error) {
	bytes := make([]byte, length)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return hex.EncodeToString(bytes), nil
}

func (s *rosterService) ListMembers(ctx context.Context, tripID int) ([]models.Member, error) {
	if _, err := s.getTrip(ctx, tripID); err != nil {
		return nil, err
	}
	members, err := s.memberRepo.ListByTripID(ctx, tripID)
	if err != nil {
		return nil, fmt.Errorf("failed to list members for trip %d: %w", tripID, err)
	}
	populateMemberListDetailsFunc(members, s.uploader)
	return members, nil
}

func (s *rosterService) SetMemberRole(ctx context.Context, tripID, memberID, actorID int, role models.MemberRole) (*models.Member, error) {
	switch role {
	case models.MemberRolePlayer, models.MemberRoleCaptain:
	default:
		return nil, fmt.Errorf("%w: unknown member role %q", ErrValidationFailed, role)
	}

	member, err := s.getMemberInTrip(ctx, tripID, memberID)
	if err != nil {
		return nil, err
	}
	if err := s.requireOrganizer(ctx, tripID, actorID); err != nil {
		return nil, err
	}

	if err := s.memberRepo.UpdateRole(ctx, memberID, role); err != nil {
		if errors.Is(err, repositories.ErrMemberNotFound) {
			return nil, ErrMemberNotFound
		}
		return nil, fmt.Errorf("failed to update role of member %d: %w", memberID, err)
	}
	member.Role = role
	return member, nil
}

// AssignTeam moves a member onto a team, or off every team when teamID is
// nil. Manual assignment is the fallback for groups that skip the draft, so
// it is only allowed while the trip is still in planning.
func (s *rosterService) AssignTeam(ctx context.Context, tripID, memberID, actorID int, teamID *int) (*models.Member, error) {
	trip, err := s.getTrip(ctx, tripID)
	if err != nil {
		return nil, err
	}
	if trip.OrganizerID != actorID {
		return nil, ErrOrganizerOnly
	}
	if trip.Status != models.TripStatusPlanning {
		return nil, ErrTripNotInPlanning
	}

	member, err := s.getMemberInTrip(ctx, tripID, memberID)
	if err != nil {
		return nil, err
	}

	if teamID != nil {
		team, err := s.teamRepo.GetByID(ctx, *teamID)
		if err != nil {
			if errors.Is(err, repositories.ErrTeamNotFound) {
				return nil, ErrTeamNotFound
			}
			return nil, fmt.Errorf("failed to get team %d: %w", *teamID, err)
		}
		if team.TripID != tripID {
			return nil, ErrTeamNotFound
		}
	}

	if err := s.memberRepo.SetTeam(ctx, nil, memberID, teamID); err != nil {
		switch {
		case errors.Is(err, repositories.ErrMemberNotFound):
			return nil, ErrMemberNotFound
		case errors.Is(err, repositories.ErrMemberTeamInvalid):
			return nil, ErrTeamNotFound
		}
		return nil, fmt.Errorf("failed to assign member %d to team: %w", memberID, err)
	}
	member.TeamID = teamID
	return member, nil
}

func (s *rosterService) RemoveMember(ctx context.Context, tripID, memberID, actorID int) error {
	trip, err := s.getTrip(ctx, tripID)
	if err != nil {
		return err
	}

	member, err := s.getMemberInTrip(ctx, tripID, memberID)
	if err != nil {
		return err
	}

	// Organizers can remove anyone, members can remove themselves. The
	// organizer's own membership is permanent for the life of the trip.
	if actorID != trip.OrganizerID && actorID != member.UserID {
		return ErrForbiddenOperation
	}
	if member.UserID == trip.OrganizerID {
		return ErrForbiddenOperation
	}

	if err := s.memberRepo.Delete(ctx, memberID); err != nil {
		if errors.Is(err, repositories.ErrMemberNotFound) {
			return ErrMemberNotFound
		}
		return fmt.Errorf("failed to remove member %d: %w", memberID, err)
	}
	return nil
}

func (s *rosterService) InviteByEmail(ctx context.Context, tripID, actorID int, email string) (*models.Invite, error) {
	trip, err := s.getTrip(ctx, tripID)
	if err != nil {
		return nil, err
	}
	if trip.OrganizerID != actorID {
		return nil, ErrOrganizerOnly
	}

	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, fmt.Errorf("%w: a valid email address is required", ErrValidationFailed)
	}

	// If the address already belongs to a member there is nothing to invite.
	if user, err := s.userRepo.GetByEmail(ctx, email); err == nil {
		if _, err := s.memberRepo.GetByTripAndUser(ctx, tripID, user.ID); err == nil {
			return nil, ErrMemberAlreadyInTrip
		}
	}

	var invite *models.Invite
	maxAttempts := 3

	for attempt := 0; attempt < maxAttempts; attempt++ {
		token, err := generateSecureToken(inviteTokenLength)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInviteTokenGeneration, err)
		}

		invite = &models.Invite{
			TripID:    tripID,
			Email:     email,
			Token:     token,
			Status:    models.InviteStatusPending,
			ExpiresAt: time.Now().Add(inviteDuration),
		}

		err = s.inviteRepo.Create(ctx, invite)
		if err == nil {
			s.sendInviteEmail(trip, invite)
			return invite, nil
		}

		if errors.Is(err, repositories.ErrInviteTokenConflict) {
			continue // token collision, roll a new one
		}
		switch {
		case errors.Is(err, repositories.ErrInviteEmailConflict):
			return nil, ErrInviteEmailConflict
		case errors.Is(err, repositories.ErrInviteTripInvalid):
			return nil, ErrTripNotFound
		}
		return nil, fmt.Errorf("failed to create invite: %w", err)
	}

	return nil, fmt.Errorf("%w after %d attempts", ErrInviteTokenGeneration, maxAttempts)
}

// sendInviteEmail is best-effort: a dead SMTP relay must not lose the invite,
// the organizer can still share the link by hand.
func (s *rosterService) sendInviteEmail(trip *models.Trip, invite *models.Invite) {
	if s.emailService == nil {
		return
	}

	organizerName := "the trip organizer"
	if organizer, err := s.userRepo.GetByID(context.Background(), trip.OrganizerID); err == nil {
		organizerName = organizer.DisplayName()
	}

	inviteLink := fmt.Sprintf("%s/invites/%s", s.publicURL, invite.Token)
	if err := s.emailService.SendTripInviteEmail(invite.Email, trip.Name, organizerName, inviteLink); err != nil {
		log.Printf("Failed to send invite email to %s for trip %d: %v", invite.Email, trip.ID, err)
	}
}

func (s *rosterService) ListInvites(ctx context.Context, tripID, actorID int) ([]*models.Invite, error) {
	trip, err := s.getTrip(ctx, tripID)
	if err != nil {
		return nil, err
	}
	if trip.OrganizerID != actorID {
		return nil, ErrOrganizerOnly
	}

	invites, err := s.inviteRepo.ListByTripID(ctx, tripID)
	if err != nil {
		return nil, fmt.Errorf("failed to list invites for trip %d: %w", tripID, err)
	}

	// Hide pending invites that have already lapsed; the cleanup sweep will
	// delete them eventually.
	active := make([]*models.Invite, 0, len(invites))
	now := time.Now()
	for _, invite := range invites {
		if invite.Status == models.InviteStatusPending && invite.Expired(now) {
			continue
		}
		active = append(active, invite)
	}
	return active, nil
}

func (s *rosterService) GetInviteByToken(ctx context.Context, token string) (*models.Invite, error) {
	invite, err := s.inviteRepo.GetByToken(ctx, token)
	if err != nil {
		if errors.Is(err, repositories.ErrInviteNotFound) {
			return nil, ErrInviteNotFound
		}
		return nil, fmt.Errorf("failed to get invite by token: %w", err)
	}

	if invite.Status != models.InviteStatusPending {
		return nil, ErrInviteAlreadyHandled
	}
	if invite.Expired(time.Now()) {
		return nil, ErrInviteExpired
	}

	return invite, nil
}

// AcceptInvite turns a pending invite into a trip membership. The membership
// insert and the invite status flip happen in one transaction so a crash
// cannot leave a consumed invite without a member.
func (s *rosterService) AcceptInvite(ctx context.Context, token string, userID int) (*models.Member, error) {
	invite, err := s.GetInviteByToken(ctx, token)
	if err != nil {
		return nil, err
	}

	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user %d: %w", userID, err)
	}

	if _, err := s.memberRepo.GetByTripAndUser(ctx, invite.TripID, userID); err == nil {
		return nil, ErrMemberAlreadyInTrip
	} else if !errors.Is(err, repositories.ErrMemberNotFound) {
		return nil, fmt.Errorf("failed to check existing membership: %w", err)
	}

	member := &models.Member{
		TripID: invite.TripID,
		UserID: userID,
		Role:   models.MemberRolePlayer,
	}

	err = runInTx(ctx, s.db, func(tx *sql.Tx) error {
		if err := s.memberRepo.Create(ctx, tx, member); err != nil {
			if errors.Is(err, repositories.ErrMemberConflict) {
				return ErrMemberAlreadyInTrip
			}
			return fmt.Errorf("failed to create membership: %w", err)
		}
		if err := s.inviteRepo.UpdateStatus(ctx, tx, invite.ID, models.InviteStatusAccepted); err != nil {
			return fmt.Errorf("failed to mark invite %d accepted: %w", invite.ID, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return member, nil
}

func (s *rosterService) DeclineInvite(ctx context.Context, token string, userID int) error {
	invite, err := s.GetInviteByToken(ctx, token)
	if err != nil {
		return err
	}

	if err := s.inviteRepo.UpdateStatus(ctx, nil, invite.ID, models.InviteStatusDeclined); err != nil {
		if errors.Is(err, repositories.ErrInviteNotFound) {
			return ErrInviteNotFound
		}
		return fmt.Errorf("failed to decline invite %d: %w", invite.ID, err)
	}
	return nil
}

func (s *rosterService) RevokeInvite(ctx context.Context, inviteID, actorID int) error {
	invite, err := s.inviteRepo.GetByID(ctx, inviteID)
	if err != nil {
		if errors.Is(err, repositories.ErrInviteNotFound) {
			return ErrInviteNotFound
		}
		return fmt.Errorf("failed to get invite %d: %w", inviteID, err)
	}

	if err := s.requireOrganizer(ctx, invite.TripID, actorID); err != nil {
		return err
	}

	if err := s.inviteRepo.Delete(ctx, inviteID); err != nil {
		if errors.Is(err, repositories.ErrInviteNotFound) {
			return ErrInviteNotFound
		}
		return fmt.Errorf("failed to delete invite %d: %w", inviteID, err)
	}
	return nil
}

func (s *rosterService) CleanupExpiredInvites(ctx context.Context) (int64, error) {
	deleted, err := s.inviteRepo.DeleteExpired(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired invites: %w", err)
	}
	return deleted, nil
}

func (s *rosterService) getTrip(ctx context.Context, tripID int) (*models.Trip, error) {
	trip, err := s.tripRepo.GetByID(ctx, tripID)
	if err != nil {
		if errors.Is(err, repositories.ErrTripNotFound) {
			return nil, ErrTripNotFound
		}
		return nil, fmt.Errorf("failed to get trip %d: %w", tripID, err)
	}
	return trip, nil
}

func (s *rosterService) getMemberInTrip(ctx context.Context, tripID, memberID int) (*models.Member, error) {
	member, err := s.memberRepo.GetByID(ctx, memberID)
	if err != nil {
		if errors.Is(err, repositories.ErrMemberNotFound) {
			return nil, ErrMemberNotFound
		}
		return nil, fmt.Errorf("failed to get member %d: %w", memberID, err)
	}
	if member.TripID != tripID {
		return nil, ErrMemberNotFound
	}
	return member, nil
}

func (s *rosterService) requireOrganizer(ctx context.Context, tripID, actorID int) error {
	trip, err := s.getTrip(ctx, tripID)
	if err != nil {
		return err
	}
	if trip.OrganizerID != actorID {
		return ErrOrganizerOnly
	}
	return nil
}
