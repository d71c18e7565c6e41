package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/fairwaylabs/trip-system/live"
	"github.com/fairwaylabs/trip-system/matchplay"
	"github.com/fairwaylabs/trip-system/models"
	"github.com/fairwaylabs/trip-system/repositories"
)

type OpenPressInput struct {
	Side          string `json:"side"`
	StartHole     int    `json:"start_hole"`
	ParentPressID *int   `json:"parent_press_id,omitempty"`
}

type PressService interface {
	Open(ctx context.Context, matchID, actorID int, input OpenPressInput) (*models.Press, error)
	ListByMatch(ctx context.Context, matchID int) ([]models.Press, error)
	Delete(ctx context.Context, pressID, actorID int) error
}

type pressService struct {
	pressRepo      repositories.PressRepository
	matchRepo      repositories.MatchRepository
	sessionRepo    repositories.SessionRepository
	tripRepo       repositories.TripRepository
	holeResultRepo repositories.HoleResultRepository
	hub            *live.Hub
}

func NewPressService(
	pressRepo repositories.PressRepository,
	matchRepo repositories.MatchRepository,
	sessionRepo repositories.SessionRepository,
	tripRepo repositories.TripRepository,
	holeResultRepo repositories.HoleResultRepository,
	hub *live.Hub,
) PressService {
	return &pressService{
		pressRepo:      pressRepo,
		matchRepo:      matchRepo,
		sessionRepo:    sessionRepo,
		tripRepo:       tripRepo,
		holeResultRepo: holeResultRepo,
		hub:            hub,
	}
}

// Open starts a press on a match. Eligibility follows the engine: the
// initiating side must be at least two down in the main match and there must
// be a hole left after the start. The start hole additionally has to lie
// beyond every recorded hole, a press only covers golf still to be played.
func (s *pressService) Open(ctx context.Context, matchID, actorID int, input OpenPressInput) (*models.Press, error) {
	match, err := s.matchRepo.GetByID(ctx, matchID)
	if err != nil {
		if errors.Is(err, repositories.ErrMatchNotFound) {
			return nil, ErrMatchNotFound
		}
		return nil, fmt.Errorf("failed to get match %d: %w", matchID, err)
	}

	players, err := s.matchRepo.ListPlayersByMatchID(ctx, matchID)
	if err != nil {
		return nil, fmt.Errorf("failed to list players for match %d: %w", matchID, err)
	}
	if err := s.requireInitiator(ctx, match.SessionID, actorID, players, input.Side); err != nil {
		return nil, err
	}

	holes, err := s.holeResultRepo.ListByMatchID(ctx, matchID)
	if err != nil {
		return nil, fmt.Errorf("failed to list hole results for match %d: %w", matchID, err)
	}
	results := toResults(holes)
	state, err := matchplay.ComputeState(match.TotalHoles, results)
	if err != nil {
		return nil, err
	}
	if err := matchplay.CanPress(state, matchplay.Side(input.Side), input.StartHole, match.TotalHoles); err != nil {
		return nil, err
	}
	for _, h := range holes {
		if h.Hole >= input.StartHole {
			return nil, fmt.Errorf("%w: hole %d is already recorded", matchplay.ErrPressNotEligible, h.Hole)
		}
	}

	if input.ParentPressID != nil {
		parent, err := s.pressRepo.GetByID(ctx, *input.ParentPressID)
		if err != nil {
			if errors.Is(err, repositories.ErrPressNotFound) {
				return nil, ErrPressNotFound
			}
			return nil, fmt.Errorf("failed to get parent press %d: %w", *input.ParentPressID, err)
		}
		if parent.MatchID != matchID {
			return nil, fmt.Errorf("%w: parent press rides on another match", ErrValidationFailed)
		}
		if parent.StartHole >= input.StartHole {
			return nil, fmt.Errorf("%w: a re-press must start after its parent", matchplay.ErrPressNotEligible)
		}
	}

	press := &models.Press{
		MatchID:       matchID,
		ParentPressID: input.ParentPressID,
		Side:          input.Side,
		StartHole:     input.StartHole,
	}
	if err := s.pressRepo.Create(ctx, nil, press); err != nil {
		return nil, fmt.Errorf("failed to create press: %w", err)
	}
	if err := applyPressState(press, match.TotalHoles, results); err != nil {
		return nil, err
	}

	if s.hub != nil {
		s.hub.BroadcastToRoom(live.MatchRoom(matchID), live.EventMessage{
			Type:    live.EventPressOpened,
			Payload: press,
			Room:    live.MatchRoom(matchID),
		})
	}
	return press, nil
}

// ListByMatch returns the match's presses with standings replayed from the
// current hole ledger.
func (s *pressService) ListByMatch(ctx context.Context, matchID int) ([]models.Press, error) {
	match, err := s.matchRepo.GetByID(ctx, matchID)
	if err != nil {
		if errors.Is(err, repositories.ErrMatchNotFound) {
			return nil, ErrMatchNotFound
		}
		return nil, fmt.Errorf("failed to get match %d: %w", matchID, err)
	}

	presses, err := s.pressRepo.ListByMatchID(ctx, matchID)
	if err != nil {
		return nil, fmt.Errorf("failed to list presses for match %d: %w", matchID, err)
	}
	if len(presses) == 0 {
		return presses, nil
	}

	holes, err := s.holeResultRepo.ListByMatchID(ctx, matchID)
	if err != nil {
		return nil, fmt.Errorf("failed to list hole results for match %d: %w", matchID, err)
	}
	results := toResults(holes)
	for i := range presses {
		if err := applyPressState(&presses[i], match.TotalHoles, results); err != nil {
			return nil, err
		}
	}
	return presses, nil
}

// Delete voids a press. Organizer only, meant for presses opened by mistake.
func (s *pressService) Delete(ctx context.Context, pressID, actorID int) error {
	press, err := s.pressRepo.GetByID(ctx, pressID)
	if err != nil {
		if errors.Is(err, repositories.ErrPressNotFound) {
			return ErrPressNotFound
		}
		return fmt.Errorf("failed to get press %d: %w", pressID, err)
	}
	match, err := s.matchRepo.GetByID(ctx, press.MatchID)
	if err != nil {
		return fmt.Errorf("failed to get match %d: %w", press.MatchID, err)
	}
	session, err := s.sessionRepo.GetByID(ctx, match.SessionID)
	if err != nil {
		return fmt.Errorf("failed to get session %d: %w", match.SessionID, err)
	}
	trip, err := s.tripRepo.GetByID(ctx, session.TripID)
	if err != nil {
		return fmt.Errorf("failed to get trip %d: %w", session.TripID, err)
	}
	if trip.OrganizerID != actorID {
		return ErrOrganizerOnly
	}

	if err := s.pressRepo.Delete(ctx, nil, pressID); err != nil {
		return fmt.Errorf("failed to delete press %d: %w", pressID, err)
	}
	return nil
}

// requireInitiator allows the trip organizer and players seated on the
// pressing side.
func (s *pressService) requireInitiator(ctx context.Context, sessionID, actorID int, players []models.MatchPlayer, side string) error {
	session, err := s.sessionRepo.GetByID(ctx, sessionID)
	if err != nil {
		return fmt.Errorf("failed to get session %d: %w", sessionID, err)
	}
	trip, err := s.tripRepo.GetByID(ctx, session.TripID)
	if err != nil {
		return fmt.Errorf("failed to get trip %d: %w", session.TripID, err)
	}
	if trip.OrganizerID == actorID {
		return nil
	}
	for _, p := range players {
		if p.UserID == actorID && p.Side == side {
			return nil
		}
	}
	return ErrForbiddenOperation
}
