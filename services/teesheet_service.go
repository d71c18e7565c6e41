package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/fairwaylabs/trip-system/models"
	"github.com/fairwaylabs/trip-system/repositories"
	"github.com/fairwaylabs/trip-system/teesheet"
)

const defaultTeeInterval = 10 * time.Minute

type BuildTeeSheetInput struct {
	Mode            string    `json:"mode"`
	FirstTee        time.Time `json:"first_tee"`
	IntervalMinutes int       `json:"interval_minutes,omitempty"`
}

type TeeSheetService interface {
	Build(ctx context.Context, sessionID, actorID int, input BuildTeeSheetInput) ([]models.TeeSlot, error)
	Get(ctx context.Context, sessionID int) ([]models.TeeSlot, error)
	Clear(ctx context.Context, sessionID, actorID int) error
}

type teeSheetService struct {
	db          *sql.DB
	teeSlotRepo repositories.TeeSlotRepository
	sessionRepo repositories.SessionRepository
	tripRepo    repositories.TripRepository
	matchRepo   repositories.MatchRepository
}

func NewTeeSheetService(
	db *sql.DB,
	teeSlotRepo repositories.TeeSlotRepository,
	sessionRepo repositories.SessionRepository,
	tripRepo repositories.TripRepository,
	matchRepo repositories.MatchRepository,
) TeeSheetService {
	return &teeSheetService{
		db:          db,
		teeSlotRepo: teeSlotRepo,
		sessionRepo: sessionRepo,
		tripRepo:    tripRepo,
		matchRepo:   matchRepo,
	}
}

// Build lays the session's matches onto a tee sheet and persists it,
// replacing any earlier sheet. Groups go off in match number order.
func (s *teeSheetService) Build(ctx context.Context, sessionID, actorID int, input BuildTeeSheetInput) ([]models.TeeSlot, error) {
	session, err := s.requireOrganizer(ctx, sessionID, actorID)
	if err != nil {
		return nil, err
	}
	if session.Status == models.SessionStatusCompleted || session.Status == models.SessionStatusCanceled {
		return nil, ErrSessionNotEditable
	}
	if input.FirstTee.IsZero() {
		return nil, fmt.Errorf("%w: first tee time is required", ErrValidationFailed)
	}

	matches, err := s.matchRepo.ListBySessionID(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to list matches for session %d: %w", sessionID, err)
	}
	if len(matches) == 0 {
		return nil, fmt.Errorf("%w: seed the matches before building a tee sheet", ErrValidationFailed)
	}

	players, err := s.matchRepo.ListPlayersBySessionID(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to list match players for session %d: %w", sessionID, err)
	}
	byMatch := make(map[int][]int, len(matches))
	for _, p := range players {
		byMatch[p.MatchID] = append(byMatch[p.MatchID], p.UserID)
	}
	groups := make([][]int, 0, len(matches))
	for _, m := range matches {
		groups = append(groups, byMatch[m.ID])
	}

	interval := time.Duration(input.IntervalMinutes) * time.Minute
	if interval <= 0 {
		interval = defaultTeeInterval
	}
	built, err := teesheet.Build(teesheet.Mode(input.Mode), input.FirstTee, interval, matches[0].TotalHoles, groups)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidationFailed, err)
	}

	slots := make([]*models.TeeSlot, 0, len(built))
	for i, slot := range built {
		slots = append(slots, &models.TeeSlot{
			SessionID:    sessionID,
			MatchID:      matches[i].ID,
			TeeTime:      slot.TeeTime,
			StartingHole: slot.StartingHole,
		})
	}

	err = runInTx(ctx, s.db, func(tx *sql.Tx) error {
		if err := s.teeSlotRepo.DeleteBySessionID(ctx, tx, sessionID); err != nil {
			return fmt.Errorf("failed to clear old tee sheet: %w", err)
		}
		if err := s.teeSlotRepo.CreateBatch(ctx, tx, slots); err != nil {
			return fmt.Errorf("failed to save tee sheet: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	saved := make([]models.TeeSlot, 0, len(slots))
	for _, slot := range slots {
		saved = append(saved, *slot)
	}
	return saved, nil
}

func (s *teeSheetService) Get(ctx context.Context, sessionID int) ([]models.TeeSlot, error) {
	if _, err := s.sessionRepo.GetByID(ctx, sessionID); err != nil {
		if errors.Is(err, repositories.ErrSessionNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to get session %d: %w", sessionID, err)
	}
	slots, err := s.teeSlotRepo.ListBySessionID(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to list tee slots for session %d: %w", sessionID, err)
	}
	return slots, nil
}

func (s *teeSheetService) Clear(ctx context.Context, sessionID, actorID int) error {
	if _, err := s.requireOrganizer(ctx, sessionID, actorID); err != nil {
		return err
	}
	if err := s.teeSlotRepo.DeleteBySessionID(ctx, nil, sessionID); err != nil {
		return fmt.Errorf("failed to clear tee sheet for session %d: %w", sessionID, err)
	}
	return nil
}

func (s *teeSheetService) requireOrganizer(ctx context.Context, sessionID, actorID int) (*models.Session, error) {
	session, err := s.sessionRepo.GetByID(ctx, sessionID)
	if err != nil {
		if errors.Is(err, repositories.ErrSessionNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to get session %d: %w", sessionID, err)
	}
	trip, err := s.tripRepo.GetByID(ctx, session.TripID)
	if err != nil {
		if errors.Is(err, repositories.ErrTripNotFound) {
			return nil, ErrTripNotFound
		}
		return nil, fmt.Errorf("failed to get trip %d: %w", session.TripID, err)
	}
	if trip.OrganizerID != actorID {
		return nil, ErrOrganizerOnly
	}
	return session, nil
}
