package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/fairwaylabs/trip-system/models"
	"github.com/fairwaylabs/trip-system/repositories"
	"golang.org/x/sync/errgroup"
)

type CreateSessionInput struct {
	RoundNo        int                  `json:"round_no"`
	TeeSetID       int                  `json:"tee_set_id"`
	Format         models.SessionFormat `json:"format"`
	PointsPerMatch float64              `json:"points_per_match"`
	PlayedAt       time.Time            `json:"played_at"`
}

type UpdateSessionInput struct {
	RoundNo        *int                  `json:"round_no"`
	TeeSetID       *int                  `json:"tee_set_id"`
	Format         *models.SessionFormat `json:"format"`
	PointsPerMatch *float64              `json:"points_per_match"`
	PlayedAt       *time.Time            `json:"played_at"`
}

type SessionService interface {
	Create(ctx context.Context, tripID, actorID int, input CreateSessionInput) (*models.Session, error)
	GetByID(ctx context.Context, id int) (*models.Session, error)
	GetDetail(ctx context.Context, id int) (*models.Session, error)
	ListByTrip(ctx context.Context, tripID int) ([]models.Session, error)
	Update(ctx context.Context, sessionID, actorID int, input UpdateSessionInput) (*models.Session, error)
	UpdateStatus(ctx context.Context, sessionID, actorID int, status models.SessionStatus) (*models.Session, error)
	Delete(ctx context.Context, sessionID, actorID int) error
}

type sessionService struct {
	sessionRepo repositories.SessionRepository
	tripRepo    repositories.TripRepository
	courseRepo  repositories.CourseRepository
	matchRepo   repositories.MatchRepository
	teeSlotRepo repositories.TeeSlotRepository
}

func NewSessionService(
	sessionRepo repositories.SessionRepository,
	tripRepo repositories.TripRepository,
	courseRepo repositories.CourseRepository,
	matchRepo repositories.MatchRepository,
	teeSlotRepo repositories.TeeSlotRepository,
) SessionService {
	return &sessionService{
		sessionRepo: sessionRepo,
		tripRepo:    tripRepo,
		courseRepo:  courseRepo,
		matchRepo:   matchRepo,
		teeSlotRepo: teeSlotRepo,
	}
}

func (s *sessionService) Create(ctx context.Context, tripID, actorID int, input CreateSessionInput) (*models.Session, error) {
	trip, err := s.tripRepo.GetByID(ctx, tripID)
	if err != nil {
		if errors.Is(err, repositories.ErrTripNotFound) {
			return nil, ErrTripNotFound
		}
		return nil, fmt.Errorf("failed to get trip %d: %w", tripID, err)
	}
	if trip.OrganizerID != actorID {
		return nil, ErrOrganizerOnly
	}
	if trip.Status == models.TripStatusCompleted || trip.Status == models.TripStatusCanceled {
		return nil, fmt.Errorf("%w: trip is %s", ErrValidationFailed, trip.Status)
	}

	if err := validateSessionInput(input.RoundNo, input.Format, input.PointsPerMatch, input.PlayedAt); err != nil {
		return nil, err
	}
	if _, err := s.courseRepo.GetTeeSetByID(ctx, input.TeeSetID); err != nil {
		if errors.Is(err, repositories.ErrTeeSetNotFound) {
			return nil, ErrTeeSetNotFound
		}
		return nil, fmt.Errorf("failed to get tee set %d: %w", input.TeeSetID, err)
	}

	session := &models.Session{
		TripID:         tripID,
		TeeSetID:       input.TeeSetID,
		RoundNo:        input.RoundNo,
		Format:         input.Format,
		PointsPerMatch: input.PointsPerMatch,
		Status:         models.SessionStatusScheduled,
		PlayedAt:       input.PlayedAt,
	}

	err = s.sessionRepo.Create(ctx, session)
	if err != nil {
		switch {
		case errors.Is(err, repositories.ErrSessionRoundConflict):
			return nil, ErrRoundNumberConflict
		case errors.Is(err, repositories.ErrSessionTripInvalid):
			return nil, ErrTripNotFound
		case errors.Is(err, repositories.ErrSessionTeeSetInvalid):
			return nil, ErrTeeSetNotFound
		}
		return nil, fmt.Errorf("failed to create session: %w", err)
	}
	return session, nil
}

func (s *sessionService) GetByID(ctx context.Context, id int) (*models.Session, error) {
	session, err := s.sessionRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrSessionNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to get session %d: %w", id, err)
	}
	return session, nil
}

// GetDetail loads the session with its tee set, matches (players seated) and
// tee sheet fetched in parallel.
func (s *sessionService) GetDetail(ctx context.Context, id int) (*models.Session, error) {
	session, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		teeSet, err := s.courseRepo.GetTeeSetByID(gCtx, session.TeeSetID)
		if err != nil {
			log.Printf("Error fetching tee set %d for session %d: %v", session.TeeSetID, id, err)
			return nil
		}
		session.TeeSet = teeSet
		return nil
	})

	g.Go(func() error {
		matches, err := s.matchRepo.ListBySessionID(gCtx, id)
		if err != nil {
			log.Printf("Error fetching matches for session %d: %v", id, err)
			return nil
		}
		players, err := s.matchRepo.ListPlayersBySessionID(gCtx, id)
		if err != nil {
			log.Printf("Error fetching match players for session %d: %v", id, err)
			return nil
		}
		byMatch := make(map[int][]models.MatchPlayer)
		for _, p := range players {
			byMatch[p.MatchID] = append(byMatch[p.MatchID], p)
		}
		session.Matches = make([]models.Match, 0, len(matches))
		for _, m := range matches {
			m.Players = byMatch[m.ID]
			session.Matches = append(session.Matches, *m)
		}
		return nil
	})

	g.Go(func() error {
		slots, err := s.teeSlotRepo.ListBySessionID(gCtx, id)
		if err != nil {
			log.Printf("Error fetching tee sheet for session %d: %v", id, err)
			return nil
		}
		session.Sheet = slots
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to load session %d details: %w", id, err)
	}
	return session, nil
}

func (s *sessionService) ListByTrip(ctx context.Context, tripID int) ([]models.Session, error) {
	sessions, err := s.sessionRepo.ListByTripID(ctx, tripID)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions for trip %d: %w", tripID, err)
	}
	return sessions, nil
}

func (s *sessionService) Update(ctx context.Context, sessionID, actorID int, input UpdateSessionInput) (*models.Session, error) {
	session, err := s.GetByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if err := s.requireOrganizer(ctx, session.TripID, actorID); err != nil {
		return nil, err
	}
	if session.Status != models.SessionStatusScheduled {
		return nil, ErrSessionNotEditable
	}

	if input.RoundNo != nil {
		session.RoundNo = *input.RoundNo
	}
	if input.Format != nil {
		session.Format = *input.Format
	}
	if input.PointsPerMatch != nil {
		session.PointsPerMatch = *input.PointsPerMatch
	}
	if input.PlayedAt != nil {
		session.PlayedAt = *input.PlayedAt
	}
	if err := validateSessionInput(session.RoundNo, session.Format, session.PointsPerMatch, session.PlayedAt); err != nil {
		return nil, err
	}

	if input.TeeSetID != nil && *input.TeeSetID != session.TeeSetID {
		// Once matches are seeded their stroke allocations are tied to this
		// card, so the tee set is frozen.
		matches, err := s.matchRepo.ListBySessionID(ctx, sessionID)
		if err != nil {
			return nil, fmt.Errorf("failed to check matches for session %d: %w", sessionID, err)
		}
		if len(matches) > 0 {
			return nil, ErrSessionAlreadySeeded
		}
		if _, err := s.courseRepo.GetTeeSetByID(ctx, *input.TeeSetID); err != nil {
			if errors.Is(err, repositories.ErrTeeSetNotFound) {
				return nil, ErrTeeSetNotFound
			}
			return nil, fmt.Errorf("failed to get tee set %d: %w", *input.TeeSetID, err)
		}
		session.TeeSetID = *input.TeeSetID
	}

	err = s.sessionRepo.Update(ctx, session)
	if err != nil {
		switch {
		case errors.Is(err, repositories.ErrSessionNotFound):
			return nil, ErrSessionNotFound
		case errors.Is(err, repositories.ErrSessionRoundConflict):
			return nil, ErrRoundNumberConflict
		case errors.Is(err, repositories.ErrSessionTeeSetInvalid):
			return nil, ErrTeeSetNotFound
		}
		return nil, fmt.Errorf("failed to update session %d: %w", sessionID, err)
	}
	return session, nil
}

func (s *sessionService) UpdateStatus(ctx context.Context, sessionID, actorID int, status models.SessionStatus) (*models.Session, error) {
	switch status {
	case models.SessionStatusScheduled, models.SessionStatusInProgress,
		models.SessionStatusCompleted, models.SessionStatusCanceled:
	default:
		return nil, fmt.Errorf("%w: %q", ErrValidationFailed, status)
	}

	session, err := s.GetByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if err := s.requireOrganizer(ctx, session.TripID, actorID); err != nil {
		return nil, err
	}
	if !isValidSessionStatusTransition(session.Status, status) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrSessionInvalidStatusChange, session.Status, status)
	}
	if session.Status == status {
		return session, nil
	}

	if err := s.sessionRepo.UpdateStatus(ctx, nil, sessionID, status); err != nil {
		if errors.Is(err, repositories.ErrSessionNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, fmt.Errorf("failed to update status of session %d: %w", sessionID, err)
	}
	session.Status = status
	return session, nil
}

func (s *sessionService) Delete(ctx context.Context, sessionID, actorID int) error {
	session, err := s.GetByID(ctx, sessionID)
	if err != nil {
		return err
	}
	if err := s.requireOrganizer(ctx, session.TripID, actorID); err != nil {
		return err
	}
	if session.Status != models.SessionStatusScheduled && session.Status != models.SessionStatusCanceled {
		return ErrSessionNotEditable
	}

	if err := s.sessionRepo.Delete(ctx, sessionID); err != nil {
		if errors.Is(err, repositories.ErrSessionNotFound) {
			return ErrSessionNotFound
		}
		return fmt.Errorf("failed to delete session %d: %w", sessionID, err)
	}
	return nil
}

func (s *sessionService) requireOrganizer(ctx context.Context, tripID, actorID int) error {
	trip, err := s.tripRepo.GetByID(ctx, tripID)
	if err != nil {
		if errors.Is(err, repositories.ErrTripNotFound) {
			return ErrTripNotFound
		}
		return fmt.Errorf("failed to get trip %d: %w", tripID, err)
	}
	if trip.OrganizerID != actorID {
		return ErrOrganizerOnly
	}
	return nil
}

func validateSessionInput(roundNo int, format models.SessionFormat, points float64, playedAt time.Time) error {
	if roundNo < 1 {
		return fmt.Errorf("%w: round number must be positive", ErrValidationFailed)
	}
	switch format {
	case models.FormatSingles, models.FormatFourBall, models.FormatFoursomes:
	default:
		return fmt.Errorf("%w: unknown session format %q", ErrValidationFailed, format)
	}
	if points <= 0 {
		return fmt.Errorf("%w: points per match must be positive", ErrValidationFailed)
	}
	if playedAt.IsZero() {
		return fmt.Errorf("%w: session date is required", ErrValidationFailed)
	}
	return nil
}
