package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fairwaylabs/trip-system/models"
	"github.com/fairwaylabs/trip-system/repositories"
)

const (
	testTripID      = 5
	testOrganizerID = 42
)

func sessionServiceFixture() (*stubSessionRepo, *stubTripRepo, *stubCourseRepo, *stubMatchRepo, SessionService) {
	sessionRepo := &stubSessionRepo{}
	tripRepo := &stubTripRepo{
		getByIDFn: func(ctx context.Context, id int) (*models.Trip, error) {
			if id != testTripID {
				return nil, repositories.ErrTripNotFound
			}
			return &models.Trip{ID: id, OrganizerID: testOrganizerID, Status: models.TripStatusPlanning}, nil
		},
	}
	courseRepo := &stubCourseRepo{
		getTeeSetByIDFn: func(ctx context.Context, id int) (*models.TeeSet, error) {
			return &models.TeeSet{ID: id, Holes: 18}, nil
		},
	}
	matchRepo := &stubMatchRepo{}
	svc := NewSessionService(sessionRepo, tripRepo, courseRepo, matchRepo, &stubTeeSlotRepo{})
	return sessionRepo, tripRepo, courseRepo, matchRepo, svc
}

func validSessionInput() CreateSessionInput {
	return CreateSessionInput{
		RoundNo:        1,
		TeeSetID:       11,
		Format:         models.FormatSingles,
		PointsPerMatch: 1,
		PlayedAt:       time.Date(2026, 5, 14, 8, 0, 0, 0, time.UTC),
	}
}

func TestSessionCreate(t *testing.T) {
	t.Run("creates a scheduled session", func(t *testing.T) {
		sessionRepo, _, _, _, svc := sessionServiceFixture()
		sessionRepo.createFn = func(ctx context.Context, session *models.Session) error {
			session.ID = 9
			return nil
		}

		session, err := svc.Create(context.Background(), testTripID, testOrganizerID, validSessionInput())
		require.NoError(t, err)
		assert.Equal(t, models.SessionStatusScheduled, session.Status)
		assert.Equal(t, testTripID, session.TripID)
	})

	t.Run("organizer only", func(t *testing.T) {
		_, _, _, _, svc := sessionServiceFixture()
		_, err := svc.Create(context.Background(), testTripID, 999, validSessionInput())
		assert.ErrorIs(t, err, ErrOrganizerOnly)
	})

	t.Run("rejects a finished trip", func(t *testing.T) {
		_, tripRepo, _, _, svc := sessionServiceFixture()
		tripRepo.getByIDFn = func(ctx context.Context, id int) (*models.Trip, error) {
			return &models.Trip{ID: id, OrganizerID: testOrganizerID, Status: models.TripStatusCompleted}, nil
		}
		_, err := svc.Create(context.Background(), testTripID, testOrganizerID, validSessionInput())
		assert.ErrorIs(t, err, ErrValidationFailed)
	})

	t.Run("validates the input", func(t *testing.T) {
		testCases := []struct {
			name   string
			mutate func(*CreateSessionInput)
		}{
			{"round zero", func(in *CreateSessionInput) { in.RoundNo = 0 }},
			{"unknown format", func(in *CreateSessionInput) { in.Format = "scramble" }},
			{"zero points", func(in *CreateSessionInput) { in.PointsPerMatch = 0 }},
			{"missing date", func(in *CreateSessionInput) { in.PlayedAt = time.Time{} }},
		}
		for _, tc := range testCases {
			t.Run(tc.name, func(t *testing.T) {
				_, _, _, _, svc := sessionServiceFixture()
				input := validSessionInput()
				tc.mutate(&input)
				_, err := svc.Create(context.Background(), testTripID, testOrganizerID, input)
				assert.ErrorIs(t, err, ErrValidationFailed)
			})
		}
	})

	t.Run("unknown tee set", func(t *testing.T) {
		_, _, courseRepo, _, svc := sessionServiceFixture()
		courseRepo.getTeeSetByIDFn = nil
		_, err := svc.Create(context.Background(), testTripID, testOrganizerID, validSessionInput())
		assert.ErrorIs(t, err, ErrTeeSetNotFound)
	})

	t.Run("maps a round number conflict", func(t *testing.T) {
		sessionRepo, _, _, _, svc := sessionServiceFixture()
		sessionRepo.createFn = func(ctx context.Context, session *models.Session) error {
			return repositories.ErrSessionRoundConflict
		}
		_, err := svc.Create(context.Background(), testTripID, testOrganizerID, validSessionInput())
		assert.ErrorIs(t, err, ErrRoundNumberConflict)
	})
}

func TestSessionUpdateStatus(t *testing.T) {
	withSession := func(status models.SessionStatus) (*stubSessionRepo, SessionService) {
		sessionRepo, _, _, _, svc := sessionServiceFixture()
		sessionRepo.getByIDFn = func(ctx context.Context, id int) (*models.Session, error) {
			return &models.Session{ID: id, TripID: testTripID, Status: status}, nil
		}
		return sessionRepo, svc
	}

	t.Run("scheduled to in progress", func(t *testing.T) {
		_, svc := withSession(models.SessionStatusScheduled)
		session, err := svc.UpdateStatus(context.Background(), 9, testOrganizerID, models.SessionStatusInProgress)
		require.NoError(t, err)
		assert.Equal(t, models.SessionStatusInProgress, session.Status)
	})

	t.Run("completed cannot reopen", func(t *testing.T) {
		_, svc := withSession(models.SessionStatusCompleted)
		_, err := svc.UpdateStatus(context.Background(), 9, testOrganizerID, models.SessionStatusInProgress)
		assert.ErrorIs(t, err, ErrSessionInvalidStatusChange)
	})

	t.Run("scheduled cannot jump to completed", func(t *testing.T) {
		_, svc := withSession(models.SessionStatusScheduled)
		_, err := svc.UpdateStatus(context.Background(), 9, testOrganizerID, models.SessionStatusCompleted)
		assert.ErrorIs(t, err, ErrSessionInvalidStatusChange)
	})

	t.Run("rejects a made-up status", func(t *testing.T) {
		_, svc := withSession(models.SessionStatusScheduled)
		_, err := svc.UpdateStatus(context.Background(), 9, testOrganizerID, "postponed")
		assert.ErrorIs(t, err, ErrValidationFailed)
	})
}

func TestSessionUpdateFreezesTeeSetAfterSeeding(t *testing.T) {
	sessionRepo, _, _, matchRepo, svc := sessionServiceFixture()
	sessionRepo.getByIDFn = func(ctx context.Context, id int) (*models.Session, error) {
		return &models.Session{
			ID:             id,
			TripID:         testTripID,
			TeeSetID:       11,
			RoundNo:        1,
			Format:         models.FormatSingles,
			PointsPerMatch: 1,
			Status:         models.SessionStatusScheduled,
			PlayedAt:       time.Date(2026, 5, 14, 8, 0, 0, 0, time.UTC),
		}, nil
	}
	matchRepo.listBySessionIDFn = func(ctx context.Context, sessionID int) ([]*models.Match, error) {
		return []*models.Match{{ID: 1, SessionID: sessionID}}, nil
	}

	otherTeeSet := 12
	_, err := svc.Update(context.Background(), 9, testOrganizerID, UpdateSessionInput{TeeSetID: &otherTeeSet})
	assert.ErrorIs(t, err, ErrSessionAlreadySeeded)
}

func TestSessionDelete(t *testing.T) {
	t.Run("refuses a live session", func(t *testing.T) {
		sessionRepo, _, _, _, svc := sessionServiceFixture()
		sessionRepo.getByIDFn = func(ctx context.Context, id int) (*models.Session, error) {
			return &models.Session{ID: id, TripID: testTripID, Status: models.SessionStatusInProgress}, nil
		}
		err := svc.Delete(context.Background(), 9, testOrganizerID)
		assert.ErrorIs(t, err, ErrSessionNotEditable)
	})

	t.Run("removes a scheduled session", func(t *testing.T) {
		sessionRepo, _, _, _, svc := sessionServiceFixture()
		sessionRepo.getByIDFn = func(ctx context.Context, id int) (*models.Session, error) {
			return &models.Session{ID: id, TripID: testTripID, Status: models.SessionStatusScheduled}, nil
		}
		deleted := 0
		sessionRepo.deleteFn = func(ctx context.Context, id int) error {
			deleted = id
			return nil
		}
		require.NoError(t, svc.Delete(context.Background(), 9, testOrganizerID))
		assert.Equal(t, 9, deleted)
	})
}
