package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/fairwaylabs/trip-system/models"
	"github.com/fairwaylabs/trip-system/repositories"
	"github.com/fairwaylabs/trip-system/storage"
	"golang.org/x/sync/errgroup"
)

type CreateTripInput struct {
	Name        string    `json:"name"`
	Description *string   `json:"description"`
	Location    *string   `json:"location"`
	StartDate   time.Time `json:"start_date"`
	EndDate     time.Time `json:"end_date"`
}

type UpdateTripInput struct {
	Name        *string    `json:"name"`
	Description *string    `json:"description"`
	Location    *string    `json:"location"`
	StartDate   *time.Time `json:"start_date"`
	EndDate     *time.Time `json:"end_date"`
}

type TripService interface {
	Create(ctx context.Context, organizerID int, input CreateTripInput) (*models.Trip, error)
	GetByID(ctx context.Context, id int) (*models.Trip, error)
	GetDetail(ctx context.Context, id int) (*models.Trip, error)
	List(ctx context.Context, filter repositories.ListTripsFilter) ([]models.Trip, error)
	Update(ctx context.Context, tripID, actorID int, input UpdateTripInput) (*models.Trip, error)
	UpdateStatus(ctx context.Context, tripID, actorID int, status models.TripStatus) (*models.Trip, error)
	Delete(ctx context.Context, tripID, actorID int) error
	AutoUpdateTripStatusesByDates(ctx context.Context) error
}

type tripService struct {
	db          *sql.DB
	tripRepo    repositories.TripRepository
	memberRepo  repositories.MemberRepository
	teamRepo    repositories.TeamRepository
	sessionRepo repositories.SessionRepository
	userRepo    repositories.UserRepository
	uploader    storage.FileUploader
}

func NewTripService(
	db *sql.DB,
	tripRepo repositories.TripRepository,
	memberRepo repositories.MemberRepository,
	teamRepo repositories.TeamRepository,
	sessionRepo repositories.SessionRepository,
	userRepo repositories.UserRepository,
	uploader storage.FileUploader,
) TripService {
	return &tripService{
		db:          db,
		tripRepo:    tripRepo,
		memberRepo:  memberRepo,
		teamRepo:    teamRepo,
		sessionRepo: sessionRepo,
		userRepo:    userRepo,
		uploader:    uploader,
	}
}

// Create inserts the trip and enrolls the organizer as its first member in
// one transaction.
func (s *tripService) Create(ctx context.Context, organizerID int, input CreateTripInput) (*models.Trip, error) {
	if input.Name == "" {
		return nil, ErrTripNameRequired
	}
	if err := validateTripDates(input.StartDate, input.EndDate); err != nil {
		return nil, err
	}

	trip := &models.Trip{
		Name:        input.Name,
		Description: input.Description,
		Location:    input.Location,
		OrganizerID: organizerID,
		StartDate:   input.StartDate,
		EndDate:     input.EndDate,
		Status:      models.TripStatusPlanning,
	}

	err := runInTx(ctx, s.db, func(tx *sql.Tx) error {
		if err := s.tripRepo.Create(ctx, tx, trip); err != nil {
			if errors.Is(err, repositories.ErrTripInvalidOrganizer) {
				return ErrUserNotFound
			}
			return fmt.Errorf("failed to create trip: %w", err)
		}
		member := &models.Member{
			TripID: trip.ID,
			UserID: organizerID,
			Role:   models.MemberRolePlayer,
		}
		if err := s.memberRepo.Create(ctx, tx, member); err != nil {
			return fmt.Errorf("failed to enroll organizer in trip %d: %w", trip.ID, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return trip, nil
}

func (s *tripService) GetByID(ctx context.Context, id int) (*models.Trip, error) {
	trip, err := s.tripRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrTripNotFound) {
			return nil, ErrTripNotFound
		}
		return nil, fmt.Errorf("failed to get trip %d: %w", id, err)
	}
	return trip, nil
}

// GetDetail loads the trip with its organizer, teams, members and sessions
// fetched in parallel. Secondary loads log and degrade instead of failing the
// whole response.
func (s *tripService) GetDetail(ctx context.Context, id int) (*models.Trip, error) {
	trip, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		organizer, err := s.userRepo.GetByID(gCtx, trip.OrganizerID)
		if err != nil {
			log.Printf("Error fetching organizer %d for trip %d: %v", trip.OrganizerID, id, err)
			return nil
		}
		populateUserDetailsFunc(organizer, s.uploader)
		trip.Organizer = organizer
		return nil
	})

	g.Go(func() error {
		teams, err := s.teamRepo.ListByTripID(gCtx, id)
		if err != nil {
			log.Printf("Error fetching teams for trip %d: %v", id, err)
			return nil
		}
		for i := range teams {
			populateTeamLogoURLFunc(&teams[i], s.uploader)
		}
		trip.Teams = teams
		return nil
	})

	g.Go(func() error {
		members, err := s.memberRepo.ListByTripID(gCtx, id)
		if err != nil {
			log.Printf("Error fetching members for trip %d: %v", id, err)
			return nil
		}
		populateMemberListDetailsFunc(members, s.uploader)
		trip.Members = members
		return nil
	})

	g.Go(func() error {
		sessions, err := s.sessionRepo.ListByTripID(gCtx, id)
		if err != nil {
			log.Printf("Error fetching sessions for trip %d: %v", id, err)
			return nil
		}
		trip.Sessions = sessions
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to load trip %d details: %w", id, err)
	}
	return trip, nil
}

func (s *tripService) List(ctx context.Context, filter repositories.ListTripsFilter) ([]models.Trip, error) {
	trips, err := s.tripRepo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list trips: %w", err)
	}
	return trips, nil
}

// Update applies organizer edits. Dates can only change while the trip is
// still in planning; cosmetic fields can change at any time.
func (s *tripService) Update(ctx context.Context, tripID, actorID int, input UpdateTripInput) (*models.Trip, error) {
	trip, err := s.GetByID(ctx, tripID)
	if err != nil {
		return nil, err
	}
	if trip.OrganizerID != actorID {
		return nil, ErrOrganizerOnly
	}

	if input.Name != nil {
		if *input.Name == "" {
			return nil, ErrTripNameRequired
		}
		trip.Name = *input.Name
	}
	if input.Description != nil {
		trip.Description = input.Description
	}
	if input.Location != nil {
		trip.Location = input.Location
	}

	if input.StartDate != nil || input.EndDate != nil {
		if trip.Status != models.TripStatusPlanning {
			return nil, ErrTripNotInPlanning
		}
		if input.StartDate != nil {
			trip.StartDate = *input.StartDate
		}
		if input.EndDate != nil {
			trip.EndDate = *input.EndDate
		}
		if err := validateTripDates(trip.StartDate, trip.EndDate); err != nil {
			return nil, err
		}
	}

	if err := s.tripRepo.Update(ctx, trip); err != nil {
		if errors.Is(err, repositories.ErrTripNotFound) {
			return nil, ErrTripNotFound
		}
		return nil, fmt.Errorf("failed to update trip %d: %w", tripID, err)
	}
	return trip, nil
}

func (s *tripService) UpdateStatus(ctx context.Context, tripID, actorID int, status models.TripStatus) (*models.Trip, error) {
	switch status {
	case models.TripStatusPlanning, models.TripStatusActive, models.TripStatusCompleted, models.TripStatusCanceled:
	default:
		return nil, fmt.Errorf("%w: %q", ErrTripInvalidStatus, status)
	}

	trip, err := s.GetByID(ctx, tripID)
	if err != nil {
		return nil, err
	}
	if trip.OrganizerID != actorID {
		return nil, ErrOrganizerOnly
	}
	if !isValidTripStatusTransition(trip.Status, status) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrTripInvalidStatusTransition, trip.Status, status)
	}
	if trip.Status == status {
		return trip, nil
	}

	if err := s.tripRepo.UpdateStatus(ctx, nil, tripID, status); err != nil {
		if errors.Is(err, repositories.ErrTripNotFound) {
			return nil, ErrTripNotFound
		}
		return nil, fmt.Errorf("failed to update status of trip %d: %w", tripID, err)
	}
	trip.Status = status
	return trip, nil
}

func (s *tripService) Delete(ctx context.Context, tripID, actorID int) error {
	trip, err := s.GetByID(ctx, tripID)
	if err != nil {
		return err
	}
	if trip.OrganizerID != actorID {
		return ErrOrganizerOnly
	}

	if err := s.tripRepo.Delete(ctx, tripID); err != nil {
		if errors.Is(err, repositories.ErrTripNotFound) {
			return ErrTripNotFound
		}
		return fmt.Errorf("failed to delete trip %d: %w", tripID, err)
	}
	return nil
}

// AutoUpdateTripStatusesByDates advances planning trips past their start date
// to active and active trips past their end date to completed. Called from
// the background scheduler; one bad trip does not stop the sweep.
func (s *tripService) AutoUpdateTripStatusesByDates(ctx context.Context) error {
	now := time.Now()
	trips, err := s.tripRepo.GetTripsForAutoStatusUpdate(ctx, nil, now)
	if err != nil {
		return fmt.Errorf("failed to load trips for auto status update: %w", err)
	}

	var sweepErr error
	for _, trip := range trips {
		var next models.TripStatus
		switch {
		case trip.Status == models.TripStatusPlanning && !trip.StartDate.After(now):
			next = models.TripStatusActive
		case trip.Status == models.TripStatusActive && !trip.EndDate.After(now):
			next = models.TripStatusCompleted
		default:
			continue
		}

		if !isValidTripStatusTransition(trip.Status, next) {
			continue
		}

		if err := s.tripRepo.UpdateStatus(ctx, nil, trip.ID, next); err != nil {
			log.Printf("Auto status update failed for trip %d (%s -> %s): %v", trip.ID, trip.Status, next, err)
			sweepErr = err
			continue
		}
		log.Printf("Trip %d auto-updated: %s -> %s", trip.ID, trip.Status, next)
	}

	if sweepErr != nil {
		return fmt.Errorf("auto status update finished with errors: %w", sweepErr)
	}
	return nil
}
