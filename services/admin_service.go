package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/fairwaylabs/trip-system/models"
	"github.com/fairwaylabs/trip-system/repositories"
	"github.com/fairwaylabs/trip-system/storage"
)

// UserPage is one page of the admin user list.
type UserPage struct {
	Users      []models.User `json:"users"`
	TotalCount int           `json:"total_count"`
	Limit      int           `json:"limit"`
	Offset     int           `json:"offset"`
}

type AdminService interface {
	GetStats(ctx context.Context) (models.TripStats, error)
	ListUsers(ctx context.Context, limit, offset int) (*UserPage, error)
	DeleteUser(ctx context.Context, userID int) error
}

type adminService struct {
	userRepo    repositories.UserRepository
	tripRepo    repositories.TripRepository
	sessionRepo repositories.SessionRepository
	matchRepo   repositories.MatchRepository
	pressRepo   repositories.PressRepository
	uploader    storage.FileUploader
}

func NewAdminService(
	userRepo repositories.UserRepository,
	tripRepo repositories.TripRepository,
	sessionRepo repositories.SessionRepository,
	matchRepo repositories.MatchRepository,
	pressRepo repositories.PressRepository,
	uploader storage.FileUploader,
) AdminService {
	return &adminService{
		userRepo:    userRepo,
		tripRepo:    tripRepo,
		sessionRepo: sessionRepo,
		matchRepo:   matchRepo,
		pressRepo:   pressRepo,
		uploader:    uploader,
	}
}

// GetStats fills the admin counters. A failed count shows as zero rather
// than taking the whole dashboard down.
func (s *adminService) GetStats(ctx context.Context) (models.TripStats, error) {
	usersTotal, _ := s.userRepo.Count(ctx)
	tripsTotal, _ := s.tripRepo.Count(ctx)
	activeTrips, _ := s.tripRepo.CountByStatus(ctx, models.TripStatusActive)
	sessionsTotal, _ := s.sessionRepo.Count(ctx)
	matchesTotal, _ := s.matchRepo.Count(ctx)
	pressesTotal, _ := s.pressRepo.Count(ctx)

	return models.TripStats{
		UsersTotal:    usersTotal,
		TripsTotal:    tripsTotal,
		ActiveTrips:   activeTrips,
		MatchesTotal:  matchesTotal,
		PressesTotal:  pressesTotal,
		SessionsTotal: sessionsTotal,
	}, nil
}

func (s *adminService) ListUsers(ctx context.Context, limit, offset int) (*UserPage, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	users, err := s.userRepo.List(ctx, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	total, err := s.userRepo.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count users: %w", err)
	}
	for i := range users {
		populateUserDetailsFunc(&users[i], s.uploader)
	}

	return &UserPage{
		Users:      users,
		TotalCount: total,
		Limit:      limit,
		Offset:     offset,
	}, nil
}

func (s *adminService) DeleteUser(ctx context.Context, userID int) error {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to get user %d: %w", userID, err)
	}

	if err := s.userRepo.Delete(ctx, userID); err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to delete user %d: %w", userID, err)
	}

	// The avatar is unreachable once the row is gone; losing the delete only
	// leaks an object in the bucket.
	if user.AvatarKey != nil && s.uploader != nil {
		_ = s.uploader.Delete(ctx, *user.AvatarKey)
	}
	return nil
}
