package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/fairwaylabs/trip-system/models"
	"github.com/fairwaylabs/trip-system/repositories"
	"github.com/fairwaylabs/trip-system/storage"
	"github.com/google/uuid"
)

type CreateTeamInput struct {
	Name  string  `json:"name"`
	Color *string `json:"color"`
}

type UpdateTeamInput struct {
	Name  *string `json:"name"`
	Color *string `json:"color"`
}

type TeamService interface {
	Create(ctx context.Context, tripID, actorID int, input CreateTeamInput) (*models.Team, error)
	GetByID(ctx context.Context, id int) (*models.Team, error)
	ListByTrip(ctx context.Context, tripID int) ([]models.Team, error)
	Update(ctx context.Context, teamID, actorID int, input UpdateTeamInput) (*models.Team, error)
	UploadLogo(ctx context.Context, teamID, actorID int, contentType string, file io.Reader) (*models.Team, error)
	Delete(ctx context.Context, teamID, actorID int) error
}

type teamService struct {
	teamRepo   repositories.TeamRepository
	tripRepo   repositories.TripRepository
	memberRepo repositories.MemberRepository
	uploader   storage.FileUploader
}

func NewTeamService(
	teamRepo repositories.TeamRepository,
	tripRepo repositories.TripRepository,
	memberRepo repositories.MemberRepository,
	uploader storage.FileUploader,
) TeamService {
	return &teamService{
		teamRepo:   teamRepo,
		tripRepo:   tripRepo,
		memberRepo: memberRepo,
		uploader:   uploader,
	}
}

func (s *teamService) Create(ctx context.Context, tripID, actorID int, input CreateTeamInput) (*models.Team, error) {
	if err := s.requireOrganizer(ctx, tripID, actorID); err != nil {
		return nil, err
	}

	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, ErrTeamNameRequired
	}

	team := &models.Team{
		TripID: tripID,
		Name:   name,
		Color:  input.Color,
	}

	err := s.teamRepo.Create(ctx, team)
	if err != nil {
		switch {
		case errors.Is(err, repositories.ErrTeamNameConflict):
			return nil, ErrTeamNameConflict
		case errors.Is(err, repositories.ErrTeamTripInvalid):
			return nil, ErrTripNotFound
		}
		return nil, fmt.Errorf("failed to create team: %w", err)
	}

	return team, nil
}

// GetByID returns the team with its current roster attached.
func (s *teamService) GetByID(ctx context.Context, id int) (*models.Team, error) {
	team, err := s.teamRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrTeamNotFound) {
			return nil, ErrTeamNotFound
		}
		return nil, fmt.Errorf("failed to get team %d: %w", id, err)
	}

	members, err := s.memberRepo.ListByTeamID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to list members of team %d: %w", id, err)
	}
	populateMemberListDetailsFunc(members, s.uploader)
	team.Members = members

	populateTeamLogoURLFunc(team, s.uploader)
	return team, nil
}

func (s *teamService) ListByTrip(ctx context.Context, tripID int) ([]models.Team, error) {
	teams, err := s.teamRepo.ListByTripID(ctx, tripID)
	if err != nil {
		return nil, fmt.Errorf("failed to list teams for trip %d: %w", tripID, err)
	}
	for i := range teams {
		populateTeamLogoURLFunc(&teams[i], s.uploader)
	}
	return teams, nil
}

func (s *teamService) Update(ctx context.Context, teamID, actorID int, input UpdateTeamInput) (*models.Team, error) {
	team, err := s.teamRepo.GetByID(ctx, teamID)
	if err != nil {
		if errors.Is(err, repositories.ErrTeamNotFound) {
			return nil, ErrTeamNotFound
		}
		return nil, fmt.Errorf("failed to get team %d: %w", teamID, err)
	}
	if err := s.requireOrganizer(ctx, team.TripID, actorID); err != nil {
		return nil, err
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, ErrTeamNameRequired
		}
		team.Name = name
	}
	if input.Color != nil {
		team.Color = input.Color
	}

	err = s.teamRepo.Update(ctx, team)
	if err != nil {
		switch {
		case errors.Is(err, repositories.ErrTeamNotFound):
			return nil, ErrTeamNotFound
		case errors.Is(err, repositories.ErrTeamNameConflict):
			return nil, ErrTeamNameConflict
		}
		return nil, fmt.Errorf("failed to update team %d: %w", teamID, err)
	}

	populateTeamLogoURLFunc(team, s.uploader)
	return team, nil
}

func (s *teamService) UploadLogo(ctx context.Context, teamID, actorID int, contentType string, file io.Reader) (*models.Team, error) {
	if s.uploader == nil {
		return nil, ErrStorageUnavailable
	}

	team, err := s.teamRepo.GetByID(ctx, teamID)
	if err != nil {
		if errors.Is(err, repositories.ErrTeamNotFound) {
			return nil, ErrTeamNotFound
		}
		return nil, fmt.Errorf("failed to get team %d: %w", teamID, err)
	}
	if err := s.requireOrganizer(ctx, team.TripID, actorID); err != nil {
		return nil, err
	}

	ext, err := GetExtensionFromContentType(contentType)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidationFailed, err)
	}

	oldKey := team.LogoKey
	newKey := fmt.Sprintf("teams/%d/%s%s", teamID, uuid.NewString(), ext)

	if _, err := s.uploader.Upload(ctx, newKey, contentType, file); err != nil {
		return nil, fmt.Errorf("failed to upload team logo: %w", err)
	}

	if err := s.teamRepo.UpdateLogoKey(ctx, teamID, &newKey); err != nil {
		_ = s.uploader.Delete(ctx, newKey)
		return nil, fmt.Errorf("failed to store team logo key: %w", err)
	}

	if oldKey != nil && *oldKey != "" {
		_ = s.uploader.Delete(ctx, *oldKey)
	}

	team.LogoKey = &newKey
	populateTeamLogoURLFunc(team, s.uploader)
	return team, nil
}

func (s *teamService) Delete(ctx context.Context, teamID, actorID int) error {
	team, err := s.teamRepo.GetByID(ctx, teamID)
	if err != nil {
		if errors.Is(err, repositories.ErrTeamNotFound) {
			return ErrTeamNotFound
		}
		return fmt.Errorf("failed to get team %d: %w", teamID, err)
	}
	if err := s.requireOrganizer(ctx, team.TripID, actorID); err != nil {
		return err
	}

	if err := s.teamRepo.Delete(ctx, teamID); err != nil {
		if errors.Is(err, repositories.ErrTeamNotFound) {
			return ErrTeamNotFound
		}
		return fmt.Errorf("failed to delete team %d: %w", teamID, err)
	}

	if team.LogoKey != nil && *team.LogoKey != "" && s.uploader != nil {
		_ = s.uploader.Delete(ctx, *team.LogoKey)
	}
	return nil
}

func (s *teamService) requireOrganizer(ctx context.Context, tripID, actorID int) error {
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
