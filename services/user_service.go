package services

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/fairwaylabs/trip-system/models"
	"github.com/fairwaylabs/trip-system/repositories"
	"github.com/fairwaylabs/trip-system/storage"
	"github.com/google/uuid"
)

type UpdateProfileInput struct {
	FirstName     *string  `json:"first_name"`
	LastName      *string  `json:"last_name"`
	Nickname      *string  `json:"nickname"`
	HandicapIndex *float64 `json:"handicap_index"`
}

type UserService interface {
	GetByID(ctx context.Context, id int) (*models.User, error)
	UpdateProfile(ctx context.Context, userID int, input UpdateProfileInput) (*models.User, error)
	UpdateHandicap(ctx context.Context, userID int, handicapIndex float64) error
	UploadAvatar(ctx context.Context, userID int, contentType string, file io.Reader) (*models.User, error)
	Delete(ctx context.Context, id int) error
}

type userService struct {
	userRepo repositories.UserRepository
	uploader storage.FileUploader
}

func NewUserService(userRepo repositories.UserRepository, uploader storage.FileUploader) UserService {
	return &userService{
		userRepo: userRepo,
		uploader: uploader,
	}
}

func (s *userService) GetByID(ctx context.Context, id int) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user %d: %w", id, err)
	}
	populateUserDetailsFunc(user, s.uploader)
	return user, nil
}

func (s *userService) UpdateProfile(ctx context.Context, userID int, input UpdateProfileInput) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user %d: %w", userID, err)
	}

	if input.FirstName != nil {
		user.FirstName = *input.FirstName
	}
	if input.LastName != nil {
		user.LastName = *input.LastName
	}
	if input.Nickname != nil {
		if *input.Nickname == "" {
			user.Nickname = nil
		} else {
			user.Nickname = input.Nickname
		}
	}
	if input.HandicapIndex != nil {
		if err := validateHandicapIndex(*input.HandicapIndex); err != nil {
			return nil, err
		}
		user.HandicapIndex = *input.HandicapIndex
	}

	err = s.userRepo.Update(ctx, user)
	if err != nil {
		switch {
		case errors.Is(err, repositories.ErrUserEmailConflict):
			return nil, ErrUserEmailConflict
		case errors.Is(err, repositories.ErrUserNicknameConflict):
			return nil, ErrUserNicknameConflict
		case errors.Is(err, repositories.ErrUserNotFound):
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to update user %d: %w", userID, err)
	}

	populateUserDetailsFunc(user, s.uploader)
	return user, nil
}

func (s *userService) UpdateHandicap(ctx context.Context, userID int, handicapIndex float64) error {
	if err := validateHandicapIndex(handicapIndex); err != nil {
		return err
	}
	err := s.userRepo.UpdateHandicap(ctx, userID, handicapIndex)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to update handicap for user %d: %w", userID, err)
	}
	return nil
}

func (s *userService) UploadAvatar(ctx context.Context, userID int, contentType string, file io.Reader) (*models.User, error) {
	if s.uploader == nil {
		return nil, ErrStorageUnavailable
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user %d: %w", userID, err)
	}

	ext, err := GetExtensionFromContentType(contentType)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidationFailed, err)
	}

	oldKey := user.AvatarKey
	newKey := fmt.Sprintf("avatars/%d/%s%s", userID, uuid.NewString(), ext)

	if _, err := s.uploader.Upload(ctx, newKey, contentType, file); err != nil {
		return nil, fmt.Errorf("failed to upload avatar: %w", err)
	}

	if err := s.userRepo.UpdateAvatarKey(ctx, userID, &newKey); err != nil {
		_ = s.uploader.Delete(ctx, newKey)
		return nil, fmt.Errorf("failed to store avatar key: %w", err)
	}

	if oldKey != nil && *oldKey != "" {
		_ = s.uploader.Delete(ctx, *oldKey)
	}

	user.AvatarKey = &newKey
	populateUserDetailsFunc(user, s.uploader)
	return user, nil
}

func (s *userService) Delete(ctx context.Context, id int) error {
	err := s.userRepo.Delete(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to delete user %d: %w", id, err)
	}
	return nil
}

// validateHandicapIndex bounds the index to the WHS range, plus handicaps
// included.
func validateHandicapIndex(index float64) error {
	if index < -10 || index > 54 {
		return fmt.Errorf("%w: handicap index must be between -10 and 54", ErrValidationFailed)
	}
	return nil
}
