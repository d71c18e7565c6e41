package services

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/fairwaylabs/trip-system/models"
	"github.com/fairwaylabs/trip-system/storage"
)

func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func validateTripDates(start, end time.Time) error {
	if start.IsZero() || end.IsZero() {
		return ErrTripDatesRequired
	}
	if !start.Before(end) {
		return fmt.Errorf("%w: start date (%s) must be before end date (%s)", ErrTripInvalidDateRange, start.Format(time.RFC3339), end.Format(time.RFC3339))
	}
	return nil
}

func isValidTripStatusTransition(current, next models.TripStatus) bool {
	if current == next {
		return true
	}
	allowedTransitions := map[models.TripStatus][]models.TripStatus{
		models.TripStatusPlanning:  {models.TripStatusActive, models.TripStatusCanceled},
		models.TripStatusActive:    {models.TripStatusCompleted, models.TripStatusCanceled},
		models.TripStatusCompleted: {},
		models.TripStatusCanceled:  {},
	}
	for _, allowedNextStatus := range allowedTransitions[current] {
		if next == allowedNextStatus {
			return true
		}
	}
	return false
}

func isValidSessionStatusTransition(current, next models.SessionStatus) bool {
	if current == next {
		return true
	}
	allowedTransitions := map[models.SessionStatus][]models.SessionStatus{
		models.SessionStatusScheduled:  {models.SessionStatusInProgress, models.SessionStatusCanceled},
		models.SessionStatusInProgress: {models.SessionStatusCompleted, models.SessionStatusCanceled},
		models.SessionStatusCompleted:  {},
		models.SessionStatusCanceled:   {},
	}
	for _, allowedNextStatus := range allowedTransitions[current] {
		if next == allowedNextStatus {
			return true
		}
	}
	return false
}

// runInTx wraps fn in a transaction with rollback on error or panic.
func runInTx(ctx context.Context, db *sql.DB, fn func(tx *sql.Tx) error) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("transaction error: %w (rollback also failed: %v)", err, rbErr)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func populateUserDetailsFunc(user *models.User, uploader storage.FileUploader) {
	if user == nil {
		return
	}
	user.PasswordHash = ""
	if user.AvatarKey != nil && *user.AvatarKey != "" && uploader != nil {
		url := uploader.GetPublicURL(*user.AvatarKey)
		if url != "" {
			user.AvatarURL = &url
		}
	}
}

func populateTeamLogoURLFunc(team *models.Team, uploader storage.FileUploader) {
	if team != nil && team.LogoKey != nil && *team.LogoKey != "" && uploader != nil {
		url := uploader.GetPublicURL(*team.LogoKey)
		if url != "" {
			team.LogoURL = &url
		}
	}
}

func populateMemberListDetailsFunc(members []models.Member, uploader storage.FileUploader) {
	for i := range members {
		populateUserDetailsFunc(members[i].User, uploader)
	}
}

// GetExtensionFromContentType maps an image content type to a file extension.
func GetExtensionFromContentType(contentType string) (string, error) {
	switch contentType {
	case "image/jpeg", "image/jpg":
		return ".jpg", nil
	case "image/png":
		return ".png", nil
	case "image/gif":
		return ".gif", nil
	case "image/webp":
		return ".webp", nil
	default:
		parts := strings.Split(contentType, "/")
		if len(parts) == 2 && strings.HasPrefix(parts[0], "image") && parts[1] != "" {
			ext := "." + strings.Split(parts[1], "+")[0]
			return ext, nil
		}
		return "", fmt.Errorf("could not determine file extension from content type: '%s'", contentType)
	}
}
