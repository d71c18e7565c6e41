package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/fairwaylabs/trip-system/models"
	"github.com/fairwaylabs/trip-system/repositories"
)

func hashFor(t *testing.T, password string) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return string(hash)
}

func TestAuthRegister(t *testing.T) {
	t.Run("rejects short password", func(t *testing.T) {
		svc := NewAuthService(&stubUserRepo{})
		_, err := svc.Register(context.Background(), RegisterInput{
			FirstName: "Grace",
			Email:     "grace@example.com",
			Password:  "short",
		})
		assert.ErrorIs(t, err, ErrPasswordTooShort)
	})

	t.Run("normalizes email and assigns the player role", func(t *testing.T) {
		var created *models.User
		repo := &stubUserRepo{
			createFn: func(ctx context.Context, user *models.User) error {
				user.ID = 7
				created = user
				return nil
			},
		}
		svc := NewAuthService(repo)

		user, err := svc.Register(context.Background(), RegisterInput{
			FirstName:     "Grace",
			LastName:      "Park",
			Email:         "  Grace@Example.COM ",
			Password:      "longenough",
			HandicapIndex: 12.4,
		})
		require.NoError(t, err)

		assert.Equal(t, "grace@example.com", created.Email)
		assert.Equal(t, models.RolePlayer, created.Role)
		assert.Equal(t, 12.4, created.HandicapIndex)
		assert.Empty(t, user.PasswordHash, "hash must not leave the service")
	})

	t.Run("maps an email conflict", func(t *testing.T) {
		repo := &stubUserRepo{
			createFn: func(ctx context.Context, user *models.User) error {
				return repositories.ErrUserEmailConflict
			},
		}
		svc := NewAuthService(repo)

		_, err := svc.Register(context.Background(), RegisterInput{
			FirstName: "Grace",
			Email:     "grace@example.com",
			Password:  "longenough",
		})
		assert.ErrorIs(t, err, ErrAuthEmailTaken)
	})
}

func TestAuthLogin(t *testing.T) {
	hash := hashFor(t, "correct-horse")
	repo := &stubUserRepo{
		getByEmailFn: func(ctx context.Context, email string) (*models.User, error) {
			if email != "grace@example.com" {
				return nil, repositories.ErrUserNotFound
			}
			return &models.User{ID: 7, Email: email, PasswordHash: hash}, nil
		},
	}
	svc := NewAuthService(repo)

	t.Run("accepts the right password", func(t *testing.T) {
		user, err := svc.Login(context.Background(), LoginInput{
			Email:    "Grace@Example.com",
			Password: "correct-horse",
		})
		require.NoError(t, err)
		assert.Equal(t, 7, user.ID)
		assert.Empty(t, user.PasswordHash)
	})

	t.Run("rejects a wrong password", func(t *testing.T) {
		_, err := svc.Login(context.Background(), LoginInput{
			Email:    "grace@example.com",
			Password: "wrong",
		})
		assert.ErrorIs(t, err, ErrAuthInvalidCredentials)
	})

	t.Run("treats an unknown email the same as a wrong password", func(t *testing.T) {
		_, err := svc.Login(context.Background(), LoginInput{
			Email:    "nobody@example.com",
			Password: "correct-horse",
		})
		assert.ErrorIs(t, err, ErrAuthInvalidCredentials)
	})
}

func TestAuthChangePassword(t *testing.T) {
	hash := hashFor(t, "old-password")
	repo := &stubUserRepo{
		getByIDFn: func(ctx context.Context, id int) (*models.User, error) {
			return &models.User{ID: id, PasswordHash: hash}, nil
		},
	}
	svc := NewAuthService(repo)

	t.Run("rejects a wrong current password", func(t *testing.T) {
		err := svc.ChangePassword(context.Background(), 7, "not-the-one", "new-password-ok")
		assert.ErrorIs(t, err, ErrAuthInvalidCredentials)
	})

	t.Run("rejects a short replacement", func(t *testing.T) {
		err := svc.ChangePassword(context.Background(), 7, "old-password", "tiny")
		assert.ErrorIs(t, err, ErrPasswordTooShort)
	})

	t.Run("stores a new hash", func(t *testing.T) {
		var updated *models.User
		repo.updateFn = func(ctx context.Context, user *models.User) error {
			updated = user
			return nil
		}

		err := svc.ChangePassword(context.Background(), 7, "old-password", "new-password-ok")
		require.NoError(t, err)
		require.NotNil(t, updated)
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(updated.PasswordHash), []byte("new-password-ok")))
	})
}
