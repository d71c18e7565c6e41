package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/fairwaylabs/trip-system/models"
	"github.com/lib/pq"
)

var (
	ErrInviteNotFound      = errors.New("invite not found")
	ErrInviteTokenConflict = errors.New("invite token conflict")
	ErrInviteEmailConflict = errors.New("email already invited to this trip")
	ErrInviteTripInvalid   = errors.New("invalid trip reference")
)

type InviteRepository interface {
	Create(ctx context.Context, invite *models.Invite) error
	GetByID(ctx context.Context, id int) (*models.Invite, error)
	GetByToken(ctx context.Context, token string) (*models.Invite, error)
	ListByTripID(ctx context.Context, tripID int) ([]*models.Invite, error)
	UpdateStatus(ctx context.Context, exec SQLExecutor, id int, status models.InviteStatus) error
	Delete(ctx context.Context, id int) error
	DeleteExpired(ctx context.Context) (int64, error)
}

type postgresInviteRepository struct {
	db *sql.DB
}

func NewPostgresInviteRepository(db *sql.DB) InviteRepository {
	return &postgresInviteRepository{db: db}
}

func (r *postgresInviteRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

func (r *postgresInviteRepository) Create(ctx context.Context, invite *models.Invite) error {
	// ExpiresAt is set by the service layer before the call.
	query := `
		INSERT INTO invites (trip_id, email, token, status, expires_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query,
		invite.TripID,
		invite.Email,
		invite.Token,
		invite.Status,
		invite.ExpiresAt,
	).Scan(&invite.ID, &invite.CreatedAt)

	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			switch pqErr.Code {
			case "23505":
				switch pqErr.Constraint {
				case "invites_token_key":
					return ErrInviteTokenConflict
				case "invites_trip_id_email_key":
					return ErrInviteEmailConflict
				}
			case "23503":
				if pqErr.Constraint == "invites_trip_id_fkey" {
					return ErrInviteTripInvalid
				}
			}
		}
		return err
	}

	return nil
}

func (r *postgresInviteRepository) GetByID(ctx context.Context, id int) (*models.Invite, error) {
	query := `
		SELECT id, trip_id, email, token, status, expires_at, created_at
		FROM invites
		WHERE id = $1`
	return r.scanInvite(ctx, query, id)
}

func (r *postgresInviteRepository) GetByToken(ctx context.Context, token string) (*models.Invite, error) {
	query := `
		SELECT id, trip_id, email, token, status, expires_at, created_at
		FROM invites
		WHERE token = $1`

	// Expiry checks live in the service layer; the repository just returns
	// what it found.
	return r.scanInvite(ctx, query, token)
}

func (r *postgresInviteRepository) scanInvite(ctx context.Context, query string, args ...interface{}) (*models.Invite, error) {
	invite := &models.Invite{}
	err := r.db.QueryRowContext(ctx, query, args...).Scan(
		&invite.ID,
		&invite.TripID,
		&invite.Email,
		&invite.Token,
		&invite.Status,
		&invite.ExpiresAt,
		&invite.CreatedAt,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrInviteNotFound
		}
		return nil, err
	}

	return invite, nil
}

func (r *postgresInviteRepository) ListByTripID(ctx context.Context, tripID int) ([]*models.Invite, error) {
	query := `
		SELECT id, trip_id, email, token, status, expires_at, created_at
		FROM invites
		WHERE trip_id = $1
		ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, tripID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	invites := make([]*models.Invite, 0)
	for rows.Next() {
		var invite models.Invite
		if scanErr := rows.Scan(
			&invite.ID,
			&invite.TripID,
			&invite.Email,
			&invite.Token,
			&invite.Status,
			&invite.ExpiresAt,
			&invite.CreatedAt,
		); scanErr != nil {
			return nil, scanErr
		}
		invites = append(invites, &invite)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return invites, nil
}

func (r *postgresInviteRepository) UpdateStatus(ctx context.Context, exec SQLExecutor, id int, status models.InviteStatus) error {
	executor := r.getExecutor(exec)
	query := `UPDATE invites SET status = $1 WHERE id = $2`
	result, err := executor.ExecContext(ctx, query, status, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrInviteNotFound)
}

func (r *postgresInviteRepository) Delete(ctx context.Context, id int) error {
	query := `DELETE FROM invites WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}

	return checkAffectedRows(result, ErrInviteNotFound)
}

func (r *postgresInviteRepository) DeleteExpired(ctx context.Context) (int64, error) {
	query := `DELETE FROM invites WHERE status = $1 AND expires_at <= NOW()`

	result, err := r.db.ExecContext(ctx, query, models.InviteStatusPending)
	if err != nil {
		return 0, err
	}

	return result.RowsAffected()
}
