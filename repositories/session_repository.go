package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/fairwaylabs/trip-system/models"
	"github.com/lib/pq"
)

var (
	ErrSessionNotFound      = errors.New("session not found")
	ErrSessionRoundConflict = errors.New("round number conflict for this trip")
	ErrSessionTripInvalid   = errors.New("invalid trip reference")
	ErrSessionTeeSetInvalid = errors.New("invalid tee set reference")
)

type SessionRepository interface {
	Create(ctx context.Context, session *models.Session) error
	GetByID(ctx context.Context, id int) (*models.Session, error)
	ListByTripID(ctx context.Context, tripID int) ([]models.Session, error)
	Update(ctx context.Context, session *models.Session) error
	UpdateStatus(ctx context.Context, exec SQLExecutor, id int, status models.SessionStatus) error
	Delete(ctx context.Context, id int) error
	Count(ctx context.Context) (int, error)
}

type postgresSessionRepository struct {
	db *sql.DB
}

func NewPostgresSessionRepository(db *sql.DB) SessionRepository {
	return &postgresSessionRepository{db: db}
}

func (r *postgresSessionRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

func (r *postgresSessionRepository) Create(ctx context.Context, session *models.Session) error {
	query := `
		INSERT INTO sessions (trip_id, tee_set_id, round_no, format, points_per_match, status, played_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query,
		session.TripID,
		session.TeeSetID,
		session.RoundNo,
		session.Format,
		session.PointsPerMatch,
		session.Status,
		session.PlayedAt,
	).Scan(&session.ID, &session.CreatedAt)

	return r.handleSessionError(err)
}

func (r *postgresSessionRepository) GetByID(ctx context.Context, id int) (*models.Session, error) {
	query := `
		SELECT id, trip_id, tee_set_id, round_no, format, points_per_match, status, played_at, created_at
		FROM sessions
		WHERE id = $1`

	session := &models.Session{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&session.ID,
		&session.TripID,
		&session.TeeSetID,
		&session.RoundNo,
		&session.Format,
		&session.PointsPerMatch,
		&session.Status,
		&session.PlayedAt,
		&session.CreatedAt,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}
	return session, nil
}

func (r *postgresSessionRepository) ListByTripID(ctx context.Context, tripID int) ([]models.Session, error) {
	query := `
		SELECT id, trip_id, tee_set_id, round_no, format, points_per_match, status, played_at, created_at
		FROM sessions
		WHERE trip_id = $1
		ORDER BY round_no ASC`

	rows, err := r.db.QueryContext(ctx, query, tripID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	sessions := make([]models.Session, 0)
	for rows.Next() {
		var session models.Session
		if scanErr := rows.Scan(
			&session.ID,
			&session.TripID,
			&session.TeeSetID,
			&session.RoundNo,
			&session.Format,
			&session.PointsPerMatch,
			&session.Status,
			&session.PlayedAt,
			&session.CreatedAt,
		); scanErr != nil {
			return nil, scanErr
		}
		sessions = append(sessions, session)
	}

	return sessions, rows.Err()
}

func (r *postgresSessionRepository) Update(ctx context.Context, session *models.Session) error {
	query := `
		UPDATE sessions SET
			tee_set_id = $1,
			round_no = $2,
			format = $3,
			points_per_match = $4,
			status = $5,
			played_at = $6
		WHERE id = $7`

	result, err := r.db.ExecContext(ctx, query,
		session.TeeSetID,
		session.RoundNo,
		session.Format,
		session.PointsPerMatch,
		session.Status,
		session.PlayedAt,
		session.ID,
	)

	if err != nil {
		return r.handleSessionError(err)
	}

	return checkAffectedRows(result, ErrSessionNotFound)
}

func (r *postgresSessionRepository) UpdateStatus(ctx context.Context, exec SQLExecutor, id int, status models.SessionStatus) error {
	executor := r.getExecutor(exec)
	query := `UPDATE sessions SET status = $1 WHERE id = $2`
	result, err := executor.ExecContext(ctx, query, status, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrSessionNotFound)
}

func (r *postgresSessionRepository) Delete(ctx context.Context, id int) error {
	query := `DELETE FROM sessions WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrSessionNotFound)
}

func (r *postgresSessionRepository) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM sessions`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count sessions: %w", err)
	}
	return count, nil
}

func (r *postgresSessionRepository) handleSessionError(err error) error {
	if err == nil {
		return nil
	}
	if pqErr, ok := err.(*pq.Error); ok {
		switch pqErr.Code {
		case "23505":
			if pqErr.Constraint == "sessions_trip_id_round_no_key" {
				return ErrSessionRoundConflict
			}
		case "23503":
			switch pqErr.Constraint {
			case "sessions_trip_id_fkey":
				return ErrSessionTripInvalid
			case "sessions_tee_set_id_fkey":
				return ErrSessionTeeSetInvalid
			}
		}
	}
	return err
}
