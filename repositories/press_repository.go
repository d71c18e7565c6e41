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
	ErrPressNotFound      = errors.New("press not found")
	ErrPressMatchInvalid  = errors.New("invalid match reference")
	ErrPressParentInvalid = errors.New("invalid parent press reference")
)

type PressRepository interface {
	Create(ctx context.Context, exec SQLExecutor, press *models.Press) error
	GetByID(ctx context.Context, id int) (*models.Press, error)
	ListByMatchID(ctx context.Context, matchID int) ([]models.Press, error)
	Delete(ctx context.Context, exec SQLExecutor, id int) error
	Count(ctx context.Context) (int, error)
}

type postgresPressRepository struct {
	db *sql.DB
}

func NewPostgresPressRepository(db *sql.DB) PressRepository {
	return &postgresPressRepository{db: db}
}

func (r *postgresPressRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

func (r *postgresPressRepository) Create(ctx context.Context, exec SQLExecutor, press *models.Press) error {
	executor := r.getExecutor(exec)
	query := `
		INSERT INTO presses (match_id, parent_press_id, side, start_hole)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`

	err := executor.QueryRowContext(ctx, query,
		press.MatchID,
		press.ParentPressID,
		press.Side,
		press.StartHole,
	).Scan(&press.ID, &press.CreatedAt)

	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23503" {
			switch pqErr.Constraint {
			case "presses_match_id_fkey":
				return ErrPressMatchInvalid
			case "presses_parent_press_id_fkey":
				return ErrPressParentInvalid
			}
		}
		return err
	}
	return nil
}

func (r *postgresPressRepository) GetByID(ctx context.Context, id int) (*models.Press, error) {
	query := `
		SELECT id, match_id, parent_press_id, side, start_hole, created_at
		FROM presses
		WHERE id = $1`

	press := &models.Press{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&press.ID,
		&press.MatchID,
		&press.ParentPressID,
		&press.Side,
		&press.StartHole,
		&press.CreatedAt,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPressNotFound
		}
		return nil, err
	}
	return press, nil
}

func (r *postgresPressRepository) ListByMatchID(ctx context.Context, matchID int) ([]models.Press, error) {
	query := `
		SELECT id, match_id, parent_press_id, side, start_hole, created_at
		FROM presses
		WHERE match_id = $1
		ORDER BY start_hole ASC, id ASC`

	rows, err := r.db.QueryContext(ctx, query, matchID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	presses := make([]models.Press, 0)
	for rows.Next() {
		var press models.Press
		if scanErr := rows.Scan(
			&press.ID,
			&press.MatchID,
			&press.ParentPressID,
			&press.Side,
			&press.StartHole,
			&press.CreatedAt,
		); scanErr != nil {
			return nil, scanErr
		}
		presses = append(presses, press)
	}

	return presses, rows.Err()
}

func (r *postgresPressRepository) Delete(ctx context.Context, exec SQLExecutor, id int) error {
	executor := r.getExecutor(exec)
	query := `DELETE FROM presses WHERE id = $1`
	result, err := executor.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrPressNotFound)
}

func (r *postgresPressRepository) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM presses`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count presses: %w", err)
	}
	return count, nil
}
