package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/fairwaylabs/trip-system/models"
	"github.com/lib/pq"
)

var (
	ErrTeeSlotNotFound      = errors.New("tee slot not found")
	ErrTeeSlotMatchConflict = errors.New("match already has a tee slot")
	ErrTeeSlotMatchInvalid  = errors.New("invalid match reference for tee slot")
)

type TeeSlotRepository interface {
	CreateBatch(ctx context.Context, exec SQLExecutor, slots []*models.TeeSlot) error
	ListBySessionID(ctx context.Context, sessionID int) ([]models.TeeSlot, error)
	DeleteBySessionID(ctx context.Context, exec SQLExecutor, sessionID int) error
}

type postgresTeeSlotRepository struct {
	db *sql.DB
}

func NewPostgresTeeSlotRepository(db *sql.DB) TeeSlotRepository {
	return &postgresTeeSlotRepository{db: db}
}

func (r *postgresTeeSlotRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

func (r *postgresTeeSlotRepository) CreateBatch(ctx context.Context, exec SQLExecutor, slots []*models.TeeSlot) error {
	executor := r.getExecutor(exec)
	if len(slots) == 0 {
		return nil
	}

	query := `
		INSERT INTO tee_slots (session_id, match_id, tee_time, starting_hole)
		VALUES ($1, $2, $3, $4)
		RETURNING id`

	for _, slot := range slots {
		err := executor.QueryRowContext(ctx, query,
			slot.SessionID,
			slot.MatchID,
			slot.TeeTime,
			slot.StartingHole,
		).Scan(&slot.ID)
		if err != nil {
			if pqErr, ok := err.(*pq.Error); ok {
				switch pqErr.Code {
				case "23505":
					if pqErr.Constraint == "tee_slots_match_id_key" {
						return ErrTeeSlotMatchConflict
					}
				case "23503":
					if pqErr.Constraint == "tee_slots_match_id_fkey" {
						return ErrTeeSlotMatchInvalid
					}
				}
			}
			return err
		}
	}
	return nil
}

func (r *postgresTeeSlotRepository) ListBySessionID(ctx context.Context, sessionID int) ([]models.TeeSlot, error) {
	query := `
		SELECT id, session_id, match_id, tee_time, starting_hole
		FROM tee_slots
		WHERE session_id = $1
		ORDER BY tee_time ASC, starting_hole ASC, id ASC`

	rows, err := r.db.QueryContext(ctx, query, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	slots := make([]models.TeeSlot, 0)
	for rows.Next() {
		var slot models.TeeSlot
		if scanErr := rows.Scan(
			&slot.ID,
			&slot.SessionID,
			&slot.MatchID,
			&slot.TeeTime,
			&slot.StartingHole,
		); scanErr != nil {
			return nil, scanErr
		}
		slots = append(slots, slot)
	}

	return slots, rows.Err()
}

func (r *postgresTeeSlotRepository) DeleteBySessionID(ctx context.Context, exec SQLExecutor, sessionID int) error {
	executor := r.getExecutor(exec)
	query := `DELETE FROM tee_slots WHERE session_id = $1`
	_, err := executor.ExecContext(ctx, query, sessionID)
	return err
}
