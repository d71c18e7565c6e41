package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/fairwaylabs/trip-system/models"
	"github.com/lib/pq"
)

var (
	ErrDraftNotFound         = errors.New("draft not found")
	ErrDraftTripInvalid      = errors.New("invalid trip reference")
	ErrDraftPickUserConflict = errors.New("user already drafted")
	ErrDraftPickSlotConflict = errors.New("overall pick number conflict")
	ErrDraftPickTeamInvalid  = errors.New("invalid team reference for draft pick")
	ErrDraftPickUserInvalid  = errors.New("invalid user reference for draft pick")
)

type DraftRepository interface {
	Create(ctx context.Context, exec SQLExecutor, draft *models.Draft) error
	GetByID(ctx context.Context, id int) (*models.Draft, error)
	GetLatestByTripID(ctx context.Context, tripID int) (*models.Draft, error)
	UpdateStatus(ctx context.Context, exec SQLExecutor, id int, status models.DraftStatus) error
	Delete(ctx context.Context, id int) error

	CreatePick(ctx context.Context, exec SQLExecutor, pick *models.DraftPick) error
	ListPicksByDraftID(ctx context.Context, draftID int) ([]models.DraftPick, error)
	DeletePicksByDraftID(ctx context.Context, exec SQLExecutor, draftID int) error
}

type postgresDraftRepository struct {
	db *sql.DB
}

func NewPostgresDraftRepository(db *sql.DB) DraftRepository {
	return &postgresDraftRepository{db: db}
}

func (r *postgresDraftRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

func (r *postgresDraftRepository) Create(ctx context.Context, exec SQLExecutor, draft *models.Draft) error {
	executor := r.getExecutor(exec)
	query := `
		INSERT INTO drafts (trip_id, mode, team_order, budget, status, seed)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at`

	err := executor.QueryRowContext(ctx, query,
		draft.TripID,
		draft.Mode,
		pq.Array(draft.TeamOrder),
		draft.Budget,
		draft.Status,
		draft.Seed,
	).Scan(&draft.ID, &draft.CreatedAt)

	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23503" {
			if pqErr.Constraint == "drafts_trip_id_fkey" {
				return ErrDraftTripInvalid
			}
		}
		return err
	}
	return nil
}

func (r *postgresDraftRepository) GetByID(ctx context.Context, id int) (*models.Draft, error) {
	query := `
		SELECT id, trip_id, mode, team_order, budget, status, seed, created_at
		FROM drafts
		WHERE id = $1`
	return r.scanDraft(ctx, query, id)
}

// GetLatestByTripID returns the trip's most recent draft. Re-running a draft
// creates a new row; the latest one is the draft of record.
func (r *postgresDraftRepository) GetLatestByTripID(ctx context.Context, tripID int) (*models.Draft, error) {
	query := `
		SELECT id, trip_id, mode, team_order, budget, status, seed, created_at
		FROM drafts
		WHERE trip_id = $1
		ORDER BY id DESC
		LIMIT 1`
	return r.scanDraft(ctx, query, tripID)
}

func (r *postgresDraftRepository) UpdateStatus(ctx context.Context, exec SQLExecutor, id int, status models.DraftStatus) error {
	executor := r.getExecutor(exec)
	query := `UPDATE drafts SET status = $1 WHERE id = $2`
	result, err := executor.ExecContext(ctx, query, status, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrDraftNotFound)
}

func (r *postgresDraftRepository) Delete(ctx context.Context, id int) error {
	query := `DELETE FROM drafts WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrDraftNotFound)
}

func (r *postgresDraftRepository) CreatePick(ctx context.Context, exec SQLExecutor, pick *models.DraftPick) error {
	executor := r.getExecutor(exec)
	query := `
		INSERT INTO draft_picks (draft_id, round, overall, team_id, user_id, bid)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at`

	err := executor.QueryRowContext(ctx, query,
		pick.DraftID,
		pick.Round,
		pick.Overall,
		pick.TeamID,
		pick.UserID,
		pick.Bid,
	).Scan(&pick.ID, &pick.CreatedAt)

	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			switch pqErr.Code {
			case "23505":
				switch pqErr.Constraint {
				case "draft_picks_draft_id_user_id_key":
					return ErrDraftPickUserConflict
				case "draft_picks_draft_id_overall_key":
					return ErrDraftPickSlotConflict
				}
			case "23503":
				switch pqErr.Constraint {
				case "draft_picks_team_id_fkey":
					return ErrDraftPickTeamInvalid
				case "draft_picks_user_id_fkey":
					return ErrDraftPickUserInvalid
				}
			}
		}
		return err
	}
	return nil
}

func (r *postgresDraftRepository) ListPicksByDraftID(ctx context.Context, draftID int) ([]models.DraftPick, error) {
	query := `
		SELECT id, draft_id, round, overall, team_id, user_id, bid, created_at
		FROM draft_picks
		WHERE draft_id = $1
		ORDER BY overall ASC`

	rows, err := r.db.QueryContext(ctx, query, draftID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	picks := make([]models.DraftPick, 0)
	for rows.Next() {
		var pick models.DraftPick
		if scanErr := rows.Scan(
			&pick.ID,
			&pick.DraftID,
			&pick.Round,
			&pick.Overall,
			&pick.TeamID,
			&pick.UserID,
			&pick.Bid,
			&pick.CreatedAt,
		); scanErr != nil {
			return nil, scanErr
		}
		picks = append(picks, pick)
	}

	return picks, rows.Err()
}

func (r *postgresDraftRepository) DeletePicksByDraftID(ctx context.Context, exec SQLExecutor, draftID int) error {
	executor := r.getExecutor(exec)
	query := `DELETE FROM draft_picks WHERE draft_id = $1`
	_, err := executor.ExecContext(ctx, query, draftID)
	return err
}

func (r *postgresDraftRepository) scanDraft(ctx context.Context, query string, args ...interface{}) (*models.Draft, error) {
	draft := &models.Draft{}
	err := r.db.QueryRowContext(ctx, query, args...).Scan(
		&draft.ID,
		&draft.TripID,
		&draft.Mode,
		pq.Array(&draft.TeamOrder),
		&draft.Budget,
		&draft.Status,
		&draft.Seed,
		&draft.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrDraftNotFound
		}
		return nil, err
	}
	return draft, nil
}
