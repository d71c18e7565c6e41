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
	ErrHoleResultNotFound     = errors.New("hole result not found")
	ErrHoleResultConflict     = errors.New("hole already recorded for this match")
	ErrHoleResultMatchInvalid = errors.New("invalid match reference")
	ErrHoleScoreUserInvalid   = errors.New("invalid user reference for hole score")
)

type HoleResultRepository interface {
	Create(ctx context.Context, exec SQLExecutor, result *models.HoleResult) error
	CreateScores(ctx context.Context, exec SQLExecutor, scores []*models.HoleScore) error
	ListByMatchID(ctx context.Context, matchID int) ([]models.HoleResult, error)
	ListScoresByMatchID(ctx context.Context, matchID int) ([]models.HoleScore, error)
	GetLatestByMatchID(ctx context.Context, exec SQLExecutor, matchID int) (*models.HoleResult, error)
	DeleteByID(ctx context.Context, exec SQLExecutor, id int) error
	DeleteByMatchID(ctx context.Context, exec SQLExecutor, matchID int) error
}

type postgresHoleResultRepository struct {
	db *sql.DB
}

func NewPostgresHoleResultRepository(db *sql.DB) HoleResultRepository {
	return &postgresHoleResultRepository{db: db}
}

func (r *postgresHoleResultRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

func (r *postgresHoleResultRepository) Create(ctx context.Context, exec SQLExecutor, result *models.HoleResult) error {
	executor := r.getExecutor(exec)
	query := `
		INSERT INTO hole_results (match_id, hole, winner)
		VALUES ($1, $2, $3)
		RETURNING id, created_at`

	err := executor.QueryRowContext(ctx, query,
		result.MatchID,
		result.Hole,
		result.Winner,
	).Scan(&result.ID, &result.CreatedAt)

	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			switch pqErr.Code {
			case "23505":
				if pqErr.Constraint == "hole_results_match_id_hole_key" {
					return ErrHoleResultConflict
				}
			case "23503":
				if pqErr.Constraint == "hole_results_match_id_fkey" {
					return ErrHoleResultMatchInvalid
				}
			}
		}
		return err
	}
	return nil
}

func (r *postgresHoleResultRepository) CreateScores(ctx context.Context, exec SQLExecutor, scores []*models.HoleScore) error {
	executor := r.getExecutor(exec)
	if len(scores) == 0 {
		return nil
	}

	query := `
		INSERT INTO hole_scores (hole_result_id, user_id, gross, strokes, counted_best)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`

	for _, score := range scores {
		err := executor.QueryRowContext(ctx, query,
			score.HoleResultID,
			score.UserID,
			score.Gross,
			score.Strokes,
			score.CountedBest,
		).Scan(&score.ID)
		if err != nil {
			if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23503" {
				if pqErr.Constraint == "hole_scores_user_id_fkey" {
					return ErrHoleScoreUserInvalid
				}
			}
			return fmt.Errorf("failed to create hole score for user %d: %w", score.UserID, err)
		}
	}
	return nil
}

func (r *postgresHoleResultRepository) ListByMatchID(ctx context.Context, matchID int) ([]models.HoleResult, error) {
	query := `
		SELECT id, match_id, hole, winner, created_at
		FROM hole_results
		WHERE match_id = $1
		ORDER BY id ASC`

	rows, err := r.db.QueryContext(ctx, query, matchID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	results := make([]models.HoleResult, 0)
	for rows.Next() {
		var result models.HoleResult
		if scanErr := rows.Scan(
			&result.ID, &result.MatchID, &result.Hole, &result.Winner, &result.CreatedAt,
		); scanErr != nil {
			return nil, scanErr
		}
		results = append(results, result)
	}

	return results, rows.Err()
}

func (r *postgresHoleResultRepository) ListScoresByMatchID(ctx context.Context, matchID int) ([]models.HoleScore, error) {
	query := `
		SELECT s.id, s.hole_result_id, s.user_id, s.gross, s.strokes, s.counted_best
		FROM hole_scores s
		JOIN hole_results h ON s.hole_result_id = h.id
		WHERE h.match_id = $1
		ORDER BY h.id ASC, s.id ASC`

	rows, err := r.db.QueryContext(ctx, query, matchID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	scores := make([]models.HoleScore, 0)
	for rows.Next() {
		var score models.HoleScore
		if scanErr := rows.Scan(
			&score.ID, &score.HoleResultID, &score.UserID, &score.Gross, &score.Strokes, &score.CountedBest,
		); scanErr != nil {
			return nil, scanErr
		}
		scores = append(scores, score)
	}

	return scores, rows.Err()
}

// GetLatestByMatchID returns the most recently recorded hole of the match,
// the one an undo removes.
func (r *postgresHoleResultRepository) GetLatestByMatchID(ctx context.Context, exec SQLExecutor, matchID int) (*models.HoleResult, error) {
	executor := r.getExecutor(exec)
	query := `
		SELECT id, match_id, hole, winner, created_at
		FROM hole_results
		WHERE match_id = $1
		ORDER BY id DESC
		LIMIT 1`

	result := &models.HoleResult{}
	err := executor.QueryRowContext(ctx, query, matchID).Scan(
		&result.ID, &result.MatchID, &result.Hole, &result.Winner, &result.CreatedAt,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrHoleResultNotFound
		}
		return nil, err
	}
	return result, nil
}

// DeleteByID removes a hole result; its scores go with it via cascade.
func (r *postgresHoleResultRepository) DeleteByID(ctx context.Context, exec SQLExecutor, id int) error {
	executor := r.getExecutor(exec)
	query := `DELETE FROM hole_results WHERE id = $1`
	result, err := executor.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrHoleResultNotFound)
}

func (r *postgresHoleResultRepository) DeleteByMatchID(ctx context.Context, exec SQLExecutor, matchID int) error {
	executor := r.getExecutor(exec)
	query := `DELETE FROM hole_results WHERE match_id = $1`
	_, err := executor.ExecContext(ctx, query, matchID)
	if err != nil {
		return fmt.Errorf("failed to delete hole results for match %d: %w", matchID, err)
	}
	return nil
}
