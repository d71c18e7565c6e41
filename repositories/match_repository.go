package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/fairwaylabs/trip-system/models"
	"github.com/lib/pq"
)

// SQLExecutor is satisfied by both *sql.DB and *sql.Tx. Methods that run
// inside the scoring or draft transactions accept one; passing nil falls
// back to the repository's own pool.
type SQLExecutor interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

var (
	ErrMatchNotFound          = errors.New("match not found")
	ErrMatchNumberConflict    = errors.New("match number conflict for this session")
	ErrMatchSessionInvalid    = errors.New("invalid session reference")
	ErrMatchPlayerConflict    = errors.New("user is already seated in this match")
	ErrMatchPlayerUserInvalid = errors.New("invalid user reference for match player")
)

type MatchRepository interface {
	Create(ctx context.Context, exec SQLExecutor, match *models.Match) error
	GetByID(ctx context.Context, id int) (*models.Match, error)
	ListBySessionID(ctx context.Context, sessionID int) ([]*models.Match, error)
	ListByTripID(ctx context.Context, tripID int) ([]*models.Match, error)
	UpdateSnapshot(ctx context.Context, exec SQLExecutor, match *models.Match) error
	Delete(ctx context.Context, exec SQLExecutor, id int) error
	Count(ctx context.Context) (int, error)

	CreatePlayers(ctx context.Context, exec SQLExecutor, players []*models.MatchPlayer) error
	ListPlayersByMatchID(ctx context.Context, matchID int) ([]models.MatchPlayer, error)
	ListPlayersBySessionID(ctx context.Context, sessionID int) ([]models.MatchPlayer, error)
	UpdatePlayerStrokes(ctx context.Context, exec SQLExecutor, playerID, courseHandicap int, strokes []int64) error
}

type postgresMatchRepository struct {
	db *sql.DB
}

func NewPostgresMatchRepository(db *sql.DB) MatchRepository {
	return &postgresMatchRepository{db: db}
}

func (r *postgresMatchRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

func (r *postgresMatchRepository) Create(ctx context.Context, exec SQLExecutor, match *models.Match) error {
	executor := r.getExecutor(exec)
	query := `
		INSERT INTO matches (session_id, match_no, total_holes, status, score, thru, dormie, winner, display)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at`

	err := executor.QueryRowContext(ctx, query,
		match.SessionID,
		match.MatchNo,
		match.TotalHoles,
		match.Status,
		match.Score,
		match.Thru,
		match.Dormie,
		match.Winner,
		match.Display,
	).Scan(&match.ID, &match.CreatedAt)

	return r.handleMatchError(err)
}

func (r *postgresMatchRepository) GetByID(ctx context.Context, id int) (*models.Match, error) {
	query := `
		SELECT id, session_id, match_no, total_holes, status, score, thru, dormie, winner, display, created_at
		FROM matches
		WHERE id = $1`

	match := &models.Match{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&match.ID,
		&match.SessionID,
		&match.MatchNo,
		&match.TotalHoles,
		&match.Status,
		&match.Score,
		&match.Thru,
		&match.Dormie,
		&match.Winner,
		&match.Display,
		&match.CreatedAt,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMatchNotFound
		}
		return nil, err
	}
	return match, nil
}

func (r *postgresMatchRepository) ListBySessionID(ctx context.Context, sessionID int) ([]*models.Match, error) {
	query := `
		SELECT id, session_id, match_no, total_holes, status, score, thru, dormie, winner, display, created_at
		FROM matches
		WHERE session_id = $1
		ORDER BY match_no ASC`
	return r.listMatches(ctx, query, sessionID)
}

// ListByTripID returns every match of the trip across all sessions,
// ordered by round then match number. Used by the standings rollup.
func (r *postgresMatchRepository) ListByTripID(ctx context.Context, tripID int) ([]*models.Match, error) {
	query := `
		SELECT m.id, m.session_id, m.match_no, m.total_holes, m.status, m.score, m.thru, m.dormie, m.winner, m.display, m.created_at
		FROM matches m
		JOIN sessions s ON m.session_id = s.id
		WHERE s.trip_id = $1
		ORDER BY s.round_no ASC, m.match_no ASC`
	return r.listMatches(ctx, query, tripID)
}

// UpdateSnapshot refreshes the derived score columns from a replayed state.
func (r *postgresMatchRepository) UpdateSnapshot(ctx context.Context, exec SQLExecutor, match *models.Match) error {
	executor := r.getExecutor(exec)
	query := `
		UPDATE matches SET
			status = $1,
			score = $2,
			thru = $3,
			dormie = $4,
			winner = $5,
			display = $6
		WHERE id = $7`

	result, err := executor.ExecContext(ctx, query,
		match.Status,
		match.Score,
		match.Thru,
		match.Dormie,
		match.Winner,
		match.Display,
		match.ID,
	)

	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrMatchNotFound)
}

func (r *postgresMatchRepository) Delete(ctx context.Context, exec SQLExecutor, id int) error {
	executor := r.getExecutor(exec)
	query := `DELETE FROM matches WHERE id = $1`
	result, err := executor.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrMatchNotFound)
}

func (r *postgresMatchRepository) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM matches`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count matches: %w", err)
	}
	return count, nil
}

func (r *postgresMatchRepository) CreatePlayers(ctx context.Context, exec SQLExecutor, players []*models.MatchPlayer) error {
	executor := r.getExecutor(exec)
	if len(players) == 0 {
		return nil
	}

	query := `
		INSERT INTO match_players (match_id, user_id, side, course_handicap, strokes, handicap_at_draft)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`

	for _, player := range players {
		err := executor.QueryRowContext(ctx, query,
			player.MatchID,
			player.UserID,
			player.Side,
			player.CourseHandicap,
			pq.Array(player.Strokes),
			player.HandicapAtDraft,
		).Scan(&player.ID)
		if err != nil {
			return r.handlePlayerError(err)
		}
	}
	return nil
}

func (r *postgresMatchRepository) ListPlayersByMatchID(ctx context.Context, matchID int) ([]models.MatchPlayer, error) {
	query := `
		SELECT
			p.id, p.match_id, p.user_id, p.side, p.course_handicap, p.strokes, p.handicap_at_draft,
			u.id, u.first_name, u.last_name, u.nickname, u.email, u.role, u.handicap_index, u.avatar_key, u.created_at
		FROM match_players p
		JOIN users u ON p.user_id = u.id
		WHERE p.match_id = $1
		ORDER BY p.side ASC, p.id ASC`
	return r.listPlayers(ctx, query, matchID)
}

func (r *postgresMatchRepository) ListPlayersBySessionID(ctx context.Context, sessionID int) ([]models.MatchPlayer, error) {
	query := `
		SELECT
			p.id, p.match_id, p.user_id, p.side, p.course_handicap, p.strokes, p.handicap_at_draft,
			u.id, u.first_name, u.last_name, u.nickname, u.email, u.role, u.handicap_index, u.avatar_key, u.created_at
		FROM match_players p
		JOIN users u ON p.user_id = u.id
		JOIN matches m ON p.match_id = m.id
		WHERE m.session_id = $1
		ORDER BY m.match_no ASC, p.side ASC, p.id ASC`
	return r.listPlayers(ctx, query, sessionID)
}

func (r *postgresMatchRepository) UpdatePlayerStrokes(ctx context.Context, exec SQLExecutor, playerID, courseHandicap int, strokes []int64) error {
	executor := r.getExecutor(exec)
	query := `UPDATE match_players SET course_handicap = $1, strokes = $2 WHERE id = $3`
	result, err := executor.ExecContext(ctx, query, courseHandicap, pq.Array(strokes), playerID)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrMatchNotFound)
}

func (r *postgresMatchRepository) listMatches(ctx context.Context, query string, args ...interface{}) ([]*models.Match, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	matches := make([]*models.Match, 0)
	for rows.Next() {
		var match models.Match
		if scanErr := rows.Scan(
			&match.ID,
			&match.SessionID,
			&match.MatchNo,
			&match.TotalHoles,
			&match.Status,
			&match.Score,
			&match.Thru,
			&match.Dormie,
			&match.Winner,
			&match.Display,
			&match.CreatedAt,
		); scanErr != nil {
			return nil, fmt.Errorf("failed to scan match: %w", scanErr)
		}
		matches = append(matches, &match)
	}

	return matches, rows.Err()
}

func (r *postgresMatchRepository) listPlayers(ctx context.Context, query string, args ...interface{}) ([]models.MatchPlayer, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	players := make([]models.MatchPlayer, 0)
	for rows.Next() {
		var player models.MatchPlayer
		var user models.User
		if scanErr := rows.Scan(
			&player.ID, &player.MatchID, &player.UserID, &player.Side,
			&player.CourseHandicap, pq.Array(&player.Strokes), &player.HandicapAtDraft,
			&user.ID, &user.FirstName, &user.LastName, &user.Nickname, &user.Email,
			&user.Role, &user.HandicapIndex, &user.AvatarKey, &user.CreatedAt,
		); scanErr != nil {
			return nil, fmt.Errorf("failed to scan match player: %w", scanErr)
		}
		player.User = &user
		player.DisplayName = user.DisplayName()
		players = append(players, player)
	}

	return players, rows.Err()
}

func (r *postgresMatchRepository) handleMatchError(err error) error {
	if err == nil {
		return nil
	}
	if pqErr, ok := err.(*pq.Error); ok {
		switch pqErr.Code {
		case "23505":
			if pqErr.Constraint == "matches_session_id_match_no_key" {
				return ErrMatchNumberConflict
			}
		case "23503":
			if pqErr.Constraint == "matches_session_id_fkey" {
				return ErrMatchSessionInvalid
			}
		}
	}
	return err
}

func (r *postgresMatchRepository) handlePlayerError(err error) error {
	if err == nil {
		return nil
	}
	if pqErr, ok := err.(*pq.Error); ok {
		switch pqErr.Code {
		case "23505":
			if pqErr.Constraint == "match_players_match_id_user_id_key" {
				return ErrMatchPlayerConflict
			}
		case "23503":
			if pqErr.Constraint == "match_players_user_id_fkey" {
				return ErrMatchPlayerUserInvalid
			}
		}
	}
	return err
}
