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
	ErrMemberNotFound    = errors.New("trip member not found")
	ErrMemberConflict    = errors.New("user is already a member of this trip")
	ErrMemberTripInvalid = errors.New("invalid trip reference")
	ErrMemberUserInvalid = errors.New("invalid user reference")
	ErrMemberTeamInvalid = errors.New("invalid team reference")
)

type MemberRepository interface {
	Create(ctx context.Context, exec SQLExecutor, member *models.Member) error
	GetByID(ctx context.Context, id int) (*models.Member, error)
	GetByTripAndUser(ctx context.Context, tripID, userID int) (*models.Member, error)
	ListByTripID(ctx context.Context, tripID int) ([]models.Member, error)
	ListByTeamID(ctx context.Context, teamID int) ([]models.Member, error)
	SetTeam(ctx context.Context, exec SQLExecutor, memberID int, teamID *int) error
	UpdateRole(ctx context.Context, memberID int, role models.MemberRole) error
	Delete(ctx context.Context, id int) error
}

type postgresMemberRepository struct {
	db *sql.DB
}

func NewPostgresMemberRepository(db *sql.DB) MemberRepository {
	return &postgresMemberRepository{db: db}
}

func (r *postgresMemberRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

func (r *postgresMemberRepository) Create(ctx context.Context, exec SQLExecutor, member *models.Member) error {
	executor := r.getExecutor(exec)
	query := `
		INSERT INTO trip_members (trip_id, user_id, team_id, role)
		VALUES ($1, $2, $3, $4)
		RETURNING id, joined_at`

	err := executor.QueryRowContext(ctx, query,
		member.TripID,
		member.UserID,
		member.TeamID,
		member.Role,
	).Scan(&member.ID, &member.JoinedAt)

	return r.handleMemberError(err)
}

func (r *postgresMemberRepository) GetByID(ctx context.Context, id int) (*models.Member, error) {
	query := `
		SELECT id, trip_id, user_id, team_id, role, joined_at
		FROM trip_members
		WHERE id = $1`
	return r.scanMember(ctx, query, id)
}

func (r *postgresMemberRepository) GetByTripAndUser(ctx context.Context, tripID, userID int) (*models.Member, error) {
	query := `
		SELECT id, trip_id, user_id, team_id, role, joined_at
		FROM trip_members
		WHERE trip_id = $1 AND user_id = $2`
	return r.scanMember(ctx, query, tripID, userID)
}

// ListByTripID returns trip members with their user rows populated.
func (r *postgresMemberRepository) ListByTripID(ctx context.Context, tripID int) ([]models.Member, error) {
	query := `
		SELECT
			m.id, m.trip_id, m.user_id, m.team_id, m.role, m.joined_at,
			u.id, u.first_name, u.last_name, u.nickname, u.email, u.role, u.handicap_index, u.avatar_key, u.created_at
		FROM trip_members m
		JOIN users u ON m.user_id = u.id
		WHERE m.trip_id = $1
		ORDER BY m.joined_at ASC, m.id ASC`
	return r.listMembersWithUsers(ctx, query, tripID)
}

// ListByTeamID returns the members assigned to a team, user rows populated.
func (r *postgresMemberRepository) ListByTeamID(ctx context.Context, teamID int) ([]models.Member, error) {
	query := `
		SELECT
			m.id, m.trip_id, m.user_id, m.team_id, m.role, m.joined_at,
			u.id, u.first_name, u.last_name, u.nickname, u.email, u.role, u.handicap_index, u.avatar_key, u.created_at
		FROM trip_members m
		JOIN users u ON m.user_id = u.id
		WHERE m.team_id = $1
		ORDER BY u.handicap_index ASC, m.id ASC`
	return r.listMembersWithUsers(ctx, query, teamID)
}

func (r *postgresMemberRepository) SetTeam(ctx context.Context, exec SQLExecutor, memberID int, teamID *int) error {
	executor := r.getExecutor(exec)
	query := `UPDATE trip_members SET team_id = $1 WHERE id = $2`
	result, err := executor.ExecContext(ctx, query, teamID, memberID)
	if err != nil {
		return r.handleMemberError(err)
	}
	return checkAffectedRows(result, ErrMemberNotFound)
}

func (r *postgresMemberRepository) UpdateRole(ctx context.Context, memberID int, role models.MemberRole) error {
	query := `UPDATE trip_members SET role = $1 WHERE id = $2`
	result, err := r.db.ExecContext(ctx, query, role, memberID)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrMemberNotFound)
}

func (r *postgresMemberRepository) Delete(ctx context.Context, id int) error {
	query := `DELETE FROM trip_members WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrMemberNotFound)
}

func (r *postgresMemberRepository) scanMember(ctx context.Context, query string, args ...interface{}) (*models.Member, error) {
	member := &models.Member{}
	err := r.db.QueryRowContext(ctx, query, args...).Scan(
		&member.ID,
		&member.TripID,
		&member.UserID,
		&member.TeamID,
		&member.Role,
		&member.JoinedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMemberNotFound
		}
		return nil, err
	}
	return member, nil
}

func (r *postgresMemberRepository) listMembersWithUsers(ctx context.Context, query string, args ...interface{}) ([]models.Member, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list trip members: %w", err)
	}
	defer rows.Close()

	members := make([]models.Member, 0)
	for rows.Next() {
		var member models.Member
		var user models.User
		if scanErr := rows.Scan(
			&member.ID, &member.TripID, &member.UserID, &member.TeamID, &member.Role, &member.JoinedAt,
			&user.ID, &user.FirstName, &user.LastName, &user.Nickname, &user.Email,
			&user.Role, &user.HandicapIndex, &user.AvatarKey, &user.CreatedAt,
		); scanErr != nil {
			return nil, fmt.Errorf("failed to scan trip member with user: %w", scanErr)
		}
		member.User = &user
		members = append(members, member)
	}

	return members, rows.Err()
}

func (r *postgresMemberRepository) handleMemberError(err error) error {
	if err == nil {
		return nil
	}
	if pqErr, ok := err.(*pq.Error); ok {
		switch pqErr.Code {
		case "23505":
			if pqErr.Constraint == "trip_members_trip_id_user_id_key" {
				return ErrMemberConflict
			}
		case "23503":
			switch pqErr.Constraint {
			case "trip_members_trip_id_fkey":
				return ErrMemberTripInvalid
			case "trip_members_user_id_fkey":
				return ErrMemberUserInvalid
			case "trip_members_team_id_fkey":
				return ErrMemberTeamInvalid
			}
		}
	}
	return err
}
