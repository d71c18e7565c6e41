package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/fairwaylabs/trip-system/models"
	"github.com/lib/pq"
)

var (
	ErrTripNotFound         = errors.New("trip not found")
	ErrTripInvalidOrganizer = errors.New("invalid organizer reference")
)

type ListTripsFilter struct {
	OrganizerID *int
	MemberID    *int
	Status      *models.TripStatus
	Limit       int
	Offset      int
}

type TripRepository interface {
	Create(ctx context.Context, exec SQLExecutor, trip *models.Trip) error
	GetByID(ctx context.Context, id int) (*models.Trip, error)
	List(ctx context.Context, filter ListTripsFilter) ([]models.Trip, error)
	Update(ctx context.Context, trip *models.Trip) error
	UpdateStatus(ctx context.Context, exec SQLExecutor, id int, status models.TripStatus) error
	Delete(ctx context.Context, id int) error
	GetTripsForAutoStatusUpdate(ctx context.Context, exec SQLExecutor, currentTime time.Time) ([]*models.Trip, error)
	Count(ctx context.Context) (int, error)
	CountByStatus(ctx context.Context, status models.TripStatus) (int, error)
}

type postgresTripRepository struct {
	db *sql.DB
}

func NewPostgresTripRepository(db *sql.DB) TripRepository {
	return &postgresTripRepository{db: db}
}

func (r *postgresTripRepository) getExecutor(exec SQLExecutor) SQLExecutor {
	if exec != nil {
		return exec
	}
	return r.db
}

func (r *postgresTripRepository) Create(ctx context.Context, exec SQLExecutor, trip *models.Trip) error {
	executor := r.getExecutor(exec)
	query := `
		INSERT INTO trips (name, description, location, organizer_id, start_date, end_date, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at`

	err := executor.QueryRowContext(ctx, query,
		trip.Name,
		trip.Description,
		trip.Location,
		trip.OrganizerID,
		trip.StartDate,
		trip.EndDate,
		trip.Status,
	).Scan(&trip.ID, &trip.CreatedAt)

	return r.handleTripError(err)
}

func (r *postgresTripRepository) GetByID(ctx context.Context, id int) (*models.Trip, error) {
	query := `
		SELECT id, name, description, location, organizer_id, start_date, end_date, status, created_at
		FROM trips
		WHERE id = $1`

	trip := &models.Trip{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&trip.ID, &trip.Name, &trip.Description, &trip.Location, &trip.OrganizerID,
		&trip.StartDate, &trip.EndDate, &trip.Status, &trip.CreatedAt,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTripNotFound
		}
		return nil, err
	}
	return trip, nil
}

func (r *postgresTripRepository) List(ctx context.Context, filter ListTripsFilter) ([]models.Trip, error) {
	query := `
		SELECT t.id, t.name, t.description, t.location, t.organizer_id, t.start_date, t.end_date, t.status, t.created_at
		FROM trips t`

	args := []interface{}{}
	argID := 1

	if filter.MemberID != nil {
		query += fmt.Sprintf(" JOIN trip_members m ON m.trip_id = t.id AND m.user_id = $%d", argID)
		args = append(args, *filter.MemberID)
		argID++
	}

	query += " WHERE 1=1"

	if filter.OrganizerID != nil {
		query += fmt.Sprintf(" AND t.organizer_id = $%d", argID)
		args = append(args, *filter.OrganizerID)
		argID++
	}
	if filter.Status != nil {
		query += fmt.Sprintf(" AND t.status = $%d", argID)
		args = append(args, *filter.Status)
		argID++
	}

	query += " ORDER BY t.start_date DESC, t.created_at DESC"

	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d", argID)
		args = append(args, filter.Limit)
		argID++
	}
	if filter.Offset > 0 {
		query += fmt.Sprintf(" OFFSET $%d", argID)
		args = append(args, filter.Offset)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	trips := make([]models.Trip, 0)
	for rows.Next() {
		var trip models.Trip
		if scanErr := rows.Scan(
			&trip.ID, &trip.Name, &trip.Description, &trip.Location, &trip.OrganizerID,
			&trip.StartDate, &trip.EndDate, &trip.Status, &trip.CreatedAt,
		); scanErr != nil {
			return nil, scanErr
		}
		trips = append(trips, trip)
	}

	return trips, rows.Err()
}

func (r *postgresTripRepository) Update(ctx context.Context, trip *models.Trip) error {
	query := `
		UPDATE trips SET
			name = $1,
			description = $2,
			location = $3,
			start_date = $4,
			end_date = $5,
			status = $6
		WHERE id = $7`

	result, err := r.db.ExecContext(ctx, query,
		trip.Name, trip.Description, trip.Location,
		trip.StartDate, trip.EndDate, trip.Status,
		trip.ID,
	)

	if err != nil {
		return r.handleTripError(err)
	}

	return checkAffectedRows(result, ErrTripNotFound)
}

func (r *postgresTripRepository) UpdateStatus(ctx context.Context, exec SQLExecutor, id int, status models.TripStatus) error {
	executor := r.getExecutor(exec)
	query := `UPDATE trips SET status = $1 WHERE id = $2`
	result, err := executor.ExecContext(ctx, query, status, id)
	if err != nil {
		return r.handleTripError(err)
	}
	return checkAffectedRows(result, ErrTripNotFound)
}

func (r *postgresTripRepository) Delete(ctx context.Context, id int) error {
	query := `DELETE FROM trips WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return r.handleTripError(err)
	}
	return checkAffectedRows(result, ErrTripNotFound)
}

// GetTripsForAutoStatusUpdate returns trips whose status lags behind their dates:
// planning trips past their start and active trips past their end.
func (r *postgresTripRepository) GetTripsForAutoStatusUpdate(ctx context.Context, exec SQLExecutor, currentTime time.Time) ([]*models.Trip, error) {
	executor := r.getExecutor(exec)
	query := `
		SELECT id, name, description, location, organizer_id, start_date, end_date, status, created_at
		FROM trips
		WHERE (status = $1 AND start_date <= $3)
		   OR (status = $2 AND end_date <= $3)`

	rows, err := executor.QueryContext(ctx, query, models.TripStatusPlanning, models.TripStatusActive, currentTime)
	if err != nil {
		return nil, fmt.Errorf("failed to query trips for auto status update: %w", err)
	}
	defer rows.Close()

	var trips []*models.Trip
	for rows.Next() {
		var trip models.Trip
		if scanErr := rows.Scan(
			&trip.ID, &trip.Name, &trip.Description, &trip.Location, &trip.OrganizerID,
			&trip.StartDate, &trip.EndDate, &trip.Status, &trip.CreatedAt,
		); scanErr != nil {
			return nil, fmt.Errorf("failed to scan trip for auto status update: %w", scanErr)
		}
		trips = append(trips, &trip)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error during trip rows iteration for auto status update: %w", err)
	}
	return trips, nil
}

func (r *postgresTripRepository) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM trips`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count trips: %w", err)
	}
	return count, nil
}

func (r *postgresTripRepository) CountByStatus(ctx context.Context, status models.TripStatus) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM trips WHERE status = $1`, status).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count trips by status: %w", err)
	}
	return count, nil
}

func (r *postgresTripRepository) handleTripError(err error) error {
	if err == nil {
		return nil
	}
	if pqErr, ok := err.(*pq.Error); ok {
		if pqErr.Code == "23503" && pqErr.Constraint == "trips_organizer_id_fkey" {
			return ErrTripInvalidOrganizer
		}
	}
	return err
}
