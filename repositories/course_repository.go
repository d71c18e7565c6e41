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
	ErrCourseNotFound      = errors.New("course not found")
	ErrTeeSetNotFound      = errors.New("tee set not found")
	ErrTeeSetNameConflict  = errors.New("tee set name conflict for this course")
	ErrTeeSetCourseInvalid = errors.New("invalid course reference")
	ErrTeeSetInUse         = errors.New("tee set is referenced by sessions")
	ErrCourseSessionsExist = errors.New("course has tee sets referenced by sessions")
)

type CourseRepository interface {
	Create(ctx context.Context, course *models.Course) error
	GetByID(ctx context.Context, id int) (*models.Course, error)
	List(ctx context.Context) ([]models.Course, error)
	Update(ctx context.Context, course *models.Course) error
	Delete(ctx context.Context, id int) error

	CreateTeeSet(ctx context.Context, teeSet *models.TeeSet) error
	GetTeeSetByID(ctx context.Context, id int) (*models.TeeSet, error)
	ListTeeSetsByCourseID(ctx context.Context, courseID int) ([]models.TeeSet, error)
	UpdateTeeSet(ctx context.Context, teeSet *models.TeeSet) error
	DeleteTeeSet(ctx context.Context, id int) error
}

type postgresCourseRepository struct {
	db *sql.DB
}

func NewPostgresCourseRepository(db *sql.DB) CourseRepository {
	return &postgresCourseRepository{db: db}
}

func (r *postgresCourseRepository) Create(ctx context.Context, course *models.Course) error {
	query := `
		INSERT INTO courses (name, location)
		VALUES ($1, $2)
		RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query, course.Name, course.Location).
		Scan(&course.ID, &course.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create course: %w", err)
	}
	return nil
}

func (r *postgresCourseRepository) GetByID(ctx context.Context, id int) (*models.Course, error) {
	query := `
		SELECT id, name, location, created_at
		FROM courses
		WHERE id = $1`

	course := &models.Course{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&course.ID, &course.Name, &course.Location, &course.CreatedAt,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCourseNotFound
		}
		return nil, err
	}
	return course, nil
}

func (r *postgresCourseRepository) List(ctx context.Context) ([]models.Course, error) {
	query := `
		SELECT id, name, location, created_at
		FROM courses
		ORDER BY name ASC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	courses := make([]models.Course, 0)
	for rows.Next() {
		var course models.Course
		if scanErr := rows.Scan(&course.ID, &course.Name, &course.Location, &course.CreatedAt); scanErr != nil {
			return nil, scanErr
		}
		courses = append(courses, course)
	}

	return courses, rows.Err()
}

func (r *postgresCourseRepository) Update(ctx context.Context, course *models.Course) error {
	query := `UPDATE courses SET name = $1, location = $2 WHERE id = $3`
	result, err := r.db.ExecContext(ctx, query, course.Name, course.Location, course.ID)
	if err != nil {
		return err
	}
	return checkAffectedRows(result, ErrCourseNotFound)
}

func (r *postgresCourseRepository) Delete(ctx context.Context, id int) error {
	query := `DELETE FROM courses WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23503" {
			return ErrCourseSessionsExist
		}
		return err
	}
	return checkAffectedRows(result, ErrCourseNotFound)
}

func (r *postgresCourseRepository) CreateTeeSet(ctx context.Context, teeSet *models.TeeSet) error {
	query := `
		INSERT INTO tee_sets (course_id, name, rating, slope, holes, hole_pars, hole_rankings)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query,
		teeSet.CourseID,
		teeSet.Name,
		teeSet.Rating,
		teeSet.Slope,
		teeSet.Holes,
		pq.Array(teeSet.HolePars),
		pq.Array(teeSet.HoleRankings),
	).Scan(&teeSet.ID, &teeSet.CreatedAt)

	return r.handleTeeSetError(err)
}

func (r *postgresCourseRepository) GetTeeSetByID(ctx context.Context, id int) (*models.TeeSet, error) {
	query := `
		SELECT id, course_id, name, rating, slope, holes, hole_pars, hole_rankings, created_at
		FROM tee_sets
		WHERE id = $1`

	teeSet := &models.TeeSet{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&teeSet.ID,
		&teeSet.CourseID,
		&teeSet.Name,
		&teeSet.Rating,
		&teeSet.Slope,
		&teeSet.Holes,
		pq.Array(&teeSet.HolePars),
		pq.Array(&teeSet.HoleRankings),
		&teeSet.CreatedAt,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTeeSetNotFound
		}
		return nil, err
	}
	return teeSet, nil
}

func (r *postgresCourseRepository) ListTeeSetsByCourseID(ctx context.Context, courseID int) ([]models.TeeSet, error) {
	query := `
		SELECT id, course_id, name, rating, slope, holes, hole_pars, hole_rankings, created_at
		FROM tee_sets
		WHERE course_id = $1
		ORDER BY name ASC`

	rows, err := r.db.QueryContext(ctx, query, courseID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	teeSets := make([]models.TeeSet, 0)
	for rows.Next() {
		var teeSet models.TeeSet
		if scanErr := rows.Scan(
			&teeSet.ID,
			&teeSet.CourseID,
			&teeSet.Name,
			&teeSet.Rating,
			&teeSet.Slope,
			&teeSet.Holes,
			pq.Array(&teeSet.HolePars),
			pq.Array(&teeSet.HoleRankings),
			&teeSet.CreatedAt,
		); scanErr != nil {
			return nil, fmt.Errorf("failed to scan tee set: %w", scanErr)
		}
		teeSets = append(teeSets, teeSet)
	}

	return teeSets, rows.Err()
}

func (r *postgresCourseRepository) UpdateTeeSet(ctx context.Context, teeSet *models.TeeSet) error {
	query := `
		UPDATE tee_sets SET
			name = $1,
			rating = $2,
			slope = $3,
			holes = $4,
			hole_pars = $5,
			hole_rankings = $6
		WHERE id = $7`

	result, err := r.db.ExecContext(ctx, query,
		teeSet.Name,
		teeSet.Rating,
		teeSet.Slope,
		teeSet.Holes,
		pq.Array(teeSet.HolePars),
		pq.Array(teeSet.HoleRankings),
		teeSet.ID,
	)

	if err != nil {
		return r.handleTeeSetError(err)
	}

	return checkAffectedRows(result, ErrTeeSetNotFound)
}

func (r *postgresCourseRepository) DeleteTeeSet(ctx context.Context, id int) error {
	query := `DELETE FROM tee_sets WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23503" {
			return ErrTeeSetInUse
		}
		return err
	}
	return checkAffectedRows(result, ErrTeeSetNotFound)
}

func (r *postgresCourseRepository) handleTeeSetError(err error) error {
	if err == nil {
		return nil
	}
	if pqErr, ok := err.(*pq.Error); ok {
		switch pqErr.Code {
		case "23505":
			if pqErr.Constraint == "tee_sets_course_id_name_key" {
				return ErrTeeSetNameConflict
			}
		case "23503":
			if pqErr.Constraint == "tee_sets_course_id_fkey" {
				return ErrTeeSetCourseInvalid
			}
		}
	}
	return err
}
