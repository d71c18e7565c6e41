package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/fairwaylabs/trip-system/matchplay"
	"github.com/fairwaylabs/trip-system/models"
	"github.com/fairwaylabs/trip-system/repositories"
)

var (
	ErrTeeSetNameConflict = errors.New("tee set name already exists for this course")
	ErrTeeSetInUse        = errors.New("tee set is referenced by existing sessions")
	ErrCourseInUse        = errors.New("course is referenced by existing sessions")
)

type CreateCourseInput struct {
	Name     string  `json:"name"`
	Location *string `json:"location"`
}

type UpdateCourseInput struct {
	Name     *string `json:"name"`
	Location *string `json:"location"`
}

type TeeSetInput struct {
	Name         string  `json:"name"`
	Rating       float64 `json:"rating"`
	Slope        int     `json:"slope"`
	Holes        int     `json:"holes"`
	HolePars     []int   `json:"hole_pars"`
	HoleRankings []int   `json:"hole_rankings"`
}

type CourseService interface {
	Create(ctx context.Context, input CreateCourseInput) (*models.Course, error)
	GetByID(ctx context.Context, id int) (*models.Course, error)
	List(ctx context.Context) ([]models.Course, error)
	Update(ctx context.Context, id int, input UpdateCourseInput) (*models.Course, error)
	Delete(ctx context.Context, id int) error

	AddTeeSet(ctx context.Context, courseID int, input TeeSetInput) (*models.TeeSet, error)
	GetTeeSet(ctx context.Context, teeSetID int) (*models.TeeSet, error)
	UpdateTeeSet(ctx context.Context, teeSetID int, input TeeSetInput) (*models.TeeSet, error)
	DeleteTeeSet(ctx context.Context, teeSetID int) error
}

type courseService struct {
	courseRepo repositories.CourseRepository
}

func NewCourseService(courseRepo repositories.CourseRepository) CourseService {
	return &courseService{courseRepo: courseRepo}
}

func (s *courseService) Create(ctx context.Context, input CreateCourseInput) (*models.Course, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, ErrCourseNameRequired
	}

	course := &models.Course{
		Name:     name,
		Location: input.Location,
	}

	if err := s.courseRepo.Create(ctx, course); err != nil {
		return nil, fmt.Errorf("failed to create course: %w", err)
	}
	return course, nil
}

// GetByID returns the course with all of its tee sets attached.
func (s *courseService) GetByID(ctx context.Context, id int) (*models.Course, error) {
	course, err := s.courseRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrCourseNotFound) {
			return nil, ErrCourseNotFound
		}
		return nil, fmt.Errorf("failed to get course %d: %w", id, err)
	}

	teeSets, err := s.courseRepo.ListTeeSetsByCourseID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to list tee sets for course %d: %w", id, err)
	}
	course.TeeSets = teeSets

	return course, nil
}

func (s *courseService) List(ctx context.Context) ([]models.Course, error) {
	courses, err := s.courseRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list courses: %w", err)
	}
	return courses, nil
}

func (s *courseService) Update(ctx context.Context, id int, input UpdateCourseInput) (*models.Course, error) {
	course, err := s.courseRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrCourseNotFound) {
			return nil, ErrCourseNotFound
		}
		return nil, fmt.Errorf("failed to get course %d: %w", id, err)
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, ErrCourseNameRequired
		}
		course.Name = name
	}
	if input.Location != nil {
		course.Location = input.Location
	}

	if err := s.courseRepo.Update(ctx, course); err != nil {
		if errors.Is(err, repositories.ErrCourseNotFound) {
			return nil, ErrCourseNotFound
		}
		return nil, fmt.Errorf("failed to update course %d: %w", id, err)
	}
	return course, nil
}

func (s *courseService) Delete(ctx context.Context, id int) error {
	err := s.courseRepo.Delete(ctx, id)
	if err != nil {
		switch {
		case errors.Is(err, repositories.ErrCourseNotFound):
			return ErrCourseNotFound
		case errors.Is(err, repositories.ErrCourseSessionsExist):
			return ErrCourseInUse
		}
		return fmt.Errorf("failed to delete course %d: %w", id, err)
	}
	return nil
}

func (s *courseService) AddTeeSet(ctx context.Context, courseID int, input TeeSetInput) (*models.TeeSet, error) {
	if _, err := s.courseRepo.GetByID(ctx, courseID); err != nil {
		if errors.Is(err, repositories.ErrCourseNotFound) {
			return nil, ErrCourseNotFound
		}
		return nil, fmt.Errorf("failed to get course %d: %w", courseID, err)
	}

	if err := validateTeeSetInput(input); err != nil {
		return nil, err
	}

	teeSet := &models.TeeSet{
		CourseID:     courseID,
		Name:         strings.TrimSpace(input.Name),
		Rating:       input.Rating,
		Slope:        input.Slope,
		Holes:        input.Holes,
		HolePars:     models.ToInt64s(input.HolePars),
		HoleRankings: models.ToInt64s(input.HoleRankings),
	}

	err := s.courseRepo.CreateTeeSet(ctx, teeSet)
	if err != nil {
		switch {
		case errors.Is(err, repositories.ErrTeeSetNameConflict):
			return nil, ErrTeeSetNameConflict
		case errors.Is(err, repositories.ErrTeeSetCourseInvalid):
			return nil, ErrCourseNotFound
		}
		return nil, fmt.Errorf("failed to create tee set: %w", err)
	}
	return teeSet, nil
}

func (s *courseService) GetTeeSet(ctx context.Context, teeSetID int) (*models.TeeSet, error) {
	teeSet, err := s.courseRepo.GetTeeSetByID(ctx, teeSetID)
	if err != nil {
		if errors.Is(err, repositories.ErrTeeSetNotFound) {
			return nil, ErrTeeSetNotFound
		}
		return nil, fmt.Errorf("failed to get tee set %d: %w", teeSetID, err)
	}
	return teeSet, nil
}

func (s *courseService) UpdateTeeSet(ctx context.Context, teeSetID int, input TeeSetInput) (*models.TeeSet, error) {
	teeSet, err := s.GetTeeSet(ctx, teeSetID)
	if err != nil {
		return nil, err
	}

	if err := validateTeeSetInput(input); err != nil {
		return nil, err
	}

	teeSet.Name = strings.TrimSpace(input.Name)
	teeSet.Rating = input.Rating
	teeSet.Slope = input.Slope
	teeSet.Holes = input.Holes
	teeSet.HolePars = models.ToInt64s(input.HolePars)
	teeSet.HoleRankings = models.ToInt64s(input.HoleRankings)

	err = s.courseRepo.UpdateTeeSet(ctx, teeSet)
	if err != nil {
		switch {
		case errors.Is(err, repositories.ErrTeeSetNotFound):
			return nil, ErrTeeSetNotFound
		case errors.Is(err, repositories.ErrTeeSetNameConflict):
			return nil, ErrTeeSetNameConflict
		}
		return nil, fmt.Errorf("failed to update tee set %d: %w", teeSetID, err)
	}
	return teeSet, nil
}

func (s *courseService) DeleteTeeSet(ctx context.Context, teeSetID int) error {
	err := s.courseRepo.DeleteTeeSet(ctx, teeSetID)
	if err != nil {
		switch {
		case errors.Is(err, repositories.ErrTeeSetNotFound):
			return ErrTeeSetNotFound
		case errors.Is(err, repositories.ErrTeeSetInUse):
			return ErrTeeSetInUse
		}
		return fmt.Errorf("failed to delete tee set %d: %w", teeSetID, err)
	}
	return nil
}

// validateTeeSetInput runs the scorecard through the same checks the scoring
// engine applies, so bad cards are rejected before a session ever uses them.
func validateTeeSetInput(input TeeSetInput) error {
	if strings.TrimSpace(input.Name) == "" {
		return fmt.Errorf("%w: tee set name is required", ErrValidationFailed)
	}
	if input.Holes != 9 && input.Holes != 18 {
		return fmt.Errorf("%w: a tee set must have 9 or 18 holes", ErrValidationFailed)
	}
	if input.Rating < 50 || input.Rating > 90 {
		return fmt.Errorf("%w: course rating %.1f is out of range", ErrValidationFailed, input.Rating)
	}
	if input.Slope < 55 || input.Slope > 155 {
		return fmt.Errorf("%w: slope %d is out of range 55..155", ErrValidationFailed, input.Slope)
	}
	if err := matchplay.ValidatePars(input.HolePars, input.Holes); err != nil {
		return fmt.Errorf("%w: %v", ErrValidationFailed, err)
	}
	if len(input.HoleRankings) != input.Holes {
		return fmt.Errorf("%w: %d rankings for %d holes", ErrValidationFailed, len(input.HoleRankings), input.Holes)
	}
	if err := matchplay.ValidateRankings(input.HoleRankings); err != nil {
		return fmt.Errorf("%w: %v", ErrValidationFailed, err)
	}
	return nil
}
